package cmd

import (
	"github.com/spf13/cobra"

	"webpify/internal/config"
	"webpify/internal/processor"
)

// optionFlags holds the per-batch flags shared by convert and scan.
type optionFlags struct {
	output     string
	quality    int
	whiteBg    bool
	crop       bool
	scale      float64
	autoOrient bool
}

func (f *optionFlags) bind(cmd *cobra.Command, withOutput bool) {
	flags := cmd.Flags()
	if withOutput {
		flags.StringVarP(&f.output, "output", "o", "", "output directory (default <input>/"+processor.DefaultOutputSubdir+")")
		flags.IntVarP(&f.quality, "quality", "q", processor.DefaultQuality, "WebP quality, 0-100")
	}
	flags.BoolVarP(&f.whiteBg, "white-bg", "w", false, "flatten transparency onto a white background")
	flags.BoolVarP(&f.crop, "crop", "c", false, "trim solid-colour borders")
	flags.Float64VarP(&f.scale, "scale", "s", 0, "scale ratio in (0, 1], e.g. 0.5 for half size")
	flags.BoolVar(&f.autoOrient, "auto-orient", false, "rotate according to the EXIF orientation tag")
}

// resolve layers defaults, the config file and explicitly set flags.
func (f *optionFlags) resolve(cmd *cobra.Command, cfg *config.Config, mode processor.Mode) processor.Options {
	opts := cfg.Apply(processor.DefaultOptions())
	opts.Mode = mode

	flags := cmd.Flags()
	if flags.Changed("output") {
		opts.OutputDir = f.output
	}
	if flags.Changed("quality") {
		opts.Quality = f.quality
	}
	if flags.Changed("white-bg") {
		opts.WhiteBackground = f.whiteBg
	}
	if flags.Changed("crop") {
		opts.Crop = f.crop
	}
	if flags.Changed("scale") {
		opts.Scale = f.scale
	}
	if flags.Changed("auto-orient") {
		opts.AutoOrient = f.autoOrient
	}
	return opts
}
