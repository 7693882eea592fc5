package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"webpify/internal/processor"
	"webpify/internal/tui"
)

var convertFlags optionFlags

var convertCmd = &cobra.Command{
	Use:   "convert [flags] <dir>",
	Short: "Convert every supported image in a directory to WebP",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts := convertFlags.resolve(cmd, cfg, processor.ModeConvert)
		if err := opts.Validate(); err != nil {
			return err
		}

		files, err := processor.ListInputs(dir)
		if err != nil {
			return fmt.Errorf("input directory: %w", err)
		}
		if len(files) == 0 {
			printNoInputs(os.Stdout, dir)
			return errNothingConverted
		}

		printBanner(os.Stdout, len(files), dir, opts)
		summary, err := runBatch(cmd, dir, opts, cfg)
		if err != nil && len(summary.Outcomes) == 0 {
			return err
		}

		fmt.Fprintln(os.Stdout, tui.RenderOutcomes(summary.Outcomes))
		fmt.Fprintln(os.Stdout, tui.RenderSummary(tui.SummaryRows(summary)))

		outPath := opts.OutputDirFor(dir)
		if abs, absErr := filepath.Abs(outPath); absErr == nil {
			outPath = abs
		}
		fmt.Fprintf(os.Stdout, "WebP files written to: %s\n", outPath)

		if err != nil {
			return err
		}
		if summary.Succeeded == 0 {
			return errNothingConverted
		}
		return nil
	},
}

func init() {
	convertFlags.bind(convertCmd, true)
	rootCmd.AddCommand(convertCmd)
}
