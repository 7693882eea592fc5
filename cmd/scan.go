package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"webpify/internal/processor"
	"webpify/internal/tui"
)

var scanFlags optionFlags

var scanCmd = &cobra.Command{
	Use:   "scan [flags] <dir>",
	Short: "Report what convert would do without writing anything",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		opts := scanFlags.resolve(cmd, cfg, processor.ModeScan)
		if err := opts.Validate(); err != nil {
			return err
		}

		files, err := processor.ListInputs(dir)
		if err != nil {
			return fmt.Errorf("input directory: %w", err)
		}
		if len(files) == 0 {
			printNoInputs(os.Stdout, dir)
			return nil
		}

		printBanner(os.Stdout, len(files), dir, opts)
		summary, err := runBatch(cmd, dir, opts, cfg)

		for i, out := range summary.Outcomes {
			if i > 0 {
				fmt.Fprintln(os.Stdout)
			}
			renderScanOutcome(out)
		}
		if len(summary.Outcomes) > 0 {
			fmt.Fprintln(os.Stdout)
			fmt.Fprintf(os.Stdout, "%s\n", scanDimStyle.Render(fmt.Sprintf("%d/%d readable", summary.Succeeded, summary.Total)))
		}
		return err
	},
}

func renderScanOutcome(out processor.Outcome) {
	fmt.Fprintf(os.Stdout, "%s\n", scanFileStyle.Render(out.Name))
	if !out.Succeeded() {
		fmt.Fprintf(os.Stdout, "  %s %s\n", scanBulletStyle.Render("-"), scanErrorStyle.Render(out.Reason))
		return
	}

	fields := []string{
		fmt.Sprintf("mode: %s", out.SourceMode),
		fmt.Sprintf("size: %dx%d", out.OriginalSize.X, out.OriginalSize.Y),
		fmt.Sprintf("alpha: %s", yesNo(out.HasAlpha)),
	}
	if out.Cropped {
		fields = append(fields, fmt.Sprintf("crop: %s -> %dx%d", out.CropBox, out.CroppedSize.X, out.CroppedSize.Y))
	}
	fields = append(fields, fmt.Sprintf("output: %dx%d", out.FinalSize.X, out.FinalSize.Y))
	for _, field := range fields {
		fmt.Fprintf(os.Stdout, "  %s %s\n", scanBulletStyle.Render("-"), scanValueStyle.Render(field))
	}

	for _, insight := range out.Insights {
		fmt.Fprintf(os.Stdout, "  %s %s\n",
			scanCategoryStyle.Render(insight.Kind+":"),
			scanValueStyle.Render(insight.Message),
		)
	}
}

var (
	scanFileStyle     = lipgloss.NewStyle().Bold(true).Foreground(tui.ColorAccent)
	scanCategoryStyle = lipgloss.NewStyle().Foreground(tui.ColorAccentAlt)
	scanValueStyle    = lipgloss.NewStyle().Foreground(tui.ColorInk)
	scanDimStyle      = lipgloss.NewStyle().Foreground(tui.ColorDim)
	scanBulletStyle   = lipgloss.NewStyle().Foreground(tui.ColorDim)
	scanErrorStyle    = lipgloss.NewStyle().Foreground(tui.ColorWarn)
)

func init() {
	scanFlags.bind(scanCmd, false)
	rootCmd.AddCommand(scanCmd)
}
