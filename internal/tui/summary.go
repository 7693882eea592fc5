package tui

import (
	"fmt"
	"strings"

	"webpify/internal/processor"
)

type SummaryRow struct {
	Label string
	Value string
}

func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	hline := strings.Repeat("-", labelWidth+valueWidth+3)
	lines := []string{hline}

	for _, row := range rows {
		label := padRight(row.Label, labelWidth)
		value := padRight(row.Value, valueWidth)
		line := fmt.Sprintf("%s | %s", labelStyle.Render(label), valueStyle.Render(value))
		lines = append(lines, line)
	}

	lines = append(lines, hline)
	return strings.Join(lines, "\n")
}

// SummaryRows builds the totals table for a finished batch.
func SummaryRows(s processor.Summary) []SummaryRow {
	return []SummaryRow{
		{Label: "Files converted", Value: s.String()},
		{Label: "Failed", Value: fmt.Sprintf("%d", s.Failed)},
		{Label: "Input size", Value: FormatBytes(s.BytesIn)},
		{Label: "Output size", Value: FormatBytes(s.BytesOut)},
		{Label: "Space saved", Value: FormatBytes(s.BytesSaved())},
	}
}

// RenderOutcomes lists one status line per file, failures with their reason.
func RenderOutcomes(outcomes []processor.Outcome) string {
	lines := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if !o.Succeeded() {
			lines = append(lines, fmt.Sprintf("%s %s %s",
				failStyle.Render("x"), labelStyle.Render(o.Name), dimStyle.Render(o.Reason)))
			continue
		}
		detail := fmt.Sprintf("%dx%d", o.FinalSize.X, o.FinalSize.Y)
		if o.Cropped {
			detail += " cropped"
		}
		if o.Scaled {
			detail += " scaled"
		}
		lines = append(lines, fmt.Sprintf("%s %s %s",
			okStyle.Render("ok"), labelStyle.Render(o.Name), dimStyle.Render(detail)))
	}
	return strings.Join(lines, "\n")
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
