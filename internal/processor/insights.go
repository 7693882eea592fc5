package processor

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// buildInsights explains what a conversion of out would do under opts.
func buildInsights(out Outcome, opts Options) []Insight {
	insights := []Insight{}

	if border := buildBorderInsight(out, opts); border != nil {
		insights = append(insights, *border)
	}

	if alpha := buildAlphaInsight(out); alpha != nil {
		insights = append(insights, *alpha)
	}

	if out.SourceMode == ModeCMYK {
		insights = append(insights, Insight{
			Kind:    "Color",
			Message: "CMYK source will be converted to RGB; printed colours may shift.",
		})
	}

	if out.Oriented {
		insights = append(insights, Insight{
			Kind:    "Orientation",
			Message: "EXIF orientation applied; output pixels are rotated upright.",
		})
	}

	if scale := buildScaleInsight(out, opts); scale != nil {
		insights = append(insights, *scale)
	}

	return insights
}

func buildBorderInsight(out Outcome, opts Options) *Insight {
	if !opts.Crop {
		return nil
	}
	if !out.Cropped {
		return &Insight{Kind: "Border", Message: "No uniform border found; image is kept at full size."}
	}

	w, h := out.OriginalSize.X, out.OriginalSize.Y
	box := out.CropBox
	msg := fmt.Sprintf("Border %s trimmed: left %d, top %d, right %d, bottom %d px",
		hexColor(out.BorderColor), box.Left, box.Top, w-box.Right, h-box.Bottom)
	return &Insight{Kind: "Border", Message: msg}
}

func buildAlphaInsight(out Outcome) *Insight {
	switch {
	case out.HasAlpha:
		return &Insight{Kind: "Transparency", Message: "Alpha channel preserved in the WebP output."}
	case out.Flattened:
		return &Insight{Kind: "Transparency", Message: "Transparent areas flattened onto white."}
	default:
		return nil
	}
}

func buildScaleInsight(out Outcome, opts Options) *Insight {
	if !out.Scaled {
		return nil
	}
	msg := fmt.Sprintf("Scaled by %g: %dx%d -> %dx%d",
		opts.Scale, out.CroppedSize.X, out.CroppedSize.Y, out.FinalSize.X, out.FinalSize.Y)
	return &Insight{Kind: "Size", Message: msg}
}

// hexColor renders c as #rrggbb, with alpha appended when translucent.
func hexColor(c Color) string {
	hex := colorful.Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
	}.Hex()
	if c.A != 0xff {
		hex += fmt.Sprintf("%02x", c.A)
	}
	return hex
}
