package processor

import (
	"image"
	"image/color"
)

// DefaultTolerance absorbs compression noise in near-solid borders.
const DefaultTolerance = 8

// Color is an 8-bit straight-alpha pixel. Opaque pixels carry A = 255.
type Color struct {
	R, G, B, A uint8
}

// WithinTolerance reports whether every channel of a and b, alpha included,
// differs by at most threshold.
func WithinTolerance(a, b Color, threshold int) bool {
	return absDiff(a.R, b.R) <= threshold &&
		absDiff(a.G, b.G) <= threshold &&
		absDiff(a.B, b.B) <= threshold &&
		absDiff(a.A, b.A) <= threshold
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

// colorAt samples img at (x, y) relative to its bounds origin.
func colorAt(img image.Image, x, y int) Color {
	b := img.Bounds()
	if n, ok := img.(*image.NRGBA); ok {
		i := n.PixOffset(b.Min.X+x, b.Min.Y+y)
		return Color{R: n.Pix[i], G: n.Pix[i+1], B: n.Pix[i+2], A: n.Pix[i+3]}
	}
	c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
	return Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
