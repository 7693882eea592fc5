package processor

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ScaledSize returns the target dimensions for ratio, never below 1x1.
func ScaledSize(width, height int, ratio float64) (int, int) {
	w := int(math.Round(float64(width) * ratio))
	h := int(math.Round(float64(height) * ratio))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Scale resamples img by ratio with a Lanczos filter. A ratio of 0 or 1
// returns img unchanged.
func Scale(img *image.NRGBA, ratio float64) *image.NRGBA {
	if ratio <= 0 || ratio == 1 {
		return img
	}
	b := img.Bounds()
	w, h := ScaledSize(b.Dx(), b.Dy(), ratio)
	if w == b.Dx() && h == b.Dy() {
		return img
	}
	return imaging.Resize(img, w, h, imaging.Lanczos)
}
