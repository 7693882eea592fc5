//go:build !govips || !cgo

package processor

import (
	"fmt"
	"image"
	"io"

	"github.com/chai2010/webp"
)

type webpEncoder struct{}

func (webpEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	if err := webp.Encode(w, straightRGBA(img), &webp.Options{Quality: float32(quality)}); err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	return nil
}

func (webpEncoder) Extension() string { return ".webp" }

// straightRGBA relabels NRGBA pixels as *image.RGBA without premultiplying.
// The encoder forwards *image.RGBA bytes to libwebp untouched, and libwebp
// expects straight alpha; any other type it premultiplies first.
func straightRGBA(img image.Image) image.Image {
	n, ok := img.(*image.NRGBA)
	if !ok {
		return img
	}
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}
