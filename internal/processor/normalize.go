package processor

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ColorMode is the closed set of source colour representations the
// pipeline understands.
type ColorMode int

const (
	ModeGrayscale ColorMode = iota + 1
	ModePalette
	ModeRGB
	ModeRGBA
	ModeCMYK
)

func (m ColorMode) String() string {
	switch m {
	case ModeGrayscale:
		return "grayscale"
	case ModePalette:
		return "palette"
	case ModeRGB:
		return "rgb"
	case ModeRGBA:
		return "rgba"
	case ModeCMYK:
		return "cmyk"
	default:
		return "unknown"
	}
}

// ModeOf classifies a decoded image. Go has no packed RGB buffer, so opaque
// RGBA buffers and YCbCr count as RGB.
func ModeOf(img image.Image) (ColorMode, error) {
	switch m := img.(type) {
	case *image.Gray, *image.Gray16:
		return ModeGrayscale, nil
	case *image.Paletted:
		return ModePalette, nil
	case *image.CMYK:
		return ModeCMYK, nil
	case *image.YCbCr:
		return ModeRGB, nil
	case *image.NYCbCrA:
		return ModeRGBA, nil
	case *image.RGBA:
		if m.Opaque() {
			return ModeRGB, nil
		}
		return ModeRGBA, nil
	case *image.RGBA64:
		if m.Opaque() {
			return ModeRGB, nil
		}
		return ModeRGBA, nil
	case *image.NRGBA:
		if m.Opaque() {
			return ModeRGB, nil
		}
		return ModeRGBA, nil
	case *image.NRGBA64:
		if m.Opaque() {
			return ModeRGB, nil
		}
		return ModeRGBA, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedMode, img)
	}
}

// Normalized is a direct-colour image ready for cropping and encoding.
// Mode is always ModeRGB or ModeRGBA.
type Normalized struct {
	Image     *image.NRGBA
	Mode      ColorMode
	Source    ColorMode
	Flattened bool
}

// Normalize expands img into straight-alpha NRGBA. With compositeOnWhite,
// any alpha is flattened onto an opaque white canvas.
func Normalize(img image.Image, compositeOnWhite bool) (*Normalized, error) {
	source, err := ModeOf(img)
	if err != nil {
		return nil, err
	}

	var mode ColorMode
	switch source {
	case ModePalette:
		mode = ModeRGB
		if paletteHasAlpha(img.(*image.Paletted).Palette) {
			mode = ModeRGBA
		}
	case ModeGrayscale, ModeCMYK, ModeRGB:
		// CMYK goes through color.CMYK's subtractive conversion.
		mode = ModeRGB
	case ModeRGBA:
		mode = ModeRGBA
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMode, source)
	}

	// Clone yields a zero-origin straight-alpha copy; NRGBA input is
	// copied verbatim.
	out := imaging.Clone(img)

	flattened := false
	if mode == ModeRGBA && compositeOnWhite {
		compositeOverWhite(out)
		mode = ModeRGB
		flattened = true
	}

	return &Normalized{Image: out, Mode: mode, Source: source, Flattened: flattened}, nil
}

func paletteHasAlpha(p color.Palette) bool {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}

// compositeOverWhite blends every pixel onto white in place and leaves the
// image fully opaque.
func compositeOverWhite(img *image.NRGBA) {
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := uint32(img.Pix[i+3])
		if a == 0xff {
			continue
		}
		for c := 0; c < 3; c++ {
			v := uint32(img.Pix[i+c])
			img.Pix[i+c] = uint8((v*a + 0xff*(0xff-a) + 127) / 0xff)
		}
		img.Pix[i+3] = 0xff
	}
}
