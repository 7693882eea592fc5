//go:build govips && cgo

package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/davidbyttow/govips/v2/vips"
)

type govipsEncoder struct{}

// Encode hands the pixels to libvips through a lossless PNG buffer.
func (govipsEncoder) Encode(w io.Writer, img image.Image, quality int) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("stage pixels: %w", err)
	}

	ref, err := vips.NewImageFromBuffer(buf.Bytes())
	if err != nil {
		return fmt.Errorf("load into vips: %w", err)
	}
	defer ref.Close()

	params := vips.NewWebpExportParams()
	params.Quality = quality
	data, _, err := ref.ExportWebp(params)
	if err != nil {
		return fmt.Errorf("encode webp: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	return nil
}

func (govipsEncoder) Extension() string { return ".webp" }
