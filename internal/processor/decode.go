package processor

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"webpify/pkg/imgutil"
)

// source is a fully read input file.
type source struct {
	data []byte
	kind imgutil.Kind
}

func readSource(path string) (source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return source{}, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}
	kind, err := imgutil.DetectHeader(data)
	if err != nil {
		return source{}, fmt.Errorf("%w: %w", ErrUnreadableSource, err)
	}
	if kind == imgutil.KindUnknown {
		return source{}, fmt.Errorf("%w: unrecognized file signature", ErrUnreadableSource)
	}
	return source{data: data, kind: kind}, nil
}

func (s source) decode() (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(s.data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrUnreadableSource, s.kind, err)
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image", ErrUnreadableSource)
	}
	return img, nil
}
