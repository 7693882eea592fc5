package processor

import (
	"image"
	"io"
)

// Encoder writes an image in the output format at the given quality.
type Encoder interface {
	Encode(w io.Writer, img image.Image, quality int) error
	Extension() string
}

// NewEncoder returns the WebP encoder compiled into this build.
func NewEncoder() (Encoder, error) {
	return newEncoder()
}
