package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"
)

var (
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	red   = color.NRGBA{R: 0xff, A: 0xff}
	green = color.NRGBA{G: 0xff, A: 0xff}
	blue  = color.NRGBA{B: 0xff, A: 0xff}
	gold  = color.NRGBA{R: 0xff, G: 0xc0, A: 0xff}
)

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	fill(img, img.Bounds(), c)
	return img
}

func fill(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

// quadrants paints four distinct colours so no two corners agree.
func quadrants(img *image.NRGBA, r image.Rectangle) {
	mx := r.Min.X + r.Dx()/2
	my := r.Min.Y + r.Dy()/2
	fill(img, image.Rect(r.Min.X, r.Min.Y, mx, my), red)
	fill(img, image.Rect(mx, r.Min.Y, r.Max.X, my), green)
	fill(img, image.Rect(r.Min.X, my, mx, r.Max.Y), blue)
	fill(img, image.Rect(mx, my, r.Max.X, r.Max.Y), gold)
}

// framed returns a w x h image with an n-pixel border of c around
// quadrant-coloured content.
func framed(w, h, n int, c color.NRGBA) *image.NRGBA {
	img := solid(w, h, c)
	quadrants(img, image.Rect(n, n, w-n, h-n))
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeJPEG(t *testing.T, path string, img image.Image) {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func decodeSize(t *testing.T, path string) image.Point {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode config %s: %v", path, err)
	}
	if format != "webp" {
		t.Fatalf("expected webp output, got %q", format)
	}
	return image.Pt(cfg.Width, cfg.Height)
}
