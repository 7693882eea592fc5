package processor

import (
	"fmt"
	"image"
	"math"
)

// DefaultRowPurity is the share of a row or column that must match the
// border colour for the line to count as border.
const DefaultRowPurity = 0.99

// BoundingBox is the sub-rectangle kept after crop detection, in pixels
// relative to the image origin. Right and Bottom are exclusive.
type BoundingBox struct {
	Left, Top, Right, Bottom int
}

func FullBox(width, height int) BoundingBox {
	return BoundingBox{Right: width, Bottom: height}
}

func (b BoundingBox) Width() int  { return b.Right - b.Left }
func (b BoundingBox) Height() int { return b.Bottom - b.Top }

func (b BoundingBox) Size() image.Point {
	return image.Pt(b.Width(), b.Height())
}

// IsFull reports whether b covers the whole width x height extent.
func (b BoundingBox) IsFull(width, height int) bool {
	return b == FullBox(width, height)
}

// Rect translates b into img's coordinate space.
func (b BoundingBox) Rect(origin image.Point) image.Rectangle {
	return image.Rect(b.Left, b.Top, b.Right, b.Bottom).Add(origin)
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("(%d,%d)-(%d,%d)", b.Left, b.Top, b.Right, b.Bottom)
}

// BorderDetector finds uniform-colour padding around image content.
type BorderDetector struct {
	Tolerance int
	RowPurity float64
}

func DefaultBorderDetector() BorderDetector {
	return BorderDetector{
		Tolerance: DefaultTolerance,
		RowPurity: DefaultRowPurity,
	}
}

// DetectCropBox returns the tight box excluding a uniform border. When the
// four corners disagree the full extent is returned without scanning.
// Each side stops one line short of the opposite edge so the box is never
// empty.
func (d BorderDetector) DetectCropBox(img image.Image) BoundingBox {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	full := FullBox(w, h)
	if w == 0 || h == 0 {
		return full
	}

	corners := [4]Color{
		colorAt(img, 0, 0),
		colorAt(img, w-1, 0),
		colorAt(img, 0, h-1),
		colorAt(img, w-1, h-1),
	}
	for i := 0; i < len(corners); i++ {
		for j := i + 1; j < len(corners); j++ {
			if !WithinTolerance(corners[i], corners[j], d.Tolerance) {
				return full
			}
		}
	}
	ref := corners[0]

	top := 0
	for top < h-1 && d.rowIsBorder(img, top, ref) {
		top++
	}
	bottom := h
	for bottom-1 > top && d.rowIsBorder(img, bottom-1, ref) {
		bottom--
	}
	left := 0
	for left < w-1 && d.columnIsBorder(img, left, ref) {
		left++
	}
	right := w
	for right-1 > left && d.columnIsBorder(img, right-1, ref) {
		right--
	}

	return BoundingBox{Left: left, Top: top, Right: right, Bottom: bottom}
}

func (d BorderDetector) rowIsBorder(img image.Image, y int, ref Color) bool {
	w := img.Bounds().Dx()
	allowed := d.allowedMisses(w)
	misses := 0
	for x := 0; x < w; x++ {
		if !WithinTolerance(colorAt(img, x, y), ref, d.Tolerance) {
			misses++
			if misses > allowed {
				return false
			}
		}
	}
	return true
}

func (d BorderDetector) columnIsBorder(img image.Image, x int, ref Color) bool {
	h := img.Bounds().Dy()
	allowed := d.allowedMisses(h)
	misses := 0
	for y := 0; y < h; y++ {
		if !WithinTolerance(colorAt(img, x, y), ref, d.Tolerance) {
			misses++
			if misses > allowed {
				return false
			}
		}
	}
	return true
}

// allowedMisses is how many off-colour pixels a line of length n may hold.
func (d BorderDetector) allowedMisses(n int) int {
	purity := d.RowPurity
	if purity <= 0 || purity > 1 {
		purity = DefaultRowPurity
	}
	return int(math.Floor((1-purity)*float64(n) + 1e-9))
}
