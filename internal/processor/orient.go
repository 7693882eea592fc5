package processor

import (
	"bytes"
	"errors"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	exif "github.com/dsoprea/go-exif/v3"

	"webpify/pkg/imgutil"
)

// exifOrientation returns the EXIF Orientation tag (1-8) carried by s, or
// 1 when the format has no EXIF block or the tag is missing.
func exifOrientation(s source) (int, error) {
	if s.kind != imgutil.KindJPEG && s.kind != imgutil.KindTIFF {
		return 1, nil
	}

	tags, _, err := exif.GetFlatExifDataUniversalSearchWithReadSeeker(bytes.NewReader(s.data), nil, true)
	if err != nil {
		if errorsIsNoExif(err) {
			return 1, nil
		}
		return 1, err
	}

	for _, tag := range tags {
		if tag.TagName != "Orientation" {
			continue
		}
		switch v := tag.Value.(type) {
		case []uint16:
			if len(v) > 0 {
				return validOrientation(int(v[0])), nil
			}
		case uint16:
			return validOrientation(int(v)), nil
		}
	}
	return 1, nil
}

func validOrientation(o int) int {
	if o < 1 || o > 8 {
		return 1
	}
	return o
}

// applyOrientation rotates or flips img so it displays upright.
func applyOrientation(img image.Image, orientation int) (image.Image, bool) {
	switch orientation {
	case 2:
		return imaging.FlipH(img), true
	case 3:
		return imaging.Rotate180(img), true
	case 4:
		return imaging.FlipV(img), true
	case 5:
		return imaging.Transpose(img), true
	case 6:
		return imaging.Rotate270(img), true
	case 7:
		return imaging.Transverse(img), true
	case 8:
		return imaging.Rotate90(img), true
	default:
		return img, false
	}
}

func errorsIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, exif.ErrNoExif) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}
