package processor

import (
	"bufio"
	"context"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
)

// Converter runs the per-file pipeline: decode, orient, normalize, crop,
// scale, encode and write.
type Converter struct {
	Options  Options
	Detector BorderDetector
	Encoder  Encoder
	Logger   *log.Logger
}

// NewConverter builds a Converter with the default border thresholds and
// the encoder compiled into this build.
func NewConverter(opts Options, logger *log.Logger) (*Converter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	enc, err := NewEncoder()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Converter{
		Options:  opts,
		Detector: DefaultBorderDetector(),
		Encoder:  enc,
		Logger:   logger,
	}, nil
}

// Convert processes src into dst. Failures are reported in the Outcome;
// on failure nothing is left at dst.
func (c *Converter) Convert(ctx context.Context, src, dst string) Outcome {
	out := Outcome{Name: filepath.Base(src), Dest: dst}
	if err := ctx.Err(); err != nil {
		return out.fail(err)
	}

	img, out, err := c.prepare(src, out)
	if err != nil {
		return out.fail(err)
	}

	written, err := c.write(dst, img)
	if err != nil {
		return out.fail(fmt.Errorf("%w: %w", ErrWriteFailure, err))
	}
	out.BytesOut = written

	c.logf("converted file=%s size=%dx%d bytes_in=%d bytes_out=%d", out.Name, out.FinalSize.X, out.FinalSize.Y, out.BytesIn, out.BytesOut)
	return out
}

// Inspect runs every stage except encoding and writing.
func (c *Converter) Inspect(ctx context.Context, src string) Outcome {
	out := Outcome{Name: filepath.Base(src)}
	if err := ctx.Err(); err != nil {
		return out.fail(err)
	}

	_, out, err := c.prepare(src, out)
	if err != nil {
		return out.fail(err)
	}
	out.Insights = buildInsights(out, c.Options)
	return out
}

func (c *Converter) prepare(src string, out Outcome) (*image.NRGBA, Outcome, error) {
	s, err := readSource(src)
	if err != nil {
		return nil, out, err
	}
	out.BytesIn = int64(len(s.data))

	decoded, err := s.decode()
	if err != nil {
		return nil, out, err
	}
	if out.SourceMode, err = ModeOf(decoded); err != nil {
		return nil, out, err
	}

	if c.Options.AutoOrient {
		orientation, err := exifOrientation(s)
		if err != nil {
			c.logf("orientation unreadable file=%s err=%v", out.Name, err)
		}
		decoded, out.Oriented = applyOrientation(decoded, orientation)
	}

	norm, err := Normalize(decoded, c.Options.WhiteBackground)
	if err != nil {
		return nil, out, err
	}
	img := norm.Image
	out.HasAlpha = norm.Mode == ModeRGBA
	out.Flattened = norm.Flattened
	out.OriginalSize = img.Bounds().Size()
	out.CropBox = FullBox(out.OriginalSize.X, out.OriginalSize.Y)

	if c.Options.Crop {
		box := c.Detector.DetectCropBox(img)
		out.CropBox = box
		if !box.IsFull(out.OriginalSize.X, out.OriginalSize.Y) {
			out.BorderColor = colorAt(img, 0, 0)
			img = imaging.Crop(img, box.Rect(img.Bounds().Min))
			out.Cropped = true
		}
	}
	out.CroppedSize = img.Bounds().Size()

	if c.Options.ScaleEnabled() {
		scaled := Scale(img, c.Options.Scale)
		out.Scaled = scaled != img
		img = scaled
	}
	out.FinalSize = img.Bounds().Size()

	return img, out, nil
}

// write encodes img into a temp file beside dst and renames it into place.
func (c *Converter) write(dst string, img image.Image) (int64, error) {
	tmpFile, err := os.CreateTemp(filepath.Dir(dst), ".webpify-*.tmp")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmpFile.Name())

	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return 0, err
	}

	bw := bufio.NewWriter(tmpFile)
	if err := c.Encoder.Encode(bw, img, c.Options.Quality); err != nil {
		_ = tmpFile.Close()
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		_ = tmpFile.Close()
		return 0, err
	}
	if err := tmpFile.Sync(); err != nil {
		_ = tmpFile.Close()
		return 0, err
	}
	if err := tmpFile.Close(); err != nil {
		return 0, err
	}

	if err := replaceFile(tmpFile.Name(), dst); err != nil {
		return 0, err
	}

	info, err := os.Stat(dst)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// replaceFile renames tmpPath over destPath. Where rename refuses to
// overwrite, an existing destination is removed and the rename retried; any
// other failure leaves destPath untouched.
func replaceFile(tmpPath, destPath string) error {
	err := os.Rename(tmpPath, destPath)
	if err == nil {
		return nil
	}
	if _, statErr := os.Stat(tmpPath); statErr != nil {
		return err
	}
	if _, statErr := os.Lstat(destPath); statErr != nil {
		return err
	}
	if rmErr := os.Remove(destPath); rmErr != nil {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

func (c *Converter) logf(format string, args ...any) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}

func (o Outcome) fail(err error) Outcome {
	o.Err = err
	o.Reason = failureReason(err)
	return o
}
