package processor

import (
	"fmt"
	"image"
	"path/filepath"
)

type Mode int

const (
	ModeConvert Mode = iota
	ModeScan
)

const (
	DefaultQuality      = 75
	DefaultOutputSubdir = "webp_output"
)

// Options is the per-batch configuration. A zero Scale means no scaling.
type Options struct {
	Mode            Mode
	Quality         int
	WhiteBackground bool
	Crop            bool
	Scale           float64
	OutputDir       string
	AutoOrient      bool
}

func DefaultOptions() Options {
	return Options{
		Mode:    ModeConvert,
		Quality: DefaultQuality,
	}
}

// Validate rejects out-of-range quality and scale values.
func (o Options) Validate() error {
	if o.Quality < 0 || o.Quality > 100 {
		return fmt.Errorf("%w: quality must be between 0 and 100, got %d", ErrInvalidOptions, o.Quality)
	}
	if !(o.Scale >= 0 && o.Scale <= 1) {
		return fmt.Errorf("%w: scale must be in (0, 1], got %g", ErrInvalidOptions, o.Scale)
	}
	if o.Mode != ModeConvert && o.Mode != ModeScan {
		return fmt.Errorf("%w: unknown mode %d", ErrInvalidOptions, o.Mode)
	}
	return nil
}

// ScaleEnabled reports whether the scaler has work to do.
func (o Options) ScaleEnabled() bool {
	return o.Scale > 0 && o.Scale < 1
}

// OutputDirFor is where converted files for inputDir are written.
func (o Options) OutputDirFor(inputDir string) string {
	if o.OutputDir != "" {
		return o.OutputDir
	}
	return filepath.Join(inputDir, DefaultOutputSubdir)
}

// Outcome is the result of converting or inspecting a single file.
type Outcome struct {
	Name   string
	Dest   string
	Err    error
	Reason string

	SourceMode   ColorMode
	HasAlpha     bool
	Flattened    bool
	Oriented     bool
	OriginalSize image.Point
	CroppedSize  image.Point
	FinalSize    image.Point
	CropBox      BoundingBox
	BorderColor  Color
	Cropped      bool
	Scaled       bool

	BytesIn  int64
	BytesOut int64

	Insights []Insight
}

func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// BytesSaved is never negative; a larger output counts as zero savings.
func (o Outcome) BytesSaved() int64 {
	if !o.Succeeded() || o.BytesOut == 0 || o.BytesOut >= o.BytesIn {
		return 0
	}
	return o.BytesIn - o.BytesOut
}

type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	BytesIn   int64
	BytesOut  int64
	Outcomes  []Outcome
}

func (s Summary) BytesSaved() int64 {
	var saved int64
	for _, o := range s.Outcomes {
		saved += o.BytesSaved()
	}
	return saved
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d succeeded", s.Succeeded, s.Total)
}

type Insight struct {
	Kind    string
	Message string
}

type ProgressUpdate struct {
	TotalDelta      int
	SucceededDelta  int
	FailedDelta     int
	BytesSavedDelta int64
	Current         string
}
