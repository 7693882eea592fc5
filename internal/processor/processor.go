package processor

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"webpify/pkg/imgutil"
)

const tracerName = "webpify/internal/processor"

// Observer receives every finished Outcome, e.g. for metrics.
type Observer interface {
	ObserveOutcome(out Outcome, elapsed time.Duration)
}

// Runner converts every eligible file of one directory, one at a time.
type Runner struct {
	Converter *Converter
	Logger    *log.Logger
	Observer  Observer
	Tracer    trace.Tracer
}

func NewRunner(conv *Converter, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{
		Converter: conv,
		Logger:    logger,
		Tracer:    otel.Tracer(tracerName),
	}
}

// Run is the one-call entry used by the CLI.
func Run(ctx context.Context, inputDir string, opts Options, updates chan<- ProgressUpdate) (Summary, error) {
	conv, err := NewConverter(opts, nil)
	if err != nil {
		return Summary{}, err
	}
	return NewRunner(conv, nil).Run(ctx, inputDir, updates)
}

// Run enumerates inputDir and converts (or inspects, in scan mode) each
// eligible file in name order. Per-file failures are recorded in the
// Summary; only option, directory and cancellation errors are returned.
func (r *Runner) Run(ctx context.Context, inputDir string, updates chan<- ProgressUpdate) (Summary, error) {
	opts := r.Converter.Options
	if err := opts.Validate(); err != nil {
		return Summary{}, err
	}

	files, err := ListInputs(inputDir)
	if err != nil {
		return Summary{}, err
	}

	var dests *destinations
	if opts.Mode == ModeConvert {
		outDir := opts.OutputDirFor(inputDir)
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return Summary{}, fmt.Errorf("%w: %w", ErrOutputDir, err)
		}
		dests = newDestinations(outDir, r.Converter.Encoder.Extension())
		r.Logger.Printf("batch start files=%d output=%s quality=%d white_bg=%t crop=%t scale=%g",
			len(files), outDir, opts.Quality, opts.WhiteBackground, opts.Crop, opts.Scale)
	} else {
		r.Logger.Printf("scan start files=%d crop=%t scale=%g", len(files), opts.Crop, opts.Scale)
	}

	sendUpdate(updates, ProgressUpdate{TotalDelta: len(files)})

	outcomes := make([]Outcome, 0, len(files))
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			r.Logger.Printf("batch cancelled processed=%d remaining=%d", len(outcomes), len(files)-len(outcomes))
			return Summarize(outcomes), err
		}

		out := r.process(ctx, inputDir, name, dests)
		outcomes = append(outcomes, out)

		update := ProgressUpdate{Current: name}
		if out.Succeeded() {
			update.SucceededDelta = 1
			update.BytesSavedDelta = out.BytesSaved()
		} else {
			update.FailedDelta = 1
			r.Logger.Printf("failed file=%s reason=%q", name, out.Reason)
		}
		sendUpdate(updates, update)
	}

	summary := Summarize(outcomes)
	r.Logger.Printf("batch done %s", summary)
	return summary, nil
}

func (r *Runner) process(ctx context.Context, inputDir, name string, dests *destinations) Outcome {
	ctx, span := r.tracer().Start(ctx, "processor.convert", trace.WithAttributes(
		attribute.String("file.name", name),
	))
	defer span.End()

	started := time.Now()
	src := filepath.Join(inputDir, name)

	var out Outcome
	if dests == nil {
		out = r.Converter.Inspect(ctx, src)
	} else if dst, err := dests.claim(name); err != nil {
		out = Outcome{Name: name}.fail(err)
	} else {
		out = r.Converter.Convert(ctx, src, dst)
	}
	elapsed := time.Since(started)

	span.SetAttributes(
		attribute.Int("image.width", out.FinalSize.X),
		attribute.Int("image.height", out.FinalSize.Y),
		attribute.Bool("image.cropped", out.Cropped),
		attribute.Bool("image.scaled", out.Scaled),
		attribute.Int64("bytes.out", out.BytesOut),
	)
	if out.Err != nil {
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.Reason)
	}

	if r.Observer != nil {
		r.Observer.ObserveOutcome(out, elapsed)
	}
	return out
}

func (r *Runner) tracer() trace.Tracer {
	if r.Tracer != nil {
		return r.Tracer
	}
	return otel.Tracer(tracerName)
}

// Summarize folds outcomes into batch totals.
func Summarize(outcomes []Outcome) Summary {
	s := Summary{Total: len(outcomes), Outcomes: outcomes}
	for _, o := range outcomes {
		if o.Succeeded() {
			s.Succeeded++
			s.BytesIn += o.BytesIn
			s.BytesOut += o.BytesOut
		} else {
			s.Failed++
		}
	}
	return s
}

// ListInputs returns the eligible regular files directly under dir, sorted
// by name.
func ListInputs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if imgutil.SupportedExtension(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func sendUpdate(updates chan<- ProgressUpdate, update ProgressUpdate) {
	if updates != nil {
		updates <- update
	}
}
