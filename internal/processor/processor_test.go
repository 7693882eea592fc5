package processor

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestRunMixedBatch(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "b.png", "c.PNG", "d.png"} {
		writePNG(t, filepath.Join(dir, name), framed(40, 30, 3, white))
	}
	writeJPEG(t, filepath.Join(dir, "e.jpg"), framed(40, 30, 3, white))
	if err := os.WriteFile(filepath.Join(dir, "f.png"), []byte("definitely not a png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("skip me"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.png"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	updates := make(chan ProgressUpdate, 64)
	summary, err := Run(context.Background(), dir, DefaultOptions(), updates)
	close(updates)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if summary.Total != 6 || summary.Succeeded != 5 || summary.Failed != 1 {
		t.Fatalf("summary = total %d succeeded %d failed %d, want 6/5/1", summary.Total, summary.Succeeded, summary.Failed)
	}
	if summary.String() != "5/6 succeeded" {
		t.Fatalf("String() = %q", summary.String())
	}

	outDir := filepath.Join(dir, DefaultOutputSubdir)
	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 outputs, got %d", len(entries))
	}
	for _, stem := range []string{"a", "b", "c", "d", "e"} {
		if _, err := os.Stat(filepath.Join(outDir, stem+".webp")); err != nil {
			t.Errorf("missing %s.webp: %v", stem, err)
		}
	}

	var total, succeeded, failed int
	for u := range updates {
		total += u.TotalDelta
		succeeded += u.SucceededDelta
		failed += u.FailedDelta
	}
	if total != 6 || succeeded != 5 || failed != 1 {
		t.Fatalf("progress = %d/%d/%d, want 6/5/1", total, succeeded, failed)
	}
}

func TestRunProcessesInNameOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta.png", "Alpha.png", "mid.gif.png", "beta.jpeg"} {
		writePNG(t, filepath.Join(dir, name), solid(4, 4, red))
	}

	summary, err := Run(context.Background(), dir, DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"Alpha.png", "beta.jpeg", "mid.gif.png", "zeta.png"}
	if len(summary.Outcomes) != len(want) {
		t.Fatalf("got %d outcomes", len(summary.Outcomes))
	}
	for i, name := range want {
		if summary.Outcomes[i].Name != name {
			t.Fatalf("outcome %d = %s, want %s", i, summary.Outcomes[i].Name, name)
		}
	}
}

func TestRunResolvesCollisions(t *testing.T) {
	dir := t.TempDir()
	writeJPEG(t, filepath.Join(dir, "photo.jpg"), solid(8, 8, blue))
	writePNG(t, filepath.Join(dir, "photo.png"), solid(8, 8, red))
	writePNG(t, filepath.Join(dir, "photo.tif.png"), solid(8, 8, green))

	out := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = out
	summary, err := Run(context.Background(), dir, opts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Succeeded != 3 {
		t.Fatalf("succeeded = %d, want 3", summary.Succeeded)
	}

	want := map[string]string{
		"photo.jpg":     "photo.webp",
		"photo.png":     "photo_1.webp",
		"photo.tif.png": "photo.tif.webp",
	}
	for _, o := range summary.Outcomes {
		if got := filepath.Base(o.Dest); got != want[o.Name] {
			t.Errorf("%s -> %s, want %s", o.Name, got, want[o.Name])
		}
		if _, err := os.Stat(o.Dest); err != nil {
			t.Errorf("%s: %v", o.Dest, err)
		}
	}
}

func TestRunRejectsInvalidOptions(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), solid(4, 4, red))

	cases := []Options{
		{Quality: 101},
		{Quality: -1},
		{Quality: 75, Scale: 1.5},
		{Quality: 75, Scale: -0.2},
		{Quality: 75, Scale: math.NaN()},
	}
	for _, opts := range cases {
		_, err := Run(context.Background(), dir, opts, nil)
		if !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("%+v: expected ErrInvalidOptions, got %v", opts, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultOutputSubdir)); !os.IsNotExist(err) {
		t.Fatalf("output dir created for invalid options")
	}
}

func TestRunOutputDirFailureIsFatal(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), solid(4, 4, red))
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	opts := DefaultOptions()
	opts.OutputDir = filepath.Join(blocker, "out")
	summary, err := Run(context.Background(), dir, opts, nil)
	if !errors.Is(err, ErrOutputDir) {
		t.Fatalf("expected ErrOutputDir, got %v", err)
	}
	if summary.Total != 0 {
		t.Fatalf("files processed despite fatal error: %d", summary.Total)
	}
}

func TestRunMissingInputDir(t *testing.T) {
	_, err := Run(context.Background(), filepath.Join(t.TempDir(), "nope"), DefaultOptions(), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestRunCancelled(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), solid(4, 4, red))
	writePNG(t, filepath.Join(dir, "b.png"), solid(4, 4, red))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := Run(ctx, dir, DefaultOptions(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if summary.Total != 0 {
		t.Fatalf("expected no outcomes, got %d", summary.Total)
	}
}

func TestRunScanModeWritesNothing(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), framed(30, 30, 5, white))

	opts := DefaultOptions()
	opts.Mode = ModeScan
	opts.Crop = true
	summary, err := Run(context.Background(), dir, opts, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Succeeded != 1 || !summary.Outcomes[0].Cropped {
		t.Fatalf("unexpected scan summary: %+v", summary)
	}
	if _, err := os.Stat(filepath.Join(dir, DefaultOutputSubdir)); !os.IsNotExist(err) {
		t.Fatalf("scan created the output directory")
	}
}

type recordingObserver struct {
	mu    sync.Mutex
	names []string
}

func (r *recordingObserver) ObserveOutcome(out Outcome, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.names = append(r.names, out.Name)
}

func TestRunnerNotifiesObserver(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "a.png"), solid(4, 4, red))
	writePNG(t, filepath.Join(dir, "b.png"), solid(4, 4, blue))

	conv, err := NewConverter(DefaultOptions(), nil)
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	obs := &recordingObserver{}
	runner := NewRunner(conv, nil)
	runner.Observer = obs

	if _, err := runner.Run(context.Background(), dir, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(obs.names) != 2 || obs.names[0] != "a.png" || obs.names[1] != "b.png" {
		t.Fatalf("observed %v", obs.names)
	}
}

func TestSummarize(t *testing.T) {
	outcomes := []Outcome{
		{Name: "a", BytesIn: 1000, BytesOut: 400},
		{Name: "b", BytesIn: 100, BytesOut: 300},
		{Name: "c", Err: ErrUnreadableSource, BytesIn: 50},
	}

	s := Summarize(outcomes)
	if s.Total != 3 || s.Succeeded != 2 || s.Failed != 1 {
		t.Fatalf("counts = %d/%d/%d", s.Total, s.Succeeded, s.Failed)
	}
	if s.BytesIn != 1100 || s.BytesOut != 700 {
		t.Fatalf("bytes = %d in %d out", s.BytesIn, s.BytesOut)
	}
	if s.BytesSaved() != 600 {
		t.Fatalf("saved = %d, want 600", s.BytesSaved())
	}

	empty := Summarize(nil)
	if empty.Total != 0 || empty.String() != "0/0 succeeded" {
		t.Fatalf("empty summary = %+v", empty)
	}
}
