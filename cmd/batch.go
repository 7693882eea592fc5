package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"webpify/internal/config"
	"webpify/internal/metrics"
	"webpify/internal/processor"
	"webpify/internal/telemetry"
	"webpify/internal/tui"
	"webpify/pkg/imgutil"
)

var errNothingConverted = errors.New("no files were converted")

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if metricsFile != "" {
		cfg.MetricsFile = metricsFile
	}
	if traceName != "" {
		cfg.Trace.Exporter = traceName
	}
	if otlpEndpoint != "" {
		cfg.Trace.OTLPEndpoint = otlpEndpoint
	}
	if otlpInsecure {
		cfg.Trace.OTLPInsecure = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "[webpify] ", log.LstdFlags|log.Lmsgprefix)
}

// runBatch wires tracing, metrics and the progress view around one
// processor run over dir.
func runBatch(cmd *cobra.Command, dir string, opts processor.Options, cfg *config.Config) (processor.Summary, error) {
	logger := newLogger()

	if err := processor.Startup(); err != nil {
		return processor.Summary{}, fmt.Errorf("start encoder runtime: %w", err)
	}
	defer processor.Shutdown()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, telemetry.TraceConfig{
		ServiceName:  telemetry.ServiceName,
		Exporter:     cfg.Trace.Exporter,
		OTLPEndpoint: cfg.Trace.OTLPEndpoint,
		OTLPInsecure: cfg.Trace.OTLPInsecure,
	}, logger)
	if err != nil {
		return processor.Summary{}, err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Printf("tracing shutdown failed err=%v", err)
		}
	}()

	conv, err := processor.NewConverter(opts, logger)
	if err != nil {
		return processor.Summary{}, err
	}
	runner := processor.NewRunner(conv, logger)

	var m *metrics.Metrics
	if cfg.MetricsFile != "" {
		m = metrics.New()
		runner.Observer = m
	}

	summary, err := runWithProgress(ctx, stop, runner, dir, opts.Mode, showProgress())

	if m != nil {
		if werr := m.WriteTextfile(cfg.MetricsFile); werr != nil {
			logger.Printf("metrics write failed path=%s err=%v", cfg.MetricsFile, werr)
			fmt.Fprintf(os.Stderr, "warning: could not write metrics file: %v\n", werr)
		}
	}
	return summary, err
}

func runWithProgress(ctx context.Context, cancel context.CancelFunc, runner *processor.Runner, dir string, mode processor.Mode, interactive bool) (processor.Summary, error) {
	if !interactive {
		return runner.Run(ctx, dir, nil)
	}

	title := "webpify"
	if mode == processor.ModeScan {
		title = "webpify scan"
	}

	updates := make(chan processor.ProgressUpdate, 64)
	program := tea.NewProgram(tui.NewModel(title, updates), tea.WithOutput(os.Stderr))

	uiDone := make(chan struct{})
	go func() {
		defer close(uiDone)
		final, err := program.Run()
		if err != nil {
			runner.Logger.Printf("progress view stopped err=%v", err)
		}
		if m, ok := final.(tui.Model); ok && m.Interrupted() {
			cancel()
		}
		// Keep draining so the runner never blocks on a full channel once
		// the view is gone.
		for range updates {
		}
	}()

	summary, err := runner.Run(ctx, dir, updates)
	close(updates)
	<-uiDone
	return summary, err
}

// showProgress reports whether the live view can run: it needs a terminal
// on both stdin and stderr and must not be switched off.
func showProgress() bool {
	if noProgress || verbose {
		return false
	}
	return isTerminal(os.Stdin) && isTerminal(os.Stderr)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printBanner(w io.Writer, files int, dir string, opts processor.Options) {
	fmt.Fprintf(w, "Found %d image files\n", files)
	if opts.Mode == processor.ModeConvert {
		fmt.Fprintf(w, "Output directory: %s\n", opts.OutputDirFor(dir))
		fmt.Fprintf(w, "WebP quality: %d\n", opts.Quality)
	}
	fmt.Fprintf(w, "Preserve transparency: %s\n", yesNo(!opts.WhiteBackground))
	fmt.Fprintf(w, "Auto crop borders: %s\n", yesNo(opts.Crop))
	if opts.ScaleEnabled() {
		fmt.Fprintf(w, "Proportional scaling: %g (resize to %.0f%% of original size)\n", opts.Scale, opts.Scale*100)
	}
	if opts.AutoOrient {
		fmt.Fprintln(w, "EXIF orientation: applied")
	}
	fmt.Fprintln(w, strings.Repeat("-", 50))
}

func printNoInputs(w io.Writer, dir string) {
	fmt.Fprintf(w, "No supported image files found in directory %s\n", dir)
	fmt.Fprintf(w, "Supported formats: %s\n", strings.Join(imgutil.InputExtensions(), ", "))
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
