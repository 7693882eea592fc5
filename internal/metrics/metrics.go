package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"webpify/internal/processor"
)

// Metrics counts batch outcomes in a private registry so a run can be
// dumped to a node-exporter textfile.
type Metrics struct {
	registry        *prometheus.Registry
	filesTotal      *prometheus.CounterVec
	fileDuration    *prometheus.HistogramVec
	bytesInTotal    prometheus.Counter
	bytesOutTotal   prometheus.Counter
	bytesSavedTotal prometheus.Counter
	pixelsTotal     prometheus.Counter
	croppedTotal    prometheus.Counter
	scaledTotal     prometheus.Counter
}

var _ processor.Observer = (*Metrics)(nil)

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		filesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webpify_files_total",
			Help: "Files processed by final status.",
		}, []string{"status"}),
		fileDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "webpify_file_duration_seconds",
			Help:    "Wall time spent on each file.",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		bytesInTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webpify_bytes_in_total",
			Help: "Source bytes read for successfully converted files.",
		}),
		bytesOutTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webpify_bytes_out_total",
			Help: "WebP bytes written.",
		}),
		bytesSavedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webpify_bytes_saved_total",
			Help: "Bytes saved across files whose output is smaller than the source.",
		}),
		pixelsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webpify_pixels_processed_total",
			Help: "Output pixels produced across successful files.",
		}),
		croppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webpify_cropped_total",
			Help: "Files whose uniform border was removed.",
		}),
		scaledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "webpify_scaled_total",
			Help: "Files resampled to a smaller size.",
		}),
	}

	m.registry.MustRegister(
		m.filesTotal,
		m.fileDuration,
		m.bytesInTotal,
		m.bytesOutTotal,
		m.bytesSavedTotal,
		m.pixelsTotal,
		m.croppedTotal,
		m.scaledTotal,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveOutcome(out processor.Outcome, elapsed time.Duration) {
	status := "succeeded"
	if !out.Succeeded() {
		status = "failed"
	}
	m.filesTotal.WithLabelValues(status).Inc()
	m.fileDuration.WithLabelValues(status).Observe(elapsed.Seconds())
	if !out.Succeeded() {
		return
	}

	m.bytesInTotal.Add(float64(out.BytesIn))
	m.bytesOutTotal.Add(float64(out.BytesOut))
	m.bytesSavedTotal.Add(float64(out.BytesSaved()))
	m.pixelsTotal.Add(float64(out.FinalSize.X * out.FinalSize.Y))
	if out.Cropped {
		m.croppedTotal.Inc()
	}
	if out.Scaled {
		m.scaledTotal.Inc()
	}
}

// WriteTextfile dumps the registry in Prometheus text format. The write
// goes through a temp file so scrapers never see a partial file.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
