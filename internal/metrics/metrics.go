// Package metrics records batch results as prometheus metrics on a private
// registry and exports them in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wizzomafizzo/scour/internal/core/batch"
	"github.com/wizzomafizzo/scour/internal/core/engine"
)

const namespace = "scour"

// Label values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	ResultKept    = "kept"
	ResultRemoved = "removed"
)

// Collector is a batch.Reporter that turns outcomes into metrics.
type Collector struct {
	registry      *prometheus.Registry
	files         *prometheus.CounterVec
	lines         *prometheus.CounterVec
	linesChanged  prometheus.Counter
	bytesWritten  prometheus.Counter
	fileDuration  prometheus.Histogram
	batchDuration prometheus.Gauge
	batchFiles    prometheus.Gauge
}

var _ batch.Reporter = (*Collector)(nil)

// NewCollector creates a collector registered on a new registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files processed, by status.",
		}, []string{"status"}),
		lines: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_total",
			Help:      "Lines read from successfully processed files, by result.",
		}, []string{"result"}),
		linesChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_changed_total",
			Help:      "Kept lines altered by at least one replacement rule.",
		}),
		bytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_written_total",
			Help:      "Bytes of cleaned output written.",
		}),
		fileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "file_duration_seconds",
			Help:      "Time spent processing a single file.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30, 120},
		}),
		batchDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "Wall time of the last batch.",
		}),
		batchFiles: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "batch_files",
			Help:      "Files submitted in the last batch.",
		}),
	}

	c.registry.MustRegister(
		c.files,
		c.lines,
		c.linesChanged,
		c.bytesWritten,
		c.fileDuration,
		c.batchDuration,
		c.batchFiles,
	)

	// Expose zero series for both statuses so dashboards see them up front.
	c.files.WithLabelValues(StatusSuccess)
	c.files.WithLabelValues(StatusFailed)

	return c
}

// Registry returns the registry the metrics live on.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Start(total int) {
	c.batchFiles.Set(float64(total))
}

func (c *Collector) FileDone(outcome engine.Outcome) {
	c.fileDuration.Observe(outcome.Duration.Seconds())

	if outcome.Failed() {
		c.files.WithLabelValues(StatusFailed).Inc()
		return
	}

	c.files.WithLabelValues(StatusSuccess).Inc()
	c.lines.WithLabelValues(ResultKept).Add(float64(outcome.Stats.Kept))
	c.lines.WithLabelValues(ResultRemoved).Add(float64(outcome.Stats.Removed))
	c.linesChanged.Add(float64(outcome.Stats.Changed))
	c.bytesWritten.Add(float64(outcome.Bytes))
}

func (c *Collector) Finish(report *batch.Report) {
	c.batchDuration.Set(report.Duration.Seconds())
}

// WriteTextfile writes every metric to path, replacing it atomically.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
