package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// Metrics holds the Prometheus counters and histograms for one pipeline run.
// Each Metrics carries its own registry: runs are short-lived batch
// processes, so metrics are pushed to a Pushgateway at the end of the run
// instead of being scraped.
type Metrics struct {
	RowsRead          prometheus.Counter
	RowsKept          prometheus.Counter
	RowsFiltered      prometheus.Counter
	RowsInvalid       prometheus.Counter
	DuplicatesSkipped prometheus.Counter
	FilesProcessed    prometheus.Counter
	RunDuration       prometheus.Histogram

	// Map rendering metrics.
	MapPoints  prometheus.Gauge
	MapMarkers prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates all pipeline metrics registered on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RowsRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_hotspots",
			Name:      "rows_read_total",
			Help:      "Total data rows read from source CSV files.",
		}),
		RowsKept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_hotspots",
			Name:      "rows_kept_total",
			Help:      "Total rows written to the merged output.",
		}),
		RowsFiltered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_hotspots",
			Name:      "rows_filtered_total",
			Help:      "Total rows dropped by the pedestrian filter.",
		}),
		RowsInvalid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_hotspots",
			Name:      "rows_invalid_total",
			Help:      "Total rows rejected for missing or unparsable fields.",
		}),
		DuplicatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_hotspots",
			Name:      "duplicates_skipped_total",
			Help:      "Total rows skipped because their ID was already merged.",
		}),
		FilesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "accident_hotspots",
			Name:      "files_processed_total",
			Help:      "Source files processed in this run.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "accident_hotspots",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete merge run.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 30, 60, 120, 300},
		}),
		MapPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "accident_hotspots",
			Name:      "map_points",
			Help:      "Points plotted on the last rendered map.",
		}),
		MapMarkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "accident_hotspots",
			Name:      "map_markers",
			Help:      "Individual markers on the last rendered map (0 when heat-only).",
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.RowsRead,
		m.RowsKept,
		m.RowsFiltered,
		m.RowsInvalid,
		m.DuplicatesSkipped,
		m.FilesProcessed,
		m.RunDuration,
		m.MapPoints,
		m.MapMarkers,
	)

	return m
}

// Push sends the run's metrics to a Prometheus Pushgateway under the given
// job name. No-op when url is empty.
func (m *Metrics) Push(url, job string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, job).Gatherer(m.registry).Push(); err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
