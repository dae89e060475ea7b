package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "rainfall"

// Metrics holds the Prometheus counters and histograms for fetching and rendering.
type Metrics struct {
	// Download metrics.
	DatasetsDownloaded prometheus.Counter
	DownloadBytes      prometheus.Counter
	DownloadDuration   prometheus.Histogram
	DownloadErrors     prometheus.Counter

	// Render metrics.
	AnimationsRendered prometheus.Counter
	FramesRendered     prometheus.Counter
	RenderDuration     prometheus.Histogram
	EmptyFrames        prometheus.Counter

	registry *prometheus.Registry
}

var (
	downloadBuckets = []float64{1, 5, 15, 30, 60, 120, 300, 600}
	renderBuckets   = []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120}
)

// NewMetrics creates the metrics on a registry of their own. Each fetch or visualize
// run owns one registry and exports it with WriteTextfile, so repeated runs in one
// process never collide on registration.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := newMetrics(reg)
	reg.MustRegister(m.collectors()...)
	return m
}

func newMetrics(reg *prometheus.Registry) *Metrics {
	return &Metrics{
		DatasetsDownloaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "datasets_downloaded_total",
			Help:      "Total yearly datasets written to the data directory.",
		}),
		DownloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_bytes_total",
			Help:      "Total bytes downloaded from the IMD portal.",
		}),
		DownloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "download_duration_seconds",
			Help:      "Duration of a single year's dataset download.",
			Buckets:   downloadBuckets,
		}),
		DownloadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "download_errors_total",
			Help:      "Total failed dataset downloads.",
		}),
		AnimationsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "animations_rendered_total",
			Help:      "Total animation documents written to the visualization directory.",
		}),
		FramesRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_rendered_total",
			Help:      "Total daily frames rasterised.",
		}),
		RenderDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Duration of rendering one year's animation.",
			Buckets:   renderBuckets,
		}),
		EmptyFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "empty_frames_total",
			Help:      "Frames in which every cell was missing.",
		}),
		registry: reg,
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.DatasetsDownloaded,
		m.DownloadBytes,
		m.DownloadDuration,
		m.DownloadErrors,
		m.AnimationsRendered,
		m.FramesRendered,
		m.RenderDuration,
		m.EmptyFrames,
	}
}

// Gatherer returns the registry these metrics are registered with.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes the metrics in the node-exporter textfile format. It is a
// no-op when path is empty.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Gatherer())
}
