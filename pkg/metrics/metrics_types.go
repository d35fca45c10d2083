package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Render Metrics
	RenderPassesTotal     *prometheus.CounterVec
	RenderDuration        *prometheus.HistogramVec
	CommandsPerFrame      *prometheus.HistogramVec
	ParticlesPerFrame     prometheus.Histogram
	DroppedTransfersTotal prometheus.Counter

	// Layout Metrics
	LayoutsTotal        *prometheus.CounterVec
	LayoutWarningsTotal *prometheus.CounterVec

	// Viewport Metrics
	ViewportScale       prometheus.Gauge
	ZoomOperationsTotal *prometheus.CounterVec
	ScaleClampsTotal    prometheus.Counter

	// Session Metrics
	ClockTicksTotal     prometheus.Counter
	ActiveSessions      prometheus.Gauge
	SessionsTotal       prometheus.Counter
	RecordedFramesTotal prometheus.Counter
	RecordedBytesTotal  *prometheus.CounterVec

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	r.initRenderMetrics()
	r.initViewportMetrics()
	r.initSessionMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
