package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRenderMetrics() {
	r.RenderPassesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskgraph_render_passes_total",
			Help: "Total number of render passes by diagram and status",
		},
		[]string{"diagram", "status"},
	)

	r.RenderDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riskgraph_render_duration_seconds",
			Help:    "Time to build and replay one frame",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1},
		},
		[]string{"diagram"},
	)

	r.CommandsPerFrame = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "riskgraph_commands_per_frame",
			Help:    "Number of draw commands emitted per frame",
			Buckets: prometheus.ExponentialBuckets(8, 2, 10),
		},
		[]string{"diagram"},
	)

	r.ParticlesPerFrame = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "riskgraph_particles_per_frame",
			Help:    "Number of visible transfer particles per flow frame",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		},
	)

	r.DroppedTransfersTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "riskgraph_dropped_transfers_total",
			Help: "Transfers skipped because an endpoint step was missing",
		},
	)

	r.LayoutsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskgraph_layouts_total",
			Help: "Total number of layout computations by diagram",
		},
		[]string{"diagram"},
	)

	r.LayoutWarningsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskgraph_layout_warnings_total",
			Help: "Non-fatal layout warnings by kind",
		},
		[]string{"kind"},
	)
}
