package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initViewportMetrics() {
	r.ViewportScale = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "riskgraph_viewport_scale",
			Help: "Current zoom scale of the most recently changed viewport",
		},
	)

	r.ZoomOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskgraph_zoom_operations_total",
			Help: "Zoom operations by kind",
		},
		[]string{"op"},
	)

	r.ScaleClampsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "riskgraph_scale_clamps_total",
			Help: "Requested scales that fell outside the zoom bounds",
		},
	)
}

func (r *Registry) initSessionMetrics() {
	r.ClockTicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "riskgraph_clock_ticks_total",
			Help: "Animation clock ticks handled",
		},
	)

	r.ActiveSessions = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "riskgraph_active_sessions",
			Help: "Number of open render sessions",
		},
	)

	r.SessionsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "riskgraph_sessions_total",
			Help: "Total number of render sessions opened",
		},
	)

	r.RecordedFramesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "riskgraph_recorded_frames_total",
			Help: "Frames written to recordings",
		},
	)

	r.RecordedBytesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "riskgraph_recorded_bytes_total",
			Help: "Recorded payload bytes before and after compression",
		},
		[]string{"encoding"},
	)
}
