package metrics

import (
	"sort"
	"time"

	dto "github.com/prometheus/client_model/go"
)

// RecordRender records one frame build and replay
func (r *Registry) RecordRender(diagram, status string, duration time.Duration, commands, particles int) {
	r.RenderPassesTotal.WithLabelValues(diagram, status).Inc()
	r.RenderDuration.WithLabelValues(diagram).Observe(duration.Seconds())
	r.CommandsPerFrame.WithLabelValues(diagram).Observe(float64(commands))
	if diagram == "flow" {
		r.ParticlesPerFrame.Observe(float64(particles))
	}
}

// RecordLayout records a layout computation and the warnings it raised.
// Dropped transfers are counted once per layout, not once per frame.
func (r *Registry) RecordLayout(diagram string, dropped int, warningKinds ...string) {
	r.LayoutsTotal.WithLabelValues(diagram).Inc()
	r.DroppedTransfersTotal.Add(float64(dropped))
	for _, kind := range warningKinds {
		r.LayoutWarningsTotal.WithLabelValues(kind).Inc()
	}
}

// RecordZoom records a viewport change
func (r *Registry) RecordZoom(op string, scale float64, clamped bool) {
	r.ZoomOperationsTotal.WithLabelValues(op).Inc()
	r.ViewportScale.Set(scale)
	if clamped {
		r.ScaleClampsTotal.Inc()
	}
}

// RecordTick counts one clock tick
func (r *Registry) RecordTick() {
	r.ClockTicksTotal.Inc()
}

// SessionOpened tracks a new session
func (r *Registry) SessionOpened() {
	r.SessionsTotal.Inc()
	r.ActiveSessions.Inc()
}

// SessionClosed tracks a closed session
func (r *Registry) SessionClosed() {
	r.ActiveSessions.Dec()
}

// RecordFrameWritten records a frame appended to a recording
func (r *Registry) RecordFrameWritten(uncompressed, compressed int) {
	r.RecordedFramesTotal.Inc()
	r.RecordedBytesTotal.WithLabelValues("raw").Add(float64(uncompressed))
	r.RecordedBytesTotal.WithLabelValues("snappy").Add(float64(compressed))
}

// Sample is one flattened metric value.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Snapshot gathers counters and gauges, plus histogram sample counts, sorted
// by name.
func (r *Registry) Snapshot() ([]Sample, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			s := Sample{Name: mf.GetName(), Labels: labels(m)}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				s.Value = m.GetCounter().GetValue()
			case dto.MetricType_GAUGE:
				s.Value = m.GetGauge().GetValue()
			case dto.MetricType_HISTOGRAM:
				s.Name += "_count"
				s.Value = float64(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func labels(m *dto.Metric) map[string]string {
	if len(m.GetLabel()) == 0 {
		return nil
	}
	out := make(map[string]string, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		out[lp.GetName()] = lp.GetValue()
	}
	return out
}
