package session

import (
	"github.com/dd0wney/cluso-riskgraph/pkg/animation"
	"github.com/dd0wney/cluso-riskgraph/pkg/draw"
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
	"github.com/dd0wney/cluso-riskgraph/pkg/logging"
	"github.com/dd0wney/cluso-riskgraph/pkg/metrics"
	"github.com/dd0wney/cluso-riskgraph/pkg/viewport"
)

// Option configures a Session.
type Option func(*Session)

// WithCanvas overrides the drawing area. The default depends on the diagram kind.
func WithCanvas(c layout.Canvas) Option {
	return func(s *Session) { s.canvas = c }
}

// WithLogger sets the session logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics sets the metrics registry.
func WithMetrics(r *metrics.Registry) Option {
	return func(s *Session) { s.metrics = r }
}

// WithClockConfig sets the animation clock settings, including the particle
// stagger and travel window.
func WithClockConfig(cfg animation.Config) Option {
	return func(s *Session) { s.clockCfg = cfg }
}

// WithViewportConfig sets the zoom bounds.
func WithViewportConfig(cfg viewport.Config) Option {
	return func(s *Session) { s.viewportCfg = cfg }
}

// WithPalette sets the color mapper.
func WithPalette(p draw.ColorMapper) Option {
	return func(s *Session) {
		if p != nil {
			s.colors = p
		}
	}
}

// WithDrawOptions sets particle and label geometry. Stagger and travel window
// always come from the clock settings.
func WithDrawOptions(o draw.Options) Option {
	return func(s *Session) { s.drawOpts = o }
}
