// Package session drives one diagram: it owns the model, the viewport, the
// animation clock and a rendering surface, and redraws on every tick or zoom.
//
// All drawing is serialized by the session lock, so surfaces need not be safe
// for concurrent use. Cluster diagrams are static and only redraw on zoom;
// flow diagrams redraw on every clock tick.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-riskgraph/pkg/animation"
	"github.com/dd0wney/cluso-riskgraph/pkg/draw"
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
	"github.com/dd0wney/cluso-riskgraph/pkg/logging"
	"github.com/dd0wney/cluso-riskgraph/pkg/metrics"
	"github.com/dd0wney/cluso-riskgraph/pkg/model"
	"github.com/dd0wney/cluso-riskgraph/pkg/riskcolor"
	"github.com/dd0wney/cluso-riskgraph/pkg/viewport"
)

var (
	// ErrSessionClosed is returned by every operation after Close.
	ErrSessionClosed = errors.New("session: closed")
	// ErrNoSurface is returned by New when no surface is supplied.
	ErrNoSurface = errors.New("session: surface is required")
)

// Zoom operation labels.
const (
	OpZoomIn  = "zoom_in"
	OpZoomOut = "zoom_out"
	OpReset   = "reset"
)

// Session renders one GraphModel onto one surface.
type Session struct {
	id      string
	graph   model.GraphModel
	surface draw.Surface

	canvas      layout.Canvas
	logger      logging.Logger
	metrics     *metrics.Registry
	colors      draw.ColorMapper
	clockCfg    animation.Config
	viewportCfg viewport.Config
	drawOpts    draw.Options

	builder  *draw.Builder
	viewport *viewport.Controller
	clock    *animation.Clock

	mu         sync.Mutex
	positioned layout.PositionedGraph
	frames     uint64
	closed     bool
}

// New lays out g at the initial scale and returns an idle session. Nothing is
// drawn until Start or RenderOnce.
func New(g model.GraphModel, surface draw.Surface, opts ...Option) (*Session, error) {
	if surface == nil {
		return nil, ErrNoSurface
	}

	s := &Session{
		id:          uuid.NewString(),
		graph:       g,
		surface:     surface,
		logger:      logging.DefaultLogger(),
		metrics:     metrics.DefaultRegistry(),
		colors:      riskcolor.DefaultPalette(),
		clockCfg:    animation.DefaultConfig(),
		viewportCfg: viewport.DefaultConfig(),
		drawOpts:    draw.DefaultOptions(),
	}
	switch g.Kind() {
	case model.KindFlow:
		s.canvas = layout.DefaultFlowCanvas
	default:
		s.canvas = layout.DefaultClusterCanvas
	}
	for _, opt := range opts {
		opt(s)
	}

	timing := s.clockCfg
	if timing.Validate() != nil {
		timing = animation.DefaultConfig()
	}
	s.drawOpts.Stagger = timing.Stagger
	s.drawOpts.TravelWindow = timing.TravelWindow

	for _, cfg := range []struct {
		name string
		err  error
	}{
		{"viewport", s.viewportCfg.Validate()},
		{"animation", s.clockCfg.Validate()},
		{"draw", s.drawOpts.Validate()},
	} {
		if cfg.err != nil {
			s.logger.Warn("invalid session setting, using defaults",
				logging.Component(cfg.name), logging.Error(cfg.err))
		}
	}

	s.logger = s.logger.With(logging.SessionID(s.id), logging.Diagram(string(g.Kind())))
	s.builder = draw.NewBuilder(s.drawOpts)
	s.viewport = viewport.NewController(s.viewportCfg)
	s.clock = animation.NewClock(s.clockCfg, s.onTick)

	pg, err := layout.Compute(g, s.canvas, s.viewport.Scale())
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	s.positioned = pg
	s.recordLayout(pg)

	if g.Kind() == model.KindCluster {
		s.viewport.OnChange(s.relayout)
	}

	if s.metrics != nil {
		s.metrics.SessionOpened()
		s.metrics.ViewportScale.Set(s.viewport.Scale())
	}
	s.logger.Info("session opened", logging.Count(len(pg.Nodes)), logging.Scale(s.viewport.Scale()))
	return s, nil
}

// ID returns the session's unique id.
func (s *Session) ID() string { return s.id }

// Kind returns the diagram kind.
func (s *Session) Kind() model.Kind { return s.graph.Kind() }

// Animated reports whether the diagram redraws on clock ticks.
func (s *Session) Animated() bool { return s.graph.Kind() == model.KindFlow }

// Start draws the first frame and, for animated diagrams, starts the clock.
// The clock stops when ctx is done or on Close.
func (s *Session) Start(ctx context.Context) error {
	if err := s.RenderOnce(); err != nil {
		return err
	}
	if !s.Animated() {
		return nil
	}

	// Close sets closed under s.mu before it stops the clock.
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	err := s.clock.Start(ctx)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	s.logger.Debug("clock started", logging.Duration("interval", s.clock.Config().Interval))
	return nil
}

// Close stops the clock and retires the session. No frame is drawn once Close
// returns. Closing twice is a no-op.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	frames := s.frames
	s.mu.Unlock()

	s.clock.Stop()

	if s.metrics != nil {
		s.metrics.SessionClosed()
	}
	s.logger.Info("session closed", logging.Int("frames", int(frames)))
	return nil
}

// Alive reports whether the session accepts draw requests.
func (s *Session) Alive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// Layout returns the positioned graph currently being drawn.
func (s *Session) Layout() layout.PositionedGraph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.positioned
}

// Scale returns the current zoom factor.
func (s *Session) Scale() float64 { return s.viewport.Scale() }

// Phase returns the current clock phase.
func (s *Session) Phase() float64 { return s.clock.Phase() }

// Frames returns how many frames have been drawn.
func (s *Session) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// ZoomIn raises the scale by one step and redraws.
func (s *Session) ZoomIn() (float64, error) {
	return s.zoom(OpZoomIn, s.viewport.ZoomIn)
}

// ZoomOut lowers the scale by one step and redraws.
func (s *Session) ZoomOut() (float64, error) {
	return s.zoom(OpZoomOut, s.viewport.ZoomOut)
}

// Reset restores the initial scale and redraws.
func (s *Session) Reset() (float64, error) {
	return s.zoom(OpReset, s.viewport.Reset)
}

func (s *Session) zoom(op string, apply func() float64) (float64, error) {
	if !s.Alive() {
		return s.viewport.Scale(), ErrSessionClosed
	}

	before := s.viewport.Scale()
	scale := apply()
	saturated := op != OpReset && scale == before

	if s.metrics != nil {
		s.metrics.RecordZoom(op, scale, saturated)
	}
	s.logger.Debug("viewport changed", logging.String("op", op), logging.Scale(scale))

	return scale, s.RenderOnce()
}

// RenderOnce draws one frame at the current clock phase.
func (s *Session) RenderOnce() error {
	return s.render(s.clock.Phase())
}

// Step advances the clock by one step without waiting for the ticker and
// draws the resulting frame. Offline renderers use it to produce frames at a
// fixed rate.
func (s *Session) Step() (float64, error) {
	if !s.Alive() {
		return s.clock.Phase(), ErrSessionClosed
	}
	phase := s.clock.Advance()
	if s.metrics != nil {
		s.metrics.RecordTick()
	}
	return phase, s.render(phase)
}

func (s *Session) onTick(phase float64) {
	if s.metrics != nil {
		s.metrics.RecordTick()
	}
	if err := s.render(phase); err != nil && !errors.Is(err, ErrSessionClosed) {
		s.logger.Error("frame render failed", logging.Phase(phase), logging.Error(err))
	}
}

func (s *Session) render(phase float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	start := time.Now()
	frame := s.builder.Build(s.positioned, phase, s.colors)
	err := draw.Replay(s.surface, s.canvas, frame.Commands)
	elapsed := time.Since(start)

	status := "ok"
	if err != nil {
		status = "error"
	}
	if s.metrics != nil {
		s.metrics.RecordRender(string(s.graph.Kind()), status, elapsed, len(frame.Commands), frame.Particles)
	}
	if err != nil {
		return fmt.Errorf("session: render frame: %w", err)
	}
	s.frames++
	return nil
}

// relayout recomputes the cluster layout after a scale change. The scale is
// re-read under the session lock so racing zooms cannot store a stale layout.
func (s *Session) relayout(float64) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	scale := s.viewport.Scale()
	pg, err := layout.Compute(s.graph, s.canvas, scale)
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("layout failed", logging.Scale(scale), logging.Error(err))
		return
	}
	s.positioned = pg
	s.mu.Unlock()

	s.recordLayout(pg)
}

// recordLayout logs each warning once per layout and updates metrics.
func (s *Session) recordLayout(pg layout.PositionedGraph) {
	kinds := make([]string, 0, len(pg.Warnings))
	for _, w := range pg.Warnings {
		kinds = append(kinds, string(w.Kind))
		fields := []logging.Field{logging.String("kind", string(w.Kind))}
		if w.Ref != "" {
			fields = append(fields, logging.String("ref", w.Ref))
		}
		if w.Kind == layout.WarnEmptyModel {
			s.logger.Info(w.Message, fields...)
			continue
		}
		s.logger.Warn(w.Message, fields...)
	}
	if s.metrics != nil {
		s.metrics.RecordLayout(string(pg.Kind), pg.DroppedTransfers, kinds...)
	}
}
