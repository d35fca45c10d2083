package recording

import (
	"sync"

	"github.com/dd0wney/cluso-riskgraph/pkg/draw"
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
	"github.com/dd0wney/cluso-riskgraph/pkg/metrics"
)

// Surface is a draw.Surface that appends every flushed frame to a Writer.
type Surface struct {
	w       *Writer
	phase   func() float64
	metrics *metrics.Registry

	mu      sync.Mutex
	pending []draw.Command
	started bool
}

var _ draw.Surface = (*Surface)(nil)

// NewSurface records onto w. phase is sampled at each Flush and stored with
// the frame; nil records phase 0. reg may be nil.
func NewSurface(w *Writer, phase func() float64, reg *metrics.Registry) *Surface {
	return &Surface{w: w, phase: phase, metrics: reg}
}

func (s *Surface) Clear(layout.Canvas) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = nil
	s.started = true
	return nil
}

func (s *Surface) Circle(c draw.Circle) error { return s.add(draw.CircleCmd("", c)) }
func (s *Surface) Line(l draw.Line) error     { return s.add(draw.LineCmd("", l)) }
func (s *Surface) Arrow(a draw.Arrow) error   { return s.add(draw.ArrowCmd("", a)) }
func (s *Surface) Text(t draw.Text) error     { return s.add(draw.TextCmd("", t)) }

func (s *Surface) add(cmd draw.Command) error {
	s.mu.Lock()
	s.pending = append(s.pending, cmd)
	s.mu.Unlock()
	return nil
}

// Flush writes the pending frame.
func (s *Surface) Flush() error {
	s.mu.Lock()
	cmds := s.pending
	s.pending = nil
	started := s.started
	s.started = false
	s.mu.Unlock()

	if !started {
		return nil
	}

	phase := 0.0
	if s.phase != nil {
		phase = s.phase()
	}

	before := s.w.Stats()
	if _, err := s.w.WriteFrame(phase, cmds); err != nil {
		return err
	}
	if s.metrics != nil {
		after := s.w.Stats()
		s.metrics.RecordFrameWritten(
			int(after.BytesUncompressed-before.BytesUncompressed),
			int(after.BytesCompressed-before.BytesCompressed))
	}
	return nil
}
