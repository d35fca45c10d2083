package draw

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
)

// ErrMalformedCommand is returned by Replay for a command whose payload does
// not match its Op.
var ErrMalformedCommand = errors.New("draw: malformed command")

// Surface is a rendering backend. Replay calls Clear once, each primitive in
// order, then Flush.
type Surface interface {
	Clear(canvas layout.Canvas) error
	Circle(c Circle) error
	Line(l Line) error
	Arrow(a Arrow) error
	Text(t Text) error
	Flush() error
}

// Replay draws cmds onto s in order and stops at the first error.
func Replay(s Surface, canvas layout.Canvas, cmds []Command) error {
	if err := s.Clear(canvas); err != nil {
		return fmt.Errorf("clear surface: %w", err)
	}
	for i, cmd := range cmds {
		if err := apply(s, cmd); err != nil {
			return fmt.Errorf("command %d (%s): %w", i, cmd.Op, err)
		}
	}
	if err := s.Flush(); err != nil {
		return fmt.Errorf("flush surface: %w", err)
	}
	return nil
}

func apply(s Surface, cmd Command) error {
	switch {
	case cmd.Op == OpCircle && cmd.Circle != nil:
		return s.Circle(*cmd.Circle)
	case cmd.Op == OpLine && cmd.Line != nil:
		return s.Line(*cmd.Line)
	case cmd.Op == OpArrow && cmd.Arrow != nil:
		return s.Arrow(*cmd.Arrow)
	case cmd.Op == OpText && cmd.Text != nil:
		return s.Text(*cmd.Text)
	default:
		return ErrMalformedCommand
	}
}

// Recorder is an in-memory Surface that keeps every flushed frame.
type Recorder struct {
	mu      sync.Mutex
	canvas  layout.Canvas
	pending []Command
	frames  [][]Command
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Clear(canvas layout.Canvas) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canvas = canvas
	r.pending = nil
	return nil
}

func (r *Recorder) Circle(c Circle) error { return r.add(CircleCmd("", c)) }
func (r *Recorder) Line(l Line) error     { return r.add(LineCmd("", l)) }
func (r *Recorder) Arrow(a Arrow) error   { return r.add(ArrowCmd("", a)) }
func (r *Recorder) Text(t Text) error     { return r.add(TextCmd("", t)) }

func (r *Recorder) add(cmd Command) error {
	r.mu.Lock()
	r.pending = append(r.pending, cmd)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Flush() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, r.pending)
	r.pending = nil
	return nil
}

// Canvas returns the canvas of the last Clear.
func (r *Recorder) Canvas() layout.Canvas {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canvas
}

// Frames returns a copy of the flushed frames. Recorded commands carry no
// layer.
func (r *Recorder) Frames() [][]Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.frames)
}

// Len returns the number of flushed frames.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.frames)
}

// Last returns the most recent frame, or nil.
func (r *Recorder) Last() []Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.frames) == 0 {
		return nil
	}
	return r.frames[len(r.frames)-1]
}
