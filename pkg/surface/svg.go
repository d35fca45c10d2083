package surface

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	svg "github.com/ajstarks/svgo/float"

	"github.com/dd0wney/cluso-riskgraph/pkg/draw"
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
	"github.com/dd0wney/cluso-riskgraph/pkg/riskcolor"
)

// FrameSink receives each completed SVG document.
type FrameSink func(frame int, doc []byte) error

// WriterSink writes every document to w.
func WriterSink(w io.Writer) FrameSink {
	return func(_ int, doc []byte) error {
		_, err := w.Write(doc)
		return err
	}
}

// DirSink writes frame n to dir/<prefix>-NNNN.svg.
func DirSink(dir, prefix string) FrameSink {
	return func(frame int, doc []byte) error {
		name := filepath.Join(dir, fmt.Sprintf("%s-%04d.svg", prefix, frame))
		return os.WriteFile(name, doc, 0o644)
	}
}

// SVGOption configures an SVG surface.
type SVGOption func(*SVG)

// WithBackground sets the fill painted behind every frame.
func WithBackground(c riskcolor.Color) SVGOption {
	return func(s *SVG) { s.background = c }
}

// WithTitle sets the document title.
func WithTitle(title string) SVGOption {
	return func(s *SVG) { s.title = title }
}

// SVG renders frames as standalone SVG documents. Glows are drawn as a
// blurred translucent halo beneath the circle.
type SVG struct {
	sink       FrameSink
	background riskcolor.Color
	title      string

	buf    bytes.Buffer
	doc    *svg.SVG
	frames int
	open   bool
}

var _ draw.Surface = (*SVG)(nil)

// NewSVG returns a surface that hands each flushed frame to sink.
func NewSVG(sink FrameSink, opts ...SVGOption) *SVG {
	s := &SVG{
		sink:       sink,
		background: riskcolor.MustParseHex("#0f172a"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.doc = svg.New(&s.buf)
	return s
}

// Frames returns how many documents have been flushed.
func (s *SVG) Frames() int { return s.frames }

func (s *SVG) Clear(canvas layout.Canvas) error {
	s.buf.Reset()
	s.doc.Start(canvas.Width, canvas.Height)
	if s.title != "" {
		s.doc.Title(s.title)
	}
	s.doc.Def()
	s.doc.Filter("glow", `x="-100%"`, `y="-100%"`, `width="300%"`, `height="300%"`)
	s.doc.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic"}, 4, 4)
	s.doc.Fend()
	s.doc.DefEnd()
	s.doc.Rect(0, 0, canvas.Width, canvas.Height, fill(s.background))
	s.open = true
	return nil
}

func (s *SVG) Circle(c draw.Circle) error {
	if err := s.ready(); err != nil {
		return err
	}
	if c.Glow != nil && c.Glow.Blur > 0 {
		s.doc.Circle(c.Center.X, c.Center.Y, c.Radius+c.Glow.Blur/4,
			fill(c.Glow.Color), `fill-opacity="0.45"`, `filter="url(#glow)"`)
	}
	attrs := []string{fill(c.Fill)}
	if c.StrokeWidth > 0 {
		attrs = append(attrs, stroke(c.Stroke), attr("stroke-width", c.StrokeWidth))
	}
	s.doc.Circle(c.Center.X, c.Center.Y, c.Radius, attrs...)
	return nil
}

func (s *SVG) Line(l draw.Line) error {
	if err := s.ready(); err != nil {
		return err
	}
	s.doc.Line(l.P1.X, l.P1.Y, l.P2.X, l.P2.Y, stroke(l.Color), attr("stroke-width", l.Width))
	return nil
}

func (s *SVG) Arrow(a draw.Arrow) error {
	if err := s.ready(); err != nil {
		return err
	}
	v := a.Vertices()
	s.doc.Polygon(
		[]float64{v[0].X, v[1].X, v[2].X},
		[]float64{v[0].Y, v[1].Y, v[2].Y},
		fill(a.Color),
	)
	return nil
}

func (s *SVG) Text(t draw.Text) error {
	if err := s.ready(); err != nil {
		return err
	}
	anchor := "middle"
	if t.Align == draw.AlignLeft {
		anchor = "start"
	}
	s.doc.Text(t.Position.X, t.Position.Y, t.Content,
		fill(t.Color),
		`text-anchor="`+anchor+`"`,
		`dominant-baseline="middle"`,
		"font: "+t.Font,
	)
	return nil
}

func (s *SVG) Flush() error {
	if err := s.ready(); err != nil {
		return err
	}
	s.doc.End()
	s.open = false
	doc := bytes.Clone(s.buf.Bytes())
	s.buf.Reset()
	if err := s.sink(s.frames, doc); err != nil {
		return fmt.Errorf("write svg frame %d: %w", s.frames, err)
	}
	s.frames++
	return nil
}

func (s *SVG) ready() error {
	if !s.open {
		return ErrNoFrame
	}
	return nil
}

func fill(c riskcolor.Color) string {
	if c.Opaque() {
		return `fill="` + c.Hex() + `"`
	}
	return `fill="` + c.Hex() + `" fill-opacity="` + num(c.A) + `"`
}

func stroke(c riskcolor.Color) string {
	if c.Opaque() {
		return `stroke="` + c.Hex() + `"`
	}
	return `stroke="` + c.Hex() + `" stroke-opacity="` + num(c.A) + `"`
}

func attr(name string, v float64) string {
	return name + `="` + num(v) + `"`
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
