// Package draw converts positioned graphs into an ordered list of drawing
// primitives and replays them onto a Surface.
//
// Commands carry no reference to any concrete graphics backend. A frame is
// emitted in four layers, bottom to top: structural connections, nodes with
// their labels, transfer particles, and the legend.
package draw

import (
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
	"github.com/dd0wney/cluso-riskgraph/pkg/riskcolor"
)

// Op names a primitive.
type Op string

const (
	OpCircle Op = "circle"
	OpLine   Op = "line"
	OpArrow  Op = "arrow"
	OpText   Op = "text"
)

// Layer is the z-order band a command belongs to.
type Layer string

const (
	LayerConnections Layer = "connections"
	LayerNodes       Layer = "nodes"
	LayerParticles   Layer = "particles"
	LayerLegend      Layer = "legend"
)

// Align is horizontal text anchoring.
type Align string

const (
	AlignCenter Align = "center"
	AlignLeft   Align = "left"
)

// Glow is a blurred halo drawn behind a circle fill.
type Glow struct {
	Color riskcolor.Color `json:"color"`
	Blur  float64         `json:"blur"`
}

// Circle is a filled disc with an optional border (StrokeWidth > 0).
type Circle struct {
	Center      layout.Point    `json:"center"`
	Radius      float64         `json:"radius"`
	Fill        riskcolor.Color `json:"fill"`
	Stroke      riskcolor.Color `json:"stroke"`
	StrokeWidth float64         `json:"stroke_width,omitempty"`
	Glow        *Glow           `json:"glow,omitempty"`
}

// Line is a stroked segment.
type Line struct {
	P1    layout.Point    `json:"p1"`
	P2    layout.Point    `json:"p2"`
	Color riskcolor.Color `json:"color"`
	Width float64         `json:"width"`
}

// Arrow is a filled triangular head. Direction is a unit vector pointing
// toward Tip; the base sits Length behind it and spans 2*HalfWidth.
type Arrow struct {
	Tip       layout.Point    `json:"tip"`
	Direction layout.Point    `json:"direction"`
	Color     riskcolor.Color `json:"color"`
	Length    float64         `json:"length"`
	HalfWidth float64         `json:"half_width"`
}

// Vertices returns the tip and the two base corners.
func (a Arrow) Vertices() [3]layout.Point {
	bx := a.Tip.X - a.Direction.X*a.Length
	by := a.Tip.Y - a.Direction.Y*a.Length
	nx, ny := -a.Direction.Y*a.HalfWidth, a.Direction.X*a.HalfWidth
	return [3]layout.Point{
		a.Tip,
		{X: bx + nx, Y: by + ny},
		{X: bx - nx, Y: by - ny},
	}
}

// Text is a single line of text vertically centered on Position.
// Font uses the CSS shorthand, e.g. "bold 11px sans-serif".
type Text struct {
	Position layout.Point    `json:"position"`
	Content  string          `json:"content"`
	Font     string          `json:"font"`
	Color    riskcolor.Color `json:"color"`
	Align    Align           `json:"align"`
}

// Command is one primitive. Exactly the payload matching Op is set.
type Command struct {
	Op     Op      `json:"op"`
	Layer  Layer   `json:"layer"`
	Circle *Circle `json:"circle,omitempty"`
	Line   *Line   `json:"line,omitempty"`
	Arrow  *Arrow  `json:"arrow,omitempty"`
	Text   *Text   `json:"text,omitempty"`
}

// CircleCmd wraps c as a command.
func CircleCmd(layer Layer, c Circle) Command {
	return Command{Op: OpCircle, Layer: layer, Circle: &c}
}

// LineCmd wraps l as a command.
func LineCmd(layer Layer, l Line) Command {
	return Command{Op: OpLine, Layer: layer, Line: &l}
}

// ArrowCmd wraps a as a command.
func ArrowCmd(layer Layer, a Arrow) Command {
	return Command{Op: OpArrow, Layer: layer, Arrow: &a}
}

// TextCmd wraps t as a command.
func TextCmd(layer Layer, t Text) Command {
	return Command{Op: OpText, Layer: layer, Text: &t}
}
