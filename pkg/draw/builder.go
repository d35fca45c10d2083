package draw

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dd0wney/cluso-riskgraph/pkg/animation"
	"github.com/dd0wney/cluso-riskgraph/pkg/layout"
	"github.com/dd0wney/cluso-riskgraph/pkg/model"
	"github.com/dd0wney/cluso-riskgraph/pkg/riskcolor"
	"github.com/dd0wney/cluso-riskgraph/pkg/validation"
)

// ColorMapper resolves fill colors. riskcolor.Palette satisfies it.
type ColorMapper interface {
	RiskColor(score float64) riskcolor.Color
	NodeColor(category string) riskcolor.Color
	TransferColor(category string) riskcolor.Color
}

var _ ColorMapper = riskcolor.Palette{}

// Options tunes particle rendering. TravelWindow and Stagger are particle
// timing owned by the animation clock settings and are not read from config
// files.
type Options struct {
	TravelWindow   float64 `yaml:"-" toml:"-" json:"travel_window"`
	Stagger        float64 `yaml:"-" toml:"-" json:"stagger"`
	ParticleRadius float64 `yaml:"particle_radius" toml:"particle_radius" json:"particle_radius"`
	ParticleLift   float64 `yaml:"particle_lift" toml:"particle_lift" json:"particle_lift"`
	LabelLift      float64 `yaml:"label_lift" toml:"label_lift" json:"label_lift"`
	ParticleGlow   float64 `yaml:"particle_glow" toml:"particle_glow" json:"particle_glow"`
}

// DefaultOptions matches the dashboard: particles travel for 80% of each
// cycle, 0.15 apart, 15px above the chain with labels at 30px.
func DefaultOptions() Options {
	return Options{
		TravelWindow:   animation.DefaultConfig().TravelWindow,
		Stagger:        animation.DefaultConfig().Stagger,
		ParticleRadius: 6,
		ParticleLift:   15,
		LabelLift:      30,
		ParticleGlow:   10,
	}
}

// Validate checks option ranges.
func (o Options) Validate() error {
	return validation.NewConfigValidator("draw").
		PositiveFloat("travel_window", o.TravelWindow).
		RangeFloat("travel_window", o.TravelWindow, 0, 1).
		RangeFloat("stagger", o.Stagger, 0, 1).
		PositiveFloat("particle_radius", o.ParticleRadius).
		RangeFloat("particle_glow", o.ParticleGlow, 0, 100).
		Validate()
}

// Frame is the output of one build pass.
type Frame struct {
	Commands         []Command `json:"commands"`
	Particles        int       `json:"particles"`
	DroppedTransfers int       `json:"dropped_transfers"`
}

// Builder turns positioned graphs into frames. It holds no per-frame state
// and may be shared.
type Builder struct {
	opts Options
}

// NewBuilder returns a builder. Invalid options fall back to DefaultOptions.
func NewBuilder(opts Options) *Builder {
	if opts.Validate() != nil {
		opts = DefaultOptions()
	}
	return &Builder{opts: opts}
}

// Options returns the options in effect.
func (b *Builder) Options() Options { return b.opts }

// BuildDrawCommands builds one frame with default options and returns its
// commands.
func BuildDrawCommands(pg layout.PositionedGraph, phase float64, colors ColorMapper) []Command {
	return NewBuilder(DefaultOptions()).Build(pg, phase, colors).Commands
}

// Build emits the frame for pg at clock phase. Cluster diagrams are static
// and ignore phase.
func (b *Builder) Build(pg layout.PositionedGraph, phase float64, colors ColorMapper) Frame {
	f := Frame{
		Commands:         make([]Command, 0, estimate(pg)),
		DroppedTransfers: pg.DroppedTransfers,
	}

	switch pg.Kind {
	case model.KindCluster:
		b.clusterConnections(&f, pg, colors)
		b.clusterNodes(&f, pg, colors)
		b.legend(&f, pg.Canvas, clusterLegend(colors), 50, 130, 2, fontClusterKey)
	case model.KindFlow:
		b.flowConnections(&f, pg)
		b.flowNodes(&f, pg, colors)
		b.particles(&f, pg, phase, colors)
		b.legend(&f, pg.Canvas, flowLegend(colors), 40, 100, 3, fontFlowKey)
	}
	return f
}

func estimate(pg layout.PositionedGraph) int {
	return 2*len(pg.Connections) + 4*len(pg.Nodes) + 2*len(pg.Transfers) + 8
}

func (b *Builder) clusterConnections(f *Frame, pg layout.PositionedGraph, colors ColorMapper) {
	for _, c := range pg.Connections {
		from, to := pg.Nodes[c.From], pg.Nodes[c.To]
		l := Line{P1: from.Center, P2: to.Center, Color: primarySpoke, Width: primarySpokeWidth}
		if from.Role != layout.RolePrimary {
			l.Color = colors.RiskColor(from.RiskScore).WithAlpha(walletSpokeAlpha)
			l.Width = walletSpokeWidth
		}
		f.Commands = append(f.Commands, LineCmd(LayerConnections, l))
	}
}

func (b *Builder) clusterNodes(f *Frame, pg layout.PositionedGraph, colors ColorMapper) {
	for _, n := range pg.Nodes {
		c := n.Center
		switch n.Role {
		case layout.RolePrimary:
			f.node(Circle{Center: c, Radius: n.Radius, Fill: primaryFill, Stroke: white, StrokeWidth: primaryBorder,
				Glow: &Glow{Color: primaryFill, Blur: primaryGlow}})
			f.label(c, -8, n.Label, fontPrimaryLabel, white)
			f.label(c, 8, n.Detail, fontPrimaryAddr, primaryAddr)
			f.label(c, 22, "Owner: "+n.Owner, fontPrimaryOwner, primaryOwner)
		case layout.RoleCluster:
			fill := colors.RiskColor(n.RiskScore)
			f.node(Circle{Center: c, Radius: n.Radius, Fill: fill, Stroke: white, StrokeWidth: clusterBorder,
				Glow: &Glow{Color: fill, Blur: clusterGlow}})
			f.label(c, -6, n.Owner, fontClusterOwner, white)
			f.label(c, 6, "Risk: "+formatNumber(n.RiskScore), fontClusterRisk, clusterRisk)
		case layout.RoleWallet:
			f.node(Circle{Center: c, Radius: n.Radius, Fill: colors.RiskColor(n.RiskScore), Stroke: white, StrokeWidth: walletBorder})
			f.label(c, -3, n.Label, fontWalletLabel, white)
			f.label(c, 5, shortAddress(n.Detail), fontWalletAddr, walletAddr)
			f.label(c, 13, formatNumber(n.Value)+" "+n.Unit, fontWalletValue, walletValue)
		}
	}
}

func (b *Builder) flowConnections(f *Frame, pg layout.PositionedGraph) {
	for _, c := range pg.Connections {
		from, to := pg.Nodes[c.From], pg.Nodes[c.To]
		dir := unit(from.Center, to.Center)
		start := layout.Point{X: from.Center.X + dir.X*from.Radius, Y: from.Center.Y + dir.Y*from.Radius}
		tip := layout.Point{X: to.Center.X - dir.X*to.Radius, Y: to.Center.Y - dir.Y*to.Radius}

		f.Commands = append(f.Commands,
			LineCmd(LayerConnections, Line{P1: start, P2: tip, Color: flowConnection, Width: flowLineWidth}),
			ArrowCmd(LayerConnections, Arrow{Tip: tip, Direction: dir, Color: flowArrow, Length: arrowLength, HalfWidth: arrowHalfWidth}),
		)
	}
}

func (b *Builder) flowNodes(f *Frame, pg layout.PositionedGraph, colors ColorMapper) {
	for _, n := range pg.Nodes {
		c := n.Center
		fill := colors.NodeColor(n.Category)
		f.node(Circle{Center: c, Radius: n.Radius, Fill: fill, Stroke: white, StrokeWidth: stepBorder,
			Glow: &Glow{Color: fill, Blur: stepGlow}})
		f.label(c, 0, n.Label, fontStepLabel, white)
		f.label(c, 35, fmt.Sprintf("Step %d", n.Index+1), fontStepNumber, stepNumber)
		f.label(c, 50, n.Detail, fontStepAddr, stepAddr)
	}
}

// particles places one dot per resolved transfer along the straight line
// between its endpoints. The stagger uses the transfer's position in the
// source model so dropping a transfer does not shift the others.
func (b *Builder) particles(f *Frame, pg layout.PositionedGraph, phase float64, colors ColorMapper) {
	for _, t := range pg.Transfers {
		if t.From < 0 || t.From >= len(pg.Nodes) || t.To < 0 || t.To >= len(pg.Nodes) {
			f.DroppedTransfers++
			continue
		}
		p := animation.ParticlePhase(phase, t.Ordinal, b.opts.Stagger)
		if !animation.Visible(p, b.opts.TravelWindow) {
			continue
		}
		from, to := pg.Nodes[t.From].Center, pg.Nodes[t.To].Center
		x := from.X + (to.X-from.X)*p
		y := from.Y + (to.Y-from.Y)*p
		col := colors.TransferColor(t.Category)

		f.Commands = append(f.Commands,
			CircleCmd(LayerParticles, Circle{
				Center: layout.Point{X: x, Y: y - b.opts.ParticleLift},
				Radius: b.opts.ParticleRadius,
				Fill:   col,
				Glow:   &Glow{Color: col, Blur: b.opts.ParticleGlow},
			}),
			TextCmd(LayerParticles, Text{
				Position: layout.Point{X: x, Y: y - b.opts.LabelLift},
				Content:  formatNumber(t.Amount) + " " + t.Unit,
				Font:     fontParticle,
				Color:    particleLabel,
				Align:    AlignCenter,
			}),
		)
		f.Particles++
	}
}

// legend draws swatches along the bottom-left of the canvas, bottom pixels
// above the lower edge and spacing apart.
func (b *Builder) legend(f *Frame, canvas layout.Canvas, entries []riskcolor.LegendEntry, bottom, spacing, textDrop float64, font string) {
	y := canvas.Height - bottom
	for k, e := range entries {
		x := 20 + spacing*float64(k)
		f.Commands = append(f.Commands,
			CircleCmd(LayerLegend, Circle{Center: layout.Point{X: x, Y: y}, Radius: legendSwatch, Fill: e.Color}),
			TextCmd(LayerLegend, Text{
				Position: layout.Point{X: x + legendTextOffset, Y: y + textDrop},
				Content:  e.Label,
				Font:     font,
				Color:    legendLabel,
				Align:    AlignLeft,
			}),
		)
	}
}

func clusterLegend(colors ColorMapper) []riskcolor.LegendEntry {
	return []riskcolor.LegendEntry{
		{Label: "Low Risk (0-30)", Color: colors.RiskColor(15)},
		{Label: "Medium (30-50)", Color: colors.RiskColor(40)},
		{Label: "High (50-70)", Color: colors.RiskColor(60)},
		{Label: "Critical (70+)", Color: colors.RiskColor(85)},
	}
}

func flowLegend(colors ColorMapper) []riskcolor.LegendEntry {
	return []riskcolor.LegendEntry{
		{Label: "Send", Color: colors.TransferColor(string(model.TransferSend))},
		{Label: "Swap", Color: colors.TransferColor(string(model.TransferSwap))},
		{Label: "Stake", Color: colors.TransferColor(string(model.TransferStake))},
		{Label: "Fee", Color: colors.TransferColor(string(model.TransferFee))},
	}
}

func (f *Frame) node(c Circle) {
	f.Commands = append(f.Commands, CircleCmd(LayerNodes, c))
}

// label adds centered node text dy pixels below the node center. Empty
// content is skipped.
func (f *Frame) label(c layout.Point, dy float64, content, font string, color riskcolor.Color) {
	if content == "" {
		return
	}
	f.Commands = append(f.Commands, TextCmd(LayerNodes, Text{
		Position: layout.Point{X: c.X, Y: c.Y + dy},
		Content:  content,
		Font:     font,
		Color:    color,
		Align:    AlignCenter,
	}))
}

func unit(a, b layout.Point) layout.Point {
	dx, dy := b.X-a.X, b.Y-a.Y
	d := math.Hypot(dx, dy)
	if d == 0 {
		return layout.Point{X: 1}
	}
	return layout.Point{X: dx / d, Y: dy / d}
}

func shortAddress(addr string) string {
	if addr == "" {
		return ""
	}
	r := []rune(addr)
	if len(r) > walletAddrPrefix {
		r = r[:walletAddrPrefix]
	}
	return string(r) + "..."
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
