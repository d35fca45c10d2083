package riskcolor

import "fmt"

// Palette resolves risk buckets and category tags to colors.
type Palette struct {
	Risk     map[Bucket]Color
	Nodes    map[string]Color
	Transfer map[string]Color
	Fallback Color
}

// DefaultPalette returns the dashboard colors.
func DefaultPalette() Palette {
	return Palette{
		Risk: map[Bucket]Color{
			Low:      MustParseHex("#10b981"),
			Medium:   MustParseHex("#eab308"),
			High:     MustParseHex("#f59e0b"),
			Critical: MustParseHex("#ef4444"),
			Unknown:  MustParseHex("#6b7280"),
		},
		Nodes: map[string]Color{
			"user":     MustParseHex("#3b82f6"),
			"dex":      MustParseHex("#8b5cf6"),
			"protocol": MustParseHex("#10b981"),
			"contract": MustParseHex("#f59e0b"),
		},
		Transfer: map[string]Color{
			"send":  MustParseHex("#3b82f6"),
			"swap":  MustParseHex("#f59e0b"),
			"stake": MustParseHex("#10b981"),
			"fee":   MustParseHex("#ef4444"),
		},
		Fallback: MustParseHex("#6b7280"),
	}
}

// RiskColor returns the color of the bucket containing score.
func (p Palette) RiskColor(score float64) Color {
	if c, ok := p.Risk[BucketOf(score)]; ok {
		return c
	}
	return p.Fallback
}

// NodeColor returns the color for a step category tag.
func (p Palette) NodeColor(category string) Color {
	if c, ok := p.Nodes[category]; ok {
		return c
	}
	return p.Fallback
}

// TransferColor returns the color for a transfer category tag.
func (p Palette) TransferColor(category string) Color {
	if c, ok := p.Transfer[category]; ok {
		return c
	}
	return p.Fallback
}

// Override replaces entries from hex strings keyed by bucket name or tag.
// Unknown keys are an error so typos in config files surface.
func (p Palette) Override(risk, nodes, transfer map[string]string) (Palette, error) {
	out := Palette{
		Risk:     copyMap(p.Risk),
		Nodes:    copyMap(p.Nodes),
		Transfer: copyMap(p.Transfer),
		Fallback: p.Fallback,
	}
	for name, hex := range risk {
		b, ok := bucketNames[name]
		if !ok {
			return p, fmt.Errorf("riskcolor: unknown risk bucket %q", name)
		}
		c, err := ParseHex(hex)
		if err != nil {
			return p, err
		}
		out.Risk[b] = c
	}
	for tag, hex := range nodes {
		c, err := ParseHex(hex)
		if err != nil {
			return p, err
		}
		out.Nodes[tag] = c
	}
	for tag, hex := range transfer {
		c, err := ParseHex(hex)
		if err != nil {
			return p, err
		}
		out.Transfer[tag] = c
	}
	return out, nil
}

var bucketNames = map[string]Bucket{
	"low":      Low,
	"medium":   Medium,
	"high":     High,
	"critical": Critical,
	"unknown":  Unknown,
}

func copyMap[K comparable](m map[K]Color) map[K]Color {
	out := make(map[K]Color, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// LegendEntry is one swatch of a diagram legend.
type LegendEntry struct {
	Label string
	Color Color
}

// RiskLegend lists the risk buckets lowest first.
func (p Palette) RiskLegend() []LegendEntry {
	return []LegendEntry{
		{Label: "Low Risk (0-30)", Color: p.RiskColor(15)},
		{Label: "Medium (30-50)", Color: p.RiskColor(40)},
		{Label: "High (50-70)", Color: p.RiskColor(60)},
		{Label: "Critical (70+)", Color: p.RiskColor(85)},
	}
}

// TransferLegend lists the transfer categories in display order.
func (p Palette) TransferLegend() []LegendEntry {
	return []LegendEntry{
		{Label: "Send", Color: p.TransferColor("send")},
		{Label: "Swap", Color: p.TransferColor("swap")},
		{Label: "Stake", Color: p.TransferColor("stake")},
		{Label: "Fee", Color: p.TransferColor("fee")},
	}
}
