// Package layout turns graph models into positioned geometry.
//
// Two fixed shapes are supported: a radial cluster star around one primary
// wallet, and a left-to-right chain of flow steps. All functions are pure;
// calling them twice with the same input yields identical output.
package layout

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/dd0wney/cluso-riskgraph/pkg/model"
	"github.com/dd0wney/cluso-riskgraph/pkg/viewport"
)

// Scale bounds enforced even when a caller bypasses the viewport.
const (
	MinScale = 0.5
	MaxScale = 2.0
)

// Compute lays out whichever diagram g holds. Flow diagrams ignore scale.
func Compute(g model.GraphModel, canvas Canvas, scale float64) (PositionedGraph, error) {
	switch g.Kind() {
	case model.KindCluster:
		return ComputeClusterLayout(g.Cluster(), canvas, scale), nil
	case model.KindFlow:
		return ComputeFlowLayout(g.Flow(), canvas), nil
	default:
		return PositionedGraph{}, fmt.Errorf("%w: %q", model.ErrUnknownKind, g.Kind())
	}
}

// clampScale applies the zoom bounds and reports a configuration warning
// when the requested scale was unusable.
func clampScale(scale float64) (float64, *Warning) {
	if math.IsNaN(scale) {
		return 1.0, &Warning{
			Kind:    WarnConfiguration,
			Message: "scale is NaN, using 1.0",
		}
	}
	s, clamped := viewport.Clamp(scale, MinScale, MaxScale)
	if !clamped {
		return s, nil
	}
	return s, &Warning{
		Kind:    WarnConfiguration,
		Message: fmt.Sprintf("scale %v clamped to %v", scale, s),
	}
}

// NodeByID returns the first node with id.
func (g *PositionedGraph) NodeByID(id string) (PositionedNode, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return PositionedNode{}, false
}

// Counts tallies nodes by role plus connections and transfers.
func (g *PositionedGraph) Counts() Counts {
	c := Counts{
		Nodes:       len(g.Nodes),
		Connections: len(g.Connections),
		Transfers:   len(g.Transfers),
		Dropped:     g.DroppedTransfers,
	}
	for _, n := range g.Nodes {
		switch n.Role {
		case RoleCluster:
			c.Clusters++
		case RoleWallet:
			c.Wallets++
		case RoleStep:
			c.Steps++
		}
	}
	return c
}

// HasWarning reports whether any warning of kind was raised.
func (g *PositionedGraph) HasWarning(kind WarningKind) bool {
	for _, w := range g.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}

// ExportJSON exports the positioned graph to JSON
func (g *PositionedGraph) ExportJSON() ([]byte, error) {
	type nodeViz struct {
		ID     string  `json:"id"`
		Role   Role    `json:"role"`
		Label  string  `json:"label"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
		Radius float64 `json:"radius"`
	}

	type edgeViz struct {
		From string `json:"from"`
		To   string `json:"to"`
		Kind string `json:"kind"`
	}

	type vizData struct {
		Kind     model.Kind `json:"kind"`
		Width    float64    `json:"width"`
		Height   float64    `json:"height"`
		Scale    float64    `json:"scale"`
		Nodes    []nodeViz  `json:"nodes"`
		Edges    []edgeViz  `json:"edges"`
		Dropped  int        `json:"dropped_transfers"`
		Warnings []Warning  `json:"warnings,omitempty"`
	}

	data := vizData{
		Kind:     g.Kind,
		Width:    g.Canvas.Width,
		Height:   g.Canvas.Height,
		Scale:    g.Scale,
		Nodes:    make([]nodeViz, 0, len(g.Nodes)),
		Edges:    make([]edgeViz, 0, len(g.Connections)+len(g.Transfers)),
		Dropped:  g.DroppedTransfers,
		Warnings: g.Warnings,
	}

	for _, n := range g.Nodes {
		data.Nodes = append(data.Nodes, nodeViz{
			ID:     n.ID,
			Role:   n.Role,
			Label:  n.Label,
			X:      n.Center.X,
			Y:      n.Center.Y,
			Radius: n.Radius,
		})
	}

	for _, c := range g.Connections {
		data.Edges = append(data.Edges, edgeViz{
			From: g.Nodes[c.From].ID,
			To:   g.Nodes[c.To].ID,
			Kind: "structural",
		})
	}
	for _, t := range g.Transfers {
		data.Edges = append(data.Edges, edgeViz{
			From: g.Nodes[t.From].ID,
			To:   g.Nodes[t.To].ID,
			Kind: t.Category,
		})
	}

	return json.Marshal(data)
}
