package layout

import (
	"fmt"

	"github.com/dd0wney/cluso-riskgraph/pkg/model"
)

// StepRadius is the fixed radius of flow steps; flow diagrams do not zoom.
const StepRadius = 25.0

// ComputeFlowLayout places K steps evenly left to right on the canvas
// midline, links consecutive steps, and resolves transfers to step indices.
// Transfers naming a missing step are dropped, counted, and reported as
// data-integrity warnings.
func ComputeFlowLayout(m *model.FlowModel, canvas Canvas) PositionedGraph {
	g := PositionedGraph{
		Kind:   model.KindFlow,
		Canvas: canvas,
		Scale:  1.0,
	}
	if m == nil {
		m = &model.FlowModel{}
	}

	k := len(m.Steps)
	g.Nodes = make([]PositionedNode, 0, k)
	g.Connections = make([]Connection, 0, max(k-1, 0))
	g.Transfers = make([]PositionedTransfer, 0, len(m.Transfers))

	if k == 0 {
		g.Warnings = append(g.Warnings, Warning{
			Kind:    WarnEmptyModel,
			Message: "flow model has no steps",
		})
	}

	spacing := canvas.Width / float64(max(k, 1))
	index := make(map[string]int, k)
	for i, s := range m.Steps {
		g.Nodes = append(g.Nodes, PositionedNode{
			ID:       s.ID,
			Role:     RoleStep,
			Index:    i,
			Parent:   -1,
			Center:   Point{X: (float64(i) + 0.5) * spacing, Y: canvas.Height / 2},
			Radius:   StepRadius,
			Category: string(s.Category),
			Label:    s.Label,
			Detail:   s.Address,
		})
		if _, dup := index[s.ID]; !dup {
			index[s.ID] = i
		}
		if i > 0 {
			g.Connections = append(g.Connections, Connection{From: i - 1, To: i})
		}
	}

	for ord, t := range m.Transfers {
		from, okFrom := index[t.From]
		to, okTo := index[t.To]
		if !okFrom || !okTo {
			g.DroppedTransfers++
			g.Warnings = append(g.Warnings, Warning{
				Kind:    WarnDataIntegrity,
				Message: fmt.Sprintf("transfer %s references missing step (from %q, to %q)", t.ID, t.From, t.To),
				Ref:     t.ID,
			})
			continue
		}
		g.Transfers = append(g.Transfers, PositionedTransfer{
			ID:       t.ID,
			Ordinal:  ord,
			From:     from,
			To:       to,
			Amount:   t.Amount,
			Unit:     t.Unit,
			Category: string(t.Category),
		})
	}

	return g
}
