package layout

import (
	"math"

	"github.com/dd0wney/cluso-riskgraph/pkg/model"
)

// Cluster geometry at scale 1.0. Every value is multiplied by the scale.
const (
	PrimaryRadius   = 40.0
	ClusterRadius   = 35.0
	ClusterDistance = 250.0
	WalletRadius    = 20.0
	WalletDistance  = 55.0
)

// WalletAngleOffsetFactor rotates each wallet fan by this fraction of its
// cluster's angle so neighbouring fans do not line up radially.
const WalletAngleOffsetFactor = 0.5

// ComputeClusterLayout arranges the primary wallet at the canvas center,
// clusters on a ring around it and each cluster's wallets on a smaller ring
// around the cluster.
//
// Nodes are ordered primary, clusters, then wallets grouped by cluster.
// Connections run primary to cluster first, then cluster to wallet.
func ComputeClusterLayout(m *model.ClusterModel, canvas Canvas, scale float64) PositionedGraph {
	scale, warn := clampScale(scale)

	g := PositionedGraph{
		Kind:   model.KindCluster,
		Canvas: canvas,
		Scale:  scale,
	}
	if warn != nil {
		g.Warnings = append(g.Warnings, *warn)
	}
	if m == nil {
		m = &model.ClusterModel{}
	}

	n := len(m.Clusters)
	total := 1 + n + m.WalletCount()
	g.Nodes = make([]PositionedNode, 0, total)
	g.Connections = make([]Connection, 0, total-1)
	g.Transfers = []PositionedTransfer{}

	center := canvas.Center()
	g.Nodes = append(g.Nodes, PositionedNode{
		ID:        m.Primary.ID,
		Role:      RolePrimary,
		Parent:    -1,
		Center:    center,
		Radius:    PrimaryRadius * scale,
		RiskScore: m.Primary.RiskScore,
		Label:     m.Primary.Label,
		Detail:    m.Primary.Address,
		Owner:     m.Primary.Owner,
	})

	if n == 0 {
		g.Warnings = append(g.Warnings, Warning{
			Kind:    WarnEmptyModel,
			Message: "cluster model has no clusters",
		})
		return g
	}

	clusterAngles := make([]float64, n)
	for i, c := range m.Clusters {
		angle := float64(i) / float64(n) * 2 * math.Pi
		clusterAngles[i] = angle
		g.Nodes = append(g.Nodes, PositionedNode{
			ID:        c.ID,
			Role:      RoleCluster,
			Index:     i,
			Parent:    0,
			Center:    polar(center, ClusterDistance*scale, angle),
			Radius:    ClusterRadius * scale,
			Angle:     angle,
			RiskScore: c.RiskScore,
			Label:     c.Owner,
			Owner:     c.Owner,
		})
		g.Connections = append(g.Connections, Connection{From: 0, To: 1 + i})
	}

	for i, c := range m.Clusters {
		parent := 1 + i
		cc := g.Nodes[parent].Center
		wm := len(c.Wallets)
		for j, w := range c.Wallets {
			angle := float64(j)/float64(wm)*2*math.Pi + clusterAngles[i]*WalletAngleOffsetFactor
			g.Nodes = append(g.Nodes, PositionedNode{
				ID:        w.ID,
				Role:      RoleWallet,
				Index:     j,
				Parent:    parent,
				Center:    polar(cc, WalletDistance*scale, angle),
				Radius:    WalletRadius * scale,
				Angle:     angle,
				RiskScore: c.RiskScore,
				Label:     w.Label,
				Detail:    w.Address,
				Owner:     c.Owner,
				Value:     w.Value,
				Unit:      w.Unit,
			})
			g.Connections = append(g.Connections, Connection{From: parent, To: len(g.Nodes) - 1})
		}
	}

	return g
}

func polar(origin Point, distance, angle float64) Point {
	return Point{
		X: origin.X + distance*math.Cos(angle),
		Y: origin.Y + distance*math.Sin(angle),
	}
}
