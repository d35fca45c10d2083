package layout

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-riskgraph/pkg/model"
)

const eps = 1e-9

func clusterModel(t *testing.T, sizes ...int) *model.ClusterModel {
	t.Helper()
	clusters := make([]model.ClusterNode, len(sizes))
	for i, n := range sizes {
		ws := make([]model.LeafWallet, n)
		for j := range ws {
			ws[j] = model.LeafWallet{ID: string(rune('a'+i)) + string(rune('0'+j)), Address: "0xABCDEF0123", Value: 1}
		}
		clusters[i] = model.ClusterNode{ID: string(rune('A' + i)), RiskScore: float64(20 * i), Wallets: ws}
	}
	m, err := model.NewClusterModel(model.PrimaryNode{ID: "primary", Owner: "John Doe", RiskScore: 10}, clusters)
	require.NoError(t, err)
	return m
}

func flowModel(t *testing.T, transfers ...model.Transfer) *model.FlowModel {
	t.Helper()
	m, err := model.NewFlowModel([]model.Step{
		{ID: "s0", Label: "Your Wallet", Category: model.StepUser},
		{ID: "s1", Label: "Uniswap", Category: model.StepDEX},
		{ID: "s2", Label: "Aave", Category: model.StepProtocol},
		{ID: "s3", Label: "Staking Pool", Category: model.StepContract},
	}, transfers)
	require.NoError(t, err)
	return m
}

func assertPoint(t *testing.T, want, got Point) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, eps, "x")
	assert.InDelta(t, want.Y, got.Y, eps, "y")
}

// Clusters of sizes [2,3,4] on the default canvas at scale 1.
func TestClusterLayoutScenario(t *testing.T) {
	m := clusterModel(t, 2, 3, 4)
	g := ComputeClusterLayout(m, DefaultClusterCanvas, 1.0)

	require.Len(t, g.Nodes, 1+3+9)
	assert.Empty(t, g.Warnings)

	primary := g.Nodes[0]
	assert.Equal(t, RolePrimary, primary.Role)
	assertPoint(t, Point{700, 450}, primary.Center)
	assert.Equal(t, 40.0, primary.Radius)

	assertPoint(t, Point{950, 450}, g.Nodes[1].Center)
	assert.Equal(t, 35.0, g.Nodes[1].Radius)

	for i := 0; i < 3; i++ {
		angle := float64(i) * 2 * math.Pi / 3
		c := g.Nodes[1+i]
		assert.InDelta(t, angle, c.Angle, eps)
		assertPoint(t, Point{700 + 250*math.Cos(angle), 450 + 250*math.Sin(angle)}, c.Center)
	}

	sizes := []int{2, 3, 4}
	idx := 4
	for i, size := range sizes {
		cluster := g.Nodes[1+i]
		for j := 0; j < size; j++ {
			w := g.Nodes[idx]
			idx++
			wa := float64(j)/float64(size)*2*math.Pi + cluster.Angle*0.5
			assert.Equal(t, RoleWallet, w.Role)
			assert.Equal(t, 1+i, w.Parent)
			assert.Equal(t, 20.0, w.Radius)
			assert.Equal(t, cluster.RiskScore, w.RiskScore)
			assertPoint(t, Point{cluster.Center.X + 55*math.Cos(wa), cluster.Center.Y + 55*math.Sin(wa)}, w.Center)
		}
	}

	assert.Equal(t, Counts{Nodes: 13, Clusters: 3, Wallets: 9, Connections: 12}, g.Counts())
	assert.Equal(t, Connection{From: 0, To: 1}, g.Connections[0])
	assert.Equal(t, Connection{From: 1, To: 4}, g.Connections[3])
}

func TestClusterLayoutScaled(t *testing.T) {
	m := clusterModel(t, 1)
	g := ComputeClusterLayout(m, DefaultClusterCanvas, 2.0)

	assert.Equal(t, 2.0, g.Scale)
	assert.Equal(t, 80.0, g.Nodes[0].Radius)
	assert.Equal(t, 70.0, g.Nodes[1].Radius)
	assert.Equal(t, 40.0, g.Nodes[2].Radius)
	assertPoint(t, Point{1200, 450}, g.Nodes[1].Center)
	assertPoint(t, Point{1310, 450}, g.Nodes[2].Center)
}

func TestClusterLayoutClampsScale(t *testing.T) {
	m := clusterModel(t, 1)

	g := ComputeClusterLayout(m, DefaultClusterCanvas, 9)
	assert.Equal(t, MaxScale, g.Scale)
	assert.True(t, g.HasWarning(WarnConfiguration))

	g = ComputeClusterLayout(m, DefaultClusterCanvas, 0.1)
	assert.Equal(t, MinScale, g.Scale)

	g = ComputeClusterLayout(m, DefaultClusterCanvas, math.NaN())
	assert.Equal(t, 1.0, g.Scale)
	assert.True(t, g.HasWarning(WarnConfiguration))
}

func TestClusterLayoutEmpty(t *testing.T) {
	m := clusterModel(t)
	g := ComputeClusterLayout(m, DefaultClusterCanvas, 1.0)

	require.Len(t, g.Nodes, 1)
	assert.Empty(t, g.Connections)
	assert.True(t, g.HasWarning(WarnEmptyModel))

	g = ComputeClusterLayout(nil, DefaultClusterCanvas, 1.0)
	assert.Len(t, g.Nodes, 1)
}

func TestFlowLayout(t *testing.T) {
	m := flowModel(t,
		model.Transfer{ID: "t1", From: "s0", To: "s1", Amount: 10, Category: model.TransferSend},
		model.Transfer{ID: "t2", From: "s1", To: "s2", Amount: 2.5, Category: model.TransferSwap},
	)
	g := ComputeFlowLayout(m, DefaultFlowCanvas)

	require.Len(t, g.Nodes, 4)
	for i, n := range g.Nodes {
		assertPoint(t, Point{(float64(i) + 0.5) * 200, 200}, n.Center)
		assert.Equal(t, StepRadius, n.Radius)
	}
	assert.Equal(t, "dex", g.Nodes[1].Category)
	assert.Len(t, g.Connections, 3)
	require.Len(t, g.Transfers, 2)
	assert.Equal(t, PositionedTransfer{ID: "t2", Ordinal: 1, From: 1, To: 2, Amount: 2.5, Unit: "ETH", Category: "swap"}, g.Transfers[1])
	assert.Zero(t, g.DroppedTransfers)
	assert.Empty(t, g.Warnings)
}

// Four steps, one transfer to a step that does not exist.
func TestFlowLayoutDropsDanglingTransfer(t *testing.T) {
	m := flowModel(t,
		model.Transfer{ID: "t1", From: "s0", To: "s1", Amount: 10, Category: model.TransferSend},
		model.Transfer{ID: "bad", From: "s1", To: "nowhere", Amount: 1, Category: model.TransferSwap},
		model.Transfer{ID: "t3", From: "s2", To: "s3", Amount: 3, Category: model.TransferStake},
	)
	g := ComputeFlowLayout(m, DefaultFlowCanvas)

	assert.Equal(t, 1, g.DroppedTransfers)
	require.Len(t, g.Transfers, 2)
	assert.Equal(t, 2, g.Transfers[1].Ordinal)
	require.Len(t, g.Warnings, 1)
	assert.Equal(t, WarnDataIntegrity, g.Warnings[0].Kind)
	assert.Equal(t, "bad", g.Warnings[0].Ref)
}

func TestFlowLayoutEmpty(t *testing.T) {
	m, err := model.NewFlowModel(nil, []model.Transfer{{ID: "t", From: "a", To: "b", Category: model.TransferFee}})
	require.NoError(t, err)

	g := ComputeFlowLayout(m, DefaultFlowCanvas)
	assert.Empty(t, g.Nodes)
	assert.Equal(t, 1, g.DroppedTransfers)
	assert.True(t, g.HasWarning(WarnEmptyModel))
	assert.True(t, g.HasWarning(WarnDataIntegrity))
}

func TestCompute(t *testing.T) {
	g, err := Compute(model.FromCluster(clusterModel(t, 2)), DefaultClusterCanvas, 1.0)
	require.NoError(t, err)
	assert.Equal(t, model.KindCluster, g.Kind)

	g, err = Compute(model.FromFlow(flowModel(t)), DefaultFlowCanvas, 1.7)
	require.NoError(t, err)
	assert.Equal(t, 1.0, g.Scale)

	_, err = Compute(model.GraphModel{}, DefaultFlowCanvas, 1.0)
	assert.ErrorIs(t, err, model.ErrUnknownKind)
}

func TestNodeByID(t *testing.T) {
	g := ComputeClusterLayout(clusterModel(t, 2), DefaultClusterCanvas, 1.0)
	n, ok := g.NodeByID("A")
	require.True(t, ok)
	assert.Equal(t, RoleCluster, n.Role)

	_, ok = g.NodeByID("missing")
	assert.False(t, ok)
}

func TestExportJSON(t *testing.T) {
	m := flowModel(t, model.Transfer{ID: "t1", From: "s0", To: "s3", Amount: 1, Category: model.TransferFee})
	g := ComputeFlowLayout(m, DefaultFlowCanvas)

	data, err := g.ExportJSON()
	require.NoError(t, err)

	var out struct {
		Kind  string `json:"kind"`
		Nodes []struct {
			ID string  `json:"id"`
			X  float64 `json:"x"`
		} `json:"nodes"`
		Edges []struct {
			From string `json:"from"`
			To   string `json:"to"`
			Kind string `json:"kind"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "flow", out.Kind)
	assert.Len(t, out.Nodes, 4)
	assert.Equal(t, 100.0, out.Nodes[0].X)
	require.Len(t, out.Edges, 4)
	assert.Equal(t, "fee", out.Edges[3].Kind)
	assert.Equal(t, "s3", out.Edges[3].To)
}
