package model

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wallets(n int, prefix string) []LeafWallet {
	out := make([]LeafWallet, n)
	for i := range out {
		out[i] = LeafWallet{ID: prefix + string(rune('a'+i)), Address: "0xABCD1234EF", Value: 1.5}
	}
	return out
}

func TestNewClusterModelDefaults(t *testing.T) {
	m, err := NewClusterModel(
		PrimaryNode{ID: "user0", Owner: "John Doe", RiskScore: 15},
		[]ClusterNode{
			{ID: "c1", RiskScore: 80, Wallets: wallets(2, "w1")},
			{ID: "c2", Owner: "Mixer Ltd", RiskScore: 40, Wallets: wallets(1, "w2")},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, "Primary Wallet", m.Primary.Label)
	assert.Equal(t, "John Doe", m.Clusters[0].Owner)
	assert.Equal(t, "Mixer Ltd", m.Clusters[1].Owner)
	assert.Equal(t, "ETH", m.Clusters[0].Wallets[0].Unit)
	assert.Equal(t, "Wallet 1", m.Clusters[0].Wallets[0].Label)
	assert.Equal(t, "Wallet 3", m.Clusters[1].Wallets[0].Label)
	assert.Equal(t, 3, m.WalletCount())
}

func TestNewClusterModelDoesNotAliasInput(t *testing.T) {
	in := []ClusterNode{{ID: "c1", RiskScore: 10, Wallets: wallets(1, "w")}}
	m, err := NewClusterModel(PrimaryNode{ID: "p"}, in)
	require.NoError(t, err)

	in[0].Wallets[0].Label = "mutated"
	assert.Equal(t, "Wallet 1", m.Clusters[0].Wallets[0].Label)
	assert.Equal(t, "", in[0].Wallets[0].Unit)
}

func TestNewClusterModelRejects(t *testing.T) {
	tests := []struct {
		name     string
		primary  PrimaryNode
		clusters []ClusterNode
		want     string
	}{
		{"empty cluster", PrimaryNode{ID: "p"}, []ClusterNode{{ID: "c1", Wallets: nil}}, "Clusters[0].Wallets"},
		{"risk above range", PrimaryNode{ID: "p"}, []ClusterNode{{ID: "c1", RiskScore: 101, Wallets: wallets(1, "w")}}, "RiskScore"},
		{"negative primary risk", PrimaryNode{ID: "p", RiskScore: -1}, nil, "Primary.RiskScore"},
		{"NaN risk", PrimaryNode{ID: "p", RiskScore: math.NaN()}, nil, "finite"},
		{"missing primary id", PrimaryNode{}, nil, "Primary.ID"},
		{"missing wallet id", PrimaryNode{ID: "p"}, []ClusterNode{{ID: "c", Wallets: []LeafWallet{{Address: "0x1"}}}}, "Wallets[0].ID"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClusterModel(tt.primary, tt.clusters)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidModel))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewClusterModelEmpty(t *testing.T) {
	m, err := NewClusterModel(PrimaryNode{ID: "p"}, nil)
	require.NoError(t, err)
	assert.Empty(t, m.Clusters)
}

func TestNewFlowModel(t *testing.T) {
	m, err := NewFlowModel(
		[]Step{
			{ID: "s0", Label: "Wallet", Category: StepUser},
			{ID: "s1", Category: StepDEX},
		},
		[]Transfer{
			{ID: "tx1", From: "s0", To: "s1", Amount: 2.5, Category: TransferSend},
			{ID: "tx2", From: "s1", To: "ghost", Amount: 1, Unit: "USDC", Category: TransferSwap},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, "s1", m.Steps[1].Label)
	assert.Equal(t, "ETH", m.Transfers[0].Unit)
	assert.Equal(t, "USDC", m.Transfers[1].Unit)
	assert.Equal(t, 1, m.StepIndex("s1"))
	assert.Equal(t, -1, m.StepIndex("ghost"))
}

func TestNewFlowModelRejects(t *testing.T) {
	_, err := NewFlowModel([]Step{{ID: "a", Category: StepUser}, {ID: "a", Category: StepDEX}}, nil)
	require.ErrorIs(t, err, ErrInvalidModel)
	assert.Contains(t, err.Error(), "duplicates")

	_, err = NewFlowModel([]Step{{ID: "a", Category: "bridge"}}, nil)
	require.ErrorIs(t, err, ErrInvalidModel)
	assert.Contains(t, err.Error(), "Category")

	_, err = NewFlowModel([]Step{{ID: "a", Category: StepUser}},
		[]Transfer{{ID: "t", From: "a", To: "a", Category: "mint"}})
	require.ErrorIs(t, err, ErrInvalidModel)

	_, err = NewFlowModel(nil, []Transfer{{ID: "t", From: "a", To: "b", Amount: math.Inf(1), Category: TransferFee}})
	require.ErrorIs(t, err, ErrInvalidModel)
}

func TestGraphModelVariant(t *testing.T) {
	var zero GraphModel
	assert.Equal(t, Kind(""), zero.Kind())
	assert.Nil(t, zero.Cluster())
	assert.Nil(t, zero.Flow())

	fm, err := NewFlowModel(nil, nil)
	require.NoError(t, err)
	g := FromFlow(fm)
	assert.Equal(t, KindFlow, g.Kind())
	assert.Nil(t, g.Cluster())
	assert.Same(t, fm, g.Flow())
}

const clusterYAML = `
kind: cluster
cluster:
  primary:
    id: user0
    label: Primary Wallet
    owner: John Doe
    address: 0x1234...5678
    risk_score: 15
  clusters:
    - id: cluster1
      risk_score: 72
      wallets:
        - id: w0
          address: 0xAAAA...BBBB
          value: 3.5
`

func TestDecodeYAML(t *testing.T) {
	g, err := Decode(strings.NewReader(clusterYAML), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, KindCluster, g.Kind())

	m := g.Cluster()
	assert.Equal(t, "0x1234...5678", m.Primary.Address)
	assert.Equal(t, "John Doe", m.Clusters[0].Owner)
	assert.Equal(t, 72.0, m.Clusters[0].RiskScore)
	assert.Equal(t, "ETH", m.Clusters[0].Wallets[0].Unit)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"kind":"tree"}`), FormatJSON)
	assert.ErrorIs(t, err, ErrUnknownKind)

	_, err = Decode(strings.NewReader(`{"kind":"flow"}`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidModel)

	_, err = Decode(strings.NewReader(`{"kind":"flow","extra":1}`), FormatJSON)
	assert.Error(t, err)

	_, err = Decode(strings.NewReader("kind: flow\nflow: {steps: [{id: a, category: nope}]}\n"), FormatYAML)
	assert.ErrorIs(t, err, ErrInvalidModel)

	_, err = Decode(strings.NewReader(""), "xml")
	assert.Error(t, err)
}

func TestEncodeLoadRoundTrip(t *testing.T) {
	fm, err := NewFlowModel(
		[]Step{{ID: "s0", Category: StepUser}, {ID: "s1", Category: StepContract}},
		[]Transfer{{ID: "t", From: "s0", To: "s1", Amount: 0.1, Category: TransferFee}},
	)
	require.NoError(t, err)

	dir := t.TempDir()
	for _, name := range []string{"flow.json", "flow.yaml"} {
		var buf bytes.Buffer
		path := filepath.Join(dir, name)
		require.NoError(t, Encode(&buf, FromFlow(fm), FormatFromPath(path)))
		require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

		g, err := LoadFile(path)
		require.NoError(t, err, name)
		assert.Equal(t, fm, g.Flow(), name)
	}

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
