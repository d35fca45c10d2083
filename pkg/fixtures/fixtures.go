// Package fixtures generates deterministic sample graphs for demos, tests and
// the CLI. Every model it returns has passed the model constructors.
package fixtures

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/dd0wney/cluso-riskgraph/pkg/model"
)

// Wallet and risk ranges for generated clusters.
const (
	MinWallets = 2
	MaxWallets = 5
	MinRisk    = 15
	MaxRisk    = 99
	MinValue   = 2.0
	MaxValue   = 32.0

	// DefaultClusters is the cluster count of the sample dashboard.
	DefaultClusters = 15
)

// Generator produces sample models from a seeded source. It is not safe for
// concurrent use.
type Generator struct {
	rng  *rand.Rand
	seed uint64
}

// NewGenerator returns a generator whose output depends only on seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		seed: seed,
	}
}

// Seed returns the seed the generator was created with.
func (g *Generator) Seed() uint64 { return g.seed }

// ClusterModel returns a primary wallet with the given number of clusters,
// each holding 2 to 5 wallets with risk scores in [15, 99].
func (g *Generator) ClusterModel(clusters int) (*model.ClusterModel, error) {
	sizes := make([]int, max(clusters, 0))
	for i := range sizes {
		sizes[i] = MinWallets + g.rng.IntN(MaxWallets-MinWallets+1)
	}
	return g.Cluster(sizes...)
}

// Cluster returns a cluster model with exactly len(sizes) clusters, cluster i
// holding sizes[i] wallets. A size below one is rejected by the model.
func (g *Generator) Cluster(sizes ...int) (*model.ClusterModel, error) {
	primary := model.PrimaryNode{
		ID:        "user0",
		Address:   "0x1234...5678",
		Owner:     "John Doe",
		RiskScore: MinRisk,
	}

	clusters := make([]model.ClusterNode, len(sizes))
	walletNo := 0
	for i, n := range sizes {
		c := model.ClusterNode{
			ID:        fmt.Sprintf("cluster%d", i+1),
			RiskScore: float64(MinRisk + g.rng.IntN(MaxRisk-MinRisk+1)),
		}
		for range max(n, 0) {
			c.Wallets = append(c.Wallets, model.LeafWallet{
				ID:      fmt.Sprintf("w%d", walletNo),
				Address: g.address(),
				Value:   g.value(),
			})
			walletNo++
		}
		clusters[i] = c
	}

	return model.NewClusterModel(primary, clusters)
}

// FlowModel returns the canonical wallet to DEX to lending protocol to
// staking pool chain with its four transfers. It does not consume randomness.
func (g *Generator) FlowModel() (*model.FlowModel, error) {
	return SampleFlow()
}

// SampleFlow is the fixed four-step transaction flow.
func SampleFlow() (*model.FlowModel, error) {
	steps := []model.Step{
		{ID: "step0", Address: "0x1234...5678", Label: "Wallet", Category: model.StepUser},
		{ID: "step1", Address: "0xabcd...ef01", Label: "Uniswap V3", Category: model.StepDEX},
		{ID: "step2", Address: "0x2345...6789", Label: "AAVE", Category: model.StepProtocol},
		{ID: "step3", Address: "0xbcde...f012", Label: "Staking Pool", Category: model.StepContract},
	}
	transfers := []model.Transfer{
		{ID: "tx1", From: "step0", To: "step1", Amount: 2.5, Unit: "ETH", Category: model.TransferSend},
		{ID: "tx2", From: "step1", To: "step2", Amount: 2.5, Unit: "USDC", Category: model.TransferSwap},
		{ID: "tx3", From: "step2", To: "step3", Amount: 2400, Unit: "USDC", Category: model.TransferStake},
		{ID: "tx4", From: "step1", To: "step2", Amount: 0.1, Unit: "ETH", Category: model.TransferFee},
	}
	return model.NewFlowModel(steps, transfers)
}

// Graph returns a wrapped model of the requested kind. Cluster graphs use
// DefaultClusters clusters.
func (g *Generator) Graph(kind model.Kind) (model.GraphModel, error) {
	switch kind {
	case model.KindCluster:
		m, err := g.ClusterModel(DefaultClusters)
		if err != nil {
			return model.GraphModel{}, err
		}
		return model.FromCluster(m), nil
	case model.KindFlow:
		m, err := g.FlowModel()
		if err != nil {
			return model.GraphModel{}, err
		}
		return model.FromFlow(m), nil
	default:
		return model.GraphModel{}, fmt.Errorf("%w: %q", model.ErrUnknownKind, kind)
	}
}

// address renders a shortened "0xABCD...EF01" style address.
func (g *Generator) address() string {
	return "0x" + g.hex4() + "..." + g.hex4()
}

func (g *Generator) hex4() string {
	return strings.ToUpper(fmt.Sprintf("%04x", g.rng.IntN(1<<16)))
}

// value is rounded to cents.
func (g *Generator) value() float64 {
	v := MinValue + g.rng.Float64()*(MaxValue-MinValue)
	return math.Round(v*100) / 100
}
