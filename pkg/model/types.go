// Package model defines the immutable graph snapshots the engine lays out:
// a radial cluster diagram or a linear transaction-flow diagram.
package model

// Kind tags which variant a GraphModel holds.
type Kind string

const (
	KindCluster Kind = "cluster"
	KindFlow    Kind = "flow"
)

// StepCategory classifies a hop in a flow diagram.
type StepCategory string

const (
	StepUser     StepCategory = "user"
	StepDEX      StepCategory = "dex"
	StepProtocol StepCategory = "protocol"
	StepContract StepCategory = "contract"
)

// TransferCategory classifies a transfer between hops.
type TransferCategory string

const (
	TransferSend  TransferCategory = "send"
	TransferSwap  TransferCategory = "swap"
	TransferStake TransferCategory = "stake"
	TransferFee   TransferCategory = "fee"
)

// DefaultUnit is applied to wallets and transfers that omit a unit.
const DefaultUnit = "ETH"

// PrimaryNode is the wallet at the center of a cluster diagram.
type PrimaryNode struct {
	ID        string  `json:"id" yaml:"id" validate:"required"`
	Label     string  `json:"label" yaml:"label"`
	Owner     string  `json:"owner" yaml:"owner"`
	Address   string  `json:"address,omitempty" yaml:"address,omitempty"`
	RiskScore float64 `json:"risk_score" yaml:"risk_score" validate:"gte=0,lte=100"`
}

// ClusterNode is a group of wallets attributed to one owning entity.
type ClusterNode struct {
	ID        string       `json:"id" yaml:"id" validate:"required"`
	Owner     string       `json:"owner" yaml:"owner"`
	RiskScore float64      `json:"risk_score" yaml:"risk_score" validate:"gte=0,lte=100"`
	Wallets   []LeafWallet `json:"wallets" yaml:"wallets" validate:"min=1,dive"`
}

// LeafWallet is an individual address belonging to a cluster.
type LeafWallet struct {
	ID      string  `json:"id" yaml:"id" validate:"required"`
	Address string  `json:"address" yaml:"address"`
	Label   string  `json:"label" yaml:"label"`
	Value   float64 `json:"value" yaml:"value"`
	Unit    string  `json:"unit,omitempty" yaml:"unit,omitempty"`
}

// ClusterModel is one primary wallet surrounded by owner clusters. Cluster
// and wallet order determines angular placement.
type ClusterModel struct {
	Primary  PrimaryNode   `json:"primary" yaml:"primary"`
	Clusters []ClusterNode `json:"clusters" yaml:"clusters" validate:"dive"`
}

// Step is one hop of a flow diagram.
type Step struct {
	ID       string       `json:"id" yaml:"id" validate:"required"`
	Address  string       `json:"address" yaml:"address"`
	Label    string       `json:"label" yaml:"label"`
	Category StepCategory `json:"category" yaml:"category" validate:"oneof=user dex protocol contract"`
}

// Transfer is a directed, amount-bearing edge between two steps. From and To
// are step ids; they are not required to resolve.
type Transfer struct {
	ID       string           `json:"id" yaml:"id" validate:"required"`
	From     string           `json:"from" yaml:"from" validate:"required"`
	To       string           `json:"to" yaml:"to" validate:"required"`
	Amount   float64          `json:"amount" yaml:"amount"`
	Unit     string           `json:"unit,omitempty" yaml:"unit,omitempty"`
	Category TransferCategory `json:"category" yaml:"category" validate:"oneof=send swap stake fee"`
}

// FlowModel is an ordered chain of steps plus the transfers between them.
type FlowModel struct {
	Steps     []Step     `json:"steps" yaml:"steps" validate:"dive"`
	Transfers []Transfer `json:"transfers" yaml:"transfers" validate:"dive"`
}

// StepIndex returns the index of the first step with id, or -1.
func (m *FlowModel) StepIndex(id string) int {
	for i := range m.Steps {
		if m.Steps[i].ID == id {
			return i
		}
	}
	return -1
}

// WalletCount returns the number of leaf wallets across all clusters.
func (m *ClusterModel) WalletCount() int {
	n := 0
	for i := range m.Clusters {
		n += len(m.Clusters[i].Wallets)
	}
	return n
}
