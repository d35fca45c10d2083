package model

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/dd0wney/cluso-riskgraph/pkg/validation"
)

var (
	// ErrInvalidModel wraps every construction failure.
	ErrInvalidModel = errors.New("model: invalid graph model")
	// ErrUnknownKind is returned for documents whose kind is neither cluster nor flow.
	ErrUnknownKind = errors.New("model: unknown graph kind")
)

// GraphModel is a tagged variant holding exactly one diagram model.
// The zero value holds nothing and reports an empty Kind.
type GraphModel struct {
	kind    Kind
	cluster *ClusterModel
	flow    *FlowModel
}

// FromCluster wraps a validated cluster model.
func FromCluster(m *ClusterModel) GraphModel {
	return GraphModel{kind: KindCluster, cluster: m}
}

// FromFlow wraps a validated flow model.
func FromFlow(m *FlowModel) GraphModel {
	return GraphModel{kind: KindFlow, flow: m}
}

// Kind reports which variant is held.
func (g GraphModel) Kind() Kind { return g.kind }

// Cluster returns the cluster model, or nil for other kinds.
func (g GraphModel) Cluster() *ClusterModel { return g.cluster }

// Flow returns the flow model, or nil for other kinds.
func (g GraphModel) Flow() *FlowModel { return g.flow }

// NewClusterModel validates and returns a cluster model with defaults applied.
// The input slices are copied; the caller may reuse them.
func NewClusterModel(primary PrimaryNode, clusters []ClusterNode) (*ClusterModel, error) {
	m := &ClusterModel{
		Primary:  primary,
		Clusters: make([]ClusterNode, len(clusters)),
	}
	for i, c := range clusters {
		c.Wallets = slices.Clone(c.Wallets)
		m.Clusters[i] = c
	}

	if err := checkFinite("Primary.RiskScore", primary.RiskScore); err != nil {
		return nil, err
	}
	for i := range m.Clusters {
		if err := checkFinite(fmt.Sprintf("Clusters[%d].RiskScore", i), m.Clusters[i].RiskScore); err != nil {
			return nil, err
		}
	}
	if err := validation.Struct(m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	walletNo := 0
	for i := range m.Clusters {
		c := &m.Clusters[i]
		c.Owner = validation.DefaultOr(c.Owner, m.Primary.Owner)
		for j := range c.Wallets {
			walletNo++
			w := &c.Wallets[j]
			w.Unit = validation.DefaultOr(w.Unit, DefaultUnit)
			w.Label = validation.DefaultOr(w.Label, fmt.Sprintf("Wallet %d", walletNo))
		}
	}
	m.Primary.Label = validation.DefaultOr(m.Primary.Label, "Primary Wallet")

	return m, nil
}

// NewFlowModel validates and returns a flow model with defaults applied.
// Step ids must be unique. Transfers whose endpoints do not name a step are
// kept; the layout drops and counts them.
func NewFlowModel(steps []Step, transfers []Transfer) (*FlowModel, error) {
	m := &FlowModel{
		Steps:     slices.Clone(steps),
		Transfers: slices.Clone(transfers),
	}

	for i := range m.Transfers {
		if err := checkFinite(fmt.Sprintf("Transfers[%d].Amount", i), m.Transfers[i].Amount); err != nil {
			return nil, err
		}
	}
	if err := validation.Struct(m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
	}

	seen := make(map[string]int, len(m.Steps))
	for i, s := range m.Steps {
		if j, dup := seen[s.ID]; dup {
			return nil, fmt.Errorf("%w: Steps[%d].ID: %q duplicates Steps[%d]", ErrInvalidModel, i, s.ID, j)
		}
		seen[s.ID] = i
	}

	for i := range m.Steps {
		m.Steps[i].Label = validation.DefaultOr(m.Steps[i].Label, m.Steps[i].ID)
	}
	for i := range m.Transfers {
		m.Transfers[i].Unit = validation.DefaultOr(m.Transfers[i].Unit, DefaultUnit)
	}

	return m, nil
}

// checkFinite rejects NaN and infinities up front; the validator's range tags
// cannot express that NaN is out of range.
func checkFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s: must be a finite number, got %v", ErrInvalidModel, field, v)
	}
	return nil
}
