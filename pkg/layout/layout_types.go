package layout

import "github.com/dd0wney/cluso-riskgraph/pkg/model"

// Point represents a 2D coordinate in canvas pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Canvas is the drawing area a layout is computed for.
type Canvas struct {
	Width  float64 `json:"width" yaml:"width" toml:"width" validate:"gt=0"`
	Height float64 `json:"height" yaml:"height" toml:"height" validate:"gt=0"`
}

// Center returns the midpoint of the canvas.
func (c Canvas) Center() Point {
	return Point{X: c.Width / 2, Y: c.Height / 2}
}

var (
	// DefaultClusterCanvas is the cluster diagram's drawing area.
	DefaultClusterCanvas = Canvas{Width: 1400, Height: 900}
	// DefaultFlowCanvas is the flow diagram's drawing area.
	DefaultFlowCanvas = Canvas{Width: 800, Height: 400}
)

// Role identifies what a positioned node stands for.
type Role string

const (
	RolePrimary Role = "primary"
	RoleCluster Role = "cluster"
	RoleWallet  Role = "wallet"
	RoleStep    Role = "step"
)

// PositionedNode is a model node with its geometry resolved.
type PositionedNode struct {
	ID     string `json:"id"`
	Role   Role   `json:"role"`
	Index  int    `json:"index"`  // position within its parent (or the step chain)
	Parent int    `json:"parent"` // index into PositionedGraph.Nodes, -1 for roots

	Center Point   `json:"center"`
	Radius float64 `json:"radius"`
	Angle  float64 `json:"angle"`

	RiskScore float64 `json:"risk_score"`
	Category  string  `json:"category,omitempty"`
	Label     string  `json:"label"`
	Detail    string  `json:"detail,omitempty"`
	Owner     string  `json:"owner,omitempty"`
	Value     float64 `json:"value,omitempty"`
	Unit      string  `json:"unit,omitempty"`
}

// Connection is a structural edge between two entries of PositionedGraph.Nodes.
type Connection struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// PositionedTransfer is a transfer whose endpoints resolved to step nodes.
// Ordinal is the transfer's position in the source model, dropped ones included.
type PositionedTransfer struct {
	ID       string  `json:"id"`
	Ordinal  int     `json:"ordinal"`
	From     int     `json:"from"`
	To       int     `json:"to"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Category string  `json:"category"`
}

// WarningKind classifies a non-fatal layout condition.
type WarningKind string

const (
	// WarnDataIntegrity marks a transfer that references a missing step.
	WarnDataIntegrity WarningKind = "data_integrity"
	// WarnConfiguration marks a scale that had to be clamped.
	WarnConfiguration WarningKind = "configuration"
	// WarnEmptyModel marks a diagram with no clusters or no steps.
	WarnEmptyModel WarningKind = "empty_model"
)

// Warning describes something the layout tolerated rather than rejected.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Message string      `json:"message"`
	Ref     string      `json:"ref,omitempty"`
}

// PositionedGraph is the output of a layout pass and the only input the
// draw package needs.
type PositionedGraph struct {
	Kind             model.Kind           `json:"kind"`
	Canvas           Canvas               `json:"canvas"`
	Scale            float64              `json:"scale"`
	Nodes            []PositionedNode     `json:"nodes"`
	Connections      []Connection         `json:"connections"`
	Transfers        []PositionedTransfer `json:"transfers"`
	DroppedTransfers int                  `json:"dropped_transfers"`
	Warnings         []Warning            `json:"warnings,omitempty"`
}

// Counts summarizes a positioned graph.
type Counts struct {
	Nodes       int
	Clusters    int
	Wallets     int
	Steps       int
	Connections int
	Transfers   int
	Dropped     int
}
