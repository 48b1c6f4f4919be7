// Package visual compiles BAL source into a node+edge graph with layout
// coordinates, ready for canvas rendering. Compilation is pure: same
// input, same graph, byte for byte.
package visual

import "github.com/baleybots/go-bal/bal"

// Node types understood by the canvas layer.
const (
	NodeBaleybot = "baleybot"
	NodeTrigger  = "trigger"
	NodeOutput   = "output"
)

// Edge types. Structural edges come from the pipeline statement,
// relationship edges are synthesized from tool lists and triggers.
const (
	EdgeChain           = "chain"
	EdgeConditionalPass = "conditional_pass"
	EdgeConditionalFail = "conditional_fail"
	EdgeParallel        = "parallel"
	EdgeSpawn           = "spawn"
	EdgeSharedData      = "shared_data"
	EdgeTrigger         = "trigger"
)

// XY is a 2-D layout position.
type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the payload the canvas renders inside a node.
type NodeData struct {
	Name       string             `json:"name"`
	Goal       string             `json:"goal"`
	Model      string             `json:"model,omitempty"`
	Trigger    *bal.TriggerConfig `json:"trigger,omitempty"`
	Tools      []string           `json:"tools"`
	CanRequest []string           `json:"canRequest"`
	Output     map[string]string  `json:"output,omitempty"`
}

// Node is one visual node. Its ID is the entity name; entity-name
// uniqueness from the parse is the sole uniqueness guarantee.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Data     NodeData `json:"data"`
	Position XY       `json:"position"`
}

// Edge is one directed visual edge. IDs are derived deterministically
// from (type, source, target) so recompiling identical input yields
// identical edge identities.
type Edge struct {
	ID       string `json:"id"`
	Source   string `json:"source"`
	Target   string `json:"target"`
	Type     string `json:"type"`
	Label    string `json:"label,omitempty"`
	Animated bool   `json:"animated,omitempty"`
}

// Graph is the compiled node+edge structure.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Compilation is the outcome of compiling BAL source. A failed parse
// yields an empty graph plus the parse errors, never a partial graph.
type Compilation struct {
	Graph  Graph    `json:"graph"`
	Errors []string `json:"errors"`
}
