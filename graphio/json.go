// Package graphio handles JSON import and export for compiled visual
// graphs. The wire shape matches what the canvas layer and the SDK
// exchange: nodes with id/type/data/position, edges with
// id/source/target/type.
package graphio

import (
	"encoding/json"
	"fmt"

	"github.com/baleybots/go-bal/visual"
)

// FromJSON parses a visual graph from JSON bytes and validates its
// referential integrity: node ids must be unique and every edge must
// connect two known nodes.
func FromJSON(data []byte) (*visual.Graph, error) {
	var g visual.Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("invalid graph JSON: %w", err)
	}

	ids := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node with empty id")
		}
		if ids[n.ID] {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		ids[n.ID] = true
	}

	for _, e := range g.Edges {
		if !ids[e.Source] {
			return nil, fmt.Errorf("edge %q references unknown source %q", e.ID, e.Source)
		}
		if !ids[e.Target] {
			return nil, fmt.Errorf("edge %q references unknown target %q", e.ID, e.Target)
		}
	}

	if g.Nodes == nil {
		g.Nodes = []visual.Node{}
	}
	if g.Edges == nil {
		g.Edges = []visual.Edge{}
	}
	return &g, nil
}

// ToJSON serializes a visual graph with stable field ordering.
func ToJSON(g *visual.Graph) ([]byte, error) {
	return json.MarshalIndent(g, "", "  ")
}
