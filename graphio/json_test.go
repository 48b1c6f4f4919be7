package graphio

import (
	"strings"
	"testing"

	"github.com/baleybots/go-bal/visual"
)

func TestRoundTrip(t *testing.T) {
	c := visual.Compile(`
		a { "goal": "1" }
		b { "goal": "2" }
		chain { a b }
	`)
	if len(c.Errors) != 0 {
		t.Fatalf("compile errors: %v", c.Errors)
	}

	data, err := ToJSON(&c.Graph)
	if err != nil {
		t.Fatalf("to json: %v", err)
	}

	g, err := FromJSON(data)
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	if len(g.Nodes) != 2 || len(g.Edges) != 1 {
		t.Errorf("round trip lost structure: %d nodes %d edges", len(g.Nodes), len(g.Edges))
	}
	if g.Edges[0].ID != c.Graph.Edges[0].ID {
		t.Errorf("edge id changed across round trip: %q vs %q", g.Edges[0].ID, c.Graph.Edges[0].ID)
	}
}

func TestFromJSON_DuplicateNodeID(t *testing.T) {
	data := []byte(`{"nodes":[{"id":"a","type":"baleybot"},{"id":"a","type":"baleybot"}],"edges":[]}`)

	_, err := FromJSON(data)
	if err == nil || !strings.Contains(err.Error(), "duplicate node id") {
		t.Errorf("expected duplicate id error, got %v", err)
	}
}

func TestFromJSON_DanglingEdge(t *testing.T) {
	data := []byte(`{"nodes":[{"id":"a","type":"baleybot"}],"edges":[{"id":"e","source":"a","target":"ghost","type":"chain"}]}`)

	_, err := FromJSON(data)
	if err == nil || !strings.Contains(err.Error(), "unknown target") {
		t.Errorf("expected unknown target error, got %v", err)
	}
}

func TestFromJSON_Invalid(t *testing.T) {
	if _, err := FromJSON([]byte(`{`)); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
