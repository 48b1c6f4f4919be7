package visualization

import (
	"strings"
	"testing"

	"github.com/baleybots/go-bal/visual"
)

func TestRenderSVG_Basic(t *testing.T) {
	c := visual.Compile(`
		a { "goal": "collect data" }
		b { "goal": "summarize" }
		chain { a b }
	`)
	if len(c.Errors) != 0 {
		t.Fatalf("compile errors: %v", c.Errors)
	}

	svg := RenderSVG(&c.Graph)

	if !strings.HasPrefix(svg, "<svg") {
		t.Error("expected SVG header")
	}
	if !strings.Contains(svg, ">a<") || !strings.Contains(svg, ">b<") {
		t.Error("expected node titles in output")
	}
	if !strings.Contains(svg, "edge-chain") {
		t.Error("expected a chain-classed edge")
	}
	if !strings.Contains(svg, "collect data") {
		t.Error("expected goal text in output")
	}
}

func TestRenderSVG_EscapesLabels(t *testing.T) {
	c := visual.Compile(`bot { "goal": "a <b> & 'c'" }`)
	if len(c.Errors) != 0 {
		t.Fatalf("compile errors: %v", c.Errors)
	}

	svg := RenderSVG(&c.Graph)
	if strings.Contains(svg, "<b>") {
		t.Error("goal text not escaped")
	}
	if !strings.Contains(svg, "&lt;b&gt;") {
		t.Error("expected escaped goal text")
	}
}

func TestRenderSVG_EmptyGraph(t *testing.T) {
	svg := RenderSVG(&visual.Graph{})
	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("expected well-formed empty SVG")
	}
}

func TestRenderSVG_Deterministic(t *testing.T) {
	c := visual.Compile(`
		a { "goal": "1", "tools": ["store_memory"] }
		b { "goal": "2", "tools": ["store_memory"] }
	`)

	first := RenderSVG(&c.Graph)
	for i := 0; i < 3; i++ {
		if RenderSVG(&c.Graph) != first {
			t.Fatal("SVG output not deterministic")
		}
	}
}
