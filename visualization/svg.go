// Package visualization renders compiled visual graphs as SVG.
package visualization

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/baleybots/go-bal/visual"
)

// Visual constants for rendering
const (
	nodeWidth    = 200.0
	nodeHeight   = 80.0
	cornerRadius = 8.0
	arrowheadLen = 10.0
	padding      = 60.0
	minDistance  = 1.0 // prevents division by zero on coincident nodes
)

// edgeClass maps an edge type to its SVG class.
func edgeClass(typ string) string {
	switch typ {
	case visual.EdgeChain:
		return "edge edge-chain"
	case visual.EdgeConditionalPass:
		return "edge edge-pass"
	case visual.EdgeConditionalFail:
		return "edge edge-fail"
	case visual.EdgeParallel:
		return "edge edge-parallel"
	case visual.EdgeSpawn:
		return "edge edge-spawn"
	case visual.EdgeSharedData:
		return "edge edge-shared"
	case visual.EdgeTrigger:
		return "edge edge-trigger"
	default:
		return "edge"
	}
}

// RenderSVG generates an SVG representation of a compiled graph.
func RenderSVG(g *visual.Graph) string {
	minX, minY, maxX, maxY := calculateBounds(g)
	minX -= padding
	minY -= padding
	maxX += padding
	maxY += padding

	width := maxX - minX
	height := maxY - minY
	if width < 200 {
		width = 200
	}
	if height < 120 {
		height = 120
	}

	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`,
		minX, minY, width, height, width, height))
	buf.WriteString("\n")

	// Background rectangle for visibility on dark themes
	buf.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#f8f9fa" rx="8"/>`,
		minX, minY, width, height))
	buf.WriteString("\n")

	buf.WriteString(`<defs>`)
	buf.WriteString(`<style>`)
	buf.WriteString(`.node { fill: #fff; stroke: #333; stroke-width: 2; }`)
	buf.WriteString(`.node-title { font-family: system-ui, Arial; font-size: 13px; font-weight: bold; fill: #333; text-anchor: middle; }`)
	buf.WriteString(`.node-goal { font-family: system-ui, Arial; font-size: 10px; fill: #666; text-anchor: middle; }`)
	buf.WriteString(`.edge { stroke-width: 1.5; fill: none; }`)
	buf.WriteString(`.edge-chain { stroke: #2a6fb8; }`)
	buf.WriteString(`.edge-pass { stroke: #28a745; }`)
	buf.WriteString(`.edge-fail { stroke: #dc3545; }`)
	buf.WriteString(`.edge-parallel { stroke: #7b1fa2; stroke-dasharray: 5,3; }`)
	buf.WriteString(`.edge-spawn { stroke: #f57c00; stroke-dasharray: 2,3; }`)
	buf.WriteString(`.edge-shared { stroke: #17a2b8; stroke-dasharray: 5,3; }`)
	buf.WriteString(`.edge-trigger { stroke: #e83e8c; stroke-dasharray: 2,3; }`)
	buf.WriteString(`.edge-label { font-family: system-ui, Arial; font-size: 10px; fill: #666; text-anchor: middle; }`)
	buf.WriteString(`.arrowhead { fill: #999; }`)
	buf.WriteString(`</style>`)
	buf.WriteString(`</defs>`)
	buf.WriteString("\n")

	// Node centers for edge endpoints.
	centers := make(map[string]visual.XY, len(g.Nodes))
	for _, n := range g.Nodes {
		centers[n.ID] = visual.XY{X: n.Position.X + nodeWidth/2, Y: n.Position.Y + nodeHeight/2}
	}

	// Draw edges first so nodes cover their endpoints.
	for _, e := range g.Edges {
		src, srcOK := centers[e.Source]
		trg, trgOK := centers[e.Target]
		if !srcOK || !trgOK {
			continue
		}
		drawEdge(&buf, src, trg, e)
	}

	for _, n := range g.Nodes {
		drawNode(&buf, n)
	}

	buf.WriteString("</svg>\n")
	return buf.String()
}

// SaveSVG renders a graph and writes it to a file.
func SaveSVG(g *visual.Graph, filename string) error {
	return os.WriteFile(filename, []byte(RenderSVG(g)), 0644)
}

func calculateBounds(g *visual.Graph) (minX, minY, maxX, maxY float64) {
	first := true
	for _, n := range g.Nodes {
		nMinX, nMaxX := n.Position.X, n.Position.X+nodeWidth
		nMinY, nMaxY := n.Position.Y, n.Position.Y+nodeHeight
		if first {
			minX, maxX = nMinX, nMaxX
			minY, maxY = nMinY, nMaxY
			first = false
			continue
		}
		if nMinX < minX {
			minX = nMinX
		}
		if nMaxX > maxX {
			maxX = nMaxX
		}
		if nMinY < minY {
			minY = nMinY
		}
		if nMaxY > maxY {
			maxY = nMaxY
		}
	}
	return
}

func drawNode(buf *bytes.Buffer, n visual.Node) {
	buf.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" class="node"/>`,
		n.Position.X, n.Position.Y, nodeWidth, nodeHeight, cornerRadius))
	buf.WriteString("\n")

	cx := n.Position.X + nodeWidth/2
	buf.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="node-title">%s</text>`,
		cx, n.Position.Y+24, escapeXML(n.Data.Name)))
	buf.WriteString("\n")

	goal := n.Data.Goal
	if len(goal) > 40 {
		goal = goal[:37] + "..."
	}
	if goal != "" {
		buf.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="node-goal">%s</text>`,
			cx, n.Position.Y+44, escapeXML(goal)))
		buf.WriteString("\n")
	}
}

func drawEdge(buf *bytes.Buffer, src, trg visual.XY, e visual.Edge) {
	dx := trg.X - src.X
	dy := trg.Y - src.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		dist = minDistance
	}
	ux := dx / dist
	uy := dy / dist

	// Pull endpoints back to the node borders (approximated by a
	// half-diagonal) and leave room for the arrowhead.
	inset := nodeWidth / 2
	if math.Abs(uy) > math.Abs(ux) {
		inset = nodeHeight / 2
	}
	ex := src.X + ux*inset
	ey := src.Y + uy*inset
	fx := trg.X - ux*(inset+arrowheadLen)
	fy := trg.Y - uy*(inset+arrowheadLen)

	buf.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" class="%s"/>`,
		ex, ey, fx, fy, edgeClass(e.Type)))
	buf.WriteString("\n")

	// Arrowhead
	ahx := fx + (-ux*arrowheadLen - uy*arrowheadLen*0.45)
	ahy := fy + (-uy*arrowheadLen + ux*arrowheadLen*0.45)
	bhx := fx + (-ux*arrowheadLen + uy*arrowheadLen*0.45)
	bhy := fy + (-uy*arrowheadLen - ux*arrowheadLen*0.45)
	buf.WriteString(fmt.Sprintf(`<path d="M %.1f %.1f L %.1f %.1f L %.1f %.1f Z" class="arrowhead"/>`,
		fx, fy, ahx, ahy, bhx, bhy))
	buf.WriteString("\n")

	if e.Label != "" {
		mx := (ex + fx) / 2
		my := (ey+fy)/2 - 4
		buf.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" class="edge-label">%s</text>`,
			mx, my, escapeXML(e.Label)))
		buf.WriteString("\n")
	}
}

// escapeXML escapes special XML characters in text
func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\"", "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
