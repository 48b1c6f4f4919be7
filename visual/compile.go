package visual

import (
	"fmt"

	"github.com/baleybots/go-bal/bal"
)

// Compile turns BAL source into a visual graph. It never panics and
// never renders a partial graph: a failed parse (or an internal error)
// yields empty nodes and edges plus the error list.
func Compile(source string, opts ...Option) (c *Compilation) {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	defer func() {
		if r := recover(); r != nil {
			c = &Compilation{
				Graph:  Graph{Nodes: []Node{}, Edges: []Edge{}},
				Errors: []string{fmt.Sprintf("internal error: %v", r)},
			}
		}
	}()

	file, err := bal.ParseFile(source)
	if err != nil {
		return &Compilation{
			Graph:  Graph{Nodes: []Node{}, Edges: []Edge{}},
			Errors: []string{err.Error()},
		}
	}

	entities := bal.ExtractEntities(file)
	if len(entities) == 0 {
		return &Compilation{Graph: Graph{Nodes: []Node{}, Edges: []Edge{}}, Errors: []string{}}
	}

	var chain []string
	if order := bal.ExtractOrder(file.Pipeline); order != nil {
		chain = order.Order
	}

	b := &builder{options: options, known: make(map[string]bool, len(entities))}
	b.buildNodes(entities, chain)
	b.chainEdges(chain)
	b.branchEdges(file.Pipeline)
	b.spawnEdges(entities)
	b.sharedDataEdges(entities)
	b.triggerEdges(entities)

	graph := Graph{Nodes: b.nodes, Edges: b.edges}
	layout(&graph, options)

	return &Compilation{Graph: graph, Errors: []string{}}
}

type builder struct {
	options Options
	nodes   []Node
	edges   []Edge
	known   map[string]bool
	seen    map[string]bool
}

// buildNodes creates one node per entity in declaration order. The
// initial x position indexes into the chain when the entity appears
// there, else into declaration order; the layout pass overrides it.
func (b *builder) buildNodes(entities []bal.ParsedEntity, chain []string) {
	chainIndex := make(map[string]int, len(chain))
	for i, name := range chain {
		if _, ok := chainIndex[name]; !ok {
			chainIndex[name] = i
		}
	}

	step := b.options.NodeWidth + b.options.HorizontalGap
	for i, e := range entities {
		idx := i
		if ci, ok := chainIndex[e.Name]; ok {
			idx = ci
		}
		b.nodes = append(b.nodes, Node{
			ID:   e.Name,
			Type: NodeBaleybot,
			Data: NodeData{
				Name:       e.Name,
				Goal:       e.Config.Goal,
				Model:      e.Config.Model,
				Trigger:    e.Config.Trigger,
				Tools:      e.Config.Tools,
				CanRequest: intersect(e.Config.Tools, b.options.ApprovalTools),
				Output:     e.Config.Output,
			},
			Position: XY{X: float64(idx) * step, Y: b.options.BaselineY},
		})
		b.known[e.Name] = true
	}
}

// addEdge appends an edge unless one with the same id already exists.
func (b *builder) addEdge(e Edge) {
	if b.seen == nil {
		b.seen = make(map[string]bool)
	}
	if b.seen[e.ID] {
		return
	}
	b.seen[e.ID] = true
	b.edges = append(b.edges, e)
}

// chainEdges links each consecutive pair of the pipeline order.
func (b *builder) chainEdges(chain []string) {
	for i := 0; i+1 < len(chain); i++ {
		src, dst := chain[i], chain[i+1]
		if !b.known[src] || !b.known[dst] {
			continue
		}
		b.addEdge(Edge{
			ID:       fmt.Sprintf("chain-%s-%s", src, dst),
			Source:   src,
			Target:   dst,
			Type:     EdgeChain,
			Animated: true,
		})
	}
}

// branchEdges walks the pipeline expression emitting parallel and
// conditional edges. Branch labels and targets come straight off the
// AST. Targets that name no declared entity are dropped silently.
func (b *builder) branchEdges(expr bal.Expr) {
	switch e := expr.(type) {
	case *bal.ChainExpr:
		for _, sub := range e.Body {
			b.branchEdges(sub)
		}

	case *bal.ParallelExpr:
		// Star topology from the first resolvable branch target.
		type branch struct{ label, target string }
		var resolved []branch
		for _, br := range e.Branches {
			if name, ok := firstEntityName(br.Target); ok && b.known[name] {
				resolved = append(resolved, branch{label: br.Label, target: name})
			}
			b.branchEdges(br.Target)
		}
		if len(resolved) >= 2 {
			hub := resolved[0].target
			for _, br := range resolved[1:] {
				b.addEdge(Edge{
					ID:     fmt.Sprintf("parallel-%s-%s", hub, br.target),
					Source: hub,
					Target: br.target,
					Type:   EdgeParallel,
					Label:  br.label,
				})
			}
		}

	case *bal.WhenExpr:
		pass, passOK := firstEntityName(e.Pass)
		fail, failOK := firstEntityName(e.Fail)
		if b.known[e.Condition] && passOK && failOK && b.known[pass] && b.known[fail] {
			b.addEdge(Edge{
				ID:     fmt.Sprintf("conditional_pass-%s-%s", e.Condition, pass),
				Source: e.Condition,
				Target: pass,
				Type:   EdgeConditionalPass,
				Label:  "pass",
			})
			b.addEdge(Edge{
				ID:     fmt.Sprintf("conditional_fail-%s-%s", e.Condition, fail),
				Source: e.Condition,
				Target: fail,
				Type:   EdgeConditionalFail,
				Label:  "fail",
			})
		}
		b.branchEdges(e.Pass)
		b.branchEdges(e.Fail)
	}
}

// spawnEdges fans out from every spawn-capable node to all other nodes.
func (b *builder) spawnEdges(entities []bal.ParsedEntity) {
	for _, e := range entities {
		if !containsAny(e.Config.Tools, b.options.SpawnTools) {
			continue
		}
		for _, other := range entities {
			if other.Name == e.Name {
				continue
			}
			b.addEdge(Edge{
				ID:       fmt.Sprintf("spawn-%s-%s", e.Name, other.Name),
				Source:   e.Name,
				Target:   other.Name,
				Type:     EdgeSpawn,
				Label:    "spawns",
				Animated: true,
			})
		}
	}
}

// sharedDataEdges links nodes that share a shared-data tool. Exactly two
// sharers get a single edge; three or more get a star from the first
// sharer in declaration order, avoiding a quadratic mesh.
func (b *builder) sharedDataEdges(entities []bal.ParsedEntity) {
	for _, tool := range b.options.SharedDataTools {
		var sharers []string
		for _, e := range entities {
			if contains(e.Config.Tools, tool) {
				sharers = append(sharers, e.Name)
			}
		}
		if len(sharers) < 2 {
			continue
		}
		hub := sharers[0]
		for _, other := range sharers[1:] {
			b.addEdge(Edge{
				ID:     fmt.Sprintf("shared_data-%s-%s-%s", tool, hub, other),
				Source: hub,
				Target: other,
				Type:   EdgeSharedData,
				Label:  tool,
			})
		}
	}
}

// triggerEdges links bb_completion triggers back to their source node.
func (b *builder) triggerEdges(entities []bal.ParsedEntity) {
	for _, e := range entities {
		t := e.Config.Trigger
		if t == nil || t.Type != bal.TriggerOtherBB {
			continue
		}
		if !b.known[t.SourceBaleybotID] {
			continue
		}
		b.addEdge(Edge{
			ID:       fmt.Sprintf("trigger-%s-%s", t.SourceBaleybotID, e.Name),
			Source:   t.SourceBaleybotID,
			Target:   e.Name,
			Type:     EdgeTrigger,
			Label:    "triggers",
			Animated: true,
		})
	}
}

// firstEntityName returns the first entity referenced by an expression.
func firstEntityName(expr bal.Expr) (string, bool) {
	switch e := expr.(type) {
	case *bal.EntityRef:
		return e.Name, true
	case *bal.ChainExpr:
		for _, sub := range e.Body {
			if name, ok := firstEntityName(sub); ok {
				return name, true
			}
		}
	case *bal.ParallelExpr:
		for _, br := range e.Branches {
			if name, ok := firstEntityName(br.Target); ok {
				return name, true
			}
		}
	case *bal.WhenExpr:
		return e.Condition, true
	}
	return "", false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func containsAny(list, candidates []string) bool {
	for _, c := range candidates {
		if contains(list, c) {
			return true
		}
	}
	return false
}

func intersect(list, candidates []string) []string {
	out := []string{}
	for _, item := range list {
		if contains(candidates, item) {
			out = append(out, item)
		}
	}
	return out
}
