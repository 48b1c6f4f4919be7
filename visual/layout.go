package visual

// layout assigns final positions to the graph's nodes: x from the
// node's rank in the combined edge set, y centered within the rank.
// A graph with no edges keeps a single horizontal row in declaration
// order at the baseline.
func layout(g *Graph, opts Options) {
	step := opts.NodeWidth + opts.HorizontalGap

	if len(g.Edges) == 0 {
		for i := range g.Nodes {
			g.Nodes[i].Position = XY{X: float64(i) * step, Y: opts.BaselineY}
		}
		return
	}

	ranks := assignRanks(g)

	// Group nodes by rank, preserving declaration order within a rank.
	byRank := make(map[int][]int)
	for i, n := range g.Nodes {
		r := ranks[n.ID]
		byRank[r] = append(byRank[r], i)
	}

	for rank, members := range byRank {
		gap := opts.RowGap
		if len(members) >= opts.DenseRowCount {
			gap = opts.DenseRowGap
		}
		for i, nodeIdx := range members {
			offset := float64(i) - float64(len(members)-1)/2
			g.Nodes[nodeIdx].Position = XY{
				X: float64(rank) * step,
				Y: opts.BaselineY + offset*gap,
			}
		}
	}
}

// assignRanks computes a longest-path rank for every node via Kahn's
// algorithm over the combined edge set. Nodes with no incoming edges
// start at rank 0 and each relaxed edge advances its target to
// max(current, source+1). Nodes trapped in a cycle are never dequeued
// and keep rank 0, so the pass terminates on any finite graph.
func assignRanks(g *Graph) map[string]int {
	adjacent := make(map[string][]string, len(g.Nodes))
	inDegree := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		inDegree[n.ID] = 0
	}
	for _, e := range g.Edges {
		if _, ok := inDegree[e.Source]; !ok {
			continue
		}
		if _, ok := inDegree[e.Target]; !ok {
			continue
		}
		adjacent[e.Source] = append(adjacent[e.Source], e.Target)
		inDegree[e.Target]++
	}

	ranks := make(map[string]int, len(g.Nodes))
	processed := make(map[string]bool, len(g.Nodes))

	var queue []string
	for _, n := range g.Nodes {
		if inDegree[n.ID] == 0 {
			queue = append(queue, n.ID)
			ranks[n.ID] = 0
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		processed[id] = true

		for _, next := range adjacent[id] {
			if ranks[id]+1 > ranks[next] {
				ranks[next] = ranks[id] + 1
			}
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	// Cycle fallback: anything never dequeued sits at rank 0.
	for _, n := range g.Nodes {
		if !processed[n.ID] {
			ranks[n.ID] = 0
		}
	}
	return ranks
}
