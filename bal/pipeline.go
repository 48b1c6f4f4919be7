package bal

// OrderKind classifies the shape of the root pipeline expression.
type OrderKind string

const (
	OrderChain    OrderKind = "chain"
	OrderParallel OrderKind = "parallel"
	OrderSingle   OrderKind = "single"
)

// PipelineOrder is the ordered list of entity names referenced by the
// root pipeline expression.
type PipelineOrder struct {
	Kind  OrderKind
	Order []string
}

// ExtractOrder walks the root expression and collects entity names in
// traversal order: chain and parallel bodies left to right, conditionals
// condition first, then the pass branch, then the fail branch. A nil
// root yields nil. A bare entity reference yields a single-element order.
func ExtractOrder(root Expr) *PipelineOrder {
	if root == nil {
		return nil
	}

	order := &PipelineOrder{}
	switch root.(type) {
	case *ParallelExpr:
		order.Kind = OrderParallel
	case *EntityRef:
		order.Kind = OrderSingle
	default:
		order.Kind = OrderChain
	}
	order.Order = collectNames(root, nil)
	return order
}

func collectNames(expr Expr, names []string) []string {
	switch e := expr.(type) {
	case *EntityRef:
		names = append(names, e.Name)
	case *ChainExpr:
		for _, sub := range e.Body {
			names = collectNames(sub, names)
		}
	case *ParallelExpr:
		for _, branch := range e.Branches {
			names = collectNames(branch.Target, names)
		}
	case *WhenExpr:
		names = append(names, e.Condition)
		if e.Pass != nil {
			names = collectNames(e.Pass, names)
		}
		if e.Fail != nil {
			names = collectNames(e.Fail, names)
		}
	}
	return names
}
