package tat

// Walk visits node and every descendant depth-first, calling visit on each,
// mirroring ast.Walk.
func Walk(node Node, visit func(Node)) {
	if node == nil {
		return
	}
	visit(node)
	if parent, ok := node.(ParentNode); ok {
		for _, child := range parent.Children() {
			Walk(child, visit)
		}
	}
}
