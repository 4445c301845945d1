package ast

// Walk visits node and every descendant depth-first, calling visit on each.
// Grounded on parsepasses/globals.go's SetNodeGlobals recursion: switch on
// whether the node has children, recurse if so, and leave leaves alone.
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
