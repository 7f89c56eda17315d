package nfa

// IsPathOptional reports whether the graph can reach its terminal node from id
// without consuming input, given the words still open on stack and the current
// input offset pos.
//
// A character node with Min > 0 disqualifies the path. An open word whose
// iteration count is still below its minimum qualifies only if the current
// iteration consumed nothing, or if one more iteration can match empty.
func IsPathOptional(g *Graph, id NodeID, stack *TrackerStack, pos int) bool {
	depth := 0
	if stack != nil {
		depth = stack.Len()
	}
	for {
		n := g.Node(id)
		if n == nil {
			return false
		}
		switch {
		case n.End:
			return true

		case n.Start:
			id = n.Next()

		case n.WordStart:
			if !g.canSkip(n) {
				return false
			}
			id = g.nodes[n.WordRef].Next()

		case n.WordEnd:
			if depth > 0 && stack.At(depth-1).Ref == n.WordRef {
				t := stack.At(depth - 1)
				w := &g.nodes[n.WordRef]
				if t.Repeats+1 < w.Min && pos > t.Saved && !g.hasEmptyBranch(w) {
					return false
				}
				depth--
			}
			id = n.Next()

		default:
			if n.Min > 0 {
				return false
			}
			id = n.Next()
		}
	}
}

// canSkip reports whether the word opened by w can be passed without
// consuming input.
func (g *Graph) canSkip(w *Node) bool {
	return w.Min == 0 || w.Max == 0 || g.hasEmptyBranch(w)
}

// hasEmptyBranch reports whether some branch of w reaches its word end
// without consuming input.
func (g *Graph) hasEmptyBranch(w *Node) bool {
	for _, child := range w.Children {
		if g.chainIsEmpty(child, w.WordRef) {
			return true
		}
	}
	return false
}

// chainIsEmpty reports whether the chain starting at id reaches stop without
// consuming input.
func (g *Graph) chainIsEmpty(id, stop NodeID) bool {
	for id != stop {
		n := g.Node(id)
		if n == nil || n.End {
			return false
		}
		switch {
		case n.WordStart:
			if !g.canSkip(n) {
				return false
			}
			id = g.nodes[n.WordRef].Next()
		case n.WordEnd:
			id = n.Next()
		default:
			if n.Min > 0 {
				return false
			}
			id = n.Next()
		}
	}
	return true
}
