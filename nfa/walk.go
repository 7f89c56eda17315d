package nfa

import (
	"github.com/coregx/lexregex/internal/conv"
	"github.com/coregx/lexregex/internal/sparse"
)

// Walk calls fn once for every node reachable from the root, in depth-first
// order with children visited in index order.
//
// Alternation branches share one word-end node, so the graph is a DAG rather
// than a tree; a sparse seen set keeps shared nodes from being visited twice.
// It returns the number of nodes visited.
func (g *Graph) Walk(fn func(*Node)) int {
	if g == nil || len(g.nodes) == 0 {
		return 0
	}
	seen := sparse.New(conv.IntToUint32(len(g.nodes)))
	stack := []NodeID{g.root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !seen.Insert(uint32(id)) {
			continue
		}
		n := &g.nodes[id]
		// Push in reverse so child 0 is visited first. Children are pushed
		// before fn runs, since fn may clear them.
		for i := len(n.Children) - 1; i >= 0; i-- {
			if c := n.Children[i]; !seen.Contains(uint32(c)) {
				stack = append(stack, c)
			}
		}
		fn(n)
	}
	return seen.Len()
}

// Release tears the graph down: every reachable node is visited exactly once
// and cleared, then the arena is dropped. It returns the number of nodes
// released. A released graph has no nodes, and matching it reports Failure
// with ErrNotCompiled.
func (g *Graph) Release() int {
	count := g.Walk(func(n *Node) {
		n.Children = nil
		n.WordRef = InvalidNode
	})
	if g != nil {
		g.nodes = nil
		g.root = InvalidNode
		g.released = true
	}
	return count
}
