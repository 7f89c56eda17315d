// Package nfa provides the node graph, compiler and backtracking matcher of the
// lexregex engine.
//
// A pattern is compiled into a Graph: an arena of Nodes addressed by NodeID.
// Each Node either accepts input characters (with min/max repeat bounds) or
// marks structure: the root, the terminal node, and the start and end of a
// "word" (a parenthesized group). Words are the only unit of grouping,
// alternation and quantification. Repetition never creates a structural cycle;
// the matcher re-enters a word through a Tracker instead.
package nfa

import (
	"fmt"
	"strings"
)

// NodeID identifies a node within a Graph arena.
type NodeID uint32

// InvalidNode marks a missing node reference.
const InvalidNode NodeID = 0xFFFFFFFF

// Unbounded is the Max value of a node or word that may repeat without limit.
const Unbounded = -1

// Class is a bit set of named character classes enabled on a node.
type Class uint16

const (
	// ClassAny accepts every byte (\e).
	ClassAny Class = 1 << iota

	// ClassAnyButNewline accepts every byte except '\n' (\N and '.').
	ClassAnyButNewline

	// ClassNone accepts nothing (\E).
	ClassNone

	// ClassDigit accepts 0-9 (\d).
	ClassDigit

	// ClassNotDigit accepts everything except 0-9 (\D).
	ClassNotDigit

	// ClassSpace accepts space and tab (\s).
	ClassSpace

	// ClassNotSpace accepts everything except space and tab (\S).
	ClassNotSpace

	// ClassWord accepts [A-Za-z0-9_] (\w).
	ClassWord

	// ClassNotWord accepts everything except [A-Za-z0-9_] (\W).
	ClassNotWord
)

var classNames = [...]string{"any", "anyButNewline", "none", "digit", "notDigit", "space", "notSpace", "word", "notWord"}

// String returns the enabled class names joined by '|'.
func (c Class) String() string {
	if c == 0 {
		return "-"
	}
	var parts []string
	for i, name := range classNames {
		if c&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, "|")
}

// Node is one step of a compiled pattern.
//
// A character node consumes between Min and Max input bytes accepted by its
// rule. Word-start and word-end nodes consume nothing; their Min/Max describe
// how many times the whole word repeats.
type Node struct {
	id NodeID

	// Min and Max are the repeat bounds. Max == Unbounded means no limit.
	Min, Max int

	Start        bool // root of the graph
	End          bool // terminal node
	WordStart    bool
	WordEnd      bool
	OptionalPath bool // word may be skipped
	RepeatPath   bool // word may repeat
	OrPath       bool // word has more than one branch
	Negated      bool // acceptance rule is inverted

	// WordRef links the two ends of a word: a word-end points at its word-start
	// and a word-start points at its word-end.
	WordRef NodeID

	Literals ByteSet
	Classes  Class

	// Children holds successors. Index 0 is the default successor; on a
	// word-start node every child is the head of one alternation branch.
	Children []NodeID
}

// ID returns the node's identifier within its graph.
func (n *Node) ID() NodeID {
	return n.id
}

// Next returns the default successor, or InvalidNode for the terminal node.
func (n *Node) Next() NodeID {
	if len(n.Children) == 0 {
		return InvalidNode
	}
	return n.Children[0]
}

// IsStructural reports whether the node consumes no input.
func (n *Node) IsStructural() bool {
	return n.Start || n.End || n.WordStart || n.WordEnd
}

// HasRule reports whether any literal or class is set on the node.
func (n *Node) HasRule() bool {
	return n.Classes != 0 || !n.Literals.IsEmpty()
}

// String returns a human-readable representation of the node
func (n *Node) String() string {
	var kind string
	switch {
	case n.Start:
		kind = "Start"
	case n.End:
		kind = "End"
	case n.WordStart:
		kind = "WordStart"
	case n.WordEnd:
		kind = "WordEnd"
	default:
		kind = "Char"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Node(%d, %s", n.id, kind)
	if !n.Start && !n.End {
		fmt.Fprintf(&b, " {%d,%d}", n.Min, n.Max)
	}
	if kind == "Char" {
		if n.Negated {
			b.WriteString(" ^")
		}
		fmt.Fprintf(&b, " %q %s", n.Literals.String(), n.Classes)
	}
	if n.OptionalPath {
		b.WriteString(" optional")
	}
	if n.RepeatPath {
		b.WriteString(" repeat")
	}
	if n.OrPath {
		b.WriteString(" or")
	}
	if n.WordRef != InvalidNode {
		fmt.Fprintf(&b, " ref=%d", n.WordRef)
	}
	if len(n.Children) > 0 {
		fmt.Fprintf(&b, " -> %v", n.Children)
	}
	b.WriteString(")")
	return b.String()
}

// Graph is a compiled pattern: an arena of nodes plus the pattern-wide flags.
//
// A Graph is immutable once built. Matching never modifies it, so one Graph
// may be matched from many goroutines at once.
type Graph struct {
	nodes []Node
	root  NodeID

	anchoredStart bool
	anchoredEnd   bool
	empty         bool
	pattern       string
	released      bool
}

// Root returns the root node ID.
func (g *Graph) Root() NodeID {
	return g.root
}

// Node returns the node with the given ID, or nil if the ID is invalid.
func (g *Graph) Node(id NodeID) *Node {
	if id == InvalidNode || int(id) >= len(g.nodes) {
		return nil
	}
	return &g.nodes[id]
}

// Len returns the number of nodes in the arena.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// AnchoredStart reports whether the pattern began with '$'.
func (g *Graph) AnchoredStart() bool {
	return g.anchoredStart
}

// AnchoredEnd reports whether the pattern ended with an unescaped '%'.
func (g *Graph) AnchoredEnd() bool {
	return g.anchoredEnd
}

// IsEmpty reports whether the graph was compiled from "".
func (g *Graph) IsEmpty() bool {
	return g.empty
}

// Released reports whether Release has torn the graph down.
func (g *Graph) Released() bool {
	return g.released
}

// Pattern returns the source text of the graph.
func (g *Graph) Pattern() string {
	return g.pattern
}

// String returns a human-readable summary of the graph
func (g *Graph) String() string {
	return fmt.Sprintf("Graph{nodes: %d, root: %d, anchoredStart: %v, anchoredEnd: %v, empty: %v}",
		len(g.nodes), g.root, g.anchoredStart, g.anchoredEnd, g.empty)
}

// Dump returns one line per node reachable from the root, in walk order.
func (g *Graph) Dump() string {
	var b strings.Builder
	g.Walk(func(n *Node) {
		b.WriteString(n.String())
		b.WriteByte('\n')
	})
	return b.String()
}
