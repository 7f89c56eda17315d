package nfa

import (
	"fmt"

	"github.com/coregx/lexregex/internal/conv"
)

// Builder constructs graphs incrementally using a low-level API.
// This provides full control over graph construction and is used by the Compiler.
type Builder struct {
	nodes []Node
}

// NewBuilder creates a new graph builder with default capacity
func NewBuilder() *Builder {
	return NewBuilderWithCapacity(16)
}

// NewBuilderWithCapacity creates a new graph builder with specified initial capacity
func NewBuilderWithCapacity(capacity int) *Builder {
	return &Builder{
		nodes: make([]Node, 0, capacity),
	}
}

func (b *Builder) add(n Node) NodeID {
	id := NodeID(conv.IntToUint32(len(b.nodes)))
	n.id = id
	n.WordRef = InvalidNode
	b.nodes = append(b.nodes, n)
	return id
}

// AddRoot adds the structural root node and returns its ID
func (b *Builder) AddRoot() NodeID {
	return b.add(Node{Start: true, Min: 1, Max: 1})
}

// AddEnd adds a terminal node and returns its ID
func (b *Builder) AddEnd() NodeID {
	return b.add(Node{End: true, Min: 1, Max: 1})
}

// AddChar adds a character node with bounds {1,1} and an empty rule.
// The caller fills in literals and classes through Node.
func (b *Builder) AddChar() NodeID {
	return b.add(Node{Min: 1, Max: 1})
}

// AddWordStart adds the node that opens a word
func (b *Builder) AddWordStart() NodeID {
	return b.add(Node{WordStart: true, Min: 1, Max: 1})
}

// AddWordEnd adds the node that closes the word opened by start and links the
// two ends to each other.
func (b *Builder) AddWordEnd(start NodeID) (NodeID, error) {
	s := b.Node(start)
	if s == nil || !s.WordStart {
		return InvalidNode, &BuildError{Message: "word end needs a word start", NodeID: start}
	}
	id := b.add(Node{WordEnd: true, Min: s.Min, Max: s.Max})
	b.nodes[id].WordRef = start
	b.nodes[start].WordRef = id
	return id, nil
}

// Node returns the node with the given ID for in-place editing, or nil.
func (b *Builder) Node(id NodeID) *Node {
	if id == InvalidNode || int(id) >= len(b.nodes) {
		return nil
	}
	return &b.nodes[id]
}

// AddChild appends to as a new child of from.
func (b *Builder) AddChild(from, to NodeID) error {
	if err := b.check(from, to); err != nil {
		return err
	}
	n := &b.nodes[from]
	if n.End {
		return &BuildError{Message: "terminal node cannot have children", NodeID: from}
	}
	n.Children = append(n.Children, to)
	return nil
}

// SetNext makes to the default successor of from, replacing any previous one.
func (b *Builder) SetNext(from, to NodeID) error {
	if err := b.check(from, to); err != nil {
		return err
	}
	n := &b.nodes[from]
	if len(n.Children) == 0 {
		return b.AddChild(from, to)
	}
	n.Children[0] = to
	return nil
}

func (b *Builder) check(from, to NodeID) error {
	if b.Node(from) == nil {
		return &BuildError{Message: "node ID out of bounds", NodeID: from}
	}
	if b.Node(to) == nil {
		return &BuildError{Message: "node ID out of bounds", NodeID: to}
	}
	return nil
}

// SetBounds sets the repeat bounds of a character node, or of both ends of the
// word opened by id.
func (b *Builder) SetBounds(id NodeID, minRep, maxRep int) error {
	n := b.Node(id)
	if n == nil {
		return &BuildError{Message: "node ID out of bounds", NodeID: id}
	}
	if minRep < 0 || (maxRep != Unbounded && maxRep < minRep) {
		return &BuildError{Message: fmt.Sprintf("invalid bounds {%d,%d}", minRep, maxRep), NodeID: id}
	}
	n.Min, n.Max = minRep, maxRep
	if n.WordStart {
		n.RepeatPath = maxRep == Unbounded || maxRep > 1
		n.OptionalPath = minRep == 0
		if end := b.Node(n.WordRef); end != nil {
			end.Min, end.Max = minRep, maxRep
			end.RepeatPath, end.OptionalPath = n.RepeatPath, n.OptionalPath
		}
	}
	return nil
}

// Nodes returns the current number of nodes
func (b *Builder) Nodes() int {
	return len(b.nodes)
}

// Build validates the arena and returns the finished graph.
func (b *Builder) Build(root NodeID, anchoredStart, anchoredEnd bool) (*Graph, error) {
	if err := b.Validate(root); err != nil {
		return nil, err
	}
	return &Graph{
		nodes:         b.nodes,
		root:          root,
		anchoredStart: anchoredStart,
		anchoredEnd:   anchoredEnd,
	}, nil
}

// Validate checks that the graph is well-formed:
//   - root is a valid Start node
//   - every non-terminal node has at least one child
//   - all child references are in range
//   - the children edges form no cycle
func (b *Builder) Validate(root NodeID) error {
	r := b.Node(root)
	if r == nil || !r.Start {
		return &BuildError{Message: "root is not a start node", NodeID: root}
	}

	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, len(b.nodes))

	// Iterative DFS; a grey node seen again means a cycle.
	type frame struct {
		id   NodeID
		next int
	}
	stack := []frame{{id: root}}
	color[root] = grey
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		n := &b.nodes[top.id]
		if !n.End && len(n.Children) == 0 {
			return &BuildError{Message: "non-terminal node has no successor", NodeID: top.id}
		}
		if top.next == len(n.Children) {
			color[top.id] = black
			stack = stack[:len(stack)-1]
			continue
		}
		child := n.Children[top.next]
		top.next++
		if b.Node(child) == nil {
			return &BuildError{Message: "child ID out of bounds", NodeID: top.id}
		}
		switch color[child] {
		case grey:
			return &BuildError{Message: "cycle through children", NodeID: child}
		case white:
			color[child] = grey
			stack = append(stack, frame{id: child})
		}
	}
	return nil
}
