package nfa

// FirstByteSet is the set of bytes that can begin a match.
// Used to reject start offsets without running the backtracker.
type FirstByteSet struct {
	set   ByteSet
	count int
}

// Contains returns true if b can be the first byte of a match.
func (f *FirstByteSet) Contains(b byte) bool {
	return f.set.Contains(b)
}

// Count returns the number of possible first bytes.
func (f *FirstByteSet) Count() int {
	return f.count
}

// Bytes returns the possible first bytes in ascending order.
func (f *FirstByteSet) Bytes() []byte {
	return f.set.Bytes()
}

// Set returns the underlying byte set.
func (f *FirstByteSet) Set() ByteSet {
	return f.set
}

// IsUseful returns true if the set can reject some start offsets.
func (f *FirstByteSet) IsUseful() bool {
	return f.count > 0 && f.count < 256
}

// ExtractFirstBytes returns the bytes that the first consuming step of any
// match must accept. It returns nil for a nil or empty graph, or when the
// terminal node is reachable without consuming input: such a pattern matches
// at every offset, so no byte can be ruled out.
//
// At an offset whose byte is outside the set, the walk can neither consume
// nor reach the terminal node, and since input remains it cannot report
// Partial either. Skipping such offsets never changes the outcome.
func ExtractFirstBytes(g *Graph) *FirstByteSet {
	if g == nil || g.empty || len(g.nodes) == 0 {
		return nil
	}
	var set ByteSet
	if g.firstBytes(g.Node(g.root).Next(), InvalidNode, &set, 0) {
		return nil
	}
	return &FirstByteSet{set: set, count: set.Len()}
}

const maxFirstBytesDepth = 64

// firstBytes adds to set the bytes accepted by the first consuming node of
// every path from id. It reports whether stop (or the terminal node when stop
// is InvalidNode) is reachable without consuming input.
func (g *Graph) firstBytes(id, stop NodeID, set *ByteSet, depth int) bool {
	if depth > maxFirstBytesDepth {
		// Too deep to analyse: allow every byte.
		set.AddRange(0, 255)
		return true
	}
	for id != stop {
		n := g.Node(id)
		if n == nil {
			return true
		}
		switch {
		case n.End:
			return true
		case n.WordStart:
			if n.Max != 0 {
				for _, child := range n.Children {
					g.firstBytes(child, n.WordRef, set, depth+1)
				}
			}
			if !g.canSkip(n) {
				return false
			}
			id = g.nodes[n.WordRef].Next()
		case n.WordEnd, n.Start:
			id = n.Next()
		default:
			if n.Max != 0 {
				set.Union(n.AcceptSet())
			}
			if n.Min > 0 {
				return false
			}
			id = n.Next()
		}
	}
	return true
}
