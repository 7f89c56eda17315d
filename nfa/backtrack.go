package nfa

import (
	"encoding/binary"

	"github.com/coregx/lexregex/internal/conv"
)

// MatchResult is the outcome of matching a graph against an input.
//
// The non-failure outcomes are ordered: NoMatch < Partial < Complete.
type MatchResult uint8

const (
	// Failure means the match could not be attempted: the pattern is not
	// compiled, or the search exceeded its budget.
	Failure MatchResult = iota

	// NoMatch means no prefix of any suffix of the input matches.
	NoMatch

	// Partial means the input ran out while a match was still in progress:
	// more input could turn it into Complete.
	Partial

	// Complete means the pattern matched.
	Complete
)

var matchResultNames = [...]string{"Failure", "NoMatch", "Partial", "Complete"}

// String returns the outcome name.
func (r MatchResult) String() string {
	if int(r) < len(matchResultNames) {
		return matchResultNames[r]
	}
	return "MatchResult(?)"
}

func better(a, b MatchResult) MatchResult {
	if b > a {
		return b
	}
	return a
}

// DefaultMaxVisited is the default budget of distinct search states per call.
const DefaultMaxVisited = 1 << 20

// Backtracker matches a Graph with depth-first greedy backtracking.
//
// The search state is (node, input offset, open trackers). Each distinct state
// is explored once per input and its outcome memoized, so restarting the walk
// from successive offsets shares all work done by earlier offsets.
//
// A Backtracker is not safe for concurrent use; the Graph it matches is.
type Backtracker struct {
	graph *Graph

	// maxVisited bounds the number of memoized states.
	maxVisited int

	text   []byte
	stack  *TrackerStack
	memo   map[string]MatchResult
	keyBuf []byte
	err    error
}

// NewBacktracker creates a backtracker for g with the default budget.
// g may be nil, in which case every match reports Failure.
func NewBacktracker(g *Graph) *Backtracker {
	return &Backtracker{
		graph:      g,
		maxVisited: DefaultMaxVisited,
		memo:       make(map[string]MatchResult),
	}
}

// SetMaxVisited sets the state budget. Values <= 0 restore the default.
func (b *Backtracker) SetMaxVisited(n int) {
	if n <= 0 {
		n = DefaultMaxVisited
	}
	b.maxVisited = n
}

// MaxVisited returns the state budget.
func (b *Backtracker) MaxVisited() int {
	return b.maxVisited
}

// Graph returns the graph being matched.
func (b *Backtracker) Graph() *Graph {
	return b.graph
}

// Visited returns the number of states explored since the last Reset.
func (b *Backtracker) Visited() int {
	return len(b.memo)
}

// Err returns the error that caused the last Failure, if any.
func (b *Backtracker) Err() error {
	return b.err
}

// Reset prepares the backtracker for a new input.
func (b *Backtracker) Reset(text []byte) {
	b.text = text
	b.err = nil
	clear(b.memo)
	if b.graph == nil || b.graph.released {
		b.err = ErrNotCompiled
	}
}

// Match reports the outcome of matching text, trying every permitted start
// offset in order.
func (b *Backtracker) Match(text []byte) (MatchResult, error) {
	b.Reset(text)
	if b.err != nil {
		return Failure, b.err
	}
	g := b.graph
	if g.empty {
		if len(text) == 0 {
			return Complete, nil
		}
		return NoMatch, nil
	}
	if len(text) == 0 {
		return NoMatch, nil
	}

	last := len(text) - 1
	if g.anchoredStart {
		last = 0
	}
	best := NoMatch
	for start := 0; start <= last; start++ {
		r := b.MatchAt(start)
		if r == Failure {
			return Failure, b.err
		}
		if r == Complete {
			return Complete, nil
		}
		best = better(best, r)
	}
	return best, nil
}

// MatchAt reports the outcome of a walk that begins at input offset start.
// Reset must have been called with the input first. Outcomes memoized by
// earlier calls since the last Reset are reused.
func (b *Backtracker) MatchAt(start int) MatchResult {
	if b.err != nil {
		return Failure
	}
	if start < 0 || start > len(b.text) {
		return NoMatch
	}
	b.stack = GetTrackerStack()
	r := b.step(b.graph.root, start)
	PutTrackerStack(b.stack)
	b.stack = nil
	if b.err != nil {
		return Failure
	}
	return r
}

// step returns the best outcome reachable from node id at offset pos with the
// current tracker stack.
func (b *Backtracker) step(id NodeID, pos int) MatchResult {
	if b.err != nil {
		return NoMatch
	}

	b.keyBuf = b.keyBuf[:0]
	b.keyBuf = binary.AppendUvarint(b.keyBuf, uint64(id))
	b.keyBuf = binary.AppendUvarint(b.keyBuf, conv.IntToUint64(pos))
	b.keyBuf = b.appendStackKey(b.keyBuf, pos)
	if r, ok := b.memo[string(b.keyBuf)]; ok {
		return r
	}
	if len(b.memo) >= b.maxVisited {
		b.err = ErrTooComplex
		return NoMatch
	}
	key := string(b.keyBuf)

	r := b.explore(id, pos)
	if b.err == nil {
		b.memo[key] = r
	}
	return r
}

// appendStackKey encodes the open trackers as far as they can still influence
// the outcome from offset pos. Every future offset is >= pos, so a tracker's
// Saved offset matters only as "equal to pos" or "before pos", and on an
// unbounded word repeats beyond Min are indistinguishable. Branch does not
// matter at all.
func (b *Backtracker) appendStackKey(dst []byte, pos int) []byte {
	dst = binary.AppendUvarint(dst, conv.IntToUint64(b.stack.Len()))
	for i := 0; i < b.stack.Len(); i++ {
		t := b.stack.At(i)
		w := &b.graph.nodes[t.Ref]
		repeats := t.Repeats
		if w.Max == Unbounded && repeats > w.Min {
			repeats = w.Min
		}
		consumed := uint64(0)
		if pos > t.Saved {
			consumed = 1
		}
		dst = binary.AppendUvarint(dst, uint64(t.Ref))
		dst = binary.AppendUvarint(dst, conv.IntToUint64(repeats)<<1|consumed)
	}
	return dst
}

func (b *Backtracker) explore(id NodeID, pos int) MatchResult {
	g := b.graph
	n := &g.nodes[id]

	switch {
	case n.End:
		if pos == len(b.text) || !g.anchoredEnd {
			return Complete
		}
		return NoMatch
	case n.Start:
		return b.step(n.Next(), pos)
	}

	if pos == len(b.text) {
		if IsPathOptional(g, id, b.stack, pos) {
			return Complete
		}
		return Partial
	}

	switch {
	case n.WordStart:
		return b.enterWord(n, pos)
	case n.WordEnd:
		return b.leaveWord(n, pos)
	}
	return b.consume(n, pos)
}

// consume matches a character node greedily: it takes as many accepted bytes
// as the bounds allow, then gives them back one at a time.
func (b *Backtracker) consume(n *Node, pos int) MatchResult {
	limit := len(b.text) - pos
	if n.Max != Unbounded && n.Max < limit {
		limit = n.Max
	}
	k := 0
	for k < limit && n.Accepts(b.text[pos+k]) {
		k++
	}
	if k < n.Min {
		if pos+k == len(b.text) {
			return Partial
		}
		return NoMatch
	}

	next := n.Next()
	best := NoMatch
	for ; k >= n.Min; k-- {
		r := b.step(next, pos+k)
		if r == Complete {
			return Complete
		}
		best = better(best, r)
	}
	return best
}

// enterWord tries each branch of the word, then skipping it if allowed.
func (b *Backtracker) enterWord(w *Node, pos int) MatchResult {
	best := NoMatch
	if w.Max != 0 {
		b.stack.Push(Tracker{Ref: w.id, Saved: pos})
		best = b.branches(w, pos)
		b.stack.Pop()
		if best == Complete {
			return Complete
		}
	}
	if w.Min == 0 {
		best = better(best, b.step(b.graph.nodes[w.WordRef].Next(), pos))
	}
	return best
}

// branches tries every branch of w in order under the innermost tracker.
func (b *Backtracker) branches(w *Node, pos int) MatchResult {
	best := NoMatch
	for i, child := range w.Children {
		b.stack.Top().Branch = i
		r := b.step(child, pos)
		if r == Complete {
			return Complete
		}
		best = better(best, r)
	}
	return best
}

// leaveWord finishes one iteration of the word closed by e. It repeats the
// word while the bounds allow and the iteration consumed input, then tries
// leaving once the minimum is met.
func (b *Backtracker) leaveWord(e *Node, pos int) MatchResult {
	top := b.stack.Top()
	if top == nil || top.Ref != e.WordRef {
		// Unreachable for graphs built by the Compiler.
		b.err = &BuildError{Message: "word end without an open tracker", NodeID: e.id}
		return NoMatch
	}
	w := &b.graph.nodes[e.WordRef]
	saved, repeats := top.Saved, top.Repeats
	done := repeats + 1

	best := NoMatch
	if (w.Max == Unbounded || done < w.Max) && pos > saved {
		top.Repeats, top.Saved = done, pos
		r := b.branches(w, pos)
		top = b.stack.Top()
		top.Repeats, top.Saved = repeats, saved
		if r == Complete {
			return Complete
		}
		best = r
	}

	if done >= w.Min || pos == saved {
		t, _ := b.stack.Pop()
		r := b.step(e.Next(), pos)
		b.stack.Push(t)
		best = better(best, r)
	}
	return best
}
