package literal

import (
	"github.com/coregx/lexregex/nfa"
)

// ExtractorConfig configures literal extraction limits.
//
// These limits prevent excessive extraction from complex patterns:
//   - MaxLiterals: prevents memory bloat from alternations like (a)|(b)|(c)|...
//   - MaxLiteralLen: prevents extracting very long literals that hurt cache locality
//   - MaxClassSize: prevents expanding large character classes like [a-z]
type ExtractorConfig struct {
	// MaxLiterals limits the number of literals to extract. Default: 64.
	MaxLiterals int

	// MaxLiteralLen limits the length of each extracted literal. Default: 64.
	MaxLiteralLen int

	// MaxClassSize limits the size of character classes to expand.
	// [abc] expands to "a", "b", "c"; [a-z] (26 bytes) is not expanded
	// with the default of 10.
	MaxClassSize int
}

// DefaultConfig returns the default extractor configuration.
func DefaultConfig() ExtractorConfig {
	return ExtractorConfig{
		MaxLiterals:   64,
		MaxLiteralLen: 64,
		MaxClassSize:  10,
	}
}

// Extractor extracts prefix literals from compiled graphs.
//
// It follows the node chain from the root and collects the bytes every match
// must begin with:
//   - single-byte character nodes with fixed bounds append their byte
//   - small literal classes expand into one literal per byte
//   - a mandatory word expands into one literal per branch
//   - optional nodes, named classes and negated classes end extraction
//
// Example:
//
//	g, _ := nfa.Compile("(if)|(else)|(while)")
//	seq := literal.New(literal.DefaultConfig()).ExtractPrefixes(g)
//	// seq = ["if", "else", "while"]
type Extractor struct {
	config ExtractorConfig
}

// New creates a new Extractor with the given configuration.
func New(config ExtractorConfig) *Extractor {
	return &Extractor{config: config}
}

const maxWordDepth = 16

// ExtractPrefixes returns the literals every match must start with, one per
// distinct leading path. It returns an empty Seq when some match could start
// with no fixed byte at all.
func (e *Extractor) ExtractPrefixes(g *nfa.Graph) *Seq {
	if g == nil || g.IsEmpty() || g.Len() == 0 {
		return NewSeq()
	}
	root := g.Node(g.Root())
	lits, complete := e.chain(g, root.Next(), nfa.InvalidNode, [][]byte{nil}, 0)

	seq := make([]Literal, 0, len(lits))
	for _, b := range lits {
		if len(b) == 0 {
			return NewSeq()
		}
		seq = append(seq, NewLiteral(b, complete))
	}
	return NewSeq(seq...)
}

// chain extends every prefix in cur along the chain starting at id until it
// reaches stop (the terminal node when stop is InvalidNode). It reports
// whether stop was reached with every prefix still exact.
func (e *Extractor) chain(g *nfa.Graph, id, stop nfa.NodeID, cur [][]byte, depth int) ([][]byte, bool) {
	for id != stop {
		n := g.Node(id)
		if n == nil {
			return cur, false
		}
		switch {
		case n.End:
			return cur, true

		case n.WordEnd:
			id = n.Next()

		case n.WordStart:
			if n.Min == 0 || depth >= maxWordDepth {
				return cur, false
			}
			var branches [][]byte
			reached := true
			for _, child := range n.Children {
				lits, ok := e.chain(g, child, n.WordRef, [][]byte{nil}, depth+1)
				branches = append(branches, lits...)
				reached = reached && ok
			}
			next, ok := e.product(cur, branches)
			if !ok {
				return cur, false
			}
			cur = next
			if !reached || n.Max != 1 {
				return cur, false
			}
			id = g.Node(n.WordRef).Next()

		default:
			set := n.Literals.Bytes()
			if n.Negated || n.Classes != 0 || len(set) == 0 || len(set) > e.config.MaxClassSize || n.Min == 0 {
				return cur, false
			}
			choices := make([][]byte, len(set))
			for i, c := range set {
				choices[i] = []byte{c}
			}
			for r := 0; r < n.Min; r++ {
				next, ok := e.product(cur, choices)
				if !ok {
					return cur, false
				}
				cur = next
			}
			if n.Max != n.Min {
				return cur, false
			}
			id = n.Next()
		}
	}
	return cur, true
}

// product appends every suffix to every prefix. It fails when the result
// would exceed MaxLiterals or a literal would exceed MaxLiteralLen.
func (e *Extractor) product(prefixes, suffixes [][]byte) ([][]byte, bool) {
	if len(prefixes)*len(suffixes) > e.config.MaxLiterals {
		return nil, false
	}
	out := make([][]byte, 0, len(prefixes)*len(suffixes))
	for _, p := range prefixes {
		for _, s := range suffixes {
			if len(p)+len(s) > e.config.MaxLiteralLen {
				return nil, false
			}
			b := make([]byte, 0, len(p)+len(s))
			b = append(b, p...)
			out = append(out, append(b, s...))
		}
	}
	return out, true
}
