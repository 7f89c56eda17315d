package meta

import (
	"github.com/coregx/lexregex/nfa"
	"github.com/coregx/lexregex/prefilter"
)

// Strategy represents how the engine picks start offsets for the backtracker.
//
// Strategy selection is automatic based on pattern analysis.
type Strategy int

const (
	// UseBacktracker runs the backtracker from every offset in order.
	// Selected when no prefilter can be built, or prefiltering is disabled.
	UseBacktracker Strategy = iota

	// UseEmpty handles the empty pattern, which matches only empty input.
	UseEmpty

	// UseAnchored runs the backtracker from offset 0 only.
	// Selected for patterns with a begin anchor ($). A first-byte set, when
	// available, rejects inputs before the backtracker runs.
	UseAnchored

	// UsePrefilter runs the backtracker only at prefilter candidates and in
	// the trailing window where a match can begin with part of a literal.
	// Selected for unanchored patterns with useful literals or first bytes.
	UsePrefilter
)

// String returns a human-readable representation of the Strategy.
func (s Strategy) String() string {
	switch s {
	case UseBacktracker:
		return "UseBacktracker"
	case UseEmpty:
		return "UseEmpty"
	case UseAnchored:
		return "UseAnchored"
	case UsePrefilter:
		return "UsePrefilter"
	default:
		return "Unknown"
	}
}

// SelectStrategy picks the strategy for a compiled graph.
//
// Selection order:
//  1. Empty pattern → UseEmpty
//  2. Begin anchor → UseAnchored
//  3. A prefilter is available → UsePrefilter
//  4. Otherwise → UseBacktracker
func SelectStrategy(g *nfa.Graph, pf prefilter.Prefilter) Strategy {
	switch {
	case g.IsEmpty():
		return UseEmpty
	case g.AnchoredStart():
		return UseAnchored
	case pf != nil:
		return UsePrefilter
	default:
		return UseBacktracker
	}
}
