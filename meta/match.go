package meta

import (
	"sync/atomic"

	"github.com/coregx/lexregex/nfa"
	"github.com/coregx/lexregex/prefilter"
)

// Match reports the outcome of matching text.
// On Failure the cause is available from LastMatchError.
func (e *Engine) Match(text []byte) nfa.MatchResult {
	r, err := e.Search(text)
	if err != nil {
		e.lastErr.Store(&err)
	}
	return r
}

// MatchString is Match for a string input.
func (e *Engine) MatchString(s string) nfa.MatchResult {
	return e.Match([]byte(s))
}

// Search reports the outcome of matching text and the error behind a Failure.
func (e *Engine) Search(text []byte) (nfa.MatchResult, error) {
	atomic.AddUint64(&e.stats.Searches, 1)
	state := e.getSearchState()
	defer e.putSearchState(state)

	r, err := e.search(state, text)
	if r == nfa.Failure {
		atomic.AddUint64(&e.stats.Failures, 1)
	}
	return r, err
}

// LongestMatch returns the length of the longest prefix of text that the
// pattern matches completely, or -1 if there is none.
//
// The prefix grows one byte at a time, the way a lexer reads a token: a
// Complete prefix is recorded and a Partial one keeps reading. For a pattern
// with a begin anchor NoMatch ends the scan, since no longer prefix can
// recover; an unanchored pattern may still match at a later offset, so its
// scan continues to the end of text.
func (e *Engine) LongestMatch(text []byte) (int, error) {
	if e.graph.Released() {
		atomic.AddUint64(&e.stats.Failures, 1)
		return -1, nfa.ErrNotCompiled
	}
	state := e.getSearchState()
	defer e.putSearchState(state)

	longest := -1
	for i := 0; i <= len(text); i++ {
		if i == 0 && !e.graph.IsEmpty() {
			// A non-empty pattern never matches empty input.
			continue
		}
		atomic.AddUint64(&e.stats.Searches, 1)
		r, err := e.search(state, text[:i])
		switch r {
		case nfa.Failure:
			atomic.AddUint64(&e.stats.Failures, 1)
			return -1, err
		case nfa.Complete:
			longest = i
		case nfa.NoMatch:
			if e.graph.AnchoredStart() || e.graph.IsEmpty() {
				return longest, nil
			}
		}
	}
	return longest, nil
}

func (e *Engine) search(state *SearchState, text []byte) (nfa.MatchResult, error) {
	if e.graph.Released() {
		return nfa.Failure, nfa.ErrNotCompiled
	}
	switch e.strategy {
	case UseAnchored:
		return e.searchAnchored(state, text)
	case UsePrefilter:
		return e.searchPrefilter(state, text)
	default:
		atomic.AddUint64(&e.stats.BacktrackerRuns, uint64(runsFor(e.graph, text)))
		return state.backtracker.Match(text)
	}
}

// runsFor returns how many start offsets Backtracker.Match tries at most.
func runsFor(g *nfa.Graph, text []byte) int {
	if g.IsEmpty() || len(text) == 0 {
		return 0
	}
	if g.AnchoredStart() {
		return 1
	}
	return len(text)
}

// searchAnchored tries offset 0 only, after checking its first byte.
func (e *Engine) searchAnchored(state *SearchState, text []byte) (nfa.MatchResult, error) {
	if len(text) > 0 && e.firstBytes != nil && !e.firstBytes.Contains(text[0]) {
		atomic.AddUint64(&e.stats.FirstByteRejects, 1)
		return nfa.NoMatch, nil
	}
	atomic.AddUint64(&e.stats.BacktrackerRuns, uint64(runsFor(e.graph, text)))
	return state.backtracker.Match(text)
}

// searchPrefilter runs the backtracker at prefilter candidates in increasing
// order, sharing one memo across them. If the prefilter is retired part way,
// the remaining offsets are tried one by one.
func (e *Engine) searchPrefilter(state *SearchState, text []byte) (nfa.MatchResult, error) {
	n := len(text)
	if n == 0 {
		return nfa.NoMatch, nil
	}
	bt := state.backtracker
	tracker := state.tracker
	bt.Reset(text)
	tracker.Reset()

	// A literal that spells a whole path is a Complete match by itself when
	// trailing input is ignored, as long as Find reported it.
	literalOnly := tracker.IsComplete() && !e.graph.AnchoredEnd()
	tail := n - tracker.Window()

	best := nfa.NoMatch
	abandoned := false
	for pos := 0; pos < n; pos++ {
		if tracker.IsActive() {
			pos = prefilter.NextCandidate(tracker, text, pos)
			if pos < 0 {
				break
			}
			if literalOnly && pos < tail {
				atomic.AddUint64(&e.stats.PrefilterHits, 1)
				return nfa.Complete, nil
			}
		} else if !abandoned {
			abandoned = true
			atomic.AddUint64(&e.stats.PrefilterAbandoned, 1)
		}

		atomic.AddUint64(&e.stats.BacktrackerRuns, 1)
		r := bt.MatchAt(pos)
		switch r {
		case nfa.Failure:
			return nfa.Failure, bt.Err()
		case nfa.Complete:
			return nfa.Complete, nil
		case nfa.Partial:
			tracker.Confirm()
			best = nfa.Partial
		default:
			if !abandoned {
				atomic.AddUint64(&e.stats.PrefilterMisses, 1)
			}
		}
	}
	return best, nil
}
