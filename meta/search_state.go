package meta

import (
	"sync"

	"github.com/coregx/lexregex/nfa"
	"github.com/coregx/lexregex/prefilter"
)

// SearchState holds per-search mutable state.
// It is obtained from a sync.Pool so one Engine can serve concurrent searches.
//
// Thread safety: each goroutine must use its own SearchState instance.
type SearchState struct {
	// backtracker carries the memo of explored states for one input.
	backtracker *nfa.Backtracker

	// tracker measures prefilter effectiveness within one search.
	// Nil when the engine has no prefilter.
	tracker *prefilter.Tracker
}

func newSearchState(g *nfa.Graph, pf prefilter.Prefilter, maxVisited int) *SearchState {
	bt := nfa.NewBacktracker(g)
	bt.SetMaxVisited(maxVisited)
	return &SearchState{
		backtracker: bt,
		tracker:     prefilter.NewTracker(pf),
	}
}

// reset prepares the SearchState for reuse.
// The input reference is dropped so pooled states do not pin caller buffers.
func (s *SearchState) reset() {
	s.backtracker.Reset(nil)
	if s.tracker != nil {
		s.tracker.Reset()
	}
}

// searchStatePool manages a pool of SearchState instances for thread-safe reuse.
type searchStatePool struct {
	pool sync.Pool

	graph      *nfa.Graph
	prefilter  prefilter.Prefilter
	maxVisited int
}

func newSearchStatePool(g *nfa.Graph, pf prefilter.Prefilter, maxVisited int) *searchStatePool {
	p := &searchStatePool{
		graph:      g,
		prefilter:  pf,
		maxVisited: maxVisited,
	}
	p.pool = sync.Pool{
		New: func() any {
			return newSearchState(p.graph, p.prefilter, p.maxVisited)
		},
	}
	return p
}

func (p *searchStatePool) get() *SearchState {
	return p.pool.Get().(*SearchState)
}

func (p *searchStatePool) put(state *SearchState) {
	if state == nil {
		return
	}
	state.reset()
	p.pool.Put(state)
}
