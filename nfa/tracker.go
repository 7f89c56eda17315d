package nfa

import "sync"

// Tracker is the backtracking record of one open word during a match call.
type Tracker struct {
	// Ref is the word-start node of the open word.
	Ref NodeID

	// Repeats counts the iterations completed so far.
	Repeats int

	// Branch is the alternation branch the current iteration follows.
	Branch int

	// Saved is the input offset at which the current iteration began.
	Saved int
}

// TrackerStack holds the open words of a single match call, innermost last.
//
// The matcher pushes a Tracker when it enters a word and pops it when it
// leaves; backtracking restores the stack to its earlier shape. Every tracker
// pushed during a call is released together when the stack is returned to its
// pool.
type TrackerStack struct {
	items []Tracker
}

var trackerStackPool = sync.Pool{
	New: func() any {
		return &TrackerStack{items: make([]Tracker, 0, 8)}
	},
}

// GetTrackerStack returns an empty stack from the pool.
func GetTrackerStack() *TrackerStack {
	s := trackerStackPool.Get().(*TrackerStack)
	s.Reset()
	return s
}

// PutTrackerStack releases s and every tracker on it back to the pool.
func PutTrackerStack(s *TrackerStack) {
	if s == nil {
		return
	}
	s.Reset()
	trackerStackPool.Put(s)
}

// Push opens a tracker.
func (s *TrackerStack) Push(t Tracker) {
	s.items = append(s.items, t)
}

// Pop removes and returns the innermost tracker.
// It returns false when the stack is empty.
func (s *TrackerStack) Pop() (Tracker, bool) {
	if len(s.items) == 0 {
		return Tracker{}, false
	}
	t := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return t, true
}

// Top returns the innermost tracker for in-place update, or nil.
// The pointer is invalidated by the next Push.
func (s *TrackerStack) Top() *Tracker {
	if len(s.items) == 0 {
		return nil
	}
	return &s.items[len(s.items)-1]
}

// Len returns the number of open trackers.
func (s *TrackerStack) Len() int {
	return len(s.items)
}

// At returns the i-th tracker from the bottom.
func (s *TrackerStack) At(i int) Tracker {
	return s.items[i]
}

// Reset drops every tracker.
func (s *TrackerStack) Reset() {
	s.items = s.items[:0]
}
