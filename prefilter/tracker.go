package prefilter

// Retirement thresholds. The ratio is checked every retireInterval
// candidates once retireWarmup candidates have been seen.
const (
	retireWarmup   = 128
	retireInterval = 64

	// A prefilter is retired when fewer than one candidate in retireRatio
	// is confirmed.
	retireRatio = 10
)

// Tracker counts how often a prefilter's candidates lead somewhere during one
// search, and retires the prefilter when they rarely do.
//
// A candidate is confirmed when the backtracker started there reports
// Partial: the input ended inside a match. A NoMatch candidate is a miss.
// Complete needs no bookkeeping since it ends the search. A retired Tracker
// returns -1 from Find, and the caller then tries every remaining offset.
//
// A Tracker is itself a Prefilter, so it can be passed to NextCandidate.
// It is not safe for concurrent use; keep one per search state.
type Tracker struct {
	inner Prefilter

	candidates int
	confirms   int
	retired    bool
}

// NewTracker wraps inner. Returns nil if inner is nil.
func NewTracker(inner Prefilter) *Tracker {
	if inner == nil {
		return nil
	}
	return &Tracker{inner: inner}
}

// Find returns the next candidate of the inner prefilter, or -1 once the
// prefilter is retired. Check IsActive before reading -1 as "no candidate".
func (t *Tracker) Find(haystack []byte, start int) int {
	if t.retired {
		return -1
	}
	pos := t.inner.Find(haystack, start)
	if pos < 0 {
		return -1
	}
	t.candidates++
	if t.candidates >= retireWarmup && t.candidates%retireInterval == 0 &&
		t.confirms*retireRatio < t.candidates {
		t.retired = true
	}
	return pos
}

// Confirm records that the last candidate produced a Partial outcome.
func (t *Tracker) Confirm() {
	t.confirms++
}

// IsActive reports whether the prefilter is still in use.
func (t *Tracker) IsActive() bool {
	return !t.retired
}

// Reset re-enables the prefilter and clears the counts for a new input.
func (t *Tracker) Reset() {
	*t = Tracker{inner: t.inner}
}

func (t *Tracker) IsComplete() bool { return t.inner.IsComplete() }
func (t *Tracker) LiteralLen() int  { return t.inner.LiteralLen() }
func (t *Tracker) Window() int      { return t.inner.Window() }
func (t *Tracker) HeapBytes() int   { return t.inner.HeapBytes() }
