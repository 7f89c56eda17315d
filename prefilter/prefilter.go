// Package prefilter provides fast candidate filtering for lexregex searches.
//
// A prefilter scans the input for offsets at which a match can begin, so the
// backtracker is only started where the pattern has a chance. Prefilters are
// built from the literal prefixes of a pattern (see package literal) or, when
// no useful literal exists, from the set of bytes a match can begin with.
//
// Partial outcomes need care: near the end of the input a match may begin
// with only part of a literal, which a substring search cannot see. Every
// prefilter therefore reports a Window, the number of trailing offsets that
// must be tried regardless of what Find returns. NextCandidate combines both.
//
// Available prefilter implementations:
//   - memchr: single byte, or a first-byte set of one byte
//   - memchr2/memchr3: first-byte sets of two or three bytes
//   - byteset: larger first-byte sets, via a 256-entry table
//   - memmem: a single literal of two or more bytes
//   - ahoCorasick: several literals, via github.com/coregx/ahocorasick
package prefilter

import (
	"github.com/coregx/ahocorasick"

	"github.com/coregx/lexregex/literal"
	"github.com/coregx/lexregex/nfa"
	"github.com/coregx/lexregex/simd"
)

// Prefilter finds candidate start offsets for a pattern.
//
// Thread safety: implementations are immutable after construction and safe for
// concurrent use, except Tracker, which carries per-search statistics.
type Prefilter interface {
	// Find returns the first offset >= start at which a match may begin,
	// or -1 if there is none outside the trailing Window.
	//
	// Offsets before the returned one (and not in the Window) cannot start a
	// match of any kind, including a Partial one.
	Find(haystack []byte, start int) int

	// IsComplete returns true if finding the literal is sufficient for a
	// Complete match of a pattern without an end anchor.
	IsComplete() bool

	// LiteralLen returns the length of the literal when IsComplete is true,
	// 0 otherwise.
	LiteralLen() int

	// Window returns how many trailing offsets of the input may begin a
	// match that Find cannot see, because the input ends inside the literal.
	Window() int

	// HeapBytes returns the approximate number of heap bytes the prefilter
	// holds.
	HeapBytes() int
}

// NextCandidate returns the first offset >= start that may begin a match:
// either a position reported by pf.Find or an offset inside the trailing
// window. It returns -1 when no offset at or after start remains.
func NextCandidate(pf Prefilter, haystack []byte, start int) int {
	n := len(haystack)
	if start < 0 {
		start = 0
	}
	if start >= n {
		return -1
	}
	tail := n - pf.Window()
	if start >= tail {
		return start
	}
	if pos := pf.Find(haystack, start); pos >= 0 && pos < tail {
		return pos
	}
	if tail < n {
		return tail
	}
	return -1
}

// BuilderConfig configures prefilter selection.
type BuilderConfig struct {
	// MinLiteralLen is the shortest literal worth a substring search when the
	// pattern has several prefixes. Shorter sets fall back to the first-byte
	// set. Default: 2.
	MinLiteralLen int

	// MaxAhoCorasickLiterals is the largest number of prefixes searched with
	// an Aho-Corasick automaton. Default: 64.
	MaxAhoCorasickLiterals int
}

// DefaultBuilderConfig returns the default selection configuration.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		MinLiteralLen:          2,
		MaxAhoCorasickLiterals: 64,
	}
}

// Builder constructs prefilters from extracted literals and first bytes.
type Builder struct {
	prefixes *literal.Seq
	first    *nfa.FirstByteSet
	config   BuilderConfig
}

// NewBuilder creates a prefilter builder with the default configuration.
//
// Parameters:
//
//	prefixes - literals every match must begin with (can be nil)
//	first - bytes every match must begin with (can be nil)
//
// The builder minimizes prefixes in place.
func NewBuilder(prefixes *literal.Seq, first *nfa.FirstByteSet) *Builder {
	return NewBuilderWithConfig(prefixes, first, DefaultBuilderConfig())
}

// NewBuilderWithConfig creates a prefilter builder with a custom configuration.
// Zero fields fall back to their defaults.
func NewBuilderWithConfig(prefixes *literal.Seq, first *nfa.FirstByteSet, config BuilderConfig) *Builder {
	def := DefaultBuilderConfig()
	if config.MinLiteralLen <= 0 {
		config.MinLiteralLen = def.MinLiteralLen
	}
	if config.MaxAhoCorasickLiterals <= 0 {
		config.MaxAhoCorasickLiterals = def.MaxAhoCorasickLiterals
	}
	return &Builder{prefixes: prefixes, first: first, config: config}
}

// Build constructs the best prefilter for the given literals.
//
// Returns nil if no effective prefilter can be built.
//
// The selection logic:
//  1. One prefix of one byte → memchr
//  2. One longer prefix → memmem anchored on its rarest byte
//  3. Several prefixes, all at least MinLiteralLen long → Aho-Corasick
//  4. A first-byte set of 1-3 bytes → memchr/memchr2/memchr3
//  5. Any other useful first-byte set → byteset
//  6. Otherwise → nil
//
// Example:
//
//	g, _ := nfa.Compile("(if)|(else)")
//	prefixes := literal.New(literal.DefaultConfig()).ExtractPrefixes(g)
//	pf := prefilter.NewBuilder(prefixes, nfa.ExtractFirstBytes(g)).Build()
//	pos := prefilter.NextCandidate(pf, haystack, 0)
func (b *Builder) Build() Prefilter {
	if pf := b.selectLiteral(); pf != nil {
		return pf
	}
	return selectFirstBytes(b.first)
}

func (b *Builder) selectLiteral() Prefilter {
	seq := b.prefixes
	if seq.IsEmpty() {
		return nil
	}
	seq.Minimize()

	if seq.Len() == 1 {
		lit := seq.Get(0)
		if len(lit.Bytes) == 1 {
			return newMemchrPrefilter(lit.Bytes[0], lit.Complete)
		}
		return newMemmemPrefilter(lit.Bytes, lit.Complete)
	}

	if seq.MinLen() < b.config.MinLiteralLen || seq.Len() > b.config.MaxAhoCorasickLiterals {
		return nil
	}
	return newAhoCorasickPrefilter(seq)
}

func selectFirstBytes(first *nfa.FirstByteSet) Prefilter {
	if first == nil || !first.IsUseful() {
		return nil
	}
	bs := first.Bytes()
	switch len(bs) {
	case 1:
		return newMemchrPrefilter(bs[0], false)
	case 2:
		return &memchr2Prefilter{needle1: bs[0], needle2: bs[1]}
	case 3:
		return &memchr3Prefilter{needle1: bs[0], needle2: bs[1], needle3: bs[2]}
	}
	return &byteSetPrefilter{table: simd.NewByteTable(bs), count: len(bs)}
}

// memchrPrefilter wraps simd.Memchr as a Prefilter.
//
// Example patterns:
//
//	a.*        → search for 'a'
//	[x]\d+     → search for 'x'
type memchrPrefilter struct {
	needle   byte
	complete bool
}

func newMemchrPrefilter(needle byte, complete bool) Prefilter {
	return &memchrPrefilter{needle: needle, complete: complete}
}

// Find implements Prefilter.Find using simd.Memchr.
func (p *memchrPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr(haystack[start:], p.needle)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memchrPrefilter) IsComplete() bool { return p.complete }

func (p *memchrPrefilter) LiteralLen() int {
	if p.complete {
		return 1
	}
	return 0
}

func (p *memchrPrefilter) Window() int    { return 0 }
func (p *memchrPrefilter) HeapBytes() int { return 0 }

// memchr2Prefilter searches for either of two first bytes.
type memchr2Prefilter struct {
	needle1, needle2 byte
}

func (p *memchr2Prefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr2(haystack[start:], p.needle1, p.needle2)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memchr2Prefilter) IsComplete() bool { return false }
func (p *memchr2Prefilter) LiteralLen() int  { return 0 }
func (p *memchr2Prefilter) Window() int      { return 0 }
func (p *memchr2Prefilter) HeapBytes() int   { return 0 }

// memchr3Prefilter searches for any of three first bytes.
type memchr3Prefilter struct {
	needle1, needle2, needle3 byte
}

func (p *memchr3Prefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.Memchr3(haystack[start:], p.needle1, p.needle2, p.needle3)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memchr3Prefilter) IsComplete() bool { return false }
func (p *memchr3Prefilter) LiteralLen() int  { return 0 }
func (p *memchr3Prefilter) Window() int      { return 0 }
func (p *memchr3Prefilter) HeapBytes() int   { return 0 }

// byteSetPrefilter searches for any byte of a first-byte set.
// Used for classes such as [A-Za-z_] where no literal can be extracted.
type byteSetPrefilter struct {
	table *simd.ByteTable
	count int
}

func (p *byteSetPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.IndexAny(haystack[start:], p.table)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *byteSetPrefilter) IsComplete() bool { return false }
func (p *byteSetPrefilter) LiteralLen() int  { return 0 }
func (p *byteSetPrefilter) Window() int      { return 0 }

// HeapBytes returns the size of the lookup table.
func (p *byteSetPrefilter) HeapBytes() int { return len(p.table) }

// memmemPrefilter wraps simd.MemmemRare as a Prefilter.
//
// The rare anchor byte is chosen once at build time.
//
// Example patterns:
//
//	while\b?    → search for "while"
//	0x[0-9a-f]+ → search for "0x"
type memmemPrefilter struct {
	needle   []byte
	rare     byte
	rareIdx  int
	complete bool
}

// newMemmemPrefilter copies needle to prevent aliasing.
func newMemmemPrefilter(needle []byte, complete bool) Prefilter {
	needleCopy := make([]byte, len(needle))
	copy(needleCopy, needle)
	rare, idx := simd.SelectRareByte(needleCopy)
	return &memmemPrefilter{
		needle:   needleCopy,
		rare:     rare,
		rareIdx:  idx,
		complete: complete,
	}
}

// Find implements Prefilter.Find using simd.MemmemRare.
func (p *memmemPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	idx := simd.MemmemRare(haystack[start:], p.needle, p.rare, p.rareIdx)
	if idx == -1 {
		return -1
	}
	return start + idx
}

func (p *memmemPrefilter) IsComplete() bool { return p.complete }

func (p *memmemPrefilter) LiteralLen() int {
	if p.complete {
		return len(p.needle)
	}
	return 0
}

// Window is the number of offsets at which only a proper prefix of the
// needle fits.
func (p *memmemPrefilter) Window() int { return len(p.needle) - 1 }

// HeapBytes returns the size of the needle buffer.
func (p *memmemPrefilter) HeapBytes() int { return len(p.needle) }

// ahoCorasickPrefilter searches for several prefixes at once.
//
// Example patterns:
//
//	(if)|(else)|(while)  → search for "if", "else", "while"
//	0[xb][0-9]+          → search for "0x", "0b"
type ahoCorasickPrefilter struct {
	auto     *ahocorasick.Automaton
	maxLen   int
	bytes    int
	complete bool
}

// newAhoCorasickPrefilter returns nil when the automaton cannot be built.
func newAhoCorasickPrefilter(seq *literal.Seq) Prefilter {
	builder := ahocorasick.NewBuilder()
	complete := true
	total := 0
	for i := 0; i < seq.Len(); i++ {
		lit := seq.Get(i)
		builder.AddPattern(lit.Bytes)
		complete = complete && lit.Complete
		total += len(lit.Bytes)
	}
	auto, err := builder.Build()
	if err != nil {
		return nil
	}
	return &ahoCorasickPrefilter{
		auto:     auto,
		maxLen:   seq.MaxLen(),
		bytes:    total,
		complete: complete,
	}
}

// Find implements Prefilter.Find with the automaton's leftmost match.
func (p *ahoCorasickPrefilter) Find(haystack []byte, start int) int {
	if start < 0 || start >= len(haystack) {
		return -1
	}
	m := p.auto.Find(haystack, start)
	if m == nil {
		return -1
	}
	return m.Start
}

func (p *ahoCorasickPrefilter) IsComplete() bool { return p.complete }

// LiteralLen is 0: the matched literal's length varies.
func (p *ahoCorasickPrefilter) LiteralLen() int { return 0 }

func (p *ahoCorasickPrefilter) Window() int { return p.maxLen - 1 }

// HeapBytes approximates the automaton size by its pattern bytes.
func (p *ahoCorasickPrefilter) HeapBytes() int { return p.bytes }
