// Package lexregex provides the pattern engine of a lexer toolkit.
//
// lexregex compiles patterns written in its own small ASCII dialect into a
// node graph and matches input against that graph with a greedy backtracker.
// Unlike a search that only answers yes or no, a match reports one of four
// outcomes, so a lexer can read a token one byte at a time:
//   - Complete: the pattern matched
//   - Partial: the input ran out while a match was in progress
//   - NoMatch: no match can start anywhere in the input
//   - Failure: the pattern is not compiled, or the search was too complex
//
// Dialect summary:
//
//	abc        literal bytes
//	.  \N      any byte but newline
//	\e \E      any byte / no byte
//	\d \s \w   digit, space or tab, word byte (\D \S \W negate)
//	[a-z] [^x] classes
//	(abc)      word: the unit of grouping and repetition
//	(a)|(b)    alternation between adjacent words
//	* + ? {m} {m,n} {m,}
//	$ first    begin anchor
//	% last     end anchor
//
// Basic usage:
//
//	re, err := lexregex.Compile(`$[0-9]+\.[0-9]+%`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	re.MatchString("3.")   // Partial
//	re.MatchString("3.14") // Complete
//
// A compiled Regex is safe for concurrent Match calls. Compile (recompile)
// and Destroy must not run concurrently with any other method.
package lexregex

import (
	"github.com/coregx/lexregex/meta"
	"github.com/coregx/lexregex/nfa"
)

// MatchResult is the outcome of a match.
type MatchResult = nfa.MatchResult

// Match outcomes, ordered NoMatch < Partial < Complete.
const (
	Failure  = nfa.Failure
	NoMatch  = nfa.NoMatch
	Partial  = nfa.Partial
	Complete = nfa.Complete
)

// CompileError describes a malformed pattern.
type CompileError = nfa.CompileError

// Regex represents a compiled pattern.
//
// The zero value and the result of New are uncompiled: Match reports Failure
// until Compile succeeds.
//
// Example:
//
//	re := lexregex.MustCompile(`(if)|(else)`)
//	re.MatchString("} else {") // Complete
type Regex struct {
	engine     *meta.Engine
	pattern    string
	config     meta.Config
	configured bool
	lastErr    error
}

// New returns an uncompiled Regex that compiles with config.
func New(config meta.Config) *Regex {
	return &Regex{config: config, configured: true}
}

// Compile compiles a pattern with the default configuration.
//
// Returns a *CompileError if the pattern is malformed.
//
// Example:
//
//	re, err := lexregex.Compile(`$\w+%`)
//	if err != nil {
//	    log.Fatal(err)
//	}
func Compile(pattern string) (*Regex, error) {
	return CompileWithConfig(pattern, meta.DefaultConfig())
}

// MustCompile is like Compile but panics if the pattern cannot be compiled.
//
// Example:
//
//	var number = lexregex.MustCompile(`$[0-9]+%`)
func MustCompile(pattern string) *Regex {
	re, err := Compile(pattern)
	if err != nil {
		panic("lexregex: Compile(`" + pattern + "`): " + err.Error())
	}
	return re
}

// CompileWithConfig compiles a pattern with a custom configuration.
//
// Example:
//
//	config := lexregex.DefaultConfig()
//	config.MaxVisited = 1 << 16
//	re, err := lexregex.CompileWithConfig(`((a)|(b))*c`, config)
func CompileWithConfig(pattern string, config meta.Config) (*Regex, error) {
	re := New(config)
	if err := re.Compile(pattern); err != nil {
		return nil, err
	}
	return re, nil
}

// DefaultConfig returns the default configuration for compilation.
func DefaultConfig() meta.Config {
	return meta.DefaultConfig()
}

// Compile replaces the compiled pattern with pattern.
//
// The previous graph is released first. On error the Regex is left
// uncompiled and LastError reports the error.
func (r *Regex) Compile(pattern string) error {
	r.Destroy()
	r.pattern = pattern
	engine, err := meta.CompileWithConfig(pattern, r.configOrDefault())
	if err != nil {
		r.lastErr = err
		return err
	}
	r.engine = engine
	r.lastErr = nil
	return nil
}

// configOrDefault makes the zero Regex usable.
func (r *Regex) configOrDefault() meta.Config {
	if !r.configured {
		r.config = meta.DefaultConfig()
		r.configured = true
	}
	return r.config
}

// Match reports the outcome of matching b.
//
// Example:
//
//	re := lexregex.MustCompile(`$abc%`)
//	re.Match([]byte("ab"))   // Partial
//	re.Match([]byte("abcd")) // NoMatch
func (r *Regex) Match(b []byte) MatchResult {
	if r.engine == nil {
		return Failure
	}
	return r.engine.Match(b)
}

// MatchString reports the outcome of matching s.
func (r *Regex) MatchString(s string) MatchResult {
	return r.Match([]byte(s))
}

// LongestMatch returns the length of the longest prefix of b that the
// pattern matches completely, or -1 if there is none or the match failed.
//
// Example:
//
//	re := lexregex.MustCompile(`$[0-9]+%`)
//	re.LongestMatch([]byte("123abc")) // 3
func (r *Regex) LongestMatch(b []byte) int {
	if r.engine == nil {
		return -1
	}
	n, err := r.engine.LongestMatch(b)
	if err != nil {
		return -1
	}
	return n
}

// LongestMatchString is LongestMatch for a string input.
func (r *Regex) LongestMatchString(s string) int {
	return r.LongestMatch([]byte(s))
}

// MatchError returns the error behind the most recent Failure.
func (r *Regex) MatchError() error {
	if r.engine == nil {
		return nfa.ErrNotCompiled
	}
	return r.engine.LastMatchError()
}

// IsCompiled reports whether the Regex holds a compiled pattern.
func (r *Regex) IsCompiled() bool {
	return r.engine != nil
}

// HasBeginAnchor reports whether the pattern starts with the $ anchor.
func (r *Regex) HasBeginAnchor() bool {
	return r.engine != nil && r.engine.Graph().AnchoredStart()
}

// HasEndAnchor reports whether the pattern ends with the % anchor.
func (r *Regex) HasEndAnchor() bool {
	return r.engine != nil && r.engine.Graph().AnchoredEnd()
}

// IsEmpty reports whether the compiled pattern is the empty pattern.
func (r *Regex) IsEmpty() bool {
	return r.engine != nil && r.engine.Graph().IsEmpty()
}

// LastError returns the error of the last Compile, or nil if it succeeded.
func (r *Regex) LastError() error {
	return r.lastErr
}

// Root returns the root node of the compiled graph, for diagnostics.
// Returns nil when the Regex is not compiled.
func (r *Regex) Root() *nfa.Node {
	if r.engine == nil {
		return nil
	}
	g := r.engine.Graph()
	return g.Node(g.Root())
}

// NodeCount returns the number of nodes in the compiled graph.
func (r *Regex) NodeCount() int {
	if r.engine == nil {
		return 0
	}
	return r.engine.Graph().Len()
}

// Engine returns the underlying engine, or nil when not compiled.
// The engine is tied to the current graph: after Destroy or a recompile it
// reports Failure with nfa.ErrNotCompiled.
func (r *Regex) Engine() *meta.Engine {
	return r.engine
}

// Destroy releases the compiled graph and returns the number of nodes
// released. Each node is released exactly once. The Regex can be compiled
// again afterwards; destroying an uncompiled Regex returns 0.
func (r *Regex) Destroy() int {
	if r.engine == nil {
		return 0
	}
	n := r.engine.Graph().Release()
	r.engine = nil
	return n
}

// String returns the source text of the last compiled pattern.
func (r *Regex) String() string {
	return r.pattern
}

// QuoteMeta returns a pattern that matches the literal text s: every
// metacharacter of the dialect is escaped with a backslash.
//
// Example:
//
//	lexregex.QuoteMeta("a+b") // `a\+b`
func QuoteMeta(s string) string {
	const special = `\[](){}|$%?*+.^-`

	n := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, len(s)+n)
	j := 0
	for i := 0; i < len(s); i++ {
		if isSpecial(s[i], special) {
			buf[j] = '\\'
			j++
		}
		buf[j] = s[i]
		j++
	}
	return string(buf)
}

func isSpecial(c byte, special string) bool {
	for i := 0; i < len(special); i++ {
		if c == special[i] {
			return true
		}
	}
	return false
}
