package nfa

import (
	"errors"
	"fmt"
)

// Compile errors. Every *CompileError wraps exactly one of these.
var (
	// ErrUnmatchedParen indicates a ')' with no open word
	ErrUnmatchedParen = errors.New("unmatched ')'")

	// ErrUnterminatedWord indicates a '(' that is never closed
	ErrUnterminatedWord = errors.New("missing closing ')'")

	// ErrUnterminatedClass indicates a '[' that is never closed, or a stray ']'
	ErrUnterminatedClass = errors.New("invalid character class")

	// ErrNothingToRepeat indicates a quantifier with no preceding unit
	ErrNothingToRepeat = errors.New("missing argument to repetition operator")

	// ErrInvalidAlternation indicates a '|' that does not sit between two words
	ErrInvalidAlternation = errors.New("invalid use of '|' operator")

	// ErrInvalidBounds indicates a malformed {m}, {m,n} or {m,} suffix
	ErrInvalidBounds = errors.New("invalid repeat count")

	// ErrInvalidEscape indicates an unknown escape sequence
	ErrInvalidEscape = errors.New("invalid escape sequence")

	// ErrInvalidRange indicates a malformed a-z range inside a class
	ErrInvalidRange = errors.New("invalid character class range")

	// ErrNestingTooDeep indicates words nested beyond CompilerConfig.MaxDepth
	ErrNestingTooDeep = errors.New("expression nests too deeply")
)

// Match errors.
var (
	// ErrNotCompiled indicates matching against a graph that was never compiled
	ErrNotCompiled = errors.New("pattern is not compiled")

	// ErrTooComplex indicates the search exceeded its visited-state budget
	ErrTooComplex = errors.New("pattern too complex for input")
)

// CompileError describes malformed pattern syntax.
//
// Offset is the 1-based position of the offending character in Pattern.
type CompileError struct {
	Pattern string
	Offset  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *CompileError) Error() string {
	return fmt.Sprintf("error parsing pattern %q at char %d: %s", e.Pattern, e.Offset, e.Message)
}

// Unwrap returns the underlying sentinel error
func (e *CompileError) Unwrap() error {
	return e.Err
}

// BuildError represents an error during graph construction via the Builder API
type BuildError struct {
	Message string
	NodeID  NodeID
}

// Error implements the error interface
func (e *BuildError) Error() string {
	if e.NodeID != InvalidNode {
		return fmt.Sprintf("graph build error at node %d: %s", e.NodeID, e.Message)
	}
	return fmt.Sprintf("graph build error: %s", e.Message)
}
