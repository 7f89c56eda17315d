// Package literal extracts literal byte sequences from compiled lexregex
// graphs for prefilter optimization.
//
// Key concepts:
//   - A Literal is a byte sequence every match starting with it must begin with
//   - A Seq is a set of alternative literals, one per path through the
//     leading words of a pattern (e.g. "if", "else" from (if)|(else))
package literal

import (
	"bytes"
	"sort"
)

// Literal is a prefix that matches must begin with.
// Complete is true when the literal spells a whole path through the pattern,
// so no further pattern follows it.
type Literal struct {
	Bytes    []byte
	Complete bool
}

// NewLiteral creates a new Literal from the given byte sequence and completeness flag.
func NewLiteral(b []byte, complete bool) Literal {
	return Literal{Bytes: b, Complete: complete}
}

// Len returns the length of the literal in bytes.
func (l Literal) Len() int {
	return len(l.Bytes)
}

// String returns a string representation of the literal for debugging purposes.
// Format: "literal{bytes, complete=true/false}"
func (l Literal) String() string {
	complete := "false"
	if l.Complete {
		complete = "true"
	}
	return "literal{" + string(l.Bytes) + ", complete=" + complete + "}"
}

// Seq is a set of alternative literals.
type Seq struct {
	literals []Literal
}

// NewSeq creates a new sequence from the given literals.
func NewSeq(lits ...Literal) *Seq {
	return &Seq{literals: lits}
}

// Len returns the number of literals in the sequence.
func (s *Seq) Len() int {
	if s == nil {
		return 0
	}
	return len(s.literals)
}

// Get returns the literal at index i.
// Panics if i is out of bounds.
func (s *Seq) Get(i int) Literal {
	return s.literals[i]
}

// IsEmpty returns true if the sequence has no literals.
func (s *Seq) IsEmpty() bool {
	return s == nil || len(s.literals) == 0
}

// Literals returns the literals as byte slices, in sequence order.
func (s *Seq) Literals() [][]byte {
	if s.IsEmpty() {
		return nil
	}
	out := make([][]byte, len(s.literals))
	for i, lit := range s.literals {
		out[i] = lit.Bytes
	}
	return out
}

// MinLen returns the length of the shortest literal, or 0 for an empty sequence.
func (s *Seq) MinLen() int {
	if s.IsEmpty() {
		return 0
	}
	m := len(s.literals[0].Bytes)
	for _, lit := range s.literals[1:] {
		m = min(m, len(lit.Bytes))
	}
	return m
}

// MaxLen returns the length of the longest literal, or 0 for an empty sequence.
func (s *Seq) MaxLen() int {
	if s.IsEmpty() {
		return 0
	}
	m := 0
	for _, lit := range s.literals {
		m = max(m, len(lit.Bytes))
	}
	return m
}

// Minimize removes literals made redundant by a shorter literal that is
// their prefix, and exact duplicates. Any input starting with a removed
// literal also starts with the kept one, so candidate search stays exact.
func (s *Seq) Minimize() {
	if s.IsEmpty() {
		return
	}

	sort.SliceStable(s.literals, func(i, j int) bool {
		return len(s.literals[i].Bytes) < len(s.literals[j].Bytes)
	})

	kept := s.literals[:0]
	for _, lit := range s.literals {
		redundant := false
		for _, k := range kept {
			if bytes.HasPrefix(lit.Bytes, k.Bytes) {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, lit)
		}
	}
	s.literals = kept
}

// LongestCommonPrefix returns the longest prefix shared by all literals.
// The result is a copy.
func (s *Seq) LongestCommonPrefix() []byte {
	if s.IsEmpty() {
		return []byte{}
	}
	prefix := s.literals[0].Bytes
	for _, lit := range s.literals[1:] {
		n := 0
		for n < len(prefix) && n < len(lit.Bytes) && prefix[n] == lit.Bytes[n] {
			n++
		}
		prefix = prefix[:n]
		if n == 0 {
			break
		}
	}
	return bytes.Clone(prefix)
}
