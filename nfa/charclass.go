package nfa

import "strings"

// ByteSet is a 256-bit membership set of literal bytes.
type ByteSet [4]uint64

// Add inserts c into the set.
func (s *ByteSet) Add(c byte) {
	s[c>>6] |= 1 << (c & 63)
}

// AddRange inserts every byte in [lo, hi]. Reversed bounds are swapped.
func (s *ByteSet) AddRange(lo, hi byte) {
	if lo > hi {
		lo, hi = hi, lo
	}
	for c := int(lo); c <= int(hi); c++ {
		s.Add(byte(c))
	}
}

// Contains reports whether c is in the set.
func (s *ByteSet) Contains(c byte) bool {
	return s[c>>6]&(1<<(c&63)) != 0
}

// Union adds every member of other to s.
func (s *ByteSet) Union(other ByteSet) {
	for i := range s {
		s[i] |= other[i]
	}
}

// IsEmpty reports whether the set has no members.
func (s *ByteSet) IsEmpty() bool {
	return s[0]|s[1]|s[2]|s[3] == 0
}

// Len returns the number of members.
func (s *ByteSet) Len() int {
	n := 0
	for c := 0; c < 256; c++ {
		if s.Contains(byte(c)) {
			n++
		}
	}
	return n
}

// Bytes returns the members in ascending order.
func (s *ByteSet) Bytes() []byte {
	var out []byte
	for c := 0; c < 256; c++ {
		if s.Contains(byte(c)) {
			out = append(out, byte(c))
		}
	}
	return out
}

// String returns the members as a string, for debugging.
func (s *ByteSet) String() string {
	var b strings.Builder
	b.Write(s.Bytes())
	return b.String()
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isWordChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || isDigit(c) || c == '_'
}

// matchClasses reports whether any enabled class accepts c.
func matchClasses(classes Class, c byte) bool {
	switch {
	case classes&ClassAny != 0:
		return true
	case classes&ClassAnyButNewline != 0 && c != '\n':
		return true
	case classes&ClassDigit != 0 && isDigit(c):
		return true
	case classes&ClassNotDigit != 0 && !isDigit(c):
		return true
	case classes&ClassSpace != 0 && isSpace(c):
		return true
	case classes&ClassNotSpace != 0 && !isSpace(c):
		return true
	case classes&ClassWord != 0 && isWordChar(c):
		return true
	case classes&ClassNotWord != 0 && !isWordChar(c):
		return true
	}
	// ClassNone contributes nothing to the union.
	return false
}

// Accepts reports whether the node's rule accepts c: the union of its literal
// set and enabled classes, inverted when the node is negated.
func (n *Node) Accepts(c byte) bool {
	ok := n.Literals.Contains(c) || matchClasses(n.Classes, c)
	if n.Negated {
		return !ok
	}
	return ok
}

// AcceptSet returns every byte the node's rule accepts.
func (n *Node) AcceptSet() ByteSet {
	var set ByteSet
	for c := 0; c < 256; c++ {
		if n.Accepts(byte(c)) {
			set.Add(byte(c))
		}
	}
	return set
}

// classEscapes maps the class escape letters to their classes.
var classEscapes = map[byte]Class{
	'N': ClassAnyButNewline,
	'e': ClassAny,
	'E': ClassNone,
	'd': ClassDigit,
	'D': ClassNotDigit,
	's': ClassSpace,
	'S': ClassNotSpace,
	'w': ClassWord,
	'W': ClassNotWord,
}

// controlEscapes maps C-style escape letters to the bytes they denote.
var controlEscapes = map[byte]byte{
	'a':  '\a',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
	'v':  '\v',
	'\\': '\\',
}

// escapableMeta lists the metacharacters that may be escaped to stand for themselves.
const escapableMeta = "[](){}|$%?*+.^-"

// applyEscape sets the rule for the escape `\c` on n.
// It returns false if c is not a recognised escape.
func applyEscape(n *Node, c byte) bool {
	if class, ok := classEscapes[c]; ok {
		n.Classes |= class
		return true
	}
	if b, ok := controlEscapes[c]; ok {
		n.Literals.Add(b)
		return true
	}
	if strings.IndexByte(escapableMeta, c) >= 0 {
		n.Literals.Add(c)
		return true
	}
	return false
}
