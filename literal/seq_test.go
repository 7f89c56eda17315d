package literal

import (
	"reflect"
	"testing"
)

func lits(ss ...string) *Seq {
	out := make([]Literal, len(ss))
	for i, s := range ss {
		out[i] = NewLiteral([]byte(s), true)
	}
	return NewSeq(out...)
}

func TestSeq_Minimize(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"foo", "foobar"}, []string{"foo"}},
		{[]string{"foobar", "foo"}, []string{"foo"}},
		{[]string{"hello", "world"}, []string{"hello", "world"}},
		{[]string{"ab", "ab", "abc", "b"}, []string{"b", "ab"}},
		{nil, nil},
	}
	for _, tt := range tests {
		s := lits(tt.in...)
		s.Minimize()
		if got := seqStrings(s); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Minimize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSeq_LongestCommonPrefix(t *testing.T) {
	tests := []struct {
		in   []string
		want string
	}{
		{[]string{"hello", "help", "hero"}, "he"},
		{[]string{"abc", "def"}, ""},
		{[]string{"same"}, "same"},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := string(lits(tt.in...).LongestCommonPrefix()); got != tt.want {
			t.Errorf("LongestCommonPrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSeq_Lengths(t *testing.T) {
	s := lits("if", "else", "while")
	if s.MinLen() != 2 || s.MaxLen() != 5 {
		t.Errorf("MinLen, MaxLen = %d, %d; want 2, 5", s.MinLen(), s.MaxLen())
	}
	var empty *Seq
	if empty.Len() != 0 || !empty.IsEmpty() || empty.MinLen() != 0 {
		t.Error("nil Seq should behave as empty")
	}
}

func TestLiteral_String(t *testing.T) {
	if got := NewLiteral([]byte("test"), true).String(); got != "literal{test, complete=true}" {
		t.Errorf("String() = %q", got)
	}
	if got := NewLiteral([]byte("x"), false).String(); got != "literal{x, complete=false}" {
		t.Errorf("String() = %q", got)
	}
}
