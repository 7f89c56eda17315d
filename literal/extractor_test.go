package literal

import (
	"reflect"
	"testing"

	"github.com/coregx/lexregex/nfa"
)

func extract(t *testing.T, config ExtractorConfig, pattern string) *Seq {
	t.Helper()
	g, err := nfa.Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return New(config).ExtractPrefixes(g)
}

func seqStrings(s *Seq) []string {
	var out []string
	for _, b := range s.Literals() {
		out = append(out, string(b))
	}
	return out
}

func TestExtractPrefixes(t *testing.T) {
	tests := []struct {
		pattern  string
		want     []string
		complete bool
	}{
		{"hello", []string{"hello"}, true},
		{"$key%", []string{"key"}, true},
		{"abc[a-z]+", []string{"abc"}, false},
		{"v[0-2]", []string{"v0", "v1", "v2"}, true},
		{"[ab]x", []string{"ax", "bx"}, true},
		{"(if)|(else)|(while)", []string{"if", "else", "while"}, true},
		{"(cat)|(dog)s", []string{"cats", "dogs"}, true},
		{"(ab)+c", []string{"ab"}, false},
		{"x{3}y", []string{"xxxy"}, true},
		{"x{2,3}", []string{"xx"}, false},
		{"(a)|()b", []string{"ab", "b"}, true},
		{"((a)|(b))c", []string{"ac", "bc"}, true},
		{"a*b", nil, false},
		{`\d+`, nil, false},
		{"[^a]", nil, false},
		{"(a)?b", nil, false},
		{"()", nil, false},
		{"", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			seq := extract(t, DefaultConfig(), tt.pattern)
			if got := seqStrings(seq); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ExtractPrefixes = %q, want %q", got, tt.want)
			}
			for i := 0; i < seq.Len(); i++ {
				if seq.Get(i).Complete != tt.complete {
					t.Errorf("literal %v: Complete = %v, want %v", seq.Get(i), seq.Get(i).Complete, tt.complete)
				}
			}
		})
	}
}

func TestExtractPrefixes_Limits(t *testing.T) {
	t.Run("class too large", func(t *testing.T) {
		seq := extract(t, DefaultConfig(), "[a-z]x")
		if !seq.IsEmpty() {
			t.Errorf("got %q, want empty", seqStrings(seq))
		}
	})

	t.Run("too many literals", func(t *testing.T) {
		config := DefaultConfig()
		config.MaxLiterals = 4
		seq := extract(t, config, "[ab][cd][ef]")
		if got := seqStrings(seq); len(got) != 4 || got[0] != "ac" {
			t.Errorf("got %q, want the four two-byte prefixes", got)
		}
	})

	t.Run("literal too long", func(t *testing.T) {
		config := DefaultConfig()
		config.MaxLiteralLen = 3
		seq := extract(t, config, "abcdef")
		if got := seqStrings(seq); !reflect.DeepEqual(got, []string{"abc"}) {
			t.Errorf("got %q, want [abc]", got)
		}
		if seq.Get(0).Complete {
			t.Error("truncated literal must not be complete")
		}
	})
}

func TestExtractPrefixes_NilGraph(t *testing.T) {
	if seq := New(DefaultConfig()).ExtractPrefixes(nil); !seq.IsEmpty() {
		t.Error("nil graph should yield an empty sequence")
	}
}
