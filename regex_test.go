package lexregex

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/coregx/lexregex/meta"
	"github.com/coregx/lexregex/nfa"
)

func TestEmptyPattern(t *testing.T) {
	re := MustCompile("")
	if !re.IsEmpty() {
		t.Error("IsEmpty() = false, want true")
	}
	if got := re.MatchString(""); got != Complete {
		t.Errorf(`Match("") = %v, want Complete`, got)
	}
	if got := re.MatchString("x"); got != NoMatch {
		t.Errorf(`Match("x") = %v, want NoMatch`, got)
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		want    MatchResult
	}{
		{"anchored literal", "$abc%", "abc", Complete},
		{"anchored literal prefix", "$abc%", "ab", Partial},
		{"anchored literal overrun", "$abc%", "abcd", NoMatch},

		{"digits", `$\d+%`, "123", Complete},
		{"digits empty", `$\d+%`, "", NoMatch},
		{"digits trailing", `$\d+%`, "12a", NoMatch},

		{"class a", "[a-c]", "a", Complete},
		{"class b", "[a-c]", "b", Complete},
		{"class c", "[a-c]", "c", Complete},
		{"class d", "[a-c]", "d", NoMatch},
		{"negated a", "[^a-c]", "a", NoMatch},
		{"negated d", "[^a-c]", "d", Complete},

		{"alternation cat", "(cat)|(dog)", "cat", Complete},
		{"alternation dog", "(cat)|(dog)", "dog", Complete},
		{"alternation cow", "(cat)|(dog)", "cow", NoMatch},

		{"bounds xx", "$x{2,3}%", "xx", Complete},
		{"bounds xxx", "$x{2,3}%", "xxx", Complete},
		{"bounds x", "$x{2,3}%", "x", Partial},
		{"bounds xxxx", "$x{2,3}%", "xxxx", NoMatch},

		{"unanchored search", "needle", "hay needle hay", Complete},
		{"unanchored partial", "needle", "hay nee", Partial},
		{"end anchored", "ab%", "xxab", Complete},
		{"end anchored trailing", "ab%", "abxx", NoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if got := re.MatchString(tt.input); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.pattern, tt.input, got, tt.want)
			}
			if got := re.Match([]byte(tt.input)); got != tt.want {
				t.Errorf("Match([]byte) = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		pattern string
		want    error
	}{
		{"(abc", nfa.ErrUnterminatedWord},
		{"a**", nfa.ErrNothingToRepeat},
		{"|abc)", nfa.ErrInvalidAlternation},
		{"[abc", nfa.ErrUnterminatedClass},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re, err := Compile(tt.pattern)
			if err == nil {
				t.Fatalf("Compile(%q) succeeded", tt.pattern)
			}
			if re != nil {
				t.Error("Compile returned a Regex alongside an error")
			}
			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %T, want *CompileError", err)
			}
			if ce.Offset < 1 || ce.Offset > len(tt.pattern) {
				t.Errorf("Offset = %d, want within [1, %d]", ce.Offset, len(tt.pattern))
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("MustCompile did not panic")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "lexregex: Compile(`a**`)") {
			t.Errorf("panic = %v", r)
		}
	}()
	MustCompile("a**")
}

func TestUncompiled(t *testing.T) {
	var re Regex
	if re.IsCompiled() {
		t.Error("zero Regex reports compiled")
	}
	if got := re.MatchString("abc"); got != Failure {
		t.Errorf("Match = %v, want Failure", got)
	}
	if !errors.Is(re.MatchError(), nfa.ErrNotCompiled) {
		t.Errorf("MatchError() = %v, want ErrNotCompiled", re.MatchError())
	}
	if re.LongestMatchString("abc") != -1 {
		t.Error("LongestMatch on uncompiled Regex should be -1")
	}
	if re.Root() != nil || re.NodeCount() != 0 || re.Destroy() != 0 {
		t.Error("uncompiled Regex should expose no graph")
	}
	if re.HasBeginAnchor() || re.HasEndAnchor() || re.IsEmpty() {
		t.Error("uncompiled Regex should report no flags")
	}

	// The zero value compiles with the default configuration.
	if err := re.Compile("$ab%"); err != nil {
		t.Fatal(err)
	}
	if got := re.MatchString("ab"); got != Complete {
		t.Errorf("Match after Compile = %v, want Complete", got)
	}
}

func TestRecompile(t *testing.T) {
	re := MustCompile("$abc%")
	if re.MatchString("abc") != Complete {
		t.Fatal("initial pattern should match")
	}

	if err := re.Compile("$xyz%"); err != nil {
		t.Fatal(err)
	}
	if got := re.MatchString("abc"); got != NoMatch {
		t.Errorf("old input after recompile = %v, want NoMatch", got)
	}
	if got := re.MatchString("xyz"); got != Complete {
		t.Errorf("new input after recompile = %v, want Complete", got)
	}
	if re.String() != "$xyz%" {
		t.Errorf("String() = %q", re.String())
	}

	// A failed recompile leaves the Regex uncompiled with LastError set.
	err := re.Compile("(xyz")
	if err == nil {
		t.Fatal("expected compile error")
	}
	if re.IsCompiled() {
		t.Error("Regex still compiled after failed recompile")
	}
	if !errors.Is(re.LastError(), nfa.ErrUnterminatedWord) {
		t.Errorf("LastError() = %v", re.LastError())
	}
	if got := re.MatchString("xyz"); got != Failure {
		t.Errorf("Match after failed recompile = %v, want Failure", got)
	}

	if err := re.Compile("q"); err != nil {
		t.Fatal(err)
	}
	if re.LastError() != nil {
		t.Errorf("LastError() = %v after success", re.LastError())
	}
}

func TestDestroy(t *testing.T) {
	patterns := []string{
		"a", "$abc%", "(cat)|(dog)", "((a)|(b))*c", "(a)|(b)|(c)|(d)",
		`$[0-9]+\.[0-9]+%`, "((a)b)", "x{2,3}(yz)?",
	}
	for _, p := range patterns {
		t.Run(p, func(t *testing.T) {
			re := MustCompile(p)
			total := re.NodeCount()
			if total == 0 {
				t.Fatal("NodeCount() = 0")
			}
			if got := re.Destroy(); got != total {
				t.Errorf("Destroy() = %d, want %d", got, total)
			}
			if re.IsCompiled() {
				t.Error("IsCompiled() after Destroy")
			}
			if got := re.Destroy(); got != 0 {
				t.Errorf("second Destroy() = %d, want 0", got)
			}
			if got := re.MatchString("a"); got != Failure {
				t.Errorf("Match after Destroy = %v, want Failure", got)
			}
		})
	}
}

func TestDestroy_DetachesEngine(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		input   string
		release func(t *testing.T, re *Regex)
	}{
		// "abc" takes the literal-only prefilter path, which never reaches the backtracker.
		{"destroy literal", "abc", "abc", func(_ *testing.T, re *Regex) { re.Destroy() }},
		{"destroy backtracker", "(ab)*c", "abc", func(_ *testing.T, re *Regex) { re.Destroy() }},
		{"destroy anchored", "$abc%", "abc", func(_ *testing.T, re *Regex) { re.Destroy() }},
		{"recompile", "abc", "abc", func(t *testing.T, re *Regex) {
			if err := re.Compile("xyz"); err != nil {
				t.Fatal(err)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			engine := re.Engine()
			if got := engine.MatchString(tt.input); got != Complete {
				t.Fatalf("Match before release = %v, want Complete", got)
			}
			tt.release(t, re)

			if got := engine.MatchString(tt.input); got != Failure {
				t.Errorf("Match on stale engine = %v, want Failure", got)
			}
			if err := engine.LastMatchError(); !errors.Is(err, nfa.ErrNotCompiled) {
				t.Errorf("LastMatchError() = %v, want ErrNotCompiled", err)
			}
			if n, err := engine.LongestMatch([]byte(tt.input)); n != -1 || !errors.Is(err, nfa.ErrNotCompiled) {
				t.Errorf("LongestMatch on stale engine = %d, %v", n, err)
			}
		})
	}
}

func TestIntrospection(t *testing.T) {
	tests := []struct {
		pattern    string
		begin, end bool
	}{
		{"abc", false, false},
		{"$abc", true, false},
		{"abc%", false, true},
		{"$abc%", true, true},
		{`abc\%`, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if re.HasBeginAnchor() != tt.begin {
				t.Errorf("HasBeginAnchor() = %v, want %v", re.HasBeginAnchor(), tt.begin)
			}
			if re.HasEndAnchor() != tt.end {
				t.Errorf("HasEndAnchor() = %v, want %v", re.HasEndAnchor(), tt.end)
			}
			root := re.Root()
			if root == nil || !root.Start {
				t.Errorf("Root() = %v, want the start node", root)
			}
			if re.Engine() == nil {
				t.Error("Engine() = nil")
			}
		})
	}
}

func TestLongestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    int
	}{
		{"$[0-9]+%", "123abc", 3},
		{`$[a-z_]\w*%`, "foo_1 = 2", 5},
		{`$"[^"]*"%`, `"str" + x`, 5},
		{`$"[^"]*"%`, `"unterminated`, -1},
		{"$(=)|(==)%", "== x", 2},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			re := MustCompile(tt.pattern)
			if got := re.LongestMatchString(tt.input); got != tt.want {
				t.Errorf("LongestMatch(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMatchErrorTooComplex(t *testing.T) {
	config := DefaultConfig()
	config.MaxVisited = 10
	re, err := CompileWithConfig("((a)|(b))*c", config)
	if err != nil {
		t.Fatal(err)
	}
	if got := re.MatchString(strings.Repeat("ab", 100)); got != Failure {
		t.Fatalf("Match = %v, want Failure", got)
	}
	if !errors.Is(re.MatchError(), nfa.ErrTooComplex) {
		t.Errorf("MatchError() = %v, want ErrTooComplex", re.MatchError())
	}
}

func TestCompileWithConfigInvalid(t *testing.T) {
	config := DefaultConfig()
	config.MaxRecursionDepth = 1
	_, err := CompileWithConfig("a", config)
	var cfgErr *meta.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("err = %v, want *meta.ConfigError", err)
	}
}

func TestQuoteMeta(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"a+b", `a\+b`},
		{"$1.00%", `\$1\.00\%`},
		{`[x](y){z}|^-?*\`, `\[x\]\(y\)\{z\}\|\^\-\?\*\\`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := QuoteMeta(tt.in)
			if got != tt.want {
				t.Errorf("QuoteMeta(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if tt.in == "" {
				return
			}
			re := MustCompile("$" + got + "%")
			if m := re.MatchString(tt.in); m != Complete {
				t.Errorf("quoted pattern on its own text = %v, want Complete", m)
			}
		})
	}
}

func TestConcurrentMatch(t *testing.T) {
	re := MustCompile(`$[A-Za-z_]\w*%`)
	inputs := map[string]MatchResult{
		"ident":   Complete,
		"_x1":     Complete,
		"1abc":    NoMatch,
		"abc def": NoMatch,
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				for in, want := range inputs {
					if got := re.MatchString(in); got != want {
						t.Errorf("Match(%q) = %v, want %v", in, got, want)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

func BenchmarkMatch_Keyword(b *testing.B) {
	re := MustCompile("(func)|(return)|(struct)|(interface)")
	text := []byte(strings.Repeat("x := compute(y)\n", 100) + "return x")
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.Match(text)
	}
}

func BenchmarkLongestMatch_Number(b *testing.B) {
	re := MustCompile(`$[0-9]+(\.[0-9]+)?%`)
	text := []byte("3.14159265358979 rest")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		re.LongestMatch(text)
	}
}
