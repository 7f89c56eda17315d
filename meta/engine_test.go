package meta

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/coregx/lexregex/nfa"
)

func mustCompileEngine(t *testing.T, pattern string) *Engine {
	t.Helper()
	e, err := Compile(pattern)
	if err != nil {
		t.Fatalf("Compile(%q): %v", pattern, err)
	}
	return e
}

func TestEngine_Strategy(t *testing.T) {
	tests := []struct {
		pattern string
		want    Strategy
	}{
		{"", UseEmpty},
		{"$abc", UseAnchored},
		{"$abc%", UseAnchored},
		{"abc", UsePrefilter},
		{"(if)|(else)", UsePrefilter},
		{`\d+`, UsePrefilter},
		{"a*", UseBacktracker},
		{"(ab)*", UseBacktracker},
		{".*x", UsePrefilter},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := mustCompileEngine(t, tt.pattern).Strategy(); got != tt.want {
				t.Errorf("Strategy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEngine_PrefilterDisabled(t *testing.T) {
	config := DefaultConfig()
	config.EnablePrefilter = false
	e, err := CompileWithConfig("abc", config)
	if err != nil {
		t.Fatal(err)
	}
	if e.Strategy() != UseBacktracker {
		t.Errorf("Strategy() = %v, want UseBacktracker", e.Strategy())
	}
	if e.Prefilter() != nil || e.Prefixes() != nil {
		t.Error("no prefilter analysis should run when disabled")
	}
}

func TestStrategy_String(t *testing.T) {
	tests := map[Strategy]string{
		UseBacktracker: "UseBacktracker",
		UseEmpty:       "UseEmpty",
		UseAnchored:    "UseAnchored",
		UsePrefilter:   "UsePrefilter",
		Strategy(42):   "Unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("String() = %q, want %q", got, want)
		}
	}
}

func TestEngine_Match(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    nfa.MatchResult
	}{
		{"", "", nfa.Complete},
		{"", "a", nfa.NoMatch},
		{"$abc%", "abc", nfa.Complete},
		{"$abc%", "ab", nfa.Partial},
		{"$abc%", "xbc", nfa.NoMatch},
		{"abc", "xxabcxx", nfa.Complete},
		{"abc", "xxab", nfa.Partial},
		{"abc", "xxxx", nfa.NoMatch},
		{"abc%", "abcabd", nfa.NoMatch},
		{"abc%", "abdabc", nfa.Complete},
		{"(if)|(else)|(while)", "x = 1; wh", nfa.Partial},
		{"(if)|(else)|(while)", "x = 1; while", nfa.Complete},
		{`\d+\.\d+`, "v 3.", nfa.Partial},
		{`\d+\.\d+`, "v 3.1", nfa.Complete},
		{"a*", "zzz", nfa.Complete},
		{"", "", nfa.Complete},
		{"abc", "", nfa.NoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			e := mustCompileEngine(t, tt.pattern)
			if got := e.MatchString(tt.input); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v (strategy %v)", tt.pattern, tt.input, got, tt.want, e.Strategy())
			}
		})
	}
}

// allInputs returns every string over alphabet of length <= n.
func allInputs(alphabet string, n int) []string {
	out := []string{""}
	level := []string{""}
	for i := 0; i < n; i++ {
		var next []string
		for _, s := range level {
			for j := 0; j < len(alphabet); j++ {
				next = append(next, s+alphabet[j:j+1])
			}
		}
		out = append(out, next...)
		level = next
	}
	return out
}

func TestEngine_PrefilterParity(t *testing.T) {
	patterns := []string{
		"a", "ab", "abc", "ab%", "(ab)|(ba)", "(ab)|(c)", "[ab]c", "a[bc]+",
		"(a)*b", "b(a)?c", "x{2}", "(abc)|(abx)|(bcx)", `\w\W`, "a.c", "ca{2,3}%",
	}
	inputs := allInputs("abcx", 4)

	noPrefilter := DefaultConfig()
	noPrefilter.EnablePrefilter = false

	for _, p := range patterns {
		withPF := mustCompileEngine(t, p)
		plain, err := CompileWithConfig(p, noPrefilter)
		if err != nil {
			t.Fatal(err)
		}
		for _, in := range inputs {
			got := withPF.MatchString(in)
			want := plain.MatchString(in)
			if got != want {
				t.Errorf("%q on %q: prefilter (%v) = %v, plain = %v", p, in, withPF.Strategy(), got, want)
			}
		}
	}
}

func TestEngine_PrefilterAbandoned(t *testing.T) {
	// The only prefix is "a", which occurs at every offset.
	e := mustCompileEngine(t, `a\d{3}`)
	if e.Strategy() != UsePrefilter {
		t.Fatalf("Strategy() = %v, want UsePrefilter", e.Strategy())
	}
	text := strings.Repeat("a", 300)
	if got := e.MatchString(text); got != nfa.Partial {
		t.Errorf("Match = %v, want Partial", got)
	}
	s := e.Stats()
	if s.PrefilterAbandoned != 1 {
		t.Errorf("PrefilterAbandoned = %d, want 1", s.PrefilterAbandoned)
	}
	// 128 candidates miss before the prefilter retires; every offset after
	// that is tried directly.
	if s.PrefilterMisses != 128 {
		t.Errorf("PrefilterMisses = %d, want 128", s.PrefilterMisses)
	}
	if s.BacktrackerRuns != uint64(len(text)) {
		t.Errorf("BacktrackerRuns = %d, want %d", s.BacktrackerRuns, len(text))
	}
	if got := e.MatchString(text + "123"); got != nfa.Complete {
		t.Errorf("Match = %v, want Complete", got)
	}
}

func TestEngine_Stats(t *testing.T) {
	e := mustCompileEngine(t, "hello")
	if got := e.MatchString("say hello"); got != nfa.Complete {
		t.Fatalf("Match = %v, want Complete", got)
	}
	s := e.Stats()
	if s.Searches != 1 {
		t.Errorf("Searches = %d, want 1", s.Searches)
	}
	if s.PrefilterHits != 1 {
		t.Errorf("PrefilterHits = %d, want 1", s.PrefilterHits)
	}
	if s.BacktrackerRuns != 0 {
		t.Errorf("BacktrackerRuns = %d, want 0", s.BacktrackerRuns)
	}

	e.ResetStats()
	if s := e.Stats(); s != (Stats{}) {
		t.Errorf("Stats after reset = %+v", s)
	}

	a := mustCompileEngine(t, "$abc")
	a.MatchString("xbc")
	if s := a.Stats(); s.FirstByteRejects != 1 || s.BacktrackerRuns != 0 {
		t.Errorf("anchored stats = %+v", s)
	}
}

func TestEngine_TooComplex(t *testing.T) {
	config := DefaultConfig()
	config.MaxVisited = 10
	e, err := CompileWithConfig("((a)|(b))*c", config)
	if err != nil {
		t.Fatal(err)
	}
	text := []byte(strings.Repeat("ab", 100))

	if got := e.Match(text); got != nfa.Failure {
		t.Errorf("Match = %v, want Failure", got)
	}
	if !errors.Is(e.LastMatchError(), nfa.ErrTooComplex) {
		t.Errorf("LastMatchError() = %v, want ErrTooComplex", e.LastMatchError())
	}
	if _, err := e.Search(text); !errors.Is(err, nfa.ErrTooComplex) {
		t.Errorf("Search err = %v, want ErrTooComplex", err)
	}
	if _, err := e.LongestMatch(text); !errors.Is(err, nfa.ErrTooComplex) {
		t.Errorf("LongestMatch err = %v, want ErrTooComplex", err)
	}
	if e.Stats().Failures == 0 {
		t.Error("Failures should be counted")
	}
}

func TestEngine_LongestMatch(t *testing.T) {
	tests := []struct {
		pattern string
		input   string
		want    int
	}{
		{`$[0-9]+\.[0-9]+%`, "3.14x", 4},
		{`$[0-9]+\.[0-9]+%`, "3.", -1},
		{"$abc%", "abx", -1},
		{"$abc%", "abcabc", 3},
		{"$a+%", "aaa", 3},
		{"$(if)|(ifdef)%", "ifdef x", 5},
		{"$ab%", "", -1},
		{"", "abc", 0},
		{"", "", 0},
		{"b%", "aab", 3},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+"/"+tt.input, func(t *testing.T) {
			e := mustCompileEngine(t, tt.pattern)
			got, err := e.LongestMatch([]byte(tt.input))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("LongestMatch(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestEngine_CompileErrors(t *testing.T) {
	if _, err := Compile("(ab"); !errors.Is(err, nfa.ErrUnterminatedWord) {
		t.Errorf("Compile err = %v, want ErrUnterminatedWord", err)
	}

	config := DefaultConfig()
	config.MaxRepeat = 5
	if _, err := CompileWithConfig("a{6}", config); !errors.Is(err, nfa.ErrInvalidBounds) {
		t.Errorf("CompileWithConfig err = %v, want ErrInvalidBounds", err)
	}

	config = DefaultConfig()
	config.MaxVisited = 0
	var cfgErr *ConfigError
	if _, err := CompileWithConfig("a", config); !errors.As(err, &cfgErr) {
		t.Errorf("CompileWithConfig err = %v, want *ConfigError", err)
	}

	if _, err := NewEngine(nil, DefaultConfig()); !errors.Is(err, nfa.ErrNotCompiled) {
		t.Errorf("NewEngine(nil) err = %v, want ErrNotCompiled", err)
	}
}

func TestEngine_Concurrent(t *testing.T) {
	e := mustCompileEngine(t, "(let)|(var)")
	inputs := map[string]nfa.MatchResult{
		"x := 1; var y": nfa.Complete,
		"x := 1; va":    nfa.Partial,
		"x := 1":        nfa.NoMatch,
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				for in, want := range inputs {
					if got := e.MatchString(in); got != want {
						t.Errorf("Match(%q) = %v, want %v", in, got, want)
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

func BenchmarkEngine_Keywords(b *testing.B) {
	e, _ := Compile("(func)|(return)|(struct)")
	text := []byte(strings.Repeat("x := y + z\n", 200) + "return x")
	b.SetBytes(int64(len(text)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Match(text)
	}
}

func BenchmarkEngine_AnchoredToken(b *testing.B) {
	e, _ := Compile(`$[A-Za-z_]\w*%`)
	text := []byte("identifier_with_digits_123")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Match(text)
	}
}
