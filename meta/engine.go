package meta

import (
	"sync/atomic"

	"github.com/coregx/lexregex/literal"
	"github.com/coregx/lexregex/nfa"
	"github.com/coregx/lexregex/prefilter"
)

// Engine is the compiled form of a pattern together with its search plan.
//
// The Engine:
//  1. Compiles the pattern into an nfa.Graph
//  2. Extracts first bytes and prefix literals
//  3. Builds a prefilter (if useful) and selects a strategy
//  4. Runs the backtracker from the selected start offsets
//
// Thread safety: the graph and prefilter are immutable after compilation.
// Per-search mutable state comes from a sync.Pool, so Match may be called from
// multiple goroutines on the same Engine.
//
// Example:
//
//	engine, err := meta.Compile(`$[0-9]+\.[0-9]+%`)
//	if err != nil {
//	    return err
//	}
//	engine.Match([]byte("3."))  // nfa.Partial
//	engine.Match([]byte("3.1")) // nfa.Complete
type Engine struct {
	// stats must be first for 8-byte alignment of its atomics on 32-bit platforms.
	stats Stats

	graph      *nfa.Graph
	firstBytes *nfa.FirstByteSet
	prefixes   *literal.Seq
	prefilter  prefilter.Prefilter
	strategy   Strategy
	config     Config
	logger     *Logger

	statePool *searchStatePool

	// lastErr holds the error behind the most recent Failure.
	lastErr atomic.Pointer[error]
}

// Stats tracks execution statistics for performance analysis.
type Stats struct {
	// Searches counts Match calls.
	Searches uint64

	// BacktrackerRuns counts start offsets handed to the backtracker.
	BacktrackerRuns uint64

	// FirstByteRejects counts anchored searches rejected by the first byte.
	FirstByteRejects uint64

	// PrefilterHits counts candidates confirmed as Complete from the literal
	// alone, without running the backtracker.
	PrefilterHits uint64

	// PrefilterMisses counts candidates the backtracker rejected.
	PrefilterMisses uint64

	// PrefilterAbandoned counts searches in which the prefilter was retired.
	PrefilterAbandoned uint64

	// Failures counts searches that ended in Failure.
	Failures uint64
}

// Compile compiles pattern with the default configuration.
func Compile(pattern string) (*Engine, error) {
	return CompileWithConfig(pattern, DefaultConfig())
}

// CompileWithConfig compiles pattern with a custom configuration.
//
// Returns a *ConfigError for an invalid configuration, or the
// *nfa.CompileError produced by the compiler.
func CompileWithConfig(pattern string, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	compiler := nfa.NewCompiler(nfa.CompilerConfig{
		MaxRepeat: config.MaxRepeat,
		MaxDepth:  config.MaxRecursionDepth,
	})
	g, err := compiler.Compile(pattern)
	if err != nil {
		logger := newConfigLogger(config)
		logger.Section("Compile")
		logger.Log("pattern %q rejected: %v", pattern, err)
		return nil, err
	}
	return NewEngine(g, config)
}

// NewEngine analyzes a compiled graph and builds its search plan.
func NewEngine(g *nfa.Graph, config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, nfa.ErrNotCompiled
	}

	e := &Engine{
		graph:  g,
		config: config,
		logger: newConfigLogger(config),
	}
	e.analyze()
	e.statePool = newSearchStatePool(g, e.prefilter, config.MaxVisited)
	return e, nil
}

func newConfigLogger(config Config) *Logger {
	logger := NewLogger(config.Debug)
	if config.LogOutput != nil {
		logger.SetOutput(config.LogOutput)
	}
	return logger
}

// analyze extracts literals, builds the prefilter and selects the strategy.
func (e *Engine) analyze() {
	g := e.graph
	log := e.logger
	log.Section("Compile")
	log.Log("pattern %q: %d nodes", g.Pattern(), g.Len())
	log.Log("anchors: begin=%v end=%v empty=%v", g.AnchoredStart(), g.AnchoredEnd(), g.IsEmpty())

	e.firstBytes = nfa.ExtractFirstBytes(g)
	if e.firstBytes != nil {
		log.Log("first bytes: %d %q", e.firstBytes.Count(), e.firstBytes.Bytes())
	} else {
		log.Log("first bytes: none (pattern can match empty)")
	}

	if e.config.EnablePrefilter && !g.IsEmpty() && !g.AnchoredStart() {
		extractor := literal.New(literal.ExtractorConfig{
			MaxLiterals:   e.config.MaxLiterals,
			MaxLiteralLen: literal.DefaultConfig().MaxLiteralLen,
			MaxClassSize:  literal.DefaultConfig().MaxClassSize,
		})
		e.prefixes = extractor.ExtractPrefixes(g)
		builder := prefilter.NewBuilderWithConfig(e.prefixes, e.firstBytes, prefilter.BuilderConfig{
			MinLiteralLen:          e.config.MinLiteralLen,
			MaxAhoCorasickLiterals: e.config.MaxAhoCorasickLiterals,
		})
		e.prefilter = builder.Build()
		log.Log("prefixes: %d %q common=%q", e.prefixes.Len(), e.prefixes.Literals(), e.prefixes.LongestCommonPrefix())
		if e.prefilter != nil {
			log.Log("prefilter: %T complete=%v literal=%d window=%d heap=%d", e.prefilter,
				e.prefilter.IsComplete(), e.prefilter.LiteralLen(), e.prefilter.Window(), e.prefilter.HeapBytes())
		}
	}

	e.strategy = SelectStrategy(g, e.prefilter)
	log.Log("strategy: %s", e.strategy)
}

// Graph returns the compiled graph.
func (e *Engine) Graph() *nfa.Graph {
	return e.graph
}

// Strategy returns the selected execution strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Prefilter returns the prefilter, or nil if none is used.
func (e *Engine) Prefilter() prefilter.Prefilter {
	return e.prefilter
}

// FirstBytes returns the bytes a match can begin with, or nil.
func (e *Engine) FirstBytes() *nfa.FirstByteSet {
	return e.firstBytes
}

// Prefixes returns the extracted prefix literals, or nil when no extraction
// ran.
func (e *Engine) Prefixes() *literal.Seq {
	return e.prefixes
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Logger returns the engine's diagnostic logger.
func (e *Engine) Logger() *Logger {
	return e.logger
}

// Stats returns a snapshot of execution statistics.
//
// Example:
//
//	stats := engine.Stats()
//	println("backtracker runs:", stats.BacktrackerRuns)
func (e *Engine) Stats() Stats {
	return Stats{
		Searches:           atomic.LoadUint64(&e.stats.Searches),
		BacktrackerRuns:    atomic.LoadUint64(&e.stats.BacktrackerRuns),
		FirstByteRejects:   atomic.LoadUint64(&e.stats.FirstByteRejects),
		PrefilterHits:      atomic.LoadUint64(&e.stats.PrefilterHits),
		PrefilterMisses:    atomic.LoadUint64(&e.stats.PrefilterMisses),
		PrefilterAbandoned: atomic.LoadUint64(&e.stats.PrefilterAbandoned),
		Failures:           atomic.LoadUint64(&e.stats.Failures),
	}
}

// ResetStats resets execution statistics to zero.
func (e *Engine) ResetStats() {
	atomic.StoreUint64(&e.stats.Searches, 0)
	atomic.StoreUint64(&e.stats.BacktrackerRuns, 0)
	atomic.StoreUint64(&e.stats.FirstByteRejects, 0)
	atomic.StoreUint64(&e.stats.PrefilterHits, 0)
	atomic.StoreUint64(&e.stats.PrefilterMisses, 0)
	atomic.StoreUint64(&e.stats.PrefilterAbandoned, 0)
	atomic.StoreUint64(&e.stats.Failures, 0)
}

// LastMatchError returns the error behind the most recent Failure reported
// by Match, or nil. With concurrent callers it reflects whichever failed last.
func (e *Engine) LastMatchError() error {
	if p := e.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

func (e *Engine) getSearchState() *SearchState {
	return e.statePool.get()
}

func (e *Engine) putSearchState(state *SearchState) {
	e.statePool.put(state)
}
