// Package meta implements the engine that orchestrates lexregex matching.
//
// The engine coordinates three pieces:
//   - nfa.Compiler: turns the pattern into a node graph
//   - Prefilter: literal or first-byte based candidate finding (optional)
//   - nfa.Backtracker: the matcher, run from each candidate start offset
//
// Strategy selection is based on the pattern's anchors and on which literals
// can be extracted from it. Every strategy produces the same outcome; they
// differ only in how many start offsets reach the backtracker.
package meta

import (
	"io"

	"github.com/coregx/lexregex/nfa"
)

// Config controls engine behavior and its limits.
//
// Example:
//
//	config := meta.DefaultConfig()
//	config.EnablePrefilter = false // try every start offset
//	engine, err := meta.CompileWithConfig(`$[0-9]+%`, config)
type Config struct {
	// EnablePrefilter enables literal and first-byte prefiltering.
	// Default: true
	EnablePrefilter bool

	// MinLiteralLen is the shortest literal worth a multi-literal search.
	// Default: 2
	MinLiteralLen int

	// MaxLiterals limits the number of prefix literals extracted from a
	// pattern.
	// Default: 64
	MaxLiterals int

	// MaxAhoCorasickLiterals is the largest literal set searched with an
	// Aho-Corasick automaton.
	// Default: 64
	MaxAhoCorasickLiterals int

	// MaxVisited bounds the number of distinct backtracker states per match
	// call. A match that needs more reports Failure with nfa.ErrTooComplex.
	// Default: nfa.DefaultMaxVisited
	MaxVisited int

	// MaxRepeat is the largest count accepted inside {m,n}.
	// Default: 1000
	MaxRepeat int

	// MaxRecursionDepth limits how deeply words may nest.
	// Default: 100
	MaxRecursionDepth int

	// Debug enables compile-time diagnostics on LogOutput.
	// Default: false
	Debug bool

	// LogOutput receives diagnostics when Debug is set. Nil means os.Stderr.
	LogOutput io.Writer
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnablePrefilter:        true,
		MinLiteralLen:          2,
		MaxLiterals:            64,
		MaxAhoCorasickLiterals: 64,
		MaxVisited:             nfa.DefaultMaxVisited,
		MaxRepeat:              1000,
		MaxRecursionDepth:      100,
	}
}

// Validate checks if the configuration is valid.
// Returns a *ConfigError naming the first field out of range.
//
// Valid ranges:
//   - MinLiteralLen: 1 to 64
//   - MaxLiterals: 1 to 1,000
//   - MaxAhoCorasickLiterals: 1 to 1,000
//   - MaxVisited: 1 to 1<<28
//   - MaxRepeat: 1 to 100,000
//   - MaxRecursionDepth: 10 to 1,000
//
// Prefilter fields are only checked when EnablePrefilter is set.
func (c Config) Validate() error {
	if c.EnablePrefilter {
		if c.MinLiteralLen < 1 || c.MinLiteralLen > 64 {
			return &ConfigError{
				Field:   "MinLiteralLen",
				Message: "must be between 1 and 64",
			}
		}
		if c.MaxLiterals < 1 || c.MaxLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
		if c.MaxAhoCorasickLiterals < 1 || c.MaxAhoCorasickLiterals > 1_000 {
			return &ConfigError{
				Field:   "MaxAhoCorasickLiterals",
				Message: "must be between 1 and 1,000",
			}
		}
	}

	if c.MaxVisited < 1 || c.MaxVisited > 1<<28 {
		return &ConfigError{
			Field:   "MaxVisited",
			Message: "must be between 1 and 268,435,456",
		}
	}

	if c.MaxRepeat < 1 || c.MaxRepeat > 100_000 {
		return &ConfigError{
			Field:   "MaxRepeat",
			Message: "must be between 1 and 100,000",
		}
	}

	if c.MaxRecursionDepth < 10 || c.MaxRecursionDepth > 1_000 {
		return &ConfigError{
			Field:   "MaxRecursionDepth",
			Message: "must be between 10 and 1,000",
		}
	}

	return nil
}

// ConfigError represents an invalid configuration parameter.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "lexregex: invalid config: " + e.Field + ": " + e.Message
}
