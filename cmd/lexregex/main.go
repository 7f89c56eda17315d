// Command lexregex compiles lexregex patterns and matches them against the
// lines of standard input, printing one outcome per line and pattern.
//
// Usage:
//
//	lexregex [flags] [pattern]
//
// Examples:
//
//	printf '3\n3.14\nx\n' | lexregex '$[0-9]+(\.[0-9]+)?%'
//	lexregex -e '(if)|(else)' -e '$[a-z]+%' -longest < tokens.txt
//	lexregex -dump -debug '((a)|(b))*c' < /dev/null
//
// The exit status is 0 if some line matched completely, 1 if none did and
// 2 on error.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/coregx/lexregex"
	"github.com/coregx/lexregex/meta"
)

// arrayFlags collects a repeatable string flag.
type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ", ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lexregex", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var patterns arrayFlags
	fs.Var(&patterns, "e", "pattern to match (repeatable)")
	debug := fs.Bool("debug", false, "print compile diagnostics to stderr")
	longest := fs.Bool("longest", false, "print the longest complete prefix length instead of the outcome")
	dump := fs.Bool("dump", false, "print each compiled graph before matching")
	noPrefilter := fs.Bool("no-prefilter", false, "disable prefiltering")
	maxVisited := fs.Int("max-visited", meta.DefaultConfig().MaxVisited, "backtracker state budget per match")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: lexregex [flags] [pattern]\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	patterns = append(patterns, fs.Args()...)
	if len(patterns) == 0 {
		fs.Usage()
		return 2
	}

	config := lexregex.DefaultConfig()
	config.Debug = *debug
	config.LogOutput = stderr
	config.EnablePrefilter = !*noPrefilter
	config.MaxVisited = *maxVisited

	compiled := make([]*lexregex.Regex, 0, len(patterns))
	for _, p := range patterns {
		re, err := lexregex.CompileWithConfig(p, config)
		if err != nil {
			fmt.Fprintf(stderr, "lexregex: %v\n", err)
			return 2
		}
		if *dump {
			fmt.Fprintf(stdout, "%s\n", re.Engine().Graph().Dump())
		}
		compiled = append(compiled, re)
	}

	matched := false
	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		line := scanner.Bytes()
		for _, re := range compiled {
			if *longest {
				n := re.LongestMatch(line)
				matched = matched || n >= 0
				fmt.Fprintf(stdout, "%d\t%s\t%s\n", n, re, line)
				continue
			}
			r := re.Match(line)
			if r == lexregex.Failure {
				fmt.Fprintf(stderr, "lexregex: %s: %v\n", re, re.MatchError())
			}
			matched = matched || r == lexregex.Complete
			fmt.Fprintf(stdout, "%s\t%s\t%s\n", r, re, line)
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "lexregex: reading input: %v\n", err)
		return 2
	}

	if matched {
		return 0
	}
	return 1
}
