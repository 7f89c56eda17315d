package nfa

import (
	"fmt"
	"strconv"
)

// CompilerConfig configures graph compilation behavior
type CompilerConfig struct {
	// MaxRepeat is the largest count accepted inside {m,n}.
	// Default: 1000
	MaxRepeat int

	// MaxDepth limits how deeply words may nest.
	// Default: 100
	MaxDepth int
}

// DefaultCompilerConfig returns a compiler configuration with sensible defaults
func DefaultCompilerConfig() CompilerConfig {
	return CompilerConfig{
		MaxRepeat: 1000,
		MaxDepth:  100,
	}
}

// Compiler turns pattern strings into graphs with a single left-to-right scan.
//
// The scan keeps a stack of open words. Each entry records the word-start node
// and the tail of the node chain currently being extended inside it; the
// bottom entry is the root chain. Characters and classes extend the tail,
// '(' pushes, ')' wires the branch into the word-end node and pops.
type Compiler struct {
	config CompilerConfig

	// per-compile state
	pattern string
	limit   int
	builder *Builder
	words   []openWord
	last    NodeID    // unit a quantifier would apply to
	pending *openWord // closed word awaiting another branch after '|'
}

// openWord is one entry of the open-word stack.
type openWord struct {
	start  NodeID
	end    NodeID // InvalidNode until the first branch closes
	tail   NodeID
	head   bool // current branch has no node yet
	offset int  // 1-based offset of the '(' for diagnostics
}

// NewCompiler creates a new compiler with the given configuration
func NewCompiler(config CompilerConfig) *Compiler {
	if config.MaxRepeat == 0 {
		config.MaxRepeat = 1000
	}
	if config.MaxDepth == 0 {
		config.MaxDepth = 100
	}
	return &Compiler{config: config}
}

// NewDefaultCompiler creates a new compiler with default configuration
func NewDefaultCompiler() *Compiler {
	return NewCompiler(DefaultCompilerConfig())
}

// Compile compiles a pattern string into a graph.
// On failure it returns a *CompileError and no graph.
func (c *Compiler) Compile(pattern string) (*Graph, error) {
	c.reset(pattern)
	defer c.release()

	root := c.builder.AddRoot()
	c.words = append(c.words, openWord{start: root, end: InvalidNode, tail: root})

	if pattern == "" {
		if err := c.finish(); err != nil {
			return nil, err
		}
		g, err := c.builder.Build(root, false, false)
		if err != nil {
			return nil, err
		}
		g.empty = true
		return g, nil
	}

	x := 0
	anchoredStart := pattern[0] == '$'
	if anchoredStart {
		x = 1
	}
	anchoredEnd := len(pattern) > x && pattern[len(pattern)-1] == '%' && !escapedAt(pattern, len(pattern)-1)
	if anchoredEnd {
		c.limit--
	}

	for x < c.limit {
		next, err := c.step(x)
		if err != nil {
			return nil, err
		}
		x = next
	}

	if err := c.finish(); err != nil {
		return nil, err
	}
	g, err := c.builder.Build(root, anchoredStart, anchoredEnd)
	if err != nil {
		return nil, &CompileError{Pattern: pattern, Offset: len(pattern), Message: err.Error(), Err: err}
	}
	g.pattern = pattern
	return g, nil
}

func (c *Compiler) reset(pattern string) {
	c.pattern = pattern
	c.limit = len(pattern)
	c.builder = NewBuilderWithCapacity(len(pattern) + 2)
	c.words = c.words[:0]
	c.last = InvalidNode
	c.pending = nil
}

// release drops the work stacks so nothing from a failed compile survives.
func (c *Compiler) release() {
	c.builder = nil
	c.words = c.words[:0]
	c.pending = nil
	c.last = InvalidNode
}

// escapedAt reports whether the byte at i is preceded by an odd run of '\'.
func escapedAt(s string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && s[j] == '\\'; j-- {
		n++
	}
	return n%2 == 1
}

func (c *Compiler) fail(offset int, err error, format string, args ...any) error {
	msg := err.Error()
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &CompileError{Pattern: c.pattern, Offset: offset, Message: msg, Err: err}
}

// step consumes the unit starting at x and returns the index after it.
func (c *Compiler) step(x int) (int, error) {
	ch := c.pattern[x]

	if c.pending != nil && ch != '(' {
		return 0, c.fail(x+1, ErrInvalidAlternation,
			"invalid use of '|' at char %d: a parenthesized word must follow '|'", x+1)
	}

	switch ch {
	case '\\':
		if x+1 >= c.limit {
			return 0, c.fail(x+1, ErrInvalidEscape, "trailing '\\' at char %d", x+1)
		}
		id := c.builder.AddChar()
		if !applyEscape(c.builder.Node(id), c.pattern[x+1]) {
			return 0, c.fail(x+2, ErrInvalidEscape, "invalid special character %q at char %d", c.pattern[x+1], x+2)
		}
		if err := c.appendUnit(id); err != nil {
			return 0, err
		}
		return c.quantifier(x + 2)

	case '(':
		return c.openWord(x)

	case ')':
		return c.closeWord(x)

	case '[':
		id, next, err := c.class(x)
		if err != nil {
			return 0, err
		}
		if err := c.appendUnit(id); err != nil {
			return 0, err
		}
		return c.quantifier(next)

	case ']':
		return 0, c.fail(x+1, ErrUnterminatedClass, "unopened ']' at char %d", x+1)

	case '{', '*', '+', '?':
		return 0, c.fail(x+1, ErrNothingToRepeat, "invalid '%c' operator at char %d: nothing to repeat", ch, x+1)

	case '}':
		return 0, c.fail(x+1, ErrInvalidBounds, "invalid closing '}' at char %d", x+1)

	case '|':
		return 0, c.fail(x+1, ErrInvalidAlternation,
			"the '|' operator at char %d must follow a parenthesized word or be escaped", x+1)

	case '.':
		id := c.builder.AddChar()
		c.builder.Node(id).Classes |= ClassAnyButNewline
		if err := c.appendUnit(id); err != nil {
			return 0, err
		}
		return c.quantifier(x + 1)

	default:
		id := c.builder.AddChar()
		c.builder.Node(id).Literals.Add(ch)
		if err := c.appendUnit(id); err != nil {
			return 0, err
		}
		return c.quantifier(x + 1)
	}
}

// link attaches id after the tail of the innermost open word.
func (c *Compiler) link(id NodeID) error {
	w := &c.words[len(c.words)-1]
	var err error
	if w.head {
		err = c.builder.AddChild(w.tail, id)
		w.head = false
	} else {
		err = c.builder.SetNext(w.tail, id)
	}
	if err != nil {
		return &CompileError{Pattern: c.pattern, Offset: 1, Message: err.Error(), Err: err}
	}
	return nil
}

func (c *Compiler) appendUnit(id NodeID) error {
	if err := c.link(id); err != nil {
		return err
	}
	c.words[len(c.words)-1].tail = id
	c.last = id
	return nil
}

func (c *Compiler) openWord(x int) (int, error) {
	if p := c.pending; p != nil {
		// Another branch of the word that just closed.
		c.pending = nil
		start := c.builder.Node(p.start)
		start.OrPath = true
		c.builder.Node(p.end).OrPath = true
		c.words = append(c.words, openWord{start: p.start, end: p.end, tail: p.start, head: true, offset: x + 1})
		c.last = InvalidNode
		return x + 1, nil
	}

	if len(c.words) > c.config.MaxDepth {
		return 0, c.fail(x+1, ErrNestingTooDeep, "words nested deeper than %d at char %d", c.config.MaxDepth, x+1)
	}

	id := c.builder.AddWordStart()
	if err := c.link(id); err != nil {
		return 0, err
	}
	c.words[len(c.words)-1].tail = id
	c.words = append(c.words, openWord{start: id, end: InvalidNode, tail: id, head: true, offset: x + 1})
	c.last = InvalidNode
	return x + 1, nil
}

func (c *Compiler) closeWord(x int) (int, error) {
	if len(c.words) == 1 {
		return 0, c.fail(x+1, ErrUnmatchedParen, "unmatched ')' at char %d", x+1)
	}

	w := c.words[len(c.words)-1]
	if w.end == InvalidNode {
		end, err := c.builder.AddWordEnd(w.start)
		if err != nil {
			return 0, &CompileError{Pattern: c.pattern, Offset: x + 1, Message: err.Error(), Err: err}
		}
		w.end = end
	}
	if err := c.link(w.end); err != nil {
		return 0, err
	}
	c.words = c.words[:len(c.words)-1]
	c.words[len(c.words)-1].tail = w.end

	if x+1 < c.limit && c.pattern[x+1] == '|' {
		if x+2 >= c.limit {
			return 0, c.fail(x+2, ErrInvalidAlternation,
				"invalid use of '|' at char %d: a parenthesized word must follow '|'", x+2)
		}
		c.pending = &w
		c.last = InvalidNode
		return x + 2, nil
	}

	c.last = w.start
	return c.quantifier(x + 1)
}

// class parses the bracket expression starting at x and returns its node and
// the index after the closing ']'.
func (c *Compiler) class(x int) (NodeID, int, error) {
	id := c.builder.AddChar()
	n := c.builder.Node(id)

	j := x + 1
	if j < c.limit && c.pattern[j] == '^' {
		n.Negated = true
		j++
	}

	first := true
	prev := -1 // last literal added, the lower bound of a range
	for {
		if j >= c.limit {
			return InvalidNode, 0, c.fail(x+1, ErrUnterminatedClass, "unterminated character class at char %d", x+1)
		}
		ch := c.pattern[j]
		switch {
		case ch == ']':
			return id, j + 1, nil

		case ch == '[':
			return InvalidNode, 0, c.fail(j+1, ErrUnterminatedClass, "invalid character class at char %d", j+1)

		case ch == '\\':
			lit, isLit, err := c.classEscape(n, j)
			if err != nil {
				return InvalidNode, 0, err
			}
			prev = -1
			if isLit {
				prev = int(lit)
			}
			j += 2

		case ch == '-' && !first && j+1 < c.limit && c.pattern[j+1] != ']':
			if prev < 0 {
				return InvalidNode, 0, c.fail(j+1, ErrInvalidRange, "invalid '-' operator at char %d", j+1)
			}
			hi, width, err := c.rangeBound(j + 1)
			if err != nil {
				return InvalidNode, 0, err
			}
			n.Literals.AddRange(byte(prev), hi)
			prev = -1
			j += 1 + width

		case ch == '.':
			n.Classes |= ClassAnyButNewline
			prev = -1
			j++

		default:
			n.Literals.Add(ch)
			prev = int(ch)
			j++
		}
		first = false
	}
}

// classEscape applies the escape at j inside a class. It reports the literal
// byte when the escape denotes a single byte, so it can start a range.
func (c *Compiler) classEscape(n *Node, j int) (byte, bool, error) {
	if j+1 >= c.limit {
		return 0, false, c.fail(j+1, ErrUnterminatedClass, "unterminated character class at char %d", j+1)
	}
	e := c.pattern[j+1]
	if _, ok := classEscapes[e]; ok {
		n.Classes |= classEscapes[e]
		return 0, false, nil
	}
	var scratch Node
	if !applyEscape(&scratch, e) {
		return 0, false, c.fail(j+2, ErrInvalidEscape, "invalid special character %q at char %d", e, j+2)
	}
	lit := scratch.Literals.Bytes()[0]
	n.Literals.Add(lit)
	return lit, true, nil
}

// rangeBound reads the upper bound of a range at j. It returns the byte and
// how many pattern bytes it used.
func (c *Compiler) rangeBound(j int) (byte, int, error) {
	ch := c.pattern[j]
	switch ch {
	case '[':
		return 0, 0, c.fail(j+1, ErrInvalidRange, "invalid range end at char %d", j+1)
	case '\\':
		if j+1 >= c.limit {
			return 0, 0, c.fail(j+1, ErrUnterminatedClass, "unterminated character class at char %d", j+1)
		}
		var scratch Node
		e := c.pattern[j+1]
		if _, isClass := classEscapes[e]; isClass || !applyEscape(&scratch, e) {
			return 0, 0, c.fail(j+2, ErrInvalidRange, "invalid range end %q at char %d", e, j+2)
		}
		return scratch.Literals.Bytes()[0], 2, nil
	}
	return ch, 1, nil
}

// quantifier applies a suffix at x, if any, to the last unit and returns the
// index after it.
func (c *Compiler) quantifier(x int) (int, error) {
	if x >= c.limit {
		return x, nil
	}

	var minRep, maxRep int
	next := x + 1
	switch c.pattern[x] {
	case '*':
		minRep, maxRep = 0, Unbounded
	case '+':
		minRep, maxRep = 1, Unbounded
	case '?':
		minRep, maxRep = 0, 1
	case '{':
		var err error
		minRep, maxRep, next, err = c.bounds(x)
		if err != nil {
			return 0, err
		}
	default:
		return x, nil
	}

	if c.last == InvalidNode {
		return 0, c.fail(x+1, ErrNothingToRepeat, "invalid '%c' operator at char %d: nothing to repeat", c.pattern[x], x+1)
	}
	if err := c.builder.SetBounds(c.last, minRep, maxRep); err != nil {
		return 0, &CompileError{Pattern: c.pattern, Offset: x + 1, Message: err.Error(), Err: ErrInvalidBounds}
	}
	// A second quantifier has nothing to repeat.
	c.last = InvalidNode
	return next, nil
}

// bounds parses {m}, {m,n} or {m,} starting at the '{' at x.
func (c *Compiler) bounds(x int) (minRep, maxRep, next int, err error) {
	j := x + 1
	readInt := func() (int, bool, error) {
		start := j
		for j < c.limit && isDigit(c.pattern[j]) {
			j++
		}
		if j == start {
			return 0, false, nil
		}
		v, convErr := strconv.Atoi(c.pattern[start:j])
		if convErr != nil || v > c.config.MaxRepeat {
			return 0, false, c.fail(start+1, ErrInvalidBounds, "repeat count at char %d exceeds %d", start+1, c.config.MaxRepeat)
		}
		return v, true, nil
	}
	truncated := func() error {
		return c.fail(x+1, ErrInvalidBounds, "unterminated repeat count at char %d", x+1)
	}
	unexpected := func() error {
		return c.fail(j+1, ErrInvalidBounds,
			"invalid repeat count at char %d: expected one number or two numbers separated by a comma", j+1)
	}

	m, ok, err := readInt()
	if err != nil {
		return 0, 0, 0, err
	}
	if j >= c.limit {
		return 0, 0, 0, truncated()
	}
	if !ok {
		return 0, 0, 0, unexpected()
	}
	minRep, maxRep = m, m

	if c.pattern[j] == ',' {
		j++
		n, ok, err := readInt()
		if err != nil {
			return 0, 0, 0, err
		}
		maxRep = Unbounded
		if ok {
			maxRep = n
		}
	}
	if j >= c.limit {
		return 0, 0, 0, truncated()
	}
	if c.pattern[j] != '}' {
		return 0, 0, 0, unexpected()
	}
	if maxRep != Unbounded && maxRep < minRep {
		return 0, 0, 0, c.fail(x+1, ErrInvalidBounds, "invalid repeat count at char %d: %d > %d", x+1, minRep, maxRep)
	}
	return minRep, maxRep, j + 1, nil
}

// finish checks for unclosed words and wires the root chain to the terminal node.
func (c *Compiler) finish() error {
	if len(c.words) > 1 {
		w := c.words[len(c.words)-1]
		return c.fail(w.offset, ErrUnterminatedWord, "word opened at char %d is never closed", w.offset)
	}
	end := c.builder.AddEnd()
	return c.link(end)
}

// Compile compiles a pattern with the default compiler configuration.
func Compile(pattern string) (*Graph, error) {
	return NewDefaultCompiler().Compile(pattern)
}
