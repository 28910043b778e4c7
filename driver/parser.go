package driver

import (
	"fmt"

	verr "github.com/tsirbas/wisent/error"
	"github.com/tsirbas/wisent/spec"
)

// Default pre/post window sizes for bounded error recovery (spec.md §4.4's
// `m`/`n`), matched to original_source/parser.py's defaults.
const (
	DefaultPreWindow  = 4
	DefaultPostWindow = 4
)

// stackEntry is one LR(1) stack slot: the state reached after shifting or
// reducing, paired with the tree built so far for that slot. The bottom
// sentinel entry (state only, no tree) is never popped.
type stackEntry struct {
	state int
	tree  *Tree
}

// Parser drives a token stream through a compiled grammar's parsing table,
// building a parse tree and performing bounded, deterministic error
// recovery along the way.
type Parser struct {
	gram   *spec.CompiledGrammar
	pre    int
	post   int
	maxErr int // 0 means unbounded, following original_source's max_err=None.
	trace  func(TraceEvent)
}

// TraceEvent is one shift or reduce step, reported to a trace callback
// installed with WithTrace. Exactly one of Shifted/Reduced is set.
type TraceEvent struct {
	State   int
	Shifted *Token
	Reduced *spec.Reduction
}

// WithTrace installs fn to be called after every shift and reduce step, for
// diagnostic tooling (`wisent repl`) that wants to show its work rather than
// just the final tree.
func WithTrace(fn func(TraceEvent)) Option {
	return func(p *Parser) { p.trace = fn }
}

// Option configures a Parser.
type Option func(*Parser)

// WithWindow sets the pre- and post-error lookahead window sizes used by
// error recovery.
func WithWindow(pre, post int) Option {
	return func(p *Parser) { p.pre, p.post = pre, post }
}

// WithMaxErrors bounds how many syntax errors a single parse tolerates
// before giving up. n <= 0 means unbounded.
func WithMaxErrors(n int) Option {
	return func(p *Parser) { p.maxErr = n }
}

// NewParser builds a Parser over a compiled grammar's tables.
func NewParser(gram *spec.CompiledGrammar, opts ...Option) *Parser {
	p := &Parser{gram: gram, pre: DefaultPreWindow, post: DefaultPostWindow}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ErrRecoveryFailed is returned when a syntax error could not be repaired:
// no variation of the error window parsed further than leaving it alone
// did. Errors holds every error collected up to and including the fatal
// one; Tree is always nil.
type ErrRecoveryFailed struct {
	Errors []*verr.ParseError
}

func (e *ErrRecoveryFailed) Error() string {
	if len(e.Errors) == 0 {
		return "parse failed"
	}
	return e.Errors[len(e.Errors)-1].Error()
}

// ErrRecovered is returned alongside a non-nil tree when a parse finished
// successfully but only after recovering from one or more syntax errors
// (spec.md §7: errors are collected, not just the first one).
type ErrRecovered struct {
	Errors []*verr.ParseError
}

func (e *ErrRecovered) Error() string {
	return fmt.Sprintf("%d syntax error(s) recovered", len(e.Errors))
}

// Parse drives input through the compiled grammar's tables to produce a
// parse tree. A nil error means a clean parse. A non-nil *ErrRecovered
// means the returned tree is still usable, but only after recovering from
// the listed errors. A non-nil *ErrRecoveryFailed means the tree is nil:
// recovery ran out of options (or MaxErr was reached) before reaching the
// halting state.
func (p *Parser) Parse(input TokenStream) (*Tree, error) {
	buf := newBufferedStream(input)
	pt := p.gram.ParsingTable

	stack := []stackEntry{{state: pt.InitialState}}
	var errs []*verr.ParseError

	cur, ok := buf.next()
	curID := p.classify(cur, ok)

	for {
		state := stack[len(stack)-1].state

		if next, shiftable := pt.Shift[state][curID]; shiftable {
			stack = append(stack, stackEntry{state: next, tree: Leaf(cur.Terminal, cur.Payload)})
			if p.trace != nil {
				tok := cur
				p.trace(TraceEvent{State: next, Shifted: &tok})
			}
			if next == pt.HaltingState {
				break
			}
			cur, ok = buf.next()
			curID = p.classify(cur, ok)
			continue
		}

		if red, reducible := pt.Reduce[state][curID]; reducible {
			stack = p.reduce(stack, red)
			if p.trace != nil {
				r := red
				p.trace(TraceEvent{State: stack[len(stack)-1].state, Reduced: &r})
			}
			continue
		}

		errs = append(errs, p.syntaxError(state, cur, ok))
		if p.maxErr > 0 && len(errs) >= p.maxErr {
			return nil, &ErrRecoveryFailed{Errors: errs}
		}

		newStack, recovered := p.recover(buf, stack, cur, ok)
		if !recovered {
			return nil, &ErrRecoveryFailed{Errors: errs}
		}
		stack = newStack
		cur, ok = buf.next()
		curID = p.classify(cur, ok)
	}

	root := stack[len(stack)-2].tree
	if len(errs) > 0 {
		return root, &ErrRecovered{Errors: errs}
	}
	return root, nil
}

// classify translates a token into its dense terminal id, synthesizing the
// EOF id once the stream is exhausted (spec.md §6: callers never yield EOF
// themselves). An unrecognized terminal name classifies to -1, which never
// matches a table entry and so surfaces as an ordinary syntax error.
func (p *Parser) classify(t Token, ok bool) int {
	if !ok {
		return p.gram.EOFSymbol
	}
	if id, found := p.gram.TerminalID(t.Terminal); found {
		return id
	}
	return -1
}

// reduce pops Length stack entries (none, for an epsilon alternative),
// splices any transparent children, and pushes the new nonterminal entry
// reached via goto.
func (p *Parser) reduce(stack []stackEntry, red spec.Reduction) []stackEntry {
	name := p.gram.NonTerminals[red.LHS]
	transparent := p.gram.Transparent[red.LHS]

	if red.Length == 0 {
		state := stack[len(stack)-1].state
		next := p.gram.ParsingTable.GoTo[state][red.LHS]
		return append(stack, stackEntry{state: next, tree: Node(name, transparent, nil)})
	}

	n := red.Length
	children := make([]*Tree, n)
	for i := 0; i < n; i++ {
		children[i] = stack[len(stack)-n+i].tree
	}
	children = spliceChildren(children)

	rest := stack[:len(stack)-n]
	state := rest[len(rest)-1].state
	next := p.gram.ParsingTable.GoTo[state][red.LHS]
	return append(rest, stackEntry{state: next, tree: Node(name, transparent, children)})
}

func (p *Parser) syntaxError(state int, tok Token, ok bool) *verr.ParseError {
	if !ok {
		return &verr.ParseError{Message: "unexpected end of input"}
	}
	expected := p.expectedTerminalNames(state)
	if len(expected) == 0 {
		return &verr.ParseError{Message: fmt.Sprintf("unexpected token %q", tok.Terminal)}
	}
	return &verr.ParseError{Message: fmt.Sprintf("unexpected token %q, expected one of %v", tok.Terminal, expected)}
}
