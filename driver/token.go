package driver

import "io"

// Token is one input symbol: Terminal names which terminal it is (matching
// a name in the compiled grammar's Terminals list); Payload is opaque data
// the caller wants preserved verbatim in the resulting parse tree (spec.md
// §6's "Token-stream contract").
type Token struct {
	Terminal string
	Payload  []interface{}
}

// TokenStream is a finite, single-pass source of tokens. The driver never
// rewinds it (spec.md §5); the bounded error-recovery window buffers its own
// lookahead instead of re-reading the stream. Next returns io.EOF once the
// stream is exhausted; the driver appends the synthetic EOF token itself, so
// callers never need to yield one.
type TokenStream interface {
	Next() (Token, error)
}

// SliceTokenStream adapts a fixed slice of tokens — typically hand-written
// test input — into a TokenStream.
type SliceTokenStream struct {
	toks []Token
	pos  int
}

// NewSliceTokenStream creates a TokenStream over toks.
func NewSliceTokenStream(toks []Token) *SliceTokenStream {
	return &SliceTokenStream{toks: toks}
}

func (s *SliceTokenStream) Next() (Token, error) {
	if s.pos >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.pos]
	s.pos++
	return t, nil
}

// bufferedStream wraps a TokenStream with a requeue buffer, so tokens pulled
// ahead for a recovery window's post-window lookahead can be pushed back
// once recovery finishes consuming only part of them.
type bufferedStream struct {
	under   TokenStream
	pending []Token
	eof     bool
}

func newBufferedStream(under TokenStream) *bufferedStream {
	return &bufferedStream{under: under}
}

func (b *bufferedStream) next() (Token, bool) {
	if len(b.pending) > 0 {
		t := b.pending[0]
		b.pending = b.pending[1:]
		return t, true
	}
	if b.eof {
		return Token{}, false
	}
	t, err := b.under.Next()
	if err != nil {
		b.eof = true
		return Token{}, false
	}
	return t, true
}

// pushBack requeues tokens (in order) ahead of anything already pending.
func (b *bufferedStream) pushBack(toks []Token) {
	b.pending = append(append([]Token{}, toks...), b.pending...)
}
