package syntax

import "io"

// Parse reads a complete grammar file and returns its parse tree.
func Parse(src io.Reader) (*RootNode, error) {
	l, err := newLexer(src)
	if err != nil {
		return nil, err
	}
	p := &parser{lex: l}
	return p.parseRoot()
}

type parser struct {
	lex *lexer
}

func (p *parser) parseRoot() (*RootNode, error) {
	root := &RootNode{}
	for {
		tok, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenKindEOF {
			break
		}
		prod, err := p.parseProduction()
		if err != nil {
			return nil, err
		}
		root.Productions = append(root.Productions, prod)
	}
	if len(root.Productions) == 0 {
		return nil, newSyntaxError(Position{Row: 1, Col: 1}, synErrNoProduction)
	}
	return root, nil
}

func (p *parser) parseProduction() (*ProductionNode, error) {
	lhsTok, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	if lhsTok.kind != tokenKindID {
		return nil, newSyntaxError(lhsTok.pos, synErrNoProductionID)
	}

	colon, err := p.lex.next()
	if err != nil {
		return nil, err
	}
	if colon.kind != tokenKindColon {
		return nil, newSyntaxError(colon.pos, synErrNoColon)
	}

	prod := &ProductionNode{LHS: lhsTok.text, Pos: lhsTok.pos}
	for {
		alt, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		prod.Alts = append(prod.Alts, alt)

		tok, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenKindOr {
			_, _ = p.lex.next()
			continue
		}
		if tok.kind == tokenKindSemicolon {
			_, _ = p.lex.next()
			break
		}
		return nil, newSyntaxError(tok.pos, synErrNoSemicolon)
	}

	return prod, nil
}

// parseAlt parses a sequence of items up to (not including) the next '|'
// or ';' or ')'.
func (p *parser) parseAlt() (*AltNode, error) {
	startTok, err := p.lex.peek()
	if err != nil {
		return nil, err
	}
	alt := &AltNode{Pos: startTok.pos}
	for {
		tok, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenKindOr || tok.kind == tokenKindSemicolon || tok.kind == tokenKindRParen {
			break
		}
		elem, err := p.parseElem()
		if err != nil {
			return nil, err
		}
		alt.Elems = append(alt.Elems, elem)
	}
	return alt, nil
}

func (p *parser) parseElem() (*ElemNode, error) {
	pos := Position{}
	override := false

	tok, err := p.lex.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind == tokenKindBang {
		_, _ = p.lex.next()
		override = true
		pos = tok.pos

		tok, err = p.lex.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenKindBang {
			return nil, newSyntaxError(tok.pos, synErrDoubleOverride)
		}
	} else {
		pos = tok.pos
	}

	elem := &ElemNode{Override: override, Pos: pos}

	switch tok.kind {
	case tokenKindID:
		_, _ = p.lex.next()
		elem.Kind = ElemSymbol
		elem.Name = tok.text
	case tokenKindString:
		_, _ = p.lex.next()
		elem.Kind = ElemSymbol
		elem.Name = tok.text
		elem.Literal = true
	case tokenKindLParen:
		_, _ = p.lex.next()
		group, err := p.parseGroup()
		if err != nil {
			return nil, err
		}
		elem.Kind = ElemGroup
		elem.Group = group
	default:
		return nil, newSyntaxError(tok.pos, synErrNoPrimary)
	}

	suffixTok, err := p.lex.peek()
	if err != nil {
		return nil, err
	}
	switch suffixTok.kind {
	case tokenKindQuestion:
		_, _ = p.lex.next()
		elem.Suffix = '?'
	case tokenKindStar:
		_, _ = p.lex.next()
		elem.Suffix = '*'
	case tokenKindPlus:
		_, _ = p.lex.next()
		elem.Suffix = '+'
	}

	return elem, nil
}

func (p *parser) parseGroup() ([]*AltNode, error) {
	var alts []*AltNode
	for {
		alt, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		alts = append(alts, alt)

		tok, err := p.lex.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenKindOr {
			_, _ = p.lex.next()
			continue
		}
		if tok.kind == tokenKindRParen {
			_, _ = p.lex.next()
			break
		}
		return nil, newSyntaxError(tok.pos, synErrUnclosedGroup)
	}
	return alts, nil
}
