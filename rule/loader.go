package rule

import (
	"github.com/tsirbas/wisent/syntax"
)

// Loader turns a grammar file's parse tree into a flat rule Set, expanding
// `?`, `*`, `+` and parenthesized groups into synthetic transparent
// nonterminals along the way.
type Loader struct {
	namer *freshNamer
	set   *Set
}

// NewLoader creates a Loader. A single Loader must not be reused across
// grammars; call Load once per *syntax.RootNode.
func NewLoader() *Loader {
	return &Loader{}
}

// Load flattens root into a Set. The first production's LHS becomes the
// grammar's start symbol, per spec.md's "the first rule names the start
// symbol" convention.
func (l *Loader) Load(root *syntax.RootNode) (*Set, error) {
	reserved := map[string]bool{}
	for _, prod := range root.Productions {
		reserved[prod.LHS] = true
	}
	l.namer = newFreshNamer(reserved)
	l.set = &Set{Start: root.Productions[0].LHS}

	for _, prod := range root.Productions {
		for _, alt := range prod.Alts {
			body, err := l.expandAlt(alt)
			if err != nil {
				return nil, err
			}
			l.set.addRule(&Rule{
				LHS:  prod.LHS,
				Body: body,
				Pos:  Pos{Row: prod.Pos.Row, Col: prod.Pos.Col},
			})
		}
	}

	return l.set, nil
}

// expandAlt converts one alternative into a flat element list, emitting
// any synthetic rules its glob operators or groups require.
func (l *Loader) expandAlt(alt *syntax.AltNode) ([]*Elem, error) {
	body := make([]*Elem, 0, len(alt.Elems))
	for _, elem := range alt.Elems {
		e, err := l.expandElem(elem)
		if err != nil {
			return nil, err
		}
		body = append(body, e)
	}
	return body, nil
}

func (l *Loader) expandElem(elem *syntax.ElemNode) (*Elem, error) {
	name, err := l.resolveRef(elem)
	if err != nil {
		return nil, err
	}

	pos := Pos{Row: elem.Pos.Row, Col: elem.Pos.Col}

	switch elem.Suffix {
	case '?':
		opt := l.namer.next()
		l.set.addRule(&Rule{LHS: opt, Body: []*Elem{{Name: name, Pos: pos}}, Transparent: true, Pos: pos})
		l.set.addRule(&Rule{LHS: opt, Body: nil, Transparent: true, Pos: pos})
		return &Elem{Name: opt, Override: elem.Override, Pos: pos}, nil
	case '*':
		star := l.namer.next()
		l.set.addRule(&Rule{LHS: star, Body: []*Elem{{Name: star, Pos: pos}, {Name: name, Pos: pos}}, Transparent: true, Pos: pos})
		l.set.addRule(&Rule{LHS: star, Body: nil, Transparent: true, Pos: pos})
		return &Elem{Name: star, Override: elem.Override, Pos: pos}, nil
	case '+':
		plus := l.namer.next()
		l.set.addRule(&Rule{LHS: plus, Body: []*Elem{{Name: plus, Pos: pos}, {Name: name, Pos: pos}}, Transparent: true, Pos: pos})
		l.set.addRule(&Rule{LHS: plus, Body: []*Elem{{Name: name, Pos: pos}}, Transparent: true, Pos: pos})
		return &Elem{Name: plus, Override: elem.Override, Pos: pos}, nil
	default:
		return &Elem{Name: name, Override: elem.Override, Pos: pos}, nil
	}
}

// resolveRef returns the symbol name an element refers to, introducing a
// synthetic nonterminal for a parenthesized group (recursively expanding
// its own sub-alternatives first).
func (l *Loader) resolveRef(elem *syntax.ElemNode) (string, error) {
	if elem.Kind == syntax.ElemSymbol {
		return elem.Name, nil
	}

	grp := l.namer.next()
	for _, alt := range elem.Group {
		body, err := l.expandAlt(alt)
		if err != nil {
			return "", err
		}
		l.set.addRule(&Rule{LHS: grp, Body: body, Transparent: true, Pos: Pos{Row: elem.Pos.Row, Col: elem.Pos.Col}})
	}
	return grp, nil
}
