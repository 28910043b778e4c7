// Package rule turns a parsed grammar file into a flat list of
// context-free rules ready for symbol interning.
//
// Loader expands the glob operators (`?`, `*`, `+`) and parenthesized
// groups a grammar author writes into plain BNF, introducing a fresh
// synthetic nonterminal for each expansion. Optimiser then removes the
// redundancy the expansion creates: it merges synthetic rule-sets that
// turned out identical and inlines synthetic nonterminals that are
// cheaper to splice into their call site than to keep as a separate
// production.
package rule

import "fmt"

// Pos locates a rule or symbol reference in the source grammar file.
type Pos struct {
	Row int
	Col int
}

// Elem is one symbol reference inside a rule body.
type Elem struct {
	Name     string
	Override bool // a `!` immediately preceded this element
	Pos      Pos
}

// Rule is a single production: LHS derives the sequence of Body elements.
type Rule struct {
	LHS         string
	Body        []*Elem
	Transparent bool // introduced by glob/group expansion, not written by the author
	Pos         Pos
}

// Set is the complete, flattened rule list for a grammar, in source order.
type Set struct {
	Start string
	Rules []*Rule
}

func (s *Set) addRule(r *Rule) {
	s.Rules = append(s.Rules, r)
}

// IsTransparentName reports whether name belongs to the synthetic
// namespace the Loader uses for glob/group expansions.
func IsTransparentName(name string) bool {
	return len(name) > 0 && name[0] == '_'
}

// freshNamer hands out sequential synthetic nonterminal names, guaranteed
// not to collide with any name already in use in the grammar.
type freshNamer struct {
	used  map[string]bool
	count int
}

func newFreshNamer(reserved map[string]bool) *freshNamer {
	return &freshNamer{used: reserved}
}

func (n *freshNamer) next() string {
	for {
		n.count++
		name := fmt.Sprintf("_%d", n.count)
		if !n.used[name] {
			n.used[name] = true
			return name
		}
	}
}
