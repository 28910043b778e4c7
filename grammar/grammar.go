// Package grammar turns a flattened rule.Set into an analyzed grammar:
// interned symbols, a cleaned-up production set, and the nullable/FIRST/
// FOLLOW/shortcuts tables the automaton and driver packages need.
package grammar

import (
	"fmt"
	"sort"

	"github.com/tsirbas/wisent/rule"
	"github.com/tsirbas/wisent/symbol"
)

// Grammar is a fully analyzed, cleaned-up context-free grammar.
type Grammar struct {
	symbolTable   *symbol.SymbolTable
	productionSet *ProductionSet
	overrides     map[ProductionID]map[int]bool
	nullable      map[symbol.Symbol]bool
	first         *firstSet
	follow        *followSet
	shortcuts     map[symbol.Symbol][]symbol.Symbol
}

// SymbolTable returns the symbol table shared by every symbol in the
// grammar.
func (g *Grammar) SymbolTable() *symbol.SymbolTable {
	return g.symbolTable
}

// Productions returns the cleaned-up production set, including the
// synthetic augmented-start production.
func (g *Grammar) Productions() *ProductionSet {
	return g.productionSet
}

// StartProduction returns the augmented start production, `S : <start> EOF`.
func (g *Grammar) StartProduction() *Production {
	prods, _ := g.productionSet.ByLHS(symbol.SymbolStart)
	return prods[0]
}

// Override reports whether the grammar author placed a `!` conflict
// override marker at the given RHS position of prod.
func (g *Grammar) Override(prod *Production, pos int) bool {
	return g.overrides[prod.id][pos]
}

// Nullable reports whether sym can derive the empty string.
func (g *Grammar) Nullable(sym symbol.Symbol) bool {
	return g.nullable[sym]
}

// First returns FIRST of the RHS suffix of prod starting at dot, and
// whether that suffix is nullable.
func (g *Grammar) First(prod *Production, dot int) (map[symbol.Symbol]bool, bool, error) {
	return g.first.find(prod, dot)
}

// Follow returns FOLLOW(sym): the terminals (and, for the start symbol,
// EOF) that can directly follow sym in some derivation.
func (g *Grammar) Follow(sym symbol.Symbol) (map[symbol.Symbol]bool, bool, error) {
	return g.follow.find(sym)
}

// Shortcuts returns, for every symbol, the shortest sequence of
// terminals it can expand to. Nullable symbols map to the empty
// sequence and terminals map to themselves; the automaton package uses
// it to build human-readable conflict witnesses.
func (g *Grammar) Shortcuts() map[symbol.Symbol][]symbol.Symbol {
	return g.shortcuts
}

// Build analyzes a rule.Set into a Grammar, running the cleanup pass
// (rejecting a grammar whose start symbol cannot derive any terminal
// string or whose reachable symbols are not all generating, and
// discarding productions of unreachable nonterminals) before computing
// nullable/FIRST/FOLLOW/shortcuts.
func Build(set *rule.Set) (*Grammar, error) {
	if len(set.Rules) == 0 {
		return nil, semErrEmptyGrammar
	}
	if rule.IsTransparentName(set.Start) {
		return nil, semErrTransparentStart
	}

	symTab := symbol.NewSymbolTable()
	w := symTab.Writer()

	lhsNames := map[string]bool{}
	for _, r := range set.Rules {
		lhsNames[r.LHS] = true
	}

	// The augmented start symbol is a synthetic marker distinct from the
	// user's declared start nonterminal, following vartan's `<start>'`
	// convention, so that the user's start nonterminal keeps its own
	// production numbering even when it has several alternatives.
	if _, err := w.RegisterStartSymbol(set.Start + "'"); err != nil {
		return nil, err
	}
	for _, r := range set.Rules {
		if _, err := w.RegisterNonTerminalSymbol(r.LHS); err != nil {
			return nil, err
		}
	}
	for _, r := range set.Rules {
		for _, e := range r.Body {
			if lhsNames[e.Name] {
				continue
			}
			if _, err := w.RegisterTerminalSymbol(e.Name); err != nil {
				return nil, err
			}
		}
	}

	reader := symTab.Reader()
	toSym := func(name string) symbol.Symbol {
		s, _ := reader.ToSymbol(name)
		return s
	}

	prodSet := NewProductionSet()
	overrides := map[ProductionID]map[int]bool{}
	for _, r := range set.Rules {
		rhs := make([]symbol.Symbol, len(r.Body))
		for i, e := range r.Body {
			rhs[i] = toSym(e.Name)
		}
		prod, err := NewProduction(toSym(r.LHS), rhs)
		if err != nil {
			return nil, err
		}
		prodSet.append(prod)

		var ov map[int]bool
		for i, e := range r.Body {
			if e.Override {
				if ov == nil {
					ov = map[int]bool{}
				}
				ov[i] = true
			}
		}
		if ov != nil {
			overrides[prod.id] = ov
		}
	}

	startProd, err := NewProduction(symbol.SymbolStart, []symbol.Symbol{toSym(set.Start), symbol.SymbolEOF})
	if err != nil {
		return nil, err
	}
	prodSet.append(startProd)

	if err := cleanup(prodSet, reader); err != nil {
		return nil, err
	}

	nullable := computeNullable(prodSet)

	fst, err := genFirstSet(prodSet)
	if err != nil {
		return nil, err
	}
	flw, err := genFollowSet(prodSet, fst)
	if err != nil {
		return nil, err
	}

	sc := computeShortcuts(prodSet, nullable, reader)

	return &Grammar{
		symbolTable:   symTab,
		productionSet: prodSet,
		overrides:     overrides,
		nullable:      nullable,
		first:         fst,
		follow:        flw,
		shortcuts:     sc,
	}, nil
}

// cleanup rejects a grammar whose start symbol cannot derive any terminal
// string and one whose reachable symbols contain an infinite-expansion
// cycle, then discards every production headed by a nonterminal the start
// symbol can never derive: a dead alternative is dropped from the
// grammar, not a reason to fail the whole build.
func cleanup(prods *ProductionSet, reader *symbol.SymbolTableReader) error {
	generating := generatingSymbols(prods)
	if !generating[symbol.SymbolStart] {
		return semErrNonTerminatingStart
	}

	reachable := reachableSymbols(prods)

	for _, prod := range prods.AllProductions() {
		if !reachable[prod.lhs] {
			continue
		}
		if !generating[prod.lhs] {
			return fmt.Errorf("%w: %v", semErrInfiniteExpansion, symbolText(reader, prod.lhs))
		}
		for _, sym := range prod.rhs {
			if sym.IsEOF() {
				continue
			}
			if !generating[sym] {
				return fmt.Errorf("%w: %v", semErrInfiniteExpansion, symbolText(reader, sym))
			}
		}
	}

	for _, sym := range reader.NonTerminalSymbols() {
		if sym.IsStart() || reachable[sym] {
			continue
		}
		prods.removeLHS(sym)
	}

	return nil
}

func symbolText(reader *symbol.SymbolTableReader, sym symbol.Symbol) string {
	text, ok := reader.ToText(sym)
	if !ok {
		return sym.String()
	}
	return text
}

// generatingSymbols computes the set of symbols that derive at least one
// finite string of terminals: every terminal trivially does, and a
// nonterminal does once it has a production whose entire RHS already
// generates terminal strings.
func generatingSymbols(prods *ProductionSet) map[symbol.Symbol]bool {
	gen := map[symbol.Symbol]bool{}
	for _, prod := range prods.AllProductions() {
		for _, sym := range prod.rhs {
			if sym.IsTerminal() {
				gen[sym] = true
			}
		}
	}

	for {
		more := false
		for _, prod := range prods.AllProductions() {
			if gen[prod.lhs] {
				continue
			}
			all := true
			for _, sym := range prod.rhs {
				if sym.IsEOF() {
					continue
				}
				if !gen[sym] {
					all = false
					break
				}
			}
			if all {
				gen[prod.lhs] = true
				more = true
			}
		}
		if !more {
			break
		}
	}
	gen[symbol.SymbolEOF] = true
	return gen
}

// reachableSymbols computes the set of symbols reachable from the start
// symbol by following production bodies.
func reachableSymbols(prods *ProductionSet) map[symbol.Symbol]bool {
	reach := map[symbol.Symbol]bool{symbol.SymbolStart: true}
	for {
		more := false
		for _, prod := range prods.AllProductions() {
			if !reach[prod.lhs] {
				continue
			}
			for _, sym := range prod.rhs {
				if !reach[sym] {
					reach[sym] = true
					more = true
				}
			}
		}
		if !more {
			break
		}
	}
	return reach
}

func computeNullable(prods *ProductionSet) map[symbol.Symbol]bool {
	nullable := map[symbol.Symbol]bool{}
	for {
		more := false
		for _, prod := range prods.AllProductions() {
			if nullable[prod.lhs] {
				continue
			}
			if prod.Empty() {
				nullable[prod.lhs] = true
				more = true
				continue
			}
			all := true
			for _, sym := range prod.rhs {
				if !nullable[sym] {
					all = false
					break
				}
			}
			if all {
				nullable[prod.lhs] = true
				more = true
			}
		}
		if !more {
			break
		}
	}
	return nullable
}

// computeShortcuts implements the fixed-point construction from
// original_source/grammar.py's shortcuts(): every symbol maps to the
// shortest known sequence of terminals it can expand to, relaxed until
// no shorter sequence is found for any remaining symbol.
func computeShortcuts(prods *ProductionSet, nullable map[symbol.Symbol]bool, reader *symbol.SymbolTableReader) map[symbol.Symbol][]symbol.Symbol {
	res := map[symbol.Symbol][]symbol.Symbol{}
	for _, sym := range reader.TerminalSymbols() {
		res[sym] = []symbol.Symbol{sym}
	}
	res[symbol.SymbolEOF] = []symbol.Symbol{symbol.SymbolEOF}

	todo := map[symbol.Symbol]bool{}
	for _, sym := range reader.NonTerminalSymbols() {
		if nullable[sym] {
			res[sym] = []symbol.Symbol{}
		} else {
			todo[sym] = true
		}
	}

	rtab := map[symbol.Symbol][][]symbol.Symbol{}
	for _, prod := range prods.AllProductions() {
		if todo[prod.lhs] {
			rtab[prod.lhs] = append(rtab[prod.lhs], prod.rhs)
		}
	}

	for len(todo) > 0 {
		progressed := false
		for sym := range todo {
			var best []symbol.Symbol
			for _, body := range rtab[sym] {
				word, ok := expandWord(body, res)
				if !ok {
					continue
				}
				if best == nil || len(word) < len(best) {
					best = word
				}
			}
			if best != nil {
				res[sym] = best
				delete(todo, sym)
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}

	return res
}

func expandWord(body []symbol.Symbol, res map[symbol.Symbol][]symbol.Symbol) ([]symbol.Symbol, bool) {
	word := []symbol.Symbol{}
	for _, sym := range body {
		w, ok := res[sym]
		if !ok {
			return nil, false
		}
		word = append(word, w...)
	}
	return word, true
}

// sortedSymbols is a small helper diagnostics use for a deterministic
// symbol ordering.
func sortedSymbols(syms map[symbol.Symbol]bool) []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(syms))
	for s := range syms {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
