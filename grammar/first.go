package grammar

import (
	"fmt"

	"github.com/tsirbas/wisent/symbol"
)

// firstSet holds FIRST(X) for every nonterminal X, plus whether X is
// nullable, as the same flat map[symbol.Symbol]bool idiom computeNullable
// and generatingSymbols already use elsewhere in this package: one pass
// over productions computes a fixed point, and find is just a map read
// over the result.
type firstSet struct {
	symbols map[symbol.Symbol]map[symbol.Symbol]bool
	empty   map[symbol.Symbol]bool
}

func newFirstSet(prods *ProductionSet) *firstSet {
	fst := &firstSet{
		symbols: map[symbol.Symbol]map[symbol.Symbol]bool{},
		empty:   map[symbol.Symbol]bool{},
	}
	for _, prod := range prods.AllProductions() {
		if _, ok := fst.symbols[prod.lhs]; ok {
			continue
		}
		fst.symbols[prod.lhs] = map[symbol.Symbol]bool{}
	}
	return fst
}

// find computes FIRST of the RHS suffix of prod starting at head: the set
// of terminals that can begin a derivation of that suffix, and whether the
// suffix as a whole is nullable.
func (fst *firstSet) find(prod *Production, head int) (map[symbol.Symbol]bool, bool, error) {
	out := map[symbol.Symbol]bool{}
	if prod.rhsLen <= head {
		return out, true, nil
	}
	for _, sym := range prod.rhs[head:] {
		if sym.IsTerminal() {
			out[sym] = true
			return out, false, nil
		}

		set, ok := fst.symbols[sym]
		if !ok {
			return nil, false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		for s := range set {
			out[s] = true
		}
		if !fst.empty[sym] {
			return out, false, nil
		}
	}
	return out, true, nil
}

// genFirstSet computes FIRST(X) for every nonterminal X by fixed-point
// iteration over the production set until no FIRST entry grows any
// further.
func genFirstSet(prods *ProductionSet) (*firstSet, error) {
	fst := newFirstSet(prods)
	for {
		more := false
		for _, prod := range prods.AllProductions() {
			changed, err := addProductionFirst(fst, prod)
			if err != nil {
				return nil, err
			}
			if changed {
				more = true
			}
		}
		if !more {
			break
		}
	}
	return fst, nil
}

// addProductionFirst folds prod's contribution into FIRST(prod.lhs):
// terminals and nullability flow in only from a leading run of symbols
// that are all themselves nullable, stopping at the first symbol (or the
// production's own terminal) that isn't.
func addProductionFirst(fst *firstSet, prod *Production) (bool, error) {
	changed := false
	acc := fst.symbols[prod.lhs]

	if prod.Empty() {
		if !fst.empty[prod.lhs] {
			fst.empty[prod.lhs] = true
			changed = true
		}
		return changed, nil
	}

	for _, sym := range prod.rhs {
		if sym.IsTerminal() {
			if !acc[sym] {
				acc[sym] = true
				changed = true
			}
			return changed, nil
		}

		set, ok := fst.symbols[sym]
		if !ok {
			return false, fmt.Errorf("an entry of FIRST was not found; symbol: %s", sym)
		}
		for s := range set {
			if !acc[s] {
				acc[s] = true
				changed = true
			}
		}
		if !fst.empty[sym] {
			return changed, nil
		}
	}

	if !fst.empty[prod.lhs] {
		fst.empty[prod.lhs] = true
		changed = true
	}
	return changed, nil
}
