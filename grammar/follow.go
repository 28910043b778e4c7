package grammar

import (
	"fmt"

	"github.com/tsirbas/wisent/symbol"
)

// followSet holds FOLLOW(X) for every nonterminal X: the set of terminals
// that can directly follow X in some derivation, plus an eof flag. The
// augmented start production ends in the EOF terminal itself, so a symbol
// that can be followed by end of input has EOF in its ordinary terminal
// set; the eof flag is set for the augmented start symbol and passed on
// only through a nullable tail of a production it heads. Shaped the same
// flat map[symbol.Symbol]bool way as firstSet.
type followSet struct {
	symbols map[symbol.Symbol]map[symbol.Symbol]bool
	eof     map[symbol.Symbol]bool
}

func newFollowSet(prods *ProductionSet) *followSet {
	flw := &followSet{
		symbols: map[symbol.Symbol]map[symbol.Symbol]bool{},
		eof:     map[symbol.Symbol]bool{},
	}
	for _, prod := range prods.AllProductions() {
		if _, ok := flw.symbols[prod.lhs]; ok {
			continue
		}
		flw.symbols[prod.lhs] = map[symbol.Symbol]bool{}
	}
	return flw
}

func (flw *followSet) find(sym symbol.Symbol) (map[symbol.Symbol]bool, bool, error) {
	set, ok := flw.symbols[sym]
	if !ok {
		return nil, false, fmt.Errorf("an entry of FOLLOW was not found; symbol: %s", sym)
	}
	return set, flw.eof[sym], nil
}

// genFollowSet computes FOLLOW(X) for every nonterminal X by the usual
// fixed-point iteration: the start symbol gets EOF, and for every
// occurrence of X in a Production's body, FOLLOW(X) gains FIRST of the
// remaining suffix, plus FOLLOW(head) when that suffix is nullable.
func genFollowSet(prods *ProductionSet, fst *firstSet) (*followSet, error) {
	ntsyms := map[symbol.Symbol]bool{}
	for _, prod := range prods.AllProductions() {
		ntsyms[prod.lhs] = true
	}

	flw := newFollowSet(prods)
	for {
		more := false
		for ntsym := range ntsyms {
			if ntsym.IsStart() && !flw.eof[ntsym] {
				flw.eof[ntsym] = true
				more = true
			}
			for _, prod := range prods.AllProductions() {
				for i, sym := range prod.rhs {
					if sym != ntsym {
						continue
					}
					changed, err := relaxFollow(flw, fst, prod, i)
					if err != nil {
						return nil, err
					}
					if changed {
						more = true
					}
				}
			}
		}
		if !more {
			break
		}
	}

	return flw, nil
}

// relaxFollow folds FIRST(rest of prod after pos) into FOLLOW(prod.rhs[pos]),
// and if that suffix is nullable, also folds in FOLLOW(prod.lhs).
func relaxFollow(flw *followSet, fst *firstSet, prod *Production, pos int) (bool, error) {
	sym := prod.rhs[pos]
	acc := flw.symbols[sym]

	tailFirst, tailEmpty, err := fst.find(prod, pos+1)
	if err != nil {
		return false, err
	}

	changed := false
	for s := range tailFirst {
		if !acc[s] {
			acc[s] = true
			changed = true
		}
	}
	if !tailEmpty {
		return changed, nil
	}

	head := flw.symbols[prod.lhs]
	for s := range head {
		if !acc[s] {
			acc[s] = true
			changed = true
		}
	}
	if flw.eof[prod.lhs] && !flw.eof[sym] {
		flw.eof[sym] = true
		changed = true
	}
	return changed, nil
}
