// Package automaton builds a canonical LR(1) automaton from a
// grammar.Grammar using Pager's 1977 weak-compatibility state-merging
// algorithm: it produces an automaton exactly as accepting as the full
// canonical-LR(1) construction, with as many states as the corresponding
// LALR(1) automaton on LALR(1) grammars; on other grammars, states whose
// merge would fail the weak-compatibility test stay separate, so the
// automaton can have more states than LALR(1) would.
package automaton

import (
	"sort"

	"github.com/tsirbas/wisent/grammar"
	"github.com/tsirbas/wisent/symbol"
)

// item is an LR(1) core item: "dot" positions for, at most, rhsLen
// (a reduce-ready item has dot == len(prod.RHS())).
type item struct {
	prod *grammar.Production
	dot  int
}

func (it item) atEnd() bool {
	return it.dot == it.prod.RHSLen()
}

func (it item) nextSymbol() symbol.Symbol {
	return it.prod.RHS()[it.dot]
}

// ctxSet is a lookahead context: the set of terminals (or EOF) valid
// after reducing/shifting the associated item.
type ctxSet map[symbol.Symbol]bool

func (c ctxSet) clone() ctxSet {
	out := make(ctxSet, len(c))
	for s := range c {
		out[s] = true
	}
	return out
}

// merge adds every symbol of other into c that it doesn't already
// contain, and reports whether anything was added.
func (c ctxSet) merge(other ctxSet) bool {
	changed := false
	for s := range other {
		if !c[s] {
			c[s] = true
			changed = true
		}
	}
	return changed
}

func less(a item, b item) bool {
	if a.prod.Num() != b.prod.Num() {
		return a.prod.Num() < b.prod.Num()
	}
	return a.dot < b.dot
}

// kernel is the set of items (with their lookahead contexts) that
// define a state before closure.
type kernel map[item]ctxSet

func (k kernel) minItem() item {
	first := true
	var min item
	for it := range k {
		if first || less(it, min) {
			min = it
			first = false
		}
	}
	return min
}

// state is one LR(1) automaton state under construction. Its identity
// is its pointer, mirroring the object-identity state index the
// original construction uses so states can be merged and regenerated
// in place.
type state struct {
	kernel kernel
	label  int
}

// Automaton is the finished, labeled LR(1) state graph, with shift,
// goto, and reduce actions and every still-unresolved conflict.
type Automaton struct {
	gram      *grammar.Grammar
	states    []*state
	shift     map[*state]map[symbol.Symbol]*state
	reduce    map[*state]map[*grammar.Production]ctxSet
	closures  map[*state]kernel
	initial   *state
	halting   *state
	Conflicts Conflicts

	shiftTab    map[int]map[symbol.Symbol]int
	gotoTab     map[int]map[symbol.Symbol]int
	reduceTab   map[int]map[symbol.Symbol]*grammar.Production
	expectedTab map[int][]symbol.Symbol
}

// InitialState returns the automaton's label-0 initial state.
func (a *Automaton) InitialState() int {
	return a.initial.label
}

// StateCount returns the number of states in the automaton.
func (a *Automaton) StateCount() int {
	return len(a.states)
}

// Build runs Pager's construction over g and detects conflicts. The
// returned Automaton is usable for table emission even when Conflicts
// is non-empty; callers decide whether unresolved conflicts should
// abort compilation.
func Build(g *grammar.Grammar) (*Automaton, error) {
	a := &Automaton{
		gram:     g,
		shift:    map[*state]map[symbol.Symbol]*state{},
		reduce:   map[*state]map[*grammar.Production]ctxSet{},
		closures: map[*state]kernel{},
	}

	startProd := g.StartProduction()
	initial := &state{kernel: kernel{
		{prod: startProd, dot: 0}: ctxSet{symbol.SymbolEOF: true},
	}}
	a.initial = initial

	stateOf := map[*state]bool{initial: true}
	maybeCompatible := map[symbol.Symbol][]*state{}

	todo := []*state{initial}
	done := map[*state]bool{}

	for len(todo) > 0 {
		s := todo[0]
		todo = todo[1:]
		if done[s] {
			continue
		}
		done[s] = true

		closed := closure(g, s.kernel)
		a.closures[s] = closed

		rtab := a.reduce[s]
		if rtab == nil {
			rtab = map[*grammar.Production]ctxSet{}
			a.reduce[s] = rtab
		}
		shiftKernels := map[symbol.Symbol]kernel{}

		for it, ctx := range closed {
			if it.atEnd() {
				if rtab[it.prod] == nil {
					rtab[it.prod] = ctxSet{}
				}
				rtab[it.prod].merge(ctx)
				continue
			}
			X := it.nextSymbol()
			next := item{prod: it.prod, dot: it.dot + 1}
			k := shiftKernels[X]
			if k == nil {
				k = kernel{}
				shiftKernels[X] = k
			}
			if k[next] == nil {
				k[next] = ctxSet{}
			}
			k[next].merge(ctx)
		}

		stab := a.shift[s]
		if stab == nil {
			stab = map[symbol.Symbol]*state{}
			a.shift[s] = stab
		}

		for X, k := range shiftKernels {
			merged := false
			for _, cand := range maybeCompatible[X] {
				if !isCompatible(k, cand.kernel) {
					continue
				}
				stab[X] = cand
				changed := false
				for it, ctx := range k {
					if cand.kernel[it] == nil {
						cand.kernel[it] = ctxSet{}
					}
					if cand.kernel[it].merge(ctx) {
						changed = true
					}
				}
				if changed && done[cand] {
					delete(done, cand)
					delete(a.shift, cand)
					delete(a.reduce, cand)
					todo = append(todo, cand)
				}
				merged = true
				break
			}
			if merged {
				continue
			}

			next := &state{kernel: k}
			stateOf[next] = true
			stab[X] = next
			maybeCompatible[X] = append(maybeCompatible[X], next)
			todo = append(todo, next)
			if X.IsEOF() {
				a.halting = next
			}
		}
	}

	a.states = gcStates(a, stateOf)
	label(a)

	conflicts, err := findConflicts(a)
	if err != nil {
		return nil, err
	}
	a.Conflicts = conflicts

	return a, nil
}

// closure computes the full item set reachable from a kernel by
// expanding every nonterminal the dot precedes, propagating lookahead
// contexts through FIRST of the remainder of each item's production.
func closure(g *grammar.Grammar, k kernel) kernel {
	res := make(kernel, len(k))
	todo := make(kernel, len(k))
	for it, ctx := range k {
		res[it] = ctx.clone()
		todo[it] = ctx.clone()
	}

	for len(todo) > 0 {
		var it item
		for i := range todo {
			it = i
			break
		}
		ctx := todo[it]
		delete(todo, it)

		if it.atEnd() {
			continue
		}
		X := it.nextSymbol()
		if X.IsTerminal() {
			continue
		}

		tailFirst, tailEmpty, err := g.First(it.prod, it.dot+1)
		if err != nil {
			continue
		}

		subProds, ok := g.Productions().ByLHS(X)
		if !ok {
			continue
		}
		for _, sp := range subProds {
			newItem := item{prod: sp, dot: 0}
			added := ctxSet{}
			for s := range tailFirst {
				added[s] = true
			}
			if tailEmpty {
				for s := range ctx {
					added[s] = true
				}
			}
			if res[newItem] == nil {
				res[newItem] = ctxSet{}
			}
			diff := ctxSet{}
			for s := range added {
				if !res[newItem][s] {
					diff[s] = true
				}
			}
			if len(diff) == 0 {
				continue
			}
			res[newItem].merge(diff)
			if todo[newItem] == nil {
				todo[newItem] = ctxSet{}
			}
			todo[newItem].merge(diff)
		}
	}
	return res
}

// isCompatible implements definition 1 (p. 254) of Pager, 1977: two
// states with the same item cores can be weakly compatible (safely
// merged without introducing a spurious reduce/reduce conflict) even
// when their lookahead contexts differ, as long as no pair of items
// would gain an overlapping context from the merge that neither state
// already has on its own.
func isCompatible(s, t kernel) bool {
	if len(s) != len(t) {
		return false
	}
	core := make([]item, 0, len(s))
	for it := range s {
		if _, ok := t[it]; !ok {
			return false
		}
		core = append(core, it)
	}
	if len(core) == 1 {
		return true
	}
	for i := 0; i < len(core)-1; i++ {
		I := core[i]
		for j := i + 1; j < len(core); j++ {
			J := core[j]
			if overlaps(s[I], t[J]) || overlaps(s[J], t[I]) {
				if !overlaps(s[I], s[J]) && !overlaps(t[I], t[J]) {
					return false
				}
			}
		}
	}
	return true
}

func overlaps(a, b ctxSet) bool {
	small, big := a, b
	if len(b) < len(a) {
		small, big = b, a
	}
	for s := range small {
		if big[s] {
			return true
		}
	}
	return false
}

// gcStates discards states that merging left unreachable from the
// initial state.
func gcStates(a *Automaton, all map[*state]bool) []*state {
	used := map[*state]bool{a.initial: true}
	todo := []*state{a.initial}
	for len(todo) > 0 {
		s := todo[0]
		todo = todo[1:]
		for _, next := range a.shift[s] {
			if !used[next] {
				used[next] = true
				todo = append(todo, next)
			}
		}
	}
	out := make([]*state, 0, len(used))
	for s := range all {
		if used[s] {
			out = append(out, s)
		} else {
			delete(a.shift, s)
			delete(a.reduce, s)
			delete(a.closures, s)
		}
	}
	return out
}

// label assigns final, contiguous state numbers: the initial state is
// always 0, the halting state (if any) sorts last, and ties break on
// each state's smallest kernel item so labelling is deterministic.
func label(a *Automaton) {
	sort.Slice(a.states, func(i, j int) bool {
		si, sj := a.states[i], a.states[j]
		if si == a.initial {
			return true
		}
		if sj == a.initial {
			return false
		}
		hi, hj := si == a.halting, sj == a.halting
		if hi != hj {
			return !hi
		}
		return less(si.kernel.minItem(), sj.kernel.minItem())
	})
	for i, s := range a.states {
		s.label = i
	}
}
