package automaton

import (
	"sort"

	"github.com/tsirbas/wisent/grammar"
	"github.com/tsirbas/wisent/symbol"
)

// Grammar returns the grammar the automaton was built from, so callers can
// resolve symbols back to their source text.
func (a *Automaton) Grammar() *grammar.Grammar {
	return a.gram
}

// States returns every state label, 0..StateCount-1, in order.
func (a *Automaton) States() []int {
	out := make([]int, len(a.states))
	for i := range out {
		out[i] = i
	}
	return out
}

// HaltingState returns the label of the state reached by shifting EOF.
func (a *Automaton) HaltingState() int {
	return a.halting.label
}

// Shift returns the state a shift on terminal t from state leads to.
func (a *Automaton) Shift(state int, t symbol.Symbol) (int, bool) {
	next, ok := a.shiftTab[state][t]
	return next, ok
}

// Goto returns the state a reduce of nt from state leads to.
func (a *Automaton) Goto(state int, nt symbol.Symbol) (int, bool) {
	next, ok := a.gotoTab[state][nt]
	return next, ok
}

// Reduce returns the (already conflict-resolved) production to reduce when
// terminal t is the lookahead in state.
func (a *Automaton) Reduce(state int, t symbol.Symbol) (*grammar.Production, bool) {
	prod, ok := a.reduceTab[state][t]
	return prod, ok
}

// ShiftRow returns every terminal state shifts on, mapped to its target state.
func (a *Automaton) ShiftRow(state int) map[symbol.Symbol]int {
	return a.shiftTab[state]
}

// GotoRow returns every nonterminal state has a goto entry for.
func (a *Automaton) GotoRow(state int) map[symbol.Symbol]int {
	return a.gotoTab[state]
}

// ReduceRow returns every terminal state reduces on, mapped to the
// resolved production.
func (a *Automaton) ReduceRow(state int) map[symbol.Symbol]*grammar.Production {
	return a.reduceTab[state]
}

// Expected returns the sorted set of terminals valid (by shift or reduce)
// in state: spec.md §4.4's `expected_set`.
func (a *Automaton) Expected(state int) []symbol.Symbol {
	return a.expectedTab[state]
}

// Kernel returns the sorted core items (without lookahead) of a state, for
// diagnostic listings (`wisent show`).
func (a *Automaton) Kernel(state int) []struct {
	Production *grammar.Production
	Dot        int
} {
	s := a.states[state]
	k := s.kernel
	items := make([]item, 0, len(k))
	for it := range k {
		items = append(items, it)
	}
	sort.Slice(items, func(i, j int) bool { return less(items[i], items[j]) })

	out := make([]struct {
		Production *grammar.Production
		Dot        int
	}, len(items))
	for i, it := range items {
		out[i].Production = it.prod
		out[i].Dot = it.dot
	}
	return out
}
