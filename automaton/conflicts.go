package automaton

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tsirbas/wisent/grammar"
	"github.com/tsirbas/wisent/symbol"
)

// ConflictKind distinguishes the two ways a state can fail to have a
// single action for a terminal.
type ConflictKind int

const (
	ShiftReduce ConflictKind = iota
	ReduceReduce
)

func (k ConflictKind) String() string {
	if k == ShiftReduce {
		return "shift/reduce"
	}
	return "reduce/reduce"
}

// Conflict is one (state, symbol) pair for which overrides did not leave a
// single candidate action, together with the shortest witness input that
// reaches it (spec.md §4.3 "Conflict detection & overrides", §9 "shortcuts()
// is also used to print conflict witnesses").
type Conflict struct {
	State       int
	Symbol      symbol.Symbol
	Kind        ConflictKind
	Productions []*grammar.Production
	Witness     string
}

func (c *Conflict) signature() string {
	nums := make([]int, len(c.Productions))
	for i, p := range c.Productions {
		nums[i] = p.Num().Int()
	}
	sort.Ints(nums)
	return fmt.Sprintf("%d:%d:%v", c.Kind, c.Symbol, nums)
}

// Describe renders a one-line, human-readable summary of the conflict using
// reader to turn symbols and productions into source text.
func (c *Conflict) Describe(reader *symbol.SymbolTableReader) string {
	prodNums := make([]string, len(c.Productions))
	for i, p := range c.Productions {
		prodNums[i] = fmt.Sprintf("%d", p.Num())
	}
	symText, _ := reader.ToText(c.Symbol)
	return fmt.Sprintf("%s conflict in state %d on %q (productions %s): %s",
		c.Kind, c.State, symText, strings.Join(prodNums, ", "), c.Witness)
}

// Conflicts is every unresolved conflict an automaton construction found,
// sorted by (state, symbol) for reproducible reporting.
type Conflicts []*Conflict

// dedupConflicts implements original_source/grammar.py's Conflicts.add: the
// same (productions, symbol, kind) signature can be discovered at more than
// one state once states have been merged by Pager's algorithm: keep only the
// occurrence with the shortest witness.
func dedupConflicts(cs Conflicts) Conflicts {
	best := map[string]*Conflict{}
	var order []string
	for _, c := range cs {
		key := c.signature()
		old, ok := best[key]
		if !ok {
			best[key] = c
			order = append(order, key)
			continue
		}
		if len(c.Witness) < len(old.Witness) {
			best[key] = c
		}
	}
	out := make(Conflicts, 0, len(order))
	for _, k := range order {
		out = append(out, best[k])
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

// resolveShiftReduce applies spec.md's override rule to a shift/reduce
// conflict at terminal t in the (already closed) item set closed: a shift
// wins iff every dotted item that shifts t carries an override at its dot
// position; otherwise a specific reduce production wins iff exactly one
// reduce candidate carries an override at its completed (dot == length)
// position. ok is false when overrides leave more than one action standing.
func resolveShiftReduce(gram *grammar.Grammar, closed kernel, t symbol.Symbol, reduceCands []*grammar.Production) (prod *grammar.Production, ok bool) {
	shiftOverridden := true
	anyShiftItem := false
	for it := range closed {
		if it.atEnd() || it.nextSymbol() != t {
			continue
		}
		anyShiftItem = true
		if !gram.Override(it.prod, it.dot) {
			shiftOverridden = false
		}
	}
	if anyShiftItem && shiftOverridden {
		return nil, true
	}

	if winner := resolveReduceReduce(gram, reduceCands); winner != nil {
		return winner, true
	}
	return nil, false
}

// resolveReduceReduce returns the production whose override set contains its
// own completed dot position, when exactly one reduce candidate qualifies;
// nil when none or more than one does (an ambiguous override resolves to
// nothing, per spec.md's "don't inline"-style don't-guess tie-break).
func resolveReduceReduce(gram *grammar.Grammar, reduceCands []*grammar.Production) *grammar.Production {
	var winner *grammar.Production
	for _, prod := range reduceCands {
		if gram.Override(prod, prod.RHSLen()) {
			if winner != nil {
				return nil
			}
			winner = prod
		}
	}
	return winner
}

// computePaths runs a single-source breadth-first search from the initial
// state over shift/goto edges, recording the shortest symbol sequence that
// reaches every other state. Edges are visited in ascending symbol order so
// the result is deterministic (spec.md §9's open question about
// maybe_compatible iteration order: ties here break on lowest symbol value).
func computePaths(a *Automaton) map[*state][]symbol.Symbol {
	paths := map[*state][]symbol.Symbol{a.initial: {}}
	queue := []*state{a.initial}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]

		syms := make([]symbol.Symbol, 0, len(a.shift[s]))
		for sym := range a.shift[s] {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

		for _, sym := range syms {
			next := a.shift[s][sym]
			if _, seen := paths[next]; seen {
				continue
			}
			p := make([]symbol.Symbol, len(paths[s])+1)
			copy(p, paths[s])
			p[len(p)-1] = sym
			paths[next] = p
			queue = append(queue, next)
		}
	}
	return paths
}

// witness renders path (a sequence of grammar symbols reaching the
// conflicting state) through the grammar's shortcuts expansion, followed by
// a dot and the conflicting lookahead terminal, matching
// original_source/grammar.py's witness format ("n + n . +").
func witness(gram *grammar.Grammar, path []symbol.Symbol, lookahead symbol.Symbol) string {
	reader := gram.SymbolTable().Reader()
	sc := gram.Shortcuts()

	var words []string
	for _, sym := range path {
		for _, t := range sc[sym] {
			words = append(words, symText(reader, t))
		}
	}
	words = append(words, ".")
	words = append(words, symText(reader, lookahead))
	return strings.Join(words, " ")
}

func symText(reader *symbol.SymbolTableReader, sym symbol.Symbol) string {
	if sym.IsEOF() {
		return "<eof>"
	}
	text, ok := reader.ToText(sym)
	if !ok {
		return sym.String()
	}
	return text
}

// findConflicts walks every state once, resolving each (state, terminal)
// pair to at most one action (preferring shift, then lowest production
// number, when overrides leave the conflict unresolved — vartan's own
// default rule) and builds the automaton's final shift/goto/reduce tables
// alongside the list of conflicts that had to fall back to that default.
func findConflicts(a *Automaton) (Conflicts, error) {
	a.shiftTab = map[int]map[symbol.Symbol]int{}
	a.gotoTab = map[int]map[symbol.Symbol]int{}
	a.reduceTab = map[int]map[symbol.Symbol]*grammar.Production{}
	a.expectedTab = map[int][]symbol.Symbol{}

	paths := computePaths(a)

	var conflicts Conflicts

	for _, s := range a.states {
		shiftRow := map[symbol.Symbol]int{}
		gotoRow := map[symbol.Symbol]int{}
		for sym, next := range a.shift[s] {
			if sym.IsTerminal() {
				shiftRow[sym] = next.label
			} else {
				gotoRow[sym] = next.label
			}
		}

		reduceRow := map[symbol.Symbol]*grammar.Production{}

		terms := map[symbol.Symbol]bool{}
		for sym := range shiftRow {
			terms[sym] = true
		}
		for _, ctx := range a.reduce[s] {
			for t := range ctx {
				terms[t] = true
			}
		}
		sortedTerms := make([]symbol.Symbol, 0, len(terms))
		for t := range terms {
			sortedTerms = append(sortedTerms, t)
		}
		sort.Slice(sortedTerms, func(i, j int) bool { return sortedTerms[i] < sortedTerms[j] })

		for _, t := range sortedTerms {
			_, hasShift := shiftRow[t]

			var reduceCands []*grammar.Production
			for prod, ctx := range a.reduce[s] {
				if ctx[t] {
					reduceCands = append(reduceCands, prod)
				}
			}
			sort.Slice(reduceCands, func(i, j int) bool { return reduceCands[i].Num() < reduceCands[j].Num() })

			switch {
			case hasShift && len(reduceCands) == 0:
				// Plain shift; nothing to resolve.

			case !hasShift && len(reduceCands) == 1:
				reduceRow[t] = reduceCands[0]

			case !hasShift && len(reduceCands) > 1:
				if winner := resolveReduceReduce(a.gram, reduceCands); winner != nil {
					reduceRow[t] = winner
				} else {
					reduceRow[t] = reduceCands[0]
					conflicts = append(conflicts, &Conflict{
						State:       s.label,
						Symbol:      t,
						Kind:        ReduceReduce,
						Productions: reduceCands,
						Witness:     witness(a.gram, paths[s], t),
					})
				}

			default: // hasShift && len(reduceCands) >= 1
				if prod, ok := resolveShiftReduce(a.gram, a.closures[s], t, reduceCands); ok {
					if prod != nil {
						reduceRow[t] = prod
						delete(shiftRow, t)
					}
				} else {
					conflicts = append(conflicts, &Conflict{
						State:       s.label,
						Symbol:      t,
						Kind:        ShiftReduce,
						Productions: reduceCands,
						Witness:     witness(a.gram, paths[s], t),
					})
				}
			}
		}

		a.shiftTab[s.label] = shiftRow
		a.gotoTab[s.label] = gotoRow
		a.reduceTab[s.label] = reduceRow
		a.expectedTab[s.label] = sortedTerms
	}

	return dedupConflicts(conflicts), nil
}
