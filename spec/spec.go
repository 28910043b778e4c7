// Package spec defines the serializable table format a compiled grammar is
// emitted as (spec.md §6 "Generated parser outputs"): the bridge between
// grammar/automaton construction and the driver's runtime loop. Keeping this
// as its own package, independent of symbol/grammar/automaton's in-memory
// representations, mirrors vartan's own spec.CompiledGrammar: the driver
// only ever needs JSON-serializable ints and strings, never a live Grammar.
package spec

import (
	"sort"

	"github.com/tsirbas/wisent/automaton"
	"github.com/tsirbas/wisent/grammar"
	"github.com/tsirbas/wisent/rule"
	"github.com/tsirbas/wisent/symbol"
)

// Reduction is one reduce action: pop Length symbols (0 for an empty/epsilon
// alternative) and goto LHS.
type Reduction struct {
	LHS    int `json:"lhs"`
	Length int `json:"length"`
}

// ParsingTable is the shift/goto/reduce action table spec.md §3 describes,
// keyed by dense, JSON-friendly integer ids rather than symbol.Symbol's
// internal bit-packed representation.
type ParsingTable struct {
	Shift        []map[int]int       `json:"shift"`
	GoTo         []map[int]int       `json:"goto"`
	Reduce       []map[int]Reduction `json:"reduce"`
	Expected     [][]int             `json:"expected"`
	StateCount   int                 `json:"state_count"`
	InitialState int                 `json:"initial_state"`
	HaltingState int                 `json:"halting_state"`
}

// CompiledGrammar is everything the driver needs to run a parse, plus enough
// metadata (terminal/nonterminal names, which nonterminals are transparent)
// to build diagnostics and splice parse trees.
type CompiledGrammar struct {
	ParsingTable     *ParsingTable `json:"parsing_table"`
	Terminals        []string      `json:"terminals"`
	NonTerminals     []string      `json:"non_terminals"`
	Transparent      []bool        `json:"transparent"` // indexed like NonTerminals
	EOFSymbol        int           `json:"eof_symbol"`
	StartSymbol      int           `json:"start_symbol"`
	NonTerminalIDMap []string      `json:"non_terminal_id_map,omitempty"`

	termID map[string]int // name -> dense terminal id, not serialized
}

// TerminalID looks up the dense id a terminal's name was assigned during
// Compile; the driver uses this to translate a token stream's symbol
// identities into table lookups. termID is rebuilt lazily from Terminals
// when a CompiledGrammar arrives via JSON (e.g. `wisent compile`'s output
// decoded again), since the lookup map itself isn't serialized.
func (g *CompiledGrammar) TerminalID(name string) (int, bool) {
	if g.termID == nil {
		g.termID = make(map[string]int, len(g.Terminals))
		for i, t := range g.Terminals {
			g.termID[t] = i
		}
	}
	id, ok := g.termID[name]
	return id, ok
}

// Options controls optional table-emission features (spec.md §6's "optionally
// a nonterminal-id → name map if numeric nonterminal replacement is
// enabled").
type Options struct {
	// ReplaceNonTerminals renumbers nonterminals to a dense 0..k range in
	// NonTerminalIDMap, independent of the ids already used in GoTo/Reduce,
	// following original_source/automaton.py's replace_nonterminals mode.
	ReplaceNonTerminals bool
}

// Compile converts an analyzed Grammar and its built Automaton into a
// CompiledGrammar. Any conflicts the automaton resolved by default (rather
// than by an author override) are returned as automaton.Conflicts; the
// caller decides whether to treat them as fatal, per spec.md §7's "Conflict
// ... collected ... After reporting, the run aborts."
func Compile(gram *grammar.Grammar, auto *automaton.Automaton, opts Options) (*CompiledGrammar, automaton.Conflicts, error) {
	reader := gram.SymbolTable().Reader()

	termSyms := reader.TerminalSymbols()
	termID := make(map[symbol.Symbol]int, len(termSyms))
	terminals := make([]string, len(termSyms))
	termNameToID := make(map[string]int, len(termSyms))
	for i, sym := range termSyms {
		termID[sym] = i
		text, _ := reader.ToText(sym)
		terminals[i] = text
		termNameToID[text] = i
	}

	ntSyms := reader.NonTerminalSymbols()
	ntID := make(map[symbol.Symbol]int, len(ntSyms))
	nonTerminals := make([]string, len(ntSyms))
	transparent := make([]bool, len(ntSyms))
	for i, sym := range ntSyms {
		ntID[sym] = i
		text, _ := reader.ToText(sym)
		nonTerminals[i] = text
		transparent[i] = rule.IsTransparentName(text)
	}

	states := auto.States()
	pt := &ParsingTable{
		Shift:        make([]map[int]int, len(states)),
		GoTo:         make([]map[int]int, len(states)),
		Reduce:       make([]map[int]Reduction, len(states)),
		Expected:     make([][]int, len(states)),
		StateCount:   len(states),
		InitialState: auto.InitialState(),
		HaltingState: auto.HaltingState(),
	}

	for _, s := range states {
		shiftRow := map[int]int{}
		for sym, next := range auto.ShiftRow(s) {
			shiftRow[termID[sym]] = next
		}
		pt.Shift[s] = shiftRow

		gotoRow := map[int]int{}
		for sym, next := range auto.GotoRow(s) {
			gotoRow[ntID[sym]] = next
		}
		pt.GoTo[s] = gotoRow

		reduceRow := map[int]Reduction{}
		for sym, prod := range auto.ReduceRow(s) {
			reduceRow[termID[sym]] = Reduction{LHS: ntID[prod.LHS()], Length: prod.RHSLen()}
		}
		pt.Reduce[s] = reduceRow

		expected := auto.Expected(s)
		expectedIDs := make([]int, len(expected))
		for i, sym := range expected {
			expectedIDs[i] = termID[sym]
		}
		pt.Expected[s] = expectedIDs
	}

	cg := &CompiledGrammar{
		ParsingTable: pt,
		Terminals:    terminals,
		NonTerminals: nonTerminals,
		Transparent:  transparent,
		EOFSymbol:    termID[symbol.SymbolEOF],
		StartSymbol:  ntID[symbol.SymbolStart],
		termID:       termNameToID,
	}

	if opts.ReplaceNonTerminals {
		cg.NonTerminalIDMap = denseNonTerminalMap(nonTerminals)
	}

	return cg, auto.Conflicts, nil
}

// denseNonTerminalMap assigns a stable 0..k-1 numbering to nonterminal names
// in alphabetical order, independent of their internal symbol numbering.
func denseNonTerminalMap(names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.Strings(out)
	return out
}
