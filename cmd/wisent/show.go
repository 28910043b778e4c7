package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dekarrin/rosed"
	"github.com/spf13/cobra"

	"github.com/tsirbas/wisent/automaton"
	"github.com/tsirbas/wisent/symbol"
)

func init() {
	cmd := &cobra.Command{
		Use:     "show <grammar file path>",
		Short:   "Print the LR(1) automaton's states and their shift/goto/reduce actions",
		Example: `  wisent show grammar.wisent`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	b, err := buildGrammarFile(args[0])
	if err != nil {
		return err
	}

	reader := b.gram.SymbolTable().Reader()
	for _, st := range b.auto.States() {
		fmt.Fprintf(os.Stdout, "state %d\n", st)
		fmt.Fprintln(os.Stdout, kernelTable(b.auto, reader, st))
		fmt.Fprintln(os.Stdout, actionTable(b.auto, reader, st))
		fmt.Fprintln(os.Stdout)
	}

	if len(b.flict) > 0 {
		fmt.Fprintf(os.Stderr, "%d unresolved conflict(s):\n", len(b.flict))
		printConflicts(b.flict, b.gram)
	}
	return nil
}

func kernelTable(auto *automaton.Automaton, reader *symbol.SymbolTableReader, st int) string {
	rows := [][]string{{"item"}}
	for _, it := range auto.Kernel(st) {
		rows = append(rows, []string{itemText(reader, it.Production.LHS(), it.Production.RHS(), it.Dot)})
	}
	return rosed.Edit("").InsertTableOpts(0, rows, 100, rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}).String()
}

func itemText(reader *symbol.SymbolTableReader, lhs symbol.Symbol, rhs []symbol.Symbol, dot int) string {
	lhsName, _ := reader.ToText(lhs)
	s := lhsName + " ->"
	for i, sym := range rhs {
		if i == dot {
			s += " ."
		}
		s += " " + symName(reader, sym)
	}
	if dot == len(rhs) {
		s += " ."
	}
	return s
}

func actionTable(auto *automaton.Automaton, reader *symbol.SymbolTableReader, st int) string {
	rows := [][]string{{"on", "action"}}

	shift := auto.ShiftRow(st)
	terms := make([]symbol.Symbol, 0, len(shift))
	for t := range shift {
		terms = append(terms, t)
	}
	sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })
	for _, t := range terms {
		rows = append(rows, []string{symName(reader, t), fmt.Sprintf("shift %d", shift[t])})
	}

	gotoRow := auto.GotoRow(st)
	nts := make([]symbol.Symbol, 0, len(gotoRow))
	for nt := range gotoRow {
		nts = append(nts, nt)
	}
	sort.Slice(nts, func(i, j int) bool { return nts[i] < nts[j] })
	for _, nt := range nts {
		rows = append(rows, []string{symName(reader, nt), fmt.Sprintf("goto %d", gotoRow[nt])})
	}

	reduce := auto.ReduceRow(st)
	rterms := make([]symbol.Symbol, 0, len(reduce))
	for t := range reduce {
		rterms = append(rterms, t)
	}
	sort.Slice(rterms, func(i, j int) bool { return rterms[i] < rterms[j] })
	for _, t := range rterms {
		prod := reduce[t]
		rows = append(rows, []string{symName(reader, t), fmt.Sprintf("reduce %s", itemText(reader, prod.LHS(), prod.RHS(), prod.RHSLen()))})
	}

	return rosed.Edit("").InsertTableOpts(0, rows, 100, rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}).String()
}

func symName(reader *symbol.SymbolTableReader, s symbol.Symbol) string {
	if s.IsEOF() {
		return "<eof>"
	}
	name, _ := reader.ToText(s)
	return name
}
