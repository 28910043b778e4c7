package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dekarrin/rosed"
	"github.com/spf13/cobra"

	"github.com/tsirbas/wisent/grammar"
	"github.com/tsirbas/wisent/symbol"
)

func init() {
	cmd := &cobra.Command{
		Use:     "describe <grammar file path>",
		Short:   "Print nullable/FIRST/FOLLOW sets and a conflict summary for a grammar",
		Example: `  wisent describe grammar.wisent`,
		Args:    cobra.ExactArgs(1),
		RunE:    runDescribe,
	}
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	b, err := buildGrammarFile(args[0])
	if err != nil {
		return err
	}

	reader := b.gram.SymbolTable().Reader()
	nonTerms := reader.NonTerminalSymbols()
	sort.Slice(nonTerms, func(i, j int) bool { return nonTerms[i] < nonTerms[j] })

	rows := make([][]string, 0, len(nonTerms))
	for _, nt := range nonTerms {
		name, _ := reader.ToText(nt)
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%v", b.gram.Nullable(nt)),
			joinSymbols(reader, firstOf(b.gram, nt)),
			joinSymbols(reader, followOf(b.gram, nt)),
		})
	}

	table := rosed.Edit("").InsertTableOpts(0, append([][]string{{"symbol", "nullable", "FIRST", "FOLLOW"}}, rows...), 100, rosed.Options{
		TableHeaders:             true,
		NoTrailingLineSeparators: true,
	}).String()

	fmt.Fprintf(os.Stdout, "States: %d (initial state %d, halting state %d)\n\n", b.auto.StateCount(), b.auto.InitialState(), b.auto.HaltingState())
	fmt.Fprintln(os.Stdout, table)

	if len(b.flict) == 0 {
		fmt.Fprintln(os.Stdout, "\nNo conflict was detected.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "\n%d conflict(s) detected:\n", len(b.flict))
	for _, c := range b.flict {
		fmt.Fprintln(os.Stdout, c.Describe(reader))
	}
	return fmt.Errorf("%d unresolved conflict(s)", len(b.flict))
}

// firstOf unions FIRST over every alternative headed by nt, since
// Grammar.First is keyed by (production, dot) rather than exposing a
// symbol's own FIRST set directly.
func firstOf(gram *grammar.Grammar, nt symbol.Symbol) []symbol.Symbol {
	prods, _ := gram.Productions().ByLHS(nt)
	set := map[symbol.Symbol]struct{}{}
	for _, prod := range prods {
		syms, _, err := gram.First(prod, 0)
		if err != nil {
			continue
		}
		for s := range syms {
			set[s] = struct{}{}
		}
	}
	return sortedSet(set)
}

func followOf(gram *grammar.Grammar, nt symbol.Symbol) []symbol.Symbol {
	syms, eof, err := gram.Follow(nt)
	if err != nil {
		return nil
	}
	set := map[symbol.Symbol]struct{}{}
	for s := range syms {
		set[s] = struct{}{}
	}
	if eof {
		set[symbol.SymbolEOF] = struct{}{}
	}
	return sortedSet(set)
}

func sortedSet(set map[symbol.Symbol]struct{}) []symbol.Symbol {
	out := make([]symbol.Symbol, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func joinSymbols(reader *symbol.SymbolTableReader, syms []symbol.Symbol) string {
	names := make([]string, len(syms))
	for i, s := range syms {
		if s.IsEOF() {
			names[i] = "<eof>"
			continue
		}
		names[i], _ = reader.ToText(s)
	}
	s := ""
	for i, n := range names {
		if i > 0 {
			s += ", "
		}
		s += n
	}
	return s
}
