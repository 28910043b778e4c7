package main

import (
	"fmt"
	"os"

	"github.com/tsirbas/wisent/automaton"
	"github.com/tsirbas/wisent/grammar"
	"github.com/tsirbas/wisent/rule"
	"github.com/tsirbas/wisent/spec"
	"github.com/tsirbas/wisent/syntax"
)

// built is everything a grammar file compiles down to: the analyzed
// grammar, its automaton, and the table spec.Compile emits from them.
// Every subcommand that needs more than the bare CompiledGrammar (show
// needs automaton state detail; describe needs the Grammar's FIRST/
// FOLLOW/nullable tables) starts from this.
type built struct {
	gram  *grammar.Grammar
	auto  *automaton.Automaton
	cg    *spec.CompiledGrammar
	flict automaton.Conflicts
}

func buildGrammarFile(path string) (*built, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open grammar file %s: %w", path, err)
	}
	defer f.Close()

	root, err := syntax.Parse(f)
	if err != nil {
		return nil, err
	}

	set, err := rule.NewLoader().Load(root)
	if err != nil {
		return nil, err
	}
	set = rule.NewOptimiser().Optimise(set)

	gram, err := grammar.Build(set)
	if err != nil {
		return nil, err
	}

	auto, err := automaton.Build(gram)
	if err != nil {
		return nil, err
	}

	cg, conflicts, err := spec.Compile(gram, auto, spec.Options{ReplaceNonTerminals: replaceNonTerminals})
	if err != nil {
		return nil, err
	}

	return &built{gram: gram, auto: auto, cg: cg, flict: conflicts}, nil
}

// printConflicts writes every unresolved conflict to stderr, following
// spec.md §7: conflicts are collected and reported together, never one
// at a time.
func printConflicts(cs automaton.Conflicts, gram *grammar.Grammar) {
	reader := gram.SymbolTable().Reader()
	for _, c := range cs {
		fmt.Fprintln(os.Stderr, c.Describe(reader))
	}
}
