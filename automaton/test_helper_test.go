package automaton

import (
	"strings"
	"testing"

	"github.com/tsirbas/wisent/grammar"
	"github.com/tsirbas/wisent/rule"
	"github.com/tsirbas/wisent/symbol"
	"github.com/tsirbas/wisent/syntax"
)

func buildFromSrc(t *testing.T, src string) *grammar.Grammar {
	t.Helper()

	root, err := syntax.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("parsing grammar source: %v", err)
	}
	set, err := rule.NewLoader().Load(root)
	if err != nil {
		t.Fatalf("loading rules: %v", err)
	}
	set = rule.NewOptimiser().Optimise(set)
	gram, err := grammar.Build(set)
	if err != nil {
		t.Fatalf("building grammar: %v", err)
	}
	return gram
}

func symOf(t *testing.T, gram *grammar.Grammar, text string) symbol.Symbol {
	t.Helper()
	sym, ok := gram.SymbolTable().Reader().ToSymbol(text)
	if !ok {
		t.Fatalf("no symbol named %q", text)
	}
	return sym
}
