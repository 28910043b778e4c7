package grammar

import (
	"strings"
	"testing"

	"github.com/tsirbas/wisent/rule"
	"github.com/tsirbas/wisent/symbol"
	"github.com/tsirbas/wisent/syntax"
)

// genTestGrammar compiles src (a grammar-file source, already using the
// synthetic fresh-name-free surface, i.e. no glob operators) straight to
// a Grammar, skipping rule optimization so production numbers stay
// predictable in tests.
func genTestGrammar(t *testing.T, src string) *Grammar {
	t.Helper()

	root, err := syntax.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("failed to parse test grammar: %v", err)
	}
	set, err := rule.NewLoader().Load(root)
	if err != nil {
		t.Fatalf("failed to load rules: %v", err)
	}
	gram, err := Build(set)
	if err != nil {
		t.Fatalf("failed to build grammar: %v", err)
	}
	return gram
}

func genTestSymbol(t *testing.T, gram *Grammar, text string) symbol.Symbol {
	t.Helper()

	sym, ok := gram.symbolTable.Reader().ToSymbol(text)
	if !ok {
		t.Fatalf("symbol was not found: %v", text)
	}
	return sym
}
