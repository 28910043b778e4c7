package driver

import (
	"strings"
	"testing"

	"github.com/tsirbas/wisent/automaton"
	"github.com/tsirbas/wisent/grammar"
	"github.com/tsirbas/wisent/rule"
	"github.com/tsirbas/wisent/spec"
	"github.com/tsirbas/wisent/syntax"
)

func compileFromSrc(t *testing.T, src string) *spec.CompiledGrammar {
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
	auto, err := automaton.Build(gram)
	if err != nil {
		t.Fatalf("building automaton: %v", err)
	}
	cg, conflicts, err := spec.Compile(gram, auto, spec.Options{})
	if err != nil {
		t.Fatalf("compiling grammar: %v", err)
	}
	if len(conflicts) > 0 {
		t.Fatalf("unexpected conflicts: %v", conflicts)
	}
	return cg
}

func toks(terms ...string) []Token {
	out := make([]Token, len(terms))
	for i, term := range terms {
		out[i] = Token{Terminal: term, Payload: []interface{}{term}}
	}
	return out
}
