package automaton

import "testing"

func TestDanglingElseIsAnUnresolvedShiftReduceConflict(t *testing.T) {
	gram := buildFromSrc(t, `
stmt : "if" id "then" stmt
     | "if" id "then" stmt "else" stmt
     | id
     ;
`)

	a, err := Build(gram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Conflicts) != 1 {
		t.Fatalf("expected exactly 1 conflict, got %d: %v", len(a.Conflicts), a.Conflicts)
	}
	c := a.Conflicts[0]
	if c.Kind != ShiftReduce {
		t.Fatalf("expected a shift/reduce conflict, got %v", c.Kind)
	}

	reader := gram.SymbolTable().Reader()
	desc := c.Describe(reader)
	if desc == "" {
		t.Fatal("expected a non-empty conflict description")
	}
}

func TestOverrideMarkerResolvesDanglingElse(t *testing.T) {
	gram := buildFromSrc(t, `
stmt : "if" id "then" stmt
     | "if" id "then" stmt !"else" stmt
     | id
     ;
`)

	a, err := Build(gram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Conflicts) != 0 {
		t.Fatalf("expected the override marker to resolve the conflict, got: %v", a.Conflicts)
	}
}
