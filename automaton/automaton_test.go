package automaton

import (
	"testing"

	"github.com/tsirbas/wisent/symbol"
)

func TestBuildAcceptsSimpleExprGrammar(t *testing.T) {
	gram := buildFromSrc(t, `
expr : expr "+" term
     | term
     ;
term : id
     ;
`)

	a, err := Build(gram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.StateCount() == 0 {
		t.Fatal("expected at least one state")
	}
	if len(a.Conflicts) != 0 {
		t.Fatalf("expected no conflicts, got: %v", a.Conflicts)
	}

	id := symOf(t, gram, "id")
	plus := symOf(t, gram, "+")

	next, ok := a.Shift(a.InitialState(), id)
	if !ok {
		t.Fatal("expected a shift on id from the initial state")
	}

	if _, ok := a.Shift(next, plus); !ok {
		// After shifting id and reducing to term/expr, a "+" shift should
		// eventually be reachable somewhere in the automaton; absence right
		// here isn't itself a failure since a reduce may intervene first.
		if _, reduces := a.Reduce(next, plus); !reduces {
			t.Fatal("expected either a shift or a reduce on + immediately after id")
		}
	}
}

func TestKernelAndExpectedAreConsistent(t *testing.T) {
	gram := buildFromSrc(t, `
expr : id "+" id
     ;
`)
	a, err := Build(gram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, st := range a.States() {
		k := a.Kernel(st)
		if len(k) == 0 {
			t.Fatalf("state %d has an empty kernel", st)
		}
		expected := a.Expected(st)
		shiftRow := a.ShiftRow(st)
		reduceRow := a.ReduceRow(st)
		for _, sym := range expected {
			_, canShift := shiftRow[sym]
			_, canReduce := reduceRow[sym]
			if !canShift && !canReduce {
				t.Fatalf("state %d: expected symbol %v has neither a shift nor a reduce entry", st, sym)
			}
		}
	}
}

func TestHaltingStateIsReachedOnAccept(t *testing.T) {
	gram := buildFromSrc(t, `
expr : id
     ;
`)
	a, err := Build(gram)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	id := symOf(t, gram, "id")
	expr := symOf(t, gram, "expr")

	s1, ok := a.Shift(a.InitialState(), id)
	if !ok {
		t.Fatal("expected a shift on id from the initial state")
	}
	if _, ok := a.Reduce(s1, symbol.SymbolEOF); !ok {
		t.Fatal("expected a reduce of expr -> id on <eof> lookahead")
	}

	// reducing expr->id pops back to the initial state and goes to expr.
	afterGoto, ok := a.Goto(a.InitialState(), expr)
	if !ok {
		t.Fatal("expected a goto on expr from the initial state")
	}
	halting, ok := a.Shift(afterGoto, symbol.SymbolEOF)
	if !ok {
		t.Fatal("expected a shift on <eof> after reducing to expr")
	}
	if halting != a.HaltingState() {
		t.Fatalf("shift on <eof> led to state %d, want halting state %d", halting, a.HaltingState())
	}
}
