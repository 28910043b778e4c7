package driver

import "testing"

func TestParseAcceptsValidInput(t *testing.T) {
	cg := compileFromSrc(t, `
expr : expr "+" term
     | term
     ;
term : id
     ;
`)

	p := NewParser(cg)
	tree, err := p.Parse(NewSliceTokenStream(toks("id", "+", "id", "+", "id")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tree == nil {
		t.Fatal("expected a non-nil tree")
	}

	leaves := tree.Leaves()
	if len(leaves) != 5 {
		t.Fatalf("unexpected leaf count; want: 5, got: %v", len(leaves))
	}
	for i, want := range []string{"id", "+", "id", "+", "id"} {
		if leaves[i].Terminal != want {
			t.Fatalf("leaf %d: want %q, got %q", i, want, leaves[i].Terminal)
		}
	}
}

func TestParseEmptyInputOnNullableGrammar(t *testing.T) {
	cg := compileFromSrc(t, `
list : item*
     ;
item : id
     ;
`)

	p := NewParser(cg)
	tree, err := p.Parse(NewSliceTokenStream(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Leaves()) != 0 {
		t.Fatalf("expected no leaves, got %v", tree.Leaves())
	}
}

func TestParseTransparentGroupIsSpliced(t *testing.T) {
	cg := compileFromSrc(t, `
list : item ( "," item )*
     ;
item : id
     ;
`)

	p := NewParser(cg)
	tree, err := p.Parse(NewSliceTokenStream(toks("id", ",", "id", ",", "id")))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if tree.IsLeaf() {
		t.Fatal("expected an interior node")
	}
	for _, c := range tree.Children {
		if !c.IsLeaf() && c.Transparent() {
			t.Fatalf("transparent child %v leaked into the tree", c.Head)
		}
	}
}

func TestParseRecoversFromMissingOperator(t *testing.T) {
	cg := compileFromSrc(t, `
expr : id "+" id
     ;
`)

	p := NewParser(cg)
	tree, err := p.Parse(NewSliceTokenStream(toks("id", "id")))
	if _, ok := err.(*ErrRecovered); !ok {
		t.Fatalf("expected *ErrRecovered, got: %v (%T)", err, err)
	}
	leaves := tree.Leaves()
	want := []string{"id", "+", "id"}
	if len(leaves) != len(want) {
		t.Fatalf("unexpected leaf count; want: %v, got: %v", want, leaves)
	}
	for i, w := range want {
		if leaves[i].Terminal != w {
			t.Fatalf("leaf %d: want %q, got %q", i, w, leaves[i].Terminal)
		}
	}
}

func TestParseStopsImmediatelyAtMaxErrors(t *testing.T) {
	cg := compileFromSrc(t, `
expr : id "+" id
     ;
`)

	p := NewParser(cg, WithMaxErrors(1))
	_, err := p.Parse(NewSliceTokenStream(toks("bogus")))
	rf, ok := err.(*ErrRecoveryFailed)
	if !ok {
		t.Fatalf("expected *ErrRecoveryFailed, got: %v (%T)", err, err)
	}
	if len(rf.Errors) != 1 {
		t.Fatalf("expected exactly 1 collected error, got: %v", len(rf.Errors))
	}
}

func TestParseTraceReportsShiftsAndReduces(t *testing.T) {
	cg := compileFromSrc(t, `
expr : id "+" id
     ;
`)

	var shifts, reduces int
	p := NewParser(cg, WithTrace(func(ev TraceEvent) {
		switch {
		case ev.Shifted != nil:
			shifts++
		case ev.Reduced != nil:
			reduces++
		}
	}))

	if _, err := p.Parse(NewSliceTokenStream(toks("id", "+", "id"))); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shifts == 0 {
		t.Error("expected at least one shift event")
	}
	if reduces == 0 {
		t.Error("expected at least one reduce event")
	}
}
