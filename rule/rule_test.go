package rule

import (
	"strings"
	"testing"

	"github.com/tsirbas/wisent/syntax"
)

func genRules(t *testing.T, src string) *Set {
	t.Helper()

	root, err := syntax.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	set, err := NewLoader().Load(root)
	if err != nil {
		t.Fatal(err)
	}
	return set
}

func bodyNames(body []*Elem) []string {
	names := make([]string, len(body))
	for i, e := range body {
		names[i] = e.Name
	}
	return names
}

func TestLoaderExpandsOptional(t *testing.T) {
	set := genRules(t, `s : a b? ;`)

	var main *Rule
	for _, r := range set.Rules {
		if r.LHS == "s" {
			main = r
		}
	}
	if main == nil {
		t.Fatal("no rule for s")
	}
	if len(main.Body) != 2 {
		t.Fatalf("unexpected body length: %v", bodyNames(main.Body))
	}
	if main.Body[0].Name != "a" {
		t.Fatalf("unexpected first element: %v", main.Body[0].Name)
	}

	opt := main.Body[1].Name
	var altBodies [][]string
	for _, r := range set.Rules {
		if r.LHS == opt {
			altBodies = append(altBodies, bodyNames(r.Body))
		}
	}
	if len(altBodies) != 2 {
		t.Fatalf("expected 2 alternatives for the synthetic optional, got %v", altBodies)
	}
}

func TestLoaderExpandsPlus(t *testing.T) {
	set := genRules(t, `s : a+ ;`)

	plusName := ""
	for _, r := range set.Rules {
		if r.LHS == "s" {
			plusName = r.Body[0].Name
		}
	}
	if plusName == "" {
		t.Fatal("no synthetic name produced for a+")
	}

	var recursive, base bool
	for _, r := range set.Rules {
		if r.LHS != plusName {
			continue
		}
		switch {
		case len(r.Body) == 2 && r.Body[0].Name == plusName && r.Body[1].Name == "a":
			recursive = true
		case len(r.Body) == 1 && r.Body[0].Name == "a":
			base = true
		}
	}
	if !recursive || !base {
		t.Fatalf("a+ expansion missing a recursive or base alternative")
	}
}

func TestOptimiserDedupsIdenticalSyntheticSets(t *testing.T) {
	set := genRules(t, `s : a? a? ;`)
	out := NewOptimiser().Optimise(set)

	names := map[string]bool{}
	for _, r := range out.Rules {
		if r.LHS != "s" {
			names[r.LHS] = true
		}
	}
	// Both a? occurrences expand to the same "a | <empty>" shape, so dedup
	// collapses them onto one synthetic nonterminal referenced twice from
	// s. With two references, that nonterminal is no longer a candidate
	// for inlining (inline only considers a single call site), so exactly
	// one synthetic nonterminal should survive dedup.
	if len(names) != 1 {
		t.Fatalf("expected exactly 1 deduped synthetic nonterminal, got: %v", names)
	}

	var sBody []string
	for _, r := range out.Rules {
		if r.LHS == "s" {
			sBody = bodyNames(r.Body)
		}
	}
	if len(sBody) != 2 || sBody[0] != sBody[1] {
		t.Fatalf("expected s's body to reference the same deduped nonterminal twice, got: %v", sBody)
	}
}

func TestOptimiserInlineProducesCartesianAlternatives(t *testing.T) {
	set := genRules(t, `s : (a b)? ;`)
	out := NewOptimiser().Optimise(set)

	var alts [][]string
	for _, r := range out.Rules {
		if r.LHS == "s" {
			alts = append(alts, bodyNames(r.Body))
		}
	}
	// (a b)? expands to a group (1 alternative, "a b") wrapped in an
	// optional (2 alternatives, the group or empty). The group's single
	// alternative always nets a token savings (k=1 means no duplication
	// cost at all), and once it's spliced into the optional, the
	// optional's own savings grow enough to clear its own R > A bar too,
	// so both inline away and s ends up with the 2 alternatives directly.
	if len(alts) != 2 {
		t.Fatalf("expected 2 inlined alternatives for s, got %v", alts)
	}
}

func TestOptimiserSkipsInlineWhenNotProfitable(t *testing.T) {
	set := genRules(t, `s : a? b ;`)
	out := NewOptimiser().Optimise(set)

	var optName string
	for _, r := range set.Rules {
		if r.LHS == "s" {
			optName = r.Body[0].Name
		}
	}

	var survived bool
	for _, r := range out.Rules {
		if r.LHS == optName {
			survived = true
		}
	}
	// a?'s synthetic nonterminal has one alternative of length 1 and one
	// empty alternative (R = 1), but s's body referencing it has length 2
	// ("a?" and "b"), so inlining would cost A = (2-1)*2 = 2 tokens. R is
	// not strictly greater than A, so inlining leaves it alone.
	if !survived {
		t.Fatalf("expected %s to survive as a separate rule, not be inlined", optName)
	}
}
