package rule

import (
	"sort"
	"strings"
)

// Optimiser removes the redundancy rule expansion creates: identical
// transparent rule-sets collapse into one, and transparent nonterminals
// referenced from a single call site are spliced in directly rather than
// kept as a separate production.
type Optimiser struct{}

// NewOptimiser creates an Optimiser.
func NewOptimiser() *Optimiser {
	return &Optimiser{}
}

// Optimise repeatedly deduplicates and inlines until neither pass changes
// the rule set.
func (o *Optimiser) Optimise(set *Set) *Set {
	cur := set
	for {
		deduped, changed1 := dedup(cur)
		inlined, changed2 := inline(deduped)
		cur = inlined
		if !changed1 && !changed2 {
			return cur
		}
	}
}

// signature canonicalizes a nonterminal's rule-set so that two
// differently-named but structurally identical transparent rule-sets
// compare equal.
func signature(bodies [][]*Elem) string {
	alts := make([]string, len(bodies))
	for i, body := range bodies {
		names := make([]string, len(body))
		for j, e := range body {
			names[j] = e.Name
		}
		alts[i] = strings.Join(names, " ")
	}
	sort.Strings(alts)
	return strings.Join(alts, "|")
}

func bodiesOf(set *Set, lhs string) [][]*Elem {
	var bodies [][]*Elem
	for _, r := range set.Rules {
		if r.LHS == lhs {
			bodies = append(bodies, r.Body)
		}
	}
	return bodies
}

// dedup merges transparent nonterminals whose rule-sets are structurally
// identical, rewriting every reference to the later one onto the first.
func dedup(set *Set) (*Set, bool) {
	seen := map[string]string{} // signature -> canonical LHS
	rename := map[string]string{}

	order := []string{}
	known := map[string]bool{}
	for _, r := range set.Rules {
		if r.Transparent && !known[r.LHS] {
			known[r.LHS] = true
			order = append(order, r.LHS)
		}
	}

	for _, lhs := range order {
		sig := signature(bodiesOf(set, lhs))
		if canon, ok := seen[sig]; ok {
			rename[lhs] = canon
		} else {
			seen[sig] = lhs
		}
	}

	if len(rename) == 0 {
		return set, false
	}

	out := &Set{Start: set.Start}
	for _, r := range set.Rules {
		if _, dropped := rename[r.LHS]; dropped {
			continue
		}
		out.addRule(renameRule(r, rename))
	}
	return out, true
}

func renameRule(r *Rule, rename map[string]string) *Rule {
	body := make([]*Elem, len(r.Body))
	for i, e := range r.Body {
		name := e.Name
		if to, ok := rename[name]; ok {
			name = to
		}
		body[i] = &Elem{Name: name, Override: e.Override, Pos: e.Pos}
	}
	return &Rule{LHS: r.LHS, Body: body, Transparent: r.Transparent, Pos: r.Pos}
}

// inline splices a transparent nonterminal's alternatives directly into
// its single call site, when doing so strictly decreases the total token
// count of the rule set: removing its own rule-set saves R tokens, the
// combined length of its own alternative bodies. Splicing duplicates the
// one rule that refers to it across each of its k alternatives, so the
// single call site's rule turns into k rules where there was one before;
// that costs A = (k-1) * (length of the calling rule's body). Inlining
// proceeds only when R > A; R == A (no net savings) leaves it alone too.
func inline(set *Set) (*Set, bool) {
	refCount := map[string]int{}
	callerLen := map[string]int{} // nonterminal name -> length of the one body referencing it
	for _, r := range set.Rules {
		for _, e := range r.Body {
			refCount[e.Name]++
			callerLen[e.Name] = len(r.Body)
		}
	}

	order := []string{}
	known := map[string]bool{}
	for _, r := range set.Rules {
		if r.Transparent && !known[r.LHS] {
			known[r.LHS] = true
			order = append(order, r.LHS)
		}
	}

	candidates := map[string]bool{}
	for _, lhs := range order {
		if refCount[lhs] != 1 {
			continue
		}
		bodies := bodiesOf(set, lhs)
		removed := 0
		for _, body := range bodies {
			removed += len(body)
		}
		added := (len(bodies) - 1) * callerLen[lhs]
		if removed > added {
			candidates[lhs] = true
		}
	}
	if len(candidates) == 0 {
		return set, false
	}

	out := &Set{Start: set.Start}
	changed := false
	for _, r := range set.Rules {
		if candidates[r.LHS] {
			// Its own rules disappear; they get spliced into the caller below.
			continue
		}
		spliced := spliceBody(r.Body, set, candidates)
		if len(spliced) != 1 || !sameBody(spliced[0], r.Body) {
			changed = true
		}
		for _, body := range spliced {
			out.addRule(&Rule{LHS: r.LHS, Body: body, Transparent: r.Transparent, Pos: r.Pos})
		}
	}
	return out, changed
}

// spliceBody expands every reference to a candidate nonterminal in body
// into the Cartesian product of its alternatives.
func spliceBody(body []*Elem, set *Set, candidates map[string]bool) [][]*Elem {
	for i, e := range body {
		if !candidates[e.Name] {
			continue
		}
		var out [][]*Elem
		for _, alt := range bodiesOf(set, e.Name) {
			repl := append(append(append([]*Elem{}, body[:i]...), alt...), body[i+1:]...)
			out = append(out, spliceBody(repl, set, candidates)...)
		}
		return out
	}
	return [][]*Elem{body}
}

func sameBody(a, b []*Elem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}
