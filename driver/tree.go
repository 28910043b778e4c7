package driver

import (
	"fmt"
	"strings"
)

// Tree is a parse-tree node: a tagged variant of Leaf(terminal, payload) or
// Node(head, children), per spec.md §4.4 "Tree shape". Head is empty for
// leaves, which is how IsLeaf distinguishes the two without a separate kind
// field — spec.md §9 calls for a transparency flag precomputed on the head
// rather than a string comparison per reduce; transparent is that flag.
type Tree struct {
	Terminal    string
	Payload     []interface{}
	Head        string
	transparent bool
	Children    []*Tree
}

// Leaf builds a terminal tree node carrying a token's payload verbatim.
func Leaf(terminal string, payload []interface{}) *Tree {
	return &Tree{Terminal: terminal, Payload: payload}
}

// Node builds an interior tree node. transparent marks a head whose name
// begins with `_` (an auto-generated nonterminal): such nodes are spliced
// out of their parent during reduction rather than appearing in the final
// tree.
func Node(head string, transparent bool, children []*Tree) *Tree {
	return &Tree{Head: head, transparent: transparent, Children: children}
}

// IsLeaf reports whether t is a terminal leaf rather than an interior node.
func (t *Tree) IsLeaf() bool {
	return t.Head == ""
}

// Transparent reports whether t's own node should be spliced into its
// parent rather than appear in the tree.
func (t *Tree) Transparent() bool {
	return t.transparent
}

// Leaves returns every terminal leaf under t, in left-to-right order,
// ignoring transparent splicing — spec.md §8's round-trip property compares
// this sequence against the accepted input token stream.
func (t *Tree) Leaves() []Token {
	if t.IsLeaf() {
		return []Token{{Terminal: t.Terminal, Payload: t.Payload}}
	}
	var out []Token
	for _, c := range t.Children {
		out = append(out, c.Leaves()...)
	}
	return out
}

// Format renders t as an indented outline: one line per node, terminals
// shown as their name and payload, interior nodes as their head name with
// nested children, for the diagnostic dumps `wisent repl`/`wisent test`
// print and for tester.TestCase's expected-tree fixtures. A nil tree (a
// failed parse with no recovery) renders as "<no tree>".
func Format(t *Tree) string {
	if t == nil {
		return "<no tree>"
	}
	var b strings.Builder
	writeTree(&b, t, 0)
	return strings.TrimRight(b.String(), "\n")
}

func writeTree(b *strings.Builder, t *Tree, depth int) {
	indent := strings.Repeat("  ", depth)
	if t.IsLeaf() {
		fmt.Fprintf(b, "%s%s %v\n", indent, t.Terminal, t.Payload)
		return
	}
	fmt.Fprintf(b, "%s%s\n", indent, t.Head)
	for _, c := range t.Children {
		writeTree(b, c, depth+1)
	}
}

// spliceChildren expands any transparent child in place, replacing it with
// its own children, preserving left-to-right order of ground symbols
// (spec.md §4.4 "Tree shape").
func spliceChildren(children []*Tree) []*Tree {
	var out []*Tree
	for _, c := range children {
		if !c.IsLeaf() && c.transparent {
			out = append(out, spliceChildren(c.Children)...)
		} else {
			out = append(out, c)
		}
	}
	return out
}
