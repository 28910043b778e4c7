package grammar

import (
	"testing"

	"github.com/tsirbas/wisent/symbol"
)

type firstCase struct {
	lhs     string
	num     int
	dot     int
	symbols []string
	empty   bool
}

func TestGenFirstSet(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		first   []firstCase
	}{
		{
			caption: "productions contain only non-empty productions",
			src: `
expr : expr "+" term
     | term
     ;
term : term "*" factor
     | factor
     ;
factor : "(" expr ")"
     | id
     ;
id : "id" ;
`,
			first: []firstCase{
				{lhs: "expr'", num: 0, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "expr", num: 0, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "expr", num: 0, dot: 1, symbols: []string{"+"}},
				{lhs: "expr", num: 0, dot: 2, symbols: []string{"(", "id"}},
				{lhs: "expr", num: 1, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "term", num: 0, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "term", num: 0, dot: 1, symbols: []string{"*"}},
				{lhs: "term", num: 0, dot: 2, symbols: []string{"(", "id"}},
				{lhs: "term", num: 1, dot: 0, symbols: []string{"(", "id"}},
				{lhs: "factor", num: 0, dot: 0, symbols: []string{"("}},
				{lhs: "factor", num: 0, dot: 1, symbols: []string{"(", "id"}},
				{lhs: "factor", num: 0, dot: 2, symbols: []string{")"}},
				{lhs: "factor", num: 1, dot: 0, symbols: []string{"id"}},
			},
		},
		{
			caption: "a production contains an empty alternative",
			src: `
s : foo
  ;
foo : bar
    |
    ;
bar : "bar" ;
`,
			first: []firstCase{
				{lhs: "s'", num: 0, dot: 0, symbols: []string{"bar"}, empty: true},
				{lhs: "s", num: 0, dot: 0, symbols: []string{"bar"}, empty: true},
				{lhs: "foo", num: 0, dot: 0, symbols: []string{"bar"}},
				{lhs: "foo", num: 1, dot: 0, symbols: []string{}, empty: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.caption, func(t *testing.T) {
			gram := genTestGrammar(t, tt.src)
			fst, err := genFirstSet(gram.productionSet)
			if err != nil {
				t.Fatal(err)
			}

			for _, tc := range tt.first {
				lhsSym := genTestSymbol(t, gram, tc.lhs)

				prods, ok := gram.productionSet.ByLHS(lhsSym)
				if !ok {
					t.Fatalf("a production was not found; LHS: %v", tc.lhs)
				}

				actual, empty, err := fst.find(prods[tc.num], tc.dot)
				if err != nil {
					t.Fatalf("failed to get a FIRST set; LHS: %v, num: %v, dot: %v, error: %v", tc.lhs, tc.num, tc.dot, err)
				}

				expected := map[symbol.Symbol]bool{}
				for _, sym := range tc.symbols {
					expected[genTestSymbol(t, gram, sym)] = true
				}

				testFirstSet(t, actual, empty, expected, tc.empty)
			}
		})
	}
}

func testFirstSet(t *testing.T, actual map[symbol.Symbol]bool, actualEmpty bool, expected map[symbol.Symbol]bool, expectedEmpty bool) {
	t.Helper()

	if actualEmpty != expectedEmpty {
		t.Errorf("empty is mismatched\nwant: %v\ngot: %v", expectedEmpty, actualEmpty)
	}
	if len(actual) != len(expected) {
		t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected, actual)
	}
	for sym := range expected {
		if !actual[sym] {
			t.Fatalf("invalid FIRST set\nwant: %+v\ngot: %+v", expected, actual)
		}
	}
}
