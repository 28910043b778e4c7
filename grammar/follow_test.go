package grammar

import (
	"testing"

	"github.com/tsirbas/wisent/symbol"
)

type followCase struct {
	nonTerm string
	symbols []string
	eof     bool
}

func TestGenFollowSet(t *testing.T) {
	tests := []struct {
		caption string
		src     string
		follow  []followCase
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
			follow: []followCase{
				{nonTerm: "expr'", symbols: []string{}, eof: true},
				{nonTerm: "expr", symbols: []string{"+", ")"}, eof: true},
				{nonTerm: "term", symbols: []string{"+", "*", ")"}, eof: true},
				{nonTerm: "factor", symbols: []string{"+", "*", ")"}, eof: true},
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
			flw, err := genFollowSet(gram.productionSet, fst)
			if err != nil {
				t.Fatal(err)
			}

			for _, tc := range tt.follow {
				sym := genTestSymbol(t, gram, tc.nonTerm)

				actual, eof, err := flw.find(sym)
				if err != nil {
					t.Fatalf("failed to get a FOLLOW set; symbol: %v, error: %v", tc.nonTerm, err)
				}

				expected := map[symbol.Symbol]bool{}
				for _, s := range tc.symbols {
					expected[genTestSymbol(t, gram, s)] = true
				}

				testFollowSet(t, actual, eof, expected, tc.eof)
			}
		})
	}
}

func testFollowSet(t *testing.T, actual map[symbol.Symbol]bool, actualEOF bool, expected map[symbol.Symbol]bool, expectedEOF bool) {
	t.Helper()

	if actualEOF != expectedEOF {
		t.Errorf("eof is mismatched\nwant: %v\ngot: %v", expectedEOF, actualEOF)
	}
	if len(actual) != len(expected) {
		t.Fatalf("invalid FOLLOW set\nwant: %+v\ngot: %+v", expected, actual)
	}
	for sym := range expected {
		if !actual[sym] {
			t.Fatalf("invalid FOLLOW set\nwant: %+v\ngot: %+v", expected, actual)
		}
	}
}
