// Package tester runs hand-written grammar test cases — a token stream
// plus the expected parse tree shape — through a compiled grammar's
// Driver, following vartan's own `vartan test` workflow of checking a
// grammar against a directory of example inputs rather than only unit
// tests of the generator's internals.
package tester

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tsirbas/wisent/driver"
	"github.com/tsirbas/wisent/spec"
)

// TestCase is one hand-written example: a token stream to feed the
// Driver and the parse tree shape it must produce. Test files are
// simple enough not to need their own lexer: each non-blank, non-'#'
// line is "terminal-name literal-text", and the expected tree is
// rendered the same way Tree.Format does, so a test file doubles as a
// human-readable fixture.
type TestCase struct {
	Tokens []driver.Token
	Tree   string
}

// TestCaseWithMetadata pairs a parsed TestCase with the file it came
// from, or the error that prevented reading it.
type TestCaseWithMetadata struct {
	Case     *TestCase
	FilePath string
	Error    error
}

// ListTestCases collects every test case file under path: path itself
// if it names a file, or every file in its tree if it names a
// directory. Errors reading an individual file are attached to its
// entry rather than aborting the whole listing, so `wisent test` can
// report every bad file in one run.
func ListTestCases(path string) []*TestCaseWithMetadata {
	fi, err := os.Stat(path)
	if err != nil {
		return []*TestCaseWithMetadata{{FilePath: path, Error: err}}
	}
	if !fi.IsDir() {
		c, err := parseTestCaseFile(path)
		return []*TestCaseWithMetadata{{Case: c, FilePath: path, Error: err}}
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return []*TestCaseWithMetadata{{FilePath: path, Error: err}}
	}
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	sort.Strings(names)

	var out []*TestCaseWithMetadata
	for _, name := range names {
		out = append(out, ListTestCases(filepath.Join(path, name))...)
	}
	return out
}

func parseTestCaseFile(path string) (*TestCase, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTestCase(string(b))
}

// ParseTestCase reads a test case's source text: a "tokens:" block
// (one "terminal text" pair per line) followed by a blank line and a
// "tree:" block (the expected tree, one indented line per node,
// matching the shape Tree.Format produces).
func ParseTestCase(src string) (*TestCase, error) {
	lines := strings.Split(src, "\n")

	var section string
	var toks []driver.Token
	var treeLines []string

	for i, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if trimmed == "tokens:" {
			section = "tokens"
			continue
		}
		if trimmed == "tree:" {
			section = "tree"
			continue
		}
		switch section {
		case "tokens":
			fields := strings.Fields(trimmed)
			if len(fields) == 0 {
				continue
			}
			term := fields[0]
			var payload []interface{}
			if len(fields) > 1 {
				payload = []interface{}{strings.Join(fields[1:], " ")}
			} else {
				payload = []interface{}{term}
			}
			toks = append(toks, driver.Token{Terminal: term, Payload: payload})
		case "tree":
			treeLines = append(treeLines, line)
		default:
			return nil, fmt.Errorf("line %d: expected 'tokens:' or 'tree:' section header", i+1)
		}
	}

	return &TestCase{Tokens: toks, Tree: strings.Join(treeLines, "\n")}, nil
}

// Result is the outcome of running one TestCase.
type Result struct {
	FilePath string
	Error    error
}

func (r *Result) String() string {
	if r.Error != nil {
		return fmt.Sprintf("FAIL %s: %v", r.FilePath, r.Error)
	}
	return fmt.Sprintf("PASS %s", r.FilePath)
}

// Tester runs a batch of TestCases through a single compiled grammar.
type Tester struct {
	Grammar *spec.CompiledGrammar
	Cases   []*TestCaseWithMetadata
}

// Run parses each case's tokens, compares the resulting tree's
// rendering against the case's expected tree text, and returns one
// Result per case, in the order the cases were given.
func (t *Tester) Run() []*Result {
	out := make([]*Result, len(t.Cases))
	for i, c := range t.Cases {
		out[i] = t.runOne(c)
	}
	return out
}

func (t *Tester) runOne(c *TestCaseWithMetadata) *Result {
	if c.Error != nil {
		return &Result{FilePath: c.FilePath, Error: c.Error}
	}

	p := driver.NewParser(t.Grammar)
	tree, err := p.Parse(driver.NewSliceTokenStream(c.Case.Tokens))
	if err != nil {
		if _, recovered := err.(*driver.ErrRecovered); !recovered {
			return &Result{FilePath: c.FilePath, Error: err}
		}
	}

	got := driver.Format(tree)
	want := strings.TrimSpace(c.Case.Tree)
	if strings.TrimSpace(got) != want {
		return &Result{FilePath: c.FilePath, Error: fmt.Errorf("tree mismatch:\n  want:\n%s\n  got:\n%s", indent(want), indent(got))}
	}
	return &Result{FilePath: c.FilePath}
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = "    " + l
	}
	return strings.Join(lines, "\n")
}
