package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tsirbas/wisent/tester"
)

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <test file path>|<test directory path>",
		Short:   "Run hand-written token/tree test cases against a grammar",
		Example: `  wisent test grammar.wisent testdata/`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	b, err := buildGrammarFile(args[0])
	if err != nil {
		return fmt.Errorf("cannot build grammar: %w", err)
	}
	if len(b.flict) > 0 {
		printConflicts(b.flict, b.gram)
		return fmt.Errorf("%d unresolved conflict(s)", len(b.flict))
	}

	cs := tester.ListTestCases(args[1])
	errOccurred := false
	for _, c := range cs {
		if c.Error != nil {
			fmt.Fprintf(os.Stderr, "failed to read test case %v: %v\n", c.FilePath, c.Error)
			errOccurred = true
		}
	}
	if errOccurred {
		return errors.New("cannot run test")
	}

	t := &tester.Tester{Grammar: b.cg, Cases: cs}
	rs := t.Run()
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("test failed")
	}
	return nil
}
