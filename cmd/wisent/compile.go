package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output              *string
	replaceNonTerminals *bool
}{}

var replaceNonTerminals bool

func init() {
	cmd := &cobra.Command{
		Use:     "compile <grammar file path>",
		Short:   "Compile a grammar into an LR(1) parsing table",
		Example: `  wisent compile grammar.wisent -o grammar.json`,
		Args:    cobra.ExactArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	compileFlags.replaceNonTerminals = cmd.Flags().Bool("replace-non-terminals", false, "renumber non-terminals to a dense id range in the output")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	replaceNonTerminals = *compileFlags.replaceNonTerminals

	b, err := buildGrammarFile(args[0])
	if err != nil {
		return err
	}

	if len(b.flict) > 0 {
		printConflicts(b.flict, b.gram)
		return fmt.Errorf("%d unresolved conflict(s)", len(b.flict))
	}

	out, err := json.MarshalIndent(b.cg, "", "  ")
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if *compileFlags.output != "" {
		f, err := os.Create(*compileFlags.output)
		if err != nil {
			return fmt.Errorf("cannot create output file %s: %w", *compileFlags.output, err)
		}
		defer f.Close()
		w = f
	}
	fmt.Fprintln(w, string(out))
	return nil
}
