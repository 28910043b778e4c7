package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/tsirbas/wisent/driver"
	"github.com/tsirbas/wisent/spec"
)

func init() {
	cmd := &cobra.Command{
		Use:     "repl <grammar file path>",
		Short:   "Interactively feed typed token lists through the driver",
		Example: `  wisent repl grammar.wisent`,
		Args:    cobra.ExactArgs(1),
		RunE:    runRepl,
	}
	rootCmd.AddCommand(cmd)
}

// runRepl compiles the grammar once, then repeatedly reads a line of
// whitespace-separated "terminal[:payload]" tokens, parses the accumulated
// token list so far from scratch, and prints the shift/reduce trace driver's
// Parser produces along the way. Starting over each line rather than
// resuming mid-parse keeps the REPL's state trivial to reason about and
// mirrors `wisent test`'s one-shot-per-case model.
func runRepl(cmd *cobra.Command, args []string) error {
	b, err := buildGrammarFile(args[0])
	if err != nil {
		return err
	}
	if len(b.flict) > 0 {
		printConflicts(b.flict, b.gram)
		return fmt.Errorf("%d unresolved conflict(s)", len(b.flict))
	}

	rl, err := readline.NewEx(&readline.Config{Prompt: "wisent> "})
	if err != nil {
		return fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(cmd.OutOrStdout(), "enter whitespace-separated tokens (terminal or terminal:payload); Ctrl-D to quit")

	var toks []driver.Token
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "reset" {
			toks = nil
			fmt.Fprintln(cmd.OutOrStdout(), "token list cleared")
			continue
		}

		for _, field := range strings.Fields(line) {
			term, payload := field, field
			if idx := strings.IndexByte(field, ':'); idx >= 0 {
				term, payload = field[:idx], field[idx+1:]
			}
			toks = append(toks, driver.Token{Terminal: term, Payload: []interface{}{payload}})
		}

		runTrace(cmd, b.cg, toks)
	}
}

func runTrace(cmd *cobra.Command, cg *spec.CompiledGrammar, toks []driver.Token) {
	out := cmd.OutOrStdout()
	p := driver.NewParser(cg, driver.WithTrace(func(ev driver.TraceEvent) {
		switch {
		case ev.Shifted != nil:
			fmt.Fprintf(out, "  shift %-12s -> state %d\n", ev.Shifted.Terminal, ev.State)
		case ev.Reduced != nil:
			fmt.Fprintf(out, "  reduce (lhs=%d len=%d) -> state %d\n", ev.Reduced.LHS, ev.Reduced.Length, ev.State)
		}
	}))

	tree, err := p.Parse(driver.NewSliceTokenStream(toks))
	switch e := err.(type) {
	case nil:
		fmt.Fprintln(out, driver.Format(tree))
	case *driver.ErrRecovered:
		fmt.Fprintln(out, driver.Format(tree))
		fmt.Fprintf(out, "recovered from %d error(s):\n", len(e.Errors))
		for _, perr := range e.Errors {
			fmt.Fprintf(out, "  %v\n", perr)
		}
	case *driver.ErrRecoveryFailed:
		fmt.Fprintf(out, "parse failed after %d error(s):\n", len(e.Errors))
		for _, perr := range e.Errors {
			fmt.Fprintf(out, "  %v\n", perr)
		}
	default:
		fmt.Fprintf(out, "error: %v\n", err)
	}
}
