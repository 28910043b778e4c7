package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wisent",
	Short: "Build a Pager-LR(1) parsing table from a grammar and drive it against input",
	Long: `wisent turns a textual context-free grammar into a deterministic
shift/reduce parsing table (Pager's weak-compatibility LR(1) construction)
and runs an error-recovering driver over token streams against it.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
