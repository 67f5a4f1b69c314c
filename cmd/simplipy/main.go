// Command simplipy runs and simplifies programs from the command line,
// without the HTTP server.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/PraneethJain/simplipy-backend/internal/simplipy/interp"
	"github.com/PraneethJain/simplipy-backend/internal/simplipy/simplify"
	"github.com/PraneethJain/simplipy-backend/internal/simplipy/syntax"
)

const defaultMaxSteps = 100000

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "simplipy",
		Short:         "Run and simplify SimpliPy programs",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newSimplifyCmd(), newRunCmd(), newTraceCmd())
	return root
}

func newSimplifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "simplify FILE",
		Short: "Rewrite a program into the executable core and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			simplified, err := simplify.Source(string(code))
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), simplified)
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var maxSteps int

	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run a program to completion and print the final state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := load(args[0])
			if err != nil {
				return err
			}

			if err := state.Run(maxSteps); err != nil {
				return err
			}
			return printSnapshot(cmd, state.Snapshot())
		},
	}
	cmd.Flags().IntVar(&maxSteps, "max-steps", defaultMaxSteps, "abort after this many instructions")
	return cmd
}

func newTraceCmd() *cobra.Command {
	var maxSteps int

	cmd := &cobra.Command{
		Use:   "trace FILE",
		Short: "Run a program and print the state after every step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := load(args[0])
			if err != nil {
				return err
			}

			if err := printSnapshot(cmd, state.Snapshot()); err != nil {
				return err
			}
			for i := 0; i < maxSteps && !state.Finished(); i++ {
				if err := state.Step(); err != nil {
					return err
				}
				if err := printSnapshot(cmd, state.Snapshot()); err != nil {
					return err
				}
			}
			if !state.Finished() {
				return fmt.Errorf("program did not finish within %d steps", maxSteps)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&maxSteps, "max-steps", defaultMaxSteps, "abort after this many instructions")
	return cmd
}

// load runs a file through the simplify-parse-compile pipeline and seeds
// the initial state.
func load(path string) (*interp.State, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	simplified, err := simplify.Source(string(code))
	if err != nil {
		return nil, err
	}

	mod, err := syntax.Parse(simplified)
	if err != nil {
		return nil, fmt.Errorf("parse simplified program: %w", err)
	}

	prog, err := interp.Compile(mod)
	if err != nil {
		return nil, err
	}

	return interp.NewState(prog)
}

func printSnapshot(cmd *cobra.Command, snap *interp.Snapshot) error {
	out, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
