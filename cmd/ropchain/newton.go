package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ib-77/ropchain/internal/cli"
)

var newtonCmd = &cobra.Command{
	Use:   "newton",
	Short: "Approximate a square root with a Newton loop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		target, _ := cmd.Flags().GetFloat64("target")
		guess, _ := cmd.Flags().GetFloat64("guess")

		maxIterations := app.Config.Loop.MaxIterations
		if cmd.Flags().Changed("max") {
			maxIterations, _ = cmd.Flags().GetInt("max")
		}
		tolerance := app.Config.Loop.Tolerance
		if cmd.Flags().Changed("tolerance") {
			tolerance, _ = cmd.Flags().GetFloat64("tolerance")
		}
		if maxIterations < 1 {
			return fmt.Errorf("--max must be at least 1, got %d", maxIterations)
		}

		report, err := cli.RunNewton(cmd.Context(), target, guess, tolerance, maxIterations)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "sqrt(%g) ~ %.12g after %d iterations\n", target, report.Value, report.Iterations)
		if report.Exhausted {
			fmt.Fprintf(out, "stopped at the iteration limit (%d) before reaching tolerance %g\n", maxIterations, tolerance)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(newtonCmd)

	newtonCmd.Flags().Float64("target", 2, "Number to take the square root of")
	newtonCmd.Flags().Float64("guess", 1, "Initial guess")
	newtonCmd.Flags().Int("max", 0, "Iteration limit (defaults to loop.max_iterations)")
	newtonCmd.Flags().Float64("tolerance", 0, "Stop when |x*x - target| is within this (defaults to loop.tolerance)")
}
