package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ib-77/ropchain/internal/cli"
)

var fanoutCmd = &cobra.Command{
	Use:   "fanout [text]",
	Short: "Measure text with parallel probes",
	Long: `Fanout runs independent probes over the text in parallel and reports
the ones that succeeded. Text is read from stdin when no argument is given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text := strings.Join(args, " ")
		if len(args) == 0 {
			data, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			text = string(data)
		}

		workers, _ := cmd.Flags().GetInt("workers")
		report, err := cli.Fanout(workers).Execute(cmd.Context(), text).Get()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, m := range report.Metrics {
			fmt.Fprintf(out, "%-6s %d\n", m.Name, m.Value)
		}
		if skipped := report.Probes - len(report.Metrics); skipped > 0 {
			fmt.Fprintf(out, "%d of %d probes failed\n", skipped, report.Probes)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fanoutCmd)

	fanoutCmd.Flags().Int("workers", 0, "Parallel probe limit (defaults to max_workers)")
}
