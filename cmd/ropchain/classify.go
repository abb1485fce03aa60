package main

import (
	"bufio"
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ib-77/ropchain/internal/cli"
	"github.com/ib-77/ropchain/pkg/rop/solo"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [reply...]",
	Short: "Route model replies by their difficulty score",
	Long: `Classify decodes the JSON object in each reply and routes it by its
"difficulty" field (0 to 3). Replies are read from stdin, one per line,
when none are given as arguments. Replies are classified concurrently up
to max_workers at a time; answers are printed as JSON lines in input order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		replies := args
		if len(replies) == 0 {
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				if line := strings.TrimSpace(scanner.Text()); line != "" {
					replies = append(replies, line)
				}
			}
			if err := scanner.Err(); err != nil {
				return err
			}
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		var encodeErr error
		for i, res := range cli.Classify(cmd.Context(), replies) {
			solo.DoubleTee(cmd.Context(), res,
				func(_ context.Context, answer cli.Answer) {
					if encodeErr == nil {
						encodeErr = enc.Encode(answer)
					}
				},
				func(_ context.Context, err error) {
					app.Logger.Error("reply not classified", "line", i+1, "err", err)
				},
				func(_ context.Context, err error) {
					app.Logger.Warn("reply skipped", "line", i+1, "err", err)
				})
		}
		if encodeErr != nil {
			return encodeErr
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
