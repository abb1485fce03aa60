package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ib-77/ropchain/internal/cli"
	"github.com/ib-77/ropchain/internal/config"
	"github.com/ib-77/ropchain/internal/logging"
)

var app *cli.App

var rootCmd = &cobra.Command{
	Use:   "ropchain",
	Short: "Ropchain runs composable result pipelines",
	Long: `Ropchain composes serial, parallel, conditional and looping chains of
functions whose outcomes travel as results instead of exceptions.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(path)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
		}
		if cmd.Flags().Changed("metrics") {
			cfg.Metrics, _ = cmd.Flags().GetBool("metrics")
		}
		level, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}

		logger := logging.New(level, cmd.ErrOrStderr(), isTerminal(os.Stderr))
		if app, err = cli.NewApp(cfg, logger); err != nil {
			return err
		}
		cmd.SetContext(app.Context(cmd.Context()))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		return app.DumpMetrics(cmd.OutOrStdout())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "ropchain.yaml", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("metrics", false, "Print Prometheus metrics after the run")
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
