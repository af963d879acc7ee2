package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cashflow/internal/cli"
	"cashflow/internal/ledger"
	"cashflow/internal/log"
)

var version = "dev"

// env is what PersistentPreRunE opens for the subcommands.
type env struct {
	app     *cli.App
	tracker *ledger.Tracker
}

func newRootCmd(e *env) *cobra.Command {
	var envFile, logLevel string

	root := &cobra.Command{
		Use:   "cashflow",
		Short: "Personal finance tracker: income, expenses, bills, debt and monthly budgets",
		Long: `cashflow records income, expenses, bills and debt payments, compares them
with monthly budgets and serves the dashboard API.

Configuration comes from the environment (or a .env file): DATA_BACKEND,
SQLITE_DB_PATH, AMQP_URL, LOG_LEVEL and friends.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return e.open(cmd, envFile, logLevel)
		},
	}

	root.PersistentFlags().StringVar(&envFile, "env-file", "", "env file to load (default: .env when present)")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")

	root.AddCommand(serveCmd(e))
	root.AddCommand(summaryCmd(e))
	root.AddCommand(listCmd(e))
	root.AddCommand(addCmd(e))
	root.AddCommand(deleteCmd(e))
	root.AddCommand(budgetsCmd(e))
	root.AddCommand(exportCmd(e))
	root.AddCommand(importCmd(e))
	root.AddCommand(clearCmd(e))
	root.AddCommand(versionCmd())
	return root
}

func (e *env) open(cmd *cobra.Command, envFile, logLevel string) error {
	if cmd.Annotations["skipBackend"] == "true" {
		return nil
	}
	if envFile != "" {
		cli.LoadEnvFile(envFile)
	} else {
		cli.LoadEnvFile()
	}

	cfg, err := cli.LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Logs go to stderr so command output stays clean.
	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		Component: log.ComponentCLI,
		Output:    cmd.ErrOrStderr(),
	})
	log.SetDefault(logger)

	app, err := cli.Open(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	e.app = app

	tracker, err := app.Tracker(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	e.tracker = tracker
	return nil
}

func (e *env) close() {
	if e.app != nil {
		e.app.Close()
		e.app = nil
	}
	e.tracker = nil
}

// execute runs the CLI with args and releases the backend afterwards.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	e := &env{}
	defer e.close()

	root := newRootCmd(e)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the version",
		Annotations: map[string]string{"skipBackend": "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "cashflow", version)
		},
	}
}

func main() {
	ctx, stop := cli.SignalContext(context.Background())
	err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
