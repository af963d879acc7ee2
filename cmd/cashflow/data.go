package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"cashflow/internal/ledger"
)

func exportCmd(e *env) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every transaction and the budgets to a JSON document",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := e.tracker.Apply(cmd.Context(), ledger.Export{})
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			if output == "-" {
				_, err := cmd.OutOrStdout().Write(res.Document)
				return err
			}
			path := output
			if path == "" {
				path = res.Filename
			}
			if err := os.WriteFile(path, res.Document, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, - for stdout (default: expense-data-YYYY-MM-DD.json)")
	return cmd
}

func importCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load an exported document; keys it contains replace the current data",
		Long: `Load an exported document. A "transactions" key replaces every transaction and
a "budgets" key replaces the budgets; absent keys leave the current data alone.
A malformed document changes nothing. Use - to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read import: %w", err)
			}

			if _, err := e.tracker.Apply(cmd.Context(), ledger.Import{Data: data}); err != nil {
				return fmt.Errorf("failed to import: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported: %d transactions\n", len(e.tracker.Transactions(ledger.Filter{})))
			return nil
		},
	}
}

var errNotConfirmed = errors.New("refusing to clear without --yes")

func clearCmd(e *env) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every transaction and restore the default budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errNotConfirmed
			}
			if _, err := e.tracker.Apply(cmd.Context(), ledger.Clear{}); err != nil {
				return fmt.Errorf("failed to clear: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data cleared.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting everything")
	return cmd
}
