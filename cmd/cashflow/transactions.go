package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"cashflow/internal/core"
	"cashflow/internal/ledger"
)

func listCmd(e *env) *cobra.Command {
	var (
		pf     periodFlags
		typ    string
		all    bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var f ledger.Filter
			if typ != "" {
				t, err := core.ParseTransactionType(typ)
				if err != nil {
					return err
				}
				f.Type = t
			}
			if !all {
				p, err := pf.period(time.Now())
				if err != nil {
					return err
				}
				f.Period = &p
			}

			txs := e.tracker.Transactions(f)
			out := cmd.OutOrStdout()
			if asJSON {
				if txs == nil {
					txs = []core.Transaction{}
				}
				return writeJSON(out, txs)
			}
			if len(txs) == 0 {
				fmt.Fprintln(out, "No transactions found.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tTYPE\tCATEGORY\tAMOUNT\tDESCRIPTION\tID")
			for _, tx := range txs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					tx.Date, tx.Type, core.CategoryTitle(tx.Category), tx.Amount, tx.Description, tx.ID)
			}
			return w.Flush()
		},
	}
	pf.register(cmd)
	cmd.Flags().StringVar(&typ, "type", "", "only this type (income, expense, bill, debt)")
	cmd.Flags().BoolVar(&all, "all", false, "ignore the period and list every transaction")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func addCmd(e *env) *cobra.Command {
	var category, description, date string

	cmd := &cobra.Command{
		Use:   "add <type> <amount>",
		Short: "Record a transaction",
		Example: `  cashflow add income 2000 --category salary
  cashflow add expense 12.50 --category food --description lunch --date 2024-03-05`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			typ, err := core.ParseTransactionType(args[0])
			if err != nil {
				return err
			}
			amount, err := core.ParseMoney(args[1])
			if err != nil {
				return err
			}
			d := core.DateOf(time.Now())
			if date != "" {
				if d, err = core.ParseDate(date); err != nil {
					return err
				}
			}

			res, err := e.tracker.Apply(cmd.Context(), ledger.AddTransaction{Transaction: core.Transaction{
				Type:        typ,
				Category:    core.CategoryValue(category),
				Amount:      amount,
				Description: description,
				Date:        d,
			}})
			if err != nil {
				return fmt.Errorf("failed to add transaction: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s (%s) on %s: %s\n",
				res.Transaction.Type, res.Transaction.Amount, res.Transaction.Category, res.Transaction.Date, res.Transaction.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "category label or value, e.g. \"Credit Card\" or food")
	cmd.Flags().StringVar(&description, "description", "", "free text")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	return cmd
}

func deleteCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction; unknown ids are ignored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := e.tracker.Apply(cmd.Context(), ledger.DeleteTransaction{ID: args[0]})
			if err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}
			if res.Removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No transaction with id %s\n", args[0])
			}
			return nil
		},
	}
}
