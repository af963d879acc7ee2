package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cashflow/internal/core"
	"cashflow/internal/ledger"
)

func budgetsCmd(e *env) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "Show or change the monthly budgets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := e.tracker.Budgets()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), b)
			}
			return printBudgets(cmd, b)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.AddCommand(budgetsSetCmd(e))
	return cmd
}

func printBudgets(cmd *cobra.Command, b core.BudgetConfiguration) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Income\t%s\n", b.Income)
	fmt.Fprintf(w, "Debt\t%s\n", b.Debt)
	fmt.Fprintf(w, "Savings\t%s\n", b.Savings)
	fmt.Fprintf(w, "\nEXPENSE CATEGORY\tBUDGET\n")

	cats := make([]string, 0, len(b.Expenses))
	for c := range b.Expenses {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Fprintf(w, "%s\t%s\n", core.CategoryTitle(c), b.Expenses[c])
	}
	fmt.Fprintf(w, "Total\t%s\n", b.TotalExpenseBudget())
	return w.Flush()
}

func budgetsSetCmd(e *env) *cobra.Command {
	var (
		income, debt, savings string
		expenses              []string
		replace               bool
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change budget targets",
		Long: `Change budget targets. Only the given targets change unless --replace is set,
in which case everything not given becomes zero.`,
		Example: `  cashflow budgets set --income 3200 --expense food=450 --expense housing=900`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := e.tracker.Budgets()
			if replace {
				cfg = core.BudgetConfiguration{Expenses: map[string]core.Money{}}
			}

			for _, f := range []struct {
				raw string
				dst *core.Money
			}{{income, &cfg.Income}, {debt, &cfg.Debt}, {savings, &cfg.Savings}} {
				if f.raw == "" {
					continue
				}
				m, err := parseTarget(f.raw)
				if err != nil {
					return err
				}
				*f.dst = m
			}
			for _, kv := range expenses {
				name, value, ok := strings.Cut(kv, "=")
				if !ok || strings.TrimSpace(name) == "" {
					return fmt.Errorf("expense budget must look like category=amount, got %q", kv)
				}
				m, err := parseTarget(value)
				if err != nil {
					return err
				}
				cfg.Expenses[core.CategoryValue(strings.TrimSpace(name))] = m
			}

			if _, err := e.tracker.Apply(cmd.Context(), ledger.UpdateBudgets{Budgets: cfg}); err != nil {
				return fmt.Errorf("failed to update budgets: %w", err)
			}
			return printBudgets(cmd, e.tracker.Budgets())
		},
	}
	cmd.Flags().StringVar(&income, "income", "", "monthly income target")
	cmd.Flags().StringVar(&debt, "debt", "", "monthly debt payment target")
	cmd.Flags().StringVar(&savings, "savings", "", "monthly savings target")
	cmd.Flags().StringArrayVar(&expenses, "expense", nil, "expense target as category=amount (repeatable)")
	cmd.Flags().BoolVar(&replace, "replace", false, "reset targets that are not given to zero")
	return cmd
}

func parseTarget(s string) (core.Money, error) {
	m, err := core.ParseMoney(strings.TrimSpace(s))
	if err != nil {
		return core.Money{}, err
	}
	if m.IsNegative() {
		return core.Money{}, core.ErrNegativeAmount
	}
	return m, nil
}
