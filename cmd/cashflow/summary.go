package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"cashflow/internal/aggregate"
	"cashflow/internal/core"
)

// periodFlags selects a calendar month on the command line. Month is 1-12
// here; core.Period is zero-based.
type periodFlags struct {
	year  int
	month int
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.year, "year", 0, "year (default: current)")
	cmd.Flags().IntVar(&p.month, "month", 0, "calendar month 1-12 (default: current)")
}

func (p periodFlags) period(now time.Time) (core.Period, error) {
	period := core.PeriodOf(now)
	if p.year != 0 {
		period.Year = p.year
	}
	if p.month != 0 {
		if p.month < 1 || p.month > 12 {
			return core.Period{}, fmt.Errorf("month must be between 1 and 12, got %d", p.month)
		}
		period.Month = p.month - 1
	}
	return period, nil
}

func summaryCmd(e *env) *cobra.Command {
	var (
		pf      periodFlags
		asJSON  bool
		perfCat []string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the monthly dashboard: totals, cash flow and budget comparison",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := pf.period(time.Now())
			if err != nil {
				return err
			}
			engine := e.tracker.Engine()
			dash := engine.Dashboard(p)
			if len(perfCat) == 0 {
				perfCat = aggregate.DefaultPerformanceCategories
			}
			perf := engine.BudgetPerformance(perfCat, p)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, map[string]any{"dashboard": dash, "performance": perf})
			}
			return printSummary(out, dash, perf)
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of tables")
	cmd.Flags().StringSliceVar(&perfCat, "category", nil, "categories for the budget performance table")
	return cmd
}

func printSummary(out io.Writer, d aggregate.Dashboard, perf []aggregate.Performance) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Summary for %s\n\n", d.Period)
	fmt.Fprintf(w, "Income\t%s\n", d.Totals.Income)
	fmt.Fprintf(w, "Expenses\t%s\n", d.Totals.Expenses)
	fmt.Fprintf(w, "Bills\t%s\n", d.Totals.Bills)
	fmt.Fprintf(w, "Debt\t%s\n", d.Totals.Debt)
	fmt.Fprintf(w, "Total outflow\t%s\n", d.CashFlow.TotalOutflow)
	fmt.Fprintf(w, "Left to spend\t%s\n", d.CashFlow.LeftToSpend)
	fmt.Fprintf(w, "Left to budget\t%s\n", d.CashFlow.LeftToBudget)

	printComparisons(w, "Income by category", d.IncomeByCategory)
	printComparisons(w, "Expenses by category", d.ExpensesByCategory)

	fmt.Fprintf(w, "\nBudget performance\nCATEGORY\tSPENT\tBUDGET\tUSED\tREMAINING\n")
	for _, p := range perf {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f%%\t%s\n", core.CategoryTitle(p.Category), p.Spent, p.Budget, p.Percentage, p.Remaining)
	}
	return w.Flush()
}

func printComparisons(w io.Writer, title string, rows []aggregate.Comparison) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(rows) == 0 {
		fmt.Fprintln(w, "(none)")
		return
	}
	fmt.Fprintln(w, "CATEGORY\tBUDGETED\tACTUAL\tDIFFERENCE")
	for _, c := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", core.CategoryTitle(c.Category), c.Budgeted, c.Actual, c.Difference)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
