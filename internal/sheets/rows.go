package sheets

import (
	"cashflow/internal/aggregate"
	"cashflow/internal/core"
)

// TransactionHeader is the first row of the transactions range.
var TransactionHeader = []any{"Date", "Type", "Category", "Description", "Amount", "ID"}

// TransactionRows renders txs below the header. Amounts are exact decimal
// strings so the sheet parses them as numbers without float rounding.
func TransactionRows(txs []core.Transaction) [][]any {
	rows := make([][]any, 0, len(txs)+1)
	rows = append(rows, TransactionHeader)
	for _, tx := range txs {
		rows = append(rows, []any{
			tx.Date.String(),
			tx.Type.String(),
			core.CategoryTitle(tx.Category),
			tx.Description,
			tx.Amount.String(),
			tx.ID,
		})
	}
	return rows
}

// SummaryRows renders the summary cards of one month as label/value pairs.
func SummaryRows(d aggregate.Dashboard) [][]any {
	cf := d.CashFlow
	return [][]any{
		{"Month", d.Period.String()},
		{"Income", cf.Income.String()},
		{"Expenses", d.Totals.Expenses.String()},
		{"Bills", d.Totals.Bills.String()},
		{"Debt", cf.Debt.String()},
		{"Total outflow", cf.TotalOutflow.String()},
		{"Left to spend", cf.LeftToSpend.String()},
		{"Left to budget", cf.LeftToBudget.String()},
	}
}
