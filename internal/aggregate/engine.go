// Package aggregate derives dashboard figures from a transaction snapshot,
// a budget configuration and a period.
//
// An Engine never mutates its inputs and never fails: missing data reads as
// zero, unknown transaction types are skipped and a period outside the
// calendar simply matches nothing.
package aggregate

import (
	"cashflow/internal/core"
)

// DefaultPerformanceCategories is the category list shown by the reports view.
var DefaultPerformanceCategories = []string{
	"housing", "food", "transportation", "entertainment", "shopping", "healthcare", "other",
}

type (
	Engine struct {
		txs     []core.Transaction
		budgets core.BudgetConfiguration
	}

	Totals struct {
		Income   core.Money `json:"income"`
		Expenses core.Money `json:"expenses"`
		Bills    core.Money `json:"bills"`
		Debt     core.Money `json:"debt"`
	}

	// Breakdown keeps categories in order of first occurrence.
	Breakdown []core.CategoryAmount

	Comparison struct {
		Category   string     `json:"category"`
		Budgeted   core.Money `json:"budgeted"`
		Actual     core.Money `json:"actual"`
		Difference core.Money `json:"difference"`
	}

	// CashFlow mirrors the summary table. Savings is always zero: actual
	// savings are not tracked.
	CashFlow struct {
		Income            core.Money `json:"income"`
		Debt              core.Money `json:"debt"`
		ExpensesPlusBills core.Money `json:"expensesPlusBills"`
		Savings           core.Money `json:"savings"`
		TotalOutflow      core.Money `json:"totalOutflow"`
		LeftToSpend       core.Money `json:"leftToSpend"`
		LeftToBudget      core.Money `json:"leftToBudget"`
	}

	Performance struct {
		Category   string     `json:"category"`
		Spent      core.Money `json:"spent"`
		Budget     core.Money `json:"budget"`
		Percentage float64    `json:"percentage"`
		Remaining  core.Money `json:"remaining"`
	}

	Bar struct {
		Label  string     `json:"label"`
		Budget core.Money `json:"budget"`
		Actual core.Money `json:"actual"`
	}

	Dashboard struct {
		Period             core.Period        `json:"period"`
		Totals             Totals             `json:"totals"`
		CashFlow           CashFlow           `json:"cashFlow"`
		IncomeByCategory   []Comparison       `json:"incomeByCategory"`
		ExpensesByCategory []Comparison       `json:"expensesByCategory"`
		Bills              []core.Transaction `json:"bills"`
		Debts              []core.Transaction `json:"debts"`
		BudgetVsActual     []Bar              `json:"budgetVsActual"`
	}
)

// New builds an engine over txs and budgets. The caller must not modify
// either afterwards; Tracker hands over copies.
func New(txs []core.Transaction, budgets core.BudgetConfiguration) Engine {
	return Engine{txs: txs, budgets: budgets}
}

func (e Engine) inPeriod(p core.Period, fn func(tx core.Transaction)) {
	for _, tx := range e.txs {
		if p.Contains(tx.Date) {
			fn(tx)
		}
	}
}

// TotalsByType sums amounts per type within the period.
func (e Engine) TotalsByType(p core.Period) Totals {
	var t Totals
	e.inPeriod(p, func(tx core.Transaction) {
		switch tx.Type {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
		case core.Expense:
			t.Expenses = t.Expenses.Add(tx.Amount)
		case core.Bill:
			t.Bills = t.Bills.Add(tx.Amount)
		case core.Debt:
			t.Debt = t.Debt.Add(tx.Amount)
		}
	})
	return t
}

// CategoryBreakdown groups the period's transactions of type t by category.
func (e Engine) CategoryBreakdown(t core.TransactionType, p core.Period) Breakdown {
	var out Breakdown
	index := map[string]int{}
	e.inPeriod(p, func(tx core.Transaction) {
		if tx.Type != t {
			return
		}
		i, ok := index[tx.Category]
		if !ok {
			index[tx.Category] = len(out)
			out = append(out, core.CategoryAmount{Category: tx.Category, Amount: tx.Amount})
			return
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
	})
	return out
}

// BudgetComparison compares actual spend with the budget for every category
// that has at least one transaction in the period. Budgeted categories
// without transactions are left out.
func (e Engine) BudgetComparison(t core.TransactionType, p core.Period) []Comparison {
	breakdown := e.CategoryBreakdown(t, p)
	out := make([]Comparison, 0, len(breakdown))
	for _, c := range breakdown {
		budgeted := e.budgetFor(t, c.Category)
		out = append(out, Comparison{
			Category:   c.Category,
			Budgeted:   budgeted,
			Actual:     c.Amount,
			Difference: budgeted.Sub(c.Amount),
		})
	}
	return out
}

// IncomeComparison is BudgetComparison over income.
func (e Engine) IncomeComparison(p core.Period) []Comparison {
	return e.BudgetComparison(core.Income, p)
}

// budgetFor resolves the target of one category. Income has a single
// target which only the salary category carries.
func (e Engine) budgetFor(t core.TransactionType, category string) core.Money {
	if t == core.Income {
		if category == "salary" {
			return e.budgets.Income
		}
		return core.Money{}
	}
	return e.budgets.ExpenseBudget(category)
}

// CashFlowSummary derives the summary cards. Negative results are kept.
func (e Engine) CashFlowSummary(p core.Period) CashFlow {
	t := e.TotalsByType(p)
	outflow := t.Expenses.Add(t.Bills).Add(t.Debt)
	return CashFlow{
		Income:            t.Income,
		Debt:              t.Debt,
		ExpensesPlusBills: t.Expenses.Add(t.Bills),
		TotalOutflow:      outflow,
		LeftToSpend:       t.Income.Sub(t.Expenses).Sub(t.Bills).Sub(t.Debt),
		LeftToBudget:      t.Income.Sub(outflow).Sub(e.budgets.Savings),
	}
}

// SpentInCategory sums expense and bill amounts booked under category.
func (e Engine) SpentInCategory(category string, p core.Period) core.Money {
	var spent core.Money
	e.inPeriod(p, func(tx core.Transaction) {
		if (tx.Type == core.Expense || tx.Type == core.Bill) && tx.Category == category {
			spent = spent.Add(tx.Amount)
		}
	})
	return spent
}

// BudgetPerformance reports spend against the expense budget of each category.
// Percentage is not clamped.
func (e Engine) BudgetPerformance(categories []string, p core.Period) []Performance {
	out := make([]Performance, 0, len(categories))
	for _, c := range categories {
		spent := e.SpentInCategory(c, p)
		budget := e.budgets.ExpenseBudget(c)
		out = append(out, Performance{
			Category:   c,
			Spent:      spent,
			Budget:     budget,
			Percentage: spent.Percent(budget),
			Remaining:  budget.Sub(spent),
		})
	}
	return out
}

// BudgetVsActual returns the four bars of the budget/actual chart.
// Bills have no target of their own.
func (e Engine) BudgetVsActual(p core.Period) []Bar {
	t := e.TotalsByType(p)
	return []Bar{
		{Label: "Income", Budget: e.budgets.Income, Actual: t.Income},
		{Label: "Expenses", Budget: e.budgets.TotalExpenseBudget(), Actual: t.Expenses},
		{Label: "Bills", Actual: t.Bills},
		{Label: "Debt", Budget: e.budgets.Debt, Actual: t.Debt},
	}
}

// ListByType returns the period's transactions of type t in store order.
func (e Engine) ListByType(t core.TransactionType, p core.Period) []core.Transaction {
	out := []core.Transaction{}
	e.inPeriod(p, func(tx core.Transaction) {
		if tx.Type == t {
			out = append(out, tx)
		}
	})
	return out
}

// Dashboard gathers everything the main view renders for one period.
func (e Engine) Dashboard(p core.Period) Dashboard {
	return Dashboard{
		Period:             p,
		Totals:             e.TotalsByType(p),
		CashFlow:           e.CashFlowSummary(p),
		IncomeByCategory:   e.BudgetComparison(core.Income, p),
		ExpensesByCategory: e.BudgetComparison(core.Expense, p),
		Bills:              e.ListByType(core.Bill, p),
		Debts:              e.ListByType(core.Debt, p),
		BudgetVsActual:     e.BudgetVsActual(p),
	}
}

// Total sums every category of the breakdown.
func (b Breakdown) Total() core.Money {
	var total core.Money
	for _, c := range b {
		total = total.Add(c.Amount)
	}
	return total
}
