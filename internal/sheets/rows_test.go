package sheets

import (
	"testing"

	"cashflow/internal/aggregate"
	"cashflow/internal/core"
)

func TestTransactionRows(t *testing.T) {
	rows := TransactionRows([]core.Transaction{{
		ID:          "t1",
		Type:        core.Debt,
		Category:    "credit_card",
		Amount:      core.MustMoney("250.10"),
		Description: "Visa",
		Date:        core.NewDate(2024, 3, 15),
	}})

	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header plus one", len(rows))
	}
	want := []any{"2024-03-15", "debt", "Credit_card", "Visa", "250.1", "t1"}
	for i, v := range want {
		if rows[1][i] != v {
			t.Errorf("column %d = %v, want %v", i, rows[1][i], v)
		}
	}
}

func TestSummaryRows(t *testing.T) {
	e := aggregate.New([]core.Transaction{
		{Type: core.Income, Category: "salary", Amount: core.MustMoney("2000"), Date: core.NewDate(2024, 3, 1)},
		{Type: core.Expense, Category: "food", Amount: core.MustMoney("150"), Date: core.NewDate(2024, 3, 5)},
	}, core.DefaultBudgets())

	rows := SummaryRows(e.Dashboard(core.Period{Year: 2024, Month: 2}))
	got := map[any]any{}
	for _, r := range rows {
		got[r[0]] = r[1]
	}
	if got["Month"] != "2024-03" {
		t.Errorf("Month = %v", got["Month"])
	}
	if got["Left to spend"] != "1850" {
		t.Errorf("Left to spend = %v, want 1850", got["Left to spend"])
	}
	if got["Left to budget"] != "1450" {
		t.Errorf("Left to budget = %v, want 1450", got["Left to budget"])
	}
}
