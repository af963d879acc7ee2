package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBudgets(t *testing.T) {
	b := DefaultBudgets()
	want := map[string]int64{
		"housing": 800, "food": 400, "transportation": 200, "entertainment": 150,
		"healthcare": 100, "utilities": 150, "other": 200,
	}
	require.Len(t, b.Expenses, len(want))
	for k, v := range want {
		assert.True(t, b.ExpenseBudget(k).Equal(MoneyFromInt(v)), "%s: got %s", k, b.ExpenseBudget(k))
	}
	assert.True(t, b.Income.Equal(MoneyFromInt(3000)))
	assert.True(t, b.Debt.Equal(MoneyFromInt(800)))
	assert.True(t, b.Savings.Equal(MoneyFromInt(400)))
	assert.True(t, b.TotalExpenseBudget().Equal(MoneyFromInt(2000)))
}

func TestExpenseBudgetUnknownIsZero(t *testing.T) {
	assert.True(t, DefaultBudgets().ExpenseBudget("yachts").IsZero())
	assert.True(t, (BudgetConfiguration{}).ExpenseBudget("food").IsZero(), "nil map")
}

func TestBudgetCloneIsIndependent(t *testing.T) {
	a := DefaultBudgets()
	b := a.Clone()
	b.Expenses["food"] = MoneyFromInt(1)
	assert.True(t, a.ExpenseBudget("food").Equal(MoneyFromInt(400)), "clone shares map with original")
	assert.False(t, a.Equal(b))
}

func TestCategoryOptions(t *testing.T) {
	opts := CategoryOptions(Debt)
	require.Len(t, opts, 4)
	assert.Equal(t, "student_loan", opts[0].Value)
	assert.Equal(t, "Student Loan", opts[0].Label)
	assert.Empty(t, CategoryOptions("transfer"))
	assert.Equal(t, "Food", CategoryTitle("food"))
	assert.Equal(t, "", CategoryTitle(""))
}
