package core

// BudgetConfiguration holds the user's monthly targets.
type BudgetConfiguration struct {
	Income   Money            `json:"income"`
	Expenses map[string]Money `json:"expenses"`
	Debt     Money            `json:"debt"`
	Savings  Money            `json:"savings"`
}

// DefaultBudgets returns the configuration used when nothing has been stored.
func DefaultBudgets() BudgetConfiguration {
	return BudgetConfiguration{
		Income: MoneyFromInt(3000),
		Expenses: map[string]Money{
			"housing":        MoneyFromInt(800),
			"food":           MoneyFromInt(400),
			"transportation": MoneyFromInt(200),
			"entertainment":  MoneyFromInt(150),
			"healthcare":     MoneyFromInt(100),
			"utilities":      MoneyFromInt(150),
			"other":          MoneyFromInt(200),
		},
		Debt:    MoneyFromInt(800),
		Savings: MoneyFromInt(400),
	}
}

// ExpenseBudget returns the target for category, or zero when none is set.
func (b BudgetConfiguration) ExpenseBudget(category string) Money {
	return b.Expenses[category]
}

// TotalExpenseBudget sums every per-category expense target.
func (b BudgetConfiguration) TotalExpenseBudget() Money {
	var total Money
	for _, v := range b.Expenses {
		total = total.Add(v)
	}
	return total
}

// Clone returns a copy that shares no map with b.
func (b BudgetConfiguration) Clone() BudgetConfiguration {
	out := b
	out.Expenses = make(map[string]Money, len(b.Expenses))
	for k, v := range b.Expenses {
		out.Expenses[k] = v
	}
	return out
}

// Equal compares every target; a missing category equals an explicit zero.
func (b BudgetConfiguration) Equal(o BudgetConfiguration) bool {
	if !b.Income.Equal(o.Income) || !b.Debt.Equal(o.Debt) || !b.Savings.Equal(o.Savings) {
		return false
	}
	for k, v := range b.Expenses {
		if !o.ExpenseBudget(k).Equal(v) {
			return false
		}
	}
	for k, v := range o.Expenses {
		if !b.ExpenseBudget(k).Equal(v) {
			return false
		}
	}
	return true
}
