package ledger

import "cashflow/internal/core"

// Budgets holds the active budget configuration. Until one is restored or
// replaced the defaults apply.
type Budgets struct {
	cfg core.BudgetConfiguration
}

func NewBudgets() *Budgets {
	return &Budgets{cfg: core.DefaultBudgets()}
}

// GetDefault returns the fixed default configuration.
func (b *Budgets) GetDefault() core.BudgetConfiguration {
	return core.DefaultBudgets()
}

// Load returns a copy of the active configuration.
func (b *Budgets) Load() core.BudgetConfiguration {
	return b.cfg.Clone()
}

// Restore installs a stored configuration. A nil cfg means nothing was
// ever stored and the defaults apply.
func (b *Budgets) Restore(cfg *core.BudgetConfiguration) {
	if cfg == nil {
		b.Reset()
		return
	}
	b.Replace(*cfg)
}

// Replace swaps the whole configuration.
func (b *Budgets) Replace(cfg core.BudgetConfiguration) {
	b.cfg = cfg.Clone()
}

func (b *Budgets) Reset() {
	b.cfg = core.DefaultBudgets()
}

func (b *Budgets) ExpenseBudget(category string) core.Money {
	return b.cfg.ExpenseBudget(category)
}
