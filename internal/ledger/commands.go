package ledger

import "cashflow/internal/core"

// Command is one request against the Tracker. The concrete types below are
// the complete set.
type Command interface {
	Name() string
}

type (
	AddTransaction struct {
		Transaction core.Transaction
	}

	// UpdateTransaction replaces the stored transaction with the same ID.
	UpdateTransaction struct {
		Transaction core.Transaction
	}

	// DeleteTransaction is a no-op when ID is unknown.
	DeleteTransaction struct {
		ID string
	}

	UpdateBudgets struct {
		Budgets core.BudgetConfiguration
	}

	// Import applies an export document. Keys absent from the document keep
	// the current state.
	Import struct {
		Data []byte
	}

	Export struct{}

	// Clear empties the store and restores the default budgets.
	Clear struct{}
)

func (AddTransaction) Name() string    { return "add_transaction" }
func (UpdateTransaction) Name() string { return "update_transaction" }
func (DeleteTransaction) Name() string { return "delete_transaction" }
func (UpdateBudgets) Name() string     { return "update_budgets" }
func (Import) Name() string            { return "import" }
func (Export) Name() string            { return "export" }
func (Clear) Name() string             { return "clear" }

// Result carries what a command produced. Only the fields relevant to the
// command are set.
type Result struct {
	Transaction core.Transaction
	Removed     bool
	Document    []byte
	Filename    string
	Revision    uint64
}
