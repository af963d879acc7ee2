package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cashflow/internal/core"
	"cashflow/internal/storage"
)

const (
	KeyTransactions = "transactions"
	KeyBudgets      = "budgets"
)

// Repository stores State as two independently keyed JSON values.
type Repository struct {
	kv storage.KV
}

func NewRepository(kv storage.KV) *Repository {
	return &Repository{kv: kv}
}

// Load reads both keys. Missing keys yield an empty list and nil budgets.
func (r *Repository) Load(ctx context.Context) (State, error) {
	var st State

	data, err := r.kv.Get(ctx, KeyTransactions)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return State{}, fmt.Errorf("load transactions: %w", err)
	default:
		if err := json.Unmarshal(data, &st.Transactions); err != nil {
			return State{}, fmt.Errorf("decode stored transactions: %w", err)
		}
	}

	data, err = r.kv.Get(ctx, KeyBudgets)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return State{}, fmt.Errorf("load budgets: %w", err)
	default:
		var b core.BudgetConfiguration
		if err := json.Unmarshal(data, &b); err != nil {
			return State{}, fmt.Errorf("decode stored budgets: %w", err)
		}
		st.Budgets = &b
	}

	return st, nil
}

// Save writes both keys, transactions first.
func (r *Repository) Save(ctx context.Context, st State) error {
	txs := st.Transactions
	if txs == nil {
		txs = []core.Transaction{}
	}
	data, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := r.kv.Set(ctx, KeyTransactions, data); err != nil {
		return fmt.Errorf("save transactions: %w", err)
	}

	budgets := core.DefaultBudgets()
	if st.Budgets != nil {
		budgets = *st.Budgets
	}
	data, err = json.Marshal(budgets)
	if err != nil {
		return fmt.Errorf("encode budgets: %w", err)
	}
	if err := r.kv.Set(ctx, KeyBudgets, data); err != nil {
		return fmt.Errorf("save budgets: %w", err)
	}
	return nil
}

// Clear removes both keys.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, KeyTransactions); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if err := r.kv.Delete(ctx, KeyBudgets); err != nil {
		return fmt.Errorf("clear budgets: %w", err)
	}
	return nil
}
