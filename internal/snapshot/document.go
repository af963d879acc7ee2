// Package snapshot persists the tracker state and reads and writes the
// import/export document.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"cashflow/internal/core"
)

// ErrMalformedDocument is returned when an import document cannot be applied.
var ErrMalformedDocument = errors.New("malformed import document")

// State is what gets persisted: the transaction list and the budgets.
// A nil Budgets means none were ever stored.
type State struct {
	Transactions []core.Transaction
	Budgets      *core.BudgetConfiguration
}

// Document is the export file layout.
type Document struct {
	Transactions []core.Transaction       `json:"transactions"`
	Budgets      core.BudgetConfiguration `json:"budgets"`
	ExportDate   time.Time                `json:"exportDate"`
}

// Patch is a decoded import. Only the parts present in the document are set.
type Patch struct {
	Transactions    []core.Transaction
	HasTransactions bool
	Budgets         *core.BudgetConfiguration
}

// Empty reports whether applying the patch would change nothing.
func (p Patch) Empty() bool {
	return !p.HasTransactions && p.Budgets == nil
}

// Encode renders the export document with two-space indentation.
func Encode(txs []core.Transaction, budgets core.BudgetConfiguration, now time.Time) ([]byte, error) {
	if txs == nil {
		txs = []core.Transaction{}
	}
	doc := Document{Transactions: txs, Budgets: budgets, ExportDate: now.UTC()}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return data, nil
}

// DecodeImport parses an import document. Every key that is present and not
// null is decoded before anything is returned, so a document that fails on
// one key yields no patch at all. Transactions without an id get a fresh one;
// a repeated id rejects the document.
func DecodeImport(data []byte) (Patch, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return Patch{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if raw == nil {
		return Patch{}, fmt.Errorf("%w: not an object", ErrMalformedDocument)
	}

	var p Patch
	if v, ok := raw["transactions"]; ok && !isNull(v) {
		var txs []core.Transaction
		if err := json.Unmarshal(v, &txs); err != nil {
			return Patch{}, fmt.Errorf("%w: transactions: %v", ErrMalformedDocument, err)
		}
		seen := make(map[string]bool, len(txs))
		for i := range txs {
			if txs[i].Amount.IsNegative() {
				return Patch{}, fmt.Errorf("%w: transactions[%d]: %v", ErrMalformedDocument, i, core.ErrNegativeAmount)
			}
			if txs[i].ID == "" {
				txs[i].ID = uuid.NewString()
			}
			if seen[txs[i].ID] {
				return Patch{}, fmt.Errorf("%w: transactions[%d]: duplicate id %q", ErrMalformedDocument, i, txs[i].ID)
			}
			seen[txs[i].ID] = true
		}
		if txs == nil {
			txs = []core.Transaction{}
		}
		p.Transactions = txs
		p.HasTransactions = true
	}
	if v, ok := raw["budgets"]; ok && !isNull(v) {
		var b core.BudgetConfiguration
		if err := json.Unmarshal(v, &b); err != nil {
			return Patch{}, fmt.Errorf("%w: budgets: %v", ErrMalformedDocument, err)
		}
		if b.Expenses == nil {
			b.Expenses = map[string]core.Money{}
		}
		p.Budgets = &b
	}
	return p, nil
}

// ExportFilename names the export file for the day of t.
func ExportFilename(t time.Time) string {
	return "expense-data-" + t.Format("2006-01-02") + ".json"
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}
