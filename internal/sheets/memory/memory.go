// Package memory is a SnapshotMirror that keeps the rendered rows in
// memory. It backs tests and dry runs of the worker.
package memory

import (
	"context"
	"sync"

	"cashflow/internal/sheets"
)

type Mirror struct {
	mu           sync.Mutex
	transactions [][]any
	summary      [][]any
	calls        int
}

func New() *Mirror {
	return &Mirror{}
}

func (m *Mirror) Mirror(_ context.Context, s sheets.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transactions = sheets.TransactionRows(s.Transactions)
	m.summary = sheets.SummaryRows(s.Summary)
	m.calls++
	return nil
}

// Rows returns the last mirrored transaction and summary ranges.
func (m *Mirror) Rows() (transactions, summary [][]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.transactions, m.summary
}

// Calls counts the mirror operations so far.
func (m *Mirror) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

var _ sheets.SnapshotMirror = (*Mirror)(nil)
