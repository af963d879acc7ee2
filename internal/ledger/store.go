package ledger

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"cashflow/internal/core"
)

var (
	ErrNotFound    = errors.New("transaction not found")
	ErrDuplicateID = errors.New("duplicate transaction id")
)

// Store is the ordered collection of transactions. It is not safe for
// concurrent use; Tracker serializes access.
type Store struct {
	items []core.Transaction
	index map[string]int
}

// Filter narrows Store.Filter. Zero fields match everything.
type Filter struct {
	Type   core.TransactionType
	Period *core.Period
}

func NewStore(txs ...core.Transaction) *Store {
	s := &Store{}
	s.ReplaceAll(txs)
	return s
}

// Add validates tx, assigns an id when it has none and appends it.
func (s *Store) Add(tx core.Transaction) (core.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	if _, ok := s.index[tx.ID]; ok {
		return core.Transaction{}, fmt.Errorf("%w: %s", ErrDuplicateID, tx.ID)
	}
	s.index[tx.ID] = len(s.items)
	s.items = append(s.items, tx)
	return tx, nil
}

// Update replaces the transaction with the same id in place.
func (s *Store) Update(tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	i, ok := s.index[tx.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, tx.ID)
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = s.items[i].CreatedAt
	}
	s.items[i] = tx
	return nil
}

// Remove deletes the transaction with id. It reports whether anything was removed.
func (s *Store) Remove(id string) bool {
	i, ok := s.index[id]
	if !ok {
		return false
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.reindex()
	return true
}

func (s *Store) Get(id string) (core.Transaction, bool) {
	i, ok := s.index[id]
	if !ok {
		return core.Transaction{}, false
	}
	return s.items[i], true
}

// ReplaceAll swaps the whole collection. Records are taken as they are; when
// ids repeat, lookups resolve to the first record.
func (s *Store) ReplaceAll(txs []core.Transaction) {
	s.items = append(make([]core.Transaction, 0, len(txs)), txs...)
	s.reindex()
}

// All returns a copy in insertion order.
func (s *Store) All() []core.Transaction {
	return append([]core.Transaction(nil), s.items...)
}

func (s *Store) Len() int { return len(s.items) }

func (s *Store) ListByPeriod(p core.Period) []core.Transaction {
	return s.Filter(Filter{Period: &p})
}

// ListByType returns the period's transactions of type t, newest first.
func (s *Store) ListByType(t core.TransactionType, p core.Period) []core.Transaction {
	return s.Filter(Filter{Type: t, Period: &p})
}

// Filter returns matching transactions newest first. Ties keep insertion order.
func (s *Store) Filter(f Filter) []core.Transaction {
	var out []core.Transaction
	for _, tx := range s.items {
		if f.Type != "" && tx.Type != f.Type {
			continue
		}
		if f.Period != nil && !f.Period.Contains(tx.Date) {
			continue
		}
		out = append(out, tx)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.items))
	for i, tx := range s.items {
		if _, dup := s.index[tx.ID]; tx.ID != "" && !dup {
			s.index[tx.ID] = i
		}
	}
}
