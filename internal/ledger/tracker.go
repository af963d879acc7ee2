package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cashflow/internal/aggregate"
	"cashflow/internal/core"
	"cashflow/internal/log"
	"cashflow/internal/snapshot"
)

// errNoChange aborts a mutation that would not change anything.
var errNoChange = errors.New("no change")

// Persister saves and restores the tracker state.
type Persister interface {
	Load(ctx context.Context) (snapshot.State, error)
	Save(ctx context.Context, st snapshot.State) error
	Clear(ctx context.Context) error
}

// Notifier is told about every state that reached the persister.
type Notifier interface {
	PublishSnapshotSaved(ctx context.Context, reason string, revision uint64, transactions int) error
}

// Tracker owns the transaction store and the budgets. Every mutating
// command is persisted before Apply returns; a failed save leaves the
// in-memory state as it was.
type Tracker struct {
	mu       sync.RWMutex
	store    *Store
	budgets  *Budgets
	persist  Persister
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
	revision uint64
}

type Option func(*Tracker)

func WithNotifier(n Notifier) Option {
	return func(t *Tracker) { t.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(t *Tracker) { t.logger = l.WithComponent(log.ComponentLedger) }
}

// WithClock replaces time.Now for export dates.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// NewTracker restores the persisted state.
func NewTracker(ctx context.Context, persist Persister, opts ...Option) (*Tracker, error) {
	t := &Tracker{
		store:   NewStore(),
		budgets: NewBudgets(),
		persist: persist,
		logger:  log.Discard(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if err := t.Reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload replaces the in-memory state with what the persister holds.
func (t *Tracker) Reload(ctx context.Context) error {
	st, err := t.persist.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.store.ReplaceAll(st.Transactions)
	t.budgets.Restore(st.Budgets)
	t.logger.InfoContext(ctx, "Snapshot loaded", log.FieldTransactions, t.store.Len())
	return nil
}

// Apply runs cmd.
func (t *Tracker) Apply(ctx context.Context, cmd Command) (Result, error) {
	switch c := cmd.(type) {
	case Export:
		return t.export()
	case AddTransaction:
		var added core.Transaction
		res, err := t.mutate(ctx, c, func() error {
			var err error
			added, err = t.store.Add(c.Transaction)
			return err
		})
		res.Transaction = added
		return res, err
	case UpdateTransaction:
		var updated core.Transaction
		res, err := t.mutate(ctx, c, func() error {
			if err := t.store.Update(c.Transaction); err != nil {
				return err
			}
			updated, _ = t.store.Get(c.Transaction.ID)
			return nil
		})
		res.Transaction = updated
		return res, err
	case DeleteTransaction:
		var removed bool
		res, err := t.mutate(ctx, c, func() error {
			if removed = t.store.Remove(c.ID); !removed {
				return errNoChange
			}
			return nil
		})
		res.Removed = removed && err == nil
		return res, err
	case UpdateBudgets:
		return t.mutate(ctx, c, func() error {
			t.budgets.Replace(c.Budgets)
			return nil
		})
	case Import:
		patch, err := snapshot.DecodeImport(c.Data)
		if err != nil {
			return Result{}, err
		}
		return t.mutate(ctx, c, func() error {
			if patch.Empty() {
				return errNoChange
			}
			if patch.HasTransactions {
				t.store.ReplaceAll(patch.Transactions)
			}
			if patch.Budgets != nil {
				t.budgets.Replace(*patch.Budgets)
			}
			return nil
		})
	case Clear:
		return t.clear(ctx)
	default:
		return Result{}, fmt.Errorf("unknown command %T", cmd)
	}
}

// mutate applies fn under the write lock, persists and rolls back on failure.
func (t *Tracker) mutate(ctx context.Context, cmd Command, fn func() error) (Result, error) {
	t.mu.Lock()
	prev := t.state()
	if err := fn(); err != nil {
		t.restore(prev)
		rev := t.revision
		t.mu.Unlock()
		if errors.Is(err, errNoChange) {
			return Result{Revision: rev}, nil
		}
		return Result{}, err
	}
	if err := t.persist.Save(ctx, t.state()); err != nil {
		t.restore(prev)
		t.mu.Unlock()
		t.logger.ErrorContext(ctx, "Snapshot save failed", log.FieldCommand, cmd.Name(), log.FieldError, err)
		return Result{}, fmt.Errorf("save snapshot: %w", err)
	}
	t.revision++
	rev, count := t.revision, t.store.Len()
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "Command applied",
		log.FieldCommand, cmd.Name(),
		log.FieldRevision, rev,
		log.FieldTransactions, count)
	t.notify(ctx, cmd.Name(), rev, count)
	return Result{Revision: rev}, nil
}

func (t *Tracker) clear(ctx context.Context) (Result, error) {
	t.mu.Lock()
	prev := t.state()
	t.store.ReplaceAll(nil)
	t.budgets.Reset()
	if err := t.persist.Clear(ctx); err != nil {
		t.restore(prev)
		t.mu.Unlock()
		return Result{}, fmt.Errorf("clear snapshot: %w", err)
	}
	t.revision++
	rev := t.revision
	t.mu.Unlock()

	t.logger.InfoContext(ctx, "All data cleared", log.FieldRevision, rev)
	t.notify(ctx, Clear{}.Name(), rev, 0)
	return Result{Revision: rev}, nil
}

func (t *Tracker) export() (Result, error) {
	t.mu.RLock()
	txs, budgets, rev := t.store.All(), t.budgets.Load(), t.revision
	t.mu.RUnlock()

	now := t.now()
	doc, err := snapshot.Encode(txs, budgets, now)
	if err != nil {
		return Result{}, err
	}
	return Result{Document: doc, Filename: snapshot.ExportFilename(now), Revision: rev}, nil
}

func (t *Tracker) notify(ctx context.Context, reason string, rev uint64, count int) {
	if t.notifier == nil {
		return
	}
	if err := t.notifier.PublishSnapshotSaved(ctx, reason, rev, count); err != nil {
		t.logger.WarnContext(ctx, "Snapshot notification failed", log.FieldRevision, rev, log.FieldError, err)
	}
}

// state must be called with the lock held.
func (t *Tracker) state() snapshot.State {
	b := t.budgets.Load()
	return snapshot.State{Transactions: t.store.All(), Budgets: &b}
}

func (t *Tracker) restore(st snapshot.State) {
	t.store.ReplaceAll(st.Transactions)
	t.budgets.Restore(st.Budgets)
}

// Engine returns an aggregation engine over a consistent copy of the state.
func (t *Tracker) Engine() aggregate.Engine {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return aggregate.New(t.store.All(), t.budgets.Load())
}

// Transactions lists the store through f.
func (t *Tracker) Transactions(f Filter) []core.Transaction {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.Filter(f)
}

func (t *Tracker) Transaction(id string) (core.Transaction, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.store.Get(id)
}

func (t *Tracker) Budgets() core.BudgetConfiguration {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.budgets.Load()
}

// Revision counts the successful mutations since the tracker was created.
func (t *Tracker) Revision() uint64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.revision
}
