// Package worker keeps dated export files and the spreadsheet mirror in
// step with the persisted snapshot.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"cashflow/internal/aggregate"
	"cashflow/internal/amqp"
	"cashflow/internal/core"
	"cashflow/internal/log"
	"cashflow/internal/sheets"
	"cashflow/internal/snapshot"
)

// SnapshotLoader reads the persisted state.
type SnapshotLoader interface {
	Load(ctx context.Context) (snapshot.State, error)
}

// ConsumeFunc blocks delivering snapshot messages to handler.
type ConsumeFunc func(ctx context.Context, handler amqp.Handler) error

type BackupWorker struct {
	loader SnapshotLoader
	dir    string
	mirror sheets.SnapshotMirror
	logger *log.Logger
	now    func() time.Time
}

type Option func(*BackupWorker)

// WithMirror enables mirroring after every backup.
func WithMirror(m sheets.SnapshotMirror) Option {
	return func(w *BackupWorker) { w.mirror = m }
}

func WithLogger(l *log.Logger) Option {
	return func(w *BackupWorker) { w.logger = l.WithComponent(log.ComponentWorker) }
}

func WithClock(now func() time.Time) Option {
	return func(w *BackupWorker) { w.now = now }
}

func NewBackupWorker(loader SnapshotLoader, dir string, opts ...Option) *BackupWorker {
	w := &BackupWorker{
		loader: loader,
		dir:    dir,
		logger: log.Discard(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// HandleSnapshotSaved is the AMQP handler.
func (w *BackupWorker) HandleSnapshotSaved(ctx context.Context, msg *amqp.SnapshotSavedMessage) error {
	w.logger.InfoContext(ctx, "Snapshot saved",
		"reason", msg.Reason,
		log.FieldRevision, msg.Revision,
		log.FieldTransactions, msg.Transactions)
	return w.Backup(ctx)
}

// Backup writes today's export file and refreshes the mirror. An empty
// snapshot never overwrites an existing backup file.
func (w *BackupWorker) Backup(ctx context.Context) error {
	st, err := w.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	budgets := core.DefaultBudgets()
	if st.Budgets != nil {
		budgets = *st.Budgets
	}
	now := w.now()

	path := filepath.Join(w.dir, snapshot.ExportFilename(now))
	if len(st.Transactions) == 0 && fileExists(path) {
		w.logger.InfoContext(ctx, "Empty snapshot, keeping existing backup", log.FieldOperation, log.OpBackup, "file", path)
	} else {
		doc, err := snapshot.Encode(st.Transactions, budgets, now)
		if err != nil {
			return err
		}
		if err := writeFileAtomic(path, doc); err != nil {
			return fmt.Errorf("write backup: %w", err)
		}
		w.logger.InfoContext(ctx, "Backup written",
			log.FieldOperation, log.OpBackup,
			"file", path,
			log.FieldTransactions, len(st.Transactions))
	}

	if w.mirror == nil {
		return nil
	}
	summary := aggregate.New(st.Transactions, budgets).Dashboard(core.PeriodOf(now))
	if err := w.mirror.Mirror(ctx, sheets.Snapshot{Transactions: st.Transactions, Summary: summary}); err != nil {
		return fmt.Errorf("mirror snapshot: %w", err)
	}
	return nil
}

// Run backs up once, then on every message from consume and every
// interval, until ctx is done or consume fails. consume may be nil.
func (w *BackupWorker) Run(ctx context.Context, consume ConsumeFunc, interval time.Duration) error {
	if err := w.Backup(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Startup backup failed", log.FieldError, err)
	}

	g, ctx := errgroup.WithContext(ctx)

	if consume != nil {
		g.Go(func() error {
			return consume(ctx, w.HandleSnapshotSaved)
		})
	}

	g.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := w.Backup(ctx); err != nil {
					w.logger.ErrorContext(ctx, "Periodic backup failed", log.FieldError, err)
				}
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// writeFileAtomic writes through a temp file in the same directory so a
// crash never leaves a truncated backup.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".backup-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
