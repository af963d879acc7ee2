package sheets

import (
	"context"

	"cashflow/internal/aggregate"
	"cashflow/internal/core"
)

// Snapshot is what gets mirrored: the full transaction list and the summary
// of one month.
type Snapshot struct {
	Transactions []core.Transaction
	Summary      aggregate.Dashboard
}

// SnapshotMirror replaces the mirrored copy with s.
type SnapshotMirror interface {
	Mirror(ctx context.Context, s Snapshot) error
}
