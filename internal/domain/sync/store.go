package sync

import (
	"context"

	"tekeer/internal/domain/card"
	"tekeer/internal/domain/expense"
)

// StoreTx exposes the repositories bound to one database transaction.
type StoreTx interface {
	Cards() card.Repository
	UserCards() card.UserCardRepository
	Expenses() expense.Repository
}

// Store opens the transactional boundary for one reconciliation batch.
// Every upsert of a batch runs inside a single transaction so a crash
// mid-batch cannot leave the catalog, links and ledger mutually
// inconsistent; re-running the batch afterwards is safe because all
// writes are keyed upserts.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx StoreTx) error) error
}
