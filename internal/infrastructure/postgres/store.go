package postgres

import (
	"context"
	"fmt"

	"tekeer/internal/domain/card"
	"tekeer/internal/domain/expense"
	"tekeer/internal/domain/sync"
)

// Store runs reconciliation batches in a single database transaction, so
// a partially synced pull never becomes visible.
type Store struct {
	db *DB
}

func NewStore(db *DB) *Store {
	return &Store{db: db}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx sync.StoreTx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	storeTx := &storeTx{q: &Tx{tx: sqlTx}}
	if err := fn(storeTx); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

type storeTx struct {
	q querier
}

func (t *storeTx) Cards() card.Repository             { return &CardRepository{q: t.q} }
func (t *storeTx) UserCards() card.UserCardRepository { return &UserCardRepository{q: t.q} }
func (t *storeTx) Expenses() expense.Repository       { return &ExpenseRepository{q: t.q} }
