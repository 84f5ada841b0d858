package expense

import (
	"context"
	"time"
)

// Repository is the storage contract for the transaction ledger. Lookups
// return nil (not an error) when no row matches, so the reconciliation
// path can branch on insert-vs-update without sentinel checks.
type Repository interface {
	FindByApprovalNumber(ctx context.Context, userID int64, approvalNumber string) (*Expense, error)
	FindByNaturalKey(ctx context.Context, userID int64, spentAt time.Time, merchantName string, amount int64) (*Expense, error)
	Create(ctx context.Context, params UpsertParams) (*Expense, error)
	Update(ctx context.Context, id int64, params UpsertParams) (*Expense, error)
}
