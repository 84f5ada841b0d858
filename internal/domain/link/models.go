package link

import (
	"context"
	"time"
)

// ConnectedAccount records a successful linkage between one local user and
// one provider organization login. Re-linking the same pair replaces the
// stored identifier; the provider's "already registered" path confirms an
// existing one rather than failing.
type ConnectedAccount struct {
	ID           int64
	UserID       int64
	Organization string
	ConnectedID  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository is the storage contract for connected accounts.
type Repository interface {
	// GetByUserAndOrganization returns nil when no link exists.
	GetByUserAndOrganization(ctx context.Context, userID int64, organization string) (*ConnectedAccount, error)
	Upsert(ctx context.Context, userID int64, organization, connectedID string) (*ConnectedAccount, error)
	ListAll(ctx context.Context) ([]*ConnectedAccount, error)
}
