package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tekeer/internal/domain/link"
)

type ConnectedAccountRepository struct {
	q querier
}

func NewConnectedAccountRepository(db *DB) *ConnectedAccountRepository {
	return &ConnectedAccountRepository{q: db}
}

const connectedAccountColumns = `id, user_id, organization, connected_id, created_at, updated_at`

func (r *ConnectedAccountRepository) GetByUserAndOrganization(ctx context.Context, userID int64, organization string) (*link.ConnectedAccount, error) {
	query := `
		SELECT ` + connectedAccountColumns + `
		FROM connected_accounts
		WHERE user_id = $1 AND organization = $2
	`

	var a link.ConnectedAccount
	err := r.q.QueryRowContext(ctx, query, userID, organization).Scan(
		&a.ID, &a.UserID, &a.Organization, &a.ConnectedID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get connected account: %w", err)
	}
	return &a, nil
}

func (r *ConnectedAccountRepository) Upsert(ctx context.Context, userID int64, organization, connectedID string) (*link.ConnectedAccount, error) {
	query := `
		INSERT INTO connected_accounts (user_id, organization, connected_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, organization) DO UPDATE SET
		    connected_id = EXCLUDED.connected_id,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING ` + connectedAccountColumns + `
	`

	var a link.ConnectedAccount
	err := r.q.QueryRowContext(ctx, query, userID, organization, connectedID).Scan(
		&a.ID, &a.UserID, &a.Organization, &a.ConnectedID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert connected account: %w", err)
	}
	return &a, nil
}

func (r *ConnectedAccountRepository) ListAll(ctx context.Context) ([]*link.ConnectedAccount, error) {
	query := `
		SELECT ` + connectedAccountColumns + `
		FROM connected_accounts
		ORDER BY user_id, organization
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list connected accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*link.ConnectedAccount
	for rows.Next() {
		var a link.ConnectedAccount
		err := rows.Scan(&a.ID, &a.UserID, &a.Organization, &a.ConnectedID, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connected account: %w", err)
		}
		accounts = append(accounts, &a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connected accounts: %w", err)
	}
	return accounts, nil
}
