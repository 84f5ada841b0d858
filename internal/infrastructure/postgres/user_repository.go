package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tekeer/internal/domain/user"
)

type UserRepository struct {
	q querier
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{q: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `
		SELECT id, phone, name, email, birth_date, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var u user.User
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&u.ID, &u.Phone, &u.Name, &u.Email, &u.BirthDate, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}
