package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tekeer/internal/domain/card"
)

type UserCardRepository struct {
	q querier
}

func NewUserCardRepository(db *DB) *UserCardRepository {
	return &UserCardRepository{q: db}
}

const userCardColumns = `id, user_id, card_id, card_number, registered_at, created_at, updated_at`

func (r *UserCardRepository) GetByUserAndCard(ctx context.Context, userID, cardID int64) (*card.UserCard, error) {
	query := `
		SELECT ` + userCardColumns + `
		FROM user_cards
		WHERE user_id = $1 AND card_id = $2
	`

	var uc card.UserCard
	err := r.q.QueryRowContext(ctx, query, userID, cardID).Scan(
		&uc.ID, &uc.UserID, &uc.CardID, &uc.CardNumber,
		&uc.RegisteredAt, &uc.CreatedAt, &uc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user card: %w", err)
	}
	return &uc, nil
}

func (r *UserCardRepository) Create(ctx context.Context, userID, cardID int64, cardNumber *string) (*card.UserCard, error) {
	query := `
		INSERT INTO user_cards (user_id, card_id, card_number, registered_at)
		VALUES ($1, $2, $3, CURRENT_TIMESTAMP)
		RETURNING ` + userCardColumns + `
	`

	var uc card.UserCard
	err := r.q.QueryRowContext(ctx, query, userID, cardID, cardNumber).Scan(
		&uc.ID, &uc.UserID, &uc.CardID, &uc.CardNumber,
		&uc.RegisteredAt, &uc.CreatedAt, &uc.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user card: %w", err)
	}
	return &uc, nil
}

func (r *UserCardRepository) UpdateCardNumber(ctx context.Context, id int64, cardNumber *string) error {
	query := `
		UPDATE user_cards
		SET card_number = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`

	result, err := r.q.ExecContext(ctx, query, cardNumber, id)
	if err != nil {
		return fmt.Errorf("failed to update card number: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("user card not found")
	}
	return nil
}

func (r *UserCardRepository) ListByUser(ctx context.Context, userID int64) ([]*card.UserCardDetail, error) {
	query := `
		SELECT uc.id, uc.user_id, uc.card_id, uc.card_number, uc.registered_at,
		       uc.created_at, uc.updated_at, c.name, c.company
		FROM user_cards uc
		JOIN cards c ON c.id = uc.card_id
		WHERE uc.user_id = $1
		ORDER BY uc.registered_at DESC
	`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user cards: %w", err)
	}
	defer rows.Close()

	var details []*card.UserCardDetail
	for rows.Next() {
		var d card.UserCardDetail
		err := rows.Scan(
			&d.ID, &d.UserID, &d.CardID, &d.CardNumber,
			&d.RegisteredAt, &d.CreatedAt, &d.UpdatedAt,
			&d.CardName, &d.Company,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user card: %w", err)
		}
		details = append(details, &d)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user cards: %w", err)
	}
	return details, nil
}
