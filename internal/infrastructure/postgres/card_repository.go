package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"tekeer/internal/domain/card"
)

type CardRepository struct {
	q querier
}

func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{q: db}
}

const cardColumns = `id, name, company, image_url, annual_fee_domestic, annual_fee_overseas,
       fee_waiver, benefit_summary, created_at, updated_at`

func (r *CardRepository) GetByNameAndCompany(ctx context.Context, name, company string) (*card.Card, error) {
	query := `
		SELECT ` + cardColumns + `
		FROM cards
		WHERE name = $1 AND company = $2
	`

	c, err := scanCard(r.q.QueryRowContext(ctx, query, name, company))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return c, nil
}

func (r *CardRepository) Create(ctx context.Context, params card.CreateCardParams) (*card.Card, error) {
	query := `
		INSERT INTO cards (name, company, image_url, annual_fee_domestic, annual_fee_overseas,
		                   fee_waiver, benefit_summary)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + cardColumns + `
	`

	c, err := scanCard(r.q.QueryRowContext(
		ctx, query,
		params.Name, params.Company, params.ImageURL,
		params.AnnualFeeDomestic, params.AnnualFeeOverseas,
		params.FeeWaiver, params.BenefitSummary,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create card: %w", err)
	}
	return c, nil
}

func (r *CardRepository) Update(ctx context.Context, id int64, params card.UpdateCardParams) (*card.Card, error) {
	query := `
		UPDATE cards
		SET image_url = COALESCE($1, image_url),
		    annual_fee_domestic = COALESCE($2, annual_fee_domestic),
		    annual_fee_overseas = COALESCE($3, annual_fee_overseas),
		    fee_waiver = COALESCE($4, fee_waiver),
		    benefit_summary = COALESCE($5, benefit_summary),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $6
		RETURNING ` + cardColumns + `
	`

	c, err := scanCard(r.q.QueryRowContext(
		ctx, query,
		params.ImageURL, params.AnnualFeeDomestic, params.AnnualFeeOverseas,
		params.FeeWaiver, params.BenefitSummary, id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("card not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update card: %w", err)
	}
	return c, nil
}

func scanCard(row *tracedRow) (*card.Card, error) {
	var c card.Card
	err := row.Scan(
		&c.ID, &c.Name, &c.Company, &c.ImageURL,
		&c.AnnualFeeDomestic, &c.AnnualFeeOverseas,
		&c.FeeWaiver, &c.BenefitSummary,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
