package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"tekeer/internal/domain/expense"
)

type ExpenseRepository struct {
	q querier
}

func NewExpenseRepository(db *DB) *ExpenseRepository {
	return &ExpenseRepository{q: db}
}

const expenseColumns = `id, user_id, user_card_id, category, status, amount, merchant_name, spent_at,
       approval_number, payment_type, installment_month, round_no, payment_principal, fee,
       payment_amount, after_payment_balance, earned_points, created_at, updated_at, deleted_at`

func (r *ExpenseRepository) FindByApprovalNumber(ctx context.Context, userID int64, approvalNumber string) (*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1 AND approval_number = $2 AND deleted_at IS NULL
	`

	e, err := scanExpense(r.q.QueryRowContext(ctx, query, userID, approvalNumber))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find expense by approval number: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepository) FindByNaturalKey(ctx context.Context, userID int64, spentAt time.Time, merchantName string, amount int64) (*expense.Expense, error) {
	query := `
		SELECT ` + expenseColumns + `
		FROM expenses
		WHERE user_id = $1 AND spent_at = $2 AND merchant_name = $3 AND amount = $4
		  AND deleted_at IS NULL
	`

	e, err := scanExpense(r.q.QueryRowContext(ctx, query, userID, spentAt, merchantName, amount))
	if err == sql.ErrNoRows {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find expense: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepository) Create(ctx context.Context, params expense.UpsertParams) (*expense.Expense, error) {
	query := `
		INSERT INTO expenses (user_id, user_card_id, category, status, amount, merchant_name, spent_at,
		                      approval_number, payment_type, installment_month, round_no,
		                      payment_principal, fee, payment_amount, after_payment_balance, earned_points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + expenseColumns + `
	`

	e, err := scanExpense(r.q.QueryRowContext(
		ctx, query,
		params.UserID, params.UserCardID, params.Category, params.Status,
		params.Amount, params.MerchantName, params.SpentAt,
		params.ApprovalNumber, params.PaymentType, params.InstallmentMonth, params.RoundNo,
		params.PaymentPrincipal, params.Fee, params.PaymentAmount,
		params.AfterPaymentBalance, params.EarnedPoints,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	return e, nil
}

func (r *ExpenseRepository) Update(ctx context.Context, id int64, params expense.UpsertParams) (*expense.Expense, error) {
	query := `
		UPDATE expenses
		SET user_card_id = $1,
		    status = $2,
		    amount = $3,
		    merchant_name = $4,
		    spent_at = $5,
		    approval_number = $6,
		    payment_type = $7,
		    installment_month = $8,
		    round_no = $9,
		    payment_principal = $10,
		    fee = $11,
		    payment_amount = $12,
		    after_payment_balance = $13,
		    earned_points = $14,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $15
		RETURNING ` + expenseColumns + `
	`

	e, err := scanExpense(r.q.QueryRowContext(
		ctx, query,
		params.UserCardID, params.Status, params.Amount, params.MerchantName, params.SpentAt,
		params.ApprovalNumber, params.PaymentType, params.InstallmentMonth, params.RoundNo,
		params.PaymentPrincipal, params.Fee, params.PaymentAmount,
		params.AfterPaymentBalance, params.EarnedPoints, id,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	return e, nil
}

func scanExpense(row *tracedRow) (*expense.Expense, error) {
	var e expense.Expense
	var deletedAt sql.NullTime

	err := row.Scan(
		&e.ID, &e.UserID, &e.UserCardID, &e.Category, &e.Status,
		&e.Amount, &e.MerchantName, &e.SpentAt,
		&e.ApprovalNumber, &e.PaymentType, &e.InstallmentMonth, &e.RoundNo,
		&e.PaymentPrincipal, &e.Fee, &e.PaymentAmount,
		&e.AfterPaymentBalance, &e.EarnedPoints,
		&e.CreatedAt, &e.UpdatedAt, &deletedAt,
	)
	if err != nil {
		return nil, err
	}

	if deletedAt.Valid {
		e.DeletedAt = &deletedAt.Time
	}
	return &e, nil
}
