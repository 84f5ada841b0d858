package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"tekeer/internal/domain/card"
	"tekeer/internal/domain/expense"
	"tekeer/internal/domain/sync"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &DB{db}, mock
}

func cardRows(id int64, name, company string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "company", "image_url", "annual_fee_domestic", "annual_fee_overseas",
		"fee_waiver", "benefit_summary", "created_at", "updated_at",
	}).AddRow(id, name, company, nil, 0, 0, nil, nil, now, now)
}

func TestCardRepositoryGetByNameAndCompany(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM cards").
		WithArgs("taptap O", "삼성카드").
		WillReturnRows(cardRows(1, "taptap O", "삼성카드"))

	c, err := repo.GetByNameAndCompany(context.Background(), "taptap O", "삼성카드")
	if err != nil {
		t.Fatalf("GetByNameAndCompany: %v", err)
	}
	if c == nil || c.ID != 1 || c.Name != "taptap O" {
		t.Fatalf("unexpected card: %+v", c)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCardRepositoryGetByNameAndCompanyNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM cards").
		WithArgs("unknown", "삼성카드").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "company", "image_url", "annual_fee_domestic", "annual_fee_overseas",
			"fee_waiver", "benefit_summary", "created_at", "updated_at",
		}))

	c, err := repo.GetByNameAndCompany(context.Background(), "unknown", "삼성카드")
	if err != nil {
		t.Fatalf("expected nil error for missing card, got %v", err)
	}
	if c != nil {
		t.Fatalf("expected nil card, got %+v", c)
	}
}

func TestCardRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewCardRepository(db)

	image := "https://img/taptap.png"
	mock.ExpectQuery("INSERT INTO cards").
		WithArgs("taptap O", "삼성카드", &image, int64(0), int64(0), nil, nil).
		WillReturnRows(cardRows(5, "taptap O", "삼성카드"))

	c, err := repo.Create(context.Background(), card.CreateCardParams{
		Name: "taptap O", Company: "삼성카드", ImageURL: &image,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.ID != 5 {
		t.Fatalf("unexpected id: %d", c.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestUserCardRepositoryUpdateCardNumberNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserCardRepository(db)

	number := "1234"
	mock.ExpectExec("UPDATE user_cards").
		WithArgs(&number, int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateCardNumber(context.Background(), 42, &number)
	if err == nil {
		t.Fatal("expected an error for a missing user card")
	}
}

func TestExpenseRepositoryFindByApprovalNumberNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExpenseRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM expenses").
		WithArgs(int64(7), "A123").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	e, err := repo.FindByApprovalNumber(context.Background(), 7, "A123")
	if err != nil {
		t.Fatalf("expected nil error for missing expense, got %v", err)
	}
	if e != nil {
		t.Fatalf("expected nil expense, got %+v", e)
	}
}

func expenseRows(id int64) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "user_id", "user_card_id", "category", "status", "amount", "merchant_name", "spent_at",
		"approval_number", "payment_type", "installment_month", "round_no", "payment_principal", "fee",
		"payment_amount", "after_payment_balance", "earned_points", "created_at", "updated_at", "deleted_at",
	}).AddRow(id, 7, 3, "기타", "PAID", 12000, "쿠팡", now, "A123", nil, 0, nil, 0, 0, 0, 0, 0, now, now, nil)
}

func TestExpenseRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewExpenseRepository(db)

	spentAt := time.Date(2026, 1, 15, 12, 30, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO expenses").
		WithArgs(
			int64(7), int64(3), "기타", "PAID", int64(12000), "쿠팡", spentAt,
			"A123", nil, int64(0), nil, int64(0), int64(0), int64(0), int64(0), int64(0),
		).
		WillReturnRows(expenseRows(11))

	e, err := repo.Create(context.Background(), expense.UpsertParams{
		UserID: 7, UserCardID: 3, Category: "기타", Status: "PAID",
		Amount: 12000, MerchantName: "쿠팡", SpentAt: spentAt, ApprovalNumber: "A123",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if e.ID != 11 || e.Amount != 12000 {
		t.Fatalf("unexpected expense: %+v", e)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConnectedAccountRepositoryUpsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewConnectedAccountRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO connected_accounts").
		WithArgs(int64(7), "0301", "cid-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "organization", "connected_id", "created_at", "updated_at",
		}).AddRow(1, 7, "0301", "cid-1", now, now))

	a, err := repo.Upsert(context.Background(), 7, "0301", "cid-1")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if a.ConnectedID != "cid-1" {
		t.Fatalf("unexpected connected account: %+v", a)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreWithinTxCommits(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM cards").
		WithArgs("taptap O", "삼성카드").
		WillReturnRows(cardRows(1, "taptap O", "삼성카드"))
	mock.ExpectCommit()

	err := store.WithinTx(context.Background(), func(tx sync.StoreTx) error {
		_, err := tx.Cards().GetByNameAndCompany(context.Background(), "taptap O", "삼성카드")
		return err
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestStoreWithinTxRollsBackOnError(t *testing.T) {
	db, mock := newMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("sync failed")
	err := store.WithinTx(context.Background(), func(tx sync.StoreTx) error {
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected the callback error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSanitizeQuery(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SELECT * FROM cards WHERE name = 'taptap O'", "SELECT * FROM cards WHERE name = '?'"},
		{"SELECT * FROM cards WHERE id = 42", "SELECT * FROM cards WHERE id = ?"},
		{"SELECT * FROM cards WHERE id = $1", "SELECT * FROM cards WHERE id = $1"},
	}

	for _, tt := range tests {
		if got := sanitizeQuery(tt.in); got != tt.want {
			t.Errorf("sanitizeQuery(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractSQLVerb(t *testing.T) {
	if got := extractSQLVerb("  select * from cards"); got != "SELECT" {
		t.Errorf("expected SELECT, got %q", got)
	}
	if got := extractSQLVerb("COMMIT"); got != "COMMIT" {
		t.Errorf("expected COMMIT, got %q", got)
	}
}
