package sync

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"tekeer/internal/domain/card"
	"tekeer/internal/domain/expense"
	"tekeer/internal/infrastructure/provider"
)

const (
	dateLayout     = "20060102"
	dateTimeLayout = "20060102150405"
)

// ExpenseSyncResult reports one billing or approval reconciliation.
type ExpenseSyncResult struct {
	UserID   int64
	Found    int
	Saved    int
	Skipped  int
	Warnings []string
}

func (r *ExpenseSyncResult) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// ExpenseSyncService folds billing and approval histories into the
// transaction ledger. Entries dedup by approval number when present,
// otherwise by (date, merchant, amount), so overlapping date ranges can
// be pulled freely.
type ExpenseSyncService struct {
	client provider.ClientInterface
	store  Store
}

func NewExpenseSyncService(client provider.ClientInterface, store Store) *ExpenseSyncService {
	return &ExpenseSyncService{client: client, store: store}
}

// SyncBilling pulls the billing history for one connected account and
// reconciles every charge in it. Malformed entries are skipped with a
// warning; one bad row never aborts the batch.
func (s *ExpenseSyncService) SyncBilling(ctx context.Context, userID int64, p provider.ListParams) (*ExpenseSyncResult, error) {
	entries, err := s.client.BillingList(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch billing list: %w", err)
	}

	result := &ExpenseSyncResult{UserID: userID}
	err = s.store.WithinTx(ctx, func(tx StoreTx) error {
		userCards, err := tx.UserCards().ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list user cards: %w", err)
		}

		for _, entry := range entries {
			for _, charge := range entry.ChargeHistory {
				result.Found++
				s.reconcileCharge(ctx, tx, userID, userCards, charge, result)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Billing sync completed for user %d: found=%d, saved=%d, skipped=%d",
		userID, result.Found, result.Saved, result.Skipped)
	return result, nil
}

// SyncApprovals pulls the approval history for one connected account
// over the given date range and reconciles every authorized transaction.
func (s *ExpenseSyncService) SyncApprovals(ctx context.Context, userID int64, p provider.ApprovalParams) (*ExpenseSyncResult, error) {
	entries, err := s.client.ApprovalList(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch approval list: %w", err)
	}

	result := &ExpenseSyncResult{UserID: userID}
	err = s.store.WithinTx(ctx, func(tx StoreTx) error {
		userCards, err := tx.UserCards().ListByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to list user cards: %w", err)
		}

		for _, entry := range entries {
			for _, item := range entry.ApprovalList {
				result.Found++
				s.reconcileApproval(ctx, tx, userID, userCards, item, result)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Approval sync completed for user %d: found=%d, saved=%d, skipped=%d",
		userID, result.Found, result.Saved, result.Skipped)
	return result, nil
}

func (s *ExpenseSyncService) reconcileCharge(ctx context.Context, tx StoreTx, userID int64, userCards []*card.UserCardDetail, charge provider.ChargeHistory, result *ExpenseSyncResult) {
	spentAt, err := parseSpentAt(charge.UsedDate, charge.UsedTime)
	if err != nil {
		result.Skipped++
		result.warnf("skipping charge %q: %v", charge.MemberStoreName, err)
		return
	}

	userCard := resolveUserCard(userCards, charge.UsedCard)
	if userCard == nil {
		result.Skipped++
		result.warnf("skipping charge %q: no card matches label %q", charge.MemberStoreName, charge.UsedCard)
		return
	}

	params := expense.UpsertParams{
		UserID:              userID,
		UserCardID:          userCard.ID,
		Category:            expense.DefaultCategory,
		Status:              expense.StatusPaid,
		Amount:              expense.ParseAmount(charge.UsedAmount),
		MerchantName:        charge.MemberStoreName,
		SpentAt:             spentAt,
		ApprovalNumber:      charge.ApprovalNo,
		PaymentType:         optional(charge.PaymentType),
		InstallmentMonth:    expense.ParseAmount(charge.InstallmentMonth),
		RoundNo:             optional(charge.RoundNo),
		PaymentPrincipal:    expense.ParseAmount(charge.PaymentPrincipal),
		Fee:                 expense.ParseAmount(charge.Fee),
		PaymentAmount:       expense.ParseAmount(charge.PaymentAmount),
		AfterPaymentBalance: expense.ParseAmount(charge.AfterPaymentBalance),
		EarnedPoints:        expense.ParseAmount(charge.EarnPoint),
	}

	if err := upsertExpense(ctx, tx, params); err != nil {
		result.Skipped++
		result.warnf("failed to save charge %q: %v", charge.MemberStoreName, err)
		return
	}
	result.Saved++
}

func (s *ExpenseSyncService) reconcileApproval(ctx context.Context, tx StoreTx, userID int64, userCards []*card.UserCardDetail, item provider.ApprovalItem, result *ExpenseSyncResult) {
	spentAt, err := parseSpentAt(item.UsedDate, item.UsedTime)
	if err != nil {
		result.Skipped++
		result.warnf("skipping approval %q: %v", item.ApprovalNo, err)
		return
	}

	userCard := resolveUserCard(userCards, item.CardName)
	if userCard == nil {
		result.Skipped++
		result.warnf("skipping approval %q: no card matches label %q", item.ApprovalNo, item.CardName)
		return
	}

	params := expense.UpsertParams{
		UserID:           userID,
		UserCardID:       userCard.ID,
		Category:         expense.DefaultCategory,
		Status:           expense.StatusPaid,
		Amount:           expense.ParseAmount(item.UsedAmount),
		MerchantName:     item.MemberStoreName,
		SpentAt:          spentAt,
		ApprovalNumber:   item.ApprovalNo,
		PaymentType:      optional(item.PaymentType),
		InstallmentMonth: expense.ParseAmount(item.InstallmentMonth),
	}

	if err := upsertExpense(ctx, tx, params); err != nil {
		result.Skipped++
		result.warnf("failed to save approval %q: %v", item.ApprovalNo, err)
		return
	}
	result.Saved++
}

// upsertExpense locates an existing ledger row by approval number, then
// by (date, merchant, amount), and updates it; otherwise it inserts.
func upsertExpense(ctx context.Context, tx StoreTx, params expense.UpsertParams) error {
	var existing *expense.Expense
	var err error

	if params.ApprovalNumber != "" {
		existing, err = tx.Expenses().FindByApprovalNumber(ctx, params.UserID, params.ApprovalNumber)
		if err != nil {
			return err
		}
	}
	if existing == nil {
		existing, err = tx.Expenses().FindByNaturalKey(ctx, params.UserID, params.SpentAt, params.MerchantName, params.Amount)
		if err != nil {
			return err
		}
	}

	if existing == nil {
		_, err = tx.Expenses().Create(ctx, params)
		return err
	}
	_, err = tx.Expenses().Update(ctx, existing.ID, params)
	return err
}

// resolveUserCard matches a provider transaction label against the user's
// cards. The label is sometimes a card name and sometimes a masked card
// number, so three heuristics run in order:
//
//  1. the card name contains the label (or vice versa)
//  2. an all-digit label suffix-matches a stored card number's digits
//  3. the user has exactly one card
//
// A nil return means the transaction cannot be attributed.
func resolveUserCard(userCards []*card.UserCardDetail, label string) *card.UserCard {
	label = strings.TrimSpace(label)
	if label != "" {
		for _, uc := range userCards {
			if strings.Contains(uc.CardName, label) || strings.Contains(label, uc.CardName) {
				return &uc.UserCard
			}
		}

		if digits := trailingDigits(label); digits != "" {
			for _, uc := range userCards {
				if uc.CardNumber == nil {
					continue
				}
				stored := digitsOnly(*uc.CardNumber)
				if stored != "" && (strings.HasSuffix(stored, digits) || strings.HasSuffix(digits, stored)) {
					return &uc.UserCard
				}
			}
		}
	}

	if len(userCards) == 1 {
		return &userCards[0].UserCard
	}
	return nil
}

// trailingDigits returns the run of digits at the end of the label, if
// the label is digit-bearing at all. Labels like "삼성카드(1234)" and
// "****-1234" both yield "1234".
func trailingDigits(label string) string {
	s := digitsOnly(label)
	if len(s) < 4 {
		return ""
	}
	return s[len(s)-4:]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseSpentAt combines the provider's date and optional time fields.
// Times land in UTC; the provider does not report a zone.
func parseSpentAt(date, clock string) (time.Time, error) {
	if date == "" {
		return time.Time{}, fmt.Errorf("missing transaction date")
	}
	if clock != "" {
		if t, err := time.Parse(dateTimeLayout, date+clock); err == nil {
			return t, nil
		}
	}
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid transaction date %q: %w", date, err)
	}
	return t, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
