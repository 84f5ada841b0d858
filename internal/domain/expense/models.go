package expense

import "time"

// Expense is a single billed or approved card transaction reconciled
// from provider data. Dedup identity, in priority order:
//
//  1. (UserID, ApprovalNumber) when the issuer reported an approval number
//  2. (UserID, SpentAt, MerchantName, Amount) for older billing entries
//     that carry none
type Expense struct {
	ID                  int64
	UserID              int64
	UserCardID          int64
	Category            string
	Status              string
	Amount              int64
	MerchantName        string
	SpentAt             time.Time
	ApprovalNumber      string
	PaymentType         *string
	InstallmentMonth    int64
	RoundNo             *string
	PaymentPrincipal    int64
	Fee                 int64
	PaymentAmount       int64
	AfterPaymentBalance int64
	EarnedPoints        int64
	CreatedAt           time.Time
	UpdatedAt           time.Time
	DeletedAt           *time.Time
}

// DefaultCategory is assigned to reconciled entries until the user (or a
// categorizer outside this core) files them.
const DefaultCategory = "기타"

// StatusPaid marks entries that the issuer has already settled. Everything
// pulled from billing/approval history arrives settled.
const StatusPaid = "PAID"

// UpsertParams carries every field the reconciliation path may write.
type UpsertParams struct {
	UserID              int64
	UserCardID          int64
	Category            string
	Status              string
	Amount              int64
	MerchantName        string
	SpentAt             time.Time
	ApprovalNumber      string
	PaymentType         *string
	InstallmentMonth    int64
	RoundNo             *string
	PaymentPrincipal    int64
	Fee                 int64
	PaymentAmount       int64
	AfterPaymentBalance int64
	EarnedPoints        int64
}
