package card

import "time"

// Card is one catalog entry for a card product. The catalog is shared
// across users; (Name, Company) identifies a product and must never be
// duplicated by repeated syncs.
type Card struct {
	ID                int64
	Name              string
	Company           string
	ImageURL          *string
	AnnualFeeDomestic int64
	AnnualFeeOverseas int64
	FeeWaiver         *string
	BenefitSummary    *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// UserCard links one user to one catalog card and carries the masked
// card number the issuer reported for that user.
type UserCard struct {
	ID           int64
	UserID       int64
	CardID       int64
	CardNumber   *string
	RegisteredAt time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserCardDetail is a UserCard joined with its catalog entry, used when
// matching provider transaction labels against the user's cards.
type UserCardDetail struct {
	UserCard
	CardName string
	Company  string
}

// CreateCardParams holds the attributes for a new catalog entry.
type CreateCardParams struct {
	Name              string
	Company           string
	ImageURL          *string
	AnnualFeeDomestic int64
	AnnualFeeOverseas int64
	FeeWaiver         *string
	BenefitSummary    *string
}

// UpdateCardParams holds the mutable attributes overwritten on re-sync.
// The natural key (Name, Company) is never updated.
type UpdateCardParams struct {
	ImageURL          *string
	AnnualFeeDomestic *int64
	AnnualFeeOverseas *int64
	FeeWaiver         *string
	BenefitSummary    *string
}
