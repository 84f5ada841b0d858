package card

import "context"

// Repository is the storage contract for the card catalog.
type Repository interface {
	// GetByNameAndCompany returns nil (not an error) when no catalog
	// entry exists for the pair.
	GetByNameAndCompany(ctx context.Context, name, company string) (*Card, error)
	Create(ctx context.Context, params CreateCardParams) (*Card, error)
	Update(ctx context.Context, id int64, params UpdateCardParams) (*Card, error)
}

// UserCardRepository is the storage contract for user-to-card links.
type UserCardRepository interface {
	// GetByUserAndCard returns nil when the user has no link to the card.
	GetByUserAndCard(ctx context.Context, userID, cardID int64) (*UserCard, error)
	Create(ctx context.Context, userID, cardID int64, cardNumber *string) (*UserCard, error)
	UpdateCardNumber(ctx context.Context, id int64, cardNumber *string) error
	ListByUser(ctx context.Context, userID int64) ([]*UserCardDetail, error)
}
