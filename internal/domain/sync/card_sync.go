// Package sync reconciles provider card and transaction data into local
// storage. All writes are keyed by natural identity so repeated pulls of
// overlapping data never create duplicates.
package sync

import (
	"context"
	"fmt"
	"log"

	"tekeer/internal/domain/card"
	"tekeer/internal/infrastructure/provider"
)

// CardSyncResult reports one card-list reconciliation.
type CardSyncResult struct {
	UserID  int64
	Found   int
	Added   int
	Updated int
}

// CardSyncService folds provider card-list responses into the card
// catalog and the user's card links.
type CardSyncService struct {
	client provider.ClientInterface
	store  Store
}

func NewCardSyncService(client provider.ClientInterface, store Store) *CardSyncService {
	return &CardSyncService{client: client, store: store}
}

// SyncUserCards pulls the card list for one connected account and upserts
// catalog entries by (name, company) and user links by (user, card).
// Entries without a card name carry nothing to key on and are skipped.
func (s *CardSyncService) SyncUserCards(ctx context.Context, userID int64, p provider.ListParams) (*CardSyncResult, error) {
	entries, err := s.client.CardList(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch card list: %w", err)
	}

	result := &CardSyncResult{UserID: userID, Found: len(entries)}
	company := CompanyForOrganization(p.Organization)

	err = s.store.WithinTx(ctx, func(tx StoreTx) error {
		for _, entry := range entries {
			if entry.CardName == "" {
				continue
			}

			catalogCard, created, err := upsertCatalogCard(ctx, tx, entry, company)
			if err != nil {
				return fmt.Errorf("failed to upsert card %q: %w", entry.CardName, err)
			}
			if created {
				result.Added++
			} else {
				result.Updated++
			}

			if err := upsertUserCard(ctx, tx, userID, catalogCard.ID, entry.CardNo); err != nil {
				return fmt.Errorf("failed to link card %q to user %d: %w", entry.CardName, userID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Card sync completed for user %d: found=%d, added=%d, updated=%d",
		userID, result.Found, result.Added, result.Updated)
	return result, nil
}

func upsertCatalogCard(ctx context.Context, tx StoreTx, entry provider.CardEntry, company string) (*card.Card, bool, error) {
	existing, err := tx.Cards().GetByNameAndCompany(ctx, entry.CardName, company)
	if err != nil {
		return nil, false, err
	}

	var imageURL *string
	if entry.ImageLink != "" {
		imageURL = &entry.ImageLink
	}

	if existing == nil {
		created, err := tx.Cards().Create(ctx, card.CreateCardParams{
			Name:     entry.CardName,
			Company:  company,
			ImageURL: imageURL,
		})
		if err != nil {
			return nil, false, err
		}
		return created, true, nil
	}

	updated, err := tx.Cards().Update(ctx, existing.ID, card.UpdateCardParams{ImageURL: imageURL})
	if err != nil {
		return nil, false, err
	}
	return updated, false, nil
}

func upsertUserCard(ctx context.Context, tx StoreTx, userID, cardID int64, cardNumber string) error {
	var number *string
	if cardNumber != "" {
		number = &cardNumber
	}

	existing, err := tx.UserCards().GetByUserAndCard(ctx, userID, cardID)
	if err != nil {
		return err
	}
	if existing == nil {
		_, err := tx.UserCards().Create(ctx, userID, cardID, number)
		return err
	}

	if number != nil && (existing.CardNumber == nil || *existing.CardNumber != *number) {
		return tx.UserCards().UpdateCardNumber(ctx, existing.ID, number)
	}
	return nil
}
