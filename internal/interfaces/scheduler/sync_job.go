package scheduler

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"tekeer/internal/domain/link"
	syncsvc "tekeer/internal/domain/sync"
	"tekeer/internal/infrastructure/provider"
)

// approvalLookback is how far back scheduled runs pull approval history.
// Overlap with earlier runs is safe: reconciliation dedups by identity.
const approvalLookback = 30 * 24 * time.Hour

// AccountSyncJob refreshes one connected account: card list first, then
// the recent approval history, so new cards exist before transactions
// try to attach to them.
type AccountSyncJob struct {
	account     *link.ConnectedAccount
	cardSync    *syncsvc.CardSyncService
	expenseSync *syncsvc.ExpenseSyncService
}

func NewAccountSyncJob(account *link.ConnectedAccount, cardSync *syncsvc.CardSyncService, expenseSync *syncsvc.ExpenseSyncService) *AccountSyncJob {
	return &AccountSyncJob{
		account:     account,
		cardSync:    cardSync,
		expenseSync: expenseSync,
	}
}

func (j *AccountSyncJob) Execute(ctx context.Context) error {
	listParams := provider.ListParams{
		Organization: j.account.Organization,
		ConnectedID:  j.account.ConnectedID,
	}

	cardResult, err := j.cardSync.SyncUserCards(ctx, j.account.UserID, listParams)
	if err != nil {
		return fmt.Errorf("card sync failed: %w", err)
	}

	now := time.Now()
	approvalResult, err := j.expenseSync.SyncApprovals(ctx, j.account.UserID, provider.ApprovalParams{
		ListParams: listParams,
		StartDate:  now.Add(-approvalLookback).Format("20060102"),
		EndDate:    now.Format("20060102"),
	})
	if err != nil {
		return fmt.Errorf("approval sync failed: %w", err)
	}

	log.Printf("Scheduled sync for user %d org %s: cards found=%d added=%d updated=%d, approvals found=%d saved=%d skipped=%d",
		j.account.UserID, j.account.Organization,
		cardResult.Found, cardResult.Added, cardResult.Updated,
		approvalResult.Found, approvalResult.Saved, approvalResult.Skipped)

	for _, warning := range approvalResult.Warnings {
		log.Printf("Scheduled sync warning for user %d: %s", j.account.UserID, warning)
	}

	return nil
}

func (j *AccountSyncJob) UserID() string {
	return strconv.FormatInt(j.account.UserID, 10)
}

func (j *AccountSyncJob) Description() string {
	return fmt.Sprintf("Account sync for org %s", j.account.Organization)
}

// NewSyncJobProvider builds the scheduler's job provider: one job per
// stored connected account.
func NewSyncJobProvider(accounts link.Repository, cardSync *syncsvc.CardSyncService, expenseSync *syncsvc.ExpenseSyncService) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		linked, err := accounts.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list connected accounts: %w", err)
		}

		jobs := make([]Job, 0, len(linked))
		for _, account := range linked {
			jobs = append(jobs, NewAccountSyncJob(account, cardSync, expenseSync))
		}
		return jobs, nil
	}
}
