package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"

	"tekeer/internal/domain/link"
	syncsvc "tekeer/internal/domain/sync"
	"tekeer/internal/domain/user"
	"tekeer/internal/infrastructure/provider"
	"tekeer/internal/shared/middleware"
)

type SyncHandler struct {
	cardSync    *syncsvc.CardSyncService
	expenseSync *syncsvc.ExpenseSyncService
	accounts    link.Repository
	users       user.Repository
}

func NewSyncHandler(cardSync *syncsvc.CardSyncService, expenseSync *syncsvc.ExpenseSyncService, accounts link.Repository, users user.Repository) *SyncHandler {
	return &SyncHandler{
		cardSync:    cardSync,
		expenseSync: expenseSync,
		accounts:    accounts,
		users:       users,
	}
}

type SyncRequest struct {
	Organization string `json:"organization"`
	BirthDate    string `json:"birthDate,omitempty"`
	CardNo       string `json:"cardNo,omitempty"`
	CardPassword string `json:"cardPassword,omitempty"`
	InquiryType  string `json:"inquiryType,omitempty"`

	// Approval sync only, YYYYMMDD.
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type SyncResponse struct {
	Success  bool     `json:"success"`
	RunID    string   `json:"runId"`
	Found    int      `json:"found"`
	Added    int      `json:"added,omitempty"`
	Updated  int      `json:"updated,omitempty"`
	Saved    int      `json:"saved,omitempty"`
	Skipped  int      `json:"skipped,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// HandleSyncCards pulls the card list for one linked organization and
// reconciles the user's cards.
func (h *SyncHandler) HandleSyncCards(w http.ResponseWriter, r *http.Request) {
	userID, req, listParams, ok := h.prepare(w, r)
	if !ok {
		return
	}

	runID := uuid.New().String()
	log.Printf("Card sync %s started for user %d org %s", runID, userID, req.Organization)

	result, err := h.cardSync.SyncUserCards(r.Context(), userID, listParams)
	if err != nil {
		log.Printf("Card sync %s failed for user %d: %v", runID, userID, err)
		writeError(w, http.StatusBadGateway, "card sync failed")
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		Success: true,
		RunID:   runID,
		Found:   result.Found,
		Added:   result.Added,
		Updated: result.Updated,
	})
}

// HandleSyncBilling pulls the billing history for one linked organization.
func (h *SyncHandler) HandleSyncBilling(w http.ResponseWriter, r *http.Request) {
	userID, req, listParams, ok := h.prepare(w, r)
	if !ok {
		return
	}

	runID := uuid.New().String()
	log.Printf("Billing sync %s started for user %d org %s", runID, userID, req.Organization)

	result, err := h.expenseSync.SyncBilling(r.Context(), userID, listParams)
	if err != nil {
		log.Printf("Billing sync %s failed for user %d: %v", runID, userID, err)
		writeError(w, http.StatusBadGateway, "billing sync failed")
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		Success:  true,
		RunID:    runID,
		Found:    result.Found,
		Saved:    result.Saved,
		Skipped:  result.Skipped,
		Warnings: result.Warnings,
	})
}

// HandleSyncApprovals pulls the approval history over a date range.
func (h *SyncHandler) HandleSyncApprovals(w http.ResponseWriter, r *http.Request) {
	userID, req, listParams, ok := h.prepare(w, r)
	if !ok {
		return
	}

	if req.StartDate == "" || req.EndDate == "" {
		writeError(w, http.StatusBadRequest, "startDate and endDate are required")
		return
	}

	runID := uuid.New().String()
	log.Printf("Approval sync %s started for user %d org %s (%s..%s)",
		runID, userID, req.Organization, req.StartDate, req.EndDate)

	result, err := h.expenseSync.SyncApprovals(r.Context(), userID, provider.ApprovalParams{
		ListParams: listParams,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
	})
	if err != nil {
		log.Printf("Approval sync %s failed for user %d: %v", runID, userID, err)
		writeError(w, http.StatusBadGateway, "approval sync failed")
		return
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		Success:  true,
		RunID:    runID,
		Found:    result.Found,
		Saved:    result.Saved,
		Skipped:  result.Skipped,
		Warnings: result.Warnings,
	})
}

// prepare decodes the request, resolves the stored connected account for
// the organization and builds provider list parameters. A missing link is
// a 404: the user must submit credentials first.
func (h *SyncHandler) prepare(w http.ResponseWriter, r *http.Request) (int64, *SyncRequest, provider.ListParams, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return 0, nil, provider.ListParams{}, false
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return 0, nil, provider.ListParams{}, false
	}

	var req SyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding sync request: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return 0, nil, provider.ListParams{}, false
	}

	if req.Organization == "" {
		writeError(w, http.StatusBadRequest, "organization is required")
		return 0, nil, provider.ListParams{}, false
	}

	account, err := h.accounts.GetByUserAndOrganization(r.Context(), userID, req.Organization)
	if err != nil {
		log.Printf("Error looking up connected account for user %d org %s: %v", userID, req.Organization, err)
		writeError(w, http.StatusInternalServerError, "failed to look up connected account")
		return 0, nil, provider.ListParams{}, false
	}
	if account == nil {
		writeError(w, http.StatusNotFound, "no connected account for organization")
		return 0, nil, provider.ListParams{}, false
	}

	// Some issuers want the holder's birth date on list calls. Fall back
	// to the stored profile when the request leaves it out.
	if req.BirthDate == "" {
		u, err := h.users.GetByID(r.Context(), userID)
		if err != nil {
			log.Printf("Error looking up user %d: %v", userID, err)
		} else if u != nil && u.BirthDate != nil {
			req.BirthDate = *u.BirthDate
		}
	}

	return userID, &req, provider.ListParams{
		Organization: req.Organization,
		ConnectedID:  account.ConnectedID,
		BirthDate:    req.BirthDate,
		CardNo:       req.CardNo,
		CardPassword: req.CardPassword,
		InquiryType:  req.InquiryType,
	}, true
}
