package http

import (
	"encoding/json"
	"log"
	"net/http"

	"tekeer/internal/domain/link"
	"tekeer/internal/infrastructure/provider"
	"tekeer/internal/shared/middleware"
)

type LinkHandler struct {
	issuer *link.Issuer
}

func NewLinkHandler(issuer *link.Issuer) *LinkHandler {
	return &LinkHandler{issuer: issuer}
}

type LinkRequest struct {
	Organization string `json:"organization"`
	LoginType    string `json:"loginType"`
	LoginID      string `json:"id,omitempty"`
	Password     string `json:"password,omitempty"`
	UserName     string `json:"userName,omitempty"`
	PhoneNo      string `json:"phoneNo,omitempty"`
	Identity     string `json:"identity,omitempty"`
	Telecom      string `json:"telecom,omitempty"`
	CardNo       string `json:"cardNo,omitempty"`
	CardPassword string `json:"cardPassword,omitempty"`

	// Present only on the continue step.
	Continuation provider.TwoWayInfo `json:"continuation,omitempty"`
}

type LinkResponse struct {
	Success           bool                `json:"success"`
	Status            string              `json:"status"`
	ConnectedID       string              `json:"connectedId,omitempty"`
	AlreadyRegistered bool                `json:"alreadyRegistered,omitempty"`
	Prompt            string              `json:"prompt,omitempty"`
	Continuation      provider.TwoWayInfo `json:"continuation,omitempty"`
	Code              string              `json:"code,omitempty"`
	ErrorMessage      string              `json:"error_message,omitempty"`
}

// HandleSubmit starts a connected-account link for the authenticated user.
func (h *LinkHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, false)
}

// HandleContinue resumes a link that is waiting on a two-factor challenge.
func (h *LinkHandler) HandleContinue(w http.ResponseWriter, r *http.Request) {
	h.handle(w, r, true)
}

func (h *LinkHandler) handle(w http.ResponseWriter, r *http.Request, isContinue bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req LinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("Error decoding link request: %v", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Organization == "" || req.LoginType == "" {
		writeError(w, http.StatusBadRequest, "organization and loginType are required")
		return
	}

	creds := link.Credentials{
		Organization: req.Organization,
		LoginType:    req.LoginType,
		LoginID:      req.LoginID,
		Password:     req.Password,
		UserName:     req.UserName,
		PhoneNo:      req.PhoneNo,
		Identity:     req.Identity,
		Telecom:      req.Telecom,
		CardNo:       req.CardNo,
		CardPassword: req.CardPassword,
	}

	var result link.Result
	if isContinue {
		result = h.issuer.Continue(r.Context(), userID, creds, req.Continuation)
	} else {
		result = h.issuer.Submit(r.Context(), userID, creds)
	}

	switch result.Status {
	case link.StatusLinked:
		writeJSON(w, http.StatusCreated, LinkResponse{
			Success:           true,
			Status:            result.Status.String(),
			ConnectedID:       result.ConnectedID,
			AlreadyRegistered: result.AlreadyRegistered,
		})
	case link.StatusTwoFactorPending:
		writeJSON(w, http.StatusAccepted, LinkResponse{
			Success:      true,
			Status:       result.Status.String(),
			Prompt:       result.Prompt,
			Continuation: result.Continuation,
		})
	default:
		log.Printf("Link failed for user %d org %s: code=%s reason=%s",
			userID, req.Organization, result.Code, result.Reason)
		writeJSON(w, http.StatusBadRequest, LinkResponse{
			Status:       result.Status.String(),
			Code:         result.Code,
			ErrorMessage: result.Reason,
		})
	}
}
