package http

import (
	"log"
	"net/http"

	"tekeer/internal/domain/card"
	"tekeer/internal/shared/middleware"
)

type CardHandler struct {
	userCards card.UserCardRepository
}

func NewCardHandler(userCards card.UserCardRepository) *CardHandler {
	return &CardHandler{userCards: userCards}
}

type UserCardResponse struct {
	ID           int64   `json:"id"`
	CardName     string  `json:"cardName"`
	Company      string  `json:"company"`
	CardNumber   *string `json:"cardNumber"`
	RegisteredAt string  `json:"registeredAt"`
}

// HandleListCards returns the authenticated user's registered cards.
func (h *CardHandler) HandleListCards(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := middleware.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	cards, err := h.userCards.ListByUser(r.Context(), userID)
	if err != nil {
		log.Printf("Error listing cards for user %d: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "failed to list cards")
		return
	}

	response := make([]UserCardResponse, 0, len(cards))
	for _, c := range cards {
		response = append(response, UserCardResponse{
			ID:           c.ID,
			CardName:     c.CardName,
			Company:      c.Company,
			CardNumber:   c.CardNumber,
			RegisteredAt: c.RegisteredAt.Format("2006-01-02"),
		})
	}

	writeJSON(w, http.StatusOK, response)
}
