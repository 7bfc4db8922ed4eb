package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pcbank/banking-api/internal/auth"
	"github.com/pcbank/banking-api/internal/domain"
	"github.com/pcbank/banking-api/internal/logging"
)

type historyService interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.UnifiedTransaction, error)
}

type HistoryHandler struct {
	history historyService
}

func NewHistoryHandler(history historyService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

type transactionDTO struct {
	ID                 uuid.UUID `json:"id"`
	Kind               string    `json:"kind"`
	Direction          string    `json:"direction"`
	CounterpartyLabel  string    `json:"counterparty_label"`
	CounterpartyMasked string    `json:"counterparty_account"`
	Amount             string    `json:"amount"`
	Notes              *string   `json:"notes,omitempty"`
	ReferenceCode      string    `json:"reference_code"`
	CreatedAt          time.Time `json:"created_at"`
}

func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	feed, err := h.history.ListForUser(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list transactions", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]transactionDTO, len(feed))
	for i, tx := range feed {
		dtos[i] = transactionDTO{
			ID:                 tx.ID,
			Kind:               string(tx.Kind),
			Direction:          string(tx.Direction),
			CounterpartyLabel:  tx.CounterpartyLabel,
			CounterpartyMasked: tx.CounterpartyMasked,
			Amount:             domain.FormatAmount(tx.Amount),
			Notes:              tx.Notes,
			ReferenceCode:      tx.ReferenceCode,
			CreatedAt:          tx.CreatedAt,
		}
	}

	RespondSuccess(w, http.StatusOK, dtos)
}
