package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pcbank/banking-api/internal/auth"
	"github.com/pcbank/banking-api/internal/domain"
	"github.com/pcbank/banking-api/internal/logging"
)

type accountService interface {
	GetBalance(ctx context.Context, userID uuid.UUID, accountID int64) (*domain.Account, error)
	GetUserAccounts(ctx context.Context, userID uuid.UUID) ([]domain.Account, error)
}

type AccountHandler struct {
	accounts accountService
}

func NewAccountHandler(accounts accountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type accountDTO struct {
	ID               int64     `json:"id"`
	AccountNumber    string    `json:"account_number"`
	Balance          string    `json:"balance"`
	AvailableBalance string    `json:"available_balance"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

func toAccountDTO(a *domain.Account) accountDTO {
	return accountDTO{
		ID:               a.ID,
		AccountNumber:    a.AccountNumber,
		Balance:          domain.FormatAmount(a.Balance),
		AvailableBalance: domain.FormatAmount(a.AvailableBalance),
		Status:           string(a.Status),
		CreatedAt:        a.CreatedAt,
	}
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	accounts, err := h.accounts.GetUserAccounts(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Error("failed to list accounts", "error", err)
		RespondDomainError(w, err)
		return
	}

	dtos := make([]accountDTO, len(accounts))
	for i := range accounts {
		dtos[i] = toAccountDTO(&accounts[i])
	}

	RespondSuccess(w, http.StatusOK, dtos)
}

// Balance serves the pre-submission probe. The engine re-checks funds
// under lock at commit time; nothing read here is authoritative.
func (h *AccountHandler) Balance(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	accountID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		RespondAppError(w, ErrResourceNotFound, nil)
		return
	}

	acct, err := h.accounts.GetBalance(r.Context(), userID, accountID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("balance lookup failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusOK, balanceDTO{
		AccountID:        acct.ID,
		Balance:          domain.FormatAmount(acct.Balance),
		AvailableBalance: domain.FormatAmount(acct.AvailableBalance),
	})
}
