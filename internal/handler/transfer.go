package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/pcbank/banking-api/internal/auth"
	"github.com/pcbank/banking-api/internal/domain"
	"github.com/pcbank/banking-api/internal/logging"
	"github.com/pcbank/banking-api/internal/service/transfer"
)

type transferService interface {
	ExecuteOwnTransfer(ctx context.Context, req transfer.OwnTransferRequest) (*transfer.Result, error)
	ExecuteAnyTransfer(ctx context.Context, req transfer.AnyTransferRequest) (*transfer.Result, error)
	ExecuteBillPayment(ctx context.Context, req transfer.BillPaymentRequest) (*transfer.Result, error)
	ExecuteExternalDeposit(ctx context.Context, req transfer.ExternalDepositRequest) (*transfer.Result, error)
}

type TransferHandler struct {
	transfers transferService
}

func NewTransferHandler(transfers transferService) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

type ownTransferRequest struct {
	FromAccountID     int64  `json:"from_account_id"`
	FromAccountNumber string `json:"from_account_number"`
	ToAccountNumber   string `json:"to_account_number"`
	Amount            string `json:"amount"`
	Notes             string `json:"notes"`
}

func (r ownTransferRequest) Validate() []FieldError {
	var errs []FieldError
	if r.FromAccountID <= 0 {
		errs = append(errs, FieldError{Field: "from_account_id", Message: "required"})
	}
	if r.FromAccountNumber == "" {
		errs = append(errs, FieldError{Field: "from_account_number", Message: "required"})
	}
	if r.ToAccountNumber == "" {
		errs = append(errs, FieldError{Field: "to_account_number", Message: "required"})
	}
	if r.Amount == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	}
	return errs
}

type anyTransferRequest struct {
	FromAccountID     int64  `json:"from_account_id"`
	FromAccountNumber string `json:"from_account_number"`
	ToAccountID       int64  `json:"to_account_id"`
	ToAccountNumber   string `json:"to_account_number"`
	Amount            string `json:"amount"`
	Notes             string `json:"notes"`
}

func (r anyTransferRequest) Validate() []FieldError {
	var errs []FieldError
	if r.FromAccountID <= 0 {
		errs = append(errs, FieldError{Field: "from_account_id", Message: "required"})
	}
	if r.FromAccountNumber == "" {
		errs = append(errs, FieldError{Field: "from_account_number", Message: "required"})
	}
	if r.ToAccountID <= 0 {
		errs = append(errs, FieldError{Field: "to_account_id", Message: "required"})
	}
	if r.ToAccountNumber == "" {
		errs = append(errs, FieldError{Field: "to_account_number", Message: "required"})
	}
	if r.Amount == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	}
	return errs
}

type billPaymentRequest struct {
	PayFromAccountID int64  `json:"pay_from_account_id"`
	BillerID         int64  `json:"biller_id"`
	SubscriberNumber string `json:"subscriber_account_number"`
	SubscriberName   string `json:"subscriber_account_name"`
	Amount           string `json:"amount"`
	Notes            string `json:"notes"`
}

func (r billPaymentRequest) Validate() []FieldError {
	var errs []FieldError
	if r.PayFromAccountID <= 0 {
		errs = append(errs, FieldError{Field: "pay_from_account_id", Message: "required"})
	}
	if r.BillerID <= 0 {
		errs = append(errs, FieldError{Field: "biller_id", Message: "required"})
	}
	if r.SubscriberNumber == "" {
		errs = append(errs, FieldError{Field: "subscriber_account_number", Message: "required"})
	}
	if r.SubscriberName == "" {
		errs = append(errs, FieldError{Field: "subscriber_account_name", Message: "required"})
	}
	if r.Amount == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	}
	return errs
}

type externalDepositRequest struct {
	LinkedAccountID   int64  `json:"linked_account_id"`
	InternalAccountID int64  `json:"internal_account_id"`
	Amount            string `json:"amount"`
}

func (r externalDepositRequest) Validate() []FieldError {
	var errs []FieldError
	if r.LinkedAccountID <= 0 {
		errs = append(errs, FieldError{Field: "linked_account_id", Message: "required"})
	}
	if r.InternalAccountID <= 0 {
		errs = append(errs, FieldError{Field: "internal_account_id", Message: "required"})
	}
	if r.Amount == "" {
		errs = append(errs, FieldError{Field: "amount", Message: "required"})
	}
	return errs
}

type balanceDTO struct {
	AccountID        int64  `json:"account_id"`
	Balance          string `json:"balance"`
	AvailableBalance string `json:"available_balance"`
}

type transferResultDTO struct {
	ReferenceCode string      `json:"reference_code"`
	Source        *balanceDTO `json:"source,omitempty"`
	Dest          *balanceDTO `json:"dest,omitempty"`
}

func toTransferResultDTO(res *transfer.Result) transferResultDTO {
	dto := transferResultDTO{ReferenceCode: res.ReferenceCode}
	if res.Source != nil {
		dto.Source = &balanceDTO{
			AccountID:        res.Source.ID,
			Balance:          domain.FormatAmount(res.Source.Balance),
			AvailableBalance: domain.FormatAmount(res.Source.AvailableBalance),
		}
	}
	if res.Dest != nil {
		dto.Dest = &balanceDTO{
			AccountID:        res.Dest.ID,
			Balance:          domain.FormatAmount(res.Dest.Balance),
			AvailableBalance: domain.FormatAmount(res.Dest.AvailableBalance),
		}
	}
	return dto
}

func notesPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (h *TransferHandler) CreateOwn(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req ownTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	res, err := h.transfers.ExecuteOwnTransfer(r.Context(), transfer.OwnTransferRequest{
		UserID:            userID,
		FromAccountID:     req.FromAccountID,
		FromAccountNumber: req.FromAccountNumber,
		ToAccountNumber:   req.ToAccountNumber,
		Amount:            amount,
		Notes:             notesPtr(req.Notes),
	})
	if err != nil {
		log.Warn("own transfer failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransferResultDTO(res))
}

func (h *TransferHandler) CreateAny(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req anyTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	res, err := h.transfers.ExecuteAnyTransfer(r.Context(), transfer.AnyTransferRequest{
		UserID:            userID,
		FromAccountID:     req.FromAccountID,
		FromAccountNumber: req.FromAccountNumber,
		ToAccountID:       req.ToAccountID,
		ToAccountNumber:   req.ToAccountNumber,
		Amount:            amount,
		Notes:             notesPtr(req.Notes),
	})
	if err != nil {
		log.Warn("any-account transfer failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransferResultDTO(res))
}

func (h *TransferHandler) CreateBillPayment(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req billPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	res, err := h.transfers.ExecuteBillPayment(r.Context(), transfer.BillPaymentRequest{
		UserID:           userID,
		PayFromAccountID: req.PayFromAccountID,
		BillerID:         req.BillerID,
		SubscriberNumber: req.SubscriberNumber,
		SubscriberName:   req.SubscriberName,
		Amount:           amount,
		Notes:            notesPtr(req.Notes),
	})
	if err != nil {
		log.Warn("bill payment failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransferResultDTO(res))
}

func (h *TransferHandler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	log := logging.FromContext(r.Context())

	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		RespondAppError(w, ErrMissingToken, nil)
		return
	}

	var req externalDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondAppError(w, ErrInvalidRequest, nil)
		return
	}
	if fields := req.Validate(); len(fields) > 0 {
		RespondValidationError(w, fields)
		return
	}

	amount, err := domain.ParseAmount(req.Amount)
	if err != nil {
		RespondDomainError(w, err)
		return
	}

	res, err := h.transfers.ExecuteExternalDeposit(r.Context(), transfer.ExternalDepositRequest{
		UserID:            userID,
		LinkedAccountID:   req.LinkedAccountID,
		InternalAccountID: req.InternalAccountID,
		Amount:            amount,
	})
	if err != nil {
		log.Warn("external deposit failed", "error", err)
		RespondDomainError(w, err)
		return
	}

	RespondSuccess(w, http.StatusCreated, toTransferResultDTO(res))
}
