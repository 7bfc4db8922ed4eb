package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcbank/banking-api/internal/auth"
	"github.com/pcbank/banking-api/internal/domain"
	"github.com/pcbank/banking-api/internal/service/transfer"
)

type stubTransferService struct {
	result *transfer.Result
	err    error

	gotOwn *transfer.OwnTransferRequest
}

func (s *stubTransferService) ExecuteOwnTransfer(_ context.Context, req transfer.OwnTransferRequest) (*transfer.Result, error) {
	s.gotOwn = &req
	return s.result, s.err
}

func (s *stubTransferService) ExecuteAnyTransfer(_ context.Context, _ transfer.AnyTransferRequest) (*transfer.Result, error) {
	return s.result, s.err
}

func (s *stubTransferService) ExecuteBillPayment(_ context.Context, _ transfer.BillPaymentRequest) (*transfer.Result, error) {
	return s.result, s.err
}

func (s *stubTransferService) ExecuteExternalDeposit(_ context.Context, _ transfer.ExternalDepositRequest) (*transfer.Result, error) {
	return s.result, s.err
}

func authedRequest(t *testing.T, method, target, body string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	return r.WithContext(auth.ContextWithUserID(r.Context(), uuid.New()))
}

func TestCreateOwn_Success(t *testing.T) {
	stub := &stubTransferService{result: &transfer.Result{
		ReferenceCode: "PC-7QX04A9Z",
		Source:        &domain.Account{ID: 1, Balance: 7000, AvailableBalance: 7000},
		Dest:          &domain.Account{ID: 2, Balance: 8000, AvailableBalance: 8000},
	}}
	h := NewTransferHandler(stub)

	body := `{"from_account_id":1,"from_account_number":"1000000001","to_account_number":"1000000002","amount":"30.00"}`
	w := httptest.NewRecorder()
	h.CreateOwn(w, authedRequest(t, http.MethodPost, "/api/v1/transfers/own", body))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ReferenceCode string `json:"reference_code"`
			Source        struct {
				Balance string `json:"balance"`
			} `json:"source"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "PC-7QX04A9Z", resp.Data.ReferenceCode)
	assert.Equal(t, "70.00", resp.Data.Source.Balance)

	require.NotNil(t, stub.gotOwn)
	assert.Equal(t, int64(3000), stub.gotOwn.Amount)
}

func TestCreateOwn_InvalidAmountString(t *testing.T) {
	h := NewTransferHandler(&stubTransferService{})

	for _, amount := range []string{"0", "-5", "1.005", "abc"} {
		body := `{"from_account_id":1,"from_account_number":"1000000001","to_account_number":"1000000002","amount":"` + amount + `"}`
		w := httptest.NewRecorder()
		h.CreateOwn(w, authedRequest(t, http.MethodPost, "/api/v1/transfers/own", body))

		assert.Equal(t, http.StatusBadRequest, w.Code, "amount %q", amount)
	}
}

func TestCreateOwn_DomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
		{"account not found", domain.ErrAccountNotFound, http.StatusUnprocessableEntity, "ACCOUNT_NOT_FOUND"},
		{"account inactive", domain.ErrAccountInactive, http.StatusUnprocessableEntity, "ACCOUNT_INACTIVE"},
		{"same account", domain.ErrSameAccount, http.StatusUnprocessableEntity, "SAME_ACCOUNT"},
		{"storage conflict", domain.ErrStorageConflict, http.StatusConflict, "STORAGE_CONFLICT"},
		{"reference generation", domain.ErrReferenceGeneration, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"storage unavailable", domain.ErrStorageUnavailable, http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	body := `{"from_account_id":1,"from_account_number":"1000000001","to_account_number":"1000000002","amount":"30.00"}`

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewTransferHandler(&stubTransferService{err: tc.err})
			w := httptest.NewRecorder()
			h.CreateOwn(w, authedRequest(t, http.MethodPost, "/api/v1/transfers/own", body))

			require.Equal(t, tc.wantStatus, w.Code)

			var resp struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestCreateOwn_Unauthenticated(t *testing.T) {
	h := NewTransferHandler(&stubTransferService{})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/v1/transfers/own", strings.NewReader(`{}`))
	h.CreateOwn(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOwnTransferRequestValidate(t *testing.T) {
	tests := []struct {
		name       string
		req        ownTransferRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  ownTransferRequest{FromAccountID: 1, FromAccountNumber: "1000000001", ToAccountNumber: "1000000002", Amount: "30.00"},
		},
		{
			name:       "missing everything",
			req:        ownTransferRequest{},
			wantFields: []string{"from_account_id", "from_account_number", "to_account_number", "amount"},
		},
		{
			name:       "missing amount",
			req:        ownTransferRequest{FromAccountID: 1, FromAccountNumber: "1000000001", ToAccountNumber: "1000000002"},
			wantFields: []string{"amount"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.req.Validate()
			var got []string
			for _, fe := range errs {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tc.wantFields, got)
		})
	}
}

func TestBillPaymentRequestValidate(t *testing.T) {
	valid := billPaymentRequest{
		PayFromAccountID: 1,
		BillerID:         2,
		SubscriberNumber: "4411223344",
		SubscriberName:   "Maria Santos",
		Amount:           "25.00",
	}
	assert.Empty(t, valid.Validate())

	missing := billPaymentRequest{PayFromAccountID: 1, Amount: "25.00"}
	errs := missing.Validate()
	require.Len(t, errs, 3)
}
