package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pcbank/banking-api/internal/domain"
	"github.com/pcbank/banking-api/internal/logging"
)

// BillPaymentRequest debits an internal account against an external
// biller/subscriber reference. No internal account is credited; the
// biller side settles outside this system.
type BillPaymentRequest struct {
	UserID           uuid.UUID
	PayFromAccountID int64
	BillerID         int64
	SubscriberNumber string
	SubscriberName   string
	Amount           int64
	Notes            *string
}

func (s *Service) ExecuteBillPayment(ctx context.Context, req BillPaymentRequest) (*Result, error) {
	log := logging.FromContext(ctx)

	if req.Amount <= 0 {
		return nil, fmt.Errorf("ExecuteBillPayment: %w", domain.ErrInvalidAmount)
	}
	source, err := s.accounts.GetByID(ctx, req.PayFromAccountID)
	if err != nil {
		return nil, fmt.Errorf("ExecuteBillPayment: %w", err)
	}
	if source.UserID != req.UserID {
		return nil, fmt.Errorf("ExecuteBillPayment: source not owned by caller: %w", domain.ErrAccountNotFound)
	}

	biller, err := s.billers.GetByID(ctx, req.BillerID)
	if err != nil {
		return nil, fmt.Errorf("ExecuteBillPayment: %w", err)
	}

	rec := &domain.TransferRecord{
		Kind:             domain.TransferKindBill,
		SourceAccountID:  &source.ID,
		BillerID:         &biller.ID,
		SubscriberNumber: &req.SubscriberNumber,
		SubscriberName:   &req.SubscriberName,
		Amount:           req.Amount,
		Notes:            req.Notes,
	}

	res, err := s.settle(ctx, []movement{
		{accountID: source.ID, delta: -req.Amount},
	}, rec)
	if err != nil {
		return nil, fmt.Errorf("ExecuteBillPayment: %w", err)
	}

	log.Info("bill payment completed",
		"reference", res.ReferenceCode,
		"source_account", source.ID,
		"biller_id", biller.ID,
		"amount", req.Amount,
	)

	return res, nil
}
