package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcbank/banking-api/internal/domain"
)

type fakeAccountReader struct {
	byID map[int64]*domain.Account
}

func (f *fakeAccountReader) GetByID(_ context.Context, id int64) (*domain.Account, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccountReader) GetByUserID(_ context.Context, userID uuid.UUID) ([]domain.Account, error) {
	var out []domain.Account
	for _, a := range f.byID {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func TestGetBalance(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	svc := NewAccountService(&fakeAccountReader{byID: map[int64]*domain.Account{
		1: {ID: 1, UserID: owner, Balance: 10000, AvailableBalance: 10000},
	}})

	acct, err := svc.GetBalance(context.Background(), owner, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), acct.Balance)

	// Someone else's account id reads as not found, not forbidden.
	_, err = svc.GetBalance(context.Background(), stranger, 1)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = svc.GetBalance(context.Background(), owner, 42)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}
