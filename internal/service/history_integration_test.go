package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcbank/banking-api/internal/config"
	"github.com/pcbank/banking-api/internal/domain"
	"github.com/pcbank/banking-api/internal/repository"
	"github.com/pcbank/banking-api/internal/service"
	"github.com/pcbank/banking-api/internal/service/transfer"
	"github.com/pcbank/banking-api/internal/testutil"
)

func TestHistoryFeed_AllKinds(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	accounts := repository.NewAccountRepository(db)
	records := repository.NewTransferRecordRepository(db)
	transferSvc := transfer.NewService(
		accounts, records,
		repository.NewBillerRepository(db),
		repository.NewLinkedAccountRepository(db),
		db,
		&config.Config{DBLockTimeoutMS: 3000},
	)
	historySvc := service.NewHistoryService(accounts, records)

	user := testutil.SeedTestUser(t, db, "maria@test.com", "Maria")
	other := testutil.SeedTestUser(t, db, "jose@test.com", "Jose")
	checking := testutil.SeedTestAccount(t, db, user.ID, "1000000001", 100000)
	savings := testutil.SeedTestAccount(t, db, user.ID, "1000000002", 0)
	foreign := testutil.SeedTestAccount(t, db, other.ID, "2000000001", 50000)
	biller := testutil.SeedBiller(t, db, "Metro Electric Co", "utilities")
	linked := testutil.SeedLinkedAccount(t, db, user.ID, "First National Bank", "****7812")

	_, err := transferSvc.ExecuteOwnTransfer(ctx, transfer.OwnTransferRequest{
		UserID: user.ID, FromAccountID: checking.ID, FromAccountNumber: checking.AccountNumber,
		ToAccountNumber: savings.AccountNumber, Amount: 1000,
	})
	require.NoError(t, err)

	_, err = transferSvc.ExecuteAnyTransfer(ctx, transfer.AnyTransferRequest{
		UserID: other.ID, FromAccountID: foreign.ID, FromAccountNumber: foreign.AccountNumber,
		ToAccountID: checking.ID, ToAccountNumber: checking.AccountNumber, Amount: 2000,
	})
	require.NoError(t, err)

	_, err = transferSvc.ExecuteBillPayment(ctx, transfer.BillPaymentRequest{
		UserID: user.ID, PayFromAccountID: checking.ID, BillerID: biller.ID,
		SubscriberNumber: "4411223344", SubscriberName: "Maria Santos", Amount: 3000,
	})
	require.NoError(t, err)

	_, err = transferSvc.ExecuteExternalDeposit(ctx, transfer.ExternalDepositRequest{
		UserID: user.ID, LinkedAccountID: linked.ID, InternalAccountID: checking.ID, Amount: 4000,
	})
	require.NoError(t, err)

	feed, err := historySvc.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, feed, 4)

	// Newest first.
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i-1].CreatedAt.Before(feed[i].CreatedAt))
	}

	byKind := make(map[domain.TransferKind]domain.UnifiedTransaction, 4)
	for _, tx := range feed {
		byKind[tx.Kind] = tx
	}
	require.Len(t, byKind, 4)

	assert.Equal(t, domain.DirectionDebit, byKind[domain.TransferKindOwn].Direction)
	assert.Equal(t, domain.DirectionCredit, byKind[domain.TransferKindAny].Direction)
	assert.Equal(t, domain.DirectionDebit, byKind[domain.TransferKindBill].Direction)
	assert.Equal(t, "Metro Electric Co", byKind[domain.TransferKindBill].CounterpartyLabel)
	assert.Equal(t, domain.DirectionCredit, byKind[domain.TransferKindDeposit].Direction)
	assert.Equal(t, "First National Bank", byKind[domain.TransferKindDeposit].CounterpartyLabel)
	assert.Equal(t, "****7812", byKind[domain.TransferKindDeposit].CounterpartyMasked)

	// The other user's view of the same any-account transfer is a debit.
	otherFeed, err := historySvc.ListForUser(ctx, other.ID)
	require.NoError(t, err)
	require.Len(t, otherFeed, 1)
	assert.Equal(t, domain.DirectionDebit, otherFeed[0].Direction)
	assert.Equal(t, "Transfer to account", otherFeed[0].CounterpartyLabel)
}
