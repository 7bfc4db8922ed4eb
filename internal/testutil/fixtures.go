package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pcbank/banking-api/internal/domain"
)

func SeedTestUser(t *testing.T, db *sql.DB, email, name string) *domain.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &domain.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		Status:       domain.UserStatusActive,
		CreatedAt:    time.Now().UTC(),
	}

	_, err = db.Exec(
		`INSERT INTO users (id, email, name, password_hash, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.Status, u.CreatedAt,
	)
	if err != nil {
		t.Fatalf("seed test user %s: %v", email, err)
	}
	return u
}

func SeedTestAccount(t *testing.T, db *sql.DB, userID uuid.UUID, accountNumber string, balance int64) *domain.Account {
	t.Helper()

	a := &domain.Account{
		UserID:           userID,
		AccountNumber:    accountNumber,
		Balance:          balance,
		AvailableBalance: balance,
		Status:           domain.AccountStatusActive,
	}

	err := db.QueryRow(
		`INSERT INTO accounts (user_id, account_number, balance, available_balance, status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, version, created_at`,
		a.UserID, a.AccountNumber, a.Balance, a.AvailableBalance, a.Status,
	).Scan(&a.ID, &a.Version, &a.CreatedAt)
	if err != nil {
		t.Fatalf("seed test account %s: %v", accountNumber, err)
	}
	return a
}

func SetAccountStatus(t *testing.T, db *sql.DB, accountID int64, status domain.AccountStatus) {
	t.Helper()

	if _, err := db.Exec(`UPDATE accounts SET status = $1 WHERE id = $2`, status, accountID); err != nil {
		t.Fatalf("set account %d status: %v", accountID, err)
	}
}

func SeedBiller(t *testing.T, db *sql.DB, name, category string) *domain.Biller {
	t.Helper()

	b := &domain.Biller{Name: name, Category: category}
	err := db.QueryRow(
		`INSERT INTO billers (name, category) VALUES ($1, $2) RETURNING id`,
		b.Name, b.Category,
	).Scan(&b.ID)
	if err != nil {
		t.Fatalf("seed biller %s: %v", name, err)
	}
	return b
}

func SeedLinkedAccount(t *testing.T, db *sql.DB, userID uuid.UUID, bankName, masked string) *domain.LinkedExternalAccount {
	t.Helper()

	l := &domain.LinkedExternalAccount{
		UserID:              userID,
		BankName:            bankName,
		AccountNumberMasked: masked,
		Status:              domain.LinkedAccountStatusActive,
	}
	err := db.QueryRow(
		`INSERT INTO linked_external_accounts (user_id, bank_name, account_number_masked, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		l.UserID, l.BankName, l.AccountNumberMasked, l.Status,
	).Scan(&l.ID, &l.CreatedAt)
	if err != nil {
		t.Fatalf("seed linked account %s: %v", bankName, err)
	}
	return l
}

func GetAccountBalance(t *testing.T, db *sql.DB, accountID int64) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(`SELECT balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get account balance %d: %v", accountID, err)
	}
	return balance
}

func GetAvailableBalance(t *testing.T, db *sql.DB, accountID int64) int64 {
	t.Helper()

	var balance int64
	err := db.QueryRow(`SELECT available_balance FROM accounts WHERE id = $1`, accountID).Scan(&balance)
	if err != nil {
		t.Fatalf("get available balance %d: %v", accountID, err)
	}
	return balance
}

func CountTransferRecords(t *testing.T, db *sql.DB, accountID int64) int {
	t.Helper()

	var count int
	err := db.QueryRow(
		`SELECT COUNT(*) FROM transfer_records WHERE source_account_id = $1 OR dest_account_id = $1`,
		accountID,
	).Scan(&count)
	if err != nil {
		t.Fatalf("count transfer records for account %d: %v", accountID, err)
	}
	return count
}
