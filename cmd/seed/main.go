// Command seed provisions a local database with demo users, accounts,
// billers, and linked external accounts for manual testing.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/pcbank/banking-api/internal/config"
	"github.com/pcbank/banking-api/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := repository.NewPostgresDB(ctx, cfg.DatabaseURL, repository.PoolConfig{
		MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxLifetimeS: 60, ConnMaxIdleTimeS: 30,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := seed(ctx, db); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	slog.Info("seeding complete")
}

func seed(ctx context.Context, db *sql.DB) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	users := []struct {
		id    uuid.UUID
		email string
		name  string
	}{
		{uuid.MustParse("11111111-1111-1111-1111-111111111111"), "maria@example.com", "Maria Santos"},
		{uuid.MustParse("22222222-2222-2222-2222-222222222222"), "jose@example.com", "Jose Cruz"},
	}

	for _, u := range users {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO users (id, email, name, password_hash, status)
			 VALUES ($1, $2, $3, $4, 'active')
			 ON CONFLICT (id) DO NOTHING`,
			u.id, u.email, u.name, string(hash),
		); err != nil {
			return err
		}
	}

	accounts := []struct {
		userID  uuid.UUID
		number  string
		balance int64
	}{
		{users[0].id, "1000000001", 100_000_00},
		{users[0].id, "1000000002", 25_000_00},
		{users[1].id, "1000000003", 50_000_00},
	}

	for _, a := range accounts {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO accounts (user_id, account_number, balance, available_balance, status)
			 VALUES ($1, $2, $3, $3, 'active')
			 ON CONFLICT (account_number) DO NOTHING`,
			a.userID, a.number, a.balance,
		); err != nil {
			return err
		}
	}

	billers := []struct {
		name     string
		category string
	}{
		{"Metro Electric Co", "utilities"},
		{"CityWater", "utilities"},
		{"FiberNet Broadband", "telecom"},
	}

	for _, b := range billers {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO billers (name, category) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			b.name, b.category,
		); err != nil {
			return err
		}
	}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO linked_external_accounts (user_id, bank_name, account_number_masked, status)
		 VALUES ($1, 'First National Bank', '****7812', 'active')
		 ON CONFLICT DO NOTHING`,
		users[0].id,
	); err != nil {
		return err
	}

	return nil
}
