package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// IdempotencyCacheEntry is one reservation in the replay cache. A row
// with StatusCode 0 is a reservation for a request still in flight;
// Complete fills in the response once the handler finishes.
type IdempotencyCacheEntry struct {
	Key          string
	UserID       uuid.UUID
	RequestHash  string
	StatusCode   int
	ResponseBody []byte
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

type IdempotencyRepository struct {
	db *sql.DB
}

func NewIdempotencyRepository(db *sql.DB) *IdempotencyRepository {
	return &IdempotencyRepository{db: db}
}

func (r *IdempotencyRepository) Get(ctx context.Context, key string, userID uuid.UUID) (*IdempotencyCacheEntry, error) {
	var e IdempotencyCacheEntry
	err := r.db.QueryRowContext(ctx,
		`SELECT idempotency_key, user_id, request_hash, status_code, response_body, created_at, expires_at
		FROM idempotency_cache
		WHERE idempotency_key = $1 AND user_id = $2 AND expires_at > now()`,
		key, userID,
	).Scan(&e.Key, &e.UserID, &e.RequestHash, &e.StatusCode, &e.ResponseBody, &e.CreatedAt, &e.ExpiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", ClassifyError(err))
	}
	return &e, nil
}

// Reserve claims the key for the calling request. Exactly one of any
// set of concurrent requests with the same key wins the insert; the
// rest see inserted == false and must consult Get.
func (r *IdempotencyRepository) Reserve(ctx context.Context, entry *IdempotencyCacheEntry) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO idempotency_cache (idempotency_key, user_id, request_hash, status_code, response_body, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (idempotency_key, user_id) DO NOTHING`,
		entry.Key, entry.UserID, entry.RequestHash, entry.StatusCode, entry.ResponseBody, entry.CreatedAt, entry.ExpiresAt,
	)
	if err != nil {
		return false, fmt.Errorf("Reserve: %w", ClassifyError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("Reserve: %w", err)
	}
	return n == 1, nil
}

// Complete records the handler's response on the reservation so later
// retries replay it.
func (r *IdempotencyRepository) Complete(ctx context.Context, key string, userID uuid.UUID, statusCode int, body []byte) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE idempotency_cache SET status_code = $3, response_body = $4
		WHERE idempotency_key = $1 AND user_id = $2`,
		key, userID, statusCode, body,
	)
	if err != nil {
		return fmt.Errorf("Complete: %w", ClassifyError(err))
	}
	return nil
}

// Delete releases a reservation whose response could not be recorded,
// so the client's retry is not stuck behind a permanently pending row.
func (r *IdempotencyRepository) Delete(ctx context.Context, key string, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM idempotency_cache WHERE idempotency_key = $1 AND user_id = $2`,
		key, userID,
	)
	if err != nil {
		return fmt.Errorf("Delete: %w", ClassifyError(err))
	}
	return nil
}
