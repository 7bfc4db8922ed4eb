package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/pcbank/banking-api/internal/auth"
	"github.com/pcbank/banking-api/internal/handler"
	"github.com/pcbank/banking-api/internal/logging"
	"github.com/pcbank/banking-api/internal/repository"
)

type idempotencyRepository interface {
	Get(ctx context.Context, key string, userID uuid.UUID) (*repository.IdempotencyCacheEntry, error)
	Reserve(ctx context.Context, entry *repository.IdempotencyCacheEntry) (bool, error)
	Complete(ctx context.Context, key string, userID uuid.UUID, statusCode int, body []byte) error
	Delete(ctx context.Context, key string, userID uuid.UUID) error
}

const idempotencyTTL = 24 * time.Hour

// statusPending marks a reservation whose handler has not finished.
const statusPending = 0

// Idempotency guarantees a retried submission can never run the
// handler twice: the key is reserved with an insert before the handler
// runs, so of N concurrent requests with the same key exactly one
// executes and the rest either replay the recorded response or are told
// the original is still in flight. The reference code inside the engine
// guards the ledger; this guards the HTTP surface.
func Idempotency(repo idempotencyRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			key := r.Header.Get("Idempotency-Key")
			if key == "" {
				handler.RespondAppError(w, handler.ErrMissingIdempotencyKey, nil)
				return
			}

			userID, ok := auth.UserIDFromContext(r.Context())
			if !ok {
				handler.RespondAppError(w, handler.ErrMissingToken, nil)
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				handler.RespondAppError(w, handler.ErrInvalidRequest, nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			reqHash := computeHash(r.Method, r.URL.Path, body)
			log := logging.FromContext(r.Context())

			now := time.Now().UTC()
			reserved, err := repo.Reserve(r.Context(), &repository.IdempotencyCacheEntry{
				Key:          key,
				UserID:       userID,
				RequestHash:  reqHash,
				StatusCode:   statusPending,
				ResponseBody: []byte{},
				CreatedAt:    now,
				ExpiresAt:    now.Add(idempotencyTTL),
			})
			if err != nil {
				log.Error("idempotency reservation failed", "error", err, "idempotency_key", key)
				handler.RespondAppError(w, handler.ErrInternalError, nil)
				return
			}

			if !reserved {
				replayExisting(w, r, repo, key, userID, reqHash)
				return
			}

			rec := &responseRecorder{ResponseWriter: w, body: &bytes.Buffer{}, statusCode: http.StatusOK}
			next.ServeHTTP(rec, r)

			if err := repo.Complete(r.Context(), key, userID, rec.statusCode, rec.body.Bytes()); err != nil {
				log.Error("idempotency cache store failed", "error", err, "idempotency_key", key)
				// Release the reservation rather than leave a pending
				// row that would block the client's retry until TTL.
				if err := repo.Delete(r.Context(), key, userID); err != nil {
					log.Error("idempotency reservation release failed", "error", err, "idempotency_key", key)
				}
			}
		})
	}
}

// replayExisting handles the losing side of a reservation race: replay
// the recorded response, reject a different payload under the same key,
// or report that the original request is still running.
func replayExisting(w http.ResponseWriter, r *http.Request, repo idempotencyRepository, key string, userID uuid.UUID, reqHash string) {
	log := logging.FromContext(r.Context())

	cached, err := repo.Get(r.Context(), key, userID)
	if err != nil {
		log.Error("idempotency cache lookup failed", "error", err, "idempotency_key", key)
		handler.RespondAppError(w, handler.ErrInternalError, nil)
		return
	}
	if cached == nil {
		// The reservation expired or was released between our insert
		// attempt and this read; tell the client to retry.
		handler.RespondAppError(w, handler.ErrRequestInProgress, nil)
		return
	}

	if cached.RequestHash != reqHash {
		handler.RespondAppError(w, handler.ErrIdempotencyConflict, nil)
		return
	}

	if cached.StatusCode == statusPending {
		handler.RespondAppError(w, handler.ErrRequestInProgress, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Idempotent-Replayed", "true")
	w.WriteHeader(cached.StatusCode)
	if _, err := w.Write(cached.ResponseBody); err != nil {
		log.Error("failed to write idempotent replay", "error", err, "idempotency_key", key)
	}
}

func computeHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte(path))
	h.Write(body)
	return fmt.Sprintf("%x", h.Sum(nil))
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}
