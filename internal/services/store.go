package services

import (
	"context"
	"time"

	"micro-casino-engine/internal/models"
)

// Store persists users, the transaction log and game history. Callers
// serialize writes for a given user; implementations only need to be safe
// for concurrent use.
type Store interface {
	GetUser(ctx context.Context, userID int64) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	// SaveUserWithTransactions writes the user and appends txs as one unit:
	// either all of it is stored or none of it is.
	SaveUserWithTransactions(ctx context.Context, user *models.User, txs []*models.Transaction) error

	GetUserTransactions(ctx context.Context, userID int64, limit int64) ([]*models.Transaction, error)
	TransactionsSince(ctx context.Context, since time.Time) ([]*models.Transaction, error)

	SaveGameRecord(ctx context.Context, record *models.GameRecord) error
	GetGameHistory(ctx context.Context, userID int64, limit int64) ([]*models.GameRecord, error)
}

type RateLimiter interface {
	CheckRateLimit(userID int64, action string, limit int, window time.Duration) (bool, error)
}

func clampLimit(limit int64) int64 {
	if limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}
