package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"micro-casino-engine/internal/config"
	"micro-casino-engine/internal/models"

	"github.com/redis/go-redis/v9"
)

// RedisService is the Store used in deployments with a Redis address.
type RedisService struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisService{
		client: client,
		ctx:    ctx,
	}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

func (s *RedisService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(KeyUser, userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	var user models.User
	if err := json.Unmarshal([]byte(data), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return &user, nil
}

func (s *RedisService) SaveUser(ctx context.Context, user *models.User) error {
	return s.SaveUserWithTransactions(ctx, user, nil)
}

// SaveUserWithTransactions writes the user and its transactions in one
// MULTI/EXEC so a balance never moves without its log entry.
func (s *RedisService) SaveUserWithTransactions(ctx context.Context, user *models.User, txs []*models.Transaction) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}

	payloads := make([][]byte, len(txs))
	for i, tx := range txs {
		if payloads[i], err = json.Marshal(tx); err != nil {
			return fmt.Errorf("failed to marshal transaction: %w", err)
		}
	}

	// Log entries older than the transaction bodies point at nothing.
	cutoff := "(" + strconv.FormatInt(time.Now().Add(-TTLTransaction).UnixNano(), 10)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(KeyUser, user.ID), data, 0)

		for i, tx := range txs {
			userTxKey := fmt.Sprintf(KeyUserTransactions, tx.UserID)
			score := float64(tx.CreatedAt.UnixNano())

			pipe.Set(ctx, fmt.Sprintf(KeyTransaction, tx.ID), payloads[i], TTLTransaction)
			pipe.ZAdd(ctx, userTxKey, redis.Z{Score: score, Member: tx.ID})
			pipe.ZAdd(ctx, KeyTransactionLog, redis.Z{Score: score, Member: tx.ID})
			// Keep only the latest per user; the global log feeds the leaderboard.
			pipe.ZRemRangeByRank(ctx, userTxKey, 0, -(MaxUserTransactions + 1))
		}
		if len(txs) > 0 {
			pipe.ZRemRangeByScore(ctx, KeyTransactionLog, "-inf", cutoff)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

func (s *RedisService) GetUserTransactions(ctx context.Context, userID int64, limit int64) ([]*models.Transaction, error) {
	limit = clampLimit(limit)

	txIDs, err := s.client.ZRevRange(ctx, fmt.Sprintf(KeyUserTransactions, userID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction IDs: %w", err)
	}
	return s.bulkGetTransactions(ctx, txIDs)
}

func (s *RedisService) TransactionsSince(ctx context.Context, since time.Time) ([]*models.Transaction, error) {
	txIDs, err := s.client.ZRangeByScore(ctx, KeyTransactionLog, &redis.ZRangeBy{
		Min: strconv.FormatInt(since.UnixNano(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to range transactions: %w", err)
	}
	return s.bulkGetTransactions(ctx, txIDs)
}

func (s *RedisService) bulkGetTransactions(ctx context.Context, txIDs []string) ([]*models.Transaction, error) {
	if len(txIDs) == 0 {
		return []*models.Transaction{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(txIDs))
	for i, txID := range txIDs {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf(KeyTransaction, txID))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("pipeline execution failed: %w", err)
	}

	transactions := make([]*models.Transaction, 0, len(cmds))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}

		var tx models.Transaction
		if err := json.Unmarshal([]byte(data), &tx); err != nil {
			continue
		}
		transactions = append(transactions, &tx)
	}
	return transactions, nil
}

func (s *RedisService) SaveGameRecord(ctx context.Context, record *models.GameRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal game record: %w", err)
	}

	historyKey := fmt.Sprintf(KeyUserGameHistory, record.UserID)

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, fmt.Sprintf(KeyGameRecord, record.ID), data, TTLGameRecord)
		pipe.ZAdd(ctx, historyKey, redis.Z{
			Score:  float64(record.CreatedAt.UnixNano()),
			Member: record.ID,
		})
		pipe.ZRemRangeByRank(ctx, historyKey, 0, -(MaxUserGameHistory + 1))
		pipe.Expire(ctx, historyKey, TTLGameRecord)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save game record: %w", err)
	}
	return nil
}

func (s *RedisService) GetGameHistory(ctx context.Context, userID int64, limit int64) ([]*models.GameRecord, error) {
	limit = clampLimit(limit)

	ids, err := s.client.ZRevRange(ctx, fmt.Sprintf(KeyUserGameHistory, userID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get game IDs: %w", err)
	}
	if len(ids) == 0 {
		return []*models.GameRecord{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf(KeyGameRecord, id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("pipeline execution failed: %w", err)
	}

	records := make([]*models.GameRecord, 0, len(cmds))
	for _, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil {
			continue
		}

		var record models.GameRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}
	return records, nil
}

// rateLimitScript starts the window on the first hit, in the same atomic
// step as the increment.
var rateLimitScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
if count == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return count
`)

func (s *RedisService) CheckRateLimit(userID int64, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, userID, action)

	count, err := rateLimitScript.Run(s.ctx, s.client, []string{key}, window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return count <= int64(limit), nil
}

// DeleteUser removes a user and their indexes. Used by tests against a live server.
func (s *RedisService) DeleteUser(userID int64) error {
	return s.client.Del(s.ctx,
		fmt.Sprintf(KeyUser, userID),
		fmt.Sprintf(KeyUserTransactions, userID),
		fmt.Sprintf(KeyUserGameHistory, userID),
	).Err()
}

func (s *RedisService) ClearRateLimit(userID int64, action string) error {
	return s.client.Del(s.ctx, fmt.Sprintf(KeyRateLimit, userID, action)).Err()
}
