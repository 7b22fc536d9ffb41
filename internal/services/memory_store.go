package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"micro-casino-engine/internal/models"
)

// MemoryStore keeps everything in process memory. It is the default when no
// Redis address is configured and the store used by tests.
type MemoryStore struct {
	mu           sync.RWMutex
	users        map[int64]*models.User
	transactions []*models.Transaction
	userTx       map[int64][]*models.Transaction
	history      map[int64][]*models.GameRecord
	limits       map[string]*rateWindow
}

type rateWindow struct {
	count   int
	expires time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[int64]*models.User),
		userTx:  make(map[int64][]*models.Transaction),
		history: make(map[int64][]*models.GameRecord),
		limits:  make(map[string]*rateWindow),
	}
}

func (s *MemoryStore) GetUser(_ context.Context, userID int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryStore) SaveUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.ID] = user.Clone()
	return nil
}

func (s *MemoryStore) SaveUserWithTransactions(_ context.Context, user *models.User, txs []*models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.ID] = user.Clone()
	for _, tx := range txs {
		stored := *tx
		s.transactions = append(s.transactions, &stored)
		s.userTx[tx.UserID] = append(s.userTx[tx.UserID], &stored)
	}
	return nil
}

func (s *MemoryStore) GetUserTransactions(_ context.Context, userID int64, limit int64) ([]*models.Transaction, error) {
	limit = clampLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := s.userTx[userID]
	out := make([]*models.Transaction, 0, limit)
	for i := len(txs) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		tx := *txs[i]
		out = append(out, &tx)
	}
	return out, nil
}

func (s *MemoryStore) TransactionsSince(_ context.Context, since time.Time) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Transaction
	for _, tx := range s.transactions {
		if tx.CreatedAt.Before(since) {
			continue
		}
		c := *tx
		out = append(out, &c)
	}
	return out, nil
}

func (s *MemoryStore) SaveGameRecord(_ context.Context, record *models.GameRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := *record
	s.history[record.UserID] = append(s.history[record.UserID], &stored)
	return nil
}

func (s *MemoryStore) GetGameHistory(_ context.Context, userID int64, limit int64) ([]*models.GameRecord, error) {
	limit = clampLimit(limit)

	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.history[userID]
	out := make([]*models.GameRecord, 0, limit)
	for i := len(records) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		r := *records[i]
		out = append(out, &r)
	}
	return out, nil
}

func (s *MemoryStore) CheckRateLimit(userID int64, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, userID, action)
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.limits[key]
	if !ok || now.After(w.expires) {
		w = &rateWindow{expires: now.Add(window)}
		s.limits[key] = w
	}
	w.count++
	return w.count <= limit, nil
}
