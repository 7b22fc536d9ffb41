package services_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"micro-casino-engine/internal/models"
	"micro-casino-engine/internal/services"
)

var testLimits = services.BetLimits{Min: d("1"), Max: d("10000")}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(dur time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(dur)
}

// scriptedRandom replays queued values and falls back to a seeded source
// once the script runs out.
type scriptedRandom struct {
	mu       sync.Mutex
	ints     []int
	floats   []float64
	fallback services.RandomSource
}

func newScriptedRandom() *scriptedRandom {
	return &scriptedRandom{fallback: services.NewSeededRandomSource(42)}
}

func (r *scriptedRandom) pushInts(v ...int) *scriptedRandom {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ints = append(r.ints, v...)
	return r
}

func (r *scriptedRandom) pushFloats(v ...float64) *scriptedRandom {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.floats = append(r.floats, v...)
	return r
}

// pushCards queues shoe draws: a rank index then a suit index per card.
func (r *scriptedRandom) pushCards(ranks ...string) *scriptedRandom {
	for _, rank := range ranks {
		for i, known := range models.Ranks {
			if known == rank {
				r.pushInts(i, 0)
				break
			}
		}
	}
	return r
}

func (r *scriptedRandom) NextUniform() float64 {
	r.mu.Lock()
	if len(r.floats) > 0 {
		v := r.floats[0]
		r.floats = r.floats[1:]
		r.mu.Unlock()
		return v
	}
	r.mu.Unlock()
	return r.fallback.NextUniform()
}

func (r *scriptedRandom) NextInt(min, max int) int {
	r.mu.Lock()
	if len(r.ints) > 0 {
		v := r.ints[0]
		r.ints = r.ints[1:]
		r.mu.Unlock()
		return v
	}
	r.mu.Unlock()
	return r.fallback.NextInt(min, max)
}

func newTestLedger(clock services.Clock) (*services.Ledger, *services.MemoryStore) {
	store := services.NewMemoryStore()
	return services.NewLedger(store, d("1000"), clock, nil, nil), store
}

var errStoreDown = errors.New("store down")

// flakyStore fails every ledger commit while down is set. Reads and user
// provisioning keep working.
type flakyStore struct {
	*services.MemoryStore
	down atomic.Bool
}

func (s *flakyStore) SaveUserWithTransactions(ctx context.Context, user *models.User, txs []*models.Transaction) error {
	if s.down.Load() {
		return errStoreDown
	}
	return s.MemoryStore.SaveUserWithTransactions(ctx, user, txs)
}

func newFlakyLedger(clock services.Clock) (*services.Ledger, *flakyStore) {
	store := &flakyStore{MemoryStore: services.NewMemoryStore()}
	return services.NewLedger(store, d("1000"), clock, nil, nil), store
}

func assertBalance(t *testing.T, ledger *services.Ledger, userID int64, want string) {
	t.Helper()

	got, err := ledger.Balance(context.Background(), userID)
	if err != nil {
		t.Fatalf("Balance(%d): %v", userID, err)
	}
	if !got.Equal(d(want)) {
		t.Errorf("balance of %d = %s, want %s", userID, got.StringFixed(2), want)
	}
}

func assertErrorIs(t *testing.T, err, target error) {
	t.Helper()

	if !errors.Is(err, target) {
		t.Fatalf("error = %v, want %v", err, target)
	}
}
