package services

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
)

// RoundRegistry holds live stateful rounds (blackjack tables, crash rounds)
// keyed by round id. Entries expire after the configured TTL whether or not
// they reached a terminal state.
type RoundRegistry struct {
	rounds *cache.Cache
}

func NewRoundRegistry(ttl time.Duration) *RoundRegistry {
	return &RoundRegistry{
		rounds: cache.New(ttl, ttl/2),
	}
}

func (r *RoundRegistry) Put(id string, round any) {
	r.rounds.Set(id, round, cache.DefaultExpiration)
}

func (r *RoundRegistry) Remove(id string) {
	r.rounds.Delete(id)
}

func (r *RoundRegistry) Len() int {
	return r.rounds.ItemCount()
}

// DeleteExpired drops expired rounds immediately instead of waiting for the
// janitor.
func (r *RoundRegistry) DeleteExpired() {
	r.rounds.DeleteExpired()
}

func lookupRound[T any](r *RoundRegistry, id string) (T, error) {
	var zero T

	v, ok := r.rounds.Get(id)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrRoundNotFound, id)
	}
	round, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrRoundNotFound, id)
	}
	return round, nil
}
