package services

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"sync"
)

// RandomSource supplies uniformly distributed values to the game engines.
type RandomSource interface {
	// NextUniform returns a value in [0, 1).
	NextUniform() float64
	// NextInt returns a value in [min, max], both inclusive.
	NextInt(min, max int) int
}

type lockedRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomSource returns a source seeded from crypto/rand.
func NewRandomSource() (RandomSource, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return nil, fmt.Errorf("read random seed: %w", err)
	}
	return NewSeededRandomSource(int64(binary.LittleEndian.Uint64(b[:]))), nil
}

// NewSeededRandomSource returns a reproducible source.
func NewSeededRandomSource(seed int64) RandomSource {
	return &lockedRandom{rng: rand.New(rand.NewSource(seed))}
}

func (r *lockedRandom) NextUniform() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *lockedRandom) NextInt(min, max int) int {
	if max <= min {
		return min
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return min + r.rng.Intn(max-min+1)
}

// pickDistinct draws n distinct integers from [min, max].
func pickDistinct(rng RandomSource, n, min, max int) []int {
	pool := make([]int, 0, max-min+1)
	for i := min; i <= max; i++ {
		pool = append(pool, i)
	}
	out := make([]int, 0, n)
	for i := 0; i < n && len(pool) > 0; i++ {
		j := rng.NextInt(0, len(pool)-1)
		out = append(out, pool[j])
		pool[j] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return out
}
