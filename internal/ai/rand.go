package ai

import (
	"math/rand/v2"
	"sync"
)

// Rand is the randomness the easy and medium tiers draw from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
	Float64() float64
}

// NewRand returns a deterministic source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

type globalRand struct{}

func (globalRand) IntN(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

// DefaultRand returns a source backed by the process-wide generator.
// It is safe for concurrent use.
func DefaultRand() Rand { return globalRand{} }

// orDefault maps a nil source, including a nil *rand.Rand, to DefaultRand.
func orDefault(r Rand) Rand {
	if pr, ok := r.(*rand.Rand); r == nil || (ok && pr == nil) {
		return DefaultRand()
	}
	return r
}

type lockedRand struct {
	mu sync.Mutex
	r  Rand
}

func (l *lockedRand) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.IntN(n)
}

func (l *lockedRand) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// Locked serializes access to r, which makes a seeded source safe to share.
func Locked(r Rand) Rand { return &lockedRand{r: r} }
