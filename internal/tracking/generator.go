// Package tracking mints the citizen-facing tracking identifiers.
package tracking

import (
	"math/rand"
	"strconv"
	"sync"
	"time"
)

const (
	trackingIDMin  = 100000
	trackingIDSpan = 900000
)

// Generator draws 6-digit tracking identifiers from an injected entropy
// source. It performs no uniqueness check; the store's unique index rejects
// collisions and the caller retries with a fresh draw.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator builds a generator over the given source.
func NewGenerator(src rand.Source) *Generator {
	return &Generator{rng: rand.New(src)}
}

// NewDefaultGenerator builds a generator seeded from the wall clock.
func NewDefaultGenerator() *Generator {
	return NewGenerator(rand.NewSource(time.Now().UnixNano()))
}

// Generate returns a numeric string sampled uniformly from [100000, 999999].
func (g *Generator) Generate() string {
	g.mu.Lock()
	n := trackingIDMin + g.rng.Intn(trackingIDSpan)
	g.mu.Unlock()
	return strconv.Itoa(n)
}
