package clickhouse

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"

	"github.com/Billy-Davies-2/draftkit/internal/logger"
)

// SimulatedFeed stands in for ClickHouse in development. Every read returns the
// base ADPs moved by up to Spread of their value in either direction.
type SimulatedFeed struct {
	mu     sync.Mutex
	base   map[string]float64
	spread float64
	rng    *rand.Rand
}

// NewSimulatedFeed creates a feed around base. A nil rng uses a random seed.
func NewSimulatedFeed(base map[string]float64, spread float64, rng *rand.Rand) *SimulatedFeed {
	logger.Info("Using simulated ADP feed for local development", "candidates", len(base))
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	copied := make(map[string]float64, len(base))
	for id, adp := range base {
		copied[id] = adp
	}
	return &SimulatedFeed{base: copied, spread: spread, rng: rng}
}

// GetAllADP returns jittered ADPs, never below 1 and rounded to one decimal
func (f *SimulatedFeed) GetAllADP(ctx context.Context) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make(map[string]float64, len(f.base))
	for id, adp := range f.base {
		jitter := (f.rng.Float64()*2 - 1) * f.spread * adp
		out[id] = math.Max(1, math.Round((adp+jitter)*10)/10)
	}
	return out, nil
}
