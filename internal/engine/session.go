package engine

import (
	"fmt"
	"hash/fnv"
	"math"
	"sort"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// Session owns the cached tiers and pick values for one draft. Tiers are rebuilt
// when the pool they were built from changes or after Invalidate.
type Session struct {
	id     string
	values *PickValueTable
	flight singleflight.Group

	mu          sync.RWMutex
	tiers       map[models.Position][]models.Tier
	fingerprint uint64
	valid       bool
	rebuilds    int
}

// NewSession creates a session for a draft
func NewSession(id string) *Session {
	return &Session{id: id, values: NewPickValueTable()}
}

// ID returns the draft id
func (s *Session) ID() string { return s.id }

// PickValues returns the session's value table
func (s *Session) PickValues() *PickValueTable { return s.values }

// Invalidate drops the cached tiers
func (s *Session) Invalidate() {
	s.mu.Lock()
	s.valid = false
	s.tiers = nil
	s.mu.Unlock()
}

// Rebuilds returns how many times tiers have been built
func (s *Session) Rebuilds() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rebuilds
}

// Tiers returns tiers for the pool, reusing the cache when the pool is unchanged.
// The returned map is shared and must not be modified.
func (s *Session) Tiers(pool []models.Candidate) map[models.Position][]models.Tier {
	fp := poolFingerprint(pool)

	s.mu.RLock()
	if s.valid && s.fingerprint == fp {
		tiers := s.tiers
		s.mu.RUnlock()
		return tiers
	}
	s.mu.RUnlock()

	// Concurrent misses on the same pool share one build.
	v, _, _ := s.flight.Do(strconv.FormatUint(fp, 16), func() (any, error) {
		s.mu.RLock()
		if s.valid && s.fingerprint == fp {
			tiers := s.tiers
			s.mu.RUnlock()
			return tiers, nil
		}
		s.mu.RUnlock()

		tiers := BuildAllTiers(pool)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.tiers = tiers
		s.fingerprint = fp
		s.valid = true
		s.rebuilds++
		return tiers, nil
	})
	return v.(map[models.Position][]models.Tier)
}

// Recommend runs the recommendation engine against the session's tiers
func (s *Session) Recommend(req RecommendRequest) []models.Recommendation {
	return Recommend(req, s.Tiers(req.Available))
}

// Board is the snake view for one team's turn
type Board struct {
	Turn      TurnAnalysis      `json:"turn"`
	Dropoffs  []ValueDropoff    `json:"dropoffs"`
	TradeUp   []TradeSuggestion `json:"tradeUp"`
	TradeDown []TradeSuggestion `json:"tradeDown"`
}

// Board analyzes a turn together with positional dropoffs and trade ideas
func (s *Session) Board(pool []models.Candidate, slot, round, teams int) (Board, error) {
	turn, err := s.values.AnalyzeTurn(slot, round, teams)
	if err != nil {
		return Board{}, err
	}
	return Board{
		Turn:      turn,
		Dropoffs:  ValueDropoffs(turn.Pick, s.Tiers(pool)),
		TradeUp:   s.values.TradeUpSuggestions(turn.Pick, turn.NextPick),
		TradeDown: s.values.TradeDownSuggestions(turn.Pick),
	}, nil
}

// poolFingerprint hashes every candidate field, independent of pool order. Cached
// tiers hold candidate copies, so any edit has to change the key.
func poolFingerprint(pool []models.Candidate) uint64 {
	keys := make([]string, 0, len(pool))
	for _, c := range pool {
		keys = append(keys, fmt.Sprintf("%q|%q|%q|%q|%d|%t|%x|%d|%d|%t|%q|%q",
			c.ID, c.Name, c.Position, c.Team, c.Rank,
			c.ADP != nil, math.Float64bits(c.EffectiveADP()),
			c.Age, c.Tier, c.InjuryProne, c.UpsideTag, c.ConsistencyTag))
	}
	sort.Strings(keys)

	h := fnv.New64a()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
