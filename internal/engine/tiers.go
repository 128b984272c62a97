package engine

import (
	"sort"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// DefaultTierThreshold applies to positions with no configured threshold
const DefaultTierThreshold = 15.0

// TierThresholds is the ADP gap that starts a new tier, per position
var TierThresholds = map[models.Position]float64{
	models.PositionQB:  8,
	models.PositionRB:  12,
	models.PositionWR:  15,
	models.PositionTE:  10,
	models.PositionK:   20,
	models.PositionDST: 20,
}

// TierThreshold returns the tier break gap for a position
func TierThreshold(pos models.Position) float64 {
	if t, ok := TierThresholds[pos]; ok {
		return t
	}
	return DefaultTierThreshold
}

// SortByADP orders candidates by effective ADP, then rank, then id
func SortByADP(candidates []models.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.EffectiveADP() != b.EffectiveADP() {
			return a.EffectiveADP() < b.EffectiveADP()
		}
		if a.Rank != b.Rank {
			return a.Rank < b.Rank
		}
		return a.ID < b.ID
	})
}

// BuildTiers segments the candidates at pos into tiers. A new tier starts whenever
// the ADP gap to the previous candidate exceeds the position threshold.
func BuildTiers(pool []models.Candidate, pos models.Position) []models.Tier {
	var sorted []models.Candidate
	for _, c := range pool {
		if c.Position == pos {
			sorted = append(sorted, c)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	SortByADP(sorted)

	threshold := TierThreshold(pos)
	tiers := []models.Tier{{Position: pos, Index: 1}}
	for i, c := range sorted {
		if i > 0 && c.EffectiveADP()-sorted[i-1].EffectiveADP() > threshold {
			tiers = append(tiers, models.Tier{Position: pos, Index: len(tiers) + 1})
		}
		cur := &tiers[len(tiers)-1]
		c.Tier = cur.Index
		cur.Candidates = append(cur.Candidates, c)
	}
	return tiers
}

// BuildAllTiers tiers every position present in the pool
func BuildAllTiers(pool []models.Candidate) map[models.Position][]models.Tier {
	out := make(map[models.Position][]models.Tier)
	for _, pos := range positionsIn(pool) {
		out[pos] = BuildTiers(pool, pos)
	}
	return out
}

// positionsIn returns the distinct positions in the pool, known positions first in display order
func positionsIn(pool []models.Candidate) []models.Position {
	seen := make(map[models.Position]bool)
	for _, c := range pool {
		seen[c.Position] = true
	}
	var out []models.Position
	for _, p := range models.AllPositions {
		if seen[p] {
			out = append(out, p)
			delete(seen, p)
		}
	}
	var extra []models.Position
	for p := range seen {
		extra = append(extra, p)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i] < extra[j] })
	return append(out, extra...)
}
