package engine

import (
	"fmt"
	"sort"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// MaxRecommendations is the length of a merged recommendation list
const MaxRecommendations = 5

const (
	bpaConfidence    = 0.85
	upsideConfidence = 0.6
	safeConfidence   = 0.7
	valueMinDelta    = 5.0
	neutralWeight    = 0.5
)

// strategyWeights scales each generator's confidence under the configured strategy
var strategyWeights = map[models.RecommendationType]map[models.Strategy]float64{
	models.RecommendationBPA: {
		models.StrategyBPA: 1.0, models.StrategyPositionalNeed: 0.7, models.StrategyValueBased: 0.8,
		models.StrategyConservative: 0.8, models.StrategyAggressive: 0.7,
	},
	models.RecommendationNeed: {
		models.StrategyBPA: 0.6, models.StrategyPositionalNeed: 1.0, models.StrategyValueBased: 0.6,
		models.StrategyConservative: 0.8, models.StrategyAggressive: 0.6,
	},
	models.RecommendationValue: {
		models.StrategyBPA: 0.7, models.StrategyPositionalNeed: 0.6, models.StrategyValueBased: 1.0,
		models.StrategyConservative: 0.6, models.StrategyAggressive: 0.8,
	},
	models.RecommendationUpside: {
		models.StrategyBPA: 0.5, models.StrategyPositionalNeed: 0.5, models.StrategyValueBased: 0.7,
		models.StrategyConservative: 0.3, models.StrategyAggressive: 1.0,
	},
	models.RecommendationSafe: {
		models.StrategyBPA: 0.7, models.StrategyPositionalNeed: 0.7, models.StrategyValueBased: 0.6,
		models.StrategyConservative: 1.0, models.StrategyAggressive: 0.4,
	},
}

// StrategyWeight looks up the weight matrix. Unknown types or strategies weigh 0.5.
func StrategyWeight(t models.RecommendationType, s models.Strategy) float64 {
	if row, ok := strategyWeights[t]; ok {
		if w, ok := row[s]; ok {
			return w
		}
	}
	return neutralWeight
}

// RecommendRequest is one team's view of the board at its turn
type RecommendRequest struct {
	Available   []models.Candidate
	Roster      []models.Candidate
	CurrentPick int
	TotalRounds int
	Config      models.AutoDraftConfig
}

// Recommend runs the five generators, merges them without duplicates and returns
// the top picks by weighted confidence. tiers may be nil, in which case they are
// built from req.Available.
func Recommend(req RecommendRequest, tiers map[models.Position][]models.Tier) []models.Recommendation {
	if len(req.Available) == 0 {
		return nil
	}
	if tiers == nil {
		tiers = BuildAllTiers(req.Available)
	}

	byADP := make([]models.Candidate, len(req.Available))
	copy(byADP, req.Available)
	SortByADP(byADP)

	needs := RosterNeeds(req.Roster, req.Config.TargetComposition, req.TotalRounds, req.Config.PositionPriority)

	var generated []models.Recommendation
	for _, gen := range []func() (models.Recommendation, bool){
		func() (models.Recommendation, bool) { return bestAvailable(byADP) },
		func() (models.Recommendation, bool) { return needPick(byADP, needs) },
		func() (models.Recommendation, bool) { return valuePick(byADP, req.CurrentPick) },
		func() (models.Recommendation, bool) { return upsidePick(byADP, req.Config.RiskTolerance) },
		func() (models.Recommendation, bool) { return safePick(byADP, req.Config) },
	} {
		if rec, ok := gen(); ok {
			generated = append(generated, rec)
		}
	}

	seen := make(map[string]bool, len(generated))
	merged := make([]models.Recommendation, 0, len(generated))
	for _, rec := range generated {
		if seen[rec.Candidate.ID] {
			continue
		}
		seen[rec.Candidate.ID] = true
		rec.Score = StrategyWeight(rec.Type, req.Config.Strategy) * rec.Confidence
		if rec.Candidate.Ranked() {
			rec.ValueVsADP = rec.Candidate.EffectiveADP() - float64(req.CurrentPick)
		}
		rec.PositionRank = positionRank(byADP, rec.Candidate)
		rec.Tier = tierInfo(tiers, rec.Candidate, req.Available)
		merged = append(merged, rec)
	}

	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })
	if len(merged) > MaxRecommendations {
		merged = merged[:MaxRecommendations]
	}
	return merged
}

func bestAvailable(byADP []models.Candidate) (models.Recommendation, bool) {
	if len(byADP) == 0 {
		return models.Recommendation{}, false
	}
	c := byADP[0]
	return models.Recommendation{
		Candidate:  c,
		Confidence: bpaConfidence,
		Type:       models.RecommendationBPA,
		Reasoning:  fmt.Sprintf("Best player available at ADP %.1f", c.EffectiveADP()),
	}, true
}

func needPick(byADP []models.Candidate, needs []models.RosterNeed) (models.Recommendation, bool) {
	need, ok := topNeed(needs)
	if !ok {
		return models.Recommendation{}, false
	}
	for _, c := range byADP {
		if c.Position != need.Position {
			continue
		}
		return models.Recommendation{
			Candidate:  c,
			Confidence: 0.6 + 0.3*min(1, need.Priority),
			Type:       models.RecommendationNeed,
			Reasoning:  fmt.Sprintf("Fills a need at %s (%d of %d rostered)", need.Position, need.Current, need.Target),
		}, true
	}
	return models.Recommendation{}, false
}

func valuePick(byADP []models.Candidate, currentPick int) (models.Recommendation, bool) {
	var best *models.Candidate
	bestDelta := 0.0
	for i := range byADP {
		c := byADP[i]
		if !c.Ranked() {
			continue
		}
		delta := c.EffectiveADP() - float64(currentPick)
		if delta <= valueMinDelta {
			continue
		}
		if best == nil || delta > bestDelta {
			best, bestDelta = &byADP[i], delta
		}
	}
	if best == nil {
		return models.Recommendation{}, false
	}
	return models.Recommendation{
		Candidate:  *best,
		Confidence: min(0.9, 0.5+bestDelta/100),
		Type:       models.RecommendationValue,
		Reasoning:  fmt.Sprintf("Value pick, going %.1f picks later on average", bestDelta),
	}, true
}

// ageCeiling returns the oldest age the risk tolerance accepts, or 0 for no limit
func ageCeiling(r models.RiskTolerance) int {
	switch r {
	case models.RiskLow:
		return 27
	case models.RiskHigh:
		return 0
	default:
		return 29
	}
}

func upsidePick(byADP []models.Candidate, risk models.RiskTolerance) (models.Recommendation, bool) {
	ceiling := ageCeiling(risk)
	var best *models.Candidate
	bestScore := 0.0
	for i := range byADP {
		c := byADP[i]
		age := c.EffectiveAge()
		if ceiling > 0 && age > ceiling {
			continue
		}
		score := (1000 - c.EffectiveADP()) + float64(30-age)*10
		if best == nil || score > bestScore {
			best, bestScore = &byADP[i], score
		}
	}
	if best == nil {
		return models.Recommendation{}, false
	}
	return models.Recommendation{
		Candidate:  *best,
		Confidence: upsideConfidence,
		Type:       models.RecommendationUpside,
		Reasoning:  fmt.Sprintf("Upside play at age %d", best.EffectiveAge()),
	}, true
}

func safePick(byADP []models.Candidate, cfg models.AutoDraftConfig) (models.Recommendation, bool) {
	maxAge := 30
	if cfg.PreferVeterans {
		maxAge = 33
	}
	var pool []models.Candidate
	for _, c := range byADP {
		if cfg.AvoidInjuryProne && c.InjuryProne {
			continue
		}
		pool = append(pool, c)
	}
	if len(pool) == 0 {
		return models.Recommendation{}, false
	}
	for _, c := range pool {
		if age := c.EffectiveAge(); age >= 24 && age <= maxAge {
			return models.Recommendation{
				Candidate:  c,
				Confidence: safeConfidence,
				Type:       models.RecommendationSafe,
				Reasoning:  fmt.Sprintf("Safe floor in the %d-%d age band", 24, maxAge),
			}, true
		}
	}
	return models.Recommendation{
		Candidate:  pool[0],
		Confidence: safeConfidence,
		Type:       models.RecommendationSafe,
		Reasoning:  "Safest remaining option by ADP",
	}, true
}

// positionRank is the 1-based ADP rank of c among available candidates at its position
func positionRank(byADP []models.Candidate, c models.Candidate) int {
	rank := 0
	for _, other := range byADP {
		if other.Position != c.Position {
			continue
		}
		rank++
		if other.ID == c.ID {
			return rank
		}
	}
	return 0
}

// tierInfo locates c in its position's tiers. Candidates no longer available are not counted as left.
func tierInfo(tiers map[models.Position][]models.Tier, c models.Candidate, available []models.Candidate) models.TierInfo {
	posTiers := tiers[c.Position]
	for i, tier := range posTiers {
		found := false
		for _, tc := range tier.Candidates {
			if tc.ID == c.ID {
				found = true
				break
			}
		}
		if !found {
			continue
		}
		info := models.TierInfo{TierIndex: tier.Index}
		avail := make(map[string]bool, len(available))
		for _, a := range available {
			avail[a.ID] = true
		}
		for _, tc := range tier.Candidates {
			if avail[tc.ID] {
				info.CandidatesLeft++
			}
		}
		if i+1 < len(posTiers) {
			info.HasNextTier = true
			info.DropToNextTier = posTiers[i+1].FirstADP() - tier.LastADP()
		}
		return info
	}
	return models.TierInfo{}
}
