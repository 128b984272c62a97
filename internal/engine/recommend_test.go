package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

func withAge(c models.Candidate, age int) models.Candidate {
	c.Age = age
	return c
}

func samplePool() []models.Candidate {
	injured := withAge(cand("b", models.PositionWR, 2), 31)
	injured.InjuryProne = true
	return []models.Candidate{
		withAge(cand("a", models.PositionRB, 1), 24),
		injured,
		withAge(cand("c", models.PositionQB, 20), 23),
		withAge(cand("d", models.PositionTE, 40), 28),
		{ID: "e", Name: "Player e", Position: models.PositionWR, Age: 22},
	}
}

func TestRecommendMergesAndWeights(t *testing.T) {
	req := RecommendRequest{
		Available:   samplePool(),
		CurrentPick: 1,
		TotalRounds: 15,
		Config:      models.DefaultAutoDraftConfig(),
	}
	recs := Recommend(req, nil)
	require.Len(t, recs, 2)

	assert.Equal(t, "a", recs[0].Candidate.ID)
	assert.Equal(t, models.RecommendationBPA, recs[0].Type)
	assert.InDelta(t, 0.85, recs[0].Score, 1e-9)

	assert.Equal(t, "d", recs[1].Candidate.ID)
	assert.Equal(t, models.RecommendationValue, recs[1].Type)
	assert.InDelta(t, 0.89, recs[1].Confidence, 1e-9)
	assert.InDelta(t, 0.89*0.7, recs[1].Score, 1e-9)
	assert.Equal(t, 39.0, recs[1].ValueVsADP)
	assert.Equal(t, 1, recs[1].PositionRank)
	assert.Equal(t, 1, recs[1].Tier.TierIndex)
	assert.Equal(t, 1, recs[1].Tier.CandidatesLeft)
}

func TestRecommendStrategyReordersList(t *testing.T) {
	cfg := models.DefaultAutoDraftConfig()
	cfg.Strategy = models.StrategyValueBased
	recs := Recommend(RecommendRequest{Available: samplePool(), CurrentPick: 1, TotalRounds: 15, Config: cfg}, nil)
	require.NotEmpty(t, recs)
	assert.Equal(t, "d", recs[0].Candidate.ID, "value picks lead under a value strategy")
}

func TestRecommendNeverDuplicates(t *testing.T) {
	var pool []models.Candidate
	for i := 0; i < 40; i++ {
		pos := models.AllPositions[i%len(models.AllPositions)]
		c := withAge(cand(string(rune('A'+i)), pos, float64(i*3+1)), 21+i%12)
		c.InjuryProne = i%4 == 0
		pool = append(pool, c)
	}
	for _, strategy := range []models.Strategy{models.StrategyBPA, models.StrategyPositionalNeed, models.StrategyValueBased, models.StrategyConservative, models.StrategyAggressive, "UNKNOWN"} {
		for _, pick := range []int{1, 12, 30, 90} {
			cfg := models.DefaultAutoDraftConfig()
			cfg.Strategy = strategy
			cfg.AvoidInjuryProne = true
			recs := Recommend(RecommendRequest{Available: pool, Roster: pool[:3], CurrentPick: pick, TotalRounds: 15, Config: cfg}, nil)
			require.LessOrEqual(t, len(recs), MaxRecommendations)
			ids := map[string]bool{}
			for i, r := range recs {
				assert.False(t, ids[r.Candidate.ID], "duplicate %s", r.Candidate.ID)
				ids[r.Candidate.ID] = true
				assert.GreaterOrEqual(t, r.Confidence, 0.0)
				assert.LessOrEqual(t, r.Confidence, 1.0)
				if i > 0 {
					assert.GreaterOrEqual(t, recs[i-1].Score, r.Score)
				}
			}
		}
	}
}

func TestRecommendEmptyPool(t *testing.T) {
	assert.Empty(t, Recommend(RecommendRequest{Config: models.DefaultAutoDraftConfig()}, nil))
}

func TestValuePickSkipsUnranked(t *testing.T) {
	pool := []models.Candidate{{ID: "u", Position: models.PositionK}}
	_, ok := valuePick(pool, 1)
	assert.False(t, ok)

	pool = append(pool, cand("r", models.PositionK, 7))
	rec, ok := valuePick(pool, 1)
	require.True(t, ok)
	assert.Equal(t, "r", rec.Candidate.ID)

	_, ok = valuePick([]models.Candidate{cand("x", models.PositionK, 6)}, 1)
	assert.False(t, ok, "delta must exceed five picks")
}

func TestUpsideRespectsRiskTolerance(t *testing.T) {
	pool := []models.Candidate{
		withAge(cand("old", models.PositionWR, 1), 28),
		withAge(cand("young", models.PositionWR, 60), 24),
	}
	SortByADP(pool)

	rec, ok := upsidePick(pool, models.RiskMedium)
	require.True(t, ok)
	assert.Equal(t, "old", rec.Candidate.ID)

	rec, ok = upsidePick(pool, models.RiskLow)
	require.True(t, ok)
	assert.Equal(t, "young", rec.Candidate.ID)

	_, ok = upsidePick([]models.Candidate{withAge(cand("vet", models.PositionQB, 3), 34)}, models.RiskMedium)
	assert.False(t, ok)
}

func TestSafePickFallbacks(t *testing.T) {
	vet := withAge(cand("vet", models.PositionQB, 3), 32)
	kid := withAge(cand("kid", models.PositionQB, 9), 21)
	pool := []models.Candidate{vet, kid}

	rec, ok := safePick(pool, models.AutoDraftConfig{})
	require.True(t, ok)
	assert.Equal(t, "vet", rec.Candidate.ID, "falls back to lowest ADP outside the band")

	rec, ok = safePick(pool, models.AutoDraftConfig{PreferVeterans: true})
	require.True(t, ok)
	assert.Equal(t, "vet", rec.Candidate.ID)
	assert.Contains(t, rec.Reasoning, "24-33")

	vet.InjuryProne = true
	rec, ok = safePick([]models.Candidate{vet, kid}, models.AutoDraftConfig{AvoidInjuryProne: true})
	require.True(t, ok)
	assert.Equal(t, "kid", rec.Candidate.ID)

	_, ok = safePick([]models.Candidate{vet}, models.AutoDraftConfig{AvoidInjuryProne: true})
	assert.False(t, ok)
}

func TestStrategyWeightMatrixIsComplete(t *testing.T) {
	types := []models.RecommendationType{models.RecommendationBPA, models.RecommendationNeed, models.RecommendationValue, models.RecommendationUpside, models.RecommendationSafe}
	strategies := []models.Strategy{models.StrategyBPA, models.StrategyPositionalNeed, models.StrategyValueBased, models.StrategyConservative, models.StrategyAggressive}
	for _, typ := range types {
		for _, s := range strategies {
			_, ok := strategyWeights[typ][s]
			assert.True(t, ok, "missing weight %s/%s", typ, s)
		}
	}
	assert.Equal(t, 1.0, StrategyWeight(models.RecommendationUpside, models.StrategyAggressive))
	assert.Equal(t, 0.5, StrategyWeight(models.RecommendationBPA, "MYSTERY"))
	assert.Equal(t, 0.5, StrategyWeight("OTHER", models.StrategyBPA))
}

func TestRosterNeeds(t *testing.T) {
	roster := []models.Candidate{cand("r", models.PositionRB, 1)}
	target := map[models.Position]int{models.PositionRB: 2, models.PositionWR: 2, models.PositionQB: 1}
	needs := RosterNeeds(roster, target, 10, nil)
	require.Len(t, needs, 3)
	assert.Equal(t, models.PositionWR, needs[0].Position)
	assert.InDelta(t, 1+2.0/9, needs[0].Priority, 1e-9)
	assert.Equal(t, models.PositionQB, needs[1].Position)
	assert.Equal(t, models.PositionRB, needs[2].Position)
	assert.Equal(t, 1, needs[2].Needed)

	tied := RosterNeeds(nil, map[models.Position]int{models.PositionRB: 2, models.PositionWR: 2}, 10, []models.Position{models.PositionWR, models.PositionRB})
	assert.Equal(t, models.PositionWR, tied[0].Position)

	full := RosterNeeds([]models.Candidate{cand("k", models.PositionK, 1), cand("k2", models.PositionK, 2)}, map[models.Position]int{models.PositionK: 1}, 2, nil)
	assert.Zero(t, full[0].Needed)
	assert.Zero(t, full[0].Priority)
}

func TestRecommendUnrankedHasNoADPDelta(t *testing.T) {
	pool := []models.Candidate{{ID: "u", Name: "Player u", Position: models.PositionWR, Age: 22}}
	recs := Recommend(RecommendRequest{Available: pool, CurrentPick: 10, TotalRounds: 15, Config: models.DefaultAutoDraftConfig()}, nil)
	require.NotEmpty(t, recs)
	for _, rec := range recs {
		assert.Equal(t, "u", rec.Candidate.ID)
		assert.Zero(t, rec.ValueVsADP)
	}
}
