package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

func cand(id string, pos models.Position, adp float64) models.Candidate {
	return models.Candidate{ID: id, Name: "Player " + id, Position: pos, ADP: models.ADPValue(adp)}
}

func tierADPs(tiers []models.Tier) [][]float64 {
	var out [][]float64
	for _, t := range tiers {
		var row []float64
		for _, c := range t.Candidates {
			row = append(row, c.EffectiveADP())
		}
		out = append(out, row)
	}
	return out
}

func TestBuildTiersRunningBackGap(t *testing.T) {
	var pool []models.Candidate
	for i, adp := range []float64{27, 1, 9, 3, 25, 4, 8} {
		pool = append(pool, cand(string(rune('a'+i)), models.PositionRB, adp))
	}
	pool = append(pool, cand("wr", models.PositionWR, 2))

	tiers := BuildTiers(pool, models.PositionRB)
	require.Len(t, tiers, 2)
	assert.Equal(t, [][]float64{{1, 3, 4, 8, 9}, {25, 27}}, tierADPs(tiers))
	assert.Equal(t, 1, tiers[0].Index)
	assert.Equal(t, 2, tiers[1].Index)
	assert.Equal(t, 2, tiers[1].Candidates[0].Tier)
}

func TestBuildTiersPartitionsPool(t *testing.T) {
	adps := []float64{1, 2, 2, 15, 16, 40, 41, 41, 90, 91, 150}
	var pool []models.Candidate
	for i, adp := range adps {
		pool = append(pool, cand(string(rune('a'+i)), models.PositionQB, adp))
	}
	pool = append(pool, models.Candidate{ID: "z", Position: models.PositionQB})

	tiers := BuildTiers(pool, models.PositionQB)
	seen := map[string]bool{}
	total := 0
	for i, tier := range tiers {
		require.NotEmpty(t, tier.Candidates)
		for _, c := range tier.Candidates {
			assert.False(t, seen[c.ID], "candidate %s in two tiers", c.ID)
			seen[c.ID] = true
			total++
		}
		if i+1 < len(tiers) {
			assert.LessOrEqual(t, tier.LastADP(), tiers[i+1].FirstADP())
		}
	}
	assert.Equal(t, len(pool), total)

	last := tiers[len(tiers)-1]
	assert.Equal(t, "z", last.Candidates[len(last.Candidates)-1].ID, "unranked candidates sort last")
}

func TestBuildTiersKeepsEqualADPTogether(t *testing.T) {
	pool := []models.Candidate{
		cand("b", models.PositionK, 100),
		cand("a", models.PositionK, 100),
		cand("c", models.PositionK, 100),
	}
	tiers := BuildTiers(pool, models.PositionK)
	require.Len(t, tiers, 1)
	assert.Equal(t, "a", tiers[0].Candidates[0].ID)
}

func TestTierThresholdUnknownPosition(t *testing.T) {
	assert.Equal(t, 8.0, TierThreshold(models.PositionQB))
	assert.Equal(t, 20.0, TierThreshold(models.PositionDST))
	assert.Equal(t, DefaultTierThreshold, TierThreshold(models.Position("FLEX")))
}

func TestBuildAllTiers(t *testing.T) {
	pool := []models.Candidate{
		cand("1", models.PositionWR, 5),
		cand("2", models.PositionRB, 1),
		cand("3", models.PositionTE, 30),
	}
	all := BuildAllTiers(pool)
	assert.Len(t, all, 3)
	assert.Nil(t, BuildTiers(pool, models.PositionK))
}
