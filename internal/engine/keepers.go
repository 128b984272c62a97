package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// KeeperCapShare is the share of the cap keepers may use. The rest is left for the draft.
const KeeperCapShare = 0.7

// SelectKeepers greedily keeps the highest value candidates while under the keeper
// count and, when the cap is enabled, the keeper share of the cap.
func SelectKeepers(candidates []models.KeeperCandidate, cfg models.KeeperLeagueConfig) models.KeeperSelection {
	sorted := make([]models.KeeperCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].KeeperValue > sorted[j].KeeperValue })

	sel := models.KeeperSelection{
		Recommended: []models.KeeperCandidate{},
		Dropped:     []models.KeeperCandidate{},
	}
	if cfg.CapEnabled {
		sel.CapLimit = cfg.CapAmount * KeeperCapShare
	}

	for _, k := range sorted {
		underCount := len(sel.Recommended) < cfg.MaxKeepers
		underCap := !cfg.CapEnabled || sel.TotalCost+k.Cost <= sel.CapLimit
		if underCount && underCap {
			sel.Recommended = append(sel.Recommended, k)
			sel.TotalCost += k.Cost
			continue
		}
		sel.Dropped = append(sel.Dropped, k)
	}

	sel.Summary = keeperSummary(sel, len(sorted), cfg)
	return sel
}

func costUnit(m models.CostModel) string {
	if m == models.CostModelRound {
		return "round value"
	}
	return "budget"
}

func keeperSummary(sel models.KeeperSelection, eligible int, cfg models.KeeperLeagueConfig) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Keeping %d of %d eligible candidates", len(sel.Recommended), eligible)
	if len(sel.Recommended) > 0 {
		total := 0.0
		for _, k := range sel.Recommended {
			total += k.KeeperValue
		}
		fmt.Fprintf(&b, ", average keeper value %.1f", total/float64(len(sel.Recommended)))
	}
	fmt.Fprintf(&b, ", %.0f %s committed", sel.TotalCost, costUnit(cfg.CostModel))
	if cfg.CapEnabled {
		fmt.Fprintf(&b, " of %.0f allowed", sel.CapLimit)
	}
	b.WriteString(".")
	if len(sel.Recommended) > 0 {
		fmt.Fprintf(&b, " Top keeper: %s.", sel.Recommended[0].Candidate.Name)
	}
	if len(sel.Dropped) > 0 {
		fmt.Fprintf(&b, " Top dropped: %s.", sel.Dropped[0].Candidate.Name)
	}
	return b.String()
}
