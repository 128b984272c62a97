package engine

import (
	"sort"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// RosterNeeds compares a roster against the target composition. Needs are ordered by
// priority, then by the configured position priority, then by position name.
func RosterNeeds(roster []models.Candidate, target map[models.Position]int, totalRounds int, positionPriority []models.Position) []models.RosterNeed {
	counts := make(map[models.Position]int)
	for _, c := range roster {
		counts[c.Position]++
	}
	remainingPicks := totalRounds - len(roster)
	if remainingPicks < 1 {
		remainingPicks = 1
	}

	needs := make([]models.RosterNeed, 0, len(target))
	for pos, want := range target {
		if want <= 0 {
			continue
		}
		have := counts[pos]
		needed := want - have
		if needed < 0 {
			needed = 0
		}
		priority := (float64(needed) / float64(want)) * (1 + float64(want-have)/float64(remainingPicks))
		needs = append(needs, models.RosterNeed{
			Position: pos,
			Current:  have,
			Target:   want,
			Needed:   needed,
			Priority: priority,
		})
	}

	order := make(map[models.Position]int, len(positionPriority))
	for i, p := range positionPriority {
		if _, dup := order[p]; !dup {
			order[p] = i
		}
	}
	rank := func(p models.Position) int {
		if i, ok := order[p]; ok {
			return i
		}
		return len(order)
	}
	sort.Slice(needs, func(i, j int) bool {
		a, b := needs[i], needs[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if rank(a.Position) != rank(b.Position) {
			return rank(a.Position) < rank(b.Position)
		}
		return a.Position < b.Position
	})
	return needs
}

// topNeed returns the highest priority position still short of its target
func topNeed(needs []models.RosterNeed) (models.RosterNeed, bool) {
	for _, n := range needs {
		if n.Needed > 0 {
			return n, true
		}
	}
	return models.RosterNeed{}, false
}
