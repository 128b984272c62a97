package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// ErrInvalidThresholds is returned when pick classification thresholds would overlap
var ErrInvalidThresholds = errors.New("invalid analytics thresholds")

// Thresholds classify a pick by how far its ADP sits from where it was taken
type Thresholds struct {
	ValuePick float64 `json:"valuePick" mapstructure:"value-pick"` // adp > overall + ValuePick
	Reach     float64 `json:"reach" mapstructure:"reach"`          // adp < overall - Reach
	Steal     float64 `json:"steal" mapstructure:"steal"`          // adp > overall + Steal
}

// DefaultThresholds are the usual ±10 value/reach and +20 steal cutoffs
func DefaultThresholds() Thresholds {
	return Thresholds{ValuePick: 10, Reach: 10, Steal: 20}
}

// Validate keeps reaches disjoint from value picks and steals a subset of value picks
func (t Thresholds) Validate() error {
	if t.ValuePick+t.Reach < 0 {
		return fmt.Errorf("value %.1f and reach %.1f overlap: %w", t.ValuePick, t.Reach, ErrInvalidThresholds)
	}
	if t.Steal < t.ValuePick {
		return fmt.Errorf("steal %.1f below value %.1f: %w", t.Steal, t.ValuePick, ErrInvalidThresholds)
	}
	return nil
}

// AnalyticsCalculator grades completed drafts
type AnalyticsCalculator struct {
	thresholds Thresholds
	target     map[models.Position]int
}

// NewAnalyticsCalculator validates thresholds and returns a calculator for a target roster
func NewAnalyticsCalculator(t Thresholds, target map[models.Position]int) (*AnalyticsCalculator, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &AnalyticsCalculator{thresholds: t, target: target}, nil
}

// IsValuePick reports whether a candidate taken at overall went later than expected
func (a *AnalyticsCalculator) IsValuePick(adp float64, overall int) bool {
	return adp > float64(overall)+a.thresholds.ValuePick
}

// IsReach reports whether a candidate was taken well ahead of ADP
func (a *AnalyticsCalculator) IsReach(adp float64, overall int) bool {
	return adp < float64(overall)-a.thresholds.Reach
}

// IsSteal reports whether a candidate fell far past ADP
func (a *AnalyticsCalculator) IsSteal(adp float64, overall int) bool {
	return adp > float64(overall)+a.thresholds.Steal
}

// Analyze grades one team's picks
func (a *AnalyticsCalculator) Analyze(teamID string, entries []models.RosterEntry) models.DraftAnalytics {
	out := models.DraftAnalytics{
		TeamID:         teamID,
		Picks:          len(entries),
		ValuePicks:     []models.RosterEntry{},
		Reaches:        []models.RosterEntry{},
		Steals:         []models.RosterEntry{},
		PositionCounts: make(map[models.Position]int),
	}
	if len(entries) == 0 {
		out.Grade = "N/A"
		out.Suggestions = []string{"No picks made yet"}
		return out
	}

	var sumADP, sumPick, sumUpside, sumFloor float64
	for _, e := range entries {
		adp := e.Candidate.EffectiveADP()
		age := float64(e.Candidate.EffectiveAge())
		sumADP += adp
		sumPick += float64(e.Pick.Overall)
		sumUpside += math.Max(0, 30-age) / 10
		sumFloor += math.Min(1, (age-22)/8)
		out.PositionCounts[e.Candidate.Position]++

		if a.IsValuePick(adp, e.Pick.Overall) {
			out.ValuePicks = append(out.ValuePicks, e)
		}
		if a.IsReach(adp, e.Pick.Overall) {
			out.Reaches = append(out.Reaches, e)
		}
		if a.IsSteal(adp, e.Pick.Overall) {
			out.Steals = append(out.Steals, e)
		}
	}
	n := float64(len(entries))
	out.MeanADP = sumADP / n
	out.MeanPickPosition = sumPick / n
	out.EfficiencyScore = 100 - (out.MeanADP - out.MeanPickPosition)
	out.Upside = sumUpside / n
	out.Floor = sumFloor / n
	out.RosterBalance = a.rosterBalance(out.PositionCounts)
	out.ChampionshipProbability = math.Min(100, out.EfficiencyScore+out.RosterBalance*20+out.Upside*10)
	out.Grade = LetterGrade(out.ChampionshipProbability)
	out.Suggestions = a.suggestions(out)
	return out
}

func (a *AnalyticsCalculator) rosterBalance(counts map[models.Position]int) float64 {
	total, n := 0.0, 0
	for pos, ideal := range a.target {
		if ideal <= 0 {
			continue
		}
		total += 1 - math.Abs(float64(counts[pos]-ideal))/float64(ideal)
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

func (a *AnalyticsCalculator) suggestions(d models.DraftAnalytics) []string {
	var out []string
	if len(d.Reaches) > len(d.ValuePicks) {
		out = append(out, fmt.Sprintf("Let the board come to you: %d reaches against %d value picks", len(d.Reaches), len(d.ValuePicks)))
	}

	var short []models.Position
	for pos, ideal := range a.target {
		if d.PositionCounts[pos] < ideal {
			short = append(short, pos)
		}
	}
	sort.Slice(short, func(i, j int) bool { return short[i] < short[j] })
	for _, pos := range short {
		out = append(out, fmt.Sprintf("Add depth at %s (%d of %d)", pos, d.PositionCounts[pos], a.target[pos]))
	}

	if d.Floor < 0.5 {
		out = append(out, "Roster skews young, pair it with proven starters")
	}
	if d.Upside < 0.1 {
		out = append(out, "Roster skews old, target younger breakout candidates late")
	}
	if len(out) == 0 {
		out = append(out, "Strong draft, no changes suggested")
	}
	return out
}

// LetterGrade converts a 0-100 score to a letter grade
func LetterGrade(score float64) string {
	switch {
	case score >= 97:
		return "A+"
	case score >= 93:
		return "A"
	case score >= 90:
		return "A-"
	case score >= 87:
		return "B+"
	case score >= 83:
		return "B"
	case score >= 80:
		return "B-"
	case score >= 77:
		return "C+"
	case score >= 73:
		return "C"
	case score >= 70:
		return "C-"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}
