package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// gradeLabel colors a letter grade by band
func gradeLabel(grade string) string {
	switch {
	case strings.HasPrefix(grade, "A"):
		return goodColor.Sprint(grade)
	case strings.HasPrefix(grade, "B"):
		return tierOddColor.Sprint(grade)
	case strings.HasPrefix(grade, "C"):
		return tierEvenColor.Sprint(grade)
	case grade == "N/A" || grade == "":
		return mutedColor.Sprint("N/A")
	default:
		return alertColor.Sprint(grade)
	}
}

// WriteAnalytics writes a team's draft grade, notable picks and suggestions
func WriteAnalytics(w io.Writer, a models.DraftAnalytics, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, a)
	}

	table := newTable(w, "Metric", "Value")
	rows := [][]string{
		{"Team", a.TeamID},
		{"Grade", gradeLabel(a.Grade)},
		{"Picks", strconv.Itoa(a.Picks)},
		{"Efficiency", fmt.Sprintf("%.1f", a.EfficiencyScore)},
		{"Mean ADP", fmt.Sprintf("%.1f", a.MeanADP)},
		{"Mean pick", fmt.Sprintf("%.1f", a.MeanPickPosition)},
		{"Roster balance", fmt.Sprintf("%.2f", a.RosterBalance)},
		{"Upside", fmt.Sprintf("%.1f", a.Upside)},
		{"Floor", fmt.Sprintf("%.1f", a.Floor)},
		{"Title odds", fmt.Sprintf("%.0f%%", a.ChampionshipProbability)},
	}
	if err := render(table, rows); err != nil {
		return err
	}

	notable := newTable(w, "Kind", "Pick", "Name", "ADP")
	rows = nil
	add := func(kind string, entries []models.RosterEntry) {
		for _, e := range entries {
			rows = append(rows, []string{kind, strconv.Itoa(e.Pick.Overall), e.Candidate.Name, fmtADP(e.Candidate.EffectiveADP())})
		}
	}
	add(goodColor.Sprint("steal"), a.Steals)
	add(tierOddColor.Sprint("value"), a.ValuePicks)
	add(alertColor.Sprint("reach"), a.Reaches)
	if len(rows) > 0 {
		if err := render(notable, rows); err != nil {
			return err
		}
	}

	for _, s := range a.Suggestions {
		if _, err := fmt.Fprintf(w, "- %s\n", s); err != nil {
			return err
		}
	}
	return nil
}
