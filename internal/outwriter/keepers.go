package outwriter

import (
	"fmt"
	"io"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// WriteKeepers writes recommended keepers first, then the dropped ones
func WriteKeepers(w io.Writer, sel models.KeeperSelection, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, sel)
	}

	table := newTable(w, "Keep", "Name", "Pos", "Projected", "Cost", "Value")
	var rows [][]string
	add := func(list []models.KeeperCandidate, keep bool) {
		for _, k := range list {
			mark := mutedColor.Sprint("drop")
			if keep {
				mark = goodColor.Sprint("keep")
			}
			value := fmt.Sprintf("%.1f", k.KeeperValue)
			if k.KeeperValue < 0 {
				value = alertColor.Sprint(value)
			}
			rows = append(rows, []string{
				mark,
				k.Candidate.Name,
				string(k.Candidate.Position),
				fmt.Sprintf("%.1f", k.ProjectedValue),
				fmt.Sprintf("%.1f", k.Cost),
				value,
			})
		}
	}
	add(sel.Recommended, true)
	add(sel.Dropped, false)
	if err := render(table, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, sel.Summary)
	return err
}
