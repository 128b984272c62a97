package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// tierLabel colors alternate tiers so breaks stand out
func tierLabel(index int) string {
	c := tierOddColor
	if index%2 == 0 {
		c = tierEvenColor
	}
	return c.Sprintf("T%d", index)
}

// WriteTiers writes tiers grouped by position in display order
func WriteTiers(w io.Writer, tiers map[models.Position][]models.Tier, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, tiers)
	}

	table := newTable(w, "Pos", "Tier", "Rank", "Name", "Team", "ADP")
	var rows [][]string
	total := 0
	for _, pos := range models.AllPositions {
		for _, tier := range tiers[pos] {
			for _, c := range tier.Candidates {
				rows = append(rows, []string{
					string(pos),
					tierLabel(tier.Index),
					strconv.Itoa(c.Rank),
					c.Name,
					c.Team,
					fmtADP(c.EffectiveADP()),
				})
				total++
			}
		}
	}
	if err := render(table, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d candidates across %d positions\n", total, len(tiers))
	return err
}
