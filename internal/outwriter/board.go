package outwriter

import (
	"fmt"
	"io"
	"strconv"

	"github.com/Billy-Davies-2/draftkit/internal/engine"
)

// WriteBoard writes the turn summary, positional dropoffs and trade ideas
func WriteBoard(w io.Writer, board engine.Board, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, board)
	}

	t := board.Turn
	if _, err := fmt.Fprintf(w, "Slot %d of %d, round %d: pick %d, next pick %d (%d picks away, %s)\n",
		t.Slot, t.Teams, t.Round, t.Pick, t.NextPick, t.Wait, t.PositionType); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Pick value %.1f, strategic value %.1f\n", t.PickValue, t.StrategicValue); err != nil {
		return err
	}

	table := newTable(w, "Pos", "Tier", "Left", "Gap", "Reach")
	var rows [][]string
	for _, d := range board.Dropoffs {
		reach := mutedColor.Sprint("no")
		if d.ShouldReach {
			reach = alertColor.Sprint("REACH")
		}
		rows = append(rows, []string{
			string(d.Position),
			tierLabel(d.TierIndex),
			strconv.Itoa(d.Remaining),
			fmt.Sprintf("%.1f", d.Gap),
			reach,
		})
	}
	if err := render(table, rows); err != nil {
		return err
	}

	trades := append(append([]engine.TradeSuggestion{}, board.TradeUp...), board.TradeDown...)
	if len(trades) == 0 {
		_, err := fmt.Fprintln(w, "No trade suggestions")
		return err
	}
	tradeTable := newTable(w, "Direction", "From", "To", "Gives", "Gain", "Note")
	rows = nil
	for _, s := range trades {
		rows = append(rows, []string{
			string(s.Direction),
			strconv.Itoa(s.CurrentPick),
			strconv.Itoa(s.TargetPick),
			strconv.Itoa(s.CompensationPick),
			goodColor.Sprintf("%.1f", s.ValueGained),
			s.Description,
		})
	}
	return render(tradeTable, rows)
}
