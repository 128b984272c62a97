package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Billy-Davies-2/draftkit/internal/engine"
	"github.com/Billy-Davies-2/draftkit/internal/outwriter"
)

// boardCmd prints the snake analysis for a slot and round.
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Analyze a draft slot: pick numbers, tier dropoffs and trade ideas.",
	Long: `Show where a slot picks in a round, how long it waits for its next pick,
which positions are about to run dry and which pick trades gain value.

Without --slot the team on the clock (or --team) in the current round is used.

Examples:
  # Slot 4 of 12 in round 1
  draftkit board --slot 4 --round 1

  # The current turn of team t7
  draftkit board --team t7`,
	Args:    cobra.NoArgs,
	PreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := outputFormat()
		if err != nil {
			return err
		}
		svc, closeStore, err := openCLIService()
		if err != nil {
			return err
		}
		defer closeStore()

		slot, _ := cmd.Flags().GetInt("slot")
		round, _ := cmd.Flags().GetInt("round")
		teams, _ := cmd.Flags().GetInt("teams")
		teamID, _ := cmd.Flags().GetString("team")

		var board engine.Board
		if slot > 0 {
			state, err := svc.State()
			if err != nil {
				return err
			}
			if teams == 0 {
				teams = cfg.League.Teams
			}
			board, err = svc.BoardAt(state.Available, slot, round, teams)
			if err != nil {
				return err
			}
		} else {
			board, err = svc.Board(teamID)
			if err != nil {
				return err
			}
		}
		return outwriter.WriteBoard(cmd.OutOrStdout(), board, format)
	},
}

func init() {
	boardCmd.Flags().Int("slot", 0, "Draft slot, 1-based")
	boardCmd.Flags().Int("round", 1, "Round, 1-based")
	boardCmd.Flags().Int("teams", 0, "Teams in the league (default league.teams)")
	boardCmd.Flags().String("team", "", "Team id to analyze when --slot is not set")
}
