package dal

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/Billy-Davies-2/draftkit/internal/engine"
	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// CalculateCurrentPick fills in the current pick, round and team from the picks
// made so far, following snake order over the teams' slot order.
func CalculateCurrentPick(state *models.DraftState) {
	state.League.Teams = len(state.Teams)
	state.CurrentPick = len(state.Picks) + 1
	state.CurrentRound = 0
	state.CurrentTeamID = ""
	state.CurrentTeamName = ""

	if len(state.Teams) == 0 {
		return
	}
	if state.League.Rounds > 0 && len(state.Picks) >= state.League.Teams*state.League.Rounds {
		return
	}

	round, slot := engine.RoundAndSlot(state.CurrentPick, len(state.Teams))
	state.CurrentRound = round
	if slot >= 1 && slot <= len(state.Teams) {
		state.CurrentTeamID = state.Teams[slot-1].ID
		state.CurrentTeamName = state.Teams[slot-1].Name
	}
}

// Complete reports whether every pick has been made
func Complete(state *models.DraftState) bool {
	return state.League.Rounds > 0 && state.League.Teams > 0 && len(state.Picks) >= state.League.Teams*state.League.Rounds
}

// RosterEntries pairs a team's picks with the candidates taken, in pick order
func RosterEntries(state *models.DraftState, teamID string) ([]models.RosterEntry, error) {
	team := state.FindTeam(teamID)
	if team == nil {
		return nil, fmt.Errorf("team %s: %w", teamID, ErrNotFound)
	}
	byID := make(map[string]models.Candidate, len(team.Roster))
	for _, c := range team.Roster {
		byID[c.ID] = c
	}
	entries := []models.RosterEntry{}
	for _, p := range state.Picks {
		if p.TeamID != teamID {
			continue
		}
		if c, ok := byID[p.CandidateID]; ok {
			entries = append(entries, models.RosterEntry{Pick: p, Candidate: c})
		}
	}
	return entries, nil
}

// pickFor builds the pick record for the next overall pick
func pickFor(overall, teams int, teamID, candidateID string, ts int64) models.DraftPick {
	round, _ := engine.RoundAndSlot(overall, teams)
	return models.DraftPick{
		Overall:     overall,
		Round:       round,
		PickInRound: (overall-1)%teams + 1,
		TeamID:      teamID,
		CandidateID: candidateID,
		Timestamp:   ts,
	}
}

func genID(prefix string) string {
	b := make([]byte, 4)
	rand.Read(b)
	return fmt.Sprintf("%s_%s", prefix, hex.EncodeToString(b))
}
