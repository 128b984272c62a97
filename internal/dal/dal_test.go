package dal

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

type storeFactory func(t *testing.T, rounds int) DraftDAL

func stores() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T, rounds int) DraftDAL {
			return NewMemoryDAL(rounds)
		},
		"sqlite": func(t *testing.T, rounds int) DraftDAL {
			d, err := NewSQLiteDAL(filepath.Join(t.TempDir(), "draft.sqlite"), rounds)
			require.NoError(t, err)
			t.Cleanup(func() { _ = d.Close() })
			return d
		},
	}
}

func forEachStore(t *testing.T, rounds int, fn func(t *testing.T, d DraftDAL)) {
	for name, factory := range stores() {
		t.Run(name, func(t *testing.T) {
			fn(t, factory(t, rounds))
		})
	}
}

func TestSeededState(t *testing.T) {
	forEachStore(t, 15, func(t *testing.T, d DraftDAL) {
		state, err := d.GetState()
		require.NoError(t, err)

		assert.Len(t, state.Available, len(seedRows))
		assert.Len(t, state.Teams, len(seedTeams))
		assert.Empty(t, state.Picks)
		assert.Equal(t, models.LeagueSettings{Teams: 12, Rounds: 15}, state.League)
		assert.Equal(t, 1, state.CurrentPick)
		assert.Equal(t, 1, state.CurrentRound)
		assert.Equal(t, "t1", state.CurrentTeamID)

		var unranked int
		for _, c := range state.Available {
			if c.ADP == nil {
				unranked++
			}
		}
		assert.Equal(t, 1, unranked)
	})
}

func TestDraftCandidateSnakeOrder(t *testing.T) {
	forEachStore(t, 15, func(t *testing.T, d DraftDAL) {
		state, err := d.GetState()
		require.NoError(t, err)

		// Follow the clock through the turn at the end of round one
		for i := 0; i < 13; i++ {
			state, err = d.GetState()
			require.NoError(t, err)
			pick, err := d.DraftCandidate(state.Available[0].ID, state.CurrentTeamID)
			require.NoError(t, err)
			assert.Equal(t, i+1, pick.Overall)
		}

		state, err = d.GetState()
		require.NoError(t, err)
		assert.Equal(t, 14, state.CurrentPick)
		assert.Equal(t, 2, state.CurrentRound)
		assert.Equal(t, "t11", state.CurrentTeamID)

		require.Len(t, state.Picks, 13)
		assert.Equal(t, "t12", state.Picks[11].TeamID)
		assert.Equal(t, "t12", state.Picks[12].TeamID)
		assert.Equal(t, 2, state.Picks[12].Round)
		assert.Equal(t, 1, state.Picks[12].PickInRound)

		team := state.FindTeam("t12")
		require.NotNil(t, team)
		assert.Len(t, team.Roster, 2)

		entries, err := RosterEntries(state, "t12")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, 12, entries[0].Pick.Overall)
		assert.Equal(t, state.Picks[12].CandidateID, entries[1].Candidate.ID)
	})
}

func TestDraftCandidateErrors(t *testing.T) {
	forEachStore(t, 15, func(t *testing.T, d DraftDAL) {
		_, err := d.DraftCandidate("c001", "t1")
		require.NoError(t, err)

		_, err = d.DraftCandidate("c001", "t2")
		assert.True(t, errors.Is(err, ErrAlreadyDrafted))

		_, err = d.DraftCandidate("nope", "t2")
		assert.True(t, errors.Is(err, ErrNotFound))

		_, err = d.DraftCandidate("c002", "nope")
		assert.True(t, errors.Is(err, ErrNotFound))

		assert.True(t, errors.Is(d.DeleteCandidate("c001"), ErrAlreadyDrafted))
		_, err = d.SetCandidateADP("c001", 3)
		assert.True(t, errors.Is(err, ErrAlreadyDrafted))
	})
}

func TestDraftComplete(t *testing.T) {
	forEachStore(t, 1, func(t *testing.T, d DraftDAL) {
		for i := 0; i < len(seedTeams); i++ {
			state, err := d.GetState()
			require.NoError(t, err)
			_, err = d.DraftCandidate(state.Available[0].ID, state.CurrentTeamID)
			require.NoError(t, err)
		}

		state, err := d.GetState()
		require.NoError(t, err)
		assert.True(t, Complete(state))
		assert.Empty(t, state.CurrentTeamID)

		_, err = d.DraftCandidate(state.Available[0].ID, "t1")
		assert.True(t, errors.Is(err, ErrDraftComplete))
	})
}

func TestCandidateLifecycle(t *testing.T) {
	forEachStore(t, 15, func(t *testing.T, d DraftDAL) {
		added, err := d.AddCandidate(&models.Candidate{Name: " Rookie Back ", Position: "rb", Team: "KC", Age: 21})
		require.NoError(t, err)
		assert.NotEmpty(t, added.ID)
		assert.Equal(t, "Rookie Back", added.Name)
		assert.Equal(t, models.PositionRB, added.Position)
		assert.Nil(t, added.ADP)

		_, err = d.AddCandidate(&models.Candidate{Name: "Nobody", Position: "LB"})
		assert.True(t, errors.Is(err, ErrInvalidCandidate))
		_, err = d.AddCandidate(&models.Candidate{ID: added.ID, Name: "Dup", Position: "RB"})
		assert.True(t, errors.Is(err, ErrInvalidCandidate))

		withADP, err := d.SetCandidateADP(added.ID, 88.5)
		require.NoError(t, err)
		require.NotNil(t, withADP.ADP)
		assert.Equal(t, 88.5, *withADP.ADP)

		added.Team = "NYJ"
		added.ADP = models.ADPValue(77)
		_, err = d.UpdateCandidate(added)
		require.NoError(t, err)

		state, err := d.GetState()
		require.NoError(t, err)
		var found *models.Candidate
		for i := range state.Available {
			if state.Available[i].ID == added.ID {
				found = &state.Available[i]
			}
		}
		require.NotNil(t, found)
		assert.Equal(t, "NYJ", found.Team)
		assert.Equal(t, 77.0, found.EffectiveADP())

		require.NoError(t, d.DeleteCandidate(added.ID))
		assert.True(t, errors.Is(d.DeleteCandidate(added.ID), ErrNotFound))
		_, err = d.UpdateCandidate(added)
		assert.True(t, errors.Is(err, ErrNotFound))
	})
}

func TestTeamsAddAndReorder(t *testing.T) {
	forEachStore(t, 15, func(t *testing.T, d DraftDAL) {
		team, err := d.AddTeam("Expansion", "Max")
		require.NoError(t, err)
		assert.Equal(t, 13, team.Slot)

		_, err = d.AddTeam("  ", "Max")
		assert.True(t, errors.Is(err, ErrInvalidTeam))

		teams, err := d.ReorderTeams([]string{team.ID, "t3"})
		require.NoError(t, err)
		require.Len(t, teams, 13)
		assert.Equal(t, team.ID, teams[0].ID)
		assert.Equal(t, "t3", teams[1].ID)
		assert.Equal(t, "t1", teams[2].ID)
		for i, tm := range teams {
			assert.Equal(t, i+1, tm.Slot)
		}

		state, err := d.GetState()
		require.NoError(t, err)
		assert.Equal(t, team.ID, state.CurrentTeamID)

		_, err = d.DraftCandidate("c001", team.ID)
		require.NoError(t, err)
		_, err = d.AddTeam("Too Late", "")
		assert.True(t, errors.Is(err, ErrInvalidTeam))
	})
}

func TestReset(t *testing.T) {
	forEachStore(t, 15, func(t *testing.T, d DraftDAL) {
		_, err := d.DraftCandidate("c001", "t1")
		require.NoError(t, err)
		require.NoError(t, d.DeleteCandidate("c002"))

		require.NoError(t, d.Reset())

		state, err := d.GetState()
		require.NoError(t, err)
		assert.Len(t, state.Available, len(seedRows))
		assert.Empty(t, state.Picks)
		assert.Equal(t, 1, state.CurrentPick)
	})
}

func TestSQLiteReopenKeepsState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draft.sqlite")
	d, err := NewSQLiteDAL(path, 15)
	require.NoError(t, err)
	_, err = d.DraftCandidate("c005", "t1")
	require.NoError(t, err)
	require.NoError(t, d.Close())

	d, err = NewSQLiteDAL(path, 15)
	require.NoError(t, err)
	defer d.Close()

	state, err := d.GetState()
	require.NoError(t, err)
	require.Len(t, state.Picks, 1)
	assert.Equal(t, "c005", state.Picks[0].CandidateID)
	assert.Len(t, state.Available, len(seedRows)-1)
}

func TestBindPlaceholders(t *testing.T) {
	s := &sqlStore{dollarPH: true}
	assert.Equal(t, "UPDATE x SET a = $1 WHERE id = $2", s.bind("UPDATE x SET a = ? WHERE id = ?"))
	s.dollarPH = false
	assert.Equal(t, "SELECT ?", s.bind("SELECT ?"))
}
