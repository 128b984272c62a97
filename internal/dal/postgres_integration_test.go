//go:build integration

package dal

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a PostgreSQL container and opens a store against it.
func setupPostgres(t *testing.T) *PostgresDAL {
	t.Helper()

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("draftkit"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	d, err := NewPostgresDAL(dsn, 15)
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestPostgresDraftFlow(t *testing.T) {
	d := setupPostgres(t)

	state, err := d.GetState()
	require.NoError(t, err)
	assert.Len(t, state.Available, len(seedRows))
	assert.Equal(t, "t1", state.CurrentTeamID)

	for i := 0; i < 13; i++ {
		state, err = d.GetState()
		require.NoError(t, err)
		_, err = d.DraftCandidate(state.Available[0].ID, state.CurrentTeamID)
		require.NoError(t, err)
	}

	state, err = d.GetState()
	require.NoError(t, err)
	assert.Equal(t, 14, state.CurrentPick)
	assert.Equal(t, "t11", state.CurrentTeamID)

	_, err = d.DraftCandidate(state.Picks[0].CandidateID, "t11")
	assert.True(t, errors.Is(err, ErrAlreadyDrafted))

	c, err := d.SetCandidateADP(state.Available[0].ID, 2.5)
	require.NoError(t, err)
	assert.Equal(t, 2.5, c.EffectiveADP())

	require.NoError(t, d.Reset())
	state, err = d.GetState()
	require.NoError(t, err)
	assert.Empty(t, state.Picks)
}

func TestPostgresReorderTeams(t *testing.T) {
	d := setupPostgres(t)

	teams, err := d.ReorderTeams([]string{"t12", "t11"})
	require.NoError(t, err)
	assert.Equal(t, "t12", teams[0].ID)
	assert.Equal(t, "t11", teams[1].ID)

	state, err := d.GetState()
	require.NoError(t, err)
	assert.Equal(t, "t12", state.CurrentTeamID)
}
