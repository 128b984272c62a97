//go:build integration

package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupClickHouse starts a ClickHouse container with an empty draft_picks table.
func setupClickHouse(t *testing.T) *Client {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "clickhouse/clickhouse-server:24.1-alpine",
			ExposedPorts: []string{"9000/tcp"},
			WaitingFor: wait.ForAll(
				wait.ForLog("Application: Ready for connections").WithStartupTimeout(60*time.Second),
				wait.ForListeningPort("9000/tcp"),
			),
			Env: map[string]string{
				"CLICKHOUSE_DB":       "test",
				"CLICKHOUSE_USER":     "default",
				"CLICKHOUSE_PASSWORD": "",
			},
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	client, err := NewClient(fmt.Sprintf("%s:%s", host, port.Port()), "test", "default", "")
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	require.NoError(t, client.conn.Exec(ctx, `
		CREATE TABLE draft_picks (
			candidate_id String,
			pick_number UInt32,
			picked_at DateTime
		) ENGINE = MergeTree ORDER BY (candidate_id, picked_at)
	`))
	return client
}

type pickRow struct {
	id       string
	pick     uint32
	pickedAt time.Time
}

func insertPicks(t *testing.T, c *Client, rows []pickRow) {
	t.Helper()
	ctx := context.Background()
	batch, err := c.conn.PrepareBatch(ctx, "INSERT INTO draft_picks")
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, batch.Append(r.id, r.pick, r.pickedAt))
	}
	require.NoError(t, batch.Send())
}

func TestClickHouseADP(t *testing.T) {
	c := setupClickHouse(t)
	ctx := context.Background()
	now := time.Now()

	var rows []pickRow
	for i := uint32(1); i <= 5; i++ {
		rows = append(rows, pickRow{"c1", i, now})
	}
	for i := uint32(10); i < 13; i++ {
		rows = append(rows, pickRow{"c2", i, now})
	}
	// Picks older than the window are ignored.
	for i := 0; i < 5; i++ {
		rows = append(rows, pickRow{"c3", 50, now.AddDate(0, 0, -60)})
	}
	insertPicks(t, c, rows)

	require.NoError(t, c.Ping(ctx))

	adp, err := c.GetADP(ctx, "c1")
	require.NoError(t, err)
	assert.InDelta(t, 3.0, adp, 1e-9)

	_, err = c.GetADP(ctx, "c2")
	assert.True(t, errors.Is(err, ErrNotEnoughSamples))

	all, err := c.GetAllADP(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"c1": 3.0}, all)

	got := map[string]float64{}
	applied, err := c.SyncADP(ctx, func(id string, adp float64) error {
		got[id] = adp
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Equal(t, all, got)
}
