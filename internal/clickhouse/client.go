// Package clickhouse reads average draft position data from ClickHouse.
package clickhouse

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/Billy-Davies-2/draftkit/internal/logger"
)

// MinSamples is the number of recorded picks a candidate needs before its ADP is trusted
const MinSamples = 5

// Client provides ClickHouse integration for ADP data
type Client struct {
	conn driver.Conn
}

// NewClient creates a new ClickHouse client
func NewClient(addr, database, username, password string) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		DialTimeout: 10 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	return &Client{conn: conn}, nil
}

// Ping checks the connection
func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

// GetADP returns the average draft position of one candidate over the last 30 days
func (c *Client) GetADP(ctx context.Context, candidateID string) (float64, error) {
	var adp float64
	var samples uint64

	query := `
		SELECT
			avg(pick_number) AS adp,
			count() AS samples
		FROM draft_picks
		WHERE candidate_id = ?
		AND picked_at >= now() - INTERVAL 30 DAY
	`

	if err := c.conn.QueryRow(ctx, query, candidateID).Scan(&adp, &samples); err != nil {
		return 0, err
	}
	if samples < MinSamples {
		return 0, fmt.Errorf("candidate %s has %d samples: %w", candidateID, samples, ErrNotEnoughSamples)
	}
	return adp, nil
}

// GetAllADP returns ADP for every candidate with enough recorded picks
func (c *Client) GetAllADP(ctx context.Context) (map[string]float64, error) {
	adps := make(map[string]float64)

	query := `
		SELECT
			candidate_id,
			avg(pick_number) AS adp
		FROM draft_picks
		WHERE picked_at >= now() - INTERVAL 30 DAY
		GROUP BY candidate_id
		HAVING count() >= ?
	`

	rows, err := c.conn.Query(ctx, query, MinSamples)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var adp float64
		if err := rows.Scan(&id, &adp); err != nil {
			return nil, err
		}
		adps[id] = adp
	}

	return adps, rows.Err()
}

// SyncADP pushes every known ADP through update
func (c *Client) SyncADP(ctx context.Context, update func(candidateID string, adp float64) error) (int, error) {
	return Sync(ctx, c, update)
}

// Close closes the ClickHouse connection
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// ErrNotEnoughSamples is returned when a candidate has too few recorded picks
var ErrNotEnoughSamples = errors.New("not enough ADP samples")

// Feed is a source of ADP values keyed by candidate id
type Feed interface {
	GetAllADP(ctx context.Context) (map[string]float64, error)
}

// Sync applies every ADP from feed through update in candidate id order. A failed
// update does not stop the others; the count of applied values is returned with
// the joined errors.
func Sync(ctx context.Context, feed Feed, update func(candidateID string, adp float64) error) (int, error) {
	all, err := feed.GetAllADP(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read ADP: %w", err)
	}

	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs []error
	applied := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		if err := update(id, all[id]); err != nil {
			errs = append(errs, fmt.Errorf("failed to update ADP for %s: %w", id, err))
			continue
		}
		applied++
	}
	return applied, errors.Join(errs...)
}

// RunSync calls Sync immediately and then every interval until ctx is done.
// after, when set, is called with the count applied by each round.
func RunSync(ctx context.Context, feed Feed, interval time.Duration, update func(string, float64) error, after func(applied int)) error {
	if interval <= 0 {
		return fmt.Errorf("invalid ADP sync interval %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		applied, err := Sync(ctx, feed, update)
		if err != nil {
			logger.Warn("ADP sync finished with errors", "applied", applied, "error", err)
		} else {
			logger.Info("ADP sync complete", "applied", applied)
		}
		if after != nil {
			after(applied)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
