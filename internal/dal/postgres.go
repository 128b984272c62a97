package dal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/Billy-Davies-2/draftkit/internal/logger"
)

// PostgresDAL implements DraftDAL using PostgreSQL
type PostgresDAL struct {
	*sqlStore
}

// NewPostgresDAL creates a new PostgreSQL data access layer optimized for CloudNativePG
func NewPostgresDAL(connString string, rounds int) (*PostgresDAL, error) {
	db, err := sql.Open("postgres", connString)
	if err != nil {
		return nil, err
	}

	// CloudNativePG default max_connections is 100
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	// Retry the first ping while Kubernetes DNS settles
	const maxRetries = 5
	retryDelay := 5 * time.Second
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		lastErr = db.PingContext(ctx)
		cancel()
		if lastErr == nil {
			break
		}
		logger.Warn("Postgres ping failed", "attempt", i+1, "error", lastErr)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if lastErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres after %d retries: %w", maxRetries, lastErr)
	}

	if rounds <= 0 {
		rounds = DefaultRounds
	}
	dal := &PostgresDAL{sqlStore: &sqlStore{db: db, rounds: rounds, dollarPH: true}}

	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (p *PostgresDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS candidates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL,
		team TEXT NOT NULL DEFAULT '',
		rank INTEGER NOT NULL DEFAULT 0,
		adp DOUBLE PRECISION,
		age INTEGER NOT NULL DEFAULT 0,
		injury_prone BOOLEAN NOT NULL DEFAULT false,
		drafted BOOLEAN NOT NULL DEFAULT false,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner TEXT NOT NULL DEFAULT '',
		slot INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS picks (
		overall INTEGER PRIMARY KEY,
		round INTEGER NOT NULL,
		pick_in_round INTEGER NOT NULL,
		team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		candidate_id TEXT NOT NULL UNIQUE REFERENCES candidates(id) ON DELETE CASCADE,
		ts BIGINT NOT NULL
	);

	-- CloudNativePG optimization: indexes for common query patterns
	CREATE INDEX IF NOT EXISTS idx_candidates_drafted ON candidates(drafted);
	CREATE INDEX IF NOT EXISTS idx_candidates_adp ON candidates(adp);
	CREATE INDEX IF NOT EXISTS idx_picks_team_id ON picks(team_id);
	`

	if _, err := p.db.Exec(schema); err != nil {
		return err
	}

	// Profile tags were added after the first release
	for _, column := range []string{"upside", "consistency"} {
		_, err := p.db.Exec(`ALTER TABLE candidates ADD COLUMN IF NOT EXISTS ` + column + ` TEXT NOT NULL DEFAULT ''`)
		if err != nil {
			return fmt.Errorf("failed to add %s column: %w", column, err)
		}
	}

	return p.seedIfEmpty()
}
