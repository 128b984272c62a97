package dal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteDAL implements DraftDAL using SQLite
type SQLiteDAL struct {
	*sqlStore
}

// NewSQLiteDAL creates a new SQLite data access layer
func NewSQLiteDAL(dbPath string, rounds int) (*SQLiteDAL, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}
	// A single connection keeps draft transactions serialized
	db.SetMaxOpenConns(1)

	if rounds <= 0 {
		rounds = DefaultRounds
	}
	dal := &SQLiteDAL{sqlStore: &sqlStore{db: db, rounds: rounds}}

	if err := dal.initSchema(); err != nil {
		db.Close()
		return nil, err
	}

	return dal, nil
}

func (s *SQLiteDAL) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS candidates (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		position TEXT NOT NULL,
		team TEXT NOT NULL DEFAULT '',
		rank INTEGER NOT NULL DEFAULT 0,
		adp REAL,
		age INTEGER NOT NULL DEFAULT 0,
		injury_prone INTEGER NOT NULL DEFAULT 0,
		drafted INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS teams (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		owner TEXT NOT NULL DEFAULT '',
		slot INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS picks (
		overall INTEGER PRIMARY KEY,
		round INTEGER NOT NULL,
		pick_in_round INTEGER NOT NULL,
		team_id TEXT NOT NULL,
		candidate_id TEXT NOT NULL UNIQUE,
		ts INTEGER NOT NULL,
		FOREIGN KEY (team_id) REFERENCES teams(id),
		FOREIGN KEY (candidate_id) REFERENCES candidates(id)
	);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Profile tags were added after the first release.
	// SQLite doesn't support IF NOT EXISTS for ALTER TABLE, so we check first
	for _, column := range []string{"upside", "consistency"} {
		var exists int
		err := s.db.QueryRow(`
			SELECT COUNT(*)
			FROM pragma_table_info('candidates')
			WHERE name = ?
		`, column).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check %s column existence: %w", column, err)
		}
		if exists == 0 {
			if _, err := s.db.Exec(`ALTER TABLE candidates ADD COLUMN ` + column + ` TEXT NOT NULL DEFAULT ''`); err != nil {
				return fmt.Errorf("failed to add %s column: %w", column, err)
			}
		}
	}

	return s.seedIfEmpty()
}
