package dal

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// sqlStore holds the queries shared by the SQLite and Postgres stores. Queries
// are written with ? placeholders and rebound for drivers that need $n.
type sqlStore struct {
	db       *sql.DB
	rounds   int
	dollarPH bool
}

func (s *sqlStore) bind(query string) string {
	if !s.dollarPH {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

type rowScanner interface {
	Scan(dest ...any) error
}

const candidateColumns = `id, name, position, team, rank, adp, age, injury_prone, upside, consistency`

func scanCandidate(row rowScanner) (models.Candidate, error) {
	var c models.Candidate
	var pos string
	var adp sql.NullFloat64
	err := row.Scan(&c.ID, &c.Name, &pos, &c.Team, &c.Rank, &adp, &c.Age, &c.InjuryProne, &c.UpsideTag, &c.ConsistencyTag)
	if err != nil {
		return c, err
	}
	c.Position = models.Position(pos)
	if adp.Valid {
		c.ADP = models.ADPValue(adp.Float64)
	}
	return c, nil
}

func adpArg(c *models.Candidate) any {
	if c.ADP == nil {
		return nil
	}
	return *c.ADP
}

// seedData inserts the default pool and teams
func (s *sqlStore) seedData() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, c := range defaultCandidates() {
		if err := s.insertCandidate(tx, &c); err != nil {
			return err
		}
	}
	for _, t := range defaultTeams() {
		_, err := tx.Exec(s.bind(`INSERT INTO teams (id, name, owner, slot) VALUES (?, ?, ?, ?)`), t.ID, t.Name, t.Owner, t.Slot)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// seedIfEmpty seeds a fresh database
func (s *sqlStore) seedIfEmpty() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM candidates").Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		return s.seedData()
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type queryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

func (s *sqlStore) insertCandidate(ex execer, c *models.Candidate) error {
	_, err := ex.Exec(s.bind(`
		INSERT INTO candidates (`+candidateColumns+`, drafted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), c.ID, c.Name, string(c.Position), c.Team, c.Rank, adpArg(c), c.Age, c.InjuryProne, c.UpsideTag, c.ConsistencyTag, false)
	return err
}

func (s *sqlStore) GetState() (*models.DraftState, error) {
	state := &models.DraftState{
		League:    models.LeagueSettings{Rounds: s.rounds},
		Available: []models.Candidate{},
		Teams:     []models.Team{},
		Picks:     []models.DraftPick{},
	}

	rows, err := s.db.Query(s.bind(`SELECT `+candidateColumns+` FROM candidates WHERE drafted = ? ORDER BY rank, id`), false)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		state.Available = append(state.Available, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(`SELECT id, name, owner, slot FROM teams ORDER BY slot, id`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		t := models.Team{Roster: []models.Candidate{}}
		if err := rows.Scan(&t.ID, &t.Name, &t.Owner, &t.Slot); err != nil {
			rows.Close()
			return nil, err
		}
		state.Teams = append(state.Teams, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.Query(`
		SELECT p.overall, p.round, p.pick_in_round, p.team_id, p.candidate_id, p.ts,
			c.id, c.name, c.position, c.team, c.rank, c.adp, c.age, c.injury_prone, c.upside, c.consistency
		FROM picks p
		JOIN candidates c ON c.id = p.candidate_id
		ORDER BY p.overall
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var p models.DraftPick
		var c models.Candidate
		var pos string
		var adp sql.NullFloat64
		err := rows.Scan(&p.Overall, &p.Round, &p.PickInRound, &p.TeamID, &p.CandidateID, &p.Timestamp,
			&c.ID, &c.Name, &pos, &c.Team, &c.Rank, &adp, &c.Age, &c.InjuryProne, &c.UpsideTag, &c.ConsistencyTag)
		if err != nil {
			return nil, err
		}
		c.Position = models.Position(pos)
		if adp.Valid {
			c.ADP = models.ADPValue(adp.Float64)
		}
		state.Picks = append(state.Picks, p)
		if t := state.FindTeam(p.TeamID); t != nil {
			t.Roster = append(t.Roster, c)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	CalculateCurrentPick(state)
	return state, nil
}

func (s *sqlStore) Reset() error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"picks", "candidates", "teams"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	return s.seedData()
}

func (s *sqlStore) AddCandidate(c *models.Candidate) (*models.Candidate, error) {
	if err := normalizeCandidate(c); err != nil {
		return nil, err
	}
	if c.ID == "" {
		c.ID = genID("cand")
	}

	var exists int
	if err := s.db.QueryRow(s.bind(`SELECT COUNT(*) FROM candidates WHERE id = ?`), c.ID).Scan(&exists); err != nil {
		return nil, err
	}
	if exists > 0 {
		return nil, fmt.Errorf("candidate %s already exists: %w", c.ID, ErrInvalidCandidate)
	}
	if c.Rank == 0 {
		if err := s.db.QueryRow(`SELECT COUNT(*) + 1 FROM candidates`).Scan(&c.Rank); err != nil {
			return nil, err
		}
	}

	if err := s.insertCandidate(s.db, c); err != nil {
		return nil, err
	}
	return c, nil
}

// draftedState reports whether the candidate exists and whether it is drafted
func (s *sqlStore) draftedState(q queryRower, id string) (bool, error) {
	var drafted bool
	err := q.QueryRow(s.bind(`SELECT drafted FROM candidates WHERE id = ?`), id).Scan(&drafted)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}
	return drafted, err
}

func (s *sqlStore) UpdateCandidate(c *models.Candidate) (*models.Candidate, error) {
	if err := normalizeCandidate(c); err != nil {
		return nil, err
	}
	drafted, err := s.draftedState(s.db, c.ID)
	if err != nil {
		return nil, err
	}
	if drafted {
		return nil, fmt.Errorf("candidate %s: %w", c.ID, ErrAlreadyDrafted)
	}

	_, err = s.db.Exec(s.bind(`
		UPDATE candidates
		SET name = ?, position = ?, team = ?, rank = ?, adp = ?, age = ?, injury_prone = ?, upside = ?, consistency = ?
		WHERE id = ?
	`), c.Name, string(c.Position), c.Team, c.Rank, adpArg(c), c.Age, c.InjuryProne, c.UpsideTag, c.ConsistencyTag, c.ID)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *sqlStore) DeleteCandidate(id string) error {
	drafted, err := s.draftedState(s.db, id)
	if err != nil {
		return err
	}
	if drafted {
		return fmt.Errorf("candidate %s: %w", id, ErrAlreadyDrafted)
	}
	_, err = s.db.Exec(s.bind(`DELETE FROM candidates WHERE id = ?`), id)
	return err
}

func (s *sqlStore) SetCandidateADP(id string, adp float64) (*models.Candidate, error) {
	drafted, err := s.draftedState(s.db, id)
	if err != nil {
		return nil, err
	}
	if drafted {
		return nil, fmt.Errorf("candidate %s: %w", id, ErrAlreadyDrafted)
	}
	if _, err := s.db.Exec(s.bind(`UPDATE candidates SET adp = ? WHERE id = ?`), adp, id); err != nil {
		return nil, err
	}

	c, err := scanCandidate(s.db.QueryRow(s.bind(`SELECT `+candidateColumns+` FROM candidates WHERE id = ?`), id))
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *sqlStore) AddTeam(name, owner string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("team name is required: %w", ErrInvalidTeam)
	}

	var picks int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM picks`).Scan(&picks); err != nil {
		return nil, err
	}
	if picks > 0 {
		return nil, fmt.Errorf("cannot add a team after the draft has started: %w", ErrInvalidTeam)
	}

	team := &models.Team{
		ID:     genID("team"),
		Name:   name,
		Owner:  strings.TrimSpace(owner),
		Roster: []models.Candidate{},
	}
	if err := s.db.QueryRow(`SELECT COUNT(*) + 1 FROM teams`).Scan(&team.Slot); err != nil {
		return nil, err
	}
	_, err := s.db.Exec(s.bind(`INSERT INTO teams (id, name, owner, slot) VALUES (?, ?, ?, ?)`), team.ID, team.Name, team.Owner, team.Slot)
	if err != nil {
		return nil, err
	}
	return team, nil
}

func (s *sqlStore) ReorderTeams(order []string) ([]models.Team, error) {
	state, err := s.GetState()
	if err != nil {
		return nil, err
	}
	teams := reorder(state.Teams, order)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for _, t := range teams {
		if _, err := tx.Exec(s.bind(`UPDATE teams SET slot = ? WHERE id = ?`), t.Slot, t.ID); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *sqlStore) DraftCandidate(candidateID, teamID string) (*models.DraftPick, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var made, teams int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM picks`).Scan(&made); err != nil {
		return nil, err
	}
	if err := tx.QueryRow(`SELECT COUNT(*) FROM teams`).Scan(&teams); err != nil {
		return nil, err
	}
	if teams > 0 && made >= teams*s.rounds {
		return nil, ErrDraftComplete
	}

	drafted, err := s.draftedState(tx, candidateID)
	if err != nil {
		return nil, err
	}
	if drafted {
		return nil, fmt.Errorf("candidate %s: %w", candidateID, ErrAlreadyDrafted)
	}

	var teamName string
	err = tx.QueryRow(s.bind(`SELECT name FROM teams WHERE id = ?`), teamID).Scan(&teamName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("team %s: %w", teamID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(s.bind(`UPDATE candidates SET drafted = ? WHERE id = ?`), true, candidateID); err != nil {
		return nil, err
	}

	pick := pickFor(made+1, teams, teamID, candidateID, time.Now().UnixMilli())
	_, err = tx.Exec(s.bind(`
		INSERT INTO picks (overall, round, pick_in_round, team_id, candidate_id, ts)
		VALUES (?, ?, ?, ?, ?, ?)
	`), pick.Overall, pick.Round, pick.PickInRound, pick.TeamID, pick.CandidateID, pick.Timestamp)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &pick, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
