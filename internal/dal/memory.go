package dal

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// MemoryDAL implements DraftDAL using in-memory storage
type MemoryDAL struct {
	mu        sync.RWMutex
	rounds    int
	available []models.Candidate
	teams     []models.Team
	picks     []models.DraftPick
}

// NewMemoryDAL creates a new in-memory data access layer seeded with the default pool
func NewMemoryDAL(rounds int) *MemoryDAL {
	if rounds <= 0 {
		rounds = DefaultRounds
	}
	return &MemoryDAL{
		rounds:    rounds,
		available: defaultCandidates(),
		teams:     defaultTeams(),
		picks:     []models.DraftPick{},
	}
}

func (m *MemoryDAL) GetState() (*models.DraftState, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Copy so callers never share backing arrays with the store
	state := &models.DraftState{
		League:    models.LeagueSettings{Rounds: m.rounds},
		Available: make([]models.Candidate, len(m.available)),
		Teams:     make([]models.Team, len(m.teams)),
		Picks:     make([]models.DraftPick, len(m.picks)),
	}
	copy(state.Available, m.available)
	copy(state.Picks, m.picks)
	for i, t := range m.teams {
		t.Roster = append([]models.Candidate{}, t.Roster...)
		state.Teams[i] = t
	}

	CalculateCurrentPick(state)
	return state, nil
}

func (m *MemoryDAL) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.available = defaultCandidates()
	m.teams = defaultTeams()
	m.picks = []models.DraftPick{}
	return nil
}

func (m *MemoryDAL) AddCandidate(c *models.Candidate) (*models.Candidate, error) {
	if err := normalizeCandidate(c); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if c.ID == "" {
		c.ID = genID("cand")
	}
	if m.findAvailable(c.ID) >= 0 || m.draftedBy(c.ID) >= 0 {
		return nil, fmt.Errorf("candidate %s already exists: %w", c.ID, ErrInvalidCandidate)
	}
	if c.Rank == 0 {
		c.Rank = len(m.available) + len(m.picks) + 1
	}

	m.available = append(m.available, *c)
	return c, nil
}

func (m *MemoryDAL) UpdateCandidate(c *models.Candidate) (*models.Candidate, error) {
	if err := normalizeCandidate(c); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.draftedBy(c.ID) >= 0 {
		return nil, fmt.Errorf("candidate %s: %w", c.ID, ErrAlreadyDrafted)
	}
	idx := m.findAvailable(c.ID)
	if idx < 0 {
		return nil, fmt.Errorf("candidate %s: %w", c.ID, ErrNotFound)
	}

	m.available[idx] = *c
	return c, nil
}

func (m *MemoryDAL) DeleteCandidate(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.draftedBy(id) >= 0 {
		return fmt.Errorf("candidate %s: %w", id, ErrAlreadyDrafted)
	}
	idx := m.findAvailable(id)
	if idx < 0 {
		return fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}

	m.available = append(m.available[:idx], m.available[idx+1:]...)
	return nil
}

func (m *MemoryDAL) SetCandidateADP(id string, adp float64) (*models.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := m.findAvailable(id)
	if idx < 0 {
		if m.draftedBy(id) >= 0 {
			return nil, fmt.Errorf("candidate %s: %w", id, ErrAlreadyDrafted)
		}
		return nil, fmt.Errorf("candidate %s: %w", id, ErrNotFound)
	}

	m.available[idx].ADP = models.ADPValue(adp)
	c := m.available[idx]
	return &c, nil
}

func (m *MemoryDAL) AddTeam(name, owner string) (*models.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("team name is required: %w", ErrInvalidTeam)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.picks) > 0 {
		return nil, fmt.Errorf("cannot add a team after the draft has started: %w", ErrInvalidTeam)
	}

	team := models.Team{
		ID:     genID("team"),
		Name:   name,
		Owner:  strings.TrimSpace(owner),
		Slot:   len(m.teams) + 1,
		Roster: []models.Candidate{},
	}
	m.teams = append(m.teams, team)
	return &team, nil
}

func (m *MemoryDAL) ReorderTeams(order []string) ([]models.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teams = reorder(m.teams, order)
	out := make([]models.Team, len(m.teams))
	copy(out, m.teams)
	return out, nil
}

func (m *MemoryDAL) DraftCandidate(candidateID, teamID string) (*models.DraftPick, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.teams) > 0 && len(m.picks) >= len(m.teams)*m.rounds {
		return nil, ErrDraftComplete
	}
	if m.draftedBy(candidateID) >= 0 {
		return nil, fmt.Errorf("candidate %s: %w", candidateID, ErrAlreadyDrafted)
	}
	idx := m.findAvailable(candidateID)
	if idx < 0 {
		return nil, fmt.Errorf("candidate %s: %w", candidateID, ErrNotFound)
	}
	teamIdx := -1
	for i := range m.teams {
		if m.teams[i].ID == teamID {
			teamIdx = i
			break
		}
	}
	if teamIdx < 0 {
		return nil, fmt.Errorf("team %s: %w", teamID, ErrNotFound)
	}

	c := m.available[idx]
	m.available = append(m.available[:idx], m.available[idx+1:]...)
	m.teams[teamIdx].Roster = append(m.teams[teamIdx].Roster, c)

	pick := pickFor(len(m.picks)+1, len(m.teams), teamID, candidateID, time.Now().UnixMilli())
	m.picks = append(m.picks, pick)
	return &pick, nil
}

func (m *MemoryDAL) Close() error {
	return nil
}

func (m *MemoryDAL) findAvailable(id string) int {
	for i := range m.available {
		if m.available[i].ID == id {
			return i
		}
	}
	return -1
}

// draftedBy returns the index of the team holding the candidate, or -1
func (m *MemoryDAL) draftedBy(id string) int {
	for i := range m.teams {
		for _, c := range m.teams[i].Roster {
			if c.ID == id {
				return i
			}
		}
	}
	return -1
}

// reorder puts the listed teams first in the given order, appends the rest in
// their existing order and renumbers slots from 1.
func reorder(teams []models.Team, order []string) []models.Team {
	rank := make(map[string]int, len(order))
	for i, id := range order {
		if _, seen := rank[id]; !seen {
			rank[id] = i
		}
	}
	out := make([]models.Team, len(teams))
	copy(out, teams)
	sort.SliceStable(out, func(i, j int) bool {
		ri, iok := rank[out[i].ID]
		rj, jok := rank[out[j].ID]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return out[i].Slot < out[j].Slot
		}
	})
	for i := range out {
		out[i].Slot = i + 1
	}
	return out
}

// normalizeCandidate validates a candidate before it is stored
func normalizeCandidate(c *models.Candidate) error {
	if c == nil {
		return fmt.Errorf("candidate is required: %w", ErrInvalidCandidate)
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return fmt.Errorf("candidate name is required: %w", ErrInvalidCandidate)
	}
	pos, ok := models.ParsePosition(string(c.Position))
	if !ok {
		return fmt.Errorf("unknown position %q: %w", c.Position, ErrInvalidCandidate)
	}
	c.Position = pos
	if c.ADP != nil && *c.ADP <= 0 {
		c.ADP = nil
	}
	c.Tier = 0
	return nil
}
