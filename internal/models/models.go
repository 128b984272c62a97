package models

import "strings"

// UnrankedADP is the average draft position assigned to candidates with no ADP data.
const UnrankedADP = 999.0

// UnknownAge is the age assumed for candidates whose age is not known.
const UnknownAge = 26

// Position is a roster position
type Position string

const (
	PositionQB  Position = "QB"
	PositionRB  Position = "RB"
	PositionWR  Position = "WR"
	PositionTE  Position = "TE"
	PositionK   Position = "K"
	PositionDST Position = "DST"
)

// AllPositions lists every position in display order
var AllPositions = []Position{PositionQB, PositionRB, PositionWR, PositionTE, PositionK, PositionDST}

// ParsePosition normalizes a position string. The second return is false for unknown positions.
func ParsePosition(s string) (Position, bool) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	if p == "D/ST" || p == "DEF" {
		p = PositionDST
	}
	for _, known := range AllPositions {
		if p == known {
			return p, true
		}
	}
	return p, false
}

// Candidate is a player available to be drafted
type Candidate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Position       Position `json:"position"`
	Team           string   `json:"team"`
	Rank           int      `json:"rank"`
	ADP            *float64 `json:"adp,omitempty"`
	Age            int      `json:"age,omitempty"`
	Tier           int      `json:"tier,omitempty"` // derived, informational only
	InjuryProne    bool     `json:"injuryProne"`
	UpsideTag      string   `json:"upside,omitempty"`
	ConsistencyTag string   `json:"consistency,omitempty"`
}

// EffectiveADP returns the candidate's ADP, or UnrankedADP when it has none.
func (c Candidate) EffectiveADP() float64 {
	if c.ADP == nil {
		return UnrankedADP
	}
	return *c.ADP
}

// EffectiveAge returns the candidate's age, or UnknownAge when it is not set.
func (c Candidate) EffectiveAge() int {
	if c.Age <= 0 {
		return UnknownAge
	}
	return c.Age
}

// Ranked reports whether the candidate carries real ADP data
func (c Candidate) Ranked() bool {
	return c.ADP != nil && *c.ADP < UnrankedADP
}

// ADPValue is a convenience for building candidates with an ADP
func ADPValue(v float64) *float64 {
	return &v
}

// Team represents a draft team
type Team struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Owner  string      `json:"owner"`
	Slot   int         `json:"slot"`
	Roster []Candidate `json:"roster"`
}

// DraftPick is the historical record of one selection
type DraftPick struct {
	Overall     int    `json:"overall"`
	Round       int    `json:"round"`
	PickInRound int    `json:"pickInRound"`
	TeamID      string `json:"teamId"`
	CandidateID string `json:"candidateId,omitempty"`
	Timestamp   int64  `json:"ts"`
}

// LeagueSettings describes the shape of the draft
type LeagueSettings struct {
	Teams  int `json:"teams"`
	Rounds int `json:"rounds"`
}

// DraftState represents the complete state of the draft
type DraftState struct {
	League          LeagueSettings `json:"league"`
	Available       []Candidate    `json:"available"`
	Teams           []Team         `json:"teams"`
	Picks           []DraftPick    `json:"picks"`
	CurrentPick     int            `json:"currentPick"`
	CurrentRound    int            `json:"currentRound"`
	CurrentTeamID   string         `json:"currentTeamId,omitempty"`
	CurrentTeamName string         `json:"currentTeamName,omitempty"`
}

// FindTeam returns the team with the given id, or nil
func (s *DraftState) FindTeam(id string) *Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i]
		}
	}
	return nil
}

// RosterEntry pairs a made pick with the candidate it selected
type RosterEntry struct {
	Pick      DraftPick `json:"pick"`
	Candidate Candidate `json:"candidate"`
}

// Tier is a run of roughly equivalent candidates at one position, ordered by ADP
type Tier struct {
	Position   Position    `json:"position"`
	Index      int         `json:"index"` // 1-based
	Candidates []Candidate `json:"candidates"`
}

// FirstADP returns the effective ADP of the tier's first candidate
func (t Tier) FirstADP() float64 {
	if len(t.Candidates) == 0 {
		return UnrankedADP
	}
	return t.Candidates[0].EffectiveADP()
}

// LastADP returns the effective ADP of the tier's last candidate
func (t Tier) LastADP() float64 {
	if len(t.Candidates) == 0 {
		return UnrankedADP
	}
	return t.Candidates[len(t.Candidates)-1].EffectiveADP()
}
