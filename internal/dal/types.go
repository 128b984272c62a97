package dal

import (
	"errors"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

var (
	// ErrNotFound is returned when a candidate or team id does not exist
	ErrNotFound = errors.New("not found")

	// ErrAlreadyDrafted is returned when a drafted candidate is picked, edited or deleted
	ErrAlreadyDrafted = errors.New("candidate already drafted")

	// ErrDraftComplete is returned when every pick in the draft has been made
	ErrDraftComplete = errors.New("draft complete")

	// ErrInvalidCandidate is returned for candidates missing a name or position
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrInvalidTeam is returned for teams that cannot be added
	ErrInvalidTeam = errors.New("invalid team")
)

// DefaultRounds is used when a store is created with no round count
const DefaultRounds = 15

// DraftDAL defines the interface for data access layer
type DraftDAL interface {
	GetState() (*models.DraftState, error)
	Reset() error
	AddCandidate(c *models.Candidate) (*models.Candidate, error)
	UpdateCandidate(c *models.Candidate) (*models.Candidate, error)
	DeleteCandidate(id string) error
	SetCandidateADP(id string, adp float64) (*models.Candidate, error)
	AddTeam(name, owner string) (*models.Team, error)
	ReorderTeams(order []string) ([]models.Team, error)
	DraftCandidate(candidateID, teamID string) (*models.DraftPick, error)
	Close() error
}
