// Package draft ties the draft store, the engine and the event bus together.
// HTTP handlers, the gRPC server and the CLI all go through Service.
package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/Billy-Davies-2/draftkit/internal/dal"
	"github.com/Billy-Davies-2/draftkit/internal/engine"
	"github.com/Billy-Davies-2/draftkit/internal/logger"
	"github.com/Billy-Davies-2/draftkit/internal/models"
	"github.com/Billy-Davies-2/draftkit/internal/pubsub"
)

var (
	// ErrInvalidRequest marks caller mistakes such as an unknown strategy or position
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoTeamOnClock is returned when a team is needed but the draft has none on the clock
	ErrNoTeamOnClock = errors.New("no team on the clock")
)

// Publisher publishes draft events
type Publisher interface {
	Publish(pubsub.Event)
}

// Options holds the league rules the service applies
type Options struct {
	AutoDraft  models.AutoDraftConfig
	Keepers    models.KeeperLeagueConfig
	Thresholds engine.Thresholds
	Advisor    engine.TieBreakAdvisor
}

// DefaultOptions returns the built-in league rules without an advisor
func DefaultOptions() Options {
	return Options{
		AutoDraft:  models.DefaultAutoDraftConfig(),
		Keepers:    models.KeeperLeagueConfig{MaxKeepers: 3, CapAmount: 200, CostModel: models.CostModelAuction},
		Thresholds: engine.DefaultThresholds(),
	}
}

// Service runs draft operations against a store and announces changes on a bus
type Service struct {
	store     dal.DraftDAL
	bus       Publisher
	session   *engine.Session
	opts      Options
	analytics *engine.AnalyticsCalculator
}

// NewService creates a service. Thresholds are validated here so a bad
// configuration fails at startup.
func NewService(store dal.DraftDAL, bus Publisher, session *engine.Session, opts Options) (*Service, error) {
	calc, err := engine.NewAnalyticsCalculator(opts.Thresholds, opts.AutoDraft.TargetComposition)
	if err != nil {
		return nil, err
	}
	if session == nil {
		session = engine.NewSession("default")
	}
	return &Service{
		store:     store,
		bus:       bus,
		session:   session,
		opts:      opts,
		analytics: calc,
	}, nil
}

// Session returns the engine session backing the service
func (s *Service) Session() *engine.Session {
	return s.session
}

// Options returns the league rules in effect
func (s *Service) Options() Options {
	return s.opts
}

func (s *Service) publish(eventType string, payload map[string]any) {
	if s.bus == nil {
		// Without a bus nobody else will invalidate the snapshot
		if (pubsub.Event{Type: eventType}).ChangesPool() {
			s.session.Invalidate()
		}
		return
	}
	s.bus.Publish(pubsub.Event{Type: eventType, Payload: payload})
}

// State returns the current draft state
func (s *Service) State() (*models.DraftState, error) {
	return s.store.GetState()
}

// Pick drafts a candidate to a team
func (s *Service) Pick(candidateID, teamID string) (*models.DraftPick, error) {
	pick, err := s.store.DraftCandidate(candidateID, teamID)
	if err != nil {
		return nil, err
	}
	logger.Info("Candidate drafted", "candidate_id", candidateID, "team_id", teamID, "overall", pick.Overall)
	s.publish(pubsub.EventDraftPick, map[string]any{
		"candidateId": candidateID,
		"teamId":      teamID,
		"overall":     pick.Overall,
		"round":       pick.Round,
	})
	return pick, nil
}

// AutoPickResult is the decision made for a team and the pick it produced, if any
type AutoPickResult struct {
	Decision models.PickDecision `json:"decision"`
	Pick     *models.DraftPick   `json:"pick,omitempty"`
}

// AutoPick chooses and drafts a candidate for teamID, or for the team on the
// clock when teamID is empty.
func (s *Service) AutoPick(ctx context.Context, teamID string) (AutoPickResult, error) {
	state, err := s.store.GetState()
	if err != nil {
		return AutoPickResult{}, err
	}
	team, err := s.resolveTeam(state, teamID)
	if err != nil {
		return AutoPickResult{}, err
	}

	req := s.recommendRequest(state, team, s.opts.AutoDraft)
	recs := s.session.Recommend(req)
	decision := engine.AutoPick(ctx, s.opts.Advisor, engine.TieBreakRequest{
		TeamID:      team.ID,
		TeamName:    team.Name,
		CurrentPick: state.CurrentPick,
		Roster:      team.Roster,
	}, recs, state.Available, s.opts.AutoDraft.Timeout)

	result := AutoPickResult{Decision: decision}
	if decision.Candidate == nil {
		logger.Warn("Auto-pick made no selection", "team_id", team.ID, "reason", decision.Reason)
		return result, nil
	}

	pick, err := s.Pick(decision.Candidate.ID, team.ID)
	if err != nil {
		return result, err
	}
	result.Pick = pick
	return result, nil
}

// Recommend ranks candidates for teamID. Empty strategy or risk use the configured defaults.
func (s *Service) Recommend(teamID, strategy, risk string) ([]models.Recommendation, error) {
	cfg := s.opts.AutoDraft
	if strategy != "" {
		cfg.Strategy = models.ParseStrategy(strategy)
		if !cfg.Strategy.Valid() {
			return nil, fmt.Errorf("unknown strategy %q: %w", strategy, ErrInvalidRequest)
		}
	}
	if risk != "" {
		cfg.RiskTolerance = models.ParseRiskTolerance(risk)
	}

	state, err := s.store.GetState()
	if err != nil {
		return nil, err
	}
	team, err := s.resolveTeam(state, teamID)
	if err != nil {
		return nil, err
	}

	recs := s.session.Recommend(s.recommendRequest(state, team, cfg))
	if recs == nil {
		recs = []models.Recommendation{}
	}
	return recs, nil
}

// Tiers returns tiers of the available pool for one position, or all when position is empty
func (s *Service) Tiers(position string) (map[models.Position][]models.Tier, error) {
	state, err := s.store.GetState()
	if err != nil {
		return nil, err
	}
	all := s.session.Tiers(state.Available)
	if position == "" {
		return all, nil
	}

	pos, ok := models.ParsePosition(position)
	if !ok {
		return nil, fmt.Errorf("unknown position %q: %w", position, ErrInvalidRequest)
	}
	tiers := all[pos]
	if tiers == nil {
		tiers = []models.Tier{}
	}
	return map[models.Position][]models.Tier{pos: tiers}, nil
}

// Board analyzes the current round from teamID's slot, or the team on the clock
func (s *Service) Board(teamID string) (engine.Board, error) {
	state, err := s.store.GetState()
	if err != nil {
		return engine.Board{}, err
	}
	team, err := s.resolveTeam(state, teamID)
	if err != nil {
		return engine.Board{}, err
	}
	return s.BoardAt(state.Available, team.Slot, state.CurrentRound, len(state.Teams))
}

// BoardAt analyzes an explicit slot and round against pool
func (s *Service) BoardAt(pool []models.Candidate, slot, round, teams int) (engine.Board, error) {
	return s.session.Board(pool, slot, round, teams)
}

// KeeperInput is one keeper-eligible candidate as callers submit it
type KeeperInput struct {
	Candidate      models.Candidate `json:"candidate"`
	ProjectedValue float64          `json:"projectedValue"`
	Cost           float64          `json:"cost"`
}

// KeeperRequest asks for a keeper selection. A nil Config uses the league's rules.
type KeeperRequest struct {
	Config     *models.KeeperLeagueConfig `json:"config,omitempty"`
	Candidates []KeeperInput              `json:"candidates"`
}

// SelectKeepers picks keepers under the league or request rules
func (s *Service) SelectKeepers(req KeeperRequest) models.KeeperSelection {
	cfg := s.opts.Keepers
	if req.Config != nil {
		cfg = *req.Config
	}
	cands := make([]models.KeeperCandidate, 0, len(req.Candidates))
	for _, in := range req.Candidates {
		cands = append(cands, models.NewKeeperCandidate(in.Candidate, in.ProjectedValue, in.Cost))
	}
	return engine.SelectKeepers(cands, cfg)
}

// Analyze grades teamID's picks so far
func (s *Service) Analyze(teamID string) (models.DraftAnalytics, error) {
	if teamID == "" {
		return models.DraftAnalytics{}, fmt.Errorf("teamId is required: %w", ErrInvalidRequest)
	}
	state, err := s.store.GetState()
	if err != nil {
		return models.DraftAnalytics{}, err
	}
	entries, err := dal.RosterEntries(state, teamID)
	if err != nil {
		return models.DraftAnalytics{}, err
	}
	return s.analytics.Analyze(teamID, entries), nil
}

// Reset restores the seeded draft
func (s *Service) Reset() error {
	if err := s.store.Reset(); err != nil {
		return err
	}
	logger.Info("Draft reset")
	s.publish(pubsub.EventDraftReset, nil)
	return nil
}

// AddCandidate adds a candidate to the pool
func (s *Service) AddCandidate(c *models.Candidate) (*models.Candidate, error) {
	out, err := s.store.AddCandidate(c)
	if err != nil {
		return nil, err
	}
	s.publish(pubsub.EventCandidateAdded, map[string]any{"id": out.ID})
	return out, nil
}

// UpdateCandidate replaces an undrafted candidate
func (s *Service) UpdateCandidate(c *models.Candidate) (*models.Candidate, error) {
	out, err := s.store.UpdateCandidate(c)
	if err != nil {
		return nil, err
	}
	s.publish(pubsub.EventCandidateUpdated, map[string]any{"id": out.ID})
	return out, nil
}

// DeleteCandidate removes an undrafted candidate
func (s *Service) DeleteCandidate(id string) error {
	if err := s.store.DeleteCandidate(id); err != nil {
		return err
	}
	s.publish(pubsub.EventCandidateDeleted, map[string]any{"id": id})
	return nil
}

// SetADP sets one candidate's ADP
func (s *Service) SetADP(id string, adp float64) (*models.Candidate, error) {
	if adp <= 0 {
		return nil, fmt.Errorf("adp must be positive: %w", ErrInvalidRequest)
	}
	out, err := s.store.SetCandidateADP(id, adp)
	if err != nil {
		return nil, err
	}
	s.publish(pubsub.EventADPUpdated, map[string]any{"id": id, "adp": adp})
	return out, nil
}

// SyncADP applies an ADP from a feed. Candidates that were drafted or are
// unknown to this draft are skipped without error. One event is published per
// sync round by ADPSynced.
func (s *Service) SyncADP(id string, adp float64) error {
	if adp <= 0 {
		return nil
	}
	_, err := s.store.SetCandidateADP(id, adp)
	if errors.Is(err, dal.ErrNotFound) || errors.Is(err, dal.ErrAlreadyDrafted) {
		return nil
	}
	return err
}

// ADPSynced announces a completed sync round
func (s *Service) ADPSynced(applied int) {
	if applied > 0 {
		s.publish(pubsub.EventADPSynced, map[string]any{"applied": applied})
	}
}

// AddTeam adds a team before the draft starts
func (s *Service) AddTeam(name, owner string) (*models.Team, error) {
	team, err := s.store.AddTeam(name, owner)
	if err != nil {
		return nil, err
	}
	s.publish(pubsub.EventTeamAdded, map[string]any{"id": team.ID})
	return team, nil
}

// ReorderTeams sets the draft order
func (s *Service) ReorderTeams(order []string) ([]models.Team, error) {
	teams, err := s.store.ReorderTeams(order)
	if err != nil {
		return nil, err
	}
	s.publish(pubsub.EventTeamsReordered, nil)
	return teams, nil
}

// resolveTeam finds teamID, or the team on the clock when teamID is empty
func (s *Service) resolveTeam(state *models.DraftState, teamID string) (*models.Team, error) {
	if teamID == "" {
		teamID = state.CurrentTeamID
		if teamID == "" {
			return nil, ErrNoTeamOnClock
		}
	}
	team := state.FindTeam(teamID)
	if team == nil {
		return nil, fmt.Errorf("team %s: %w", teamID, dal.ErrNotFound)
	}
	return team, nil
}

func (s *Service) recommendRequest(state *models.DraftState, team *models.Team, cfg models.AutoDraftConfig) engine.RecommendRequest {
	return engine.RecommendRequest{
		Available:   state.Available,
		Roster:      team.Roster,
		CurrentPick: state.CurrentPick,
		TotalRounds: state.League.Rounds,
		Config:      cfg,
	}
}
