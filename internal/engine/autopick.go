package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Billy-Davies-2/draftkit/internal/logger"
	"github.com/Billy-Davies-2/draftkit/internal/models"
)

// ErrNoAdvice is returned by advisors that decline to choose
var ErrNoAdvice = errors.New("advisor declined to choose")

// DefaultAdvisorTimeout bounds the advisor when the policy sets no timeout
const DefaultAdvisorTimeout = 5 * time.Second

// advisorOptions is how many recommendations the advisor chooses between
const advisorOptions = 3

// TieBreakRequest is the context handed to a tie-break advisor
type TieBreakRequest struct {
	TeamID      string                  `json:"teamId"`
	TeamName    string                  `json:"teamName"`
	CurrentPick int                     `json:"currentPick"`
	Roster      []models.Candidate      `json:"roster"`
	Options     []models.Recommendation `json:"options"`
}

// TieBreakAdvisor picks one of the offered recommendations by candidate name
type TieBreakAdvisor interface {
	Choose(ctx context.Context, req TieBreakRequest) (string, error)
}

type adviceResult struct {
	name string
	err  error
}

// AutoPick chooses a candidate for the team. The advisor, if any, chooses among the
// top three recommendations within the policy timeout. Otherwise the first
// recommendation wins, then the lowest ADP available candidate.
func AutoPick(ctx context.Context, advisor TieBreakAdvisor, req TieBreakRequest, recs []models.Recommendation, available []models.Candidate, policy models.TimeoutPolicy) models.PickDecision {
	options := recs
	if len(options) > advisorOptions {
		options = options[:advisorOptions]
	}

	if advisor != nil && len(options) > 0 {
		req.Options = options
		name, err := askAdvisor(ctx, advisor, req, policy.AdvisorTimeout)
		if err == nil {
			for _, rec := range options {
				if strings.EqualFold(strings.TrimSpace(name), strings.TrimSpace(rec.Candidate.Name)) {
					c := rec.Candidate
					return models.PickDecision{Candidate: &c, Source: models.PickSourceAdvisor, Reason: "advisor chose " + c.Name}
				}
			}
			logger.Warn("Advisor chose a candidate outside the options", "team_id", req.TeamID, "choice", name)
		} else {
			logger.Warn("Advisor failed, using fallback", "team_id", req.TeamID, "error", err)
		}
	}

	if len(recs) > 0 {
		c := recs[0].Candidate
		return models.PickDecision{Candidate: &c, Source: models.PickSourceRecommendation, Reason: recs[0].Reasoning}
	}

	if len(available) > 0 {
		byADP := make([]models.Candidate, len(available))
		copy(byADP, available)
		SortByADP(byADP)
		c := byADP[0]
		return models.PickDecision{Candidate: &c, Source: models.PickSourceLowestADP, Reason: fmt.Sprintf("lowest ADP available (%.1f)", c.EffectiveADP())}
	}

	return models.PickDecision{Source: models.PickSourceNone, Reason: "no candidates available"}
}

// askAdvisor runs the advisor in its own goroutine so a slow advisor that ignores
// cancellation cannot hold the caller past the timeout.
func askAdvisor(ctx context.Context, advisor TieBreakAdvisor, req TieBreakRequest, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultAdvisorTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	results := make(chan adviceResult, 1)
	go func() {
		name, err := advisor.Choose(ctx, req)
		results <- adviceResult{name: name, err: err}
	}()

	select {
	case res := <-results:
		if res.err != nil {
			return "", res.err
		}
		if strings.TrimSpace(res.name) == "" {
			return "", ErrNoAdvice
		}
		return res.name, nil
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for advisor: %w", ctx.Err())
	}
}
