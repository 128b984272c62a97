package models

import (
	"strings"
	"time"
)

// Strategy is the drafting strategy configured for automated picks
type Strategy string

const (
	StrategyBPA            Strategy = "BPA"
	StrategyPositionalNeed Strategy = "POSITIONAL_NEED"
	StrategyValueBased     Strategy = "VALUE_BASED"
	StrategyConservative   Strategy = "CONSERVATIVE"
	StrategyAggressive     Strategy = "AGGRESSIVE"
)

// Valid reports whether s is one of the known strategies
func (s Strategy) Valid() bool {
	switch s {
	case StrategyBPA, StrategyPositionalNeed, StrategyValueBased, StrategyConservative, StrategyAggressive:
		return true
	}
	return false
}

// ParseStrategy accepts any casing and dashes in place of underscores
func ParseStrategy(s string) Strategy {
	return Strategy(strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_"))
}

// RiskTolerance bounds how much age risk the upside generator accepts
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "LOW"
	RiskMedium RiskTolerance = "MEDIUM"
	RiskHigh   RiskTolerance = "HIGH"
)

// ParseRiskTolerance defaults to MEDIUM for anything it does not recognize
func ParseRiskTolerance(s string) RiskTolerance {
	switch RiskTolerance(strings.ToUpper(strings.TrimSpace(s))) {
	case RiskLow:
		return RiskLow
	case RiskHigh:
		return RiskHigh
	default:
		return RiskMedium
	}
}

// RecommendationType tags which heuristic produced a recommendation
type RecommendationType string

const (
	RecommendationBPA    RecommendationType = "BPA"
	RecommendationNeed   RecommendationType = "NEED"
	RecommendationValue  RecommendationType = "VALUE"
	RecommendationUpside RecommendationType = "UPSIDE"
	RecommendationSafe   RecommendationType = "SAFE"
)

// TimeoutPolicy controls how long the tie-break advisor may take
type TimeoutPolicy struct {
	AdvisorTimeout time.Duration `json:"advisorTimeout"`
}

// AutoDraftConfig configures recommendations and automated selection for one team
type AutoDraftConfig struct {
	Strategy          Strategy         `json:"strategy"`
	PositionPriority  []Position       `json:"positionPriority"`
	RiskTolerance     RiskTolerance    `json:"riskTolerance"`
	TargetComposition map[Position]int `json:"targetComposition"`
	AvoidInjuryProne  bool             `json:"avoidInjuryProne"`
	PreferVeterans    bool             `json:"preferVeterans"`
	Timeout           TimeoutPolicy    `json:"timeout"`
}

// DefaultAutoDraftConfig returns a standard 1QB/2RB/2WR/1TE/1K/1DST plus bench build
func DefaultAutoDraftConfig() AutoDraftConfig {
	return AutoDraftConfig{
		Strategy:         StrategyBPA,
		PositionPriority: []Position{PositionRB, PositionWR, PositionQB, PositionTE, PositionDST, PositionK},
		RiskTolerance:    RiskMedium,
		TargetComposition: map[Position]int{
			PositionQB:  2,
			PositionRB:  5,
			PositionWR:  5,
			PositionTE:  1,
			PositionK:   1,
			PositionDST: 1,
		},
		Timeout: TimeoutPolicy{AdvisorTimeout: 5 * time.Second},
	}
}

// RosterNeed is one position's shortfall against the target composition
type RosterNeed struct {
	Position Position `json:"position"`
	Current  int      `json:"current"`
	Target   int      `json:"target"`
	Needed   int      `json:"needed"`
	Priority float64  `json:"priority"`
}

// TierInfo locates a recommended candidate inside its positional tiers
type TierInfo struct {
	TierIndex      int     `json:"tierIndex"` // 1-based
	CandidatesLeft int     `json:"candidatesLeft"`
	DropToNextTier float64 `json:"dropToNextTier"`
	HasNextTier    bool    `json:"hasNextTier"`
}

// Recommendation is one ranked pick suggestion
type Recommendation struct {
	Candidate    Candidate          `json:"candidate"`
	Confidence   float64            `json:"confidence"`
	Reasoning    string             `json:"reasoning"`
	Type         RecommendationType `json:"type"`
	ValueVsADP   float64            `json:"valueVsAdp"` // zero for unranked candidates
	PositionRank int                `json:"positionRank"`
	Tier         TierInfo           `json:"tier"`
	Score        float64            `json:"score"`
}

// PickSource records which stage of automated selection produced a pick
type PickSource string

const (
	PickSourceAdvisor        PickSource = "advisor"
	PickSourceRecommendation PickSource = "recommendation"
	PickSourceLowestADP      PickSource = "lowest_adp"
	PickSourceNone           PickSource = "none"
)

// PickDecision is the outcome of automated pick selection
type PickDecision struct {
	Candidate *Candidate `json:"candidate,omitempty"`
	Source    PickSource `json:"source"`
	Reason    string     `json:"reason"`
}
