package models

// CostModel describes how a league prices keepers
type CostModel string

const (
	CostModelAuction CostModel = "AUCTION" // cost is an auction budget amount
	CostModelRound   CostModel = "ROUND"   // cost is the draft round surrendered
)

// KeeperCandidate is a rostered player eligible to be kept
type KeeperCandidate struct {
	Candidate      Candidate `json:"candidate"`
	Cost           float64   `json:"cost"`
	ProjectedValue float64   `json:"projectedValue"`
	KeeperValue    float64   `json:"keeperValue"`
}

// NewKeeperCandidate derives keeper value as projected value minus cost
func NewKeeperCandidate(c Candidate, projectedValue, cost float64) KeeperCandidate {
	return KeeperCandidate{
		Candidate:      c,
		Cost:           cost,
		ProjectedValue: projectedValue,
		KeeperValue:    projectedValue - cost,
	}
}

// KeeperLeagueConfig holds the league's keeper rules
type KeeperLeagueConfig struct {
	MaxKeepers int       `json:"maxKeepers"`
	CapEnabled bool      `json:"capEnabled"`
	CapAmount  float64   `json:"capAmount"`
	CostModel  CostModel `json:"costModel"`
}

// KeeperSelection is the result of keeper selection
type KeeperSelection struct {
	Recommended []KeeperCandidate `json:"recommended"`
	Dropped     []KeeperCandidate `json:"dropped"`
	TotalCost   float64           `json:"totalCost"`
	CapLimit    float64           `json:"capLimit,omitempty"`
	Summary     string            `json:"summary"`
}

// DraftAnalytics is the post-draft report for one team
type DraftAnalytics struct {
	TeamID                  string           `json:"teamId"`
	Picks                   int              `json:"picks"`
	EfficiencyScore         float64          `json:"efficiencyScore"`
	MeanADP                 float64          `json:"meanAdp"`
	MeanPickPosition        float64          `json:"meanPickPosition"`
	ValuePicks              []RosterEntry    `json:"valuePicks"`
	Reaches                 []RosterEntry    `json:"reaches"`
	Steals                  []RosterEntry    `json:"steals"`
	PositionCounts          map[Position]int `json:"positionCounts"`
	RosterBalance           float64          `json:"rosterBalance"`
	Upside                  float64          `json:"upside"`
	Floor                   float64          `json:"floor"`
	ChampionshipProbability float64          `json:"championshipProbability"`
	Grade                   string           `json:"grade"`
	Suggestions             []string         `json:"suggestions"`
}
