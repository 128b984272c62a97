package dal

import (
	"fmt"

	"github.com/Billy-Davies-2/draftkit/internal/models"
)

type seedRow struct {
	name        string
	pos         models.Position
	team        string
	adp         float64
	age         int
	injuryProne bool
	upside      string
	consistency string
}

var seedRows = []seedRow{
	{"Ja'Marr Chase", models.PositionWR, "CIN", 1.2, 25, false, "elite", "high"},
	{"Bijan Robinson", models.PositionRB, "ATL", 2.1, 23, false, "elite", "high"},
	{"Saquon Barkley", models.PositionRB, "PHI", 3.4, 28, true, "high", "high"},
	{"Justin Jefferson", models.PositionWR, "MIN", 4.0, 26, false, "elite", "high"},
	{"Jahmyr Gibbs", models.PositionRB, "DET", 4.8, 23, false, "elite", "medium"},
	{"CeeDee Lamb", models.PositionWR, "DAL", 6.1, 26, false, "high", "high"},
	{"Puka Nacua", models.PositionWR, "LAR", 7.5, 24, true, "high", "medium"},
	{"Malik Nabers", models.PositionWR, "NYG", 8.2, 22, false, "elite", "medium"},
	{"Amon-Ra St. Brown", models.PositionWR, "DET", 9.0, 25, false, "high", "high"},
	{"Christian McCaffrey", models.PositionRB, "SF", 10.3, 29, true, "high", "medium"},
	{"Ashton Jeanty", models.PositionRB, "LV", 11.6, 21, false, "elite", "medium"},
	{"Nico Collins", models.PositionWR, "HOU", 12.4, 26, true, "high", "medium"},
	{"Derrick Henry", models.PositionRB, "BAL", 13.1, 31, false, "medium", "high"},
	{"Brian Thomas Jr.", models.PositionWR, "JAX", 14.7, 22, false, "high", "medium"},
	{"De'Von Achane", models.PositionRB, "MIA", 15.2, 23, true, "high", "low"},
	{"A.J. Brown", models.PositionWR, "PHI", 17.9, 28, false, "medium", "high"},
	{"Josh Jacobs", models.PositionRB, "GB", 18.3, 27, false, "medium", "high"},
	{"Drake London", models.PositionWR, "ATL", 19.8, 24, false, "high", "medium"},
	{"Brock Bowers", models.PositionTE, "LV", 20.5, 22, false, "elite", "high"},
	{"Jonathan Taylor", models.PositionRB, "IND", 22.0, 26, true, "medium", "medium"},
	{"Ladd McConkey", models.PositionWR, "LAC", 24.6, 23, false, "high", "medium"},
	{"Bucky Irving", models.PositionRB, "TB", 25.1, 23, false, "high", "medium"},
	{"Kyren Williams", models.PositionRB, "LAR", 27.4, 25, false, "medium", "high"},
	{"Tee Higgins", models.PositionWR, "CIN", 28.9, 26, true, "medium", "medium"},
	{"Josh Allen", models.PositionQB, "BUF", 29.5, 29, false, "elite", "high"},
	{"Lamar Jackson", models.PositionQB, "BAL", 30.2, 28, false, "elite", "high"},
	{"Trey McBride", models.PositionTE, "ARI", 31.7, 25, false, "high", "high"},
	{"Chase Brown", models.PositionRB, "CIN", 33.0, 25, false, "high", "medium"},
	{"Jaxon Smith-Njigba", models.PositionWR, "SEA", 34.4, 23, false, "high", "medium"},
	{"Garrett Wilson", models.PositionWR, "NYJ", 36.1, 25, false, "medium", "medium"},
	{"Jayden Daniels", models.PositionQB, "WAS", 37.8, 24, false, "elite", "medium"},
	{"James Cook", models.PositionRB, "BUF", 39.2, 25, false, "medium", "medium"},
	{"Jalen Hurts", models.PositionQB, "PHI", 40.6, 27, false, "high", "high"},
	{"Breece Hall", models.PositionRB, "NYJ", 42.3, 24, true, "high", "low"},
	{"Terry McLaurin", models.PositionWR, "WAS", 44.0, 30, false, "medium", "high"},
	{"George Kittle", models.PositionTE, "SF", 46.5, 31, true, "medium", "medium"},
	{"Davante Adams", models.PositionWR, "LAR", 48.1, 32, false, "medium", "high"},
	{"Alvin Kamara", models.PositionRB, "NO", 50.4, 30, false, "medium", "medium"},
	{"Joe Burrow", models.PositionQB, "CIN", 52.0, 28, true, "high", "medium"},
	{"Marvin Harrison Jr.", models.PositionWR, "ARI", 53.7, 23, false, "high", "low"},
	{"Sam LaPorta", models.PositionTE, "DET", 58.2, 24, false, "high", "medium"},
	{"Omarion Hampton", models.PositionRB, "LAC", 60.9, 22, false, "high", "low"},
	{"DK Metcalf", models.PositionWR, "PIT", 63.5, 27, false, "medium", "low"},
	{"Baker Mayfield", models.PositionQB, "TB", 66.8, 30, false, "medium", "medium"},
	{"Travis Kelce", models.PositionTE, "KC", 70.1, 35, false, "low", "high"},
	{"David Montgomery", models.PositionRB, "DET", 72.6, 28, true, "low", "medium"},
	{"Travis Hunter", models.PositionWR, "JAX", 78.0, 22, false, "elite", "low"},
	{"Patrick Mahomes", models.PositionQB, "KC", 80.4, 30, false, "medium", "high"},
	{"Mark Andrews", models.PositionTE, "BAL", 88.7, 30, false, "medium", "medium"},
	{"Chris Godwin", models.PositionWR, "TB", 95.3, 29, true, "medium", "medium"},
	{"Tony Pollard", models.PositionRB, "TEN", 99.0, 28, false, "low", "high"},
	{"Jordan Love", models.PositionQB, "GB", 104.6, 27, false, "high", "low"},
	{"Tyler Warren", models.PositionTE, "IND", 110.2, 23, false, "high", "low"},
	{"Denver Broncos", models.PositionDST, "DEN", 118.5, 0, false, "", "high"},
	{"Philadelphia Eagles", models.PositionDST, "PHI", 122.0, 0, false, "", "high"},
	{"Baltimore Ravens", models.PositionDST, "BAL", 131.4, 0, false, "", "medium"},
	{"Brandon Aubrey", models.PositionK, "DAL", 128.9, 30, false, "", "high"},
	{"Cameron Dicker", models.PositionK, "LAC", 135.6, 25, false, "", "high"},
	{"Jake Bates", models.PositionK, "DET", 142.3, 26, false, "", "medium"},
	{"Quinshon Judkins", models.PositionRB, "CLE", 0, 22, false, "high", "low"},
}

var seedTeams = []struct{ name, owner string }{
	{"Gridiron Gurus", "Alice"},
	{"Blitz Brigade", "Ben"},
	{"Red Zone Raiders", "Cara"},
	{"Fourth and Long", "Dev"},
	{"Hail Marys", "Erin"},
	{"Pick Six", "Femi"},
	{"Goal Line Stand", "Gus"},
	{"Sunday Scaries", "Hana"},
	{"Waiver Wire Warriors", "Ivan"},
	{"The Audibles", "Jo"},
	{"Play Action", "Kai"},
	{"Two Minute Drill", "Lee"},
}

// defaultCandidates returns the seeded candidate pool ranked by ADP order.
// A zero ADP in the seed table means the candidate has no ADP yet.
func defaultCandidates() []models.Candidate {
	out := make([]models.Candidate, 0, len(seedRows))
	for i, r := range seedRows {
		c := models.Candidate{
			ID:             fmt.Sprintf("c%03d", i+1),
			Name:           r.name,
			Position:       r.pos,
			Team:           r.team,
			Rank:           i + 1,
			Age:            r.age,
			InjuryProne:    r.injuryProne,
			UpsideTag:      r.upside,
			ConsistencyTag: r.consistency,
		}
		if r.adp > 0 {
			c.ADP = models.ADPValue(r.adp)
		}
		out = append(out, c)
	}
	return out
}

func defaultTeams() []models.Team {
	out := make([]models.Team, 0, len(seedTeams))
	for i, t := range seedTeams {
		out = append(out, models.Team{
			ID:     fmt.Sprintf("t%d", i+1),
			Name:   t.name,
			Owner:  t.owner,
			Slot:   i + 1,
			Roster: []models.Candidate{},
		})
	}
	return out
}
