package draft

import (
	"fmt"
	"sort"

	"github.com/omarshaarawi/sleeperstats/internal/models"
	"github.com/omarshaarawi/sleeperstats/internal/ownership"
	"github.com/omarshaarawi/sleeperstats/internal/scoring"
)

// Positions are the positions graded; everything else is left unrated.
var Positions = []string{"QB", "RB", "WR", "TE"}

type Status string

const (
	StatusActive  Status = "active"
	StatusTraded  Status = "traded"
	StatusDropped Status = "dropped"
)

type Tier string

const (
	TierElite   Tier = "elite"
	TierGood    Tier = "good"
	TierAverage Tier = "average"
	TierPoor    Tier = "poor"
	TierBust    Tier = "bust"
)

type PickRating struct {
	PickNo                 int
	Round                  int
	RosterID               int
	PlayerID               string
	PlayerName             string
	Position               string
	DraftPositionRank      int
	SeasonPositionRank     int // 0 when the player never started
	ActualPoints           float64
	ExpectedPoints         float64
	PointsAboveExpectation float64
	Tier                   Tier
	Label                  string
	Status                 Status
	StatusWeek             int
}

type Input struct {
	Picks       []models.DraftPick
	Players     map[string]models.Player
	Accumulator *scoring.Accumulator
	Tracker     *ownership.Tracker
	// EvalWeek bounds the points counted; 0 means the full season.
	EvalWeek int
}

// Rate maps points above expectation to a tier and display label.
func Rate(par float64) (Tier, string) {
	switch {
	case par >= 50:
		return TierElite, fmt.Sprintf("%+.0f Elite", par)
	case par >= 20:
		return TierGood, fmt.Sprintf("%+.0f Good", par)
	case par >= -10:
		return TierAverage, fmt.Sprintf("%+.0f", par)
	case par >= -30:
		return TierPoor, fmt.Sprintf("%+.0f Poor", par)
	default:
		return TierBust, fmt.Sprintf("%+.0f Bust", par)
	}
}

// RatePicks grades every QB/RB/WR/TE pick against the rest of its positional
// cohort. Expected points for a draft slot come from a least-squares line of
// actual points on positional draft rank, so a cohort's PAR sums to zero.
// Results are ordered by pick number.
func RatePicks(in Input) []PickRating {
	picks := append([]models.DraftPick(nil), in.Picks...)
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].PickNo < picks[j].PickNo })

	tally := in.Accumulator.Tally(in.EvalWeek)
	seasonRanks := seasonPositionRanks(tally, in.Players)
	numTeams := countTeams(picks)

	cohorts := make(map[string][]int)
	var ratings []PickRating
	for _, pick := range picks {
		if pick.PlayerID == "" {
			continue
		}
		pos := position(pick, in.Players)
		if !graded(pos) {
			continue
		}

		r := PickRating{
			PickNo:             pick.PickNo,
			Round:              pick.Round,
			RosterID:           pick.RosterID,
			PlayerID:           pick.PlayerID,
			PlayerName:         in.Players[pick.PlayerID].FullName,
			Position:           pos,
			DraftPositionRank:  len(cohorts[pos]) + 1,
			SeasonPositionRank: seasonRanks[pick.PlayerID],
			ActualPoints:       in.Accumulator.PointsForPlayer(pick.PlayerID, pick.RosterID, in.EvalWeek),
			Status:             StatusActive,
		}
		if r.Round == 0 && numTeams > 0 {
			r.Round = (pick.PickNo + numTeams - 1) / numTeams
		}
		if r.PlayerName == "" {
			r.PlayerName = pick.PlayerID
		}

		if c, ok := in.Tracker.FirstDeparture(pick.PlayerID, pick.RosterID); ok {
			r.StatusWeek = c.Week
			r.Status = StatusDropped
			if c.Kind == ownership.ChangeTrade {
				r.Status = StatusTraded
			}
		}

		cohorts[pos] = append(cohorts[pos], len(ratings))
		ratings = append(ratings, r)
	}

	for _, idx := range cohorts {
		ranks := make([]float64, len(idx))
		points := make([]float64, len(idx))
		for i, k := range idx {
			ranks[i] = float64(ratings[k].DraftPositionRank)
			points[i] = ratings[k].ActualPoints
		}
		expected := fitLine(ranks, points)
		for i, k := range idx {
			r := &ratings[k]
			r.ExpectedPoints = expected[i]
			r.PointsAboveExpectation = r.ActualPoints - r.ExpectedPoints
			r.Tier, r.Label = Rate(r.PointsAboveExpectation)
		}
	}

	return ratings
}

// fitLine returns the least-squares fitted y for each x. With one point, or
// when every x is equal, the fit is the mean of y.
func fitLine(x, y []float64) []float64 {
	n := float64(len(x))
	fitted := make([]float64, len(x))
	if len(x) == 0 {
		return fitted
	}

	var mx, my float64
	for i := range x {
		mx += x[i]
		my += y[i]
	}
	mx /= n
	my /= n

	var sxy, sxx float64
	for i := range x {
		sxy += (x[i] - mx) * (y[i] - my)
		sxx += (x[i] - mx) * (x[i] - mx)
	}

	slope := 0.0
	if sxx > 0 {
		slope = sxy / sxx
	}
	for i := range x {
		fitted[i] = my + slope*(x[i]-mx)
	}
	return fitted
}

// seasonPositionRanks ranks every player who started at a graded position
// by ownership-respecting points, best first. Ties break on player id.
func seasonPositionRanks(tally *scoring.Tally, players map[string]models.Player) map[string]int {
	byPos := make(map[string][]string)
	for _, id := range tally.Players() {
		pos := players[id].Position
		if graded(pos) {
			byPos[pos] = append(byPos[pos], id)
		}
	}

	ranks := make(map[string]int)
	for _, ids := range byPos {
		sort.SliceStable(ids, func(i, j int) bool {
			return tally.Total(ids[i]) > tally.Total(ids[j])
		})
		for i, id := range ids {
			ranks[id] = i + 1
		}
	}
	return ranks
}

func position(pick models.DraftPick, players map[string]models.Player) string {
	if p, ok := players[pick.PlayerID]; ok && p.Position != "" {
		return p.Position
	}
	return pick.Position
}

func graded(pos string) bool {
	for _, p := range Positions {
		if p == pos {
			return true
		}
	}
	return false
}

func countTeams(picks []models.DraftPick) int {
	seen := make(map[int]bool)
	for _, p := range picks {
		seen[p.RosterID] = true
	}
	return len(seen)
}
