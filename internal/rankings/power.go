package rankings

import (
	"math"
	"sort"
	"strings"

	"github.com/omarshaarawi/sleeperstats/internal/models"
)

const (
	strengthWeight = 0.4
	standingWeight = 0.3
	allPlayWeight  = 0.3
)

type PowerInput struct {
	Rosters     []models.Roster
	Weeks       map[int][]models.MatchupEntry
	CurrentWeek int
	Names       map[int]string
	// ROS and Players are optional; without them the points-for rank stands
	// in for roster strength.
	ROS     ROSTable
	Players map[string]models.Player
}

type PowerRow struct {
	RosterID           int
	OwnerID            string
	DisplayName        string
	StandingRank       int
	AllPlayRank        int
	PointsRank         int
	RosterStrengthRank int
	ScheduleRank       int // 0 without rest-of-season data
	ScoringRank        int
	PowerScore         float64
	Rank               int
	PrevRank           int // 0 when there is nothing to compare against
	Change             int
	Summary            string
}

func (r PowerRow) HasChange() bool {
	return r.PrevRank > 0
}

// ComputePowerRankings returns rows sorted by power score, lower first,
// with Rank 1..N.
func ComputePowerRankings(in PowerInput) []PowerRow {
	if len(in.Rosters) == 0 {
		return nil
	}

	n := len(in.Rosters)
	ids := make([]int, n)
	for i, r := range in.Rosters {
		ids[i] = r.RosterID
	}

	standing := StandingRanks(in.Rosters)
	points := PointsForRanks(in.Rosters)
	allPlay := AllPlayRanks(ids, in.Weeks, in.CurrentWeek, DefaultWindow)

	strength := points
	var schedule map[int]int
	if len(in.ROS) > 0 {
		strengthScores := make(map[int]float64, n)
		scheduleScores := make(map[int]float64, n)
		for _, r := range in.Rosters {
			strengthScores[r.RosterID], scheduleScores[r.RosterID] = in.ROS.TeamScores(r, in.Players)
		}
		strength = rankAscending(ids, strengthScores)
		schedule = rankAscending(ids, scheduleScores)
	}

	rows := make([]PowerRow, 0, n)
	for _, r := range in.Rosters {
		id := r.RosterID
		row := PowerRow{
			RosterID:           id,
			OwnerID:            r.OwnerID,
			DisplayName:        in.Names[id],
			StandingRank:       standing[id],
			AllPlayRank:        allPlay[id],
			PointsRank:         points[id],
			RosterStrengthRank: strength[id],
			ScheduleRank:       schedule[id],
		}
		row.ScoringRank = int(math.Round(float64(row.RosterStrengthRank+row.PointsRank) / 2))
		row.PowerScore = strengthWeight*float64(row.RosterStrengthRank) +
			standingWeight*float64(row.StandingRank) +
			allPlayWeight*float64(row.AllPlayRank)
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].PowerScore != rows[j].PowerScore {
			return rows[i].PowerScore < rows[j].PowerScore
		}
		if rows[i].StandingRank != rows[j].StandingRank {
			return rows[i].StandingRank < rows[j].StandingRank
		}
		return rows[i].RosterID < rows[j].RosterID
	})

	for i := range rows {
		rows[i].Rank = i + 1
		rows[i].Summary = Summary(rows[i], n)
	}
	return rows
}

// Stars maps a rank to a 1-5 rating by quintile.
func Stars(rank, n int) int {
	if rank <= 0 || n <= 0 {
		return 3
	}
	pct := float64(rank) / float64(n)
	switch {
	case pct <= 0.2:
		return 5
	case pct <= 0.4:
		return 4
	case pct <= 0.6:
		return 3
	case pct <= 0.8:
		return 2
	default:
		return 1
	}
}

func StarGlyphs(stars int) string {
	stars = max(1, min(5, stars))
	return strings.Repeat("★", stars) + strings.Repeat("☆", 5-stars)
}

// Summary is a one-line blurb built from the row's star ratings.
func Summary(row PowerRow, n int) string {
	var parts []string

	switch s := Stars(row.ScoringRank, n); {
	case s >= 4:
		parts = append(parts, "Strong scoring profile with top-tier roster talent.")
	case s <= 2:
		parts = append(parts, "Limited scoring ceiling compared to the league leaders.")
	}

	if row.ScheduleRank > 0 {
		switch s := Stars(row.ScheduleRank, n); {
		case s >= 4:
			parts = append(parts, "Favorable schedule ahead should help hold this spot.")
		case s <= 2:
			parts = append(parts, "Tough schedule could make it harder to climb.")
		}
	}

	switch {
	case row.StandingRank <= 3:
		parts = append(parts, "Record says contender.")
	case row.StandingRank >= n-1:
		parts = append(parts, "Needs wins soon to stay in the playoff hunt.")
	}

	switch s := Stars(row.AllPlayRank, n); {
	case s >= 4:
		parts = append(parts, "Recent all-play form is strong.")
	case s <= 2:
		parts = append(parts, "Recent all-play results are inconsistent.")
	}

	if len(parts) == 0 {
		return "Middle of the pack with room to move either way."
	}
	return strings.Join(parts, " ")
}
