package rankings

import (
	"sort"

	"github.com/omarshaarawi/sleeperstats/internal/models"
)

// SortStandings orders rosters by wins desc, points-for desc, roster id asc.
func SortStandings(rosters []models.Roster) []models.Roster {
	sorted := append([]models.Roster(nil), rosters...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Record.Wins != b.Record.Wins {
			return a.Record.Wins > b.Record.Wins
		}
		if a.Record.PointsFor != b.Record.PointsFor {
			return a.Record.PointsFor > b.Record.PointsFor
		}
		return a.RosterID < b.RosterID
	})
	return sorted
}

func StandingRanks(rosters []models.Roster) map[int]int {
	ranks := make(map[int]int, len(rosters))
	for i, r := range SortStandings(rosters) {
		ranks[r.RosterID] = i + 1
	}
	return ranks
}

func PointsForRanks(rosters []models.Roster) map[int]int {
	sorted := append([]models.Roster(nil), rosters...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Record.PointsFor != sorted[j].Record.PointsFor {
			return sorted[i].Record.PointsFor > sorted[j].Record.PointsFor
		}
		return sorted[i].RosterID < sorted[j].RosterID
	})

	ranks := make(map[int]int, len(sorted))
	for i, r := range sorted {
		ranks[r.RosterID] = i + 1
	}
	return ranks
}
