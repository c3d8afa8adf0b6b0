package rankings

import (
	"sort"

	"github.com/omarshaarawi/sleeperstats/internal/models"
)

// DefaultWindow is the number of recent weeks behind the all-play rank.
const DefaultWindow = 3

// RecentWeeks returns up to window weeks with data, counting down from
// currentWeek (or from the last week with data when currentWeek <= 0).
func RecentWeeks(weeks map[int][]models.MatchupEntry, currentWeek, window int) []int {
	if currentWeek <= 0 {
		for w := range weeks {
			if w > currentWeek {
				currentWeek = w
			}
		}
	}

	var recent []int
	for w := currentWeek; w >= 1 && len(recent) < window; w-- {
		if len(weeks[w]) > 0 {
			recent = append(recent, w)
		}
	}
	return recent
}

// AllPlayRanks ranks rosters by their mean weekly scoring position over the
// recent window. A roster absent from a week scores 0 there; a roster with
// no weeks at all sits at N/2. Ties keep rosterIDs order.
func AllPlayRanks(rosterIDs []int, weeks map[int][]models.MatchupEntry, currentWeek, window int) map[int]int {
	positions := make(map[int][]int, len(rosterIDs))

	for _, w := range RecentWeeks(weeks, currentWeek, window) {
		points := make(map[int]float64)
		for _, e := range weeks[w] {
			points[e.RosterID] = e.Points
		}

		order := append([]int(nil), rosterIDs...)
		sort.SliceStable(order, func(i, j int) bool {
			return points[order[i]] > points[order[j]]
		})
		for i, id := range order {
			positions[id] = append(positions[id], i+1)
		}
	}

	type avgPos struct {
		rosterID int
		avg      float64
	}
	avgs := make([]avgPos, len(rosterIDs))
	for i, id := range rosterIDs {
		list := positions[id]
		if len(list) == 0 {
			avgs[i] = avgPos{id, float64(len(rosterIDs)) / 2}
			continue
		}
		sum := 0
		for _, p := range list {
			sum += p
		}
		avgs[i] = avgPos{id, float64(sum) / float64(len(list))}
	}

	sort.SliceStable(avgs, func(i, j int) bool {
		return avgs[i].avg < avgs[j].avg
	})

	ranks := make(map[int]int, len(avgs))
	for i, a := range avgs {
		ranks[a.rosterID] = i + 1
	}
	return ranks
}

type AllPlayRecord struct {
	Wins   int
	Losses int
	Ties   int
}

// WinPct ignores ties; ok is false when no games were counted.
func (r AllPlayRecord) WinPct() (pct float64, ok bool) {
	games := r.Wins + r.Losses
	if games == 0 {
		return 0, false
	}
	return float64(r.Wins) / float64(games), true
}

// AllPlayRecords plays every roster against every other roster each week
// through throughWeek (all weeks when <= 0).
func AllPlayRecords(rosterIDs []int, weeks map[int][]models.MatchupEntry, throughWeek int) map[int]AllPlayRecord {
	records := make(map[int]AllPlayRecord, len(rosterIDs))
	for _, id := range rosterIDs {
		records[id] = AllPlayRecord{}
	}

	for w, entries := range weeks {
		if throughWeek > 0 && w > throughWeek {
			continue
		}
		for _, e := range entries {
			rec, ok := records[e.RosterID]
			if !ok {
				continue
			}
			for _, o := range entries {
				if o.RosterID == e.RosterID {
					continue
				}
				switch {
				case e.Points > o.Points:
					rec.Wins++
				case e.Points < o.Points:
					rec.Losses++
				default:
					rec.Ties++
				}
			}
			records[e.RosterID] = rec
		}
	}
	return records
}
