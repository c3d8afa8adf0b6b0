package rankings

import (
	"math"
	"sort"
	"strings"

	"github.com/omarshaarawi/sleeperstats/internal/models"
)

const (
	rosTopPlayers = 8
	// neutralSchedule is used when a roster's ranked players carry no
	// schedule values.
	neutralSchedule = 16
)

// ROSRow is one externally sourced rest-of-season ranking line. ROS and
// Next4 are schedule difficulty values, lower meaning easier.
type ROSRow struct {
	Player string   `json:"player"`
	Rank   float64  `json:"rank"`
	ROS    *float64 `json:"ros,omitempty"`
	Next4  *float64 `json:"next4,omitempty"`
}

// ROSTable indexes rows by lower-cased player name.
type ROSTable map[string]ROSRow

func NewROSTable(rows []ROSRow) ROSTable {
	t := make(ROSTable, len(rows))
	for _, r := range rows {
		name := strings.ToLower(strings.TrimSpace(r.Player))
		if name == "" {
			continue
		}
		t[name] = r
	}
	return t
}

// TeamScores averages the ranks of a roster's best rosTopPlayers ranked
// players and their schedule values. Both are +Inf when nothing matched.
func (t ROSTable) TeamScores(roster models.Roster, players map[string]models.Player) (strength, schedule float64) {
	var rows []ROSRow
	for _, id := range roster.Players {
		p, ok := players[id]
		if !ok || p.FullName == "" {
			continue
		}
		row, ok := t[strings.ToLower(p.FullName)]
		if !ok || math.IsNaN(row.Rank) || math.IsInf(row.Rank, 0) {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return math.Inf(1), math.Inf(1)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Rank < rows[j].Rank })
	if len(rows) > rosTopPlayers {
		rows = rows[:rosTopPlayers]
	}

	var rankSum, schedSum float64
	var schedCount int
	for _, r := range rows {
		rankSum += r.Rank
		if r.ROS != nil {
			schedSum += *r.ROS
			schedCount++
		}
		if r.Next4 != nil {
			schedSum += *r.Next4
			schedCount++
		}
	}

	strength = rankSum / float64(len(rows))
	schedule = neutralSchedule
	if schedCount > 0 {
		schedule = schedSum / float64(schedCount)
	}
	return strength, schedule
}

// rankAscending ranks ids by score ascending; ties keep ids order.
func rankAscending(ids []int, score map[int]float64) map[int]int {
	order := append([]int(nil), ids...)
	sort.SliceStable(order, func(i, j int) bool {
		return score[order[i]] < score[order[j]]
	})
	ranks := make(map[int]int, len(order))
	for i, id := range order {
		ranks[id] = i + 1
	}
	return ranks
}
