package draft

import (
	"math"
	"sort"
)

var (
	positionWeights = map[string]float64{"QB": 0.20, "RB": 0.35, "WR": 0.35, "TE": 0.10}
	starterCounts   = map[string]int{"QB": 1, "RB": 2, "WR": 2, "TE": 1}
)

type TeamGrade struct {
	RosterID       int
	Score          float64 // 0-100
	Letter         string
	PositionScores map[string]float64
	Picks          []PickRating
}

// GradeTeams scores each roster's draft from the PAR of its best active
// picks at each position, weighted by position. PAR is assumed to live in
// -50..+100 when mapping to 0-100. Sorted best first.
func GradeTeams(ratings []PickRating) []TeamGrade {
	byRoster := make(map[int][]PickRating)
	var order []int
	for _, r := range ratings {
		if _, ok := byRoster[r.RosterID]; !ok {
			order = append(order, r.RosterID)
		}
		byRoster[r.RosterID] = append(byRoster[r.RosterID], r)
	}

	grades := make([]TeamGrade, 0, len(order))
	for _, rosterID := range order {
		picks := byRoster[rosterID]
		g := TeamGrade{
			RosterID:       rosterID,
			PositionScores: make(map[string]float64, len(Positions)),
			Picks:          picks,
		}

		total := 0.0
		for _, pos := range Positions {
			var active []float64
			for _, p := range picks {
				if p.Position == pos && p.Status == StatusActive {
					active = append(active, p.PointsAboveExpectation)
				}
			}
			if len(active) == 0 {
				g.PositionScores[pos] = 0
				continue
			}

			sort.Sort(sort.Reverse(sort.Float64Slice(active)))
			if n := starterCounts[pos]; len(active) > n {
				active = active[:n]
			}
			sum := 0.0
			for _, v := range active {
				sum += v
			}
			avg := sum / float64(len(active))
			g.PositionScores[pos] = avg
			total += avg * positionWeights[pos]
		}

		g.Score = math.Max(0, math.Min(100, (total+50)/150*100))
		g.Letter = Letter(g.Score)
		grades = append(grades, g)
	}

	sort.SliceStable(grades, func(i, j int) bool {
		if grades[i].Score != grades[j].Score {
			return grades[i].Score > grades[j].Score
		}
		return grades[i].RosterID < grades[j].RosterID
	})
	return grades
}

func Letter(score float64) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 85:
		return "A"
	case score >= 80:
		return "A-"
	case score >= 75:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 65:
		return "B-"
	case score >= 60:
		return "C+"
	case score >= 55:
		return "C"
	case score >= 50:
		return "C-"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

// BestByPosition returns the highest-PAR pick at each position, in
// Positions order. Ties keep the earlier pick.
func BestByPosition(ratings []PickRating) []PickRating {
	return extremeByPosition(ratings, func(a, b float64) bool { return a > b })
}

func WorstByPosition(ratings []PickRating) []PickRating {
	return extremeByPosition(ratings, func(a, b float64) bool { return a < b })
}

func extremeByPosition(ratings []PickRating, better func(a, b float64) bool) []PickRating {
	var out []PickRating
	for _, pos := range Positions {
		var best *PickRating
		for i := range ratings {
			r := &ratings[i]
			if r.Position != pos {
				continue
			}
			if best == nil || better(r.PointsAboveExpectation, best.PointsAboveExpectation) {
				best = r
			}
		}
		if best != nil {
			out = append(out, *best)
		}
	}
	return out
}

// Best returns the single highest-PAR pick overall.
func Best(ratings []PickRating) (PickRating, bool) {
	best := BestByPosition(ratings)
	if len(best) == 0 {
		return PickRating{}, false
	}
	top := best[0]
	for _, r := range best[1:] {
		if r.PointsAboveExpectation > top.PointsAboveExpectation {
			top = r
		}
	}
	return top, true
}
