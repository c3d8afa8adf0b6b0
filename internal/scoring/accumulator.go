package scoring

import (
	"sort"

	"github.com/omarshaarawi/sleeperstats/internal/models"
	"github.com/omarshaarawi/sleeperstats/internal/ownership"
)

// Accumulator sums starting-lineup points for one season. Bench points
// never count.
type Accumulator struct {
	tracker  *ownership.Tracker
	byRoster map[int][]models.MatchupEntry
}

func NewAccumulator(season *models.SeasonData, tracker *ownership.Tracker) *Accumulator {
	a := &Accumulator{
		tracker:  tracker,
		byRoster: make(map[int][]models.MatchupEntry),
	}
	if season == nil {
		return a
	}

	for _, week := range season.SortedWeeks() {
		for _, e := range season.Weeks[week] {
			a.byRoster[e.RosterID] = append(a.byRoster[e.RosterID], e)
		}
	}
	return a
}

// PointsForPlayer sums the player's starter points for rosterID through
// throughWeek (every week when throughWeek <= 0), skipping weeks the roster
// no longer owned him.
func (a *Accumulator) PointsForPlayer(playerID string, rosterID, throughWeek int) float64 {
	return a.sum(playerID, rosterID, func(week int) bool {
		return throughWeek <= 0 || week <= throughWeek
	})
}

// PointsAfter sums starter points for weeks strictly after afterWeek.
func (a *Accumulator) PointsAfter(playerID string, rosterID, afterWeek int) float64 {
	return a.sum(playerID, rosterID, func(week int) bool {
		return week > afterWeek
	})
}

func (a *Accumulator) sum(playerID string, rosterID int, include func(week int) bool) float64 {
	if !validPlayer(playerID) {
		return 0
	}

	total := 0.0
	for _, e := range a.byRoster[rosterID] {
		if !include(e.Week) || !a.tracker.WasOwnedBy(playerID, rosterID, e.Week) {
			continue
		}
		for i, starter := range e.Starters {
			if starter == playerID {
				total += e.StartersPoints[i]
			}
		}
	}
	return total
}

// Tally holds ownership-respecting starter points per player and roster.
type Tally struct {
	points map[string]map[int]float64
}

// Tally folds every starter slot through throughWeek (all weeks when <= 0).
func (a *Accumulator) Tally(throughWeek int) *Tally {
	t := &Tally{points: make(map[string]map[int]float64)}

	for rosterID, entries := range a.byRoster {
		for _, e := range entries {
			if throughWeek > 0 && e.Week > throughWeek {
				continue
			}
			for i, player := range e.Starters {
				if !validPlayer(player) || !a.tracker.WasOwnedBy(player, rosterID, e.Week) {
					continue
				}
				byRoster, ok := t.points[player]
				if !ok {
					byRoster = make(map[int]float64)
					t.points[player] = byRoster
				}
				byRoster[rosterID] += e.StartersPoints[i]
			}
		}
	}
	return t
}

func (t *Tally) For(playerID string, rosterID int) float64 {
	return t.points[playerID][rosterID]
}

// Total is the player's starter points across every roster.
func (t *Tally) Total(playerID string) float64 {
	total := 0.0
	for _, p := range t.points[playerID] {
		total += p
	}
	return total
}

// Players lists every player who started at least once, sorted by id.
func (t *Tally) Players() []string {
	ids := make([]string, 0, len(t.points))
	for id := range t.points {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Empty slots come through as "" or "0".
func validPlayer(id string) bool {
	return id != "" && id != "0"
}
