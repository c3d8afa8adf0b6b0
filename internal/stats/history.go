package stats

import (
	"sort"

	"github.com/omarshaarawi/sleeperstats/internal/history"
	"github.com/omarshaarawi/sleeperstats/internal/models"
)

// AllSeasons selects every season of the history.
const AllSeasons = "all"

// ManagerRecord is one owner's career line across the selected seasons.
type ManagerRecord struct {
	OwnerID       string
	Seasons       int
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PlayoffWins   int
	ThirdPlace    int
	SecondPlace   int
	Championships int
}

// Exclusions maps an owner id to the seasons dropped from that owner's
// record. Only the owner's own lines are removed: opponents keep the wins
// and losses they earned against the excluded team.
type Exclusions map[string][]string

func (e Exclusions) Excluded(ownerID, season string) bool {
	for _, s := range e[ownerID] {
		if s == season {
			return true
		}
	}
	return false
}

type reducer struct {
	exclusions Exclusions
	records    map[string]*ManagerRecord
}

func (r *reducer) record(ownerID string) *ManagerRecord {
	rec, ok := r.records[ownerID]
	if !ok {
		rec = &ManagerRecord{OwnerID: ownerID}
		r.records[ownerID] = rec
	}
	return rec
}

// ReduceManagerHistory folds the history into per-owner records. An empty
// seasonFilter or "all" selects every season; anything else selects the
// season with that label. Results are ordered by championships, then wins,
// then owner id.
func ReduceManagerHistory(history *models.LeagueHistory, seasonFilter string, exclusions Exclusions) []ManagerRecord {
	if history == nil {
		return nil
	}

	r := &reducer{exclusions: exclusions, records: make(map[string]*ManagerRecord)}
	for _, season := range history.Seasons {
		if seasonFilter != "" && seasonFilter != AllSeasons && season.Season.Season != seasonFilter {
			continue
		}
		r.reduceSeason(season)
	}

	out := make([]ManagerRecord, 0, len(r.records))
	for _, rec := range r.records {
		out = append(out, *rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Championships != out[j].Championships {
			return out[i].Championships > out[j].Championships
		}
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].OwnerID < out[j].OwnerID
	})
	return out
}

func (r *reducer) reduceSeason(season *models.SeasonData) {
	label := season.Season.Season
	owners := make(map[int]string, len(season.Rosters))
	for _, ro := range season.Rosters {
		if ro.OwnerID != "" {
			owners[ro.RosterID] = ro.OwnerID
		}
	}

	// owner resolves an entry to a counted owner, or "" when the roster is
	// unowned or its owner sits this season out.
	owner := func(rosterID int) string {
		id := owners[rosterID]
		if id == "" || r.exclusions.Excluded(id, label) {
			return ""
		}
		return id
	}

	playoffStart := season.Season.Settings.PlayoffWeekStart
	counted := make(map[string]bool)
	var playoffWeeks []int

	for _, week := range season.SortedWeeks() {
		entries := season.Weeks[week]
		playoff := playoffStart > 0 && week >= playoffStart
		if playoff {
			playoffWeeks = append(playoffWeeks, week)
		}

		for _, e := range entries {
			id := owner(e.RosterID)
			if id == "" {
				continue
			}
			rec := r.record(id)
			if !counted[id] {
				counted[id] = true
				rec.Seasons++
			}
			if !playoff {
				rec.PointsFor += e.Points
			}

			opp, ok := opponent(entries, e)
			if !ok {
				continue
			}
			switch {
			case playoff:
				if e.Points > opp.Points {
					rec.PlayoffWins++
				}
			case e.Points > opp.Points:
				rec.Wins++
			case e.Points < opp.Points:
				rec.Losses++
			default:
				rec.Ties++
			}
		}
	}

	if len(playoffWeeks) == 0 {
		return
	}
	lastWeek := playoffWeeks[len(playoffWeeks)-1]
	// A postseason still in progress has no podium yet.
	if length, known := history.SeasonLength(season.Season.Settings); known && lastWeek < length {
		return
	}
	final := season.Weeks[lastWeek]

	if win, lose, ok := decide(final, 1); ok {
		if id := owner(win.RosterID); id != "" {
			r.record(id).Championships++
		}
		if id := owner(lose.RosterID); id != "" {
			r.record(id).SecondPlace++
		}
	}
	if win, _, ok := decide(final, 2); ok {
		if id := owner(win.RosterID); id != "" {
			r.record(id).ThirdPlace++
		}
	}
}

// opponent finds the other entry sharing e's matchup id. Byes (matchup 0)
// have none.
func opponent(entries []models.MatchupEntry, e models.MatchupEntry) (models.MatchupEntry, bool) {
	if e.MatchupID == 0 {
		return models.MatchupEntry{}, false
	}
	for _, o := range entries {
		if o.MatchupID == e.MatchupID && o.RosterID != e.RosterID {
			return o, true
		}
	}
	return models.MatchupEntry{}, false
}

// decide resolves a podium game. The game needs exactly two entries; a tied
// score goes to the second entry.
func decide(entries []models.MatchupEntry, matchupID int) (win, lose models.MatchupEntry, ok bool) {
	var game []models.MatchupEntry
	for _, e := range entries {
		if e.MatchupID == matchupID {
			game = append(game, e)
		}
	}
	if len(game) != 2 {
		return models.MatchupEntry{}, models.MatchupEntry{}, false
	}
	if game[0].Points > game[1].Points {
		return game[0], game[1], true
	}
	return game[1], game[0], true
}
