package awards

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type Kind string

const (
	KindBiggestBlowout     Kind = "biggest_blowout"
	KindClosestWin         Kind = "closest_win"
	KindLuckiest           Kind = "luckiest_manager"
	KindUnluckiest         Kind = "unluckiest_manager"
	KindBestTrade          Kind = "best_trade"
	KindBestWaiver         Kind = "best_waiver_pickup"
	KindDraftSteal         Kind = "best_draft_steal"
	KindHighScore          Kind = "high_score"
	KindLowScore           Kind = "low_score"
	KindTopScoringTeam     Kind = "top_scoring_team"
	KindBestPositionSeason Kind = "best_positional_season"

	KindAllTimeHighScore    Kind = "all_time_high_score"
	KindAllTimeLowScore     Kind = "all_time_low_score"
	KindAllTimeSeasonPoints Kind = "all_time_season_points"
	KindAllTimeBlowout      Kind = "all_time_blowout"
	KindAllTimePlayerSeason Kind = "all_time_player_season"
)

// Award is one narrative entry. Template holds {placeholders}: {week},
// any Stats key, and any Refs key. Refs keys ending in "_team" hold roster
// ids and are rendered as team names.
type Award struct {
	Kind     Kind
	Title    string
	Season   string
	RosterID int
	OwnerID  string
	Week     int
	Template string
	Stats    map[string]float64
	Refs     map[string]string
}

// Render fills the template. teamName resolves a roster id within the
// award's season.
func (a Award) Render(teamName func(season string, rosterID int) string) string {
	pairs := []string{"{week}", strconv.Itoa(a.Week)}

	for _, k := range sortedKeys(a.Stats) {
		pairs = append(pairs, "{"+k+"}", fmt.Sprintf("%.2f", a.Stats[k]))
	}
	for _, k := range sortedKeys(a.Refs) {
		v := a.Refs[k]
		if strings.HasSuffix(k, "_team") && teamName != nil {
			if id, err := strconv.Atoi(v); err == nil {
				v = teamName(a.Season, id)
			}
		}
		pairs = append(pairs, "{"+k+"}", v)
	}

	return strings.NewReplacer(pairs...).Replace(a.Template)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
