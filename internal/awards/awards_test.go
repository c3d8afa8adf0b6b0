package awards

import (
	"math"
	"strconv"
	"testing"

	"github.com/omarshaarawi/sleeperstats/internal/models"
)

func e(week, roster, matchup int, points float64, starters ...string) models.MatchupEntry {
	sp := make([]float64, len(starters))
	if len(starters) > 0 {
		sp[0] = points
	}
	return models.MatchupEntry{RosterID: roster, MatchupID: matchup, Week: week, Points: points, Starters: starters, StartersPoints: sp}
}

func rosters(n int) []models.Roster {
	out := make([]models.Roster, n)
	for i := range out {
		out[i] = models.Roster{RosterID: i + 1, OwnerID: "u" + strconv.Itoa(i+1)}
	}
	return out
}

func find(awards []Award, kind Kind) (Award, bool) {
	for _, a := range awards {
		if a.Kind == kind {
			return a, true
		}
	}
	return Award{}, false
}

func TestBlowoutAndClosestWin(t *testing.T) {
	season := &models.SeasonData{
		Season:  models.Season{Season: "2024"},
		Rosters: rosters(2),
		Weeks: map[int][]models.MatchupEntry{
			3: {e(3, 1, 1, 150), e(3, 2, 1, 50)},
		},
	}

	got := CalculateSeasonAwards(season, nil, DefaultThresholds())

	blowout, ok := find(got, KindBiggestBlowout)
	if !ok {
		t.Fatal("no Biggest Blowout award")
	}
	if blowout.Stats["margin"] != 100 || blowout.RosterID != 1 || blowout.Week != 3 {
		t.Errorf("blowout = margin %v roster %d week %d; want 100, 1, 3", blowout.Stats["margin"], blowout.RosterID, blowout.Week)
	}
	if blowout.OwnerID != "u1" {
		t.Errorf("blowout.OwnerID = %q, want u1", blowout.OwnerID)
	}
	if _, ok := find(got, KindClosestWin); ok {
		t.Errorf("Closest Win fired on the season's largest margin")
	}

	// A second, tighter game becomes the closest win.
	season.Weeks[4] = []models.MatchupEntry{e(4, 1, 1, 90), e(4, 2, 1, 95)}
	got = CalculateSeasonAwards(season, nil, DefaultThresholds())
	closest, ok := find(got, KindClosestWin)
	if !ok {
		t.Fatal("no Closest Win award")
	}
	if closest.RosterID != 2 || closest.Week != 4 || closest.Stats["margin"] != 5 {
		t.Errorf("closest = roster %d week %d margin %v", closest.RosterID, closest.Week, closest.Stats["margin"])
	}
}

func TestLuckAwards(t *testing.T) {
	// Roster 1 wins both games with the 3rd-best score; roster 3 loses both
	// games with the 2nd-best score.
	season := &models.SeasonData{
		Season:  models.Season{Season: "2024"},
		Rosters: rosters(4),
		Weeks: map[int][]models.MatchupEntry{
			1: {e(1, 1, 1, 80), e(1, 2, 1, 70), e(1, 3, 2, 90), e(1, 4, 2, 100)},
			2: {e(2, 1, 1, 80), e(2, 2, 1, 70), e(2, 3, 2, 90), e(2, 4, 2, 100)},
		},
	}

	got := CalculateSeasonAwards(season, nil, DefaultThresholds())

	lucky, ok := find(got, KindLuckiest)
	if !ok || lucky.RosterID != 1 {
		t.Fatalf("luckiest = %+v, %v; want roster 1", lucky, ok)
	}
	if math.Abs(lucky.Stats["differential"]-(1-1.0/3)) > 1e-9 {
		t.Errorf("luckiest differential = %v", lucky.Stats["differential"])
	}
	if lucky.Refs["record"] != "2-0" || lucky.Refs["all_play"] != "2-4" {
		t.Errorf("luckiest refs = %v", lucky.Refs)
	}

	unlucky, ok := find(got, KindUnluckiest)
	if !ok || unlucky.RosterID != 3 {
		t.Errorf("unluckiest = %+v, %v; want roster 3", unlucky, ok)
	}
}

func TestLuckNeedsSign(t *testing.T) {
	// Everyone's actual record matches their all-play record exactly.
	season := &models.SeasonData{
		Rosters: rosters(2),
		Weeks:   map[int][]models.MatchupEntry{1: {e(1, 1, 1, 100), e(1, 2, 1, 90)}},
	}
	got := CalculateSeasonAwards(season, nil, DefaultThresholds())
	if _, ok := find(got, KindLuckiest); ok {
		t.Errorf("Luckiest fired with zero differential")
	}
	if _, ok := find(got, KindUnluckiest); ok {
		t.Errorf("Unluckiest fired with zero differential")
	}
}

func tradeSeason(p1Later, p2Later float64) *models.SeasonData {
	return &models.SeasonData{
		Season:  models.Season{Season: "2024"},
		Rosters: rosters(2),
		Weeks: map[int][]models.MatchupEntry{
			1: {e(1, 1, 1, 50, "a"), e(1, 2, 1, 40, "b")},
			2: {e(2, 1, 1, p2Later, "b"), e(2, 2, 1, p1Later, "a")},
		},
		Trades: []models.Transaction{{
			ID: "t", Kind: models.KindTrade, Status: models.StatusComplete, Week: 1,
			Adds:      map[string]int{"a": 2, "b": 1},
			Drops:     map[string]int{"a": 1, "b": 2},
			RosterIDs: []int{1, 2},
		}},
	}
}

func TestBestTradeThreshold(t *testing.T) {
	players := map[string]models.Player{"a": {FullName: "Alpha"}, "b": {FullName: "Bravo"}}

	got := CalculateSeasonAwards(tradeSeason(40, 25), players, DefaultThresholds())
	trade, ok := find(got, KindBestTrade)
	if !ok {
		t.Fatal("no Best Trade award for a 15 point gap")
	}
	if trade.RosterID != 2 || trade.Refs["players"] != "Alpha" || trade.Stats["differential"] != 15 {
		t.Errorf("trade = roster %d players %q diff %v", trade.RosterID, trade.Refs["players"], trade.Stats["differential"])
	}
	if trade.Refs["loser_team"] != "1" {
		t.Errorf("loser_team = %q, want 1", trade.Refs["loser_team"])
	}

	got = CalculateSeasonAwards(tradeSeason(30, 25), players, DefaultThresholds())
	if _, ok := find(got, KindBestTrade); ok {
		t.Errorf("Best Trade fired on a 5 point gap")
	}

	got = CalculateSeasonAwards(tradeSeason(30, 25), players, Thresholds{TradeMargin: 2, WaiverPoints: 20})
	if _, ok := find(got, KindBestTrade); !ok {
		t.Errorf("Best Trade missing with a lowered margin")
	}
}

func TestBestWaiverThreshold(t *testing.T) {
	season := func(later float64) *models.SeasonData {
		return &models.SeasonData{
			Season:  models.Season{Season: "2024"},
			Rosters: rosters(2),
			Weeks: map[int][]models.MatchupEntry{
				2: {e(2, 1, 1, 99, "w"), e(2, 2, 1, 10)},
				3: {e(3, 1, 1, later, "w"), e(3, 2, 1, 10)},
			},
			Waivers: []models.Transaction{{
				Kind: models.KindWaiver, Status: models.StatusComplete, Week: 2,
				Adds: map[string]int{"w": 1},
			}},
		}
	}
	players := map[string]models.Player{"w": {FullName: "Wendell"}}

	got := CalculateSeasonAwards(season(25), players, DefaultThresholds())
	w, ok := find(got, KindBestWaiver)
	if !ok {
		t.Fatal("no Best Waiver award")
	}
	// Week 2 itself does not count.
	if w.Stats["points"] != 25 || w.Refs["player"] != "Wendell" || w.Week != 2 {
		t.Errorf("waiver = %v %q week %d", w.Stats["points"], w.Refs["player"], w.Week)
	}

	got = CalculateSeasonAwards(season(20), players, DefaultThresholds())
	if _, ok := find(got, KindBestWaiver); ok {
		t.Errorf("Best Waiver fired at exactly the threshold")
	}
}

func TestEmptySeasonHasNoAwards(t *testing.T) {
	if got := CalculateSeasonAwards(&models.SeasonData{}, nil, DefaultThresholds()); len(got) != 0 {
		t.Errorf("awards = %v, want none", got)
	}
	if got := CalculateSeasonAwards(nil, nil, DefaultThresholds()); len(got) != 0 {
		t.Errorf("nil season awards = %v, want none", got)
	}
	if got := CalculateAllTimeAwards(nil, nil); len(got) != 0 {
		t.Errorf("nil history awards = %v, want none", got)
	}
}

func TestAllTimeAwards(t *testing.T) {
	older := &models.SeasonData{
		Season:  models.Season{Season: "2023"},
		Rosters: []models.Roster{{RosterID: 1, OwnerID: "u1", Record: models.RosterRecord{PointsFor: 1500}}, {RosterID: 2, OwnerID: "u2"}},
		Weeks:   map[int][]models.MatchupEntry{1: {e(1, 1, 1, 160, "x"), e(1, 2, 1, 40)}},
	}
	newer := &models.SeasonData{
		Season:  models.Season{Season: "2024"},
		Rosters: []models.Roster{{RosterID: 5, OwnerID: "u2", Record: models.RosterRecord{PointsFor: 1400}}, {RosterID: 6, OwnerID: "u1"}},
		Weeks:   map[int][]models.MatchupEntry{1: {e(1, 5, 1, 160, "y"), e(1, 6, 1, 100)}},
	}
	h := &models.LeagueHistory{Seasons: []*models.SeasonData{newer, older}}

	got := CalculateAllTimeAwards(h, map[string]models.Player{"x": {FullName: "Xavier", Position: "QB"}})

	high, ok := find(got, KindAllTimeHighScore)
	if !ok || high.Season != "2023" || high.OwnerID != "u1" {
		t.Errorf("high = %+v, want first-seen 2023 u1", high)
	}
	low, ok := find(got, KindAllTimeLowScore)
	if !ok || low.Stats["points"] != 40 {
		t.Errorf("low = %+v", low)
	}
	pf, ok := find(got, KindAllTimeSeasonPoints)
	if !ok || pf.OwnerID != "u1" || pf.Stats["points"] != 1500 {
		t.Errorf("season points = %+v", pf)
	}
	blow, ok := find(got, KindAllTimeBlowout)
	if !ok || blow.Stats["margin"] != 120 || blow.Refs["season"] != "2023" {
		t.Errorf("blowout = %+v", blow)
	}
	ps, ok := find(got, KindAllTimePlayerSeason)
	if !ok || ps.Refs["player"] != "Xavier" {
		t.Errorf("player season = %+v", ps)
	}
}

func TestRender(t *testing.T) {
	a := Award{
		Season:   "2024",
		Week:     3,
		Template: "Destroyed {loser_team} in week {week} by {margin} points with {player}",
		Stats:    map[string]float64{"margin": 100},
		Refs:     map[string]string{"loser_team": "2", "player": "Alpha"},
	}

	got := a.Render(func(season string, rosterID int) string {
		return season + "-team-" + strconv.Itoa(rosterID)
	})
	want := "Destroyed 2024-team-2 in week 3 by 100.00 points with Alpha"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}
