package stats

import (
	"testing"

	"github.com/omarshaarawi/sleeperstats/internal/models"
)

func game(week, matchupID, a int, pa float64, b int, pb float64) []models.MatchupEntry {
	return []models.MatchupEntry{
		{RosterID: a, MatchupID: matchupID, Week: week, Points: pa},
		{RosterID: b, MatchupID: matchupID, Week: week, Points: pb},
	}
}

func weekOf(games ...[]models.MatchupEntry) []models.MatchupEntry {
	var out []models.MatchupEntry
	for _, g := range games {
		out = append(out, g...)
	}
	return out
}

// season builds four owners a..d on rosters 1..4 with two regular weeks and
// a two-round bracket from week 3. Only the final at week 5 is filled in:
// 1 beats 2 for the title, 4 beats 3 for third.
func season(label string) *models.SeasonData {
	return &models.SeasonData{
		Season: models.Season{Season: label, Settings: models.SeasonSettings{PlayoffWeekStart: 3, PlayoffRoundType: 2}},
		Rosters: []models.Roster{
			{RosterID: 1, OwnerID: "a"},
			{RosterID: 2, OwnerID: "b"},
			{RosterID: 3, OwnerID: "c"},
			{RosterID: 4, OwnerID: "d"},
		},
		Weeks: map[int][]models.MatchupEntry{
			1: weekOf(game(1, 1, 1, 100, 2, 90), game(1, 2, 3, 80, 4, 70)),
			2: weekOf(game(2, 1, 1, 100, 3, 90), game(2, 2, 2, 80, 4, 70)),
			5: weekOf(game(5, 1, 1, 120, 2, 110), game(5, 2, 3, 95, 4, 99.5)),
		},
	}
}

func byOwner(records []ManagerRecord) map[string]ManagerRecord {
	out := make(map[string]ManagerRecord, len(records))
	for _, r := range records {
		out[r.OwnerID] = r
	}
	return out
}

func lineage(seasons ...*models.SeasonData) *models.LeagueHistory {
	return &models.LeagueHistory{LeagueID: "L", Seasons: seasons}
}

func TestReduceSingleSeason(t *testing.T) {
	got := ReduceManagerHistory(lineage(season("2024")), "", nil)
	if len(got) != 4 {
		t.Fatalf("len = %d, want 4", len(got))
	}
	if got[0].OwnerID != "a" {
		t.Errorf("first = %q, want champion a", got[0].OwnerID)
	}

	recs := byOwner(got)
	a, b, d := recs["a"], recs["b"], recs["d"]
	if a.Wins != 2 || a.Losses != 0 || a.Championships != 1 || a.PlayoffWins != 1 {
		t.Errorf("a = %+v", a)
	}
	if b.SecondPlace != 1 || b.Wins != 1 || b.Losses != 1 {
		t.Errorf("b = %+v", b)
	}
	if d.ThirdPlace != 1 || d.Wins != 0 || d.Losses != 2 || d.PlayoffWins != 1 {
		t.Errorf("d = %+v", d)
	}
	if a.PointsFor != 200 || a.Seasons != 1 {
		t.Errorf("a points/seasons = %v/%d", a.PointsFor, a.Seasons)
	}
}

func TestReduceWinsEqualLosses(t *testing.T) {
	got := ReduceManagerHistory(lineage(season("2024"), season("2023")), AllSeasons, nil)

	wins, losses := 0, 0
	for _, r := range got {
		wins += r.Wins
		losses += r.Losses
	}
	// Two regular weeks, four rosters, two seasons.
	if wins != losses || wins != 2*2*4/2 {
		t.Errorf("wins = %d, losses = %d, want 8 each", wins, losses)
	}
}

func TestReduceSeasonFilter(t *testing.T) {
	s23 := season("2023")
	s23.Weeks[5] = weekOf(game(5, 1, 2, 130, 1, 100), game(5, 2, 3, 95, 4, 90))

	got := byOwner(ReduceManagerHistory(lineage(season("2024"), s23), "2023", nil))
	if got["b"].Championships != 1 || got["a"].Championships != 0 {
		t.Errorf("2023 titles: a=%d b=%d", got["a"].Championships, got["b"].Championships)
	}

	all := byOwner(ReduceManagerHistory(lineage(season("2024"), s23), "all", nil))
	if all["a"].Championships != 1 || all["b"].Championships != 1 || all["a"].Seasons != 2 {
		t.Errorf("all titles: a=%+v b=%+v", all["a"], all["b"])
	}
}

func TestReduceExclusionIsScopedToOwnerAndSeason(t *testing.T) {
	h := lineage(season("2023"), season("2022"), season("2021"))

	base := byOwner(ReduceManagerHistory(h, "", nil))
	excluded := byOwner(ReduceManagerHistory(h, "", Exclusions{"a": {"2022"}}))

	perSeason := func(season string, ex Exclusions) map[string]ManagerRecord {
		return byOwner(ReduceManagerHistory(h, season, ex))
	}

	// a loses exactly one season's worth.
	a22 := perSeason("2022", nil)["a"]
	want := base["a"]
	want.Seasons -= a22.Seasons
	want.Wins -= a22.Wins
	want.Losses -= a22.Losses
	want.PointsFor -= a22.PointsFor
	want.PlayoffWins -= a22.PlayoffWins
	want.Championships -= a22.Championships
	if excluded["a"] != want {
		t.Errorf("a with 2022 excluded = %+v, want %+v", excluded["a"], want)
	}

	if _, ok := perSeason("2022", Exclusions{"a": {"2022"}})["a"]; ok {
		t.Errorf("a still present in 2022")
	}
	for _, s := range []string{"2021", "2023"} {
		if perSeason(s, Exclusions{"a": {"2022"}})["a"] != perSeason(s, nil)["a"] {
			t.Errorf("a's %s record changed", s)
		}
	}
	// Opponents keep everything, including results against a.
	for _, o := range []string{"b", "c", "d"} {
		if excluded[o] != base[o] {
			t.Errorf("%s changed: %+v vs %+v", o, excluded[o], base[o])
		}
	}
}

func TestReducePodiumNeedsTwoEntries(t *testing.T) {
	s := season("2024")
	s.Weeks[5] = append(s.Weeks[5], models.MatchupEntry{RosterID: 5, MatchupID: 1, Week: 5, Points: 200})

	got := byOwner(ReduceManagerHistory(lineage(s), "", nil))
	if got["a"].Championships != 0 || got["b"].SecondPlace != 0 {
		t.Errorf("title awarded from a malformed final: a=%+v b=%+v", got["a"], got["b"])
	}
	if got["c"].ThirdPlace != 0 || got["d"].ThirdPlace != 1 {
		t.Errorf("third place = c %d d %d", got["c"].ThirdPlace, got["d"].ThirdPlace)
	}
}

func TestReducePodiumWaitsForFinalWeek(t *testing.T) {
	s := season("2024")
	delete(s.Weeks, 5)
	s.Weeks[3] = weekOf(game(3, 1, 1, 120, 2, 110), game(3, 2, 3, 95, 4, 99.5))

	got := byOwner(ReduceManagerHistory(lineage(s), "", nil))
	for _, id := range []string{"a", "b", "c", "d"} {
		r := got[id]
		if r.Championships != 0 || r.SecondPlace != 0 || r.ThirdPlace != 0 {
			t.Errorf("%s credited a podium before the final: %+v", id, r)
		}
	}
	if got["a"].PlayoffWins != 1 || got["d"].PlayoffWins != 1 {
		t.Errorf("first round wins = a %d d %d, want 1 each", got["a"].PlayoffWins, got["d"].PlayoffWins)
	}

	s.Weeks[5] = weekOf(game(5, 1, 1, 130, 4, 100), game(5, 2, 2, 90, 3, 80))
	got = byOwner(ReduceManagerHistory(lineage(s), "", nil))
	if got["a"].Championships != 1 || got["d"].SecondPlace != 1 || got["b"].ThirdPlace != 1 {
		t.Errorf("podium after the final: a=%+v d=%+v b=%+v", got["a"], got["d"], got["b"])
	}
}

func TestReduceWithoutPlayoffStart(t *testing.T) {
	s := season("2024")
	s.Season.Settings.PlayoffWeekStart = 0

	got := byOwner(ReduceManagerHistory(lineage(s), "", nil))
	if got["a"].Wins != 3 || got["a"].Championships != 0 || got["a"].PlayoffWins != 0 {
		t.Errorf("a = %+v, want 3 regular wins and no playoffs", got["a"])
	}
}

func TestReduceNilHistory(t *testing.T) {
	if got := ReduceManagerHistory(nil, "", nil); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
