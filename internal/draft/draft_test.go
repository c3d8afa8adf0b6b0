package draft

import (
	"math"
	"testing"

	"github.com/omarshaarawi/sleeperstats/internal/models"
	"github.com/omarshaarawi/sleeperstats/internal/ownership"
	"github.com/omarshaarawi/sleeperstats/internal/scoring"
)

// fixture: 2 teams, 3 rounds, snake. RBs r1..r3, WRs w1..w2, QB q1.
func fixture() Input {
	players := map[string]models.Player{
		"r1": {PlayerID: "r1", FullName: "Run One", Position: "RB"},
		"r2": {PlayerID: "r2", FullName: "Run Two", Position: "RB"},
		"r3": {PlayerID: "r3", FullName: "Run Three", Position: "RB"},
		"w1": {PlayerID: "w1", FullName: "Wide One", Position: "WR"},
		"w2": {PlayerID: "w2", FullName: "Wide Two", Position: "WR"},
		"q1": {PlayerID: "q1", FullName: "Quarter One", Position: "QB"},
		"fa": {PlayerID: "fa", FullName: "Free Agent", Position: "RB"},
	}
	picks := []models.DraftPick{
		{PickNo: 1, RosterID: 1, PlayerID: "r1"},
		{PickNo: 2, RosterID: 2, PlayerID: "w1"},
		{PickNo: 3, RosterID: 2, PlayerID: "r2"},
		{PickNo: 4, RosterID: 1, PlayerID: "w2"},
		{PickNo: 5, RosterID: 1, PlayerID: "r3"},
		{PickNo: 6, RosterID: 2, PlayerID: "q1"},
	}

	e := func(w, roster int, starters []string, pts []float64) models.MatchupEntry {
		return models.MatchupEntry{RosterID: roster, MatchupID: 1, Week: w, Points: 1, Starters: starters, StartersPoints: pts}
	}
	season := &models.SeasonData{Weeks: map[int][]models.MatchupEntry{
		1: {e(1, 1, []string{"r1", "w2", "r3"}, []float64{10, 20, 30}), e(1, 2, []string{"w1", "r2", "q1"}, []float64{15, 5, 25})},
		2: {e(2, 1, []string{"r1", "w2", "r3"}, []float64{12, 18, 40}), e(2, 2, []string{"w1", "r2", "fa"}, []float64{14, 6, 50})},
		3: {e(3, 1, []string{"r1", "w2"}, []float64{8, 0}), e(3, 2, []string{"w1", "r3"}, []float64{10, 100})},
	}}
	tracker := ownership.NewTracker(
		[]models.Transaction{{Kind: models.KindTrade, Status: models.StatusComplete, Week: 3,
			Adds: map[string]int{"r3": 2}, Drops: map[string]int{"r3": 1}}},
		[]models.Transaction{{Kind: models.KindWaiver, Status: models.StatusComplete, Week: 2,
			Adds: map[string]int{"fa": 2}, Drops: map[string]int{"q1": 2}}},
	)

	return Input{
		Picks:       picks,
		Players:     players,
		Accumulator: scoring.NewAccumulator(season, tracker),
		Tracker:     tracker,
	}
}

func byPlayer(ratings []PickRating) map[string]PickRating {
	out := make(map[string]PickRating)
	for _, r := range ratings {
		out[r.PlayerID] = r
	}
	return out
}

func TestRatePicksCohortSumsToZero(t *testing.T) {
	ratings := RatePicks(fixture())
	if len(ratings) != 6 {
		t.Fatalf("len(ratings) = %d, want 6", len(ratings))
	}

	sums := make(map[string]float64)
	for _, r := range ratings {
		sums[r.Position] += r.PointsAboveExpectation
	}
	for pos, sum := range sums {
		if math.Abs(sum) > 1e-9 {
			t.Errorf("PAR sum for %s = %v, want 0", pos, sum)
		}
	}
}

func TestRatePicksFields(t *testing.T) {
	got := byPlayer(RatePicks(fixture()))

	r3 := got["r3"]
	if r3.DraftPositionRank != 3 {
		t.Errorf("r3.DraftPositionRank = %d, want 3", r3.DraftPositionRank)
	}
	// r3 scored 70 for roster 1 before the week 3 trade; 100 later for roster 2.
	if r3.ActualPoints != 70 {
		t.Errorf("r3.ActualPoints = %v, want 70", r3.ActualPoints)
	}
	if r3.Status != StatusTraded || r3.StatusWeek != 3 {
		t.Errorf("r3 status = %s week %d, want traded week 3", r3.Status, r3.StatusWeek)
	}
	// RB totals: r3 170, fa 50, r1 30, r2 11.
	if r3.SeasonPositionRank != 1 {
		t.Errorf("r3.SeasonPositionRank = %d, want 1", r3.SeasonPositionRank)
	}
	if got["r2"].SeasonPositionRank != 4 {
		t.Errorf("r2.SeasonPositionRank = %d, want 4", got["r2"].SeasonPositionRank)
	}

	q1 := got["q1"]
	if q1.Status != StatusDropped || q1.StatusWeek != 2 {
		t.Errorf("q1 status = %s week %d, want dropped week 2", q1.Status, q1.StatusWeek)
	}
	if q1.ExpectedPoints != q1.ActualPoints || q1.PointsAboveExpectation != 0 {
		t.Errorf("single-pick cohort: expected %v actual %v", q1.ExpectedPoints, q1.ActualPoints)
	}

	if got["w1"].Round != 1 || got["w2"].Round != 2 || got["q1"].Round != 3 {
		t.Errorf("derived rounds = %d %d %d, want 1 2 3", got["w1"].Round, got["w2"].Round, got["q1"].Round)
	}
}

func TestRatePicksEvalWeek(t *testing.T) {
	in := fixture()
	in.EvalWeek = 1
	got := byPlayer(RatePicks(in))

	if got["r3"].ActualPoints != 30 {
		t.Errorf("r3.ActualPoints through week 1 = %v, want 30", got["r3"].ActualPoints)
	}
}

func TestRate(t *testing.T) {
	tests := []struct {
		par       float64
		wantTier  Tier
		wantLabel string
	}{
		{75, TierElite, "+75 Elite"},
		{50, TierElite, "+50 Elite"},
		{49.6, TierGood, "+50 Good"},
		{20, TierGood, "+20 Good"},
		{5, TierAverage, "+5"},
		{-10, TierAverage, "-10"},
		{-10.6, TierPoor, "-11 Poor"},
		{-30, TierPoor, "-30 Poor"},
		{-31, TierBust, "-31 Bust"},
	}

	for _, tt := range tests {
		tier, label := Rate(tt.par)
		if tier != tt.wantTier || label != tt.wantLabel {
			t.Errorf("Rate(%v) = %s, %q; want %s, %q", tt.par, tier, label, tt.wantTier, tt.wantLabel)
		}
	}
}

func TestGradeTeams(t *testing.T) {
	ratings := []PickRating{
		{RosterID: 1, Position: "RB", PointsAboveExpectation: 100, Status: StatusActive},
		{RosterID: 1, Position: "RB", PointsAboveExpectation: 0, Status: StatusActive},
		{RosterID: 1, Position: "RB", PointsAboveExpectation: -500, Status: StatusActive},
		{RosterID: 2, Position: "QB", PointsAboveExpectation: 400, Status: StatusTraded},
	}

	grades := GradeTeams(ratings)
	if len(grades) != 2 {
		t.Fatalf("len(grades) = %d, want 2", len(grades))
	}

	// Roster 1: top two RBs average 50, weighted 17.5 -> (67.5/150)*100 = 45.
	g := grades[0]
	if g.RosterID != 1 || math.Abs(g.Score-45) > 1e-9 || g.Letter != "D" {
		t.Errorf("grades[0] = roster %d score %v %s, want roster 1 45 D", g.RosterID, g.Score, g.Letter)
	}
	// Roster 2's only pick was traded, so nothing counts.
	if math.Abs(grades[1].Score-100.0/3) > 1e-9 || grades[1].Letter != "F" {
		t.Errorf("grades[1] = %v %s, want 33.3 F", grades[1].Score, grades[1].Letter)
	}
}

func TestBestAndWorstByPosition(t *testing.T) {
	ratings := RatePicks(fixture())

	best := BestByPosition(ratings)
	if len(best) != 3 {
		t.Fatalf("len(best) = %d, want 3 (no TE)", len(best))
	}
	if best[0].Position != "QB" || best[1].Position != "RB" || best[2].Position != "WR" {
		t.Errorf("positions = %s %s %s", best[0].Position, best[1].Position, best[2].Position)
	}

	worst := WorstByPosition(ratings)
	for i := range worst {
		if worst[i].PointsAboveExpectation > best[i].PointsAboveExpectation {
			t.Errorf("%s worst PAR %v above best %v", worst[i].Position, worst[i].PointsAboveExpectation, best[i].PointsAboveExpectation)
		}
	}

	top, ok := Best(ratings)
	if !ok {
		t.Fatal("Best found nothing")
	}
	for _, r := range ratings {
		if r.PointsAboveExpectation > top.PointsAboveExpectation {
			t.Errorf("Best = %s (%v) but %s has %v", top.PlayerID, top.PointsAboveExpectation, r.PlayerID, r.PointsAboveExpectation)
		}
	}
}

func TestBuildBoardSnake(t *testing.T) {
	in := fixture()
	b := BuildBoard(in.Picks, RatePicks(in))

	if !b.Snake {
		t.Errorf("Snake = false, want true")
	}
	if b.Rounds != 3 || len(b.Teams) != 2 || b.Teams[0] != 1 {
		t.Fatalf("board = %d rounds, teams %v", b.Rounds, b.Teams)
	}

	row := b.Row(2)
	if row[0].Pick.PickNo != 3 || row[1].Pick.PickNo != 4 {
		t.Errorf("round 2 order = %d, %d; want 3, 4", row[0].Pick.PickNo, row[1].Pick.PickNo)
	}
	if !row[0].Rated || row[0].Rating.PlayerID != "r2" {
		t.Errorf("round 2 first cell = %+v", row[0])
	}

	if got := BuildBoard(nil, nil); got.Rounds != 0 {
		t.Errorf("empty board rounds = %d", got.Rounds)
	}
}
