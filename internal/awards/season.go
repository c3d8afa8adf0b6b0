package awards

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/omarshaarawi/sleeperstats/internal/draft"
	"github.com/omarshaarawi/sleeperstats/internal/models"
	"github.com/omarshaarawi/sleeperstats/internal/ownership"
	"github.com/omarshaarawi/sleeperstats/internal/rankings"
	"github.com/omarshaarawi/sleeperstats/internal/scoring"
)

type Thresholds struct {
	// TradeMargin is the minimum point gap for a Best Trade award.
	TradeMargin float64
	// WaiverPoints is the minimum post-claim output for a Best Waiver award.
	WaiverPoints float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{TradeMargin: 10, WaiverPoints: 20}
}

// pairing is two entries sharing a matchup id in one week.
type pairing struct {
	week      int
	matchupID int
	a, b      models.MatchupEntry
}

func (p pairing) margin() float64 {
	return math.Abs(p.a.Points - p.b.Points)
}

// winner returns the higher scorer first. Equal scores favour b.
func (p pairing) winner() (models.MatchupEntry, models.MatchupEntry) {
	if p.a.Points > p.b.Points {
		return p.a, p.b
	}
	return p.b, p.a
}

// pairings lists every complete head-to-head, weeks ascending then matchup
// id. Matchups without exactly two entries are skipped.
func pairings(season *models.SeasonData) []pairing {
	var out []pairing
	for _, w := range season.SortedWeeks() {
		groups := make(map[int][]models.MatchupEntry)
		for _, e := range season.Weeks[w] {
			if e.MatchupID > 0 {
				groups[e.MatchupID] = append(groups[e.MatchupID], e)
			}
		}
		ids := make([]int, 0, len(groups))
		for id := range groups {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		for _, id := range ids {
			if g := groups[id]; len(g) == 2 {
				out = append(out, pairing{week: w, matchupID: id, a: g[0], b: g[1]})
			}
		}
	}
	return out
}

type seasonContext struct {
	season  *models.SeasonData
	players map[string]models.Player
	tracker *ownership.Tracker
	acc     *scoring.Accumulator
}

func newSeasonContext(season *models.SeasonData, players map[string]models.Player) *seasonContext {
	tracker := ownership.NewTracker(season.Trades, season.Waivers)
	return &seasonContext{
		season:  season,
		players: players,
		tracker: tracker,
		acc:     scoring.NewAccumulator(season, tracker),
	}
}

func (c *seasonContext) award(kind Kind, title string, rosterID, week int, template string) Award {
	a := Award{
		Kind:     kind,
		Title:    title,
		Season:   c.season.Season.Season,
		RosterID: rosterID,
		Week:     week,
		Template: template,
		Stats:    make(map[string]float64),
		Refs:     make(map[string]string),
	}
	if r, ok := c.season.Roster(rosterID); ok {
		a.OwnerID = r.OwnerID
	}
	return a
}

func (c *seasonContext) playerName(id string) string {
	if p, ok := c.players[id]; ok && p.FullName != "" {
		return p.FullName
	}
	return "Unknown"
}

// CalculateSeasonAwards scans one season. Awards without a qualifying
// candidate are left out.
func CalculateSeasonAwards(season *models.SeasonData, players map[string]models.Player, th Thresholds) []Award {
	if season == nil || len(season.Weeks) == 0 {
		return nil
	}
	c := newSeasonContext(season, players)
	pairs := pairings(season)

	var out []Award
	blowout, hasBlowout := c.biggestBlowout(pairs)
	if hasBlowout {
		out = append(out, blowout.award)
	}
	if a, ok := c.closestWin(pairs, blowout, hasBlowout); ok {
		out = append(out, a)
	}
	out = append(out, c.luck(pairs)...)
	if a, ok := c.bestTrade(th.TradeMargin); ok {
		out = append(out, a)
	}
	if a, ok := c.bestWaiver(th.WaiverPoints); ok {
		out = append(out, a)
	}
	if a, ok := c.draftSteal(); ok {
		out = append(out, a)
	}
	if a, ok := c.weeklyExtreme(pairs, true); ok {
		out = append(out, a)
	}
	if a, ok := c.weeklyExtreme(pairs, false); ok {
		out = append(out, a)
	}
	if a, ok := c.topScoringTeam(); ok {
		out = append(out, a)
	}
	if a, ok := c.bestPositionalSeason(); ok {
		out = append(out, a)
	}
	return out
}

type blowoutResult struct {
	award  Award
	pair   pairing
	margin float64
}

func (c *seasonContext) biggestBlowout(pairs []pairing) (blowoutResult, bool) {
	var best *pairing
	for i := range pairs {
		p := &pairs[i]
		if m := p.margin(); m > 0 && (best == nil || m > best.margin()) {
			best = p
		}
	}
	if best == nil {
		return blowoutResult{}, false
	}

	win, lose := best.winner()
	a := c.award(KindBiggestBlowout, "Biggest Blowout", win.RosterID, best.week,
		"Destroyed {loser_team} in week {week} by {margin} points ({winner_score} - {loser_score})")
	a.Stats["margin"] = best.margin()
	a.Stats["winner_score"] = win.Points
	a.Stats["loser_score"] = lose.Points
	a.Refs["loser_team"] = strconv.Itoa(lose.RosterID)

	return blowoutResult{award: a, pair: *best, margin: best.margin()}, true
}

// closestWin never repeats the blowout pair and needs a margin strictly
// below the blowout's.
func (c *seasonContext) closestWin(pairs []pairing, blowout blowoutResult, hasBlowout bool) (Award, bool) {
	var best *pairing
	for i := range pairs {
		p := &pairs[i]
		m := p.margin()
		if m <= 0 {
			continue
		}
		if hasBlowout && ((p.week == blowout.pair.week && p.matchupID == blowout.pair.matchupID) || m >= blowout.margin) {
			continue
		}
		if best == nil || m < best.margin() {
			best = p
		}
	}
	if best == nil {
		return Award{}, false
	}

	win, lose := best.winner()
	a := c.award(KindClosestWin, "Closest Win", win.RosterID, best.week,
		"Escaped {loser_team} in week {week} by just {margin} points ({winner_score} - {loser_score})")
	a.Stats["margin"] = best.margin()
	a.Stats["winner_score"] = win.Points
	a.Stats["loser_score"] = lose.Points
	a.Refs["loser_team"] = strconv.Itoa(lose.RosterID)
	return a, true
}

type record struct {
	wins, losses int
}

func (r record) pct() (float64, bool) {
	if r.wins+r.losses == 0 {
		return 0, false
	}
	return float64(r.wins) / float64(r.wins+r.losses), true
}

// luck compares actual head-to-head win% with full-season all-play win%.
func (c *seasonContext) luck(pairs []pairing) []Award {
	actual := make(map[int]record)
	for _, p := range pairs {
		ra, rb := actual[p.a.RosterID], actual[p.b.RosterID]
		switch {
		case p.a.Points > p.b.Points:
			ra.wins++
			rb.losses++
		case p.a.Points < p.b.Points:
			ra.losses++
			rb.wins++
		}
		actual[p.a.RosterID], actual[p.b.RosterID] = ra, rb
	}

	ids := c.season.RosterIDs()
	allPlay := rankings.AllPlayRecords(ids, c.season.Weeks, 0)

	type luckRow struct {
		rosterID int
		diff     float64
		actual   record
		allPlay  rankings.AllPlayRecord
	}
	var rows []luckRow
	for _, id := range ids {
		act, ok := actual[id].pct()
		if !ok {
			continue
		}
		ap, ok := allPlay[id].WinPct()
		if !ok {
			continue
		}
		rows = append(rows, luckRow{id, act - ap, actual[id], allPlay[id]})
	}
	if len(rows) == 0 {
		return nil
	}

	lucky, unlucky := rows[0], rows[0]
	for _, r := range rows[1:] {
		if r.diff > lucky.diff {
			lucky = r
		}
		if r.diff < unlucky.diff {
			unlucky = r
		}
	}

	var out []Award
	build := func(kind Kind, title, tmpl string, r luckRow) Award {
		a := c.award(kind, title, r.rosterID, 0, tmpl)
		a.Stats["differential"] = r.diff
		a.Refs["record"] = strconv.Itoa(r.actual.wins) + "-" + strconv.Itoa(r.actual.losses)
		a.Refs["all_play"] = strconv.Itoa(r.allPlay.Wins) + "-" + strconv.Itoa(r.allPlay.Losses)
		return a
	}
	if lucky.diff > 0 {
		out = append(out, build(KindLuckiest, "Luckiest Manager",
			"Went {record} despite an all-play record of {all_play}. Caught all the right breaks.", lucky))
	}
	if unlucky.diff < 0 {
		out = append(out, build(KindUnluckiest, "Unluckiest Manager",
			"Went {record} despite an all-play record of {all_play}. Tough schedule.", unlucky))
	}
	return out
}

// bestTrade scores two-roster trades by what each side's incoming players
// scored in its starting lineup after the trade week.
func (c *seasonContext) bestTrade(minMargin float64) (Award, bool) {
	type result struct {
		week                int
		winner, loser       int
		winnerPts, loserPts float64
		players             []string
		diff                float64
	}
	var best *result

	for _, tx := range c.season.Trades {
		if !tx.Complete() {
			continue
		}
		sides := distinct(tx.RosterIDs)
		if len(sides) != 2 {
			continue
		}
		if _, ok := c.season.Roster(sides[0]); !ok {
			continue
		}
		if _, ok := c.season.Roster(sides[1]); !ok {
			continue
		}

		points := [2]float64{}
		acquired := [2][]string{}
		for _, pid := range sortedKeys(tx.Adds) {
			for i, side := range sides {
				if tx.Adds[pid] == side {
					acquired[i] = append(acquired[i], pid)
					points[i] += c.acc.PointsAfter(pid, side, tx.Week)
				}
			}
		}

		diff := points[0] - points[1]
		if best != nil && math.Abs(diff) <= math.Abs(best.diff) {
			continue
		}
		w, l := 0, 1
		if diff <= 0 {
			w, l = 1, 0
		}
		best = &result{
			week: tx.Week, winner: sides[w], loser: sides[l],
			winnerPts: points[w], loserPts: points[l],
			players: acquired[w], diff: diff,
		}
	}

	if best == nil || math.Abs(best.diff) <= minMargin {
		return Award{}, false
	}

	names := make([]string, len(best.players))
	for i, pid := range best.players {
		names[i] = c.playerName(pid)
	}
	a := c.award(KindBestTrade, "Best Trade", best.winner, best.week,
		"Acquired {players} in week {week} and got {winner_points} points from them versus {loser_points} for {loser_team}")
	a.Stats["winner_points"] = best.winnerPts
	a.Stats["loser_points"] = best.loserPts
	a.Stats["differential"] = math.Abs(best.diff)
	a.Refs["players"] = strings.Join(names, ", ")
	a.Refs["loser_team"] = strconv.Itoa(best.loser)
	return a, true
}

func (c *seasonContext) bestWaiver(minPoints float64) (Award, bool) {
	var (
		bestPts    float64
		bestPlayer string
		bestRoster int
		bestWeek   int
	)

	for _, tx := range c.season.Waivers {
		if !tx.Complete() {
			continue
		}
		for _, pid := range sortedKeys(tx.Adds) {
			to := tx.Adds[pid]
			if _, ok := c.season.Roster(to); !ok {
				continue
			}
			pts := c.acc.PointsAfter(pid, to, tx.Week)
			if pts > bestPts {
				bestPts, bestPlayer, bestRoster, bestWeek = pts, pid, to, tx.Week
			}
		}
	}

	if bestPlayer == "" || bestPts <= minPoints {
		return Award{}, false
	}

	a := c.award(KindBestWaiver, "Best Waiver Pickup", bestRoster, bestWeek,
		"Picked up {player} in week {week}, who went on to score {points} points in the starting lineup")
	a.Stats["points"] = bestPts
	a.Refs["player"] = c.playerName(bestPlayer)
	a.Refs["player_id"] = bestPlayer
	return a, true
}

// draftSteal uses the same points-above-expectation definition as the
// draft report.
func (c *seasonContext) draftSteal() (Award, bool) {
	if !c.season.HasDraft {
		return Award{}, false
	}
	ratings := draft.RatePicks(draft.Input{
		Picks:       c.season.DraftPicks,
		Players:     c.players,
		Accumulator: c.acc,
		Tracker:     c.tracker,
	})
	best, ok := draft.Best(ratings)
	if !ok || best.PointsAboveExpectation <= 0 {
		return Award{}, false
	}

	a := c.award(KindDraftSteal, "Best Draft Steal", best.RosterID, 0,
		"Drafted {player} as the #{draft_rank} {position} (pick {pick}), who scored {points} points against {expected} expected")
	a.Stats["points"] = best.ActualPoints
	a.Stats["expected"] = best.ExpectedPoints
	a.Stats["par"] = best.PointsAboveExpectation
	a.Refs["player"] = best.PlayerName
	a.Refs["position"] = best.Position
	a.Refs["draft_rank"] = strconv.Itoa(best.DraftPositionRank)
	a.Refs["pick"] = strconv.Itoa(best.PickNo)
	return a, true
}

func (c *seasonContext) weeklyExtreme(pairs []pairing, high bool) (Award, bool) {
	var best *models.MatchupEntry
	for i := range pairs {
		for _, e := range []*models.MatchupEntry{&pairs[i].a, &pairs[i].b} {
			if best == nil || (high && e.Points > best.Points) || (!high && e.Points < best.Points) {
				best = e
			}
		}
	}
	if best == nil {
		return Award{}, false
	}

	kind, title, tmpl := KindHighScore, "Weekly High Score", "Put up {points} points in week {week}"
	if !high {
		kind, title, tmpl = KindLowScore, "Weekly Low Score", "Managed only {points} points in week {week}"
	}
	a := c.award(kind, title, best.RosterID, best.Week, tmpl)
	a.Stats["points"] = best.Points
	return a, true
}

func (c *seasonContext) topScoringTeam() (Award, bool) {
	var best *models.Roster
	for i := range c.season.Rosters {
		r := &c.season.Rosters[i]
		if best == nil || r.Record.PointsFor > best.Record.PointsFor {
			best = r
		}
	}
	if best == nil || best.Record.PointsFor <= 0 {
		return Award{}, false
	}

	a := c.award(KindTopScoringTeam, "Top Scoring Team", best.RosterID, 0,
		"Scored {points} points over the season")
	a.Stats["points"] = best.Record.PointsFor
	return a, true
}

// bestPositionalSeason credits the roster that got the most out of the
// season's top starter.
func (c *seasonContext) bestPositionalSeason() (Award, bool) {
	tally := c.acc.Tally(0)

	var bestPlayer string
	var bestPts float64
	for _, pid := range tally.Players() {
		if pts := tally.Total(pid); pts > bestPts {
			bestPlayer, bestPts = pid, pts
		}
	}
	if bestPlayer == "" {
		return Award{}, false
	}

	rosterID, rosterPts := 0, 0.0
	for _, id := range c.season.RosterIDs() {
		if pts := tally.For(bestPlayer, id); pts > rosterPts {
			rosterID, rosterPts = id, pts
		}
	}

	a := c.award(KindBestPositionSeason, "Best Positional Season", rosterID, 0,
		"{player} ({position}) scored {points} points as a starter")
	a.Stats["points"] = bestPts
	a.Stats["roster_points"] = rosterPts
	a.Refs["player"] = c.playerName(bestPlayer)
	a.Refs["position"] = c.players[bestPlayer].Position
	a.Refs["player_id"] = bestPlayer
	return a, true
}

func distinct(ids []int) []int {
	var out []int
	seen := make(map[int]bool)
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
