package awards

import "github.com/omarshaarawi/sleeperstats/internal/models"

// CalculateAllTimeAwards folds every season of the history. Seasons are
// scanned oldest first so ties keep the earliest record.
func CalculateAllTimeAwards(history *models.LeagueHistory, players map[string]models.Player) []Award {
	if history == nil || len(history.Seasons) == 0 {
		return nil
	}

	type weekly struct {
		ctx   *seasonContext
		entry models.MatchupEntry
	}
	var (
		high, low     *weekly
		blowout       *blowoutResult
		blowoutCtx    *seasonContext
		seasonPF      *models.Roster
		seasonPFCtx   *seasonContext
		playerSeason  *Award
		playerSeasonP float64
	)

	for i := len(history.Seasons) - 1; i >= 0; i-- {
		season := history.Seasons[i]
		if len(season.Weeks) == 0 {
			continue
		}
		c := newSeasonContext(season, players)
		pairs := pairings(season)

		for _, p := range pairs {
			for _, e := range []models.MatchupEntry{p.a, p.b} {
				if high == nil || e.Points > high.entry.Points {
					high = &weekly{c, e}
				}
				if low == nil || e.Points < low.entry.Points {
					low = &weekly{c, e}
				}
			}
		}

		if b, ok := c.biggestBlowout(pairs); ok && (blowout == nil || b.margin > blowout.margin) {
			blowout, blowoutCtx = &b, c
		}

		for j := range season.Rosters {
			r := &season.Rosters[j]
			if r.OwnerID == "" {
				continue
			}
			if seasonPF == nil || r.Record.PointsFor > seasonPF.Record.PointsFor {
				seasonPF, seasonPFCtx = r, c
			}
		}

		if a, ok := c.bestPositionalSeason(); ok && a.Stats["points"] > playerSeasonP {
			playerSeason, playerSeasonP = &a, a.Stats["points"]
		}
	}

	var out []Award
	if high != nil {
		a := high.ctx.award(KindAllTimeHighScore, "All-Time High Score", high.entry.RosterID, high.entry.Week,
			"Put up {points} points in week {week} of {season}")
		a.Stats["points"] = high.entry.Points
		a.Refs["season"] = a.Season
		out = append(out, a)
	}
	if low != nil {
		a := low.ctx.award(KindAllTimeLowScore, "All-Time Low Score", low.entry.RosterID, low.entry.Week,
			"Managed only {points} points in week {week} of {season}")
		a.Stats["points"] = low.entry.Points
		a.Refs["season"] = a.Season
		out = append(out, a)
	}
	if seasonPF != nil && seasonPF.Record.PointsFor > 0 {
		a := seasonPFCtx.award(KindAllTimeSeasonPoints, "Most Points in a Season", seasonPF.RosterID, 0,
			"Scored {points} points in {season}")
		a.Stats["points"] = seasonPF.Record.PointsFor
		a.Refs["season"] = a.Season
		out = append(out, a)
	}
	if blowout != nil {
		a := blowout.award
		a.Kind = KindAllTimeBlowout
		a.Title = "Biggest Blowout Ever"
		a.Template = "Destroyed {loser_team} in week {week} of {season} by {margin} points ({winner_score} - {loser_score})"
		a.Refs["season"] = blowoutCtx.season.Season.Season
		out = append(out, a)
	}
	if playerSeason != nil {
		a := *playerSeason
		a.Kind = KindAllTimePlayerSeason
		a.Title = "Best Player Season Ever"
		a.Template = "{player} ({position}) scored {points} points as a starter in {season}"
		a.Refs["season"] = a.Season
		out = append(out, a)
	}
	return out
}
