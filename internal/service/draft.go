package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/omarshaarawi/sleeperstats/internal/draft"
	"github.com/omarshaarawi/sleeperstats/internal/models"
	"github.com/omarshaarawi/sleeperstats/internal/ownership"
	"github.com/omarshaarawi/sleeperstats/internal/scoring"
)

var ErrNoDraft = errors.New("no draft for season")

// DraftRatings rates a season's picks through evalWeek (0 for the whole
// season).
func (d *Dashboard) DraftRatings(ctx context.Context, season string, evalWeek int) (*models.SeasonData, []draft.PickRating, error) {
	_, s, err := d.season(ctx, season)
	if err != nil {
		return nil, nil, err
	}
	if !s.HasDraft {
		return s, nil, fmt.Errorf("%s: %w", s.Season.Season, ErrNoDraft)
	}

	tracker := ownership.NewTracker(s.Trades, s.Waivers)
	ratings := draft.RatePicks(draft.Input{
		Picks:       s.DraftPicks,
		Players:     d.players(ctx),
		Accumulator: scoring.NewAccumulator(s, tracker),
		Tracker:     tracker,
		EvalWeek:    evalWeek,
	})
	return s, ratings, nil
}

func (d *Dashboard) DraftReport(ctx context.Context, season string, evalWeek int, withBoard bool) (string, error) {
	s, ratings, err := d.DraftRatings(ctx, season, evalWeek)
	switch {
	case errors.Is(err, ErrNoDraft):
		return fmt.Sprintf("📝 *%s Draft*\n\nNo draft found for this season.", s.Season.Season), nil
	case errors.Is(err, ErrNoData):
		return "📝 *Draft Report*\n\n" + noData, nil
	case err != nil:
		return "", err
	}
	ls := d.settings.Load(ctx, d.leagueID)
	name := func(id int) string { return md(teamName(ls, s, id)) }

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📝 *%s Draft Report*", s.Season.Season))
	if evalWeek > 0 {
		sb.WriteString(fmt.Sprintf(" (through week %d)", evalWeek))
	}
	sb.WriteString("\n\n")

	if len(ratings) == 0 {
		sb.WriteString(noData)
		return sb.String(), nil
	}

	sb.WriteString("*Team Grades:*\n")
	for i, g := range draft.GradeTeams(ratings) {
		sb.WriteString(fmt.Sprintf("%d. %s %s (%.1f)\n", i+1, name(g.RosterID), g.Letter, g.Score))
	}

	writePicks := func(title string, picks []draft.PickRating) {
		sb.WriteString(fmt.Sprintf("\n*%s:*\n", title))
		for _, p := range picks {
			sb.WriteString(fmt.Sprintf("%s %s - %s, pick %d (%.1f pts, %s)\n",
				p.Position, md(p.PlayerName), name(p.RosterID), p.PickNo, p.ActualPoints, p.Label))
		}
	}
	writePicks("Best Picks", draft.BestByPosition(ratings))
	writePicks("Worst Picks", draft.WorstByPosition(ratings))

	if best, ok := draft.Best(ratings); ok && best.PointsAboveExpectation > 0 {
		sb.WriteString(fmt.Sprintf("\n💎 *Steal of the Draft:* %s (%s #%d, %+.1f over expected)\n",
			md(best.PlayerName), best.Position, best.DraftPositionRank, best.PointsAboveExpectation))
	}

	if withBoard {
		sb.WriteString("\n*Board:*\n")
		writeBoard(&sb, draft.BuildBoard(s.DraftPicks, ratings), d.players(ctx))
	}
	return sb.String(), nil
}

func writeBoard(sb *strings.Builder, b draft.Board, players map[string]models.Player) {
	for round := 1; round <= b.Rounds; round++ {
		var cells []string
		for _, c := range b.Row(round) {
			switch {
			case !c.Filled:
				cells = append(cells, "-")
			case c.Rated:
				cells = append(cells, fmt.Sprintf("%s (%s)", md(c.Rating.PlayerName), c.Rating.Label))
			default:
				label := c.Pick.PlayerID
				if p, ok := players[c.Pick.PlayerID]; ok && p.FullName != "" {
					label = p.FullName
				}
				cells = append(cells, md(label))
			}
		}
		sb.WriteString(fmt.Sprintf("R%d: %s\n", round, strings.Join(cells, " | ")))
	}
}
