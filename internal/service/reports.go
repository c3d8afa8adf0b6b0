package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/omarshaarawi/sleeperstats/internal/awards"
	"github.com/omarshaarawi/sleeperstats/internal/models"
	"github.com/omarshaarawi/sleeperstats/internal/rankings"
	"github.com/omarshaarawi/sleeperstats/internal/settings"
	"github.com/omarshaarawi/sleeperstats/internal/stats"
)

var mdEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// md escapes user-supplied text for Telegram's Markdown mode.
func md(s string) string {
	return mdEscaper.Replace(s)
}

type PowerReport struct {
	Season string
	Week   int
	Rows   []rankings.PowerRow

	data *models.SeasonData
}

// PowerRankings ranks the current season and records the snapshot used for
// next week's change arrows.
func (d *Dashboard) PowerRankings(ctx context.Context) (PowerReport, error) {
	_, season, err := d.current(ctx)
	if err != nil {
		return PowerReport{}, err
	}
	ls := d.settings.Load(ctx, d.leagueID)
	week := d.currentWeek(ctx, season)

	in := rankings.PowerInput{
		Rosters:     season.Rosters,
		Weeks:       season.Weeks,
		CurrentWeek: week,
		Names:       teamNames(ls, season),
	}
	if rows := d.settings.LoadROS(ctx, d.leagueID); len(rows) > 0 {
		in.ROS = rankings.NewROSTable(rows)
		in.Players = d.players(ctx)
	}

	report := PowerReport{
		Season: season.Season.Season,
		Week:   week,
		Rows:   rankings.ComputePowerRankings(in),
		data:   season,
	}
	if week > 0 && len(report.Rows) > 0 {
		d.mu.Lock()
		rankings.ApplyChanges(ctx, d.settings, d.leagueID, week, report.Rows)
		d.mu.Unlock()
	}
	return report, nil
}

func (d *Dashboard) PowerRankingsReport(ctx context.Context) (string, error) {
	report, err := d.PowerRankings(ctx)
	if errors.Is(err, ErrNoData) {
		return "⚡ *Power Rankings*\n\n" + noData, nil
	}
	if err != nil {
		return "", err
	}
	return formatPowerRankings(report), nil
}

func formatPowerRankings(report PowerReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("⚡ *Week %d Power Rankings*\n\n", report.Week))

	if len(report.Rows) == 0 {
		sb.WriteString(noData)
		return sb.String()
	}

	n := len(report.Rows)
	for _, row := range report.Rows {
		sb.WriteString(fmt.Sprintf("%d. *%s* %s\n", row.Rank, md(row.DisplayName), changeArrow(row)))
		record := ""
		if r, ok := report.data.Roster(row.RosterID); ok {
			record = fmt.Sprintf("%d-%d", r.Record.Wins, r.Record.Losses)
			if r.Record.Ties > 0 {
				record += fmt.Sprintf("-%d", r.Record.Ties)
			}
		}
		sb.WriteString(fmt.Sprintf("   %s Score: %.2f | Record: %s | All-Play: #%d\n",
			rankings.StarGlyphs(rankings.Stars(row.Rank, n)), row.PowerScore, record, row.AllPlayRank))
		sb.WriteString(fmt.Sprintf("   _%s_\n\n", row.Summary))
	}
	return sb.String()
}

func changeArrow(row rankings.PowerRow) string {
	switch {
	case !row.HasChange():
		return ""
	case row.Change > 0:
		return fmt.Sprintf("▲%d", row.Change)
	case row.Change < 0:
		return fmt.Sprintf("▼%d", -row.Change)
	default:
		return "="
	}
}

func (d *Dashboard) Standings(ctx context.Context) (string, error) {
	_, season, err := d.current(ctx)
	if errors.Is(err, ErrNoData) {
		return "🏆 *Current Standings*\n\n" + noData, nil
	}
	if err != nil {
		return "", err
	}
	ls := d.settings.Load(ctx, d.leagueID)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 *%s Standings*\n\n", season.Season.Season))
	if len(season.Rosters) == 0 {
		sb.WriteString(noData)
		return sb.String(), nil
	}

	for i, r := range rankings.SortStandings(season.Rosters) {
		sb.WriteString(fmt.Sprintf("%d. *%s*\n", i+1, md(teamName(ls, season, r.RosterID))))
		sb.WriteString(fmt.Sprintf("   Record: %d-%d-%d\n", r.Record.Wins, r.Record.Losses, r.Record.Ties))
		sb.WriteString(fmt.Sprintf("   Points For: %.2f\n", r.Record.PointsFor))
		sb.WriteString(fmt.Sprintf("   Points Against: %.2f\n", r.Record.PointsAgainst))
		if note := ls.Notes[standingsNoteKey(r.OwnerID)]; note != "" && r.OwnerID != "" {
			sb.WriteString(fmt.Sprintf("   📝 %s\n", md(note)))
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func standingsNoteKey(ownerID string) string {
	return "standings:" + ownerID
}

// ManagerHistory reduces every season, or one, into per-owner records with
// the stored exclusions applied.
func (d *Dashboard) ManagerHistory(ctx context.Context, season string) ([]stats.ManagerRecord, error) {
	h, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	return stats.ReduceManagerHistory(h, season, d.exclusions(ctx)), nil
}

func (d *Dashboard) ManagerHistoryReport(ctx context.Context, season string) (string, error) {
	h, err := d.load(ctx)
	if err != nil {
		return "", err
	}
	ls := d.settings.Load(ctx, d.leagueID)
	records := stats.ReduceManagerHistory(h, season, d.exclusions(ctx))

	var sb strings.Builder
	if season == "" || season == stats.AllSeasons {
		sb.WriteString("📜 *Manager History - All Seasons*\n\n")
	} else {
		sb.WriteString(fmt.Sprintf("📜 *Manager History - %s*\n\n", md(season)))
	}
	if len(records) == 0 {
		sb.WriteString(noData)
		return sb.String(), nil
	}

	for i, r := range records {
		sb.WriteString(fmt.Sprintf("%d. *%s*%s\n", i+1, md(ownerName(ls, h, r.OwnerID)), podium(r)))
		sb.WriteString(fmt.Sprintf("   Record: %d-%d", r.Wins, r.Losses))
		if r.Ties > 0 {
			sb.WriteString(fmt.Sprintf("-%d", r.Ties))
		}
		if games := r.Wins + r.Losses + r.Ties; games > 0 {
			sb.WriteString(fmt.Sprintf(" (%.1f%%)", 100*float64(r.Wins)/float64(games)))
		}
		sb.WriteString(fmt.Sprintf(" | Playoff Wins: %d | Seasons: %d\n\n", r.PlayoffWins, r.Seasons))
	}
	return sb.String(), nil
}

func podium(r stats.ManagerRecord) string {
	var parts []string
	for _, p := range []struct {
		icon  string
		count int
	}{{"🏆", r.Championships}, {"🥈", r.SecondPlace}, {"🥉", r.ThirdPlace}} {
		if p.count > 0 {
			parts = append(parts, fmt.Sprintf("%sx%d", p.icon, p.count))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

// SeasonAwards computes one season's awards, the current season for "".
func (d *Dashboard) SeasonAwards(ctx context.Context, season string) ([]awards.Award, error) {
	_, s, err := d.season(ctx, season)
	if err != nil {
		return nil, err
	}
	return awards.CalculateSeasonAwards(s, d.players(ctx), d.thresholds), nil
}

func (d *Dashboard) AllTimeAwards(ctx context.Context) ([]awards.Award, error) {
	h, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	return awards.CalculateAllTimeAwards(h, d.players(ctx)), nil
}

// AwardsReport renders a season's awards, or the all-time records for
// "all".
func (d *Dashboard) AwardsReport(ctx context.Context, season string) (string, error) {
	var (
		list  []awards.Award
		title string
		err   error
	)
	if season == stats.AllSeasons {
		list, err = d.AllTimeAwards(ctx)
		title = "🏅 *All-Time Records*\n\n"
	} else {
		list, err = d.SeasonAwards(ctx, season)
		label := season
		if label == "" {
			if _, s, cerr := d.current(ctx); cerr == nil {
				label = s.Season.Season
			}
		}
		title = fmt.Sprintf("🏅 *%s Season Awards*\n\n", md(label))
	}
	if errors.Is(err, ErrNoData) {
		return title + noData, nil
	}
	if err != nil {
		return "", err
	}

	h, err := d.load(ctx)
	if err != nil {
		return "", err
	}
	return formatAwards(title, list, d.settings.Load(ctx, d.leagueID), h), nil
}

func formatAwards(title string, list []awards.Award, ls settings.LeagueSettings, h *models.LeagueHistory) string {
	var sb strings.Builder
	sb.WriteString(title)
	if len(list) == 0 {
		sb.WriteString(noData)
		return sb.String()
	}

	name := func(season string, rosterID int) string {
		s, _ := h.Season(season)
		return teamName(ls, s, rosterID)
	}
	for _, a := range list {
		sb.WriteString(fmt.Sprintf("*%s*: %s\n", a.Title, md(name(a.Season, a.RosterID))))
		sb.WriteString(fmt.Sprintf("   %s\n\n", md(a.Render(name))))
	}
	return sb.String()
}

type weekGame struct {
	home, away models.MatchupEntry
}

// WeekRecap lists a week's final scores with its trophies, the current
// week for week <= 0.
func (d *Dashboard) WeekRecap(ctx context.Context, week int) (string, error) {
	_, season, err := d.current(ctx)
	if errors.Is(err, ErrNoData) {
		return "📊 *Final Scores*\n\n" + noData, nil
	}
	if err != nil {
		return "", err
	}
	if week <= 0 {
		week = d.currentWeek(ctx, season)
	}
	ls := d.settings.Load(ctx, d.leagueID)
	name := func(id int) string { return md(teamName(ls, season, id)) }

	games := weekGames(season.Weeks[week])

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Week %d Final Scores:*\n\n", week))
	if len(games) == 0 {
		sb.WriteString(noData)
		return sb.String(), nil
	}

	sort.SliceStable(games, func(i, j int) bool {
		return games[i].home.Points+games[i].away.Points > games[j].home.Points+games[j].away.Points
	})

	var high, low models.MatchupEntry
	highScore, lowScore := -math.MaxFloat64, math.MaxFloat64
	biggest, closest := -math.MaxFloat64, math.MaxFloat64
	var biggestTeam, closestTeam int

	for _, g := range games {
		sb.WriteString(fmt.Sprintf("%s %.2f - %.2f %s\n", name(g.home.RosterID), g.home.Points, g.away.Points, name(g.away.RosterID)))

		for _, e := range []models.MatchupEntry{g.home, g.away} {
			if e.Points > highScore {
				highScore, high = e.Points, e
			}
			if e.Points < lowScore {
				lowScore, low = e.Points, e
			}
		}

		winner := g.home.RosterID
		if g.away.Points > g.home.Points {
			winner = g.away.RosterID
		}
		diff := math.Abs(g.home.Points - g.away.Points)
		if diff > biggest {
			biggest, biggestTeam = diff, winner
		}
		if diff < closest {
			closest, closestTeam = diff, winner
		}
	}

	sb.WriteString("\n🏆 *Trophies:*\n")
	sb.WriteString(fmt.Sprintf("Highest Score: %s (%.2f)\n", name(high.RosterID), high.Points))
	sb.WriteString(fmt.Sprintf("Lowest Score: %s (%.2f)\n", name(low.RosterID), low.Points))
	sb.WriteString(fmt.Sprintf("Biggest Win: %s (Margin: %.2f)\n", name(biggestTeam), biggest))
	sb.WriteString(fmt.Sprintf("Closest Win: %s (Margin: %.2f)\n", name(closestTeam), closest))
	return sb.String(), nil
}

// weekGames pairs entries by matchup id. Byes and unpaired entries are left
// out.
func weekGames(entries []models.MatchupEntry) []weekGame {
	byMatchup := make(map[int][]models.MatchupEntry)
	var ids []int
	for _, e := range entries {
		if e.MatchupID == 0 {
			continue
		}
		if _, ok := byMatchup[e.MatchupID]; !ok {
			ids = append(ids, e.MatchupID)
		}
		byMatchup[e.MatchupID] = append(byMatchup[e.MatchupID], e)
	}
	sort.Ints(ids)

	var games []weekGame
	for _, id := range ids {
		if g := byMatchup[id]; len(g) == 2 {
			games = append(games, weekGame{home: g[0], away: g[1]})
		}
	}
	return games
}

// closeMargin is the largest margin still worth watching on Monday night.
const closeMargin = 16.0

// CloseGames lists the current week's games within closeMargin points,
// closest first.
func (d *Dashboard) CloseGames(ctx context.Context) (string, error) {
	_, season, err := d.current(ctx)
	if errors.Is(err, ErrNoData) {
		return "🏈 *Monday Night Watch List*\n\n" + noData, nil
	}
	if err != nil {
		return "", err
	}
	ls := d.settings.Load(ctx, d.leagueID)
	week := d.currentWeek(ctx, season)

	var watch []weekGame
	for _, g := range weekGames(season.Weeks[week]) {
		if math.Abs(g.home.Points-g.away.Points) <= closeMargin {
			watch = append(watch, g)
		}
	}
	sort.SliceStable(watch, func(i, j int) bool {
		return math.Abs(watch[i].home.Points-watch[i].away.Points) < math.Abs(watch[j].home.Points-watch[j].away.Points)
	})

	var sb strings.Builder
	sb.WriteString("🏈 *Monday Night Watch List*\n\n")
	if len(watch) == 0 {
		sb.WriteString("No watch games this week. All outcomes are likely decided.")
		return sb.String(), nil
	}
	for _, g := range watch {
		sb.WriteString(fmt.Sprintf("%s %.2f - %.2f %s (Margin: %.2f)\n",
			md(teamName(ls, season, g.home.RosterID)), g.home.Points,
			g.away.Points, md(teamName(ls, season, g.away.RosterID)),
			math.Abs(g.home.Points-g.away.Points)))
	}
	return sb.String(), nil
}

// TeamCareer finds a team by name and summarizes its owner's seasons.
func (d *Dashboard) TeamCareer(ctx context.Context, query string) (string, error) {
	ownerID, display, err := d.resolveTeam(ctx, query)
	if errors.Is(err, ErrTeamNotFound) {
		return fmt.Sprintf("🔍 No team found matching '%s'.", md(query)), nil
	}
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(ownerID, "roster:") {
		return fmt.Sprintf("🔍 '%s' is a single season; search by team name instead.", md(query)), nil
	}

	h, err := d.load(ctx)
	if err != nil {
		return "", err
	}
	ls := d.settings.Load(ctx, d.leagueID)
	ex := d.exclusions(ctx)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 *%s* Career\n", md(display)))
	sb.WriteString("━━━━━━━━━━━━━━━━\n")

	for _, r := range stats.ReduceManagerHistory(h, stats.AllSeasons, ex) {
		if r.OwnerID != ownerID {
			continue
		}
		sb.WriteString(fmt.Sprintf("Record: %d-%d | Playoff Wins: %d%s\n", r.Wins, r.Losses, r.PlayoffWins, podium(r)))
		sb.WriteString(fmt.Sprintf("Regular Season Points: %.2f over %d seasons\n", r.PointsFor, r.Seasons))
	}
	sb.WriteString("\n")

	for _, s := range h.Seasons {
		for _, r := range s.Rosters {
			if r.OwnerID != ownerID {
				continue
			}
			line := fmt.Sprintf("%s: *%s* %d-%d, %.2f PF", s.Season.Season, md(teamName(ls, s, r.RosterID)),
				r.Record.Wins, r.Record.Losses, r.Record.PointsFor)
			if ex.Excluded(ownerID, s.Season.Season) {
				line += " (excluded)"
			}
			sb.WriteString(line + "\n")
		}
	}
	return sb.String(), nil
}
