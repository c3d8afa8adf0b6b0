package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/omarshaarawi/sleeperstats/internal/awards"
	"github.com/omarshaarawi/sleeperstats/internal/models"
	"github.com/omarshaarawi/sleeperstats/internal/rankings"
	"github.com/omarshaarawi/sleeperstats/internal/settings"
	"github.com/omarshaarawi/sleeperstats/internal/stats"
)

const noData = "No data yet. Try /refresh once the league has played a week."

var (
	ErrNoData       = errors.New("no league data")
	ErrTeamNotFound = errors.New("team not found")
	ErrInvalidColor = errors.New("color must look like #1a2b3c")
)

// DataSource is the slice of the fantasy facade the dashboard needs.
type DataSource interface {
	Players(ctx context.Context) (map[string]models.Player, error)
	NFLState(ctx context.Context) (models.NFLState, error)
}

// HistoryLoader builds or returns the cached history bundle.
type HistoryLoader interface {
	Load(ctx context.Context, leagueID string) (*models.LeagueHistory, error)
	Refresh(ctx context.Context, leagueID string) (*models.LeagueHistory, error)
}

// Dashboard owns the application state for one league. Every read and
// every mutation of persisted settings goes through its methods.
type Dashboard struct {
	leagueID   string
	api        DataSource
	history    HistoryLoader
	settings   *settings.Store
	thresholds awards.Thresholds

	// mu serializes snapshot writes and settings edits.
	mu sync.Mutex
}

func NewDashboard(leagueID string, api DataSource, history HistoryLoader, store *settings.Store, th awards.Thresholds) *Dashboard {
	return &Dashboard{
		leagueID:   leagueID,
		api:        api,
		history:    history,
		settings:   store,
		thresholds: th,
	}
}

func (d *Dashboard) LeagueID() string {
	return d.leagueID
}

func (d *Dashboard) load(ctx context.Context) (*models.LeagueHistory, error) {
	h, err := d.history.Load(ctx, d.leagueID)
	if err != nil {
		return nil, fmt.Errorf("error loading league history: %w", err)
	}
	return h, nil
}

func (d *Dashboard) current(ctx context.Context) (*models.LeagueHistory, *models.SeasonData, error) {
	h, err := d.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	season, ok := h.Current()
	if !ok {
		return h, nil, ErrNoData
	}
	return h, season, nil
}

// season picks a season by label, or the current one for "".
func (d *Dashboard) season(ctx context.Context, label string) (*models.LeagueHistory, *models.SeasonData, error) {
	if label == "" {
		return d.current(ctx)
	}
	h, err := d.load(ctx)
	if err != nil {
		return nil, nil, err
	}
	s, ok := h.Season(label)
	if !ok {
		return h, nil, fmt.Errorf("season %s: %w", label, ErrNoData)
	}
	return h, s, nil
}

// players never fails; reports degrade to "Unknown" names without it.
func (d *Dashboard) players(ctx context.Context) map[string]models.Player {
	p, err := d.api.Players(ctx)
	if err != nil {
		slog.Warn("Player table unavailable", "error", err)
		return nil
	}
	return p
}

// currentWeek is the NFL week when it belongs to this season, capped at the
// last week with data. Otherwise the last week with data.
func (d *Dashboard) currentWeek(ctx context.Context, season *models.SeasonData) int {
	last := season.LastWeek()
	state, err := d.api.NFLState(ctx)
	if err != nil {
		slog.Warn("NFL state unavailable", "error", err)
		return last
	}
	if state.Season != season.Season.Season || state.Week <= 0 {
		return last
	}
	if last > 0 && state.Week > last {
		return last
	}
	return state.Week
}

// teamName resolves a roster's display name: season-scoped override, owner
// override, Sleeper team name, display name, username, then "Team N".
func teamName(ls settings.LeagueSettings, season *models.SeasonData, rosterID int) string {
	if season == nil {
		return "Team " + strconv.Itoa(rosterID)
	}
	if t := ls.Teams[settings.SeasonKey(rosterID, season.Season.Season)]; t.CustomName != "" {
		return t.CustomName
	}
	if r, ok := season.Roster(rosterID); ok && r.OwnerID != "" {
		if t := ls.Teams[r.OwnerID]; t.CustomName != "" {
			return t.CustomName
		}
		if u, ok := season.User(r.OwnerID); ok {
			for _, name := range []string{u.TeamName, u.DisplayName, u.Username} {
				if name != "" {
					return name
				}
			}
		}
	}
	return "Team " + strconv.Itoa(rosterID)
}

func teamNames(ls settings.LeagueSettings, season *models.SeasonData) map[int]string {
	names := make(map[int]string, len(season.Rosters))
	for _, r := range season.Rosters {
		names[r.RosterID] = teamName(ls, season, r.RosterID)
	}
	return names
}

// ownerName names an owner by their override or their newest season's team.
func ownerName(ls settings.LeagueSettings, h *models.LeagueHistory, ownerID string) string {
	if t := ls.Teams[ownerID]; t.CustomName != "" {
		return t.CustomName
	}
	for _, s := range h.Seasons {
		for _, r := range s.Rosters {
			if r.OwnerID == ownerID {
				return teamName(ls, s, r.RosterID)
			}
		}
	}
	return ownerID
}

// resolveTeam turns an owner id, a season key or a fuzzy team name into a
// settings key.
func (d *Dashboard) resolveTeam(ctx context.Context, query string) (string, string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", "", ErrTeamNotFound
	}
	h, err := d.load(ctx)
	if err != nil {
		return "", "", err
	}
	ls := d.settings.Load(ctx, d.leagueID)

	if strings.HasPrefix(query, "roster:") {
		parts := strings.Split(query, ":")
		if len(parts) == 3 {
			if id, err := strconv.Atoi(parts[1]); err == nil {
				if s, ok := h.Season(parts[2]); ok {
					if _, ok := s.Roster(id); ok {
						return query, teamName(ls, s, id), nil
					}
				}
			}
		}
		return "", "", fmt.Errorf("%s: %w", query, ErrTeamNotFound)
	}

	owners := make(map[string]string) // candidate name -> owner id
	for _, s := range h.Seasons {
		for _, r := range s.Rosters {
			if r.OwnerID == "" {
				continue
			}
			if r.OwnerID == query {
				return r.OwnerID, ownerName(ls, h, r.OwnerID), nil
			}
			names := []string{teamName(ls, s, r.RosterID)}
			if u, ok := s.User(r.OwnerID); ok {
				names = append(names, u.Username, u.DisplayName)
			}
			// Newest season wins a name shared by two owners.
			for _, name := range names {
				if _, taken := owners[name]; name != "" && !taken {
					owners[name] = r.OwnerID
				}
			}
		}
	}

	candidates := make([]string, 0, len(owners))
	for name := range owners {
		candidates = append(candidates, name)
	}
	sort.Strings(candidates)

	for _, name := range candidates {
		if strings.EqualFold(name, query) {
			return owners[name], ownerName(ls, h, owners[name]), nil
		}
	}

	matches := fuzzy.RankFindNormalizedFold(query, candidates)
	if len(matches) == 0 {
		return "", "", fmt.Errorf("%q: %w", query, ErrTeamNotFound)
	}
	sort.Stable(matches)
	best := owners[matches[0].Target]
	return best, ownerName(ls, h, best), nil
}

// Refresh drops the cached history and rebuilds it.
func (d *Dashboard) Refresh(ctx context.Context) error {
	h, err := d.history.Refresh(ctx, d.leagueID)
	if err != nil {
		return fmt.Errorf("error refreshing league history: %w", err)
	}
	slog.Info("League history refreshed", "league_id", d.leagueID, "seasons", len(h.Seasons))
	return nil
}

func (d *Dashboard) SetTeamName(ctx context.Context, team, name string) (string, error) {
	key, _, err := d.resolveTeam(ctx, team)
	if err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err = d.settings.UpdateTeam(ctx, d.leagueID, key, func(t *settings.TeamSettings) {
		t.CustomName = strings.TrimSpace(name)
	})
	return key, err
}

func (d *Dashboard) SetTeamColor(ctx context.Context, team, color string) (string, error) {
	color = strings.TrimSpace(color)
	if color != "" && !validColor(color) {
		return "", ErrInvalidColor
	}
	key, _, err := d.resolveTeam(ctx, team)
	if err != nil {
		return "", err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	_, err = d.settings.UpdateTeam(ctx, d.leagueID, key, func(t *settings.TeamSettings) {
		t.CustomColor = strings.ToLower(color)
	})
	return key, err
}

func validColor(c string) bool {
	if len(c) != 7 || c[0] != '#' {
		return false
	}
	_, err := strconv.ParseUint(c[1:], 16, 32)
	return err == nil
}

// ToggleExclusion flips whether season counts toward the team's owner in
// manager history. It reports whether the season is now excluded.
func (d *Dashboard) ToggleExclusion(ctx context.Context, team, season string) (bool, error) {
	ownerID, _, err := d.resolveTeam(ctx, team)
	if err != nil {
		return false, err
	}
	if strings.HasPrefix(ownerID, "roster:") {
		return false, fmt.Errorf("exclusions apply to owners, not %s: %w", ownerID, ErrTeamNotFound)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings.ToggleExclusion(ctx, d.leagueID, ownerID, season)
}

func (d *Dashboard) SetNote(ctx context.Context, key, note string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings.SetNote(ctx, d.leagueID, key, strings.TrimSpace(note))
}

// SetNoteForTeam attaches a note to a team's standings row.
func (d *Dashboard) SetNoteForTeam(ctx context.Context, team, note string) error {
	ownerID, _, err := d.resolveTeam(ctx, team)
	if err != nil {
		return err
	}
	return d.SetNote(ctx, standingsNoteKey(ownerID), note)
}

func (d *Dashboard) ExportSettings(ctx context.Context) ([]byte, error) {
	return d.settings.Export(ctx, d.leagueID)
}

// ImportSettings replaces every stored setting for the league.
func (d *Dashboard) ImportSettings(ctx context.Context, data []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	ls, err := d.settings.Import(ctx, d.leagueID, data)
	if err != nil {
		return err
	}
	slog.Info("Settings imported", "league_id", d.leagueID, "teams", len(ls.Teams), "notes", len(ls.Notes))
	return nil
}

// SetRestOfSeason stores external rest-of-season rankings for the power
// rankings. An empty slice clears them.
func (d *Dashboard) SetRestOfSeason(ctx context.Context, rows []rankings.ROSRow) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings.SaveROS(ctx, d.leagueID, rows)
}

// SeedPreviousRanks stores name-keyed ranks to compare the next power
// rankings against.
func (d *Dashboard) SeedPreviousRanks(ctx context.Context, ranks map[string]int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settings.SaveSeed(ctx, d.leagueID, ranks)
}

func (d *Dashboard) exclusions(ctx context.Context) stats.Exclusions {
	return d.settings.Exclusions(ctx, d.leagueID)
}
