package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/omarshaarawi/sleeperstats/internal/rankings"
)

// KV is the persistence backend. Get reports ok=false for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type TeamSettings struct {
	CustomName     string   `json:"customName,omitempty"`
	CustomColor    string   `json:"customColor,omitempty"`
	ExcludeSeasons []string `json:"excludeSeasons,omitempty"`
}

func (t TeamSettings) empty() bool {
	return t.CustomName == "" && t.CustomColor == "" && len(t.ExcludeSeasons) == 0
}

// LeagueSettings is everything a user customizes for one league. Team keys
// are owner ids, or SeasonKey values for overrides scoped to one season.
type LeagueSettings struct {
	Teams map[string]TeamSettings `json:"teams"`
	Notes map[string]string       `json:"notes"`
}

// SeasonKey scopes a team override to one roster in one season.
func SeasonKey(rosterID int, season string) string {
	return "roster:" + strconv.Itoa(rosterID) + ":" + season
}

func teamsKey(leagueID string) string { return "fantasy_team_settings_" + leagueID }

func ranksKey(leagueID string, week int) string {
	return "fantasy_power_prev_" + leagueID + "_" + strconv.Itoa(week)
}

func seedKey(leagueID string) string { return "fantasy_power_prev_names_" + leagueID }

func rosKey(leagueID string) string { return "fantasy_ros_data_" + leagueID }

// Store keeps user settings and rank snapshots in a KV backend. Read
// failures are logged and look like missing data.
type Store struct {
	kv  KV
	mu  sync.Mutex
	now func() time.Time
}

func NewStore(kv KV) *Store {
	return &Store{kv: kv, now: time.Now}
}

func (s *Store) getJSON(ctx context.Context, key string, v any) bool {
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		slog.Warn("Reading settings failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("Decoding settings failed", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) setJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, data); err != nil {
		slog.Warn("Writing settings failed", "key", key, "error", err)
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

// Load returns the league's settings, empty when nothing is stored or the
// backend cannot be read.
func (s *Store) Load(ctx context.Context, leagueID string) LeagueSettings {
	var ls LeagueSettings
	s.getJSON(ctx, teamsKey(leagueID), &ls)
	return normalize(ls)
}

// load is Load for read-modify-write: a failed or undecodable read is an
// error so the caller never saves over settings it could not see.
func (s *Store) load(ctx context.Context, leagueID string) (LeagueSettings, error) {
	key := teamsKey(leagueID)
	data, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		slog.Warn("Reading settings failed", "key", key, "error", err)
		return LeagueSettings{}, fmt.Errorf("reading %s: %w", key, err)
	}
	var ls LeagueSettings
	if ok {
		if err := json.Unmarshal(data, &ls); err != nil {
			return LeagueSettings{}, fmt.Errorf("decoding %s: %w", key, err)
		}
	}
	return normalize(ls), nil
}

func normalize(ls LeagueSettings) LeagueSettings {
	if ls.Teams == nil {
		ls.Teams = make(map[string]TeamSettings)
	}
	if ls.Notes == nil {
		ls.Notes = make(map[string]string)
	}
	return ls
}

func (s *Store) Save(ctx context.Context, leagueID string, ls LeagueSettings) error {
	return s.setJSON(ctx, teamsKey(leagueID), normalize(ls))
}

// UpdateTeam applies edit to one team's settings and saves the league.
// Teams left with no settings are removed.
func (s *Store) UpdateTeam(ctx context.Context, leagueID, teamKey string, edit func(*TeamSettings)) (TeamSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls, err := s.load(ctx, leagueID)
	if err != nil {
		return TeamSettings{}, err
	}
	team := ls.Teams[teamKey]
	edit(&team)
	if team.empty() {
		delete(ls.Teams, teamKey)
	} else {
		ls.Teams[teamKey] = team
	}
	return team, s.Save(ctx, leagueID, ls)
}

// ToggleExclusion flips whether season counts toward ownerID's history and
// reports the new state.
func (s *Store) ToggleExclusion(ctx context.Context, leagueID, ownerID, season string) (bool, error) {
	var excluded bool
	_, err := s.UpdateTeam(ctx, leagueID, ownerID, func(t *TeamSettings) {
		if i := slices.Index(t.ExcludeSeasons, season); i >= 0 {
			t.ExcludeSeasons = slices.Delete(t.ExcludeSeasons, i, i+1)
			return
		}
		t.ExcludeSeasons = append(t.ExcludeSeasons, season)
		slices.Sort(t.ExcludeSeasons)
		excluded = true
	})
	return excluded, err
}

// SetNote stores free text against a row key. An empty note deletes it.
func (s *Store) SetNote(ctx context.Context, leagueID, key, note string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ls, err := s.load(ctx, leagueID)
	if err != nil {
		return err
	}
	if note == "" {
		delete(ls.Notes, key)
	} else {
		ls.Notes[key] = note
	}
	return s.Save(ctx, leagueID, ls)
}

// Exclusions returns owner id -> excluded seasons.
func (s *Store) Exclusions(ctx context.Context, leagueID string) map[string][]string {
	out := make(map[string][]string)
	for key, t := range s.Load(ctx, leagueID).Teams {
		if len(t.ExcludeSeasons) > 0 {
			out[key] = append([]string(nil), t.ExcludeSeasons...)
		}
	}
	return out
}

// SaveROS remembers the last supplied rest-of-season rows for a league.
func (s *Store) SaveROS(ctx context.Context, leagueID string, rows []rankings.ROSRow) error {
	return s.setJSON(ctx, rosKey(leagueID), rows)
}

func (s *Store) LoadROS(ctx context.Context, leagueID string) []rankings.ROSRow {
	var rows []rankings.ROSRow
	s.getJSON(ctx, rosKey(leagueID), &rows)
	return rows
}
