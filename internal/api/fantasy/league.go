package fantasy

import (
	"context"
	"log/slog"
	"time"

	"github.com/omarshaarawi/sleeperstats/internal/api/sleeper"
	"github.com/omarshaarawi/sleeperstats/internal/models"
	"github.com/omarshaarawi/sleeperstats/internal/repository/memory"
)

const (
	playersTTL = 24 * time.Hour
	stateTTL   = time.Hour
)

// API is the data-access facade the rest of the module talks to. League
// resources pass straight through; the player table and NFL state are
// cached in the memory repository.
type API struct {
	sleeperAPI *sleeper.API
	repo       *memory.Repository
}

func NewAPI(sleeperAPI *sleeper.API, repo *memory.Repository) *API {
	return &API{sleeperAPI: sleeperAPI, repo: repo}
}

func (a *API) League(ctx context.Context, leagueID string) (models.Season, error) {
	return a.sleeperAPI.League(ctx, leagueID)
}

func (a *API) Rosters(ctx context.Context, leagueID string) ([]models.Roster, error) {
	return a.sleeperAPI.Rosters(ctx, leagueID)
}

func (a *API) Users(ctx context.Context, leagueID string) ([]models.User, error) {
	return a.sleeperAPI.Users(ctx, leagueID)
}

func (a *API) Matchups(ctx context.Context, leagueID string, week int) ([]models.MatchupEntry, error) {
	return a.sleeperAPI.Matchups(ctx, leagueID, week)
}

func (a *API) Transactions(ctx context.Context, leagueID string, leg int) ([]models.Transaction, error) {
	return a.sleeperAPI.Transactions(ctx, leagueID, leg)
}

func (a *API) Drafts(ctx context.Context, leagueID string) ([]models.Draft, error) {
	return a.sleeperAPI.Drafts(ctx, leagueID)
}

func (a *API) DraftPicks(ctx context.Context, draftID string) ([]models.DraftPick, error) {
	return a.sleeperAPI.DraftPicks(ctx, draftID)
}

// Players returns the cached player table, refetching when it is older than
// a day. A failed refresh falls back to the stale table when there is one.
func (a *API) Players(ctx context.Context) (map[string]models.Player, error) {
	cached, updated := a.repo.GetPlayers()
	if cached != nil && time.Since(updated) < playersTTL {
		return cached, nil
	}

	players, err := a.sleeperAPI.Players(ctx)
	if err != nil {
		if cached != nil {
			slog.Warn("Using stale player table", "error", err, "age", time.Since(updated).String())
			return cached, nil
		}
		return nil, err
	}

	a.repo.SavePlayers(players)
	slog.Info("Player table refreshed", "players", len(players))
	return players, nil
}

func (a *API) NFLState(ctx context.Context) (models.NFLState, error) {
	if cached := a.repo.GetState(); cached != nil && time.Since(cached.LastUpdated) < stateTTL {
		return *cached, nil
	}

	state, err := a.sleeperAPI.NFLState(ctx)
	if err != nil {
		if cached := a.repo.GetState(); cached != nil {
			return *cached, nil
		}
		return models.NFLState{}, err
	}

	a.repo.SaveState(&state)
	return state, nil
}
