package sleeper

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/omarshaarawi/sleeperstats/internal/models"
)

type API struct {
	client *Client
}

func NewAPI(client *Client) *API {
	return &API{client: client}
}

func (a *API) League(ctx context.Context, leagueID string) (models.Season, error) {
	var resp models.LeagueResponse
	endpoint := fmt.Sprintf("/league/%s", url.PathEscape(leagueID))

	if err := a.client.Get(ctx, endpoint, &resp); err != nil {
		return models.Season{}, fmt.Errorf("fetching league %s: %w", leagueID, err)
	}

	return resp.ToSeason(leagueID), nil
}

func (a *API) Rosters(ctx context.Context, leagueID string) ([]models.Roster, error) {
	var resp []models.RosterResponse
	endpoint := fmt.Sprintf("/league/%s/rosters", url.PathEscape(leagueID))

	if err := a.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fetching rosters: %w", err)
	}

	rosters := make([]models.Roster, 0, len(resp))
	for _, r := range resp {
		rosters = append(rosters, r.ToRoster())
	}
	return rosters, nil
}

func (a *API) Users(ctx context.Context, leagueID string) ([]models.User, error) {
	var resp []models.UserResponse
	endpoint := fmt.Sprintf("/league/%s/users", url.PathEscape(leagueID))

	if err := a.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fetching users: %w", err)
	}

	users := make([]models.User, 0, len(resp))
	for _, u := range resp {
		users = append(users, u.ToUser())
	}
	return users, nil
}

func (a *API) Matchups(ctx context.Context, leagueID string, week int) ([]models.MatchupEntry, error) {
	var resp []models.MatchupResponse
	endpoint := fmt.Sprintf("/league/%s/matchups/%d", url.PathEscape(leagueID), week)

	if err := a.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fetching matchups for week %d: %w", week, err)
	}

	entries := make([]models.MatchupEntry, 0, len(resp))
	for _, m := range resp {
		entries = append(entries, m.ToEntry(week))
	}
	return entries, nil
}

// Transactions returns every transaction recorded in the given leg (week).
func (a *API) Transactions(ctx context.Context, leagueID string, leg int) ([]models.Transaction, error) {
	var resp []models.TransactionResponse
	endpoint := fmt.Sprintf("/league/%s/transactions/%d", url.PathEscape(leagueID), leg)

	if err := a.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fetching transactions for leg %d: %w", leg, err)
	}

	txs := make([]models.Transaction, 0, len(resp))
	for _, t := range resp {
		tx := t.ToTransaction()
		if t.Leg == nil {
			tx.Week = leg
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (a *API) Drafts(ctx context.Context, leagueID string) ([]models.Draft, error) {
	var resp []models.DraftResponse
	endpoint := fmt.Sprintf("/league/%s/drafts", url.PathEscape(leagueID))

	if err := a.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fetching drafts: %w", err)
	}

	drafts := make([]models.Draft, 0, len(resp))
	for _, d := range resp {
		drafts = append(drafts, d.ToDraft())
	}
	return drafts, nil
}

func (a *API) DraftPicks(ctx context.Context, draftID string) ([]models.DraftPick, error) {
	var resp []models.DraftPickResponse
	endpoint := fmt.Sprintf("/draft/%s/picks", url.PathEscape(draftID))

	if err := a.client.Get(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fetching draft picks: %w", err)
	}

	picks := make([]models.DraftPick, 0, len(resp))
	for _, p := range resp {
		picks = append(picks, p.ToPick())
	}
	return picks, nil
}

// Players downloads the full NFL player directory. The payload is several
// megabytes, so callers cache it.
func (a *API) Players(ctx context.Context) (map[string]models.Player, error) {
	var resp map[string]models.PlayerResponse

	if err := a.client.Get(ctx, "/players/nfl", &resp); err != nil {
		return nil, fmt.Errorf("fetching players: %w", err)
	}

	players := make(map[string]models.Player, len(resp))
	for id, p := range resp {
		players[id] = p.ToPlayer(id)
	}
	return players, nil
}

func (a *API) NFLState(ctx context.Context) (models.NFLState, error) {
	var resp models.StateResponse

	if err := a.client.Get(ctx, "/state/nfl", &resp); err != nil {
		return models.NFLState{}, fmt.Errorf("fetching nfl state: %w", err)
	}

	state := resp.ToState()
	state.LastUpdated = time.Now()
	return state, nil
}
