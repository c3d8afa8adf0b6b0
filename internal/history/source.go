package history

import (
	"context"

	"github.com/omarshaarawi/sleeperstats/internal/models"
)

// LeagueSource resolves a single league record.
type LeagueSource interface {
	League(ctx context.Context, leagueID string) (models.Season, error)
}

// Source is everything the aggregator reads upstream.
type Source interface {
	LeagueSource
	Rosters(ctx context.Context, leagueID string) ([]models.Roster, error)
	Users(ctx context.Context, leagueID string) ([]models.User, error)
	Matchups(ctx context.Context, leagueID string, week int) ([]models.MatchupEntry, error)
	Transactions(ctx context.Context, leagueID string, leg int) ([]models.Transaction, error)
	Drafts(ctx context.Context, leagueID string) ([]models.Draft, error)
	DraftPicks(ctx context.Context, draftID string) ([]models.DraftPick, error)
}
