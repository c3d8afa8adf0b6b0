package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/omarshaarawi/sleeperstats/internal/models"
)

var ErrLeagueNotFound = errors.New("league not found")

// WalkLineage follows previous_league_id links from startLeagueID and returns
// the seasons found, newest first. Only a failure on the first hop is an
// error; a later failure truncates the walk.
func WalkLineage(ctx context.Context, src LeagueSource, startLeagueID string) ([]models.Season, error) {
	visited := make(map[string]bool)
	var seasons []models.Season

	for id := startLeagueID; id != "" && !visited[id]; {
		visited[id] = true

		season, err := src.League(ctx, id)
		if err != nil {
			if len(seasons) == 0 {
				return nil, fmt.Errorf("%w: %s: %w", ErrLeagueNotFound, startLeagueID, err)
			}
			slog.Warn("Lineage walk truncated", "league_id", id, "collected", len(seasons), "error", err)
			break
		}

		seasons = append(seasons, season)
		id = season.PreviousLeagueID
	}

	sort.SliceStable(seasons, func(i, j int) bool {
		return seasons[i].Year() > seasons[j].Year()
	})

	return seasons, nil
}
