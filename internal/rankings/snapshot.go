package rankings

import (
	"context"
	"log/slog"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SnapshotStore persists rank snapshots between computations.
type SnapshotStore interface {
	// LatestRanks returns the most recent roster-keyed snapshot saved for a
	// week before beforeWeek.
	LatestRanks(ctx context.Context, leagueID string, beforeWeek int) (map[int]int, bool, error)
	SaveRanks(ctx context.Context, leagueID string, week int, ranks map[int]int) error
	// SeedRanks is a one-shot snapshot keyed by team display name.
	SeedRanks(ctx context.Context, leagueID string) (map[string]int, bool, error)
	DeleteSeed(ctx context.Context, leagueID string) error
}

// ApplyChanges fills PrevRank and Change on rows from the previous snapshot,
// then saves the new one for week. With no roster-keyed snapshot, the
// name-keyed seed is used once and deleted. Store failures are logged.
func ApplyChanges(ctx context.Context, store SnapshotStore, leagueID string, week int, rows []PowerRow) {
	prev, ok, err := store.LatestRanks(ctx, leagueID, week)
	if err != nil {
		slog.Warn("Reading previous power ranks failed", "league_id", leagueID, "error", err)
		ok = false
	}

	usedSeed := false
	if !ok {
		seed, found, err := store.SeedRanks(ctx, leagueID)
		if err != nil {
			slog.Warn("Reading seed power ranks failed", "league_id", leagueID, "error", err)
		}
		if found {
			prev = matchSeed(rows, seed)
			usedSeed = true
			slog.Info("Using name-keyed seed ranks", "league_id", leagueID, "matched", len(prev))
		}
	}

	for i := range rows {
		if p, ok := prev[rows[i].RosterID]; ok && p > 0 {
			rows[i].PrevRank = p
			rows[i].Change = p - rows[i].Rank
		}
	}

	current := make(map[int]int, len(rows))
	for _, r := range rows {
		current[r.RosterID] = r.Rank
	}
	if err := store.SaveRanks(ctx, leagueID, week, current); err != nil {
		slog.Warn("Saving power ranks failed", "league_id", leagueID, "week", week, "error", err)
		return
	}

	if usedSeed {
		if err := store.DeleteSeed(ctx, leagueID); err != nil {
			slog.Warn("Deleting seed power ranks failed", "league_id", leagueID, "error", err)
		}
	}
}

// matchSeed maps seed names onto rows: exact names first, then the closest
// fuzzy match among names not yet taken.
func matchSeed(rows []PowerRow, seed map[string]int) map[int]int {
	prev := make(map[int]int)
	taken := make(map[string]bool)

	for _, r := range rows {
		if rank, ok := seed[r.DisplayName]; ok {
			prev[r.RosterID] = rank
			taken[r.DisplayName] = true
		}
	}

	for _, r := range rows {
		if _, done := prev[r.RosterID]; done || r.DisplayName == "" {
			continue
		}
		var candidates []string
		for name := range seed {
			if !taken[name] {
				candidates = append(candidates, name)
			}
		}
		matches := fuzzy.RankFindNormalizedFold(r.DisplayName, candidates)
		if len(matches) == 0 {
			continue
		}
		best := matches[0]
		for _, m := range matches[1:] {
			if m.Distance < best.Distance || (m.Distance == best.Distance && m.Target < best.Target) {
				best = m
			}
		}
		prev[r.RosterID] = seed[best.Target]
		taken[best.Target] = true
	}
	return prev
}
