package settings

import (
	"context"
	"encoding/json"
	"fmt"
)

// LatestRanks walks back from beforeWeek-1 to week 1 and returns the first
// stored snapshot.
func (s *Store) LatestRanks(ctx context.Context, leagueID string, beforeWeek int) (map[int]int, bool, error) {
	for week := beforeWeek - 1; week >= 1; week-- {
		data, ok, err := s.kv.Get(ctx, ranksKey(leagueID, week))
		if err != nil {
			return nil, false, fmt.Errorf("reading week %d ranks: %w", week, err)
		}
		if !ok {
			continue
		}
		var ranks map[int]int
		if err := json.Unmarshal(data, &ranks); err != nil {
			return nil, false, fmt.Errorf("decoding week %d ranks: %w", week, err)
		}
		return ranks, true, nil
	}
	return nil, false, nil
}

func (s *Store) SaveRanks(ctx context.Context, leagueID string, week int, ranks map[int]int) error {
	return s.setJSON(ctx, ranksKey(leagueID, week), ranks)
}

// SeedRanks returns the one-shot snapshot keyed by team display name.
func (s *Store) SeedRanks(ctx context.Context, leagueID string) (map[string]int, bool, error) {
	data, ok, err := s.kv.Get(ctx, seedKey(leagueID))
	if err != nil || !ok {
		return nil, false, err
	}
	var seed map[string]int
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, false, fmt.Errorf("decoding seed ranks: %w", err)
	}
	return seed, true, nil
}

// SaveSeed stores a name-keyed snapshot to compare against on the next
// computation, used when carrying ranks over from another source.
func (s *Store) SaveSeed(ctx context.Context, leagueID string, ranks map[string]int) error {
	return s.setJSON(ctx, seedKey(leagueID), ranks)
}

func (s *Store) DeleteSeed(ctx context.Context, leagueID string) error {
	return s.kv.Delete(ctx, seedKey(leagueID))
}
