package history

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/omarshaarawi/sleeperstats/internal/api/sleeper"
	"github.com/omarshaarawi/sleeperstats/internal/models"
)

type fakeLeague struct {
	season  models.Season
	rosters []models.Roster
	users   []models.User
	weeks   map[int][]models.MatchupEntry
	txs     map[int][]models.Transaction
	drafts  []models.Draft
}

type fakeSource struct {
	mu           sync.Mutex
	leagues      map[string]*fakeLeague
	picks        map[string][]models.DraftPick
	leagueCalls  int32
	matchupCalls map[string]int
	failDrafts   bool
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		leagues:      make(map[string]*fakeLeague),
		picks:        make(map[string][]models.DraftPick),
		matchupCalls: make(map[string]int),
	}
}

func (f *fakeSource) add(l *fakeLeague) {
	f.leagues[l.season.LeagueID] = l
}

func (f *fakeSource) League(_ context.Context, id string) (models.Season, error) {
	atomic.AddInt32(&f.leagueCalls, 1)
	l, ok := f.leagues[id]
	if !ok {
		return models.Season{}, fmt.Errorf("league %s: %w", id, sleeper.ErrNotFound)
	}
	return l.season, nil
}

func (f *fakeSource) Rosters(_ context.Context, id string) ([]models.Roster, error) {
	return f.leagues[id].rosters, nil
}

func (f *fakeSource) Users(_ context.Context, id string) ([]models.User, error) {
	return f.leagues[id].users, nil
}

func (f *fakeSource) Matchups(_ context.Context, id string, week int) ([]models.MatchupEntry, error) {
	f.mu.Lock()
	f.matchupCalls[id]++
	f.mu.Unlock()

	entries, ok := f.leagues[id].weeks[week]
	if !ok {
		return nil, sleeper.ErrNotFound
	}
	return entries, nil
}

func (f *fakeSource) Transactions(_ context.Context, id string, leg int) ([]models.Transaction, error) {
	return f.leagues[id].txs[leg], nil
}

func (f *fakeSource) Drafts(_ context.Context, id string) ([]models.Draft, error) {
	if f.failDrafts {
		return nil, sleeper.ErrNotFound
	}
	return f.leagues[id].drafts, nil
}

func (f *fakeSource) DraftPicks(_ context.Context, draftID string) ([]models.DraftPick, error) {
	picks, ok := f.picks[draftID]
	if !ok {
		return nil, sleeper.ErrNotFound
	}
	return picks, nil
}

func pair(week, matchupID, a int, pa float64, b int, pb float64) []models.MatchupEntry {
	return []models.MatchupEntry{
		{RosterID: a, MatchupID: matchupID, Week: week, Points: pa},
		{RosterID: b, MatchupID: matchupID, Week: week, Points: pb},
	}
}
