package history

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/omarshaarawi/sleeperstats/internal/models"
	"github.com/omarshaarawi/sleeperstats/internal/repository/memory"
)

// buildTimeout bounds a shared build, which outlives the caller that
// started it.
const buildTimeout = 5 * time.Minute

// Aggregator builds and caches the full history bundle for a league.
type Aggregator struct {
	src         Source
	repo        *memory.Repository
	concurrency int
	group       singleflight.Group

	// gens counts invalidations per league. A build only saves when the
	// count has not moved since it started.
	mu   sync.Mutex
	gens map[string]uint64
}

func NewAggregator(src Source, repo *memory.Repository, concurrency int) *Aggregator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Aggregator{src: src, repo: repo, concurrency: concurrency, gens: make(map[string]uint64)}
}

func (a *Aggregator) generation(leagueID string) uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gens[leagueID]
}

// save stores h unless the league was invalidated after gen was read.
func (a *Aggregator) save(leagueID string, gen uint64, h *models.LeagueHistory) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gens[leagueID] != gen {
		return false
	}
	a.repo.SaveHistory(leagueID, h)
	return true
}

// Load returns the cached bundle for leagueID, building it on first use.
// Concurrent loads of the same league share one build. The build does not
// stop when ctx is cancelled; only this caller stops waiting.
func (a *Aggregator) Load(ctx context.Context, leagueID string) (*models.LeagueHistory, error) {
	if h := a.repo.GetHistory(leagueID); h != nil {
		return h, nil
	}

	ch := a.group.DoChan(leagueID, func() (interface{}, error) {
		if h := a.repo.GetHistory(leagueID); h != nil {
			return h, nil
		}
		gen := a.generation(leagueID)

		buildCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), buildTimeout)
		defer cancel()

		h, err := a.build(buildCtx, leagueID)
		if err != nil {
			return nil, err
		}
		if !a.save(leagueID, gen, h) {
			slog.Info("Discarding superseded history build", "league_id", leagueID)
		}
		return h, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.LeagueHistory), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *Aggregator) Invalidate(leagueID string) {
	a.mu.Lock()
	a.gens[leagueID]++
	a.repo.DeleteHistory(leagueID)
	a.mu.Unlock()
	a.group.Forget(leagueID)
	slog.Info("History cache invalidated", "league_id", leagueID)
}

func (a *Aggregator) Refresh(ctx context.Context, leagueID string) (*models.LeagueHistory, error) {
	a.Invalidate(leagueID)
	return a.Load(ctx, leagueID)
}

func (a *Aggregator) build(ctx context.Context, leagueID string) (*models.LeagueHistory, error) {
	start := time.Now()

	seasons, err := WalkLineage(ctx, a.src, leagueID)
	if err != nil {
		return nil, err
	}

	h := &models.LeagueHistory{
		LeagueID: leagueID,
		Seasons:  make([]*models.SeasonData, 0, len(seasons)),
	}

	for _, season := range seasons {
		data, err := a.aggregateSeason(ctx, season)
		if err != nil {
			return nil, fmt.Errorf("aggregating season %s: %w", season.Season, err)
		}
		h.Seasons = append(h.Seasons, data)
	}

	h.FetchedAt = time.Now()
	slog.Info("League history loaded",
		"league_id", leagueID,
		"seasons", len(h.Seasons),
		"duration", time.Since(start).String(),
	)
	return h, nil
}

// aggregateSeason only returns an error when ctx is done; every upstream
// failure degrades to an empty resource.
func (a *Aggregator) aggregateSeason(ctx context.Context, season models.Season) (*models.SeasonData, error) {
	id := season.LeagueID
	data := &models.SeasonData{
		Season: season,
		Weeks:  make(map[int][]models.MatchupEntry),
	}

	rosters, err := a.src.Rosters(ctx, id)
	if err != nil {
		slog.Warn("Rosters unavailable", "league_id", id, "season", season.Season, "error", err)
	}
	data.Rosters = rosters

	users, err := a.src.Users(ctx, id)
	if err != nil {
		slog.Warn("Users unavailable", "league_id", id, "season", season.Season, "error", err)
	}
	data.Users = users

	var txs []models.Transaction
	if length, known := SeasonLength(season.Settings); known {
		txs, err = a.fetchWeeks(ctx, id, length, data)
	} else {
		txs, err = a.probeWeeks(ctx, id, data)
	}
	if err != nil {
		return nil, err
	}
	splitTransactions(data, txs)

	a.loadDraft(ctx, id, data)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return data, nil
}

type weekResult struct {
	week    int
	entries []models.MatchupEntry
	txs     []models.Transaction
	ok      bool
}

func (a *Aggregator) fetchWeek(ctx context.Context, leagueID string, week int) weekResult {
	res := weekResult{week: week}

	entries, err := a.src.Matchups(ctx, leagueID, week)
	if err != nil {
		slog.Debug("Matchups unavailable", "league_id", leagueID, "week", week, "error", err)
	} else if played(entries) {
		res.entries = entries
		res.ok = true
	}

	txs, err := a.src.Transactions(ctx, leagueID, week)
	if err != nil {
		slog.Debug("Transactions unavailable", "league_id", leagueID, "week", week, "error", err)
	}
	res.txs = txs
	return res
}

// fetchWeeks fetches weeks 1..length concurrently.
func (a *Aggregator) fetchWeeks(ctx context.Context, leagueID string, length int, data *models.SeasonData) ([]models.Transaction, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	var mu sync.Mutex
	results := make([]weekResult, 0, length)

	for week := 1; week <= length; week++ {
		g.Go(func() error {
			res := a.fetchWeek(gctx, leagueID, week)
			if err := gctx.Err(); err != nil {
				return err
			}
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return mergeWeeks(data, results), nil
}

// probeWeeks walks weeks in order until emptyWeeksToStop consecutive weeks
// come back empty or failed.
func (a *Aggregator) probeWeeks(ctx context.Context, leagueID string, data *models.SeasonData) ([]models.Transaction, error) {
	var results []weekResult
	misses := 0

	for week := 1; week <= maxProbeWeeks && misses < emptyWeeksToStop; week++ {
		res := a.fetchWeek(ctx, leagueID, week)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if res.ok {
			misses = 0
		} else {
			misses++
		}
		results = append(results, res)
	}

	return mergeWeeks(data, results), nil
}

func mergeWeeks(data *models.SeasonData, results []weekResult) []models.Transaction {
	var txs []models.Transaction
	for _, res := range results {
		if res.ok {
			data.Weeks[res.week] = res.entries
		}
		txs = append(txs, res.txs...)
	}
	return txs
}

// played reports whether any roster scored; future weeks come back as
// zero-point placeholders.
func played(entries []models.MatchupEntry) bool {
	for _, e := range entries {
		if e.Points != 0 {
			return true
		}
	}
	return false
}

// splitTransactions keeps trades and waiver/free-agent moves in
// chronological order so results do not depend on fetch order.
func splitTransactions(data *models.SeasonData, txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Week != txs[j].Week {
			return txs[i].Week < txs[j].Week
		}
		if txs[i].Created != txs[j].Created {
			return txs[i].Created < txs[j].Created
		}
		return txs[i].ID < txs[j].ID
	})
	seen := make(map[string]bool, len(txs))

	for _, tx := range txs {
		if tx.ID != "" {
			if seen[tx.ID] {
				continue
			}
			seen[tx.ID] = true
		}
		switch tx.Kind {
		case models.KindTrade:
			data.Trades = append(data.Trades, tx)
		case models.KindWaiver, models.KindFreeAgent:
			data.Waivers = append(data.Waivers, tx)
		}
	}
}

func (a *Aggregator) loadDraft(ctx context.Context, leagueID string, data *models.SeasonData) {
	drafts, err := a.src.Drafts(ctx, leagueID)
	if err != nil {
		slog.Warn("Drafts unavailable", "league_id", leagueID, "error", err)
		return
	}

	draft, ok := mostRecentDraft(drafts)
	if !ok {
		return
	}

	picks, err := a.src.DraftPicks(ctx, draft.DraftID)
	if err != nil {
		slog.Warn("Draft picks unavailable", "league_id", leagueID, "draft_id", draft.DraftID, "error", err)
		return
	}

	data.DraftPicks = picks
	data.HasDraft = len(picks) > 0
}

func mostRecentDraft(drafts []models.Draft) (models.Draft, bool) {
	var best models.Draft
	found := false
	for _, d := range drafts {
		if d.DraftID == "" {
			continue
		}
		if !found || d.StartTime > best.StartTime {
			best = d
			found = true
		}
	}
	return best, found
}
