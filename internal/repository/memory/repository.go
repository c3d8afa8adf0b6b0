package memory

import (
	"sync"
	"time"

	"github.com/omarshaarawi/sleeperstats/internal/models"
)

type playerTable struct {
	players     map[string]models.Player
	lastUpdated time.Time
}

// Repository caches league history bundles, the player table and the NFL
// state for the lifetime of the process.
type Repository struct {
	histories map[string]*models.LeagueHistory
	players   *playerTable
	state     *models.NFLState
	mu        sync.RWMutex
}

func NewRepository() *Repository {
	return &Repository{
		histories: make(map[string]*models.LeagueHistory),
	}
}

func (r *Repository) SaveHistory(leagueID string, history *models.LeagueHistory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.histories[leagueID] = history
}

func (r *Repository) GetHistory(leagueID string) *models.LeagueHistory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.histories[leagueID]
}

func (r *Repository) DeleteHistory(leagueID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.histories, leagueID)
}

func (r *Repository) SavePlayers(players map[string]models.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players = &playerTable{players: players, lastUpdated: time.Now()}
}

// GetPlayers returns the cached table and when it was stored.
func (r *Repository) GetPlayers() (map[string]models.Player, time.Time) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.players == nil {
		return nil, time.Time{}
	}
	return r.players.players, r.players.lastUpdated
}

func (r *Repository) SaveState(state *models.NFLState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state = state
}

func (r *Repository) GetState() *models.NFLState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}
