package ownership

import (
	"sort"

	"github.com/omarshaarawi/sleeperstats/internal/models"
)

type ChangeKind string

const (
	ChangeTrade ChangeKind = "trade"
	ChangeDrop  ChangeKind = "drop"
	ChangeAdd   ChangeKind = "add"
)

// Change moves a player between rosters. Roster 0 means unknown or none: a
// drop has To 0, and a trade add with no matching drop has From 0 because
// the upstream record does not say where the player came from.
type Change struct {
	Week int
	From int
	To   int
	Kind ChangeKind
}

// Tracker answers point-in-time ownership questions for one season.
type Tracker struct {
	changes map[string][]Change
}

// NewTracker scans the completed trades and waiver moves of a season.
func NewTracker(trades, waivers []models.Transaction) *Tracker {
	txs := make([]models.Transaction, 0, len(trades)+len(waivers))
	for _, tx := range trades {
		if tx.Complete() && tx.Kind == models.KindTrade {
			txs = append(txs, tx)
		}
	}
	for _, tx := range waivers {
		if tx.Complete() && tx.Kind != models.KindTrade {
			txs = append(txs, tx)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool {
		if txs[i].Week != txs[j].Week {
			return txs[i].Week < txs[j].Week
		}
		return txs[i].Created < txs[j].Created
	})

	t := &Tracker{changes: make(map[string][]Change)}
	for _, tx := range txs {
		t.record(tx)
	}
	return t
}

func (t *Tracker) record(tx models.Transaction) {
	trade := tx.Kind == models.KindTrade

	for _, player := range sortedKeys(tx.Adds) {
		kind := ChangeAdd
		if trade {
			kind = ChangeTrade
		}
		t.changes[player] = append(t.changes[player], Change{
			Week: tx.Week,
			From: tx.Drops[player],
			To:   tx.Adds[player],
			Kind: kind,
		})
	}

	for _, player := range sortedKeys(tx.Drops) {
		if _, moved := tx.Adds[player]; moved {
			continue
		}
		t.changes[player] = append(t.changes[player], Change{
			Week: tx.Week,
			From: tx.Drops[player],
			Kind: ChangeDrop,
		})
	}
}

// Changes returns the player's ownership changes ordered by week.
func (t *Tracker) Changes(playerID string) []Change {
	if t == nil {
		return nil
	}
	return append([]Change(nil), t.changes[playerID]...)
}

// WasOwnedBy reports whether rosterID could have started playerID in week.
// It is true unless the player left the roster at or before that week and
// did not come back by then.
func (t *Tracker) WasOwnedBy(playerID string, rosterID, week int) bool {
	if t == nil {
		return true
	}

	owned := true
	for _, c := range t.changes[playerID] {
		if c.Week > week {
			break
		}
		switch rosterID {
		case c.From:
			owned = false
		case c.To:
			owned = true
		}
	}
	return owned
}

// FirstDeparture returns the earliest change taking playerID away from
// rosterID. A trade beats a drop recorded in the same week.
func (t *Tracker) FirstDeparture(playerID string, rosterID int) (Change, bool) {
	if t == nil || rosterID == 0 {
		return Change{}, false
	}

	var first Change
	found := false
	for _, c := range t.changes[playerID] {
		if c.From != rosterID {
			continue
		}
		switch {
		case !found:
			first, found = c, true
		case c.Week == first.Week && c.Kind == ChangeTrade && first.Kind != ChangeTrade:
			first = c
		}
	}
	return first, found
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
