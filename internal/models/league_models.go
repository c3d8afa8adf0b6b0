package models

import (
	"sort"
	"strconv"
	"time"
)

type SeasonSettings struct {
	PlayoffWeekStart int
	PlayoffTeams     int
	PlayoffRoundType int
	Divisions        int
	NumTeams         int
	Leg              int
}

type Season struct {
	Season           string
	LeagueID         string
	Name             string
	PreviousLeagueID string
	Settings         SeasonSettings
}

// Year returns the numeric season, or 0 when the upstream value is not a year.
func (s Season) Year() int {
	y, err := strconv.Atoi(s.Season)
	if err != nil {
		return 0
	}
	return y
}

type RosterRecord struct {
	Wins          int
	Losses        int
	Ties          int
	PointsFor     float64
	PointsAgainst float64
	Division      int
}

type Roster struct {
	RosterID int
	OwnerID  string
	Players  []string
	Record   RosterRecord
}

type User struct {
	UserID      string
	Username    string
	DisplayName string
	TeamName    string
}

// MatchupEntry is one roster's line for one week. MatchupID 0 is a bye.
type MatchupEntry struct {
	RosterID       int
	MatchupID      int
	Week           int
	Points         float64
	Starters       []string
	StartersPoints []float64
}

type TransactionKind string

const (
	KindTrade        TransactionKind = "trade"
	KindWaiver       TransactionKind = "waiver"
	KindFreeAgent    TransactionKind = "free_agent"
	KindCommissioner TransactionKind = "commissioner"
)

const StatusComplete = "complete"

type Transaction struct {
	ID        string
	Kind      TransactionKind
	Status    string
	Week      int
	Created   int64
	Adds      map[string]int
	Drops     map[string]int
	RosterIDs []int
}

func (t Transaction) Complete() bool {
	return t.Status == StatusComplete
}

type Draft struct {
	DraftID   string
	Season    string
	Status    string
	StartTime int64
}

type DraftPick struct {
	PickNo    int
	Round     int
	DraftSlot int
	RosterID  int
	PlayerID  string
	Position  string
}

type Player struct {
	PlayerID string
	FullName string
	Position string
	Team     string
}

type NFLState struct {
	Season      string
	Week        int
	DisplayWeek int
	SeasonType  string
	LastUpdated time.Time
}

// SeasonData is everything aggregated for one season of a league lineage.
type SeasonData struct {
	Season     Season
	Rosters    []Roster
	Users      []User
	Weeks      map[int][]MatchupEntry
	Trades     []Transaction
	Waivers    []Transaction
	DraftPicks []DraftPick
	HasDraft   bool
}

func (d *SeasonData) SortedWeeks() []int {
	weeks := make([]int, 0, len(d.Weeks))
	for w := range d.Weeks {
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)
	return weeks
}

func (d *SeasonData) Roster(rosterID int) (Roster, bool) {
	for _, r := range d.Rosters {
		if r.RosterID == rosterID {
			return r, true
		}
	}
	return Roster{}, false
}

func (d *SeasonData) RosterIDs() []int {
	ids := make([]int, len(d.Rosters))
	for i, r := range d.Rosters {
		ids[i] = r.RosterID
	}
	return ids
}

func (d *SeasonData) User(userID string) (User, bool) {
	for _, u := range d.Users {
		if u.UserID == userID {
			return u, true
		}
	}
	return User{}, false
}

// LastWeek is the highest week with matchup data, or 0.
func (d *SeasonData) LastWeek() int {
	last := 0
	for w := range d.Weeks {
		if w > last {
			last = w
		}
	}
	return last
}

// LeagueHistory is the cached bundle for one top-level league id.
// Seasons are ordered newest first.
type LeagueHistory struct {
	LeagueID  string
	Seasons   []*SeasonData
	FetchedAt time.Time
}

func (h *LeagueHistory) Season(season string) (*SeasonData, bool) {
	if h == nil {
		return nil, false
	}
	for _, s := range h.Seasons {
		if s.Season.Season == season {
			return s, true
		}
	}
	return nil, false
}

func (h *LeagueHistory) Current() (*SeasonData, bool) {
	if h == nil || len(h.Seasons) == 0 {
		return nil, false
	}
	return h.Seasons[0], true
}
