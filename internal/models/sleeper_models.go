package models

// Wire shapes of the Sleeper API. Every field is optional upstream, so
// numbers are pointers and the To* methods are the single place where
// missing values become zero.

type LeagueResponse struct {
	LeagueID         *string         `json:"league_id"`
	Name             *string         `json:"name"`
	Season           *string         `json:"season"`
	Status           *string         `json:"status"`
	PreviousLeagueID *string         `json:"previous_league_id"`
	Settings         *LeagueSettings `json:"settings"`
}

type LeagueSettings struct {
	PlayoffWeekStart *int `json:"playoff_week_start"`
	PlayoffTeams     *int `json:"playoff_teams"`
	PlayoffRoundType *int `json:"playoff_round_type"`
	Divisions        *int `json:"divisions"`
	NumTeams         *int `json:"num_teams"`
	Leg              *int `json:"leg"`
}

type RosterResponse struct {
	RosterID *int            `json:"roster_id"`
	OwnerID  *string         `json:"owner_id"`
	Players  []string        `json:"players"`
	Taxi     []string        `json:"taxi"`
	Reserve  []string        `json:"reserve"`
	Settings *RosterSettings `json:"settings"`
}

type RosterSettings struct {
	Wins               *int     `json:"wins"`
	Losses             *int     `json:"losses"`
	Ties               *int     `json:"ties"`
	Fpts               *float64 `json:"fpts"`
	FptsDecimal        *float64 `json:"fpts_decimal"`
	FptsAgainst        *float64 `json:"fpts_against"`
	FptsAgainstDecimal *float64 `json:"fpts_against_decimal"`
	Division           *int     `json:"division"`
}

type UserResponse struct {
	UserID      *string       `json:"user_id"`
	Username    *string       `json:"username"`
	DisplayName *string       `json:"display_name"`
	Metadata    *UserMetadata `json:"metadata"`
}

type UserMetadata struct {
	TeamName *string `json:"team_name"`
}

type MatchupResponse struct {
	RosterID       *int       `json:"roster_id"`
	MatchupID      *int       `json:"matchup_id"`
	Points         *float64   `json:"points"`
	Starters       []string   `json:"starters"`
	StartersPoints []*float64 `json:"starters_points"`
}

type TransactionResponse struct {
	TransactionID *string        `json:"transaction_id"`
	Type          *string        `json:"type"`
	Status        *string        `json:"status"`
	Leg           *int           `json:"leg"`
	Created       *int64         `json:"created"`
	Adds          map[string]int `json:"adds"`
	Drops         map[string]int `json:"drops"`
	RosterIDs     []int          `json:"roster_ids"`
}

type DraftResponse struct {
	DraftID   *string `json:"draft_id"`
	Season    *string `json:"season"`
	Status    *string `json:"status"`
	StartTime *int64  `json:"start_time"`
}

type DraftPickResponse struct {
	PickNo    *int               `json:"pick_no"`
	Round     *int               `json:"round"`
	DraftSlot *int               `json:"draft_slot"`
	RosterID  *int               `json:"roster_id"`
	PlayerID  *string            `json:"player_id"`
	Metadata  *DraftPickMetadata `json:"metadata"`
}

type DraftPickMetadata struct {
	Position *string `json:"position"`
}

type PlayerResponse struct {
	PlayerID  *string `json:"player_id"`
	FullName  *string `json:"full_name"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Position  *string `json:"position"`
	Team      *string `json:"team"`
}

type StateResponse struct {
	Season      *string `json:"season"`
	Week        *int    `json:"week"`
	DisplayWeek *int    `json:"display_week"`
	SeasonType  *string `json:"season_type"`
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func flt(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func (l LeagueResponse) ToSeason(requestedID string) Season {
	s := Season{
		Season:           str(l.Season),
		LeagueID:         str(l.LeagueID),
		Name:             str(l.Name),
		PreviousLeagueID: str(l.PreviousLeagueID),
	}
	if s.LeagueID == "" {
		s.LeagueID = requestedID
	}
	// Sleeper uses "0" as well as null for "no previous league".
	if s.PreviousLeagueID == "0" {
		s.PreviousLeagueID = ""
	}
	if l.Settings != nil {
		s.Settings = SeasonSettings{
			PlayoffWeekStart: num(l.Settings.PlayoffWeekStart),
			PlayoffTeams:     num(l.Settings.PlayoffTeams),
			PlayoffRoundType: num(l.Settings.PlayoffRoundType),
			Divisions:        num(l.Settings.Divisions),
			NumTeams:         num(l.Settings.NumTeams),
			Leg:              num(l.Settings.Leg),
		}
	}
	return s
}

func (r RosterResponse) ToRoster() Roster {
	roster := Roster{
		RosterID: num(r.RosterID),
		OwnerID:  str(r.OwnerID),
	}

	seen := make(map[string]bool)
	for _, group := range [][]string{r.Players, r.Taxi, r.Reserve} {
		for _, id := range group {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			roster.Players = append(roster.Players, id)
		}
	}

	if s := r.Settings; s != nil {
		roster.Record = RosterRecord{
			Wins:          num(s.Wins),
			Losses:        num(s.Losses),
			Ties:          num(s.Ties),
			PointsFor:     flt(s.Fpts) + flt(s.FptsDecimal)/100,
			PointsAgainst: flt(s.FptsAgainst) + flt(s.FptsAgainstDecimal)/100,
			Division:      num(s.Division),
		}
	}
	return roster
}

func (u UserResponse) ToUser() User {
	user := User{
		UserID:      str(u.UserID),
		Username:    str(u.Username),
		DisplayName: str(u.DisplayName),
	}
	if u.Metadata != nil {
		user.TeamName = str(u.Metadata.TeamName)
	}
	return user
}

func (m MatchupResponse) ToEntry(week int) MatchupEntry {
	entry := MatchupEntry{
		RosterID:       num(m.RosterID),
		MatchupID:      num(m.MatchupID),
		Week:           week,
		Points:         flt(m.Points),
		Starters:       append([]string(nil), m.Starters...),
		StartersPoints: make([]float64, len(m.Starters)),
	}
	for i := range entry.StartersPoints {
		if i < len(m.StartersPoints) {
			entry.StartersPoints[i] = flt(m.StartersPoints[i])
		}
	}
	return entry
}

func (t TransactionResponse) ToTransaction() Transaction {
	tx := Transaction{
		ID:        str(t.TransactionID),
		Kind:      TransactionKind(str(t.Type)),
		Status:    str(t.Status),
		Week:      num(t.Leg),
		Adds:      make(map[string]int, len(t.Adds)),
		Drops:     make(map[string]int, len(t.Drops)),
		RosterIDs: append([]int(nil), t.RosterIDs...),
	}
	if t.Created != nil {
		tx.Created = *t.Created
	}
	if tx.Week == 0 {
		tx.Week = 1
	}
	for k, v := range t.Adds {
		tx.Adds[k] = v
	}
	for k, v := range t.Drops {
		tx.Drops[k] = v
	}
	return tx
}

func (d DraftResponse) ToDraft() Draft {
	var start int64
	if d.StartTime != nil {
		start = *d.StartTime
	}
	return Draft{
		DraftID:   str(d.DraftID),
		Season:    str(d.Season),
		Status:    str(d.Status),
		StartTime: start,
	}
}

func (p DraftPickResponse) ToPick() DraftPick {
	pick := DraftPick{
		PickNo:    num(p.PickNo),
		Round:     num(p.Round),
		DraftSlot: num(p.DraftSlot),
		RosterID:  num(p.RosterID),
		PlayerID:  str(p.PlayerID),
	}
	if p.Metadata != nil {
		pick.Position = str(p.Metadata.Position)
	}
	return pick
}

func (p PlayerResponse) ToPlayer(id string) Player {
	player := Player{
		PlayerID: str(p.PlayerID),
		FullName: str(p.FullName),
		Position: str(p.Position),
		Team:     str(p.Team),
	}
	if player.PlayerID == "" {
		player.PlayerID = id
	}
	if player.FullName == "" {
		first, last := str(p.FirstName), str(p.LastName)
		switch {
		case first != "" && last != "":
			player.FullName = first + " " + last
		default:
			player.FullName = first + last
		}
	}
	return player
}

func (s StateResponse) ToState() NFLState {
	return NFLState{
		Season:      str(s.Season),
		Week:        num(s.Week),
		DisplayWeek: num(s.DisplayWeek),
		SeasonType:  str(s.SeasonType),
	}
}
