package draft

import (
	"sort"

	"github.com/omarshaarawi/sleeperstats/internal/models"
)

type BoardCell struct {
	Pick   models.DraftPick
	Rating PickRating
	Rated  bool
	Filled bool
}

// Board is the round-by-team grid of a draft. Columns follow the first
// round's order; on a snake draft even rounds read right to left.
type Board struct {
	Teams  []int
	Rounds int
	Snake  bool
	Cells  [][]BoardCell // [round-1][column]
}

func BuildBoard(picks []models.DraftPick, ratings []PickRating) Board {
	if len(picks) == 0 {
		return Board{}
	}

	sorted := append([]models.DraftPick(nil), picks...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PickNo < sorted[j].PickNo })

	numTeams := countTeams(sorted)
	firstRound := sorted[:min(numTeams, len(sorted))]

	b := Board{
		Teams:  make([]int, len(firstRound)),
		Rounds: (len(sorted) + numTeams - 1) / numTeams,
	}
	for i, p := range firstRound {
		b.Teams[i] = p.RosterID
	}
	if len(sorted) > numTeams {
		b.Snake = sorted[numTeams].RosterID == firstRound[len(firstRound)-1].RosterID
	}

	column := make(map[int]int, len(b.Teams))
	for i, id := range b.Teams {
		column[id] = i
	}
	byPick := make(map[int]PickRating, len(ratings))
	for _, r := range ratings {
		byPick[r.PickNo] = r
	}

	b.Cells = make([][]BoardCell, b.Rounds)
	for i := range b.Cells {
		b.Cells[i] = make([]BoardCell, len(b.Teams))
	}

	for _, p := range sorted {
		round := p.Round
		if round == 0 {
			round = (p.PickNo + numTeams - 1) / numTeams
		}
		col, ok := column[p.RosterID]
		if !ok || round < 1 || round > b.Rounds || b.Cells[round-1][col].Filled {
			continue
		}
		r, rated := byPick[p.PickNo]
		b.Cells[round-1][col] = BoardCell{Pick: p, Rating: r, Rated: rated, Filled: true}
	}
	return b
}

// Row returns a round's cells in draft order.
func (b Board) Row(round int) []BoardCell {
	if round < 1 || round > len(b.Cells) {
		return nil
	}
	row := append([]BoardCell(nil), b.Cells[round-1]...)
	if b.Snake && round%2 == 0 {
		for i, j := 0, len(row)-1; i < j; i, j = i+1, j-1 {
			row[i], row[j] = row[j], row[i]
		}
	}
	return row
}
