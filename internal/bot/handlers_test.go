package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func TestParseDraftArgs(t *testing.T) {
	tests := []struct {
		in     string
		season string
		week   int
		board  bool
	}{
		{"", "", 0, false},
		{"2023", "2023", 0, false},
		{"2023 8", "2023", 8, false},
		{"board 5", "", 5, true},
		{"8 BOARD 2022", "2022", 8, true},
		{"latest", "", 0, false},
	}
	for _, tt := range tests {
		season, week, board := parseDraftArgs(tt.in)
		if season != tt.season || week != tt.week || board != tt.board {
			t.Errorf("parseDraftArgs(%q) = %q, %d, %v; want %q, %d, %v", tt.in, season, week, board, tt.season, tt.week, tt.board)
		}
	}
}

func TestSplitEdit(t *testing.T) {
	tests := []struct {
		in          string
		team, value string
		ok          bool
	}{
		{"Dynasty = The Champs", "Dynasty", "The Champs", true},
		{"carl=#ff0000", "carl", "#ff0000", true},
		{"Dynasty =", "Dynasty", "", true},
		{"= x", "", "x", false},
		{"no separator", "no separator", "", false},
	}
	for _, tt := range tests {
		team, value, ok := splitEdit(tt.in)
		if team != tt.team || value != tt.value || ok != tt.ok {
			t.Errorf("splitEdit(%q) = %q, %q, %v", tt.in, team, value, ok)
		}
	}
}

func TestFromLeagueChat(t *testing.T) {
	bot := &TelegramBot{chatID: -100}

	tests := []struct {
		chat *tgbotapi.Chat
		want bool
	}{
		{&tgbotapi.Chat{ID: -100}, true},
		{&tgbotapi.Chat{ID: 42}, false},
		{nil, false},
	}
	for _, tt := range tests {
		m := &tgbotapi.Message{Text: "/rename Dynasty = Champs", Chat: tt.chat}
		if got := bot.fromLeagueChat(m); got != tt.want {
			t.Errorf("fromLeagueChat(%+v) = %v, want %v", tt.chat, got, tt.want)
		}
	}
}
