package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/omarshaarawi/sleeperstats/internal/service"
)

const helpText = `Available commands:
/power - Power rankings for the current week
/standings - Current standings
/recap [week] - Final scores and trophies for a week
/close - Games still within 16 points this week
/history [season] - Manager records, all seasons by default
/awards [season|all] - Season awards or all-time records
/draft [season] [week] [board] - Draft grades and best picks
/team <team> - A team's career
/rename <team> = <name> - Set a team's display name
/color <team> = <#hex> - Set a team's color
/exclude <team> = <season> - Toggle a season out of a team's history
/note <team> = <text> - Attach a note to a team's standings row
/refresh - Reload league history from Sleeper
/export - Download settings as JSON
Send a settings file with the caption /import to restore it.`

type Handler struct {
	dashboard *service.Dashboard
}

func NewHandler(dashboard *service.Dashboard) *Handler {
	return &Handler{dashboard: dashboard}
}

func (h *Handler) HandleCommand(ctx context.Context, update tgbotapi.Update) tgbotapi.Chattable {
	chatID := update.Message.Chat.ID
	msg := tgbotapi.NewMessage(chatID, "")
	command := strings.ToLower(update.Message.Command())
	args := strings.TrimSpace(update.Message.CommandArguments())
	msg.ParseMode = "Markdown"

	switch command {
	case "start":
		msg.Text = "Welcome to SleeperStats! Use /help to see available commands."
	case "help":
		msg.Text = helpText
		msg.ParseMode = ""
	case "power":
		h.reply(&msg, "power rankings", func() (string, error) { return h.dashboard.PowerRankingsReport(ctx) })
	case "standings":
		h.reply(&msg, "standings", func() (string, error) { return h.dashboard.Standings(ctx) })
	case "recap":
		week, _ := strconv.Atoi(args)
		h.reply(&msg, "recap", func() (string, error) { return h.dashboard.WeekRecap(ctx, week) })
	case "close":
		h.reply(&msg, "close games", func() (string, error) { return h.dashboard.CloseGames(ctx) })
	case "history":
		h.reply(&msg, "manager history", func() (string, error) { return h.dashboard.ManagerHistoryReport(ctx, args) })
	case "awards":
		h.reply(&msg, "awards", func() (string, error) { return h.dashboard.AwardsReport(ctx, args) })
	case "draft":
		season, week, board := parseDraftArgs(args)
		h.reply(&msg, "draft report", func() (string, error) { return h.dashboard.DraftReport(ctx, season, week, board) })
	case "team":
		if args == "" {
			msg.Text = "Please provide a team name. Usage: /team <team name>"
			break
		}
		h.reply(&msg, "team", func() (string, error) { return h.dashboard.TeamCareer(ctx, args) })
	case "rename", "color", "exclude", "note":
		h.handleEdit(ctx, &msg, command, args)
	case "refresh":
		if err := h.dashboard.Refresh(ctx); err != nil {
			msg.Text = fmt.Sprintf("Error refreshing league history: %v", err)
		} else {
			msg.Text = "League history reloaded."
		}
	case "export":
		return h.handleExport(ctx, chatID, &msg)
	default:
		msg.Text = "Unknown command. Use /help to see available commands."
	}

	return msg
}

func (h *Handler) reply(msg *tgbotapi.MessageConfig, what string, report func() (string, error)) {
	text, err := report()
	if err != nil {
		msg.Text = fmt.Sprintf("Error fetching %s: %v", what, err)
		msg.ParseMode = ""
	} else {
		msg.Text = text
	}
}

// parseDraftArgs reads "[season] [week] [board]" in any order: a four digit
// number is a season, a smaller one a week.
func parseDraftArgs(args string) (season string, week int, board bool) {
	for _, f := range strings.Fields(args) {
		if strings.EqualFold(f, "board") {
			board = true
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			continue
		}
		if n >= 1000 {
			season = f
		} else {
			week = n
		}
	}
	return season, week, board
}

// splitEdit splits "<team> = <value>".
func splitEdit(args string) (string, string, bool) {
	team, value, ok := strings.Cut(args, "=")
	team, value = strings.TrimSpace(team), strings.TrimSpace(value)
	return team, value, ok && team != ""
}

func (h *Handler) handleEdit(ctx context.Context, msg *tgbotapi.MessageConfig, command, args string) {
	msg.ParseMode = ""
	team, value, ok := splitEdit(args)
	if !ok {
		msg.Text = fmt.Sprintf("Usage: /%s <team> = <value>", command)
		return
	}

	var err error
	switch command {
	case "rename":
		_, err = h.dashboard.SetTeamName(ctx, team, value)
		msg.Text = fmt.Sprintf("Renamed %s to %s.", team, value)
		if value == "" {
			msg.Text = fmt.Sprintf("Cleared the custom name for %s.", team)
		}
	case "color":
		_, err = h.dashboard.SetTeamColor(ctx, team, value)
		msg.Text = fmt.Sprintf("Set %s's color to %s.", team, value)
	case "exclude":
		var excluded bool
		excluded, err = h.dashboard.ToggleExclusion(ctx, team, value)
		if excluded {
			msg.Text = fmt.Sprintf("%s no longer counts toward %s's history.", value, team)
		} else {
			msg.Text = fmt.Sprintf("%s counts toward %s's history again.", value, team)
		}
	case "note":
		err = h.dashboard.SetNoteForTeam(ctx, team, value)
		msg.Text = fmt.Sprintf("Saved note for %s.", team)
	}
	if err != nil {
		msg.Text = fmt.Sprintf("Error saving %s: %v", command, err)
	}
}

func (h *Handler) handleExport(ctx context.Context, chatID int64, msg *tgbotapi.MessageConfig) tgbotapi.Chattable {
	data, err := h.dashboard.ExportSettings(ctx)
	if err != nil {
		msg.Text = fmt.Sprintf("Error exporting settings: %v", err)
		msg.ParseMode = ""
		return *msg
	}
	name := fmt.Sprintf("sleeperstats-%s-%s.json", h.dashboard.LeagueID(), time.Now().Format("2006-01-02"))
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: name, Bytes: data})
	doc.Caption = "League settings export. Send it back with the caption /import to restore."
	return doc
}

// HandleImport applies an uploaded settings bundle.
func (h *Handler) HandleImport(ctx context.Context, chatID int64, data []byte) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, "Settings imported.")
	if err := h.dashboard.ImportSettings(ctx, data); err != nil {
		msg.Text = fmt.Sprintf("Error importing settings: %v", err)
	}
	return msg
}
