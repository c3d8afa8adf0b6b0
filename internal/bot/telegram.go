package bot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/omarshaarawi/sleeperstats/internal/service"
)

const maxImportBytes = 1 << 20

type TelegramBot struct {
	bot        *tgbotapi.BotAPI
	handler    *Handler
	chatID     int64
	httpClient *http.Client
}

func NewTelegramBot(token string, chatID int64, dashboard *service.Dashboard) (*TelegramBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	handler := NewHandler(dashboard)

	return &TelegramBot{
		bot:        bot,
		handler:    handler,
		chatID:     chatID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (t *TelegramBot) Start(ctx context.Context) error {
	slog.Info("Authorized on account", "username", t.bot.Self.UserName)
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			if !t.fromLeagueChat(update.Message) {
				slog.Warn("Ignoring message from another chat", "chat_id", update.Message.Chat.ID)
				continue
			}

			var reply tgbotapi.Chattable
			switch {
			case update.Message.IsCommand():
				reply = t.handler.HandleCommand(ctx, update)
			case update.Message.Document != nil && strings.HasPrefix(update.Message.Caption, "/import"):
				reply = t.handleImport(ctx, update.Message)
			default:
				continue
			}
			if _, err := t.bot.Send(reply); err != nil {
				slog.Error("Error sending message", "error", err)
			}
		case <-ctx.Done():
			return nil
		}
	}
}

// fromLeagueChat reports whether m was sent in the configured chat. Every
// command, including the ones that edit settings, is limited to it.
func (t *TelegramBot) fromLeagueChat(m *tgbotapi.Message) bool {
	return m.Chat != nil && m.Chat.ID == t.chatID
}

func (t *TelegramBot) handleImport(ctx context.Context, m *tgbotapi.Message) tgbotapi.Chattable {
	data, err := t.download(ctx, m.Document.FileID)
	if err != nil {
		slog.Error("Error downloading settings file", "error", err)
		return tgbotapi.NewMessage(m.Chat.ID, fmt.Sprintf("Error downloading file: %v", err))
	}
	return t.handler.HandleImport(ctx, m.Chat.ID, data)
}

func (t *TelegramBot) download(ctx context.Context, fileID string) ([]byte, error) {
	url, err := t.bot.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("resolving file: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching file: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxImportBytes))
}

func (t *TelegramBot) SendMessage(text string) error {
	if t.chatID == 0 {
		slog.Error("Chat ID not set")
		return fmt.Errorf("chat ID not set")
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = "Markdown"
	_, err := t.bot.Send(msg)
	if err != nil {
		slog.Error("Error sending message", "error", err)
	}
	return err
}
