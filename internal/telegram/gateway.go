package telegram

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	requestTimeout = 10 * time.Second
	pollTimeout    = 5

	msgConnected = "<b>✅ Telegram успешно подключен!</b>\n\n" +
		"Теперь вы будете получать уведомления о ваших задачах прямо в Telegram."
	msgWelcome = "<b>👋 Добро пожаловать в TaskBuddy Bot!</b>\n\n" +
		"Для подключения уведомлений используйте ссылку из настроек профиля."
)

// ChatBinder stores the Telegram chat of a user. It reports false for unknown users.
type ChatBinder interface {
	BindTelegramChat(ctx context.Context, userID uint, chatID int64) (bool, error)
}

// Gateway talks to the Telegram Bot API: it sends messages and handles
// incoming updates that link a chat to an account.
type Gateway struct {
	api    *tgbotapi.BotAPI
	binder ChatBinder
	logger *slog.Logger
}

// New builds a gateway. An empty token yields a gateway whose sends always
// report false. endpoint is a tgbotapi endpoint format; empty means the public API.
func New(token, endpoint string, binder ChatBinder, logger *slog.Logger) *Gateway {
	g := &Gateway{binder: binder, logger: logger}
	if token == "" {
		return g
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}

	// Built by hand so startup does not depend on a getMe round trip.
	api := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: requestTimeout},
		Buffer: 100,
	}
	api.SetAPIEndpoint(endpoint)
	g.api = api
	return g
}

func (g *Gateway) Enabled() bool {
	return g.api != nil
}

// SendMessage sends an HTML message and reports whether Telegram accepted it.
// It makes one attempt and never returns an error.
func (g *Gateway) SendMessage(ctx context.Context, chatID int64, text string) bool {
	if g.api == nil {
		g.logger.Debug("[Telegram] Bot token not configured, message dropped", "chat_id", chatID)
		return false
	}
	if ctx.Err() != nil {
		return false
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true

	if _, err := g.api.Send(msg); err != nil {
		g.logger.Warn("⚠️ [Telegram] sendMessage failed", "chat_id", chatID, "error", err)
		return false
	}
	return true
}

// HandleUpdate processes one incoming update. "/start <user id>" binds the
// chat to that user; a bare or unusable /start gets the generic welcome.
// Everything else is ignored.
func (g *Gateway) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Chat.ID == 0 {
		return
	}

	command, arg := parseCommand(msg.Text)
	if command != "start" {
		return
	}

	chatID := msg.Chat.ID
	if arg == "" {
		g.SendMessage(ctx, chatID, msgWelcome)
		return
	}

	userID, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || userID == 0 {
		g.logger.Warn("⚠️ [Telegram] Bad /start payload", "chat_id", chatID, "payload", arg)
		g.SendMessage(ctx, chatID, msgWelcome)
		return
	}

	bound, err := g.binder.BindTelegramChat(ctx, uint(userID), chatID)
	if err != nil {
		g.logger.Error("❌ [Telegram] Failed to bind chat", "chat_id", chatID, "user_id", userID, "error", err)
		return
	}
	if !bound {
		g.logger.Warn("⚠️ [Telegram] /start for unknown user", "chat_id", chatID, "user_id", userID)
		g.SendMessage(ctx, chatID, msgWelcome)
		return
	}

	g.logger.Info("🔗 [Telegram] Chat linked", "chat_id", chatID, "user_id", userID)
	g.SendMessage(ctx, chatID, msgConnected)
}

// Poll fetches updates with getUpdates until ctx is cancelled. It is the
// alternative to the webhook for deployments without a public URL.
func (g *Gateway) Poll(ctx context.Context) error {
	if g.api == nil {
		return errors.New("telegram bot token not configured")
	}

	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = pollTimeout

	g.logger.Info("[Telegram] Start polling updates")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		updates, err := g.api.GetUpdates(cfg)
		if err != nil {
			g.logger.Warn("⚠️ [Telegram] getUpdates failed", "error", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, update := range updates {
			if update.UpdateID >= cfg.Offset {
				cfg.Offset = update.UpdateID + 1
			}
			g.HandleUpdate(ctx, update)
		}
	}
}

// parseCommand splits "/cmd@bot arg ..." into "cmd" and the first argument.
func parseCommand(text string) (string, string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", ""
	}
	command := strings.TrimPrefix(fields[0], "/")
	if at := strings.Index(command, "@"); at >= 0 {
		command = command[:at]
	}
	var arg string
	if len(fields) > 1 {
		arg = fields[1]
	}
	return strings.ToLower(command), arg
}
