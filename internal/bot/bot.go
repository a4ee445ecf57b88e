// Package bot routes Telegram updates to the artwork, user, and channel
// services and answers in MarkdownV2.
package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"hayami/internal/observability"
	"hayami/internal/platform"
	"hayami/internal/service"
	"hayami/internal/telegram"
)

// Sender is the Bot API surface the handlers use. *telegram.Client satisfies
// it; tests plug in a recorder.
type Sender interface {
	SendMessage(ctx context.Context, params telegram.SendMessageParams) (*telegram.Message, error)
	ForwardMessage(ctx context.Context, chatID, fromChatID, messageID int64) (*telegram.Message, error)
	SendMediaGroup(ctx context.Context, chatID int64, media []telegram.InputMediaPhoto, replyTo int64) ([]telegram.Message, error)
	SendDocument(ctx context.Context, chatID int64, url string, replyTo int64) (*telegram.Message, error)
	EditMessageText(ctx context.Context, chatID, messageID int64, text, parseMode string) error
	AnswerCallbackQuery(ctx context.Context, queryID string) error
	GetChatMember(ctx context.Context, chatID, userID int64) (*telegram.ChatMember, error)
}

// Handler dispatches incoming updates.
type Handler struct {
	sender   Sender
	users    *service.UserService
	channels *service.ChannelService
	artworks *service.ArtworkService
	fetchers platform.Registry

	botID   int64
	ownerID int64

	log *observability.Logger

	// users who ran /channel and owe us a forwarded channel message
	pendingClaims sync.Map // int64 -> struct{}
}

// New creates the update handler. botID is the numeric part of the bot token;
// it is needed to check the bot's own admin rights in claimed channels.
func New(sender Sender, users *service.UserService, channels *service.ChannelService,
	artworks *service.ArtworkService, fetchers platform.Registry, botID, ownerID int64) *Handler {
	return &Handler{
		sender:   sender,
		users:    users,
		channels: channels,
		artworks: artworks,
		fetchers: fetchers,
		botID:    botID,
		ownerID:  ownerID,
		log:      observability.Component("bot"),
	}
}

// BotIDFromToken extracts the numeric bot id prefix of a bot token.
func BotIDFromToken(token string) int64 {
	head, _, found := strings.Cut(token, ":")
	if !found {
		return 0
	}
	var id int64
	fmt.Sscanf(head, "%d", &id)
	return id
}

// HandleUpdate processes one incoming update. Errors are reported to the
// user inside the handlers; the returned error covers only failures the
// handlers could not answer.
func (h *Handler) HandleUpdate(ctx context.Context, update *telegram.Update) error {
	ctx = observability.WithCorrelationID(ctx, observability.GenerateCorrelationID())

	switch {
	case update.CallbackQuery != nil:
		return h.handleCallback(ctx, update.CallbackQuery)
	case update.ChannelPost != nil:
		return h.handleChannelPost(ctx, update.ChannelPost)
	case update.Message != nil:
		msg := update.Message
		if cmd, ok := command(msg); ok {
			return h.handleCommand(ctx, msg, cmd)
		}
		return h.handleMessage(ctx, msg)
	}
	return nil
}

// command extracts a leading /command from a message, dropping a @botname
// suffix.
func command(msg *telegram.Message) (string, bool) {
	text := msg.Text
	if !strings.HasPrefix(text, "/") {
		return "", false
	}
	name, _, _ := strings.Cut(text[1:], " ")
	name, _, _ = strings.Cut(name, "@")
	return name, name != ""
}

func (h *Handler) reply(ctx context.Context, msg *telegram.Message, text string) {
	_, err := h.sender.SendMessage(ctx, telegram.SendMessageParams{
		ChatID:           msg.Chat.ID,
		Text:             text,
		ParseMode:        parseModeMarkdownV2,
		ReplyToMessageID: msg.MessageID,
	})
	if err != nil {
		h.log.ErrorContext(ctx, "reply failed", "error", err)
	}
}

func (h *Handler) replyError(ctx context.Context, msg *telegram.Message, text string) {
	h.reply(ctx, msg, "\\[`ERROR`\\] "+text)
}
