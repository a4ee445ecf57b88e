package bot

import (
	"context"
	"fmt"

	"hayami/internal/linkext"
	"hayami/internal/models"
	"hayami/internal/platform"
	"hayami/internal/telegram"
)

// handleCallback handles the "Post!" button under a duplicate warning: the
// user insists on posting an artwork that is already known. The posting is
// recorded but never becomes the original.
func (h *Handler) handleCallback(ctx context.Context, query *telegram.CallbackQuery) error {
	if query.Data != "post" || query.Message == nil {
		return nil
	}
	msg := query.Message

	if err := h.sender.AnswerCallbackQuery(ctx, query.ID); err != nil {
		h.log.ErrorContext(ctx, "answer callback failed", "error", err)
	}

	user, err := h.users.Get(ctx, msg.Chat.ID)
	if err != nil {
		if models.CodeOf(err) == models.CodeNotFound {
			h.replyError(ctx, msg, "The bot doesn\\'t know you\\! Send /start\\.")
			return nil
		}
		return err
	}
	if !user.ForwardMode {
		h.replyError(ctx, msg,
			"Forwarding mode is turned off\\! Please, turn it on to proceed\\.")
		return nil
	}
	channel, err := h.channels.Owned(ctx, user.ID)
	if err != nil {
		if models.CodeOf(err) == models.CodeNotFound {
			h.replyError(ctx, msg, "You have no channel\\! Send /channel\\.")
			return nil
		}
		return err
	}

	// the warning message carries the artwork link as its first entity
	link, ok := warnedLink(msg)
	if !ok {
		h.replyError(ctx, msg, "Couldn\\'t get this content\\!")
		return nil
	}

	media, err := h.fetchers.Fetch(ctx, link.Type, link.ID)
	if err != nil {
		h.replyError(ctx, msg, "Couldn\\'t get this content\\!")
		return nil
	}

	switch link.Type {
	case platform.Twitter:
		if err := h.publishTwitter(ctx, msg, user, channel, media); err != nil {
			return err
		}
	case platform.Pixiv:
		if err := h.publishPixiv(ctx, msg, user, channel, media, nil); err != nil {
			return err
		}
	}

	err = h.sender.EditMessageText(ctx, msg.Chat.ID, msg.MessageID,
		fmt.Sprintf("~This [artwork](%s) was already posted~\\.\n\n"+
			"`\\[` *POST HAS BEEN POSTED\\.* `\\]`", esc(link.URL)),
		parseModeMarkdownV2)
	if err != nil {
		h.log.ErrorContext(ctx, "edit warning failed", "error", err)
	}
	return nil
}

// warnedLink recovers the warned artwork reference from the entities of the
// warning message.
func warnedLink(msg *telegram.Message) (linkext.Link, bool) {
	for _, entity := range msg.Entities {
		if entity.URL == "" {
			continue
		}
		if links := linkext.Extract(entity.URL); len(links) == 1 {
			return links[0], true
		}
	}
	return linkext.Link{}, false
}
