package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hayami/internal/linkext"
	"hayami/internal/models"
	"hayami/internal/platform"
	"hayami/internal/selection"
	"hayami/internal/service"
	"hayami/internal/telegram"
)

func (h *Handler) handleMessage(ctx context.Context, msg *telegram.Message) error {
	// a pending /channel handshake consumes the next forwarded message
	if _, ok := h.pendingClaims.Load(msg.Chat.ID); ok && msg.ForwardFromChat != nil {
		return h.claimChannel(ctx, msg)
	}

	text := msg.Content()
	if text == "" {
		return nil
	}

	user, err := h.users.Get(ctx, msg.Chat.ID)
	if err != nil {
		if models.CodeOf(err) == models.CodeNotFound {
			h.replyError(ctx, msg, "The bot doesn\\'t know you\\! Send /start\\.")
			return nil
		}
		return err
	}

	if links := linkext.Extract(text); len(links) > 0 {
		return h.handleLinks(ctx, msg, user, links)
	}
	if linkext.IsSelection(text) {
		return h.handleSelection(ctx, msg, user, text)
	}
	return nil
}

func (h *Handler) handleLinks(ctx context.Context, msg *telegram.Message, user *models.User, links []linkext.Link) error {
	if len(links) > 1 {
		keep := links[:0]
		dropped := false
		for _, link := range links {
			if link.Type == platform.Pixiv {
				dropped = true
				continue
			}
			keep = append(keep, link)
		}
		if dropped {
			h.replyError(ctx, msg, "Can\\'t process pixiv links in batch mode\\.")
		}
		links = keep
	}

	if !user.ForwardMode {
		return h.sendToChat(ctx, msg, user, links)
	}

	channel, err := h.channels.Owned(ctx, user.ID)
	if err != nil {
		if models.CodeOf(err) == models.CodeNotFound {
			h.replyError(ctx, msg, "You have no channel\\! Send /channel\\.")
			return nil
		}
		return err
	}

	if msg.Forwarded() {
		return h.forwardToChannel(ctx, msg, user, channel, links)
	}
	return h.postToChannel(ctx, msg, user, channel, links)
}

// sendToChat answers link messages in place without touching any channel.
func (h *Handler) sendToChat(ctx context.Context, msg *telegram.Message, user *models.User, links []linkext.Link) error {
	for _, link := range links {
		media, err := h.fetchers.Fetch(ctx, link.Type, link.ID)
		if err != nil {
			h.replyError(ctx, msg, "Couldn\\'t get this content\\!")
			continue
		}

		switch link.Type {
		case platform.Twitter:
			if user.ReplyMode {
				h.reply(ctx, msg, esc(media.Link))
			}
			h.sendDocuments(ctx, msg.Chat.ID, msg.MessageID, media, nil)
		case platform.Pixiv:
			if len(media.Links) > 1 {
				if err := h.promptSelection(ctx, msg, user, media); err != nil {
					return err
				}
				continue
			}
			if user.ReplyMode {
				h.sendAlbum(ctx, msg.Chat.ID, msg.MessageID, media, nil, user.PixivStyle)
				h.reply(ctx, msg, "Sending a file\\.\\.\\.")
			}
			h.sendDocuments(ctx, msg.Chat.ID, msg.MessageID, media, nil)
		}
	}
	return nil
}

// forwardToChannel relays an already existing message to the user's channel
// and records the posting as forwarded.
func (h *Handler) forwardToChannel(ctx context.Context, msg *telegram.Message, user *models.User,
	channel *models.Channel, links []linkext.Link) error {
	if msg.MediaGroupID != "" {
		h.replyError(ctx, msg,
			"Unfortunately, bots can\\'t *forward* messages with more than 1 "+
				"media \\(photo/video\\) just yet\\. But they can *post* them\\! "+
				"So, please, *for now*, forward this kind of messages yourself\\.")
		return nil
	}
	if len(links) != 1 {
		h.replyError(ctx, msg, "Only *one link* is allowed for forwarding\\!")
		return nil
	}
	link := links[0]

	// metadata failures must not block the forward itself
	var files []string
	media, fetchErr := h.fetchers.Fetch(ctx, link.Type, link.ID)
	if fetchErr == nil {
		files = platform.MediaIDs(media)
	}

	post, err := h.sender.ForwardMessage(ctx, channel.ID, msg.Chat.ID, msg.MessageID)
	if err != nil {
		h.replyError(ctx, msg, "Couldn\\'t forward this message\\!")
		return nil
	}

	in := service.RecordPostInput{
		Platform:    link.Type,
		AID:         link.ID,
		Files:       files,
		ChannelID:   channel.ID,
		PostID:      post.MessageID,
		PostDate:    post.Time(),
		IsForwarded: true,
	}
	if msg.ForwardFromChat != nil {
		in.ForwardedFromChannelID = &msg.ForwardFromChat.ID
	}
	if _, _, err := h.artworks.RecordPost(ctx, in); err != nil {
		return err
	}

	if user.ReplyMode {
		h.reply(ctx, msg, "Forwarded\\!\n"+esc(link.URL))
	}
	if user.MediaMode {
		if fetchErr != nil {
			h.replyError(ctx, msg, "Couldn\\'t get this content\\!")
		} else {
			h.sendSourceMedia(ctx, channel.ID, post.MessageID, media)
		}
	}
	return nil
}

// postToChannel publishes fresh links to the user's channel, warning first
// when the artwork is already known.
func (h *Handler) postToChannel(ctx context.Context, msg *telegram.Message, user *models.User,
	channel *models.Channel, links []linkext.Link) error {
	for _, link := range links {
		known, err := h.artworks.IsKnown(ctx, link.Type, link.ID)
		if err != nil {
			return err
		}
		if known {
			h.warnDuplicate(ctx, msg, link)
			continue
		}

		media, err := h.fetchers.Fetch(ctx, link.Type, link.ID)
		if err != nil {
			h.replyError(ctx, msg, "Couldn\\'t get this content\\!")
			continue
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
	}
	return nil
}

func (h *Handler) publishTwitter(ctx context.Context, msg *telegram.Message, user *models.User,
	channel *models.Channel, media *platform.ArtworkMedia) error {
	post, err := h.sender.SendMessage(ctx, telegram.SendMessageParams{
		ChatID:    channel.ID,
		Text:      esc(media.Link),
		ParseMode: parseModeMarkdownV2,
	})
	if err != nil {
		h.replyError(ctx, msg, "Couldn\\'t post this content\\!")
		return nil
	}
	if err := h.recordChannelPost(ctx, channel, media, post); err != nil {
		return err
	}
	if user.ReplyMode {
		h.reply(ctx, msg, "Posted\\!\n"+esc(media.Link))
	}
	if user.MediaMode {
		h.sendSourceMedia(ctx, channel.ID, post.MessageID, media)
	}
	return nil
}

// publishPixiv posts a pixiv artwork to the channel. Multi-file artworks in
// image styles go through the numeric selection flow first; order carries the
// chosen indices once the user answered.
func (h *Handler) publishPixiv(ctx context.Context, msg *telegram.Message, user *models.User,
	channel *models.Channel, media *platform.ArtworkMedia, order []int) error {
	textOnly := user.PixivStyle == models.StyleInfoLink || user.PixivStyle == models.StyleInfoEmbedLink
	if len(media.Links) > 1 && len(order) == 0 && !textOnly {
		return h.promptSelection(ctx, msg, user, media)
	}

	post := h.sendAlbum(ctx, channel.ID, 0, media, order, user.PixivStyle)
	if post == nil {
		h.replyError(ctx, msg, "Couldn\\'t post this content\\!")
		return nil
	}
	if err := h.recordChannelPost(ctx, channel, media, post); err != nil {
		return err
	}
	if user.ReplyMode {
		h.sendAlbum(ctx, msg.Chat.ID, msg.MessageID, media, order, user.PixivStyle)
		h.reply(ctx, msg, "Posted\\!\n"+esc(media.Link))
	}
	return nil
}

func (h *Handler) recordChannelPost(ctx context.Context, channel *models.Channel,
	media *platform.ArtworkMedia, post *telegram.Message) error {
	_, _, err := h.artworks.RecordPost(ctx, service.RecordPostInput{
		Platform:  media.Type,
		AID:       media.ID,
		Files:     platform.MediaIDs(media),
		ChannelID: channel.ID,
		PostID:    post.MessageID,
		PostDate:  post.Time(),
	})
	return err
}

// warnDuplicate lists where the artwork was posted before and offers to post
// it anyway through an inline button.
func (h *Handler) warnDuplicate(ctx context.Context, msg *telegram.Message, link linkext.Link) {
	posted, err := h.artworks.PriorPostings(ctx, link.Type, link.ID)
	if err != nil {
		h.log.ErrorContext(ctx, "prior postings lookup failed", "error", err)
		return
	}
	places := make([]string, 0, len(posted))
	for _, post := range posted {
		places = append(places, fmt.Sprintf("[here](%s)", esc("https://"+post)))
	}
	text := fmt.Sprintf(
		"This [artwork](%s) was already posted\\: %s\\.\n\n"+
			"`\\[` ⚠️ *POST IT ANYWAY\\?* ⚠️ `\\]`",
		esc(link.URL), strings.Join(places, ", and "))

	_, err = h.sender.SendMessage(ctx, telegram.SendMessageParams{
		ChatID:           msg.Chat.ID,
		Text:             text,
		ParseMode:        parseModeMarkdownV2,
		ReplyToMessageID: msg.MessageID,
		ReplyMarkup:      telegram.SingleButton("Post!", "post"),
	})
	if err != nil {
		h.log.ErrorContext(ctx, "duplicate warning failed", "error", err)
	}
}

// promptSelection stashes the artwork and asks which files to use.
func (h *Handler) promptSelection(ctx context.Context, msg *telegram.Message, user *models.User,
	media *platform.ArtworkMedia) error {
	if err := h.users.StashSelection(ctx, user.ID, media); err != nil {
		return err
	}
	h.reply(ctx, msg, fmt.Sprintf(
		"Please, choose illustrations to download\\: \\[`1`\\-`%d`\\]\\.", len(media.Links)))
	return nil
}

// handleSelection consumes a numeric range answer against the stashed
// artwork.
func (h *Handler) handleSelection(ctx context.Context, msg *telegram.Message, user *models.User, text string) error {
	media, err := h.users.PendingSelection(ctx, user.ID)
	if err != nil {
		return err
	}
	if media == nil {
		return nil
	}

	order, err := selection.Parse(text, len(media.Links))
	if err != nil {
		switch {
		case errors.Is(err, selection.ErrTooMany):
			h.replyError(ctx, msg, fmt.Sprintf(
				"You *can\\'t* choose more than %d files\\!", selection.MaxIndices))
		case errors.Is(err, selection.ErrOutOfBounds):
			h.replyError(ctx, msg, fmt.Sprintf(
				"*Not within* range *\\[*`1`\\-`%d`*\\]*\\!", len(media.Links)))
		default:
			return err
		}
		return nil
	}

	if user.ForwardMode {
		channel, err := h.channels.Owned(ctx, user.ID)
		if err != nil {
			if models.CodeOf(err) == models.CodeNotFound {
				h.replyError(ctx, msg, "You have no channel\\! Send /channel\\.")
				return nil
			}
			return err
		}
		if err := h.publishPixiv(ctx, msg, user, channel, media, order); err != nil {
			return err
		}
	} else {
		if user.ReplyMode {
			h.sendAlbum(ctx, msg.Chat.ID, msg.MessageID, media, order, user.PixivStyle)
			h.reply(ctx, msg, "Sending files\\.\\.\\.")
		}
		h.sendDocuments(ctx, msg.Chat.ID, msg.MessageID, media, order)
	}

	return h.users.ClearSelection(ctx, user.ID)
}

// sendAlbum delivers the artwork in the user's style: either a photo album
// with a caption or, for text styles, a plain message. Returns the first
// sent message.
func (h *Handler) sendAlbum(ctx context.Context, chatID, replyTo int64,
	media *platform.ArtworkMedia, order []int, style models.PixivStyle) *telegram.Message {
	caption, textOnly := pixivCaption(media, style)
	if textOnly {
		msg, err := h.sender.SendMessage(ctx, telegram.SendMessageParams{
			ChatID:           chatID,
			Text:             caption,
			ParseMode:        parseModeMarkdownV2,
			ReplyToMessageID: replyTo,
		})
		if err != nil {
			h.log.ErrorContext(ctx, "send album text failed", "error", err)
			return nil
		}
		return msg
	}

	msgs, err := h.sender.SendMediaGroup(ctx, chatID, album(media, order, caption), replyTo)
	if err != nil || len(msgs) == 0 {
		h.log.ErrorContext(ctx, "send album failed", "error", err)
		return nil
	}
	return &msgs[0]
}

// sendDocuments delivers the original-quality files one by one.
func (h *Handler) sendDocuments(ctx context.Context, chatID, replyTo int64,
	media *platform.ArtworkMedia, order []int) {
	for _, url := range fullFiles(media, order) {
		if _, err := h.sender.SendDocument(ctx, chatID, url, replyTo); err != nil {
			h.log.ErrorContext(ctx, "send document failed", "error", err, "url", url)
		}
	}
}

// sendSourceMedia attaches the source video or gif to a channel post.
func (h *Handler) sendSourceMedia(ctx context.Context, chatID, replyTo int64, media *platform.ArtworkMedia) {
	if media.Media != "video" && media.Media != "animated_gif" {
		return
	}
	h.sendDocuments(ctx, chatID, replyTo, media, nil)
}
