package bot

import (
	"context"

	"hayami/internal/linkext"
	"hayami/internal/service"
	"hayami/internal/telegram"
)

// handleChannelPost records link posts observed directly in channels the bot
// is a member of. This path fires for posts made by anyone, so it is where
// out-of-band postings enter the store.
func (h *Handler) handleChannelPost(ctx context.Context, msg *telegram.Message) error {
	text := msg.Content()
	if text == "" {
		return nil
	}
	links := linkext.Extract(text)
	if len(links) != 1 {
		return nil
	}
	link := links[0]

	in := service.RecordPostInput{
		Platform:    link.Type,
		AID:         link.ID,
		ChannelID:   msg.Chat.ID,
		PostID:      msg.MessageID,
		PostDate:    msg.Time(),
		IsForwarded: msg.Forwarded(),
	}
	if msg.ForwardFromChat != nil {
		in.ForwardedFromChannelID = &msg.ForwardFromChat.ID
	}

	_, recorded, err := h.artworks.RecordPost(ctx, in)
	if err != nil {
		return err
	}
	if !recorded {
		h.log.InfoContext(ctx, "channel post already recorded",
			"channel_id", msg.Chat.ID, "post_id", msg.MessageID)
	}
	return nil
}
