package bot

import (
	"context"
	"fmt"

	"hayami/internal/models"
	"hayami/internal/telegram"
)

var switchWord = map[bool]string{true: "on", false: "off"}

func (h *Handler) handleCommand(ctx context.Context, msg *telegram.Message, cmd string) error {
	h.log.InfoContext(ctx, "command",
		"command", cmd, "chat_id", msg.Chat.ID)

	switch cmd {
	case "start":
		return h.commandStart(ctx, msg)
	case "help":
		h.reply(ctx, msg, helpText)
		return nil
	case "channel":
		return h.commandChannel(ctx, msg)
	case "cancel":
		return h.commandCancel(ctx, msg)
	case "forward":
		return h.commandForward(ctx, msg)
	case "reply":
		return h.commandToggle(ctx, msg, "Replying", h.users.ToggleReply)
	case "media":
		return h.commandToggle(ctx, msg, "Media", h.users.ToggleMedia)
	case "style":
		return h.commandStyle(ctx, msg)
	}
	return nil
}

func (h *Handler) commandStart(ctx context.Context, msg *telegram.Message) error {
	fullName, nickName := "", ""
	if msg.From != nil {
		fullName = msg.From.FullName()
		nickName = msg.From.Username
	}
	if _, _, err := h.users.FindOrCreate(ctx, msg.Chat.ID, fullName, nickName); err != nil {
		h.replyError(ctx, msg, "Something went wrong\\!")
		return err
	}
	h.reply(ctx, msg,
		fmt.Sprintf("Hello, %s\\!\n", esc(fullName))+
			"Nice to meet you\\! My name is *Nuiko Hayami*\\. ❄️\n"+
			"Please, see /help to learn more about me\\!")
	return nil
}

// commandChannel starts the claim handshake: the user must forward a message
// from their channel next.
func (h *Handler) commandChannel(ctx context.Context, msg *telegram.Message) error {
	if _, loaded := h.pendingClaims.LoadOrStore(msg.Chat.ID, struct{}{}); loaded {
		h.reply(ctx, msg,
			"*Ehm\\.\\.\\.*\n"+
				"Please, forward a post from *your channel* already\\.")
		return nil
	}
	h.reply(ctx, msg,
		"*Sure\\!* 💫\n"+
			"Please, add *this bot* to *your channel* as admin\\.\n"+
			"Then, forward a message from *your channel* to me\\.")
	return nil
}

func (h *Handler) commandCancel(ctx context.Context, msg *telegram.Message) error {
	if _, loaded := h.pendingClaims.LoadAndDelete(msg.Chat.ID); loaded {
		h.reply(ctx, msg, "*Okay\\!* 👌\nYou can add *your channel* any time\\.")
		return nil
	}
	h.reply(ctx, msg, "*Yeah, sure\\.* 👀\nCancel all you want\\.")
	return nil
}

func (h *Handler) commandForward(ctx context.Context, msg *telegram.Message) error {
	state, err := h.users.ToggleForward(ctx, msg.Chat.ID)
	if err != nil {
		if models.CodeOf(err) == models.CodeValidation {
			h.replyError(ctx, msg, "You have no channel\\! Send /channel\\.")
			return nil
		}
		h.replyError(ctx, msg, "Something went wrong\\!")
		return err
	}
	h.reply(ctx, msg, fmt.Sprintf("Forwarding mode is *%s*\\.", switchWord[state]))
	return nil
}

func (h *Handler) commandToggle(ctx context.Context, msg *telegram.Message, label string,
	toggle func(context.Context, int64) (bool, error)) error {
	state, err := toggle(ctx, msg.Chat.ID)
	if err != nil {
		h.replyError(ctx, msg, "Something went wrong\\!")
		return err
	}
	h.reply(ctx, msg, fmt.Sprintf("%s mode is *%s*\\.", label, switchWord[state]))
	return nil
}

func (h *Handler) commandStyle(ctx context.Context, msg *telegram.Message) error {
	style, err := h.users.CyclePixivStyle(ctx, msg.Chat.ID)
	if err != nil {
		h.replyError(ctx, msg, "Something went wrong\\!")
		return err
	}
	h.reply(ctx, msg, fmt.Sprintf("_Style has been changed to_\\:\n\n%s", styleSample(style)))
	return nil
}

// claimChannel finishes the handshake after a forwarded channel message.
func (h *Handler) claimChannel(ctx context.Context, msg *telegram.Message) error {
	channel := msg.ForwardFromChat
	if channel == nil || channel.Type != "channel" {
		if channel != nil && channel.Type == "supergroup" {
			h.replyError(ctx, msg, "This message is from a supergroup\\.")
			return nil
		}
		h.replyError(ctx, msg, "Please, *forward* a message from *your channel*\\.")
		return nil
	}

	h.reply(ctx, msg, "*Seems fine\\!* ✨\nChecking for *admin rights*\\.\\.\\.")

	bot, err := h.sender.GetChatMember(ctx, channel.ID, h.botID)
	if err != nil {
		h.replyError(ctx, msg, "The bot *was kicked* from this channel\\!")
		return nil
	}
	user, err := h.sender.GetChatMember(ctx, channel.ID, msg.Chat.ID)
	if err != nil || !bot.CanPostMessages || !user.IsAdmin() {
		h.replyError(ctx, msg, "Either *the bot* or *you* are not an admin of this channel\\!")
		return nil
	}

	link := channel.Username
	if _, err := h.channels.Claim(ctx, msg.Chat.ID, channel.ID, channel.Title, link); err != nil {
		if models.CodeOf(err) == models.CodeValidation {
			h.replyError(ctx, msg, "This channel is *already* owned\\.")
			return nil
		}
		h.replyError(ctx, msg, "Something went wrong\\!")
		return err
	}

	h.pendingClaims.Delete(msg.Chat.ID)
	h.reply(ctx, msg, "*Done\\!* 🎉\n*Your channel* is added to the database\\!")
	return nil
}

const helpText = "Send me twitter or pixiv links and I will post them " +
	"to your channel\\.\n\n" +
	"/channel \\- bind your channel\n" +
	"/forward \\- toggle posting to the channel\n" +
	"/reply \\- toggle confirmation replies\n" +
	"/media \\- toggle attaching source files\n" +
	"/style \\- cycle pixiv caption styles\n" +
	"/cancel \\- cancel channel binding"
