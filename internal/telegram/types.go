// Package telegram is a minimal Bot API client covering the calls the bot
// makes: sending, forwarding, editing, and webhook management.
package telegram

import "time"

// Update is one incoming event delivered to the webhook.
type Update struct {
	UpdateID      int64          `json:"update_id"`
	Message       *Message       `json:"message"`
	ChannelPost   *Message       `json:"channel_post"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// Message is a Telegram message in any chat.
type Message struct {
	MessageID    int64  `json:"message_id"`
	From         *User  `json:"from"`
	Chat         Chat   `json:"chat"`
	Date         int64  `json:"date"`
	Text         string `json:"text"`
	Caption      string `json:"caption"`
	MediaGroupID string `json:"media_group_id"`

	ForwardDate     int64 `json:"forward_date"`
	ForwardFromChat *Chat `json:"forward_from_chat"`

	Entities []MessageEntity `json:"entities"`
}

// Content returns the usable text of the message.
func (m *Message) Content() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

// Time converts the unix message date.
func (m *Message) Time() time.Time {
	return time.Unix(m.Date, 0).UTC()
}

// Forwarded reports whether the message was forwarded from somewhere.
func (m *Message) Forwarded() bool {
	return m.ForwardDate != 0
}

// User is a Telegram account.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// FullName joins the name parts the way Telegram clients display them.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Chat is a Telegram chat of any type.
type Chat struct {
	ID       int64  `json:"id"`
	Type     string `json:"type"` // "private", "group", "supergroup", "channel"
	Title    string `json:"title"`
	Username string `json:"username"`
}

// MessageEntity marks a span of special text inside a message.
type MessageEntity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	URL    string `json:"url"`
}

// CallbackQuery is a button press on an inline keyboard.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    User     `json:"from"`
	Message *Message `json:"message"`
	Data    string   `json:"data"`
}

// InlineKeyboardMarkup is an inline keyboard attached to a message.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// SingleButton builds a one-button keyboard.
func SingleButton(text, data string) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{{{Text: text, CallbackData: data}}},
	}
}

// InlineKeyboardButton is one button of an inline keyboard.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

// InputMediaPhoto is one photo of an album. Media is a public url; Telegram
// fetches it server side.
type InputMediaPhoto struct {
	Type      string `json:"type"`
	Media     string `json:"media"`
	Caption   string `json:"caption,omitempty"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// ChatMember describes one member of a chat.
type ChatMember struct {
	Status          string `json:"status"` // "creator", "administrator", "member", ...
	CanPostMessages bool   `json:"can_post_messages"`
}

// IsAdmin reports whether the member can act for the chat.
func (m *ChatMember) IsAdmin() bool {
	return m.Status == "creator" || m.Status == "administrator"
}
