// Package models contains the persisted domain entities.
package models

import "time"

// User represents a message-sending principal. The id is the transport
// account id and is write-once: it is set at construction and never updated.
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	FullName string `gorm:"size:255" json:"full_name"`
	NickName string `gorm:"size:255" json:"nick_name"`

	// MediaMode enables attaching the source video/gif files to posted links.
	MediaMode bool `gorm:"not null;default:false" json:"media_mode"`
	// ReplyMode enables confirmation replies to processed links. On by
	// default; set explicitly at insert so an imported false survives.
	ReplyMode bool `gorm:"not null" json:"reply_mode"`
	// ForwardMode routes postings to the user's channel instead of the chat.
	ForwardMode bool `gorm:"not null;default:false" json:"forward_mode"`

	// PixivStyle selects the caption layout for pixiv postings.
	PixivStyle PixivStyle `gorm:"not null;default:1" json:"pixiv_style"`

	// LastSelection holds the most recently shown multi-file artwork, awaiting
	// a numeric range reply. Cleared once the selection is consumed.
	LastSelection []byte `gorm:"type:jsonb" json:"last_selection,omitempty"`

	IsBanned  bool `gorm:"not null;default:false" json:"is_banned"`
	IsDeleted bool `gorm:"not null;default:false" json:"is_deleted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (User) TableName() string {
	return "users"
}

// PixivStyle is the closed set of caption layouts for pixiv postings.
type PixivStyle int

const (
	StyleImageLink PixivStyle = iota
	StyleImageInfoLink
	StyleImageInfoEmbedLink
	StyleInfoLink
	StyleInfoEmbedLink

	pixivStyleCount
)

// Valid reports whether the value is a known style.
func (s PixivStyle) Valid() bool {
	return s >= StyleImageLink && s < pixivStyleCount
}

// Next cycles to the following style, wrapping around.
func (s PixivStyle) Next() PixivStyle {
	return (s + 1) % pixivStyleCount
}
