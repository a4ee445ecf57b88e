package models

import "time"

// Post records one channel posting of an artwork. A channel never has two
// rows for the same channel-local message: (ChannelID, PostID) is unique.
// IsOriginal is the only field mutated after creation, and only by the
// reconciliation pass.
type Post struct {
	ID int64 `gorm:"primaryKey" json:"id"`

	ArtworkID int64 `gorm:"not null;index" json:"artwork_id"`

	ChannelID int64 `gorm:"not null;uniqueIndex:uix_posts" json:"channel_id"`
	// PostID is the channel-local message id.
	PostID int64 `gorm:"not null;uniqueIndex:uix_posts" json:"post_id"`

	PostDate time.Time `json:"post_date"`

	// IsOriginal is always set explicitly at insert; a database default would
	// silently win whenever the zero value is intended.
	IsOriginal  bool `gorm:"not null" json:"is_original"`
	IsForwarded bool `gorm:"not null;default:false" json:"is_forwarded"`

	// ForwardedFromChannelID is set when the posting was forwarded from
	// another known channel.
	ForwardedFromChannelID *int64 `gorm:"index" json:"forwarded_from_channel_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "posts"
}
