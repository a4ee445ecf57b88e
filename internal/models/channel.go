package models

import (
	"time"

	"hayami/internal/deeplink"
)

// Channel represents a destination channel. The id is the raw transport
// identifier, always negative, and write-once: NewChannel validates it and no
// code path updates it afterwards. The public id is derived, never stored.
type Channel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name string `gorm:"size:255" json:"name"`
	Link string `gorm:"size:255" json:"link"`

	// IsAdmin records whether the bot holds posting rights in the channel.
	IsAdmin bool `gorm:"not null;default:false" json:"is_admin"`

	// AdminID is the owning user, if the channel has been claimed.
	AdminID *int64 `gorm:"index" json:"admin_id,omitempty"`

	IsDeleted bool `gorm:"not null;default:false" json:"is_deleted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Channel) TableName() string {
	return "channels"
}

// NewChannel constructs a channel, enforcing the negative write-once id.
func NewChannel(id int64, name, link string) (*Channel, error) {
	if id >= 0 {
		return nil, NewValidationError("channel id must be negative")
	}
	return &Channel{ID: id, Name: name, Link: link}, nil
}

// CID returns the public, shareable channel id. It is always recomputed from
// the internal id so the two can never drift.
func (c *Channel) CID() int64 {
	return deeplink.PublicID(c.ID)
}
