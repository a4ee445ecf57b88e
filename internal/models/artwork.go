package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Artwork is the identity record for an externally hosted artwork: at most
// one row per (Type, AID) pair, enforced by the uix_artworks unique index.
// Created lazily on first sighting; immutable afterwards except for a one-time
// backfill of Files when they were unknown at creation.
type Artwork struct {
	ID int64 `gorm:"primaryKey" json:"id"`

	// AID is the platform-native artwork id.
	AID  int64    `gorm:"column:aid;not null;uniqueIndex:uix_artworks" json:"aid"`
	Type Platform `gorm:"not null;uniqueIndex:uix_artworks" json:"type"`

	// Files are opaque media references captured at first-seen time. Never
	// overwritten once non-empty.
	Files StringList `gorm:"type:jsonb" json:"files,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Artwork) TableName() string {
	return "artworks"
}

// StringList stores a slice of strings as a JSON column.
type StringList []string

// Value implements driver.Valuer. Empty lists are stored as NULL so that
// "files unknown" is one canonical state across databases.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	if src == nil {
		*l = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("unsupported StringList column type %T", src)
}
