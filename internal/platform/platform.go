// Package platform defines the closed set of supported artwork platforms and
// the metadata fetched from them.
package platform

import (
	"context"
	"fmt"
	"time"

	"hayami/internal/models"
)

// Platform identifies an artwork-hosting platform. The underlying type lives
// in models so the store entities can reference it without importing this
// package; the alias keeps platform.Platform and the constants type-identical.
type Platform = models.Platform

const (
	// Twitter artwork references (tweet status links).
	Twitter = models.Twitter
	// Pixiv artwork references (artworks links).
	Pixiv = models.Pixiv
)

// ArtworkMedia is the metadata for one artwork as reported by its platform.
type ArtworkMedia struct {
	Link     string    `json:"link"`
	Type     Platform  `json:"type"`
	ID       int64     `json:"id"`
	Media    string    `json:"media"` // "photo", "video", "animated_gif", "illust", "ugoira"
	UserID   int64     `json:"user_id"`
	User     string    `json:"user"`
	Username string    `json:"username"`
	Date     time.Time `json:"date"`
	Desc     string    `json:"desc"`
	// Links are the full-resolution page urls, Thumbs the preview urls,
	// index-aligned.
	Links  []string `json:"links"`
	Thumbs []string `json:"thumbs"`
}

// Fetcher retrieves artwork metadata from a platform. Implementations perform
// network I/O and may fail; failures must never touch the store.
type Fetcher interface {
	Fetch(ctx context.Context, id int64) (*ArtworkMedia, error)
}

// Registry maps each platform to its metadata fetcher.
type Registry map[Platform]Fetcher

// Fetch dispatches to the registered fetcher for the artwork's platform.
func (r Registry) Fetch(ctx context.Context, p Platform, id int64) (*ArtworkMedia, error) {
	f, ok := r[p]
	if !ok {
		return nil, fmt.Errorf("no fetcher registered for %s", p)
	}
	return f.Fetch(ctx, id)
}
