package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hayami/internal/platform"
)

// selectionTTL bounds how long a pending multi-file selection stays hot.
const selectionTTL = 30 * time.Minute

func selectionKey(userID int64) string {
	return fmt.Sprintf("selection:%d", userID)
}

// PutSelection caches a user's pending multi-file artwork. Errors are
// swallowed: the database row remains the source of truth.
func PutSelection(ctx context.Context, userID int64, media *platform.ArtworkMedia) {
	if client == nil {
		return
	}
	payload, err := json.Marshal(media)
	if err != nil {
		return
	}
	client.Set(ctx, selectionKey(userID), payload, selectionTTL)
}

// GetSelection returns the cached pending selection, or nil on miss.
func GetSelection(ctx context.Context, userID int64) *platform.ArtworkMedia {
	if client == nil {
		return nil
	}
	payload, err := client.Get(ctx, selectionKey(userID)).Bytes()
	if err != nil {
		return nil
	}
	var media platform.ArtworkMedia
	if err := json.Unmarshal(payload, &media); err != nil {
		return nil
	}
	return &media
}

// DropSelection removes the cached pending selection.
func DropSelection(ctx context.Context, userID int64) {
	if client == nil {
		return
	}
	client.Del(ctx, selectionKey(userID))
}
