package service

import (
	"context"
	"testing"

	"hayami/internal/database"
	"hayami/internal/models"
	"hayami/internal/platform"
	"hayami/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupUserService(t *testing.T) (*gorm.DB, *UserService) {
	t.Helper()
	db, err := database.ConnectTest()
	require.NoError(t, err)
	svc := NewUserService(repository.NewUserRepository(db), repository.NewChannelRepository(db))
	return db, svc
}

func TestFindOrCreateDefaults(t *testing.T) {
	_, svc := setupUserService(t)
	ctx := context.Background()

	user, created, err := svc.FindOrCreate(ctx, 1001, "Alice Example", "alice")
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, user.ReplyMode)
	assert.False(t, user.ForwardMode)
	assert.False(t, user.MediaMode)
	assert.Equal(t, models.StyleImageInfoLink, user.PixivStyle)

	again, created, err := svc.FindOrCreate(ctx, 1001, "ignored", "ignored")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Alice Example", again.FullName)
}

func TestToggleReplyRoundTrip(t *testing.T) {
	_, svc := setupUserService(t)
	ctx := context.Background()
	_, _, err := svc.FindOrCreate(ctx, 1002, "Bob", "bob")
	require.NoError(t, err)

	on, err := svc.ToggleReply(ctx, 1002)
	require.NoError(t, err)
	assert.False(t, on)

	on, err = svc.ToggleReply(ctx, 1002)
	require.NoError(t, err)
	assert.True(t, on)

	user, err := svc.Get(ctx, 1002)
	require.NoError(t, err)
	assert.True(t, user.ReplyMode)
}

func TestToggleForwardRequiresChannel(t *testing.T) {
	db, svc := setupUserService(t)
	ctx := context.Background()
	_, _, err := svc.FindOrCreate(ctx, 1003, "Carol", "carol")
	require.NoError(t, err)

	_, err = svc.ToggleForward(ctx, 1003)
	require.Error(t, err)
	assert.Equal(t, models.CodeValidation, models.CodeOf(err))

	channels := NewChannelService(repository.NewChannelRepository(db), repository.NewUserRepository(db))
	_, err = channels.Claim(ctx, 1003, -1_001_000_000_050, "carols art", "t.me/carolsart")
	require.NoError(t, err)

	on, err := svc.ToggleForward(ctx, 1003)
	require.NoError(t, err)
	assert.True(t, on)

	// disabling never needs a channel
	on, err = svc.ToggleForward(ctx, 1003)
	require.NoError(t, err)
	assert.False(t, on)
}

func TestCyclePixivStyleWraps(t *testing.T) {
	_, svc := setupUserService(t)
	ctx := context.Background()
	_, _, err := svc.FindOrCreate(ctx, 1004, "Dave", "dave")
	require.NoError(t, err)

	seen := map[models.PixivStyle]bool{models.StyleImageInfoLink: true}
	style := models.StyleImageInfoLink
	for i := 0; i < 4; i++ {
		next, err := svc.CyclePixivStyle(ctx, 1004)
		require.NoError(t, err)
		assert.True(t, next.Valid())
		assert.NotEqual(t, style, next)
		seen[next] = true
		style = next
	}
	assert.Len(t, seen, 5)

	next, err := svc.CyclePixivStyle(ctx, 1004)
	require.NoError(t, err)
	assert.Equal(t, models.StyleImageInfoLink, next)
}

func TestSelectionStashLifecycle(t *testing.T) {
	_, svc := setupUserService(t)
	ctx := context.Background()
	_, _, err := svc.FindOrCreate(ctx, 1005, "Erin", "erin")
	require.NoError(t, err)

	pending, err := svc.PendingSelection(ctx, 1005)
	require.NoError(t, err)
	assert.Nil(t, pending)

	media := &platform.ArtworkMedia{
		Type:  platform.Pixiv,
		ID:    96373884,
		User:  "author",
		Links: []string{"p0.png", "p1.png", "p2.png"},
	}
	require.NoError(t, svc.StashSelection(ctx, 1005, media))

	pending, err = svc.PendingSelection(ctx, 1005)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, media.ID, pending.ID)
	assert.Equal(t, media.Links, pending.Links)

	require.NoError(t, svc.ClearSelection(ctx, 1005))
	pending, err = svc.PendingSelection(ctx, 1005)
	require.NoError(t, err)
	assert.Nil(t, pending)
}
