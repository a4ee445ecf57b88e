package cache

import (
	"context"
	"testing"

	"hayami/internal/platform"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) {
	t.Helper()
	mr := miniredis.RunT(t)
	SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { SetClient(nil) })
}

func TestSelectionRoundTrip(t *testing.T) {
	setupMiniredis(t)
	ctx := context.Background()

	media := &platform.ArtworkMedia{
		Link:   "https://www.pixiv.net/artworks/96373884",
		Type:   platform.Pixiv,
		ID:     96373884,
		Links:  []string{"p0.png", "p1.png", "p2.png"},
		Thumbs: []string{"t0.png", "t1.png", "t2.png"},
	}
	PutSelection(ctx, 42, media)

	got := GetSelection(ctx, 42)
	require.NotNil(t, got)
	assert.Equal(t, media.ID, got.ID)
	assert.Equal(t, media.Links, got.Links)

	DropSelection(ctx, 42)
	assert.Nil(t, GetSelection(ctx, 42))
}

func TestSelectionMiss(t *testing.T) {
	setupMiniredis(t)
	assert.Nil(t, GetSelection(context.Background(), 999))
}

func TestSelectionWithoutClientIsNoop(t *testing.T) {
	SetClient(nil)
	ctx := context.Background()
	PutSelection(ctx, 1, &platform.ArtworkMedia{ID: 1})
	assert.Nil(t, GetSelection(ctx, 1))
	DropSelection(ctx, 1)
}
