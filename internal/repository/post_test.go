package repository

import (
	"context"
	"testing"
	"time"

	"hayami/internal/database"
	"hayami/internal/models"
	"hayami/internal/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPostRepo(t *testing.T) (*gorm.DB, PostRepository, ArtworkRepository) {
	t.Helper()
	db, err := database.ConnectTest()
	require.NoError(t, err)
	return db, NewPostRepository(db), NewArtworkRepository(db)
}

func mustArtwork(t *testing.T, repo ArtworkRepository, p platform.Platform, aid int64) *models.Artwork {
	t.Helper()
	art := &models.Artwork{AID: aid, Type: p}
	require.NoError(t, repo.Create(context.Background(), art))
	return art
}

func TestPostCreateDuplicateSentinel(t *testing.T) {
	_, posts, artworks := setupPostRepo(t)
	ctx := context.Background()
	art := mustArtwork(t, artworks, platform.Twitter, 1)

	first := &models.Post{
		ArtworkID: art.ID,
		ChannelID: -1_001_000_000_001,
		PostID:    10,
		PostDate:  time.Now().UTC(),
	}
	require.NoError(t, posts.Create(ctx, first))

	// same (channel, post) again, even against another artwork
	other := mustArtwork(t, artworks, platform.Twitter, 2)
	replay := &models.Post{
		ArtworkID: other.ID,
		ChannelID: -1_001_000_000_001,
		PostID:    10,
		PostDate:  time.Now().UTC(),
	}
	err := posts.Create(ctx, replay)
	assert.ErrorIs(t, err, ErrAlreadyRecorded)

	count, err := posts.CountByArtwork(ctx, art.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestListByIdentityOrder(t *testing.T) {
	_, posts, artworks := setupPostRepo(t)
	ctx := context.Background()
	art := mustArtwork(t, artworks, platform.Pixiv, 3)
	base := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, offset := range []time.Duration{2 * time.Hour, 0, time.Hour} {
		err := posts.Create(ctx, &models.Post{
			ArtworkID: art.ID,
			ChannelID: -1_001_000_000_001,
			PostID:    int64(i + 1),
			PostDate:  base.Add(offset),
		})
		require.NoError(t, err)
	}

	listed, err := posts.ListByIdentity(ctx, platform.Pixiv, 3)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.EqualValues(t, 2, listed[0].PostID)
	assert.EqualValues(t, 3, listed[1].PostID)
	assert.EqualValues(t, 1, listed[2].PostID)

	// unknown identity yields an empty list, not an error
	listed, err = posts.ListByIdentity(ctx, platform.Twitter, 999)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestMultiPostedArtworkIDs(t *testing.T) {
	_, posts, artworks := setupPostRepo(t)
	ctx := context.Background()
	single := mustArtwork(t, artworks, platform.Twitter, 4)
	multi := mustArtwork(t, artworks, platform.Twitter, 5)
	now := time.Now().UTC()

	require.NoError(t, posts.Create(ctx, &models.Post{
		ArtworkID: single.ID, ChannelID: -1_001_000_000_001, PostID: 1, PostDate: now,
	}))
	require.NoError(t, posts.Create(ctx, &models.Post{
		ArtworkID: multi.ID, ChannelID: -1_001_000_000_001, PostID: 2, PostDate: now,
	}))
	require.NoError(t, posts.Create(ctx, &models.Post{
		ArtworkID: multi.ID, ChannelID: -1_001_000_000_002, PostID: 3, PostDate: now,
	}))

	ids, err := posts.MultiPostedArtworkIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{multi.ID}, ids)
}

func TestReconcileChangedCount(t *testing.T) {
	db, posts, artworks := setupPostRepo(t)
	ctx := context.Background()
	art := mustArtwork(t, artworks, platform.Pixiv, 6)
	base := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	// recorded out of order: the later post carries the original flag
	require.NoError(t, posts.Create(ctx, &models.Post{
		ArtworkID: art.ID, ChannelID: -1_001_000_000_002, PostID: 2,
		PostDate: base.Add(time.Hour), IsOriginal: true,
	}))
	require.NoError(t, posts.Create(ctx, &models.Post{
		ArtworkID: art.ID, ChannelID: -1_001_000_000_001, PostID: 1,
		PostDate: base, IsOriginal: false,
	}))

	changed, err := posts.Reconcile(db, art.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	changed, err = posts.Reconcile(db, art.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, changed)
}
