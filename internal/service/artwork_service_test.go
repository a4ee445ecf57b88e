package service

import (
	"context"
	"testing"
	"time"

	"hayami/internal/database"
	"hayami/internal/models"
	"hayami/internal/platform"
	"hayami/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupArtworkService(t *testing.T) (*gorm.DB, *ArtworkService) {
	t.Helper()
	db, err := database.ConnectTest()
	require.NoError(t, err)
	svc := NewArtworkService(db, repository.NewArtworkRepository(db), repository.NewPostRepository(db))
	return db, svc
}

func TestResolveFindOrCreate(t *testing.T) {
	db, svc := setupArtworkService(t)
	ctx := context.Background()

	art, created, err := svc.Resolve(ctx, platform.Pixiv, 96373884, []string{"f1", "f2"})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.Resolve(ctx, platform.Pixiv, 96373884, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, art.ID, again.ID)

	var count int64
	db.Model(&models.Artwork{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestResolveBackfillsFilesOnce(t *testing.T) {
	_, svc := setupArtworkService(t)
	ctx := context.Background()

	_, _, err := svc.Resolve(ctx, platform.Twitter, 42, nil)
	require.NoError(t, err)

	// first non-empty files win
	art, _, err := svc.Resolve(ctx, platform.Twitter, 42, []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"a"}, art.Files)

	art, _, err = svc.Resolve(ctx, platform.Twitter, 42, []string{"b"})
	require.NoError(t, err)
	assert.Equal(t, models.StringList{"a"}, art.Files)
}

func TestResolveRejectsUnknownPlatform(t *testing.T) {
	_, svc := setupArtworkService(t)
	_, _, err := svc.Resolve(context.Background(), platform.Platform(9), 1, nil)
	require.Error(t, err)
}

// artworkRepoRace simulates losing the creation race: the first lookup misses,
// the insert collides, and the re-fetch sees the winner's row.
type artworkRepoRace struct {
	winner  models.Artwork
	lookups int
}

func (r *artworkRepoRace) GetByKey(_ context.Context, _ platform.Platform, aid int64) (*models.Artwork, error) {
	r.lookups++
	if r.lookups == 1 {
		return nil, models.NewNotFoundError("artwork", aid)
	}
	return &r.winner, nil
}

func (r *artworkRepoRace) Create(context.Context, *models.Artwork) error {
	return gorm.ErrDuplicatedKey
}

func (r *artworkRepoRace) BackfillFiles(context.Context, int64, models.StringList) error {
	return nil
}

func TestResolveLosingCreatorRefetches(t *testing.T) {
	race := &artworkRepoRace{winner: models.Artwork{ID: 7, AID: 123, Type: platform.Twitter}}
	svc := NewArtworkService(nil, race, nil)

	art, created, err := svc.Resolve(context.Background(), platform.Twitter, 123, nil)
	require.NoError(t, err)
	assert.False(t, created)
	assert.EqualValues(t, 7, art.ID)
	assert.Equal(t, 2, race.lookups)
}

func TestRecordPostWriteTimeMarking(t *testing.T) {
	_, svc := setupArtworkService(t)
	ctx := context.Background()
	base := time.Date(2022, 3, 1, 12, 0, 0, 0, time.UTC)

	first, recorded, err := svc.RecordPost(ctx, RecordPostInput{
		Platform: platform.Twitter, AID: 100,
		ChannelID: -1_001_000_000_001, PostID: 1, PostDate: base,
	})
	require.NoError(t, err)
	require.True(t, recorded)
	assert.True(t, first.IsOriginal)

	second, recorded, err := svc.RecordPost(ctx, RecordPostInput{
		Platform: platform.Twitter, AID: 100,
		ChannelID: -1_001_000_000_002, PostID: 5, PostDate: base.Add(time.Hour),
	})
	require.NoError(t, err)
	require.True(t, recorded)
	assert.False(t, second.IsOriginal)
}

func TestRecordPostForwardedNeverOriginal(t *testing.T) {
	_, svc := setupArtworkService(t)
	src := int64(-1_001_000_000_009)

	post, recorded, err := svc.RecordPost(context.Background(), RecordPostInput{
		Platform: platform.Pixiv, AID: 200,
		ChannelID: -1_001_000_000_001, PostID: 1,
		PostDate:    time.Now().UTC(),
		IsForwarded: true, ForwardedFromChannelID: &src,
	})
	require.NoError(t, err)
	require.True(t, recorded)
	assert.False(t, post.IsOriginal)
	assert.True(t, post.IsForwarded)
}

func TestRecordPostReplayIsNoop(t *testing.T) {
	db, svc := setupArtworkService(t)
	ctx := context.Background()
	in := RecordPostInput{
		Platform: platform.Twitter, AID: 300,
		ChannelID: -1_001_000_000_001, PostID: 77,
		PostDate: time.Now().UTC(),
	}

	_, recorded, err := svc.RecordPost(ctx, in)
	require.NoError(t, err)
	assert.True(t, recorded)

	_, recorded, err = svc.RecordPost(ctx, in)
	require.NoError(t, err)
	assert.False(t, recorded)

	var count int64
	db.Model(&models.Post{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestReconcileOutOfOrderInserts(t *testing.T) {
	db, svc := setupArtworkService(t)
	ctx := context.Background()
	early := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	late := early.AddDate(0, 2, 0)

	// the later posting is observed first (backfill order), so the cheap
	// write-time heuristic marks the wrong one original
	latePost, _, err := svc.RecordPost(ctx, RecordPostInput{
		Platform: platform.Pixiv, AID: 500,
		ChannelID: -1_001_000_000_002, PostID: 20, PostDate: late,
	})
	require.NoError(t, err)
	assert.True(t, latePost.IsOriginal)

	earlyPost, _, err := svc.RecordPost(ctx, RecordPostInput{
		Platform: platform.Pixiv, AID: 500,
		ChannelID: -1_001_000_000_001, PostID: 10, PostDate: early,
	})
	require.NoError(t, err)
	assert.False(t, earlyPost.IsOriginal)

	stats, err := svc.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Groups)
	assert.EqualValues(t, 2, stats.Changed)

	var posts []models.Post
	require.NoError(t, db.Order("post_date ASC").Find(&posts).Error)
	require.Len(t, posts, 2)
	assert.True(t, posts[0].IsOriginal)
	assert.False(t, posts[1].IsOriginal)

	// idempotent: a second run changes nothing
	stats, err = svc.ReconcileAll(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.Changed)
}

func TestReconcileTieBreaksByInsertionOrder(t *testing.T) {
	db, svc := setupArtworkService(t)
	ctx := context.Background()
	when := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)

	for i := int64(1); i <= 3; i++ {
		_, _, err := svc.RecordPost(ctx, RecordPostInput{
			Platform: platform.Twitter, AID: 600,
			ChannelID: -1_001_000_000_000 - i, PostID: i, PostDate: when,
		})
		require.NoError(t, err)
	}

	_, err := svc.ReconcileAll(ctx)
	require.NoError(t, err)

	var posts []models.Post
	require.NoError(t, db.Order("id ASC").Find(&posts).Error)
	require.Len(t, posts, 3)
	assert.True(t, posts[0].IsOriginal)
	assert.False(t, posts[1].IsOriginal)
	assert.False(t, posts[2].IsOriginal)
}

func TestPriorPostingsOrderedDeepLinks(t *testing.T) {
	_, svc := setupArtworkService(t)
	ctx := context.Background()
	base := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)

	// inserted newest-first to prove ordering comes from post_date
	_, _, err := svc.RecordPost(ctx, RecordPostInput{
		Platform: platform.Twitter, AID: 700,
		ChannelID: -1_001_000_000_002, PostID: 9, PostDate: base.Add(time.Hour),
	})
	require.NoError(t, err)
	_, _, err = svc.RecordPost(ctx, RecordPostInput{
		Platform: platform.Twitter, AID: 700,
		ChannelID: -1_001_000_000_001, PostID: 4, PostDate: base,
	})
	require.NoError(t, err)

	links, err := svc.PriorPostings(ctx, platform.Twitter, 700)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"t.me/c/1000000001/4",
		"t.me/c/1000000002/9",
	}, links)
}

func TestIsKnown(t *testing.T) {
	_, svc := setupArtworkService(t)
	ctx := context.Background()

	known, err := svc.IsKnown(ctx, platform.Pixiv, 800)
	require.NoError(t, err)
	assert.False(t, known)

	_, _, err = svc.Resolve(ctx, platform.Pixiv, 800, nil)
	require.NoError(t, err)

	known, err = svc.IsKnown(ctx, platform.Pixiv, 800)
	require.NoError(t, err)
	assert.True(t, known)
}
