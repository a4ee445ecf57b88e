package seed

import (
	"context"
	"testing"

	"hayami/internal/database"
	"hayami/internal/models"
	"hayami/internal/repository"
	"hayami/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedPopulatesTables(t *testing.T) {
	db, err := database.ConnectTest()
	require.NoError(t, err)

	require.NoError(t, Seed(db, Options{NumUsers: 4, NumChannels: 3, NumArtworks: 10}))

	var users, channels, artworks, posts int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Channel{}).Count(&channels).Error)
	require.NoError(t, db.Model(&models.Artwork{}).Count(&artworks).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)

	assert.Equal(t, int64(4), users)
	assert.Equal(t, int64(3), channels)
	assert.Equal(t, int64(10), artworks)
	assert.GreaterOrEqual(t, posts, int64(10))
}

func TestSeedLeavesWorkForReconcile(t *testing.T) {
	db, err := database.ConnectTest()
	require.NoError(t, err)

	require.NoError(t, Seed(db, Options{NumUsers: 2, NumChannels: 2, NumArtworks: 10}))

	artworks := service.NewArtworkService(db,
		repository.NewArtworkRepository(db), repository.NewPostRepository(db))

	stats, err := artworks.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Greater(t, stats.Groups, 0)
	assert.Greater(t, stats.Changed, int64(0))

	// A second pass has nothing left to fix.
	stats, err = artworks.ReconcileAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Changed)
}

func TestSeedCleanRemovesPreviousData(t *testing.T) {
	db, err := database.ConnectTest()
	require.NoError(t, err)

	require.NoError(t, Seed(db, Options{NumUsers: 2, NumChannels: 2, NumArtworks: 4}))
	require.NoError(t, Seed(db, Options{NumUsers: 3, NumChannels: 2, NumArtworks: 4, ShouldClean: true}))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	assert.Equal(t, int64(3), users)
}
