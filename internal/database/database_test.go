package database

import (
	"testing"

	"hayami/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConnectTestMigratesSchema(t *testing.T) {
	db, err := ConnectTest()
	require.NoError(t, err)

	for _, model := range RegisteredModels() {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestArtworkUniqueConstraint(t *testing.T) {
	db, err := ConnectTest()
	require.NoError(t, err)

	first := models.Artwork{AID: 96373884, Type: 1}
	require.NoError(t, db.Create(&first).Error)

	dup := models.Artwork{AID: 96373884, Type: 1}
	err = db.Create(&dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// same aid on another platform is a different identity
	other := models.Artwork{AID: 96373884, Type: 0}
	assert.NoError(t, db.Create(&other).Error)
}

func TestPostUniqueConstraint(t *testing.T) {
	db, err := ConnectTest()
	require.NoError(t, err)

	art := models.Artwork{AID: 1, Type: 0}
	require.NoError(t, db.Create(&art).Error)

	first := models.Post{ArtworkID: art.ID, ChannelID: -1_001_000_000_001, PostID: 10}
	require.NoError(t, db.Create(&first).Error)

	dup := models.Post{ArtworkID: art.ID, ChannelID: -1_001_000_000_001, PostID: 10}
	err = db.Create(&dup).Error
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// same message id in another channel is fine
	other := models.Post{ArtworkID: art.ID, ChannelID: -1_001_000_000_002, PostID: 10}
	assert.NoError(t, db.Create(&other).Error)
}
