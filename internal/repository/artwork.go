package repository

import (
	"context"
	"errors"

	"hayami/internal/models"
	"hayami/internal/observability"
	"hayami/internal/platform"

	"gorm.io/gorm"
)

// ArtworkRepository defines the interface for artwork identity records.
type ArtworkRepository interface {
	GetByKey(ctx context.Context, p platform.Platform, aid int64) (*models.Artwork, error)
	// Create inserts the identity row; a concurrent creator losing the race
	// gets gorm.ErrDuplicatedKey from the (type, aid) unique index.
	Create(ctx context.Context, artwork *models.Artwork) error
	// BackfillFiles sets files only when the stored list is still empty.
	BackfillFiles(ctx context.Context, id int64, files models.StringList) error
}

type artworkRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewArtworkRepository creates a new artwork repository.
func NewArtworkRepository(db *gorm.DB) ArtworkRepository {
	return &artworkRepository{db: db, log: observability.NewRepoLogger("artworks")}
}

func (r *artworkRepository) GetByKey(ctx context.Context, p platform.Platform, aid int64) (*models.Artwork, error) {
	defer observability.TrackQuery("select", "artworks")()
	var artwork models.Artwork
	err := r.db.WithContext(ctx).
		Where("type = ? AND aid = ?", p, aid).
		First(&artwork).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("artwork", aid)
		}
		return nil, err
	}
	return &artwork, nil
}

func (r *artworkRepository) Create(ctx context.Context, artwork *models.Artwork) error {
	defer observability.TrackQuery("insert", "artworks")()
	if err := r.db.WithContext(ctx).Create(artwork).Error; err != nil {
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{
		"aid":      artwork.AID,
		"platform": artwork.Type.String(),
	})
	return nil
}

func (r *artworkRepository) BackfillFiles(ctx context.Context, id int64, files models.StringList) error {
	if len(files) == 0 {
		return nil
	}
	defer observability.TrackQuery("update", "artworks")()
	// first-writer-wins: only rows with no files yet are touched
	return r.db.WithContext(ctx).Model(&models.Artwork{}).
		Where("id = ? AND files IS NULL", id).
		Update("files", files).Error
}
