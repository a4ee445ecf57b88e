package repository

import (
	"context"
	"errors"

	"hayami/internal/models"
	"hayami/internal/observability"
	"hayami/internal/platform"

	"gorm.io/gorm"
)

// ErrAlreadyRecorded reports that an insert collided with the
// (channel_id, post_id) unique index. Callers treat it as
// success-with-no-change, not failure.
var ErrAlreadyRecorded = errors.New("post already recorded")

// PostRepository defines the interface for channel posting records.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	CountByArtwork(ctx context.Context, artworkID int64) (int64, error)
	// ListByIdentity returns every posting of an identity, earliest first.
	ListByIdentity(ctx context.Context, p platform.Platform, aid int64) ([]*models.Post, error)
	// MultiPostedArtworkIDs returns ids of artworks with more than one posting.
	MultiPostedArtworkIDs(ctx context.Context) ([]int64, error)
	// Reconcile recomputes originality for one artwork group inside tx:
	// earliest post_date wins, ties broken by row id. Returns the number of
	// rows whose flag changed.
	Reconcile(tx *gorm.DB, artworkID int64) (int64, error)
}

type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()
	err := r.db.WithContext(ctx).Create(post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			observability.DuplicatePosts.Inc()
			return ErrAlreadyRecorded
		}
		return err
	}
	r.log.LogCreate(ctx, map[string]interface{}{
		"channel_id": post.ChannelID,
		"post_id":    post.PostID,
	})
	return nil
}

func (r *postRepository) CountByArtwork(ctx context.Context, artworkID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Where("artwork_id = ?", artworkID).
		Count(&count).Error
	return count, err
}

func (r *postRepository) ListByIdentity(ctx context.Context, p platform.Platform, aid int64) ([]*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()
	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Joins("JOIN artworks ON artworks.id = posts.artwork_id").
		Where("artworks.type = ? AND artworks.aid = ?", p, aid).
		Order("posts.post_date ASC, posts.id ASC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) MultiPostedArtworkIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&models.Post{}).
		Select("artwork_id").
		Group("artwork_id").
		Having("COUNT(*) > 1").
		Pluck("artwork_id", &ids).Error
	return ids, err
}

func (r *postRepository) Reconcile(tx *gorm.DB, artworkID int64) (int64, error) {
	var posts []*models.Post
	// tie on post_date breaks by insertion order to stay deterministic
	err := tx.Where("artwork_id = ?", artworkID).
		Order("post_date ASC, id ASC").
		Find(&posts).Error
	if err != nil {
		return 0, err
	}

	var changed int64
	for i, post := range posts {
		original := i == 0
		if post.IsOriginal == original {
			continue
		}
		err := tx.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Update("is_original", original).Error
		if err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}
