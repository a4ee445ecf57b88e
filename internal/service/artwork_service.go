// Package service implements the application's business operations over the
// repositories.
package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"hayami/internal/deeplink"
	"hayami/internal/models"
	"hayami/internal/observability"
	"hayami/internal/platform"
	"hayami/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// ArtworkService resolves artwork identities and tracks which channel posting
// of each identity is the original one.
type ArtworkService struct {
	db       *gorm.DB
	artworks repository.ArtworkRepository
	posts    repository.PostRepository
}

// NewArtworkService creates a new artwork service. The db handle is used for
// reconciliation transactions; everything else goes through the repositories.
func NewArtworkService(db *gorm.DB, artworks repository.ArtworkRepository, posts repository.PostRepository) *ArtworkService {
	return &ArtworkService{db: db, artworks: artworks, posts: posts}
}

// Resolve finds or creates the unique artwork row for (p, aid). Observed
// files backfill an empty stored list but never overwrite a non-empty one.
// Safe under concurrent resolution: a losing creator falls back to re-fetching
// the winning row.
func (s *ArtworkService) Resolve(ctx context.Context, p platform.Platform, aid int64, files []string) (*models.Artwork, bool, error) {
	if !p.Valid() {
		return nil, false, models.NewValidationError("unknown platform")
	}

	artwork, err := s.artworks.GetByKey(ctx, p, aid)
	if err == nil {
		if len(files) > 0 && len(artwork.Files) == 0 {
			if err := s.artworks.BackfillFiles(ctx, artwork.ID, files); err != nil {
				return nil, false, err
			}
			artwork.Files = files
		}
		return artwork, false, nil
	}
	if models.CodeOf(err) != models.CodeNotFound {
		return nil, false, err
	}

	artwork = &models.Artwork{AID: aid, Type: p, Files: files}
	err = s.artworks.Create(ctx, artwork)
	if err == nil {
		return artwork, true, nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost the creation race; the unique index is the authority
		artwork, err = s.artworks.GetByKey(ctx, p, aid)
		if err != nil {
			return nil, false, err
		}
		return artwork, false, nil
	}
	return nil, false, err
}

// RecordPostInput describes one observed channel posting of an identity.
type RecordPostInput struct {
	Platform    platform.Platform
	AID         int64
	Files       []string
	ChannelID   int64
	PostID      int64
	PostDate    time.Time
	IsForwarded bool
	// ForwardedFromChannelID is the source channel when known.
	ForwardedFromChannelID *int64
}

// RecordPost persists one posting event. The write-time originality flag is a
// cheap hint: the first-ever posting of a non-forwarded identity is marked
// original; reconciliation remains the source of truth. Replays of the same
// (channel, message) collapse into a no-op; recorded reports whether a new
// row was written.
func (s *ArtworkService) RecordPost(ctx context.Context, in RecordPostInput) (post *models.Post, recorded bool, err error) {
	span, ctx := observability.NewSpan(ctx, "artwork.record_post")
	defer span.End()
	span.AddAttributes(
		attribute.String("platform", in.Platform.String()),
		attribute.Int64("aid", in.AID),
	)

	artwork, created, err := s.Resolve(ctx, in.Platform, in.AID, in.Files)
	if err != nil {
		span.SetError(err)
		return nil, false, err
	}

	post = &models.Post{
		ArtworkID:              artwork.ID,
		ChannelID:              in.ChannelID,
		PostID:                 in.PostID,
		PostDate:               in.PostDate,
		IsOriginal:             created && !in.IsForwarded,
		IsForwarded:            in.IsForwarded,
		ForwardedFromChannelID: in.ForwardedFromChannelID,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		if errors.Is(err, repository.ErrAlreadyRecorded) {
			return nil, false, nil
		}
		span.SetError(err)
		return nil, false, err
	}

	origin := "posted"
	if in.IsForwarded {
		origin = "forwarded"
	}
	observability.PostsRecorded.WithLabelValues(in.Platform.String(), origin).Inc()
	return post, true, nil
}

// IsKnown reports whether the identity has been seen before. Used to warn
// before creating a duplicate posting; purely a read.
func (s *ArtworkService) IsKnown(ctx context.Context, p platform.Platform, aid int64) (bool, error) {
	_, err := s.artworks.GetByKey(ctx, p, aid)
	if err == nil {
		return true, nil
	}
	if models.CodeOf(err) == models.CodeNotFound {
		return false, nil
	}
	return false, err
}

// PriorPostings returns the public deep link of every existing posting of the
// identity, earliest first.
func (s *ArtworkService) PriorPostings(ctx context.Context, p platform.Platform, aid int64) ([]string, error) {
	posts, err := s.posts.ListByIdentity(ctx, p, aid)
	if err != nil {
		return nil, err
	}
	links := make([]string, 0, len(posts))
	for _, post := range posts {
		cid := deeplink.PublicID(post.ChannelID)
		links = append(links, deeplink.PostLink(cid, post.PostID))
	}
	return links, nil
}

// ReconcileStats summarizes one reconciliation pass.
type ReconcileStats struct {
	Groups  int
	Changed int64
}

// ReconcileAll recomputes originality exactly for every artwork posted more
// than once: within each group the earliest post_date is the original and all
// others are demoted. Each group runs in its own serializable transaction so
// concurrent inserts for that group are neither missed nor double-counted.
// Idempotent: a second run changes nothing.
func (s *ArtworkService) ReconcileAll(ctx context.Context) (ReconcileStats, error) {
	span, ctx := observability.NewSpan(ctx, "artwork.reconcile_all")
	defer span.End()

	var stats ReconcileStats
	ids, err := s.posts.MultiPostedArtworkIDs(ctx)
	if err != nil {
		span.SetError(err)
		return stats, err
	}

	for _, id := range ids {
		changed, err := s.reconcileGroup(ctx, id)
		if err != nil {
			span.SetError(err)
			observability.ReconcileRuns.WithLabelValues("conflict").Inc()
			return stats, models.NewReconciliationConflictError(err)
		}
		stats.Groups++
		stats.Changed += changed
	}

	observability.ReconcileRuns.WithLabelValues("ok").Inc()
	observability.ReconcileDemotions.Add(float64(stats.Changed))
	return stats, nil
}

// ReconcileIdentity recomputes originality for a single identity group.
func (s *ArtworkService) ReconcileIdentity(ctx context.Context, p platform.Platform, aid int64) (int64, error) {
	artwork, err := s.artworks.GetByKey(ctx, p, aid)
	if err != nil {
		return 0, err
	}
	changed, err := s.reconcileGroup(ctx, artwork.ID)
	if err != nil {
		return 0, models.NewReconciliationConflictError(err)
	}
	return changed, nil
}

func (s *ArtworkService) reconcileGroup(ctx context.Context, artworkID int64) (int64, error) {
	var changed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		changed, err = s.posts.Reconcile(tx, artworkID)
		return err
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
	return changed, err
}
