package repository

import (
	"context"
	"errors"

	"hayami/internal/models"

	"gorm.io/gorm"
)

// ChannelRepository defines the interface for channel data operations.
type ChannelRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Channel, error)
	GetByAdminID(ctx context.Context, adminID int64) (*models.Channel, error)
	Create(ctx context.Context, channel *models.Channel) error
	SetAdmin(ctx context.Context, id int64, adminID *int64) error
	SoftDelete(ctx context.Context, id int64) error
}

type channelRepository struct {
	db *gorm.DB
}

// NewChannelRepository creates a new channel repository.
func NewChannelRepository(db *gorm.DB) ChannelRepository {
	return &channelRepository{db: db}
}

func (r *channelRepository) GetByID(ctx context.Context, id int64) (*models.Channel, error) {
	var channel models.Channel
	err := r.db.WithContext(ctx).First(&channel, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("channel", id)
		}
		return nil, err
	}
	return &channel, nil
}

func (r *channelRepository) GetByAdminID(ctx context.Context, adminID int64) (*models.Channel, error) {
	var channel models.Channel
	err := r.db.WithContext(ctx).
		Where("admin_id = ? AND is_deleted = ?", adminID, false).
		First(&channel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("channel for user", adminID)
		}
		return nil, err
	}
	return &channel, nil
}

func (r *channelRepository) Create(ctx context.Context, channel *models.Channel) error {
	return r.db.WithContext(ctx).Create(channel).Error
}

func (r *channelRepository) SetAdmin(ctx context.Context, id int64, adminID *int64) error {
	return r.db.WithContext(ctx).Model(&models.Channel{}).
		Where("id = ?", id).
		Update("admin_id", adminID).Error
}

func (r *channelRepository) SoftDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.Channel{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
