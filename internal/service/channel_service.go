package service

import (
	"context"

	"hayami/internal/models"
	"hayami/internal/repository"
)

// ChannelService manages channel records and their binding to owning users.
type ChannelService struct {
	channels repository.ChannelRepository
	users    repository.UserRepository
}

// NewChannelService creates a new channel service.
func NewChannelService(channels repository.ChannelRepository, users repository.UserRepository) *ChannelService {
	return &ChannelService{channels: channels, users: users}
}

// Claim binds a channel to a user as its administrator. The channel id is
// write-once: an existing row is rebound, never recreated. Claiming fails
// when another user already owns the channel. Any channel previously owned
// by the user is released first.
func (s *ChannelService) Claim(ctx context.Context, userID, channelID int64, name, link string) (*models.Channel, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := s.channels.GetByID(ctx, channelID)
	if err != nil && models.CodeOf(err) != models.CodeNotFound {
		return nil, err
	}
	if existing != nil && existing.AdminID != nil && *existing.AdminID != userID {
		return nil, models.NewValidationError("this channel is already owned")
	}

	// release the user's previous channel, if any
	if prev, err := s.channels.GetByAdminID(ctx, userID); err == nil && prev.ID != channelID {
		if err := s.channels.SetAdmin(ctx, prev.ID, nil); err != nil {
			return nil, err
		}
	} else if err != nil && models.CodeOf(err) != models.CodeNotFound {
		return nil, err
	}

	if existing != nil {
		if err := s.channels.SetAdmin(ctx, channelID, &userID); err != nil {
			return nil, err
		}
		existing.AdminID = &userID
		return existing, nil
	}

	channel, err := models.NewChannel(channelID, name, link)
	if err != nil {
		return nil, err
	}
	channel.IsAdmin = true
	channel.AdminID = &userID
	if err := s.channels.Create(ctx, channel); err != nil {
		return nil, err
	}
	return channel, nil
}

// Release soft-deletes the binding between a user and their channel.
func (s *ChannelService) Release(ctx context.Context, userID int64) error {
	channel, err := s.channels.GetByAdminID(ctx, userID)
	if err != nil {
		return err
	}
	return s.channels.SetAdmin(ctx, channel.ID, nil)
}

// Owned returns the channel administered by the user, if any.
func (s *ChannelService) Owned(ctx context.Context, userID int64) (*models.Channel, error) {
	return s.channels.GetByAdminID(ctx, userID)
}
