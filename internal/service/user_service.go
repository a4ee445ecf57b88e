package service

import (
	"context"
	"encoding/json"
	"sync"

	"hayami/internal/cache"
	"hayami/internal/models"
	"hayami/internal/platform"
	"hayami/internal/repository"
)

// UserService manages user records, preference toggles, and the pending
// multi-file selection.
type UserService struct {
	users    repository.UserRepository
	channels repository.ChannelRepository

	// per-user gate serializing preference read-modify-write toggles so a
	// reader never observes a torn preference set
	toggles sync.Map // int64 -> *sync.Mutex
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, channels repository.ChannelRepository) *UserService {
	return &UserService{users: users, channels: channels}
}

func (s *UserService) userLock(id int64) *sync.Mutex {
	mu, _ := s.toggles.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// FindOrCreate returns the user record, creating it on first interaction.
func (s *UserService) FindOrCreate(ctx context.Context, id int64, fullName, nickName string) (*models.User, bool, error) {
	user, err := s.users.GetByID(ctx, id)
	if err == nil {
		return user, false, nil
	}
	if models.CodeOf(err) != models.CodeNotFound {
		return nil, false, err
	}
	user = &models.User{
		ID:         id,
		FullName:   fullName,
		NickName:   nickName,
		ReplyMode:  true,
		PixivStyle: models.StyleImageInfoLink,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Get returns the user record.
func (s *UserService) Get(ctx context.Context, id int64) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

// ToggleForward flips forwarding mode. Enabling requires an owned channel.
func (s *UserService) ToggleForward(ctx context.Context, id int64) (bool, error) {
	mu := s.userLock(id)
	mu.Lock()
	defer mu.Unlock()

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	next := !user.ForwardMode
	if next {
		if _, err := s.channels.GetByAdminID(ctx, id); err != nil {
			if models.CodeOf(err) == models.CodeNotFound {
				return false, models.NewValidationError("you have no channel yet")
			}
			return false, err
		}
	}
	if err := s.users.UpdateFlags(ctx, id, map[string]interface{}{"forward_mode": next}); err != nil {
		return false, err
	}
	return next, nil
}

// ToggleReply flips replying mode.
func (s *UserService) ToggleReply(ctx context.Context, id int64) (bool, error) {
	return s.toggleFlag(ctx, id, "reply_mode", func(u *models.User) bool { return u.ReplyMode })
}

// ToggleMedia flips media mode.
func (s *UserService) ToggleMedia(ctx context.Context, id int64) (bool, error) {
	return s.toggleFlag(ctx, id, "media_mode", func(u *models.User) bool { return u.MediaMode })
}

func (s *UserService) toggleFlag(ctx context.Context, id int64, column string, current func(*models.User) bool) (bool, error) {
	mu := s.userLock(id)
	mu.Lock()
	defer mu.Unlock()

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	next := !current(user)
	if err := s.users.UpdateFlags(ctx, id, map[string]interface{}{column: next}); err != nil {
		return false, err
	}
	return next, nil
}

// CyclePixivStyle advances the user's pixiv caption style to the next one.
func (s *UserService) CyclePixivStyle(ctx context.Context, id int64) (models.PixivStyle, error) {
	mu := s.userLock(id)
	mu.Lock()
	defer mu.Unlock()

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	next := user.PixivStyle.Next()
	if err := s.users.UpdateFlags(ctx, id, map[string]interface{}{"pixiv_style": int(next)}); err != nil {
		return 0, err
	}
	return next, nil
}

// StashSelection stores a multi-file artwork awaiting a numeric range reply.
// The database row is the source of truth; Redis is the fast path.
func (s *UserService) StashSelection(ctx context.Context, id int64, media *platform.ArtworkMedia) error {
	payload, err := json.Marshal(media)
	if err != nil {
		return err
	}
	if err := s.users.SetLastSelection(ctx, id, payload); err != nil {
		return err
	}
	cache.PutSelection(ctx, id, media)
	return nil
}

// PendingSelection returns the stashed multi-file artwork, or nil when there
// is none.
func (s *UserService) PendingSelection(ctx context.Context, id int64) (*platform.ArtworkMedia, error) {
	if media := cache.GetSelection(ctx, id); media != nil {
		return media, nil
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(user.LastSelection) == 0 {
		return nil, nil
	}
	var media platform.ArtworkMedia
	if err := json.Unmarshal(user.LastSelection, &media); err != nil {
		return nil, err
	}
	return &media, nil
}

// ClearSelection drops the stashed selection once it has been consumed.
func (s *UserService) ClearSelection(ctx context.Context, id int64) error {
	if err := s.users.SetLastSelection(ctx, id, nil); err != nil {
		return err
	}
	cache.DropSelection(ctx, id)
	return nil
}
