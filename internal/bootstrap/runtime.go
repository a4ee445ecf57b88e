// Package bootstrap wires up the runtime dependencies shared by the CLI
// subcommands: database, schema migration and Redis.
package bootstrap

import (
	"errors"
	"fmt"
	"log"

	"hayami/internal/cache"
	"hayami/internal/config"
	"hayami/internal/database"
	"hayami/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// Migrate applies the schema before returning the handle. The serve and
	// import paths want this; read-only commands can skip it.
	Migrate bool
}

// InitRuntime connects to DB and Redis and optionally migrates the schema.
// The Redis client may be nil when the server is unreachable; callers degrade
// to database-only operation.
func InitRuntime(cfg *config.Config, opts Options) (*gorm.DB, *redis.Client, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection failed: %w", err)
	}

	if opts.Migrate {
		if err := database.Migrate(db); err != nil {
			return nil, nil, fmt.Errorf("schema migration failed: %w", err)
		}
	}

	cache.InitRedis(cfg.RedisURL)
	r := cache.GetClient()

	if err := ensureOwner(cfg, db); err != nil {
		return nil, nil, fmt.Errorf("failed to bootstrap owner user: %w", err)
	}

	return db, r, nil
}

// ensureOwner guarantees the configured owner account exists so owner-only
// commands work before the owner ever talks to the bot.
func ensureOwner(cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil || cfg.OwnerID == 0 {
		return nil
	}

	var owner models.User
	err := db.First(&owner, cfg.OwnerID).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	owner = models.User{
		ID:         cfg.OwnerID,
		ReplyMode:  true,
		PixivStyle: models.StyleImageInfoLink,
	}
	if err := db.Create(&owner).Error; err != nil {
		return err
	}
	log.Printf("owner user %d bootstrapped", cfg.OwnerID)
	return nil
}
