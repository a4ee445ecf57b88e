// Package importer loads exported channel history dumps into the database
// and writes the current tables back out as JSON.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hayami/internal/models"
	"hayami/internal/platform"
	"hayami/internal/service"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ArtPost is one flattened artwork sighting from an exported dump: the
// artwork identity together with the channel posting it was seen in.
type ArtPost struct {
	Type                   platform.Platform `json:"type"`
	AID                    int64             `json:"aid"`
	Files                  []string          `json:"files"`
	ChannelID              int64             `json:"channel_id"`
	PostID                 int64             `json:"post_id"`
	PostDate               time.Time         `json:"post_date"`
	IsForwarded            bool              `json:"is_forwarded"`
	ForwardedFromChannelID *int64            `json:"forwarded_channel_id"`
}

// Stats summarizes one import run.
type Stats struct {
	Users      int
	Channels   int
	Posts      int
	Duplicates int
	Reconciled int64
}

// Importer replays exported JSON dumps through the artwork service so
// imported rows obey the same uniqueness and originality rules as live ones.
type Importer struct {
	db       *gorm.DB
	artworks *service.ArtworkService
}

// NewImporter creates a new importer.
func NewImporter(db *gorm.DB, artworks *service.ArtworkService) *Importer {
	return &Importer{db: db, artworks: artworks}
}

// Import reads users.json, channels.json and artworks.json from dir, inserts
// them and finishes with a full originality reconciliation. Already-present
// rows are skipped, so re-running an import is harmless.
func (i *Importer) Import(ctx context.Context, dir string) (Stats, error) {
	var stats Stats

	var users []models.User
	if err := readJSON(dir, "users.json", &users); err != nil {
		return stats, err
	}
	var channels []models.Channel
	if err := readJSON(dir, "channels.json", &channels); err != nil {
		return stats, err
	}

	// Users are inserted with forward mode off and the real value restored
	// after their channels exist; forward mode without an owned channel is
	// an invalid state.
	forwardModes := make(map[int64]bool, len(users))
	for idx := range users {
		forwardModes[users[idx].ID] = users[idx].ForwardMode
		users[idx].ForwardMode = false
	}

	err := i.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for idx := range users {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&users[idx])
			if res.Error != nil {
				return fmt.Errorf("import user %d: %w", users[idx].ID, res.Error)
			}
			stats.Users += int(res.RowsAffected)
		}
		for idx := range channels {
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&channels[idx])
			if res.Error != nil {
				return fmt.Errorf("import channel %d: %w", channels[idx].ID, res.Error)
			}
			stats.Channels += int(res.RowsAffected)
		}
		for id, mode := range forwardModes {
			if !mode {
				continue
			}
			if err := tx.Model(&models.User{}).Where("id = ?", id).
				Update("forward_mode", true).Error; err != nil {
				return fmt.Errorf("restore forward mode for user %d: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	var artposts []ArtPost
	if err := readJSON(dir, "artworks.json", &artposts); err != nil {
		return stats, err
	}

	for _, ap := range artposts {
		_, recorded, err := i.artworks.RecordPost(ctx, service.RecordPostInput{
			Platform:               ap.Type,
			AID:                    ap.AID,
			Files:                  ap.Files,
			ChannelID:              ap.ChannelID,
			PostID:                 ap.PostID,
			PostDate:               ap.PostDate,
			IsForwarded:            ap.IsForwarded,
			ForwardedFromChannelID: ap.ForwardedFromChannelID,
		})
		if err != nil {
			return stats, fmt.Errorf("import post %d/%d: %w", ap.ChannelID, ap.PostID, err)
		}
		if recorded {
			stats.Posts++
		} else {
			stats.Duplicates++
		}
	}

	rec, err := i.artworks.ReconcileAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("reconcile after import: %w", err)
	}
	stats.Reconciled = rec.Changed

	return stats, nil
}

// Dump writes every table to an indented JSON file in dir, one file per
// table, mirroring the import layout plus posts.json.
func (i *Importer) Dump(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dump dir: %w", err)
	}

	var users []models.User
	if err := i.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return fmt.Errorf("dump users: %w", err)
	}
	if err := writeJSON(dir, "users.json", users); err != nil {
		return err
	}

	var channels []models.Channel
	if err := i.db.WithContext(ctx).Order("id").Find(&channels).Error; err != nil {
		return fmt.Errorf("dump channels: %w", err)
	}
	if err := writeJSON(dir, "channels.json", channels); err != nil {
		return err
	}

	var posts []models.Post
	if err := i.db.WithContext(ctx).Order("id").Find(&posts).Error; err != nil {
		return fmt.Errorf("dump posts: %w", err)
	}
	if err := writeJSON(dir, "posts.json", posts); err != nil {
		return err
	}

	var artworks []models.Artwork
	if err := i.db.WithContext(ctx).Order("id").Find(&artworks).Error; err != nil {
		return fmt.Errorf("dump artworks: %w", err)
	}
	return writeJSON(dir, "artworks.json", artworks)
}

func readJSON(dir, name string, v any) error {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func writeJSON(dir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
