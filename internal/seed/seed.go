// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"hayami/internal/models"
	"hayami/internal/platform"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers    int
	NumChannels int
	NumArtworks int
	ShouldClean bool
}

// Seed populates the database with test data: users, claimed channels and
// artwork postings. A handful of artworks are posted to several channels,
// at least one of them recorded out of order so a reconcile run has work.
func Seed(db *gorm.DB, opts Options) error {
	log.Printf("Seeding %d users, %d channels, %d artworks...",
		opts.NumUsers, opts.NumChannels, opts.NumArtworks)

	if opts.ShouldClean {
		if err := clearData(db); err != nil {
			log.Println("Warning: could not clear all existing data, continuing anyway...")
		}
	}

	gofakeit.Seed(time.Now().UnixNano())
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	users, err := createUsers(db, opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("%d users created", len(users))

	channels, err := createChannels(db, users, opts.NumChannels)
	if err != nil {
		return fmt.Errorf("failed to create channels: %w", err)
	}
	log.Printf("%d channels created", len(channels))

	posted, err := createArtworks(db, r, channels, opts.NumArtworks)
	if err != nil {
		return fmt.Errorf("failed to create artworks: %w", err)
	}
	log.Printf("%d artworks posted", posted)

	return nil
}

func clearData(db *gorm.DB) error {
	for _, model := range []any{&models.Post{}, &models.Artwork{}, &models.Channel{}, &models.User{}} {
		if err := db.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func createUsers(db *gorm.DB, n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user := &models.User{
			ID:         int64(100_000 + i),
			FullName:   gofakeit.Name(),
			NickName:   gofakeit.Username(),
			ReplyMode:  true,
			PixivStyle: models.StyleImageInfoLink,
		}
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func createChannels(db *gorm.DB, users []*models.User, n int) ([]*models.Channel, error) {
	channels := make([]*models.Channel, 0, n)
	for i := 0; i < n; i++ {
		channel := &models.Channel{
			ID:      -1_001_000_000_000 - int64(i+1),
			Name:    gofakeit.BookTitle(),
			Link:    "https://t.me/" + gofakeit.Username(),
			IsAdmin: true,
		}
		// every channel gets an owner as long as users remain
		if i < len(users) {
			channel.AdminID = &users[i].ID
			if err := db.Model(users[i]).Update("forward_mode", true).Error; err != nil {
				return nil, err
			}
		}
		if err := db.Create(channel).Error; err != nil {
			return nil, err
		}
		channels = append(channels, channel)
	}
	return channels, nil
}

func createArtworks(db *gorm.DB, r *rand.Rand, channels []*models.Channel, n int) (int, error) {
	if len(channels) == 0 {
		return 0, nil
	}

	posted := 0
	for i := 0; i < n; i++ {
		p := platform.Twitter
		if i%3 == 0 {
			p = platform.Pixiv
		}

		aid := int64(gofakeit.Number(1_000_000, 99_999_999))
		artwork := &models.Artwork{AID: aid, Type: p, Files: fakeFiles(p, aid)}
		if err := db.Create(artwork).Error; err != nil {
			return posted, err
		}

		first := channels[r.Intn(len(channels))]
		date := gofakeit.DateRange(
			time.Now().AddDate(0, -3, 0), time.Now().AddDate(0, 0, -1))

		posts := []*models.Post{{
			ArtworkID:  artwork.ID,
			ChannelID:  first.ID,
			PostID:     int64(1000 + i*10),
			PostDate:   date,
			IsOriginal: true,
		}}

		// Every fifth artwork is multi-posted, with the earlier posting
		// inserted last so its write-time flag is wrong until reconciled.
		if i%5 == 0 && len(channels) > 1 {
			other := channels[(r.Intn(len(channels)-1)+1)%len(channels)]
			if other.ID == first.ID {
				other = channels[0]
			}
			posts = append(posts, &models.Post{
				ArtworkID:  artwork.ID,
				ChannelID:  other.ID,
				PostID:     int64(1000 + i*10 + 1),
				PostDate:   date.Add(-6 * time.Hour),
				IsOriginal: false,
			})
		}

		for _, post := range posts {
			if err := db.Create(post).Error; err != nil {
				return posted, err
			}
		}
		posted++
	}
	return posted, nil
}

func fakeFiles(p platform.Platform, aid int64) models.StringList {
	if p == platform.Pixiv {
		return models.StringList{fmt.Sprintf("%d", aid)}
	}
	return models.StringList{gofakeit.LetterN(15)}
}
