package commands

import (
	"context"
	"log"

	"hayami/internal/bootstrap"
	"hayami/internal/config"
	"hayami/internal/importer"
	"hayami/internal/repository"
	"hayami/internal/service"

	"github.com/spf13/cobra"
)

// importCmd loads exported channel history dumps into the database
var importCmd = &cobra.Command{
	Use:   "import <dir>",
	Short: "Load exported channel history dumps",
	Long: `Read users.json, channels.json and artworks.json from the given
directory, insert their rows (already-present rows are skipped) and finish
with a full originality reconciliation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runImport(args[0])
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(dir string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{Migrate: true})
	if err != nil {
		return err
	}

	artworks := service.NewArtworkService(db,
		repository.NewArtworkRepository(db), repository.NewPostRepository(db))

	stats, err := importer.NewImporter(db, artworks).Import(context.Background(), dir)
	if err != nil {
		return err
	}

	log.Printf("Imported %d users, %d channels, %d posts (%d duplicates skipped), %d originality flags fixed",
		stats.Users, stats.Channels, stats.Posts, stats.Duplicates, stats.Reconciled)
	return nil
}
