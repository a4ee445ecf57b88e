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

// dumpCmd exports all tables to JSON files
var dumpCmd = &cobra.Command{
	Use:   "dump <dir>",
	Short: "Export all tables to JSON files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDump(args[0])
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
}

func runDump(dir string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{})
	if err != nil {
		return err
	}

	artworks := service.NewArtworkService(db,
		repository.NewArtworkRepository(db), repository.NewPostRepository(db))

	if err := importer.NewImporter(db, artworks).Dump(context.Background(), dir); err != nil {
		return err
	}

	log.Printf("Tables dumped to %s", dir)
	return nil
}
