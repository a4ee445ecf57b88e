package commands

import (
	"context"
	"log"

	"hayami/internal/bootstrap"
	"hayami/internal/config"
	"hayami/internal/repository"
	"hayami/internal/service"

	"github.com/spf13/cobra"
)

// reconcileCmd recomputes originality flags for every multi-posted artwork
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute originality flags from post dates",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile()
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile() error {
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

	stats, err := artworks.ReconcileAll(context.Background())
	if err != nil {
		return err
	}

	log.Printf("Reconciled %d multi-posted artworks, %d flags changed", stats.Groups, stats.Changed)
	return nil
}
