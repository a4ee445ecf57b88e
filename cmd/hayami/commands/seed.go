package commands

import (
	"hayami/internal/bootstrap"
	"hayami/internal/config"
	"hayami/internal/seed"

	"github.com/spf13/cobra"
)

var (
	seedUsers    int
	seedChannels int
	seedArtworks int
	seedClean    bool
)

// seedCmd populates the database with development fixtures
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Populate the database with development fixtures",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed()
	},
}

func init() {
	seedCmd.Flags().IntVar(&seedUsers, "users", 5, "number of users to create")
	seedCmd.Flags().IntVar(&seedChannels, "channels", 3, "number of channels to create")
	seedCmd.Flags().IntVar(&seedArtworks, "artworks", 50, "number of artworks to create")
	seedCmd.Flags().BoolVar(&seedClean, "clean", false, "clear existing data first")
	rootCmd.AddCommand(seedCmd)
}

func runSeed() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	db, _, err := bootstrap.InitRuntime(cfg, bootstrap.Options{Migrate: true})
	if err != nil {
		return err
	}

	return seed.Seed(db, seed.Options{
		NumUsers:    seedUsers,
		NumChannels: seedChannels,
		NumArtworks: seedArtworks,
		ShouldClean: seedClean,
	})
}
