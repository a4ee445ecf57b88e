// Package commands implements the hayami CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hayami",
	Short: "Hayami - artwork posting bot with cross-channel deduplication",
	Long: `Hayami posts Twitter and Pixiv artwork links to Telegram channels and
tracks which channel posted each artwork first.

Subcommands:
  serve      - run the webhook bot server
  import     - load exported channel history dumps
  reconcile  - recompute originality flags from post dates
  dump       - export all tables to JSON files
  seed       - populate the database with development fixtures`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// .env is a development convenience; absence is fine.
		_ = godotenv.Load()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
