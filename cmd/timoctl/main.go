package main

import (
	"os"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var dbPath string

func main() {
	rootCmd := &cobra.Command{
		Use:     "timoctl",
		Short:   "timoctl - manage a TIMO Math question bank and seed data",
		Long:    "timoctl works directly against the server's SQLite database.\nStop the server first, or point --db at a copy.",
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "timo.db", "path to the SQLite database")

	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newSeedCommand())
	rootCmd.AddCommand(newStatsCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
