package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/timomath/backend/internal/metrics"
	"github.com/timomath/backend/internal/service"
	"github.com/timomath/backend/internal/simulation"
	"github.com/timomath/backend/internal/store"
)

func newSeedCommand() *cobra.Command {
	cfg := simulation.DefaultConfig()
	var verbose bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with simulated learners and lesson history",
		Long:  "Creates synthetic learners that play lessons against the imported question bank, so performance reports and the difficulty adjuster have real data to work with.",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.NewSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			logWriter := io.Discard
			if verbose {
				logWriter = os.Stderr
			}
			logger := slog.New(slog.NewTextHandler(logWriter, nil))
			svc := service.NewLearningService(db, metrics.New(), logger, service.Options{})

			report, err := simulation.Run(cmd.Context(), svc, db, logger, cfg)
			if err != nil {
				return err
			}

			fmt.Printf("seeded %d learners, %d lessons completed\n", report.Learners, report.LessonsCompleted)
			for _, e := range report.Errors {
				fmt.Fprintln(os.Stderr, e)
			}
			if len(report.Errors) > 0 {
				return fmt.Errorf("%d learners failed", len(report.Errors))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.Learners, "learners", cfg.Learners, "number of learners to simulate")
	cmd.Flags().IntVar(&cfg.LessonsPerLearner, "lessons", cfg.LessonsPerLearner, "lessons each learner plays")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "concurrent learners")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "log every simulated lesson")
	return cmd
}
