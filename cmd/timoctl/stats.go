package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/performance"
	"github.com/timomath/backend/internal/store"
)

func newStatsCommand() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show question bank counts, or a user's per-subject performance",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.NewSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			ctx := cmd.Context()
			if userID == "" {
				counts, err := db.CountQuestionsBySubject(ctx)
				if err != nil {
					return err
				}
				total := 0
				for _, subj := range subject.All() {
					fmt.Printf("%-18s %d\n", subj.Label(), counts[subj])
					total += counts[subj]
				}
				fmt.Printf("%-18s %d\n", "Total", total)
				return nil
			}

			user, err := db.GetUser(ctx, userID)
			if err != nil {
				return err
			}
			completed, err := db.GetCompletedLessons(ctx, userID)
			if err != nil {
				return err
			}
			perf, err := performance.Calculate(completed)
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s), %d lessons completed\n", user.Name, user.DifficultyLevel, len(completed))
			for _, subj := range subject.All() {
				sp := perf[subj]
				fmt.Printf("%-18s %3d questions  %5.1f%%  %s\n",
					subj.Label(), sp.TotalQuestions, sp.Accuracy*100, sp.Trend)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "show per-subject performance for this user")
	return cmd
}
