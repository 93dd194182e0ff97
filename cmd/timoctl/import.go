package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/timomath/backend/internal/questionbank"
	"github.com/timomath/backend/internal/store"
)

func newImportCommand() *cobra.Command {
	var sheetName string
	var startRow int

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import questions from a JSON bank, Excel sheet, or CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := store.NewSQLite(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			path := args[0]
			ctx := cmd.Context()
			if strings.EqualFold(filepath.Ext(path), ".json") {
				return importJSON(ctx, db, path)
			}

			cfg := questionbank.DefaultImportConfig(path)
			cfg.SheetName = sheetName
			cfg.StartRow = startRow

			result, err := questionbank.Import(ctx, db, cfg)
			if err != nil {
				return err
			}
			fmt.Printf("imported %d of %d rows\n", result.Imported, result.TotalRows)
			for _, e := range result.Errors {
				fmt.Fprintln(os.Stderr, e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sheetName, "sheet", "Sheet1", "Excel sheet to import")
	cmd.Flags().IntVar(&startRow, "start-row", 2, "first data row (1-based)")
	return cmd
}

func importJSON(ctx context.Context, db *store.SQLiteStore, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open bank file: %w", err)
	}
	defer f.Close()

	questions, err := questionbank.ParseJSON(f)
	if err != nil {
		return err
	}
	for i := range questions {
		if err := db.SaveQuestion(ctx, &questions[i]); err != nil {
			return fmt.Errorf("save question %s: %w", questions[i].ID, err)
		}
	}
	fmt.Printf("imported %d questions\n", len(questions))
	return nil
}
