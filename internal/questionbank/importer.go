package questionbank

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/timomath/backend/internal/domain/question"
	"github.com/timomath/backend/internal/domain/subject"
	"github.com/timomath/backend/internal/id"
)

// Saver persists imported questions. *store.SQLiteStore satisfies it.
type Saver interface {
	SaveQuestion(ctx context.Context, q *question.Question) error
}

// ImportConfig controls spreadsheet imports. Expected row layout:
//
//	subject | difficulty | question text | options (pipe-separated) | correct answer | image ref
type ImportConfig struct {
	FilePath  string
	SheetName string
	StartRow  int // 1-based; rows above it are skipped
}

func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{
		FilePath:  path,
		SheetName: "Sheet1",
		StartRow:  2,
	}
}

// ImportResult summarizes an import run. Row-level problems land in
// Errors instead of aborting the run.
type ImportResult struct {
	TotalRows int
	Imported  int
	Errors    []string
}

var errBlankRow = errors.New("blank row")

// Import reads questions from an Excel or CSV file and saves them
// through the given Saver. Malformed rows are reported, not fatal.
func Import(ctx context.Context, saver Saver, cfg ImportConfig) (*ImportResult, error) {
	if strings.EqualFold(filepath.Ext(cfg.FilePath), ".csv") {
		return importCSV(ctx, saver, cfg)
	}
	return importExcel(ctx, saver, cfg)
}

func importExcel(ctx context.Context, saver Saver, cfg ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", cfg.SheetName, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		if i < cfg.StartRow-1 {
			continue
		}
		importRow(ctx, saver, row, i+1, result)
	}
	return result, nil
}

func importCSV(ctx context.Context, saver Saver, cfg ImportConfig) (*ImportResult, error) {
	file, err := os.Open(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	result := &ImportResult{}
	rowNum := 0
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rowNum++
		if rowNum < cfg.StartRow {
			continue
		}
		importRow(ctx, saver, row, rowNum, result)
	}
	return result, nil
}

func importRow(ctx context.Context, saver Saver, row []string, rowNum int, result *ImportResult) {
	q, err := rowToQuestion(row)
	if errors.Is(err, errBlankRow) {
		return
	}
	result.TotalRows++
	if err == nil {
		err = saver.SaveQuestion(ctx, q)
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
		return
	}
	result.Imported++
}

func rowToQuestion(row []string) (*question.Question, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	if cell(0) == "" && cell(2) == "" {
		return nil, errBlankRow
	}

	subj, err := subject.Parse(cell(0))
	if err != nil {
		return nil, err
	}

	rawDifficulty, err := strconv.Atoi(cell(1))
	if err != nil {
		return nil, fmt.Errorf("difficulty %q: not a number", cell(1))
	}
	difficulty, err := subject.ParseDifficulty(rawDifficulty)
	if err != nil {
		return nil, err
	}

	text := cell(2)
	if text == "" {
		return nil, errors.New("empty question text")
	}

	rawOptions := strings.Split(cell(3), "|")
	if len(rawOptions) > len(optionLabels) {
		return nil, fmt.Errorf("too many options (%d)", len(rawOptions))
	}
	correct := cell(4)
	options := make([]question.Option, 0, len(rawOptions))
	correctLabel := ""
	for i, raw := range rawOptions {
		optText := strings.TrimSpace(raw)
		if optText == "" {
			continue
		}
		label := optionLabels[i]
		options = append(options, question.Option{Label: label, Text: optText})
		if optText == correct || strings.EqualFold(label, correct) {
			correctLabel = label
		}
	}
	if correctLabel == "" {
		return nil, fmt.Errorf("correct answer %q not among options", correct)
	}

	q := &question.Question{
		ID:           id.GenerateID(),
		Subject:      subj,
		Difficulty:   difficulty,
		Text:         text,
		Options:      options,
		CorrectLabel: correctLabel,
	}
	if img := cell(5); img != "" {
		q.ImageRef = &img
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}
