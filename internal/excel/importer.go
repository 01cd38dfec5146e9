// Package excel reads word lists from spreadsheets and writes the collection as a workbook.
package excel

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordwise/pkg/models"
)

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath   string // Path to the Excel or CSV file
	WordColumn string // Column with the word
	SheetName  string // Sheet to import; empty means the first sheet
	StartRow   int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		WordColumn: "A",
		StartRow:   2, // By default, start from the second row (skip header)
	}
}

// Row is one word read from the file.
type Row struct {
	Number int
	Word   string
}

// Saver looks a word up and adds it to the collection.
type Saver interface {
	ImportWord(ctx context.Context, word string) error
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Duplicates     int
	NotFound       int
	Skipped        int
	Errors         []string
}

// ReadWordList extracts the word column from an Excel or CSV file.
func ReadWordList(config ImportConfig) ([]Row, error) {
	if config.WordColumn == "" {
		config.WordColumn = "A"
	}
	if config.StartRow < 1 {
		config.StartRow = 1
	}

	var (
		rows [][]string
		err  error
	)
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	col := columnToIndex(config.WordColumn)
	var out []Row
	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		var word string
		if col < len(row) {
			word = cleanWord(row[col])
		}
		out = append(out, Row{Number: i + 1, Word: word})
	}
	return out, nil
}

// ImportWords reads the file and saves every word through saver. A failed row is
// recorded in the result and does not stop the import.
func ImportWords(ctx context.Context, config ImportConfig, saver Saver) (*ImportResult, error) {
	rows, err := ReadWordList(config)
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if row.Word == "" {
			result.Skipped++
			continue
		}
		result.TotalProcessed++

		err := saver.ImportWord(ctx, row.Word)
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, models.ErrDuplicate):
			result.Duplicates++
		case errors.Is(err, models.ErrNotFound):
			result.NotFound++
		case errors.Is(err, models.ErrPersistence):
			// The word is in the collection; only the write failed.
			result.Created++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row.Number, err))
		default:
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row.Number, err))
		}
	}
	return result, nil
}

func readExcel(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// cleanWord drops trailing notes in parentheses, e.g. "go (went, gone)".
func cleanWord(word string) string {
	word = strings.Trim(strings.TrimSpace(word), "\"")
	if i := strings.Index(word, "("); i > 0 {
		return strings.TrimSpace(word[:i])
	}
	return strings.TrimSpace(word)
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
