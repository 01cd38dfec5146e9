package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/example/wordwise/pkg/models"
)

const (
	wordsSheet      = "Words"
	categoriesSheet = "Categories"
)

var wordHeaders = []interface{}{"Word", "Phonetic", "Part of Speech", "Definition", "Example", "Difficulty", "Topic", "Word Type", "Date Added", "Review Count", "Mastery"}

// WriteWorkbook writes the words and the category counts as an xlsx workbook.
func WriteWorkbook(w io.Writer, words []models.WordEntry, index models.CategoryIndex) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", wordsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(wordsSheet, "A1", &wordHeaders); err != nil {
		return err
	}
	for i, word := range words {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			word.Word,
			word.Phonetic,
			word.PartOfSpeech,
			word.Definition,
			word.Example,
			string(word.Categories.Difficulty),
			string(word.Categories.Topic),
			string(word.Categories.WordType),
			word.DateAdded.Format("2006-01-02"),
			word.ReviewCount,
			word.Difficulty,
		}
		if err := f.SetSheetRow(wordsSheet, cell, &row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(categoriesSheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	header := []interface{}{"Facet", "Value", "Count"}
	if err := f.SetSheetRow(categoriesSheet, "A1", &header); err != nil {
		return err
	}
	line := 2
	for _, facet := range models.Facets {
		for _, value := range facet.Values() {
			cell, err := excelize.CoordinatesToCellName(1, line)
			if err != nil {
				return err
			}
			row := []interface{}{facet.Label(), models.DisplayValue(value), index.Count(facet, value)}
			if err := f.SetSheetRow(categoriesSheet, cell, &row); err != nil {
				return err
			}
			line++
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
