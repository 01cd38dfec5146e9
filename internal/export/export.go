// Package export writes the collection in the backup and study formats and reads backups
// back.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/wordwise/pkg/models"
)

// BackupVersion is the only backup version this package reads and writes.
const BackupVersion = "1.0"

// Format names a supported export.
type Format string

const (
	FormatJSON       Format = "json"
	FormatBackup     Format = "backup"
	FormatCSV        Format = "csv"
	FormatFlashcards Format = "flashcards"
	FormatStudySheet Format = "studysheet"
	FormatXLSX       Format = "xlsx"
)

var (
	ErrUnsupportedVersion = errors.New("unsupported file version")
	ErrInvalidBackup      = errors.New("invalid file format")
)

// Backup is the JSON document written by WriteJSON and WriteUserData.
type Backup struct {
	Version    string               `json:"version"`
	ExportDate time.Time            `json:"exportDate"`
	UserEmail  string               `json:"userEmail"`
	TotalWords int                  `json:"totalWords,omitempty"`
	Words      []models.WordEntry   `json:"words"`
	Categories models.CategoryIndex `json:"categories,omitempty"`
	Settings   *models.Settings     `json:"settings,omitempty"`
}

// ParseFormat converts user input into a Format.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatJSON, FormatBackup, FormatCSV, FormatFlashcards, FormatStudySheet, FormatXLSX:
		return f, nil
	case "txt", "flashcard":
		return FormatFlashcards, nil
	case "study", "study-sheet":
		return FormatStudySheet, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

// Filename returns the conventional download name for the format.
func Filename(f Format, now time.Time) string {
	day := now.Format("2006-01-02")
	switch f {
	case FormatJSON:
		return "wordwise-backup-" + day + ".json"
	case FormatBackup:
		return "wordwise-userdata-" + day + ".json"
	case FormatCSV:
		return "wordwise-words-" + day + ".csv"
	case FormatFlashcards:
		return "wordwise-flashcards-" + day + ".txt"
	case FormatStudySheet:
		return "wordwise-studysheet-" + day + ".txt"
	case FormatXLSX:
		return "wordwise-words-" + day + ".xlsx"
	}
	return "wordwise-export-" + day
}

// WriteJSON writes the word backup.
func WriteJSON(w io.Writer, words []models.WordEntry, userEmail string, now time.Time) error {
	if words == nil {
		words = []models.WordEntry{}
	}
	return writeIndented(w, Backup{
		Version:    BackupVersion,
		ExportDate: now.UTC(),
		UserEmail:  userEmail,
		TotalWords: len(words),
		Words:      words,
	})
}

// WriteUserData writes every document of the user.
func WriteUserData(w io.Writer, words []models.WordEntry, index models.CategoryIndex, settings models.Settings, userEmail string, now time.Time) error {
	if words == nil {
		words = []models.WordEntry{}
	}
	return writeIndented(w, Backup{
		Version:    BackupVersion,
		ExportDate: now.UTC(),
		UserEmail:  userEmail,
		Words:      words,
		Categories: index,
		Settings:   &settings,
	})
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ReadBackup parses either JSON backup format.
func ReadBackup(r io.Reader) (Backup, error) {
	var raw struct {
		Backup
		Words *[]models.WordEntry `json:"words"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Backup{}, fmt.Errorf("%w: %w", ErrInvalidBackup, err)
	}
	if raw.Version != BackupVersion {
		return Backup{}, fmt.Errorf("%w: %q", ErrUnsupportedVersion, raw.Version)
	}
	if raw.Words == nil {
		return Backup{}, fmt.Errorf("%w: missing words", ErrInvalidBackup)
	}
	b := raw.Backup
	b.Words = *raw.Words
	return b, nil
}

var csvHeaders = []string{"Word", "Phonetic", "Part of Speech", "Definition", "Example", "Difficulty", "Topic", "Word Type", "Date Added", "Review Count"}

// WriteCSV writes one row per word.
func WriteCSV(w io.Writer, words []models.WordEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeaders); err != nil {
		return err
	}
	for _, word := range words {
		row := []string{
			word.Word,
			word.Phonetic,
			word.PartOfSpeech,
			word.Definition,
			word.Example,
			string(word.Categories.Difficulty),
			string(word.Categories.Topic),
			string(word.Categories.WordType),
			word.DateAdded.Format("2006-01-02"),
			strconv.Itoa(word.ReviewCount),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// WriteFlashcards writes a FRONT/BACK card per word.
func WriteFlashcards(w io.Writer, words []models.WordEntry) error {
	for i, word := range words {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, "FRONT: %s\nBACK: %s\nPRONUNCIATION: %s\nEXAMPLE: %s\nCATEGORY: %s | %s\n%s\n",
			word.Word,
			word.Definition,
			orNA(word.Phonetic),
			orNA(word.Example),
			word.Categories.Difficulty,
			word.Categories.Topic,
			strings.Repeat("=", 50),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// Filter narrows a study sheet to one category value.
type Filter struct {
	Facet models.Facet
	Value string
}

// ParseFilter parses "facet:value". An empty string means no filter.
func ParseFilter(s string) (*Filter, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	facetPart, value, ok := strings.Cut(s, ":")
	if !ok {
		return nil, fmt.Errorf("%w: filter %q is not facet:value", models.ErrInvalidCategory, s)
	}
	facet, err := models.ParseFacet(facetPart)
	if err != nil {
		return nil, err
	}
	value = strings.ToLower(strings.TrimSpace(value))
	if err := models.ValidateCategory(facet, value); err != nil {
		return nil, err
	}
	return &Filter{Facet: facet, Value: value}, nil
}

// WriteStudySheet writes a numbered printable sheet, optionally filtered.
func WriteStudySheet(w io.Writer, words []models.WordEntry, filter *Filter, now time.Time) error {
	if filter != nil {
		var subset []models.WordEntry
		for _, word := range words {
			if word.Categories.Value(filter.Facet) == filter.Value {
				subset = append(subset, word)
			}
		}
		words = subset
	}

	var b strings.Builder
	b.WriteString("WORDWISE STUDY SHEET\n")
	fmt.Fprintf(&b, "Generated: %s\n", now.Format("2006-01-02"))
	fmt.Fprintf(&b, "Total Words: %d\n", len(words))
	if filter != nil {
		fmt.Fprintf(&b, "Filter: %s - %s\n", filter.Facet, filter.Value)
	} else {
		b.WriteString("All Words\n")
	}
	b.WriteString("\n" + strings.Repeat("=", 80) + "\n")

	for i, word := range words {
		fmt.Fprintf(&b, "\n%d. %s\n", i+1, strings.ToUpper(word.Word))
		fmt.Fprintf(&b, "   Pronunciation: %s\n", orNA(word.Phonetic))
		fmt.Fprintf(&b, "   Part of Speech: %s\n", word.PartOfSpeech)
		fmt.Fprintf(&b, "   Definition: %s\n", word.Definition)
		if word.Example != "" {
			fmt.Fprintf(&b, "   Example: %s\n", word.Example)
		}
		fmt.Fprintf(&b, "   Category: %s | %s\n", word.Categories.Difficulty, word.Categories.Topic)
		b.WriteString("   " + strings.Repeat("-", 60) + "\n")
	}
	b.WriteString("\nEND OF STUDY SHEET\n")

	_, err := io.WriteString(w, b.String())
	return err
}
