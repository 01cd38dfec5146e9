package collection

import (
	"sort"
	"strings"

	"github.com/example/wordwise/pkg/models"
)

// SortBy selects the ordering of List.
type SortBy string

const (
	SortDateAdded    SortBy = "date_added"
	SortAlphabetical SortBy = "alphabetical"
	SortReviewCount  SortBy = "review_count"
)

// ListOptions narrows and orders a listing of the collection.
type ListOptions struct {
	// Query matches word or definition, case-insensitively.
	Query string
	// Facet and Value filter by category when both are set.
	Facet  models.Facet
	Value  string
	SortBy SortBy
}

// List returns the entries matching opts. The default order is newest first.
func (s *Store) List(opts ListOptions) []models.WordEntry {
	query := strings.ToLower(strings.TrimSpace(opts.Query))

	var out []models.WordEntry
	for _, w := range s.words {
		if query != "" &&
			!strings.Contains(strings.ToLower(w.Word), query) &&
			!strings.Contains(strings.ToLower(w.Definition), query) {
			continue
		}
		if opts.Facet != "" && opts.Value != "" && w.Categories.Value(opts.Facet) != opts.Value {
			continue
		}
		out = append(out, clone(w))
	}

	switch opts.SortBy {
	case SortAlphabetical:
		sort.SliceStable(out, func(i, j int) bool {
			return strings.ToLower(out[i].Word) < strings.ToLower(out[j].Word)
		})
	case SortReviewCount:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].ReviewCount > out[j].ReviewCount
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].DateAdded.After(out[j].DateAdded)
		})
	}
	return out
}
