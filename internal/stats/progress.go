package stats

import "github.com/example/wordwise/pkg/models"

// Progress summarises how far a set of words has been practised.
type Progress struct {
	Total       int
	Reviewed    int
	NeedsReview int
}

// Percent is the reviewed share, rounded.
func (p Progress) Percent() int {
	return percent(p.Reviewed, p.Total)
}

// Overview computes Progress over every word.
func Overview(words []models.WordEntry) Progress {
	var p Progress
	for _, w := range words {
		p.Total++
		if w.Reviewed() {
			p.Reviewed++
		}
		if w.NeedsReview() {
			p.NeedsReview++
		}
	}
	return p
}

// CategoryProgress computes Progress over the words labelled value for facet.
func CategoryProgress(words []models.WordEntry, facet models.Facet, value string) Progress {
	var subset []models.WordEntry
	for _, w := range words {
		if w.Categories.Value(facet) == value {
			subset = append(subset, w)
		}
	}
	return Overview(subset)
}
