// Package stats derives read-only statistics from a collection snapshot.
package stats

import (
	"math"
	"time"

	"github.com/example/wordwise/pkg/models"
)

const (
	// ActivityDays is the length of the activity histogram.
	ActivityDays = 30
	// RecentWindow is how far back a word counts as recently added.
	RecentWindow = 7 * 24 * time.Hour

	dateLayout = "2006-01-02"
)

// Report holds every figure shown on the statistics screen.
type Report struct {
	TotalWords    int
	ReviewedWords int
	MasteredWords int
	AdvancedWords int
	TotalReviews  int
	RecentWords   int
	DailyAverage  float64
	ReviewRate    int
	MasteryRate   int
	Activity      []DayCount
	Categories    []FacetBreakdown
}

// DayCount is one bar of the activity histogram.
type DayCount struct {
	Date  string
	Count int
}

// FacetBreakdown lists the share of each value of one facet.
type FacetBreakdown struct {
	Facet  models.Facet
	Values []ValueShare
}

// ValueShare is the count and percentage of words holding one category value.
type ValueShare struct {
	Value      string
	Count      int
	Percentage int
}

// Compute builds a Report. It has no side effects.
func Compute(words []models.WordEntry, index models.CategoryIndex, now time.Time) Report {
	r := Report{
		TotalWords:    len(words),
		AdvancedWords: index.Count(models.FacetDifficulty, string(models.LevelAdvanced)),
	}

	cutoff := now.Add(-RecentWindow)
	earliest := now
	for _, w := range words {
		if w.Reviewed() {
			r.ReviewedWords++
		}
		if w.Mastered() {
			r.MasteredWords++
		}
		r.TotalReviews += w.ReviewCount
		if !w.DateAdded.Before(cutoff) {
			r.RecentWords++
		}
		if w.DateAdded.Before(earliest) {
			earliest = w.DateAdded
		}
	}

	r.DailyAverage = DailyAverage(len(words), earliest, now)
	r.ReviewRate = percent(r.ReviewedWords, r.TotalWords)
	r.MasteryRate = percent(r.MasteredWords, r.TotalWords)
	r.Activity = Activity(words, now)
	r.Categories = Breakdown(index, r.TotalWords)
	return r
}

// DailyAverage returns total divided by the whole days elapsed since earliest, at least
// one, rounded to one decimal.
func DailyAverage(total int, earliest, now time.Time) float64 {
	days := math.Ceil(now.Sub(earliest).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return math.Round(float64(total)/days*10) / 10
}

// Activity counts words added on each of the trailing ActivityDays calendar days, oldest
// first and ending today. Days are compared in now's location.
func Activity(words []models.WordEntry, now time.Time) []DayCount {
	perDay := make(map[string]int, len(words))
	for _, w := range words {
		perDay[w.DateAdded.In(now.Location()).Format(dateLayout)]++
	}

	out := make([]DayCount, 0, ActivityDays)
	for i := ActivityDays - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format(dateLayout)
		out = append(out, DayCount{Date: day, Count: perDay[day]})
	}
	return out
}

// Breakdown turns the category index into per-facet shares. Values nobody holds are
// omitted.
func Breakdown(index models.CategoryIndex, total int) []FacetBreakdown {
	out := make([]FacetBreakdown, 0, len(models.Facets))
	for _, f := range models.Facets {
		fb := FacetBreakdown{Facet: f}
		for _, v := range f.Values() {
			n := index.Count(f, v)
			if n == 0 {
				continue
			}
			fb.Values = append(fb.Values, ValueShare{Value: v, Count: n, Percentage: percent(n, total)})
		}
		out = append(out, fb)
	}
	return out
}

func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
