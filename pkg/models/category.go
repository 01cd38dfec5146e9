package models

import (
	"fmt"
	"strings"
)

// Facet names one of the three independent classification dimensions of a saved word.
type Facet string

const (
	FacetDifficulty Facet = "difficulty"
	FacetTopic      Facet = "topic"
	FacetWordType   Facet = "word_type"
)

// Facets lists every facet in display order.
var Facets = []Facet{FacetDifficulty, FacetTopic, FacetWordType}

// Level is the static difficulty label assigned when a word is saved.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Topic is the subject area label assigned when a word is saved.
type Topic string

const (
	TopicBusiness  Topic = "business"
	TopicAcademic  Topic = "academic"
	TopicTechnical Topic = "technical"
	TopicDailyLife Topic = "daily_life"
)

// WordType is the register label assigned when a word is saved.
type WordType string

const (
	WordTypeCommon      WordType = "common"
	WordTypeAcademic    WordType = "academic"
	WordTypeSpecialized WordType = "specialized"
)

var facetValues = map[Facet][]string{
	FacetDifficulty: {string(LevelBeginner), string(LevelIntermediate), string(LevelAdvanced)},
	FacetTopic:      {string(TopicBusiness), string(TopicAcademic), string(TopicTechnical), string(TopicDailyLife)},
	FacetWordType:   {string(WordTypeCommon), string(WordTypeAcademic), string(WordTypeSpecialized)},
}

// ParseFacet converts user input into a Facet.
func ParseFacet(s string) (Facet, error) {
	f := Facet(strings.ToLower(strings.TrimSpace(s)))
	if f == "type" || f == "wordtype" {
		f = FacetWordType
	}
	if !f.Valid() {
		return "", fmt.Errorf("%w: unknown facet %q", ErrInvalidCategory, s)
	}
	return f, nil
}

// Valid reports whether f is one of the known facets.
func (f Facet) Valid() bool {
	_, ok := facetValues[f]
	return ok
}

// Values returns the closed set of values for the facet, in display order.
func (f Facet) Values() []string {
	return append([]string(nil), facetValues[f]...)
}

// Label returns a human readable facet name.
func (f Facet) Label() string {
	if f == FacetWordType {
		return "Word Type"
	}
	return DisplayValue(string(f))
}

// ValidateCategory checks that value belongs to the facet's value set.
func ValidateCategory(f Facet, value string) error {
	if !f.Valid() {
		return fmt.Errorf("%w: unknown facet %q", ErrInvalidCategory, f)
	}
	for _, v := range facetValues[f] {
		if v == value {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not a %s value", ErrInvalidCategory, value, f)
}

// DisplayValue turns a stored value such as "daily_life" into "Daily life".
func DisplayValue(v string) string {
	if v == "" {
		return v
	}
	v = strings.ReplaceAll(v, "_", " ")
	return strings.ToUpper(v[:1]) + v[1:]
}

// Categories is the label tuple produced by the categorizer. It is fixed at save time.
type Categories struct {
	Difficulty Level    `json:"difficulty"`
	Topic      Topic    `json:"topic"`
	WordType   WordType `json:"word_type"`
}

// Value returns the label held for the given facet.
func (c Categories) Value(f Facet) string {
	switch f {
	case FacetDifficulty:
		return string(c.Difficulty)
	case FacetTopic:
		return string(c.Topic)
	case FacetWordType:
		return string(c.WordType)
	}
	return ""
}

// CategoryIndex counts, per facet, how many words hold each value.
// For every facet the counts sum to the collection size.
type CategoryIndex map[Facet]map[string]int

// NewCategoryIndex returns an index with an empty bucket for every facet.
func NewCategoryIndex() CategoryIndex {
	ci := make(CategoryIndex, len(Facets))
	for _, f := range Facets {
		ci[f] = make(map[string]int)
	}
	return ci
}

// BuildCategoryIndex recomputes the index from a set of entries.
func BuildCategoryIndex(words []WordEntry) CategoryIndex {
	ci := NewCategoryIndex()
	for _, w := range words {
		ci.Add(w.Categories)
	}
	return ci
}

// Add increments exactly one counter per facet.
func (ci CategoryIndex) Add(c Categories) {
	for _, f := range Facets {
		if ci[f] == nil {
			ci[f] = make(map[string]int)
		}
		ci[f][c.Value(f)]++
	}
}

// Count returns the number of words holding value for facet f.
func (ci CategoryIndex) Count(f Facet, value string) int {
	return ci[f][value]
}

// Total sums every counter of facet f.
func (ci CategoryIndex) Total(f Facet) int {
	total := 0
	for _, n := range ci[f] {
		total += n
	}
	return total
}

// Consistent reports whether every facet sums to size.
func (ci CategoryIndex) Consistent(size int) bool {
	for _, f := range Facets {
		if ci.Total(f) != size {
			return false
		}
	}
	return true
}

// Clone returns a deep copy.
func (ci CategoryIndex) Clone() CategoryIndex {
	out := make(CategoryIndex, len(ci))
	for f, values := range ci {
		m := make(map[string]int, len(values))
		for v, n := range values {
			m[v] = n
		}
		out[f] = m
	}
	return out
}
