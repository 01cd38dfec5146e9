package models

import "time"

const (
	// MaxMastery is the upper bound of the mastery score.
	MaxMastery = 3
	// MasteredThreshold is the mastery score from which a word counts as mastered.
	MasteredThreshold = 2
)

// WordEntry is one saved word in a user's collection.
type WordEntry struct {
	ID           string     `json:"id"`
	Word         string     `json:"word"`
	Phonetic     string     `json:"phonetic,omitempty"`
	Definition   string     `json:"definition"`
	Example      string     `json:"example,omitempty"`
	PartOfSpeech string     `json:"partOfSpeech"`
	Categories   Categories `json:"categories"`
	DateAdded    time.Time  `json:"dateAdded"`
	ReviewCount  int        `json:"reviewCount"`
	LastReviewed *time.Time `json:"lastReviewed"`
	// Difficulty is the 0-3 mastery score. It is unrelated to Categories.Difficulty.
	Difficulty int       `json:"difficulty"`
	NextReview time.Time `json:"nextReview"`
}

// Reviewed reports whether the word has been answered at least once.
func (w WordEntry) Reviewed() bool {
	return w.ReviewCount > 0
}

// Mastered reports whether the mastery score reached MasteredThreshold.
func (w WordEntry) Mastered() bool {
	return w.Difficulty >= MasteredThreshold
}

// NeedsReview reports whether the word was never reviewed or is not yet mastered.
func (w WordEntry) NeedsReview() bool {
	return w.ReviewCount == 0 || w.Difficulty < MasteredThreshold
}
