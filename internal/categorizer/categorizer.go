// Package categorizer assigns the difficulty, topic and word type labels of a saved word
// using fixed length thresholds and keyword lists.
package categorizer

import (
	"strings"
	"unicode/utf8"

	"github.com/example/wordwise/pkg/models"
)

// Length thresholds for the difficulty tiers. Both bounds of a tier must hold.
const (
	beginnerMaxWord       = 5
	beginnerMaxDefinition = 50

	intermediateMaxWord       = 8
	intermediateMaxDefinition = 100

	// specializedMinWord is the word length above which an unlisted word is specialized.
	specializedMinWord = 10
)

// topicRule pairs a topic with the keywords that select it. Rules are checked in order.
type topicRule struct {
	topic    models.Topic
	keywords []string
}

var topicRules = []topicRule{
	{models.TopicBusiness, []string{"business", "corporate", "company", "profit", "revenue"}},
	{models.TopicAcademic, []string{"theory", "research", "analysis", "hypothesis", "methodology"}},
	{models.TopicTechnical, []string{"system", "process", "algorithm", "database", "software"}},
}

var (
	commonWords   = wordSet("make", "get", "go", "come", "take", "see", "know", "think", "say", "tell")
	academicWords = wordSet("analyze", "synthesize", "hypothesize", "conceptualize")
)

func wordSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// Categorize labels a word from its text and first definition. It never fails.
func Categorize(word, definition string) models.Categories {
	return models.Categories{
		Difficulty: Difficulty(word, definition),
		Topic:      Topic(word, definition),
		WordType:   WordType(word),
	}
}

// Difficulty picks the first tier whose word and definition bounds both hold.
func Difficulty(word, definition string) models.Level {
	wordLen := utf8.RuneCountInString(word)
	defLen := utf8.RuneCountInString(definition)

	switch {
	case wordLen <= beginnerMaxWord && defLen <= beginnerMaxDefinition:
		return models.LevelBeginner
	case wordLen <= intermediateMaxWord && defLen <= intermediateMaxDefinition:
		return models.LevelIntermediate
	default:
		return models.LevelAdvanced
	}
}

// Topic matches keywords against "word definition", business first, then academic,
// then technical. Anything else is daily life.
func Topic(word, definition string) models.Topic {
	text := strings.ToLower(word + " " + definition)
	for _, rule := range topicRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.topic
			}
		}
	}
	return models.TopicDailyLife
}

// WordType checks the common list, then the academic list, then the length rule.
func WordType(word string) models.WordType {
	lower := strings.ToLower(word)
	if _, ok := commonWords[lower]; ok {
		return models.WordTypeCommon
	}
	if _, ok := academicWords[lower]; ok {
		return models.WordTypeAcademic
	}
	if utf8.RuneCountInString(word) > specializedMinWord {
		return models.WordTypeSpecialized
	}
	return models.WordTypeCommon
}
