package categorizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/wordwise/pkg/models"
)

func TestCategorize_Cat(t *testing.T) {
	t.Parallel()

	got := Categorize("cat", "A small domesticated feline.")
	assert.Equal(t, models.Categories{
		Difficulty: models.LevelBeginner,
		Topic:      models.TopicDailyLife,
		WordType:   models.WordTypeCommon,
	}, got)
}

func TestCategorize_Algorithm(t *testing.T) {
	t.Parallel()

	got := Categorize("algorithm", "A process or set of rules for calculations")
	assert.Equal(t, models.LevelAdvanced, got.Difficulty)
	assert.Equal(t, models.TopicTechnical, got.Topic)
	assert.Equal(t, models.WordTypeCommon, got.WordType)
}

func TestCategorize_Deterministic(t *testing.T) {
	t.Parallel()

	for i := 0; i < 10; i++ {
		assert.Equal(t,
			Categorize("hypothesis", "A proposed explanation made on the basis of limited evidence."),
			Categorize("hypothesis", "A proposed explanation made on the basis of limited evidence."),
		)
	}
}

func TestDifficulty(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		word       string
		definition string
		want       models.Level
	}{
		{"both within beginner", "apple", strings.Repeat("a", 50), models.LevelBeginner},
		{"short word long definition", "apple", strings.Repeat("a", 51), models.LevelIntermediate},
		{"six letters short definition", "banana", "fruit", models.LevelIntermediate},
		{"intermediate bounds", "absolute", strings.Repeat("a", 100), models.LevelIntermediate},
		{"definition over intermediate", "absolute", strings.Repeat("a", 101), models.LevelAdvanced},
		{"word over intermediate", "abstracts", "x", models.LevelAdvanced},
		{"runes not bytes", "café", "boisson chaude", models.LevelBeginner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Difficulty(tt.word, tt.definition))
		})
	}
}

func TestTopic_PriorityOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		word       string
		definition string
		want       models.Topic
	}{
		{"business beats technical", "ledger", "A company system for recording revenue", models.TopicBusiness},
		{"academic beats technical", "survey", "A research process", models.TopicAcademic},
		{"technical", "server", "A computer running software", models.TopicTechnical},
		{"keyword in word itself", "database", "An organized collection of data", models.TopicTechnical},
		{"case insensitive", "venture", "A risky BUSINESS undertaking", models.TopicBusiness},
		{"substring match", "theorem", "A statement provable from axioms in a theory", models.TopicAcademic},
		{"no match", "walk", "Move at a regular pace", models.TopicDailyLife},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Topic(tt.word, tt.definition))
		})
	}
}

func TestWordType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, models.WordTypeCommon, WordType("Think"))
	assert.Equal(t, models.WordTypeAcademic, WordType("Synthesize"))
	assert.Equal(t, models.WordTypeAcademic, WordType("conceptualize"), "academic list wins over length rule")
	assert.Equal(t, models.WordTypeSpecialized, WordType("photosynthesis"))
	assert.Equal(t, models.WordTypeCommon, WordType("abcdefghij"), "exactly ten characters is not specialized")
	assert.Equal(t, models.WordTypeCommon, WordType("cat"))
}
