package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/wordwise/pkg/models"
)

var now = time.Date(2024, 5, 20, 15, 0, 0, 0, time.UTC)

func entry(word string, added time.Time, reviews, mastery int, c models.Categories) models.WordEntry {
	return models.WordEntry{
		ID:          word,
		Word:        word,
		DateAdded:   added,
		ReviewCount: reviews,
		Difficulty:  mastery,
		Categories:  c,
	}
}

var (
	beginnerDaily = models.Categories{Difficulty: models.LevelBeginner, Topic: models.TopicDailyLife, WordType: models.WordTypeCommon}
	advancedTech  = models.Categories{Difficulty: models.LevelAdvanced, Topic: models.TopicTechnical, WordType: models.WordTypeSpecialized}
)

func TestComputeEmpty(t *testing.T) {
	r := Compute(nil, models.NewCategoryIndex(), now)

	assert.Zero(t, r.TotalWords)
	assert.Zero(t, r.ReviewRate)
	assert.Zero(t, r.MasteryRate)
	assert.Zero(t, r.DailyAverage)
	require.Len(t, r.Activity, ActivityDays)
	for _, d := range r.Activity {
		assert.Zero(t, d.Count)
	}
	require.Len(t, r.Categories, 3)
	for _, fb := range r.Categories {
		assert.Empty(t, fb.Values)
	}
}

func TestActivityHistogram(t *testing.T) {
	words := []models.WordEntry{
		entry("old", now.AddDate(0, 0, -7).Add(-5*time.Hour), 0, 0, beginnerDaily),
		entry("new", now.Add(-7*time.Hour), 0, 0, beginnerDaily),
	}

	activity := Activity(words, now)
	require.Len(t, activity, ActivityDays)
	assert.Equal(t, "2024-04-21", activity[0].Date)
	assert.Equal(t, "2024-05-20", activity[ActivityDays-1].Date)

	for i, d := range activity {
		offset := ActivityDays - 1 - i
		switch offset {
		case 0, 7:
			assert.Equal(t, 1, d.Count, "offset %d", offset)
		default:
			assert.Zero(t, d.Count, "offset %d", offset)
		}
	}
}

func TestActivityUsesCalendarDayOfNow(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	local := time.Date(2024, 5, 20, 1, 0, 0, 0, loc)
	// 22:30 UTC on the 19th is already the 20th at UTC+3.
	words := []models.WordEntry{entry("late", time.Date(2024, 5, 19, 22, 30, 0, 0, time.UTC), 0, 0, beginnerDaily)}

	activity := Activity(words, local)
	assert.Equal(t, 1, activity[ActivityDays-1].Count)
}

func TestCompute(t *testing.T) {
	words := []models.WordEntry{
		entry("a", now.AddDate(0, 0, -7).Add(-5*time.Hour), 3, 3, advancedTech),
		entry("b", now.AddDate(0, 0, -2), 2, 2, beginnerDaily),
		entry("c", now.Add(-time.Hour), 1, 0, beginnerDaily),
		entry("d", now.Add(-time.Minute), 0, 0, beginnerDaily),
	}
	index := models.BuildCategoryIndex(words)

	r := Compute(words, index, now)

	assert.Equal(t, 4, r.TotalWords)
	assert.Equal(t, 3, r.ReviewedWords)
	assert.Equal(t, 2, r.MasteredWords)
	assert.Equal(t, 1, r.AdvancedWords)
	assert.Equal(t, 6, r.TotalReviews)
	assert.Equal(t, 3, r.RecentWords)
	assert.Equal(t, 75, r.ReviewRate)
	assert.Equal(t, 50, r.MasteryRate)
	// 7 days 5 hours rounds up to 8 days.
	assert.Equal(t, 0.5, r.DailyAverage)

	require.Len(t, r.Categories, 3)
	difficulty := r.Categories[0]
	assert.Equal(t, models.FacetDifficulty, difficulty.Facet)
	assert.Equal(t, []ValueShare{
		{Value: "beginner", Count: 3, Percentage: 75},
		{Value: "advanced", Count: 1, Percentage: 25},
	}, difficulty.Values)
	assert.Equal(t, models.FacetWordType, r.Categories[2].Facet)
}

func TestRecentWordsWindowIsInclusive(t *testing.T) {
	words := []models.WordEntry{
		entry("edge", now.Add(-RecentWindow), 0, 0, beginnerDaily),
		entry("outside", now.Add(-RecentWindow-time.Second), 0, 0, beginnerDaily),
		entry("today", now, 0, 0, beginnerDaily),
	}

	r := Compute(words, models.BuildCategoryIndex(words), now)
	assert.Equal(t, 2, r.RecentWords)
}

func TestDailyAverage(t *testing.T) {
	assert.Equal(t, 5.0, DailyAverage(5, now, now))
	assert.Equal(t, 5.0, DailyAverage(5, now.Add(-time.Hour), now))
	assert.Equal(t, 0.3, DailyAverage(1, now.AddDate(0, 0, -3), now))
	assert.Equal(t, 0.7, DailyAverage(2, now.AddDate(0, 0, -3), now))
}

func TestProgress(t *testing.T) {
	words := []models.WordEntry{
		entry("a", now, 3, 3, advancedTech),
		entry("b", now, 2, 1, beginnerDaily),
		entry("c", now, 0, 0, beginnerDaily),
	}

	all := Overview(words)
	assert.Equal(t, Progress{Total: 3, Reviewed: 2, NeedsReview: 2}, all)
	assert.Equal(t, 67, all.Percent())

	daily := CategoryProgress(words, models.FacetTopic, "daily_life")
	assert.Equal(t, Progress{Total: 2, Reviewed: 1, NeedsReview: 2}, daily)

	empty := CategoryProgress(words, models.FacetTopic, "business")
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.Percent())
}

func TestInsights(t *testing.T) {
	good := Insights(Report{
		TotalWords: 10, ReviewedWords: 10, MasteredWords: 6, AdvancedWords: 4,
		DailyAverage: 1.5, ReviewRate: 100, MasteryRate: 60,
	})
	require.Len(t, good, 6)
	assert.Equal(t, "Excellent progress! You've mastered 60% of your words.", good[0])
	assert.Equal(t, "Great consistency! Adding 1.5 words per day on average.", good[1])
	assert.Equal(t, "Excellent review habits! 100% of words reviewed.", good[2])
	assert.Equal(t, "All words reviewed! Great job maintaining your vocabulary.", good[3])
	assert.Equal(t, "Good balance of word difficulty levels!", good[4])

	weak := Insights(Report{TotalWords: 10, ReviewedWords: 3, MasteredWords: 1, DailyAverage: 0.4, ReviewRate: 30, MasteryRate: 10})
	assert.Equal(t, "Keep going! 1 words mastered so far.", weak[0])
	assert.Equal(t, "Consider setting a daily goal to build vocabulary faster.", weak[1])
	assert.Equal(t, "Try reviewing more words to improve retention.", weak[2])
	assert.Equal(t, "Review 7 unreviewed words for better retention.", weak[3])
	assert.Equal(t, "Try adding more advanced words to challenge yourself.", weak[4])
}
