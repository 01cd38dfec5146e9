package bot

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/wordwise/internal/review"
	"github.com/example/wordwise/internal/scheduler"
	"github.com/example/wordwise/internal/stats"
	"github.com/example/wordwise/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data sent by the inline buttons.
const (
	callbackSave    = "save"
	callbackReveal  = "reveal"
	callbackKnew    = "knew"
	callbackMissed  = "missed"
	callbackStop    = "stop"
	callbackLearn   = "learn"
	callbackMenu    = "menu"
	callbackStats   = "stats"
	learnPrefix     = callbackLearn + ":"
	maxDefinitions  = 3
	telegramMaxText = 4096
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// mainMenuButtons returns the buttons for the main menu
func mainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🎯 Learn", CallbackData: callbackLearn},
			{Text: "📊 Statistics", CallbackData: callbackStats},
		},
	}
}

func learnCallback(facet models.Facet, value string) string {
	return learnPrefix + string(facet) + ":" + value
}

// parseLearnCallback reads "learn:<facet>:<value>".
func parseLearnCallback(data string) (models.Facet, string, error) {
	rest, ok := strings.CutPrefix(data, learnPrefix)
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not a learn action", models.ErrInvalidCategory, data)
	}
	facetPart, value, ok := strings.Cut(rest, ":")
	if !ok {
		return "", "", fmt.Errorf("%w: %q has no value", models.ErrInvalidCategory, data)
	}
	facet, err := models.ParseFacet(facetPart)
	if err != nil {
		return "", "", err
	}
	if err := models.ValidateCategory(facet, value); err != nil {
		return "", "", err
	}
	return facet, value, nil
}

// categoryButtons lists one button per category value that holds words.
func categoryButtons(progress func(models.Facet, string) stats.Progress) [][]MenuButton {
	var rows [][]MenuButton
	for _, facet := range models.Facets {
		var row []MenuButton
		for _, value := range facet.Values() {
			p := progress(facet, value)
			if p.Total == 0 {
				continue
			}
			row = append(row, MenuButton{
				Text:         fmt.Sprintf("%s (%d/%d)", models.DisplayValue(value), p.NeedsReview, p.Total),
				CallbackData: learnCallback(facet, value),
			})
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}

func formatLookup(r models.LookupResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📖 %s", r.Word)
	if r.Phonetic != "" {
		fmt.Fprintf(&sb, " %s", r.Phonetic)
	}
	sb.WriteString("\n")

	shown := 0
	for _, m := range r.Meanings {
		for _, d := range m.Definitions {
			if shown == maxDefinitions {
				break
			}
			shown++
			fmt.Fprintf(&sb, "\n%d. (%s) %s", shown, m.PartOfSpeech, d.Definition)
			if d.Example != "" {
				fmt.Fprintf(&sb, "\n   ✏️ %s", d.Example)
			}
		}
	}
	return truncate(sb.String())
}

func formatCard(c review.Card) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Word %d of %d\n\n🔤 %s", c.Position+1, c.Total, c.Word.Word)
	if c.Word.Phonetic != "" {
		fmt.Fprintf(&sb, " %s", c.Word.Phonetic)
	}
	if c.Revealed {
		fmt.Fprintf(&sb, "\n\n(%s) %s", c.Word.PartOfSpeech, c.Word.Definition)
		if c.Word.Example != "" {
			fmt.Fprintf(&sb, "\n✏️ %s", c.Word.Example)
		}
		sb.WriteString("\n\nDid you know it?")
	}
	return sb.String()
}

func cardButtons(c review.Card) [][]MenuButton {
	if !c.Revealed {
		return [][]MenuButton{{
			{Text: "👀 Show definition", CallbackData: callbackReveal},
			{Text: "⏹ Stop", CallbackData: callbackStop},
		}}
	}
	return [][]MenuButton{
		{
			{Text: "✅ Knew it", CallbackData: callbackKnew},
			{Text: "❌ Didn't know", CallbackData: callbackMissed},
		},
		{{Text: "⏹ Stop", CallbackData: callbackStop}},
	}
}

func formatSummary(s review.Summary) string {
	return fmt.Sprintf("🎉 Review complete: %s %s\n\nCorrect: %d of %d (%d%%)\nTime: %s",
		models.DisplayValue(string(s.Facet)), models.DisplayValue(s.Value),
		s.Correct, s.Total, s.Percentage, s.Duration.Round(time.Second))
}

func formatStats(r stats.Report, insights []string) string {
	var sb strings.Builder
	sb.WriteString("📊 Your statistics\n\n")
	fmt.Fprintf(&sb, "Words: %d (%d this week)\n", r.TotalWords, r.RecentWords)
	fmt.Fprintf(&sb, "Reviewed: %d (%d%%)\n", r.ReviewedWords, r.ReviewRate)
	fmt.Fprintf(&sb, "Mastered: %d (%d%%)\n", r.MasteredWords, r.MasteryRate)
	fmt.Fprintf(&sb, "Reviews: %d\n", r.TotalReviews)
	fmt.Fprintf(&sb, "Daily average: %g words\n", r.DailyAverage)

	for _, fb := range r.Categories {
		if len(fb.Values) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s\n", fb.Facet.Label())
		for _, v := range fb.Values {
			fmt.Fprintf(&sb, "  %s: %d (%d%%)\n", models.DisplayValue(v.Value), v.Count, v.Percentage)
		}
	}

	if len(insights) > 0 {
		sb.WriteString("\n💡 Insights\n")
		for _, line := range insights {
			fmt.Fprintf(&sb, "• %s\n", line)
		}
	}
	return truncate(sb.String())
}

func formatDigest(d scheduler.Digest) string {
	var sb strings.Builder
	sb.WriteString("☀️ Word of the day\n\n")
	sb.WriteString(formatLookup(d.Word))
	if d.Total > 0 {
		fmt.Fprintf(&sb, "\n\n%d of your %d words need review. Use /learn to practise.", d.NeedsReview, d.Total)
	}
	return truncate(sb.String())
}

func truncate(s string) string {
	if len(s) <= telegramMaxText {
		return s
	}
	cut := telegramMaxText - len("…")
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "…"
}
