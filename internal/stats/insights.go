package stats

import "fmt"

// Insights returns the progress highlights followed by the recommendations for a report.
func Insights(r Report) []string {
	out := make([]string, 0, 6)

	if r.MasteryRate >= 50 {
		out = append(out, fmt.Sprintf("Excellent progress! You've mastered %d%% of your words.", r.MasteryRate))
	} else {
		out = append(out, fmt.Sprintf("Keep going! %d words mastered so far.", r.MasteredWords))
	}

	if r.DailyAverage >= 1 {
		out = append(out, fmt.Sprintf("Great consistency! Adding %g words per day on average.", r.DailyAverage))
	} else {
		out = append(out, "Consider setting a daily goal to build vocabulary faster.")
	}

	if r.ReviewRate >= 70 {
		out = append(out, fmt.Sprintf("Excellent review habits! %d%% of words reviewed.", r.ReviewRate))
	} else {
		out = append(out, "Try reviewing more words to improve retention.")
	}

	if unreviewed := r.TotalWords - r.ReviewedWords; unreviewed > 0 {
		out = append(out, fmt.Sprintf("Review %d unreviewed words for better retention.", unreviewed))
	} else {
		out = append(out, "All words reviewed! Great job maintaining your vocabulary.")
	}

	if float64(r.AdvancedWords) < float64(r.TotalWords)*0.3 {
		out = append(out, "Try adding more advanced words to challenge yourself.")
	} else {
		out = append(out, "Good balance of word difficulty levels!")
	}

	out = append(out, "Focus on categories with lower mastery rates for balanced learning.")
	return out
}
