package dictionary

import (
	"time"

	"github.com/example/wordwise/pkg/models"
)

var wordsOfTheDay = []models.LookupResult{
	{
		Word:     "serendipity",
		Phonetic: "/ˌsɛrənˈdɪpɪti/",
		Meanings: []models.Meaning{{
			PartOfSpeech: "noun",
			Definitions: []models.Definition{{
				Definition: "The occurrence and development of events by chance in a happy or beneficial way.",
				Example:    "A fortunate stroke of serendipity brought the two old friends together.",
			}},
		}},
	},
	{
		Word:     "ephemeral",
		Phonetic: "/ɪˈfɛmərəl/",
		Meanings: []models.Meaning{{
			PartOfSpeech: "adjective",
			Definitions: []models.Definition{{
				Definition: "Lasting for a very short time.",
				Example:    "The beauty of cherry blossoms is ephemeral, lasting only a few weeks.",
			}},
		}},
	},
	{
		Word:     "ubiquitous",
		Phonetic: "/juːˈbɪkwɪtəs/",
		Meanings: []models.Meaning{{
			PartOfSpeech: "adjective",
			Definitions: []models.Definition{{
				Definition: "Present, appearing, or found everywhere.",
				Example:    "Smartphones have become ubiquitous in modern society.",
			}},
		}},
	},
}

// WordOfTheDay picks a word from a fixed rotation by the day of the year of now.
func WordOfTheDay(now time.Time) models.LookupResult {
	w := wordsOfTheDay[now.YearDay()%len(wordsOfTheDay)]
	meanings := make([]models.Meaning, len(w.Meanings))
	for i, m := range w.Meanings {
		meanings[i] = models.Meaning{
			PartOfSpeech: m.PartOfSpeech,
			Definitions:  append([]models.Definition(nil), m.Definitions...),
		}
	}
	w.Meanings = meanings
	return w
}
