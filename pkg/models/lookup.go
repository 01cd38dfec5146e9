package models

import "fmt"

// Definition is a single sense returned by the dictionary.
type Definition struct {
	Definition string `json:"definition"`
	Example    string `json:"example,omitempty"`
}

// Meaning groups definitions by part of speech.
type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
}

// LookupResult is what the dictionary returns for a searched word.
type LookupResult struct {
	Word     string    `json:"word"`
	Phonetic string    `json:"phonetic,omitempty"`
	Meanings []Meaning `json:"meanings"`
	// Missing marks a synthetic result produced when the lookup failed.
	Missing bool `json:"error,omitempty"`
}

// Primary returns the first meaning and its first definition.
func (r LookupResult) Primary() (Meaning, Definition, bool) {
	if len(r.Meanings) == 0 || len(r.Meanings[0].Definitions) == 0 {
		return Meaning{}, Definition{}, false
	}
	return r.Meanings[0], r.Meanings[0].Definitions[0], true
}

// NotFoundResult builds the placeholder shown when a word could not be looked up.
func NotFoundResult(word string) LookupResult {
	return LookupResult{
		Word:     word,
		Phonetic: "/" + word + "/",
		Meanings: []Meaning{{
			PartOfSpeech: "unknown",
			Definitions: []Definition{{
				Definition: fmt.Sprintf("Could not find definition for %q. Please check spelling or try another word.", word),
			}},
		}},
		Missing: true,
	}
}
