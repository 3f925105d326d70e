package translate

import "strings"

// Stop words chosen for frequency in short product copy, not completeness.
var spanishStopWords = map[string]struct{}{
	"el": {}, "la": {}, "los": {}, "las": {}, "de": {}, "del": {}, "que": {},
	"y": {}, "en": {}, "un": {}, "una": {}, "para": {}, "con": {}, "por": {},
	"es": {}, "su": {}, "al": {}, "como": {}, "más": {}, "este": {}, "esta": {},
}

var englishStopWords = map[string]struct{}{
	"the": {}, "of": {}, "and": {}, "to": {}, "in": {}, "is": {}, "for": {},
	"with": {}, "on": {}, "that": {}, "this": {}, "your": {}, "it": {}, "a": {},
	"an": {}, "are": {}, "be": {}, "from": {}, "or": {}, "as": {},
}

const spanishDiacritics = "áéíóúñü¿¡ÁÉÍÓÚÑÜ"

// DetectLanguage guesses the source language of free-text user content
// (names, notes, review bodies) so it can be fed to the engine with the right
// direction. Catalog fields never need this: their authoring language is
// known. Falls back to defaultLang when the signal is too weak.
func DetectLanguage(text, defaultLang string) string {
	if strings.ContainsAny(text, spanishDiacritics) {
		return "es"
	}

	var esHits, enHits int
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		if _, ok := spanishStopWords[word]; ok {
			esHits++
		}
		if _, ok := englishStopWords[word]; ok {
			enHits++
		}
	}

	switch {
	case esHits > enHits:
		return "es"
	case enHits > esHits:
		return "en"
	default:
		return defaultLang
	}
}
