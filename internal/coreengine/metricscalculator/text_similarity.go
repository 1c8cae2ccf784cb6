package metricscalculator

import (
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// TextSimilarity returns a normalized similarity score in [0, 1] between the
// expected and predicted response texts, computed as 1 minus the rune-level
// edit distance divided by the longer text's length. Two empty strings are
// identical (1.0); an empty string against a non-empty one scores 0.0.
//
// This is a cheap local signal alongside the judge's scores: it catches
// gross divergence even when the judge call itself failed for a row.
func TextSimilarity(expected, predicted string) float64 {
	runesExpected := []rune(expected)
	runesPredicted := []rune(predicted)

	longest := len(runesExpected)
	if len(runesPredicted) > longest {
		longest = len(runesPredicted)
	}
	if longest == 0 {
		return 1.0
	}

	distance := levenshtein.DistanceForStrings(runesExpected, runesPredicted, levenshtein.DefaultOptions)
	similarity := 1.0 - float64(distance)/float64(longest)
	if similarity < 0 {
		similarity = 0
	}
	return similarity
}
