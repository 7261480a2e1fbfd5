package metricscalculator

import (
	"strings"

	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// Unit costs for all edit operations. The library default charges 2 for a
// substitution, which would double-count substituted words in the WER.
var wordOptions = levenshtein.Options{
	InsCost: 1,
	DelCost: 1,
	SubCost: 1,
	Matches: func(sourceCharacter rune, targetCharacter rune) bool {
		return sourceCharacter == targetCharacter
	},
}

// WordErrorRate calculates the word-level edit distance between a reference
// text and a hypothesis text, normalized by the reference word count.
// WER = (substitutions + insertions + deletions) / reference words.
// The result may exceed 1.0 when the hypothesis is much longer than the
// reference. An empty reference with a non-empty hypothesis yields 1.0.
func WordErrorRate(reference, hypothesis string) float64 {
	refWords := tokenize(reference)
	hypWords := tokenize(hypothesis)

	if len(refWords) == 0 {
		if len(hypWords) == 0 {
			return 0.0
		}
		return 1.0
	}

	// The levenshtein package compares rune sequences, so each distinct word
	// is interned to a synthetic rune and the distance runs over word IDs.
	ids := make(map[string]rune, len(refWords)+len(hypWords))
	intern := func(words []string) []rune {
		out := make([]rune, len(words))
		for i, w := range words {
			id, ok := ids[w]
			if !ok {
				id = rune(len(ids) + 1)
				ids[w] = id
			}
			out[i] = id
		}
		return out
	}
	refRunes := intern(refWords)
	hypRunes := intern(hypWords)

	distance := levenshtein.DistanceForStrings(refRunes, hypRunes, wordOptions)
	return float64(distance) / float64(len(refWords))
}

// WordSimilarity maps WordErrorRate into [0,1], where 1 means the texts share
// the same word sequence. Used as an informational figure when comparing a
// transcript against a reference sample answer.
func WordSimilarity(reference, hypothesis string) float64 {
	wer := WordErrorRate(reference, hypothesis)
	if wer >= 1.0 {
		return 0.0
	}
	return 1.0 - wer
}

// tokenize lower-cases and strips punctuation so that similarity reflects
// word choice rather than formatting.
func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' || r == '\t' || r == '\n' {
			return r
		}
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return ' '
	}, text)
	return strings.Fields(cleaned)
}
