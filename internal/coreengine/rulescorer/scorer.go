// Package rulescorer evaluates a transcribed spoken answer without calling
// any external service. Evaluation is pure and deterministic: identical
// inputs always produce identical output, and empty or very short transcripts
// yield low but valid scores rather than errors.
package rulescorer

import (
	"regexp"
	"strings"

	"ai-speaking-eval/backend/internal/coreengine/metricscalculator"
)

// Single-token fillers, matched token by token after stripping punctuation.
var fillerWords = map[string]bool{
	"um":        true,
	"uh":        true,
	"er":        true,
	"ah":        true,
	"like":      true,
	"basically": true,
	"actually":  true,
	"literally": true,
	"well":      true,
	"so":        true,
}

// Multi-word fillers, matched as substrings of the lower-cased transcript.
var fillerPhrases = []string{"you know", "sort of", "kind of", "i mean"}

// Common words excluded when extracting key topics from question text.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "is": true, "are": true, "was": true, "were": true,
	"be": true, "been": true, "being": true, "have": true, "has": true,
	"had": true, "do": true, "does": true, "did": true, "will": true,
	"would": true, "should": true, "could": true, "may": true, "might": true,
	"can": true, "what": true, "when": true, "where": true, "who": true,
	"how": true, "why": true,
}

var (
	subjectVerbAgreement = regexp.MustCompile(`(?i)\b(he|she|it)\s+(are|were|have|do)\b`)
	sentenceBoundary     = regexp.MustCompile(`[.!?]+`)
	nonLetter            = regexp.MustCompile(`[^a-z\s]`)
)

// Evaluate scores a transcript against its question context. sampleAnswerText
// may be empty when the question has no reference answer; durationSeconds is
// the recording length used for the speaking-rate calculation.
func Evaluate(transcript, questionText, sampleAnswerText string, durationSeconds int) ScoreBreakdown {
	var bd ScoreBreakdown

	bd.Pronunciation = evaluatePronunciation(transcript)
	bd.PronunciationScore = scorePronunciation(bd.Pronunciation)

	bd.Fluency = evaluateFluency(transcript, durationSeconds)
	bd.FluencyScore = scoreFluency(bd.Fluency)

	bd.Grammar = evaluateGrammar(transcript)
	bd.GrammarScore = scoreGrammar(bd.Grammar)

	bd.Vocabulary = evaluateVocabulary(transcript)
	bd.VocabularyScore = scoreVocabulary(bd.Vocabulary)

	bd.Content = evaluateContent(transcript, questionText, sampleAnswerText)
	bd.ContentScore = scoreContent(bd.Content)

	bd.OverallScore = (bd.PronunciationScore + bd.FluencyScore + bd.GrammarScore +
		bd.VocabularyScore + bd.ContentScore) / 5.0

	bd.Feedback = generateFeedback(&bd)
	bd.Suggestions = generateSuggestions(&bd)

	return bd
}

// evaluatePronunciation flags tokens that look garbled in the transcript:
// very short fragments and tokens with characters outside [a-z'-].
func evaluatePronunciation(transcript string) PronunciationDetail {
	words := strings.Fields(strings.ToLower(transcript))

	flagged := []string{}
	for _, w := range words {
		if len(w) <= 2 || hasNonPronChar(w) {
			flagged = append(flagged, w)
		}
	}

	clarity := 1.0 - float64(len(flagged))*0.05
	if clarity < 0 {
		clarity = 0
	}

	reported := flagged
	if len(reported) > 5 {
		reported = reported[:5]
	}

	return PronunciationDetail{
		WordCount:             len(words),
		MispronunciationCount: len(flagged),
		FlaggedWords:          reported,
		Clarity:               clarity,
	}
}

func scorePronunciation(d PronunciationDetail) float64 {
	score := 10.0 - float64(d.MispronunciationCount)*0.5
	score *= d.Clarity
	return clamp(score)
}

func evaluateFluency(transcript string, durationSeconds int) FluencyDetail {
	lower := strings.ToLower(transcript)
	words := strings.Fields(lower)

	wpm := 0.0
	if durationSeconds > 0 {
		wpm = float64(len(words)) * 60.0 / float64(durationSeconds)
	}

	fillerCount := 0
	found := []string{}
	seen := map[string]bool{}
	for _, w := range words {
		clean := strings.TrimSpace(nonLetter.ReplaceAllString(w, ""))
		if fillerWords[clean] {
			fillerCount++
			if !seen[clean] {
				seen[clean] = true
				found = append(found, clean)
			}
		}
	}
	for _, phrase := range fillerPhrases {
		if strings.Contains(lower, phrase) {
			fillerCount++
			if !seen[phrase] {
				seen[phrase] = true
				found = append(found, phrase)
			}
		}
	}

	pauseCount := 0
	for _, r := range transcript {
		if r == '.' || r == ',' || r == ';' {
			pauseCount++
		}
	}

	return FluencyDetail{
		WordsPerMinute:  wpm,
		PauseCount:      pauseCount,
		FillerWordCount: fillerCount,
		FillerWords:     found,
	}
}

func scoreFluency(d FluencyDetail) float64 {
	score := 10.0

	// Optimal speaking rate: 130-170 words per minute.
	wpm := d.WordsPerMinute
	if wpm < 100 || wpm > 200 {
		score -= 2.0
	} else if wpm < 130 || wpm > 170 {
		score -= 1.0
	}

	// Total words are re-derived from the speaking rate rather than counted
	// again; the approximation is part of the scoring contract.
	totalWords := int(wpm)
	if totalWords > 0 && float64(d.FillerWordCount) > float64(totalWords)*0.05 {
		score -= 1.5
	}

	if d.PauseCount < 2 {
		score -= 0.5 // too rushed
	} else if d.PauseCount > totalWords/5 {
		score -= 1.0 // too choppy
	}

	return clamp(score)
}

func evaluateGrammar(transcript string) GrammarDetail {
	segments := sentenceBoundary.Split(transcript, -1)
	sentences := []string{}
	for _, s := range segments {
		if strings.TrimSpace(s) != "" {
			sentences = append(sentences, strings.TrimSpace(s))
		}
	}

	errorCount := 0
	errorTypes := []string{}
	seen := map[string]bool{}
	addErrorType := func(label string) {
		errorCount++
		if !seen[label] {
			seen[label] = true
			errorTypes = append(errorTypes, label)
		}
	}

	for range subjectVerbAgreement.FindAllString(transcript, -1) {
		addErrorType("Subject-verb agreement")
	}
	for _, s := range sentences {
		if len(strings.Fields(s)) < 3 {
			addErrorType("Incomplete sentence")
		}
	}

	accuracy := 1.0
	if len(sentences) > 0 {
		accuracy = 1.0 - float64(errorCount)/float64(len(sentences))
		if accuracy < 0 {
			accuracy = 0
		}
	}

	return GrammarDetail{
		SentenceCount: len(sentences),
		ErrorCount:    errorCount,
		ErrorTypes:    errorTypes,
		Accuracy:      accuracy,
	}
}

func scoreGrammar(d GrammarDetail) float64 {
	return d.Accuracy * 10.0
}

func evaluateVocabulary(transcript string) VocabularyDetail {
	words := letterTokens(transcript)

	unique := []string{}
	seen := map[string]bool{}
	for _, w := range words {
		if !seen[w] {
			seen[w] = true
			unique = append(unique, w)
		}
	}

	diversity := 0.0
	if len(words) > 0 {
		diversity = float64(len(unique)) / float64(len(words))
	}

	// Advanced words: unique tokens longer than 7 characters, first
	// occurrence order, capped for reporting.
	advanced := []string{}
	for _, w := range unique {
		if len(w) > 7 {
			advanced = append(advanced, w)
			if len(advanced) == 10 {
				break
			}
		}
	}

	level := LevelBeginner
	if diversity > 0.7 && len(advanced) > 5 {
		level = LevelAdvanced
	} else if diversity > 0.5 && len(advanced) > 3 {
		level = LevelIntermediate
	}

	return VocabularyDetail{
		UniqueWordCount:  len(unique),
		TotalWordCount:   len(words),
		LexicalDiversity: diversity,
		AdvancedWords:    advanced,
		Level:            level,
	}
}

func scoreVocabulary(d VocabularyDetail) float64 {
	score := 5.0
	score += d.LexicalDiversity * 3.0
	bonus := float64(len(d.AdvancedWords)) * 0.2
	if bonus > 2.0 {
		bonus = 2.0
	}
	return clamp(score + bonus)
}

func evaluateContent(transcript, questionText, sampleAnswerText string) ContentDetail {
	response := strings.ToLower(transcript)
	topics := extractKeyTopics(strings.ToLower(questionText) + " " + strings.ToLower(sampleAnswerText))

	covered := 0
	missing := []string{}
	for _, topic := range topics {
		if strings.Contains(response, topic) {
			covered++
		} else {
			missing = append(missing, topic)
		}
	}
	if len(missing) > 5 {
		missing = missing[:5]
	}

	relevance := 0.5
	if len(topics) > 0 {
		relevance = float64(covered) / float64(len(topics))
	}

	lengthRatio := 0.5
	sampleWords := len(strings.Fields(sampleAnswerText))
	if sampleWords > 0 {
		lengthRatio = float64(len(strings.Fields(transcript))) / float64(sampleWords)
		if lengthRatio > 1.0 {
			lengthRatio = 1.0
		}
	}

	similarity := 0.0
	if strings.TrimSpace(sampleAnswerText) != "" {
		similarity = metricscalculator.WordSimilarity(sampleAnswerText, transcript)
	}

	return ContentDetail{
		Relevance:        relevance,
		Completeness:     (relevance + lengthRatio) / 2.0,
		KeyPointsCovered: covered,
		TotalKeyPoints:   len(topics),
		MissingPoints:    missing,
		SampleSimilarity: similarity,
	}
}

func scoreContent(d ContentDetail) float64 {
	return d.Relevance*5.0 + d.Completeness*5.0
}

// extractKeyTopics keeps meaningful terms: tokens longer than 3 characters
// that are not stop words, in first-occurrence order.
func extractKeyTopics(text string) []string {
	topics := []string{}
	seen := map[string]bool{}
	for _, w := range letterTokens(text) {
		if len(w) > 3 && !stopWords[w] && !seen[w] {
			seen[w] = true
			topics = append(topics, w)
		}
	}
	return topics
}

// letterTokens lower-cases text, strips everything but letters and
// whitespace, and splits into tokens.
func letterTokens(text string) []string {
	cleaned := nonLetter.ReplaceAllString(strings.ToLower(text), " ")
	return strings.Fields(cleaned)
}

func hasNonPronChar(word string) bool {
	for _, r := range word {
		if (r < 'a' || r > 'z') && r != '\'' && r != '-' {
			return true
		}
	}
	return false
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 10 {
		return 10
	}
	return score
}
