package rulescorer

import (
	"fmt"
	"strings"
)

// generateFeedback builds the human-readable summary, one line per dimension,
// referencing the concrete figures behind each score.
func generateFeedback(bd *ScoreBreakdown) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Overall Performance: %.1f/10\n\n", bd.OverallScore)

	fmt.Fprintf(&sb, "Pronunciation (%.1f/10): ", bd.PronunciationScore)
	switch {
	case bd.PronunciationScore >= 8.0:
		sb.WriteString("Excellent clarity!")
	case bd.PronunciationScore >= 6.0:
		sb.WriteString("Good pronunciation with minor issues.")
	default:
		sb.WriteString("Needs improvement. Focus on clarity.")
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Fluency (%.1f/10): ", bd.FluencyScore)
	wpm := bd.Fluency.WordsPerMinute
	switch {
	case wpm >= 130 && wpm <= 170:
		sb.WriteString("Great speaking pace!")
	case wpm < 100:
		fmt.Fprintf(&sb, "Try to speak a bit faster (currently %.0f words per minute).", wpm)
	case wpm > 200:
		fmt.Fprintf(&sb, "Slow down for better clarity (currently %.0f words per minute).", wpm)
	default:
		fmt.Fprintf(&sb, "Your pace of %.0f words per minute is close to the optimal range.", wpm)
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Grammar (%.1f/10): ", bd.GrammarScore)
	if bd.GrammarScore >= 8.0 {
		sb.WriteString("Strong grammatical accuracy!")
	} else {
		fmt.Fprintf(&sb, "Review grammar rules, especially %s.", strings.Join(bd.Grammar.ErrorTypes, ", "))
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Vocabulary (%.1f/10): Your vocabulary level is %s. ", bd.VocabularyScore, bd.Vocabulary.Level)
	if bd.VocabularyScore < 7.0 {
		sb.WriteString("Try using more varied and sophisticated words.")
	} else {
		sb.WriteString("Good word variety!")
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Content (%.1f/10): You covered %d out of %d key points. ",
		bd.ContentScore, bd.Content.KeyPointsCovered, bd.Content.TotalKeyPoints)
	if bd.ContentScore >= 8.0 {
		sb.WriteString("Comprehensive response!")
	} else {
		sb.WriteString("Consider adding more details about the topic.")
	}

	return sb.String()
}

// generateSuggestions returns actionable advice, one entry per triggered
// check, in a fixed check order.
func generateSuggestions(bd *ScoreBreakdown) []string {
	suggestions := []string{}

	if bd.PronunciationScore < 7.0 {
		suggestions = append(suggestions, "Practice pronunciation with native speaker recordings")
	}
	if bd.Fluency.FillerWordCount > 5 {
		suggestions = append(suggestions, "Reduce filler words like 'um', 'uh', 'like' - pause instead")
	}
	if bd.GrammarScore < 7.0 {
		suggestions = append(suggestions, "Review basic grammar rules and practice sentence construction")
	}
	if bd.Vocabulary.LexicalDiversity < 0.5 {
		suggestions = append(suggestions, "Expand your vocabulary - try using synonyms and varied expressions")
	}
	if bd.ContentScore < 7.0 {
		suggestions = append(suggestions, "Provide more specific examples and details when answering questions")
	}

	wpm := bd.Fluency.WordsPerMinute
	if wpm < 100 {
		suggestions = append(suggestions, "Practice speaking more fluently - aim for 130-170 words per minute")
	} else if wpm > 200 {
		suggestions = append(suggestions, "Slow down your speaking pace for better clarity and comprehension")
	}

	return suggestions
}
