package rulescorer

// Vocabulary levels reported in VocabularyDetail.
const (
	LevelBeginner     = "BEGINNER"
	LevelIntermediate = "INTERMEDIATE"
	LevelAdvanced     = "ADVANCED"
)

// ScoreBreakdown is the full result of a rule-based evaluation: five
// sub-scores on a 0-10 scale, their detail records, the composite overall
// score, generated feedback and actionable suggestions.
type ScoreBreakdown struct {
	PronunciationScore float64 `json:"pronunciation_score"`
	FluencyScore       float64 `json:"fluency_score"`
	GrammarScore       float64 `json:"grammar_score"`
	VocabularyScore    float64 `json:"vocabulary_score"`
	ContentScore       float64 `json:"content_score"`
	OverallScore       float64 `json:"overall_score"`

	Pronunciation PronunciationDetail `json:"pronunciation_details"`
	Fluency       FluencyDetail       `json:"fluency_details"`
	Grammar       GrammarDetail       `json:"grammar_details"`
	Vocabulary    VocabularyDetail    `json:"vocabulary_details"`
	Content       ContentDetail       `json:"content_details"`

	Feedback    string   `json:"feedback"`
	Suggestions []string `json:"suggestions"`
}

// PronunciationDetail describes clarity issues inferred from the transcript.
type PronunciationDetail struct {
	WordCount             int      `json:"word_count"`
	MispronunciationCount int      `json:"mispronunciation_count"`
	FlaggedWords          []string `json:"flagged_words"`
	Clarity               float64  `json:"clarity"` // in [0,1]
}

// FluencyDetail describes speaking rate, pauses and filler usage.
type FluencyDetail struct {
	WordsPerMinute  float64  `json:"words_per_minute"`
	PauseCount      int      `json:"pause_count"`
	FillerWordCount int      `json:"filler_word_count"`
	FillerWords     []string `json:"filler_words"`
}

// GrammarDetail describes detected grammatical problems.
type GrammarDetail struct {
	SentenceCount int      `json:"sentence_count"`
	ErrorCount    int      `json:"error_count"`
	ErrorTypes    []string `json:"error_types"`
	Accuracy      float64  `json:"accuracy"` // in [0,1]
}

// VocabularyDetail describes lexical richness.
type VocabularyDetail struct {
	UniqueWordCount  int      `json:"unique_word_count"`
	TotalWordCount   int      `json:"total_word_count"`
	LexicalDiversity float64  `json:"lexical_diversity"`
	AdvancedWords    []string `json:"advanced_words"`
	Level            string   `json:"vocabulary_level"`
}

// ContentDetail describes how well the answer covers the question's topics.
// SampleSimilarity is an informational word-overlap figure against the
// reference sample answer; it does not feed the content score.
type ContentDetail struct {
	Relevance        float64  `json:"relevance"`
	Completeness     float64  `json:"completeness"`
	KeyPointsCovered int      `json:"key_points_covered"`
	TotalKeyPoints   int      `json:"total_key_points"`
	MissingPoints    []string `json:"missing_points"`
	SampleSimilarity float64  `json:"sample_similarity"`
}
