package metricscalculator

import (
	"math"
	"testing"
)

func TestWordErrorRate(t *testing.T) {
	tests := []struct {
		name       string
		reference  string
		hypothesis string
		want       float64
	}{
		{"identical", "the beach is beautiful", "the beach is beautiful", 0.0},
		{"identical ignoring case and punctuation", "The beach is beautiful.", "the beach is beautiful", 0.0},
		{"one substitution", "the beach is beautiful", "the beach is crowded", 0.25},
		{"one deletion", "the beach is beautiful", "the beach beautiful", 0.25},
		{"one insertion", "the beach", "the big beach", 0.5},
		{"substitution costs one not two", "the quick brown fox", "the slow brown wolf", 0.5},
		{"repeated words", "a b c a b c", "a x c a b c", 1.0 / 6.0},
		{"both empty", "", "", 0.0},
		{"empty reference", "", "something was said", 1.0},
		{"empty hypothesis", "four words right here", "", 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WordErrorRate(tt.reference, tt.hypothesis)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("WordErrorRate(%q, %q) = %v, want %v", tt.reference, tt.hypothesis, got, tt.want)
			}
		})
	}
}

func TestWordSimilarity_Clamped(t *testing.T) {
	// Hypothesis much longer than reference: WER > 1, similarity clamps to 0.
	got := WordSimilarity("yes", "no this is a completely different and much longer answer")
	if got != 0.0 {
		t.Errorf("expected similarity 0.0 for divergent texts, got %v", got)
	}

	if got := WordSimilarity("a b c d", "a b c d"); got != 1.0 {
		t.Errorf("expected similarity 1.0 for identical texts, got %v", got)
	}
}
