package answermanagement

import (
	"math"
	"testing"

	"ai-speaking-eval/backend/internal/datastore"
)

func answerWith(status string, score float64) *datastore.TestAnswer {
	return &datastore.TestAnswer{ProcessingStatus: status, Score: score}
}

func TestComputeSessionStats(t *testing.T) {
	answers := []*datastore.TestAnswer{
		answerWith(datastore.StatusCompleted, 8.0),
		answerWith(datastore.StatusCompleted, 6.0),
		answerWith(datastore.StatusFailed, 0),
		answerWith(datastore.StatusScoring, 0),
		answerWith(datastore.StatusPending, 0),
	}

	stats := ComputeSessionStats(77, answers, false)
	if stats.TestSessionID != 77 {
		t.Errorf("session id = %d, want 77", stats.TestSessionID)
	}
	if stats.AnswerCount != 5 || stats.CompletedCount != 2 || stats.FailedCount != 1 || stats.InFlightCount != 2 {
		t.Errorf("unexpected counts: %+v", stats)
	}
	// Completed answers only: (8 + 6) / 2.
	if stats.AverageScore != 7.0 {
		t.Errorf("average = %v, want 7.0", stats.AverageScore)
	}

	// Terminal-only variant counts the failed answer as zero: (8 + 6 + 0) / 3.
	conservative := ComputeSessionStats(77, answers, true)
	if math.Abs(conservative.AverageScore-14.0/3.0) > 1e-9 {
		t.Errorf("conservative average = %v, want %v", conservative.AverageScore, 14.0/3.0)
	}
}

func TestComputeSessionStats_EmptyAndUnscored(t *testing.T) {
	stats := ComputeSessionStats(1, nil, false)
	if stats.AnswerCount != 0 || stats.AverageScore != 0 {
		t.Errorf("empty session should produce zero stats, got %+v", stats)
	}

	// Only in-flight answers: no average either way.
	answers := []*datastore.TestAnswer{
		answerWith(datastore.StatusPending, 0),
		answerWith(datastore.StatusTranscribing, 0),
	}
	for _, terminalOnly := range []bool{false, true} {
		stats := ComputeSessionStats(1, answers, terminalOnly)
		if stats.AverageScore != 0 || stats.ScoredCount != 0 {
			t.Errorf("terminalOnly=%v: expected no average, got %+v", terminalOnly, stats)
		}
	}
}

func TestEstimateDurationSeconds(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want int64
	}{
		{"unknown size", 0, 30},
		{"negative size", -1, 30},
		{"tiny payload", 100, 1},
		{"one second", 16 * 1024, 1},
		{"ten seconds", 10 * 16 * 1024, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateDurationSeconds(tt.size); got != tt.want {
				t.Errorf("EstimateDurationSeconds(%d) = %d, want %d", tt.size, got, tt.want)
			}
		})
	}
}
