package answermanagement

import "ai-speaking-eval/backend/internal/datastore"

// SessionStats aggregates the answers of one test session.
type SessionStats struct {
	TestSessionID  int64   `json:"test_session_id"`
	AnswerCount    int     `json:"answer_count"`
	CompletedCount int     `json:"completed_count"`
	FailedCount    int     `json:"failed_count"`
	InFlightCount  int     `json:"in_flight_count"`
	ScoredCount    int     `json:"scored_count"`
	AverageScore   float64 `json:"average_score"`
}

// ComputeSessionStats summarizes a session's answers.
//
// With terminalOnly false the average covers COMPLETED answers only, so the
// figure is stable while other answers are still in flight. With terminalOnly
// true the average is taken over all terminal answers, counting FAILED ones
// as zero, which gives the conservative end-of-session score.
func ComputeSessionStats(sessionID int64, answers []*datastore.TestAnswer, terminalOnly bool) SessionStats {
	stats := SessionStats{TestSessionID: sessionID, AnswerCount: len(answers)}

	sum := 0.0
	denominator := 0
	for _, a := range answers {
		switch a.ProcessingStatus {
		case datastore.StatusCompleted:
			stats.CompletedCount++
			stats.ScoredCount++
			sum += a.Score
			denominator++
		case datastore.StatusFailed:
			stats.FailedCount++
			if terminalOnly {
				denominator++
			}
		default:
			stats.InFlightCount++
		}
	}

	if denominator > 0 {
		stats.AverageScore = sum / float64(denominator)
	}
	return stats
}
