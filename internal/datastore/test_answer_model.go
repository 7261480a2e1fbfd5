package datastore

import (
	"database/sql"
	"time"
)

// Processing status values for a test answer. PENDING is the only initial
// state; COMPLETED and FAILED are terminal.
const (
	StatusPending      = "PENDING"
	StatusTranscribing = "TRANSCRIBING"
	StatusScoring      = "SCORING"
	StatusCompleted    = "COMPLETED"
	StatusFailed       = "FAILED"
)

// TestAnswer maps to the test_answers table. One answer is one audio
// submission for one question within a test session. The processing pipeline
// mutates the in-memory struct; persistence happens through the stores.
type TestAnswer struct {
	ID               int64          `json:"id"`
	TestSessionID    int64          `json:"test_session_id"`
	QuestionID       int64          `json:"question_id"`
	AudioURL         sql.NullString `json:"audio_url,omitempty"`
	DurationSeconds  int64          `json:"duration_seconds"`
	TranscribedText  sql.NullString `json:"transcribed_text,omitempty"`
	Score            float64        `json:"score"`
	Feedback         sql.NullString `json:"feedback,omitempty"`
	ProcessingStatus string         `json:"processing_status"`
	AnsweredAt       sql.NullTime   `json:"answered_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// CanTransition reports whether a status change is allowed. Transitions only
// ever move forward: PENDING -> TRANSCRIBING -> SCORING -> COMPLETED, with
// FAILED reachable from the two intermediate states.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusTranscribing
	case StatusTranscribing:
		return to == StatusScoring || to == StatusFailed
	case StatusScoring:
		return to == StatusCompleted || to == StatusFailed
	default:
		return false
	}
}

// IsTerminalStatus reports whether a status is terminal.
func IsTerminalStatus(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}
