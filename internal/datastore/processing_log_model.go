package datastore

import (
	"database/sql"
	"time"
)

// Service identifiers for processing log entries.
const (
	ServiceTranscription = "TRANSCRIPTION"
	ServiceScoring       = "SCORING"
)

// AIProcessingLog maps to the ai_processing_logs table. One row per external
// service call made while processing an answer. Rows are create-once: nothing
// in the system updates or deletes them.
type AIProcessingLog struct {
	ID               int64          `json:"id"`
	TestAnswerID     int64          `json:"test_answer_id"`
	ServiceType      string         `json:"service_type"` // TRANSCRIPTION or SCORING
	RequestData      sql.NullString `json:"request_data,omitempty"`
	ResponseData     sql.NullString `json:"response_data,omitempty"`
	ProcessingTimeMs sql.NullInt64  `json:"processing_time_ms,omitempty"`
	ErrorMessage     sql.NullString `json:"error_message,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
}
