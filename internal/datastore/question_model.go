package datastore

import (
	"database/sql"
	"time"
)

// Question maps to the questions table. Only the fields the evaluation
// pipeline needs are carried here; question bank management lives elsewhere.
type Question struct {
	ID        int64          `json:"id"`
	Content   string         `json:"content"`
	Level     sql.NullString `json:"level,omitempty"` // EASY, MEDIUM, HARD
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// SampleAnswer maps to the sample_answers table. Reference answers with known
// scores, supplied per question as input to the scoring service.
type SampleAnswer struct {
	ID         int64     `json:"id"`
	QuestionID int64     `json:"question_id"`
	Content    string    `json:"content"`
	Score      float64   `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
