package datastore

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateTestAnswer inserts a new test answer with PENDING status and returns its ID.
func CreateTestAnswer(ta *TestAnswer) (int64, error) {
	if DB == nil {
		return 0, errors.New("database connection not initialized")
	}

	query := `
		INSERT INTO test_answers (
			test_session_id, question_id, audio_url, duration_seconds,
			transcribed_text, score, feedback, processing_status, answered_at,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`
	ta.CreatedAt = time.Now()
	ta.UpdatedAt = ta.CreatedAt
	if ta.ProcessingStatus == "" {
		ta.ProcessingStatus = StatusPending
	}

	var id int64
	err := DB.QueryRow(
		query,
		ta.TestSessionID,
		ta.QuestionID,
		ta.AudioURL,
		ta.DurationSeconds,
		ta.TranscribedText,
		ta.Score,
		ta.Feedback,
		ta.ProcessingStatus,
		ta.AnsweredAt,
		ta.CreatedAt,
		ta.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create test answer: %w", err)
	}
	ta.ID = id
	return id, nil
}

// GetTestAnswer retrieves a test answer by ID.
func GetTestAnswer(id int64) (*TestAnswer, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	query := `
		SELECT id, test_session_id, question_id, audio_url, duration_seconds,
		       transcribed_text, score, feedback, processing_status, answered_at,
		       created_at, updated_at
		FROM test_answers
		WHERE id = $1
	`
	ta := &TestAnswer{}
	err := DB.QueryRow(query, id).Scan(
		&ta.ID,
		&ta.TestSessionID,
		&ta.QuestionID,
		&ta.AudioURL,
		&ta.DurationSeconds,
		&ta.TranscribedText,
		&ta.Score,
		&ta.Feedback,
		&ta.ProcessingStatus,
		&ta.AnsweredAt,
		&ta.CreatedAt,
		&ta.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("test answer with ID %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get test answer: %w", err)
	}
	return ta, nil
}

// UpdateTestAnswerProcessing persists the mutable processing fields of an
// answer: audio reference, duration, transcript, score, feedback, status and
// answered_at. The pipeline calls this through its persistence callback.
func UpdateTestAnswerProcessing(ta *TestAnswer) error {
	if DB == nil {
		return errors.New("database connection not initialized")
	}

	query := `
		UPDATE test_answers
		SET audio_url = $1, duration_seconds = $2, transcribed_text = $3,
		    score = $4, feedback = $5, processing_status = $6, answered_at = $7,
		    updated_at = $8
		WHERE id = $9
	`
	ta.UpdatedAt = time.Now()

	result, err := DB.Exec(
		query,
		ta.AudioURL,
		ta.DurationSeconds,
		ta.TranscribedText,
		ta.Score,
		ta.Feedback,
		ta.ProcessingStatus,
		ta.AnsweredAt,
		ta.UpdatedAt,
		ta.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update test answer %d: %w", ta.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("test answer with ID %d not found for update", ta.ID)
	}
	return nil
}

// ListTestAnswersBySession retrieves all answers belonging to a test session.
func ListTestAnswersBySession(testSessionID int64) ([]*TestAnswer, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	query := `
		SELECT id, test_session_id, question_id, audio_url, duration_seconds,
		       transcribed_text, score, feedback, processing_status, answered_at,
		       created_at, updated_at
		FROM test_answers
		WHERE test_session_id = $1
		ORDER BY created_at ASC
	`
	rows, err := DB.Query(query, testSessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list test answers for session %d: %w", testSessionID, err)
	}
	defer rows.Close()

	answers := []*TestAnswer{}
	for rows.Next() {
		ta := &TestAnswer{}
		if err := rows.Scan(
			&ta.ID,
			&ta.TestSessionID,
			&ta.QuestionID,
			&ta.AudioURL,
			&ta.DurationSeconds,
			&ta.TranscribedText,
			&ta.Score,
			&ta.Feedback,
			&ta.ProcessingStatus,
			&ta.AnsweredAt,
			&ta.CreatedAt,
			&ta.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan test answer row for session %d: %w", testSessionID, err)
		}
		answers = append(answers, ta)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for test answers (session %d): %w", testSessionID, err)
	}
	return answers, nil
}
