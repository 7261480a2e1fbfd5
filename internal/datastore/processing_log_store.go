package datastore

import (
	"errors"
	"fmt"
	"time"
)

// CreateAIProcessingLog appends a processing log entry and returns its ID.
// Entries are immutable once written; there is no update or delete path.
func CreateAIProcessingLog(entry *AIProcessingLog) (int64, error) {
	if DB == nil {
		return 0, errors.New("database connection not initialized")
	}

	query := `
		INSERT INTO ai_processing_logs (
			test_answer_id, service_type, request_data, response_data,
			processing_time_ms, error_message, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	entry.CreatedAt = time.Now()

	var id int64
	err := DB.QueryRow(
		query,
		entry.TestAnswerID,
		entry.ServiceType,
		entry.RequestData,
		entry.ResponseData,
		entry.ProcessingTimeMs,
		entry.ErrorMessage,
		entry.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create AI processing log: %w", err)
	}
	entry.ID = id
	return id, nil
}

// ListProcessingLogsByAnswer retrieves the audit trail for one answer in
// chronological order.
func ListProcessingLogsByAnswer(testAnswerID int64) ([]*AIProcessingLog, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	query := `
		SELECT id, test_answer_id, service_type, request_data, response_data,
		       processing_time_ms, error_message, created_at
		FROM ai_processing_logs
		WHERE test_answer_id = $1
		ORDER BY created_at ASC
	`
	rows, err := DB.Query(query, testAnswerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list processing logs for answer %d: %w", testAnswerID, err)
	}
	defer rows.Close()

	entries := []*AIProcessingLog{}
	for rows.Next() {
		e := &AIProcessingLog{}
		if err := rows.Scan(
			&e.ID,
			&e.TestAnswerID,
			&e.ServiceType,
			&e.RequestData,
			&e.ResponseData,
			&e.ProcessingTimeMs,
			&e.ErrorMessage,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan processing log row for answer %d: %w", testAnswerID, err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for processing logs (answer %d): %w", testAnswerID, err)
	}
	return entries, nil
}
