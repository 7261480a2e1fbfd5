package datastore

import (
	"database/sql"
	"errors"
	"fmt"
)

// GetQuestion retrieves a question by ID.
func GetQuestion(id int64) (*Question, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	query := `
		SELECT id, content, level, created_at, updated_at
		FROM questions
		WHERE id = $1
	`
	q := &Question{}
	err := DB.QueryRow(query, id).Scan(&q.ID, &q.Content, &q.Level, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("question with ID %d not found: %w", id, err)
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// ListSampleAnswersByQuestion retrieves the reference answers for a question,
// best-scored first so scoring requests present the strongest sample first.
func ListSampleAnswersByQuestion(questionID int64) ([]*SampleAnswer, error) {
	if DB == nil {
		return nil, errors.New("database connection not initialized")
	}

	query := `
		SELECT id, question_id, content, score, created_at, updated_at
		FROM sample_answers
		WHERE question_id = $1
		ORDER BY score DESC, created_at ASC
	`
	rows, err := DB.Query(query, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sample answers for question %d: %w", questionID, err)
	}
	defer rows.Close()

	samples := []*SampleAnswer{}
	for rows.Next() {
		sa := &SampleAnswer{}
		if err := rows.Scan(&sa.ID, &sa.QuestionID, &sa.Content, &sa.Score, &sa.CreatedAt, &sa.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan sample answer row for question %d: %w", questionID, err)
		}
		samples = append(samples, sa)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration for sample answers (question %d): %w", questionID, err)
	}
	return samples, nil
}
