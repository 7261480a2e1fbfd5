// Package answermanagement exposes the answer lifecycle over HTTP: creating
// answers, uploading audio, running the evaluation pipeline synchronously or
// through the worker pool, and reading back results, audit logs and session
// statistics.
package answermanagement

import (
	"context"
	"fmt"
	"io"
	"log"

	"ai-speaking-eval/backend/internal/coreengine/answerpipeline"
	"ai-speaking-eval/backend/internal/datastore"
	"ai-speaking-eval/backend/internal/objectstore"
)

// Fallback duration estimation for uploads that do not declare a duration:
// roughly one second of 16 kHz mono 16-bit audio per 16 KiB of payload.
const (
	bytesPerSecondEstimate = 16 * 1024
	defaultDurationSeconds = 30
)

// Service wires the processing pipeline to storage. The pipeline itself never
// touches the database; this layer owns persistence.
type Service struct {
	Processor *answerpipeline.Processor
	Pool      *answerpipeline.WorkerPool
	Storage   *objectstore.MinioClient
}

// NewService creates a Service.
func NewService(processor *answerpipeline.Processor, pool *answerpipeline.WorkerPool, storage *objectstore.MinioClient) *Service {
	return &Service{Processor: processor, Pool: pool, Storage: storage}
}

// loadInput fetches the answer together with its question context.
func (s *Service) loadInput(answerID int64) (answerpipeline.Input, error) {
	answer, err := datastore.GetTestAnswer(answerID)
	if err != nil {
		return answerpipeline.Input{}, err
	}
	question, err := datastore.GetQuestion(answer.QuestionID)
	if err != nil {
		return answerpipeline.Input{}, fmt.Errorf("failed to load question for answer %d: %w", answerID, err)
	}
	samples, err := datastore.ListSampleAnswersByQuestion(answer.QuestionID)
	if err != nil {
		return answerpipeline.Input{}, fmt.Errorf("failed to load sample answers for answer %d: %w", answerID, err)
	}

	in := answerpipeline.Input{Answer: answer, Question: *question}
	for _, sa := range samples {
		in.SampleAnswers = append(in.SampleAnswers, *sa)
	}
	return in, nil
}

// ProcessSync runs the pipeline inline and persists the final state once. The
// caller gets the fully processed answer back in the same request.
func (s *Service) ProcessSync(ctx context.Context, answerID int64) (*datastore.TestAnswer, error) {
	in, err := s.loadInput(answerID)
	if err != nil {
		return nil, err
	}

	s.Processor.Process(ctx, in, answerpipeline.NopSave)

	if err := datastore.UpdateTestAnswerProcessing(in.Answer); err != nil {
		return nil, fmt.Errorf("processing finished but persisting answer %d failed: %w", answerID, err)
	}
	return in.Answer, nil
}

// ProcessAsync submits the answer to the worker pool and returns immediately.
// Each status transition is persisted as it happens so pollers see progress.
// Returns answerpipeline.ErrQueueSaturated when the queue is full.
func (s *Service) ProcessAsync(answerID int64) error {
	in, err := s.loadInput(answerID)
	if err != nil {
		return err
	}

	err = s.Pool.Submit(func() {
		s.Processor.Process(context.Background(), in, datastore.UpdateTestAnswerProcessing)
	})
	if err != nil {
		return err
	}
	log.Printf("Answer %d queued for processing", answerID)
	return nil
}

// AttachAudio uploads the audio payload to object storage and records the
// object key and duration on the answer. When durationSeconds is not supplied
// it is estimated from the payload size.
func (s *Service) AttachAudio(ctx context.Context, answerID int64, filename string, reader io.Reader, size int64, contentType string, durationSeconds int64) (*datastore.TestAnswer, error) {
	answer, err := datastore.GetTestAnswer(answerID)
	if err != nil {
		return nil, err
	}
	if datastore.IsTerminalStatus(answer.ProcessingStatus) {
		return nil, fmt.Errorf("answer %d is already %s and cannot accept new audio", answerID, answer.ProcessingStatus)
	}

	objectName, err := s.Storage.UploadFile(ctx, filename, reader, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to store audio for answer %d: %w", answerID, err)
	}

	if durationSeconds <= 0 {
		durationSeconds = EstimateDurationSeconds(size)
		log.Printf("Answer %d: no duration supplied, estimated %ds from %d bytes", answerID, durationSeconds, size)
	}

	answer.AudioURL = datastore.ToNullString(objectName)
	answer.DurationSeconds = durationSeconds
	if err := datastore.UpdateTestAnswerProcessing(answer); err != nil {
		return nil, fmt.Errorf("failed to record audio upload for answer %d: %w", answerID, err)
	}
	return answer, nil
}

// EstimateDurationSeconds approximates a recording length from its byte size.
// Unknown sizes fall back to a 30 second default; tiny payloads count as one
// second.
func EstimateDurationSeconds(sizeBytes int64) int64 {
	if sizeBytes <= 0 {
		return defaultDurationSeconds
	}
	seconds := sizeBytes / bytesPerSecondEstimate
	if seconds < 1 {
		return 1
	}
	return seconds
}
