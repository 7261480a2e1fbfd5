package aiclients

import (
	"context"
	"fmt"
	"log"
	"time"
)

// MockTranscriber is a Transcriber for local development without a speech
// service. It returns canned text keyed by the audio object name.
type MockTranscriber struct {
	// Text overrides the canned transcript when non-empty.
	Text string
	// Fail makes every call return a TranscriptionError.
	Fail bool
	Log  LogSink
}

func (m *MockTranscriber) Transcribe(ctx context.Context, testAnswerID int64, audioObjectKey string) (string, error) {
	sink := m.Log
	if sink == nil {
		sink = NopLog
	}
	requestData := fmt.Sprintf(`{"audio_object":%q,"provider":"mock"}`, audioObjectKey)
	start := time.Now()

	// Simulated latency so the pipeline timing paths get exercised locally.
	time.Sleep(50 * time.Millisecond)

	if m.Fail {
		err := &TranscriptionError{Msg: fmt.Sprintf("simulated failure for audio object '%s'", audioObjectKey)}
		sink.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceTranscription,
			RequestData:      requestData,
			ErrorMessage:     err.Error(),
			ProcessingTimeMs: elapsedMs(start),
		})
		return "", err
	}

	text := m.Text
	if text == "" {
		text = fmt.Sprintf("This is a mock transcription for audio object %s.", audioObjectKey)
	}
	sink.Record(LogEntry{
		TestAnswerID:     testAnswerID,
		ServiceType:      ServiceTranscription,
		RequestData:      requestData,
		ResponseData:     fmt.Sprintf(`{"text":%q,"simulated":true}`, text),
		ProcessingTimeMs: elapsedMs(start),
	})
	log.Printf("MockTranscriber: produced canned transcript for answer %d", testAnswerID)
	return text, nil
}
