package aiclients

import "fmt"

// TranscriptionError indicates the speech-to-text stage failed: the audio
// could not be fetched, the service could not be reached, it returned a
// non-success status, or its response could not be parsed.
type TranscriptionError struct {
	Msg string
	Err error
}

func (e *TranscriptionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transcription failed: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("transcription failed: %s", e.Msg)
}

func (e *TranscriptionError) Unwrap() error { return e.Err }

// EmptyTranscriptError indicates the transcription service answered
// successfully but produced no usable text.
type EmptyTranscriptError struct {
	AudioObjectKey string
}

func (e *EmptyTranscriptError) Error() string {
	return fmt.Sprintf("transcription produced no text for audio object '%s'", e.AudioObjectKey)
}

// ScoringError indicates the scoring stage failed: the transcript was empty,
// the service could not be reached, it returned a non-success status, or its
// response was missing required fields.
type ScoringError struct {
	Msg string
	Err error
}

func (e *ScoringError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("scoring failed: %s: %v", e.Msg, e.Err)
	}
	return fmt.Sprintf("scoring failed: %s", e.Msg)
}

func (e *ScoringError) Unwrap() error { return e.Err }
