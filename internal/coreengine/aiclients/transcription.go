// Package aiclients holds the HTTP and SDK clients for the external AI
// services of the answer pipeline: speech-to-text transcription and transcript
// scoring. Every call is audited through a LogSink and every failure is
// reported as one of the typed errors in errors.go so the pipeline can map it
// to user-facing feedback.
package aiclients

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// DefaultRequestTimeout bounds a single external AI service call.
const DefaultRequestTimeout = 30 * time.Second

// Transcriber converts a stored audio object into text. A successful call
// returns non-blank text; a blank result is reported as *EmptyTranscriptError.
type Transcriber interface {
	Transcribe(ctx context.Context, testAnswerID int64, audioObjectKey string) (string, error)
}

// AudioFetcher loads raw audio bytes by object key. Satisfied by
// objectstore.MinioClient.
type AudioFetcher interface {
	GetFileBytes(ctx context.Context, objectName string) ([]byte, error)
}

// WhisperClient talks to a self-hosted Whisper transcription server over HTTP.
// The server accepts POST {"audio_data": "<base64>", "language": "..."} and
// answers {"text": "..."}.
type WhisperClient struct {
	BaseURL      string
	LanguageCode string
	Audio        AudioFetcher
	HTTPClient   *http.Client
	Log          LogSink
}

// NewWhisperClient creates a WhisperClient with the given request timeout.
// A non-positive timeout falls back to DefaultRequestTimeout.
func NewWhisperClient(baseURL string, audio AudioFetcher, sink LogSink, timeout time.Duration) *WhisperClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if sink == nil {
		sink = NopLog
	}
	return &WhisperClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Audio:      audio,
		HTTPClient: &http.Client{Timeout: timeout},
		Log:        sink,
	}
}

type whisperRequest struct {
	AudioData string `json:"audio_data"`
	Language  string `json:"language,omitempty"`
}

type whisperResponse struct {
	Text *string `json:"text"`
}

// Transcribe fetches the audio object, sends it to the Whisper server and
// returns the recognized text. One audit entry is recorded per attempt that
// reaches the service; only request metadata is logged, never the audio.
func (c *WhisperClient) Transcribe(ctx context.Context, testAnswerID int64, audioObjectKey string) (string, error) {
	if c.Audio == nil {
		return "", &TranscriptionError{Msg: "audio fetcher is not configured"}
	}

	audioBytes, err := c.Audio.GetFileBytes(ctx, audioObjectKey)
	if err != nil {
		return "", &TranscriptionError{Msg: fmt.Sprintf("failed to fetch audio object '%s'", audioObjectKey), Err: err}
	}

	payload := whisperRequest{
		AudioData: base64.StdEncoding.EncodeToString(audioBytes),
		Language:  c.LanguageCode,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", &TranscriptionError{Msg: "failed to encode transcription request", Err: err}
	}

	// Audit metadata only. The base64 payload never goes into the log.
	requestData := fmt.Sprintf(`{"audio_object":%q,"audio_bytes":%d,"language":%q}`,
		audioObjectKey, len(audioBytes), c.LanguageCode)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/transcribe", bytes.NewReader(body))
	if err != nil {
		return "", &TranscriptionError{Msg: "failed to create transcription request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceTranscription,
			RequestData:      requestData,
			ErrorMessage:     err.Error(),
			ProcessingTimeMs: elapsedMs(start),
		})
		return "", &TranscriptionError{Msg: "transcription service unreachable", Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceTranscription,
			RequestData:      requestData,
			ErrorMessage:     err.Error(),
			ProcessingTimeMs: elapsedMs(start),
		})
		return "", &TranscriptionError{Msg: "failed to read transcription response", Err: err}
	}
	rawResponse := string(respBody)

	if httpResp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("transcription service returned status %s", httpResp.Status)
		c.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceTranscription,
			RequestData:      requestData,
			ResponseData:     rawResponse,
			ErrorMessage:     msg,
			ProcessingTimeMs: elapsedMs(start),
		})
		return "", &TranscriptionError{Msg: msg}
	}

	var parsed whisperResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceTranscription,
			RequestData:      requestData,
			ResponseData:     rawResponse,
			ErrorMessage:     err.Error(),
			ProcessingTimeMs: elapsedMs(start),
		})
		return "", &TranscriptionError{Msg: "failed to parse transcription response", Err: err}
	}

	text := ""
	if parsed.Text != nil {
		text = strings.TrimSpace(*parsed.Text)
	}
	if text == "" {
		emptyErr := &EmptyTranscriptError{AudioObjectKey: audioObjectKey}
		c.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceTranscription,
			RequestData:      requestData,
			ResponseData:     rawResponse,
			ErrorMessage:     emptyErr.Error(),
			ProcessingTimeMs: elapsedMs(start),
		})
		return "", emptyErr
	}

	c.Log.Record(LogEntry{
		TestAnswerID:     testAnswerID,
		ServiceType:      ServiceTranscription,
		RequestData:      requestData,
		ResponseData:     rawResponse,
		ProcessingTimeMs: elapsedMs(start),
	})
	log.Printf("WhisperClient: transcribed audio object '%s' for answer %d (%d chars)",
		audioObjectKey, testAnswerID, len(text))
	return text, nil
}
