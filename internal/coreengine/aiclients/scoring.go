package aiclients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// ScoringRequest carries the question context and transcript to score.
type ScoringRequest struct {
	Question      string             `json:"question"`
	Transcript    string             `json:"transcript"`
	SampleAnswers []SampleAnswerItem `json:"sample_answers"`
}

// SampleAnswerItem is one reference answer with its reference score.
type SampleAnswerItem struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// ScoringResult is the scored outcome: an overall score on a 0-10 scale and
// textual feedback.
type ScoringResult struct {
	Score    float64
	Feedback string
}

// AnswerScorer scores a transcript against its question context.
type AnswerScorer interface {
	Score(ctx context.Context, testAnswerID int64, req ScoringRequest) (ScoringResult, error)
}

// RemoteScoringClient talks to an HTTP scoring server that accepts a
// ScoringRequest body and answers {"score": <0-10>, "feedback": "..."}.
type RemoteScoringClient struct {
	BaseURL    string
	HTTPClient *http.Client
	Log        LogSink
}

// NewRemoteScoringClient creates a RemoteScoringClient with the given request
// timeout. A non-positive timeout falls back to DefaultRequestTimeout.
func NewRemoteScoringClient(baseURL string, sink LogSink, timeout time.Duration) *RemoteScoringClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if sink == nil {
		sink = NopLog
	}
	return &RemoteScoringClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
		Log:        sink,
	}
}

type scoringResponse struct {
	Score    *float64 `json:"score"`
	Feedback *string  `json:"feedback"`
}

// Score sends the transcript to the scoring server. An empty transcript is
// rejected up front, before any network call or audit entry.
func (c *RemoteScoringClient) Score(ctx context.Context, testAnswerID int64, req ScoringRequest) (ScoringResult, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return ScoringResult{}, &ScoringError{Msg: "transcript is empty, nothing to score"}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return ScoringResult{}, &ScoringError{Msg: "failed to encode scoring request", Err: err}
	}
	requestData := string(body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/score", bytes.NewReader(body))
	if err != nil {
		return ScoringResult{}, &ScoringError{Msg: "failed to create scoring request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		c.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceScoring,
			RequestData:      requestData,
			ErrorMessage:     err.Error(),
			ProcessingTimeMs: elapsedMs(start),
		})
		return ScoringResult{}, &ScoringError{Msg: "scoring service unreachable", Err: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		c.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceScoring,
			RequestData:      requestData,
			ErrorMessage:     err.Error(),
			ProcessingTimeMs: elapsedMs(start),
		})
		return ScoringResult{}, &ScoringError{Msg: "failed to read scoring response", Err: err}
	}
	rawResponse := string(respBody)

	if httpResp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("scoring service returned status %s", httpResp.Status)
		c.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceScoring,
			RequestData:      requestData,
			ResponseData:     rawResponse,
			ErrorMessage:     msg,
			ProcessingTimeMs: elapsedMs(start),
		})
		return ScoringResult{}, &ScoringError{Msg: msg}
	}

	var parsed scoringResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		c.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceScoring,
			RequestData:      requestData,
			ResponseData:     rawResponse,
			ErrorMessage:     err.Error(),
			ProcessingTimeMs: elapsedMs(start),
		})
		return ScoringResult{}, &ScoringError{Msg: "failed to parse scoring response", Err: err}
	}
	if parsed.Score == nil || parsed.Feedback == nil {
		msg := "scoring response is missing the score or feedback field"
		c.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceScoring,
			RequestData:      requestData,
			ResponseData:     rawResponse,
			ErrorMessage:     msg,
			ProcessingTimeMs: elapsedMs(start),
		})
		return ScoringResult{}, &ScoringError{Msg: msg}
	}

	result := ScoringResult{Score: *parsed.Score, Feedback: *parsed.Feedback}

	c.Log.Record(LogEntry{
		TestAnswerID:     testAnswerID,
		ServiceType:      ServiceScoring,
		RequestData:      requestData,
		ResponseData:     rawResponse,
		ProcessingTimeMs: elapsedMs(start),
	})
	log.Printf("RemoteScoringClient: scored answer %d: %.2f", testAnswerID, result.Score)
	return result, nil
}
