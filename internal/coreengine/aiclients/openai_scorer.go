package aiclients

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const scoringSystemPrompt = `You are an English speaking-test examiner. Score the candidate's answer ` +
	`to the question on a 0-10 scale, using the sample answers and their scores as calibration. ` +
	`Respond with a JSON object only: {"score": <number 0-10>, "feedback": "<2-4 sentences of feedback>"}`

// OpenAIScorer implements AnswerScorer with an OpenAI chat completion. The
// model is asked for a strict JSON object which is then parsed like any other
// scoring service response.
type OpenAIScorer struct {
	Client *openai.Client
	Model  string
	Log    LogSink
}

// NewOpenAIScorer creates an OpenAIScorer. model defaults to gpt-4o-mini when
// empty.
func NewOpenAIScorer(apiKey, model string, sink LogSink) *OpenAIScorer {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if sink == nil {
		sink = NopLog
	}
	return &OpenAIScorer{
		Client: openai.NewClient(apiKey),
		Model:  model,
		Log:    sink,
	}
}

func (s *OpenAIScorer) Score(ctx context.Context, testAnswerID int64, req ScoringRequest) (ScoringResult, error) {
	if strings.TrimSpace(req.Transcript) == "" {
		return ScoringResult{}, &ScoringError{Msg: "transcript is empty, nothing to score"}
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Question: %s\n\n", req.Question)
	for i, sa := range req.SampleAnswers {
		fmt.Fprintf(&prompt, "Sample answer %d (score %.1f): %s\n", i+1, sa.Score, sa.Content)
	}
	fmt.Fprintf(&prompt, "\nCandidate's answer: %s\n", req.Transcript)

	requestBytes, err := json.Marshal(req)
	if err != nil {
		return ScoringResult{}, &ScoringError{Msg: "failed to encode scoring request", Err: err}
	}
	requestData := string(requestBytes)

	start := time.Now()
	resp, err := s.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: scoringSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt.String()},
		},
		Temperature: 0.2,
	})
	if err != nil {
		s.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceScoring,
			RequestData:      requestData,
			ErrorMessage:     err.Error(),
			ProcessingTimeMs: elapsedMs(start),
		})
		return ScoringResult{}, &ScoringError{Msg: "OpenAI chat completion failed", Err: err}
	}
	if len(resp.Choices) == 0 {
		msg := "OpenAI response contained no choices"
		s.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceScoring,
			RequestData:      requestData,
			ErrorMessage:     msg,
			ProcessingTimeMs: elapsedMs(start),
		})
		return ScoringResult{}, &ScoringError{Msg: msg}
	}

	content := resp.Choices[0].Message.Content
	var parsed scoringResponse
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		s.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceScoring,
			RequestData:      requestData,
			ResponseData:     content,
			ErrorMessage:     err.Error(),
			ProcessingTimeMs: elapsedMs(start),
		})
		return ScoringResult{}, &ScoringError{Msg: "failed to parse model output as JSON", Err: err}
	}
	if parsed.Score == nil || parsed.Feedback == nil {
		msg := "model output is missing the score or feedback field"
		s.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceScoring,
			RequestData:      requestData,
			ResponseData:     content,
			ErrorMessage:     msg,
			ProcessingTimeMs: elapsedMs(start),
		})
		return ScoringResult{}, &ScoringError{Msg: msg}
	}

	result := ScoringResult{Score: *parsed.Score, Feedback: *parsed.Feedback}

	s.Log.Record(LogEntry{
		TestAnswerID:     testAnswerID,
		ServiceType:      ServiceScoring,
		RequestData:      requestData,
		ResponseData:     content,
		ProcessingTimeMs: elapsedMs(start),
	})
	log.Printf("OpenAIScorer: scored answer %d with model %s: %.2f", testAnswerID, s.Model, result.Score)
	return result, nil
}

// stripCodeFence removes a surrounding markdown code fence that chat models
// sometimes wrap JSON output in.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}
