// Package answerpipeline drives a test answer through transcription and
// scoring. The processor mutates the answer in memory and reports every
// status transition through an injected save callback; it never touches
// storage itself, so the same pipeline serves both the synchronous and the
// queued processing modes.
package answerpipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"ai-speaking-eval/backend/internal/coreengine/aiclients"
	"ai-speaking-eval/backend/internal/coreengine/rulescorer"
	"ai-speaking-eval/backend/internal/datastore"
)

// Failure feedback shown to the test taker, one message per failure category.
const (
	feedbackTranscriptionFailed = "Audio transcription failed. Please try submitting your answer again."
	feedbackEmptyTranscript     = "We could not detect any speech in your recording. Please speak clearly and try again."
	feedbackScoringFailed       = "Your answer was transcribed but could not be scored. Please try again later."
	feedbackTimeout             = "Processing took too long and was cancelled. Please try again."
)

// SaveFunc persists the answer's current state. It is called after every
// status transition. NopSave is used when the caller persists the final
// state itself.
type SaveFunc func(answer *datastore.TestAnswer) error

// NopSave discards intermediate states.
var NopSave SaveFunc = func(*datastore.TestAnswer) error { return nil }

// Input bundles everything the processor needs for one answer.
type Input struct {
	Answer        *datastore.TestAnswer
	Question      datastore.Question
	SampleAnswers []datastore.SampleAnswer
}

// Processor runs the PENDING -> TRANSCRIBING -> SCORING -> COMPLETED pipeline.
// A nil Scorer selects the built-in rule-based scorer.
type Processor struct {
	Transcriber aiclients.Transcriber
	Scorer      aiclients.AnswerScorer
	// Timeout bounds each external stage. Zero means no extra bound beyond
	// the clients' own timeouts.
	Timeout time.Duration
}

// Process runs the full pipeline on in.Answer. It never returns an error:
// failures end with the answer in the FAILED status carrying category
// feedback, and save problems are logged without aborting the in-memory
// result.
func (p *Processor) Process(ctx context.Context, in Input, save SaveFunc) {
	answer := in.Answer
	if save == nil {
		save = NopSave
	}

	if !p.transition(answer, datastore.StatusTranscribing, save) {
		return
	}

	transcript, err := p.transcribe(ctx, answer)
	if err != nil {
		log.Printf("Pipeline: transcription failed for answer %d: %v", answer.ID, err)
		p.fail(answer, transcriptionFeedback(err), save)
		return
	}
	answer.TranscribedText = datastore.ToNullString(transcript)

	if !p.transition(answer, datastore.StatusScoring, save) {
		return
	}

	score, feedback, err := p.score(ctx, answer, in)
	if err != nil {
		log.Printf("Pipeline: scoring failed for answer %d: %v", answer.ID, err)
		if isTimeout(err) {
			p.fail(answer, feedbackTimeout, save)
		} else {
			p.fail(answer, feedbackScoringFailed, save)
		}
		return
	}
	answer.Score = score
	answer.Feedback = datastore.ToNullString(feedback)
	answer.AnsweredAt = datastore.ToNullTime(time.Now())

	p.transition(answer, datastore.StatusCompleted, save)
	log.Printf("Pipeline: answer %d completed with score %.2f", answer.ID, answer.Score)
}

func (p *Processor) transcribe(ctx context.Context, answer *datastore.TestAnswer) (string, error) {
	if p.Transcriber == nil {
		return "", &aiclients.TranscriptionError{Msg: "no transcriber configured"}
	}
	if !answer.AudioURL.Valid || answer.AudioURL.String == "" {
		return "", &aiclients.TranscriptionError{Msg: fmt.Sprintf("answer %d has no audio object", answer.ID)}
	}
	ctx, cancel := p.stageContext(ctx)
	defer cancel()
	return p.Transcriber.Transcribe(ctx, answer.ID, answer.AudioURL.String)
}

func (p *Processor) score(ctx context.Context, answer *datastore.TestAnswer, in Input) (float64, string, error) {
	transcript := answer.TranscribedText.String

	if p.Scorer == nil {
		sampleText := ""
		if len(in.SampleAnswers) > 0 {
			sampleText = in.SampleAnswers[0].Content
		}
		bd := rulescorer.Evaluate(transcript, in.Question.Content, sampleText, int(answer.DurationSeconds))
		return bd.OverallScore, formatRuleFeedback(bd), nil
	}

	req := aiclients.ScoringRequest{
		Question:   in.Question.Content,
		Transcript: transcript,
	}
	for _, sa := range in.SampleAnswers {
		req.SampleAnswers = append(req.SampleAnswers, aiclients.SampleAnswerItem{
			Content: sa.Content,
			Score:   sa.Score,
		})
	}

	ctx, cancel := p.stageContext(ctx)
	defer cancel()
	result, err := p.Scorer.Score(ctx, answer.ID, req)
	if err != nil {
		return 0, "", err
	}
	return result.Score, result.Feedback, nil
}

// transition moves the answer to the target status if the state machine
// allows it. An illegal transition is logged and aborts processing.
func (p *Processor) transition(answer *datastore.TestAnswer, target string, save SaveFunc) bool {
	if !datastore.CanTransition(answer.ProcessingStatus, target) {
		log.Printf("Pipeline: illegal transition %s -> %s for answer %d, aborting",
			answer.ProcessingStatus, target, answer.ID)
		return false
	}
	answer.ProcessingStatus = target
	answer.UpdatedAt = time.Now()
	if err := save(answer); err != nil {
		log.Printf("Pipeline: failed to save answer %d in status %s: %v", answer.ID, target, err)
	}
	return true
}

func (p *Processor) fail(answer *datastore.TestAnswer, feedback string, save SaveFunc) {
	answer.Feedback = datastore.ToNullString(feedback)
	p.transition(answer, datastore.StatusFailed, save)
}

func (p *Processor) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.Timeout > 0 {
		return context.WithTimeout(ctx, p.Timeout)
	}
	return context.WithCancel(ctx)
}

func transcriptionFeedback(err error) string {
	var emptyErr *aiclients.EmptyTranscriptError
	if errors.As(err, &emptyErr) {
		return feedbackEmptyTranscript
	}
	if isTimeout(err) {
		return feedbackTimeout
	}
	return feedbackTranscriptionFailed
}

// isTimeout reports whether an external call failed on a deadline, either the
// stage context's or the HTTP client's own timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// formatRuleFeedback appends the actionable suggestions to the generated
// feedback so the stored feedback field carries both.
func formatRuleFeedback(bd rulescorer.ScoreBreakdown) string {
	if len(bd.Suggestions) == 0 {
		return bd.Feedback
	}
	var sb strings.Builder
	sb.WriteString(bd.Feedback)
	sb.WriteString("\n\nSuggestions:\n")
	for _, s := range bd.Suggestions {
		sb.WriteString("- ")
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
