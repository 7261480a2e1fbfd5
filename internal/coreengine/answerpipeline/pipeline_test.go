package answerpipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"ai-speaking-eval/backend/internal/coreengine/aiclients"
	"ai-speaking-eval/backend/internal/datastore"
)

type fakeTranscriber struct {
	text  string
	err   error
	calls int
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _ int64, _ string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeScorer struct {
	result aiclients.ScoringResult
	err    error
	calls  int
}

func (f *fakeScorer) Score(_ context.Context, _ int64, _ aiclients.ScoringRequest) (aiclients.ScoringResult, error) {
	f.calls++
	if f.err != nil {
		return aiclients.ScoringResult{}, f.err
	}
	return f.result, nil
}

func pendingAnswer() *datastore.TestAnswer {
	return &datastore.TestAnswer{
		ID:               1,
		TestSessionID:    10,
		QuestionID:       100,
		AudioURL:         datastore.ToNullString("recordings/answer-1.wav"),
		DurationSeconds:  30,
		ProcessingStatus: datastore.StatusPending,
	}
}

func questionInput(answer *datastore.TestAnswer) Input {
	return Input{
		Answer:   answer,
		Question: datastore.Question{ID: 100, Content: "Describe your favorite travel destination."},
		SampleAnswers: []datastore.SampleAnswer{
			{ID: 1, QuestionID: 100, Content: "I love visiting the coast in summer.", Score: 8.0},
		},
	}
}

// recordSaves returns a SaveFunc that appends each saved status.
func recordSaves(statuses *[]string) SaveFunc {
	return func(a *datastore.TestAnswer) error {
		*statuses = append(*statuses, a.ProcessingStatus)
		return nil
	}
}

func TestProcess_SuccessTransitionSequence(t *testing.T) {
	answer := pendingAnswer()
	scorer := &fakeScorer{result: aiclients.ScoringResult{Score: 8.2, Feedback: "Well structured answer."}}
	p := &Processor{
		Transcriber: &fakeTranscriber{text: "I love the coast."},
		Scorer:      scorer,
	}

	var saved []string
	p.Process(context.Background(), questionInput(answer), recordSaves(&saved))

	want := []string{datastore.StatusTranscribing, datastore.StatusScoring, datastore.StatusCompleted}
	if len(saved) != len(want) {
		t.Fatalf("saved statuses = %v, want %v", saved, want)
	}
	for i := range want {
		if saved[i] != want[i] {
			t.Fatalf("saved statuses = %v, want %v", saved, want)
		}
	}

	if answer.ProcessingStatus != datastore.StatusCompleted {
		t.Errorf("final status = %s, want COMPLETED", answer.ProcessingStatus)
	}
	if answer.Score != 8.2 {
		t.Errorf("score = %v, want 8.2", answer.Score)
	}
	if answer.Feedback.String != "Well structured answer." {
		t.Errorf("feedback = %q", answer.Feedback.String)
	}
	if !answer.TranscribedText.Valid || answer.TranscribedText.String != "I love the coast." {
		t.Errorf("transcript = %+v", answer.TranscribedText)
	}
	if !answer.AnsweredAt.Valid {
		t.Error("answered_at should be set on completion")
	}
}

func TestProcess_TranscriptionFailureSkipsScoring(t *testing.T) {
	answer := pendingAnswer()
	scorer := &fakeScorer{}
	p := &Processor{
		Transcriber: &fakeTranscriber{err: &aiclients.TranscriptionError{Msg: "service unreachable"}},
		Scorer:      scorer,
	}

	var saved []string
	p.Process(context.Background(), questionInput(answer), recordSaves(&saved))

	if answer.ProcessingStatus != datastore.StatusFailed {
		t.Errorf("final status = %s, want FAILED", answer.ProcessingStatus)
	}
	if scorer.calls != 0 {
		t.Errorf("scorer must not be called after transcription failure, got %d calls", scorer.calls)
	}
	if answer.Feedback.String != "Audio transcription failed. Please try submitting your answer again." {
		t.Errorf("unexpected failure feedback %q", answer.Feedback.String)
	}
	want := []string{datastore.StatusTranscribing, datastore.StatusFailed}
	if len(saved) != 2 || saved[0] != want[0] || saved[1] != want[1] {
		t.Errorf("saved statuses = %v, want %v", saved, want)
	}
}

func TestProcess_EmptyTranscriptFeedback(t *testing.T) {
	answer := pendingAnswer()
	p := &Processor{
		Transcriber: &fakeTranscriber{err: &aiclients.EmptyTranscriptError{AudioObjectKey: "recordings/answer-1.wav"}},
		Scorer:      &fakeScorer{},
	}

	p.Process(context.Background(), questionInput(answer), NopSave)

	if answer.ProcessingStatus != datastore.StatusFailed {
		t.Errorf("final status = %s, want FAILED", answer.ProcessingStatus)
	}
	if !strings.Contains(answer.Feedback.String, "could not detect any speech") {
		t.Errorf("unexpected empty-transcript feedback %q", answer.Feedback.String)
	}
}

func TestProcess_TimeoutFeedback(t *testing.T) {
	answer := pendingAnswer()
	p := &Processor{
		Transcriber: &fakeTranscriber{err: &aiclients.TranscriptionError{
			Msg: "transcription service unreachable",
			Err: context.DeadlineExceeded,
		}},
	}

	p.Process(context.Background(), questionInput(answer), NopSave)

	if answer.ProcessingStatus != datastore.StatusFailed {
		t.Errorf("final status = %s, want FAILED", answer.ProcessingStatus)
	}
	if !strings.Contains(answer.Feedback.String, "took too long") {
		t.Errorf("expected timeout feedback, got %q", answer.Feedback.String)
	}
}

func TestProcess_ScoringFailure(t *testing.T) {
	answer := pendingAnswer()
	p := &Processor{
		Transcriber: &fakeTranscriber{text: "A decent answer about the coast."},
		Scorer:      &fakeScorer{err: &aiclients.ScoringError{Msg: "service returned status 503"}},
	}

	var saved []string
	p.Process(context.Background(), questionInput(answer), recordSaves(&saved))

	if answer.ProcessingStatus != datastore.StatusFailed {
		t.Errorf("final status = %s, want FAILED", answer.ProcessingStatus)
	}
	// Transcript survives the scoring failure.
	if answer.TranscribedText.String != "A decent answer about the coast." {
		t.Errorf("transcript should be kept, got %+v", answer.TranscribedText)
	}
	if !strings.Contains(answer.Feedback.String, "could not be scored") {
		t.Errorf("unexpected scoring failure feedback %q", answer.Feedback.String)
	}
	want := []string{datastore.StatusTranscribing, datastore.StatusScoring, datastore.StatusFailed}
	if len(saved) != 3 || saved[2] != datastore.StatusFailed {
		t.Errorf("saved statuses = %v, want %v", saved, want)
	}
}

func TestProcess_NilScorerUsesRuleBasedScoring(t *testing.T) {
	answer := pendingAnswer()
	p := &Processor{
		Transcriber: &fakeTranscriber{text: "I love visiting the coast in summer because the weather is wonderful."},
	}

	p.Process(context.Background(), questionInput(answer), NopSave)

	if answer.ProcessingStatus != datastore.StatusCompleted {
		t.Fatalf("final status = %s, want COMPLETED", answer.ProcessingStatus)
	}
	if answer.Score <= 0 || answer.Score > 10 {
		t.Errorf("rule-based score %v outside (0,10]", answer.Score)
	}
	if !strings.Contains(answer.Feedback.String, "Overall Performance:") {
		t.Errorf("rule-based feedback missing summary header: %q", answer.Feedback.String)
	}
}

func TestProcess_NonPendingAnswerIsNotTouched(t *testing.T) {
	answer := pendingAnswer()
	answer.ProcessingStatus = datastore.StatusCompleted
	tr := &fakeTranscriber{text: "should not run"}
	p := &Processor{Transcriber: tr, Scorer: &fakeScorer{}}

	var saved []string
	p.Process(context.Background(), questionInput(answer), recordSaves(&saved))

	if answer.ProcessingStatus != datastore.StatusCompleted {
		t.Errorf("status changed to %s", answer.ProcessingStatus)
	}
	if tr.calls != 0 {
		t.Error("transcriber must not run for an answer that is not PENDING")
	}
	if len(saved) != 0 {
		t.Errorf("no saves expected, got %v", saved)
	}
}

func TestProcess_SaveErrorDoesNotAbort(t *testing.T) {
	answer := pendingAnswer()
	p := &Processor{
		Transcriber: &fakeTranscriber{text: "An answer about the coast."},
		Scorer:      &fakeScorer{result: aiclients.ScoringResult{Score: 6.0, Feedback: "ok"}},
	}

	failingSave := func(*datastore.TestAnswer) error { return errors.New("db down") }
	p.Process(context.Background(), questionInput(answer), failingSave)

	if answer.ProcessingStatus != datastore.StatusCompleted {
		t.Errorf("in-memory processing should still complete, got %s", answer.ProcessingStatus)
	}
}

func TestProcess_MissingAudioFails(t *testing.T) {
	answer := pendingAnswer()
	answer.AudioURL = datastore.ToNullString("")
	p := &Processor{Transcriber: &fakeTranscriber{text: "unused"}}

	p.Process(context.Background(), questionInput(answer), NopSave)

	if answer.ProcessingStatus != datastore.StatusFailed {
		t.Errorf("final status = %s, want FAILED", answer.ProcessingStatus)
	}
}

func TestWorkerPool_ProcessesSubmittedTasks(t *testing.T) {
	pool := NewWorkerPool(2, 10)

	done := make(chan int, 5)
	for i := 0; i < 5; i++ {
		i := i
		if err := pool.Submit(func() { done <- i }); err != nil {
			t.Fatalf("Submit(%d) returned error: %v", i, err)
		}
	}

	seen := map[int]bool{}
	for i := 0; i < 5; i++ {
		select {
		case v := <-done:
			seen[v] = true
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for tasks")
		}
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 distinct tasks, got %d", len(seen))
	}
	pool.Shutdown()
}

func TestWorkerPool_SaturationRejectsInsteadOfBlocking(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	defer pool.Shutdown()

	release := make(chan struct{})
	// Occupy the single worker.
	if err := pool.Submit(func() { <-release }); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	// Fill the single queue slot. The worker may still be picking up the
	// first task, so allow a brief settling window.
	deadline := time.Now().Add(time.Second)
	for {
		if err := pool.Submit(func() { <-release }); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("could not enqueue the second task")
		}
		time.Sleep(5 * time.Millisecond)
	}

	err := pool.Submit(func() {})
	if !errors.Is(err, ErrQueueSaturated) {
		t.Errorf("expected ErrQueueSaturated, got %v", err)
	}
	close(release)
}

func TestWorkerPool_SubmitAfterShutdown(t *testing.T) {
	pool := NewWorkerPool(1, 1)
	pool.Shutdown()

	if err := pool.Submit(func() {}); err == nil {
		t.Error("Submit after Shutdown should fail")
	}
	// Shutdown is idempotent.
	pool.Shutdown()
}
