package aiclients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeAudioFetcher struct {
	data map[string][]byte
	err  error
}

func (f *fakeAudioFetcher) GetFileBytes(_ context.Context, objectName string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.data[objectName]
	if !ok {
		return nil, fmt.Errorf("object '%s' not found", objectName)
	}
	return data, nil
}

type recordingSink struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (r *recordingSink) Record(entry LogEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

func (r *recordingSink) all() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]LogEntry(nil), r.entries...)
}

func TestWhisperClient_Transcribe(t *testing.T) {
	audio := &fakeAudioFetcher{data: map[string][]byte{"answer.wav": []byte("fake-wav-bytes")}}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transcribe" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %s", ct)
		}
		fmt.Fprint(w, `{"text": "hello from whisper"}`)
	}))
	defer server.Close()

	sink := &recordingSink{}
	client := NewWhisperClient(server.URL, audio, sink, 5*time.Second)

	text, err := client.Transcribe(context.Background(), 42, "answer.wav")
	if err != nil {
		t.Fatalf("Transcribe returned error: %v", err)
	}
	if text != "hello from whisper" {
		t.Errorf("text = %q, want %q", text, "hello from whisper")
	}

	entries := sink.all()
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	e := entries[0]
	if e.TestAnswerID != 42 || e.ServiceType != ServiceTranscription {
		t.Errorf("unexpected audit entry: %+v", e)
	}
	if e.ErrorMessage != "" {
		t.Errorf("success entry should have no error message, got %q", e.ErrorMessage)
	}
	if strings.Contains(e.RequestData, "ZmFrZS13YXYtYnl0ZXM") {
		t.Error("audit entry must not contain the base64 audio payload")
	}
	if !strings.Contains(e.RequestData, `"audio_object":"answer.wav"`) {
		t.Errorf("audit entry should record the audio object key, got %q", e.RequestData)
	}
}

func TestWhisperClient_BlankTextIsEmptyTranscriptError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"whitespace text", `{"text": "   "}`},
		{"missing text field", `{"status": "ok"}`},
		{"null text", `{"text": null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			audio := &fakeAudioFetcher{data: map[string][]byte{"a.wav": []byte("x")}}
			sink := &recordingSink{}
			client := NewWhisperClient(server.URL, audio, sink, 5*time.Second)

			_, err := client.Transcribe(context.Background(), 1, "a.wav")
			var emptyErr *EmptyTranscriptError
			if !errors.As(err, &emptyErr) {
				t.Fatalf("expected *EmptyTranscriptError, got %v", err)
			}
			if emptyErr.AudioObjectKey != "a.wav" {
				t.Errorf("AudioObjectKey = %q, want a.wav", emptyErr.AudioObjectKey)
			}
			entries := sink.all()
			if len(entries) != 1 || entries[0].ErrorMessage == "" {
				t.Errorf("expected one audit entry carrying the error, got %+v", entries)
			}
		})
	}
}

func TestWhisperClient_ServerErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "model not loaded"}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	audio := &fakeAudioFetcher{data: map[string][]byte{"a.wav": []byte("x")}}
	sink := &recordingSink{}
	client := NewWhisperClient(server.URL, audio, sink, 5*time.Second)

	_, err := client.Transcribe(context.Background(), 1, "a.wav")
	var trErr *TranscriptionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected *TranscriptionError, got %v", err)
	}
	entries := sink.all()
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if !strings.Contains(entries[0].ResponseData, "model not loaded") {
		t.Errorf("audit entry should carry the error response body, got %q", entries[0].ResponseData)
	}
}

func TestWhisperClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"text": "too late"}`)
	}))
	defer server.Close()

	audio := &fakeAudioFetcher{data: map[string][]byte{"a.wav": []byte("x")}}
	sink := &recordingSink{}
	client := NewWhisperClient(server.URL, audio, sink, 20*time.Millisecond)

	_, err := client.Transcribe(context.Background(), 1, "a.wav")
	var trErr *TranscriptionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected *TranscriptionError on timeout, got %v", err)
	}
	if trErr.Unwrap() == nil {
		t.Error("timeout error should wrap the transport error")
	}
	if len(sink.all()) != 1 {
		t.Errorf("expected 1 audit entry for the failed attempt, got %d", len(sink.all()))
	}
}

func TestWhisperClient_AudioFetchFailureSkipsServiceCall(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	audio := &fakeAudioFetcher{err: errors.New("bucket unavailable")}
	sink := &recordingSink{}
	client := NewWhisperClient(server.URL, audio, sink, 5*time.Second)

	_, err := client.Transcribe(context.Background(), 1, "a.wav")
	var trErr *TranscriptionError
	if !errors.As(err, &trErr) {
		t.Fatalf("expected *TranscriptionError, got %v", err)
	}
	if called {
		t.Error("transcription service must not be called when the audio fetch fails")
	}
	if len(sink.all()) != 0 {
		t.Errorf("no service attempt happened, expected no audit entries, got %d", len(sink.all()))
	}
}

func TestMockTranscriber(t *testing.T) {
	sink := &recordingSink{}
	m := &MockTranscriber{Text: "mock text", Log: sink}

	text, err := m.Transcribe(context.Background(), 7, "sample.wav")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "mock text" {
		t.Errorf("text = %q, want mock text", text)
	}
	if len(sink.all()) != 1 {
		t.Errorf("expected 1 audit entry, got %d", len(sink.all()))
	}

	m.Fail = true
	_, err = m.Transcribe(context.Background(), 7, "sample.wav")
	var trErr *TranscriptionError
	if !errors.As(err, &trErr) {
		t.Errorf("expected *TranscriptionError when Fail is set, got %v", err)
	}
}
