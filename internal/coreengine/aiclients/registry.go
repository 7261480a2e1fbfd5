package aiclients

import (
	"fmt"
	"log"
	"time"
)

// Transcriber provider names accepted by NewTranscriber.
const (
	ProviderWhisper = "whisper"
	ProviderGoogle  = "google"
	ProviderMock    = "mock"
)

// Scorer provider names accepted by NewScorer.
const (
	ProviderRemote = "remote"
	ProviderOpenAI = "openai"
)

// TranscriberConfig selects and configures a Transcriber implementation.
type TranscriberConfig struct {
	Provider        string
	WhisperURL      string
	CredentialsFile string
	LanguageCode    string
	Timeout         time.Duration
}

// ScorerConfig selects and configures an AnswerScorer implementation.
type ScorerConfig struct {
	Provider    string
	ScoringURL  string
	OpenAIKey   string
	OpenAIModel string
	Timeout     time.Duration
}

// NewTranscriber builds the configured Transcriber. The provider defaults to
// whisper when empty.
func NewTranscriber(cfg TranscriberConfig, audio AudioFetcher, sink LogSink) (Transcriber, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = ProviderWhisper
	}
	log.Printf("Selecting transcription provider: %s", provider)

	switch provider {
	case ProviderWhisper:
		if cfg.WhisperURL == "" {
			return nil, fmt.Errorf("whisper transcriber requires a base URL")
		}
		client := NewWhisperClient(cfg.WhisperURL, audio, sink, cfg.Timeout)
		client.LanguageCode = cfg.LanguageCode
		return client, nil
	case ProviderGoogle:
		return NewGoogleTranscriber(cfg.CredentialsFile, cfg.LanguageCode, audio, sink), nil
	case ProviderMock:
		return &MockTranscriber{Log: sink}, nil
	default:
		return nil, fmt.Errorf("unknown transcription provider: %s", provider)
	}
}

// NewScorer builds the configured AnswerScorer. It returns nil without error
// when the provider is empty: the pipeline then falls back to the built-in
// rule-based scorer.
func NewScorer(cfg ScorerConfig, sink LogSink) (AnswerScorer, error) {
	if cfg.Provider == "" {
		log.Println("No scoring provider configured, the rule-based scorer will be used.")
		return nil, nil
	}
	log.Printf("Selecting scoring provider: %s", cfg.Provider)

	switch cfg.Provider {
	case ProviderRemote:
		if cfg.ScoringURL == "" {
			return nil, fmt.Errorf("remote scorer requires a base URL")
		}
		return NewRemoteScoringClient(cfg.ScoringURL, sink, cfg.Timeout), nil
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("openai scorer requires an API key")
		}
		return NewOpenAIScorer(cfg.OpenAIKey, cfg.OpenAIModel, sink), nil
	default:
		return nil, fmt.Errorf("unknown scoring provider: %s", cfg.Provider)
	}
}
