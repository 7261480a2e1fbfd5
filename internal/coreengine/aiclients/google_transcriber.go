package aiclients

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"google.golang.org/api/option"
)

// GoogleTranscriber implements Transcriber on top of Google Cloud
// Speech-to-Text. It is the managed-service alternative to the self-hosted
// Whisper server.
type GoogleTranscriber struct {
	// CredentialsFile is optional; when empty the client library falls back
	// to GOOGLE_APPLICATION_CREDENTIALS.
	CredentialsFile string
	LanguageCode    string
	Audio           AudioFetcher
	Log             LogSink
}

// NewGoogleTranscriber creates a GoogleTranscriber. languageCode defaults to
// en-US when empty.
func NewGoogleTranscriber(credentialsFile, languageCode string, audio AudioFetcher, sink LogSink) *GoogleTranscriber {
	if languageCode == "" {
		languageCode = "en-US"
	}
	if sink == nil {
		sink = NopLog
	}
	return &GoogleTranscriber{
		CredentialsFile: credentialsFile,
		LanguageCode:    languageCode,
		Audio:           audio,
		Log:             sink,
	}
}

func (g *GoogleTranscriber) Transcribe(ctx context.Context, testAnswerID int64, audioObjectKey string) (string, error) {
	if g.Audio == nil {
		return "", &TranscriptionError{Msg: "audio fetcher is not configured"}
	}

	audioBytes, err := g.Audio.GetFileBytes(ctx, audioObjectKey)
	if err != nil {
		return "", &TranscriptionError{Msg: fmt.Sprintf("failed to fetch audio object '%s'", audioObjectKey), Err: err}
	}

	var opts []option.ClientOption
	if g.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(g.CredentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return "", &TranscriptionError{Msg: "failed to create Google Speech client", Err: err}
	}
	defer client.Close()

	requestData := fmt.Sprintf(`{"audio_object":%q,"audio_bytes":%d,"language":%q,"provider":"google"}`,
		audioObjectKey, len(audioBytes), g.LanguageCode)

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:                   speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:            16000,
			LanguageCode:               g.LanguageCode,
			EnableAutomaticPunctuation: true,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audioBytes},
		},
	}

	start := time.Now()
	resp, err := client.Recognize(ctx, req)
	if err != nil {
		g.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceTranscription,
			RequestData:      requestData,
			ErrorMessage:     err.Error(),
			ProcessingTimeMs: elapsedMs(start),
		})
		return "", &TranscriptionError{Msg: "Google Speech recognition failed", Err: err}
	}

	var sb strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			if sb.Len() > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(result.Alternatives[0].Transcript)
		}
	}
	text := strings.TrimSpace(sb.String())

	if text == "" {
		emptyErr := &EmptyTranscriptError{AudioObjectKey: audioObjectKey}
		g.Log.Record(LogEntry{
			TestAnswerID:     testAnswerID,
			ServiceType:      ServiceTranscription,
			RequestData:      requestData,
			ResponseData:     `{"results":[]}`,
			ErrorMessage:     emptyErr.Error(),
			ProcessingTimeMs: elapsedMs(start),
		})
		return "", emptyErr
	}

	g.Log.Record(LogEntry{
		TestAnswerID:     testAnswerID,
		ServiceType:      ServiceTranscription,
		RequestData:      requestData,
		ResponseData:     fmt.Sprintf(`{"transcript":%q}`, text),
		ProcessingTimeMs: elapsedMs(start),
	})
	log.Printf("GoogleTranscriber: transcribed audio object '%s' for answer %d (%d chars)",
		audioObjectKey, testAnswerID, len(text))
	return text, nil
}
