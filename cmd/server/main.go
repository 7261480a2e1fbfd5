package main

import (
	"log"

	"ai-speaking-eval/backend/internal/answermanagement"
	"ai-speaking-eval/backend/internal/apigateway"
	"ai-speaking-eval/backend/internal/config"
	"ai-speaking-eval/backend/internal/coreengine/aiclients"
	"ai-speaking-eval/backend/internal/coreengine/answerpipeline"
	"ai-speaking-eval/backend/internal/datastore"
	"ai-speaking-eval/backend/internal/objectstore"
)

func main() {
	cfg := config.Load()

	if err := datastore.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer datastore.DB.Close()

	if err := objectstore.InitMinioClient(); err != nil {
		log.Fatalf("Failed to initialize MinIO client: %v", err)
	}
	minioClient, err := objectstore.GetGlobalMinioClient()
	if err != nil {
		log.Fatalf("Failed to get MinIO client: %v", err)
	}

	// Every external AI call lands in the ai_processing_logs table. A failed
	// insert must not fail the pipeline, so it is only logged here.
	auditSink := aiclients.LogFunc(func(e aiclients.LogEntry) {
		entry := &datastore.AIProcessingLog{
			TestAnswerID:     e.TestAnswerID,
			ServiceType:      e.ServiceType,
			RequestData:      datastore.ToNullString(e.RequestData),
			ResponseData:     datastore.ToNullString(e.ResponseData),
			ErrorMessage:     datastore.ToNullString(e.ErrorMessage),
			ProcessingTimeMs: datastore.ToNullInt64(e.ProcessingTimeMs),
		}
		if _, err := datastore.CreateAIProcessingLog(entry); err != nil {
			log.Printf("Failed to persist processing log entry for answer %d: %v", e.TestAnswerID, err)
		}
	})

	transcriber, err := aiclients.NewTranscriber(aiclients.TranscriberConfig{
		Provider:        cfg.TranscriptionProvider,
		WhisperURL:      cfg.WhisperURL,
		CredentialsFile: cfg.GoogleCredentialsFile,
		LanguageCode:    cfg.LanguageCode,
		Timeout:         cfg.RequestTimeout,
	}, minioClient, auditSink)
	if err != nil {
		log.Fatalf("Failed to configure transcriber: %v", err)
	}

	scorer, err := aiclients.NewScorer(aiclients.ScorerConfig{
		Provider:    cfg.ScoringProvider,
		ScoringURL:  cfg.ScoringURL,
		OpenAIKey:   cfg.OpenAIAPIKey,
		OpenAIModel: cfg.OpenAIModel,
		Timeout:     cfg.RequestTimeout,
	}, auditSink)
	if err != nil {
		log.Fatalf("Failed to configure scorer: %v", err)
	}

	processor := &answerpipeline.Processor{
		Transcriber: transcriber,
		Scorer:      scorer,
		Timeout:     cfg.RequestTimeout,
	}
	pool := answerpipeline.NewWorkerPool(cfg.PoolWorkers, cfg.PoolQueueSize)
	defer pool.Shutdown()

	service := answermanagement.NewService(processor, pool, minioClient)
	router := apigateway.SetupRouter(answermanagement.NewHandlers(service))

	log.Printf("Starting server on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
