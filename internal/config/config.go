// Package config loads runtime configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server needs at startup.
type Config struct {
	Port        string
	DatabaseURL string

	TranscriptionProvider string
	WhisperURL            string
	GoogleCredentialsFile string
	LanguageCode          string

	ScoringProvider string
	ScoringURL      string
	OpenAIAPIKey    string
	OpenAIModel     string

	RequestTimeout time.Duration
	PoolWorkers    int
	PoolQueueSize  int
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: databaseURL(),

		TranscriptionProvider: getEnv("TRANSCRIPTION_PROVIDER", "whisper"),
		WhisperURL:            getEnv("WHISPER_URL", "http://localhost:9000"),
		GoogleCredentialsFile: os.Getenv("GOOGLE_CREDENTIALS_FILE"),
		LanguageCode:          getEnv("LANGUAGE_CODE", "en-US"),

		ScoringProvider: os.Getenv("SCORING_PROVIDER"),
		ScoringURL:      os.Getenv("SCORING_URL"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     os.Getenv("OPENAI_MODEL"),

		RequestTimeout: time.Duration(getEnvInt("AI_REQUEST_TIMEOUT_MS", 30000)) * time.Millisecond,
		PoolWorkers:    getEnvInt("POOL_WORKERS", 5),
		PoolQueueSize:  getEnvInt("POOL_QUEUE_SIZE", 100),
	}
}

// databaseURL returns DATABASE_URL when set, otherwise composes a DSN from
// the individual DB_* variables.
func databaseURL() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "postgres")
	password := os.Getenv("DB_PASSWORD")
	name := getEnv("DB_NAME", "ai_speaking_eval")
	sslMode := getEnv("DB_SSLMODE", "disable")
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, name, sslMode)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("Warning: %s is not a valid integer ('%s'), using default %d", key, v, fallback)
		return fallback
	}
	return n
}
