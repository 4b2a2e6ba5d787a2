package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// generateWorkerID creates a unique worker ID using hostname and PID
func generateWorkerID() string {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "worker"
	}
	return fmt.Sprintf("%s-%d", hostname, os.Getpid())
}

type Config struct {
	Port        string
	Environment string

	// Database
	DatabaseURL string
	RedisURL    string

	// OAuth - Google
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Gmail push
	PubSubTopic string

	// Drive
	DriveFolderName string

	// Subject marker override; empty means the built-in default
	SubjectMarker string

	// Worker
	WorkerID string

	// Consumer (Redis Stream)
	ConsumerBatchSize int
	ConsumerBlockMS   int

	// Ingestion
	IngestTimeout    time.Duration
	IngestConcurrent int

	// Webhook dedup
	DedupTTL time.Duration

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		// OAuth - Google
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		// Gmail push
		PubSubTopic: getEnv("PUBSUB_TOPIC", ""),

		// Drive
		DriveFolderName: getEnv("DRIVE_FOLDER_NAME", "einvoice"),

		SubjectMarker: getEnv("SUBJECT_MARKER", ""),

		// Worker
		WorkerID: getEnv("WORKER_ID", generateWorkerID()),

		// Consumer
		ConsumerBatchSize: getEnvInt("CONSUMER_BATCH_SIZE", 10),
		ConsumerBlockMS:   getEnvInt("CONSUMER_BLOCK_MS", 5000),

		// Ingestion
		IngestTimeout:    time.Duration(getEnvInt("INGEST_TIMEOUT_SEC", 60)) * time.Second,
		IngestConcurrent: getEnvInt("INGEST_ATTACHMENT_CONCURRENCY", 5),

		// Webhook dedup
		DedupTTL: time.Duration(getEnvInt("WEBHOOK_DEDUP_TTL_MIN", 5)) * time.Minute,

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
