package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	LogLevel  slog.Level
	LogFormat string

	DBPath         string
	UploadDir      string
	MaxUploadBytes int64

	QdrantURL              string
	QdrantCollectionPrefix string
	QdrantVectorSize       int

	EmbeddingBaseURL   string
	EmbeddingModelName string
	LLMBaseURL         string
	LLMModelName       string
	LLMAPIKey          string

	RecursiveChunkSize    int
	RecursiveChunkOverlap int
	SemanticChunkSize     int
	SemanticChunkOverlap  int
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

	// Try to find project root by looking for go.mod
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	logLevel, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		APIPort:                getEnv("API_PORT", "8000"),
		LogLevel:               logLevel,
		LogFormat:              getEnv("LOG_FORMAT", "text"),
		DBPath:                 getEnv("DB_PATH", "./data/chunklab.db"),
		UploadDir:              getEnv("UPLOAD_DIR", "./uploads"),
		QdrantURL:              getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollectionPrefix: getEnv("QDRANT_COLLECTION_PREFIX", ""),
		EmbeddingBaseURL:       getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName:     getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		LLMBaseURL:             getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:           getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:              getEnv("LLM_API_KEY", "dummy-key"),
	}

	cfg.MaxUploadBytes, err = getEnvInt64("MAX_UPLOAD_BYTES", 16<<20)
	if err != nil {
		return nil, err
	}
	cfg.RecursiveChunkSize, err = getEnvInt("RECURSIVE_CHUNK_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	cfg.RecursiveChunkOverlap, err = getEnvInt("RECURSIVE_CHUNK_OVERLAP", 200)
	if err != nil {
		return nil, err
	}
	cfg.SemanticChunkSize, err = getEnvInt("SEMANTIC_CHUNK_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	cfg.SemanticChunkOverlap, err = getEnvInt("SEMANTIC_CHUNK_OVERLAP", 200)
	if err != nil {
		return nil, err
	}

	// Parse QDRANT_VECTOR_SIZE
	// Note: This must match the output vector size of the embeddings model.
	// Verify the actual output size by testing the model and update QDRANT_VECTOR_SIZE
	// in your .env file accordingly. If the vector size changes, existing Qdrant
	// collections must be recreated.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	// Create the data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value.
// Range checks are left to the components that consume the value.
func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return parsed, nil
}

// getEnvInt64 gets a 64-bit integer environment variable or returns a default value.
func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return parsed, nil
}

// parseLogLevel maps a LOG_LEVEL string to a slog.Level.
func parseLogLevel(value string) (slog.Level, error) {
	switch strings.ToLower(value) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid LOG_LEVEL %q (expected debug, info, warn, or error)", value)
}
