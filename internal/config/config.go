package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Keys     APIKeys
	Ai       AIConfig
	Chunking ChunkingConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	IngestTopic        string
}

type DatabaseConfig struct {
	Connection string
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type APIKeys struct {
	Mistral   string
	JWTSecret string
}

type AIConfig struct {
	OCRModel          string
	EmbeddingProvider string // "mistral" or "ollama"
	EmbeddingModel    string
	EmbeddingDim      int // fixed for the lifetime of the chunk index
	OllamaBaseURL     string
	LLMProvider       string // "mistral" or "ollama"
	LLMModel          string
	MaxTokens         int
}

type ChunkingConfig struct {
	Size         int
	Overlap      int
	EmbedWorkers int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3001"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3001"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			IngestTopic:        getEnv("INGEST_DOCUMENT_TOPIC_NAME", "INGEST_DOCUMENT"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Storage: StorageConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", "pdf-rag"),
			UseSSL:    getEnvAsBool("MINIO_USE_SSL", false),
		},
		Keys: APIKeys{
			Mistral:   getEnv("MISTRAL_API_KEY", ""),
			JWTSecret: getEnv("JWT_SECRET", ""),
		},
		Ai: AIConfig{
			OCRModel:          getEnv("OCR_MODEL", "mistral-ocr-latest"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "mistral"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "mistral-embed"),
			EmbeddingDim:      getEnvAsInt("EMBEDDING_DIM", 1024),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			LLMProvider:       getEnv("LLM_PROVIDER", "mistral"),
			LLMModel:          getEnv("LLM_MODEL", "mistral-medium"),
			MaxTokens:         getEnvAsInt("LLM_MAX_TOKENS", 500),
		},
		Chunking: ChunkingConfig{
			Size:         getEnvAsInt("CHUNK_SIZE", 1000),
			Overlap:      getEnvAsInt("CHUNK_OVERLAP", 200),
			EmbedWorkers: getEnvAsInt("EMBED_WORKERS", 4),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
