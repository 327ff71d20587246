package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
	Research ResearchConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	GoogleGemini string
	Cohere       string
	HuggingFace  string
}

type AIConfig struct {
	EmbeddingProvider string // "fastembed", "gemini" or "ollama"
	FastEmbedBaseURL  string
	OllamaBaseURL     string
	OllamaModel       string
	LLMProvider       string // "ollama", "cohere", "huggingface"
	LLMModel          string // e.g. "llama3", "command-r-08-2024"
	RerankerBaseURL   string
	RerankerModel     string
}

type ResearchConfig struct {
	TopK         int
	CacheTTL     time.Duration
	HistoryTopic string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Cohere:       getEnv("COHERE_API_KEY", ""),
			HuggingFace:  getEnv("HUGGINGFACE_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "fastembed"),
			FastEmbedBaseURL:  getEnv("FASTEMBED_BASE_URL", "http://localhost:8900"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "nomic-embed-text"),
			LLMProvider:       getEnv("LLM_PROVIDER", "ollama"),
			LLMModel:          getEnv("LLM_MODEL", "llama3"),
			RerankerBaseURL:   getEnv("RERANKER_BASE_URL", "http://localhost:8901"),
			RerankerModel:     getEnv("RERANKER_MODEL", "Xenova/ms-marco-MiniLM-L-6-v2"),
		},
		Research: ResearchConfig{
			TopK:         getEnvAsInt("RESEARCH_TOP_K", 5),
			CacheTTL:     time.Duration(getEnvAsInt("RESULT_CACHE_TTL_SECONDS", 3600)) * time.Second,
			HistoryTopic: getEnv("RESEARCH_HISTORY_TOPIC_NAME", "RESEARCH_COMPLETED"),
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
