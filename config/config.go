package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the Oracle needs at startup. It is built once in
// main and never mutated afterwards, so it is safe to share across requests.
type Config struct {
	// Gemini
	GeminiAPIKey string
	GeminiModel  string

	// Fact table (SQLite)
	DBPath        string
	FactTable     string
	MaxSQLRetries int

	// Rules corpus (ChromaDB + Ollama embeddings)
	ChromaURL      string
	CollectionName string
	OllamaURL      string
	EmbedModel     string
	TopKPassages   int
	RulesDir       string

	// External call behavior
	LLMTimeout   time.Duration
	RetryBackoff time.Duration

	// HTTP
	Port string
}

// Load reads configuration from the environment, with a .env file as an
// optional source for local development.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}

	cfg := &Config{
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    envOrDefault("GEMINI_MODEL", "gemini-2.5-flash"),
		DBPath:         envOrDefault("ORACLE_DB_PATH", "data/monsters.db"),
		FactTable:      envOrDefault("ORACLE_FACT_TABLE", "monsters"),
		MaxSQLRetries:  envIntOrDefault("ORACLE_SQL_RETRIES", 2),
		ChromaURL:      envOrDefault("CHROMA_URL", "http://localhost:8000"),
		CollectionName: envOrDefault("CHROMA_COLLECTION", "dnd-rules"),
		OllamaURL:      envOrDefault("OLLAMA_URL", "http://localhost:11434"),
		EmbedModel:     envOrDefault("OLLAMA_EMBED_MODEL", "nomic-embed-text:v1.5"),
		TopKPassages:   envIntOrDefault("ORACLE_TOP_K", 3),
		RulesDir:       os.Getenv("ORACLE_RULES_DIR"),
		LLMTimeout:     envDurationOrDefault("ORACLE_LLM_TIMEOUT", 30*time.Second),
		RetryBackoff:   envDurationOrDefault("ORACLE_RETRY_BACKOFF", 250*time.Millisecond),
		Port:           envOrDefault("PORT", "8080"),
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	if cfg.MaxSQLRetries < 0 {
		return nil, fmt.Errorf("ORACLE_SQL_RETRIES must not be negative")
	}
	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: invalid value %q for %s, using default %d", v, key, fallback)
		return fallback
	}
	return n
}

func envDurationOrDefault(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: invalid value %q for %s, using default %s", v, key, fallback)
		return fallback
	}
	return d
}
