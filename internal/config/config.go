package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Keys        APIKeys
	Ai          AIConfig
	RateLimit   RateLimitConfig
	Persistence PersistenceConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	ProxyHeader        string   // e.g. X-Real-Ip; empty uses the socket address as caller identity
	TrustedProxies     []string // IPs or CIDRs allowed to set ProxyHeader
	NatsURL            string // empty disables rejection audit events
	RedisURL           string // empty keeps rate-limit counters in memory
	OtelEnabled        bool
}

type DatabaseConfig struct {
	Connection  string
	AutoMigrate bool
}

type APIKeys struct {
	GoogleGemini string
}

type AIConfig struct {
	LLMProvider     string // "gemini" or "ollama"
	LLMModel        string
	GeminiBaseURL   string
	OllamaBaseURL   string
	Timeout         time.Duration
	Temperature     float64
	TopK            int
	TopP            float64
	MaxOutputTokens int
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type PersistenceConfig struct {
	Topic        string
	WriteTimeout time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			ProxyHeader:        getEnv("PROXY_HEADER", ""),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", nil),
			NatsURL:            getEnv("NATS_URL", ""),
			RedisURL:           getEnv("REDIS_URL", ""),
			OtelEnabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Database: DatabaseConfig{
			Connection:  getEnv("DB_CONNECTION_STRING", "sqlite://./mental_health.db"),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
		},
		Ai: AIConfig{
			LLMProvider:     getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:        getEnv("LLM_MODEL", "gemini-2.5-flash"),
			GeminiBaseURL:   getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			OllamaBaseURL:   getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Timeout:         getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
			Temperature:     getEnvAsFloat("LLM_TEMPERATURE", 0.7),
			TopK:            getEnvAsInt("LLM_TOP_K", 40),
			TopP:            getEnvAsFloat("LLM_TOP_P", 0.95),
			MaxOutputTokens: getEnvAsInt("LLM_MAX_OUTPUT_TOKENS", 1024),
		},
		RateLimit: RateLimitConfig{
			Max:    getEnvAsInt("RATE_LIMIT_MAX", 10),
			Window: getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Persistence: PersistenceConfig{
			Topic:        getEnv("PERSIST_TOPIC", "QUERY_RECORD_PERSIST"),
			WriteTimeout: getEnvAsDuration("PERSIST_WRITE_TIMEOUT", 5*time.Second),
		},
	}
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	for _, origin := range strings.Split(c.App.CorsAllowedOrigins, ",") {
		if strings.TrimSpace(origin) == "*" {
			return errors.New("CORS_ALLOWED_ORIGINS must list explicit origins: \"*\" cannot be combined with credentialed requests")
		}
	}
	if c.App.ProxyHeader != "" && len(c.App.TrustedProxies) == 0 {
		return errors.New("PROXY_HEADER is set but TRUSTED_PROXIES is empty: the header would never be honored")
	}
	return nil
}

// getEnv treats an empty variable as unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
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

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
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

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsSlice(key string, fallback []string) []string {
	var values []string
	for _, part := range strings.Split(getEnv(key, ""), ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}
