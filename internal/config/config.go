package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Clinic identity and scheduling window
	ClinicName     string
	ClinicTimezone string
	OpenHour       int
	CloseHour      int

	// Google Calendar
	CalendarID      string
	CredentialsFile string
	CalendarTimeout time.Duration

	// Conversation session storage
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool
	SessionTTL    time.Duration

	// Optional booking audit log
	DatabaseURL string

	// Knowledge base
	GeminiAPIKey   string
	EmbeddingModel string
	KnowledgeFile  string

	// Voice assistant webhook
	AssistantID string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		ClinicName:     getEnv("CLINIC_NAME", "Cabinet Dentaire Avenir"),
		ClinicTimezone: getEnv("CLINIC_TIMEZONE", "Europe/Paris"),
		OpenHour:       getEnvAsInt("CLINIC_OPEN_HOUR", 9),
		CloseHour:      getEnvAsInt("CLINIC_CLOSE_HOUR", 17),

		CalendarID:      getEnv("GOOGLE_CALENDAR_ID", ""),
		CredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", "credentials.json"),
		CalendarTimeout: getEnvAsDuration("CALENDAR_TIMEOUT", 10*time.Second),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),
		SessionTTL:    getEnvAsDuration("SESSION_TTL", 24*time.Hour),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		EmbeddingModel: getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		KnowledgeFile:  getEnv("KNOWLEDGE_FILE", "info.md"),

		AssistantID: getEnv("ASSISTANT_ID", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
