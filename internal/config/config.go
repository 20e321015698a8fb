package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	Environment string
	InstanceID  string

	// Database
	DatabaseURL    string
	MigrateOnStart bool

	// Redis
	RedisURL string

	// Server
	Port        string
	FrontendURL string

	// Boards
	BoardStore             string
	BoardIdleMinutes       int
	BoardExpiryPollSeconds int
	PitchWidth             int
	PitchHeight            int

	// Chat assistant (Gemini)
	GeminiAPIKey         string
	GeminiModel          string
	GeminiBaseURL        string
	ChatRateLimitSeconds int

	// Share links
	ShareSecret     string
	ShareTTLMinutes int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	host, _ := os.Hostname()

	return &Config{
		// Environment
		Environment: getEnv("APP_ENV", "development"),
		InstanceID:  getEnv("INSTANCE_ID", host),

		// Database
		DatabaseURL:    getEnv("DATABASE_URL", "postgres://localhost:5432/tactics?sslmode=disable"),
		MigrateOnStart: getEnvBool("MIGRATE_ON_START", false),

		// Redis
		RedisURL: getEnv("REDIS_URL", ""),

		// Server
		Port:        getEnv("APP_PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		// Boards
		BoardStore:             getEnv("BOARD_STORE", "memory"),
		BoardIdleMinutes:       getEnvInt("BOARD_IDLE_MINUTES", 60),
		BoardExpiryPollSeconds: getEnvInt("BOARD_EXPIRY_POLL_SECONDS", 60),
		PitchWidth:             getEnvInt("PITCH_WIDTH", 500),
		PitchHeight:            getEnvInt("PITCH_HEIGHT", 500),

		// Chat
		GeminiAPIKey:         getEnv("GEMINI_API_KEY", ""),
		GeminiModel:          getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiBaseURL:        getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		ChatRateLimitSeconds: getEnvInt("CHAT_RATE_LIMIT_SECONDS", 2),

		// Share links
		ShareSecret:     getEnv("SHARE_SECRET", "change-me-in-production"),
		ShareTTLMinutes: getEnvInt("SHARE_TTL_MINUTES", 7*24*60),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
