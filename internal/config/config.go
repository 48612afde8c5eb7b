package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Gemini AI
	GeminiAPIKey       string
	GeminiModel        string
	PlannerMaxTokens   int
	AssistantMaxTokens int

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:        getEnvOrDefault("PORT", "8080"),
		Env:         getEnvOrDefault("ENV", "development"),
		DatabaseURL: mustGetEnv("DATABASE_URL"),
		RedisURL:    mustGetEnv("REDIS_URL"),
		JWTSecret:   mustGetEnv("JWT_SECRET"),

		GeminiAPIKey:       mustGetEnv("GEMINI_API_KEY"),
		GeminiModel:        getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		PlannerMaxTokens:   getEnvAsIntOrDefault("GEMINI_PLANNER_MAX_TOKENS", 8192),
		AssistantMaxTokens: getEnvAsIntOrDefault("GEMINI_CHAT_MAX_TOKENS", 1024),

		FrontendURL: getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
