package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	HTTPAddr    string
	DBDSN       string
	JWTSecret   string

	MigrationsPath string
	UploadDir      string

	OpenAIBaseURL string
	OpenAIAPIKey  string
	OpenAIModel   string
	AITimeout     time.Duration
	AIDailyLimit  int64 // per-user requests per day, 0 disables the cap

	RedisAddr     string
	TelegramToken string

	WorkerInterval time.Duration
	TaskVisibility time.Duration // running tasks older than this are requeued
}

func Load() (*Config, error) {
	// Load .env if present; real deployments use plain environment variables.
	if err := godotenv.Load(".env"); err == nil {
		log.Println("loaded configuration from .env file")
	}

	cfg := &Config{
		Environment:    getenv("ENV", "development"),
		HTTPAddr:       getenv("HTTP_ADDR", ":8080"),
		DBDSN:          os.Getenv("DB_DSN"),
		JWTSecret:      getenv("JWT_SECRET", "dev-secret"),
		MigrationsPath: getenv("MIGRATIONS_PATH", "migrations"),
		UploadDir:      getenv("UPLOAD_DIR", "uploads"),
		OpenAIBaseURL:  getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    getenv("OPENAI_MODEL", "gpt-4.1-nano"),
		AITimeout:      getenvDuration("AI_TIMEOUT", 60*time.Second),
		AIDailyLimit:   getenvInt64("AI_DAILY_LIMIT", 50),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		WorkerInterval: getenvDuration("WORKER_INTERVAL", 2*time.Second),
		TaskVisibility: getenvDuration("TASK_VISIBILITY", 10*time.Minute),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
