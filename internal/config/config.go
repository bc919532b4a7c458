package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string
	FrontendURL    string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	CloudinaryFolder string

	JWTSecret string
	JWTTTL    time.Duration

	ResetTokenTTL time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPUseTLS   bool

	RateLimitLogin time.Duration
	RateLimitApply time.Duration
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "5050"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:5173"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:5173"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    getEnv("REDIS_URL", "redis://localhost:6379/0"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		CloudinaryFolder: getEnv("CLOUDINARY_UPLOAD_FOLDER", "eonestep"),

		JWTSecret: getEnv("JWT_SECRET", "your-secret-key"),

		SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPUsername: os.Getenv("MAIL_USER"),
		SMTPPassword: os.Getenv("MAIL_PASS"),
		SMTPFrom:     getEnv("MAIL_FROM", "Computer Institute <no-reply@eonestep.com>"),
	}

	var err error
	if cfg.JWTTTL, err = parseDuration(getEnv("JWT_TTL", "2h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.ResetTokenTTL, err = parseDuration(getEnv("RESET_TOKEN_TTL", "20m")); err != nil {
		return nil, fmt.Errorf("invalid RESET_TOKEN_TTL: %w", err)
	}
	if cfg.RateLimitLogin, err = parseDuration(getEnv("RATE_LIMIT_LOGIN", "5s")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_LOGIN: %w", err)
	}
	if cfg.RateLimitApply, err = parseDuration(getEnv("RATE_LIMIT_APPLY", "1m")); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_APPLY: %w", err)
	}

	if cfg.SMTPPort, err = strconv.Atoi(getEnv("SMTP_PORT", "587")); err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	cfg.SMTPUseTLS = getEnv("SMTP_USE_TLS", "true") == "true"

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(s string) (time.Duration, error) {
	return time.ParseDuration(s)
}
