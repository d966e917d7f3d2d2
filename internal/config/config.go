package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// devJWTSecret is only ever used when APP_ENV=dev. Any other environment
// must provide JWT_SECRET explicitly or Load fails.
const devJWTSecret = "your-secret-key"

type Config struct {
	Env            string
	Port           int
	TodoFile       string
	DBURL          string
	JWTSecret      string
	JWTTTL         time.Duration
	AllowedOrigins []string
	OTLPEndpoint   string
}

func Load() (Config, error) {
	env := getEnv("APP_ENV", "dev")

	secret := os.Getenv("JWT_SECRET")

	if secret == "" {
		if env != "dev" {
			return Config{}, errors.New("JWT_SECRET must be set outside dev")
		}
		secret = devJWTSecret
	}

	cfg := Config{
		Env:            env,
		Port:           getEnvInt("PORT", 8080),
		TodoFile:       getEnv("TODO_FILE", "data/todos.json"),
		DBURL:          os.Getenv("DATABASE_URL"),
		JWTSecret:      secret,
		JWTTTL:         time.Duration(getEnvInt("JWT_TTL_HOURS", 24)) * time.Hour,
		AllowedOrigins: splitOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		OTLPEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	return cfg, nil
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}

	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}
