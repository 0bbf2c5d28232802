package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env        string
	Port       int
	DBURL      string
	BcryptCost int
	UploadDir  string
	// CORSAllowedOrigins empty (or containing "*") means unrestricted.
	CORSAllowedOrigins []string
	MaxUploadBytes     int64
	CacheTTL           time.Duration
	OtelEndpoint       string
}

func Load() Config {
	// .env is optional, real deployments set the environment directly
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "dev")
	port := getEnvInt("PORT", 8080)
	cost := getEnvInt("BCRYPT_COST", 10)
	uploadDir := getEnv("UPLOAD_DIR", "uploads")
	origins := splitOrigins(getEnv("CORS_ALLOWED_ORIGINS", ""))
	maxUpload := int64(getEnvInt("MAX_UPLOAD_BYTES", 8<<20))
	cacheTTL := time.Duration(getEnvInt("CACHE_TTL_MS", 5000)) * time.Millisecond

	return Config{
		Env:                env,
		Port:               port,
		DBURL:              buildDBURL(),
		BcryptCost:         cost,
		UploadDir:          uploadDir,
		CORSAllowedOrigins: origins,
		MaxUploadBytes:     maxUpload,
		CacheTTL:           cacheTTL,
		OtelEndpoint:       getEnv("OTEL_ENDPOINT", ""),
	}
}

// buildDBURL assembles the postgres URL from the DB_* variables. When
// DB_HOST is unset the server runs on the in-memory store instead.
func buildDBURL() string {
	host := getEnv("DB_HOST", "")

	if host == "" {
		return ""
	}

	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "safepoint")
	pass := getEnv("DB_PASSWORD", "safepoint")
	name := getEnv("DB_NAME", "safepoint")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func splitOrigins(raw string) []string {
	if raw == "" {
		return nil
	}

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

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
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
			fmt.Println(err)
			return fallback
		}

		return num
	}
	return fallback
}
