package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string

	// Telegram application credentials, from https://my.telegram.org.
	APIID   int
	APIHash string

	JWTSecret string
	JWTIssuer string
	JWTExpiry time.Duration

	DatabaseURL string

	UploadPath   string
	DownloadPath string

	RateLimitWindow time.Duration
	RateLimitMax    int

	AllowedOrigins []string
}

// Load reads configuration from the environment, with .env as a convenience
// for local runs.
func Load() (*Config, error) {
	_ = godotenv.Load()

	apiID, err := strconv.Atoi(os.Getenv("API_ID"))
	if err != nil {
		return nil, fmt.Errorf("API_ID is required and must be numeric")
	}
	apiHash := os.Getenv("API_HASH")
	if apiHash == "" {
		return nil, fmt.Errorf("API_HASH is required")
	}
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Config{
		HTTPAddr:        envOr("HTTP_ADDR", ":3000"),
		APIID:           apiID,
		APIHash:         apiHash,
		JWTSecret:       jwtSecret,
		JWTIssuer:       envOr("JWT_ISSUER", "tgbridge"),
		JWTExpiry:       envDuration("JWT_EXPIRES_IN", 24*time.Hour),
		DatabaseURL:     databaseURL,
		UploadPath:      envOr("UPLOAD_PATH", "./uploads"),
		DownloadPath:    envOr("DOWNLOAD_PATH", "./downloads"),
		RateLimitWindow: time.Duration(envInt("RATE_LIMIT_WINDOW", 15)) * time.Minute,
		RateLimitMax:    envInt("RATE_LIMIT_MAX_REQUESTS", 100),
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, origin := range strings.Split(origins, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
