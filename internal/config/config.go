// Package config provides configuration loading for the server and CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds server configuration, read from environment variables.
// godotenv loads a .env file into the environment before this runs.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr string
	// DatabaseURL is the PostgreSQL connection URL.
	DatabaseURL string
	// UploadsDir is the base directory for stored profile images.
	UploadsDir string
	// AllowedOrigin is the single origin allowed by CORS. The web editor
	// sends credentials, so a wildcard is never used.
	AllowedOrigin string
	// ChromePath overrides the Chrome binary used for exports.
	ChromePath string
	// ExportTimeout bounds a single PDF or image export.
	ExportTimeout time.Duration
	// MaxUploadBytes caps profile-image uploads.
	MaxUploadBytes int64
}

// Load reads server configuration from the environment, applying defaults
// for everything except the database URL.
func Load() (*Config, error) {
	cfg := &Config{
		Addr:           getEnv("ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		UploadsDir:     getEnv("UPLOADS_DIR", "uploads"),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "http://localhost:5173"),
		ChromePath:     os.Getenv("CHROME_PATH"),
		ExportTimeout:  60 * time.Second,
		MaxUploadBytes: 5 << 20,
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}

	if v := os.Getenv("EXPORT_TIMEOUT_SECONDS"); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds < 1 {
			return nil, fmt.Errorf("invalid EXPORT_TIMEOUT_SECONDS: %q", v)
		}
		cfg.ExportTimeout = time.Duration(seconds) * time.Second
	}

	if v := os.Getenv("MAX_UPLOAD_MB"); v != "" {
		mb, err := strconv.Atoi(v)
		if err != nil || mb < 1 {
			return nil, fmt.Errorf("invalid MAX_UPLOAD_MB: %q", v)
		}
		cfg.MaxUploadBytes = int64(mb) << 20
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
