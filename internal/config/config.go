// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backend selectors for document files.
const (
	StorageFS     = "fs"
	StorageWebDAV = "webdav"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StorageBackend selects where document files are kept: "fs" (default)
	// or "webdav".
	StorageBackend string

	// StorageDir is the local directory for the fs backend.
	// Defaults to "data/documents".
	StorageDir string

	// WebDAVURL is the DAV files endpoint, including the username segment
	// (e.g. https://cloud.example.com/remote.php/dav/files/hauler).
	// Required when StorageBackend is "webdav", along with the credentials.
	WebDAVURL      string
	WebDAVUsername string
	WebDAVPassword string
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first if present, so local
// development does not need exported variables.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	_ = godotenv.Load() // missing .env is fine

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		StorageBackend: getEnv("STORAGE_BACKEND", StorageFS),
		StorageDir:     getEnv("STORAGE_DIR", "data/documents"),
		WebDAVURL:      os.Getenv("WEBDAV_URL"),
		WebDAVUsername: os.Getenv("WEBDAV_USERNAME"),
		WebDAVPassword: os.Getenv("WEBDAV_PASSWORD"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	if cfg.StorageBackend != StorageFS && cfg.StorageBackend != StorageWebDAV {
		return Config{}, fmt.Errorf("invalid STORAGE_BACKEND %q: must be %q or %q", cfg.StorageBackend, StorageFS, StorageWebDAV)
	}
	if cfg.StorageBackend == StorageWebDAV {
		if cfg.WebDAVURL == "" {
			missing = append(missing, "WEBDAV_URL")
		}
		if cfg.WebDAVUsername == "" {
			missing = append(missing, "WEBDAV_USERNAME")
		}
		if cfg.WebDAVPassword == "" {
			missing = append(missing, "WEBDAV_PASSWORD")
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
