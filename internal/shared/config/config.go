package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds configuration for the CLI and the contact shim.
type Config struct {
	APIBaseURL       string
	RequestTimeout   time.Duration
	CacheDir         string
	PollInterval     time.Duration
	Port             string
	CORSAllowOrigin  []string
	NotionAPIKey     string
	NotionDatabaseID string
	Env              string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	return Config{
		APIBaseURL:       getEnv("API_BASE_URL", "https://api.yconsulting.co.uk"),
		RequestTimeout:   getDurationSeconds("API_TIMEOUT_SECONDS", 10*time.Second),
		CacheDir:         getEnv("CACHE_DIR", defaultCacheDir()),
		PollInterval:     getDurationSeconds("POLL_INTERVAL_SECONDS", 5*time.Second),
		Port:             getEnv("PORT", "3001"),
		CORSAllowOrigin:  splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		NotionAPIKey:     getEnv("NOTION_API_KEY", ""),
		NotionDatabaseID: getEnv("NOTION_DATABASE_ID", ""),
		Env:              normalizeEnv(getEnv("ENV", "dev")),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getDurationSeconds(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return time.Duration(parsed) * time.Second
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".portal"
	}
	return home + string(os.PathSeparator) + ".portal"
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
