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
	Port string

	// Auth for page uploads and deletes
	APIKey string

	// Catalog
	CatalogPath     string
	SiteTitle       string
	SuggestionLimit int

	// Upload limits
	MaxUploadBytes int64
	MaxPages       int

	// Page sessions
	PageTTL         time.Duration
	CleanupInterval time.Duration

	// Search latency window
	StatsWindow time.Duration

	// CORS
	AllowedOrigins []string

	// PDF
	PDFFallbackPdftotext bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first; variables already set take precedence.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("COURSESEARCH_API_KEY"),

		CatalogPath:     envOr("CATALOG_PATH", "catalog.yaml"),
		SiteTitle:       envOr("SITE_TITLE", "Courses"),
		SuggestionLimit: envInt("SUGGESTION_LIMIT", 5),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB
		MaxPages:       envInt("MAX_PAGES", 500),

		PageTTL:         envDuration("PAGE_TTL", 1*time.Hour),
		CleanupInterval: envDuration("CLEANUP_INTERVAL", 5*time.Minute),

		StatsWindow: envDuration("STATS_WINDOW", 1*time.Hour),

		AllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:*", "http://127.0.0.1:*"}),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.SuggestionLimit <= 0 {
		cfg.SuggestionLimit = 5
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 500
	}
	if cfg.PageTTL <= 0 {
		cfg.PageTTL = 1 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("COURSESEARCH_API_KEY is required")
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric: %q", c.Port)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList splits a comma-separated value, dropping empty entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
