package config

import (
	"fmt"
	"math"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cesargomez89/watchlist/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port             string
	DBPath           string
	TMDBAPIKey       string
	TMDBBaseURL      string
	TMDBImageBaseURL string
	LogLevel         string
	LogFormat        string
	LogFile          string
	TMDBTimeout      time.Duration
	TMDBRateLimit    float64
	LogMaxSizeMB     int
}

// Load loads configuration from environment variables with defaults.
// A .env file in the working directory is read first when present; variables
// already set in the environment take precedence over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:             getEnv("PORT", constants.DefaultPort),
		DBPath:           getEnv("DB_PATH", constants.DefaultDBPath),
		TMDBAPIKey:       getEnv("TMDB_API_KEY", ""),
		TMDBBaseURL:      strings.TrimSuffix(getEnv("TMDB_BASE_URL", constants.DefaultTMDBBaseURL), "/"),
		TMDBImageBaseURL: getEnv("TMDB_IMAGE_BASE_URL", constants.DefaultTMDBImageBaseURL),
		TMDBTimeout:      getEnvDuration("TMDB_TIMEOUT", constants.DefaultTMDBTimeout),
		TMDBRateLimit:    getEnvFloat("TMDB_RATE_LIMIT", constants.DefaultTMDBRateLimit),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		LogFile:          getEnv("LOG_FILE", ""),
		LogMaxSizeMB:     getEnvInt("LOG_MAX_SIZE_MB", constants.DefaultLogMaxSizeMB),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	// Validate Port
	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.TMDBAPIKey == "" {
		errors = append(errors, "TMDB_API_KEY cannot be empty")
	}

	if c.TMDBBaseURL == "" {
		errors = append(errors, "TMDB_BASE_URL cannot be empty")
	} else if u, err := url.Parse(c.TMDBBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, fmt.Sprintf("TMDB_BASE_URL is not a valid URL: %s", c.TMDBBaseURL))
	}

	if c.TMDBImageBaseURL == "" {
		errors = append(errors, "TMDB_IMAGE_BASE_URL cannot be empty")
	} else if _, err := url.ParseRequestURI(c.TMDBImageBaseURL); err != nil {
		errors = append(errors, fmt.Sprintf("TMDB_IMAGE_BASE_URL is not a valid URL: %s", c.TMDBImageBaseURL))
	}

	if c.TMDBTimeout <= 0 {
		errors = append(errors, "TMDB_TIMEOUT must be a positive duration")
	}

	// A non-positive TMDB_RATE_LIMIT turns request spacing off.
	if math.IsNaN(c.TMDBRateLimit) {
		errors = append(errors, "TMDB_RATE_LIMIT must be a number")
	}

	// Validate LogLevel
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	// Validate LogFormat
	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if c.LogFile != "" && c.LogMaxSizeMB < 1 {
		errors = append(errors, fmt.Sprintf("LOG_MAX_SIZE_MB must be at least 1, got: %d", c.LogMaxSizeMB))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getEnvDuration parses values like "10s"; a bare number is read as seconds.
// Unparsable values yield zero so Validate reports them.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return 0
}

func getEnvFloat(key string, fallback float64) float64 {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}
