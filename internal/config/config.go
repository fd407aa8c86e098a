package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Spam policy values for ModerationConfig.SpamPolicy
const (
	SpamPolicyFlagForReview = "flag-for-review"
	SpamPolicyAutoReject    = "auto-reject"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Moderation pipeline configuration
	Moderation ModerationConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// ModerationConfig holds comment intake and moderation policy settings
type ModerationConfig struct {
	// SpamPolicy decides what happens to spam-flagged submissions:
	// "flag-for-review" admits them as pending with warnings attached,
	// "auto-reject" persists them as rejected.
	SpamPolicy string

	// AutoApprove skips pre-moderation entirely: clean submissions are
	// persisted as approved and the post counter is updated immediately.
	AutoApprove bool

	// SpamKeywords is the denylist checked case-insensitively as substrings
	SpamKeywords []string

	// MaxURLs is the number of URL-like substrings above which a comment
	// is considered spam.
	MaxURLs int

	// RateLimitMax submissions per RateLimitWindow per author
	RateLimitMax    int
	RateLimitWindow time.Duration

	// DuplicateWindow is the lookback for the duplicate-comment check
	DuplicateWindow time.Duration
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// defaultSpamKeywords merges the denylists that accumulated across the
// platform's history into one canonical list.
var defaultSpamKeywords = []string{
	"viagra", "cialis", "lottery", "winner", "click here", "buy now",
	"limited time", "act now", "free money", "earn cash", "make money fast",
	"weight loss", "lose weight fast", "casino", "poker online",
	"cheap meds", "pharmacy", "work from home", "you've won",
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "blog_comments"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Moderation: ModerationConfig{
			SpamPolicy:      getEnv("SPAM_POLICY", SpamPolicyFlagForReview),
			AutoApprove:     getBoolEnv("MODERATION_AUTO_APPROVE", false),
			SpamKeywords:    getListEnv("SPAM_KEYWORDS", defaultSpamKeywords),
			MaxURLs:         getIntEnv("SPAM_MAX_URLS", 2),
			RateLimitMax:    getIntEnv("RATE_LIMIT_MAX", 5),
			RateLimitWindow: getDurationEnv("RATE_LIMIT_WINDOW", time.Hour),
			DuplicateWindow: getDurationEnv("DUPLICATE_WINDOW", 10*time.Minute),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.Moderation.SpamPolicy != SpamPolicyFlagForReview && c.Moderation.SpamPolicy != SpamPolicyAutoReject {
		return fmt.Errorf("SPAM_POLICY must be %q or %q", SpamPolicyFlagForReview, SpamPolicyAutoReject)
	}
	if c.Moderation.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must be positive")
	}
	if c.Moderation.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getListEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
