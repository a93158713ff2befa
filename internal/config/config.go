package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the sync pipeline. These mirror the knobs of the batch job:
// how far back to look, how much to pull per mailbox, and how aggressively
// to fan out against the Gmail API.
const (
	DefaultWindowDays    = 1
	DefaultMaxResults    = 100
	DefaultPageSize      = 500
	DefaultConcurrency   = 10
	DefaultBatchSize     = 1000
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 2 * time.Second
	DefaultPageDelay     = 500 * time.Millisecond
	DefaultTable         = "EMAIL_BODIES"
)

// Snowflake holds the warehouse connection settings.
type Snowflake struct {
	User      string
	Password  string
	Account   string
	Warehouse string
	Database  string
	Schema    string
	Table     string
}

// Google holds the service-account credentials and the mailboxes to sync.
type Google struct {
	// Credentials is either the service-account JSON document itself or a
	// path to a file containing it. CI injects the document inline via
	// GOOGLE_APPLICATION_CREDENTIALS.
	Credentials string

	// Users are the Workspace mailbox owners to impersonate, from EMAILS.
	Users []string
}

// Sync holds the pipeline tuning knobs.
type Sync struct {
	// WindowDays is how many days back the day window starts (1 = yesterday).
	WindowDays int

	// MaxResults caps how many messages are listed per mailbox.
	MaxResults int64

	// PageSize caps a single Gmail list page. The API rejects values over 500.
	PageSize int64

	// Concurrency bounds the parallel body fetches per mailbox.
	Concurrency int

	// BatchSize is the number of rows per INSERT statement.
	BatchSize int

	// RetryAttempts and RetryDelay govern per-message fetch retries.
	RetryAttempts uint
	RetryDelay    time.Duration

	// PageDelay is the pause between list pages, to stay under rate limits.
	PageDelay time.Duration

	// DryRun fetches bodies but skips the warehouse load.
	DryRun bool
}

// Config is the full configuration for a sync run.
type Config struct {
	Snowflake Snowflake
	Google    Google
	Sync      Sync
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present, matching the dotenv contract of the
// CI job this tool runs under.
func Load() (*Config, error) {
	// Missing .env is the normal case in CI; only a parse failure matters.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := &Config{
		Snowflake: Snowflake{
			User:      os.Getenv("SNOWFLAKE_USER"),
			Password:  os.Getenv("SNOWFLAKE_PASSWORD"),
			Account:   os.Getenv("SNOWFLAKE_ACCOUNT"),
			Warehouse: os.Getenv("SNOWFLAKE_WAREHOUSE"),
			Database:  os.Getenv("SNOWFLAKE_DATABASE"),
			Schema:    os.Getenv("SNOWFLAKE_SCHEMA"),
			Table:     getStringEnv("SNOWFLAKE_TABLE", DefaultTable),
		},
		Google: Google{
			Credentials: os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
			Users:       SplitEmails(os.Getenv("EMAILS")),
		},
		Sync: Sync{
			WindowDays:    getIntEnv("SYNC_WINDOW_DAYS", DefaultWindowDays),
			MaxResults:    int64(getIntEnv("SYNC_MAX_RESULTS", DefaultMaxResults)),
			PageSize:      int64(getIntEnv("SYNC_PAGE_SIZE", DefaultPageSize)),
			Concurrency:   getIntEnv("SYNC_CONCURRENCY", DefaultConcurrency),
			BatchSize:     getIntEnv("SYNC_BATCH_SIZE", DefaultBatchSize),
			RetryAttempts: uint(getIntEnv("SYNC_RETRY_ATTEMPTS", DefaultRetryAttempts)),
			RetryDelay:    getDurationEnv("SYNC_RETRY_DELAY", DefaultRetryDelay),
			PageDelay:     getDurationEnv("SYNC_PAGE_DELAY", DefaultPageDelay),
			DryRun:        getBoolEnv("SYNC_DRY_RUN", false),
		},
	}

	return cfg, nil
}

// Validate checks that all required settings are present and the tuning knobs
// are within bounds. Errors name the offending environment variable so CI
// failures are actionable.
func (c *Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"SNOWFLAKE_USER", c.Snowflake.User},
		{"SNOWFLAKE_PASSWORD", c.Snowflake.Password},
		{"SNOWFLAKE_ACCOUNT", c.Snowflake.Account},
		{"SNOWFLAKE_WAREHOUSE", c.Snowflake.Warehouse},
		{"SNOWFLAKE_DATABASE", c.Snowflake.Database},
		{"SNOWFLAKE_SCHEMA", c.Snowflake.Schema},
		{"GOOGLE_APPLICATION_CREDENTIALS", c.Google.Credentials},
	}
	for _, r := range required {
		if r.value == "" {
			return fmt.Errorf("%s environment variable is required", r.name)
		}
	}

	if len(c.Google.Users) == 0 {
		return fmt.Errorf("EMAILS environment variable must list at least one mailbox")
	}
	if c.Sync.WindowDays < 1 {
		return fmt.Errorf("sync window must be at least 1 day, got %d", c.Sync.WindowDays)
	}
	if c.Sync.MaxResults < 1 {
		return fmt.Errorf("max results must be positive, got %d", c.Sync.MaxResults)
	}
	if c.Sync.PageSize < 1 || c.Sync.PageSize > 500 {
		return fmt.Errorf("page size must be between 1 and 500, got %d", c.Sync.PageSize)
	}
	if c.Sync.Concurrency < 1 {
		return fmt.Errorf("concurrency must be positive, got %d", c.Sync.Concurrency)
	}
	if c.Sync.BatchSize < 1 {
		return fmt.Errorf("batch size must be positive, got %d", c.Sync.BatchSize)
	}

	return nil
}

// SplitEmails parses the comma-separated EMAILS value into a list of
// mailbox addresses, trimming whitespace and dropping empty entries.
func SplitEmails(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var users []string
	for _, part := range strings.Split(raw, ",") {
		if email := strings.TrimSpace(part); email != "" {
			users = append(users, email)
		}
	}
	return users
}

// getStringEnv returns the value of an environment variable or a default value.
func getStringEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv returns the integer value of an environment variable or a default value.
func getIntEnv(key string, defaultValue int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getBoolEnv returns the boolean value of an environment variable or a default value.
func getBoolEnv(key string, defaultValue bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getDurationEnv returns the duration value of an environment variable or a default value.
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
