package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix for environment overrides (INDOTRIP_PORT, ...).
const EnvPrefix = "INDOTRIP"

// Config holds application configuration.
type Config struct {
	// DefaultDays is the day budget used when a trip is created without one.
	DefaultDays int `json:"default_days" envconfig:"DEFAULT_DAYS"`

	// MaxDays is the upper bound accepted for trip and generation day counts.
	MaxDays int `json:"max_days" envconfig:"MAX_DAYS"`

	// SaveDebounceMs is the delay used to coalesce persistence writes.
	SaveDebounceMs int `json:"save_debounce_ms" envconfig:"SAVE_DEBOUNCE_MS"`

	// KeepaliveSeconds is the interval between SSE ping events.
	KeepaliveSeconds int `json:"keepalive_seconds" envconfig:"KEEPALIVE_SECONDS"`

	// SubscriberBuffer is the number of pending snapshots held per live subscriber.
	SubscriberBuffer int `json:"subscriber_buffer" envconfig:"SUBSCRIBER_BUFFER"`

	// Bind and Port select the HTTP listen address for "indotrip serve".
	Bind string `json:"bind" envconfig:"BIND"`
	Port int    `json:"port" envconfig:"PORT"`

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `json:"log_level" envconfig:"LOG_LEVEL"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty" envconfig:"DB_MAX_OPEN_CONNS"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty" envconfig:"DB_MAX_IDLE_CONNS"`

	// AllowedPaths is an allowlist of directories itinerary exports may be written to,
	// in addition to <baseDir>/exports. Relative paths are ignored.
	AllowedPaths []string `json:"allowed_paths,omitempty" envconfig:"ALLOWED_PATHS"`

	// AllowUnsafePaths disables directory restrictions for exports.
	// Symlink checks still apply.
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty" envconfig:"ALLOW_UNSAFE_PATHS"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty" envconfig:"DISABLED_TOOLS"`

	// CORSOrigins lists origins allowed to call the HTTP API. Empty means same-origin only.
	CORSOrigins []string `json:"cors_origins,omitempty" envconfig:"CORS_ORIGINS"`

	// ExportsDir is where itinerary exports go by default. Set by Resolve, not by files.
	ExportsDir string `json:"-" ignored:"true"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultDays:      14,
		MaxDays:          30,
		SaveDebounceMs:   120,
		KeepaliveSeconds: 25,
		SubscriberBuffer: 8,
		Bind:             "127.0.0.1",
		Port:             3000,
		LogLevel:         "info",
	}
}

// SaveDebounce returns SaveDebounceMs as a duration.
func (c *Config) SaveDebounce() time.Duration {
	return time.Duration(c.SaveDebounceMs) * time.Millisecond
}

// KeepAlive returns KeepaliveSeconds as a duration.
func (c *Config) KeepAlive() time.Duration {
	return time.Duration(c.KeepaliveSeconds) * time.Second
}

// BaseDir returns the data directory: $INDOTRIP_HOME, else ~/.indotrip.
func BaseDir() (string, error) {
	if dir := strings.TrimSpace(os.Getenv(EnvPrefix + "_HOME")); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(homeDir, ".indotrip"), nil
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.indotrip.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFile(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	cfg.ExportsDir = filepath.Join(baseDir, "exports")
	return cfg, nil
}

// Resolve loads defaults, then baseDir/config.json, then INDOTRIP_* environment
// variables. A .env file in the working directory is read first if present.
func Resolve(baseDir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg, err := Load(baseDir)
	if err != nil {
		return nil, err
	}

	env, err := FromEnv()
	if err != nil {
		return nil, err
	}

	merged := Merge(cfg, env)
	merged.ExportsDir = cfg.ExportsDir
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// FromEnv parses INDOTRIP_* variables into a zero-based Config suitable for Merge.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return cfg, nil
}

// Validate rejects configurations the rest of the system cannot honour.
func (c *Config) Validate() error {
	if c.MaxDays < 1 {
		return fmt.Errorf("max_days must be at least 1, got %d", c.MaxDays)
	}
	if c.DefaultDays < 1 || c.DefaultDays > c.MaxDays {
		return fmt.Errorf("default_days must be within 1..%d, got %d", c.MaxDays, c.DefaultDays)
	}
	if c.SubscriberBuffer < 1 {
		return fmt.Errorf("subscriber_buffer must be at least 1, got %d", c.SubscriberBuffer)
	}
	return nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{
		DefaultDays:      firstNonZero(overlay.DefaultDays, base.DefaultDays),
		MaxDays:          firstNonZero(overlay.MaxDays, base.MaxDays),
		SaveDebounceMs:   firstNonZero(overlay.SaveDebounceMs, base.SaveDebounceMs),
		KeepaliveSeconds: firstNonZero(overlay.KeepaliveSeconds, base.KeepaliveSeconds),
		SubscriberBuffer: firstNonZero(overlay.SubscriberBuffer, base.SubscriberBuffer),
		Port:             firstNonZero(overlay.Port, base.Port),
		DBMaxOpenConns:   firstNonZero(overlay.DBMaxOpenConns, base.DBMaxOpenConns),
		DBMaxIdleConns:   firstNonZero(overlay.DBMaxIdleConns, base.DBMaxIdleConns),
		ExportsDir:       base.ExportsDir,
	}

	result.Bind = strings.TrimSpace(overlay.Bind)
	if result.Bind == "" {
		result.Bind = base.Bind
	}
	result.LogLevel = strings.TrimSpace(overlay.LogLevel)
	if result.LogLevel == "" {
		result.LogLevel = base.LogLevel
	}

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.CORSOrigins = mergeStringSlice(base.CORSOrigins, overlay.CORSOrigins)

	return result
}

func firstNonZero(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
