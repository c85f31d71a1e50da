// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults.
const (
	DefaultModel          = "gemini-2.5-flash"
	DefaultTimeoutSeconds = 20
	DefaultPort           = 8080
	DefaultStorageDriver  = "file"
	DefaultStoragePath    = ".leadintel"
	DefaultSMTPPort       = 587
)

// Config represents the application configuration. It can be loaded from a
// JSON or TOML file and is then overridden by environment variables.
type Config struct {
	LLM     LLMConfig     `json:"llm" toml:"llm"`
	Storage StorageConfig `json:"storage" toml:"storage"`
	Server  ServerConfig  `json:"server" toml:"server"`
	Admin   AdminConfig   `json:"admin" toml:"admin"`
	Notify  NotifyConfig  `json:"notify" toml:"notify"`
	Verbose bool          `json:"verbose,omitempty" toml:"verbose"`
}

// LLMConfig configures the scoring model.
type LLMConfig struct {
	APIKey         string `json:"api_key,omitempty" toml:"api_key"` // Gemini API key
	Model          string `json:"model,omitempty" toml:"model"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" toml:"timeout_seconds"` // Per-call scoring timeout
}

// StorageConfig selects the lead store backend.
type StorageConfig struct {
	Driver      string `json:"driver,omitempty" toml:"driver"` // memory, file, sqlite or postgres
	Path        string `json:"path,omitempty" toml:"path"`     // Directory (file) or database file (sqlite)
	DatabaseURL string `json:"database_url,omitempty" toml:"database_url"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `json:"port,omitempty" toml:"port"`
	AllowedOrigins []string `json:"allowed_origins,omitempty" toml:"allowed_origins"`
}

// AdminConfig configures admin access. The plaintext key is only read from
// the environment and is never serialized.
type AdminConfig struct {
	AccessKeyHash      string `json:"access_key_hash,omitempty" toml:"access_key_hash"`
	AccessKey          string `json:"-" toml:"-"`
	JWTSecret          string `json:"-" toml:"-"`
	JWTExpirationHours int    `json:"jwt_expiration_hours,omitempty" toml:"jwt_expiration_hours"`
}

// NotifyConfig configures e-mail alerts for high-priority leads.
type NotifyConfig struct {
	Enabled  bool     `json:"enabled,omitempty" toml:"enabled"`
	SMTPHost string   `json:"smtp_host,omitempty" toml:"smtp_host"`
	SMTPPort int      `json:"smtp_port,omitempty" toml:"smtp_port"`
	Username string   `json:"username,omitempty" toml:"username"`
	Password string   `json:"-" toml:"-"`
	From     string   `json:"from,omitempty" toml:"from"`
	To       []string `json:"to,omitempty" toml:"to"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		LLM: LLMConfig{
			Model:          DefaultModel,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Storage: StorageConfig{
			Driver: DefaultStorageDriver,
			Path:   DefaultStoragePath,
		},
		Server: ServerConfig{
			Port:           DefaultPort,
			AllowedOrigins: []string{"*"},
		},
		Admin: AdminConfig{
			JWTExpirationHours: DefaultJWTExpirationHours,
		},
		Notify: NotifyConfig{
			SMTPPort: DefaultSMTPPort,
		},
	}
}

// LoadConfig loads configuration from a JSON or TOML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Load builds the effective configuration: the optional file at path merged
// with defaults, then environment overrides, then validation.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}

	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides configuration values with any set environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setInt := func(dst *int, key string) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %v", key, err)
		}
		*dst = n
		return nil
	}

	setString(&c.LLM.APIKey, "GEMINI_API_KEY")
	setString(&c.LLM.Model, "LEADINTEL_MODEL")
	if err := setInt(&c.LLM.TimeoutSeconds, "LEADINTEL_SCORING_TIMEOUT_SECONDS"); err != nil {
		return err
	}

	setString(&c.Storage.Driver, "LEADINTEL_STORAGE_DRIVER")
	setString(&c.Storage.Path, "LEADINTEL_STORAGE_PATH")
	setString(&c.Storage.DatabaseURL, "DATABASE_URL")

	if err := setInt(&c.Server.Port, "PORT"); err != nil {
		return err
	}
	if v := strings.TrimSpace(getenv("CORS_ALLOWED_ORIGINS")); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}

	setString(&c.Admin.AccessKeyHash, "ADMIN_ACCESS_KEY_HASH")
	setString(&c.Admin.AccessKey, "ADMIN_ACCESS_KEY")
	setString(&c.Admin.JWTSecret, "JWT_SECRET")
	if err := setInt(&c.Admin.JWTExpirationHours, "JWT_EXPIRATION_HOURS"); err != nil {
		return err
	}

	if v := strings.TrimSpace(getenv("LEADINTEL_NOTIFY_ENABLED")); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid LEADINTEL_NOTIFY_ENABLED: %v", err)
		}
		c.Notify.Enabled = enabled
	}
	setString(&c.Notify.SMTPHost, "SMTP_HOST")
	if err := setInt(&c.Notify.SMTPPort, "SMTP_PORT"); err != nil {
		return err
	}
	setString(&c.Notify.Username, "SMTP_USERNAME")
	setString(&c.Notify.Password, "SMTP_PASSWORD")
	setString(&c.Notify.From, "NOTIFY_FROM")
	if v := strings.TrimSpace(getenv("NOTIFY_TO")); v != "" {
		c.Notify.To = splitList(v)
	}

	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate checks that the configuration has valid values.
// Credentials are not required here; the commands that need them check.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory", "file", "sqlite", "postgres":
	default:
		return fmt.Errorf("config error: unknown storage driver %q", c.Storage.Driver)
	}
	if (c.Storage.Driver == "file" || c.Storage.Driver == "sqlite") && c.Storage.Path == "" {
		return fmt.Errorf("config error: storage path is required for the %s driver", c.Storage.Driver)
	}
	if c.Storage.Driver == "postgres" && c.Storage.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required for the postgres driver")
	}

	if c.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: 'timeout_seconds' must be non-negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config error: port out of range: %d", c.Server.Port)
	}
	if c.Admin.JWTExpirationHours < 0 {
		return fmt.Errorf("config error: 'jwt_expiration_hours' must be non-negative")
	}

	if c.Notify.Enabled {
		if c.Notify.SMTPHost == "" {
			return fmt.Errorf("config error: 'smtp_host' is required when notifications are enabled")
		}
		if c.Notify.From == "" || len(c.Notify.To) == 0 {
			return fmt.Errorf("config error: 'from' and 'to' are required when notifications are enabled")
		}
	}

	return nil
}

// ScoringTimeout returns the per-call scoring timeout.
func (c *Config) ScoringTimeout() time.Duration {
	if c.LLM.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds * time.Second
	}
	return time.Duration(c.LLM.TimeoutSeconds) * time.Second
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.LLM.APIKey == "" {
		result.LLM.APIKey = defaults.LLM.APIKey
	}
	if result.LLM.Model == "" {
		result.LLM.Model = defaults.LLM.Model
	}
	if result.Storage.Driver == "" {
		result.Storage.Driver = defaults.Storage.Driver
	}
	if result.Storage.Path == "" {
		result.Storage.Path = defaults.Storage.Path
	}
	if result.Storage.DatabaseURL == "" {
		result.Storage.DatabaseURL = defaults.Storage.DatabaseURL
	}
	if result.Admin.AccessKeyHash == "" {
		result.Admin.AccessKeyHash = defaults.Admin.AccessKeyHash
	}
	if result.Notify.SMTPHost == "" {
		result.Notify.SMTPHost = defaults.Notify.SMTPHost
	}
	if result.Notify.From == "" {
		result.Notify.From = defaults.Notify.From
	}

	// Int fields: use default if zero
	if result.LLM.TimeoutSeconds == 0 {
		result.LLM.TimeoutSeconds = defaults.LLM.TimeoutSeconds
	}
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}
	if result.Admin.JWTExpirationHours == 0 {
		result.Admin.JWTExpirationHours = defaults.Admin.JWTExpirationHours
	}
	if result.Notify.SMTPPort == 0 {
		result.Notify.SMTPPort = defaults.Notify.SMTPPort
	}

	// Slices
	if len(result.Server.AllowedOrigins) == 0 {
		result.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}
	if len(result.Notify.To) == 0 {
		result.Notify.To = defaults.Notify.To
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}
