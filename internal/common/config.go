package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Storage     StorageConfig `toml:"storage"`
	Logging     LoggingConfig `toml:"logging"`
	Odoo        OdooConfig    `toml:"odoo"`
	Session     SessionConfig `toml:"session"`
}

type ServerConfig struct {
	Port int    `toml:"port" validate:"gt=0,lte=65535"`
	Host string `toml:"host" validate:"required"`
}

type StorageConfig struct {
	Badger  BadgerConfig  `toml:"badger"`
	Secrets SecretsConfig `toml:"secrets"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path" validate:"required"` // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"`         // Delete database on startup for clean test runs
}

// SecretsConfig configures the encrypted credential store
type SecretsConfig struct {
	Path          string `toml:"path" validate:"required"` // Secrets database directory path
	MasterKeyFile string `toml:"master_key_file"`          // File holding the 32-byte hex master key (falls back to ODOOGATE_MASTER_KEY)
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// OdooConfig contains settings for the remote JSON-RPC client
type OdooConfig struct {
	RequestTimeout time.Duration `toml:"request_timeout"` // Connect/read/write timeout for RPC calls
	RateLimit      int           `toml:"rate_limit"`      // Max requests per second to the server
}

// SessionConfig controls background session maintenance
type SessionConfig struct {
	RefreshEnabled  bool   `toml:"refresh_enabled"`  // Keep the active account's session alive in the background
	RefreshSchedule string `toml:"refresh_schedule"` // Cron schedule (with seconds field)
}

// NewDefaultConfig returns a configuration populated with defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8099,
			Host: "127.0.0.1",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/accounts",
			},
			Secrets: SecretsConfig{
				Path:          "./data/secrets",
				MasterKeyFile: "master.key",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Odoo: OdooConfig{
			RequestTimeout: 30 * time.Second,
			RateLimit:      5,
		},
		Session: SessionConfig{
			RefreshEnabled:  true,
			RefreshSchedule: "0 */10 * * * *", // every 10 minutes
		},
	}
}

// LoadFromFiles loads configuration with precedence: defaults -> files -> env.
// Later files override earlier ones. Missing files are an error; an empty list
// yields defaults plus environment overrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	cfg := NewDefaultConfig()

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyFlagOverrides applies command-line flag values (highest priority)
func ApplyFlagOverrides(cfg *Config, port int, host string) {
	if port != 0 {
		cfg.Server.Port = port
	}
	if host != "" {
		cfg.Server.Host = host
	}
}

// Validate checks the configuration against struct-level constraints
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ODOOGATE_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("ODOOGATE_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("ODOOGATE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ODOOGATE_BADGER_PATH"); v != "" {
		cfg.Storage.Badger.Path = v
	}
	if v := os.Getenv("ODOOGATE_SECRETS_PATH"); v != "" {
		cfg.Storage.Secrets.Path = v
	}
}
