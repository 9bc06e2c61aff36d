package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/florianilch/taskdesk/internal/authhttp"
	"github.com/florianilch/taskdesk/internal/tokenstore"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// LogExporter selects where log records are exported besides stderr.
type LogExporter string

const (
	LogExporterNone     LogExporter = "none"
	LogExporterStdout   LogExporter = "stdout"
	LogExporterOTLPHTTP LogExporter = "otlphttp"
	LogExporterOTLPGRPC LogExporter = "otlpgrpc"
)

// TokenStorageType represents the different storage types supported for session tokens.
type TokenStorageType string

const (
	TokenStorageTypeFile    TokenStorageType = "file"
	TokenStorageTypeEnv     TokenStorageType = "env"
	TokenStorageTypeKeyring TokenStorageType = "keyring"
)

// KeyringService is the service name under which tokens are kept in the OS keyring.
const KeyringService = "taskdesk"

// Default configuration values
const (
	DefaultConfigLogFormat     = LogFormatText
	DefaultConfigLogExporter   = LogExporterNone
	DefaultConfigAPIBaseURL    = "http://127.0.0.1:8000/api"
	DefaultConfigAuthStorage   = TokenStorageTypeFile
	DefaultConfigAuthRenewal   = authhttp.RenewalCoalesced
	DefaultConfigEnvAccessKey  = "TASKDESK_ACCESS_TOKEN"
	DefaultConfigEnvRefreshKey = "TASKDESK_REFRESH_TOKEN"
)

// APIConfig holds backend API configuration.
type APIConfig struct {
	BaseURL string `json:"base_url" validate:"required,url"`
	// Timeout per HTTP call, renewal and replay included. Zero means none.
	Timeout time.Duration `json:"timeout" validate:"gte=0"`
}

// AuthConfig describes where session tokens live and how they are renewed.
type AuthConfig struct {
	Storage TokenStorageType `json:"storage" validate:"required,oneof=file env keyring"`

	// Storage-specific settings (used depending on Storage type)
	File          string `json:"file,omitempty"`            // For file storage: path to token file
	KeyringUser   string `json:"keyring_user,omitempty"`    // For keyring storage: user identifier
	EnvAccessKey  string `json:"env_access_key,omitempty"`  // For env storage: variable seeding the access token
	EnvRefreshKey string `json:"env_refresh_key,omitempty"` // For env storage: variable seeding the refresh token

	Renewal authhttp.RenewalMode `json:"renewal" validate:"required,oneof=coalesced independent"`
}

// NewTokenStore creates a token store from the authentication configuration.
func (a *AuthConfig) NewTokenStore() (tokenstore.Store, error) {
	switch a.Storage {
	case TokenStorageTypeFile:
		return tokenstore.NewFileStore(a.File)
	case TokenStorageTypeEnv:
		return tokenstore.NewEnvStore(a.EnvAccessKey, a.EnvRefreshKey)
	case TokenStorageTypeKeyring:
		return tokenstore.NewKeyringStore(KeyringService, a.KeyringUser)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", a.Storage)
	}
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel    slog.Level  `json:"log_level"`
	LogFormat   LogFormat   `json:"log_format" validate:"oneof=text json"`
	LogExporter LogExporter `json:"log_exporter" validate:"oneof=none stdout otlphttp otlpgrpc"`
	API         APIConfig   `json:"api"`
	Auth        AuthConfig  `json:"auth"`
}

// Default creates a new Config with default values applied.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := cfg.ApplyDefaults(); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills unset config fields with sensible defaults.
func (c *Config) ApplyDefaults() error {
	if c.LogFormat == "" {
		c.LogFormat = DefaultConfigLogFormat
	}
	if c.LogExporter == "" {
		c.LogExporter = DefaultConfigLogExporter
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultConfigAPIBaseURL
	}
	if c.Auth.Storage == "" {
		c.Auth.Storage = DefaultConfigAuthStorage
	}
	if c.Auth.Renewal == "" {
		c.Auth.Renewal = DefaultConfigAuthRenewal
	}

	// Dynamic defaults based on storage type
	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		if c.Auth.File == "" {
			configDir, err := os.UserConfigDir()
			if err != nil {
				return fmt.Errorf("auth.file required (auto-detect failed: %w)", err)
			}
			c.Auth.File = filepath.Join(configDir, "taskdesk", "tokens.json")
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			currentUser, err := user.Current()
			if err != nil {
				return fmt.Errorf("auth.keyring_user required (auto-detect failed: %w)", err)
			}
			c.Auth.KeyringUser = currentUser.Username
		}
	case TokenStorageTypeEnv:
		if c.Auth.EnvAccessKey == "" {
			c.Auth.EnvAccessKey = DefaultConfigEnvAccessKey
		}
		if c.Auth.EnvRefreshKey == "" {
			c.Auth.EnvRefreshKey = DefaultConfigEnvRefreshKey
		}
	}

	return nil
}

// Validate validates the configuration using struct tags and enum values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	switch c.Auth.Storage {
	case TokenStorageTypeFile:
		if c.Auth.File == "" {
			return errors.New("file path required for file storage")
		}
	case TokenStorageTypeEnv:
		if c.Auth.EnvAccessKey == "" || c.Auth.EnvRefreshKey == "" {
			return errors.New("env_access_key and env_refresh_key required for env storage")
		}
		if c.Auth.EnvAccessKey == c.Auth.EnvRefreshKey {
			return errors.New("env_access_key and env_refresh_key must differ")
		}
	case TokenStorageTypeKeyring:
		if c.Auth.KeyringUser == "" {
			return errors.New("keyring_user required for keyring storage")
		}
	}

	return nil
}
