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

	"github.com/florianilch/tweetauth/internal/credstore"
	"github.com/florianilch/tweetauth/internal/oauthflow"
	"github.com/florianilch/tweetauth/internal/observability"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// StorageType represents the different storage types supported for credentials.
type StorageType string

const (
	StorageTypeFile    StorageType = "file"
	StorageTypeEnv     StorageType = "env"
	StorageTypeKeyring StorageType = "keyring"
)

// KeyringService is the service name credentials are stored under in the OS keyring.
const KeyringService = "tweetauth"

// Default configuration values
const (
	DefaultConfigLogFormat               = LogFormatText
	DefaultConfigLogExporter             = observability.ExporterNone
	DefaultConfigRedirectURL             = "http://127.0.0.1:8080/callback"
	DefaultConfigHTTPTimeout             = oauthflow.DefaultTimeout
	DefaultConfigCallbackShutdownTimeout = 5 * time.Second
	DefaultConfigStorage                 = StorageTypeFile
)

// ClientConfig holds the OAuth2 client credentials.
type ClientConfig struct {
	ID string `json:"id"`
	// Secret is optional for public clients.
	Secret string `json:"secret"`
}

// AuthorizeConfig holds settings for the interactive authorization.
type AuthorizeConfig struct {
	// RedirectURL must match a callback URL registered for the app.
	RedirectURL string   `json:"redirect_url" validate:"required,url"`
	Scopes      []string `json:"scopes" validate:"required,min=1,dive,required"`
	// Listen serves the redirect URL locally instead of asking for the redirected URL.
	Listen bool `json:"listen"`
	// ShutdownTimeout bounds the local callback server shutdown.
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

// HTTPConfig holds settings for token endpoint requests.
type HTTPConfig struct {
	Timeout time.Duration `json:"timeout" validate:"gte=0"`
}

// StorageConfig describes where credentials are persisted.
type StorageConfig struct {
	Type StorageType `json:"type" validate:"required,oneof=file env keyring"`

	// Storage-specific settings (mutually exclusive based on Type)
	File        string `json:"file,omitempty"`         // For file storage: path to credentials file
	EnvKey      string `json:"env_key,omitempty"`      // For env storage: environment variable name
	KeyringUser string `json:"keyring_user,omitempty"` // For keyring storage: user identifier
}

// Writable reports whether the storage backend accepts writes.
func (s *StorageConfig) Writable() bool {
	return s.Type != StorageTypeEnv
}

// NewStore creates a credstore.Store from the storage configuration.
func (s *StorageConfig) NewStore() (credstore.Store, error) {
	switch s.Type {
	case StorageTypeFile:
		return credstore.NewFileStore(s.File)
	case StorageTypeEnv:
		return credstore.NewEnvStore(s.EnvKey)
	case StorageTypeKeyring:
		return credstore.NewKeyringStore(KeyringService, s.KeyringUser)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", s.Type)
	}
}

// Config holds the application's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel    slog.Level             `json:"log_level"`
	LogFormat   LogFormat              `json:"log_format" validate:"oneof=text json"`
	LogExporter observability.Exporter `json:"log_exporter" validate:"oneof=none stdout otlp-grpc otlp-http"`
	LogEndpoint string                 `json:"log_endpoint"`
	// LogSecrets logs raw secrets at debug level. Never enable outside debugging.
	LogSecrets bool `json:"log_secrets"`

	Client    ClientConfig    `json:"client"`
	Authorize AuthorizeConfig `json:"authorize"`
	HTTP      HTTPConfig      `json:"http"`
	Storage   StorageConfig   `json:"storage"`
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
	if c.Authorize.RedirectURL == "" {
		c.Authorize.RedirectURL = DefaultConfigRedirectURL
	}
	if len(c.Authorize.Scopes) == 0 {
		c.Authorize.Scopes = oauthflow.DefaultScopes().Strings()
	}
	if c.Authorize.ShutdownTimeout == 0 {
		c.Authorize.ShutdownTimeout = DefaultConfigCallbackShutdownTimeout
	}
	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = DefaultConfigHTTPTimeout
	}
	if c.Storage.Type == "" {
		c.Storage.Type = DefaultConfigStorage
	}

	// Dynamic defaults based on storage type
	switch c.Storage.Type {
	case StorageTypeFile:
		if c.Storage.File == "" {
			configDir, err := os.UserConfigDir()
			if err != nil {
				return fmt.Errorf("storage.file required (auto-detect failed: %w)", err)
			}
			c.Storage.File = filepath.Join(configDir, "tweetauth", "credentials.json")
		}
	case StorageTypeKeyring:
		if c.Storage.KeyringUser == "" {
			currentUser, err := user.Current()
			if err != nil {
				return fmt.Errorf("storage.keyring_user required (auto-detect failed: %w)", err)
			}
			c.Storage.KeyringUser = currentUser.Username
		}
	case StorageTypeEnv:
		// env_key must be explicitly configured (no sensible default)
	}

	return nil
}

// Validate validates the configuration using struct tags and enum values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	switch c.Storage.Type {
	case StorageTypeFile:
		if c.Storage.File == "" {
			return errors.New("file path required for file storage")
		}
	case StorageTypeEnv:
		if c.Storage.EnvKey == "" {
			return errors.New("env_key required for env storage")
		}
	case StorageTypeKeyring:
		if c.Storage.KeyringUser == "" {
			return errors.New("keyring_user required for keyring storage")
		}
	}

	return nil
}

// validateClient checks the settings every token endpoint call needs.
func (c *Config) validateClient() error {
	if c.Client.ID == "" {
		return errors.New("client.id required")
	}
	return nil
}
