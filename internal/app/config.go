package app

import (
	"fmt"
	"log/slog"
	"os/user"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/RavenStorm-bit/claude-token-refresh/internal/credstore"
	"github.com/RavenStorm-bit/claude-token-refresh/internal/tokenclient"
)

// LogFormat represents the logging output format.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
	LogFormatOTel LogFormat = "otel"
)

// StorageType represents where the credential document lives.
type StorageType string

const (
	StorageTypeFile    StorageType = "file"
	StorageTypeKeyring StorageType = "keyring"
)

// Default configuration values
const (
	DefaultConfigLogFormat    = LogFormatText
	DefaultConfigStorage      = StorageTypeFile
	DefaultConfigBackupSuffix = credstore.DefaultBackupSuffix
	DefaultConfigOAuthTimeout = tokenclient.DefaultTimeout
)

// StorageConfig describes which backend holds the credential document and
// how its backup copy is named.
type StorageConfig struct {
	Type StorageType `json:"type" validate:"required,oneof=file keyring"`

	// For file storage: explicit credential file path. When empty the
	// standard search locations under dir and home are probed.
	File string `json:"file,omitempty"`

	// For keyring storage.
	KeyringService string `json:"keyring_service,omitempty"`
	KeyringUser    string `json:"keyring_user,omitempty"`

	// BackupSuffix names the pre-refresh copy next to the live entry.
	BackupSuffix string `json:"backup_suffix" validate:"required"`
}

// OAuthConfig holds token endpoint settings.
type OAuthConfig struct {
	TokenURL string        `json:"token_url" validate:"required,url"`
	ClientID string        `json:"client_id" validate:"required"`
	Timeout  time.Duration `json:"timeout" validate:"gt=0"`
}

// Config holds the tool's configuration.
type Config struct {
	// LogLevel for logging output (defaults to Info if unset).
	LogLevel  slog.Level `json:"log_level"`
	LogFormat LogFormat  `json:"log_format" validate:"oneof=text json otel"`

	// Dir overrides the base directory searched for credential files.
	Dir string `json:"dir,omitempty"`

	// Force refreshes even when the stored token has not expired.
	Force bool `json:"force"`

	Storage StorageConfig `json:"storage"`
	OAuth   OAuthConfig   `json:"oauth"`
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
	if c.Storage.Type == "" {
		c.Storage.Type = DefaultConfigStorage
	}
	if c.Storage.BackupSuffix == "" {
		c.Storage.BackupSuffix = DefaultConfigBackupSuffix
	}
	if c.OAuth.TokenURL == "" {
		c.OAuth.TokenURL = tokenclient.Endpoint.TokenURL
	}
	if c.OAuth.ClientID == "" {
		c.OAuth.ClientID = tokenclient.ClientID
	}
	if c.OAuth.Timeout == 0 {
		c.OAuth.Timeout = DefaultConfigOAuthTimeout
	}

	// Dynamic defaults based on storage type
	if c.Storage.Type == StorageTypeKeyring {
		if c.Storage.KeyringService == "" {
			c.Storage.KeyringService = credstore.DefaultKeyringService
		}
		if c.Storage.KeyringUser == "" {
			currentUser, err := user.Current()
			if err != nil {
				return fmt.Errorf("storage.keyring_user required (auto-detect failed: %w)", err)
			}
			c.Storage.KeyringUser = currentUser.Username
		}
	}

	return nil
}

// Validate validates the configuration using struct tags and enum values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	if c.Storage.Type == StorageTypeKeyring && c.Storage.KeyringUser == "" {
		return fmt.Errorf("keyring_user required for keyring storage")
	}

	return nil
}

// NewStore creates the credential Store the configuration describes. For
// file storage without an explicit path this probes the standard search
// locations, so construction can fail with credstore.ErrNotFound.
func (c *Config) NewStore() (credstore.Store, error) {
	switch c.Storage.Type {
	case StorageTypeFile:
		path := c.Storage.File
		if path == "" {
			located, err := credstore.Locate(c.Dir)
			if err != nil {
				return nil, err
			}
			path = located
		}
		return credstore.NewFileStore(path, c.Storage.BackupSuffix)
	case StorageTypeKeyring:
		return credstore.NewKeyringStore(c.Storage.KeyringService, c.Storage.KeyringUser, c.Storage.BackupSuffix)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
}
