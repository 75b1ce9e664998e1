package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RavenStorm-bit/claude-token-refresh/internal/credstore"
	"github.com/RavenStorm-bit/claude-token-refresh/internal/tokenclient"
)

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, StorageTypeFile, cfg.Storage.Type)
	assert.Equal(t, credstore.DefaultBackupSuffix, cfg.Storage.BackupSuffix)
	assert.Equal(t, tokenclient.Endpoint.TokenURL, cfg.OAuth.TokenURL)
	assert.Equal(t, tokenclient.ClientID, cfg.OAuth.ClientID)
	assert.Equal(t, tokenclient.DefaultTimeout, cfg.OAuth.Timeout)
	assert.False(t, cfg.Force)

	assert.NoError(t, cfg.Validate())
}

func TestApplyDefaults_KeyringUserAutoDetected(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Type: StorageTypeKeyring}}
	require.NoError(t, cfg.ApplyDefaults())

	assert.Equal(t, credstore.DefaultKeyringService, cfg.Storage.KeyringService)
	assert.NotEmpty(t, cfg.Storage.KeyringUser)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := &Config{
		LogFormat: LogFormatJSON,
		OAuth: OAuthConfig{
			TokenURL: "https://example.test/token",
			Timeout:  3 * time.Second,
		},
	}
	require.NoError(t, cfg.ApplyDefaults())

	assert.Equal(t, LogFormatJSON, cfg.LogFormat)
	assert.Equal(t, "https://example.test/token", cfg.OAuth.TokenURL)
	assert.Equal(t, 3*time.Second, cfg.OAuth.Timeout)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad log format", func(c *Config) { c.LogFormat = "yaml" }},
		{"bad storage type", func(c *Config) { c.Storage.Type = "s3" }},
		{"empty token url", func(c *Config) { c.OAuth.TokenURL = "" }},
		{"not a url", func(c *Config) { c.OAuth.TokenURL = "not-a-url" }},
		{"empty client id", func(c *Config) { c.OAuth.ClientID = "" }},
		{"zero timeout", func(c *Config) { c.OAuth.Timeout = 0 }},
		{"empty backup suffix", func(c *Config) { c.Storage.BackupSuffix = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewStore_ExplicitFileSkipsSearch(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Storage.File = "/tmp/does-not-need-to-exist.json"

	store, err := cfg.NewStore()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/does-not-need-to-exist.json", store.Source())
}

func TestNewStore_Keyring(t *testing.T) {
	cfg := &Config{Storage: StorageConfig{Type: StorageTypeKeyring}}
	require.NoError(t, cfg.ApplyDefaults())

	store, err := cfg.NewStore()
	require.NoError(t, err)
	assert.Contains(t, store.Source(), credstore.DefaultKeyringService)
}
