package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setWebDAVEnv(t *testing.T) {
	t.Helper()
	t.Setenv("NEXTCLOUD_URL", "https://cloud.example.com")
	t.Setenv("NEXTCLOUD_USER", "svc")
	t.Setenv("NEXTCLOUD_PASS", "secret")
}

func TestLoad_DefaultsWithEnv(t *testing.T) {
	setWebDAVEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ADMIN_EMAILS", "ops@example.com,boss@example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.SessionTTL)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, []string{"ops@example.com", "boss@example.com"}, cfg.Auth.AdminEmails)
	assert.Equal(t, "uploads", cfg.Storage.BaseDir)
	assert.False(t, cfg.Quotes.StrictTransitions)
}

func TestLoad_YAMLFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  port: "7000"
  name: quotes-from-file
storage:
  backend: s3
  base_dir: /files/
  s3:
    bucket: quotes
quotes:
  strict_transitions: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("APP_NAME", "quotes-from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.App.Port)
	assert.Equal(t, "quotes-from-env", cfg.App.Name)
	assert.Equal(t, StorageS3, cfg.Storage.Backend)
	assert.Equal(t, "files", cfg.Storage.BaseDir)
	assert.Equal(t, "quotes", cfg.Storage.S3.Bucket)
	assert.Equal(t, "us-east-1", cfg.Storage.S3.Region)
	assert.True(t, cfg.Quotes.StrictTransitions)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Storage.Backend = "ftp" },
			wantErr: `unknown storage backend "ftp"`,
		},
		{
			name:    "webdav without credentials",
			mutate:  func(c *Config) { c.Storage.WebDAV = WebDAVConfig{} },
			wantErr: "webdav storage requires",
		},
		{
			name: "production with dev secret",
			mutate: func(c *Config) {
				c.App.Env = "production"
			},
			wantErr: "SESSION_SECRET must be set in production",
		},
		{
			name: "s3 without bucket",
			mutate: func(c *Config) {
				c.Storage.Backend = StorageS3
			},
			wantErr: "s3 storage requires S3_BUCKET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			cfg.Storage.WebDAV = WebDAVConfig{URL: "https://x", Username: "u", Password: "p"}
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, AppConfig{RequestTimeoutSeconds: 30}.RequestTimeout())
	assert.Zero(t, AppConfig{}.RequestTimeout())
}
