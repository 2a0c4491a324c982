package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig          `yaml:"app"`
	Postgres     PostgresConfig     `yaml:"postgres"`
	Redis        RedisConfig        `yaml:"redis"`
	Logger       LoggerConfig       `yaml:"logger"`
	Auth         AuthConfig         `yaml:"auth"`
	Storage      StorageConfig      `yaml:"storage"`
	Quotes       QuotesConfig       `yaml:"quotes"`
	Notification NotificationConfig `yaml:"notification"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string `yaml:"name" env:"APP_NAME"`
	Env                   string `yaml:"env" env:"APP_ENV"`
	Host                  string `yaml:"host" env:"APP_HOST"`
	Port                  string `yaml:"port" env:"APP_PORT"`
	Version               string `yaml:"version" env:"APP_VERSION"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds" env:"HTTP_REQUEST_TIMEOUT_SECONDS"`
	BodyLimitBytes        int    `yaml:"body_limit_bytes" env:"HTTP_BODY_LIMIT_BYTES"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `yaml:"dsn" env:"POSTGRES_DSN"`
	MaxConns       int32  `yaml:"max_conns" env:"POSTGRES_MAX_CONNS"`
	MinConns       int32  `yaml:"min_conns" env:"POSTGRES_MIN_CONNS"`
	RunMigrations  bool   `yaml:"run_migrations" env:"POSTGRES_RUN_MIGRATIONS"`
	ConnMaxIdleSec int32  `yaml:"conn_max_idle_seconds" env:"POSTGRES_CONN_MAX_IDLE_SECONDS"`
	ConnMaxLifeSec int32  `yaml:"conn_max_life_seconds" env:"POSTGRES_CONN_MAX_LIFE_SECONDS"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `yaml:"level" env:"LOG_LEVEL"`
}

// AuthConfig defines session and credential parameters.
type AuthConfig struct {
	SessionSecret string        `yaml:"session_secret" env:"SESSION_SECRET"`
	SessionTTL    time.Duration `yaml:"session_ttl" env:"SESSION_TTL"`
	CookieName    string        `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
	CookieSecure  bool          `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE"`
	BcryptCost    int           `yaml:"bcrypt_cost" env:"AUTH_BCRYPT_COST"`
	AdminEmails   []string      `yaml:"admin_emails" env:"AUTH_ADMIN_EMAILS" envSeparator:","`
}

// StorageConfig selects and configures the blob backend.
type StorageConfig struct {
	Backend        string       `yaml:"backend" env:"STORAGE_BACKEND"`
	BaseDir        string       `yaml:"base_dir" env:"STORAGE_BASE_DIR"`
	MaxUploadBytes int          `yaml:"max_upload_bytes" env:"STORAGE_MAX_UPLOAD_BYTES"`
	WebDAV         WebDAVConfig `yaml:"webdav"`
	S3             S3Config     `yaml:"s3"`
}

// WebDAVConfig points at a Nextcloud (or any WebDAV) server.
type WebDAVConfig struct {
	URL      string        `yaml:"url" env:"NEXTCLOUD_URL"`
	Username string        `yaml:"username" env:"NEXTCLOUD_USER"`
	Password string        `yaml:"password" env:"NEXTCLOUD_PASS"`
	Timeout  time.Duration `yaml:"timeout" env:"NEXTCLOUD_TIMEOUT"`
}

// S3Config points at an S3-compatible bucket.
type S3Config struct {
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT"`
	Region          string `yaml:"region" env:"S3_REGION"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	UsePathStyle    bool   `yaml:"use_path_style" env:"S3_USE_PATH_STYLE"`
}

// QuotesConfig tunes the quote lifecycle.
type QuotesConfig struct {
	StrictTransitions bool `yaml:"strict_transitions" env:"QUOTES_STRICT_TRANSITIONS"`
}

// NotificationConfig holds notification endpoints.
type NotificationConfig struct {
	EmailFrom      string        `yaml:"email_from" env:"NOTIFY_EMAIL_FROM"`
	WebhookURL     string        `yaml:"webhook_url" env:"NOTIFY_WEBHOOK_URL"`
	WebhookTimeout time.Duration `yaml:"webhook_timeout" env:"NOTIFY_WEBHOOK_TIMEOUT"`
}

const (
	StorageWebDAV = "webdav"
	StorageS3     = "s3"
)

// Defaults returns the built-in configuration every other layer is merged over.
func Defaults() Config {
	return Config{
		App: AppConfig{
			Name:                  "quote-service",
			Env:                   "development",
			Host:                  "0.0.0.0",
			Port:                  "8080",
			Version:               "dev",
			RequestTimeoutSeconds: 30,
			BodyLimitBytes:        50 * 1024 * 1024,
		},
		Postgres: PostgresConfig{
			MaxConns:       10,
			MinConns:       2,
			RunMigrations:  true,
			ConnMaxIdleSec: 30,
			ConnMaxLifeSec: 300,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			SessionSecret: "dev-secret",
			SessionTTL:    7 * 24 * time.Hour,
			CookieName:    "connect.sid",
			BcryptCost:    10,
		},
		Storage: StorageConfig{
			Backend:        StorageWebDAV,
			BaseDir:        "uploads",
			MaxUploadBytes: 50 * 1024 * 1024,
			WebDAV: WebDAVConfig{
				Timeout: 60 * time.Second,
			},
			S3: S3Config{
				Region:       "us-east-1",
				UsePathStyle: true,
			},
		},
		Notification: NotificationConfig{
			EmailFrom:      "noreply@example.com",
			WebhookTimeout: 5 * time.Second,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file named by CONFIG_PATH (if any),
// then environment variables (a .env file is loaded first when present).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return nil, err
		}
		if err := mergo.Merge(&cfg, fileCfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("merge config file: %w", err)
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	cfg.Storage.BaseDir = strings.Trim(cfg.Storage.BaseDir, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readFile(path string) (Config, error) {
	var fileCfg Config
	raw, err := os.ReadFile(path)
	if err != nil {
		return fileCfg, fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
		return fileCfg, fmt.Errorf("decode config file %s: %w", path, err)
	}
	return fileCfg, nil
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.App.IsProduction() && (c.Auth.SessionSecret == "" || c.Auth.SessionSecret == "dev-secret") {
		errs = append(errs, errors.New("SESSION_SECRET must be set in production"))
	}
	if c.Auth.SessionSecret == "" {
		errs = append(errs, errors.New("session secret is empty"))
	}
	if c.Auth.SessionTTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.Storage.BaseDir == "" {
		errs = append(errs, errors.New("storage base dir is empty"))
	}

	switch c.Storage.Backend {
	case StorageWebDAV:
		w := c.Storage.WebDAV
		if w.URL == "" || w.Username == "" || w.Password == "" {
			errs = append(errs, errors.New("webdav storage requires NEXTCLOUD_URL, NEXTCLOUD_USER and NEXTCLOUD_PASS"))
		}
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			errs = append(errs, errors.New("s3 storage requires S3_BUCKET"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}

	return errors.Join(errs...)
}

// IsProduction reports whether the service runs in production mode.
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Env, "production")
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}
