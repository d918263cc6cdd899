package config // package config loads application configuration from environment variables

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Notion endpoints used when OAUTH_AUTH_URL / OAUTH_TOKEN_URL are not set.
const (
	DefaultAuthURL  = "https://api.notion.com/v1/oauth/authorize"
	DefaultTokenURL = "https://api.notion.com/v1/oauth/token"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Secrets and OAuth credentials are required; the
// remaining values fall back to defaults suitable for local development.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`   // application environment (dev/test/prod)
	Port string `env:"APP_PORT" envDefault:"5000"` // HTTP port to listen on

	SessionSecret string        `env:"SESSION_SECRET,required,notEmpty"`        // root secret for cookie and device-token keys
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"12h"`   // lifetime of a dashboard session
	CookieSecure  bool          `env:"COOKIE_SECURE" envDefault:"false"` // mark the session cookie Secure

	ClientID     string        `env:"CLIENT_ID,required,notEmpty"`     // OAuth client id
	ClientSecret string        `env:"CLIENT_SECRET,required,notEmpty"` // OAuth client secret
	RedirectURI  string        `env:"REDIRECT_URI,required,notEmpty"`  // OAuth redirect URI registered with the provider
	AuthURL      string        `env:"OAUTH_AUTH_URL"`
	TokenURL     string        `env:"OAUTH_TOKEN_URL"`
	OAuthTimeout time.Duration `env:"OAUTH_TIMEOUT" envDefault:"10s"`

	DB DatabaseConfig

	RabbitMQURL string `env:"RABBITMQ_URL"` // empty disables event publishing
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// DatabaseConfig selects and addresses the record store.
type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"mysql"` // mysql | sqlite
	User       string `env:"DB_USER"`
	Pass       string `env:"DB_PASS"` // empty allowed
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       string `env:"DB_PORT" envDefault:"3306"`
	Name       string `env:"DB_NAME" envDefault:"door_access"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"door-access.db"`
}

// WorkerConfig is the subset the queue worker needs.  It has no OAuth or
// session settings, so the worker can run with a smaller environment.
type WorkerConfig struct {
	DB          DatabaseConfig
	RabbitMQURL string `env:"RABBITMQ_URL,required,notEmpty"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads a .env file when present and parses the environment into a
// Config.  Missing required variables are reported as an error so main can
// decide how to exit.
func Load() (Config, error) {
	loadDotEnv()
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.AuthURL == "" {
		cfg.AuthURL = DefaultAuthURL
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	if err := cfg.DB.normalize(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadWorker is Load for the queue worker.
func LoadWorker() (WorkerConfig, error) {
	loadDotEnv()
	var cfg WorkerConfig
	if err := env.Parse(&cfg); err != nil {
		return WorkerConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.DB.normalize(); err != nil {
		return WorkerConfig{}, err
	}
	return cfg, nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "error", err)
	}
}

func (d *DatabaseConfig) normalize() error {
	d.Driver = strings.ToLower(strings.TrimSpace(d.Driver))
	switch d.Driver {
	case "mysql":
		if d.User == "" {
			return fmt.Errorf("DB_USER is required when DB_DRIVER=mysql")
		}
	case "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", d.Driver)
	}
	return nil
}

// LogLevelValue maps LOG_LEVEL onto a slog level; unknown values mean info.
func (c Config) LogLevelValue() slog.Level { return ParseLogLevel(c.LogLevel) }

// ParseLogLevel maps a LOG_LEVEL value onto a slog level.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// LoadSessionSecret reads only SESSION_SECRET, for tools that derive keys
// from it without running the server.
func LoadSessionSecret() (string, error) {
	loadDotEnv()
	var s struct {
		Secret string `env:"SESSION_SECRET,required,notEmpty"`
	}
	if err := env.Parse(&s); err != nil {
		return "", fmt.Errorf("parse env: %w", err)
	}
	return s.Secret, nil
}
