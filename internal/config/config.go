// Package config loads the server configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// VOTEJAM_* environment variables (VOTEJAM_DATABASE_DSN,
// VOTEJAM_AUTH_JWT_SECRET, ...). Command-line flags are applied on top by
// the CLI.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of all environment variables read by Load.
const EnvPrefix = "votejam"

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the complete server configuration.
type Config struct {
	ListenAddr     string   `yaml:"listenAddr" split_words:"true"`
	LogLevel       string   `yaml:"logLevel" split_words:"true"`
	AllowedOrigins []string `yaml:"allowedOrigins" split_words:"true"`

	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Catalog  CatalogConfig  `yaml:"catalog"`
	Voting   VotingConfig   `yaml:"voting"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type DatabaseConfig struct {
	// Driver selects the store backend: sqlite or postgres.
	Driver string `yaml:"driver" split_words:"true"`
	Path   string `yaml:"path" split_words:"true"`
	DSN    string `yaml:"dsn" split_words:"true"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwtSecret" split_words:"true"`
	TokenTTL  time.Duration `yaml:"tokenTTL" split_words:"true"`
}

type CatalogConfig struct {
	BaseURL string        `yaml:"baseURL" split_words:"true"`
	Limit   int           `yaml:"limit" split_words:"true"`
	Timeout time.Duration `yaml:"timeout" split_words:"true"`
	Retries int           `yaml:"retries" split_words:"true"`
}

type VotingConfig struct {
	// AutoVote spends a coin on a submitter's own track.
	AutoVote bool `yaml:"autoVote" split_words:"true"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled" split_words:"true"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		ListenAddr:     ":8080",
		LogLevel:       "info",
		AllowedOrigins: []string{"*"},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   "./data/votejam.db",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Catalog: CatalogConfig{
			BaseURL: "https://api.deezer.com",
			Limit:   10,
			Timeout: 5 * time.Second,
			Retries: 2,
		},
		Voting: VotingConfig{
			AutoVote: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (if
// path is not empty) and the environment. It does not validate.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(buf, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}

	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c *Config) Validate() error {
	var errs []error

	if c.ListenAddr == "" {
		errs = append(errs, errors.New("listen address is required"))
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database path is required for sqlite"))
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("database dsn is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database driver %q", c.Database.Driver))
	}

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("jwt secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("token ttl must be positive"))
	}

	if c.Catalog.BaseURL == "" {
		errs = append(errs, errors.New("catalog base url is required"))
	}
	if c.Catalog.Timeout <= 0 {
		errs = append(errs, errors.New("catalog timeout must be positive"))
	}
	if c.Catalog.Limit <= 0 {
		errs = append(errs, errors.New("catalog limit must be positive"))
	}
	if c.Catalog.Retries < 0 {
		errs = append(errs, errors.New("catalog retries must not be negative"))
	}

	return errors.Join(errs...)
}

type ctxKey struct{}

// WithContext stores cfg in ctx for the CLI subcommands.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the configuration stored by WithContext, or nil.
func FromContext(ctx context.Context) *Config {
	cfg, _ := ctx.Value(ctxKey{}).(*Config)
	return cfg
}
