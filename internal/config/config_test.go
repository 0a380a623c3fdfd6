package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "votejam.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":8080" || cfg.Database.Driver != DriverSQLite {
		t.Errorf("Unexpected defaults: %+v", cfg)
	}
	if !cfg.Voting.AutoVote {
		t.Errorf("Expected auto-vote on by default")
	}
	if cfg.Catalog.Timeout != 5*time.Second {
		t.Errorf("Expected 5s catalog timeout, got %v", cfg.Catalog.Timeout)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, `
listenAddr: ":9090"
database:
  driver: postgres
  dsn: "postgres://file"
auth:
  jwtSecret: "from-file"
  tokenTTL: 2h
catalog:
  timeout: 3s
voting:
  autoVote: false
`)

	t.Setenv("VOTEJAM_DATABASE_DSN", "postgres://env")
	t.Setenv("VOTEJAM_CATALOG_LIMIT", "25")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("listenAddr = %q, want :9090", cfg.ListenAddr)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.Database.DSN != "postgres://env" {
		t.Errorf("dsn = %q, want env override", cfg.Database.DSN)
	}
	if cfg.Auth.JWTSecret != "from-file" || cfg.Auth.TokenTTL != 2*time.Hour {
		t.Errorf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.Catalog.Timeout != 3*time.Second || cfg.Catalog.Limit != 25 {
		t.Errorf("unexpected catalog config: %+v", cfg.Catalog)
	}
	if cfg.Catalog.BaseURL != "https://api.deezer.com" {
		t.Errorf("expected base url default to survive, got %q", cfg.Catalog.BaseURL)
	}
	if cfg.Voting.AutoVote {
		t.Errorf("expected auto-vote disabled by file")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Auth.JWTSecret = "secret"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("Expected valid config, got %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "unknown database driver"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = DriverPostgres }, "dsn is required"},
		{"empty secret", func(c *Config) { c.Auth.JWTSecret = "" }, "jwt secret"},
		{"zero timeout", func(c *Config) { c.Catalog.Timeout = 0 }, "catalog timeout"},
		{"negative ttl", func(c *Config) { c.Auth.TokenTTL = -time.Second }, "token ttl"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnvNames(t *testing.T) {
	t.Setenv("VOTEJAM_AUTH_JWT_SECRET", "env-secret")
	t.Setenv("VOTEJAM_AUTH_TOKEN_TTL", "90m")
	t.Setenv("VOTEJAM_DATABASE_PATH", "/var/lib/votejam/votejam.db")
	t.Setenv("VOTEJAM_ALLOWED_ORIGINS", "https://a.example.com,https://b.example.com")
	t.Setenv("VOTEJAM_VOTING_AUTO_VOTE", "false")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Auth.JWTSecret != "env-secret" || cfg.Auth.TokenTTL != 90*time.Minute {
		t.Errorf("unexpected auth config: %+v", cfg.Auth)
	}
	if cfg.Database.Path != "/var/lib/votejam/votejam.db" {
		t.Errorf("path = %q", cfg.Database.Path)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("expected 2 origins, got %v", cfg.AllowedOrigins)
	}
	if cfg.Voting.AutoVote {
		t.Errorf("expected auto-vote disabled by env")
	}
}

func TestContext(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Fatal("expected nil config in empty context")
	}
	cfg := Default()
	if got := FromContext(WithContext(context.Background(), cfg)); got != cfg {
		t.Errorf("expected stored config back, got %+v", got)
	}
}
