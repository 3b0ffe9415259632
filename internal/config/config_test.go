package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{Driver: DriverRedis, Addrs: []string{"localhost:6379"}},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid redis", func(*Config) {}, ""},
		{"valid memory", func(c *Config) { c.Database = DatabaseConfig{Driver: DriverMemory} }, ""},
		{"valid postgres", func(c *Config) {
			c.Database = DatabaseConfig{Driver: DriverPostgres, DSN: "postgres://localhost/profiles"}
		}, ""},
		{"invalid port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"port too large", func(c *Config) { c.HTTP.Port = 70000 }, "http.port"},
		{"missing valkey addrs", func(c *Config) {
			c.Database = DatabaseConfig{Driver: DriverValkey}
		}, "database.addrs is required"},
		{"negative db", func(c *Config) { c.Database.DB = -1 }, "database.db"},
		{"missing dsn", func(c *Config) {
			c.Database = DatabaseConfig{Driver: DriverPostgres}
		}, "database.dsn is required"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mongo" }, `got "mongo"`},
		{"glob in prefix", func(c *Config) { c.Storage.KeyPrefix = "profiles*" }, "storage.key_prefix"},
		{"empty api key", func(c *Config) { c.Auth.APIKeys = []string{"k1", ""} }, "auth.api_keys"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 10 {
		t.Errorf("expected WriteTimeoutSec=10, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.HTTP.MaxBodyBytes != 1<<20 {
		t.Errorf("expected MaxBodyBytes=1MiB, got %d", cfg.HTTP.MaxBodyBytes)
	}
	if cfg.Database.Driver != DriverMemory {
		t.Errorf("expected Driver=memory, got %q", cfg.Database.Driver)
	}
	if cfg.Database.ReadinessTimeoutDuration() != 10*time.Second {
		t.Errorf("expected readiness 10s, got %s", cfg.Database.ReadinessTimeoutDuration())
	}
	if cfg.Database.QueryTimeout() != 2*time.Second {
		t.Errorf("expected query timeout 2s, got %s", cfg.Database.QueryTimeout())
	}
	if cfg.Storage.KeyPrefix != "profiles:" {
		t.Errorf("expected KeyPrefix='profiles:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Search.MaxResults != 100 {
		t.Errorf("expected MaxResults=100, got %d", cfg.Search.MaxResults)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Database: DatabaseConfig{Driver: "Valkey", ReadinessTimeout: 15, QueryTimeoutMs: 250},
		Storage:  StorageConfig{KeyPrefix: "custom:"},
		Search:   SearchConfig{MaxResults: 20},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Database.Driver != DriverValkey {
		t.Errorf("expected Driver=valkey, got %q", cfg.Database.Driver)
	}
	if cfg.Database.QueryTimeout() != 250*time.Millisecond {
		t.Errorf("expected query timeout 250ms, got %s", cfg.Database.QueryTimeout())
	}
	if cfg.Storage.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Search.MaxResults != 20 {
		t.Errorf("expected MaxResults=20, got %d", cfg.Search.MaxResults)
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("PROFILESEARCH_TEST_PORT", "9090")
	t.Setenv("PROFILESEARCH_TEST_KEY", "")

	cfg, err := Parse([]byte(`
http:
  port: ${PROFILESEARCH_TEST_PORT}
database:
  driver: redis
  addrs: ["${PROFILESEARCH_TEST_ADDR:-localhost:6379}"]
auth:
  api_keys: ["${PROFILESEARCH_TEST_KEY:-dev-key}"]
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.HTTP.Port)
	}
	if len(cfg.Database.Addrs) != 1 || cfg.Database.Addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v", cfg.Database.Addrs)
	}
	if len(cfg.Auth.APIKeys) != 1 || cfg.Auth.APIKeys[0] != "dev-key" {
		t.Errorf("api keys = %v", cfg.Auth.APIKeys)
	}
}

func TestParse_Errors(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Errorf("malformed yaml: err = %v", err)
	}
	if _, err := Parse([]byte("http:\n  port: 8080\ndatabase:\n  driver: postgres\n")); err == nil ||
		!strings.Contains(err.Error(), "validate config") {
		t.Errorf("missing dsn: err = %v", err)
	}
}

func TestLoad_LocalConfig(t *testing.T) {
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("Load(local): %v", err)
	}
	if cfg.HTTP.Port == 0 {
		t.Error("expected a port in local config")
	}
}

func TestLoad_MissingEnv(t *testing.T) {
	if _, err := Load("does-not-exist"); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestEnv(t *testing.T) {
	t.Setenv("PROFILESEARCH_ENV", "")
	t.Setenv("ENV", "")
	if got := Env(); got != "local" {
		t.Errorf("Env() = %q, want local", got)
	}
	t.Setenv("ENV", "prod")
	if got := Env(); got != "prod" {
		t.Errorf("Env() = %q, want prod", got)
	}
	t.Setenv("PROFILESEARCH_ENV", "dev")
	if got := Env(); got != "dev" {
		t.Errorf("Env() = %q, want dev", got)
	}
}

func TestLoad_ConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ci.yaml"), []byte("http:\n  port: 7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_DIR", dir)

	cfg, err := Load("ci")
	if err != nil {
		t.Fatalf("Load(ci): %v", err)
	}
	if cfg.HTTP.Port != 7000 || cfg.Database.Driver != DriverMemory {
		t.Errorf("cfg = %+v", cfg)
	}
}
