package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported database drivers.
const (
	DriverMemory   = "memory"
	DriverRedis    = "redis"
	DriverValkey   = "valkey"
	DriverPostgres = "postgres"
)

// Config holds the profilesearch API configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Storage  StorageConfig  `yaml:"storage"`
	Search   SearchConfig   `yaml:"search"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings. An empty key list disables auth.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int   `yaml:"port"`
	ReadTimeoutSec  int   `yaml:"read_timeout_sec"`
	WriteTimeoutSec int   `yaml:"write_timeout_sec"`
	ShutdownSec     int   `yaml:"shutdown_timeout_sec"`
	MaxBodyBytes    int64 `yaml:"max_body_bytes"`
}

// DatabaseConfig holds record store connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis, valkey, postgres (default: memory)
	Addrs            []string `yaml:"addrs"`  // redis, valkey
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	DSN              string   `yaml:"dsn"` // postgres
	MaxConns         int32    `yaml:"max_conns"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	QueryTimeoutMs   int      `yaml:"query_timeout_ms"`
}

// ReadinessTimeoutDuration returns the startup wait for the store.
func (d DatabaseConfig) ReadinessTimeoutDuration() time.Duration {
	return time.Duration(d.ReadinessTimeout) * time.Second
}

// QueryTimeout returns the per-call store deadline.
func (d DatabaseConfig) QueryTimeout() time.Duration {
	return time.Duration(d.QueryTimeoutMs) * time.Millisecond
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// SearchConfig caps result sets returned by the store.
type SearchConfig struct {
	MaxResults int `yaml:"max_results"`
}

// Load reads <dir>/<env>.yaml and passes it to Parse. See Dir for how the
// directory is chosen.
func Load(env string) (Config, error) {
	path := filepath.Join(Dir(), env+".yaml")
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse substitutes ${VAR} and ${VAR:-default} references, decodes the YAML,
// fills defaults and validates the result.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(substituteEnv(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Env names the active environment: $PROFILESEARCH_ENV, then $ENV, then "local".
func Env() string {
	for _, key := range []string{"PROFILESEARCH_ENV", "ENV"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return "local"
}

// Dir is $CONFIG_DIR when set. Otherwise it is ./config if that exists, else
// the config directory of the source tree (so tests work from any package).
func Dir() string {
	if dir := os.Getenv("CONFIG_DIR"); dir != "" {
		return dir
	}
	if st, err := os.Stat("config"); err == nil && st.IsDir() {
		return "config"
	}
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "config"
	}
	// internal/config/config.go -> <root>/config
	return filepath.Join(file, "..", "..", "..", "config")
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		c.HTTP.MaxBodyBytes = 1 << 20
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMemory
	}
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Database.QueryTimeoutMs <= 0 {
		c.Database.QueryTimeoutMs = 2000
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "profiles:"
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverRedis, DriverValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
		if c.Database.DB < 0 {
			return fmt.Errorf("database.db must not be negative, got %d", c.Database.DB)
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required for driver %q", DriverPostgres)
		}
	default:
		return fmt.Errorf("database.driver must be one of memory, redis, valkey, postgres, got %q", c.Database.Driver)
	}

	if strings.ContainsAny(c.Storage.KeyPrefix, " *?[]") {
		return fmt.Errorf("storage.key_prefix must not contain spaces or glob characters, got %q", c.Storage.KeyPrefix)
	}
	if slices.Contains(c.Auth.APIKeys, "") {
		return fmt.Errorf("auth.api_keys must not contain empty keys")
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// substituteEnv expands ${VAR} to the variable's value and ${VAR:-def} to def
// when VAR is unset or empty.
func substituteEnv(data []byte) []byte {
	return envRef.ReplaceAllFunc(data, func(ref []byte) []byte {
		m := envRef.FindSubmatch(ref)
		if v := os.Getenv(string(m[1])); v != "" {
			return []byte(v)
		}
		return m[2]
	})
}
