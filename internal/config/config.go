package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of every environment override, e.g. MODLINK_PORT or
// MODLINK_DATABASE_DSN.
const EnvPrefix = "MODLINK"

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, postgres or none
	DSN    string `yaml:"dsn"`
}

type RateLimitConfig struct {
	RPS       float64 `yaml:"rps"`
	Burst     int     `yaml:"burst"`
	CacheSize int     `yaml:"cacheSize" split_words:"true"`
}

type Config struct {
	BindAddr         string          `yaml:"bindAddr"         split_words:"true"`
	Port             uint            `yaml:"port"`
	Debug            bool            `yaml:"debug"`
	SessionSecret    string          `yaml:"sessionSecret"    split_words:"true"`
	AdminCallers     []string        `yaml:"adminCallers"     split_words:"true"`
	VoteThreshold    int             `yaml:"voteThreshold"    split_words:"true"`
	AutoModerate     bool            `yaml:"autoModerate"     split_words:"true"`
	SnapshotInterval time.Duration   `yaml:"snapshotInterval" split_words:"true"`
	ShutdownTimeout  time.Duration   `yaml:"shutdownTimeout"  split_words:"true"`
	Database         DatabaseConfig  `yaml:"database"`
	RateLimit        RateLimitConfig `yaml:"rateLimit"        split_words:"true"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		BindAddr:         "0.0.0.0",
		Port:             8080,
		SessionSecret:    "secret_key_change_me",
		VoteThreshold:    6,
		SnapshotInterval: 30 * time.Second,
		ShutdownTimeout:  30 * time.Second,
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "modlink.sqlite",
		},
		RateLimit: RateLimitConfig{
			RPS:       5,
			Burst:     20,
			CacheSize: 10000,
		},
	}
}

// Load builds the configuration from the defaults, then the YAML file at
// configFile (if any), then MODLINK_* environment variables.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
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

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres", "none":
	default:
		return fmt.Errorf("invalid database driver %q", c.Database.Driver)
	}
	if c.VoteThreshold < 1 {
		return fmt.Errorf("vote threshold must be at least 1, got %d", c.VoteThreshold)
	}
	if c.RateLimit.RPS < 0 || c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}
	return nil
}

// ListenAddr is the address the HTTP server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.BindAddr, c.Port)
}

// IsAdmin reports whether caller may run admin operations.
func (c *Config) IsAdmin(caller string) bool {
	for _, admin := range c.AdminCallers {
		if admin == caller {
			return true
		}
	}
	return false
}
