// Package config provides configuration management for Castellan.
// Configuration can be loaded from YAML files and environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/prn-tf/castellan/internal/directory"
	"github.com/prn-tf/castellan/internal/session/slot"
)

// Config represents the complete application configuration.
type Config struct {
	Session SessionConfig `mapstructure:"session"`
	Slot    SlotConfig    `mapstructure:"slot"`
	Latency LatencyConfig `mapstructure:"latency"`
	Logging LoggingConfig `mapstructure:"logging"`
	Seed    SeedConfig    `mapstructure:"seed"`
}

// SessionConfig holds session-store settings.
type SessionConfig struct {
	// SentinelPassword is the fixed string accepted in place of real
	// credential verification.
	SentinelPassword string `mapstructure:"sentinel_password"`
}

// SlotConfig selects and configures the durable session-slot backend.
type SlotConfig struct {
	// Driver is one of "memory", "sqlite", "postgres", "redis".
	Driver string `mapstructure:"driver"`

	// SQLite settings (used when Driver is "sqlite")
	Path            string `mapstructure:"path"`
	JournalMode     string `mapstructure:"journal_mode"`
	BusyTimeout     int    `mapstructure:"busy_timeout"`
	SynchronousMode string `mapstructure:"synchronous_mode"`

	// PostgreSQL settings (used when Driver is "postgres")
	DSN            string        `mapstructure:"dsn"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`

	// Redis settings (used when Driver is "redis")
	RedisHost     string        `mapstructure:"redis_host"`
	RedisPort     int           `mapstructure:"redis_port"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	DialTimeout   time.Duration `mapstructure:"dial_timeout"`
}

// RedisAddr returns the Redis address in host:port format.
func (c SlotConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// Build converts the section into the slot package's backend config.
func (c SlotConfig) Build() slot.Config {
	return slot.Config{
		Driver: c.Driver,
		SQLite: slot.SQLiteConfig{
			Path:            c.Path,
			JournalMode:     c.JournalMode,
			BusyTimeout:     c.BusyTimeout,
			SynchronousMode: c.SynchronousMode,
		},
		Postgres: slot.PostgresConfig{
			DSN:            c.DSN,
			ConnectTimeout: c.ConnectTimeout,
		},
		Redis: slot.RedisConfig{
			Addr:        c.RedisAddr(),
			Password:    c.RedisPassword,
			DB:          c.RedisDB,
			DialTimeout: c.DialTimeout,
		},
	}
}

// LatencyConfig controls the simulated round-trip latency of the mock
// stores.
type LatencyConfig struct {
	// Enabled turns simulation on. Disabled means every operation
	// completes immediately.
	Enabled bool `mapstructure:"enabled"`

	// Scale multiplies the per-operation delays. 1.0 keeps the reference
	// demo timings.
	Scale float64 `mapstructure:"scale"`
}

// DirectoryDelays returns the directory store's latency profile.
func (c LatencyConfig) DirectoryDelays() directory.Delays {
	if !c.Enabled {
		return directory.Delays{}
	}
	d := directory.DefaultDelays()
	return directory.Delays{
		List:   c.scaled(d.List),
		Get:    c.scaled(d.Get),
		Create: c.scaled(d.Create),
		Update: c.scaled(d.Update),
		Delete: c.scaled(d.Delete),
		Toggle: c.scaled(d.Toggle),
		Reset:  c.scaled(d.Reset),
	}
}

// SessionDelay returns the login/registration latency.
func (c LatencyConfig) SessionDelay() time.Duration {
	if !c.Enabled {
		return 0
	}
	return c.scaled(time.Second)
}

func (c LatencyConfig) scaled(d time.Duration) time.Duration {
	scale := c.Scale
	if scale <= 0 {
		scale = 1
	}
	return time.Duration(float64(d) * scale)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SeedConfig controls the demo seed data.
type SeedConfig struct {
	// Enabled seeds the directory with the reference demo accounts.
	Enabled bool `mapstructure:"enabled"`
}

// Load reads configuration from the specified file and environment
// variables. Environment variables take precedence over file values and
// are prefixed with CASTELLAN_, using _ as separator.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CASTELLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
	}

	// Config file not found is acceptable - defaults and env vars apply.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Session defaults
	v.SetDefault("session.sentinel_password", "password")

	// Slot defaults
	v.SetDefault("slot.driver", "sqlite")
	v.SetDefault("slot.path", "./data/castellan.db")
	v.SetDefault("slot.journal_mode", "WAL")
	v.SetDefault("slot.busy_timeout", 5000)
	v.SetDefault("slot.synchronous_mode", "NORMAL")
	v.SetDefault("slot.connect_timeout", 10*time.Second)
	v.SetDefault("slot.redis_host", "localhost")
	v.SetDefault("slot.redis_port", 6379)
	v.SetDefault("slot.redis_password", "")
	v.SetDefault("slot.redis_db", 0)
	v.SetDefault("slot.dial_timeout", 5*time.Second)

	// Latency defaults
	v.SetDefault("latency.enabled", true)
	v.SetDefault("latency.scale", 1.0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	// Seed defaults
	v.SetDefault("seed.enabled", true)
}

// Validate checks the configuration for required values and valid
// ranges.
func (c *Config) Validate() error {
	validDrivers := map[string]bool{
		slot.DriverMemory:   true,
		slot.DriverSQLite:   true,
		slot.DriverPostgres: true,
		slot.DriverRedis:    true,
	}
	if !validDrivers[c.Slot.Driver] {
		return fmt.Errorf("slot.driver must be one of: memory, sqlite, postgres, redis")
	}

	if c.Slot.Driver == slot.DriverSQLite && c.Slot.Path == "" {
		return fmt.Errorf("slot.path is required for sqlite driver")
	}
	if c.Slot.Driver == slot.DriverPostgres && c.Slot.DSN == "" {
		return fmt.Errorf("slot.dsn is required for postgres driver")
	}

	if c.Latency.Scale < 0 {
		return fmt.Errorf("latency.scale must not be negative")
	}

	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: trace, debug, info, warn, error, fatal, panic")
	}

	validFormats := map[string]bool{"console": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("logging.format must be 'console' or 'json'")
	}

	return nil
}

// MustLoad loads configuration or panics on error. Useful for main
// function initialization.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}
