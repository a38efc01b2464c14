// Package config loads runtime settings from .env files, an optional YAML
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Lookup   LookupConfig   `yaml:"lookup"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Addr               string   `yaml:"addr"`
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins"`
	RateLimitRPS       float64  `yaml:"rate_limit_rps"`
	RateLimitBurst     int      `yaml:"rate_limit_burst"`
	MaxBodyBytes       int64    `yaml:"max_body_bytes"`
	EnableHSTS         bool     `yaml:"enable_hsts"`
}

type DatabaseConfig struct {
	Driver  string        `yaml:"driver"`
	DSN     string        `yaml:"dsn"`
	Timeout time.Duration `yaml:"timeout"`
}

type LookupConfig struct {
	BaseURL   string        `yaml:"base_url"`
	APIKey    string        `yaml:"api_key"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
	RPS       float64       `yaml:"rps"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:           ":8080",
			RateLimitBurst: 20,
			MaxBodyBytes:   1 << 20,
		},
		Database: DatabaseConfig{
			Driver:  "sqlite",
			DSN:     "books.db",
			Timeout: 5 * time.Second,
		},
		Lookup: LookupConfig{
			BaseURL:   "https://www.googleapis.com/books/v1",
			UserAgent: "bookshelf/1.0",
			Timeout:   10 * time.Second,
			RPS:       5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadEnvFiles reads .env and .env.local without overriding variables the
// runtime already set.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load builds the configuration: defaults, then CONFIG_FILE (YAML) if set,
// then environment variables.
func Load() (Config, error) {
	LoadEnvFiles()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Server.Addr, "APP_ADDR")
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		c.Server.CORSAllowedOrigins = splitList(v)
	}
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.DSN, "DB_DSN")
	setString(&c.Lookup.BaseURL, "LOOKUP_BASE_URL")
	setString(&c.Lookup.APIKey, "LOOKUP_API_KEY")
	setString(&c.Lookup.UserAgent, "LOOKUP_USER_AGENT")
	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	return errors.Join(
		setFloat(&c.Server.RateLimitRPS, "RATE_LIMIT_RPS"),
		setInt(&c.Server.RateLimitBurst, "RATE_LIMIT_BURST"),
		setInt64(&c.Server.MaxBodyBytes, "MAX_BODY_BYTES"),
		setBool(&c.Server.EnableHSTS, "ENABLE_HSTS"),
		setDuration(&c.Database.Timeout, "DB_TIMEOUT"),
		setDuration(&c.Lookup.Timeout, "LOOKUP_TIMEOUT"),
		setFloat(&c.Lookup.RPS, "LOOKUP_RPS"),
	)
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("config: unsupported DB_DRIVER %q (want sqlite or postgres)", c.Database.Driver))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("config: DB_DSN must not be empty"))
	}
	if c.Database.Timeout <= 0 {
		errs = append(errs, errors.New("config: DB_TIMEOUT must be positive"))
	}
	if c.Lookup.Timeout <= 0 {
		errs = append(errs, errors.New("config: LOOKUP_TIMEOUT must be positive"))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("config: MAX_BODY_BYTES must be positive"))
	}
	return errors.Join(errs...)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = f
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = d
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
