// Package config loads estateview settings from a YAML file, an optional
// .env file, and EV_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Storage backends for favorites and preferences.
const (
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config holds application settings.
type Config struct {
	DBPath      string      `yaml:"db,omitempty" json:"db"`
	Storage     string      `yaml:"storage,omitempty" json:"storage"`
	Redis       RedisConfig `yaml:"redis,omitempty" json:"redis"`
	Port        int         `yaml:"port,omitempty" json:"port"`
	DevMode     bool        `yaml:"dev_mode,omitempty" json:"devMode"`
	CORSOrigins []string    `yaml:"cors_origins,omitempty" json:"corsOrigins"`
}

// RedisConfig locates the Redis server used by the redis storage backend.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty" json:"addr"`
	Password string `yaml:"password,omitempty" json:"-"`
	DB       int    `yaml:"db,omitempty" json:"db"`
	Prefix   string `yaml:"prefix,omitempty" json:"prefix"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Storage: StorageSQLite,
		Port:    8080,
	}
}

// DefaultPath returns the default config path: ~/.config/ev/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ev", "config.yaml"), nil
}

// ResolvePath returns path, or DefaultPath when path is empty.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	return DefaultPath()
}

// ReadFile returns the defaults overlaid with the YAML file at path. No
// environment overrides are applied. A missing file is not an error.
func ReadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("reading config: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}
	return cfg, nil
}

// Load reads the config file at path (DefaultPath when empty), applies
// .env and environment overrides, and validates the result. A missing
// config file is not an error.
func Load(path string) (Config, error) {
	path, err := ResolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg, err := ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("ignoring unreadable .env file", "error", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes cfg to path as YAML.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Keys lists the settings accepted by Set, in YAML notation.
var Keys = []string{
	"db", "storage", "redis.addr", "redis.password", "redis.db", "redis.prefix",
	"port", "dev_mode", "cors_origins",
}

// Set changes one setting by its YAML key. An empty value resets strings
// and lists. The result is not validated.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "db":
		c.DBPath = value
	case "storage":
		c.Storage = value
	case "redis.addr":
		c.Redis.Addr = value
	case "redis.password":
		c.Redis.Password = value
	case "redis.prefix":
		c.Redis.Prefix = value
	case "cors_origins":
		c.CORSOrigins = splitList(value)
	case "redis.db", "port":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if key == "port" {
			c.Port = n
		} else {
			c.Redis.DB = n
		}
	case "dev_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		c.DevMode = b
	default:
		return fmt.Errorf("unknown config key %q (want one of %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// applyEnv overlays EV_* environment variables.
func (c *Config) applyEnv() error {
	if v := os.Getenv("EV_DB"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("EV_STORAGE"); v != "" {
		c.Storage = v
	}
	if v := os.Getenv("EV_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("EV_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("EV_REDIS_PREFIX"); v != "" {
		c.Redis.Prefix = v
	}
	if v := os.Getenv("EV_CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	if v := os.Getenv("EV_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EV_REDIS_DB: %w", err)
		}
		c.Redis.DB = n
	}
	if v := os.Getenv("EV_PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("EV_PORT: %w", err)
		}
		c.Port = n
	}
	if v := os.Getenv("EV_DEV_MODE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("EV_DEV_MODE: %w", err)
		}
		c.DevMode = b
	}

	return nil
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageSQLite, StorageMemory:
	case StorageRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis storage requires redis.addr")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want sqlite, redis or memory)", c.Storage)
	}

	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
