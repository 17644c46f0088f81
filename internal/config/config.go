package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/dshills/kvcache/internal/cache"
)

// EnvPrefix prefixes every environment variable kvcache reads.
const EnvPrefix = "KVCACHE_"

// Config represents the kvcache configuration.
type Config struct {
	Format string      `json:"format"`
	Cache  CacheConfig `json:"cache"`
}

// CacheConfig controls the store.
type CacheConfig struct {
	Dir                 string `json:"dir,omitempty"`
	DefaultTTLSeconds   int64  `json:"defaultTtlSeconds"`
	ClearRandomly       bool   `json:"clearRandomly"`
	NeverClearAll       bool   `json:"neverClearAll"`
	DeleteExpiredOnRead bool   `json:"deleteExpiredOnRead"`
}

// envConfig mirrors Config with pointers so unset variables are
// distinguishable from zero values.
type envConfig struct {
	Format              *string `env:"FORMAT"`
	Dir                 *string `env:"DIR"`
	DefaultTTLSeconds   *int64  `env:"DEFAULT_TTL"`
	ClearRandomly       *bool   `env:"CLEAR_RANDOMLY"`
	NeverClearAll       *bool   `env:"NEVER_CLEAR_ALL"`
	DeleteExpiredOnRead *bool   `env:"DELETE_EXPIRED_ON_READ"`
}

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Format: "text",
		Cache: CacheConfig{
			DefaultTTLSeconds: cache.DefaultTTLSeconds,
		},
	}
}

// Options converts the cache section into store options.
func (c CacheConfig) Options() cache.Options {
	return cache.Options{
		Dir:                 c.Dir,
		DefaultTTL:          c.DefaultTTLSeconds,
		ClearRandomly:       c.ClearRandomly,
		NeverClearAll:       c.NeverClearAll,
		DeleteExpiredOnRead: c.DeleteExpiredOnRead,
	}
}

// ConfigDir returns the platform-appropriate config directory for kvcache.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "kvcache"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "kvcache"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "kvcache"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "kvcache"), nil
	default:
		return filepath.Join(home, ".config", "kvcache"), nil
	}
}

// ConfigPath returns the full path to the config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads config from the config file. Returns zero Config and nil error if file doesn't exist.
func LoadFile() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Save writes the config to the config file.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Load builds the effective config by merging: defaults <- file <- env <- overrides.
// The overrides map comes from CLI flags (only flags the user set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	fileCfg, err := LoadFile()
	if err != nil {
		return Config{}, err
	}
	mergeFile(&cfg, fileCfg)
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := mergeOverrides(&cfg, overrides); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func mergeFile(dst *Config, src Config) {
	if src.Format != "" {
		dst.Format = src.Format
	}
	if src.Cache.Dir != "" {
		dst.Cache.Dir = src.Cache.Dir
	}
	// Zero means unset; -1 is the "never expires" sentinel and must survive.
	if src.Cache.DefaultTTLSeconds != 0 {
		dst.Cache.DefaultTTLSeconds = src.Cache.DefaultTTLSeconds
	}
	// Every boolean defaults to false, so a true in the file is the only
	// signal worth merging.
	dst.Cache.ClearRandomly = src.Cache.ClearRandomly || dst.Cache.ClearRandomly
	dst.Cache.NeverClearAll = src.Cache.NeverClearAll || dst.Cache.NeverClearAll
	dst.Cache.DeleteExpiredOnRead = src.Cache.DeleteExpiredOnRead || dst.Cache.DeleteExpiredOnRead
}

func mergeEnv(cfg *Config) error {
	var e envConfig
	if err := env.ParseWithOptions(&e, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	if e.Format != nil && *e.Format != "" {
		cfg.Format = *e.Format
	}
	if e.Dir != nil && *e.Dir != "" {
		cfg.Cache.Dir = *e.Dir
	}
	if e.DefaultTTLSeconds != nil {
		if err := validateTTL(*e.DefaultTTLSeconds); err != nil {
			return fmt.Errorf("%sDEFAULT_TTL: %w", EnvPrefix, err)
		}
		cfg.Cache.DefaultTTLSeconds = *e.DefaultTTLSeconds
	}
	if e.ClearRandomly != nil {
		cfg.Cache.ClearRandomly = *e.ClearRandomly
	}
	if e.NeverClearAll != nil {
		cfg.Cache.NeverClearAll = *e.NeverClearAll
	}
	if e.DeleteExpiredOnRead != nil {
		cfg.Cache.DeleteExpiredOnRead = *e.DeleteExpiredOnRead
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) error {
	for key, value := range overrides {
		if value == "" {
			continue
		}
		if err := SetField(cfg, key, value); err != nil {
			return err
		}
	}
	return nil
}

// validateTTL accepts -1 or a positive number of seconds. Zero is reserved
// for "unset" in the config file.
func validateTTL(n int64) error {
	if n == cache.NeverExpires || n > 0 {
		return nil
	}
	return fmt.Errorf("defaultTtlSeconds must be -1 or a positive number of seconds, got %d", n)
}

// Keys lists the names SetField accepts.
var Keys = []string{"format", "dir", "defaultTtlSeconds", "clearRandomly", "neverClearAll", "deleteExpiredOnRead"}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "format":
		if value != "text" && value != "json" && value != "markdown" {
			return fmt.Errorf("format must be text, json, or markdown, got %q", value)
		}
		cfg.Format = value
	case "dir":
		cfg.Cache.Dir = value
	case "defaultTtlSeconds":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("defaultTtlSeconds must be an integer: %w", err)
		}
		if err := validateTTL(n); err != nil {
			return err
		}
		cfg.Cache.DefaultTTLSeconds = n
	case "clearRandomly", "neverClearAll", "deleteExpiredOnRead":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s must be a boolean: %w", key, err)
		}
		switch key {
		case "clearRandomly":
			cfg.Cache.ClearRandomly = b
		case "neverClearAll":
			cfg.Cache.NeverClearAll = b
		default:
			cfg.Cache.DeleteExpiredOnRead = b
		}
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
