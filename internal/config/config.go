// Package config loads textkit settings from an optional YAML file and
// TEXTKIT_* environment variables.
package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TEXTKIT_"

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "textkit.yaml"

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config is the full application configuration.
type Config struct {
	LogLevel     string       `mapstructure:"log_level"`
	MaxInputSize int          `mapstructure:"max_input_size"`
	Rules        RulesConfig  `mapstructure:"rules"`
	Crypto       CryptoConfig `mapstructure:"crypto"`
	Cache        CacheConfig  `mapstructure:"cache"`
	Server       ServerConfig `mapstructure:"server"`
	Batch        BatchConfig  `mapstructure:"batch"`
}

type RulesConfig struct {
	MaxPerChain int           `mapstructure:"max_per_chain"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Disabled    []string      `mapstructure:"disabled"`
}

type CryptoConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	KeyDir  string `mapstructure:"key_dir"`
	KeyBits int    `mapstructure:"key_bits"`
}

type CacheConfig struct {
	Backend       string        `mapstructure:"backend"`
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
	Size          int           `mapstructure:"size"`
	MaxValueSize  int           `mapstructure:"max_value_size"`
	SkipPII       bool          `mapstructure:"skip_pii"`
	// EncryptionKey is a base64 AES-256 key; when set, cached values are
	// encrypted at rest.
	EncryptionKey string `mapstructure:"encryption_key"`
}

type ServerConfig struct {
	Addr      string   `mapstructure:"addr"`
	DenyRules []string `mapstructure:"deny_rules"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		MaxInputSize: 10_000_000,
		Rules: RulesConfig{
			MaxPerChain: 64,
			Timeout:     30 * time.Second,
		},
		Crypto: CryptoConfig{
			KeyDir:  defaultKeyDir(),
			KeyBits: 2048,
		},
		Cache: CacheConfig{
			Backend:      CacheNone,
			RedisAddr:    "localhost:6379",
			TTL:          10 * time.Minute,
			Size:         1024,
			MaxValueSize: 1 << 20,
			SkipPII:      true,
		},
		Server: ServerConfig{
			Addr:      ":8080",
			DenyRules: []string{"dec"},
		},
		Batch: BatchConfig{
			Workers: 4,
		},
	}
}

func defaultKeyDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "textkit", "keys")
	}
	return ".textkit/keys"
}

// Load reads path (or DefaultFile when path is empty and the file exists),
// overlays environment variables and validates the result.
func Load(path string) (*Config, error) {
	raw := map[string]any{}

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if raw == nil {
			raw = map[string]any{}
		}
	}

	overlayEnv(raw, os.Environ())

	cfg := Default()
	if err := decode(raw, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(raw map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		ZeroFields:       true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// overlayEnv copies TEXTKIT_SECTION_KEY variables into raw. The first
// underscore-separated word selects a section when one of that name exists.
func overlayEnv(raw map[string]any, environ []string) {
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
		section, field, nested := strings.Cut(key, "_")
		if nested && slices.Contains(sections, section) {
			sub, _ := raw[section].(map[string]any)
			if sub == nil {
				sub = map[string]any{}
				raw[section] = sub
			}
			sub[field] = value
			continue
		}
		if slices.Contains(topLevel, key) {
			raw[key] = value
		}
	}
}

var (
	sections = []string{"rules", "crypto", "cache", "server", "batch"}
	topLevel = []string{"log_level", "max_input_size"}
)

// Validate reports the first inconsistent setting.
func (c *Config) Validate() error {
	var errs []error
	if c.MaxInputSize < 0 {
		errs = append(errs, errors.New("max_input_size must not be negative"))
	}
	if c.Rules.MaxPerChain < 0 {
		errs = append(errs, errors.New("rules.max_per_chain must not be negative"))
	}
	if c.Crypto.KeyBits != 0 && c.Crypto.KeyBits < 1024 {
		errs = append(errs, fmt.Errorf("crypto.key_bits %d is too small", c.Crypto.KeyBits))
	}
	switch c.Cache.Backend {
	case "", CacheNone, CacheMemory, CacheRedis:
	default:
		errs = append(errs, fmt.Errorf("unknown cache.backend %q", c.Cache.Backend))
	}
	if c.Cache.EncryptionKey != "" {
		if _, err := c.Cache.Key(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.Batch.Workers < 0 {
		errs = append(errs, errors.New("batch.workers must not be negative"))
	}
	return errors.Join(errs...)
}

// Key decodes EncryptionKey. It returns nil when no key is configured.
func (c CacheConfig) Key() ([]byte, error) {
	if c.EncryptionKey == "" {
		return nil, nil
	}
	key, err := base64.StdEncoding.DecodeString(c.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("cache.encryption_key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("cache.encryption_key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}
