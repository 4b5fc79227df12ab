// Package config loads the pacer configuration from a YAML (or JSON) file,
// a .env file and PACER_* environment variables, in that order of precedence
// (later wins).
package config

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no explicit path is given. It may be absent.
const DefaultPath = "pacer.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PACER_"

// Store kinds.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// MCP transports.
const (
	TransportStdio = "stdio"
	TransportSSE   = "sse"
)

// Config is the resolved configuration.
type Config struct {
	LogLevel      string      `yaml:"log_level" json:"log_level"`
	TimeScale     float64     `yaml:"time_scale" json:"time_scale"`
	WorkspaceRoot string      `yaml:"workspace_root" json:"workspace_root"`
	Seed          uint64      `yaml:"seed" json:"seed"`
	MaxInputSize  int         `yaml:"max_input_size" json:"max_input_size"`
	HTTP          HTTPConfig  `yaml:"http" json:"http"`
	MCP           MCPConfig   `yaml:"mcp" json:"mcp"`
	Store         StoreConfig `yaml:"store" json:"store"`
}

// HTTPConfig configures the HTTP adapter.
type HTTPConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// MCPConfig configures the MCP adapter.
type MCPConfig struct {
	Transport string `yaml:"transport" json:"transport"`
	Port      int    `yaml:"port" json:"port"`
}

// StoreConfig selects where hosts keep conversation history.
type StoreConfig struct {
	Kind      string        `yaml:"kind" json:"kind"`
	RedisAddr string        `yaml:"redis_addr" json:"redis_addr"`
	Prefix    string        `yaml:"prefix" json:"prefix"`
	TTL       time.Duration `yaml:"ttl" json:"ttl"`
	// Redact lists regular expressions masked in every stored turn.
	Redact []string `yaml:"redact" json:"redact"`
	// EncryptionKey is a base64 AES-256 key. When set, stored turns are encrypted.
	EncryptionKey string `yaml:"encryption_key" json:"encryption_key"`
	// FallbackKeys are older base64 keys still accepted for decryption.
	FallbackKeys []string `yaml:"fallback_keys" json:"fallback_keys"`
}

// Keys decodes the encryption keys. Active is nil when encryption is off.
func (s StoreConfig) Keys() (active []byte, fallback [][]byte, err error) {
	if s.EncryptionKey == "" {
		return nil, nil, nil
	}
	if active, err = decodeKey(s.EncryptionKey); err != nil {
		return nil, nil, fmt.Errorf("store.encryption_key: %w", err)
	}
	for i, k := range s.FallbackKeys {
		key, err := decodeKey(k)
		if err != nil {
			return nil, nil, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		fallback = append(fallback, key)
	}
	return active, fallback, nil
}

func decodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must decode to 32 bytes, got %d", len(key))
	}
	return key, nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:     "info",
		TimeScale:    1,
		MaxInputSize: 4096,
		HTTP:         HTTPConfig{Addr: ":8080"},
		MCP:          MCPConfig{Transport: TransportStdio, Port: 8081},
		Store: StoreConfig{
			Kind:      StoreMemory,
			RedisAddr: "localhost:6379",
			Prefix:    "pacer:",
		},
	}
}

// Load resolves the configuration. An empty path reads DefaultPath if it
// exists; an explicit path must exist. A .env file in the working directory
// is loaded into the environment without overriding variables already set.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := cfg.loadFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides fields from PACER_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := get("WORKSPACE"); ok {
		c.WorkspaceRoot = v
	}
	if v, ok := get("HTTP_ADDR"); ok {
		c.HTTP.Addr = v
	}
	if v, ok := get("MCP_TRANSPORT"); ok {
		c.MCP.Transport = v
	}
	if v, ok := get("STORE"); ok {
		c.Store.Kind = v
	}
	if v, ok := get("REDIS_ADDR"); ok {
		c.Store.RedisAddr = v
	}
	if v, ok := get("STORE_PREFIX"); ok {
		c.Store.Prefix = v
	}
	if v, ok := get("STORE_ENCRYPTION_KEY"); ok {
		c.Store.EncryptionKey = v
	}
	if v, ok := get("STORE_REDACT"); ok {
		c.Store.Redact = strings.Split(v, ",")
	}

	var errs []error
	if v, ok := get("TIME_SCALE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		errs = append(errs, envErr("TIME_SCALE", err))
		c.TimeScale = f
	}
	if v, ok := get("SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		errs = append(errs, envErr("SEED", err))
		c.Seed = n
	}
	if v, ok := get("MAX_INPUT_SIZE"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envErr("MAX_INPUT_SIZE", err))
		c.MaxInputSize = n
	}
	if v, ok := get("MCP_PORT"); ok {
		n, err := strconv.Atoi(v)
		errs = append(errs, envErr("MCP_PORT", err))
		c.MCP.Port = n
	}
	if v, ok := get("STORE_TTL"); ok {
		d, err := time.ParseDuration(v)
		errs = append(errs, envErr("STORE_TTL", err))
		c.Store.TTL = d
	}
	return errors.Join(errs...)
}

func envErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s%s: %w", EnvPrefix, name, err)
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if c.TimeScale < 0 {
		errs = append(errs, fmt.Errorf("time_scale must not be negative, got %v", c.TimeScale))
	}
	if c.MaxInputSize <= 0 {
		errs = append(errs, fmt.Errorf("max_input_size must be positive, got %d", c.MaxInputSize))
	}
	switch c.Store.Kind {
	case StoreMemory:
	case StoreRedis:
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("store.redis_addr is required for the redis store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.kind %q", c.Store.Kind))
	}
	if c.Store.TTL < 0 {
		errs = append(errs, errors.New("store.ttl must not be negative"))
	}
	if _, _, err := c.Store.Keys(); err != nil {
		errs = append(errs, err)
	}
	for _, p := range c.Store.Redact {
		if _, err := regexp.Compile(p); err != nil {
			errs = append(errs, fmt.Errorf("store.redact %q: %w", p, err))
		}
	}
	switch c.MCP.Transport {
	case TransportStdio, TransportSSE:
	default:
		errs = append(errs, fmt.Errorf("unknown mcp.transport %q", c.MCP.Transport))
	}
	return errors.Join(errs...)
}
