package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	BaseURL          string
	CacheDir         string
	DBPath           string
	SessionPath      string
	LogPath          string
	LogLevel         string
	SignReplies      bool
	ThreadTTL        time.Duration
	UserTTL          time.Duration
	MonitorInterval  time.Duration
	MonitorBatch     int
	FetchConcurrency int
	HistorySize      int
}

// fileConfig mirrors the optional config.yaml. Zero values leave the
// defaults untouched.
type fileConfig struct {
	BaseURL          string `yaml:"base_url"`
	LogLevel         string `yaml:"log_level"`
	SignReplies      *bool  `yaml:"sign_replies"`
	ThreadTTL        string `yaml:"thread_ttl"`
	UserTTL          string `yaml:"user_ttl"`
	MonitorInterval  string `yaml:"monitor_interval"`
	MonitorBatch     int    `yaml:"monitor_batch"`
	FetchConcurrency int    `yaml:"fetch_concurrency"`
	HistorySize      int    `yaml:"history_size"`
}

func Default() Config {
	return withCacheDir(Config{
		BaseURL:          "https://ecchi.iwara.tv",
		LogLevel:         "info",
		SignReplies:      true,
		ThreadTTL:        5 * time.Minute,
		UserTTL:          1 * time.Hour,
		MonitorInterval:  2 * time.Minute,
		MonitorBatch:     10,
		FetchConcurrency: 4,
		HistorySize:      100,
	}, filepath.Join(userConfigDir(), "iwaraterm"))
}

func withCacheDir(cfg Config, dir string) Config {
	cfg.CacheDir = dir
	cfg.DBPath = filepath.Join(dir, "cache.db")
	cfg.SessionPath = filepath.Join(dir, "session.json")
	cfg.LogPath = filepath.Join(dir, "debug.log")
	return cfg
}

// Load builds the effective configuration: defaults, then .env files,
// then config.yaml in the cache dir, then IWARA_* environment variables.
func Load() (Config, error) {
	cfg := Default()

	// godotenv never overrides variables that are already set.
	_ = godotenv.Load(".env")
	if dir := os.Getenv("IWARA_CACHE_DIR"); dir != "" {
		cfg = withCacheDir(cfg, dir)
	}
	_ = godotenv.Load(filepath.Join(cfg.CacheDir, ".env"))

	if err := cfg.loadFile(filepath.Join(cfg.CacheDir, "config.yaml")); err != nil {
		return Config{}, err
	}
	if err := cfg.loadEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if fc.BaseURL != "" {
		c.BaseURL = fc.BaseURL
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.SignReplies != nil {
		c.SignReplies = *fc.SignReplies
	}
	for _, d := range []struct {
		raw string
		dst *time.Duration
		key string
	}{
		{fc.ThreadTTL, &c.ThreadTTL, "thread_ttl"},
		{fc.UserTTL, &c.UserTTL, "user_ttl"},
		{fc.MonitorInterval, &c.MonitorInterval, "monitor_interval"},
	} {
		if d.raw == "" {
			continue
		}
		v, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", d.key, err)
		}
		*d.dst = v
	}
	if fc.MonitorBatch > 0 {
		c.MonitorBatch = fc.MonitorBatch
	}
	if fc.FetchConcurrency > 0 {
		c.FetchConcurrency = fc.FetchConcurrency
	}
	if fc.HistorySize > 0 {
		c.HistorySize = fc.HistorySize
	}
	return nil
}

func (c *Config) loadEnv() error {
	if v := os.Getenv("IWARA_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("IWARA_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("IWARA_SIGN_REPLIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid IWARA_SIGN_REPLIES: %w", err)
		}
		c.SignReplies = b
	}
	if v := os.Getenv("IWARA_MONITOR_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid IWARA_MONITOR_INTERVAL: %w", err)
		}
		c.MonitorInterval = d
	}
	return nil
}

// Validate checks the values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "https" && u.Scheme != "http") {
		return fmt.Errorf("invalid base url %q: must be an absolute http(s) URL", c.BaseURL)
	}
	c.BaseURL = strings.TrimRight(u.String(), "/")
	if c.MonitorInterval <= 0 {
		return fmt.Errorf("monitor interval must be positive, got %s", c.MonitorInterval)
	}
	if c.ThreadTTL < 0 || c.UserTTL < 0 {
		return fmt.Errorf("cache TTLs cannot be negative")
	}
	if c.FetchConcurrency < 1 {
		c.FetchConcurrency = 1
	}
	return nil
}

func userConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}
