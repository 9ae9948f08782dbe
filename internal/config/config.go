package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile  = "config.yaml"
	DefaultProfileFile = "signal.yaml"
	DefaultConfigDir   = ".moltsignal"
	DefaultBaseURL     = "https://www.moltbook.com/api/v1"
	DefaultAPIKeyEnv   = "MOLTBOOK_API_KEY"
	DefaultFeedLimit   = 100
	DefaultFeedSort    = "new"
	DefaultFeedTimeout = 30 * time.Second
	DefaultAddr        = ":8080"
	DefaultSignalPath  = "/api/signal"
	DefaultPostURLBase = "https://www.moltbook.com/post/"
)

// Duration wraps time.Duration for YAML unmarshaling from strings like "30s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

type Config struct {
	Feed   FeedConfig   `yaml:"feed"`
	Server ServerConfig `yaml:"server"`
}

type FeedConfig struct {
	BaseURL   string   `yaml:"base_url"`
	APIKeyEnv string   `yaml:"api_key_env"`
	Limit     int      `yaml:"limit"`
	Sort      string   `yaml:"sort"`
	Timeout   Duration `yaml:"timeout"`

	// Resolved from env var at load time.
	APIKey string `yaml:"-"`
}

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	SignalPath  string `yaml:"signal_path"`
	PostURLBase string `yaml:"post_url_base"`
}

// Load reads config.yaml from dir, applies defaults, resolves env vars, and validates.
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("config dir is required")
	}

	path := filepath.Join(dir, DefaultConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	resolveEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Feed.BaseURL == "" {
		cfg.Feed.BaseURL = DefaultBaseURL
	}
	if cfg.Feed.APIKeyEnv == "" {
		cfg.Feed.APIKeyEnv = DefaultAPIKeyEnv
	}
	if cfg.Feed.Limit == 0 {
		cfg.Feed.Limit = DefaultFeedLimit
	}
	if cfg.Feed.Sort == "" {
		cfg.Feed.Sort = DefaultFeedSort
	}
	if cfg.Feed.Timeout.Duration == 0 {
		cfg.Feed.Timeout.Duration = DefaultFeedTimeout
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
	if cfg.Server.SignalPath == "" {
		cfg.Server.SignalPath = DefaultSignalPath
	}
	if cfg.Server.PostURLBase == "" {
		cfg.Server.PostURLBase = DefaultPostURLBase
	}
}

func resolveEnv(cfg *Config) {
	cfg.Feed.APIKey = os.Getenv(cfg.Feed.APIKeyEnv)
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Feed.BaseURL)
	if err != nil {
		return fmt.Errorf("feed.base_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("feed.base_url: unsupported scheme %q (want http or https)", u.Scheme)
	}
	if cfg.Feed.Limit < 1 || cfg.Feed.Limit > DefaultFeedLimit {
		return fmt.Errorf("feed.limit: %d out of range (1-%d)", cfg.Feed.Limit, DefaultFeedLimit)
	}
	if cfg.Feed.Timeout.Duration < 0 {
		return fmt.Errorf("feed.timeout: must not be negative")
	}
	if !strings.HasPrefix(cfg.Server.SignalPath, "/") {
		return fmt.Errorf("server.signal_path: %q must start with /", cfg.Server.SignalPath)
	}
	if cfg.Server.SignalPath == "/" || cfg.Server.SignalPath == "/health" {
		return fmt.Errorf("server.signal_path: %q is reserved", cfg.Server.SignalPath)
	}
	return nil
}
