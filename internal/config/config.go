package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// APIKeyEnv is the environment variable holding the provider API key.
// The key is never stored in the config file itself.
const APIKeyEnv = "NEWSDESK_API_KEY"

type APIConfig struct {
	BaseURL  string `yaml:"base_url"`
	Language string `yaml:"language"`
	Timeout  string `yaml:"timeout"`
}

type HeadlinesConfig struct {
	PerSource   int `yaml:"per_source"`
	MaxPageSize int `yaml:"max_page_size"`
	MinPageSize int `yaml:"min_page_size"`
}

type ThumbnailsConfig struct {
	MaxDimension int `yaml:"max_dimension"`
}

type Config struct {
	API        APIConfig        `yaml:"api"`
	Headlines  HeadlinesConfig  `yaml:"headlines"`
	Thumbnails ThumbnailsConfig `yaml:"thumbnails"`
}

// APIKey returns the provider key from the environment. Load also reads a
// .env file next to the config, so the key can live outside the shell profile.
func (c *Config) APIKey() string {
	return os.Getenv(APIKeyEnv)
}

func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

func (c *Config) Language() string {
	if c.API.Language == "" {
		return "en"
	}
	return c.API.Language
}

// PerSource is how many articles are requested per selected source.
func (c *Config) PerSource() int {
	if c.Headlines.PerSource <= 0 {
		return 10
	}
	return c.Headlines.PerSource
}

// MaxPageSize caps the pageSize query parameter regardless of selection size.
func (c *Config) MaxPageSize() int {
	if c.Headlines.MaxPageSize <= 0 {
		return 50
	}
	return c.Headlines.MaxPageSize
}

// MinPageSize is the pageSize floor used when no sources are selected.
func (c *Config) MinPageSize() int {
	if c.Headlines.MinPageSize <= 0 {
		return 10
	}
	return c.Headlines.MinPageSize
}

func (c *Config) ThumbnailMaxDimension() int {
	if c.Thumbnails.MaxDimension < 0 {
		return 0
	}
	return c.Thumbnails.MaxDimension
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsdesk", "config.yaml")
}

func StorePath() string {
	return filepath.Join(xdg.CacheHome, "newsdesk", "newsdesk.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	// A .env next to the config may carry NEWSDESK_API_KEY. A missing file
	// is fine; the key can also come from the environment directly.
	godotenv.Load(filepath.Join(filepath.Dir(path), ".env"))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("api.base_url: invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api.base_url: scheme must be http or https, got %q", u.Scheme)
	}
	if cfg.Headlines.PerSource < 0 {
		return fmt.Errorf("headlines.per_source must not be negative")
	}
	if cfg.Headlines.MaxPageSize < 0 {
		return fmt.Errorf("headlines.max_page_size must not be negative")
	}
	if cfg.Headlines.MinPageSize > cfg.MaxPageSize() {
		return fmt.Errorf("headlines.min_page_size must not exceed max_page_size")
	}
	return nil
}
