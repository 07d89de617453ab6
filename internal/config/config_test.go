package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadDefaults()
	if err != nil {
		t.Fatalf("loadDefaults: %v", err)
	}
	if cfg.API.BaseURL == "" {
		t.Error("expected api.base_url to be set")
	}
	if cfg.Language() != "en" {
		t.Errorf("expected default language en, got %s", cfg.Language())
	}
}

func TestRequestTimeout(t *testing.T) {
	cfg := &Config{API: APIConfig{Timeout: "30s"}}
	if d := cfg.RequestTimeout(); d != 30*time.Second {
		t.Errorf("expected 30s, got %v", d)
	}

	cfg.API.Timeout = "invalid"
	if d := cfg.RequestTimeout(); d != 15*time.Second {
		t.Errorf("expected 15s default for invalid timeout, got %v", d)
	}
}

func TestPageSizePolicy(t *testing.T) {
	tests := []struct {
		name              string
		cfg               HeadlinesConfig
		per, maxPS, minPS int
	}{
		{"zero values fall back", HeadlinesConfig{}, 10, 50, 10},
		{"explicit values win", HeadlinesConfig{PerSource: 5, MaxPageSize: 20, MinPageSize: 2}, 5, 20, 2},
	}
	for _, tt := range tests {
		cfg := &Config{Headlines: tt.cfg}
		if got := cfg.PerSource(); got != tt.per {
			t.Errorf("%s: PerSource = %d, want %d", tt.name, got, tt.per)
		}
		if got := cfg.MaxPageSize(); got != tt.maxPS {
			t.Errorf("%s: MaxPageSize = %d, want %d", tt.name, got, tt.maxPS)
		}
		if got := cfg.MinPageSize(); got != tt.minPS {
			t.Errorf("%s: MinPageSize = %d, want %d", tt.name, got, tt.minPS)
		}
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := `api:
  base_url: https://example.com/v2
  language: de
headlines:
  per_source: 3
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL != "https://example.com/v2" {
		t.Errorf("unexpected base url: %s", cfg.API.BaseURL)
	}
	if cfg.Language() != "de" {
		t.Errorf("expected language de, got %s", cfg.Language())
	}
	if cfg.PerSource() != 3 {
		t.Errorf("expected per_source 3, got %d", cfg.PerSource())
	}
}

func TestLoadNonexistentFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "config.yaml")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.API.BaseURL == "" {
		t.Error("expected default base url when config doesn't exist")
	}
	// Defaults should be written for next run
	if _, err := os.Stat(cfgPath); err != nil {
		t.Errorf("expected defaults written to %s: %v", cfgPath, err)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(APIKeyEnv+"=secret123\n"), 0o600); err != nil {
		t.Fatalf("writing .env: %v", err)
	}
	t.Setenv(APIKeyEnv, "")
	os.Unsetenv(APIKeyEnv)

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.APIKey(); got != "secret123" {
		t.Errorf("expected key from .env, got %q", got)
	}
}

func TestValidateMissingBaseURL(t *testing.T) {
	cfg := &Config{}
	if err := validate(cfg); err == nil {
		t.Error("expected error for missing base_url")
	}
}

func TestValidateInvalidScheme(t *testing.T) {
	cfg := &Config{API: APIConfig{BaseURL: "file:///etc/passwd"}}
	if err := validate(cfg); err == nil {
		t.Error("expected error for file:// base_url")
	}
}

func TestValidateMinAboveMax(t *testing.T) {
	cfg := &Config{
		API:       APIConfig{BaseURL: "https://example.com"},
		Headlines: HeadlinesConfig{MaxPageSize: 20, MinPageSize: 30},
	}
	if err := validate(cfg); err == nil {
		t.Error("expected error for min_page_size > max_page_size")
	}
}
