package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Service.BaseURL != ServiceBaseURL {
		t.Errorf("base url = %q, want %q", cfg.Service.BaseURL, ServiceBaseURL)
	}
	if cfg.UI.ErrorBannerDuration != 6*time.Second {
		t.Errorf("banner duration = %v, want 6s", cfg.UI.ErrorBannerDuration)
	}
	if cfg.UI.DefaultTopK != 3 {
		t.Errorf("default top_k = %d, want 3", cfg.UI.DefaultTopK)
	}
}

func TestLoad_FileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docqa.yaml")
	body := []byte(`
service:
  base_url: http://qa.internal:9000/api
  timeout: 5s
ui:
  default_top_k: 7
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOCQA_UI_DEFAULT_TOP_K", "9")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Service.BaseURL != "http://qa.internal:9000/api" {
		t.Errorf("base url = %q", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Service.Timeout)
	}
	if cfg.UI.DefaultTopK != 9 {
		t.Errorf("env should win: top_k = %d, want 9", cfg.UI.DefaultTopK)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		ok     bool
	}{
		{"defaults", func(c *Config) {}, true},
		{"ftp base url", func(c *Config) { c.Service.BaseURL = "ftp://x" }, false},
		{"zero top_k", func(c *Config) { c.UI.DefaultTopK = 0 }, false},
		{"zero workers", func(c *Config) { c.UI.MaxUploadWorkers = 0 }, false},
		{"zero banner", func(c *Config) { c.UI.ErrorBannerDuration = 0 }, false},
		{"zero health timeout", func(c *Config) { c.UI.HealthTimeout = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(&c)
			err := c.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() err = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
