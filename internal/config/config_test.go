package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.Model != "gpt-4o-mini" {
		t.Errorf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.TimeoutSecs != 30 {
		t.Errorf("AI.TimeoutSecs = %d", cfg.AI.TimeoutSecs)
	}
	if cfg.Scan.DelaySecs != 2 {
		t.Errorf("Scan.DelaySecs = %d", cfg.Scan.DelaySecs)
	}
	if cfg.Dedup.Store != "file" {
		t.Errorf("Dedup.Store = %q", cfg.Dedup.Store)
	}
	if !cfg.AssumeFuture() {
		t.Error("AssumeFuture should default to true")
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
source:
  type: rss
  feeds:
    - https://example.edu/events.xml
sync:
  backend_url: https://hive.example.edu
  api_key: sekrit
extraction:
  assume_future: false
scan:
  delay_secs: 5
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source.Type != "rss" || len(cfg.Source.Feeds) != 1 {
		t.Errorf("Source = %+v", cfg.Source)
	}
	if cfg.Sync.BackendURL != "https://hive.example.edu" {
		t.Errorf("BackendURL = %q", cfg.Sync.BackendURL)
	}
	if cfg.AssumeFuture() {
		t.Error("AssumeFuture should be false when set explicitly")
	}
	if cfg.Scan.DelaySecs != 5 {
		t.Errorf("DelaySecs = %d", cfg.Scan.DelaySecs)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := writeConfig(t, "source: [not: valid")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("HIVE_BACKEND_URL", "https://env.example.edu")
	t.Setenv("SCRAPER_API_KEY", "env-sync-key")
	t.Setenv("HIVE_SCAN_DELAY_SECS", "9")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AI.APIKey != "env-key" {
		t.Errorf("AI.APIKey = %q", cfg.AI.APIKey)
	}
	if cfg.Sync.BackendURL != "https://env.example.edu" {
		t.Errorf("BackendURL = %q", cfg.Sync.BackendURL)
	}
	if cfg.Sync.APIKey != "env-sync-key" || cfg.Server.APIKey != "env-sync-key" {
		t.Errorf("APIKeys = %q / %q", cfg.Sync.APIKey, cfg.Server.APIKey)
	}
	if cfg.Scan.DelaySecs != 9 {
		t.Errorf("DelaySecs = %d", cfg.Scan.DelaySecs)
	}
}

func TestValidateScan(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		dryRun  bool
		wantErr bool
	}{
		{
			name:   "complete",
			mutate: func(c *Config) {},
		},
		{
			name: "missing backend URL halts the run",
			mutate: func(c *Config) {
				c.Sync.BackendURL = ""
			},
			wantErr: true,
		},
		{
			name: "dry run needs no backend",
			mutate: func(c *Config) {
				c.Sync.BackendURL = ""
				c.Sync.APIKey = ""
			},
			dryRun: true,
		},
		{
			name: "missing source path",
			mutate: func(c *Config) {
				c.Source.Path = ""
			},
			wantErr: true,
		},
		{
			name: "unknown source type",
			mutate: func(c *Config) {
				c.Source.Type = "carrier-pigeon"
			},
			wantErr: true,
		},
		{
			name: "redis store without addr",
			mutate: func(c *Config) {
				c.Dedup.Store = "redis"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			cfg.Source.Path = "posts.json"
			cfg.Sync.BackendURL = "https://hive.example.edu"
			cfg.Sync.APIKey = "k"
			tt.mutate(cfg)

			err = cfg.ValidateScan(tt.dryRun)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScan() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateServer(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.ValidateServer(); err == nil {
		t.Error("expected error for missing server API key")
	}
	cfg.Server.APIKey = "k"
	if err := cfg.ValidateServer(); err != nil {
		t.Errorf("ValidateServer: %v", err)
	}
}
