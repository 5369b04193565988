// Package config loads pipeline configuration from a YAML file with
// environment-variable overrides. Credentials are never written to the
// config file in deployments; the env override is the expected path.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Source selects where posts come from.
type Source struct {
	Type  string   `yaml:"type"`  // file, html, or rss
	Path  string   `yaml:"path"`  // file: JSON posts, html: saved export
	Club  string   `yaml:"club"`  // club name attributed to sourced posts
	Feeds []string `yaml:"feeds"` // rss: feed URLs
}

// AI configures the primary extraction tier.
type AI struct {
	Endpoint    string `yaml:"endpoint"`
	Model       string `yaml:"model"`
	APIKey      string `yaml:"api_key"`
	TimeoutSecs int    `yaml:"timeout_secs"`
	DefaultYear int    `yaml:"default_year"` // 0 means current year
}

// Extraction tunes the regex fallback tier.
type Extraction struct {
	AssumeFuture *bool `yaml:"assume_future"` // nil means true
}

// Sync points at the backend ingest endpoint.
type Sync struct {
	BackendURL string `yaml:"backend_url"`
	APIKey     string `yaml:"api_key"`
}

// Dedup selects the seen-post store.
type Dedup struct {
	Store         string `yaml:"store"` // file or redis
	DataDir       string `yaml:"data_dir"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	TTLHours      int    `yaml:"ttl_hours"`
}

// Scan tunes batch-run behavior.
type Scan struct {
	DelaySecs   int    `yaml:"delay_secs"`
	MetricsAddr string `yaml:"metrics_addr"` // empty disables the listener
}

// Server configures the backend ingest service.
type Server struct {
	Addr   string `yaml:"addr"`
	DBPath string `yaml:"db_path"`
	APIKey string `yaml:"api_key"`
}

// Config is the full application configuration.
type Config struct {
	Source     Source     `yaml:"source"`
	AI         AI         `yaml:"ai"`
	Extraction Extraction `yaml:"extraction"`
	Sync       Sync       `yaml:"sync"`
	Dedup      Dedup      `yaml:"dedup"`
	Scan       Scan       `yaml:"scan"`
	Server     Server     `yaml:"server"`
}

// Load reads the YAML file at path (missing file is fine), applies env
// overrides, then fills defaults. Validation is separate: the scan and
// server commands require different fields.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("reading config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.AI.APIKey = v
	}
	if v := os.Getenv("HIVE_AI_ENDPOINT"); v != "" {
		cfg.AI.Endpoint = v
	}
	if v := os.Getenv("HIVE_AI_MODEL"); v != "" {
		cfg.AI.Model = v
	}
	if v := os.Getenv("HIVE_BACKEND_URL"); v != "" {
		cfg.Sync.BackendURL = v
	}
	if v := os.Getenv("SCRAPER_API_KEY"); v != "" {
		cfg.Sync.APIKey = v
		if cfg.Server.APIKey == "" {
			cfg.Server.APIKey = v
		}
	}
	if v := os.Getenv("HIVE_REDIS_ADDR"); v != "" {
		cfg.Dedup.Store = "redis"
		cfg.Dedup.RedisAddr = v
	}
	if v := os.Getenv("HIVE_DATA_DIR"); v != "" {
		cfg.Dedup.DataDir = v
	}
	if v := os.Getenv("HIVE_SCAN_DELAY_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Scan.DelaySecs = n
		}
	}
	if v := os.Getenv("HIVE_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("HIVE_DB_PATH"); v != "" {
		cfg.Server.DBPath = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Source.Type == "" {
		cfg.Source.Type = "file"
	}
	if cfg.AI.Endpoint == "" {
		cfg.AI.Endpoint = "https://api.openai.com/v1/chat/completions"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.TimeoutSecs == 0 {
		cfg.AI.TimeoutSecs = 30
	}
	if cfg.Dedup.Store == "" {
		cfg.Dedup.Store = "file"
	}
	if cfg.Dedup.DataDir == "" {
		cfg.Dedup.DataDir = "~/.local/share/hive-events"
	}
	if cfg.Dedup.TTLHours == 0 {
		cfg.Dedup.TTLHours = 24 * 90
	}
	if cfg.Scan.DelaySecs == 0 {
		cfg.Scan.DelaySecs = 2
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":3000"
	}
	if cfg.Server.DBPath == "" {
		cfg.Server.DBPath = "hive.db"
	}
}

// AssumeFuture reports the fallback tier's year-bump setting, defaulting
// to enabled.
func (c *Config) AssumeFuture() bool {
	if c.Extraction.AssumeFuture == nil {
		return true
	}
	return *c.Extraction.AssumeFuture
}

// ValidateScan checks the fields a scan run needs before any post is
// processed. A missing backend URL halts the batch up front unless the
// run is a dry run.
func (c *Config) ValidateScan(dryRun bool) error {
	switch c.Source.Type {
	case "file", "html":
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for source type %q", c.Source.Type)
		}
	case "rss":
		if len(c.Source.Feeds) == 0 {
			return fmt.Errorf("source.feeds is required for source type rss")
		}
	default:
		return fmt.Errorf("unknown source type: %q", c.Source.Type)
	}

	if !dryRun {
		if c.Sync.BackendURL == "" {
			return fmt.Errorf("sync.backend_url is required (or HIVE_BACKEND_URL)")
		}
		if c.Sync.APIKey == "" {
			return fmt.Errorf("sync.api_key is required (or SCRAPER_API_KEY)")
		}
	}

	if c.Dedup.Store == "redis" && c.Dedup.RedisAddr == "" {
		return fmt.Errorf("dedup.redis_addr is required for the redis store")
	}
	return nil
}

// ValidateServer checks the fields the backend service needs.
func (c *Config) ValidateServer() error {
	if c.Server.APIKey == "" {
		return fmt.Errorf("server.api_key is required (or SCRAPER_API_KEY)")
	}
	return nil
}
