package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/idp-analytics/identity-reports/internal/core/funnel"
	"github.com/idp-analytics/identity-reports/internal/core/report"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Report fragment sources.
const (
	SourceHTTP       = "http"
	SourceFileSystem = "filesystem"
	SourcePostgres   = "postgres"
)

// Config represents the top-level application config plus the resolved funnel definition.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Reports  ReportsConfig  `koanf:"reports"`
	Funnel   FunnelConfig   `koanf:"funnel"`
	Database DatabaseConfig `koanf:"database"`
	Archive  ArchiveConfig  `koanf:"archive"`

	// Definition is populated by Load from Funnel.DefinitionPath.
	Definition funnel.Definition `koanf:"-"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

type ReportsConfig struct {
	Source         string        `koanf:"source"` // http | filesystem | postgres
	BaseURL        string        `koanf:"base_url"`
	RootDir        string        `koanf:"root_dir"`
	Env            string        `koanf:"env"`
	FetchTimeout   time.Duration `koanf:"fetch_timeout"`
	MaxConcurrency int           `koanf:"max_concurrency"`
	CacheSize      int           `koanf:"cache_size"` // 0 disables the fragment cache
}

type FunnelConfig struct {
	DefinitionPath string `koanf:"definition_path"`
}

type DatabaseConfig struct {
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	MaxIdleConns int    `koanf:"max_idle_conns"`
	AutoMigrate  bool   `koanf:"auto_migrate"`
}

type ArchiveConfig struct {
	Enabled      bool          `koanf:"enabled"`
	Interval     time.Duration `koanf:"interval"`
	Reports      []string      `koanf:"reports"`
	LookbackDays int           `koanf:"lookback_days"`
}

// NeedsDatabase reports whether any configured component talks to postgres.
func (c *Config) NeedsDatabase() bool {
	return c.Reports.Source == SourcePostgres || c.Archive.Enabled
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	switch c.Reports.Source {
	case SourceHTTP:
		u, err := url.Parse(c.Reports.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid reports.base_url %q", c.Reports.BaseURL)
		}
	case SourceFileSystem:
		if strings.TrimSpace(c.Reports.RootDir) == "" {
			return fmt.Errorf("reports.root_dir is required")
		}
		if _, err := os.Stat(c.Reports.RootDir); err != nil {
			return fmt.Errorf("reports.root_dir %q is not accessible: %w", c.Reports.RootDir, err)
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("unsupported reports.source %q", c.Reports.Source)
	}
	if strings.TrimSpace(c.Reports.Env) == "" {
		return fmt.Errorf("reports.env is required")
	}
	if err := report.ValidateEnv(c.Reports.Env); err != nil {
		return fmt.Errorf("reports.env: %w", err)
	}
	if c.Reports.FetchTimeout <= 0 {
		return fmt.Errorf("reports.fetch_timeout must be > 0")
	}
	if c.Reports.MaxConcurrency <= 0 {
		return fmt.Errorf("reports.max_concurrency must be > 0")
	}
	if c.Reports.CacheSize < 0 {
		return fmt.Errorf("reports.cache_size must be >= 0")
	}

	if c.NeedsDatabase() {
		if strings.TrimSpace(c.Database.DSN) == "" {
			return fmt.Errorf("database.dsn is required")
		}
		if c.Database.MaxOpenConns <= 0 {
			return fmt.Errorf("database.max_open_conns must be > 0")
		}
		if c.Database.MaxIdleConns <= 0 {
			return fmt.Errorf("database.max_idle_conns must be > 0")
		}
	}

	if c.Archive.Enabled {
		if c.Reports.Source == SourcePostgres {
			return fmt.Errorf("archive requires a reports.source other than postgres")
		}
		if c.Archive.Interval <= 0 {
			return fmt.Errorf("archive.interval must be > 0")
		}
		if c.Archive.LookbackDays <= 0 {
			return fmt.Errorf("archive.lookback_days must be > 0")
		}
		if len(c.Archive.Reports) == 0 {
			return fmt.Errorf("archive.reports must name at least one report")
		}
	}

	return nil
}

// Load parses config from defaults, file and env, validates it, then loads the funnel definition.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":             8080,
		"server.host":             "0.0.0.0",
		"server.mode":             "release",
		"reports.source":          SourceHTTP,
		"reports.base_url":        "https://data.login.gov",
		"reports.root_dir":        "",
		"reports.env":             report.DefaultEnv,
		"reports.fetch_timeout":   "30s",
		"reports.max_concurrency": 8,
		"reports.cache_size":      512,
		"funnel.definition_path":  "",
		"database.dsn":            "",
		"database.max_open_conns": 10,
		"database.max_idle_conns": 10,
		"database.auto_migrate":   true,
		"archive.enabled":         false,
		"archive.interval":        "1h",
		"archive.reports":         []string{report.DailyAuths, report.DailyDropoffs},
		"archive.lookback_days":   7,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("IDR_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "IDR_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	def, err := funnel.LoadDefinition(cfg.Funnel.DefinitionPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load funnel definition: %w", err)
	}
	cfg.Definition = def

	return &cfg, nil
}
