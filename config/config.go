package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Directory DirectoryConfig `yaml:"directory"`
	Engine    EngineConfig    `yaml:"engine"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// DirectoryConfig points at the member directory service used for display names.
type DirectoryConfig struct {
	BaseURL         string        `yaml:"base_url"`
	TimeoutSeconds  int           `yaml:"timeout_seconds"`
	Timeout         time.Duration `yaml:"-"` // Ignored by YAML parser
	CacheTTLSeconds int           `yaml:"cache_ttl_seconds"`
}

// EngineConfig exposes the fairness engine constants. Deployments tune them
// here, never in code.
type EngineConfig struct {
	PenaltyFactor             float64 `yaml:"penalty_factor"`
	PriorityThreshold         float64 `yaml:"priority_threshold"`
	ImbalanceThreshold        float64 `yaml:"imbalance_threshold"`
	CancellationRateThreshold float64 `yaml:"cancellation_rate_threshold"`
	GroupCriticalBelow        float64 `yaml:"group_critical_below"`
	GroupHealthyAbove         float64 `yaml:"group_healthy_above"`
	DefaultBookingHours       float64 `yaml:"default_booking_hours"`
	MinWindowHours            float64 `yaml:"min_window_hours"`
	MaxAlternatives           int     `yaml:"max_alternatives"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 60
	}

	if cfg.Directory.TimeoutSeconds <= 0 {
		cfg.Directory.TimeoutSeconds = 10
	}
	cfg.Directory.Timeout = time.Duration(cfg.Directory.TimeoutSeconds) * time.Second
	if cfg.Directory.CacheTTLSeconds <= 0 {
		cfg.Directory.CacheTTLSeconds = 300
	}

	if cfg.Engine.PenaltyFactor <= 0 {
		cfg.Engine.PenaltyFactor = 2.0
	}
	if cfg.Engine.PriorityThreshold <= 0 {
		cfg.Engine.PriorityThreshold = 5.0
	}
	if cfg.Engine.ImbalanceThreshold <= 0 {
		cfg.Engine.ImbalanceThreshold = 15.0
	}
	if cfg.Engine.CancellationRateThreshold <= 0 {
		cfg.Engine.CancellationRateThreshold = 0.30
	}
	if cfg.Engine.GroupCriticalBelow <= 0 {
		cfg.Engine.GroupCriticalBelow = 70.0
	}
	if cfg.Engine.GroupHealthyAbove <= 0 {
		cfg.Engine.GroupHealthyAbove = 90.0
	}
	if cfg.Engine.DefaultBookingHours <= 0 {
		cfg.Engine.DefaultBookingHours = 2.0
	}
	if cfg.Engine.MinWindowHours <= 0 {
		cfg.Engine.MinWindowHours = 0.25
	}
	if cfg.Engine.MaxAlternatives <= 0 {
		cfg.Engine.MaxAlternatives = 3
	}

	return &cfg, nil
}
