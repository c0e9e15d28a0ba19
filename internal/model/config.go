package model

import "time"

// Config holds all billhist settings. Field tags serve both the YAML file
// and viper's unmarshalling.
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Source       SourceConfig       `yaml:"source" mapstructure:"source"`
	Store        StoreConfig        `yaml:"store" mapstructure:"store"`
	Logging      LoggingConfig      `yaml:"logging" mapstructure:"logging"`
}

// HTTPConfig configures document fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// RateLimitingConfig configures per-host request pacing
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig configures the fetched-page cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// SourceConfig describes where the legislature publishes its pages.
// Patterns accept {base}, {year}, {prefix}, {house} and {number}.
type SourceConfig struct {
	BaseURL          string `yaml:"base_url" mapstructure:"base_url"`
	SessionsURL      string `yaml:"sessions_url" mapstructure:"sessions_url"`
	PrimaryPattern   string `yaml:"primary_pattern" mapstructure:"primary_pattern"`
	SecondaryPattern string `yaml:"secondary_pattern" mapstructure:"secondary_pattern"`
}

// StoreConfig selects the persistence backend
type StoreConfig struct {
	Driver string `yaml:"driver" mapstructure:"driver"` // sqlite or json
	Path   string `yaml:"path" mapstructure:"path"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // json or console
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "billhist/0.1 (+https://github.com/ppiankov/billhist)",
			MaxBodyBytes:  4_000_000,
			RespectRobots: true,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         1,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "~/.billhist/cache",
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Source: SourceConfig{
			BaseURL:          "http://www.legis.state.wi.us",
			SessionsURL:      "http://www.legis.state.wi.us/",
			PrimaryPattern:   "{base}/{year}/data/{prefix}{house}B{number}hst.html",
			SecondaryPattern: "{base}/{year}/{prefix}/data/{house}B{number}hst.html",
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "~/.billhist/bills.db",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
