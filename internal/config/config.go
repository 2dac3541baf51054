package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/MeKo-Tech/scanbridge/internal/engine"
	"github.com/MeKo-Tech/scanbridge/internal/global"
	"github.com/MeKo-Tech/scanbridge/internal/server"
)

// Config represents the complete configuration for the scanbridge binary.
// It is loaded from configuration files, environment variables and
// command-line flags.
type Config struct {
	// Global settings
	LogLevel   string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose    bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	LicenseKey string `mapstructure:"license_key" yaml:"license_key" json:"license_key"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Engine configuration
	Engine EngineConfig `mapstructure:"engine" yaml:"engine" json:"engine"`

	// Process-wide decoder settings
	Global GlobalConfig `mapstructure:"global" yaml:"global" json:"global"`

	// Initial configuration document
	Document DocumentConfig `mapstructure:"document" yaml:"document" json:"document"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string          `mapstructure:"host" yaml:"host" json:"host"`
	Port            int             `mapstructure:"port" yaml:"port" json:"port"`
	ShutdownTimeout int             `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	EventBuffer     int             `mapstructure:"event_buffer" yaml:"event_buffer" json:"event_buffer"`
	AllowedOrigins  []string        `mapstructure:"allowed_origins" yaml:"allowed_origins" json:"allowed_origins"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`
}

// RateLimitConfig contains per-client request limits.
type RateLimitConfig struct {
	Enabled           bool  `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	RequestsPerMinute int   `mapstructure:"requests_per_minute" yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerHour   int   `mapstructure:"requests_per_hour" yaml:"requests_per_hour" json:"requests_per_hour"`
	MaxRequestsPerDay int   `mapstructure:"max_requests_per_day" yaml:"max_requests_per_day" json:"max_requests_per_day"`
	MaxDataPerDay     int64 `mapstructure:"max_data_per_day" yaml:"max_data_per_day" json:"max_data_per_day"`
}

// EngineConfig contains settings for the software scanning engine.
type EngineConfig struct {
	FramesDir       string  `mapstructure:"frames_dir" yaml:"frames_dir" json:"frames_dir"`
	FrameIntervalMs int     `mapstructure:"frame_interval_ms" yaml:"frame_interval_ms" json:"frame_interval_ms"`
	MaxZoomFactor   float64 `mapstructure:"max_zoom_factor" yaml:"max_zoom_factor" json:"max_zoom_factor"`
	FlashAvailable  bool    `mapstructure:"flash_available" yaml:"flash_available" json:"flash_available"`
	ThumbnailSize   int     `mapstructure:"thumbnail_size" yaml:"thumbnail_size" json:"thumbnail_size"`
}

// GlobalConfig contains the process-wide decoder settings.
type GlobalConfig struct {
	ThreadsLimit               int  `mapstructure:"threads_limit" yaml:"threads_limit" json:"threads_limit"`
	MulticodeCachingEnabled    bool `mapstructure:"multicode_caching_enabled" yaml:"multicode_caching_enabled" json:"multicode_caching_enabled"`
	MulticodeCachingDurationMs int  `mapstructure:"multicode_caching_duration_ms" yaml:"multicode_caching_duration_ms" json:"multicode_caching_duration_ms"`
	LogsEnabled                bool `mapstructure:"logs_enabled" yaml:"logs_enabled" json:"logs_enabled"`
}

// DocumentConfig points at a configuration document applied at startup.
type DocumentConfig struct {
	Path  string `mapstructure:"path" yaml:"path" json:"path"`
	Watch bool   `mapstructure:"watch" yaml:"watch" json:"watch"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	g := global.Defaults()
	return Config{
		LogLevel: "info",
		Verbose:  false,
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			ShutdownTimeout: 10,
			EventBuffer:     16,
			AllowedOrigins:  []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           false,
				RequestsPerMinute: 120,
				RequestsPerHour:   3000,
				MaxRequestsPerDay: 20000,
				MaxDataPerDay:     512 << 20,
			},
		},
		Engine: EngineConfig{
			FrameIntervalMs: int(engine.DefaultFrameInterval / time.Millisecond),
			MaxZoomFactor:   engine.DefaultMaxZoom,
			ThumbnailSize:   engine.DefaultThumbnailSize,
		},
		Global: GlobalConfig{
			ThreadsLimit:               g.ThreadsLimit,
			MulticodeCachingEnabled:    g.MulticodeCachingEnabled,
			MulticodeCachingDurationMs: int(g.MulticodeCachingDuration / time.Millisecond),
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("invalid shutdown timeout: %d (must be positive)", c.Server.ShutdownTimeout)
	}
	if c.Server.EventBuffer < 0 {
		return fmt.Errorf("invalid event buffer: %d (must not be negative)", c.Server.EventBuffer)
	}
	rl := c.Server.RateLimit
	if rl.RequestsPerMinute < 0 || rl.RequestsPerHour < 0 || rl.MaxRequestsPerDay < 0 || rl.MaxDataPerDay < 0 {
		return fmt.Errorf("invalid rate limit: limits must not be negative")
	}

	if c.Engine.FrameIntervalMs <= 0 {
		return fmt.Errorf("invalid frame interval: %d (must be positive)", c.Engine.FrameIntervalMs)
	}
	if c.Engine.MaxZoomFactor < 1 {
		return fmt.Errorf("invalid max zoom factor: %g (must be at least 1)", c.Engine.MaxZoomFactor)
	}
	if c.Engine.ThumbnailSize <= 0 {
		return fmt.Errorf("invalid thumbnail size: %d (must be positive)", c.Engine.ThumbnailSize)
	}

	if c.Global.ThreadsLimit < 1 || c.Global.ThreadsLimit > global.MaxThreads {
		return fmt.Errorf("invalid threads limit: %d (must be between 1 and %d)", c.Global.ThreadsLimit, global.MaxThreads)
	}
	if _, err := global.CachingDurationFromMs(int64(c.Global.MulticodeCachingDurationMs)); err != nil {
		return fmt.Errorf("invalid multicode caching duration: %d: %w", c.Global.MulticodeCachingDurationMs, err)
	}

	return nil
}

// ToServerConfig converts the config to the server package format.
func (c *Config) ToServerConfig() server.Config {
	rl := c.Server.RateLimit
	return server.Config{
		Host:           c.Server.Host,
		Port:           c.Server.Port,
		AllowedOrigins: append([]string(nil), c.Server.AllowedOrigins...),
		EventBuffer:    c.Server.EventBuffer,
		RateLimit: server.RateLimitConfig{
			Enabled:           rl.Enabled,
			RequestsPerMinute: rl.RequestsPerMinute,
			RequestsPerHour:   rl.RequestsPerHour,
			MaxRequestsPerDay: rl.MaxRequestsPerDay,
			MaxDataPerDay:     rl.MaxDataPerDay,
		},
	}
}

// ToGlobalValues converts the global section to initial settings values.
func (c *Config) ToGlobalValues() global.Values {
	return global.Values{
		ThreadsLimit:             c.Global.ThreadsLimit,
		MulticodeCachingEnabled:  c.Global.MulticodeCachingEnabled,
		MulticodeCachingDuration: time.Duration(c.Global.MulticodeCachingDurationMs) * time.Millisecond,
		LogsEnabled:              c.Global.LogsEnabled,
	}
}

// ToEngineOptions converts the engine section to engine options. Source and
// backend are left for the caller; Globals is set to g.
func (c *Config) ToEngineOptions(g *global.Settings) engine.Options {
	return engine.Options{
		Globals:        g,
		FrameInterval:  time.Duration(c.Engine.FrameIntervalMs) * time.Millisecond,
		MaxZoom:        c.Engine.MaxZoomFactor,
		FlashAvailable: c.Engine.FlashAvailable,
		ThumbnailSize:  c.Engine.ThumbnailSize,
	}
}

// ShutdownTimeout returns the graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeout) * time.Second
}
