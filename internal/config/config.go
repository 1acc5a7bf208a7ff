// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

package config

import (
	"fmt"
	"strings"
	"time"
)

// Config holds all application configuration loaded from defaults, an
// optional YAML config file, and environment variables, in that order of
// precedence (env highest).
//
// Config is immutable after Load() and safe for concurrent read access.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Storage  StorageConfig  `koanf:"storage"`
	Curation CurationConfig `koanf:"curation"`
	Trending TrendingConfig `koanf:"trending"`
	Source   SourceConfig   `koanf:"source"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StorageConfig holds Badger persistence settings. InMemory disables disk
// persistence entirely; profiles and trending snapshots then live only for
// the process lifetime.
type StorageConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// CurationConfig tunes the curation service.
type CurationConfig struct {
	// Workers for the scoring pipeline. Zero selects one per CPU.
	Workers int `koanf:"workers"`

	// DefaultLimit is the result size when a request does not specify one.
	DefaultLimit int `koanf:"default_limit"`

	// CacheCapacity bounds the content item cache.
	CacheCapacity int `koanf:"cache_capacity"`
}

// TrendingConfig tunes the trending tracker.
type TrendingConfig struct {
	Interval   time.Duration `koanf:"interval"`
	MaxEntries int           `koanf:"max_entries"`
}

// SourceConfig configures the content candidate source.
type SourceConfig struct {
	// SeedFile is an optional JSON file of content items loaded at startup.
	SeedFile string `koanf:"seed_file"`

	// BreakerFailures is the consecutive-failure count that opens the
	// circuit breaker around the source.
	BreakerFailures int `koanf:"breaker_failures"`

	// BreakerTimeout is how long the breaker stays open before probing.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// SecurityConfig holds the API protection settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks that the loaded configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	if !c.Storage.InMemory && c.Storage.Path == "" {
		return fmt.Errorf("BADGER_PATH is required unless BADGER_IN_MEMORY=true")
	}
	if c.Curation.DefaultLimit < 1 {
		return fmt.Errorf("CURATION_DEFAULT_LIMIT must be positive, got %d", c.Curation.DefaultLimit)
	}
	if c.Curation.CacheCapacity < 1 {
		return fmt.Errorf("CURATION_CACHE_CAPACITY must be positive, got %d", c.Curation.CacheCapacity)
	}
	if c.Trending.Interval < time.Second {
		return fmt.Errorf("TRENDING_INTERVAL must be at least 1s, got %s", c.Trending.Interval)
	}
	if c.Trending.MaxEntries < 1 {
		return fmt.Errorf("TRENDING_MAX_ENTRIES must be positive, got %d", c.Trending.MaxEntries)
	}
	if c.Source.BreakerFailures < 1 {
		return fmt.Errorf("SOURCE_BREAKER_FAILURES must be positive, got %d", c.Source.BreakerFailures)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.Security.RateLimitWindow)
		}
	}
	return c.validateLogging()
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
