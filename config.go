package rowangate

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// duration wraps time.Duration so TOML values can be written as "5s", "1m".
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the file-based configuration for a Client. All sections are
// optional; zero values fall back to the library defaults.
type Config struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
	Debug   bool   `toml:"debug"`

	Chat           ChatConfig        `toml:"chat"`
	Retry          RetryConfig       `toml:"retry"`
	RateLimit      RateLimitConfig   `toml:"rate_limit"`
	CircuitBreaker BreakerFileConfig `toml:"circuit_breaker"`
	Cache          CacheConfig       `toml:"cache"`
	Monitor        MonitorFileConfig `toml:"monitor"`
}

// ChatConfig holds message defaults.
type ChatConfig struct {
	MaxMessageLength int    `toml:"max_message_length"`
	ContextType      string `toml:"context_type"`
	Source           string `toml:"source"`
}

// RetryConfig holds retry controller settings.
type RetryConfig struct {
	MaxAttempts    int      `toml:"max_attempts"`
	Delay          duration `toml:"delay"`
	AttemptTimeout duration `toml:"attempt_timeout"`
}

// RateLimitConfig holds fixed-window rate limiter settings.
type RateLimitConfig struct {
	Disabled     bool     `toml:"disabled"`
	MaxPerWindow int      `toml:"max_per_window"`
	Window       duration `toml:"window"`
}

// BreakerFileConfig holds circuit breaker settings.
type BreakerFileConfig struct {
	FailureThreshold int      `toml:"failure_threshold"`
	CoolDown         duration `toml:"cool_down"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Disabled bool     `toml:"disabled"`
	TTL      duration `toml:"ttl"`
}

// MonitorFileConfig holds connection monitor settings.
type MonitorFileConfig struct {
	Enabled       bool     `toml:"enabled"`
	Interval      duration `toml:"interval"`
	ProbeTimeout  duration `toml:"probe_timeout"`
	ProbeAttempts int      `toml:"probe_attempts"`
	RetryDelay    duration `toml:"retry_delay"`
}

// LoadConfig reads and validates a TOML configuration file.
func LoadConfig(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if config.BaseURL == "" {
		return nil, fmt.Errorf("config %s: base_url must be set", path)
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("config %s: api_key must be set", path)
	}

	return &config, nil
}

// Options converts the file configuration into functional options. Explicit
// Option arguments to NewFromConfig take precedence by appending after
// these.
func (cfg *Config) Options() []Option {
	var options []Option

	if cfg.Chat.MaxMessageLength > 0 {
		options = append(options, WithMaxMessageLength(cfg.Chat.MaxMessageLength))
	}
	if cfg.Chat.ContextType != "" || cfg.Chat.Source != "" {
		contextType := cfg.Chat.ContextType
		if contextType == "" {
			contextType = DefaultContextType
		}
		source := cfg.Chat.Source
		if source == "" {
			source = DefaultSource
		}
		options = append(options, WithDefaults(contextType, source))
	}

	if cfg.Retry.MaxAttempts > 0 {
		options = append(options, WithMaxAttempts(cfg.Retry.MaxAttempts))
	}
	if cfg.Retry.Delay.Duration > 0 {
		options = append(options, WithRetryDelay(cfg.Retry.Delay.Duration))
	}
	if cfg.Retry.AttemptTimeout.Duration > 0 {
		options = append(options, WithAttemptTimeout(cfg.Retry.AttemptTimeout.Duration))
	}

	if cfg.RateLimit.Disabled {
		options = append(options, WithoutRateLimiter())
	} else if cfg.RateLimit.MaxPerWindow > 0 && cfg.RateLimit.Window.Duration > 0 {
		options = append(options, WithRateLimiter(cfg.RateLimit.MaxPerWindow, cfg.RateLimit.Window.Duration))
	}

	if cfg.CircuitBreaker.FailureThreshold > 0 || cfg.CircuitBreaker.CoolDown.Duration > 0 {
		options = append(options, WithCircuitBreaker(CircuitBreakerConfig{
			FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
			CoolDown:         cfg.CircuitBreaker.CoolDown.Duration,
		}))
	}

	if cfg.Cache.Disabled {
		options = append(options, WithoutCache())
	} else if cfg.Cache.TTL.Duration > 0 {
		options = append(options, WithCacheTTL(cfg.Cache.TTL.Duration))
	}

	if cfg.Monitor.Enabled {
		options = append(options, WithConnectionMonitor(MonitorConfig{
			Interval:      cfg.Monitor.Interval.Duration,
			ProbeTimeout:  cfg.Monitor.ProbeTimeout.Duration,
			ProbeAttempts: cfg.Monitor.ProbeAttempts,
			RetryDelay:    cfg.Monitor.RetryDelay.Duration,
		}))
	}

	if cfg.Debug {
		options = append(options, WithSimpleLogger())
	}

	return options
}

// NewFromConfig constructs a Client from a TOML configuration file. Extra
// options override file settings.
func NewFromConfig(path string, extra ...Option) (*Client, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	options := append(cfg.Options(), extra...)
	client := New(cfg.BaseURL, cfg.APIKey, options...)
	if err := client.ValidationError(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
