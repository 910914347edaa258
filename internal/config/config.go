package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Deribit DeribitConfig `mapstructure:"deribit"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Cache   CacheConfig   `mapstructure:"cache"`
	WS      WSConfig      `mapstructure:"ws"`
	Symbols []string      `mapstructure:"symbols"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            string `mapstructure:"port"`
	ReadTimeoutSec  int    `mapstructure:"read_timeout_sec"`
	WriteTimeoutSec int    `mapstructure:"write_timeout_sec"`
}

type DeribitConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	TimeoutSec    int    `mapstructure:"timeout_sec"`
	RatePerSecond int    `mapstructure:"rate_per_second"`
}

type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	DelayMs     int `mapstructure:"delay_ms"`
}

type CacheConfig struct {
	TTLMin int `mapstructure:"ttl_min"`
}

type WSConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	StreamInterval string `mapstructure:"stream_interval"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout_sec", 30)
	v.SetDefault("server.write_timeout_sec", 60)
	v.SetDefault("deribit.base_url", "https://www.deribit.com/api/v2/public")
	v.SetDefault("deribit.timeout_sec", 30)
	v.SetDefault("deribit.rate_per_second", 10)
	v.SetDefault("batch.concurrency", 8)
	v.SetDefault("batch.delay_ms", 50)
	v.SetDefault("cache.ttl_min", 5)
	v.SetDefault("ws.enabled", false)
	v.SetDefault("ws.stream_interval", "30s")
	v.SetDefault("symbols", []string{"BTC", "ETH", "SOL"})
	v.SetDefault("logging.level", "info")

	// Environment variable support
	v.SetEnvPrefix("GEX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Load config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("default")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Deribit.BaseURL == "" {
		return fmt.Errorf("deribit.base_url is required")
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be >= 1")
	}
	if c.Batch.DelayMs < 0 {
		return fmt.Errorf("batch.delay_ms must be >= 0")
	}
	if c.Cache.TTLMin < 1 {
		return fmt.Errorf("cache.ttl_min must be >= 1")
	}
	if len(c.Symbols) == 0 {
		return fmt.Errorf("symbols allow-list must not be empty")
	}
	for i, s := range c.Symbols {
		c.Symbols[i] = strings.ToUpper(s)
	}
	if c.WS.Enabled {
		if _, err := time.ParseDuration(c.WS.StreamInterval); err != nil {
			return fmt.Errorf("invalid ws.stream_interval: %w", err)
		}
	}
	return nil
}

// AllowedSymbol reports whether the symbol is on the configured allow-list.
// Matching is case-insensitive; the canonical form is upper-case.
func (c *Config) AllowedSymbol(symbol string) bool {
	s := strings.ToUpper(symbol)
	for _, v := range c.Symbols {
		if v == s {
			return true
		}
	}
	return false
}

// BatchDelay returns the inter-chunk pause as a duration.
func (c *Config) BatchDelay() time.Duration {
	return time.Duration(c.Batch.DelayMs) * time.Millisecond
}

// CacheTTL returns the result time-to-live as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLMin) * time.Minute
}

// StreamInterval returns the WebSocket broadcast interval. Validate has
// already checked the format when WS is enabled.
func (c *Config) StreamInterval() time.Duration {
	d, err := time.ParseDuration(c.WS.StreamInterval)
	if err != nil {
		return 30 * time.Second
	}
	return d
}
