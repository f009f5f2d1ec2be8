// Package config provides YAML configuration parsing for the cache warmer CLI.
//
// This package enables running the warmer from a configuration file, as an
// alternative to passing everything as flags.
//
// Example configuration:
//
//	base_origin: https://shop.example.com
//	concurrency: 20
//	timeout: 5s
//	max_requests: 1000
//	page_types: [product, category]
//
//	inventory:
//	  backend: redis
//	  redis_addr: localhost:6379
//
//	logging:
//	  level: info
//	  pretty: true
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Sternrassler/cache-warmer/pkg/inventory"
	"github.com/Sternrassler/cache-warmer/pkg/warmup"
)

// Inventory backends selectable from the config file.
const (
	BackendStatic  = "static"
	BackendRedis   = "redis"
	BackendSitemap = "sitemap"
)

// Config is the root configuration structure for the warmer CLI.
// It maps directly to the YAML configuration file. Use Load or Parse to
// create one.
type Config struct {
	// BaseOrigin is the scheme://host[:port] all paths are resolved against.
	BaseOrigin string `yaml:"base_origin"`

	// UserAgent overrides the default User-Agent.
	UserAgent string `yaml:"user_agent"`

	// Concurrency is the in-flight request cap. Defaults to 10.
	Concurrency int `yaml:"concurrency"`

	// MaxRequests caps how many requests are submitted. 0 means unbounded.
	MaxRequests int `yaml:"max_requests"`

	// Timeout is the per-request timeout. Defaults to 5s.
	Timeout Duration `yaml:"timeout"`

	// PageTypes selects which page types to warm. Defaults to [all].
	PageTypes []string `yaml:"page_types"`

	// Inventory selects and configures the URL inventory backend.
	Inventory InventoryConfig `yaml:"inventory"`

	// Logging configures log output.
	Logging LoggingConfig `yaml:"logging"`
}

// InventoryConfig selects the URL inventory backend.
type InventoryConfig struct {
	// Backend is one of "static", "redis", "sitemap". Defaults to "redis".
	Backend string `yaml:"backend"`

	// RedisAddr is the Redis catalog store address (backend: redis).
	RedisAddr string `yaml:"redis_addr"`

	// RedisDB is the Redis database number (backend: redis).
	RedisDB int `yaml:"redis_db"`

	// SitemapURL is the sitemap location, absolute or origin-relative
	// (backend: sitemap). Defaults to /sitemap.xml.
	SitemapURL string `yaml:"sitemap_url"`

	// TypeRules classify sitemap paths into page types by prefix, first
	// match wins (backend: sitemap).
	TypeRules []TypeRuleConfig `yaml:"type_rules"`

	// Paths lists pages directly, keyed by page type (backend: static).
	Paths map[string][]string `yaml:"paths"`
}

// TypeRuleConfig is a path-prefix classification rule for the sitemap backend.
type TypeRuleConfig struct {
	Prefix   string `yaml:"prefix"`
	PageType string `yaml:"page_type"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `yaml:"level"`

	// Pretty enables human-readable console output instead of JSON.
	Pretty bool `yaml:"pretty"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data, applies defaults, and validates.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Concurrency == 0 {
		c.Concurrency = 10
	}
	if c.Timeout == 0 {
		c.Timeout = Duration(5 * time.Second)
	}
	if len(c.PageTypes) == 0 {
		c.PageTypes = []string{"all"}
	}
	if c.Inventory.Backend == "" {
		c.Inventory.Backend = BackendRedis
	}
	if c.Inventory.RedisAddr == "" {
		c.Inventory.RedisAddr = "localhost:6379"
	}
	if c.Inventory.SitemapURL == "" {
		c.Inventory.SitemapURL = "/sitemap.xml"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration. Warm-up values are validated via
// warmup.Config so the CLI and the library reject exactly the same inputs.
func (c *Config) Validate() error {
	if err := c.Warmup().Validate(); err != nil {
		return err
	}

	switch c.Inventory.Backend {
	case BackendStatic, BackendRedis, BackendSitemap:
	default:
		return &warmup.InvalidConfigError{
			Field:  "inventory.backend",
			Reason: fmt.Sprintf("unknown backend %q", c.Inventory.Backend),
		}
	}

	if c.Inventory.Backend == BackendSitemap && len(c.Inventory.TypeRules) == 0 {
		return &warmup.InvalidConfigError{
			Field:  "inventory.type_rules",
			Reason: "sitemap backend needs at least one type rule",
		}
	}
	return nil
}

// Warmup maps the file configuration onto the immutable run configuration.
func (c *Config) Warmup() warmup.Config {
	return warmup.Config{
		BaseOrigin:  c.BaseOrigin,
		UserAgent:   c.UserAgent,
		Concurrency: c.Concurrency,
		MaxRequests: c.MaxRequests,
		Timeout:     c.Timeout.Duration(),
		PageTypes:   c.PageTypes,
	}
}

// SitemapRules converts the configured type rules for the sitemap backend.
func (c *Config) SitemapRules() []inventory.TypeRule {
	rules := make([]inventory.TypeRule, 0, len(c.Inventory.TypeRules))
	for _, r := range c.Inventory.TypeRules {
		rules = append(rules, inventory.TypeRule{Prefix: r.Prefix, PageType: r.PageType})
	}
	return rules
}
