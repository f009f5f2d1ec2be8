package warmup

import (
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

// Version is the library version reported in the default User-Agent.
const Version = "0.1.0"

// Config holds the configuration for a warm-up run. It is constructed once
// at startup and treated as immutable for the run's duration.
type Config struct {
	// BaseOrigin is the scheme://host[:port] all paths are resolved against.
	BaseOrigin string

	// UserAgent is sent with every request. Empty selects the default
	// agent tagged with a per-run ID.
	UserAgent string

	// Concurrency is the maximum number of in-flight requests.
	Concurrency int

	// MaxRequests caps how many requests are submitted. 0 means unbounded.
	MaxRequests int

	// Timeout bounds each individual request so a hung connection cannot
	// stall the pool.
	Timeout time.Duration

	// PageTypes selects which page types to warm. The single entry "all"
	// selects every recognized type.
	PageTypes []string
}

// DefaultConfig returns a safe default configuration for the given origin.
func DefaultConfig(baseOrigin string) Config {
	return Config{
		BaseOrigin:  baseOrigin,
		UserAgent:   DefaultUserAgent(),
		Concurrency: 10,
		MaxRequests: 0,
		Timeout:     5 * time.Second,
		PageTypes:   []string{"all"},
	}
}

// DefaultUserAgent builds the default User-Agent, tagged with a fresh run ID
// so individual warm-up bursts can be told apart in origin access logs.
func DefaultUserAgent() string {
	return fmt.Sprintf("cache-warmer/%s (run %s)", Version, uuid.NewString()[:8])
}

// Validate checks the configuration and returns an InvalidConfigError on the
// first violation. Non-positive or missing values are never silently
// defaulted here; defaulting belongs to DefaultConfig and the CLI layer.
func (c Config) Validate() error {
	if c.BaseOrigin == "" {
		return &InvalidConfigError{Field: "base_origin", Reason: "must not be empty"}
	}
	u, err := url.Parse(c.BaseOrigin)
	if err != nil {
		return &InvalidConfigError{Field: "base_origin", Reason: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &InvalidConfigError{Field: "base_origin", Reason: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return &InvalidConfigError{Field: "base_origin", Reason: "missing host"}
	}
	if c.Concurrency <= 0 {
		return &InvalidConfigError{Field: "concurrency", Reason: fmt.Sprintf("must be positive (got %d)", c.Concurrency)}
	}
	if c.MaxRequests < 0 {
		return &InvalidConfigError{Field: "max_requests", Reason: fmt.Sprintf("must not be negative (got %d)", c.MaxRequests)}
	}
	if c.Timeout <= 0 {
		return &InvalidConfigError{Field: "timeout", Reason: fmt.Sprintf("must be positive (got %s)", c.Timeout)}
	}
	return nil
}
