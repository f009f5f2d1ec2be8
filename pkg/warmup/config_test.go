package warmup

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("https://shop.example.com")

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Concurrency != 10 {
		t.Errorf("expected default concurrency 10, got %d", cfg.Concurrency)
	}
	if cfg.MaxRequests != 0 {
		t.Errorf("expected default max requests 0 (unbounded), got %d", cfg.MaxRequests)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("expected default timeout 5s, got %s", cfg.Timeout)
	}
	if !strings.HasPrefix(cfg.UserAgent, "cache-warmer/") {
		t.Errorf("expected default user agent with version prefix, got %q", cfg.UserAgent)
	}
}

func TestDefaultUserAgent_RunTag(t *testing.T) {
	a := DefaultUserAgent()
	b := DefaultUserAgent()

	if !strings.Contains(a, "(run ") {
		t.Errorf("expected run tag in user agent, got %q", a)
	}
	if a == b {
		t.Errorf("expected distinct run tags, got %q twice", a)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			BaseOrigin:  "https://shop.example.com",
			Concurrency: 10,
			Timeout:     5 * time.Second,
			PageTypes:   []string{"all"},
		}
	}

	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		field       string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:        "empty origin",
			mutate:      func(c *Config) { c.BaseOrigin = "" },
			expectError: true,
			field:       "base_origin",
		},
		{
			name:        "origin without scheme",
			mutate:      func(c *Config) { c.BaseOrigin = "shop.example.com" },
			expectError: true,
			field:       "base_origin",
		},
		{
			name:        "unsupported scheme",
			mutate:      func(c *Config) { c.BaseOrigin = "ftp://shop.example.com" },
			expectError: true,
			field:       "base_origin",
		},
		{
			name:        "zero concurrency",
			mutate:      func(c *Config) { c.Concurrency = 0 },
			expectError: true,
			field:       "concurrency",
		},
		{
			name:        "negative concurrency",
			mutate:      func(c *Config) { c.Concurrency = -3 },
			expectError: true,
			field:       "concurrency",
		},
		{
			name:        "negative max requests",
			mutate:      func(c *Config) { c.MaxRequests = -1 },
			expectError: true,
			field:       "max_requests",
		},
		{
			name:        "zero timeout",
			mutate:      func(c *Config) { c.Timeout = 0 },
			expectError: true,
			field:       "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !tt.expectError {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var invalid *InvalidConfigError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidConfigError, got %v", err)
			}
			if invalid.Field != tt.field {
				t.Errorf("expected error on field %q, got %q", tt.field, invalid.Field)
			}
		})
	}
}
