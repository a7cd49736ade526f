package config

import (
	"testing"
	"time"
)

// TestLoadDefaults tests loading with no environment overrides
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Logger.Level != "INFO" {
		t.Errorf("Expected default log level INFO, got %s", cfg.Logger.Level)
	}
	if !cfg.Memory.Enabled {
		t.Error("Memory layer should be enabled by default")
	}
	if cfg.Database.Enabled || cfg.Redis.Enabled {
		t.Error("External stores should be disabled by default")
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Expected default shutdown timeout 10s, got %s", cfg.Server.ShutdownTimeout)
	}
}

// TestLoadOverrides tests environment variable overrides
func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("MEMORY_MAX_ORDERS", "500")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Logger.Level != "DEBUG" {
		t.Errorf("Expected log level DEBUG, got %s", cfg.Logger.Level)
	}
	if cfg.Memory.MaxOrders != 500 {
		t.Errorf("Expected max orders 500, got %d", cfg.Memory.MaxOrders)
	}
	if !cfg.Redis.Enabled {
		t.Error("Expected Redis enabled")
	}
}

// TestLoadInvalidLogLevel tests validation of LOG_LEVEL
func TestLoadInvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "VERBOSE")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail on an unknown log level")
	}
}

// TestValidateLimits tests the API limit invariants
func TestValidateLimits(t *testing.T) {
	t.Setenv("DEFAULT_ORDER_LIMIT", "2000")
	t.Setenv("MAX_ORDER_LIMIT", "1000")

	if _, err := Load(); err == nil {
		t.Error("Load() should fail when default limit exceeds max limit")
	}
}
