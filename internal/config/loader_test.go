package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"SYNCMEET_HTTP_PORT",
			"SYNCMEET_SQLITE_DSN",
			"SYNCMEET_REDIS_URL",
			"SYNCMEET_ALLOWED_ORIGIN",
			"SYNCMEET_SHUTDOWN_TIMEOUT",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8080 {
			t.Fatalf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:syncmeet.db?_foreign_keys=on" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.RedisURL != "" {
			t.Fatalf("expected no Redis URL by default, got %q", cfg.RedisURL)
		}
		if cfg.ShutdownTimeout != 10*time.Second {
			t.Fatalf("unexpected default shutdown timeout: %v", cfg.ShutdownTimeout)
		}
	})

	t.Run("reads explicit values", func(t *testing.T) {
		t.Setenv("SYNCMEET_HTTP_PORT", "9090")
		t.Setenv("SYNCMEET_SQLITE_DSN", "file:/var/lib/syncmeet/rooms.db")
		t.Setenv("SYNCMEET_REDIS_URL", "redis://localhost:6379/2")
		t.Setenv("SYNCMEET_ALLOWED_ORIGIN", "https://meet.example.com")
		t.Setenv("SYNCMEET_SHUTDOWN_TIMEOUT", "30s")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 9090 {
			t.Fatalf("expected port 9090, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/var/lib/syncmeet/rooms.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if cfg.RedisURL != "redis://localhost:6379/2" {
			t.Fatalf("unexpected Redis URL: %q", cfg.RedisURL)
		}
		if cfg.AllowedOrigin != "https://meet.example.com" {
			t.Fatalf("unexpected allowed origin: %q", cfg.AllowedOrigin)
		}
		if cfg.ShutdownTimeout != 30*time.Second {
			t.Fatalf("unexpected shutdown timeout: %v", cfg.ShutdownTimeout)
		}
	})

	t.Run("collects every invalid value in one error", func(t *testing.T) {
		t.Setenv("SYNCMEET_HTTP_PORT", "not-a-port")
		t.Setenv("SYNCMEET_REDIS_URL", "localhost:6379")
		t.Setenv("SYNCMEET_SHUTDOWN_TIMEOUT", "-5s")

		_, err := Load()
		if err == nil {
			t.Fatal("expected an error for invalid values")
		}
		for _, key := range []string{"SYNCMEET_HTTP_PORT", "SYNCMEET_REDIS_URL", "SYNCMEET_SHUTDOWN_TIMEOUT"} {
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("expected %s in error, got: %v", key, err)
			}
		}
	})

	t.Run("rejects non positive ports", func(t *testing.T) {
		t.Setenv("SYNCMEET_HTTP_PORT", "0")

		_, err := Load()
		if err == nil {
			t.Fatal("expected an error for a zero port")
		}
	})
}
