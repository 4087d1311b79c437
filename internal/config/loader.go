package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the syncmeet service.
type Config struct {
	HTTPPort        int
	SQLiteDSN       string
	RedisURL        string
	AllowedOrigin   string
	ShutdownTimeout time.Duration
}

// Load parses configuration values from the current process environment.
//
// Every value has a usable default or is optional; the loader still validates
// any value that is present and reports all problems at once.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:        8080,
		SQLiteDSN:       "file:syncmeet.db?_foreign_keys=on",
		ShutdownTimeout: 10 * time.Second,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("SYNCMEET_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "SYNCMEET_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SYNCMEET_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	// Optional. When empty the service runs without the cross instance bridge.
	if redisURL := strings.TrimSpace(os.Getenv("SYNCMEET_REDIS_URL")); redisURL != "" {
		if !strings.HasPrefix(redisURL, "redis://") && !strings.HasPrefix(redisURL, "rediss://") {
			invalid = append(invalid, "SYNCMEET_REDIS_URL")
		} else {
			cfg.RedisURL = redisURL
		}
	}

	cfg.AllowedOrigin = strings.TrimSpace(os.Getenv("SYNCMEET_ALLOWED_ORIGIN"))

	if timeoutValue := strings.TrimSpace(os.Getenv("SYNCMEET_SHUTDOWN_TIMEOUT")); timeoutValue != "" {
		timeout, err := time.ParseDuration(timeoutValue)
		if err != nil || timeout <= 0 {
			invalid = append(invalid, "SYNCMEET_SHUTDOWN_TIMEOUT")
		} else {
			cfg.ShutdownTimeout = timeout
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
