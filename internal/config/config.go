// Package config loads process configuration from the environment, per
// spec.md §6.5: no source-file-local configuration is part of the core
// contract. Mirrors the sync.Once-guarded singleton idiom of the
// teacher's internal/config/config.go (there a JSON bet-tier file; here
// environment variables).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config is the full set of knobs spec.md §6.5 names: persistence
// connection URL, pool size/timeouts, event-bus connection params,
// listen address, accepted origins.
type Config struct {
	Environment string // "development" | "production"; selects zap.NewDevelopment/NewProduction

	RedisURL          string
	RedisPoolSize     int
	RedisDialTimeout  time.Duration
	RedisReadTimeout  time.Duration
	RedisWriteTimeout time.Duration

	EventBusPublishTimeout time.Duration

	ListenAddress  string
	AllowedOrigins []string
	MatchHeaderTTL time.Duration
}

var (
	cfg      *Config
	loadOnce sync.Once
	loadErr  error
)

// Load reads the process configuration from the environment. Safe to
// call repeatedly; only the first call does any work.
func Load() (*Config, error) {
	loadOnce.Do(func() {
		c := &Config{
			Environment:            getEnv("SJAVS_ENV", "development"),
			RedisURL:               getEnv("SJAVS_REDIS_URL", "redis://localhost:6379/0"),
			RedisPoolSize:          getEnvInt("SJAVS_REDIS_POOL_SIZE", 30),
			RedisDialTimeout:       getEnvDuration("SJAVS_REDIS_DIAL_TIMEOUT", 5*time.Second),
			RedisReadTimeout:       getEnvDuration("SJAVS_REDIS_READ_TIMEOUT", 5*time.Second),
			RedisWriteTimeout:      getEnvDuration("SJAVS_REDIS_WRITE_TIMEOUT", 5*time.Second),
			EventBusPublishTimeout: getEnvDuration("SJAVS_EVENTBUS_PUBLISH_TIMEOUT", 5*time.Second),
			ListenAddress:          getEnv("SJAVS_LISTEN_ADDR", ":8080"),
			AllowedOrigins:         getEnvList("SJAVS_ALLOWED_ORIGINS", nil),
			MatchHeaderTTL:         getEnvDuration("SJAVS_MATCH_HEADER_TTL", 24*time.Hour),
		}
		if c.RedisPoolSize <= 0 {
			loadErr = fmt.Errorf("SJAVS_REDIS_POOL_SIZE must be positive, got %d", c.RedisPoolSize)
			return
		}
		cfg = c
	})
	return cfg, loadErr
}

// Get returns the already-loaded configuration, or nil if Load has not
// succeeded yet.
func Get() *Config {
	return cfg
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
