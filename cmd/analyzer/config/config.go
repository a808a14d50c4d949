// Package config implements the plog analyzer config.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Config holds all analyzer configuration.
type Config struct {
	Listen string
	Target string

	PromURL      string
	PromCPUQuery string
	PromMemQuery string
	Interval     time.Duration
	Window       time.Duration
	Step         time.Duration
	Trim         bool

	Storage       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration

	MetadataURL string
	MetadataTTL time.Duration

	LogFormat string
	LogLevel  string
}

// ParseFlags parses command-line flags and environment variables into a Config.
// Exits with status 1 if the required target flag is missing.
// Environment variables are used as fallbacks when flags are not provided.
func ParseFlags() *Config {
	cfg := &Config{}

	// Server
	flag.StringVar(&cfg.Listen, "listen", getEnv("LISTEN", ":8081"), "HTTP listen address")

	// Target
	flag.StringVar(&cfg.Target, "target", getEnv("TARGET", ""), "Target name used for stored snapshots (required)")

	// Prometheus. An empty URL disables the background resource watcher.
	flag.StringVar(&cfg.PromURL, "prom-url", getEnv("PROM_URL", ""), "Prometheus URL (empty disables resource collection)")
	flag.StringVar(&cfg.PromCPUQuery, "prom-cpu-query", getEnv("PROM_CPU_QUERY", ""), "PromQL for per-pod CPU percent (empty uses default)")
	flag.StringVar(&cfg.PromMemQuery, "prom-mem-query", getEnv("PROM_MEM_QUERY", ""), "PromQL for per-pod memory percent (empty uses default)")

	// Timing
	flag.DurationVar(&cfg.Interval, "interval", getEnvDuration("INTERVAL", 30*time.Second), "Resource collection interval")
	flag.DurationVar(&cfg.Window, "window", getEnvDuration("WINDOW", 30*time.Minute), "Historical window")
	flag.DurationVar(&cfg.Step, "step", getEnvDuration("STEP", 1*time.Minute), "Query resolution step")

	// Analysis
	flag.BoolVar(&cfg.Trim, "trim", getEnvBool("TRIM", true), "Trim warm-up and cool-down phases before analysis")

	// Storage
	flag.StringVar(&cfg.Storage, "storage", getEnv("STORAGE", "memory"), "Storage backend: memory or redis")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", getEnv("REDIS_ADDR", "localhost:6379"), "Redis address")
	flag.StringVar(&cfg.RedisPassword, "redis-password", getEnv("REDIS_PASSWORD", ""), "Redis password")
	flag.IntVar(&cfg.RedisDB, "redis-db", getEnvInt("REDIS_DB", 0), "Redis database number")
	flag.DurationVar(&cfg.RedisTTL, "redis-ttl", getEnvDuration("REDIS_TTL", 24*time.Hour), "Redis snapshot TTL (0 disables expiration)")

	// Metadata
	flag.StringVar(&cfg.MetadataURL, "metadata-url", getEnv("METADATA_URL", ""), "Pod metadata endpoint URL (empty disables service type resolution)")
	flag.DurationVar(&cfg.MetadataTTL, "metadata-ttl", getEnvDuration("METADATA_TTL", 300*time.Second), "Pod metadata cache TTL")

	// Logging
	flag.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format: text or json")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	flag.Parse()

	if cfg.Target == "" {
		fmt.Fprintln(os.Stderr, "Error: --target is required")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "true", "1":
		return true
	case "false", "0":
		return false
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
