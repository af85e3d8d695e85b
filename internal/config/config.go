package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type ServerConfig struct {
	Port int
	Host string
}

type UpstreamConfig struct {
	BaseURL        string
	BearerToken    string
	PostSampleSize int // posts fetched per lookup
}

type CacheConfig struct {
	TTL         time.Duration // fresh window
	FallbackTTL time.Duration // how long stale entries are kept for emergency use (redis backend)
	Backend     string        // "memory" or "redis"
}

type RedisConfig struct {
	URL       string
	KeyPrefix string
}

type RateLimitConfig struct {
	Floor int // remaining-calls threshold that proactively gates upstream calls
}

type DatabaseConfig struct {
	URL string // empty disables the leaderboard store
}

type Config struct {
	Server    ServerConfig
	Upstream  UpstreamConfig
	Cache     CacheConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Database  DatabaseConfig
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvAsInt("PORT", 8080),
			Host: getEnv("HOST", "0.0.0.0"),
		},
		Upstream: UpstreamConfig{
			BaseURL:        getEnv("X_API_BASE_URL", "https://api.x.com"),
			BearerToken:    getEnv("X_BEARER_TOKEN", ""),
			PostSampleSize: getEnvAsInt("POST_SAMPLE_SIZE", 10),
		},
		Cache: CacheConfig{
			TTL:         getEnvAsDuration("CACHE_TTL", 15*time.Minute),
			FallbackTTL: getEnvAsDuration("CACHE_FALLBACK_TTL", 8*24*time.Hour),
			Backend:     getEnv("CACHE_BACKEND", "memory"),
		},
		Redis: RedisConfig{
			URL:       getEnv("REDIS_URL", "redis://localhost:6379"),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", ""),
		},
		RateLimit: RateLimitConfig{
			Floor: getEnvAsInt("RATE_LIMIT_FLOOR", 2),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
	}

	// Validate required configuration
	if cfg.Upstream.BearerToken == "" {
		return nil, fmt.Errorf("X_BEARER_TOKEN is required")
	}
	if cfg.Cache.Backend != "memory" && cfg.Cache.Backend != "redis" {
		return nil, fmt.Errorf("CACHE_BACKEND must be \"memory\" or \"redis\", got %q", cfg.Cache.Backend)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
