package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr        string
	Environment string

	Remote   Remote
	Redis    RedisConfig
	Postgres PostgresConfig

	// BucketDays is the fixed size of the cumulative statistics buckets.
	BucketDays int
	// GrowthCapPercent bounds the reported week-over-week growth when the
	// prior week had zero registrations. Display policy, not math.
	GrowthCapPercent float64
}

// Remote describes the upstream registration API.
type Remote struct {
	BaseURL string
	Timeout time.Duration
}

// RedisConfig holds connection settings for the persisted key-value store.
// An empty URL means redis is not configured and the in-memory store is used.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig holds connection settings for the audit trail database.
// An empty URL disables the durable audit store.
type PostgresConfig struct {
	URL string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("REGDESK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	env := os.Getenv("REGDESK_ENV")
	if env == "" {
		env = "dev"
	}

	return Server{
		Addr:        addr,
		Environment: env,
		Remote: Remote{
			BaseURL: os.Getenv("REGDESK_REMOTE_URL"),
			Timeout: envDuration("REGDESK_REMOTE_TIMEOUT", 10*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REGDESK_REDIS_URL"),
			PoolSize:     envInt("REGDESK_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REGDESK_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("REGDESK_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REGDESK_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REGDESK_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Postgres: PostgresConfig{
			URL: os.Getenv("REGDESK_POSTGRES_URL"),
		},
		BucketDays:       envInt("REGDESK_BUCKET_DAYS", 5),
		GrowthCapPercent: envFloat("REGDESK_GROWTH_CAP", 100),
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}
