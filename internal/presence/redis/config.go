package redis

import "time"

// Config holds Redis connection and entry settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	PoolSize     int
	MinIdleConns int

	// EntryTTL bounds how long an entry outlives a crashed server
	EntryTTL time.Duration
}

// DefaultConfig returns defaults for a local Redis
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		EntryTTL:     12 * time.Hour,
	}
}
