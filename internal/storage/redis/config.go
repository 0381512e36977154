package redis

import "time"

// Config holds the connection settings of the Redis store
type Config struct {
	// URL is the Redis connection URL, e.g. redis://localhost:6379/0
	URL string

	PoolSize     int
	MinIdleConns int

	// PingTimeout bounds the connectivity check done by New
	PingTimeout time.Duration
}

// DefaultConfig suits a single device talking to a local Redis
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379/0",
		PoolSize:     4,
		MinIdleConns: 1,
		PingTimeout:  5 * time.Second,
	}
}
