package pairing

import "time"

// Config holds Redis connection and pairing behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// PayloadTTL bounds how long an offered payload waits for its partner
	PayloadTTL time.Duration

	// AwaitTimeout bounds a single Await call
	AwaitTimeout time.Duration
}

// DefaultConfig returns sensible defaults for the pairing channel
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     4,
		MinIdleConns: 1,
		PayloadTTL:   5 * time.Minute,
		AwaitTimeout: 2 * time.Minute,
	}
}
