package cli

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string        `env:"COUPLES_SERVER" envDefault:"http://localhost:8080"`
	Output    string        `env:"COUPLES_OUTPUT" envDefault:"text"`
	Timeout   time.Duration `env:"COUPLES_TIMEOUT" envDefault:"30s"`
}

// DefaultConfig returns a Config from the environment, falling back to
// built-in defaults for anything unset or unparsable
func DefaultConfig() *Config {
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return &Config{
			ServerURL: "http://localhost:8080",
			Output:    OutputText,
			Timeout:   30 * time.Second,
		}
	}
	return c
}
