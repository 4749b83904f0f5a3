package sse

import "time"

// Config holds configuration for SSE connections
type Config struct {
	// KeepAliveInterval is how often a comment line is written to keep proxies
	// from closing an idle stream
	KeepAliveInterval time.Duration
}

// DefaultConfig returns the default SSE configuration
func DefaultConfig() *Config {
	return &Config{
		KeepAliveInterval: 10 * time.Second,
	}
}

// NewConfig returns a config with the given keep-alive, falling back to the
// default for non-positive values
func NewConfig(keepAlive time.Duration) *Config {
	if keepAlive <= 0 {
		return DefaultConfig()
	}
	return &Config{KeepAliveInterval: keepAlive}
}
