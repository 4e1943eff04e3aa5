package config

import (
	"fmt"
	"time"
)

// ServerConfig holds configuration for the local storefront replica
type ServerConfig struct {
	Port        string
	GlitchDelay time.Duration
}

// LoadServerConfig loads server configuration from environment variables
func LoadServerConfig(getenv func(string) string) (ServerConfig, error) {
	port := getenv("PORT")
	if port == "" {
		port = "8080" // Default to port 8080
	}

	glitchDelay, err := durationOrDefault(getenv, "GLITCH_DELAY", 1500*time.Millisecond)
	if err != nil {
		return ServerConfig{}, err
	}

	return ServerConfig{
		Port:        port,
		GlitchDelay: glitchDelay,
	}, nil
}

// durationOrDefault parses a Go duration from the named variable.
func durationOrDefault(getenv func(string) string, key string, def time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
