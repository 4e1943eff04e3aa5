package config

import (
	"fmt"
	"strconv"
	"time"
)

// Defaults used when the environment leaves a harness setting unset.
const (
	DefaultUsername       = "standard_user"
	DefaultPassword       = "secret_sauce"
	DefaultTimeout        = 10 * time.Second
	DefaultLoginThreshold = 3 * time.Second
)

// HarnessConfig holds configuration for the browser test harness
type HarnessConfig struct {
	// BaseURL of the application under test. Empty means the harness starts
	// the local storefront replica and targets it.
	BaseURL string
	// Username and Password authenticate the session snapshot.
	Username string
	Password string
	// APIBaseURL is used only by the auxiliary API client.
	APIBaseURL string

	Headless bool
	SlowMo   time.Duration
	Timeout  time.Duration

	ArtifactsRoot   string
	Video           bool
	Trace           bool
	UpdateSnapshots bool

	LoginThreshold time.Duration
}

// LoadHarnessConfig loads harness configuration from environment variables
func LoadHarnessConfig(getenv func(string) string) (*HarnessConfig, error) {
	config := &HarnessConfig{
		BaseURL:       getenv("BASE_URL"),
		Username:      stringOrDefault(getenv, "USER_NAME", DefaultUsername),
		Password:      stringOrDefault(getenv, "PASSWORD", DefaultPassword),
		APIBaseURL:    getenv("API_BASE_URL"),
		ArtifactsRoot: stringOrDefault(getenv, "ARTIFACTS_ROOT", "."),
	}

	var err error
	if config.Headless, err = boolOrDefault(getenv, "HEADLESS", true); err != nil {
		return nil, err
	}
	if config.Video, err = boolOrDefault(getenv, "VIDEO", false); err != nil {
		return nil, err
	}
	if config.Trace, err = boolOrDefault(getenv, "TRACE", true); err != nil {
		return nil, err
	}
	if config.UpdateSnapshots, err = boolOrDefault(getenv, "UPDATE_SNAPSHOTS", false); err != nil {
		return nil, err
	}
	if config.SlowMo, err = durationOrDefault(getenv, "SLOW_MO", 0); err != nil {
		return nil, err
	}
	if config.Timeout, err = durationOrDefault(getenv, "E2E_TIMEOUT", DefaultTimeout); err != nil {
		return nil, err
	}
	if config.Timeout == 0 {
		return nil, fmt.Errorf("E2E_TIMEOUT must be positive")
	}
	if config.LoginThreshold, err = durationOrDefault(getenv, "PERF_LOGIN_THRESHOLD", DefaultLoginThreshold); err != nil {
		return nil, err
	}

	if config.APIBaseURL == "" {
		config.APIBaseURL = config.BaseURL
	}

	return config, nil
}

func stringOrDefault(getenv func(string) string, key, def string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return def
}

func boolOrDefault(getenv func(string) string, key string, def bool) (bool, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return v, nil
}
