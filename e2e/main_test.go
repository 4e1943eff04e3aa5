//go:build e2e

// Package e2e drives the storefront through a real browser. Run with
//
//	go test -tags e2e ./e2e/...
//
// With BASE_URL unset the specs target a local storefront started for the
// run; set it to https://www.saucedemo.com to check the public demo.
package e2e

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/harness"
	"github.com/themizzi/saucecheck/internal/observability"
	"github.com/themizzi/saucecheck/internal/scenario"
)

var (
	h        *harness.Harness
	fixtures *scenario.Users
)

// TestMain runs global setup, authenticates once, runs the specs and
// writes the run report.
func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	// .env sits at the repository root; the process env wins over it.
	if err := godotenv.Load("../.env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
		return 1
	}

	log := observability.NewConsoleLogger(config.LoadLoggerConfig(os.Getenv))
	defer log.Sync()

	cfg, err := config.LoadHarnessConfig(os.Getenv)
	if err != nil {
		log.Error("invalid harness configuration", zap.Error(err))
		return 1
	}

	fixtures, err = scenario.LoadUsers("testdata/users.json")
	if err != nil {
		log.Error("failed to load fixtures", zap.Error(err))
		return 1
	}

	h, err = harness.Start(cfg, log)
	defer func() {
		if err := h.Close(); err != nil {
			log.Warn("failed to close harness", zap.Error(err))
		}
		if err := h.Layout.Teardown(log); err != nil {
			log.Warn("global teardown failed", zap.Error(err))
		}
	}()
	if err != nil {
		log.Error("failed to start harness", zap.Error(err))
		return 1
	}

	if _, err := h.Authenticate(); err != nil {
		log.Error("global authentication failed", zap.Error(err))
		return 1
	}

	h.Recorder.Begin(0)
	code := m.Run()
	if _, err := h.Recorder.End(); err != nil {
		log.Warn("failed to write run report", zap.Error(err))
	}
	return code
}
