package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/themizzi/saucecheck/internal/artifacts"
	internalcli "github.com/themizzi/saucecheck/internal/cli"
	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/database"
	"github.com/themizzi/saucecheck/internal/harness"
	"github.com/themizzi/saucecheck/internal/observability"
	"github.com/themizzi/saucecheck/internal/report"
	"github.com/themizzi/saucecheck/internal/repository"
	"github.com/themizzi/saucecheck/internal/services"
)

var version = "0.1.0"

// errFailedTests makes `report` exit non-zero when the last run had failures.
var errFailedTests = errors.New("run had failed tests")

// buildServerDependencies creates all dependencies needed for the storefront server.
// The returned cleanup closes the database when one was opened.
func buildServerDependencies(getenv func(string) string, log *zap.Logger) (internalcli.ServerDependencies, func(), error) {
	var deps internalcli.ServerDependencies
	cleanup := func() {}

	serverConfig, err := config.LoadServerConfig(getenv)
	if err != nil {
		return deps, cleanup, fmt.Errorf("invalid server configuration: %w", err)
	}
	deps.ServerConfig = serverConfig
	deps.Logger = log

	var orderRepo services.OrderRepository = repository.NewMemoryOrderRepository()
	if config.PostgresConfigured(getenv) {
		pgConfig, err := config.LoadPostgresConfig(getenv)
		if err != nil {
			return deps, cleanup, fmt.Errorf("missing required PostgreSQL configuration: %w", err)
		}
		db, err := database.Connect(pgConfig)
		if err != nil {
			return deps, cleanup, fmt.Errorf("failed to connect to database: %w", err)
		}
		cleanup = func() { db.Close() }
		log.Info("connected to database", zap.String("host", pgConfig.Host), zap.String("database", pgConfig.Database))

		if err := database.RunMigrations(db, log); err != nil {
			cleanup()
			return deps, func() {}, fmt.Errorf("failed to run database migrations: %w", err)
		}
		orderRepo = repository.NewOrderRepositoryWithDB(db)
	} else {
		log.Info("no database configured, keeping orders in memory")
	}

	handler, err := internalcli.NewStorefrontHandler(orderRepo, serverConfig, log.Named("storefront"))
	if err != nil {
		cleanup()
		return deps, func() {}, fmt.Errorf("failed to create storefront: %w", err)
	}
	deps.Handler = handler

	return deps, cleanup, nil
}

// ServeCommand returns the serve command
func ServeCommand(log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the local storefront replica",
		Action: func(c *cli.Context) error {
			deps, cleanup, err := buildServerDependencies(os.Getenv, log)
			if err != nil {
				return err
			}
			defer cleanup()

			return internalcli.RunServe(deps)
		},
	}
}

// SetupCommand returns the setup command: artifact directories and the
// authenticated session snapshot.
func SetupCommand(log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Prepare artifact directories and write the session snapshot",
		Action: func(c *cli.Context) error {
			cfg, err := config.LoadHarnessConfig(os.Getenv)
			if err != nil {
				return fmt.Errorf("invalid harness configuration: %w", err)
			}
			if cfg.BaseURL == "" {
				return errors.New("setup needs BASE_URL; the local storefront only lives as long as one run")
			}

			h, err := harness.Start(cfg, log)
			defer func() {
				if err := h.Close(); err != nil {
					log.Warn("failed to close harness", zap.Error(err))
				}
			}()
			if err != nil {
				return err
			}

			snapshot, err := h.Authenticate()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, snapshot.Path)
			return nil
		},
	}
}

// TeardownCommand returns the teardown command
func TeardownCommand(log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "teardown",
		Usage: "Remove empty artifact directories left by a run",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Usage: "artifacts root", EnvVars: []string{"ARTIFACTS_ROOT"}, Value: "."},
		},
		Action: func(c *cli.Context) error {
			return artifacts.New(c.String("root")).Teardown(log)
		},
	}
}

// InstallCommand returns the install command
func InstallCommand(log *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Install the Playwright driver and Chromium",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "timeout", Usage: "give up after this long", Value: 10 * time.Minute},
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
			defer cancel()
			return harness.Install(ctx, log)
		},
	}
}

// ReportCommand returns the report command
func ReportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Print the summary of the last run",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Usage: "artifacts root", EnvVars: []string{"ARTIFACTS_ROOT"}, Value: "."},
			&cli.StringFlag{Name: "file", Usage: "summary file, overrides --root"},
		},
		Action: func(c *cli.Context) error {
			path := c.String("file")
			if path == "" {
				path = artifacts.New(c.String("root")).SummaryPath()
			}
			summary, err := report.Load(path)
			if err != nil {
				return err
			}
			printSummary(c.App.Writer, summary)
			if summary.Failed > 0 {
				return fmt.Errorf("%w: %d of %d", errFailedTests, summary.Failed, summary.TotalTests)
			}
			return nil
		},
	}
}

func printSummary(w io.Writer, s report.Summary) {
	fmt.Fprintf(w, "Run %s at %s\n", s.RunID, s.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(w, "Total: %d  Passed: %d  Failed: %d  Skipped: %d  Duration: %s\n",
		s.TotalTests, s.Passed, s.Failed, s.Skipped, s.Duration)
	for _, r := range s.Failures() {
		fmt.Fprintf(w, "FAIL %s (%s)\n", r.Name, r.Duration)
	}
}

func newApp(log *zap.Logger) *cli.App {
	return &cli.App{
		Name:    "saucecheck",
		Usage:   "Browser end-to-end checks for the Swag Labs storefront",
		Version: version,
		Commands: []*cli.Command{
			ServeCommand(log),
			SetupCommand(log),
			TeardownCommand(log),
			InstallCommand(log),
			ReportCommand(),
		},
	}
}

func main() {
	os.Exit(run(os.Args))
}

// run executes the CLI and returns the exit code. The logger is synced
// before run returns, so os.Exit cannot drop the last entry.
func run(args []string) int {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	log := observability.NewConsoleLogger(config.LoadLoggerConfig(os.Getenv))
	defer func() { _ = log.Sync() }()
	if envErr != nil {
		log.Debug(".env file not found, using environment variables")
	}

	if err := newApp(log).Run(args); err != nil {
		log.Error("command failed", zap.Error(err))
		return 1
	}
	return 0
}
