// Package harness wires a browser test run together: artifact directories,
// the storefront under test, one Playwright browser, the authenticated
// session snapshot, and per-test contexts that keep traces, videos and a
// screenshot only when the test fails.
package harness

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/themizzi/saucecheck/internal/artifacts"
	"github.com/themizzi/saucecheck/internal/cli"
	"github.com/themizzi/saucecheck/internal/config"
	"github.com/themizzi/saucecheck/internal/pages"
	"github.com/themizzi/saucecheck/internal/report"
	"github.com/themizzi/saucecheck/internal/repository"
	"github.com/themizzi/saucecheck/internal/session"
)

// Browsers installed by Install.
var Browsers = []string{"chromium"}

// Harness owns the shared resources of one run.
type Harness struct {
	Config   *config.HarnessConfig
	Layout   artifacts.Layout
	Recorder *report.Recorder
	Log      *zap.Logger
	// BaseURL is the storefront every context targets.
	BaseURL string
	Browser playwright.Browser

	pw       *playwright.Playwright
	listener net.Listener
	server   *http.Server
	snapshot session.Snapshot

	namesMu sync.Mutex
	names   map[string]int
}

// UniqueName returns name the first time it is seen in this run and
// name#2, name#3 and so on after that. Report entries and artifact paths
// are keyed by test name, so tests whose runner reuses a name (scenario
// outline rows) must go through here.
func (h *Harness) UniqueName(name string) string {
	h.namesMu.Lock()
	defer h.namesMu.Unlock()
	if h.names == nil {
		h.names = make(map[string]int)
	}
	h.names[name]++
	if n := h.names[name]; n > 1 {
		return name + "#" + strconv.Itoa(n)
	}
	return name
}

// GlitchDelay is the login delay of performance_glitch_user on the local
// storefront.
const GlitchDelay = 1500 * time.Millisecond

// Install downloads the Playwright driver and browsers. It gives up when
// ctx is done; the download itself keeps running in the background.
func Install(ctx context.Context, log *zap.Logger) error {
	log.Info("installing playwright", zap.Strings("browsers", Browsers))
	done := make(chan error, 1)
	go func() {
		done <- playwright.Install(&playwright.RunOptions{Browsers: Browsers})
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("install playwright: %w", err)
		}
		log.Info("playwright installed")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("install playwright: %w", ctx.Err())
	}
}

// Start prepares artifacts, starts the local storefront when no BaseURL is
// configured, and launches the browser. Call Close when done, even on error.
func Start(cfg *config.HarnessConfig, log *zap.Logger) (*Harness, error) {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Harness{
		Config:  cfg,
		Layout:  artifacts.New(cfg.ArtifactsRoot),
		Log:     log,
		BaseURL: cfg.BaseURL,
	}
	h.Recorder = report.NewRecorder(h.Layout.SummaryPath(), log)

	if err := h.Layout.Prepare(log); err != nil {
		return h, err
	}
	if h.BaseURL == "" {
		if err := h.startStorefront(); err != nil {
			return h, err
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return h, fmt.Errorf("start playwright: %w", err)
	}
	h.pw = pw

	launch := playwright.BrowserTypeLaunchOptions{Headless: playwright.Bool(cfg.Headless)}
	if cfg.SlowMo > 0 {
		launch.SlowMo = playwright.Float(float64(cfg.SlowMo.Milliseconds()))
	}
	browser, err := pw.Chromium.Launch(launch)
	if err != nil {
		return h, fmt.Errorf("launch browser: %w", err)
	}
	h.Browser = browser

	log.Info("harness started",
		zap.String("base_url", h.BaseURL),
		zap.Bool("headless", cfg.Headless),
		zap.Duration("timeout", cfg.Timeout))
	return h, nil
}

// startStorefront serves the replica on a free local port.
func (h *Harness) startStorefront() error {
	serverCfg := config.ServerConfig{Port: "0", GlitchDelay: GlitchDelay}
	handler, err := cli.NewStorefrontHandler(repository.NewMemoryOrderRepository(), serverCfg, h.Log.Named("storefront"))
	if err != nil {
		return fmt.Errorf("build storefront: %w", err)
	}
	listener, server, err := cli.StartServer(cli.ServerDependencies{
		ServerConfig: serverCfg,
		Handler:      handler,
		Logger:       h.Log.Named("storefront"),
	})
	if err != nil {
		return fmt.Errorf("start storefront: %w", err)
	}
	h.listener, h.server = listener, server
	h.BaseURL = fmt.Sprintf("http://127.0.0.1:%d", listener.Addr().(*net.TCPAddr).Port)
	if h.Config.APIBaseURL == "" {
		h.Config.APIBaseURL = h.BaseURL
	}
	return nil
}

// PageOptions are the options every page object is built with.
func (h *Harness) PageOptions() pages.Options {
	return pages.Options{BaseURL: h.BaseURL, Timeout: h.Config.Timeout, Logger: h.Log}
}

// ContextOptions are the options every browser context is opened with.
func (h *Harness) ContextOptions() session.ContextOptions {
	opts := session.ContextOptions{BaseURL: h.BaseURL}
	if h.Config.Video {
		opts.VideoDir = h.Layout.VideoDir()
	}
	return opts
}

// Authenticate logs in as the configured user and writes the session
// snapshot every authenticated context is restored from.
func (h *Harness) Authenticate() (session.Snapshot, error) {
	creds := session.Credentials{Username: h.Config.Username, Password: h.Config.Password}
	opts := h.ContextOptions()
	opts.VideoDir = ""
	snapshot, err := session.Authenticate(h.Browser, opts, h.PageOptions(), creds, h.Layout.AuthStatePath())
	if err != nil {
		return session.Snapshot{}, err
	}
	h.snapshot = snapshot
	return snapshot, nil
}

// Snapshot returns the snapshot written by Authenticate.
func (h *Harness) Snapshot() session.Snapshot {
	return h.snapshot
}

// Close stops the browser, Playwright and the local storefront.
func (h *Harness) Close() error {
	var errs []error
	if h.Browser != nil {
		if err := h.Browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	if h.pw != nil {
		if err := h.pw.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stop playwright: %w", err))
		}
	}
	if h.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("stop storefront: %w", err))
		}
		h.listener.Close()
	}
	return errors.Join(errs...)
}

// TestContext is one test's browser context and page.
type TestContext struct {
	Context playwright.BrowserContext
	Page    playwright.Page
	Screens *pages.Screens

	name    string
	h       *Harness
	tracing bool
}

// NewTestContext opens a context for the named test. Authenticated contexts
// are restored from the session snapshot.
func (h *Harness) NewTestContext(name string, authenticated bool) (*TestContext, error) {
	opts := h.ContextOptions()
	var (
		bctx playwright.BrowserContext
		err  error
	)
	if authenticated {
		if h.snapshot.Path == "" {
			return nil, fmt.Errorf("%w: no session snapshot, call Authenticate first", session.ErrInvalidSnapshot)
		}
		snapshot, loadErr := session.Load(h.snapshot.Path)
		if loadErr != nil {
			return nil, loadErr
		}
		bctx, err = snapshot.NewContext(h.Browser, opts)
	} else {
		bctx, err = h.Browser.NewContext(opts.Build(""))
	}
	if err != nil {
		return nil, err
	}
	bctx.SetDefaultTimeout(float64(h.Config.Timeout.Milliseconds()))

	tc := &TestContext{Context: bctx, name: name, h: h}
	if h.Config.Trace {
		if err := bctx.Tracing().Start(playwright.TracingStartOptions{
			Name:        playwright.String(artifacts.Sanitize(name)),
			Screenshots: playwright.Bool(true),
			Snapshots:   playwright.Bool(true),
		}); err != nil {
			bctx.Close()
			return nil, fmt.Errorf("start tracing: %w", err)
		}
		tc.tracing = true
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	tc.Page = page
	tc.Screens = pages.New(page, h.PageOptions())
	return tc, nil
}

// Finish closes the context. A failed test keeps a screenshot, its trace
// and its video; a passing one keeps nothing.
func (tc *TestContext) Finish(failed bool) error {
	log := tc.h.Log.With(zap.String("test", tc.name))
	var errs []error

	if failed {
		shot := tc.h.Layout.ScreenshotPath(tc.name, time.Now())
		if _, err := tc.Page.Screenshot(playwright.PageScreenshotOptions{
			Path:     playwright.String(shot),
			FullPage: playwright.Bool(true),
		}); err != nil {
			errs = append(errs, fmt.Errorf("failure screenshot: %w", err))
		} else {
			log.Info("failure screenshot saved", zap.String("path", shot))
		}
	}

	if tc.tracing {
		var err error
		if failed {
			path := tc.h.Layout.TracePath(tc.name)
			err = tc.Context.Tracing().Stop(path)
			log.Info("trace saved", zap.String("path", path))
		} else {
			err = tc.Context.Tracing().Stop()
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("stop tracing: %w", err))
		}
	}

	var video playwright.Video
	if tc.h.Config.Video {
		video = tc.Page.Video()
	}
	if err := tc.Context.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close context: %w", err))
	}
	if video != nil && !failed {
		if err := video.Delete(); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("delete video: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Open starts a test context for t, records the test in the run report and
// registers cleanup that finishes the context with t's outcome.
func (h *Harness) Open(t testing.TB, authenticated bool) *TestContext {
	t.Helper()
	start := time.Now()
	h.Recorder.TestBegin(t.Name())

	tc, err := h.NewTestContext(t.Name(), authenticated)
	if err != nil {
		h.Recorder.TestEnd(t.Name(), report.StatusFailed, time.Since(start))
		t.Fatalf("open browser context: %v", err)
	}

	t.Cleanup(func() {
		if err := tc.Finish(t.Failed()); err != nil {
			t.Logf("finish browser context: %v", err)
		}
		h.Recorder.TestEnd(t.Name(), statusOf(t), time.Since(start))
	})
	return tc
}

func statusOf(t testing.TB) report.Status {
	switch {
	case t.Failed():
		return report.StatusFailed
	case t.Skipped():
		return report.StatusSkipped
	default:
		return report.StatusPassed
	}
}
