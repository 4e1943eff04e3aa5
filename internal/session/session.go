// Package session produces and consumes the authenticated session snapshot:
// a Playwright storage-state file written once after logging in and loaded
// into every browser context that needs a logged-in user.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/themizzi/saucecheck/internal/pages"
)

var (
	// ErrAuthenticationFailed is returned when the configured user cannot log in.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrInvalidSnapshot is returned for a storage-state file without cookies.
	ErrInvalidSnapshot = errors.New("invalid session snapshot")
)

// Credentials identify the user the snapshot is taken for.
type Credentials struct {
	Username string
	Password string
}

// Snapshot points at a storage-state file on disk. It is read-only once
// Authenticate has returned it.
type Snapshot struct {
	Path string
}

// storageState is the subset of the Playwright storage-state format we check.
type storageState struct {
	Cookies []json.RawMessage `json:"cookies"`
	Origins []json.RawMessage `json:"origins"`
}

// Authenticate logs in through the login screen in a fresh context and
// saves the resulting cookies and storage to path.
func Authenticate(browser playwright.Browser, ctxOpts ContextOptions, pageOpts pages.Options, creds Credentials, path string) (Snapshot, error) {
	log := pageOpts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ctx, err := browser.NewContext(ctxOpts.Build(""))
	if err != nil {
		return Snapshot{}, fmt.Errorf("open context: %w", err)
	}
	defer ctx.Close()

	page, err := ctx.NewPage()
	if err != nil {
		return Snapshot{}, fmt.Errorf("open page: %w", err)
	}

	login := pages.NewLoginPage(page, pageOpts)
	if err := login.Navigate(); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	if !login.Login(creds.Username, creds.Password) {
		msg, _ := login.ErrorMessage()
		return Snapshot{}, fmt.Errorf("%w: user %q: %s", ErrAuthenticationFailed, creds.Username, msg)
	}
	if err := login.AssertCurrentURL(pages.PathPattern(pages.InventoryPath)); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return Snapshot{}, fmt.Errorf("create snapshot dir: %w", err)
	}
	if _, err := ctx.StorageState(path); err != nil {
		return Snapshot{}, fmt.Errorf("save storage state: %w", err)
	}

	log.Info("session snapshot written", zap.String("path", path), zap.String("username", creds.Username))
	return Snapshot{Path: path}, nil
}

// Load checks that path holds a usable storage-state file.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var state storageState
	if err := json.Unmarshal(data, &state); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if len(state.Cookies) == 0 {
		return Snapshot{}, fmt.Errorf("%w: %s has no cookies", ErrInvalidSnapshot, path)
	}
	return Snapshot{Path: path}, nil
}

// NewContext opens a browser context restored from the snapshot.
func (s Snapshot) NewContext(browser playwright.Browser, opts ContextOptions) (playwright.BrowserContext, error) {
	ctx, err := browser.NewContext(opts.Build(s.Path))
	if err != nil {
		return nil, fmt.Errorf("open context from %s: %w", s.Path, err)
	}
	return ctx, nil
}

// ContextOptions are the per-context settings shared by every spec.
type ContextOptions struct {
	BaseURL  string
	VideoDir string
	Width    int
	Height   int
}

// Build turns the options into Playwright's context options, restoring
// storage from storageState when it is not empty.
func (o ContextOptions) Build(storageState string) playwright.BrowserNewContextOptions {
	width, height := o.Width, o.Height
	if width == 0 || height == 0 {
		width, height = 1280, 720
	}
	opts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: width, Height: height},
	}
	if o.BaseURL != "" {
		opts.BaseURL = playwright.String(o.BaseURL)
	}
	if o.VideoDir != "" {
		opts.RecordVideo = &playwright.RecordVideo{Dir: o.VideoDir}
	}
	if storageState != "" {
		opts.StorageStatePath = playwright.String(storageState)
	}
	return opts
}
