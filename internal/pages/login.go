package pages

import (
	"errors"
	"fmt"
	"strings"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

var errLoginRejected = errors.New("login rejected")

// LoginPage is the storefront's landing screen.
type LoginPage struct {
	*BasePage
	UsernameInput playwright.Locator
	PasswordInput playwright.Locator
	LoginButton   playwright.Locator
	ErrorBanner   playwright.Locator
	ErrorClose    playwright.Locator
}

// NewLoginPage creates the login page object.
func NewLoginPage(page playwright.Page, opts Options) *LoginPage {
	base := NewBasePage(page, opts, LoginPath)
	return &LoginPage{
		BasePage:      base,
		UsernameInput: base.LocateID("user-name"),
		PasswordInput: base.LocateID("password"),
		LoginButton:   base.LocateID("login-button"),
		ErrorBanner:   base.Locate("error"),
		ErrorClose:    base.Locate("error-button"),
	}
}

// Login submits the credentials and reports whether the storefront let the
// user in. It waits for whichever comes first: the inventory list or the
// inline error. Interaction failures are logged and reported as false.
func (l *LoginPage) Login(username, password string) bool {
	if err := l.login(username, password); err != nil {
		l.log.Info("login did not succeed", zap.String("username", username), zap.Error(err))
		return false
	}
	return true
}

func (l *LoginPage) login(username, password string) error {
	if err := l.DismissError(); err != nil {
		return err
	}
	if err := l.UsernameInput.Fill(username); err != nil {
		return fmt.Errorf("fill username: %w", err)
	}
	if err := l.PasswordInput.Fill(password); err != nil {
		return fmt.Errorf("fill password: %w", err)
	}
	if err := l.LoginButton.Click(); err != nil {
		return fmt.Errorf("click login: %w", err)
	}

	outcome := l.page.Locator(".inventory_list, " + TestIDSelector("error")).First()
	if err := outcome.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: l.ms(),
	}); err != nil {
		return fmt.Errorf("wait for login outcome: %w", err)
	}

	if msg, ok := l.ErrorMessage(); ok {
		return fmt.Errorf("%w: %s", errLoginRejected, msg)
	}
	if !l.IsLoginSuccessful() {
		return fmt.Errorf("%w: still on %s", errLoginRejected, l.page.URL())
	}
	return nil
}

// DismissError closes an error banner left by a redirect or an earlier
// attempt, so the next outcome wait only sees what the next submit renders.
func (l *LoginPage) DismissError() error {
	if _, shown := l.ErrorMessage(); !shown {
		return nil
	}
	if err := l.ErrorClose.Click(playwright.LocatorClickOptions{Timeout: l.ms()}); err != nil {
		return fmt.Errorf("close error banner: %w", err)
	}
	if err := l.ErrorBanner.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateHidden,
		Timeout: l.ms(),
	}); err != nil {
		return fmt.Errorf("wait for error banner to close: %w", err)
	}
	return nil
}

// ErrorMessage returns the visible error text. ok is false when no error
// is shown.
func (l *LoginPage) ErrorMessage() (msg string, ok bool) {
	return visibleText(l.ErrorBanner)
}

// IsLoginSuccessful reports whether the browser is on the inventory screen.
func (l *LoginPage) IsLoginSuccessful() bool {
	return l.CurrentPathIs(InventoryPath)
}

// visibleText returns the trimmed text of a visible element.
func visibleText(locator playwright.Locator) (string, bool) {
	visible, err := locator.IsVisible()
	if err != nil || !visible {
		return "", false
	}
	text, err := locator.TextContent()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(text), true
}
