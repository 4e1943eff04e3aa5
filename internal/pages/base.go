// Package pages wraps each screen of the storefront behind a page object.
// Every page object embeds a *BasePage, which carries the shared navigation
// and assertion operations over a single playwright.Page.
package pages

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every wait when Options.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Screen paths of the storefront.
const (
	LoginPath            = "/"
	InventoryPath        = "/inventory.html"
	CartPath             = "/cart.html"
	CheckoutStepOnePath  = "/checkout-step-one.html"
	CheckoutStepTwoPath  = "/checkout-step-two.html"
	CheckoutCompletePath = "/checkout-complete.html"
)

// Options configures page objects.
type Options struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// BasePage holds the page handle and the operations shared by all screens.
type BasePage struct {
	page    playwright.Page
	url     string
	path    string
	timeout time.Duration
	expect  playwright.PlaywrightAssertions
	log     *zap.Logger
}

// NewBasePage binds a page to the screen at path under opts.BaseURL.
func NewBasePage(page playwright.Page, opts Options, path string) *BasePage {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &BasePage{
		page:    page,
		url:     strings.TrimRight(opts.BaseURL, "/") + path,
		path:    path,
		timeout: timeout,
		expect:  playwright.NewPlaywrightAssertions(milliseconds(timeout)),
		log:     log,
	}
}

// Page returns the underlying playwright page.
func (b *BasePage) Page() playwright.Page { return b.page }

// URL is the absolute address of the screen.
func (b *BasePage) URL() string { return b.url }

// Path is the screen's path.
func (b *BasePage) Path() string { return b.path }

// Navigate loads the screen and waits for the network to go idle.
func (b *BasePage) Navigate() error {
	if _, err := b.page.Goto(b.url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   b.ms(),
	}); err != nil {
		return fmt.Errorf("navigate to %s: %w", b.url, err)
	}
	return nil
}

// Locate resolves an element by its data-test attribute.
func (b *BasePage) Locate(testID string) playwright.Locator {
	return b.page.Locator(TestIDSelector(testID))
}

// LocateID resolves an element by its id attribute. Unlike a "#id" CSS
// selector this tolerates ids containing dots and parentheses.
func (b *BasePage) LocateID(id string) playwright.Locator {
	return b.page.Locator(IDSelector(id))
}

// IsVisible reports whether the element is currently visible. It does not wait.
func (b *BasePage) IsVisible(locator playwright.Locator) (bool, error) {
	return locator.IsVisible()
}

// AssertVisible waits for the element to become visible.
func (b *BasePage) AssertVisible(locator playwright.Locator) error {
	return b.expect.Locator(locator).ToBeVisible()
}

// AssertContainsText waits for the element's text to contain text.
func (b *BasePage) AssertContainsText(locator playwright.Locator, text string) error {
	return b.expect.Locator(locator).ToContainText(text)
}

// AssertCurrentURL waits for the page URL to match pattern, which is either
// a glob string or a *regexp.Regexp.
func (b *BasePage) AssertCurrentURL(pattern interface{}) error {
	return b.expect.Page(b.page).ToHaveURL(pattern)
}

// WaitForPath waits for a navigation that lands on path.
func (b *BasePage) WaitForPath(path string) error {
	if err := b.page.WaitForURL(PathPattern(path), playwright.PageWaitForURLOptions{
		Timeout: b.ms(),
	}); err != nil {
		return fmt.Errorf("wait for %s: %w", path, err)
	}
	return nil
}

// CurrentPathIs reports whether the page URL path equals path.
func (b *BasePage) CurrentPathIs(path string) bool {
	u, err := url.Parse(b.page.URL())
	if err != nil {
		return false
	}
	current := u.Path
	if current == "" {
		current = "/"
	}
	return current == path
}

// Screenshot captures the full page, blanking out masked elements, and
// writes it to path when path is not empty.
func (b *BasePage) Screenshot(path string, masks ...playwright.Locator) ([]byte, error) {
	opts := playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
		Timeout:  b.ms(),
	}
	if path != "" {
		opts.Path = playwright.String(path)
	}
	if len(masks) > 0 {
		opts.Mask = masks
	}
	return b.page.Screenshot(opts)
}

func (b *BasePage) ms() *float64 {
	return playwright.Float(milliseconds(b.timeout))
}

func milliseconds(d time.Duration) float64 {
	return float64(d.Milliseconds())
}

// TestIDSelector builds a [data-test="..."] selector.
func TestIDSelector(testID string) string {
	return `[data-test="` + cssEscape(testID) + `"]`
}

// ExactText matches an element whose whole text is s, case-sensitively.
func ExactText(s string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*` + regexp.QuoteMeta(s) + `\s*$`)
}

// IDSelector builds an [id="..."] selector.
func IDSelector(id string) string {
	return `[id="` + cssEscape(id) + `"]`
}

func cssEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

// PathPattern matches any absolute URL whose path is path, with or without
// a query string.
func PathPattern(path string) *regexp.Regexp {
	return regexp.MustCompile(`^[a-z]+://[^/]+` + regexp.QuoteMeta(path) + `(\?.*)?(#.*)?$`)
}
