package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"
)

// CheckoutStepOnePage collects the customer's name and postal code.
type CheckoutStepOnePage struct {
	*BasePage
	FirstNameInput  playwright.Locator
	LastNameInput   playwright.Locator
	PostalCodeInput playwright.Locator
	ContinueButton  playwright.Locator
	CancelButton    playwright.Locator
	ErrorBanner     playwright.Locator
}

// NewCheckoutStepOnePage creates the customer information page object.
func NewCheckoutStepOnePage(page playwright.Page, opts Options) *CheckoutStepOnePage {
	base := NewBasePage(page, opts, CheckoutStepOnePath)
	return &CheckoutStepOnePage{
		BasePage:        base,
		FirstNameInput:  base.LocateID("first-name"),
		LastNameInput:   base.LocateID("last-name"),
		PostalCodeInput: base.LocateID("postal-code"),
		ContinueButton:  base.LocateID("continue"),
		CancelButton:    base.LocateID("cancel"),
		ErrorBanner:     base.Locate("error"),
	}
}

// FillCustomerInfo fills all three fields. Empty values leave a field blank.
func (c *CheckoutStepOnePage) FillCustomerInfo(firstName, lastName, postalCode string) error {
	fields := []struct {
		name  string
		input playwright.Locator
		value string
	}{
		{"first name", c.FirstNameInput, firstName},
		{"last name", c.LastNameInput, lastName},
		{"postal code", c.PostalCodeInput, postalCode},
	}
	for _, f := range fields {
		if err := f.input.Fill(f.value); err != nil {
			return fmt.Errorf("fill %s: %w", f.name, err)
		}
	}
	return nil
}

// Continue submits the form. It does not wait for navigation because the
// storefront may answer with a validation error instead; callers wait on
// the outcome they expect.
func (c *CheckoutStepOnePage) Continue() error {
	if err := c.ContinueButton.Click(); err != nil {
		return fmt.Errorf("click continue: %w", err)
	}
	return nil
}

// Cancel returns to the cart.
func (c *CheckoutStepOnePage) Cancel() error {
	if err := c.CancelButton.Click(); err != nil {
		return fmt.Errorf("click cancel: %w", err)
	}
	return c.WaitForPath(CartPath)
}

// ErrorMessage returns the visible validation error, if any.
func (c *CheckoutStepOnePage) ErrorMessage() (string, bool) {
	return visibleText(c.ErrorBanner)
}

// CheckoutStepTwoPage is the order overview.
type CheckoutStepTwoPage struct {
	itemList
	SubtotalLabel playwright.Locator
	TaxLabel      playwright.Locator
	TotalLabel    playwright.Locator
	FinishButton  playwright.Locator
	CancelButton  playwright.Locator
}

// NewCheckoutStepTwoPage creates the overview page object.
func NewCheckoutStepTwoPage(page playwright.Page, opts Options) *CheckoutStepTwoPage {
	base := NewBasePage(page, opts, CheckoutStepTwoPath)
	return &CheckoutStepTwoPage{
		itemList:      newItemList(base),
		SubtotalLabel: page.Locator(".summary_subtotal_label"),
		TaxLabel:      page.Locator(".summary_tax_label"),
		TotalLabel:    page.Locator(".summary_total_label"),
		FinishButton:  base.LocateID("finish"),
		CancelButton:  base.LocateID("cancel"),
	}
}

// Subtotal is the item total before tax. 0 means the value was absent.
func (c *CheckoutStepTwoPage) Subtotal() (float64, error) {
	return c.amount(c.SubtotalLabel)
}

// Tax is the tax line. 0 means the value was absent.
func (c *CheckoutStepTwoPage) Tax() (float64, error) {
	return c.amount(c.TaxLabel)
}

// Total is the grand total. 0 means the value was absent.
func (c *CheckoutStepTwoPage) Total() (float64, error) {
	return c.amount(c.TotalLabel)
}

func (c *CheckoutStepTwoPage) amount(label playwright.Locator) (float64, error) {
	if err := c.AssertVisible(label); err != nil {
		return 0, err
	}
	text, err := label.TextContent()
	if err != nil {
		return 0, err
	}
	return ParseAmount(text), nil
}

// Finish places the order.
func (c *CheckoutStepTwoPage) Finish() error {
	if err := c.FinishButton.Click(); err != nil {
		return fmt.Errorf("click finish: %w", err)
	}
	return c.WaitForPath(CheckoutCompletePath)
}

// Cancel abandons the overview and returns to the inventory.
func (c *CheckoutStepTwoPage) Cancel() error {
	if err := c.CancelButton.Click(); err != nil {
		return fmt.Errorf("click cancel: %w", err)
	}
	return c.WaitForPath(InventoryPath)
}

// CheckoutCompletePage confirms a placed order.
type CheckoutCompletePage struct {
	*BasePage
	Header         playwright.Locator
	Body           playwright.Locator
	BackHomeButton playwright.Locator
}

// NewCheckoutCompletePage creates the confirmation page object.
func NewCheckoutCompletePage(page playwright.Page, opts Options) *CheckoutCompletePage {
	base := NewBasePage(page, opts, CheckoutCompletePath)
	return &CheckoutCompletePage{
		BasePage:       base,
		Header:         page.Locator(".complete-header"),
		Body:           page.Locator(".complete-text"),
		BackHomeButton: base.LocateID("back-to-products"),
	}
}

// HeaderText returns the confirmation headline.
func (c *CheckoutCompletePage) HeaderText() (string, error) {
	return c.text(c.Header)
}

// BodyText returns the confirmation body.
func (c *CheckoutCompletePage) BodyText() (string, error) {
	return c.text(c.Body)
}

func (c *CheckoutCompletePage) text(locator playwright.Locator) (string, error) {
	if err := c.AssertVisible(locator); err != nil {
		return "", err
	}
	texts, err := trimmedTexts(locator)
	if err != nil {
		return "", err
	}
	if len(texts) == 0 {
		return "", nil
	}
	return texts[0], nil
}

// BackToProducts returns to the inventory.
func (c *CheckoutCompletePage) BackToProducts() error {
	if err := c.BackHomeButton.Click(); err != nil {
		return fmt.Errorf("click back to products: %w", err)
	}
	return c.WaitForPath(InventoryPath)
}
