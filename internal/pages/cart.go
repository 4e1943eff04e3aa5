package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/saucecheck/internal/catalog"
)

// itemList is the shared view over the .cart_item rows rendered by the cart
// and by the checkout overview.
type itemList struct {
	*BasePage
	Items      playwright.Locator
	ItemLabels playwright.Locator
}

func newItemList(base *BasePage) itemList {
	return itemList{
		BasePage:   base,
		Items:      base.page.Locator(".cart_item"),
		ItemLabels: base.page.Locator(".cart_item .inventory_item_name"),
	}
}

// Item returns the row whose name label is exactly the named product.
// Descriptions mentioning other products do not match.
func (l itemList) Item(name string) playwright.Locator {
	label := l.page.Locator(".inventory_item_name").Filter(playwright.LocatorFilterOptions{HasText: ExactText(name)})
	return l.Items.Filter(playwright.LocatorFilterOptions{Has: label})
}

// ItemNames returns the product names in row order.
func (l itemList) ItemNames() ([]string, error) {
	return trimmedTexts(l.ItemLabels)
}

// ItemCount returns the number of rows.
func (l itemList) ItemCount() (int, error) {
	return l.Items.Count()
}

// CartPage is the shopping cart screen.
type CartPage struct {
	itemList
	CheckoutButton         playwright.Locator
	ContinueShoppingButton playwright.Locator
	CartBadge              playwright.Locator
}

// NewCartPage creates the cart page object.
func NewCartPage(page playwright.Page, opts Options) *CartPage {
	base := NewBasePage(page, opts, CartPath)
	return &CartPage{
		itemList:               newItemList(base),
		CheckoutButton:         base.LocateID("checkout"),
		ContinueShoppingButton: base.LocateID("continue-shopping"),
		CartBadge:              page.Locator(".shopping_cart_badge"),
	}
}

// RemoveItem removes the named product and waits for its row to disappear.
func (c *CartPage) RemoveItem(name string) error {
	product, err := catalog.Lookup(name)
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	if err := c.LocateID(product.RemoveButtonID()).Click(playwright.LocatorClickOptions{Timeout: c.ms()}); err != nil {
		return fmt.Errorf("click remove %s: %w", product.Name, err)
	}
	if err := c.expect.Locator(c.Item(product.Name)).ToHaveCount(0); err != nil {
		return fmt.Errorf("wait for %s to leave the cart: %w", product.Name, err)
	}
	return nil
}

// CartBadgeCount returns the number on the cart badge, or 0 without a badge.
func (c *CartPage) CartBadgeCount() (int, error) {
	return badgeCount(c.CartBadge)
}

// ProceedToCheckout moves to checkout step one.
func (c *CartPage) ProceedToCheckout() error {
	if err := c.CheckoutButton.Click(); err != nil {
		return fmt.Errorf("click checkout: %w", err)
	}
	return c.WaitForPath(CheckoutStepOnePath)
}

// ContinueShopping goes back to the inventory.
func (c *CartPage) ContinueShopping() error {
	if err := c.ContinueShoppingButton.Click(); err != nil {
		return fmt.Errorf("click continue shopping: %w", err)
	}
	return c.WaitForPath(InventoryPath)
}
