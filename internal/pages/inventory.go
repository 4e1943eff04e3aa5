package pages

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/playwright-community/playwright-go"

	"github.com/themizzi/saucecheck/internal/catalog"
)

// InventoryPage is the product listing.
type InventoryPage struct {
	*BasePage
	ProductsList     playwright.Locator
	ProductNameItems playwright.Locator
	ProductPriceTags playwright.Locator
	ShoppingCartLink playwright.Locator
	CartBadge        playwright.Locator
	SortSelect       playwright.Locator
	BurgerMenuButton playwright.Locator
	LogoutLink       playwright.Locator
}

// NewInventoryPage creates the inventory page object.
func NewInventoryPage(page playwright.Page, opts Options) *InventoryPage {
	base := NewBasePage(page, opts, InventoryPath)
	return &InventoryPage{
		BasePage:         base,
		ProductsList:     page.Locator(".inventory_item"),
		ProductNameItems: page.Locator(".inventory_item .inventory_item_name"),
		ProductPriceTags: page.Locator(".inventory_item .inventory_item_price"),
		ShoppingCartLink: page.Locator(".shopping_cart_link"),
		CartBadge:        page.Locator(".shopping_cart_badge"),
		SortSelect:       page.Locator(".product_sort_container"),
		BurgerMenuButton: base.LocateID("react-burger-menu-btn"),
		LogoutLink:       base.LocateID("logout_sidebar_link"),
	}
}

// AddProduct clicks the product's add-to-cart control and waits for it to
// turn into a remove control.
func (i *InventoryPage) AddProduct(name string) error {
	product, err := catalog.Lookup(name)
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return i.toggle(product.AddButtonID(), product.RemoveButtonID())
}

// RemoveProduct clicks the product's remove control. The product must
// already be in the cart.
func (i *InventoryPage) RemoveProduct(name string) error {
	product, err := catalog.Lookup(name)
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return i.toggle(product.RemoveButtonID(), product.AddButtonID())
}

func (i *InventoryPage) toggle(fromID, toID string) error {
	button := i.LocateID(fromID)
	if err := button.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: i.ms(),
	}); err != nil {
		return fmt.Errorf("wait for %s: %w", fromID, err)
	}
	if err := button.Click(playwright.LocatorClickOptions{Timeout: i.ms()}); err != nil {
		return fmt.Errorf("click %s: %w", fromID, err)
	}
	if err := i.LocateID(toID).WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: i.ms(),
	}); err != nil {
		return fmt.Errorf("wait for %s: %w", toID, err)
	}
	return nil
}

// CartBadgeCount returns the number on the cart badge, or 0 without a badge.
func (i *InventoryPage) CartBadgeCount() (int, error) {
	return badgeCount(i.CartBadge)
}

// GoToCart opens the cart screen.
func (i *InventoryPage) GoToCart() error {
	if err := i.ShoppingCartLink.Click(); err != nil {
		return fmt.Errorf("click cart link: %w", err)
	}
	return i.WaitForPath(CartPath)
}

// SortBy selects a sort option and waits until the list shows the product
// that order puts first.
func (i *InventoryPage) SortBy(order catalog.SortOrder) error {
	if err := i.SortSelect.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: i.ms(),
	}); err != nil {
		return fmt.Errorf("wait for sort select: %w", err)
	}
	if _, err := i.SortSelect.SelectOption(playwright.SelectOptionValues{
		Values: &[]string{string(order)},
	}); err != nil {
		return fmt.Errorf("select %s: %w", order, err)
	}

	first := catalog.Sort(catalog.All(), order)[0]
	if err := i.expect.Locator(i.ProductNameItems.First()).ToHaveText(first.Name); err != nil {
		return fmt.Errorf("wait for %s ordering: %w", order, err)
	}
	return nil
}

// ProductCount returns how many products are listed.
func (i *InventoryPage) ProductCount() (int, error) {
	return i.ProductsList.Count()
}

// ProductNames returns the listed product names in display order.
func (i *InventoryPage) ProductNames() ([]string, error) {
	return trimmedTexts(i.ProductNameItems)
}

// ProductPrices returns the listed prices in display order.
func (i *InventoryPage) ProductPrices() ([]float64, error) {
	texts, err := trimmedTexts(i.ProductPriceTags)
	if err != nil {
		return nil, err
	}
	prices := make([]float64, len(texts))
	for n, t := range texts {
		prices[n] = ParseAmount(t)
	}
	return prices, nil
}

// FirstProductName returns the name of the first listed product.
func (i *InventoryPage) FirstProductName() (string, error) {
	text, err := i.ProductNameItems.First().TextContent()
	return strings.TrimSpace(text), err
}

// FirstProductPrice returns the price of the first listed product.
func (i *InventoryPage) FirstProductPrice() (float64, error) {
	text, err := i.ProductPriceTags.First().TextContent()
	if err != nil {
		return 0, err
	}
	return ParseAmount(text), nil
}

// Logout opens the side menu and logs out.
func (i *InventoryPage) Logout() error {
	if err := i.BurgerMenuButton.Click(); err != nil {
		return fmt.Errorf("open menu: %w", err)
	}
	if err := i.LogoutLink.Click(playwright.LocatorClickOptions{Timeout: i.ms()}); err != nil {
		return fmt.Errorf("click logout: %w", err)
	}
	if err := i.LocateID("login-button").WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: i.ms(),
	}); err != nil {
		return fmt.Errorf("wait for login screen: %w", err)
	}
	return nil
}

func badgeCount(badge playwright.Locator) (int, error) {
	visible, err := badge.IsVisible()
	if err != nil {
		return 0, err
	}
	if !visible {
		return 0, nil
	}
	text, err := badge.TextContent()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("cart badge %q: %w", text, err)
	}
	return n, nil
}

func trimmedTexts(locator playwright.Locator) ([]string, error) {
	texts, err := locator.AllTextContents()
	if err != nil {
		return nil, err
	}
	for n, t := range texts {
		texts[n] = strings.TrimSpace(t)
	}
	return texts, nil
}
