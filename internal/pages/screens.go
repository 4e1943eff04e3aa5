package pages

import "github.com/playwright-community/playwright-go"

// Screens bundles one page object per storefront screen, all bound to the
// same browser page.
type Screens struct {
	Login            *LoginPage
	Inventory        *InventoryPage
	Cart             *CartPage
	CheckoutStepOne  *CheckoutStepOnePage
	CheckoutStepTwo  *CheckoutStepTwoPage
	CheckoutComplete *CheckoutCompletePage
}

// New builds every page object for page.
func New(page playwright.Page, opts Options) *Screens {
	return &Screens{
		Login:            NewLoginPage(page, opts),
		Inventory:        NewInventoryPage(page, opts),
		Cart:             NewCartPage(page, opts),
		CheckoutStepOne:  NewCheckoutStepOnePage(page, opts),
		CheckoutStepTwo:  NewCheckoutStepTwoPage(page, opts),
		CheckoutComplete: NewCheckoutCompletePage(page, opts),
	}
}
