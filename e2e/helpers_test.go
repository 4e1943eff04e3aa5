//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/themizzi/saucecheck/internal/pages"
	"github.com/themizzi/saucecheck/internal/scenario"
)

// anonymous opens a fresh context on the login screen.
func anonymous(t *testing.T) *pages.Screens {
	t.Helper()
	s := h.Open(t, false).Screens
	require.NoError(t, s.Login.Navigate())
	return s
}

// loggedIn opens a context restored from the session snapshot on the
// inventory screen.
func loggedIn(t *testing.T) *pages.Screens {
	t.Helper()
	s := h.Open(t, true).Screens
	require.NoError(t, s.Inventory.Navigate())
	require.NoError(t, s.Inventory.AssertVisible(s.Inventory.ProductsList.First()))
	return s
}

// loginAs logs in through the form in a fresh context.
func loginAs(t *testing.T, creds scenario.Credentials) *pages.Screens {
	t.Helper()
	s := anonymous(t)
	require.True(t, s.Login.Login(creds.Username, creds.Password), "login as %q", creds.Username)
	return s
}

func validUser(t *testing.T, name string) scenario.Credentials {
	t.Helper()
	creds, err := fixtures.ValidUser(name)
	require.NoError(t, err)
	return creds
}

// toCheckoutOverview adds products and walks to the checkout overview with
// the valid customer.
func toCheckoutOverview(t *testing.T, s *pages.Screens, products ...string) {
	t.Helper()
	for _, name := range products {
		require.NoError(t, s.Inventory.AddProduct(name))
	}
	require.NoError(t, s.Inventory.GoToCart())
	require.NoError(t, s.Cart.ProceedToCheckout())

	c := fixtures.CustomerInfo.Valid
	require.NoError(t, s.CheckoutStepOne.FillCustomerInfo(c.FirstName, c.LastName, c.PostalCode))
	require.NoError(t, s.CheckoutStepOne.Continue())
	require.NoError(t, s.CheckoutStepTwo.WaitForPath(pages.CheckoutStepTwoPath))
}
