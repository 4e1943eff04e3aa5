//go:build e2e

package e2e

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/themizzi/saucecheck/internal/pages"
)

func TestLogin_ValidUser(t *testing.T) {
	s := loginAs(t, validUser(t, "standard"))

	assert.True(t, s.Login.IsLoginSuccessful())
	require.NoError(t, s.Inventory.AssertCurrentURL(pages.PathPattern(pages.InventoryPath)))
	count, err := s.Inventory.ProductCount()
	require.NoError(t, err)
	assert.Equal(t, 6, count)
}

func TestLogin_InvalidUsers(t *testing.T) {
	for _, name := range fixtures.InvalidUserNames() {
		t.Run(name, func(t *testing.T) {
			creds, err := fixtures.InvalidUser(name)
			require.NoError(t, err)
			s := anonymous(t)

			ok := s.Login.Login(creds.Username, creds.Password)

			assert.False(t, ok)
			assert.False(t, s.Login.IsLoginSuccessful())
			msg, visible := s.Login.ErrorMessage()
			require.True(t, visible, "error banner not shown")
			assert.Equal(t, creds.ErrorMessage, msg)
		})
	}
}

func TestLogin_Logout(t *testing.T) {
	s := loggedIn(t)

	require.NoError(t, s.Inventory.Logout())

	require.NoError(t, s.Login.AssertVisible(s.Login.LoginButton))
	assert.True(t, s.Login.CurrentPathIs(pages.LoginPath))
}

func TestLogin_ProtectedPageRedirects(t *testing.T) {
	s := h.Open(t, false).Screens

	require.NoError(t, s.Cart.Navigate())

	require.NoError(t, s.Login.AssertVisible(s.Login.ErrorBanner))
	require.NoError(t, s.Login.AssertContainsText(s.Login.ErrorBanner, "when you are logged in"))
	assert.False(t, s.Login.IsLoginSuccessful())
}

func TestLogin_AfterRedirectBanner(t *testing.T) {
	s := h.Open(t, false).Screens
	require.NoError(t, s.Cart.Navigate())
	require.NoError(t, s.Login.AssertVisible(s.Login.ErrorBanner))

	creds := validUser(t, "standard")
	ok := s.Login.Login(creds.Username, creds.Password)

	assert.True(t, ok)
	assert.True(t, s.Login.IsLoginSuccessful())
}

func TestLogin_RetryReportsNewError(t *testing.T) {
	locked, err := fixtures.InvalidUser("locked")
	require.NoError(t, err)
	wrong, err := fixtures.InvalidUser("wrongPassword")
	require.NoError(t, err)
	s := anonymous(t)

	require.False(t, s.Login.Login(wrong.Username, wrong.Password))
	ok := s.Login.Login(locked.Username, locked.Password)

	assert.False(t, ok)
	msg, visible := s.Login.ErrorMessage()
	require.True(t, visible)
	assert.Equal(t, locked.ErrorMessage, msg)
}
