package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTestIDSelector(t *testing.T) {
	assert.Equal(t, `[data-test="error"]`, TestIDSelector("error"))
	assert.Equal(t, `[data-test="a\"b"]`, TestIDSelector(`a"b`))
}

func TestIDSelector_SpecialCharacters(t *testing.T) {
	// GIVEN an id containing dots and parentheses
	id := "add-to-cart-test.allthethings()-t-shirt-(red)"

	// WHEN building its selector
	got := IDSelector(id)

	// THEN it is an attribute selector, not a #id selector
	assert.Equal(t, `[id="add-to-cart-test.allthethings()-t-shirt-(red)"]`, got)
}

func TestPathPattern(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		url   string
		match bool
	}{
		{name: "exact inventory", path: InventoryPath, url: "https://www.saucedemo.com/inventory.html", match: true},
		{name: "inventory with query", path: InventoryPath, url: "http://127.0.0.1:8080/inventory.html?sort=az", match: true},
		{name: "inventory with fragment", path: InventoryPath, url: "http://localhost/inventory.html#top", match: true},
		{name: "different screen", path: InventoryPath, url: "https://www.saucedemo.com/cart.html", match: false},
		{name: "suffix only", path: CartPath, url: "https://www.saucedemo.com/old/cart.html", match: false},
		{name: "login root", path: LoginPath, url: "https://www.saucedemo.com/", match: true},
		{name: "login root with query", path: LoginPath, url: "http://localhost:9000/?error=1", match: true},
		{name: "login does not match inventory", path: LoginPath, url: "https://www.saucedemo.com/inventory.html", match: false},
		{name: "dots are literal", path: CartPath, url: "https://www.saucedemo.com/cartxhtml", match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, PathPattern(tt.path).MatchString(tt.url))
		})
	}
}

func TestNewBasePage_Defaults(t *testing.T) {
	base := NewBasePage(nil, Options{BaseURL: "https://www.saucedemo.com/"}, CartPath)

	assert.Equal(t, "https://www.saucedemo.com/cart.html", base.URL())
	assert.Equal(t, CartPath, base.Path())
	assert.Equal(t, DefaultTimeout, base.timeout)
	assert.NotNil(t, base.log)
}

func TestExactText(t *testing.T) {
	tests := []struct {
		name  string
		want  string
		text  string
		match bool
	}{
		{name: "same text", want: "Sauce Labs Backpack", text: "Sauce Labs Backpack", match: true},
		{name: "padded text", want: "Sauce Labs Backpack", text: "  Sauce Labs Backpack\n", match: true},
		{name: "longer text", want: "Sauce Labs Bolt T-Shirt", text: "Sauce Labs Bolt T-Shirt, pairs with the Sauce Labs Backpack", match: false},
		{name: "different case", want: "Sauce Labs Onesie", text: "sauce labs onesie", match: false},
		{name: "metacharacters are literal", want: "Test.allTheThings() T-Shirt (Red)", text: "Test.allTheThings() T-Shirt (Red)", match: true},
		{name: "dot is not a wildcard", want: "Test.allTheThings() T-Shirt (Red)", text: "TestxallTheThings() T-Shirt (Red)", match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, ExactText(tt.want).MatchString(tt.text))
		})
	}
}
