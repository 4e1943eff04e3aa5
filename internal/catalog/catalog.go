// Package catalog is the closed product table of the Swag Labs storefront:
// display names, the slugs the storefront derives its element identifiers
// from, and the fixed prices.
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownProduct is returned when a product name is not in the table.
var ErrUnknownProduct = errors.New("product not in catalog")

// Product is one catalog entry. Price is in cents.
type Product struct {
	Name        string
	Slug        string
	Price       int64
	Description string
}

var products = []Product{
	{
		Name:        "Sauce Labs Backpack",
		Slug:        "sauce-labs-backpack",
		Price:       2999,
		Description: "carry.allTheThings() with the sleek, streamlined Sly Pack that melds uncompromising style with unequaled laptop and tablet protection.",
	},
	{
		Name:        "Sauce Labs Bike Light",
		Slug:        "sauce-labs-bike-light",
		Price:       999,
		Description: "A red light isn't the desired state in testing but it sure helps when riding your bike at night. Water-resistant with 3 lighting modes, 1 AAA battery included.",
	},
	{
		Name:        "Sauce Labs Bolt T-Shirt",
		Slug:        "sauce-labs-bolt-t-shirt",
		Price:       1599,
		Description: "Get your testing superhero on with the Sauce Labs bolt T-shirt. From American Apparel, 100% ringspun combed cotton, heather gray with red bolt.",
	},
	{
		Name:        "Sauce Labs Fleece Jacket",
		Slug:        "sauce-labs-fleece-jacket",
		Price:       4999,
		Description: "It's not every day that you come across a midweight quarter-zip fleece jacket capable of handling everything from a relaxing day outdoors to a busy day at the office.",
	},
	{
		Name:        "Sauce Labs Onesie",
		Slug:        "sauce-labs-onesie",
		Price:       799,
		Description: "Rib snap infant onesie for the junior automation engineer in development. Reinforced 3-snap bottom closure, two-needle hemmed sleeved and bottom won't unravel.",
	},
	{
		Name:        "Test.allTheThings() T-Shirt (Red)",
		Slug:        "test.allthethings()-t-shirt-(red)",
		Price:       1599,
		Description: "This classic Sauce Labs t-shirt is perfect to wear when cozying up to your keyboard to automate a few tests. Super-soft and comfy ringspun combed cotton.",
	},
}

var (
	byName = map[string]Product{}
	bySlug = map[string]Product{}
)

func init() {
	if err := Validate(products); err != nil {
		panic(fmt.Sprintf("catalog: %v", err))
	}
	for _, p := range products {
		byName[p.Name] = p
		bySlug[p.Slug] = p
	}
}

// Validate checks that every entry has a unique name, a slug derived from
// that name, and a positive price.
func Validate(ps []Product) error {
	names := make(map[string]bool, len(ps))
	slugs := make(map[string]bool, len(ps))
	for _, p := range ps {
		if p.Name == "" {
			return errors.New("product with empty name")
		}
		if names[p.Name] {
			return fmt.Errorf("duplicate product name %q", p.Name)
		}
		if want := Slugify(p.Name); p.Slug != want {
			return fmt.Errorf("product %q has slug %q, want %q", p.Name, p.Slug, want)
		}
		if slugs[p.Slug] {
			return fmt.Errorf("duplicate product slug %q", p.Slug)
		}
		if p.Price <= 0 {
			return fmt.Errorf("product %q has non-positive price %d", p.Name, p.Price)
		}
		names[p.Name] = true
		slugs[p.Slug] = true
	}
	return nil
}

// Slugify lower-cases a display name and replaces spaces with dashes, the
// same derivation the storefront uses for its button identifiers.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// All returns the catalog in its default (name ascending) order.
func All() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

// Names returns every product name in default order.
func Names() []string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	return names
}

// Lookup resolves a display name.
func Lookup(name string) (Product, error) {
	p, ok := byName[name]
	if !ok {
		return Product{}, fmt.Errorf("%w: %q", ErrUnknownProduct, name)
	}
	return p, nil
}

// BySlug resolves a slug.
func BySlug(slug string) (Product, error) {
	p, ok := bySlug[slug]
	if !ok {
		return Product{}, fmt.Errorf("%w: slug %q", ErrUnknownProduct, slug)
	}
	return p, nil
}

// AddButtonID is the id of the product's add-to-cart control.
func (p Product) AddButtonID() string {
	return "add-to-cart-" + p.Slug
}

// RemoveButtonID is the id of the product's remove control.
func (p Product) RemoveButtonID() string {
	return "remove-" + p.Slug
}

// FormattedPrice renders the price the way the storefront displays it.
func (p Product) FormattedPrice() string {
	return FormatCents(p.Price)
}

// FormatCents renders an amount in cents as "$12.34".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// SortOrder is one of the inventory sort options.
type SortOrder string

// Inventory sort options, valued as the storefront's select options.
const (
	SortNameAsc   SortOrder = "az"
	SortNameDesc  SortOrder = "za"
	SortPriceAsc  SortOrder = "lohi"
	SortPriceDesc SortOrder = "hilo"
)

// SortOrders lists every sort option in the order the storefront offers them.
var SortOrders = []SortOrder{SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc}

// ParseSortOrder validates a select option value.
func ParseSortOrder(s string) (SortOrder, error) {
	for _, o := range SortOrders {
		if string(o) == s {
			return o, nil
		}
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

// Label is the option text shown in the sort select.
func (o SortOrder) Label() string {
	switch o {
	case SortNameDesc:
		return "Name (Z to A)"
	case SortPriceAsc:
		return "Price (low to high)"
	case SortPriceDesc:
		return "Price (high to low)"
	default:
		return "Name (A to Z)"
	}
}

// Sort returns a sorted copy. Price ties keep name ascending order.
func Sort(ps []Product, order SortOrder) []Product {
	out := make([]Product, len(ps))
	copy(out, ps)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch order {
		case SortNameDesc:
			return a.Name > b.Name
		case SortPriceAsc:
			if a.Price != b.Price {
				return a.Price < b.Price
			}
		case SortPriceDesc:
			if a.Price != b.Price {
				return a.Price > b.Price
			}
		}
		return a.Name < b.Name
	})
	return out
}
