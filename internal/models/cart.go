package models

// Cart holds product slugs in the order they were added. A product is in
// the cart at most once, as on the storefront.
type Cart struct {
	slugs []string
}

// Add puts slug in the cart and reports whether it was new.
func (c *Cart) Add(slug string) bool {
	if c.Contains(slug) {
		return false
	}
	c.slugs = append(c.slugs, slug)
	return true
}

// Remove takes slug out of the cart and reports whether it was there.
func (c *Cart) Remove(slug string) bool {
	for i, s := range c.slugs {
		if s == slug {
			c.slugs = append(c.slugs[:i], c.slugs[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether slug is in the cart.
func (c *Cart) Contains(slug string) bool {
	for _, s := range c.slugs {
		if s == slug {
			return true
		}
	}
	return false
}

// Slugs returns a copy of the cart contents in insertion order.
func (c *Cart) Slugs() []string {
	return append([]string(nil), c.slugs...)
}

// Len returns the number of products in the cart.
func (c *Cart) Len() int {
	return len(c.slugs)
}
