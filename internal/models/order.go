package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents valid order states
type OrderStatus string

// Order statuses
const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusComplete OrderStatus = "complete"
)

// TaxRatePercent is the storefront's flat sales tax.
const TaxRatePercent = 8

// LineItem is one product in an order. Price is in cents.
type LineItem struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

// Customer is the information collected on checkout step one.
type Customer struct {
	FirstName  string
	LastName   string
	PostalCode string
}

// Order is a checkout completed on the storefront
type Order struct {
	ID        string
	Reference string
	Username  string
	Items     []LineItem
	Customer  Customer
	Subtotal  int64
	Tax       int64
	Total     int64
	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain errors
var (
	ErrEmptyOrder              = errors.New("order has no items")
	ErrInvalidAmount           = errors.New("item price must be positive")
	ErrInvalidUsername         = errors.New("username cannot be empty")
	ErrFirstNameRequired       = errors.New("First Name is required")
	ErrLastNameRequired        = errors.New("Last Name is required")
	ErrPostalCodeRequired      = errors.New("Postal Code is required")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// Validate checks the fields in the order the checkout form reports them.
func (c Customer) Validate() error {
	switch {
	case strings.TrimSpace(c.FirstName) == "":
		return ErrFirstNameRequired
	case strings.TrimSpace(c.LastName) == "":
		return ErrLastNameRequired
	case strings.TrimSpace(c.PostalCode) == "":
		return ErrPostalCodeRequired
	}
	return nil
}

// TaxFor returns the tax on subtotal cents, rounded half up.
func TaxFor(subtotal int64) int64 {
	return (subtotal*TaxRatePercent + 50) / 100
}

// Totals sums the items and applies tax.
func Totals(items []LineItem) (subtotal, tax, total int64) {
	for _, item := range items {
		subtotal += item.Price
	}
	tax = TaxFor(subtotal)
	return subtotal, tax, subtotal + tax
}

// NewOrder creates a pending order with validation
func NewOrder(username string, items []LineItem, customer Customer) (*Order, error) {
	if err := validateOrderInput(username, items, customer); err != nil {
		return nil, err
	}

	id := uuid.New()
	subtotal, tax, total := Totals(items)
	now := time.Now()

	return &Order{
		ID:        id.String(),
		Reference: "SL-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:10]),
		Username:  username,
		Items:     append([]LineItem(nil), items...),
		Customer:  customer,
		Subtotal:  subtotal,
		Tax:       tax,
		Total:     total,
		Status:    OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// validateOrderInput validates order creation parameters
func validateOrderInput(username string, items []LineItem, customer Customer) error {
	if username == "" {
		return ErrInvalidUsername
	}
	if len(items) == 0 {
		return ErrEmptyOrder
	}
	for _, item := range items {
		if item.Price <= 0 {
			return fmt.Errorf("%w: %s", ErrInvalidAmount, item.Name)
		}
	}
	return customer.Validate()
}

// Complete marks a pending order as placed
func (o *Order) Complete() error {
	if o.Status != OrderStatusPending {
		return fmt.Errorf("%w: cannot complete order with status %s", ErrInvalidStatusTransition, o.Status)
	}
	o.Status = OrderStatusComplete
	o.UpdatedAt = time.Now()
	return nil
}

