package models

import (
	"errors"
	"strings"
	"testing"
)

var (
	backpack = LineItem{Slug: "sauce-labs-backpack", Name: "Sauce Labs Backpack", Price: 2999}
	onesie   = LineItem{Slug: "sauce-labs-onesie", Name: "Sauce Labs Onesie", Price: 799}
	customer = Customer{FirstName: "John", LastName: "Doe", PostalCode: "12345"}
)

func TestNewOrder(t *testing.T) {
	tests := []struct {
		name     string
		username string
		items    []LineItem
		customer Customer
		wantErr  error
	}{
		{
			name:     "valid order",
			username: "standard_user",
			items:    []LineItem{backpack},
			customer: customer,
		},
		{
			name:     "empty username",
			username: "",
			items:    []LineItem{backpack},
			customer: customer,
			wantErr:  ErrInvalidUsername,
		},
		{
			name:     "no items",
			username: "standard_user",
			customer: customer,
			wantErr:  ErrEmptyOrder,
		},
		{
			name:     "free item",
			username: "standard_user",
			items:    []LineItem{{Slug: "free", Name: "Free", Price: 0}},
			customer: customer,
			wantErr:  ErrInvalidAmount,
		},
		{
			name:     "missing first name",
			username: "standard_user",
			items:    []LineItem{backpack},
			customer: Customer{LastName: "Doe", PostalCode: "12345"},
			wantErr:  ErrFirstNameRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := NewOrder(tt.username, tt.items, tt.customer)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NewOrder() error = %v, wantErr %v", err, tt.wantErr)
				}
				if order != nil {
					t.Error("Expected order to be nil when error occurs")
				}
				return
			}

			if err != nil {
				t.Fatalf("NewOrder() unexpected error = %v", err)
			}
			if order.ID == "" {
				t.Error("Order ID should not be empty")
			}
			if !strings.HasPrefix(order.Reference, "SL-") || len(order.Reference) != 13 {
				t.Errorf("unexpected reference %q", order.Reference)
			}
			if order.Status != OrderStatusPending {
				t.Errorf("Expected status %s, got %s", OrderStatusPending, order.Status)
			}
			if order.Subtotal != 2999 || order.Tax != 240 || order.Total != 3239 {
				t.Errorf("unexpected totals %d/%d/%d", order.Subtotal, order.Tax, order.Total)
			}
		})
	}
}

func TestNewOrder_CopiesItems(t *testing.T) {
	items := []LineItem{backpack}
	order, err := NewOrder("standard_user", items, customer)
	if err != nil {
		t.Fatalf("NewOrder() unexpected error = %v", err)
	}

	items[0].Price = 1

	if order.Items[0].Price != 2999 {
		t.Error("order items must not alias the caller's slice")
	}
}

func TestCustomer_Validate(t *testing.T) {
	tests := []struct {
		name     string
		customer Customer
		wantErr  error
	}{
		{name: "complete", customer: customer},
		{name: "all empty reports first name", customer: Customer{}, wantErr: ErrFirstNameRequired},
		{name: "missing last name", customer: Customer{FirstName: "John", PostalCode: "1"}, wantErr: ErrLastNameRequired},
		{name: "missing postal code", customer: Customer{FirstName: "John", LastName: "Doe"}, wantErr: ErrPostalCodeRequired},
		{name: "whitespace only", customer: Customer{FirstName: "John", LastName: "  ", PostalCode: "1"}, wantErr: ErrLastNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.customer.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaxFor(t *testing.T) {
	tests := []struct {
		subtotal int64
		want     int64
	}{
		{subtotal: 2999, want: 240},
		{subtotal: 799, want: 64},
		{subtotal: 999, want: 80},
		{subtotal: 4999, want: 400},
		{subtotal: 2999 + 999, want: 320},
		{subtotal: 0, want: 0},
		{subtotal: 625, want: 50},
		{subtotal: 6, want: 0},
		{subtotal: 7, want: 1},
	}

	for _, tt := range tests {
		if got := TaxFor(tt.subtotal); got != tt.want {
			t.Errorf("TaxFor(%d) = %d, want %d", tt.subtotal, got, tt.want)
		}
	}
}

func TestTotals(t *testing.T) {
	subtotal, tax, total := Totals([]LineItem{backpack, onesie})

	if subtotal != 3798 || tax != 304 || total != 4102 {
		t.Errorf("Totals() = %d/%d/%d, want 3798/304/4102", subtotal, tax, total)
	}
}

func TestOrder_Complete(t *testing.T) {
	tests := []struct {
		name         string
		initialState OrderStatus
		wantErr      bool
	}{
		{name: "complete pending order", initialState: OrderStatusPending},
		{name: "cannot complete twice", initialState: OrderStatusComplete, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := &Order{ID: "test-id", Status: tt.initialState}

			err := order.Complete()

			if (err != nil) != tt.wantErr {
				t.Errorf("Complete() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidStatusTransition) {
				t.Errorf("expected ErrInvalidStatusTransition, got %v", err)
			}
			if !tt.wantErr && order.Status != OrderStatusComplete {
				t.Errorf("Expected status %s, got %s", OrderStatusComplete, order.Status)
			}
		})
	}
}

