package services

import (
	"fmt"

	"github.com/themizzi/saucecheck/internal/catalog"
	"github.com/themizzi/saucecheck/internal/models"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	CreateOrder(order *models.Order) error
	GetOrderByReference(reference string) (*models.Order, error)
	ListOrdersByUsername(username string) ([]*models.Order, error)
}

// OrderService handles order business logic
type OrderService interface {
	Quote(slugs []string) (*Quote, error)
	PlaceOrder(username string, slugs []string, customer models.Customer) (*models.Order, error)
	GetOrderByReference(reference string) (*models.Order, error)
	OrdersFor(username string) ([]*models.Order, error)
}

// Quote is the priced contents of a cart, as shown on the checkout overview.
type Quote struct {
	Items    []models.LineItem
	Subtotal int64
	Tax      int64
	Total    int64
}

// OrderServiceImpl implements OrderService
type OrderServiceImpl struct {
	orderRepo OrderRepository
}

// NewOrderService creates a new order service
func NewOrderService(orderRepo OrderRepository) OrderService {
	return &OrderServiceImpl{
		orderRepo: orderRepo,
	}
}

// Quote prices the products identified by slugs
func (s *OrderServiceImpl) Quote(slugs []string) (*Quote, error) {
	items := make([]models.LineItem, 0, len(slugs))
	for _, slug := range slugs {
		product, err := catalog.BySlug(slug)
		if err != nil {
			return nil, err
		}
		items = append(items, models.LineItem{Slug: product.Slug, Name: product.Name, Price: product.Price})
	}
	subtotal, tax, total := models.Totals(items)
	return &Quote{Items: items, Subtotal: subtotal, Tax: tax, Total: total}, nil
}

// PlaceOrder creates a completed order for the cart contents
func (s *OrderServiceImpl) PlaceOrder(username string, slugs []string, customer models.Customer) (*models.Order, error) {
	quote, err := s.Quote(slugs)
	if err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}

	// Create order using domain factory method
	order, err := models.NewOrder(username, quote.Items, customer)
	if err != nil {
		return nil, fmt.Errorf("invalid order: %w", err)
	}
	if err := order.Complete(); err != nil {
		return nil, err
	}

	if err := s.orderRepo.CreateOrder(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

// GetOrderByReference retrieves an order by its reference
func (s *OrderServiceImpl) GetOrderByReference(reference string) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByReference(reference)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// OrdersFor lists a user's orders
func (s *OrderServiceImpl) OrdersFor(username string) ([]*models.Order, error) {
	orders, err := s.orderRepo.ListOrdersByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

