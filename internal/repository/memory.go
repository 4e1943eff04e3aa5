package repository

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/themizzi/saucecheck/internal/models"
)

// ErrDuplicateReference is returned when an order reference is reused.
var ErrDuplicateReference = errors.New("duplicate order reference")

// MemoryOrderRepository keeps orders in process memory. It is the default
// store when no database is configured.
type MemoryOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
}

// NewMemoryOrderRepository creates an empty in-memory repository
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{orders: make(map[string]*models.Order)}
}

// CreateOrder stores a copy of order
func (r *MemoryOrderRepository) CreateOrder(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.orders[order.Reference]; exists {
		return fmt.Errorf("failed to create order: %w: %s", ErrDuplicateReference, order.Reference)
	}
	now := time.Now().UTC()
	order.CreatedAt = now
	order.UpdatedAt = now
	r.orders[order.Reference] = clone(order)
	return nil
}

// GetOrderByReference returns a copy of the stored order
func (r *MemoryOrderRepository) GetOrderByReference(reference string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[reference]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, reference)
	}
	return clone(order), nil
}

// ListOrdersByUsername returns a user's orders, oldest first
func (r *MemoryOrderRepository) ListOrdersByUsername(username string) ([]*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var orders []*models.Order
	for _, order := range r.orders {
		if order.Username == username {
			orders = append(orders, clone(order))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].Reference < orders[j].Reference
		}
		return orders[i].CreatedAt.Before(orders[j].CreatedAt)
	})
	return orders, nil
}

func clone(order *models.Order) *models.Order {
	c := *order
	c.Items = append([]models.LineItem(nil), order.Items...)
	return &c
}
