package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/themizzi/saucecheck/internal/models"
)

// ErrOrderNotFound is returned when no order has the requested reference.
var ErrOrderNotFound = errors.New("order not found")

// OrderRepository handles database operations for orders
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepositoryWithDB creates a new order repository with a specific database connection
func NewOrderRepositoryWithDB(db *sql.DB) *OrderRepository {
	return &OrderRepository{
		db: db,
	}
}

// CreateOrder creates a new order in the database
func (r *OrderRepository) CreateOrder(order *models.Order) error {
	query := `
		INSERT INTO orders (id, reference, username, items, first_name, last_name, postal_code,
		                    subtotal, tax, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}

	now := time.Now().UTC()
	_, err = r.db.Exec(query,
		order.ID,
		order.Reference,
		order.Username,
		items,
		order.Customer.FirstName,
		order.Customer.LastName,
		order.Customer.PostalCode,
		order.Subtotal,
		order.Tax,
		order.Total,
		order.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}

	order.CreatedAt = now
	order.UpdatedAt = now
	return nil
}

const selectOrder = `
	SELECT id, reference, username, items, first_name, last_name, postal_code,
	       subtotal, tax, total, status, created_at, updated_at
	FROM orders
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*models.Order, error) {
	order := &models.Order{}
	var items []byte
	err := row.Scan(
		&order.ID,
		&order.Reference,
		&order.Username,
		&items,
		&order.Customer.FirstName,
		&order.Customer.LastName,
		&order.Customer.PostalCode,
		&order.Subtotal,
		&order.Tax,
		&order.Total,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &order.Items); err != nil {
		return nil, fmt.Errorf("failed to decode order items: %w", err)
	}
	return order, nil
}

// GetOrderByReference retrieves an order by its reference
func (r *OrderRepository) GetOrderByReference(reference string) (*models.Order, error) {
	order, err := scanOrder(r.db.QueryRow(selectOrder+` WHERE reference = $1`, reference))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, reference)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

// ListOrdersByUsername returns a user's orders, oldest first
func (r *OrderRepository) ListOrdersByUsername(username string) ([]*models.Order, error) {
	rows, err := r.db.Query(selectOrder+` WHERE username = $1 ORDER BY created_at, reference`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

