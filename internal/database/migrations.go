package database

import (
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Schema creates the orders table used by the storefront replica.
const Schema = `
CREATE TABLE IF NOT EXISTS orders (
	id UUID PRIMARY KEY,
	reference VARCHAR(32) UNIQUE NOT NULL,
	username VARCHAR(255) NOT NULL,
	items JSONB NOT NULL,
	first_name VARCHAR(255) NOT NULL,
	last_name VARCHAR(255) NOT NULL,
	postal_code VARCHAR(32) NOT NULL,
	subtotal INTEGER NOT NULL,
	tax INTEGER NOT NULL,
	total INTEGER NOT NULL,
	status VARCHAR(50) NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_orders_reference ON orders(reference);
CREATE INDEX IF NOT EXISTS idx_orders_username ON orders(username);
`

// RunMigrations creates the necessary database tables
func RunMigrations(db *sql.DB, log *zap.Logger) error {
	if db == nil {
		return errors.New("database connection not initialized")
	}

	if _, err := db.Exec(Schema); err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}

	log.Info("database migrations completed")
	return nil
}
