// Package db keeps the example catalog in SQLite and reads it back through
// the generated row factories.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"git.weirdcat.su/weirdcat/valuegen/example/models"
	"git.weirdcat.su/weirdcat/valuegen/rowsource"
)

const schema = `CREATE TABLE IF NOT EXISTS products (
	id          INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	price_cents INTEGER NOT NULL,
	currency    TEXT NOT NULL,
	stock       INTEGER
)`

// Catalog stores products
type Catalog struct {
	db *sql.DB
}

// Open opens the SQLite database at dsn and creates the schema.
// Use ":memory:" for a throwaway catalog.
func Open(ctx context.Context, dsn string) (*Catalog, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", dsn, err)
	}
	// every connection to :memory: is a separate database
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the underlying database
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Add inserts p
func (c *Catalog) Add(ctx context.Context, p *models.Product) error {
	if _, err := rowsource.Insert(ctx, c.db, "products", p.Values(), rowsource.Question); err != nil {
		return fmt.Errorf("adding product %d: %w", p.ID, err)
	}
	return nil
}

// Products returns every product ordered by id
func (c *Catalog) Products(ctx context.Context) ([]*models.Product, error) {
	return rowsource.Query(ctx, c.db, models.ProductFromRow,
		"SELECT id, name, price_cents, currency, stock FROM products ORDER BY id")
}

// InStock returns the products with a known, positive stock
func (c *Catalog) InStock(ctx context.Context) ([]*models.Product, error) {
	return rowsource.Query(ctx, c.db, models.ProductFromRow,
		"SELECT id, name, price_cents, currency, stock FROM products WHERE stock > ? ORDER BY id", 0)
}
