package repository

import (
	"context"
	"database/sql"

	"github.com/lromero/restaurant-reservation/internal/model"
)

// ProductRepo reads the menu catalog.  The catalog supports full scans
// and administration inserts only.
type ProductRepo struct {
	db *sql.DB
}

// NewProductRepo returns a ProductRepo bound to the given database.
func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// List returns the full catalog ordered by name.
func (r *ProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, name, price_cents FROM products ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	products := make([]model.Product, 0)
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.PriceCents); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetByID fetches a single catalog entry.  sql.ErrNoRows is returned when
// the product does not exist.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (model.Product, error) {
	var p model.Product
	err := r.db.QueryRowContext(ctx,
		"SELECT id, name, price_cents FROM products WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.PriceCents)
	return p, err
}

// Create inserts a catalog entry and returns its ID.
func (r *ProductRepo) Create(ctx context.Context, name string, priceCents int64) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO products (name, price_cents) VALUES (?,?)", name, priceCents)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
