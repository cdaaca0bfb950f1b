package repository

import (
	"context"
	"database/sql"

	"github.com/lromero/restaurant-reservation/internal/model"
)

// TableRepo reads the static dining table reference data.  Tables are
// seeded at startup and never mutated by the service, so the repository
// only exposes scans.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo returns a TableRepo bound to the given database.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

// List returns every dining table ordered by number.
func (r *TableRepo) List(ctx context.Context) ([]model.DiningTable, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT number, capacity FROM dining_tables ORDER BY number")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	tables := make([]model.DiningTable, 0)
	for rows.Next() {
		var t model.DiningTable
		if err := rows.Scan(&t.Number, &t.Capacity); err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, rows.Err()
}

// Lookup returns the capacity map used by the booking validator.
func (r *TableRepo) Lookup(ctx context.Context) (map[uint32]model.DiningTable, error) {
	tables, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	m := make(map[uint32]model.DiningTable, len(tables))
	for _, t := range tables {
		m[t.Number] = t
	}
	return m, nil
}

// lookupTx is the transactional variant used when the validator snapshot
// and the reservation write must observe the same state.
func lookupTx(ctx context.Context, tx *sql.Tx) (map[uint32]model.DiningTable, error) {
	rows, err := tx.QueryContext(ctx, "SELECT number, capacity FROM dining_tables")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	m := make(map[uint32]model.DiningTable)
	for rows.Next() {
		var t model.DiningTable
		if err := rows.Scan(&t.Number, &t.Capacity); err != nil {
			return nil, err
		}
		m[t.Number] = t
	}
	return m, rows.Err()
}
