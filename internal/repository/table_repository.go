package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/restobook/table-reservation/internal/model"
)

// TableRepo provides CRUD access to the restaurant floor plan.
type TableRepo struct {
	db *sql.DB
}

// NewTableRepo constructs a TableRepo with the given DB handle.
func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{db: db} }

const tableCols = `id, table_number, capacity, location, is_active, created_at, updated_at`

func scanTable(row interface{ Scan(...any) error }) (*model.Table, error) {
	var t model.Table
	err := row.Scan(&t.ID, &t.Number, &t.Capacity, &t.Location, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a table. On success the ID is populated.
func (r *TableRepo) Create(ctx context.Context, t *model.Table) error {
	const q = `INSERT INTO tables (table_number, capacity, location, is_active)
	           VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Number, t.Capacity, t.Location, t.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	return nil
}

// GetByID returns one table or ErrTableNotFound.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (*model.Table, error) {
	t, err := scanTable(r.db.QueryRowContext(ctx,
		`SELECT `+tableCols+` FROM tables WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	return t, err
}

// ListActive returns the bookable tables ordered by table number.
// Inactive tables are filtered out here so the availability checker
// never has to know about the soft flag.
func (r *TableRepo) ListActive(ctx context.Context) ([]model.Table, error) {
	return r.list(ctx, `SELECT `+tableCols+` FROM tables WHERE is_active = 1 ORDER BY table_number`)
}

// ListAll returns every table including deactivated ones, for the
// admin dashboard.
func (r *TableRepo) ListAll(ctx context.Context) ([]model.Table, error) {
	return r.list(ctx, `SELECT `+tableCols+` FROM tables ORDER BY table_number`)
}

func (r *TableRepo) list(ctx context.Context, q string) ([]model.Table, error) {
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Table, 0)
	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *t)
	}
	return out, rows.Err()
}

// Update rewrites capacity, location and the active flag.
func (r *TableRepo) Update(ctx context.Context, t *model.Table) error {
	const q = `UPDATE tables SET table_number = ?, capacity = ?, location = ?, is_active = ?
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, t.Number, t.Capacity, t.Location, t.IsActive, t.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, getErr := r.GetByID(ctx, t.ID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// Deactivate soft-removes a table from the floor. Existing
// reservations keep their table_id; the table stops matching
// availability queries and the booking handlers refuse new
// reservations for it.
func (r *TableRepo) Deactivate(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tables SET is_active = 0 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
	}
	return nil
}
