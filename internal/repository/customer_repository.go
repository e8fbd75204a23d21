package repository

import (
	"context"
	"database/sql"

	"github.com/restobook/table-reservation/internal/model"
)

// CustomerRepo persists guest records. Customers are keyed by phone
// number; a booking upserts the guest so repeat visits accumulate on
// one record.
type CustomerRepo struct {
	db *sql.DB
}

// NewCustomerRepo constructs a CustomerRepo with the given DB handle.
func NewCustomerRepo(db *sql.DB) *CustomerRepo { return &CustomerRepo{db: db} }

const customerCols = `id, name, phone, email, created_at, updated_at`

func scanCustomer(row interface{ Scan(...any) error }) (*model.Customer, error) {
	var c model.Customer
	var email sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &email, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.Email = email.String
	return &c, nil
}

// UpsertByPhone creates the customer on first contact and refreshes
// name/email on later bookings. Returns the stored record.
func (r *CustomerRepo) UpsertByPhone(ctx context.Context, name, phone, email string) (*model.Customer, error) {
	const q = `INSERT INTO customers (name, phone, email)
	           VALUES (?, ?, ?)
	           ON DUPLICATE KEY UPDATE name = VALUES(name), email = COALESCE(VALUES(email), email)`
	if _, err := r.db.ExecContext(ctx, q, name, phone, nullIfEmpty(email)); err != nil {
		return nil, err
	}
	return r.GetByPhone(ctx, phone)
}

// GetByPhone fetches a customer by phone number. Callers see
// sql.ErrNoRows when the guest has never booked.
func (r *CustomerRepo) GetByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	return scanCustomer(r.db.QueryRowContext(ctx,
		`SELECT `+customerCols+` FROM customers WHERE phone = ?`, phone))
}

// GetByID fetches a customer by id.
func (r *CustomerRepo) GetByID(ctx context.Context, id uint64) (*model.Customer, error) {
	return scanCustomer(r.db.QueryRowContext(ctx,
		`SELECT `+customerCols+` FROM customers WHERE id = ?`, id))
}

// List returns all customers ordered by name.
func (r *CustomerRepo) List(ctx context.Context) ([]model.Customer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+customerCols+` FROM customers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}
