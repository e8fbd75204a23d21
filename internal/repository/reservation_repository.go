package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/restobook/table-reservation/internal/model"
)

// ReservationRepo provides CRUD access to the reservations table.
// Dates are stored as DATE and clock times as TIME; both are read
// back as the string forms the booking package works with
// (YYYY-MM-DD and HH:MM). All timestamps are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for callers that need to compose
// transactions across repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, ref, table_id, customer_id,
	DATE_FORMAT(service_date, '%Y-%m-%d'),
	TIME_FORMAT(start_time, '%H:%i'), TIME_FORMAT(end_time, '%H:%i'),
	guest_count, status, customer_name, phone, email, notes,
	created_at, updated_at`

// scanReservation reads one row in reservationCols order.
func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	var customerID sql.NullInt64
	var email, notes sql.NullString
	err := row.Scan(
		&res.ID, &res.Ref, &res.TableID, &customerID,
		&res.Date, &res.StartTime, &res.EndTime,
		&res.GuestCount, &res.Status, &res.CustomerName, &res.Phone, &email, &notes,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if customerID.Valid {
		cid := uint64(customerID.Int64)
		res.CustomerID = &cid
	}
	res.Email = email.String
	res.Notes = notes.String
	return &res, nil
}

// Create inserts a new reservation and populates the generated ID and
// timestamps on the provided record. Ref and Status must already be
// set by the booking service.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (ref, table_id, customer_id, service_date, start_time, end_time,
	            guest_count, status, customer_name, phone, email, notes)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	var customerID any
	if res.CustomerID != nil {
		customerID = *res.CustomerID
	}
	result, err := r.db.ExecContext(ctx, q,
		res.Ref, res.TableID, customerID, res.Date, res.StartTime, res.EndTime,
		res.GuestCount, res.Status, res.CustomerName, res.Phone,
		nullIfEmpty(res.Email), nullIfEmpty(res.Notes),
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Read the row back so created_at/updated_at reflect what MySQL stored.
	stored, err := r.GetByID(ctx, res.ID)
	if err != nil {
		return err
	}
	*res = *stored
	return nil
}

// GetByID returns one reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	res, err := scanReservation(r.db.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// ActiveByTableAndDate lists the non-cancelled reservations for one
// table on one service date, ordered by start time. This is the read
// the availability checker is built on.
func (r *ReservationRepo) ActiveByTableAndDate(ctx context.Context, tableID uint64, date string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + `
	           FROM reservations
	           WHERE table_id = ? AND service_date = ? AND status <> ?
	           ORDER BY start_time`
	rows, err := r.db.QueryContext(ctx, q, tableID, date, model.StatusCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// ListByDate lists all reservations for a service date regardless of
// table or status, ordered by table then start time. Used by the
// admin dashboard; cancelled rows are included so staff can see the
// full history of the day.
func (r *ReservationRepo) ListByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	const q = `SELECT ` + reservationCols + `
	           FROM reservations
	           WHERE service_date = ?
	           ORDER BY table_id, start_time`
	rows, err := r.db.QueryContext(ctx, q, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// Update rewrites the mutable columns of a reservation. Status is not
// touched here; use UpdateStatus so the state machine stays in one place.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
	           SET table_id = ?, customer_id = ?, service_date = ?, start_time = ?, end_time = ?,
	               guest_count = ?, customer_name = ?, phone = ?, email = ?, notes = ?
	           WHERE id = ?`
	var customerID any
	if res.CustomerID != nil {
		customerID = *res.CustomerID
	}
	result, err := r.db.ExecContext(ctx, q,
		res.TableID, customerID, res.Date, res.StartTime, res.EndTime,
		res.GuestCount, res.CustomerName, res.Phone,
		nullIfEmpty(res.Email), nullIfEmpty(res.Notes), res.ID,
	)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		// Row may exist with identical values; confirm it is really gone.
		if _, getErr := r.GetByID(ctx, res.ID); getErr != nil {
			return getErr
		}
	}
	return nil
}

// UpdateStatus sets the status column. Legality of the transition is
// the booking service's responsibility.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return getErr
		}
	}
	return nil
}

// nullIfEmpty maps "" to SQL NULL for optional text columns.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
