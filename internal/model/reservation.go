package model

import "time"

// Reservation statuses. A reservation starts out PENDING, may be
// CONFIRMED by staff and ends up CANCELLED when the guest or staff
// withdraws it. Cancellation is a soft delete: the row stays in the
// database but is ignored by all availability checks.
const (
	StatusPending   = "PENDING"
	StatusConfirmed = "CONFIRMED"
	StatusCancelled = "CANCELLED"
)

// Reservation records a request to occupy one table for a time window
// on a single service date. Start and end times are wall-clock HH:MM
// strings; an end before the start means the window runs past
// midnight (e.g. 22:00–01:00).
//
// Fields:
//  ID           – primary key identifier.
//  Ref          – opaque reference code returned to the guest.
//  TableID      – table being booked (lookup key, not ownership).
//  CustomerID   – customer record upserted at booking time (nullable).
//  Date         – service date in YYYY-MM-DD form.
//  StartTime    – wall-clock start, HH:MM.
//  EndTime      – wall-clock end, HH:MM, exclusive.
//  GuestCount   – party size, positive.
//  Status       – PENDING, CONFIRMED or CANCELLED.
//  CustomerName – descriptive only.
//  Phone        – descriptive only.
//  Email        – descriptive only.
//  Notes        – descriptive only.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Reservation struct {
	ID           uint64    // reservations.id
	Ref          string    // reservations.ref
	TableID      uint64    // reservations.table_id
	CustomerID   *uint64   // reservations.customer_id (nullable)
	Date         string    // reservations.service_date
	StartTime    string    // reservations.start_time
	EndTime      string    // reservations.end_time
	GuestCount   int       // reservations.guest_count
	Status       string    // reservations.status
	CustomerName string    // reservations.customer_name
	Phone        string    // reservations.phone
	Email        string    // reservations.email
	Notes        string    // reservations.notes
	CreatedAt    time.Time // reservations.created_at
	UpdatedAt    time.Time // reservations.updated_at
}

// CanTransition reports whether a status change from -> to is legal.
// Legal moves are PENDING->CONFIRMED, PENDING->CANCELLED and
// CONFIRMED->CANCELLED. There is no way out of CANCELLED, and a
// no-op transition is not legal either.
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCancelled
	default:
		return false
	}
}

// Active reports whether the reservation still occupies its table,
// i.e. it has not been cancelled.
func (r *Reservation) Active() bool {
	return r.Status != StatusCancelled
}
