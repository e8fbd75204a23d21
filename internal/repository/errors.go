// Package repository defines the MySQL data access layer and the
// sentinel errors shared across it. The sentinels let handlers map
// failure kinds onto HTTP status codes without inspecting driver
// errors: not-found becomes 404, a booking conflict 409, an illegal
// status change 409 with its own message.
package repository

import "errors"

// ErrReservationNotFound is returned when a reservation lookup by id
// or reference yields no rows.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrTableNotFound is returned when a table lookup yields no rows.
var ErrTableNotFound = errors.New("table not found")

// ErrConflict signals that a requested time window overlaps an
// existing non-cancelled reservation on the same table and date. It
// is the only expected, recoverable business error: clients should
// offer the guest another slot rather than treat it as a failure.
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition is returned when a status change is requested
// that the reservation state machine does not allow, e.g. confirming
// a cancelled reservation.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrEmailExists is returned when staff registration hits the unique
// email constraint.
var ErrEmailExists = errors.New("email already exists")
