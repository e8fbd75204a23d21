package model

import "time"

// Table describes one physical table on the restaurant floor. Tables
// carry capacity and categorization only; all booking behavior lives
// with reservations that reference a table by ID.
//
// Fields:
//  ID        – primary key identifier.
//  Number    – human-facing table number, unique per restaurant.
//  Capacity  – maximum party size the table seats.
//  Location  – free-form area label (WINDOW, PATIO, MAIN, ...).
//  IsActive  – soft flag; inactive tables never appear as available.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Table struct {
	ID        uint64    // tables.id
	Number    uint32    // tables.table_number
	Capacity  int       // tables.capacity
	Location  string    // tables.location
	IsActive  bool      // tables.is_active
	CreatedAt time.Time // tables.created_at
	UpdatedAt time.Time // tables.updated_at
}
