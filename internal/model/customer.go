package model

import "time"

// Customer is a guest who has booked at least once. Records are
// upserted by phone number when a booking comes in so the admin
// dashboard can show repeat visits.
type Customer struct {
	ID        uint64    // customers.id
	Name      string    // customers.name
	Phone     string    // customers.phone (unique)
	Email     string    // customers.email
	CreatedAt time.Time // customers.created_at
	UpdatedAt time.Time // customers.updated_at
}
