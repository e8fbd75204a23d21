package model

import "time"

// User is a staff account for the admin API. Role is either MANAGER
// (full access) or HOST (front-of-house; may manage reservations but
// not tables or staff).
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email (unique)
	PasswordHash string    // users.password_hash (bcrypt)
	Role         string    // users.role: MANAGER | HOST
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
