// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationEvent is published whenever a reservation is confirmed
// or cancelled. It carries enough for downstream consumers to log or
// notify without querying the primary database. Kind is "confirmed"
// or "cancelled".
type ReservationEvent struct {
	Kind          string `json:"kind"`
	ReservationID uint64 `json:"reservation_id"`
	Ref           string `json:"ref"`
	TableID       uint64 `json:"table_id"`
	Date          string `json:"date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	GuestCount    int    `json:"guest_count"`
	CustomerName  string `json:"customer_name"`
	Phone         string `json:"phone"`
	OccurredAt    string `json:"occurred_at"`
}
