// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationNotification is published after a reservation write has been
// committed.  It carries enough information for the notification worker
// to address and render a customer email without querying the primary
// database.  Publication failures are logged and ignored: the committed
// write always stands regardless of whether the notification goes out.
type ReservationNotification struct {
	ReservationID uint64  `json:"reservation_id"`
	Kind          string  `json:"kind"` // "created" or "status_changed"
	CustomerName  string  `json:"customer_name"`
	ContactEmail  string  `json:"contact_email"`
	Date          string  `json:"date"`
	Hour          int     `json:"hour"`
	TableNumber   *uint32 `json:"table_number"`
	PartySize     uint32  `json:"party_size"`
	Status        string  `json:"status"`
	OccurredAt    string  `json:"occurred_at"`
}
