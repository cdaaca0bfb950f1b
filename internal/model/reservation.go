package model

import (
	"fmt"
	"time"
)

// Status is the canonical lifecycle label of a reservation.  Exactly one
// vocabulary is accepted; unknown labels are rejected at the store and
// request boundaries instead of being stored as free text.
type Status string

const (
	StatusPending    Status = "PENDING"     // created, not yet accepted by staff
	StatusConfirmed  Status = "CONFIRMED"   // staff accepted the booking
	StatusInProgress Status = "IN_PROGRESS" // party seated, orders being taken
	StatusClosed     Status = "CLOSED"      // billed and finished
	StatusCancelled  Status = "CANCELLED"   // abandoned; terminal
)

// ParseStatus validates a raw status label.  It returns an error for any
// label outside the canonical set so that legacy spellings never reach
// the database.
func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusClosed, StatusCancelled:
		return Status(raw), nil
	}
	return "", fmt.Errorf("unknown reservation status %q", raw)
}

// Terminal reports whether no further transition is allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusClosed || s == StatusCancelled
}

// CanTransition reports whether a reservation may move from s to next.
// The normal flow is one-directional (PENDING → CONFIRMED → IN_PROGRESS →
// CLOSED) and CANCELLED is reachable from any non-terminal state.
func (s Status) CanTransition(next Status) bool {
	if next == StatusCancelled {
		return !s.Terminal()
	}
	switch s {
	case StatusPending:
		return next == StatusConfirmed
	case StatusConfirmed:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusClosed
	}
	return false
}

// LineItem is a single ordered product assigned to a seat.  Prices are
// integer cents; the service performs no floating point money arithmetic.
type LineItem struct {
	Name       string `json:"name"`        // product name at order time
	PriceCents int64  `json:"price_cents"` // unit price in cents
}

// Reservation is a booking of one table for one hour-aligned slot.
// Orders are tracked per seat: AssignedOrders maps a seat number in
// [1, PartySize] to the sequence of line items ordered for that seat,
// in the order they were appended.
//
// Fields:
//
//	ID             – primary key identifier, assigned by the store.
//	CustomerName   – non-empty name the booking was made under.
//	ContactEmail   – customer email, validated against a basic pattern.
//	Date           – calendar date of the booking (YYYY-MM-DD).
//	Hour           – hour of day in [0, 23]; slots are one hour wide.
//	TableNumber    – assigned table, nil while a self-service booking
//	                 awaits staff assignment.
//	PartySize      – number of seats in the party, positive.
//	Status         – canonical lifecycle label.
//	AssignedOrders – seat number → ordered line items.
//	CreatedAt      – set once at creation.
//	UpdatedAt      – last mutation timestamp.
type Reservation struct {
	ID             uint64                `json:"id"`
	CustomerName   string                `json:"customer_name"`
	ContactEmail   string                `json:"contact_email"`
	Date           string                `json:"date"`
	Hour           int                   `json:"hour"`
	TableNumber    *uint32               `json:"table_number"`
	PartySize      uint32                `json:"party_size"`
	Status         Status                `json:"status"`
	AssignedOrders map[uint32][]LineItem `json:"assigned_orders,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}
