// Package billing computes per-seat and per-reservation totals from a
// reservation's assigned orders.  Like the booking validator it is pure:
// it reads the snapshot it is handed and produces invoice rows, leaving
// rendering and persistence to its callers.
package billing

import (
	"errors"
	"sort"

	"github.com/lromero/restaurant-reservation/internal/model"
)

// ErrNoSuchSeat is returned by Aggregate when a BySeat scope names a seat
// outside the reservation's party.  A seat inside the party with no
// recorded orders is not an error; it yields an empty invoice.
var ErrNoSuchSeat = errors.New("no such seat")

// Scope selects what part of a reservation an invoice covers.
type Scope struct {
	bySeat bool
	seat   uint32
}

// ByTable covers every seat of the reservation.
func ByTable() Scope { return Scope{} }

// BySeat covers a single seat.
func BySeat(seat uint32) Scope { return Scope{bySeat: true, seat: seat} }

// Line is one invoice row: a line item attributed to a seat.
type Line struct {
	Seat       uint32 `json:"seat"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// Invoice is the aggregation result: ordered rows plus their sum.
type Invoice struct {
	Lines      []Line `json:"lines"`
	TotalCents int64  `json:"total_cents"`
}

// Aggregate flattens the reservation's assigned orders within scope into
// invoice rows and sums their prices.  Rows are emitted seat by seat in
// ascending seat order, each seat's items in the order they were
// appended, so ByTable output is deterministic and the table total always
// equals the sum of the per-seat totals.
func Aggregate(res *model.Reservation, scope Scope) (Invoice, error) {
	inv := Invoice{Lines: []Line{}}
	if scope.bySeat {
		if !validSeat(scope.seat, res.PartySize) {
			return Invoice{}, ErrNoSuchSeat
		}
		appendSeat(&inv, scope.seat, res.AssignedOrders[scope.seat])
		return inv, nil
	}
	seats := make([]uint32, 0, len(res.AssignedOrders))
	for seat := range res.AssignedOrders {
		if !validSeat(seat, res.PartySize) {
			continue // out-of-range keys never reach an invoice
		}
		seats = append(seats, seat)
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i] < seats[j] })
	for _, seat := range seats {
		appendSeat(&inv, seat, res.AssignedOrders[seat])
	}
	return inv, nil
}

func appendSeat(inv *Invoice, seat uint32, items []model.LineItem) {
	for _, it := range items {
		inv.Lines = append(inv.Lines, Line{Seat: seat, Name: it.Name, PriceCents: it.PriceCents})
		inv.TotalCents += it.PriceCents
	}
}

func validSeat(seat, partySize uint32) bool {
	return seat >= 1 && seat <= partySize
}
