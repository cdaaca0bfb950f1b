package billing

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lromero/restaurant-reservation/internal/model"
)

func fixtureReservation() *model.Reservation {
	return &model.Reservation{
		ID:           7,
		CustomerName: "Ana",
		PartySize:    3,
		Status:       model.StatusInProgress,
		AssignedOrders: map[uint32][]model.LineItem{
			1: {
				{Name: "Burger", PriceCents: 500},
				{Name: "Soda", PriceCents: 200},
			},
			3: {
				{Name: "Salad", PriceCents: 450},
			},
		},
	}
}

func TestAggregateBySeat(t *testing.T) {
	res := fixtureReservation()

	inv, err := Aggregate(res, BySeat(1))
	if err != nil {
		t.Fatalf("Aggregate seat 1: %v", err)
	}
	if inv.TotalCents != 700 {
		t.Fatalf("seat 1 total = %d, want 700", inv.TotalCents)
	}
	if len(inv.Lines) != 2 || inv.Lines[0].Name != "Burger" || inv.Lines[1].Name != "Soda" {
		t.Fatalf("seat 1 lines out of order: %+v", inv.Lines)
	}

	// Seat inside the party with no orders is an empty invoice, not an error.
	inv, err = Aggregate(res, BySeat(2))
	if err != nil {
		t.Fatalf("Aggregate seat 2: %v", err)
	}
	if len(inv.Lines) != 0 || inv.TotalCents != 0 {
		t.Fatalf("seat 2 should be empty, got %+v", inv)
	}

	// Seat outside the party is an error.
	if _, err := Aggregate(res, BySeat(4)); err != ErrNoSuchSeat {
		t.Fatalf("seat 4 err = %v, want ErrNoSuchSeat", err)
	}
	if _, err := Aggregate(res, BySeat(0)); err != ErrNoSuchSeat {
		t.Fatalf("seat 0 err = %v, want ErrNoSuchSeat", err)
	}
}

func TestAggregateByTable(t *testing.T) {
	res := fixtureReservation()

	inv, err := Aggregate(res, ByTable())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if inv.TotalCents != 1150 {
		t.Fatalf("table total = %d, want 1150", inv.TotalCents)
	}
	// Rows come out seat by seat, ascending.
	wantSeats := []uint32{1, 1, 3}
	for i, ln := range inv.Lines {
		if ln.Seat != wantSeats[i] {
			t.Fatalf("line %d seat = %d, want %d", i, ln.Seat, wantSeats[i])
		}
	}

	// Table total equals the sum of the per-seat totals.
	var sum int64
	for seat := uint32(1); seat <= res.PartySize; seat++ {
		si, err := Aggregate(res, BySeat(seat))
		if err != nil {
			t.Fatalf("Aggregate seat %d: %v", seat, err)
		}
		sum += si.TotalCents
	}
	if sum != inv.TotalCents {
		t.Fatalf("per-seat sum %d != table total %d", sum, inv.TotalCents)
	}
}

func TestAggregateSkipsOrphanedSeats(t *testing.T) {
	res := fixtureReservation()
	res.AssignedOrders[9] = []model.LineItem{{Name: "Ghost", PriceCents: 9999}}

	inv, err := Aggregate(res, ByTable())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if inv.TotalCents != 1150 {
		t.Fatalf("orphaned seat leaked into total: %d", inv.TotalCents)
	}
	for _, ln := range inv.Lines {
		if ln.Seat == 9 {
			t.Fatalf("orphaned seat emitted: %+v", ln)
		}
	}
}

func TestAggregateEmptyReservation(t *testing.T) {
	res := &model.Reservation{ID: 1, PartySize: 2}
	inv, err := Aggregate(res, ByTable())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(inv.Lines) != 0 || inv.TotalCents != 0 {
		t.Fatalf("empty reservation should produce empty invoice, got %+v", inv)
	}
}

func TestCents(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{50, "0.50"},
		{500, "5.00"},
		{750, "7.50"},
		{1150, "11.50"},
		{-750, "-7.50"},
	}
	for _, tc := range tests {
		if got := Cents(tc.in); got != tc.want {
			t.Errorf("Cents(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCSVRender(t *testing.T) {
	res := fixtureReservation()
	inv, err := Aggregate(res, ByTable())
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	var buf bytes.Buffer
	if err := (CSVRenderer{}).Render(&buf, res.CustomerName, inv); err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 { // header + 3 items + total
		t.Fatalf("got %d rows, want 5:\n%s", len(lines), buf.String())
	}
	if lines[0] != "customer,seat,item,price" {
		t.Fatalf("header = %q", lines[0])
	}
	if lines[1] != "Ana,1,Burger,5.00" {
		t.Fatalf("first row = %q", lines[1])
	}
	if lines[4] != ",,total,11.50" {
		t.Fatalf("total row = %q", lines[4])
	}
}
