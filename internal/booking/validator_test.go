package booking

import (
	"testing"
	"time"

	"github.com/lromero/restaurant-reservation/internal/model"
)

func tbl(n uint32) *uint32 { return &n }

func fixtureTables() map[uint32]model.DiningTable {
	return map[uint32]model.DiningTable{
		1: {Number: 1, Capacity: 4},
		2: {Number: 2, Capacity: 6},
		9: {Number: 9, Capacity: 2},
	}
}

func TestCanAccept(t *testing.T) {
	existing := []model.Reservation{
		{ID: 10, TableNumber: tbl(1), Date: "2026-09-01", Hour: 19, Status: model.StatusConfirmed},
		{ID: 11, TableNumber: tbl(2), Date: "2026-09-01", Hour: 12, Status: model.StatusCancelled},
		{ID: 12, TableNumber: tbl(1), Date: "2026-09-02", Hour: 19, Status: model.StatusPending},
	}

	tests := []struct {
		name       string
		cand       Candidate
		excludeID  uint64
		wantAccept bool
		wantReason Reason
	}{
		{
			name:       "same table same hour conflicts",
			cand:       Candidate{TableNumber: tbl(1), Date: "2026-09-01", Hour: 19, PartySize: 2},
			wantReason: ReasonTableOccupied,
		},
		{
			name:       "one hour before conflicts",
			cand:       Candidate{TableNumber: tbl(1), Date: "2026-09-01", Hour: 18, PartySize: 2},
			wantReason: ReasonTableOccupied,
		},
		{
			name:       "one hour after conflicts",
			cand:       Candidate{TableNumber: tbl(1), Date: "2026-09-01", Hour: 20, PartySize: 2},
			wantReason: ReasonTableOccupied,
		},
		{
			name:       "two hours after is free",
			cand:       Candidate{TableNumber: tbl(1), Date: "2026-09-01", Hour: 21, PartySize: 2},
			wantAccept: true,
		},
		{
			name:       "two hours before is free",
			cand:       Candidate{TableNumber: tbl(1), Date: "2026-09-01", Hour: 17, PartySize: 2},
			wantAccept: true,
		},
		{
			name:       "different table same hour is free",
			cand:       Candidate{TableNumber: tbl(2), Date: "2026-09-01", Hour: 19, PartySize: 2},
			wantAccept: true,
		},
		{
			name:       "different date same hour is free",
			cand:       Candidate{TableNumber: tbl(1), Date: "2026-09-03", Hour: 19, PartySize: 2},
			wantAccept: true,
		},
		{
			name:       "cancelled reservation does not block",
			cand:       Candidate{TableNumber: tbl(2), Date: "2026-09-01", Hour: 12, PartySize: 2},
			wantAccept: true,
		},
		{
			name:       "party larger than capacity",
			cand:       Candidate{TableNumber: tbl(9), Date: "2026-09-05", Hour: 12, PartySize: 3},
			wantReason: ReasonCapacityExceeded,
		},
		{
			name:       "party equal to capacity fits",
			cand:       Candidate{TableNumber: tbl(9), Date: "2026-09-05", Hour: 12, PartySize: 2},
			wantAccept: true,
		},
		{
			name:       "unknown table rejected",
			cand:       Candidate{TableNumber: tbl(99), Date: "2026-09-05", Hour: 12, PartySize: 2},
			wantReason: ReasonInvalidTable,
		},
		{
			name:       "nil table skips all checks",
			cand:       Candidate{TableNumber: nil, Date: "2026-09-01", Hour: 19, PartySize: 50},
			wantAccept: true,
		},
		{
			name:       "editing a reservation excludes itself",
			cand:       Candidate{TableNumber: tbl(1), Date: "2026-09-01", Hour: 19, PartySize: 4},
			excludeID:  10,
			wantAccept: true,
		},
		{
			name:       "exclusion does not hide other rows",
			cand:       Candidate{TableNumber: tbl(1), Date: "2026-09-01", Hour: 19, PartySize: 4},
			excludeID:  12,
			wantReason: ReasonTableOccupied,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CanAccept(tc.cand, existing, fixtureTables(), tc.excludeID)
			if got.Accepted != tc.wantAccept {
				t.Fatalf("Accepted = %v, want %v (reason %q)", got.Accepted, tc.wantAccept, got.Reason)
			}
			if !tc.wantAccept && got.Reason != tc.wantReason {
				t.Fatalf("Reason = %q, want %q", got.Reason, tc.wantReason)
			}
			if tc.wantAccept && got.Reason != "" {
				t.Fatalf("accepted decision carries reason %q", got.Reason)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	tests := []struct {
		addr string
		ok   bool
	}{
		{"ana@example.com", true},
		{"a.b-c_d@mail.example.org", true},
		{"no-at-sign.example.com", false},
		{"two@@example.com", false},
		{"short-tld@example.c", false},
		{"@example.com", false},
		{"user@", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := ValidEmail(tc.addr); got != tc.ok {
			t.Errorf("ValidEmail(%q) = %v, want %v", tc.addr, got, tc.ok)
		}
	}
}

func TestParseSlot(t *testing.T) {
	tests := []struct {
		raw      string
		wantHour int
		wantOK   bool
	}{
		{"08:00", 8, true},
		{"23:00", 23, true},
		{"12:00", 12, true},
		{"12:30", 0, false}, // not hour-aligned
		{"07:00", 0, false}, // before opening
		{"24:00", 0, false},
		{"12", 0, false},
		{"ab:00", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		hour, ok := ParseSlot(tc.raw, 8, 23)
		if ok != tc.wantOK || (ok && hour != tc.wantHour) {
			t.Errorf("ParseSlot(%q) = (%d, %v), want (%d, %v)", tc.raw, hour, ok, tc.wantHour, tc.wantOK)
		}
	}
}

func TestValidDate(t *testing.T) {
	now := time.Date(2026, 8, 27, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		raw string
		ok  bool
	}{
		{"2026-08-27", true}, // today counts
		{"2026-08-28", true},
		{"2027-01-01", true},
		{"2026-08-26", false},
		{"26-08-2026", false},
		{"not-a-date", false},
	}
	for _, tc := range tests {
		if got := ValidDate(tc.raw, now); got != tc.ok {
			t.Errorf("ValidDate(%q) = %v, want %v", tc.raw, got, tc.ok)
		}
	}
}

func TestValidSeat(t *testing.T) {
	if ValidSeat(0, 4) {
		t.Error("seat 0 must be invalid")
	}
	if !ValidSeat(1, 4) || !ValidSeat(4, 4) {
		t.Error("seats 1 and partySize must be valid")
	}
	if ValidSeat(5, 4) {
		t.Error("seat beyond party size must be invalid")
	}
}
