package model

import "testing"

func TestParseStatus(t *testing.T) {
	for _, ok := range []string{"PENDING", "CONFIRMED", "IN_PROGRESS", "CLOSED", "CANCELLED"} {
		if _, err := ParseStatus(ok); err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "pending", "Pendiente", "Confirmada", "DONE"} {
		if _, err := ParseStatus(bad); err == nil {
			t.Errorf("ParseStatus(%q) should fail", bad)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusConfirmed, StatusInProgress, true},
		{StatusInProgress, StatusClosed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusInProgress, StatusCancelled, true},

		{StatusPending, StatusInProgress, false}, // no skipping
		{StatusPending, StatusClosed, false},
		{StatusConfirmed, StatusClosed, false},
		{StatusClosed, StatusCancelled, false}, // terminal stays terminal
		{StatusClosed, StatusInProgress, false},
		{StatusCancelled, StatusPending, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusConfirmed, StatusPending, false}, // no going back
	}
	for _, tc := range tests {
		if got := tc.from.CanTransition(tc.to); got != tc.want {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestTerminal(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusInProgress} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	for _, s := range []Status{StatusClosed, StatusCancelled} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}
