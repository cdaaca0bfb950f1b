// Package booking implements the reservation conflict and capacity
// validator.  Every function operates on an in-memory snapshot supplied
// by the caller and performs no persistence of its own; handlers fetch
// the snapshot and issue the write inside the same transaction.
package booking

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/lromero/restaurant-reservation/internal/model"
)

// Reason identifies why a candidate reservation was rejected.
type Reason string

const (
	ReasonTableOccupied    Reason = "TABLE_OCCUPIED"    // another reservation holds the table at or adjacent to the hour
	ReasonCapacityExceeded Reason = "CAPACITY_EXCEEDED" // party size larger than table capacity
	ReasonInvalidTable     Reason = "INVALID_TABLE"     // table number not in the reference data
)

// Decision is the discriminated result of CanAccept.  Reason is set only
// when Accepted is false.
type Decision struct {
	Accepted bool
	Reason   Reason
}

func accepted() Decision         { return Decision{Accepted: true} }
func rejected(r Reason) Decision { return Decision{Reason: r} }

// Candidate carries the fields of a reservation that participate in
// conflict checking.  TableNumber may be nil for customer self-service
// bookings whose table assignment is deferred to staff.
type Candidate struct {
	TableNumber *uint32
	Date        string // YYYY-MM-DD
	Hour        int    // 0..23
	PartySize   uint32
}

// CanAccept decides whether the candidate may be created, or — when
// excludeID is non-zero — whether an existing reservation may be edited
// into the candidate's shape.  The reservation identified by excludeID is
// skipped in the overlap check so that saving a reservation unchanged is
// always accepted.
//
// Checks, in order: the table must exist in the reference data, the party
// must fit its capacity, and no other live reservation may hold the same
// table on the same date at the same hour or an adjacent hour (a one-hour
// buffer on each side).  Cancelled reservations never block a slot.  A
// nil table skips all three checks.
func CanAccept(cand Candidate, existing []model.Reservation, tables map[uint32]model.DiningTable, excludeID uint64) Decision {
	if cand.TableNumber == nil {
		return accepted()
	}
	table, ok := tables[*cand.TableNumber]
	if !ok {
		return rejected(ReasonInvalidTable)
	}
	if cand.PartySize > table.Capacity {
		return rejected(ReasonCapacityExceeded)
	}
	for _, r := range existing {
		if r.ID == excludeID && excludeID != 0 {
			continue
		}
		if r.Status == model.StatusCancelled {
			continue
		}
		if r.TableNumber == nil || *r.TableNumber != *cand.TableNumber {
			continue
		}
		if r.Date != cand.Date {
			continue
		}
		if delta := r.Hour - cand.Hour; delta >= -1 && delta <= 1 {
			return rejected(ReasonTableOccupied)
		}
	}
	return accepted()
}

// emailPattern mirrors the permissive check used on the booking form:
// one @, a dotted domain, 2-6 letter TLD.
var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,6}$`)

// ValidEmail reports whether addr matches the basic email pattern.
func ValidEmail(addr string) bool {
	return emailPattern.MatchString(addr)
}

// ParseSlot parses an "HH:MM" time-of-day string into an hour and checks
// that it is hour-aligned and inside the daily schedule [openHour,
// closeHour].  It returns the hour and true on success.
func ParseSlot(raw string, openHour, closeHour int) (int, bool) {
	parts := strings.SplitN(strings.TrimSpace(raw), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	if m, err := strconv.Atoi(parts[1]); err != nil || m != 0 {
		return 0, false
	}
	if h < openHour || h > closeHour {
		return 0, false
	}
	return h, true
}

// ValidDate parses a YYYY-MM-DD date and checks it is not before today.
// now supplies the reference clock so callers can pin it in tests.
func ValidDate(raw string, now time.Time) bool {
	d, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(today)
}

// ValidSeat reports whether seat lies in [1, partySize].
func ValidSeat(seat, partySize uint32) bool {
	return seat >= 1 && seat <= partySize
}
