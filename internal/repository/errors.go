// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios.  For
// example, ErrReservationNotFound maps to HTTP 404 while ErrInvalidSeat
// maps to a validation failure on an order append.
package repository

import "errors"

// ErrReservationNotFound is returned when a reservation ID does not
// exist.  Handlers should translate this into an HTTP 404 response.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrUserNotFound is returned when a user ID does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidSeat is returned when an order append names a seat outside
// the reservation's party range [1, party_size].
var ErrInvalidSeat = errors.New("invalid seat")

// ErrNotOrderable is returned when an order append targets a reservation
// that is not IN_PROGRESS.  The check runs under the same row lock as the
// insert, so a reservation closed mid-request still rejects the item.
var ErrNotOrderable = errors.New("reservation not accepting orders")

// ErrStatusConflict is returned when a status write finds the row no
// longer in the state the caller validated against.  Handlers translate
// it into an HTTP 409.
var ErrStatusConflict = errors.New("reservation status changed concurrently")
