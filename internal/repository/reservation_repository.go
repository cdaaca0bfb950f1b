package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lromero/restaurant-reservation/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and their
// per-seat orders.  A reservation row holds the booking itself; the
// seat-to-line-item mapping lives in reservation_orders with one row per
// item, keyed by (reservation_id, seat_no, position).  Appending an item
// for one seat therefore never touches rows belonging to sibling seats.
// All timestamp fields are assumed to be stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so handlers can open transactions that
// span the validator snapshot and the subsequent write.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, customer_name, contact_email,
    DATE_FORMAT(res_date, '%Y-%m-%d'), res_hour, table_number, party_size, status,
    created_at, updated_at`

// rowScanner abstracts *sql.Row and *sql.Rows for scanReservation.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReservation(s rowScanner) (model.Reservation, error) {
	var res model.Reservation
	var table sql.NullInt64
	var status string
	err := s.Scan(&res.ID, &res.CustomerName, &res.ContactEmail,
		&res.Date, &res.Hour, &table, &res.PartySize, &status,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return model.Reservation{}, err
	}
	if table.Valid {
		n := uint32(table.Int64)
		res.TableNumber = &n
	}
	// The column is an ENUM of the canonical set; ParseStatus guards
	// against a schema drifting ahead of the code.
	st, err := model.ParseStatus(status)
	if err != nil {
		return model.Reservation{}, err
	}
	res.Status = st
	return res, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction.  It populates the generated ID and timestamps on the
// provided record.  The caller must commit or rollback the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	var table interface{}
	if res.TableNumber != nil {
		table = *res.TableNumber
	}
	const q = `INSERT INTO reservations
        (customer_name, contact_email, res_date, res_hour, table_number, party_size, status)
        VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.CustomerName, res.ContactEmail, res.Date, res.Hour, table, res.PartySize, string(res.Status))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the row to populate timestamps set by the database.
	row := tx.QueryRowContext(ctx, `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, res.ID)
	stored, err := scanReservation(row)
	if err != nil {
		return err
	}
	res.CreatedAt = stored.CreatedAt
	res.UpdatedAt = stored.UpdatedAt
	return nil
}

// ListByDateTx returns every reservation on the given date inside the
// transaction, locking the rows so the validator's conflict check and the
// subsequent insert/update observe the same snapshot.  Orders are not
// loaded; the validator does not need them.
func (r *ReservationRepo) ListByDateTx(ctx context.Context, tx *sql.Tx, date string) ([]model.Reservation, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE res_date = ? FOR UPDATE`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// TableLookupTx loads the capacity map inside the same transaction as the
// conflict snapshot.
func (r *ReservationRepo) TableLookupTx(ctx context.Context, tx *sql.Tx) (map[uint32]model.DiningTable, error) {
	return lookupTx(ctx, tx)
}

// GetByID returns one reservation with its assigned orders populated.
// ErrReservationNotFound is returned when the ID does not exist.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id)
	res, err := scanReservation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	orders, err := r.loadOrders(ctx, []uint64{res.ID})
	if err != nil {
		return nil, err
	}
	res.AssignedOrders = orders[res.ID]
	return &res, nil
}

// ListByStatus returns all reservations carrying the given status, newest
// first, each with its assigned orders populated.
func (r *ReservationRepo) ListByStatus(ctx context.Context, status model.Status) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE status = ? ORDER BY created_at DESC`,
		string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Reservation, 0)
	ids := make([]uint64, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
		ids = append(ids, res.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	orders, err := r.loadOrders(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].AssignedOrders = orders[out[i].ID]
	}
	return out, nil
}

// UpdateDetailsTx rewrites a reservation's booking fields within a
// transaction.  The caller is expected to have run the validator against
// the same transaction's snapshot.  Per-seat orders are untouched.
func (r *ReservationRepo) UpdateDetailsTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	var table interface{}
	if res.TableNumber != nil {
		table = *res.TableNumber
	}
	const q = `UPDATE reservations
        SET customer_name=?, contact_email=?, res_date=?, res_hour=?, table_number=?, party_size=?
        WHERE id=?`
	result, err := tx.ExecContext(ctx, q,
		res.CustomerName, res.ContactEmail, res.Date, res.Hour, table, res.PartySize, res.ID)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		// RowsAffected is 0 both for a missing row and for a no-op update;
		// distinguish by re-selecting.
		var exists uint64
		if err := tx.QueryRowContext(ctx, `SELECT id FROM reservations WHERE id=?`, res.ID).Scan(&exists); err == sql.ErrNoRows {
			return ErrReservationNotFound
		}
	}
	return nil
}

// GetForUpdateTx loads a reservation row with a row lock, without orders.
func (r *ReservationRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Reservation, error) {
	row := tx.QueryRowContext(ctx,
		`SELECT `+reservationCols+` FROM reservations WHERE id = ? FOR UPDATE`, id)
	res, err := scanReservation(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// UpdateStatusTx moves a reservation from one status to another inside a
// transaction.  The UPDATE is guarded by the expected current status, so
// even a caller that skipped the row lock cannot overwrite a transition
// that landed in between: zero affected rows means the row is gone or no
// longer in `from`.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to model.Status) error {
	result, err := tx.ExecContext(ctx,
		`UPDATE reservations SET status=? WHERE id=? AND status=?`,
		string(to), id, string(from))
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT status FROM reservations WHERE id=?`, id).Scan(&current)
		if err == sql.ErrNoRows {
			return ErrReservationNotFound
		}
		if err != nil {
			return err
		}
		if current != string(from) {
			return ErrStatusConflict
		}
		// from == to: MySQL reports zero affected rows for a no-op write.
	}
	return nil
}

// AppendOrder appends one line item to a seat's order sequence.  The
// whole operation runs in a transaction: the reservation row is locked,
// the status must be IN_PROGRESS, the seat is range-checked against
// party_size, and the item is inserted at the next position for that
// seat only.  Sibling seats' rows are never
// read or written, which is what keeps two staff appending to different
// seats from losing each other's work.
func (r *ReservationRepo) AppendOrder(ctx context.Context, reservationID uint64, seat uint32, item model.LineItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var partySize uint32
	var status string
	err = tx.QueryRowContext(ctx,
		`SELECT party_size, status FROM reservations WHERE id = ? FOR UPDATE`, reservationID).Scan(&partySize, &status)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrReservationNotFound
		}
		return err
	}
	if status != string(model.StatusInProgress) {
		return ErrNotOrderable
	}
	if seat < 1 || seat > partySize {
		return ErrInvalidSeat
	}

	var next uint32
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM reservation_orders
         WHERE reservation_id = ? AND seat_no = ? FOR UPDATE`,
		reservationID, seat).Scan(&next)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO reservation_orders (reservation_id, seat_no, position, item_name, price_cents)
         VALUES (?, ?, ?, ?, ?)`,
		reservationID, seat, next, item.Name, item.PriceCents)
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// loadOrders fetches the assigned orders for a set of reservations in one
// query and groups them by reservation and seat, preserving append order.
func (r *ReservationRepo) loadOrders(ctx context.Context, ids []uint64) (map[uint64]map[uint32][]model.LineItem, error) {
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}
	q := `SELECT reservation_id, seat_no, item_name, price_cents
          FROM reservation_orders
          WHERE reservation_id IN (` + strings.Join(placeholders, ",") + `)
          ORDER BY reservation_id, seat_no, position`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[uint64]map[uint32][]model.LineItem)
	for rows.Next() {
		var resID uint64
		var seat uint32
		var item model.LineItem
		if err := rows.Scan(&resID, &seat, &item.Name, &item.PriceCents); err != nil {
			return nil, err
		}
		if out[resID] == nil {
			out[resID] = make(map[uint32][]model.LineItem)
		}
		out[resID][seat] = append(out[resID][seat], item)
	}
	return out, rows.Err()
}
