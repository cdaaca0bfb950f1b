package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lromero/restaurant-reservation/internal/booking"
	"github.com/lromero/restaurant-reservation/internal/config"
	"github.com/lromero/restaurant-reservation/internal/model"
	"github.com/lromero/restaurant-reservation/internal/queue"
	"github.com/lromero/restaurant-reservation/internal/repository"
	queue_publisher "github.com/lromero/restaurant-reservation/internal/service"
)

// ReservationHandler serves both the public booking endpoint and the
// staff reservation CRUD.  The conflict validator runs on a snapshot
// taken inside the same transaction as the write, so two concurrent
// requests for the same table cannot both pass the check.
type ReservationHandler struct {
	Cfg          config.Config
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(cfg config.Config, r *repository.ReservationRepo) *ReservationHandler {
	return &ReservationHandler{Cfg: cfg, Reservations: r}
}

// ----- DTOs -----

type reservationReq struct {
	CustomerName string  `json:"customer_name"`
	ContactEmail string  `json:"contact_email"`
	Date         string  `json:"date"` // YYYY-MM-DD
	Time         string  `json:"time"` // HH:00, schedule-aligned
	TableNumber  *uint32 `json:"table_number"`
	PartySize    uint32  `json:"party_size"`
}

type statusReq struct {
	Status string `json:"status"`
}

// validate normalizes the request and returns the parsed hour, or an
// error message suitable for a 400 body.
func (h *ReservationHandler) validate(req *reservationReq) (int, string) {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.ContactEmail = strings.ToLower(strings.TrimSpace(req.ContactEmail))
	if req.CustomerName == "" {
		return 0, "customer_name required"
	}
	if !booking.ValidEmail(req.ContactEmail) {
		return 0, "contact_email invalid"
	}
	if !booking.ValidDate(req.Date, time.Now().UTC()) {
		return 0, "date invalid or in the past"
	}
	hour, ok := booking.ParseSlot(req.Time, h.Cfg.OpenHour, h.Cfg.CloseHour)
	if !ok {
		return 0, "time must be an on-the-hour slot inside opening hours"
	}
	if req.PartySize < 1 {
		return 0, "party_size must be positive"
	}
	return hour, ""
}

// rejectJSON maps a validator rejection onto an HTTP response.  Occupied
// slots are conflicts; a table that cannot host the party at all is an
// unprocessable request.
func rejectJSON(c echo.Context, d booking.Decision) error {
	code := http.StatusConflict
	if d.Reason == booking.ReasonInvalidTable || d.Reason == booking.ReasonCapacityExceeded {
		code = http.StatusUnprocessableEntity
	}
	return c.JSON(code, echo.Map{"error": "reservation rejected", "reason": string(d.Reason)})
}

// createReservation runs the snapshot-validate-insert sequence in one
// transaction and returns the stored reservation.
func (h *ReservationHandler) createReservation(ctx context.Context, req reservationReq, hour int, status model.Status) (*model.Reservation, *booking.Decision, error) {
	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	existing, err := h.Reservations.ListByDateTx(ctx, tx, req.Date)
	if err != nil {
		return nil, nil, err
	}
	tables, err := h.Reservations.TableLookupTx(ctx, tx)
	if err != nil {
		return nil, nil, err
	}
	decision := booking.CanAccept(booking.Candidate{
		TableNumber: req.TableNumber,
		Date:        req.Date,
		Hour:        hour,
		PartySize:   req.PartySize,
	}, existing, tables, 0)
	if !decision.Accepted {
		return nil, &decision, nil
	}

	res := &model.Reservation{
		CustomerName: req.CustomerName,
		ContactEmail: req.ContactEmail,
		Date:         req.Date,
		Hour:         hour,
		TableNumber:  req.TableNumber,
		PartySize:    req.PartySize,
		Status:       status,
	}
	if err := h.Reservations.CreateTx(ctx, tx, res); err != nil {
		return nil, nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}
	committed = true
	return res, nil, nil
}

// notify publishes a reservation event after commit.  Fire and forget:
// the write already stands.  A var so tests can observe emitted events.
var notify = func(res *model.Reservation, kind string) {
	event := queue.ReservationNotification{
		ReservationID: res.ID,
		Kind:          kind,
		CustomerName:  res.CustomerName,
		ContactEmail:  res.ContactEmail,
		Date:          res.Date,
		Hour:          res.Hour,
		TableNumber:   res.TableNumber,
		PartySize:     res.PartySize,
		Status:        string(res.Status),
		OccurredAt:    time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishReservationNotification(ctx, event)
	}()
}

// Book is the public self-service endpoint.  Bookings start PENDING and
// may omit the table; staff assign one later through Update.
func (h *ReservationHandler) Book(c echo.Context) error {
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hour, msg := h.validate(&req)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, decision, err := h.createReservation(ctx, req, hour, model.StatusPending)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	if decision != nil {
		return rejectJSON(c, *decision)
	}
	notify(res, "created")
	return c.JSON(http.StatusCreated, res)
}

// Create is the staff variant of Book: same validation, but the booking
// is created already CONFIRMED since staff entered it deliberately.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hour, msg := h.validate(&req)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, decision, err := h.createReservation(ctx, req, hour, model.StatusConfirmed)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	if decision != nil {
		return rejectJSON(c, *decision)
	}
	notify(res, "created")
	return c.JSON(http.StatusCreated, res)
}

// List returns reservations filtered by ?status=, defaulting to PENDING
// since the triage queue is the most common staff view.
func (h *ReservationHandler) List(c echo.Context) error {
	raw := c.QueryParam("status")
	if raw == "" {
		raw = string(model.StatusPending)
	}
	status, err := model.ParseStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Reservations.ListByStatus(ctx, status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}

// Get returns one reservation with its per-seat orders.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, res)
}

// Update rewrites a reservation's booking fields.  The row itself is
// excluded from the overlap check, so saving a reservation without
// moving it always succeeds.  Terminal reservations are immutable.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req reservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	hour, msg := h.validate(&req)
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	current, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if current.Status.Terminal() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is closed or cancelled"})
	}
	if req.PartySize < current.PartySize {
		// Shrinking the party could orphan seats that already carry orders.
		return c.JSON(http.StatusConflict, echo.Map{"error": "party_size cannot shrink below seated orders"})
	}

	existing, err := h.Reservations.ListByDateTx(ctx, tx, req.Date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	tables, err := h.Reservations.TableLookupTx(ctx, tx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	decision := booking.CanAccept(booking.Candidate{
		TableNumber: req.TableNumber,
		Date:        req.Date,
		Hour:        hour,
		PartySize:   req.PartySize,
	}, existing, tables, id)
	if !decision.Accepted {
		return rejectJSON(c, decision)
	}

	current.CustomerName = req.CustomerName
	current.ContactEmail = req.ContactEmail
	current.Date = req.Date
	current.Hour = hour
	current.TableNumber = req.TableNumber
	current.PartySize = req.PartySize
	if err := h.Reservations.UpdateDetailsTx(ctx, tx, current); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	committed = true
	notify(current, "updated")
	return c.JSON(http.StatusOK, current)
}

// UpdateStatus moves a reservation along its lifecycle.  Illegal jumps
// (e.g. PENDING straight to CLOSED, or anything out of a terminal state)
// are rejected.  The legality check runs against a locked row and the
// write is guarded by the status just read, so two concurrent transitions
// out of the same state cannot both land.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	next, err := model.ParseStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tx, err := h.Reservations.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	res, err := h.Reservations.GetForUpdateTx(ctx, tx, id)
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !res.Status.CanTransition(next) {
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "illegal status transition",
			"from":  string(res.Status),
			"to":    string(next),
		})
	}
	if err := h.Reservations.UpdateStatusTx(ctx, tx, id, res.Status, next); err != nil {
		if err == repository.ErrStatusConflict {
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation status changed, retry"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	committed = true
	res.Status = next
	notify(res, "status_changed")
	return c.JSON(http.StatusOK, res)
}
