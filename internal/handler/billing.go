package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lromero/restaurant-reservation/internal/billing"
	"github.com/lromero/restaurant-reservation/internal/model"
	"github.com/lromero/restaurant-reservation/internal/repository"
)

// BillingHandler turns a reservation's assigned orders into invoices.
type BillingHandler struct {
	Reservations *repository.ReservationRepo
	CSV          billing.CSVRenderer
}

func NewBillingHandler(r *repository.ReservationRepo) *BillingHandler {
	return &BillingHandler{Reservations: r}
}

// Invoice aggregates a reservation's orders.  ?seat=N narrows the scope
// to one seat; the default covers the whole table.  ?format=csv streams a
// CSV export, anything else returns JSON.
func (h *BillingHandler) Invoice(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	scope := billing.ByTable()
	if raw := c.QueryParam("seat"); raw != "" {
		seat, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || seat == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat"})
		}
		scope = billing.BySeat(uint32(seat))
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

	inv, err := billing.Aggregate(res, scope)
	if err != nil {
		if err == billing.ErrNoSuchSeat {
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "seat outside party size"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "aggregation failed"})
	}

	if c.QueryParam("format") == "csv" {
		c.Response().Header().Set(echo.HeaderContentType, h.CSV.ContentType())
		c.Response().WriteHeader(http.StatusOK)
		return h.CSV.Render(c.Response(), res.CustomerName, inv)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation_id": res.ID,
		"customer_name":  res.CustomerName,
		"status":         res.Status,
		"invoice":        inv,
		"total":          billing.Cents(inv.TotalCents),
	})
}

// Billable lists closed reservations, which is what the cashier works
// through at the end of service.
func (h *BillingHandler) Billable(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Reservations.ListByStatus(ctx, model.StatusClosed)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": out})
}
