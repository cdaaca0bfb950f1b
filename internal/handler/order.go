package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lromero/restaurant-reservation/internal/model"
	"github.com/lromero/restaurant-reservation/internal/repository"
)

// OrderHandler appends menu items to seats and serves the floor view the
// waitstaff work from.
type OrderHandler struct {
	Reservations *repository.ReservationRepo
	Products     *repository.ProductRepo
}

func NewOrderHandler(r *repository.ReservationRepo, p *repository.ProductRepo) *OrderHandler {
	return &OrderHandler{Reservations: r, Products: p}
}

type appendOrderReq struct {
	ProductID uint64 `json:"product_id"`
}

// Append adds one catalog item to a seat's running order.  The item name
// and price are copied from the catalog at append time, so later menu
// price changes never rewrite an existing bill.
func (h *OrderHandler) Append(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	seat64, err := strconv.ParseUint(c.Param("seat"), 10, 32)
	if err != nil || seat64 == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat"})
	}
	seat := uint32(seat64)

	var req appendOrderReq
	if err := c.Bind(&req); err != nil || req.ProductID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "product_id required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	product, err := h.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "product not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	// Ordering only makes sense once the party is seated; AppendOrder
	// checks the status under the same row lock as the insert, so a
	// reservation closed mid-request still rejects the item.
	item := model.LineItem{Name: product.Name, PriceCents: product.PriceCents}
	if err := h.Reservations.AppendOrder(ctx, id, seat, item); err != nil {
		switch err {
		case repository.ErrReservationNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		case repository.ErrNotOrderable:
			return c.JSON(http.StatusConflict, echo.Map{"error": "reservation is not in progress"})
		case repository.ErrInvalidSeat:
			return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "seat outside party size"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "append failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"reservation_id": id,
		"seat":           seat,
		"item":           item,
	})
}

// Floor lists the in-progress reservations with their per-seat orders,
// which is the live view of occupied tables.
func (h *OrderHandler) Floor(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	out, err := h.Reservations.ListByStatus(ctx, model.StatusInProgress)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": out})
}
