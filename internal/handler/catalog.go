package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lromero/restaurant-reservation/internal/repository"
)

// CatalogHandler serves the public reference data: the menu catalog and
// the dining table layout.  Both are read-heavy and nearly static, which
// is why these routes sit behind the Redis response cache.
type CatalogHandler struct {
	Products  *repository.ProductRepo
	TableRepo *repository.TableRepo
}

func NewCatalogHandler(p *repository.ProductRepo, t *repository.TableRepo) *CatalogHandler {
	return &CatalogHandler{Products: p, TableRepo: t}
}

// Menu lists the product catalog.
func (h *CatalogHandler) Menu(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	products, err := h.Products.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"products": products})
}

// Tables lists the dining table layout.
func (h *CatalogHandler) Tables(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tables, err := h.TableRepo.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tables": tables})
}

type productReq struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// CreateProduct adds a menu entry (admin only).
func (h *CatalogHandler) CreateProduct(c echo.Context) error {
	var req productReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.PriceCents < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and non-negative price_cents required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	id, err := h.Products.Create(ctx, req.Name, req.PriceCents)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": req.Name, "price_cents": req.PriceCents})
}
