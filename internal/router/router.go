// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/lromero/restaurant-reservation/internal/auth"
	"github.com/lromero/restaurant-reservation/internal/config"
	"github.com/lromero/restaurant-reservation/internal/handler"
	"github.com/lromero/restaurant-reservation/internal/middleware"
)

// Deps bundles everything the route table needs.  RDB may be nil, in
// which case the rate limiter and response cache are skipped and every
// request goes straight to the handlers.
type Deps struct {
	Cfg          config.Config
	RDB          *redis.Client
	Health       *handler.HealthHandler
	Auth         *handler.AuthHandler
	Reservations *handler.ReservationHandler
	Orders       *handler.OrderHandler
	Billing      *handler.BillingHandler
	Catalog      *handler.CatalogHandler
	Users        *handler.UserHandler
}

// Register wires the full route table: public browse and booking
// endpoints, the auth flow, and the permission-guarded staff surface.
func Register(e *echo.Echo, d Deps) {
	e.GET("/healthz", d.Health.Check)

	// Public surface.  Menu and table layout are nearly static, so they
	// sit behind the Redis response cache when one is configured.
	browse := e.Group("/v1")
	if d.RDB != nil {
		browse.Use(middleware.NewRedisCache(config.LoadCacheConfig(), d.RDB))
	}
	browse.GET("/menu", d.Catalog.Menu)
	browse.GET("/tables", d.Catalog.Tables)

	// The anonymous booking endpoint is the abuse target, so the token
	// bucket guards it alone; authenticated staff traffic is not limited.
	if d.RDB != nil {
		e.POST("/v1/bookings", d.Reservations.Book,
			middleware.NewTokenBucket(config.LoadRateLimitConfig(), d.RDB))
	} else {
		e.POST("/v1/bookings", d.Reservations.Book)
	}

	// Auth flow.  Logout parses its own bearer header, so none of these
	// carry the JWT middleware.
	ag := e.Group("/v1/auth")
	ag.POST("/register", d.Auth.Register)
	ag.POST("/login", d.Auth.Login)
	ag.POST("/refresh", d.Auth.Refresh)
	ag.POST("/logout", d.Auth.Logout)

	me := e.Group("/v1")
	me.Use(middleware.JWTAuth(d.Cfg.JWTSecret))
	me.GET("/me", d.Auth.Me)

	// Staff surface: one group per permission.
	reservations := e.Group("/v1/reservations",
		middleware.JWTAuth(d.Cfg.JWTSecret),
		middleware.RequirePermission(auth.PermManageReservations))
	reservations.GET("", d.Reservations.List)
	reservations.POST("", d.Reservations.Create)
	reservations.GET("/:id", d.Reservations.Get)
	reservations.PATCH("/:id", d.Reservations.Update)
	reservations.PATCH("/:id/status", d.Reservations.UpdateStatus)

	orders := e.Group("/v1/reservations/:id/seats",
		middleware.JWTAuth(d.Cfg.JWTSecret),
		middleware.RequirePermission(auth.PermAssignOrders))
	orders.POST("/:seat/orders", d.Orders.Append)

	floor := e.Group("/v1/floor",
		middleware.JWTAuth(d.Cfg.JWTSecret),
		middleware.RequirePermission(auth.PermViewFloor))
	floor.GET("", d.Orders.Floor)

	billing := e.Group("/v1/billing",
		middleware.JWTAuth(d.Cfg.JWTSecret),
		middleware.RequirePermission(auth.PermGenerateInvoices))
	billing.GET("/reservations", d.Billing.Billable)
	billing.GET("/reservations/:id/invoice", d.Billing.Invoice)

	admin := e.Group("/v1/admin",
		middleware.JWTAuth(d.Cfg.JWTSecret),
		middleware.RequirePermission(auth.PermManageUsers))
	admin.GET("/users", d.Users.List)
	admin.POST("/users", d.Users.Create)
	admin.PATCH("/users/:id", d.Users.Update)
	admin.DELETE("/users/:id", d.Users.Delete)

	catalog := e.Group("/v1/admin/products",
		middleware.JWTAuth(d.Cfg.JWTSecret),
		middleware.RequirePermission(auth.PermManageCatalog))
	catalog.POST("", d.Catalog.CreateProduct)
}
