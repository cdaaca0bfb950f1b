package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/lromero/restaurant-reservation/internal/config"
	"github.com/lromero/restaurant-reservation/internal/database"
	"github.com/lromero/restaurant-reservation/internal/handler"
	"github.com/lromero/restaurant-reservation/internal/queue"
	"github.com/lromero/restaurant-reservation/internal/repository"
	"github.com/lromero/restaurant-reservation/internal/router"
)

func main() {
	// .env is optional; in containers the variables come from the runtime.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Bootstrap(ctx, db); err != nil {
		cancel()
		log.Fatalf("database bootstrap: %v", err)
	}
	cancel()

	// Redis is optional: when unreachable the client is nil and the rate
	// limiter and response cache are simply not mounted.
	rdb := config.NewRedisClient()

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	tables := repository.NewTableRepo(db)
	products := repository.NewProductRepo(db)
	reservations := repository.NewReservationRepo(db)

	deps := router.Deps{
		Cfg:          cfg,
		RDB:          rdb,
		Health:       handler.NewHealthHandler(db),
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Reservations: handler.NewReservationHandler(cfg, reservations),
		Orders:       handler.NewOrderHandler(reservations, products),
		Billing:      handler.NewBillingHandler(reservations),
		Catalog:      handler.NewCatalogHandler(products, tables),
		Users:        handler.NewUserHandler(cfg, users, tokens),
	}

	e := echo.New()
	router.Register(e, deps)

	// Notification worker keeps its own connection and reconnect loop.
	go func() {
		if err := queue.StartNotificationConsumer(); err != nil {
			log.Printf("notification consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
