package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lromero/restaurant-reservation/internal/config"
	"github.com/lromero/restaurant-reservation/internal/database"
	"github.com/lromero/restaurant-reservation/internal/model"
	"github.com/lromero/restaurant-reservation/internal/repository"
)

// reservationTestRepo connects to the MySQL instance named by TEST_DB_*
// variables, skipping when they are unset so the suite stays runnable
// without a database.
func reservationTestRepo(t *testing.T) *repository.ReservationRepo {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set; skipping database test")
	}
	db, err := database.Open(
		os.Getenv("TEST_DB_USER"), os.Getenv("TEST_DB_PASS"),
		host, os.Getenv("TEST_DB_PORT"), os.Getenv("TEST_DB_NAME"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Bootstrap(ctx, db); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	return repository.NewReservationRepo(db)
}

// Editing a reservation must emit the same kind of notification as
// creating one, so the customer hears about the new time.
func TestUpdateEmitsNotification(t *testing.T) {
	repo := reservationTestRepo(t)

	var gotKinds []string
	var gotIDs []uint64
	orig := notify
	notify = func(res *model.Reservation, kind string) {
		gotKinds = append(gotKinds, kind)
		gotIDs = append(gotIDs, res.ID)
	}
	t.Cleanup(func() { notify = orig })

	ctx := context.Background()
	tx, err := repo.DB().BeginTx(ctx, nil)
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	table := uint32(1)
	// A date of its own keeps this test clear of slots other tests book.
	date := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	res := &model.Reservation{
		CustomerName: "Ana",
		ContactEmail: "ana@example.com",
		Date:         date,
		Hour:         12,
		TableNumber:  &table,
		PartySize:    2,
		Status:       model.StatusConfirmed,
	}
	if err := repo.CreateTx(ctx, tx, res); err != nil {
		_ = tx.Rollback()
		t.Fatalf("create: %v", err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	h := NewReservationHandler(config.Config{OpenHour: 8, CloseHour: 23}, repo)

	body := fmt.Sprintf(
		`{"customer_name":"Ana","contact_email":"ana@example.com","date":%q,"time":"13:00","table_number":1,"party_size":2}`,
		date)
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/reservations/:id")
	c.SetParamNames("id")
	c.SetParamValues(strconv.FormatUint(res.ID, 10))

	if err := h.Update(c); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(gotKinds) != 1 || gotKinds[0] != "updated" {
		t.Fatalf("notifications = %v, want exactly one %q event", gotKinds, "updated")
	}
	if gotIDs[0] != res.ID {
		t.Errorf("notified reservation %d, want %d", gotIDs[0], res.ID)
	}
}
