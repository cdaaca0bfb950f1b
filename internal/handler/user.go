package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/lromero/restaurant-reservation/internal/auth"
	"github.com/lromero/restaurant-reservation/internal/config"
	"github.com/lromero/restaurant-reservation/internal/model"
	"github.com/lromero/restaurant-reservation/internal/repository"
)

// UserHandler is the admin surface for account management: listing
// accounts, granting staff roles, toggling activation and deleting
// accounts.
type UserHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: u, Tokens: t}
}

type adminUserResp struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func toAdminResp(u model.User) adminUserResp {
	return adminUserResp{ID: u.ID, Email: u.Email, Role: u.Role, IsActive: u.IsActive, CreatedAt: u.CreatedAt}
}

// List returns every account.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list failed"})
	}
	out := make([]adminUserResp, 0, len(users))
	for _, u := range users {
		out = append(out, toAdminResp(u))
	}
	return c.JSON(http.StatusOK, echo.Map{"users": out})
}

type adminCreateReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Create provisions an account with an explicit role, which is how staff
// accounts come into existence.
func (h *UserHandler) Create(c echo.Context) error {
	var req adminCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}
	if !auth.KnownRole(req.Role) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, req.Password, req.Role, h.Cfg.BcryptCost)
	if err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, adminUserResp{ID: uid, Email: req.Email, Role: req.Role, IsActive: true, CreatedAt: time.Now().UTC()})
}

type adminUpdateReq struct {
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// Update changes an account's role and activation flag.  Deactivating an
// account also revokes its refresh tokens so the lockout takes effect at
// the next access-token expiry rather than at the next login.
func (h *UserHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req adminUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	current, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	role := current.Role
	if strings.TrimSpace(req.Role) != "" {
		role = strings.ToLower(strings.TrimSpace(req.Role))
		if !auth.KnownRole(role) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
		}
	}
	active := current.IsActive
	if req.IsActive != nil {
		active = *req.IsActive
	}

	// An admin cannot lock themselves out.
	if callerID, err := getUserID(c); err == nil && callerID == id && !active {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot deactivate own account"})
	}

	wasActive, err := h.Users.UpdateProfile(ctx, id, role, active)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if wasActive && !active {
		_ = h.Tokens.RevokeAllForUser(ctx, id)
	}
	return c.JSON(http.StatusOK, adminUserResp{ID: id, Email: current.Email, Role: role, IsActive: active, CreatedAt: current.CreatedAt})
}

// Delete removes an account and its refresh tokens.
func (h *UserHandler) Delete(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if callerID, err := getUserID(c); err == nil && callerID == id {
		return c.JSON(http.StatusConflict, echo.Map{"error": "cannot delete own account"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	_ = h.Tokens.RevokeAllForUser(ctx, id)
	if err := h.Users.Delete(ctx, id); err != nil {
		if err == repository.ErrUserNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
