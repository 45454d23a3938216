package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/blog-platform/internal/config"
	"github.com/iliyamo/blog-platform/internal/model"
	"github.com/iliyamo/blog-platform/internal/repository"
	"github.com/iliyamo/blog-platform/internal/utils"
)

// ProfileHandler bundles dependencies for profile endpoints.
type ProfileHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewProfileHandler(cfg config.Config, users UserStore) *ProfileHandler {
	if users == nil {
		panic("nil user store passed to NewProfileHandler")
	}
	return &ProfileHandler{Cfg: cfg, Users: users}
}

type profileReq struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Avatar          string `json:"avatar"`
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Get handles GET /profile behind the strict guard.
func (h *ProfileHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required", "reason": "none"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile fetched successfully",
		"user":    toUserPart(u),
	})
}

// Update handles PUT /profile behind the strict guard.  Name and email are
// required; an email change is checked for uniqueness first.  A password
// change additionally requires re-verifying the current password before
// the new one is accepted.
func (h *ProfileHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required", "reason": "none"})
	}

	var req profileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Avatar = strings.TrimSpace(req.Avatar)

	if req.Name == "" || req.Email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and email are required"})
	}
	if req.Avatar != "" && !model.ValidAvatar(req.Avatar) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid avatar selection"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u, err := h.Users.GetByID(ctx, uid)
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if req.Email != u.Email {
		taken, err := h.Users.EmailTaken(ctx, req.Email, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if taken {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
	}

	if req.NewPassword != "" {
		if req.CurrentPassword == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "current password is required to change password"})
		}
		if !utils.VerifyPassword(u.PasswordHash, req.CurrentPassword) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "current password is incorrect"})
		}
		if len(req.NewPassword) < minPasswordLen {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "new password must be at least 6 characters"})
		}
		hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
		}
		u.PasswordHash = hash
	}

	u.Name = req.Name
	u.Email = req.Email
	if req.Avatar != "" {
		u.Avatar = req.Avatar
	}

	if err := h.Users.Update(ctx, u); err != nil {
		if err == repository.ErrEmailExists {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already in use"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "profile updated successfully",
		"user":    toUserPart(u),
	})
}
