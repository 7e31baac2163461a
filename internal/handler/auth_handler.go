package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"doctor-booking-api/internal/auth"
	"doctor-booking-api/internal/middleware"
	"doctor-booking-api/internal/model"
	"doctor-booking-api/internal/store"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	UserID       string `json:"user_id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "all fields required")
	}
	if len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "password too short")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.RolePatient,
	}

	if err := h.store.CreateUser(c.Request().Context(), u); err != nil {
		// unique violation = dup email, but don't reveal that
		return echo.NewHTTPError(http.StatusConflict, "registration failed")
	}

	resp, err := h.issueTokens(c, u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *Handler) Signin(c echo.Context) error {
	var req signinRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password required")
	}

	u, err := h.store.UserByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	resp, err := h.issueTokens(c, u)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resp)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *Handler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil || req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "refresh_token required")
	}
	ctx := c.Request().Context()

	rt, err := h.store.RefreshTokenByHash(ctx, auth.HashRefreshToken(req.RefreshToken))
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	if rt.Revoked || time.Now().After(rt.ExpiresAt) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	u, err := h.store.UserByID(ctx, rt.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}

	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return err
	}
	newID := uuid.New().String()
	if err := h.store.RotateRefreshToken(ctx, rt.ID, newID, u.ID, hash, time.Now().Add(refreshTokenTTL)); err != nil {
		return err
	}

	tok, err := auth.MakeToken(u.ID, u.Role, h.secret)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{
		UserID: u.ID, Name: u.Name, Role: u.Role, Token: tok, RefreshToken: raw,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	if err := h.store.RevokeAllRefreshTokens(c.Request().Context(), middleware.UserID(c)); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) Me(c echo.Context) error {
	u, err := h.store.UserByID(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, toUserJSON(u))
}

func (h *Handler) issueTokens(c echo.Context, u *model.User) (*tokenResponse, error) {
	tok, err := auth.MakeToken(u.ID, u.Role, h.secret)
	if err != nil {
		return nil, err
	}
	raw, hash, err := auth.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}
	if _, err := h.store.CreateRefreshToken(c.Request().Context(), u.ID, hash, time.Now().Add(refreshTokenTTL)); err != nil {
		return nil, err
	}
	return &tokenResponse{
		UserID: u.ID, Name: u.Name, Role: u.Role, Token: tok, RefreshToken: raw,
	}, nil
}
