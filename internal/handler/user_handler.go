package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"doctor-booking-api/internal/middleware"
	"doctor-booking-api/internal/model"
	"doctor-booking-api/internal/store"
)

func (h *Handler) ListUsers(c echo.Context) error {
	us, err := h.store.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	out := make([]userJSON, len(us))
	for i := range us {
		out[i] = toUserJSON(&us[i])
	}
	return c.JSON(http.StatusOK, map[string]any{"users": out})
}

func (h *Handler) MyAppointments(c echo.Context) error {
	as, err := h.store.AppointmentsByUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"appointments": toAppointmentList(as)})
}

func (h *Handler) SeenNotifications(c echo.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"seen_notifications": emptied(u.SeenNotifications),
	})
}

func (h *Handler) UnseenNotifications(c echo.Context) error {
	u, err := h.currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"unseen_notifications": emptied(u.UnseenNotifications),
	})
}

func (h *Handler) MarkAllNotificationsSeen(c echo.Context) error {
	u, err := h.store.MarkAllNotificationsSeen(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message":              "All notifications have been seen",
		"seen_notifications":   emptied(u.SeenNotifications),
		"unseen_notifications": emptied(u.UnseenNotifications),
	})
}

func (h *Handler) ClearNotifications(c echo.Context) error {
	if err := h.store.ClearNotifications(c.Request().Context(), middleware.UserID(c)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "All notifications have been removed",
	})
}

func (h *Handler) currentUser(c echo.Context) (*model.User, error) {
	u, err := h.store.UserByID(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return nil, err
	}
	return u, nil
}
