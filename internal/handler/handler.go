package handler

import (
	"github.com/labstack/echo/v4"

	"doctor-booking-api/internal/middleware"
	"doctor-booking-api/internal/model"
	"doctor-booking-api/internal/notify"
	"doctor-booking-api/internal/store"
)

type Handler struct {
	store    *store.Store
	notifier *notify.Notifier
	secret   string
}

func New(st *store.Store, n *notify.Notifier, secret string) *Handler {
	return &Handler{store: st, notifier: n, secret: secret}
}

// Register mounts the REST surface under /api/v1.
func (h *Handler) Register(e *echo.Echo, rl *middleware.RateLimiter) {
	api := e.Group("/api/v1")

	pub := api.Group("/auth")
	pub.POST("/signup", h.Signup, middleware.RateLimit(rl))
	pub.POST("/signin", h.Signin, middleware.RateLimit(rl))
	pub.POST("/refresh", h.Refresh)

	authed := api.Group("", middleware.Auth(h.secret))
	authed.POST("/auth/logout", h.Logout)
	authed.GET("/auth/me", h.Me)

	authed.POST("/doctors/apply", h.ApplyDoctor)
	authed.GET("/doctors", h.ListDoctors, middleware.RequireRole(model.RoleAdmin))
	authed.GET("/doctors/approved", h.ListApprovedDoctors)
	authed.GET("/doctors/:id", h.GetDoctor)
	authed.PATCH("/doctors/:id", h.UpdateDoctorProfile)
	authed.PUT("/doctors/:id/status", h.UpdateDoctorStatus, middleware.RequireRole(model.RoleAdmin))
	authed.GET("/doctors/:id/appointments", h.DoctorAppointments)

	authed.POST("/appointments", h.BookAppointment)
	authed.GET("/appointments/availability", h.CheckAvailability)
	authed.PUT("/appointments/:id/status", h.UpdateAppointmentStatus)

	authed.GET("/users", h.ListUsers, middleware.RequireRole(model.RoleAdmin))
	authed.GET("/users/appointments", h.MyAppointments)
	authed.GET("/users/notifications/seen", h.SeenNotifications)
	authed.GET("/users/notifications/unseen", h.UnseenNotifications)
	authed.PUT("/users/notifications/seen", h.MarkAllNotificationsSeen)
	authed.DELETE("/users/notifications", h.ClearNotifications)
}
