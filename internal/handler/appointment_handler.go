package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"doctor-booking-api/internal/middleware"
	"doctor-booking-api/internal/model"
	"doctor-booking-api/internal/notify"
	"doctor-booking-api/internal/schedule"
	"doctor-booking-api/internal/store"
)

type bookAppointmentRequest struct {
	DoctorID string `json:"doctor_id"`
	Date     string `json:"date"`
	Time     string `json:"time"`
}

func (h *Handler) BookAppointment(c echo.Context) error {
	ctx := c.Request().Context()

	var req bookAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.DoctorID == "" || req.Date == "" || req.Time == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "doctor_id, date and time required")
	}

	d, err := h.store.DoctorByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return err
	}
	patient, err := h.store.UserByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return err
	}

	// same rule the advisory endpoint runs; booking re-checks even when the
	// client skipped the pre-flight call
	res, err := h.checkSlot(c, d, req.Date, req.Time)
	if err != nil {
		return err
	}
	if !res.Available {
		return echo.NewHTTPError(http.StatusConflict, res.Reason)
	}

	date, _ := schedule.ParseDate(req.Date)
	clock, _ := schedule.ParseClock(req.Time)

	a := &model.Appointment{
		ID:       uuid.New().String(),
		UserID:   patient.ID,
		DoctorID: d.ID,
		Date:     date,
		Time:     clock.Anchored(),
		Status:   model.AppointmentPending,
	}
	if err := h.store.CreateAppointment(ctx, a); err != nil {
		return err
	}

	adminID, err := h.notifier.AdminID(ctx)
	if err != nil {
		return err
	}
	if err := h.notifier.Apply(ctx, notify.AppointmentBooked(d.UserID, adminID, a, d, patient)); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"message":     "Appointment booked successfully",
		"appointment": toAppointmentJSON(a),
	})
}

func (h *Handler) CheckAvailability(c echo.Context) error {
	doctorID := c.QueryParam("doctor_id")
	date := c.QueryParam("date")
	at := c.QueryParam("time")
	if doctorID == "" || date == "" || at == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "doctor_id, date and time required")
	}

	d, err := h.store.DoctorByID(c.Request().Context(), doctorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return err
	}

	res, err := h.checkSlot(c, d, date, at)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"available": res.Available,
		"reason":    res.Reason,
	})
}

// checkSlot is the single call site for the availability rule; malformed
// inputs surface as validation errors.
func (h *Handler) checkSlot(c echo.Context, d *model.Doctor, date, at string) (schedule.Result, error) {
	res, err := schedule.CheckAvailability(c.Request().Context(), h.store, d, date, at)
	if err != nil {
		if errors.Is(err, schedule.ErrMalformedClock) || errors.Is(err, schedule.ErrMalformedDate) {
			return schedule.Result{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return schedule.Result{}, err
	}
	return res, nil
}

type updateAppointmentStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateAppointmentStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req updateAppointmentStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Status != model.AppointmentConfirmed && req.Status != model.AppointmentCancelled {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be confirmed or cancelled")
	}

	d, err := h.store.DoctorByUserID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor profile not found")
		}
		return err
	}

	// lookup already filters by doctor, so foreign appointments read as absent
	a, err := h.store.AppointmentForDoctor(ctx, c.Param("id"), d.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "appointment not found")
		}
		return err
	}
	// second explicit ownership check
	if a.DoctorID != d.ID {
		return echo.NewHTTPError(http.StatusForbidden, "not your appointment")
	}
	if a.Status != model.AppointmentPending {
		return echo.NewHTTPError(http.StatusConflict, "appointment already "+a.Status)
	}

	if err := h.store.UpdateAppointmentStatus(ctx, a.ID, req.Status); err != nil {
		return err
	}
	a.Status = req.Status

	patient, err := h.store.UserByID(ctx, a.UserID)
	if err != nil {
		return err
	}
	adminID, err := h.notifier.AdminID(ctx)
	if err != nil {
		return err
	}
	if err := h.notifier.Apply(ctx, notify.AppointmentStatusChanged(patient.ID, adminID, a, d, patient, req.Status)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message":     "Appointment status has been updated",
		"appointment": toAppointmentJSON(a),
	})
}
