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

type applyDoctorRequest struct {
	FirstName          string    `json:"first_name"`
	LastName           string    `json:"last_name"`
	Email              string    `json:"email"`
	PhoneNumber        string    `json:"phone_number"`
	Website            string    `json:"website"`
	Address            string    `json:"address"`
	Specialization     string    `json:"specialization"`
	Experience         string    `json:"experience"`
	FeePerConsultation float64   `json:"fee_per_consultation"`
	Timings            [2]string `json:"timings"`
}

func (h *Handler) ApplyDoctor(c echo.Context) error {
	ctx := c.Request().Context()

	var req applyDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.FirstName == "" || req.LastName == "" || req.Email == "" ||
		req.PhoneNumber == "" || req.Address == "" || req.Specialization == "" ||
		req.Experience == "" || req.FeePerConsultation <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "all profile fields required")
	}
	// timings must parse; open-before-close is assumed, not enforced
	for _, t := range req.Timings {
		if _, err := schedule.ParseClock(t); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	}

	u, err := h.store.UserByID(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return err
	}
	if u.Role == model.RoleDoctor {
		return echo.NewHTTPError(http.StatusConflict, "you are already a doctor")
	}
	if _, err := h.store.DoctorByUserID(ctx, u.ID); err == nil {
		return echo.NewHTTPError(http.StatusConflict, "you have already applied for a doctor")
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	d := &model.Doctor{
		ID:                 uuid.New().String(),
		UserID:             u.ID,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Email:              req.Email,
		PhoneNumber:        req.PhoneNumber,
		Website:            req.Website,
		Address:            req.Address,
		Specialization:     req.Specialization,
		Experience:         req.Experience,
		FeePerConsultation: req.FeePerConsultation,
		OpenTime:           req.Timings[0],
		CloseTime:          req.Timings[1],
		Status:             model.DoctorPending,
	}
	if err := h.store.CreateDoctor(ctx, d); err != nil {
		return err
	}

	adminID, err := h.notifier.AdminID(ctx)
	if err != nil {
		return err
	}
	if err := h.notifier.Apply(ctx, notify.DoctorApplied(adminID, d)); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"message": "Apply request has been sent successfully. Please wait for admin approval.",
	})
}

func (h *Handler) ListDoctors(c echo.Context) error {
	ds, err := h.store.ListDoctors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"doctors": toDoctorList(ds)})
}

func (h *Handler) ListApprovedDoctors(c echo.Context) error {
	ds, err := h.store.ListDoctorsByStatus(c.Request().Context(), model.DoctorApproved)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"doctors": toDoctorList(ds)})
}

// loadOwnedDoctor fetches the doctor and enforces admin-or-owner access.
func (h *Handler) loadOwnedDoctor(c echo.Context) (*model.Doctor, error) {
	d, err := h.store.DoctorByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return nil, err
	}
	if middleware.Role(c) != model.RoleAdmin && d.UserID != middleware.UserID(c) {
		return nil, echo.NewHTTPError(http.StatusForbidden, "not your profile")
	}
	return d, nil
}

func (h *Handler) GetDoctor(c echo.Context) error {
	d, err := h.loadOwnedDoctor(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"doctor": toDoctorJSON(d)})
}

type updateDoctorRequest struct {
	FirstName          *string    `json:"first_name"`
	LastName           *string    `json:"last_name"`
	Email              *string    `json:"email"`
	PhoneNumber        *string    `json:"phone_number"`
	Website            *string    `json:"website"`
	Address            *string    `json:"address"`
	Specialization     *string    `json:"specialization"`
	Experience         *string    `json:"experience"`
	FeePerConsultation *float64   `json:"fee_per_consultation"`
	Timings            *[2]string `json:"timings"`
}

func (h *Handler) UpdateDoctorProfile(c echo.Context) error {
	d, err := h.loadOwnedDoctor(c)
	if err != nil {
		return err
	}

	var req updateDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.FirstName != nil {
		d.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		d.LastName = *req.LastName
	}
	if req.Email != nil {
		d.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		d.PhoneNumber = *req.PhoneNumber
	}
	if req.Website != nil {
		d.Website = *req.Website
	}
	if req.Address != nil {
		d.Address = *req.Address
	}
	if req.Specialization != nil {
		d.Specialization = *req.Specialization
	}
	if req.Experience != nil {
		d.Experience = *req.Experience
	}
	if req.FeePerConsultation != nil {
		d.FeePerConsultation = *req.FeePerConsultation
	}
	if req.Timings != nil {
		for _, t := range req.Timings {
			if _, err := schedule.ParseClock(t); err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
		}
		d.OpenTime = req.Timings[0]
		d.CloseTime = req.Timings[1]
	}

	if err := h.store.UpdateDoctorProfile(c.Request().Context(), d); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"doctor": toDoctorJSON(d)})
}

type updateDoctorStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateDoctorStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req updateDoctorStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}
	if req.Status != model.DoctorApproved && req.Status != model.DoctorRejected {
		return echo.NewHTTPError(http.StatusBadRequest, "status must be approved or rejected")
	}

	d, err := h.store.DoctorByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "doctor not found")
		}
		return err
	}
	if d.Status != model.DoctorPending {
		return echo.NewHTTPError(http.StatusConflict, "application already "+d.Status)
	}

	u, err := h.store.UserByID(ctx, d.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return err
	}

	// sequential best-effort saves: doctor, then user role, then inboxes
	if err := h.store.UpdateDoctorStatus(ctx, d.ID, req.Status); err != nil {
		return err
	}
	d.Status = req.Status

	if req.Status == model.DoctorApproved {
		if err := h.store.UpdateUserRole(ctx, u.ID, model.RoleDoctor); err != nil {
			return err
		}
	}

	adminID, err := h.notifier.AdminID(ctx)
	if err != nil {
		return err
	}
	if err := h.notifier.Apply(ctx, notify.DoctorStatusChanged(u.ID, adminID, d, req.Status)); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Doctor state has been updated",
		"doctor":  toDoctorJSON(d),
	})
}

func (h *Handler) DoctorAppointments(c echo.Context) error {
	d, err := h.loadOwnedDoctor(c)
	if err != nil {
		return err
	}
	as, err := h.store.AppointmentsByDoctor(c.Request().Context(), d.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"appointments": toAppointmentList(as)})
}
