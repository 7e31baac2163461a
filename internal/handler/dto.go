package handler

import (
	"time"

	"doctor-booking-api/internal/model"
)

// Wire shapes. Secrets never leave the store layer.

type userJSON struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Email               string               `json:"email"`
	Role                string               `json:"role"`
	SeenNotifications   []model.Notification `json:"seen_notifications"`
	UnseenNotifications []model.Notification `json:"unseen_notifications"`
	CreatedAt           time.Time            `json:"created_at"`
}

func toUserJSON(u *model.User) userJSON {
	return userJSON{
		ID:                  u.ID,
		Name:                u.Name,
		Email:               u.Email,
		Role:                u.Role,
		SeenNotifications:   emptied(u.SeenNotifications),
		UnseenNotifications: emptied(u.UnseenNotifications),
		CreatedAt:           u.CreatedAt,
	}
}

// emptied keeps inboxes as [] rather than null on the wire.
func emptied(ns []model.Notification) []model.Notification {
	if ns == nil {
		return []model.Notification{}
	}
	return ns
}

type doctorJSON struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
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
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
}

func toDoctorJSON(d *model.Doctor) doctorJSON {
	return doctorJSON{
		ID:                 d.ID,
		UserID:             d.UserID,
		FirstName:          d.FirstName,
		LastName:           d.LastName,
		Email:              d.Email,
		PhoneNumber:        d.PhoneNumber,
		Website:            d.Website,
		Address:            d.Address,
		Specialization:     d.Specialization,
		Experience:         d.Experience,
		FeePerConsultation: d.FeePerConsultation,
		Timings:            [2]string{d.OpenTime, d.CloseTime},
		Status:             d.Status,
		CreatedAt:          d.CreatedAt,
	}
}

func toDoctorList(ds []model.Doctor) []doctorJSON {
	out := make([]doctorJSON, len(ds))
	for i := range ds {
		out[i] = toDoctorJSON(&ds[i])
	}
	return out
}

type appointmentJSON struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	DoctorID  string    `json:"doctor_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toAppointmentJSON(a *model.Appointment) appointmentJSON {
	return appointmentJSON{
		ID:        a.ID,
		UserID:    a.UserID,
		DoctorID:  a.DoctorID,
		Date:      a.Date.UTC().Format("2006-01-02"),
		Time:      a.Time.UTC().Format("15:04"),
		Status:    a.Status,
		CreatedAt: a.CreatedAt,
	}
}

func toAppointmentList(as []model.Appointment) []appointmentJSON {
	out := make([]appointmentJSON, len(as))
	for i := range as {
		out[i] = toAppointmentJSON(&as[i])
	}
	return out
}
