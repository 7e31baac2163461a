// Package notify builds and delivers inbox notifications. Builders are pure:
// they return the list of append commands for a state transition, and the
// Notifier applies them as sequential best-effort writes.
package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"doctor-booking-api/internal/model"
)

const (
	TypeDoctorApplied        = "new-doctor-applied"
	TypeDoctorApproved       = "new-doctor-approved"
	TypeDoctorRejected       = "new-doctor-rejected"
	TypeAppointment          = "new-appointment"
	TypeAppointmentConfirmed = "new-appointment-confirmed"
	TypeAppointmentCancelled = "new-appointment-cancelled"
)

const adminDoctorsPath = "/admin/doctors"

// DoctorData is the payload for doctor lifecycle notifications.
type DoctorData struct {
	DoctorID   string `json:"doctorId"`
	DoctorName string `json:"doctorName"`
}

// AppointmentData is the payload for appointment lifecycle notifications.
type AppointmentData struct {
	AppointmentID string `json:"appointmentId"`
	DoctorName    string `json:"doctorName"`
	PatientName   string `json:"patientName"`
}

// Command is one inbox append, addressed to a user.
type Command struct {
	UserID string
	Note   model.Notification
}

// DoctorApplied notifies the admin of a new doctor application.
func DoctorApplied(adminID string, d *model.Doctor) []Command {
	return []Command{{
		UserID: adminID,
		Note: model.Notification{
			Type:    TypeDoctorApplied,
			Message: fmt.Sprintf("Mr/Mrs %s has applied for a doctor", d.LastName),
			Data:    mustJSON(doctorData(d)),
			Path:    ptr(adminDoctorsPath),
		},
	}}
}

// DoctorStatusChanged notifies the applicant and mirrors to the admin.
// status is "approved" or "rejected".
func DoctorStatusChanged(ownerUserID, adminID string, d *model.Doctor, status string) []Command {
	typ := TypeDoctorRejected
	if status == model.DoctorApproved {
		typ = TypeDoctorApproved
	}
	data := mustJSON(doctorData(d))
	return []Command{
		{
			UserID: ownerUserID,
			Note: model.Notification{
				Type:    typ,
				Message: fmt.Sprintf("Your Apply Request has been %s", status),
				Data:    data,
				Path:    nil,
			},
		},
		{
			UserID: adminID,
			Note: model.Notification{
				Type:    typ,
				Message: fmt.Sprintf("Mr/Mrs %s has been %s", d.LastName, status),
				Data:    data,
				Path:    ptr(adminDoctorsPath),
			},
		},
	}
}

// AppointmentBooked notifies the doctor's owning user of a new pending
// appointment and mirrors to the admin.
func AppointmentBooked(doctorUserID, adminID string, a *model.Appointment, d *model.Doctor, patient *model.User) []Command {
	data := mustJSON(appointmentData(a, d, patient))
	msg := fmt.Sprintf("A new appointment request has been made by %s", patient.Name)
	return []Command{
		{
			UserID: doctorUserID,
			Note: model.Notification{
				Type:    TypeAppointment,
				Message: msg,
				Data:    data,
				Path:    ptr("/doctor/appointments"),
			},
		},
		{
			UserID: adminID,
			Note: model.Notification{
				Type:    TypeAppointment,
				Message: msg,
				Data:    data,
				Path:    ptr(adminDoctorsPath),
			},
		},
	}
}

// AppointmentStatusChanged notifies the patient and mirrors to the admin.
// status is "confirmed" or "cancelled".
func AppointmentStatusChanged(patientUserID, adminID string, a *model.Appointment, d *model.Doctor, patient *model.User, status string) []Command {
	typ := TypeAppointmentCancelled
	if status == model.AppointmentConfirmed {
		typ = TypeAppointmentConfirmed
	}
	data := mustJSON(appointmentData(a, d, patient))
	return []Command{
		{
			UserID: patientUserID,
			Note: model.Notification{
				Type:    typ,
				Message: fmt.Sprintf("Your appointment has been %s", status),
				Data:    data,
				Path:    ptr("/appointments"),
			},
		},
		{
			UserID: adminID,
			Note: model.Notification{
				Type:    typ,
				Message: fmt.Sprintf("Appointment with Dr %s has been %s", d.LastName, status),
				Data:    data,
				Path:    ptr(adminDoctorsPath),
			},
		},
	}
}

// Appender is the slice of the user store the notifier writes through.
type Appender interface {
	AppendNotification(ctx context.Context, userID string, n model.Notification) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
}

// Notifier resolves the admin inbox by configured email and applies command
// lists. One admin user is expected to exist.
type Notifier struct {
	store      Appender
	adminEmail string
}

func New(store Appender, adminEmail string) *Notifier {
	return &Notifier{store: store, adminEmail: adminEmail}
}

// AdminID resolves the configured admin user.
func (n *Notifier) AdminID(ctx context.Context) (string, error) {
	admin, err := n.store.UserByEmail(ctx, n.adminEmail)
	if err != nil {
		return "", fmt.Errorf("admin user %q: %w", n.adminEmail, err)
	}
	return admin.ID, nil
}

// Apply performs the appends in order. Writes are sequential without a
// wrapping transaction; a failure part-way leaves earlier appends in place.
func (n *Notifier) Apply(ctx context.Context, cmds []Command) error {
	for _, c := range cmds {
		if err := n.store.AppendNotification(ctx, c.UserID, c.Note); err != nil {
			return fmt.Errorf("notify user %s: %w", c.UserID, err)
		}
	}
	return nil
}

func doctorData(d *model.Doctor) DoctorData {
	return DoctorData{
		DoctorID:   d.ID,
		DoctorName: d.FirstName + " " + d.LastName,
	}
}

func appointmentData(a *model.Appointment, d *model.Doctor, patient *model.User) AppointmentData {
	return AppointmentData{
		AppointmentID: a.ID,
		DoctorName:    d.FirstName + " " + d.LastName,
		PatientName:   patient.Name,
	}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func ptr(s string) *string { return &s }
