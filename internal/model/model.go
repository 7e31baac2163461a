package model

import (
	"encoding/json"
	"time"
)

const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

const (
	DoctorPending  = "pending"
	DoctorApproved = "approved"
	DoctorRejected = "rejected"
)

const (
	AppointmentPending   = "pending"
	AppointmentConfirmed = "confirmed"
	AppointmentCancelled = "cancelled"
)

type User struct {
	ID                  string
	Name                string
	Email               string
	PasswordHash        string
	Role                string
	SeenNotifications   []Notification
	UnseenNotifications []Notification
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

type Doctor struct {
	ID                 string
	UserID             string
	FirstName          string
	LastName           string
	Email              string
	PhoneNumber        string
	Website            string
	Address            string
	Specialization     string
	Experience         string
	FeePerConsultation float64
	// working hours as "HH:mm" wall-clock strings, open before close
	OpenTime  string
	CloseTime string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Appointment keeps date and time on independent axes: Date is midnight UTC
// of the calendar day, Time is the time of day anchored to 1970-01-01 UTC.
type Appointment struct {
	ID        string
	UserID    string
	DoctorID  string
	Date      time.Time
	Time      time.Time
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Notification is immutable once appended to an inbox. Data carries the
// event payload, tagged by Type.
type Notification struct {
	Type    string          `json:"type"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Path    *string         `json:"path"`
}
