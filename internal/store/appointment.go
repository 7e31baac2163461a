package store

import (
	"context"
	"time"

	"doctor-booking-api/internal/model"
)

const appointmentCols = `id, user_id, doctor_id, date, time, status, created_at, updated_at`

func scanAppointment(row interface{ Scan(...any) error }) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := row.Scan(&a.ID, &a.UserID, &a.DoctorID, &a.Date, &a.Time,
		&a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO appointments (id, user_id, doctor_id, date, time, status)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.UserID, a.DoctorID, a.Date, a.Time, a.Status,
	)
	return err
}

func (s *Store) AppointmentByID(ctx context.Context, id string) (*model.Appointment, error) {
	return scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1`, id))
}

// AppointmentForDoctor loads an appointment only if it belongs to the doctor,
// so a foreign appointment id reads as absent.
func (s *Store) AppointmentForDoctor(ctx context.Context, id, doctorID string) (*model.Appointment, error) {
	return scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+appointmentCols+` FROM appointments WHERE id = $1 AND doctor_id = $2`,
		id, doctorID))
}

// HasConfirmedInWindow reports whether the doctor has a confirmed appointment
// on the day whose time falls inside [from, to], bounds inclusive.
func (s *Store) HasConfirmedInWindow(ctx context.Context, doctorID string, date, from, to time.Time) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM appointments
			WHERE doctor_id = $1
			  AND date = $2
			  AND status = 'confirmed'
			  AND time BETWEEN $3 AND $4)`,
		doctorID, date, from, to,
	).Scan(&exists)
	return exists, err
}

func (s *Store) listAppointments(ctx context.Context, q string, args ...any) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

func (s *Store) AppointmentsByDoctor(ctx context.Context, doctorID string) ([]model.Appointment, error) {
	return s.listAppointments(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE doctor_id = $1 ORDER BY date, time`, doctorID)
}

func (s *Store) AppointmentsByUser(ctx context.Context, userID string) ([]model.Appointment, error) {
	return s.listAppointments(ctx,
		`SELECT `+appointmentCols+` FROM appointments
		 WHERE user_id = $1 ORDER BY date, time`, userID)
}

func (s *Store) UpdateAppointmentStatus(ctx context.Context, id, status string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE appointments SET status = $1, updated_at = NOW() WHERE id = $2`, status, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
