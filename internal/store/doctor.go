package store

import (
	"context"

	"doctor-booking-api/internal/model"
)

const doctorCols = `id, user_id, first_name, last_name, email, phone_number, website,
		address, specialization, experience, fee_per_consultation,
		open_time, close_time, status, created_at, updated_at`

func scanDoctor(row interface{ Scan(...any) error }) (*model.Doctor, error) {
	d := &model.Doctor{}
	err := row.Scan(&d.ID, &d.UserID, &d.FirstName, &d.LastName, &d.Email, &d.PhoneNumber,
		&d.Website, &d.Address, &d.Specialization, &d.Experience, &d.FeePerConsultation,
		&d.OpenTime, &d.CloseTime, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return d, nil
}

func (s *Store) CreateDoctor(ctx context.Context, d *model.Doctor) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO doctors
		 (id, user_id, first_name, last_name, email, phone_number, website,
		  address, specialization, experience, fee_per_consultation,
		  open_time, close_time, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		d.ID, d.UserID, d.FirstName, d.LastName, d.Email, d.PhoneNumber, d.Website,
		d.Address, d.Specialization, d.Experience, d.FeePerConsultation,
		d.OpenTime, d.CloseTime, d.Status,
	)
	return err
}

func (s *Store) DoctorByID(ctx context.Context, id string) (*model.Doctor, error) {
	return scanDoctor(s.pool.QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
}

func (s *Store) DoctorByUserID(ctx context.Context, userID string) (*model.Doctor, error) {
	return scanDoctor(s.pool.QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE user_id = $1`, userID))
}

func (s *Store) listDoctors(ctx context.Context, q string, args ...any) ([]model.Doctor, error) {
	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (s *Store) ListDoctors(ctx context.Context) ([]model.Doctor, error) {
	return s.listDoctors(ctx,
		`SELECT `+doctorCols+` FROM doctors ORDER BY created_at`)
}

func (s *Store) ListDoctorsByStatus(ctx context.Context, status string) ([]model.Doctor, error) {
	return s.listDoctors(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE status = $1 ORDER BY created_at`, status)
}

// UpdateDoctorProfile patches the profile fields; status and ownership are
// untouched here.
func (s *Store) UpdateDoctorProfile(ctx context.Context, d *model.Doctor) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE doctors
		 SET first_name=$1, last_name=$2, email=$3, phone_number=$4, website=$5,
		     address=$6, specialization=$7, experience=$8, fee_per_consultation=$9,
		     open_time=$10, close_time=$11, updated_at=NOW()
		 WHERE id=$12`,
		d.FirstName, d.LastName, d.Email, d.PhoneNumber, d.Website,
		d.Address, d.Specialization, d.Experience, d.FeePerConsultation,
		d.OpenTime, d.CloseTime, d.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateDoctorStatus(ctx context.Context, id, status string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE doctors SET status = $1, updated_at = NOW() WHERE id = $2`, status, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
