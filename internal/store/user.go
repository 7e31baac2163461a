package store

import (
	"context"
	"encoding/json"

	"doctor-booking-api/internal/model"
)

const userCols = `id, name, email, password_hash, role,
		seen_notifications, unseen_notifications, created_at, updated_at`

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role) VALUES ($1,$2,$3,$4,$5)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Role,
	)
	return err
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.SeenNotifications, &u.UnseenNotifications, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *Store) UserByID(ctx context.Context, id string) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+userCols+` FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.SeenNotifications, &u.UnseenNotifications, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// ListUsers returns every user except admins.
func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+userCols+` FROM users WHERE role != $1 ORDER BY created_at`,
		model.RoleAdmin,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
			&u.SeenNotifications, &u.UnseenNotifications, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) UpdateUserRole(ctx context.Context, id, role string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, id,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AppendNotification pushes one entry onto the user's unseen inbox.
func (s *Store) AppendNotification(ctx context.Context, userID string, n model.Notification) error {
	b, err := json.Marshal([]model.Notification{n})
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE users SET unseen_notifications = unseen_notifications || $1::jsonb, updated_at = NOW()
		 WHERE id = $2`, b, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllNotificationsSeen moves the whole unseen inbox into seen, replacing
// seen's prior contents, and empties unseen. Idempotent: with nothing unseen
// the seen inbox is left alone rather than wiped.
func (s *Store) MarkAllNotificationsSeen(ctx context.Context, userID string) (*model.User, error) {
	u := &model.User{}
	err := s.pool.QueryRow(ctx,
		`UPDATE users
		 SET seen_notifications = CASE WHEN unseen_notifications = '[]'::jsonb
		                               THEN seen_notifications
		                               ELSE unseen_notifications END,
		     unseen_notifications = '[]'::jsonb,
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userCols, userID,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.SeenNotifications, &u.UnseenNotifications, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// ClearNotifications empties both inboxes unconditionally.
func (s *Store) ClearNotifications(ctx context.Context, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE users
		 SET seen_notifications = '[]'::jsonb, unseen_notifications = '[]'::jsonb, updated_at = NOW()
		 WHERE id = $1`, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
