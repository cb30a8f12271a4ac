package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/nish-jain4/qr-code-generator/internal/domain/model"
	"github.com/nish-jain4/qr-code-generator/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.UserStore = (*UserRepo)(nil)

// UserRepo is the SQLite implementation of the UserStore port interface.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Upsert inserts the user or replaces the existing row with the same email,
// including the stored credential image. Re-registration is defined behavior:
// the new registration's values and image win.
func (r *UserRepo) Upsert(ctx context.Context, user model.User) error {
	const query = `
		INSERT INTO users (name, email, phone, device_id, payment_method, upi_id, last_login, qr_png)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			device_id = excluded.device_id,
			payment_method = excluded.payment_method,
			upi_id = excluded.upi_id,
			last_login = excluded.last_login,
			qr_png = excluded.qr_png
	`

	lastLogin := user.LastLogin
	if lastLogin.IsZero() {
		lastLogin = time.Now().UTC()
	}

	_, err := r.db.Writer.ExecContext(ctx, query,
		user.Name, user.Email, user.Phone, user.DeviceID,
		user.PaymentMethod, user.UPIID,
		lastLogin.UTC().Format(time.RFC3339), user.QRPNG,
	)
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", user.Email, err)
	}

	return nil
}

// FindByEmail retrieves a user by email, including the stored image.
// Returns nil, nil if no user exists with that email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const query = `
		SELECT id, name, email, phone, device_id, payment_method, upi_id, last_login, qr_png
		FROM users
		WHERE email = ?
	`

	var (
		user      model.User
		lastLogin string
	)
	err := r.db.Reader.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Phone, &user.DeviceID,
		&user.PaymentMethod, &user.UPIID, &lastLogin, &user.QRPNG,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %s: %w", email, err)
	}

	user.LastLogin, err = parseTime(lastLogin)
	if err != nil {
		return nil, fmt.Errorf("parse last_login for user %s: %w", email, err)
	}

	return &user, nil
}

// ListAll returns summaries of every registered user ordered by id. The
// qr_png column is deliberately not selected to keep bulk listing cheap.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.UserSummary, error) {
	const query = `
		SELECT id, name, email, phone, last_login
		FROM users
		ORDER BY id
	`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []model.UserSummary
	for rows.Next() {
		var (
			u         model.UserSummary
			lastLogin string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &lastLogin); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}

		u.LastLogin, err = parseTime(lastLogin)
		if err != nil {
			return nil, fmt.Errorf("parse last_login for user %s: %w", u.Email, err)
		}

		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// GetImage retrieves only the stored credential PNG for the given email.
// Returns nil, nil if no user exists with that email.
func (r *UserRepo) GetImage(ctx context.Context, email string) ([]byte, error) {
	const query = `SELECT qr_png FROM users WHERE email = ?`

	var png []byte
	err := r.db.Reader.QueryRowContext(ctx, query, email).Scan(&png)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get image for user %s: %w", email, err)
	}

	return png, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
		time.RFC3339,
		time.RFC3339Nano,
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
