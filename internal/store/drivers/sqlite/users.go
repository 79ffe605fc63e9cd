package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/resumeforge/resumeforge/internal/domain"
	"github.com/resumeforge/resumeforge/internal/store"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, name, email, password_hash, is_email_verified,
	email_verification_otp, email_verification_expires,
	password_reset_otp, password_reset_expires,
	resume_data, created_at, updated_at`

func (r *usersRepo) scanUser(row *sql.Row) (domain.User, error) {
	var (
		u           domain.User
		verifyOTP   sql.NullString
		verifyExp   sql.NullTime
		resetOTP    sql.NullString
		resetExp    sql.NullTime
		resumeData  []byte
		verifiedInt int
	)
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &verifiedInt,
		&verifyOTP, &verifyExp,
		&resetOTP, &resetExp,
		&resumeData, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	u.IsEmailVerified = verifiedInt != 0
	u.EmailVerificationOTP = mapNullString(verifyOTP)
	u.EmailVerificationExpires = mapNullTime(verifyExp)
	u.PasswordResetOTP = mapNullString(resetOTP)
	u.PasswordResetExpires = mapNullTime(resetExp)
	u.ResumeData = resumeData
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, boolToInt(u.IsEmailVerified),
		mapOptionalString(u.EmailVerificationOTP), mapOptionalTime(u.EmailVerificationExpires),
		mapOptionalString(u.PasswordResetOTP), mapOptionalTime(u.PasswordResetExpires),
		u.ResumeData, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id))
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`, email))
}

func (r *usersRepo) SetEmailVerificationOTP(ctx context.Context, userID, code string, expires time.Time) error {
	return r.exec(ctx, `
		UPDATE users
		SET email_verification_otp = ?, email_verification_expires = ?, updated_at = ?
		WHERE id = ?`,
		code, expires, time.Now().UTC(), userID)
}

func (r *usersRepo) ConsumeEmailVerificationOTP(ctx context.Context, email, code string, now time.Time) error {
	// Single statement: match, verify, and clear the OTP pair atomically.
	return r.exec(ctx, `
		UPDATE users
		SET is_email_verified = 1,
		    email_verification_otp = NULL,
		    email_verification_expires = NULL,
		    updated_at = ?
		WHERE email = ?
		  AND email_verification_otp = ?
		  AND email_verification_expires > ?`,
		now, email, code, now)
}

func (r *usersRepo) SetPasswordResetOTP(ctx context.Context, userID, code string, expires time.Time) error {
	return r.exec(ctx, `
		UPDATE users
		SET password_reset_otp = ?, password_reset_expires = ?, updated_at = ?
		WHERE id = ?`,
		code, expires, time.Now().UTC(), userID)
}

func (r *usersRepo) ConsumePasswordResetOTP(ctx context.Context, email, code, newPasswordHash string, now time.Time) error {
	return r.exec(ctx, `
		UPDATE users
		SET password_hash = ?,
		    password_reset_otp = NULL,
		    password_reset_expires = NULL,
		    updated_at = ?
		WHERE email = ?
		  AND password_reset_otp = ?
		  AND password_reset_expires > ?`,
		newPasswordHash, now, email, code, now)
}

func (r *usersRepo) UpdateResumeData(ctx context.Context, userID string, data []byte) error {
	return r.exec(ctx, `
		UPDATE users SET resume_data = ?, updated_at = ? WHERE id = ?`,
		data, time.Now().UTC(), userID)
}

func (r *usersRepo) GetResumeData(ctx context.Context, userID string) ([]byte, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT resume_data FROM users WHERE id = ?`, userID).Scan(&data)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return data, nil
}

func (r *usersRepo) ClearExpiredOTPs(ctx context.Context, before time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email_verification_otp = NULL, email_verification_expires = NULL
		WHERE email_verification_expires IS NOT NULL AND email_verification_expires < ?`,
		before)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		UPDATE users
		SET password_reset_otp = NULL, password_reset_expires = NULL
		WHERE password_reset_expires IS NOT NULL AND password_reset_expires < ?`,
		before)
	return err
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// exec runs an UPDATE and maps "no rows touched" to ErrNotFound.
func (r *usersRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
