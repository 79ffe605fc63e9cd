// Package store defines the data access interfaces. Concrete drivers live
// under drivers/ (sqlite is the default, mongo matches the original hosted
// deployment). No operation ever spans more than one record, so the
// interface deliberately has no transaction surface; drivers guarantee
// single-document atomicity instead.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/resumeforge/resumeforge/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface.
type Store interface {
	Users() Users
	Resumes() Resumes

	// ApplyMigrations brings the schema up to date. A no-op for schemaless
	// drivers.
	ApplyMigrations() error

	// Close releases underlying resources.
	Close() error

	// Ping verifies the backing database is reachable.
	Ping(ctx context.Context) error
}

type Users interface {
	// CreateUser inserts a new user (id provided by the app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	GetUserByID(ctx context.Context, id string) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// SetEmailVerificationOTP stores a pending verification code and its
	// expiry as a pair.
	SetEmailVerificationOTP(ctx context.Context, userID, code string, expires time.Time) error

	// ConsumeEmailVerificationOTP atomically matches a user by email plus a
	// non-expired verification code, marks the email verified, and clears
	// the code/expiry pair. Returns ErrNotFound when nothing matches; the
	// caller cannot tell a wrong code from an expired one, which is the
	// intended information-hiding behaviour.
	ConsumeEmailVerificationOTP(ctx context.Context, email, code string, now time.Time) error

	// SetPasswordResetOTP stores a pending reset code and expiry as a pair.
	SetPasswordResetOTP(ctx context.Context, userID, code string, expires time.Time) error

	// ConsumePasswordResetOTP atomically matches email plus a non-expired
	// reset code, replaces the password hash, and clears the code/expiry
	// pair. Returns ErrNotFound when nothing matches.
	ConsumePasswordResetOTP(ctx context.Context, email, code, newPasswordHash string, now time.Time) error

	// UpdateResumeData replaces the user's builder autosave document.
	UpdateResumeData(ctx context.Context, userID string, data []byte) error

	// GetResumeData returns the builder autosave document, nil if never
	// saved.
	GetResumeData(ctx context.Context, userID string) ([]byte, error)

	// ClearExpiredOTPs nulls out OTP pairs whose expiry passed before the
	// given cutoff. Housekeeping only; expiry is always enforced at
	// verification time regardless.
	ClearExpiredOTPs(ctx context.Context, before time.Time) error

	CountUsers(ctx context.Context) (int64, error)
}

type Resumes interface {
	CreateResume(ctx context.Context, r domain.Resume) error

	// GetResume fetches a resume owned by userID. ErrNotFound covers both a
	// missing id and an id owned by someone else.
	GetResume(ctx context.Context, id, userID string) (domain.Resume, error)

	// ListResumesByUser returns the caller's resumes newest-updated first,
	// without the section documents.
	ListResumesByUser(ctx context.Context, userID string) ([]domain.ResumeSummary, error)

	// UpdateResume persists title, data, and the derived fields, scoped to
	// the owner. ErrNotFound when no owned row matched.
	UpdateResume(ctx context.Context, r domain.Resume) error

	// DeleteResume removes an owned resume. ErrNotFound when nothing
	// matched.
	DeleteResume(ctx context.Context, id, userID string) error

	CountResumes(ctx context.Context) (int64, error)
	CountResumesByStatus(ctx context.Context, status string) (int64, error)
}
