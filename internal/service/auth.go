package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/resumeforge/resumeforge/internal/domain"
	"github.com/resumeforge/resumeforge/internal/store"
	"github.com/resumeforge/resumeforge/pkg/cryptox"
	"github.com/resumeforge/resumeforge/pkg/idx"
	"github.com/resumeforge/resumeforge/pkg/slogx"
)

var (
	ErrEmailTaken = errors.New("email_taken")

	// ErrInvalidCredentials covers unknown email and wrong password alike;
	// callers must not be able to tell the two apart.
	ErrInvalidCredentials = errors.New("invalid_credentials")

	// ErrEmailNotVerified is deliberately distinct from
	// ErrInvalidCredentials: the client needs to prompt for verification.
	ErrEmailNotVerified = errors.New("email_not_verified")

	// ErrInvalidOrExpiredOTP covers wrong, replayed, and expired codes with
	// one message.
	ErrInvalidOrExpiredOTP = errors.New("invalid_or_expired_otp")

	ErrUserNotFound = errors.New("user_not_found")
)

type AuthService struct {
	Store  store.Store
	Tokens *TokenService
	OTP    *OTPIssuer
}

// Register creates a pending (unverified) user and issues a verification
// code. A failed verification email is logged and swallowed: the account
// exists either way and the code can be re-requested via forgot-password
// style flows, so failing the whole registration would only strand the
// user.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (domain.Profile, error) {
	email = normalizeEmail(email)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Profile{}, ErrEmailTaken
		}
		return domain.Profile{}, fmt.Errorf("create user: %w", err)
	}

	if err := s.OTP.IssueVerification(ctx, u); err != nil {
		slogx.FromContext(ctx).Error("verification email not delivered",
			"user_id", u.ID, "error", err)
	}

	return u.Profile(), nil
}

// VerifyEmail consumes a pending verification code. Wrong and expired
// codes are indistinguishable to the caller.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	email = normalizeEmail(email)
	err := s.Store.Users().ConsumeEmailVerificationOTP(ctx, email, code, time.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidOrExpiredOTP
	}
	return err
}

// Login checks credentials and the verified flag, then mints a session
// token.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Profile, string, error) {
	email = normalizeEmail(email)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, "", ErrInvalidCredentials
		}
		return domain.Profile{}, "", err
	}
	if err := cryptox.VerifyPassword(password, u.PasswordHash); err != nil {
		return domain.Profile{}, "", ErrInvalidCredentials
	}
	if !u.IsEmailVerified {
		return domain.Profile{}, "", ErrEmailNotVerified
	}

	token, _, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return domain.Profile{}, "", fmt.Errorf("issue session token: %w", err)
	}
	return u.Profile(), token, nil
}

// ForgotPassword issues a password-reset code. Unlike registration, a
// delivery failure here is fatal: the user is waiting on that email and
// nothing else tells them something went wrong. Unknown emails return
// ErrUserNotFound.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.OTP.IssuePasswordReset(ctx, u)
}

// ResetPassword consumes a reset code and swaps in the new password hash
// atomically.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	err = s.Store.Users().ConsumePasswordResetOTP(ctx, email, code, hash, time.Now().UTC())
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidOrExpiredOTP
	}
	return err
}

// Profile returns the caller's sanitized identity.
func (s *AuthService) Profile(ctx context.Context, userID string) (domain.Profile, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Profile{}, ErrUserNotFound
		}
		return domain.Profile{}, err
	}
	return u.Profile(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
