package service

import (
	"context"
	"fmt"
	"time"

	"github.com/resumeforge/resumeforge/internal/domain"
	"github.com/resumeforge/resumeforge/internal/mailer"
	"github.com/resumeforge/resumeforge/internal/store"
	"github.com/resumeforge/resumeforge/pkg/cryptox"
)

// DefaultOTPTTL is the validity window for emailed one-time codes.
const DefaultOTPTTL = 10 * time.Minute

// OTPIssuer generates one-time codes, persists them on the user record,
// and dispatches them over email. A new issuance overwrites any pending
// code of the same purpose.
type OTPIssuer struct {
	Store store.Store
	Mail  mailer.Mailer
	TTL   time.Duration
}

func (s *OTPIssuer) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultOTPTTL
	}
	return s.TTL
}

// IssueVerification stores a fresh email-verification code for the user
// and emails it. The store write and the email send are separate steps;
// the caller decides whether a delivery failure is fatal.
func (s *OTPIssuer) IssueVerification(ctx context.Context, u domain.User) error {
	code, err := cryptox.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}
	expires := time.Now().UTC().Add(s.ttl())
	if err := s.Store.Users().SetEmailVerificationOTP(ctx, u.ID, code, expires); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}

	subject, body, err := mailer.VerificationEmail(u.Name, code)
	if err != nil {
		return err
	}
	if err := s.Mail.Send(ctx, u.Email, subject, body); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}
	return nil
}

// IssuePasswordReset stores a fresh password-reset code for the user and
// emails it.
func (s *OTPIssuer) IssuePasswordReset(ctx context.Context, u domain.User) error {
	code, err := cryptox.GenerateOTP()
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	expires := time.Now().UTC().Add(s.ttl())
	if err := s.Store.Users().SetPasswordResetOTP(ctx, u.ID, code, expires); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	subject, body, err := mailer.PasswordResetEmail(u.Name, code)
	if err != nil {
		return err
	}
	if err := s.Mail.Send(ctx, u.Email, subject, body); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}
