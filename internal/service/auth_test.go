package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/resumeforge/resumeforge/internal/store"
	"github.com/resumeforge/resumeforge/internal/store/drivers/sqlite"
	"github.com/resumeforge/resumeforge/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// captureMailer records sent messages instead of delivering them.
type captureMailer struct {
	sent []capturedMail
	fail error
}

type capturedMail struct {
	To      string
	Subject string
	Body    string
}

func (m *captureMailer) Send(_ context.Context, to, subject, body string) error {
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, capturedMail{To: to, Subject: subject, Body: body})
	return nil
}

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.ApplyMigrations())
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func newTestAuth(t *testing.T) (*AuthService, store.Store, *captureMailer) {
	t.Helper()

	st := newTestStore(t)
	mail := &captureMailer{}

	signer, err := jwtx.NewHS256([]byte("test-secret"), "resumeforge-test")
	require.NoError(t, err)

	auth := &AuthService{
		Store:  st,
		Tokens: &TokenService{Signer: signer, Issuer: "resumeforge-test", TTL: time.Hour},
		OTP:    &OTPIssuer{Store: st, Mail: mail},
	}
	return auth, st, mail
}

// pendingVerificationCode fetches the stored verification code for email.
func pendingVerificationCode(t *testing.T, st store.Store, email string) string {
	t.Helper()

	u, err := st.Users().GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, u.EmailVerificationOTP)
	return *u.EmailVerificationOTP
}

func pendingResetCode(t *testing.T, st store.Store, email string) string {
	t.Helper()

	u, err := st.Users().GetUserByEmail(context.Background(), email)
	require.NoError(t, err)
	require.NotNil(t, u.PasswordResetOTP)
	return *u.PasswordResetOTP
}

func TestRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates pending user and emails a code", func(t *testing.T) {
		auth, st, mail := newTestAuth(t)

		profile, err := auth.Register(ctx, "Ada Lovelace", "Ada@Example.com", "secret1")
		require.NoError(t, err)
		require.Equal(t, "Ada Lovelace", profile.Name)
		require.Equal(t, "ada@example.com", profile.Email)
		require.False(t, profile.IsEmailVerified)
		require.NotEmpty(t, profile.ID)

		u, err := st.Users().GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.NotNil(t, u.EmailVerificationOTP)
		require.NotNil(t, u.EmailVerificationExpires)
		require.True(t, u.EmailVerificationExpires.After(time.Now()))

		require.Len(t, mail.sent, 1)
		require.Equal(t, "ada@example.com", mail.sent[0].To)
		require.Contains(t, mail.sent[0].Body, *u.EmailVerificationOTP)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		auth, _, _ := newTestAuth(t)

		_, err := auth.Register(ctx, "First", "dup@example.com", "secret1")
		require.NoError(t, err)

		_, err = auth.Register(ctx, "Second", "DUP@example.com", "secret2")
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("succeeds even when email delivery fails", func(t *testing.T) {
		auth, st, mail := newTestAuth(t)
		mail.fail = errors.New("smtp down")

		_, err := auth.Register(ctx, "Grace", "grace@example.com", "secret1")
		require.NoError(t, err)

		// The code is still stored so verification stays possible.
		_, err = st.Users().GetUserByEmail(ctx, "grace@example.com")
		require.NoError(t, err)
	})
}

func TestVerifyEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("wrong then right code", func(t *testing.T) {
		auth, st, _ := newTestAuth(t)
		_, err := auth.Register(ctx, "Ada", "ada@example.com", "secret1")
		require.NoError(t, err)
		code := pendingVerificationCode(t, st, "ada@example.com")

		require.ErrorIs(t, auth.VerifyEmail(ctx, "ada@example.com", "000000"), ErrInvalidOrExpiredOTP)

		require.NoError(t, auth.VerifyEmail(ctx, "ada@example.com", code))

		u, err := st.Users().GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.True(t, u.IsEmailVerified)
		require.Nil(t, u.EmailVerificationOTP)
		require.Nil(t, u.EmailVerificationExpires)
	})

	t.Run("replay fails after success", func(t *testing.T) {
		auth, st, _ := newTestAuth(t)
		_, err := auth.Register(ctx, "Ada", "ada@example.com", "secret1")
		require.NoError(t, err)
		code := pendingVerificationCode(t, st, "ada@example.com")

		require.NoError(t, auth.VerifyEmail(ctx, "ada@example.com", code))
		require.ErrorIs(t, auth.VerifyEmail(ctx, "ada@example.com", code), ErrInvalidOrExpiredOTP)
	})

	t.Run("expired code fails even when correct", func(t *testing.T) {
		auth, st, _ := newTestAuth(t)
		profile, err := auth.Register(ctx, "Ada", "ada@example.com", "secret1")
		require.NoError(t, err)
		code := pendingVerificationCode(t, st, "ada@example.com")

		// Push the expiry into the past.
		err = st.Users().SetEmailVerificationOTP(ctx, profile.ID, code, time.Now().Add(-time.Minute))
		require.NoError(t, err)

		require.ErrorIs(t, auth.VerifyEmail(ctx, "ada@example.com", code), ErrInvalidOrExpiredOTP)
	})
}

func TestLogin(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	registerVerified := func(t *testing.T, auth *AuthService, st store.Store, email, password string) {
		t.Helper()
		_, err := auth.Register(ctx, "User", email, password)
		require.NoError(t, err)
		code := pendingVerificationCode(t, st, email)
		require.NoError(t, auth.VerifyEmail(ctx, email, code))
	}

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		auth, st, _ := newTestAuth(t)
		registerVerified(t, auth, st, "ada@example.com", "secret1")

		_, _, err := auth.Login(ctx, "nobody@example.com", "secret1")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, err = auth.Login(ctx, "ada@example.com", "wrong-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unverified user refused even with correct password", func(t *testing.T) {
		auth, _, _ := newTestAuth(t)
		_, err := auth.Register(ctx, "Ada", "ada@example.com", "secret1")
		require.NoError(t, err)

		_, _, err = auth.Login(ctx, "ada@example.com", "secret1")
		require.ErrorIs(t, err, ErrEmailNotVerified)
	})

	t.Run("verified user gets a valid session token", func(t *testing.T) {
		auth, st, _ := newTestAuth(t)
		registerVerified(t, auth, st, "ada@example.com", "secret1")

		profile, token, err := auth.Login(ctx, "ada@example.com", "secret1")
		require.NoError(t, err)
		require.True(t, profile.IsEmailVerified)

		verifier, err := jwtx.NewHS256([]byte("test-secret"), "resumeforge-test")
		require.NoError(t, err)
		claims, err := verifier.Verify(token)
		require.NoError(t, err)
		require.Equal(t, profile.ID, claims.UserID())
	})
}

func TestForgotPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("unknown email reported as not found", func(t *testing.T) {
		auth, _, _ := newTestAuth(t)
		require.ErrorIs(t, auth.ForgotPassword(ctx, "nobody@example.com"), ErrUserNotFound)
	})

	t.Run("stores and emails a reset code", func(t *testing.T) {
		auth, st, mail := newTestAuth(t)
		_, err := auth.Register(ctx, "Ada", "ada@example.com", "secret1")
		require.NoError(t, err)
		mail.sent = nil

		require.NoError(t, auth.ForgotPassword(ctx, "ada@example.com"))

		code := pendingResetCode(t, st, "ada@example.com")
		require.Len(t, mail.sent, 1)
		require.Contains(t, mail.sent[0].Body, code)
	})

	t.Run("delivery failure is fatal", func(t *testing.T) {
		auth, _, mail := newTestAuth(t)
		_, err := auth.Register(ctx, "Ada", "ada@example.com", "secret1")
		require.NoError(t, err)
		mail.fail = errors.New("smtp down")

		require.Error(t, auth.ForgotPassword(ctx, "ada@example.com"))
	})
}

func TestResetPassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	setup := func(t *testing.T) (*AuthService, store.Store) {
		t.Helper()
		auth, st, _ := newTestAuth(t)
		_, err := auth.Register(ctx, "Ada", "ada@example.com", "old-password")
		require.NoError(t, err)
		code := pendingVerificationCode(t, st, "ada@example.com")
		require.NoError(t, auth.VerifyEmail(ctx, "ada@example.com", code))
		return auth, st
	}

	t.Run("full reset flow", func(t *testing.T) {
		auth, st := setup(t)
		require.NoError(t, auth.ForgotPassword(ctx, "ada@example.com"))
		code := pendingResetCode(t, st, "ada@example.com")

		require.NoError(t, auth.ResetPassword(ctx, "ada@example.com", code, "new-password"))

		_, _, err := auth.Login(ctx, "ada@example.com", "old-password")
		require.ErrorIs(t, err, ErrInvalidCredentials)

		_, _, err = auth.Login(ctx, "ada@example.com", "new-password")
		require.NoError(t, err)

		// Code pair is cleared; replay fails.
		u, err := st.Users().GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Nil(t, u.PasswordResetOTP)
		require.Nil(t, u.PasswordResetExpires)
		require.ErrorIs(t,
			auth.ResetPassword(ctx, "ada@example.com", code, "another-password"),
			ErrInvalidOrExpiredOTP)
	})

	t.Run("expired code rejected", func(t *testing.T) {
		auth, st := setup(t)
		require.NoError(t, auth.ForgotPassword(ctx, "ada@example.com"))
		code := pendingResetCode(t, st, "ada@example.com")

		u, err := st.Users().GetUserByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		err = st.Users().SetPasswordResetOTP(ctx, u.ID, code, time.Now().Add(-time.Minute))
		require.NoError(t, err)

		require.ErrorIs(t,
			auth.ResetPassword(ctx, "ada@example.com", code, "new-password"),
			ErrInvalidOrExpiredOTP)
	})

	t.Run("wrong code rejected", func(t *testing.T) {
		auth, _ := setup(t)
		require.NoError(t, auth.ForgotPassword(ctx, "ada@example.com"))
		require.ErrorIs(t,
			auth.ResetPassword(ctx, "ada@example.com", "000000", "new-password"),
			ErrInvalidOrExpiredOTP)
	})
}

func TestProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	auth, _, _ := newTestAuth(t)
	created, err := auth.Register(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	t.Run("returns sanitized identity", func(t *testing.T) {
		profile, err := auth.Profile(ctx, created.ID)
		require.NoError(t, err)
		require.Equal(t, created.ID, profile.ID)
		require.Equal(t, "ada@example.com", profile.Email)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := auth.Profile(ctx, "does-not-exist")
		require.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestHousekeepingSweep(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	auth, st, _ := newTestAuth(t)
	profile, err := auth.Register(ctx, "Ada", "ada@example.com", "secret1")
	require.NoError(t, err)

	// Age the pending verification code past its expiry.
	err = st.Users().SetEmailVerificationOTP(ctx, profile.ID, "123456", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	hk := NewHousekeepingService(st, slog.Default(), time.Hour)
	hk.Start()
	hk.Stop()

	u, err := st.Users().GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.Nil(t, u.EmailVerificationOTP)
	require.Nil(t, u.EmailVerificationExpires)
}
