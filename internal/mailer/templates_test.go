package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	t.Parallel()

	t.Run("verification email carries name and code", func(t *testing.T) {
		subject, body, err := VerificationEmail("Ada", "123456")
		require.NoError(t, err)
		require.Contains(t, subject, "Verify")
		require.Contains(t, body, "Ada")
		require.Contains(t, body, "123456")
	})

	t.Run("reset email carries name and code", func(t *testing.T) {
		subject, body, err := PasswordResetEmail("Ada", "654321")
		require.NoError(t, err)
		require.Contains(t, subject, "Reset")
		require.Contains(t, body, "654321")
	})

	t.Run("html in names is escaped", func(t *testing.T) {
		_, body, err := VerificationEmail("<script>alert(1)</script>", "123456")
		require.NoError(t, err)
		require.NotContains(t, body, "<script>")
	})
}

func TestLogOnlyMailer(t *testing.T) {
	t.Parallel()

	m := &LogOnly{}
	require.NoError(t, m.Send(context.Background(), "ada@example.com", "subject", "body"))
}
