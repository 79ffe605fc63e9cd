package e2e_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSignupFlow(t *testing.T) {
	env := setupEnv(t)

	const email = "ada@example.test"

	t.Run("register sends a verification email", func(t *testing.T) {
		var resp struct {
			User struct {
				Email           string `json:"email"`
				IsEmailVerified bool   `json:"isEmailVerified"`
			} `json:"user"`
		}
		code := env.doJSON(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"name": "Ada Lovelace", "email": email, "password": "secret1",
		}, &resp)
		require.Equal(t, http.StatusCreated, code)
		require.Equal(t, email, resp.User.Email)
		require.False(t, resp.User.IsEmailVerified)
	})

	t.Run("login refused before verification", func(t *testing.T) {
		var resp struct {
			EmailVerificationRequired bool `json:"emailVerificationRequired"`
		}
		code := env.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": email, "password": "secret1",
		}, &resp)
		require.Equal(t, http.StatusUnauthorized, code)
		require.True(t, resp.EmailVerificationRequired)
	})

	t.Run("wrong code rejected, emailed code accepted", func(t *testing.T) {
		code := env.doJSON(t, http.MethodPost, "/api/auth/verify-email", "", map[string]string{
			"email": email, "otp": "000000",
		}, nil)
		require.Equal(t, http.StatusBadRequest, code)

		otp := env.waitForOTP(t, email)
		code = env.doJSON(t, http.MethodPost, "/api/auth/verify-email", "", map[string]string{
			"email": email, "otp": otp,
		}, nil)
		require.Equal(t, http.StatusOK, code)

		// Replay of a consumed code fails.
		code = env.doJSON(t, http.MethodPost, "/api/auth/verify-email", "", map[string]string{
			"email": email, "otp": otp,
		}, nil)
		require.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("login and profile after verification", func(t *testing.T) {
		var login struct {
			Token string `json:"token"`
		}
		code := env.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": email, "password": "secret1",
		}, &login)
		require.Equal(t, http.StatusOK, code)
		require.NotEmpty(t, login.Token)

		var profile struct {
			Email           string `json:"email"`
			IsEmailVerified bool   `json:"isEmailVerified"`
		}
		code = env.doJSON(t, http.MethodGet, "/api/auth/profile", login.Token, nil, &profile)
		require.Equal(t, http.StatusOK, code)
		require.Equal(t, email, profile.Email)
		require.True(t, profile.IsEmailVerified)
	})
}

func TestPasswordResetFlow(t *testing.T) {
	env := setupEnv(t)

	const email = "grace@example.test"
	env.registerAndVerify(t, "Grace Hopper", email, "original1")
	env.clearMailbox(t)

	t.Run("unknown email is 404", func(t *testing.T) {
		code := env.doJSON(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{
			"email": "ghost@example.test",
		}, nil)
		require.Equal(t, http.StatusNotFound, code)
	})

	t.Run("reset with emailed code", func(t *testing.T) {
		code := env.doJSON(t, http.MethodPost, "/api/auth/forgot-password", "", map[string]string{
			"email": email,
		}, nil)
		require.Equal(t, http.StatusOK, code)

		otp := env.waitForOTP(t, email)
		code = env.doJSON(t, http.MethodPost, "/api/auth/reset-password", "", map[string]string{
			"email": email, "otp": otp, "newPassword": "replacement1",
		}, nil)
		require.Equal(t, http.StatusOK, code)

		code = env.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": email, "password": "original1",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, code)

		code = env.doJSON(t, http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": email, "password": "replacement1",
		}, nil)
		require.Equal(t, http.StatusOK, code)
	})
}
