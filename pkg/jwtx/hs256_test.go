package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testIssuer = "resumeforge-test"

func newTestHS256(t *testing.T) *HS256 {
	t.Helper()
	h, err := NewHS256([]byte("0123456789abcdef0123456789abcdef"), testIssuer)
	require.NoError(t, err)
	return h
}

func TestNewHS256RejectsEmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewHS256(nil, testIssuer)
	require.Error(t, err)
}

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	claims := NewSessionClaims("01USER", testIssuer, time.Hour, time.Now().UTC())
	token, err := h.Sign(claims)
	require.NoError(t, err)

	got, err := h.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "01USER", got.UserID())
	require.Equal(t, testIssuer, got.Issuer)
	require.NotEmpty(t, got.ID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	other, err := NewHS256([]byte("a-completely-different-secret!!!"), testIssuer)
	require.NoError(t, err)

	token, err := other.Sign(NewSessionClaims("01USER", testIssuer, time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, ErrInvalidSig)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	issued := time.Now().UTC().Add(-2 * time.Hour)
	token, err := h.Sign(NewSessionClaims("01USER", testIssuer, time.Hour, issued))
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, ErrExpired)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	token, err := h.Sign(NewSessionClaims("01USER", "someone-else", time.Hour, time.Now().UTC()))
	require.NoError(t, err)

	_, err = h.Verify(token)
	require.ErrorIs(t, err, ErrIssuer)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()
	h := newTestHS256(t)

	for _, tok := range []string{"", "not.a.jwt", "aaaa.bbbb.cccc"} {
		_, err := h.Verify(tok)
		require.Error(t, err, "token %q", tok)
	}
}

func TestClaimsValidateExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	expired := NewSessionClaims("u", testIssuer, -time.Minute, now.Add(-time.Hour))
	require.ErrorIs(t, expired.ValidateExpiry(), ErrExpired)

	future := NewSessionClaims("u", testIssuer, time.Hour, now.Add(time.Hour))
	require.ErrorIs(t, future.ValidateExpiry(), ErrNotYetValid)

	valid := NewSessionClaims("u", testIssuer, time.Hour, now)
	require.NoError(t, valid.ValidateExpiry())
}
