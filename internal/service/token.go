package service

import (
	"time"

	"github.com/resumeforge/resumeforge/pkg/jwtx"
)

type TokenService struct {
	Signer jwtx.Signer
	Issuer string
	TTL    time.Duration
}

// Issue mints a signed session token for userID. Tokens are stateless;
// there is no revocation list, only signature + expiry checks on verify.
func (s *TokenService) Issue(userID string) (token string, expiresAt time.Time, err error) {
	ttl := s.TTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}
	now := time.Now()
	claims := jwtx.NewSessionClaims(userID, s.Issuer, ttl, now)
	token, err = s.Signer.Sign(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, now.Add(ttl), nil
}
