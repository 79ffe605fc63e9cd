package cryptox

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/hotp"
)

// OTPDigits is the length of emailed one-time codes.
const OTPDigits = otp.DigitsSix

// GenerateOTP produces a 6-digit numeric one-time code. Each call derives
// the code via HOTP from a throwaway random secret and counter, so codes are
// uniformly distributed and carry no state. Uniqueness is irrelevant here:
// a code is only ever matched against a single user's pending field.
func GenerateOTP() (string, error) {
	secret := make([]byte, 20)
	if _, err := rand.Read(secret); err != nil {
		return "", fmt.Errorf("cryptox: generate otp secret: %w", err)
	}

	var counterBytes [8]byte
	if _, err := rand.Read(counterBytes[:]); err != nil {
		return "", fmt.Errorf("cryptox: generate otp counter: %w", err)
	}
	counter := binary.BigEndian.Uint64(counterBytes[:])

	code, err := hotp.GenerateCodeCustom(
		base32.StdEncoding.EncodeToString(secret),
		counter,
		hotp.ValidateOpts{
			Digits:    OTPDigits,
			Algorithm: otp.AlgorithmSHA256,
		},
	)
	if err != nil {
		return "", fmt.Errorf("cryptox: derive otp code: %w", err)
	}
	return code, nil
}
