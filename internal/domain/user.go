package domain

import "time"

// User is the credential record. PasswordHash is an argon2id PHC string and
// must never leave the service. The OTP field pairs (code + expiry) are
// always set and cleared together; one without the other is a bug.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string

	IsEmailVerified bool

	EmailVerificationOTP     *string
	EmailVerificationExpires *time.Time

	PasswordResetOTP     *string
	PasswordResetExpires *time.Time

	// ResumeData is the builder's autosave document, stored as raw JSON.
	// Nil until the user saves from the builder for the first time.
	ResumeData []byte

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the client-facing view of a User: everything except the
// password hash and pending OTP state.
type Profile struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Profile strips the sensitive fields from u.
func (u User) Profile() Profile {
	return Profile{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
	}
}
