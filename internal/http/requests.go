package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/mail"
	"strings"

	"github.com/resumeforge/resumeforge/internal/domain"
	"github.com/resumeforge/resumeforge/pkg/httpx"
)

// MinPasswordLength is enforced at registration and password reset.
const MinPasswordLength = 6

const maxBodyBytes = 1 << 20 // 1 MiB

// decodeJSON reads the request body into dst, rejecting oversized or
// malformed payloads.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.New("request body is not valid JSON")
	}
	return nil
}

type registerRequest struct {
	Name     string `json:"name" example:"Ada Lovelace"`
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"hunter2x"`
}

func (req *registerRequest) Validate() []httpx.FieldError {
	var errs []httpx.FieldError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, httpx.FieldError{Field: "name", Message: "Name is required"})
	}
	errs = appendEmailError(errs, req.Email)
	errs = appendPasswordError(errs, "password", req.Password)
	return errs
}

type verifyEmailRequest struct {
	Email string `json:"email" example:"ada@example.com"`
	OTP   string `json:"otp" example:"123456"`
}

func (req *verifyEmailRequest) Validate() []httpx.FieldError {
	var errs []httpx.FieldError
	errs = appendEmailError(errs, req.Email)
	errs = appendOTPError(errs, req.OTP)
	return errs
}

type loginRequest struct {
	Email    string `json:"email" example:"ada@example.com"`
	Password string `json:"password" example:"hunter2x"`
}

func (req *loginRequest) Validate() []httpx.FieldError {
	var errs []httpx.FieldError
	errs = appendEmailError(errs, req.Email)
	if req.Password == "" {
		errs = append(errs, httpx.FieldError{Field: "password", Message: "Password is required"})
	}
	return errs
}

type forgotPasswordRequest struct {
	Email string `json:"email" example:"ada@example.com"`
}

func (req *forgotPasswordRequest) Validate() []httpx.FieldError {
	return appendEmailError(nil, req.Email)
}

type resetPasswordRequest struct {
	Email       string `json:"email" example:"ada@example.com"`
	OTP         string `json:"otp" example:"123456"`
	NewPassword string `json:"newPassword" example:"hunter3x"`
}

func (req *resetPasswordRequest) Validate() []httpx.FieldError {
	var errs []httpx.FieldError
	errs = appendEmailError(errs, req.Email)
	errs = appendOTPError(errs, req.OTP)
	errs = appendPasswordError(errs, "newPassword", req.NewPassword)
	return errs
}

type resumeRequest struct {
	Title string            `json:"title" example:"Engineering CV"`
	Data  domain.ResumeData `json:"data"`
}

func (req *resumeRequest) Validate() []httpx.FieldError {
	var errs []httpx.FieldError
	if len(req.Title) > domain.MaxTitleLength {
		errs = append(errs, httpx.FieldError{Field: "title", Message: "Title must be at most 100 characters"})
	}
	return errs
}

type saveBuilderDataRequest struct {
	Data domain.ResumeData `json:"data"`
}

func appendEmailError(errs []httpx.FieldError, email string) []httpx.FieldError {
	email = strings.TrimSpace(email)
	if email == "" {
		return append(errs, httpx.FieldError{Field: "email", Message: "Email is required"})
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return append(errs, httpx.FieldError{Field: "email", Message: "Email is not a valid address"})
	}
	return errs
}

func appendPasswordError(errs []httpx.FieldError, field, password string) []httpx.FieldError {
	if len(password) < MinPasswordLength {
		return append(errs, httpx.FieldError{Field: field, Message: "Password must be at least 6 characters"})
	}
	return errs
}

func appendOTPError(errs []httpx.FieldError, otp string) []httpx.FieldError {
	if len(otp) != 6 {
		return append(errs, httpx.FieldError{Field: "otp", Message: "OTP must be 6 digits"})
	}
	for _, c := range otp {
		if c < '0' || c > '9' {
			return append(errs, httpx.FieldError{Field: "otp", Message: "OTP must be 6 digits"})
		}
	}
	return errs
}
