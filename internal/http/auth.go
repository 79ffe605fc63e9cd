package http

import (
	"errors"
	"net/http"

	"github.com/resumeforge/resumeforge/internal/domain"
	"github.com/resumeforge/resumeforge/internal/service"
	"github.com/resumeforge/resumeforge/pkg/httpx"
	"github.com/resumeforge/resumeforge/pkg/slogx"
)

type AuthHandler struct {
	AuthService *service.AuthService
}

type registerResponse struct {
	Message string         `json:"message"`
	User    domain.Profile `json:"user"`
}

type loginResponse struct {
	Token string         `json:"token"`
	User  domain.Profile `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// HandleRegister creates a new account and emails a verification code.
//
//	@Summary		Register a new user
//	@Description	Creates an unverified account and sends a 6-digit verification code to the given email. The code expires after 10 minutes.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		registerRequest	true	"Registration details"
//	@Success		201		{object}	registerResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Validation failed or email already registered"
//	@Failure		500		{object}	httpx.ErrorResponse
//	@Router			/api/auth/register [post].
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		httpx.WriteValidationError(w, errs)
		return
	}

	profile, err := h.AuthService.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			httpx.WriteError(w, http.StatusBadRequest, "User already exists with this email")
			return
		}
		log.Error("registration failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, registerResponse{
		Message: "Registration successful. Please check your email for the verification code.",
		User:    profile,
	})
}

// HandleVerifyEmail consumes a pending verification code.
//
//	@Summary		Verify email address
//	@Description	Consumes the emailed verification code. Wrong and expired codes get the same response.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		verifyEmailRequest	true	"Email and code"
//	@Success		200		{object}	messageResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Invalid or expired OTP"
//	@Router			/api/auth/verify-email [post].
func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req verifyEmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		httpx.WriteValidationError(w, errs)
		return
	}

	if err := h.AuthService.VerifyEmail(ctx, req.Email, req.OTP); err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredOTP) {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid or expired OTP")
			return
		}
		log.Error("email verification failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "Email verified successfully. You can now log in."})
}

// HandleLogin checks credentials and returns a bearer token.
//
//	@Summary		Log in
//	@Description	Returns a session token on success. Unverified accounts get a 401 with emailVerificationRequired set.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		loginRequest	true	"Credentials"
//	@Success		200		{object}	loginResponse
//	@Failure		401		{object}	httpx.ErrorResponse	"Invalid credentials or email not verified"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		httpx.WriteValidationError(w, errs)
		return
	}

	profile, token, err := h.AuthService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httpx.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, service.ErrEmailNotVerified):
			httpx.WriteJSON(w, http.StatusUnauthorized, httpx.ErrorResponse{
				Message:                   "Please verify your email before logging in",
				EmailVerificationRequired: true,
			})
		default:
			log.Error("login failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{Token: token, User: profile})
}

// HandleForgotPassword issues a password-reset code.
//
//	@Summary		Request a password reset
//	@Description	Sends a 6-digit reset code to the account's email. Unknown emails return 404.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		forgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	messageResponse
//	@Failure		404		{object}	httpx.ErrorResponse	"No account with that email"
//	@Failure		500		{object}	httpx.ErrorResponse	"Reset email could not be sent"
//	@Router			/api/auth/forgot-password [post].
func (h *AuthHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		httpx.WriteValidationError(w, errs)
		return
	}

	if err := h.AuthService.ForgotPassword(ctx, req.Email); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusNotFound, "No account found with this email")
			return
		}
		// Delivery failure is fatal here: the user is waiting on the email.
		log.Error("password reset email failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Failed to send reset email")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "Password reset code sent to your email."})
}

// HandleResetPassword consumes a reset code and sets the new password.
//
//	@Summary		Reset password
//	@Description	Consumes the emailed reset code and replaces the password in one step.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		resetPasswordRequest	true	"Email, code and new password"
//	@Success		200		{object}	messageResponse
//	@Failure		400		{object}	httpx.ErrorResponse	"Invalid or expired OTP"
//	@Router			/api/auth/reset-password [post].
func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req resetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		httpx.WriteValidationError(w, errs)
		return
	}

	if err := h.AuthService.ResetPassword(ctx, req.Email, req.OTP, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredOTP) {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid or expired OTP")
			return
		}
		log.Error("password reset failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, messageResponse{Message: "Password reset successfully. You can now log in."})
}

// HandleProfile returns the authenticated user's identity.
//
//	@Summary		Get profile
//	@Description	Returns the caller's account without password or pending code fields.
//	@Tags			Auth
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	domain.Profile
//	@Failure		401	{object}	httpx.ErrorResponse
//	@Router			/api/auth/profile [get].
func (h *AuthHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := httpx.UserIDFromContext(ctx)
	if userID == "" {
		httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	profile, err := h.AuthService.Profile(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			httpx.WriteError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		log.Error("profile lookup failed", "user_id", userID, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "Server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, profile)
}
