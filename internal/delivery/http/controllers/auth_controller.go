package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"
)

// SignUpRequest is the request body for POST /auth/signup
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Validate implements Validator.
func (s SignUpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Email) == "" {
		errs = append(errs, "email is required")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	} else if len(s.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	return errs
}

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
}

// SendVerificationEmailRequest is the request body for POST /auth/send-verification-email
type SendVerificationEmailRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (s SendVerificationEmailRequest) Validate() []string {
	if strings.TrimSpace(s.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// StatusResponse acknowledges an action that has no resource to return.
type StatusResponse struct {
	Status string `json:"status"`
}

// SessionSuccessResponse is the success response envelope for GET /auth/verify.
type SessionSuccessResponse struct {
	Data  *domain.Session `json:"data"`
	Error *h.APIError     `json:"error"`
}

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// SignUp godoc
// @Summary Sign up an organizer
// @Description Create an organizer account with email, password, and name. Password is stored hashed. A verification link is mailed to the address; logging in requires following it.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SignUpRequest true "Sign-up data"
// @Success 201 {object} helpers.APIResponse "data contains the created user"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, err := c.Service.SignUp(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "email already registered")
			return
		}
		writeServiceError(c.Logger, w, r, err, "user")
		return
	}

	h.WriteJSONSuccess(w, http.StatusCreated, user)
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a bearer JWT for the organizer endpoints.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (email not verified)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	token, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
		case errors.Is(err, domain.ErrEmailNotVerified):
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "email not verified, follow the link we sent or request a new one")
		default:
			writeServiceError(c.Logger, w, r, err, "user")
		}
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, TokenType: "Bearer"})
}

// SendVerificationEmail godoc
// @Summary Resend the verification email
// @Description Mails a new verification link to an organizer who has not confirmed their address yet.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body SendVerificationEmailRequest true "Organizer email"
// @Success 200 {object} helpers.APIResponse "data.status: sent"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already verified)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/send-verification-email [post]
func (c *AuthController) SendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	var req SendVerificationEmailRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.SendVerificationEmail(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrAlreadyVerified) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "email already verified")
			return
		}
		writeServiceError(c.Logger, w, r, err, "user")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "sent"})
}

// VerifyEmail godoc
// @Summary Confirm an email address
// @Description Target of the link in the verification email. Renders an HTML page.
// @Tags auth
// @Produce html
// @Param token query string true "Signed verification token"
// @Success 200 {string} string "confirmation page"
// @Failure 400 {string} string "invalid or expired link page"
// @Failure 500 {string} string "error page"
// @Router /auth/verify-email [get]
func (c *AuthController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	_, err := c.Service.VerifyEmail(r.Context(), r.URL.Query().Get("token"))
	switch {
	case err == nil:
		writePage(c.Logger, w, r, http.StatusOK, responsePageData{
			OK:      true,
			Title:   "Email verified",
			Message: "Your email address is confirmed. You can now log in.",
		})
	case errors.Is(err, domain.ErrInvalidLink):
		writePage(c.Logger, w, r, http.StatusBadRequest, responsePageData{
			Title:   "This link is not valid",
			Message: "The verification link is invalid or has expired. Request a new one from the login page.",
		})
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		writePage(c.Logger, w, r, http.StatusInternalServerError, responsePageData{
			Title:   "Something went wrong",
			Message: "We could not verify your email address. Please try the link again later.",
		})
	}
}

// Session godoc
// @Summary Inspect the current session
// @Description Returns what the bearer token asserts: user id, email, issue and expiry times.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} controllers.SessionSuccessResponse "data contains the session"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /auth/verify [get]
func (c *AuthController) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, session)
}
