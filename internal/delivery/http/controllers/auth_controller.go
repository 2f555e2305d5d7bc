package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	h "eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// RegisterRequest is the request body for POST /auth/register
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"` // optional: "organizer" or "user" (defaults to "user")
}

// Validate implements Validator.
func (s RegisterRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Name) == "" {
		errs = append(errs, "name is required")
	}
	email := strings.TrimSpace(strings.ToLower(s.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if s.Password == "" {
		errs = append(errs, "password is required")
	} else if len(s.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	role := strings.TrimSpace(strings.ToLower(s.Role))
	if role != "" && role != "organizer" && role != "user" {
		errs = append(errs, "role must be \"organizer\" or \"user\"")
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

// AuthResponse is the response body for POST /auth/register and POST /auth/login
type AuthResponse struct {
	User      *domain.User `json:"user"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
}

// ForgotPasswordRequest is the request body for POST /auth/forgot-password
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (f ForgotPasswordRequest) Validate() []string {
	if strings.TrimSpace(f.Email) == "" {
		return []string{"email is required"}
	}
	return nil
}

// ResetPasswordRequest is the request body for POST /auth/reset-password/{token}
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// Validate implements Validator.
func (rp ResetPasswordRequest) Validate() []string {
	var errs []string
	if rp.Password == "" {
		errs = append(errs, "password is required")
	} else if len(rp.Password) < 8 {
		errs = append(errs, "password must be at least 8 characters")
	}
	return errs
}

// StatusResponse is a generic status payload for operations with no entity result.
type StatusResponse struct {
	Status string `json:"status"`
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

// Register godoc
// @Summary Register a new user
// @Description Create a new user with name, email, and password. Optional role: "organizer" or "user" (defaults to "user"). Admin accounts cannot be self-registered. Returns the user and a Bearer token.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body RegisterRequest true "Registration data"
// @Success 201 {object} helpers.APIResponse "data contains user, token, and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (email already registered)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/register [post]
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	email := strings.TrimSpace(strings.ToLower(req.Email))
	role := domain.ParseRole(strings.TrimSpace(strings.ToLower(req.Role)))
	user, token, err := c.Service.Register(r.Context(), req.Name, email, req.Password, role)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "email already registered")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusCreated, AuthResponse{User: user, Token: token, TokenType: "Bearer"})
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns the user and a JWT containing the user id and role.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains user, token, and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	user, token, err := c.Service.Login(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, AuthResponse{User: user, Token: token, TokenType: "Bearer"})
}

// ForgotPassword godoc
// @Summary Request a password reset
// @Description Sends a password reset email if the address belongs to a registered user. Always returns 200 so the endpoint does not reveal which emails exist.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body ForgotPasswordRequest true "Account email"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/forgot-password [post]
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ForgotPassword(r.Context(), strings.TrimSpace(strings.ToLower(req.Email))); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
			return
		}
		// Unknown emails fall through to the same response.
	}
	h.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "reset email sent if the account exists"})
}

// ResetPassword godoc
// @Summary Reset password with a token
// @Description Sets a new password using the token from the reset email link.
// @Tags auth
// @Accept json
// @Produce json
// @Param token path string true "Reset token"
// @Param body body ResetPasswordRequest true "New password"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized (invalid or expired token)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/reset-password/{token} [post]
func (c *AuthController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	if token == "" {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "missing token")
		return
	}
	var req ResetPasswordRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.ResetPassword(r.Context(), token, req.Password); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
			return
		}
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid or expired token")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, err.Error())
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "password updated"})
}
