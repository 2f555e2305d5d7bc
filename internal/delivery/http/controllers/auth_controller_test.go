package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	registerErr    error
	registerUser   *domain.User
	loginErr       error
	loginUser      *domain.User
	forgotErr      error
	resetErr       error
	lastRegEmail   string
	lastRegRole    domain.Role
	lastLoginEmail string
	lastForgot     string
	lastResetToken string
	lastResetPass  string
}

func (f *fakeAuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, string, error) {
	f.lastRegEmail = email
	f.lastRegRole = role
	if f.registerErr != nil {
		return nil, "", f.registerErr
	}
	return f.registerUser, "token-abc", nil
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	f.lastLoginEmail = email
	if f.loginErr != nil {
		return nil, "", f.loginErr
	}
	return f.loginUser, "token-abc", nil
}

func (f *fakeAuthService) ForgotPassword(ctx context.Context, email string) error {
	f.lastForgot = email
	return f.forgotErr
}

func (f *fakeAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	f.lastResetToken = token
	f.lastResetPass = newPassword
	return f.resetErr
}

func TestAuthController_Register(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
		wantRole       domain.Role
	}{
		{
			name:       "success defaults to user role",
			body:       `{"name":"Alice","email":"Alice@Example.com","password":"longenough"}`,
			wantStatus: http.StatusCreated,
			wantRole:   domain.RoleUser,
		},
		{
			name:       "organizer role kept",
			body:       `{"name":"Olive","email":"olive@example.com","password":"longenough","role":"organizer"}`,
			wantStatus: http.StatusCreated,
			wantRole:   domain.RoleOrganizer,
		},
		{
			name:           "admin role rejected",
			body:           `{"name":"Eve","email":"eve@example.com","password":"longenough","role":"admin"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: `role must be "organizer" or "user"`,
		},
		{
			name:           "short password",
			body:           `{"name":"Alice","email":"alice@example.com","password":"short"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "at least 8 characters",
		},
		{
			name:           "bad email",
			body:           `{"name":"Alice","email":"not-an-email","password":"longenough"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid email format",
		},
		{
			name:           "duplicate email",
			body:           `{"name":"Alice","email":"alice@example.com","password":"longenough"}`,
			fakeErr:        domain.ErrDuplicateEmail,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "email already registered",
		},
		{
			name:           "service error",
			body:           `{"name":"Alice","email":"alice@example.com","password":"longenough"}`,
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{
				registerErr:  tt.fakeErr,
				registerUser: &domain.User{ID: "user-1", Name: "Alice", Email: "alice@example.com", Role: tt.wantRole},
			}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/auth/register", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Register(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error, "success response must have error nil")
				assert.Equal(t, tt.wantRole, fake.lastRegRole)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var resp AuthResponse
				require.NoError(t, json.Unmarshal(dataBytes, &resp))
				assert.Equal(t, "token-abc", resp.Token)
				assert.Equal(t, "Bearer", resp.TokenType)
			} else {
				require.NotNil(t, envelope.Error, "error response must have error set")
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr, "error message")
			}
		})
	}
}

func TestAuthController_Register_LowercasesEmail(t *testing.T) {
	fake := &fakeAuthService{registerUser: &domain.User{ID: "user-1"}}
	ctrl := NewAuthController(testLogger, fake)
	req := httptest.NewRequest(http.MethodPost, "http://test/auth/register",
		bytes.NewBufferString(`{"name":"Alice","email":" Alice@Example.COM ","password":"longenough"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	ctrl.Register(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "alice@example.com", fake.lastRegEmail)
}

func TestAuthController_Login(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"email":"alice@example.com","password":"longenough"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:           "wrong credentials",
			body:           `{"email":"alice@example.com","password":"wrong-password"}`,
			fakeErr:        domain.ErrInvalidCredentials,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "invalid credentials",
		},
		{
			name:           "missing password",
			body:           `{"email":"alice@example.com"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{
				loginErr:  tt.fakeErr,
				loginUser: &domain.User{ID: "user-1", Email: "alice@example.com"},
			}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/auth/login", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.Login(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rr.Body.String(), "token-abc")
			} else {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr)
			}
		})
	}
}

func TestAuthController_ForgotPassword(t *testing.T) {
	t.Run("known email", func(t *testing.T) {
		fake := &fakeAuthService{}
		ctrl := NewAuthController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "http://test/auth/forgot-password",
			bytes.NewBufferString(`{"email":"alice@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		ctrl.ForgotPassword(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "alice@example.com", fake.lastForgot)
	})

	t.Run("unknown email still returns 200", func(t *testing.T) {
		fake := &fakeAuthService{forgotErr: domain.ErrNotFound}
		ctrl := NewAuthController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPost, "http://test/auth/forgot-password",
			bytes.NewBufferString(`{"email":"nobody@example.com"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		ctrl.ForgotPassword(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), "reset email sent if the account exists")
	})
}

func TestAuthController_ResetPassword(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"password":"newpassword"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:           "invalid token",
			body:           `{"password":"newpassword"}`,
			fakeErr:        domain.ErrInvalidCredentials,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "invalid or expired token",
		},
		{
			name:           "unknown token",
			body:           `{"password":"newpassword"}`,
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "invalid or expired token",
		},
		{
			name:           "short password",
			body:           `{"password":"short"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAuthService{resetErr: tt.fakeErr}
			ctrl := NewAuthController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/auth/reset-password/tok-1", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("token", "tok-1")
			rr := httptest.NewRecorder()

			ctrl.ResetPassword(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "tok-1", fake.lastResetToken)
				assert.Equal(t, "newpassword", fake.lastResetPass)
			} else {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr)
			}
		})
	}
}
