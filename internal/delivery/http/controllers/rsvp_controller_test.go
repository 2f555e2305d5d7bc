package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeRSVPService implements domain.RSVPService for handler tests.
type fakeRSVPService struct {
	requestToJoinErr    error
	requestToJoinResult *domain.RSVP
	inviteErr           error
	decideErr           error
	decideResult        *domain.RSVP
	acceptInviteErr     error
	listErr             error
	listResult          []*domain.RSVP
	listTotal           int
	listByEventErr      error
	listByEventResult   []*domain.RSVPWithUser
	listByUserErr       error
	listByUserResult    []*domain.RSVPWithEvent

	lastRequestEventID  string
	lastRequestCallerID string
	lastInviteEventID   string
	lastInviteActor     domain.Actor
	lastInviteEmail     string
	lastDecideRSVPID    string
	lastDecideStatus    domain.RSVPStatus
	lastAcceptRSVPID    string
	lastListParams      domain.PaginationParams
	lastListByUserID    string
}

func (f *fakeRSVPService) RequestToJoin(ctx context.Context, eventID, callerID string) (*domain.RSVP, error) {
	f.lastRequestEventID = eventID
	f.lastRequestCallerID = callerID
	if f.requestToJoinErr != nil {
		return nil, f.requestToJoinErr
	}
	return f.requestToJoinResult, nil
}

func (f *fakeRSVPService) Invite(ctx context.Context, eventID string, actor domain.Actor, email string) error {
	f.lastInviteEventID = eventID
	f.lastInviteActor = actor
	f.lastInviteEmail = email
	return f.inviteErr
}

func (f *fakeRSVPService) Decide(ctx context.Context, rsvpID string, actor domain.Actor, status domain.RSVPStatus) (*domain.RSVP, error) {
	f.lastDecideRSVPID = rsvpID
	f.lastDecideStatus = status
	if f.decideErr != nil {
		return nil, f.decideErr
	}
	return f.decideResult, nil
}

func (f *fakeRSVPService) AcceptInvite(ctx context.Context, rsvpID string) error {
	f.lastAcceptRSVPID = rsvpID
	return f.acceptInviteErr
}

func (f *fakeRSVPService) List(ctx context.Context, actor domain.Actor, params domain.PaginationParams) ([]*domain.RSVP, int, error) {
	f.lastListParams = params
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.listResult, f.listTotal, nil
}

func (f *fakeRSVPService) ListByEvent(ctx context.Context, eventID string) ([]*domain.RSVPWithUser, error) {
	if f.listByEventErr != nil {
		return nil, f.listByEventErr
	}
	return f.listByEventResult, nil
}

func (f *fakeRSVPService) ListByUser(ctx context.Context, userID string) ([]*domain.RSVPWithEvent, error) {
	f.lastListByUserID = userID
	if f.listByUserErr != nil {
		return nil, f.listByUserErr
	}
	return f.listByUserResult, nil
}

func TestRSVPController_RequestToJoin(t *testing.T) {
	tests := []struct {
		name           string
		fakeErr        error
		noActor        bool
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			wantStatus: http.StatusCreated,
		},
		{
			name:           "no actor in context",
			noActor:        true,
			wantStatus:     http.StatusUnauthorized,
			wantBodySubstr: "unauthorized",
		},
		{
			name:           "event not found",
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "event not found",
		},
		{
			name:           "event expired",
			fakeErr:        domain.ErrEventExpired,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "already taken place",
		},
		{
			name:           "private event",
			fakeErr:        domain.ErrVisibilityMismatch,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invitation only",
		},
		{
			name:           "duplicate request",
			fakeErr:        domain.ErrAlreadyRequested,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "already requested",
		},
		{
			name:           "service error",
			fakeErr:        errors.New("db error"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRSVPService{
				requestToJoinErr:    tt.fakeErr,
				requestToJoinResult: &domain.RSVP{ID: "rsvp-1", EventID: "ev-1", UserID: "user-123", Status: domain.RSVPStatusPending},
			}
			ctrl := NewRSVPController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/events/ev-1/rsvps", nil)
			req.SetPathValue("eventID", "ev-1")
			if !tt.noActor {
				req = req.WithContext(middleware.SetActor(req.Context(), domain.Actor{UserID: "user-123", Role: domain.RoleUser}))
			}
			rr := httptest.NewRecorder()

			ctrl.RequestToJoin(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
			if tt.wantStatus == http.StatusCreated {
				require.Nil(t, envelope.Error, "success response must have error nil")
				assert.Equal(t, "ev-1", fake.lastRequestEventID)
				assert.Equal(t, "user-123", fake.lastRequestCallerID)
				dataBytes, err := json.Marshal(envelope.Data)
				require.NoError(t, err)
				var rsvp domain.RSVP
				require.NoError(t, json.Unmarshal(dataBytes, &rsvp))
				assert.Equal(t, domain.RSVPStatusPending, rsvp.Status)
			} else {
				require.NotNil(t, envelope.Error, "error response must have error set")
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr, "error message")
			}
		})
	}
}

func TestRSVPController_Invite(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"email":"guest@example.com"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:           "invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid",
		},
		{
			name:           "missing email",
			body:           `{}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "email is required",
		},
		{
			name:           "malformed email",
			body:           `{"email":"not-an-email"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid email format",
		},
		{
			name:           "not the organizer",
			body:           `{"email":"guest@example.com"}`,
			fakeErr:        domain.ErrForbidden,
			wantStatus:     http.StatusForbidden,
			wantBodySubstr: "forbidden",
		},
		{
			name:           "public event",
			body:           `{"email":"guest@example.com"}`,
			fakeErr:        domain.ErrVisibilityMismatch,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "open to join requests",
		},
		{
			name:           "event expired",
			body:           `{"email":"guest@example.com"}`,
			fakeErr:        domain.ErrEventExpired,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "already taken place",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRSVPService{inviteErr: tt.fakeErr}
			ctrl := NewRSVPController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "http://test/events/ev-1/invite", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("eventID", "ev-1")
			req = req.WithContext(middleware.SetActor(req.Context(), domain.Actor{UserID: "org-1", Role: domain.RoleOrganizer}))
			rr := httptest.NewRecorder()

			ctrl.Invite(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "guest@example.com", fake.lastInviteEmail)
				assert.Equal(t, "org-1", fake.lastInviteActor.UserID)
			} else {
				require.NotNil(t, envelope.Error)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr, "error message")
			}
		})
	}
}

func TestRSVPController_Decide(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
		wantDecided    domain.RSVPStatus
	}{
		{
			name:        "accept",
			body:        `{"status":"going"}`,
			wantStatus:  http.StatusOK,
			wantDecided: domain.RSVPStatusGoing,
		},
		{
			name:        "status is lowercased",
			body:        `{"status":"Rejected"}`,
			wantStatus:  http.StatusOK,
			wantDecided: domain.RSVPStatusRejected,
		},
		{
			name:           "missing status",
			body:           `{}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "status is required",
		},
		{
			name:           "invalid status",
			body:           `{"status":"maybe"}`,
			fakeErr:        domain.ErrInvalidStatus,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: `status must be "going" or "rejected"`,
		},
		{
			name:           "not the organizer",
			body:           `{"status":"going"}`,
			fakeErr:        domain.ErrForbidden,
			wantStatus:     http.StatusForbidden,
			wantBodySubstr: "forbidden",
		},
		{
			name:           "rsvp not found",
			body:           `{"status":"going"}`,
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "rsvp not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRSVPService{
				decideErr:    tt.fakeErr,
				decideResult: &domain.RSVP{ID: "rsvp-1", Status: tt.wantDecided},
			}
			ctrl := NewRSVPController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPatch, "http://test/rsvps/rsvp-1", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			req.SetPathValue("rsvpID", "rsvp-1")
			req = req.WithContext(middleware.SetActor(req.Context(), domain.Actor{UserID: "org-1", Role: domain.RoleOrganizer}))
			rr := httptest.NewRecorder()

			ctrl.Decide(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "rsvp-1", fake.lastDecideRSVPID)
				assert.Equal(t, tt.wantDecided, fake.lastDecideStatus)
			} else {
				require.NotNil(t, envelope.Error)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr, "error message")
			}
		})
	}
}

func TestRSVPController_AcceptInvite(t *testing.T) {
	tests := []struct {
		name           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			wantStatus: http.StatusOK,
		},
		{
			name:           "unknown rsvp",
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "invitation not found",
		},
		{
			name:           "already handled",
			fakeErr:        domain.ErrAlreadyHandled,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "already handled",
		},
		{
			name:           "event expired",
			fakeErr:        domain.ErrEventExpired,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "already taken place",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeRSVPService{acceptInviteErr: tt.fakeErr}
			ctrl := NewRSVPController(testLogger, fake)
			// No actor in context: accept links are followed from email, unauthenticated.
			req := httptest.NewRequest(http.MethodGet, "http://test/rsvps/accept/rsvp-1", nil)
			req.SetPathValue("rsvpID", "rsvp-1")
			rr := httptest.NewRecorder()

			ctrl.AcceptInvite(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantStatus == http.StatusOK {
				require.Nil(t, envelope.Error)
				assert.Equal(t, "rsvp-1", fake.lastAcceptRSVPID)
				dataMap, ok := envelope.Data.(map[string]interface{})
				require.True(t, ok, "data must be object")
				assert.Equal(t, "invitation accepted", dataMap["status"])
			} else {
				require.NotNil(t, envelope.Error)
				assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr, "error message")
			}
		})
	}
}

func TestRSVPController_List(t *testing.T) {
	t.Run("returns items with pagination meta", func(t *testing.T) {
		fake := &fakeRSVPService{
			listResult: []*domain.RSVP{{ID: "rsvp-1"}, {ID: "rsvp-2"}},
			listTotal:  42,
		}
		ctrl := NewRSVPController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "http://test/rsvps?page=2&page_size=10", nil)
		req = req.WithContext(middleware.SetActor(req.Context(), domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}))
		rr := httptest.NewRecorder()

		ctrl.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, 2, fake.lastListParams.Page)
		assert.Equal(t, 10, fake.lastListParams.PageSize)

		var envelope helpers.APIResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
		require.Nil(t, envelope.Error)
		dataBytes, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var resp ListRSVPsResponse
		require.NoError(t, json.Unmarshal(dataBytes, &resp))
		assert.Len(t, resp.Items, 2)
		assert.Equal(t, 42, resp.Pagination.Total)
		assert.Equal(t, 5, resp.Pagination.TotalPages)
	})

	t.Run("forbidden for non-admin", func(t *testing.T) {
		fake := &fakeRSVPService{listErr: domain.ErrForbidden}
		ctrl := NewRSVPController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "http://test/rsvps", nil)
		req = req.WithContext(middleware.SetActor(req.Context(), domain.Actor{UserID: "user-1", Role: domain.RoleUser}))
		rr := httptest.NewRecorder()

		ctrl.List(rr, req)

		require.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("nil items serialize as empty array", func(t *testing.T) {
		fake := &fakeRSVPService{}
		ctrl := NewRSVPController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "http://test/rsvps", nil)
		req = req.WithContext(middleware.SetActor(req.Context(), domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}))
		rr := httptest.NewRecorder()

		ctrl.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"items":[]`)
	})
}
