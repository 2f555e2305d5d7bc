package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// RequestToJoin godoc
// @Summary Request to join an event
// @Description Creates a pending RSVP for the authenticated user on a public, non-expired event. Private events require an organizer invitation instead.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 201 {object} helpers.APIResponse "data contains the pending RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (event expired or private)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already requested)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [post]
func (c *RSVPController) RequestToJoin(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvp, err := c.Service.RequestToJoin(r.Context(), eventID, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrEventExpired) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "event has already taken place")
			return
		}
		if errors.Is(err, domain.ErrVisibilityMismatch) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "private events are invitation only")
			return
		}
		if errors.Is(err, domain.ErrAlreadyRequested) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already requested")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, rsvp)
}

// InviteRequest is the request body for POST /events/{eventID}/invite.
type InviteRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (i InviteRequest) Validate() []string {
	var errs []string
	email := strings.TrimSpace(strings.ToLower(i.Email))
	if email == "" {
		errs = append(errs, "email is required")
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	return errs
}

// Invite godoc
// @Summary Invite a user to a private event
// @Description Creates (or reuses) a pending RSVP for the email's user and sends an invitation email with an accept link. Only the organizer (or an admin) can invite, and only to private, non-expired events. Unknown emails get a placeholder account. Inviting the same email twice re-sends the email against the same RSVP.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body InviteRequest true "Email to invite"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (event expired or public)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/invite [post]
func (c *RSVPController) Invite(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req InviteRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	err := c.Service.Invite(r.Context(), eventID, actor, strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrEventExpired) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "event has already taken place")
			return
		}
		if errors.Is(err, domain.ErrVisibilityMismatch) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "public events are open to join requests, not invitations")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "invitation sent"})
}

// DecideRequest is the request body for PATCH /rsvps/{rsvpID}.
type DecideRequest struct {
	Status string `json:"status"` // "going" or "rejected"
}

// Validate implements Validator.
func (d DecideRequest) Validate() []string {
	if strings.TrimSpace(d.Status) == "" {
		return []string{"status is required"}
	}
	return nil
}

// Decide godoc
// @Summary Decide an RSVP
// @Description Sets an RSVP to "going" or "rejected". Only the event organizer (or an admin) may decide. Re-deciding an already decided RSVP overwrites it.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rsvpID path string true "RSVP ID"
// @Param body body DecideRequest true "Target status"
// @Success 200 {object} helpers.APIResponse "data contains the updated RSVP"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid status or expired event)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/{rsvpID} [patch]
func (c *RSVPController) Decide(w http.ResponseWriter, r *http.Request) {
	rsvpID := r.PathValue("rsvpID")
	if rsvpID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing rsvpID")
		return
	}
	var req DecideRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvp, err := c.Service.Decide(r.Context(), rsvpID, actor, domain.RSVPStatus(strings.TrimSpace(strings.ToLower(req.Status))))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "rsvp not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		if errors.Is(err, domain.ErrInvalidStatus) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "status must be \"going\" or \"rejected\"")
			return
		}
		if errors.Is(err, domain.ErrEventExpired) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "event has already taken place")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvp)
}

// AcceptInvite godoc
// @Summary Accept an invitation
// @Description Flips a pending RSVP to "going". The link from the invitation email carries the RSVP id; possession of the id is the capability, so no authentication is required.
// @Tags rsvps
// @Produce json
// @Param rsvpID path string true "RSVP ID from the invitation link"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (event expired)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invitation already handled)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/accept/{rsvpID} [get]
func (c *RSVPController) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	rsvpID := r.PathValue("rsvpID")
	if rsvpID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing rsvpID")
		return
	}
	if err := c.Service.AcceptInvite(r.Context(), rsvpID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "invitation not found")
			return
		}
		if errors.Is(err, domain.ErrAlreadyHandled) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "invitation already handled")
			return
		}
		if errors.Is(err, domain.ErrEventExpired) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "event has already taken place")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "invitation accepted"})
}

// ListRSVPsResponse is the data payload for GET /rsvps (200).
type ListRSVPsResponse struct {
	Items      []*domain.RSVP         `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// List godoc
// @Summary List all RSVPs
// @Description Returns a paginated list of every RSVP in the system. Admin only. Use page and page_size query params.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains items and pagination"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not admin)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps [get]
func (c *RSVPController) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	rsvps, total, err := c.Service.List(r.Context(), actor, params)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if rsvps == nil {
		rsvps = []*domain.RSVP{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListRSVPsResponse{Items: rsvps, Pagination: meta})
}

// ListByEvent godoc
// @Summary List RSVPs for an event
// @Description Returns the event's RSVPs with a summary of each responding user. Requires authentication.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data is an array of RSVPs with users"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/rsvps [get]
func (c *RSVPController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	rsvps, err := c.Service.ListByEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if rsvps == nil {
		rsvps = []*domain.RSVPWithUser{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvps)
}

// ListMine godoc
// @Summary List the caller's RSVPs
// @Description Returns the authenticated user's RSVPs together with their events. RSVPs whose event has been deleted are omitted.
// @Tags rsvps
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of RSVPs with events"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvps/me [get]
func (c *RSVPController) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	rsvps, err := c.Service.ListByUser(r.Context(), actor.UserID)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if rsvps == nil {
		rsvps = []*domain.RSVPWithEvent{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rsvps)
}
