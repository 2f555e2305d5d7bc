package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

const maxImageUploadBytes = 5 << 20

// CreateEventRequest is the request body for POST /events (JSON variant).
// With multipart/form-data the same fields are sent as form values plus an
// optional "image" file part.
type CreateEventRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Venue       string `json:"venue"`
	Date        string `json:"date"` // RFC 3339 or YYYY-MM-DD
	Time        string `json:"time"`
	Capacity    int    `json:"capacity"`
	Visibility  string `json:"visibility"` // "public" (default) or "private"
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.Date == "" {
		errs = append(errs, "date is required")
	} else if _, err := parseEventDate(c.Date); err != nil {
		errs = append(errs, "date must be RFC 3339 or YYYY-MM-DD")
	}
	if c.Capacity < 0 {
		errs = append(errs, "capacity must be non-negative")
	}
	if c.Visibility != "" && c.Visibility != string(domain.VisibilityPublic) && c.Visibility != string(domain.VisibilityPrivate) {
		errs = append(errs, "visibility must be \"public\" or \"private\"")
	}
	return errs
}

// parseEventDate accepts RFC 3339 timestamps and bare YYYY-MM-DD dates.
func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

type EventController struct {
	Logger     *slog.Logger
	Service    domain.EventService
	ImageStore domain.ImageStore
}

func NewEventController(logger *slog.Logger, svc domain.EventService, images domain.ImageStore) *EventController {
	return &EventController{
		Logger:     logger,
		Service:    svc,
		ImageStore: images,
	}
}

// Create godoc
// @Summary Create a new event
// @Description Create an event. Accepts JSON or multipart/form-data; the multipart form may include an "image" file part. Only organizers (or admins) can create. The authenticated user becomes the organizer.
// @Tags events
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not an organizer)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}

	var req CreateEventRequest
	imagePath := ""
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImageUploadBytes); err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid multipart form")
			return
		}
		capacity := 0
		if v := r.FormValue("capacity"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "capacity must be an integer")
				return
			}
			capacity = n
		}
		req = CreateEventRequest{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			Category:    r.FormValue("category"),
			Venue:       r.FormValue("venue"),
			Date:        r.FormValue("date"),
			Time:        r.FormValue("time"),
			Capacity:    capacity,
			Visibility:  r.FormValue("visibility"),
		}
		if errs := req.Validate(); len(errs) > 0 {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, strings.Join(errs, "; "))
			return
		}
		file, header, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			path, err := c.ImageStore.Save(header.Filename, header.Header.Get("Content-Type"), file)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidInput) {
					helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "image must be an image file")
					return
				}
				c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
				helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
				return
			}
			imagePath = path
		} else if err != http.ErrMissingFile {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid image part")
			return
		}
	} else {
		if !helpers.DecodeAndValidate(w, r, &req) {
			return
		}
	}

	date, err := parseEventDate(req.Date)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date must be RFC 3339 or YYYY-MM-DD")
		return
	}
	event := &domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Venue:       req.Venue,
		Date:        date,
		Time:        req.Time,
		Capacity:    req.Capacity,
		Visibility:  domain.Visibility(req.Visibility),
		ImagePath:   imagePath,
	}
	if err := c.Service.Create(r.Context(), actor, event); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "only organizers can create events")
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
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// List godoc
// @Summary List visible events
// @Description Returns public events plus private events the caller organizes. Optional category, date (YYYY-MM-DD), and venue query filters. Requires authentication.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param category query string false "Filter by category (exact match)"
// @Param date query string false "Filter by calendar date (YYYY-MM-DD)"
// @Param venue query string false "Filter by venue (exact match)"
// @Success 200 {object} helpers.APIResponse "data is an array of events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	filter := domain.EventFilter{
		Category: strings.TrimSpace(r.URL.Query().Get("category")),
		Venue:    strings.TrimSpace(r.URL.Query().Get("venue")),
	}
	if d := r.URL.Query().Get("date"); d != "" {
		t, err := time.Parse("2006-01-02", d)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "date filter must be YYYY-MM-DD")
			return
		}
		filter.Date = &t
	}
	events, err := c.Service.List(r.Context(), actor.UserID, filter)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

// Get godoc
// @Summary Get an event by ID
// @Description Returns the event together with its RSVPs (with user summaries) and its comments. Requires authentication.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains event, rsvps, and comments"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	detail, err := c.Service.Get(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, detail)
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}. All fields optional; omitted fields are unchanged.
type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Venue       *string `json:"venue"`
	Date        *string `json:"date"`
	Time        *string `json:"time"`
	Capacity    *int    `json:"capacity"`
	Visibility  *string `json:"visibility"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Date != nil {
		if _, err := parseEventDate(*u.Date); err != nil {
			errs = append(errs, "date must be RFC 3339 or YYYY-MM-DD")
		}
	}
	if u.Capacity != nil && *u.Capacity < 0 {
		errs = append(errs, "capacity must be non-negative")
	}
	if u.Visibility != nil && *u.Visibility != string(domain.VisibilityPublic) && *u.Visibility != string(domain.VisibilityPrivate) {
		errs = append(errs, "visibility must be \"public\" or \"private\"")
	}
	return errs
}

// Update godoc
// @Summary Update event details
// @Description Updates event fields. Only the organizer (or an admin) can update. Optional fields omitted from body are unchanged. Requires authentication.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	changes := domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Venue:       req.Venue,
		Time:        req.Time,
		Capacity:    req.Capacity,
	}
	if req.Date != nil {
		d, _ := parseEventDate(*req.Date)
		changes.Date = &d
	}
	if req.Visibility != nil {
		v := domain.Visibility(*req.Visibility)
		changes.Visibility = &v
	}
	event, err := c.Service.Update(r.Context(), eventID, actor, changes)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Description Delete an event and its RSVPs, comments, and likes. Only the organizer (or an admin) can delete. Requires authentication.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not organizer)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
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
	if err := c.Service.Delete(r.Context(), eventID, actor); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrForbidden) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// LikeCountResponse is the data payload for like and unlike operations.
type LikeCountResponse struct {
	EventID   string `json:"event_id"`
	LikeCount int    `json:"like_count"`
}

// Like godoc
// @Summary Like an event
// @Description Records a like by the authenticated user. A second like of the same event returns 409. Returns the event's like count.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains event_id and like_count"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (already liked)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/like [post]
func (c *EventController) Like(w http.ResponseWriter, r *http.Request) {
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
	count, err := c.Service.Like(r.Context(), eventID, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrAlreadyLiked) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "already liked")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LikeCountResponse{EventID: eventID, LikeCount: count})
}

// Unlike godoc
// @Summary Remove a like from an event
// @Description Removes the authenticated user's like. Unliking an event the user never liked returns 409. Returns the event's like count.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains event_id and like_count"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not liked)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/like [delete]
func (c *EventController) Unlike(w http.ResponseWriter, r *http.Request) {
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
	count, err := c.Service.Unlike(r.Context(), eventID, actor.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		if errors.Is(err, domain.ErrNotLiked) {
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "not liked")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LikeCountResponse{EventID: eventID, LikeCount: count})
}
