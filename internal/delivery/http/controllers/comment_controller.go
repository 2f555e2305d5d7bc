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

// AddCommentRequest is the request body for POST /events/{eventID}/comments.
// parent_id, when present, must reference a comment of the same event.
type AddCommentRequest struct {
	Text     string `json:"text"`
	ParentID string `json:"parent_id"`
}

// Validate implements Validator.
func (a AddCommentRequest) Validate() []string {
	if strings.TrimSpace(a.Text) == "" {
		return []string{"text is required"}
	}
	return nil
}

type CommentController struct {
	Logger  *slog.Logger
	Service domain.CommentService
}

func NewCommentController(logger *slog.Logger, svc domain.CommentService) *CommentController {
	return &CommentController{
		Logger:  logger,
		Service: svc,
	}
}

// Add godoc
// @Summary Comment on an event
// @Description Adds a comment, optionally as a reply to another comment of the same event. Requires authentication.
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body AddCommentRequest true "Comment text and optional parent_id"
// @Success 201 {object} helpers.APIResponse "data contains the created comment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (missing text or parent from another event)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (event or parent comment)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/comments [post]
func (c *CommentController) Add(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req AddCommentRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	comment, err := c.Service.Add(r.Context(), eventID, actor.UserID, req.Text, req.ParentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event or parent comment not found")
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
	helpers.WriteJSONSuccess(w, http.StatusCreated, comment)
}

// ListThread godoc
// @Summary List an event's comments as a thread
// @Description Returns the event's comments assembled into a reply tree. Siblings are ordered by creation time at every level. Requires authentication.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data is an array of root comments with nested replies"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/comments [get]
func (c *CommentController) ListThread(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	thread, err := c.Service.ListThread(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if thread == nil {
		thread = []*domain.CommentNode{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, thread)
}

// Delete godoc
// @Summary Delete a comment
// @Description Deletes a comment. Only the author (or an admin) can delete. Replies to the deleted comment are removed with it.
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param commentID path string true "Comment ID"
// @Success 200 {object} helpers.APIResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not author)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /comments/{commentID} [delete]
func (c *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	commentID := r.PathValue("commentID")
	if commentID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing commentID")
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), commentID, actor); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "comment not found")
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
