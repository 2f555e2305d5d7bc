package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// status codes; services wrap unexpected collaborator failures with
// fmt.Errorf so the sentinels stay matchable via errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already in use")

	ErrEventExpired       = errors.New("event date has passed")
	ErrVisibilityMismatch = errors.New("event visibility does not allow this")

	ErrAlreadyRequested = errors.New("already requested or invited")
	ErrAlreadyHandled   = errors.New("invite already handled")
	ErrInvalidStatus    = errors.New("invalid rsvp status")

	ErrAlreadyLiked = errors.New("event already liked")
	ErrNotLiked     = errors.New("event not liked")
)
