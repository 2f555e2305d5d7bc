package domain

import "context"

// EventLike records that a user liked an event, at most once per
// (event, user) pair. Its existence implies the event's like_count includes
// this user's contribution.
type EventLike struct {
	ID      string `json:"id"`
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
}

// EventLikeRepository is the like ledger. Implementations must apply the
// ledger row and the denormalized events.like_count change in a single
// transaction so neither is observable without the other.
type EventLikeRepository interface {
	// Like inserts the ledger row and increments the event's like count,
	// returning the new count. A unique violation on (event_id, user_id) is
	// returned as ErrAlreadyLiked.
	Like(ctx context.Context, eventID, userID string) (int, error)
	// Unlike removes the ledger row and decrements the event's like count,
	// clamped at zero, returning the new count. Returns ErrNotLiked when no
	// ledger row exists.
	Unlike(ctx context.Context, eventID, userID string) (int, error)
}
