package domain

import (
	"context"
	"time"
)

// Comment is a comment on an event. ParentID references another comment of
// the same event for replies; comments form a forest per event with no
// enforced depth limit.
// swagger:model Comment
type Comment struct {
	ID        string       `json:"id"`
	EventID   string       `json:"event_id"`
	UserID    string       `json:"user_id"`
	Text      string       `json:"text"`
	ParentID  string       `json:"parent_id,omitempty"`
	Author    *UserSummary `json:"author,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// CommentNode is a comment with its nested replies, in creation order.
type CommentNode struct {
	Comment *Comment       `json:"comment"`
	Replies []*CommentNode `json:"replies"`
}

// CommentRepository defines storage operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	GetByID(ctx context.Context, id string) (*Comment, error)
	// ListByEventID returns the event's comments with author summaries,
	// ordered by creation time ascending.
	ListByEventID(ctx context.Context, eventID string) ([]*Comment, error)
	Delete(ctx context.Context, id string) error
}

// CommentService defines comment creation, threaded retrieval, and deletion.
type CommentService interface {
	// Add creates a comment. parentID, when non-empty, must reference an
	// existing comment of the same event.
	Add(ctx context.Context, eventID, userID, text, parentID string) (*Comment, error)
	// ListThread returns the event's comments assembled into a reply tree,
	// siblings in creation order at every level.
	ListThread(ctx context.Context, eventID string) ([]*CommentNode, error)
	// Delete removes a comment. Only the author or an admin may delete.
	Delete(ctx context.Context, commentID string, actor Actor) error
}
