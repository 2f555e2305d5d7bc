package domain

import (
	"context"
	"time"
)

// Visibility controls whether any authenticated user may self-join an event
// (public) or only invited users may participate (private).
type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Event represents an event users can join, like, and comment on.
// LikeCount is denormalized; the like repository keeps it equal to the
// number of event_likes rows.
// swagger:model Event
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Venue       string     `json:"venue"`
	Date        time.Time  `json:"date"`
	Time        string     `json:"time"`
	Capacity    int        `json:"capacity"`
	Visibility  Visibility `json:"visibility"`
	ImagePath   string     `json:"image_path,omitempty"`
	LikeCount   int        `json:"like_count"`
	OrganizerID string     `json:"organizer_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Expired reports whether the event's date is strictly before now.
func (e *Event) Expired(now time.Time) bool {
	return e.Date.Before(now)
}

// VisibleTo reports whether the caller may see the event: public events are
// visible to everyone, private events only to their organizer. Admin access
// is granted at call sites via Authorize, not here.
func (e *Event) VisibleTo(callerID string) bool {
	return e.Visibility == VisibilityPublic || callerID == e.OrganizerID
}

// EventFilter narrows event listings. Zero values mean "no constraint".
type EventFilter struct {
	Category string
	Date     *time.Time
	Venue    string
}

// EventUpdate carries the mutable event fields for an update. Nil fields are
// left unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	Category    *string
	Venue       *string
	Date        *time.Time
	Time        *string
	Capacity    *int
	Visibility  *Visibility
	ImagePath   *string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// ListVisible returns events matching filter that callerID may see:
	// public events plus private events the caller organizes. Empty callerID
	// returns public events only.
	ListVisible(ctx context.Context, callerID string, filter EventFilter) ([]*Event, error)
	Update(ctx context.Context, id string, changes EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventDetail bundles an event with its RSVPs and flat comment list.
type EventDetail struct {
	Event    *Event          `json:"event"`
	RSVPs    []*RSVPWithUser `json:"rsvps"`
	Comments []*Comment      `json:"comments"`
}

// EventService defines event CRUD and the like ledger operations.
type EventService interface {
	Create(ctx context.Context, actor Actor, event *Event) error
	List(ctx context.Context, callerID string, filter EventFilter) ([]*Event, error)
	Get(ctx context.Context, eventID string) (*EventDetail, error)
	Update(ctx context.Context, eventID string, actor Actor, changes EventUpdate) (*Event, error)
	Delete(ctx context.Context, eventID string, actor Actor) error
	// Like and Unlike return the event's like count after the operation.
	Like(ctx context.Context, eventID, userID string) (int, error)
	Unlike(ctx context.Context, eventID, userID string) (int, error)
}
