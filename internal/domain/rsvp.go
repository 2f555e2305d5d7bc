package domain

import (
	"context"
	"time"
)

// RSVPStatus is a user's relationship to an event. Pending is the only
// non-terminal status this system creates; interested and not_going exist in
// the schema for forward compatibility and have no operation that sets them.
type RSVPStatus string

const (
	RSVPStatusPending    RSVPStatus = "pending"
	RSVPStatusGoing      RSVPStatus = "going"
	RSVPStatusRejected   RSVPStatus = "rejected"
	RSVPStatusInterested RSVPStatus = "interested"
	RSVPStatusNotGoing   RSVPStatus = "not_going"
)

// RSVP is a user's response record for an event. At most one exists per
// (event, user) pair; the database unique index is the source of truth
// under concurrent creates.
// swagger:model RSVP
type RSVP struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	UserID    string     `json:"user_id"`
	Status    RSVPStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewRSVP returns a pending RSVP. ID is set by the repository on create.
func NewRSVP(eventID, userID string, createdAt, updatedAt time.Time) *RSVP {
	return &RSVP{
		EventID:   eventID,
		UserID:    userID,
		Status:    RSVPStatusPending,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// RSVPWithUser bundles an RSVP with a summary of the responding user.
type RSVPWithUser struct {
	RSVP *RSVP        `json:"rsvp"`
	User *UserSummary `json:"user"`
}

// RSVPWithEvent bundles an RSVP with its event.
type RSVPWithEvent struct {
	RSVP  *RSVP  `json:"rsvp"`
	Event *Event `json:"event"`
}

// UserSummary is the public slice of a user embedded in listings.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RSVPRepository defines storage operations for RSVPs.
type RSVPRepository interface {
	// Create persists a new RSVP. A unique violation on (event_id, user_id)
	// is returned as ErrAlreadyRequested.
	Create(ctx context.Context, rsvp *RSVP) error
	GetByID(ctx context.Context, id string) (*RSVP, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*RSVP, error)
	UpdateStatus(ctx context.Context, id string, status RSVPStatus, updatedAt time.Time) error
	// List returns a page of all RSVPs plus the total count.
	List(ctx context.Context, params PaginationParams) ([]*RSVP, int, error)
	ListByEventID(ctx context.Context, eventID string) ([]*RSVPWithUser, error)
	ListByUserID(ctx context.Context, userID string) ([]*RSVP, error)
}

// RSVPService governs the RSVP/invitation lifecycle:
// none -> pending -> going | rejected.
type RSVPService interface {
	// RequestToJoin creates a pending RSVP for the caller on a public,
	// non-expired event.
	RequestToJoin(ctx context.Context, eventID, callerID string) (*RSVP, error)
	// Invite creates (or reuses) a pending RSVP for the email's user on a
	// private, non-expired event the actor may manage, then sends an
	// invitation email carrying an accept link keyed by the RSVP id. The
	// target user is created as a placeholder when the email is unknown.
	Invite(ctx context.Context, eventID string, actor Actor, email string) error
	// Decide sets an RSVP to going or rejected. Re-deciding an already
	// decided RSVP overwrites it.
	Decide(ctx context.Context, rsvpID string, actor Actor, status RSVPStatus) (*RSVP, error)
	// AcceptInvite flips a pending RSVP to going. Possession of the RSVP id
	// is the capability; no caller identity is checked.
	AcceptInvite(ctx context.Context, rsvpID string) error

	// List returns a page of all RSVPs plus the total count. Admin only.
	List(ctx context.Context, actor Actor, params PaginationParams) ([]*RSVP, int, error)
	ListByEvent(ctx context.Context, eventID string) ([]*RSVPWithUser, error)
	ListByUser(ctx context.Context, userID string) ([]*RSVPWithEvent, error)
}
