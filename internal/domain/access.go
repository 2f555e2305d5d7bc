package domain

// Actor is the authenticated caller an operation runs on behalf of.
// It is resolved once from the request credential and passed down.
type Actor struct {
	UserID string
	Role   Role
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// Authorize is the single policy decision for protected mutations.
// The actor passes when it is an admin, when its role is in requiredRoles,
// or when it owns the resource (ownerID non-empty and equal to the actor).
// Returns ErrForbidden otherwise. Pure; no side effects.
func Authorize(actor Actor, requiredRoles []Role, ownerID string) error {
	if actor.IsAdmin() {
		return nil
	}
	for _, r := range requiredRoles {
		if actor.Role == r {
			return nil
		}
	}
	if ownerID != "" && actor.UserID == ownerID {
		return nil
	}
	return ErrForbidden
}
