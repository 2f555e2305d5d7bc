package domain

import (
	"context"
	"time"
)

// Role is an application role. Organizers may create events; admin bypasses
// ownership checks everywhere.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleUser      Role = "user"
)

// ParseRole returns the Role for code, or RoleUser for anything unknown.
func ParseRole(code string) Role {
	switch Role(code) {
	case RoleAdmin, RoleOrganizer, RoleUser:
		return Role(code)
	default:
		return RoleUser
	}
}

// User represents a registered user. Placeholder users are created when an
// organizer invites an email that is not registered yet; they carry an
// unusable random password until the person signs up properly.
// swagger:model User
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	OTP          string     `json:"-"`
	OTPExpiresAt *time.Time `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NewUser returns a new User. ID is set by the repository on create.
func NewUser(name, email, passwordHash string, role Role, createdAt, updatedAt time.Time) *User {
	return &User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
	}
}

// PasswordHasher handles hashing and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	Hash(password string) (hash string, err error)
	Compare(hash, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID string, role Role, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated actor.
type TokenVerifier interface {
	Verify(token string) (Actor, error)
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}

// AuthService defines registration and credential flows.
type AuthService interface {
	Register(ctx context.Context, name, email, password string, role Role) (*User, string, error)
	Login(ctx context.Context, email, password string) (*User, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// UserService defines user lookup operations.
type UserService interface {
	List(ctx context.Context, actor Actor) ([]*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
