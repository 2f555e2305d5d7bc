package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"eventhub/internal/domain"
)

const (
	minPasswordLen   = 8
	resetTokenExpiry = 15 * time.Minute
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	userRepo      domain.UserRepository
	hasher        domain.PasswordHasher
	tokenIssuer   domain.TokenIssuer
	tokenVerifier domain.TokenVerifier
	tokenExpiry   time.Duration
	emailService  domain.EmailService
	logger        *slog.Logger
	baseURL       string
}

// NewAuthService creates an AuthService with the given repositories and auth
// ports. The verifier is used for password reset tokens.
func NewAuthService(
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	tokenIssuer domain.TokenIssuer,
	tokenVerifier domain.TokenVerifier,
	tokenExpiry time.Duration,
	emailService domain.EmailService,
	logger *slog.Logger,
	baseURL string,
) domain.AuthService {
	return &authService{
		userRepo:      userRepo,
		hasher:        hasher,
		tokenIssuer:   tokenIssuer,
		tokenVerifier: tokenVerifier,
		tokenExpiry:   tokenExpiry,
		emailService:  emailService,
		logger:        logger,
		baseURL:       baseURL,
	}
}

func (s *authService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || !emailRegexp.MatchString(email) {
		return nil, "", domain.ErrInvalidInput
	}
	if len(password) < minPasswordLen {
		return nil, "", domain.ErrInvalidInput
	}
	// Self-registration never grants admin.
	if role != domain.RoleOrganizer {
		role = domain.RoleUser
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := domain.NewUser(name, email, hash, role, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, "", domain.ErrDuplicateEmail
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokenIssuer.Issue(user.ID, user.Role, s.tokenExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	token, err := s.tokenIssuer.Issue(user.ID, user.Role, s.tokenExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	return user, token, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get user: %w", err)
	}

	token, err := s.tokenIssuer.Issue(user.ID, user.Role, resetTokenExpiry)
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}

	data := &domain.PasswordResetEmailData{
		Email:     user.Email,
		ResetLink: fmt.Sprintf("%s/auth/reset-password/%s", s.baseURL, token),
	}
	if err := s.emailService.SendPasswordReset(ctx, data); err != nil {
		// Best-effort delivery, same as invitations.
		s.logger.Error("send password reset email failed", "email", user.Email, "err", err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || len(newPassword) < minPasswordLen {
		return domain.ErrInvalidInput
	}
	actor, err := s.tokenVerifier.Verify(token)
	if err != nil {
		return domain.ErrInvalidCredentials
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, actor.UserID, hash); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
