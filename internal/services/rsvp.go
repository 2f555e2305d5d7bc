package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventhub/internal/domain"
)

type rsvpService struct {
	rsvpRepo     domain.RSVPRepository
	eventRepo    domain.EventRepository
	userRepo     domain.UserRepository
	hasher       domain.PasswordHasher
	emailService domain.EmailService
	logger       *slog.Logger
	baseURL      string
	now          func() time.Time
}

// NewRSVPService creates an RSVPService. baseURL is used to build the accept
// link embedded in invitation emails. now is the clock; pass time.Now in
// production.
func NewRSVPService(
	rsvpRepo domain.RSVPRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	hasher domain.PasswordHasher,
	emailService domain.EmailService,
	logger *slog.Logger,
	baseURL string,
	now func() time.Time,
) domain.RSVPService {
	return &rsvpService{
		rsvpRepo:     rsvpRepo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		hasher:       hasher,
		emailService: emailService,
		logger:       logger,
		baseURL:      baseURL,
		now:          now,
	}
}

func (s *rsvpService) RequestToJoin(ctx context.Context, eventID, callerID string) (*domain.RSVP, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Expired(s.now()) {
		return nil, domain.ErrEventExpired
	}
	if event.Visibility != domain.VisibilityPublic {
		return nil, domain.ErrVisibilityMismatch
	}

	if _, err := s.rsvpRepo.GetByEventAndUser(ctx, eventID, callerID); err == nil {
		return nil, domain.ErrAlreadyRequested
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get rsvp: %w", err)
	}

	now := s.now()
	rsvp := domain.NewRSVP(eventID, callerID, now, now)
	if err := s.rsvpRepo.Create(ctx, rsvp); err != nil {
		if errors.Is(err, domain.ErrAlreadyRequested) {
			// Lost the race against a concurrent request for the same pair.
			return nil, domain.ErrAlreadyRequested
		}
		return nil, fmt.Errorf("create rsvp: %w", err)
	}
	return rsvp, nil
}

func (s *rsvpService) Invite(ctx context.Context, eventID string, actor domain.Actor, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	if !emailRegexp.MatchString(email) {
		return domain.ErrInvalidInput
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.Expired(s.now()) {
		return domain.ErrEventExpired
	}
	if event.Visibility != domain.VisibilityPrivate {
		return domain.ErrVisibilityMismatch
	}
	if err := domain.Authorize(actor, nil, event.OrganizerID); err != nil {
		return err
	}

	user, err := s.resolveInvitee(ctx, email)
	if err != nil {
		return err
	}

	// Reuse an existing RSVP so a second invite for the same pair stays a
	// no-op on storage; the notification is still re-sent.
	rsvp, err := s.rsvpRepo.GetByEventAndUser(ctx, eventID, user.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("get rsvp: %w", err)
		}
		now := s.now()
		rsvp = domain.NewRSVP(eventID, user.ID, now, now)
		if err := s.rsvpRepo.Create(ctx, rsvp); err != nil {
			if errors.Is(err, domain.ErrAlreadyRequested) {
				rsvp, err = s.rsvpRepo.GetByEventAndUser(ctx, eventID, user.ID)
				if err != nil {
					return fmt.Errorf("get rsvp after conflict: %w", err)
				}
			} else {
				return fmt.Errorf("create rsvp: %w", err)
			}
		}
	}

	data := &domain.EventInvitationEmailData{
		Email:      user.Email,
		EventTitle: event.Title,
		AcceptLink: fmt.Sprintf("%s/rsvps/accept/%s", s.baseURL, rsvp.ID),
	}
	if err := s.emailService.SendEventInvitation(ctx, data); err != nil {
		// Best-effort delivery; the invitation itself stands.
		s.logger.Error("send invitation email failed", "email", user.Email, "event_id", eventID, "err", err)
	}
	return nil
}

// resolveInvitee finds the user for email, creating a placeholder account
// with an unusable random password when the email is unknown.
func (s *rsvpService) resolveInvitee(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return nil, fmt.Errorf("generate placeholder password: %w", err)
	}
	hash, err := s.hasher.Hash(hex.EncodeToString(randomBytes))
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}

	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	now := s.now()
	user = domain.NewUser(name, email, hash, domain.RoleUser, now, now)
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			// Concurrent invite created the account first; use it.
			return s.userRepo.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("create placeholder user: %w", err)
	}
	return user, nil
}

func (s *rsvpService) Decide(ctx context.Context, rsvpID string, actor domain.Actor, status domain.RSVPStatus) (*domain.RSVP, error) {
	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get rsvp: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, rsvp.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Expired(s.now()) {
		return nil, domain.ErrEventExpired
	}
	if err := domain.Authorize(actor, nil, event.OrganizerID); err != nil {
		return nil, err
	}
	if status != domain.RSVPStatusGoing && status != domain.RSVPStatusRejected {
		return nil, domain.ErrInvalidStatus
	}

	// No pending precondition: re-deciding an already decided RSVP
	// overwrites it.
	now := s.now()
	if err := s.rsvpRepo.UpdateStatus(ctx, rsvpID, status, now); err != nil {
		return nil, fmt.Errorf("update rsvp status: %w", err)
	}
	rsvp.Status = status
	rsvp.UpdatedAt = now
	return rsvp, nil
}

func (s *rsvpService) AcceptInvite(ctx context.Context, rsvpID string) error {
	rsvp, err := s.rsvpRepo.GetByID(ctx, rsvpID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get rsvp: %w", err)
	}
	event, err := s.eventRepo.GetByID(ctx, rsvp.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.Expired(s.now()) {
		return domain.ErrEventExpired
	}
	if rsvp.Status != domain.RSVPStatusPending {
		return domain.ErrAlreadyHandled
	}
	if err := s.rsvpRepo.UpdateStatus(ctx, rsvpID, domain.RSVPStatusGoing, s.now()); err != nil {
		return fmt.Errorf("update rsvp status: %w", err)
	}
	return nil
}

func (s *rsvpService) List(ctx context.Context, actor domain.Actor, params domain.PaginationParams) ([]*domain.RSVP, int, error) {
	if err := domain.Authorize(actor, []domain.Role{domain.RoleAdmin}, ""); err != nil {
		return nil, 0, err
	}
	rsvps, total, err := s.rsvpRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list rsvps: %w", err)
	}
	return rsvps, total, nil
}

func (s *rsvpService) ListByEvent(ctx context.Context, eventID string) ([]*domain.RSVPWithUser, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	items, err := s.rsvpRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps by event: %w", err)
	}
	return items, nil
}

func (s *rsvpService) ListByUser(ctx context.Context, userID string) ([]*domain.RSVPWithEvent, error) {
	rsvps, err := s.rsvpRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps by user: %w", err)
	}

	eventsByID := make(map[string]*domain.Event)
	result := make([]*domain.RSVPWithEvent, 0, len(rsvps))
	for _, rsvp := range rsvps {
		ev, ok := eventsByID[rsvp.EventID]
		if !ok {
			ev, err = s.eventRepo.GetByID(ctx, rsvp.EventID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Event deleted but RSVP remains; skip this entry.
					continue
				}
				return nil, fmt.Errorf("get event for rsvp: %w", err)
			}
			eventsByID[rsvp.EventID] = ev
		}
		result = append(result, &domain.RSVPWithEvent{RSVP: rsvp, Event: ev})
	}
	return result, nil
}
