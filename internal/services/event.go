package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
)

type eventService struct {
	eventRepo   domain.EventRepository
	rsvpRepo    domain.RSVPRepository
	commentRepo domain.CommentRepository
	likeRepo    domain.EventLikeRepository
	now         func() time.Time
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(
	eventRepo domain.EventRepository,
	rsvpRepo domain.RSVPRepository,
	commentRepo domain.CommentRepository,
	likeRepo domain.EventLikeRepository,
	now func() time.Time,
) domain.EventService {
	return &eventService{
		eventRepo:   eventRepo,
		rsvpRepo:    rsvpRepo,
		commentRepo: commentRepo,
		likeRepo:    likeRepo,
		now:         now,
	}
}

func (s *eventService) Create(ctx context.Context, actor domain.Actor, event *domain.Event) error {
	if err := domain.Authorize(actor, []domain.Role{domain.RoleOrganizer}, ""); err != nil {
		return err
	}
	event.Title = strings.TrimSpace(event.Title)
	if event.Title == "" || event.Date.IsZero() {
		return domain.ErrInvalidInput
	}
	if event.Visibility != domain.VisibilityPrivate {
		event.Visibility = domain.VisibilityPublic
	}
	event.OrganizerID = actor.UserID
	now := s.now()
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

func (s *eventService) List(ctx context.Context, callerID string, filter domain.EventFilter) ([]*domain.Event, error) {
	events, err := s.eventRepo.ListVisible(ctx, callerID, filter)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (s *eventService) Get(ctx context.Context, eventID string) (*domain.EventDetail, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	rsvps, err := s.rsvpRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list rsvps: %w", err)
	}
	if rsvps == nil {
		rsvps = []*domain.RSVPWithUser{}
	}
	comments, err := s.commentRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	return &domain.EventDetail{
		Event:    event,
		RSVPs:    rsvps,
		Comments: comments,
	}, nil
}

func (s *eventService) Update(ctx context.Context, eventID string, actor domain.Actor, changes domain.EventUpdate) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := domain.Authorize(actor, nil, event.OrganizerID); err != nil {
		return nil, err
	}
	updated, err := s.eventRepo.Update(ctx, eventID, changes)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) Delete(ctx context.Context, eventID string, actor domain.Actor) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if err := domain.Authorize(actor, nil, event.OrganizerID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) Like(ctx context.Context, eventID, userID string) (int, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get event: %w", err)
	}
	count, err := s.likeRepo.Like(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyLiked) || errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("like event: %w", err)
	}
	return count, nil
}

func (s *eventService) Unlike(ctx context.Context, eventID, userID string) (int, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get event: %w", err)
	}
	count, err := s.likeRepo.Unlike(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotLiked) || errors.Is(err, domain.ErrNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("unlike event: %w", err)
	}
	return count, nil
}
