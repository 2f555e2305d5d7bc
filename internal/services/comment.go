package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
)

type commentService struct {
	commentRepo domain.CommentRepository
	eventRepo   domain.EventRepository
	now         func() time.Time
}

// NewCommentService creates a CommentService with the given repositories.
func NewCommentService(commentRepo domain.CommentRepository, eventRepo domain.EventRepository, now func() time.Time) domain.CommentService {
	return &commentService{
		commentRepo: commentRepo,
		eventRepo:   eventRepo,
		now:         now,
	}
}

func (s *commentService) Add(ctx context.Context, eventID, userID, text, parentID string) (*domain.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" || eventID == "" {
		return nil, domain.ErrInvalidInput
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if parentID != "" {
		parent, err := s.commentRepo.GetByID(ctx, parentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrInvalidInput
			}
			return nil, fmt.Errorf("get parent comment: %w", err)
		}
		// A reply must stay inside its parent's event.
		if parent.EventID != eventID {
			return nil, domain.ErrInvalidInput
		}
	}

	comment := &domain.Comment{
		EventID:   eventID,
		UserID:    userID,
		Text:      text,
		ParentID:  parentID,
		CreatedAt: s.now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

func (s *commentService) ListThread(ctx context.Context, eventID string) ([]*domain.CommentNode, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	comments, err := s.commentRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return BuildCommentTree(comments), nil
}

// BuildCommentTree assembles flat comments, ordered by creation time, into a
// reply forest. Siblings keep their input order at every level. Comments are
// indexed by parent id once, so assembly is linear in the number of comments.
func BuildCommentTree(comments []*domain.Comment) []*domain.CommentNode {
	children := make(map[string][]*domain.Comment, len(comments))
	for _, c := range comments {
		children[c.ParentID] = append(children[c.ParentID], c)
	}
	return buildSubtree(children, "")
}

func buildSubtree(children map[string][]*domain.Comment, parentID string) []*domain.CommentNode {
	nodes := make([]*domain.CommentNode, 0, len(children[parentID]))
	for _, c := range children[parentID] {
		nodes = append(nodes, &domain.CommentNode{
			Comment: c,
			Replies: buildSubtree(children, c.ID),
		})
	}
	return nodes
}

func (s *commentService) Delete(ctx context.Context, commentID string, actor domain.Actor) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get comment: %w", err)
	}
	if err := domain.Authorize(actor, nil, comment.UserID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, commentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
