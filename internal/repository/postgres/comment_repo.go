package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventhub/internal/domain"
)

type commentRepository struct {
	DB *sql.DB
}

func NewCommentRepository(db *sql.DB) domain.CommentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.Comment) error {
	query := `
		INSERT INTO comments (event_id, user_id, text, parent_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	var parentNull sql.NullString
	if c.ParentID != "" {
		parentNull = sql.NullString{String: c.ParentID, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query, c.EventID, c.UserID, c.Text, parentNull, c.CreatedAt).
		Scan(&c.ID)
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `
		SELECT id, event_id, user_id, text, parent_id, created_at
		FROM comments
		WHERE id = $1
	`
	c := &domain.Comment{}
	var parentNull sql.NullString
	err := r.DB.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.EventID, &c.UserID, &c.Text, &parentNull, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if parentNull.Valid {
		c.ParentID = parentNull.String
	}
	return c, nil
}

func (r *commentRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Comment, error) {
	query := `
		SELECT c.id, c.event_id, c.user_id, c.text, c.parent_id, c.created_at,
		       u.id, u.name, u.email
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.event_id = $1
		ORDER BY c.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		c := &domain.Comment{Author: &domain.UserSummary{}}
		var parentNull sql.NullString
		if err := rows.Scan(
			&c.ID, &c.EventID, &c.UserID, &c.Text, &parentNull, &c.CreatedAt,
			&c.Author.ID, &c.Author.Name, &c.Author.Email,
		); err != nil {
			return nil, err
		}
		if parentNull.Valid {
			c.ParentID = parentNull.String
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM comments WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
