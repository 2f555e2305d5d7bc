package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"eventhub/internal/domain"
	"github.com/lib/pq"
)

type eventLikeRepository struct {
	DB *sql.DB
}

// NewEventLikeRepository returns a domain.EventLikeRepository implemented
// with Postgres. The ledger row and the denormalized like count change are
// applied in one transaction.
func NewEventLikeRepository(db *sql.DB) domain.EventLikeRepository {
	return &eventLikeRepository{DB: db}
}

func (r *eventLikeRepository) Like(ctx context.Context, eventID, userID string) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	insert := `
		INSERT INTO event_likes (event_id, user_id)
		VALUES ($1, $2)
	`
	if _, err := tx.ExecContext(ctx, insert, eventID, userID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				return 0, domain.ErrAlreadyLiked
			case "23503":
				return 0, domain.ErrNotFound
			}
		}
		return 0, err
	}

	update := `
		UPDATE events SET like_count = like_count + 1
		WHERE id = $1
		RETURNING like_count
	`
	var count int
	if err := tx.QueryRowContext(ctx, update, eventID).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return count, nil
}

func (r *eventLikeRepository) Unlike(ctx context.Context, eventID, userID string) (int, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	del := `
		DELETE FROM event_likes
		WHERE event_id = $1 AND user_id = $2
	`
	result, err := tx.ExecContext(ctx, del, eventID, userID)
	if err != nil {
		return 0, err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return 0, domain.ErrNotLiked
	}

	// Clamp at zero in case the counter ever disagreed with the ledger.
	update := `
		UPDATE events SET like_count = GREATEST(like_count - 1, 0)
		WHERE id = $1
		RETURNING like_count
	`
	var count int
	if err := tx.QueryRowContext(ctx, update, eventID).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return count, nil
}
