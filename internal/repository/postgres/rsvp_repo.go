package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventhub/internal/domain"
	"github.com/lib/pq"
)

type rsvpRepository struct {
	DB *sql.DB
}

func NewRSVPRepository(db *sql.DB) domain.RSVPRepository {
	return &rsvpRepository{
		DB: db,
	}
}

func (r *rsvpRepository) Create(ctx context.Context, rsvp *domain.RSVP) error {
	query := `
		INSERT INTO rsvps (event_id, user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, rsvp.EventID, rsvp.UserID, string(rsvp.Status), rsvp.CreatedAt, rsvp.UpdatedAt).
		Scan(&rsvp.ID)
	if err != nil {
		// The unique index on (event_id, user_id) is the source of truth
		// under concurrent creates for the same pair.
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return domain.ErrAlreadyRequested
		}
		return err
	}
	return nil
}

func (r *rsvpRepository) GetByID(ctx context.Context, id string) (*domain.RSVP, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM rsvps
		WHERE id = $1
	`
	return r.scanRSVP(r.DB.QueryRowContext(ctx, query, id))
}

func (r *rsvpRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.RSVP, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM rsvps
		WHERE event_id = $1 AND user_id = $2
	`
	return r.scanRSVP(r.DB.QueryRowContext(ctx, query, eventID, userID))
}

func (r *rsvpRepository) UpdateStatus(ctx context.Context, id string, status domain.RSVPStatus, updatedAt time.Time) error {
	query := `
		UPDATE rsvps SET status = $1, updated_at = $2
		WHERE id = $3
	`
	result, err := r.DB.ExecContext(ctx, query, string(status), updatedAt, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *rsvpRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.RSVP, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM rsvps`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM rsvps
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	rsvps, err := collectRSVPs(rows)
	if err != nil {
		return nil, 0, err
	}
	return rsvps, total, nil
}

func (r *rsvpRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.RSVPWithUser, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.status, r.created_at, r.updated_at,
		       u.id, u.name, u.email
		FROM rsvps r
		JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.RSVPWithUser, 0)
	for rows.Next() {
		rsvp := &domain.RSVP{}
		user := &domain.UserSummary{}
		var status string
		if err := rows.Scan(
			&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &status, &rsvp.CreatedAt, &rsvp.UpdatedAt,
			&user.ID, &user.Name, &user.Email,
		); err != nil {
			return nil, err
		}
		rsvp.Status = domain.RSVPStatus(status)
		items = append(items, &domain.RSVPWithUser{RSVP: rsvp, User: user})
	}
	return items, rows.Err()
}

func (r *rsvpRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.RSVP, error) {
	query := `
		SELECT id, event_id, user_id, status, created_at, updated_at
		FROM rsvps
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRSVPs(rows)
}

func (r *rsvpRepository) scanRSVP(row rowScanner) (*domain.RSVP, error) {
	rsvp := &domain.RSVP{}
	var status string
	err := row.Scan(&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &status, &rsvp.CreatedAt, &rsvp.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	rsvp.Status = domain.RSVPStatus(status)
	return rsvp, nil
}

func collectRSVPs(rows *sql.Rows) ([]*domain.RSVP, error) {
	rsvps := make([]*domain.RSVP, 0)
	for rows.Next() {
		rsvp := &domain.RSVP{}
		var status string
		if err := rows.Scan(&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &status, &rsvp.CreatedAt, &rsvp.UpdatedAt); err != nil {
			return nil, err
		}
		rsvp.Status = domain.RSVPStatus(status)
		rsvps = append(rsvps, rsvp)
	}
	return rsvps, rows.Err()
}
