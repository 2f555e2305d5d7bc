package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventhub/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, title, description, category, venue, date, time, capacity, visibility, image_path, like_count, organizer_id, created_at, updated_at`

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, category, venue, date, time, capacity, visibility, image_path, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	var imageNull sql.NullString
	if e.ImagePath != "" {
		imageNull = sql.NullString{String: e.ImagePath, Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Category, e.Venue, e.Date, e.Time, e.Capacity,
		string(e.Visibility), imageNull, e.OrganizerID, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1
	`
	e, err := scanEventRow(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListVisible(ctx context.Context, callerID string, filter domain.EventFilter) ([]*domain.Event, error) {
	where := []string{}
	args := []interface{}{}
	n := 1

	if callerID != "" {
		where = append(where, fmt.Sprintf("(visibility = 'public' OR organizer_id = $%d)", n))
		args = append(args, callerID)
		n++
	} else {
		where = append(where, "visibility = 'public'")
	}
	if filter.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", n))
		args = append(args, filter.Category)
		n++
	}
	if filter.Date != nil {
		where = append(where, fmt.Sprintf("date::date = $%d::date", n))
		args = append(args, *filter.Date)
		n++
	}
	if filter.Venue != "" {
		where = append(where, fmt.Sprintf("venue = $%d", n))
		args = append(args, filter.Venue)
		n++
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM events
		WHERE %s
		ORDER BY date ASC
	`, eventColumns, strings.Join(where, " AND "))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, changes domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if changes.Title != nil {
		add("title", *changes.Title)
	}
	if changes.Description != nil {
		add("description", *changes.Description)
	}
	if changes.Category != nil {
		add("category", *changes.Category)
	}
	if changes.Venue != nil {
		add("venue", *changes.Venue)
	}
	if changes.Date != nil {
		add("date", *changes.Date)
	}
	if changes.Time != nil {
		add("time", *changes.Time)
	}
	if changes.Capacity != nil {
		add("capacity", *changes.Capacity)
	}
	if changes.Visibility != nil {
		add("visibility", string(*changes.Visibility))
	}
	if changes.ImagePath != nil {
		add("image_path", *changes.ImagePath)
	}
	if n == 1 {
		// No fields to update; just fetch current row
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)

	e, err := scanEventRow(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
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

func scanEventRow(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var visibility string
	var imageNull sql.NullString
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Category, &e.Venue, &e.Date, &e.Time,
		&e.Capacity, &visibility, &imageNull, &e.LikeCount, &e.OrganizerID,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	e.Visibility = domain.Visibility(visibility)
	if imageNull.Valid {
		e.ImagePath = imageNull.String
	}
	return e, nil
}
