package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventhub/internal/domain"
)

func eventRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "description", "category", "venue", "date", "time", "capacity",
		"visibility", "image_path", "like_count", "organizer_id", "created_at", "updated_at",
	}).AddRow("event-1", "Launch", "desc", "tech", "HQ", now, "18:00", 100,
		"public", nil, 3, "org-1", now, now)
}

func TestEventRepository_Create(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO events`).
		WithArgs("Launch", "desc", "tech", "HQ", now, "18:00", 100, "public", nil, "org-1", now, now).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("event-1"))

	e := &domain.Event{
		Title: "Launch", Description: "desc", Category: "tech", Venue: "HQ",
		Date: now, Time: "18:00", Capacity: 100, Visibility: domain.VisibilityPublic,
		OrganizerID: "org-1", CreatedAt: now, UpdatedAt: now,
	}
	repo := NewEventRepository(db)
	require.NoError(t, repo.Create(context.Background(), e))
	require.Equal(t, "event-1", e.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_GetByID(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM events`).
			WithArgs("event-1").
			WillReturnRows(eventRows(now))

		repo := NewEventRepository(db)
		got, err := repo.GetByID(context.Background(), "event-1")
		require.NoError(t, err)
		require.Equal(t, "Launch", got.Title)
		require.Equal(t, domain.VisibilityPublic, got.Visibility)
		require.Equal(t, 3, got.LikeCount)
		require.Empty(t, got.ImagePath)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM events`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		_, err = repo.GetByID(context.Background(), "missing")
		require.ErrorIs(t, err, domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_ListVisible(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("caller sees public plus own private", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`visibility = 'public' OR organizer_id = \$1`).
			WithArgs("user-1").
			WillReturnRows(eventRows(now))

		repo := NewEventRepository(db)
		got, err := repo.ListVisible(context.Background(), "user-1", domain.EventFilter{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("category and venue filters add clauses", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`category = \$2 AND venue = \$3`).
			WithArgs("user-1", "tech", "HQ").
			WillReturnRows(eventRows(now))

		repo := NewEventRepository(db)
		got, err := repo.ListVisible(context.Background(), "user-1", domain.EventFilter{Category: "tech", Venue: "HQ"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("anonymous caller sees only public", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE visibility = 'public'`).
			WillReturnRows(eventRows(now))

		repo := NewEventRepository(db)
		got, err := repo.ListVisible(context.Background(), "", domain.EventFilter{})
		require.NoError(t, err)
		require.Len(t, got, 1)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Update(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`UPDATE events SET updated_at = NOW\(\), title = \$1`).
		WithArgs("Renamed", "event-1").
		WillReturnRows(eventRows(now))

	title := "Renamed"
	repo := NewEventRepository(db)
	_, err = repo.Update(context.Background(), "event-1", domain.EventUpdate{Title: &title})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Delete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events`).
			WithArgs("event-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewEventRepository(db)
		require.NoError(t, repo.Delete(context.Background(), "event-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM events`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewEventRepository(db)
		require.ErrorIs(t, repo.Delete(context.Background(), "missing"), domain.ErrNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
