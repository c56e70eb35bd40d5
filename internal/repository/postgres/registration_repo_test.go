package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"

	"eventhubconnect/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WithArgs("event-1", "user-1", now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-uuid-1"))
			},
		},
		{
			name: "duplicate registration",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "registrations_event_user_key"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateRegistration,
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			reg := domain.NewRegistration("event-1", "user-1", now, now)
			err = repo.Create(ctx, reg)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, "reg-uuid-1", reg.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func registrationRows(id string, attended bool) *sqlmock.Rows {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"id", "event_id", "user_id", "attended", "attended_at",
		"certificate_generated", "certificate_url", "created_at", "updated_at",
	})
	if attended {
		rows.AddRow(id, "event-1", "user-1", true, now, false, nil, now, now)
	} else {
		rows.AddRow(id, "event-1", "user-1", false, nil, false, nil, now, now)
	}
	return rows
}

func TestRegistrationRepository_GetByEventAndUser(t *testing.T) {
	ctx := context.Background()

	t.Run("found with attendance", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM registrations WHERE event_id = \$1 AND user_id = \$2`).
			WithArgs("event-1", "user-1").
			WillReturnRows(registrationRows("reg-1", true))

		repo := NewRegistrationRepository(db)
		reg, err := repo.GetByEventAndUser(ctx, "event-1", "user-1")
		require.NoError(t, err)
		require.True(t, reg.Attended)
		require.NotNil(t, reg.AttendedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM registrations WHERE event_id = \$1 AND user_id = \$2`).
			WithArgs("event-1", "user-2").
			WillReturnError(sql.ErrNoRows)

		repo := NewRegistrationRepository(db)
		_, err = repo.GetByEventAndUser(ctx, "event-1", "user-2")
		require.ErrorIs(t, err, domain.ErrRegistrationNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrationRepository_CountByEventID(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM registrations WHERE event_id = \$1`).
		WithArgs("event-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	repo := NewRegistrationRepository(db)
	count, err := repo.CountByEventID(ctx, "event-1")
	require.NoError(t, err)
	require.Equal(t, 42, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_MarkAttended(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE registrations`).
			WithArgs("reg-1", at).
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewRegistrationRepository(db)
		require.NoError(t, repo.MarkAttended(ctx, "reg-1", at))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing registration", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE registrations`).
			WithArgs("missing", at).
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewRegistrationRepository(db)
		require.ErrorIs(t, repo.MarkAttended(ctx, "missing", at), domain.ErrRegistrationNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrationRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM registrations WHERE id = \$1`).
			WithArgs("reg-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewRegistrationRepository(db)
		require.NoError(t, repo.Delete(ctx, "reg-1"))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`DELETE FROM registrations WHERE id = \$1`).
			WithArgs("missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewRegistrationRepository(db)
		require.ErrorIs(t, repo.Delete(ctx, "missing"), domain.ErrRegistrationNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRegistrationRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{
		"id", "event_id", "user_id", "attended", "attended_at",
		"certificate_generated", "certificate_url", "created_at", "updated_at",
		"username", "name", "email",
	}).
		AddRow("reg-1", "event-1", "user-1", true, now, false, nil, now, now, "alice", "Alice", "alice@example.com").
		AddRow("reg-2", "event-1", "user-2", false, nil, false, nil, now, now, "bob", "Bob", "bob@example.com")

	mock.ExpectQuery(`SELECT .+ FROM registrations r`).
		WithArgs("event-1").
		WillReturnRows(rows)

	repo := NewRegistrationRepository(db)
	items, err := repo.ListByEventID(ctx, "event-1")
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "alice", items[0].Username)
	require.True(t, items[0].Registration.Attended)
	require.False(t, items[1].Registration.Attended)
	require.NoError(t, mock.ExpectationsWereMet())
}
