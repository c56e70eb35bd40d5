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

func TestUserRepository_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		user    *domain.User
		mock    func(mock sqlmock.Sqlmock)
		wantErr bool
		errIs   error
	}{
		{
			name: "success",
			user: domain.NewUser("alice", "alice@example.com", "hash", "salt", "Alice", domain.RoleUser, now, now),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WithArgs("alice", "alice@example.com", "hash", "salt", "Alice", domain.RoleUser, now, now).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-uuid-1"))
			},
		},
		{
			name: "duplicate email",
			user: domain.NewUser("alice", "taken@example.com", "hash", "salt", "Alice", domain.RoleUser, now, now),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateEmail,
		},
		{
			name: "duplicate username",
			user: domain.NewUser("taken", "alice@example.com", "hash", "salt", "Alice", domain.RoleUser, now, now),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
					WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})
			},
			wantErr: true,
			errIs:   domain.ErrDuplicateUsername,
		},
		{
			name: "db error",
			user: domain.NewUser("alice", "alice@example.com", "hash", "salt", "Alice", domain.RoleUser, now, now),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO users`).
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
			repo := NewUserRepository(db)
			err = repo.Create(ctx, tt.user)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errIs != nil {
					require.ErrorIs(t, err, tt.errIs)
				}
			} else {
				require.NoError(t, err)
				require.Equal(t, "user-uuid-1", tt.user.ID)
			}
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func userRows(id string) *sqlmock.Rows {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return sqlmock.NewRows([]string{
		"id", "username", "email", "password_hash", "salt", "name", "role",
		"bio", "profile_image_url", "signature_image_url", "created_at", "updated_at",
	}).AddRow(id, "alice", "alice@example.com", "hash", "salt", "Alice", domain.RoleUser, "bio", "", "", now, now)
}

func TestUserRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
			WithArgs("user-uuid-1").
			WillReturnRows(userRows("user-uuid-1"))

		repo := NewUserRepository(db)
		user, err := repo.GetByID(ctx, "user-uuid-1")
		require.NoError(t, err)
		require.Equal(t, "alice", user.Username)
		require.Equal(t, "bio", user.Bio)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		repo := NewUserRepository(db)
		_, err = repo.GetByID(ctx, "missing")
		require.ErrorIs(t, err, domain.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	name := "Alice Cooper"
	bio := "speaker and organizer"

	t.Run("updates provided fields only", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`UPDATE users SET updated_at = NOW\(\), name = \$1, bio = \$2 WHERE id = \$3`).
			WithArgs(name, bio, "user-uuid-1").
			WillReturnRows(userRows("user-uuid-1"))

		repo := NewUserRepository(db)
		_, err = repo.UpdateProfile(ctx, "user-uuid-1", domain.ProfileUpdate{Name: &name, Bio: &bio})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no fields falls back to fetch", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT .+ FROM users WHERE id = \$1`).
			WithArgs("user-uuid-1").
			WillReturnRows(userRows("user-uuid-1"))

		repo := NewUserRepository(db)
		_, err = repo.UpdateProfile(ctx, "user-uuid-1", domain.ProfileUpdate{})
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_UpdateRole(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE users SET role = \$1`).
			WithArgs(domain.RoleSpeaker, "user-uuid-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewUserRepository(db)
		require.NoError(t, repo.UpdateRole(ctx, "user-uuid-1", domain.RoleSpeaker))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE users SET role = \$1`).
			WithArgs(domain.RoleSpeaker, "missing").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewUserRepository(db)
		require.ErrorIs(t, repo.UpdateRole(ctx, "missing", domain.RoleSpeaker), domain.ErrUserNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
