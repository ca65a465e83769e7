package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/buyme/internal/models"
	repository "github.com/aaravmahajanofficial/buyme/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*repository.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })

	return repository.NewWithDB(db), mock
}

func TestUserRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateUser_Success", func(t *testing.T) {
		// Arrange
		repo, mock := newMockDB(t)
		user := &models.User{Email: "test@example.com", Password: "hashed", Name: "Test User"}
		newID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users(email, password, name, created_at, updated_at)")).
			WithArgs(user.Email, user.Password, user.Name).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(newID.String(), now, now))

		// Act
		err := repo.User.CreateUser(ctx, user)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, newID, user.ID)
		assert.WithinDuration(t, now, user.CreatedAt, time.Second)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreateUser_Error", func(t *testing.T) {
		repo, mock := newMockDB(t)
		dbErr := errors.New("duplicate key")

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).WillReturnError(dbErr)

		err := repo.User.CreateUser(ctx, &models.User{Email: "dup@example.com"})

		require.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByEmail_Success", func(t *testing.T) {
		repo, mock := newMockDB(t)
		id := uuid.New()
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("test@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "created_at", "updated_at"}).
				AddRow(id.String(), "test@example.com", "hashed", "Test User", now, now))

		user, err := repo.User.GetUserByEmail(ctx, "test@example.com")

		require.NoError(t, err)
		assert.Equal(t, id, user.ID)
		assert.Equal(t, "hashed", user.Password)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByEmail_NotFound", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
			WithArgs("missing@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		user, err := repo.User.GetUserByEmail(ctx, "missing@example.com")

		require.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, user)
	})

	t.Run("GetUserByID_Success", func(t *testing.T) {
		repo, mock := newMockDB(t)
		id := uuid.New()
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "created_at", "updated_at"}).
				AddRow(id.String(), "test@example.com", "Test User", now, now))

		user, err := repo.User.GetUserByID(ctx, id)

		require.NoError(t, err)
		assert.Equal(t, "Test User", user.Name)
		assert.Empty(t, user.Password)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUserByID_NotFound", func(t *testing.T) {
		repo, mock := newMockDB(t)
		id := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.User.GetUserByID(ctx, id)

		require.ErrorIs(t, err, repository.ErrNotFound)
	})
}
