package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/models"
)

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return &DB{DB: conn, logger: logger.Nop(), errorClassifier: NewPostgresErrorClassifier()}, mock
}

func TestUserRepository_CreateUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("traveler", "hash", "Traveler").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "login", "password_hash", "name", "created_at"}).
			AddRow(int64(1), "traveler", "hash", "Traveler", created))

	user, err := repo.CreateUser(context.Background(), models.User{Login: "traveler", PasswordHash: "hash", Name: "Traveler"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), user.UserID)
	assert.Equal(t, "traveler", user.Login)
	assert.Equal(t, created, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_CreateUser_LoginAlreadyExists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectQuery(`INSERT INTO users`).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.CreateUser(context.Background(), models.User{Login: "traveler"})
	assert.ErrorIs(t, err, ErrLoginAlreadyExists)
}

func TestUserRepository_FindUserByLogin(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	created := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT user_id, login, password_hash, name, created_at FROM users`).
		WithArgs("traveler").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "login", "password_hash", "name", "created_at"}).
			AddRow(int64(7), "traveler", "hash", "Traveler", created))

	user, err := repo.FindUserByLogin(context.Background(), "traveler")
	require.NoError(t, err)

	assert.Equal(t, int64(7), user.UserID)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindUserByLogin_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db, logger.Nop())

	mock.ExpectQuery(`SELECT user_id, login, password_hash, name, created_at FROM users`).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "login", "password_hash", "name", "created_at"}))

	_, err := repo.FindUserByLogin(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNoUserWasFound)
}
