package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/bdamokos/travel-tracker/internal/config"
	"github.com/bdamokos/travel-tracker/internal/logger"
	"github.com/bdamokos/travel-tracker/internal/mock"
	"github.com/bdamokos/travel-tracker/internal/store"
	"github.com/bdamokos/travel-tracker/models"
)

var testAppConfig = config.App{
	TokenSignKey:  "secret",
	TokenIssuer:   "travel-tracker",
	TokenDuration: time.Hour,
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	auth := NewAuthService(repo, testAppConfig, logger.Nop())

	repo.EXPECT().CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user models.User) (models.User, error) {
			// The plain-text password must never reach the repository.
			assert.Empty(t, user.Password)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret-pass")))

			user.UserID = 1
			return user, nil
		})

	registered, err := auth.RegisterUser(context.Background(), models.User{Login: "traveler", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), registered.UserID)
}

func TestAuthService_RegisterUser_InvalidData(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := NewAuthService(mock.NewMockUserRepository(ctrl), testAppConfig, logger.Nop())

	tests := []struct {
		name string
		user models.User
	}{
		{name: "empty login", user: models.User{Password: "secret"}},
		{name: "empty password", user: models.User{Login: "traveler"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := auth.RegisterUser(context.Background(), tt.user)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	auth := NewAuthService(repo, testAppConfig, logger.Nop())

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.EXPECT().FindUserByLogin(gomock.Any(), "traveler").
		Return(models.User{UserID: 7, Login: "traveler", PasswordHash: string(hash)}, nil)

	user, err := auth.Login(context.Background(), models.User{Login: "traveler", Password: "secret-pass"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), user.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	auth := NewAuthService(repo, testAppConfig, logger.Nop())

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	repo.EXPECT().FindUserByLogin(gomock.Any(), "traveler").
		Return(models.User{Login: "traveler", PasswordHash: string(hash)}, nil)

	_, err = auth.Login(context.Background(), models.User{Login: "traveler", Password: "wrong"})
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_Login_UnknownUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	auth := NewAuthService(repo, testAppConfig, logger.Nop())

	repo.EXPECT().FindUserByLogin(gomock.Any(), "ghost").
		Return(models.User{}, store.ErrNoUserWasFound)

	// Unknown account and wrong password look identical to the caller.
	_, err := auth.Login(context.Background(), models.User{Login: "ghost", Password: "whatever"})
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := NewAuthService(mock.NewMockUserRepository(ctrl), testAppConfig, logger.Nop())

	token, err := auth.CreateToken(context.Background(), models.User{UserID: 42})
	require.NoError(t, err)

	parsed, err := auth.ParseToken(context.Background(), token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
}

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	auth := NewAuthService(mock.NewMockUserRepository(ctrl), testAppConfig, logger.Nop())

	_, err := auth.ParseToken(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
