package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	appErrors "github.com/aaravmahajanofficial/buyme/internal/errors"
	"github.com/aaravmahajanofficial/buyme/internal/models"
	repository "github.com/aaravmahajanofficial/buyme/internal/repositories"
	"github.com/aaravmahajanofficial/buyme/internal/repositories/mocks"
	service "github.com/aaravmahajanofficial/buyme/internal/services"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testJWTKey = []byte("test-secret-key")

func newUserService(t *testing.T) (service.UserService, *mocks.UserRepository, *mocks.RateLimitRepository) {
	t.Helper()

	repo := mocks.NewUserRepository(t)
	rateLimit := mocks.NewRateLimitRepository(t)

	return service.NewUserService(repo, rateLimit, testJWTKey, time.Hour), repo, rateLimit
}

func hashedUser(t *testing.T, password string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	return &models.User{ID: uuid.New(), Name: "Test User", Email: "test@example.com", Password: string(hash)}
}

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()
	req := &models.RegisterRequest{Email: "test@example.com", Password: "password123", Name: "Test User"}

	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc, repo, _ := newUserService(t)

		repo.On("GetUserByEmail", mock.Anything, req.Email).Return(nil, repository.ErrNotFound).Once()
		repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == req.Email && bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) == nil
		})).Return(nil).Once()

		// Act
		user, err := svc.Register(ctx, req)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, req.Name, user.Name)
		assert.NotEqual(t, req.Password, user.Password)
	})

	t.Run("Failure - Duplicate Email", func(t *testing.T) {
		svc, repo, _ := newUserService(t)

		repo.On("GetUserByEmail", mock.Anything, req.Email).Return(&models.User{Email: req.Email}, nil).Once()

		user, err := svc.Register(ctx, req)

		requireAppError(t, err, appErrors.ErrCodeDuplicateEntry)
		assert.Nil(t, user)
	})

	t.Run("Failure - Lookup Error", func(t *testing.T) {
		svc, repo, _ := newUserService(t)

		repo.On("GetUserByEmail", mock.Anything, req.Email).Return(nil, errors.New("timeout")).Once()

		_, err := svc.Register(ctx, req)

		requireAppError(t, err, appErrors.ErrCodeDatabaseError)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		svc, repo, rateLimit := newUserService(t)
		user := hashedUser(t, "password123")

		rateLimit.On("CheckLoginRateLimit", mock.Anything, user.Email).Return(true, 4, 0, nil).Once()
		repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil).Once()

		// Act
		resp, err := svc.Login(ctx, &models.LoginRequest{Email: user.Email, Password: "password123"})

		// Assert
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, 3600, resp.ExpiresIn)

		verification := svc.VerifyToken(ctx, resp.Token)
		assert.True(t, verification.Valid)
		assert.Equal(t, user.ID, verification.UserID)
	})

	t.Run("Failure - Wrong Password", func(t *testing.T) {
		svc, repo, rateLimit := newUserService(t)
		user := hashedUser(t, "password123")

		rateLimit.On("CheckLoginRateLimit", mock.Anything, user.Email).Return(true, 2, 0, nil).Once()
		repo.On("GetUserByEmail", mock.Anything, user.Email).Return(user, nil).Once()

		resp, err := svc.Login(ctx, &models.LoginRequest{Email: user.Email, Password: "wrong"})

		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Empty(t, resp.Token)
		assert.Equal(t, 2, resp.RemainingTries)
	})

	t.Run("Failure - Unknown Email", func(t *testing.T) {
		svc, repo, rateLimit := newUserService(t)

		rateLimit.On("CheckLoginRateLimit", mock.Anything, "ghost@example.com").Return(true, 4, 0, nil).Once()
		repo.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, repository.ErrNotFound).Once()

		resp, err := svc.Login(ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "whatever"})

		require.NoError(t, err)
		assert.False(t, resp.Success)
	})

	t.Run("Failure - Rate Limited", func(t *testing.T) {
		svc, repo, rateLimit := newUserService(t)

		rateLimit.On("CheckLoginRateLimit", mock.Anything, "test@example.com").Return(false, 0, 120, nil).Once()

		resp, err := svc.Login(ctx, &models.LoginRequest{Email: "test@example.com", Password: "password123"})

		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.Equal(t, 120, resp.RetryAfter)
		repo.AssertNotCalled(t, "GetUserByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Rate Limiter Down", func(t *testing.T) {
		svc, _, rateLimit := newUserService(t)

		rateLimit.On("CheckLoginRateLimit", mock.Anything, "test@example.com").Return(false, 0, 0, errors.New("redis down")).Once()

		_, err := svc.Login(ctx, &models.LoginRequest{Email: "test@example.com", Password: "password123"})

		requireAppError(t, err, appErrors.ErrCodeThirdPartyError)
	})
}

func TestUserService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, repo, _ := newUserService(t)
		user := hashedUser(t, "password123")

		repo.On("GetUserByID", mock.Anything, user.ID).Return(user, nil).Once()

		resp, err := svc.RefreshToken(ctx, &models.Claims{UserID: user.ID, Email: user.Email})

		require.NoError(t, err)
		assert.Equal(t, 3600, resp.ExpiresIn)
		assert.True(t, svc.VerifyToken(ctx, resp.Token).Valid)
	})

	t.Run("Failure - User Deleted", func(t *testing.T) {
		svc, repo, _ := newUserService(t)
		userID := uuid.New()

		repo.On("GetUserByID", mock.Anything, userID).Return(nil, repository.ErrNotFound).Once()

		resp, err := svc.RefreshToken(ctx, &models.Claims{UserID: userID})

		requireAppError(t, err, appErrors.ErrCodeNotFound)
		assert.Nil(t, resp)
	})
}

func TestUserService_VerifyToken(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newUserService(t)
	userID := uuid.New()

	sign := func(t *testing.T, method jwt.SigningMethod, key any, expiresAt *jwt.NumericDate) string {
		t.Helper()

		claims := &models.Claims{UserID: userID, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: expiresAt}}

		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)

		return token
	}

	t.Run("Valid", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, testJWTKey, jwt.NewNumericDate(time.Now().Add(time.Hour)))

		verification := svc.VerifyToken(ctx, token)

		assert.True(t, verification.Valid)
		assert.Equal(t, userID, verification.UserID)
		assert.False(t, verification.ExpiresAt.IsZero())
	})

	t.Run("Expired", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, testJWTKey, jwt.NewNumericDate(time.Now().Add(-time.Minute)))

		assert.False(t, svc.VerifyToken(ctx, token).Valid)
	})

	t.Run("Missing Expiry", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, testJWTKey, nil)

		assert.False(t, svc.VerifyToken(ctx, token).Valid)
	})

	t.Run("Wrong Key", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS256, []byte("another-key"), jwt.NewNumericDate(time.Now().Add(time.Hour)))

		assert.False(t, svc.VerifyToken(ctx, token).Valid)
	})

	t.Run("Wrong Algorithm", func(t *testing.T) {
		token := sign(t, jwt.SigningMethodHS512, testJWTKey, jwt.NewNumericDate(time.Now().Add(time.Hour)))

		assert.False(t, svc.VerifyToken(ctx, token).Valid)
	})

	t.Run("Garbage", func(t *testing.T) {
		assert.False(t, svc.VerifyToken(ctx, "not-a-token").Valid)
	})
}
