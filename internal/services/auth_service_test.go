package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tokopos/internal/models"
	"tokopos/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

const testJWTSecret = "test_jwt_secret"

func notFound(key string) error {
	return fmt.Errorf("user %s: %w", key, models.ErrNotFound)
}

func TestAuthService_RegisterUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, zap.NewNop())

	user := &models.User{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "password123",
	}

	mockRepo.On("GetByUsername", ctx, user.Username).Return(nil, notFound(user.Username)).Once()
	mockRepo.On("GetByEmail", ctx, user.Email).Return(nil, notFound(user.Email)).Once()
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

	err := authService.RegisterUser(ctx, user)
	assert.NoError(t, err)
	assert.Empty(t, user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("password123")))
	mockRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_UsernameTaken(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, zap.NewNop())

	existing := &models.User{Username: "taken", Email: "taken@example.com"}
	mockRepo.On("GetByUsername", ctx, "taken").Return(existing, nil).Once()

	err := authService.RegisterUser(ctx, &models.User{Username: "taken", Email: "new@example.com", Password: "password123"})
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthService_RegisterUser_Invalid(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, zap.NewNop())

	err := authService.RegisterUser(context.Background(), &models.User{Username: "ab", Email: "not-an-email", Password: "123"})
	assert.ErrorIs(t, err, models.ErrValidation)
	mockRepo.AssertExpectations(t)
}

func TestAuthService_LoginUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, zap.NewNop())

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	user := &models.User{Username: "testuser", Email: "test@example.com", PasswordHash: string(hashed)}
	user.ID = 7

	mockRepo.On("GetByUsername", ctx, "testuser").Return(user, nil)
	mockRepo.On("GetByUsername", ctx, "nonexistent").Return(nil, notFound("nonexistent"))

	token, err := authService.LoginUser(ctx, "testuser", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "testuser", claims["username"])
	assert.Equal(t, float64(7), claims["user_id"])

	_, err = authService.LoginUser(ctx, "testuser", "wrongpassword")
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = authService.LoginUser(ctx, "nonexistent", "password123")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_ValidateToken(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, zap.NewNop())

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  1,
		"username": "old",
		"exp":      time.Now().Add(-time.Hour).Unix(),
	})
	expiredString, err := expired.SignedString([]byte(testJWTSecret))
	assert.NoError(t, err)
	_, err = authService.ValidateToken(expiredString)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	foreignString, err := foreign.SignedString([]byte("another_secret"))
	assert.NoError(t, err)
	_, err = authService.ValidateToken(foreignString)
	assert.ErrorIs(t, err, models.ErrUnauthorized)

	_, err = authService.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, models.ErrUnauthorized)
}

func TestAuthService_EnsureUser(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockUserRepository)
	authService := services.NewAuthService(mockRepo, testJWTSecret, time.Hour, zap.NewNop())

	assert.NoError(t, authService.EnsureUser(ctx, "", "", ""))

	mockRepo.On("GetByUsername", ctx, "admin").Return(&models.User{Username: "admin"}, nil).Once()
	assert.NoError(t, authService.EnsureUser(ctx, "admin", "secret123", "admin@example.com"))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
