package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"contia/internal/config"
	"contia/internal/domain"
	"contia/internal/service"
	"contia/mocks"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret-key-for-unit-tests",
		AccessTokenExpiry: 15 * time.Minute,
		Issuer:            "contia-test",
	}
}

func hashPassword(password string) string {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(hash)
}

func activeUser(companyID uuid.UUID, password string) *domain.User {
	return &domain.User{
		ID:           uuid.New(),
		CompanyID:    companyID,
		Email:        "user@test.com",
		PasswordHash: hashPassword(password),
		FullName:     "Test User",
		IsActive:     true,
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	companyID := uuid.New()
	user := activeUser(companyID, "password123")
	userRepo.On("GetByEmail", mock.Anything, "user@test.com").Return(user, nil)

	token, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "user@test.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, token.AccessToken)
	assert.True(t, token.ExpiresAt.After(time.Now()))

	claims, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, companyID, claims.CompanyID)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "user@test.com", claims.Email)

	userRepo.AssertExpectations(t)
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := activeUser(uuid.New(), "correct-password")
	userRepo.On("GetByEmail", mock.Anything, "user@test.com").Return(user, nil)

	token, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "user@test.com",
		Password: "wrong-password",
	})

	assert.Nil(t, token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	userRepo.On("GetByEmail", mock.Anything, "nobody@test.com").Return(nil, domain.ErrNotFound)

	token, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "nobody@test.com",
		Password: "whatever1",
	})

	assert.Nil(t, token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_Login_InactiveUser(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := activeUser(uuid.New(), "password123")
	user.IsActive = false
	userRepo.On("GetByEmail", mock.Anything, "user@test.com").Return(user, nil)

	_, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "user@test.com",
		Password: "password123",
	})

	assert.ErrorIs(t, err, domain.ErrUserInactive)
}

func TestAuthService_ValidateToken_Tampered(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	svc := service.NewAuthService(userRepo, testJWTConfig())

	user := activeUser(uuid.New(), "password123")
	userRepo.On("GetByEmail", mock.Anything, "user@test.com").Return(user, nil)

	token, err := svc.Login(context.Background(), service.LoginInput{
		Email:    "user@test.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(token.AccessToken + "x")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthService_ValidateToken_WrongIssuer(t *testing.T) {
	userRepo := new(mocks.MockUserRepo)
	user := activeUser(uuid.New(), "password123")
	userRepo.On("GetByEmail", mock.Anything, "user@test.com").Return(user, nil)

	issuerA := testJWTConfig()
	issuerB := testJWTConfig()
	issuerB.Issuer = "someone-else"

	token, err := service.NewAuthService(userRepo, issuerB).Login(context.Background(), service.LoginInput{
		Email:    "user@test.com",
		Password: "password123",
	})
	require.NoError(t, err)

	_, err = service.NewAuthService(userRepo, issuerA).ValidateToken(token.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
