package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campus/internal/auth"
	"campus/internal/errors"
	"campus/internal/model"
)

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	validInput := RegisterInput{
		Username:  "newstudent",
		Email:     "new@example.com",
		Password:  "secret123",
		FirstName: "New",
		LastName:  "Student",
	}

	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: validInput,
			setupMock: func(u *MockUserRepository) {
				u.On("FindByUsername", mock.Anything, "newstudent").Return(nil, gorm.ErrRecordNotFound)
				u.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
				u.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "username taken",
			input: validInput,
			setupMock: func(u *MockUserRepository) {
				u.On("FindByUsername", mock.Anything, "newstudent").
					Return(&model.User{ID: 2, Username: "newstudent"}, nil)
			},
			expectedError: errors.ErrUsernameTaken,
		},
		{
			name:  "email taken",
			input: validInput,
			setupMock: func(u *MockUserRepository) {
				u.On("FindByUsername", mock.Anything, "newstudent").Return(nil, gorm.ErrRecordNotFound)
				u.On("FindByEmail", mock.Anything, "new@example.com").
					Return(&model.User{ID: 3, Email: "new@example.com"}, nil)
			},
			expectedError: errors.ErrEmailTaken,
		},
		{
			name:          "missing required fields",
			input:         RegisterInput{Username: "x"},
			setupMock:     func(u *MockUserRepository) {},
			expectedError: errors.ErrInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			tt.setupMock(userRepo)

			svc := NewAuthService(userRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
			user, err := svc.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, user)
				// Public registration always yields a student account.
				assert.Equal(t, model.RoleStudent, user.Role)
				assert.True(t, user.Active)
				assert.NotEqual(t, tt.input.Password, user.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(tt.input.Password)))
			}
			userRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	t.Run("login by username", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		user := &model.User{
			ID:           1,
			Username:     "student1",
			Email:        "student1@example.com",
			PasswordHash: hashPassword(t, "secret123"),
			Role:         model.RoleStudent,
			Active:       true,
		}
		userRepo.On("FindByUsername", mock.Anything, "student1").Return(user, nil)
		tokenStore.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"),
			mock.AnythingOfType("auth.RefreshTokenData"), auth.RefreshTokenExpiry).Return(nil)

		svc := NewAuthService(userRepo, auth.NewJWTService("test-secret"), tokenStore)
		accessToken, refreshToken, got, err := svc.Login(context.Background(), "student1", "secret123")

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, user.ID, got.ID)
		userRepo.AssertExpectations(t)
		tokenStore.AssertExpectations(t)
	})

	t.Run("login by email", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenStore := new(MockTokenStore)
		user := &model.User{
			ID:           1,
			Username:     "student1",
			Email:        "student1@example.com",
			PasswordHash: hashPassword(t, "secret123"),
			Role:         model.RoleStudent,
			Active:       true,
		}
		userRepo.On("FindByEmail", mock.Anything, "student1@example.com").Return(user, nil)
		tokenStore.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"),
			mock.AnythingOfType("auth.RefreshTokenData"), auth.RefreshTokenExpiry).Return(nil)

		svc := NewAuthService(userRepo, auth.NewJWTService("test-secret"), tokenStore)
		_, _, _, err := svc.Login(context.Background(), "student1@example.com", "secret123")

		assert.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		user := &model.User{
			ID:           1,
			Username:     "student1",
			PasswordHash: hashPassword(t, "secret123"),
		}
		userRepo.On("FindByUsername", mock.Anything, "student1").Return(user, nil)

		svc := NewAuthService(userRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
		_, _, _, err := svc.Login(context.Background(), "student1", "wrong")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

		svc := NewAuthService(userRepo, auth.NewJWTService("test-secret"), new(MockTokenStore))
		_, _, _, err := svc.Login(context.Background(), "ghost", "secret123")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")

	t.Run("valid refresh token", func(t *testing.T) {
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(1, "student1", model.RoleStudent)
		assert.NoError(t, err)

		tokenStore := new(MockTokenStore)
		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(&auth.RefreshTokenData{
			UserID:   1,
			Username: "student1",
			Role:     model.RoleStudent,
		}, nil)

		svc := NewAuthService(new(MockUserRepository), jwtService, tokenStore)
		accessToken, err := svc.RefreshToken(context.Background(), refreshToken)

		assert.NoError(t, err)
		claims, err := jwtService.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, uint(1), claims.UserID)
		assert.Equal(t, model.RoleStudent, claims.Role)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		tokenID, refreshToken, err := jwtService.GenerateRefreshToken(1, "student1", model.RoleStudent)
		assert.NoError(t, err)

		tokenStore := new(MockTokenStore)
		tokenStore.On("GetRefreshToken", mock.Anything, tokenID).Return(nil, assert.AnError)

		svc := NewAuthService(new(MockUserRepository), jwtService, tokenStore)
		_, err = svc.RefreshToken(context.Background(), refreshToken)

		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		svc := NewAuthService(new(MockUserRepository), jwtService, new(MockTokenStore))
		_, err := svc.RefreshToken(context.Background(), "not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestAuthService_Logout(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret")
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(1, "student1", model.RoleStudent)
	assert.NoError(t, err)

	tokenStore := new(MockTokenStore)
	tokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)

	svc := NewAuthService(new(MockUserRepository), jwtService, tokenStore)
	assert.NoError(t, svc.Logout(context.Background(), refreshToken))
	tokenStore.AssertExpectations(t)
}
