package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campus/internal/errors"
	"campus/internal/model"
)

func TestUserService_CreateUser(t *testing.T) {
	t.Run("create with supplied password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByUsername", mock.Anything, "teacher1").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("FindByEmail", mock.Anything, "teacher1@example.com").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewUserService(userRepo, nil)
		user := &model.User{Username: "teacher1", Email: "teacher1@example.com", Role: model.RoleAdmin}
		created, tempPassword, err := svc.CreateUser(context.Background(), user, "secret123", false)

		assert.NoError(t, err)
		assert.Empty(t, tempPassword)
		assert.True(t, created.Active)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret123")))
		userRepo.AssertExpectations(t)
	})

	t.Run("generated temporary password is returned once", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByUsername", mock.Anything, "student2").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("FindByEmail", mock.Anything, "student2@example.com").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewUserService(userRepo, nil)
		user := &model.User{Username: "student2", Email: "student2@example.com", Role: model.RoleStudent}
		created, tempPassword, err := svc.CreateUser(context.Background(), user, "", true)

		assert.NoError(t, err)
		assert.Len(t, tempPassword, tempPasswordLen)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte(tempPassword)))
	})

	t.Run("username taken", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByUsername", mock.Anything, "taken").Return(&model.User{ID: 9, Username: "taken"}, nil)

		svc := NewUserService(userRepo, nil)
		user := &model.User{Username: "taken", Email: "taken@example.com", Role: model.RoleStudent}
		_, _, err := svc.CreateUser(context.Background(), user, "secret123", false)

		assert.ErrorIs(t, err, errors.ErrUsernameTaken)
	})

	t.Run("invalid role", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), nil)
		user := &model.User{Username: "u", Email: "u@example.com", Role: model.Role("SUPERUSER")}
		_, _, err := svc.CreateUser(context.Background(), user, "secret123", false)

		assert.ErrorIs(t, err, errors.ErrInvalidArgument)
	})

	t.Run("no password and no generation requested", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByUsername", mock.Anything, "u").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("FindByEmail", mock.Anything, "u@example.com").Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(userRepo, nil)
		user := &model.User{Username: "u", Email: "u@example.com", Role: model.RoleStudent}
		_, _, err := svc.CreateUser(context.Background(), user, "", false)

		assert.ErrorIs(t, err, errors.ErrInvalidArgument)
	})
}

func TestUserService_SetUserActive(t *testing.T) {
	tests := []struct {
		name   string
		active bool
	}{
		{name: "deactivate", active: false},
		{name: "activate", active: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := new(MockUserRepository)
			userRepo.On("FindByID", mock.Anything, uint(1)).
				Return(&model.User{ID: 1, Username: "s1", Active: !tt.active}, nil)
			userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
				return u.Active == tt.active
			})).Return(nil)

			svc := NewUserService(userRepo, nil)
			user, err := svc.SetUserActive(context.Background(), 1, tt.active)

			assert.NoError(t, err)
			assert.Equal(t, tt.active, user.Active)
			userRepo.AssertExpectations(t)
		})
	}

	t.Run("unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewUserService(userRepo, nil)
		_, err := svc.SetUserActive(context.Background(), 99, false)
		assert.ErrorIs(t, err, errors.ErrUserNotFound)
	})
}

func TestUserService_UpdateContactInfo(t *testing.T) {
	t.Run("email change checks uniqueness", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, uint(1)).
			Return(&model.User{ID: 1, Email: "old@example.com"}, nil)
		userRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
		userRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewUserService(userRepo, nil)
		user, err := svc.UpdateContactInfo(context.Background(), 1, "new@example.com", "555-0100")

		assert.NoError(t, err)
		assert.Equal(t, "new@example.com", user.Email)
		assert.Equal(t, "555-0100", user.Phone)
	})

	t.Run("email already in use", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, uint(1)).
			Return(&model.User{ID: 1, Email: "old@example.com"}, nil)
		userRepo.On("FindByEmail", mock.Anything, "other@example.com").
			Return(&model.User{ID: 2, Email: "other@example.com"}, nil)

		svc := NewUserService(userRepo, nil)
		_, err := svc.UpdateContactInfo(context.Background(), 1, "other@example.com", "")

		assert.ErrorIs(t, err, errors.ErrEmailTaken)
	})

	t.Run("same email skips the uniqueness check", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, uint(1)).
			Return(&model.User{ID: 1, Email: "same@example.com"}, nil)
		userRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

		svc := NewUserService(userRepo, nil)
		_, err := svc.UpdateContactInfo(context.Background(), 1, "same@example.com", "555-0101")

		assert.NoError(t, err)
		userRepo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	t.Run("correct current password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, uint(1)).
			Return(&model.User{ID: 1, PasswordHash: hashPassword(t, "oldpass")}, nil)
		userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("newpass")) == nil
		})).Return(nil)

		svc := NewUserService(userRepo, nil)
		err := svc.ChangePassword(context.Background(), 1, "oldpass", "newpass")

		assert.NoError(t, err)
		userRepo.AssertExpectations(t)
	})

	t.Run("wrong current password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		userRepo.On("FindByID", mock.Anything, uint(1)).
			Return(&model.User{ID: 1, PasswordHash: hashPassword(t, "oldpass")}, nil)

		svc := NewUserService(userRepo, nil)
		err := svc.ChangePassword(context.Background(), 1, "wrong", "newpass")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
		userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestUserService_Counts(t *testing.T) {
	userRepo := new(MockUserRepository)
	userRepo.On("Count", mock.Anything).Return(int64(12), nil)
	userRepo.On("CountByRole", mock.Anything, model.RoleStudent).Return(int64(10), nil)

	svc := NewUserService(userRepo, nil)
	counts, err := svc.Counts(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, int64(12), counts.Total)
	assert.Equal(t, int64(10), counts.Students)
}

func TestGeneratePassword(t *testing.T) {
	first, err := generatePassword(tempPasswordLen)
	assert.NoError(t, err)
	assert.Len(t, first, tempPasswordLen)

	second, err := generatePassword(tempPasswordLen)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}
