package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"campus/internal/cache"
	"campus/internal/errors"
	"campus/internal/model"
	"campus/internal/repository"
)

const (
	userCacheTTL   = 5 * time.Minute
	tempPasswordLen = 12
)

// UserCounts bundles the user totals shown on the admin dashboard.
type UserCounts struct {
	Total    int64 `json:"total"`
	Students int64 `json:"students"`
}

// UserService handles identity store operations: admin CRUD and the
// self-scoped profile mutations students may perform on their own account.
type UserService interface {
	CreateUser(ctx context.Context, user *model.User, password string, generateTempPassword bool) (*model.User, string, error)
	GetUser(ctx context.Context, id uint) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, id uint) error
	SetUserActive(ctx context.Context, id uint, active bool) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, firstName, lastName, phone string) (*model.User, error)
	UpdateContactInfo(ctx context.Context, id uint, email, phone string) (*model.User, error)
	ChangePassword(ctx context.Context, id uint, currentPassword, newPassword string) error
	Counts(ctx context.Context) (*UserCounts, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

// CreateUser creates an account with an admin-chosen role. When
// generateTempPassword is set, the supplied password is ignored and a random
// temporary one is issued and returned in plain text exactly once.
func (s *userService) CreateUser(ctx context.Context, user *model.User, password string, generateTempPassword bool) (*model.User, string, error) {
	if user == nil || user.Username == "" || user.Email == "" {
		return nil, "", errors.ErrInvalidArgument
	}
	if !user.Role.Valid() {
		return nil, "", errors.ErrInvalidArgument
	}

	if _, err := s.repo.FindByUsername(ctx, user.Username); err == nil {
		return nil, "", errors.ErrUsernameTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, "", fmt.Errorf("check username: %w", err)
	}
	if _, err := s.repo.FindByEmail(ctx, user.Email); err == nil {
		return nil, "", errors.ErrEmailTaken
	} else if err != gorm.ErrRecordNotFound {
		return nil, "", fmt.Errorf("check email: %w", err)
	}

	tempPassword := ""
	if generateTempPassword {
		generated, err := generatePassword(tempPasswordLen)
		if err != nil {
			return nil, "", fmt.Errorf("generate password: %w", err)
		}
		password = generated
		tempPassword = generated
	}
	if password == "" {
		return nil, "", errors.ErrInvalidArgument
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)
	user.Active = true

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.IsDuplicateEntry(err) {
			return nil, "", errors.ErrConflict
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}
	return user, tempPassword, nil
}

// GetUser retrieves a user by ID with caching.
func (s *userService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.User
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}

	if payload, err := json.Marshal(user); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, userCacheTTL)
	}
	return user, nil
}

// GetUserByUsername retrieves a user by unique username.
func (s *userService) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	if username == "" {
		return nil, errors.ErrInvalidArgument
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// DeleteUser removes a user. Enrollment rows referring to it are cleaned up
// by the storage layer's foreign-key cascade.
func (s *userService) DeleteUser(ctx context.Context, id uint) error {
	if _, err := s.getForUpdate(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// SetUserActive sets the account's active flag.
func (s *userService) SetUserActive(ctx context.Context, id uint, active bool) (*model.User, error) {
	user, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Active = active
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// UpdateProfile updates the name and phone fields. Username, email, and role
// are not touched through this path.
func (s *userService) UpdateProfile(ctx context.Context, id uint, firstName, lastName, phone string) (*model.User, error) {
	user, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	user.FirstName = firstName
	user.LastName = lastName
	user.Phone = phone
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// UpdateContactInfo changes email and phone, re-checking email uniqueness.
func (s *userService) UpdateContactInfo(ctx context.Context, id uint, email, phone string) (*model.User, error) {
	if email == "" {
		return nil, errors.ErrInvalidArgument
	}
	user, err := s.getForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	if email != user.Email {
		if _, err := s.repo.FindByEmail(ctx, email); err == nil {
			return nil, errors.ErrEmailTaken
		} else if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("check email: %w", err)
		}
		user.Email = email
	}
	user.Phone = phone

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.IsDuplicateEntry(err) {
			return nil, errors.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}

// ChangePassword verifies the current password before setting the new one.
func (s *userService) ChangePassword(ctx context.Context, id uint, currentPassword, newPassword string) error {
	if newPassword == "" {
		return errors.ErrInvalidArgument
	}
	user, err := s.getForUpdate(ctx, id)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hashed)

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

// Counts returns total user and student counts.
func (s *userService) Counts(ctx context.Context) (*UserCounts, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	students, err := s.repo.CountByRole(ctx, model.RoleStudent)
	if err != nil {
		return nil, err
	}
	return &UserCounts{Total: total, Students: students}, nil
}

func (s *userService) getForUpdate(ctx context.Context, id uint) (*model.User, error) {
	if id == 0 {
		return nil, errors.ErrInvalidArgument
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func generatePassword(length int) (string, error) {
	buf := make([]byte, length)
	max := big.NewInt(int64(len(passwordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = passwordAlphabet[n.Int64()]
	}
	return string(buf), nil
}
