package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/segyhp/loan-tracker/internal/domain"
	"github.com/segyhp/loan-tracker/internal/repository"
)

// UserService manages operator accounts for the usermgmt command.
type UserService struct {
	userRepo  repository.UserRepository
	validator *validator.Validate
	logger    *logrus.Logger
	now       func() time.Time
}

func NewUserService(userRepo repository.UserRepository, logger *logrus.Logger) *UserService {
	return &UserService{
		userRepo:  userRepo,
		validator: validator.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// Add creates an active user with a bcrypt-hashed password
func (s *UserService) Add(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err)
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.New(),
		Username:     req.Username,
		PasswordHash: hash,
		FullName:     req.FullName,
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.WithField("username", user.Username).Info("User created")
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) Activate(ctx context.Context, username string) error {
	return s.setActive(ctx, username, true)
}

func (s *UserService) Deactivate(ctx context.Context, username string) error {
	return s.setActive(ctx, username, false)
}

func (s *UserService) setActive(ctx context.Context, username string, active bool) error {
	if err := s.userRepo.SetActive(ctx, username, active); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"username": username, "active": active}).Info("User status changed")
	return nil
}

// ChangePassword replaces the password of an existing user
func (s *UserService) ChangePassword(ctx context.Context, req domain.ChangePasswordRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return validationError(err)
	}

	hash, err := hashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, req.Username, hash); err != nil {
		return err
	}

	s.logger.WithField("username", req.Username).Info("User password changed")
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
