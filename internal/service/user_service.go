package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"shareit/internal/models"
	"shareit/internal/repository"
)

type UserService struct {
	users  *repository.UserRepository
	logger *zerolog.Logger
}

func NewUserService(users *repository.UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) Create(ctx context.Context, name, email string) (*models.User, error) {
	v := NewValidationError()
	if strings.TrimSpace(name) == "" {
		v.Add("name", "must not be blank")
	}
	if !validEmail(email) {
		v.Add("email", "must be a valid email address")
	}
	if !v.Empty() {
		return nil, v
	}

	if err := s.checkEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	user := &models.User{Name: name, Email: email}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info().Uint("user_id", user.ID).Msg("user created")
	return user, nil
}

// Update applies partial-update semantics: blank fields keep their
// previous value.
func (s *UserService) Update(ctx context.Context, id uint, name, email string) (*models.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(name) != "" {
		user.Name = name
	}
	if strings.TrimSpace(email) != "" {
		if !validEmail(email) {
			v := NewValidationError()
			v.Add("email", "must be a valid email address")
			return nil, v
		}
		if err := s.checkEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		user.Email = email
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.getUser(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.getUser(ctx, id); err != nil {
		return err
	}
	return s.users.Delete(ctx, id)
}

func (s *UserService) getUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.Get(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) checkEmailFree(ctx context.Context, email string, selfID uint) error {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return fmt.Errorf("email %s: %w", email, ErrAlreadyExists)
	}
	return nil
}

func validEmail(email string) bool {
	if strings.TrimSpace(email) == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
