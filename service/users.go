// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/danielhkuo/budget-intake/apperr"
	"github.com/danielhkuo/budget-intake/models"
	"github.com/danielhkuo/budget-intake/store"
	"github.com/danielhkuo/budget-intake/validation"
)

const (
	minPasswordLength = 8
	// bcrypt only reads the first 72 bytes.
	maxPasswordBytes = 72
)

// UserService manages staff accounts.
type UserService struct {
	users store.UserRepository
}

func (s *UserService) Create(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	name := strings.TrimSpace(req.Name)
	email := validation.NormalizeEmail(req.Email)

	if name == "" {
		return models.User{}, apperr.Validation("name is required")
	}
	if !strings.Contains(email, "@") {
		return models.User{}, apperr.Validation("email is invalid")
	}
	if len(req.Password) < minPasswordLength {
		return models.User{}, apperr.Validation("password must be at least %d characters", minPasswordLength)
	}
	if len(req.Password) > maxPasswordBytes {
		return models.User{}, apperr.Validation("password must be at most %d bytes", maxPasswordBytes)
	}
	if !req.Role.Valid() {
		return models.User{}, apperr.Validation("role '%s' is not recognized", req.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, apperr.Storage("failed to hash password", err)
	}

	u, err := s.users.CreateUser(ctx, models.User{
		ID:           validation.NewID(),
		Name:         name,
		Email:        email,
		Role:         req.Role,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return models.User{}, err
	}

	slog.Info("user created", "user_id", u.ID, "role", u.Role)
	return u, nil
}

// EnsureUser creates the user unless the email is already registered.
func (s *UserService) EnsureUser(ctx context.Context, req models.CreateUserRequest) (models.User, error) {
	existing, err := s.users.FindUserByEmail(ctx, validation.NormalizeEmail(req.Email))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}
	return s.Create(ctx, req)
}

// Authenticate checks an email and password pair. Unknown emails and wrong
// passwords fail the same way.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	u, err := s.users.FindUserByEmail(ctx, validation.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, apperr.Unauthorized("invalid email or password")
	}
	if err != nil {
		return models.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		slog.Warn("failed login", "user_id", u.ID)
		return models.User{}, apperr.Unauthorized("invalid email or password")
	}
	return u, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (models.User, error) {
	u, err := s.users.FindUserByID(ctx, id)
	if err != nil {
		return models.User{}, notFound(err, "User with id '%s' not found", id)
	}
	return u, nil
}
