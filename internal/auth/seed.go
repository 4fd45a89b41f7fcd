package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clothing-store/internal/model"
	"clothing-store/internal/repository"
)

// SeedAdmin creates the admin account unless one already exists for email.
// It reports whether a new account was created.
func SeedAdmin(ctx context.Context, users repository.UserRepository, email, password string) (bool, error) {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return false, model.ErrMissingCredentials
	}

	existing, err := users.GetByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("failed to look up admin: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, user); err != nil {
		// Lost a race with a concurrent seed.
		if errors.Is(err, model.ErrUserExists) {
			return false, nil
		}
		return false, fmt.Errorf("failed to create admin: %w", err)
	}

	return true, nil
}
