package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/divvyapps/divvy/internal/auth"
	"github.com/divvyapps/divvy/internal/models"
	"github.com/divvyapps/divvy/internal/storage"
)

// UserService implements the user CRUD surface exposed by the checklist
// variant's JSON API.
type UserService struct {
	store         storage.Store
	authenticator auth.Authenticator
}

// NewUserService creates a new UserService.
func NewUserService(store storage.Store, authenticator auth.Authenticator) *UserService {
	return &UserService{store: store, authenticator: authenticator}
}

// List returns all users.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.store.ListUsers(ctx)
}

// Get returns one user by ID. Returns models.ErrNotFound if absent.
func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, models.ErrNotFound)
	}
	return user, nil
}

// Create registers a new user through the authenticator, which hashes the
// password and enforces username/email uniqueness.
func (s *UserService) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	user, err := s.authenticator.Register(ctx, username, email, password)
	if err != nil {
		return nil, err
	}

	slog.Info("User created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// UserUpdate carries the fields of an update request. Nil pointers mean
// "leave unchanged" for partial (PATCH) updates; full (PUT) updates require
// username and email.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
}

// Update modifies a user. With partial=false (PUT) username and email are
// required; with partial=true (PATCH) only the provided fields change.
// Duplicate username/email surface as conflict errors.
func (s *UserService) Update(ctx context.Context, id string, update UserUpdate, partial bool) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !partial && (update.Username == nil || update.Email == nil) {
		return nil, &models.ValidationError{Field: "username", Message: "username and email are required"}
	}

	if update.Username != nil {
		username := strings.TrimSpace(*update.Username)
		if n := len(username); n < 2 || n > 20 {
			return nil, &models.ValidationError{Field: "username", Message: "must be 2-20 characters"}
		}
		user.Username = username
	}
	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		if email == "" || !strings.Contains(email, "@") {
			return nil, &models.ValidationError{Field: "email", Message: "must be a valid email address"}
		}
		user.Email = email
	}
	if update.Password != nil {
		if err := s.authenticator.ValidateCredential(*update.Password); err != nil {
			return nil, err
		}
		hashed, err := auth.HashPassword(*update.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("User updated", "user_id", user.ID)
	return user, nil
}

// Delete removes a user by ID.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}

	slog.Info("User deleted", "user_id", id)
	return nil
}
