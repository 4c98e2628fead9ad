package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divvyapps/divvy/internal/models"
)

// fakeUserStorage is an in-memory UserStorage for authenticator tests.
type fakeUserStorage struct {
	users map[string]*models.User // keyed by username
}

func newFakeUserStorage() *fakeUserStorage {
	return &fakeUserStorage{users: make(map[string]*models.User)}
}

func (f *fakeUserStorage) CreateUser(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.Username]; ok {
		return models.ErrUsernameTaken
	}
	for _, u := range f.users {
		if u.Email == user.Email {
			return models.ErrEmailTaken
		}
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserStorage) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	return f.users[username], nil
}

func (f *fakeUserStorage) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStorage())
	ctx := context.Background()

	user, err := a.Register(ctx, "alice", "alice@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "correct-horse", user.PasswordHash, "password must be hashed")

	got, err := a.Authenticate(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = a.Authenticate(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)

	_, err = a.Authenticate(ctx, "nobody", "correct-horse")
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStorage())
	ctx := context.Background()

	_, err := a.Register(ctx, "a", "a@example.com", "long-enough")
	assert.True(t, models.IsValidation(err), "one-char username should fail validation")

	_, err = a.Register(ctx, "alice", "not-an-email", "long-enough")
	assert.True(t, models.IsValidation(err))

	_, err = a.Register(ctx, "alice", "alice@example.com", "short")
	assert.ErrorIs(t, err, models.ErrWeakPassword)
}

func TestRegisterConflicts(t *testing.T) {
	a := NewPasswordAuthenticator(newFakeUserStorage())
	ctx := context.Background()

	_, err := a.Register(ctx, "alice", "alice@example.com", "long-enough")
	require.NoError(t, err)

	_, err = a.Register(ctx, "alice", "other@example.com", "long-enough")
	assert.ErrorIs(t, err, models.ErrUsernameTaken)

	_, err = a.Register(ctx, "alice2", "alice@example.com", "long-enough")
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", "divvy-test", time.Hour)
	user := &models.User{ID: "u-1", Username: "alice"}

	token, err := m.Generate(user)
	require.NoError(t, err)

	claims, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "divvy-test", claims.Issuer)
}

func TestJWTRejectsExpiredAndTampered(t *testing.T) {
	expired := NewJWTManager("test-secret", "divvy-test", -time.Minute)
	user := &models.User{ID: "u-1", Username: "alice"}

	token, err := expired.Generate(user)
	require.NoError(t, err)

	_, err = expired.Validate(token)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	other := NewJWTManager("different-secret", "divvy-test", time.Hour)
	fresh := NewJWTManager("test-secret", "divvy-test", time.Hour)
	token, err = other.Generate(user)
	require.NoError(t, err)

	_, err = fresh.Validate(token)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}
