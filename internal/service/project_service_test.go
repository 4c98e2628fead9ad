package service

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divvyapps/divvy/internal/auth"
	"github.com/divvyapps/divvy/internal/models"
	"github.com/divvyapps/divvy/internal/storage/sqlite"
)

func newTestStore(t *testing.T) *sqlite.SQLiteStore {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func registerUser(t *testing.T, store *sqlite.SQLiteStore, username string) *models.User {
	t.Helper()

	a := auth.NewPasswordAuthenticator(store)
	user, err := a.Register(context.Background(), username, username+"@example.com", "long-enough")
	require.NoError(t, err)
	return user
}

func TestProjectBalancesSoleCreator(t *testing.T) {
	store := newTestStore(t)
	svc := NewProjectService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")

	project, err := svc.Create(ctx, alice.ID, "Trip")
	require.NoError(t, err)

	_, err = svc.AddExpense(ctx, alice.ID, project.ID, "Hotel", 100, alice.ID)
	require.NoError(t, err)

	detail, err := svc.Detail(ctx, alice.ID, project.ID)
	require.NoError(t, err)

	// share = 100/1 = 100, balance = 100 - 100 = 0
	assert.InDelta(t, 100, detail.TotalCost, 1e-9)
	assert.InDelta(t, 100, detail.EvenShare, 1e-9)
	assert.InDelta(t, 0, detail.Balances["alice"], 1e-9)
}

func TestProjectBalancesTwoMembers(t *testing.T) {
	store := newTestStore(t)
	svc := NewProjectService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")

	project, err := svc.Create(ctx, alice.ID, "Trip")
	require.NoError(t, err)
	_, err = svc.Share(ctx, alice.ID, project.ID, "bob")
	require.NoError(t, err)

	_, err = svc.AddExpense(ctx, alice.ID, project.ID, "Hotel", 90, alice.ID)
	require.NoError(t, err)
	_, err = svc.AddExpense(ctx, bob.ID, project.ID, "Gas", 30, bob.ID)
	require.NoError(t, err)

	detail, err := svc.Detail(ctx, alice.ID, project.ID)
	require.NoError(t, err)

	assert.InDelta(t, 120, detail.TotalCost, 1e-9)
	assert.InDelta(t, 60, detail.EvenShare, 1e-9)
	assert.InDelta(t, 30, detail.Balances["alice"], 1e-9)
	assert.InDelta(t, -30, detail.Balances["bob"], 1e-9)

	var sum float64
	for _, b := range detail.Balances {
		sum += b
	}
	assert.Less(t, math.Abs(sum), 1e-6, "balances must sum to zero")
}

func TestProjectDetailForbiddenForNonMember(t *testing.T) {
	store := newTestStore(t)
	svc := NewProjectService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	mallory := registerUser(t, store, "mallory")

	project, err := svc.Create(ctx, alice.ID, "Secret Trip")
	require.NoError(t, err)

	_, err = svc.Detail(ctx, mallory.ID, project.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestShareRules(t *testing.T) {
	store := newTestStore(t)
	svc := NewProjectService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")
	registerUser(t, store, "carol")

	project, err := svc.Create(ctx, alice.ID, "Trip")
	require.NoError(t, err)

	_, err = svc.Share(ctx, alice.ID, project.ID, "bob")
	require.NoError(t, err)

	// Sharing twice is a conflict and leaves a single membership.
	_, err = svc.Share(ctx, alice.ID, project.ID, "bob")
	assert.ErrorIs(t, err, models.ErrAlreadyMember)

	detail, err := svc.Detail(ctx, alice.ID, project.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Project.Memberships, 2)

	// Unknown username.
	_, err = svc.Share(ctx, alice.ID, project.ID, "nobody")
	assert.ErrorIs(t, err, models.ErrNotFound)

	// Participants cannot share; only the creator can.
	_, err = svc.Share(ctx, bob.ID, project.ID, "carol")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestRemoveParticipantRules(t *testing.T) {
	store := newTestStore(t)
	svc := NewProjectService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")

	project, err := svc.Create(ctx, alice.ID, "Trip")
	require.NoError(t, err)
	_, err = svc.Share(ctx, alice.ID, project.ID, "bob")
	require.NoError(t, err)

	// Non-creator cannot remove anyone.
	err = svc.RemoveParticipant(ctx, bob.ID, project.ID, bob.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	// The creator can never be removed, even by themselves.
	err = svc.RemoveParticipant(ctx, alice.ID, project.ID, alice.ID)
	assert.ErrorIs(t, err, models.ErrCannotRemoveCreator)

	require.NoError(t, svc.RemoveParticipant(ctx, alice.ID, project.ID, bob.ID))

	// Removing a non-member reports NotFound.
	err = svc.RemoveParticipant(ctx, alice.ID, project.ID, bob.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteExpenseAuthorization(t *testing.T) {
	store := newTestStore(t)
	svc := NewProjectService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")
	carol := registerUser(t, store, "carol")

	project, err := svc.Create(ctx, alice.ID, "Trip")
	require.NoError(t, err)
	_, err = svc.Share(ctx, alice.ID, project.ID, "bob")
	require.NoError(t, err)
	_, err = svc.Share(ctx, alice.ID, project.ID, "carol")
	require.NoError(t, err)

	expense, err := svc.AddExpense(ctx, bob.ID, project.ID, "Dinner", 45, bob.ID)
	require.NoError(t, err)

	// A member who is neither creator nor payer cannot delete.
	_, err = svc.DeleteExpense(ctx, carol.ID, expense.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	// The payer can.
	projectID, err := svc.DeleteExpense(ctx, bob.ID, expense.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, projectID)

	// And the creator can delete any expense.
	expense2, err := svc.AddExpense(ctx, bob.ID, project.ID, "Snacks", 12, bob.ID)
	require.NoError(t, err)
	_, err = svc.DeleteExpense(ctx, alice.ID, expense2.ID)
	require.NoError(t, err)
}

func TestAddExpenseValidation(t *testing.T) {
	store := newTestStore(t)
	svc := NewProjectService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	mallory := registerUser(t, store, "mallory")

	project, err := svc.Create(ctx, alice.ID, "Trip")
	require.NoError(t, err)

	_, err = svc.AddExpense(ctx, alice.ID, project.ID, "", 10, alice.ID)
	assert.True(t, models.IsValidation(err), "empty description should fail validation")

	_, err = svc.AddExpense(ctx, alice.ID, project.ID, "Ghost charge", -5, alice.ID)
	assert.True(t, models.IsValidation(err), "negative amount should fail validation")

	// Payer must be a member.
	_, err = svc.AddExpense(ctx, alice.ID, project.ID, "Dinner", 20, mallory.ID)
	assert.True(t, models.IsValidation(err))

	// A non-member cannot add expenses at all.
	_, err = svc.AddExpense(ctx, mallory.ID, project.ID, "Dinner", 20, alice.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestSpendingSurvivesRemoval(t *testing.T) {
	store := newTestStore(t)
	svc := NewProjectService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")

	project, err := svc.Create(ctx, alice.ID, "Trip")
	require.NoError(t, err)
	_, err = svc.Share(ctx, alice.ID, project.ID, "bob")
	require.NoError(t, err)

	_, err = svc.AddExpense(ctx, bob.ID, project.ID, "Hotel", 80, bob.ID)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveParticipant(ctx, alice.ID, project.ID, bob.ID))

	detail, err := svc.Detail(ctx, alice.ID, project.ID)
	require.NoError(t, err)

	// Bob's spending remains visible, but he no longer has a balance; the
	// whole cost now splits across the one remaining member.
	assert.InDelta(t, 80, detail.Spending["bob"], 1e-9)
	_, hasBalance := detail.Balances["bob"]
	assert.False(t, hasBalance)
	assert.InDelta(t, -80, detail.Balances["alice"], 1e-9)
}
