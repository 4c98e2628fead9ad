package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divvyapps/divvy/internal/models"
)

func TestToggleItemRoundTrip(t *testing.T) {
	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")

	list, err := svc.Create(ctx, alice.ID, "Groceries")
	require.NoError(t, err)
	_, err = svc.Share(ctx, alice.ID, list.ID, "bob")
	require.NoError(t, err)

	item, err := svc.AddItem(ctx, alice.ID, list.ID, "Milk")
	require.NoError(t, err)

	// Any member may tick any item, regardless of who added it.
	ticked, err := svc.ToggleItem(ctx, bob.ID, list.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, ticked.Ticked)
	assert.Equal(t, bob.ID, ticked.TickedByID)
	assert.NotZero(t, ticked.TickedAt)

	// Toggling again is a full reset, even from a different actor.
	cleared, err := svc.ToggleItem(ctx, alice.ID, list.ID, item.ID)
	require.NoError(t, err)
	assert.False(t, cleared.Ticked)
	assert.Empty(t, cleared.TickedByID)
	assert.Zero(t, cleared.TickedAt)
}

func TestToggleItemAuthorization(t *testing.T) {
	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	mallory := registerUser(t, store, "mallory")

	list, err := svc.Create(ctx, alice.ID, "Groceries")
	require.NoError(t, err)
	item, err := svc.AddItem(ctx, alice.ID, list.ID, "Milk")
	require.NoError(t, err)

	_, err = svc.ToggleItem(ctx, mallory.ID, list.ID, item.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestToggleItemWrongList(t *testing.T) {
	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")

	groceries, err := svc.Create(ctx, alice.ID, "Groceries")
	require.NoError(t, err)
	chores, err := svc.Create(ctx, alice.ID, "Chores")
	require.NoError(t, err)

	item, err := svc.AddItem(ctx, alice.ID, groceries.ID, "Milk")
	require.NoError(t, err)

	// An item can only be toggled through its own list.
	_, err = svc.ToggleItem(ctx, alice.ID, chores.ID, item.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListTickTally(t *testing.T) {
	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")

	list, err := svc.Create(ctx, alice.ID, "Groceries")
	require.NoError(t, err)
	_, err = svc.Share(ctx, alice.ID, list.ID, "bob")
	require.NoError(t, err)

	for _, name := range []string{"Milk", "Eggs", "Bread"} {
		_, err := svc.AddItem(ctx, alice.ID, list.ID, name)
		require.NoError(t, err)
	}

	detail, err := svc.Detail(ctx, alice.ID, list.ID)
	require.NoError(t, err)
	require.Len(t, detail.List.Items, 3)

	_, err = svc.ToggleItem(ctx, bob.ID, list.ID, detail.List.Items[0].ID)
	require.NoError(t, err)
	_, err = svc.ToggleItem(ctx, bob.ID, list.ID, detail.List.Items[1].ID)
	require.NoError(t, err)
	_, err = svc.ToggleItem(ctx, alice.ID, list.ID, detail.List.Items[2].ID)
	require.NoError(t, err)

	detail, err = svc.Detail(ctx, alice.ID, list.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, detail.TickTally["bob"])
	assert.Equal(t, 1, detail.TickTally["alice"])
}

func TestListShareAndRemoveRules(t *testing.T) {
	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")

	list, err := svc.Create(ctx, alice.ID, "Groceries")
	require.NoError(t, err)

	_, err = svc.Share(ctx, alice.ID, list.ID, "bob")
	require.NoError(t, err)
	_, err = svc.Share(ctx, alice.ID, list.ID, "bob")
	assert.ErrorIs(t, err, models.ErrAlreadyMember)

	err = svc.RemoveParticipant(ctx, alice.ID, list.ID, alice.ID)
	assert.ErrorIs(t, err, models.ErrCannotRemoveCreator)

	err = svc.RemoveParticipant(ctx, bob.ID, list.ID, bob.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	require.NoError(t, svc.RemoveParticipant(ctx, alice.ID, list.ID, bob.ID))
}

func TestDeleteListOnlyCreator(t *testing.T) {
	store := newTestStore(t)
	svc := NewListService(store)
	ctx := context.Background()

	alice := registerUser(t, store, "alice")
	bob := registerUser(t, store, "bob")

	list, err := svc.Create(ctx, alice.ID, "Groceries")
	require.NoError(t, err)
	_, err = svc.Share(ctx, alice.ID, list.ID, "bob")
	require.NoError(t, err)

	err = svc.Delete(ctx, bob.ID, list.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	require.NoError(t, svc.Delete(ctx, alice.ID, list.ID))

	_, err = svc.Detail(ctx, alice.ID, list.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}
