package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/divvyapps/divvy/internal/calculator"
	"github.com/divvyapps/divvy/internal/models"
	"github.com/divvyapps/divvy/internal/storage"
)

// ListService implements the checklist variant's operations.
type ListService struct {
	store storage.Store
}

// NewListService creates a new ListService with the given storage backend.
func NewListService(store storage.Store) *ListService {
	return &ListService{store: store}
}

// ListDetail is the materialized view of one list: its subtree plus the
// per-user tally of ticked items.
type ListDetail struct {
	List      *models.List
	TickTally map[string]int
}

// Dashboard returns the lists the user created or participates in.
func (s *ListService) Dashboard(ctx context.Context, userID string) ([]*models.List, error) {
	return s.store.ListListsByMember(ctx, userID)
}

// Create makes a new list owned by the caller.
func (s *ListService) Create(ctx context.Context, creatorID, name string) (*models.List, error) {
	name = strings.TrimSpace(name)
	if err := validateResourceName(name); err != nil {
		return nil, err
	}

	list := models.NewList(name, creatorID)
	if err := s.store.CreateList(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	slog.Info("List created", "list_id", list.ID, "creator_id", creatorID)
	return list, nil
}

// Detail loads a list with its items and tick tally. Returns
// models.ErrForbidden if the caller is not a member.
func (s *ListService) Detail(ctx context.Context, callerID, listID string) (*ListDetail, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.CanView(callerID) {
		return nil, models.ErrForbidden
	}

	var tickedBy []string
	for _, item := range list.Items {
		if item.Ticked {
			tickedBy = append(tickedBy, item.TickedByName)
		}
	}

	return &ListDetail{
		List:      list,
		TickTally: calculator.TickTally(tickedBy),
	}, nil
}

// AddItem appends an item to the list, attributed to the caller.
func (s *ListService) AddItem(ctx context.Context, callerID, listID, name string) (*models.Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &models.ValidationError{Field: "name", Message: "is required"}
	}

	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.CanView(callerID) {
		return nil, models.ErrForbidden
	}

	item := &models.Item{
		ListID:    listID,
		Name:      name,
		AddedByID: callerID,
	}
	if err := s.store.AddItem(ctx, item); err != nil {
		return nil, err
	}

	slog.Info("Item added", "list_id", listID, "item_id", item.ID, "added_by", callerID)
	return item, nil
}

// ToggleItem flips an item's tick state. Ticking records the actor and the
// current time; unticking clears all attribution regardless of who ticked
// it. Any member of the list may toggle any item — deliberately more open
// than the splitter's expense-deletion rule.
func (s *ListService) ToggleItem(ctx context.Context, actorID, listID, itemID string) (*models.Item, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.CanView(actorID) {
		return nil, models.ErrForbidden
	}

	item, err := s.store.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ListID != listID {
		return nil, fmt.Errorf("item %s not in list %s: %w", itemID, listID, models.ErrNotFound)
	}

	if item.Ticked {
		item.Untick()
	} else {
		item.Tick(actorID, time.Now())
	}

	if err := s.store.UpdateItemTick(ctx, item); err != nil {
		return nil, err
	}

	slog.Info("Item toggled",
		"list_id", listID,
		"item_id", itemID,
		"ticked", item.Ticked,
		"actor_id", actorID,
	)
	return item, nil
}

// Share grants the named user participant access. Only the creator may
// share.
func (s *ListService) Share(ctx context.Context, callerID, listID, username string) (*models.User, error) {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return nil, err
	}
	if !list.CanManage(callerID) {
		return nil, models.ErrForbidden
	}

	user, err := s.store.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %q: %w", username, models.ErrNotFound)
	}

	if err := s.store.AddListMember(ctx, listID, user.ID); err != nil {
		return nil, err
	}

	slog.Info("List shared", "list_id", listID, "with_user_id", user.ID)
	return user, nil
}

// RemoveParticipant revokes a member's access. Only the creator may remove,
// and the creator can never be removed. Items the member added or ticked
// remain.
func (s *ListService) RemoveParticipant(ctx context.Context, callerID, listID, targetUserID string) error {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return err
	}
	if !list.CanManage(callerID) {
		return models.ErrForbidden
	}
	if targetUserID == list.CreatorID {
		return models.ErrCannotRemoveCreator
	}

	if err := s.store.RemoveListMember(ctx, listID, targetUserID); err != nil {
		return err
	}

	slog.Info("Participant removed", "list_id", listID, "user_id", targetUserID)
	return nil
}

// Delete removes the list and cascades to its items and memberships. Only
// the creator may delete.
func (s *ListService) Delete(ctx context.Context, callerID, listID string) error {
	list, err := s.store.GetList(ctx, listID)
	if err != nil {
		return err
	}
	if !list.CanManage(callerID) {
		return models.ErrForbidden
	}

	if err := s.store.DeleteList(ctx, listID); err != nil {
		return err
	}

	slog.Info("List deleted", "list_id", listID)
	return nil
}
