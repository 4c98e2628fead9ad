// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/divvyapps/divvy/internal/models"
)

// UserStore defines user persistence operations.
//
// The single-record getters return (nil, nil) when no matching user exists;
// callers translate that into models.ErrNotFound where appropriate.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, id string) error
}

// ProjectStore defines persistence for the splitter variant.
type ProjectStore interface {
	// CreateProject persists the project and its creator membership in one
	// transaction.
	CreateProject(ctx context.Context, project *models.Project) error

	// GetProject loads the full subtree: memberships and expenses in
	// insertion order. Returns models.ErrNotFound if absent.
	GetProject(ctx context.Context, id string) (*models.Project, error)

	// ListProjectsByMember returns projects the user belongs to (created or
	// participating), without child collections.
	ListProjectsByMember(ctx context.Context, userID string) ([]*models.Project, error)

	// DeleteProject removes the project; expenses and memberships cascade.
	DeleteProject(ctx context.Context, id string) error

	// AddProjectMember inserts a participant membership. Returns
	// models.ErrAlreadyMember on a duplicate (project, user) pair.
	AddProjectMember(ctx context.Context, projectID, userID string) error

	// RemoveProjectMember deletes a membership. Returns models.ErrNotFound
	// if no such membership exists. Historical expenses are untouched.
	RemoveProjectMember(ctx context.Context, projectID, userID string) error

	AddExpense(ctx context.Context, expense *models.Expense) error
	GetExpense(ctx context.Context, id string) (*models.Expense, error)
	DeleteExpense(ctx context.Context, id string) error
}

// ListStore defines persistence for the checklist variant.
type ListStore interface {
	CreateList(ctx context.Context, list *models.List) error
	GetList(ctx context.Context, id string) (*models.List, error)
	ListListsByMember(ctx context.Context, userID string) ([]*models.List, error)
	DeleteList(ctx context.Context, id string) error

	AddListMember(ctx context.Context, listID, userID string) error
	RemoveListMember(ctx context.Context, listID, userID string) error

	AddItem(ctx context.Context, item *models.Item) error
	GetItem(ctx context.Context, id string) (*models.Item, error)

	// UpdateItemTick persists the item's tick state, attribution, and
	// timestamp.
	UpdateItemTick(ctx context.Context, item *models.Item) error
}

// Store is the full persistence surface. The SQLite implementation backs
// both variants with one schema; each binary only exercises its half.
type Store interface {
	UserStore
	ProjectStore
	ListStore

	// Close releases any resources held by the store.
	Close() error
}
