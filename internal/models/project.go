package models

import (
	"time"

	"github.com/google/uuid"
)

// Project represents a shared-expense ledger (splitter variant).
type Project struct {
	Resource

	// Expenses are the project's logged expenses in insertion order.
	Expenses []Expense
}

// NewProject constructs a Project with a generated ID and creation
// timestamp. The creator membership is written by the storage layer in the
// same transaction as the project row.
func NewProject(name, creatorID string) *Project {
	return &Project{
		Resource: Resource{
			ID:        uuid.New().String(),
			Name:      name,
			CreatorID: creatorID,
			CreatedAt: time.Now().Unix(),
		},
	}
}

// Expense represents a payment logged against a project.
type Expense struct {
	// ID is the unique identifier (UUID format).
	ID string

	// ProjectID is the owning project.
	ProjectID string

	// Description says what the money was spent on.
	Description string

	// Amount is the non-negative monetary value.
	Amount float64

	// PayerID is the user who paid.
	PayerID string

	// PayerName is the payer's username, denormalized by storage. It stays
	// resolvable even after the payer is removed from the project.
	PayerName string

	// CreatedAt is the Unix timestamp when the expense was logged.
	CreatedAt int64
}

// CanDeleteExpense reports whether userID may delete the given expense:
// the project creator or the expense's own payer. This is deliberately
// narrower than item toggling in the checklist variant, which is open to any
// member.
func (p *Project) CanDeleteExpense(userID string, e Expense) bool {
	return p.CanManage(userID) || e.PayerID == userID
}
